package core

import (
	"context"

	"resty.dev/v3"
)

// Protocol is the exchange-specific half of an adapter: request building,
// signing and response normalization. One implementation per venue; the
// exchange layer composes it with the shared transport, limiter and key ring.
type Protocol interface {
	// Name returns the exchange identifier (e.g. "bingx", "coinex").
	Name() string

	// Descriptor returns the static capability declaration.
	Descriptor() *Descriptor

	// BaseURL returns the API host for the given route category. Sandbox
	// mode returns the venue's testnet host where one exists.
	BaseURL(category string, sandbox bool) string

	// BuildRequest constructs the exchange request for one unified
	// operation. Pure transform: it validates arguments, maps unified
	// fields to venue vocabulary and quantizes amounts/prices, but performs
	// no I/O.
	BuildRequest(ctx context.Context, op Operation, params Params) (*Request, error)

	// SignRequest canonicalizes the request parameters, computes the venue's
	// signature with the given nonce (wall-clock milliseconds in production)
	// and attaches auth material. Deterministic: identical request, secret
	// and nonce always produce the identical signature. Fails fast on
	// missing credentials, before any network call.
	SignRequest(req *Request, creds Credentials, nonce int64) error

	// ParseResponse classifies the response envelope first and only then
	// normalizes the payload into the canonical type for the operation. An
	// error response is never parsed as a success payload.
	ParseResponse(op Operation, resp *resty.Response) (any, error)
}
