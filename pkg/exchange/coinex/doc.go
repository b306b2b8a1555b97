// Package coinex implements the CoinEx exchange adapter over the v2 REST
// API. It covers spot and linear futures trading.
//
// Authentication uses the v2 header scheme: the signature is an HMAC-SHA256
// over method, path, body and timestamp, carried in X-COINEX-KEY,
// X-COINEX-SIGN and X-COINEX-TIMESTAMP.
package coinex
