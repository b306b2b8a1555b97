package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType categorizes an exchange error into the shared taxonomy.
type ErrorType int

// Error type constants. Classification happens once, immediately after
// receiving a response envelope, before any field parsing is attempted.
const (
	// ErrorTypeUnknown indicates an unclassified non-zero response code.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork indicates a network connectivity issue.
	ErrorTypeNetwork
	// ErrorTypeTimeout indicates the request exceeded its deadline.
	ErrorTypeTimeout
	// ErrorTypeRateLimit indicates the rate limit was exceeded or DDoS
	// protection engaged.
	ErrorTypeRateLimit
	// ErrorTypeAuthentication indicates bad or missing credentials, or a
	// rejected signature.
	ErrorTypeAuthentication
	// ErrorTypePermissionDenied indicates the account is authenticated but
	// the action is disallowed.
	ErrorTypePermissionDenied
	// ErrorTypeAccountSuspended indicates the account is blocked by the venue.
	ErrorTypeAccountSuspended
	// ErrorTypeArgumentsRequired indicates a missing mandatory call argument.
	ErrorTypeArgumentsRequired
	// ErrorTypeBadRequest indicates malformed request parameters.
	ErrorTypeBadRequest
	// ErrorTypeBadSymbol indicates an unknown or restricted market.
	ErrorTypeBadSymbol
	// ErrorTypeInsufficientFunds indicates the account lacks required balance.
	ErrorTypeInsufficientFunds
	// ErrorTypeInvalidOrder indicates the order violates exchange rules.
	ErrorTypeInvalidOrder
	// ErrorTypeOrderNotFound indicates the referenced order does not exist.
	ErrorTypeOrderNotFound
	// ErrorTypeExchangeNotAvailable indicates a transient remote failure.
	ErrorTypeExchangeNotAvailable
	// ErrorTypeNotSupported indicates the capability is genuinely absent on
	// this exchange.
	ErrorTypeNotSupported
)

// String returns the string representation of the error type.
func (t ErrorType) String() string {
	return [...]string{
		"UNKNOWN",
		"NETWORK",
		"TIMEOUT",
		"RATE_LIMIT",
		"AUTHENTICATION",
		"PERMISSION_DENIED",
		"ACCOUNT_SUSPENDED",
		"ARGUMENTS_REQUIRED",
		"BAD_REQUEST",
		"BAD_SYMBOL",
		"INSUFFICIENT_FUNDS",
		"INVALID_ORDER",
		"ORDER_NOT_FOUND",
		"EXCHANGE_NOT_AVAILABLE",
		"NOT_SUPPORTED",
	}[t]
}

// Sentinel errors for local conditions that never reach the wire.
var (
	// ErrClientClosed is returned when attempting to use a closed client.
	ErrClientClosed = errors.New("client is closed")
	// ErrCircuitBreakerOpen is returned when the circuit breaker is open.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open")
	// ErrNoCredentials is returned before any network call when a private
	// endpoint is invoked without credentials configured.
	ErrNoCredentials = errors.New("no credentials configured")
	// ErrNoAPIKey is returned when the key ring has no usable key.
	ErrNoAPIKey = errors.New("no available API key")
	// ErrMarketsNotLoaded is returned when a symbol lookup happens before
	// LoadMarkets.
	ErrMarketsNotLoaded = errors.New("markets not loaded")
)

// ExchangeError is a structured error from an exchange. Every message is
// prefixed with the exchange id and carries the raw remote message so callers
// can debug against the venue without the HTTP trace.
type ExchangeError struct {
	// Type categorizes the error for programmatic handling.
	Type ErrorType `json:"type"`
	// StatusCode is the HTTP status code from the response, when applicable.
	StatusCode int `json:"status_code,omitempty"`
	// Code is the exchange-specific error code.
	Code string `json:"code,omitempty"`
	// Message is the human-readable error description, usually the raw
	// remote message.
	Message string `json:"message"`
	// Exchange identifies which exchange produced this error.
	Exchange string `json:"exchange"`
	// Timestamp is when the error occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Error implements the error interface. The exchange id always leads.
func (e *ExchangeError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("[%s] %s (%s): %s", e.Exchange, e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Exchange, e.Type, e.Message)
}

// NewExchangeError creates an ExchangeError without a venue code.
func NewExchangeError(exchange string, errorType ErrorType, message string) *ExchangeError {
	return &ExchangeError{
		Type:      errorType,
		Message:   message,
		Exchange:  exchange,
		Timestamp: time.Now(),
	}
}

// NewExchangeErrorWithCode creates an ExchangeError carrying the venue's own
// error code and the HTTP status it arrived with.
func NewExchangeErrorWithCode(exchange string, errorType ErrorType, statusCode int, code, message string) *ExchangeError {
	return &ExchangeError{
		Type:       errorType,
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Exchange:   exchange,
		Timestamp:  time.Now(),
	}
}

// NotSupported builds the error every unimplemented capability returns.
func NotSupported(exchange, method string) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeNotSupported, method+" is not supported by this exchange")
}

// ArgumentsRequired builds the error for a missing mandatory call argument.
func ArgumentsRequired(exchange, message string) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeArgumentsRequired, message)
}

// BadSymbol builds the error for an unknown market symbol.
func BadSymbol(exchange, symbol string) *ExchangeError {
	return NewExchangeError(exchange, ErrorTypeBadSymbol, "unknown market symbol "+symbol)
}

// IsErrorType reports whether err is an ExchangeError of the given kind.
func IsErrorType(err error, t ErrorType) bool {
	var exErr *ExchangeError
	if errors.As(err, &exErr) {
		return exErr.Type == t
	}
	return false
}

// IsRateLimitError reports whether the error is a rate limit violation.
func IsRateLimitError(err error) bool { return IsErrorType(err, ErrorTypeRateLimit) }

// IsAuthenticationError reports whether the error is an authentication failure.
func IsAuthenticationError(err error) bool { return IsErrorType(err, ErrorTypeAuthentication) }

// IsNotSupported reports whether the error marks an absent capability.
func IsNotSupported(err error) bool { return IsErrorType(err, ErrorTypeNotSupported) }

// IsTerminalError reports whether retrying the same call cannot succeed.
func IsTerminalError(err error) bool {
	var exErr *ExchangeError
	if !errors.As(err, &exErr) {
		return false
	}
	switch exErr.Type {
	case ErrorTypeInsufficientFunds, ErrorTypeInvalidOrder, ErrorTypeOrderNotFound,
		ErrorTypeBadRequest, ErrorTypeBadSymbol, ErrorTypeArgumentsRequired,
		ErrorTypeNotSupported, ErrorTypePermissionDenied, ErrorTypeAccountSuspended:
		return true
	default:
		return false
	}
}
