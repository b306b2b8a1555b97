package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchangeError_Error(t *testing.T) {
	err := NewExchangeErrorWithCode("bingx", ErrorTypeRateLimit, 429, "100410", "too many requests")
	assert.Equal(t, "[bingx] RATE_LIMIT (100410): too many requests", err.Error())

	plain := NewExchangeError("coinex", ErrorTypeBadSymbol, "unknown market")
	assert.Equal(t, "[coinex] BAD_SYMBOL: unknown market", plain.Error())
}

func TestIsErrorType(t *testing.T) {
	err := NewExchangeError("bingx", ErrorTypeInvalidOrder, "bad order")

	assert.True(t, IsErrorType(err, ErrorTypeInvalidOrder))
	assert.False(t, IsErrorType(err, ErrorTypeRateLimit))

	// Works through wrapping.
	wrapped := fmt.Errorf("place order: %w", err)
	assert.True(t, IsErrorType(wrapped, ErrorTypeInvalidOrder))

	assert.False(t, IsErrorType(errors.New("plain"), ErrorTypeInvalidOrder))
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsNotSupported(NotSupported("coinex", "trailing stops")))
	assert.True(t, IsRateLimitError(NewExchangeError("bingx", ErrorTypeRateLimit, "slow down")))
	assert.True(t, IsAuthenticationError(NewExchangeError("bingx", ErrorTypeAuthentication, "bad signature")))
	assert.True(t, IsErrorType(ArgumentsRequired("bingx", "symbol is required"), ErrorTypeArgumentsRequired))
	assert.True(t, IsErrorType(BadSymbol("bingx", "DOGE/USDT"), ErrorTypeBadSymbol))
}

func TestIsTerminalError(t *testing.T) {
	assert.True(t, IsTerminalError(NewExchangeError("bingx", ErrorTypeInsufficientFunds, "")))
	assert.True(t, IsTerminalError(NewExchangeError("bingx", ErrorTypeBadRequest, "")))
	assert.False(t, IsTerminalError(NewExchangeError("bingx", ErrorTypeRateLimit, "")))
	assert.False(t, IsTerminalError(NewExchangeError("bingx", ErrorTypeExchangeNotAvailable, "")))
	assert.False(t, IsTerminalError(errors.New("plain")))
}

func TestCredentials_Empty(t *testing.T) {
	var nilCreds *Credentials
	assert.True(t, nilCreds.Empty())
	assert.True(t, (&Credentials{APIKey: "key"}).Empty())
	assert.True(t, (&Credentials{SecretKey: "secret"}).Empty())
	assert.False(t, (&Credentials{APIKey: "key", SecretKey: "secret"}).Empty())
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig("bingx")
	require.NoError(t, cfg.Validate())

	missing := DefaultConfig("")
	assert.Error(t, missing.Validate())

	broken := DefaultConfig("bingx")
	broken.CircuitBreakerFailThreshold = 0
	assert.Error(t, broken.Validate())
}
