package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDescriptor() *Descriptor {
	return &Descriptor{
		ID:          "testvenue",
		RateLimitMS: 50,
		Routes: map[string]map[string]map[string]map[string]map[string]int{
			"spot": {
				"v1": {
					AccessPublic: {
						http.MethodGet: {"ticker": 1, "depth": 5},
					},
					AccessPrivate: {
						http.MethodPost: {"order": 2},
					},
				},
			},
		},
		Has: map[Operation]Capability{
			OpGetTicker:  CapabilitySupported,
			OpPlaceOrder: CapabilitySupported,
			OpTransfer:   CapabilityEmulated,
			OpWithdraw:   CapabilityUnsupported,
		},
		Exceptions: ExceptionTable{
			Exact: map[string]ErrorType{
				"100010":                  ErrorTypeRateLimit,
				"Order does not exist":    ErrorTypeOrderNotFound,
				"insufficient balance of": ErrorTypeBadRequest,
			},
			Broad: map[string]ErrorType{
				"insufficient": ErrorTypeInsufficientFunds,
			},
		},
	}
}

func TestDescriptor_Weight(t *testing.T) {
	d := testDescriptor()

	w, ok := d.Weight(Route{Category: "spot", Version: "v1", Access: AccessPublic, Method: http.MethodGet, Path: "depth"})
	require.True(t, ok)
	assert.Equal(t, 5, w)

	_, ok = d.Weight(Route{Category: "spot", Version: "v1", Access: AccessPublic, Method: http.MethodGet, Path: "nope"})
	assert.False(t, ok)

	_, ok = d.Weight(Route{Category: "swap", Version: "v1", Access: AccessPublic, Method: http.MethodGet, Path: "ticker"})
	assert.False(t, ok)
}

func TestDescriptor_Supports(t *testing.T) {
	d := testDescriptor()

	assert.True(t, d.Supports(OpGetTicker))
	assert.True(t, d.Supports(OpTransfer))
	assert.False(t, d.Supports(OpWithdraw))
	assert.False(t, d.Supports(OpGetPositions))
}

func TestDescriptor_DeclaredRoutes(t *testing.T) {
	routes := testDescriptor().DeclaredRoutes()
	assert.Len(t, routes, 3)
	assert.Contains(t, routes, Route{Category: "spot", Version: "v1", Access: AccessPrivate, Method: http.MethodPost, Path: "order"})
}

func TestExceptionTable_Classify(t *testing.T) {
	table := testDescriptor().Exceptions

	tests := []struct {
		name    string
		code    string
		message string
		want    ErrorType
	}{
		{"exact message wins over broad", "", "Order does not exist", ErrorTypeOrderNotFound},
		{"exact code", "100010", "some text", ErrorTypeRateLimit},
		{"exact message wins over exact code", "100010", "Order does not exist", ErrorTypeOrderNotFound},
		{"exact message wins over broad substring", "", "insufficient balance of", ErrorTypeBadRequest},
		{"broad substring", "999", "insufficient margin", ErrorTypeInsufficientFunds},
		{"unmatched", "999", "something else", ErrorTypeUnknown},
		{"empty", "", "", ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Classify(tt.code, tt.message))
		})
	}
}
