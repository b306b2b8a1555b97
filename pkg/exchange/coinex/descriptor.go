package coinex

import "tukar/pkg/core"

const (
	// ExchangeID is the lowercase venue identifier.
	ExchangeID = "coinex"

	// ProductionURL serves the whole v2 API. The venue has no testnet.
	ProductionURL = "https://api.coinex.com"

	// defaultBrokerTag prefixes generated client order ids unless the config
	// overrides it.
	defaultBrokerTag = "tukar"
)

// Categories of the v2 API. The URL shape is host + "/v2/" + category + "/" + path.
const (
	categorySpot    = "spot"
	categoryFutures = "futures"
	categoryAssets  = "assets"
)

func newDescriptor() *core.Descriptor {
	return &core.Descriptor{
		ID:          ExchangeID,
		Name:        "CoinEx",
		Countries:   []string{"CN"},
		RateLimitMS: 50,
		Routes: map[string]map[string]map[string]map[string]map[string]int{
			categorySpot: {
				"v2": {
					core.AccessPublic: {
						"GET": {
							"market": 1,
							"ticker": 1,
							"depth":  1,
							"deals":  1,
							"kline":  1,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"order-status":   2,
							"pending-order":  2,
							"finished-order": 2,
							"user-deals":     2,
						},
						"POST": {
							"order":                     2,
							"stop-order":                2,
							"batch-order":               4,
							"cancel-order":              2,
							"cancel-order-by-client-id": 2,
							"cancel-batch-order":        4,
							"cancel-all-order":          4,
							"modify-order":              2,
						},
					},
				},
			},
			categoryFutures: {
				"v2": {
					core.AccessPublic: {
						"GET": {
							"market":       1,
							"ticker":       1,
							"depth":        1,
							"deals":        1,
							"kline":        1,
							"funding-rate": 1,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"order-status":     2,
							"pending-order":    2,
							"finished-order":   2,
							"user-deals":       2,
							"pending-position": 2,
						},
						"POST": {
							"order":                     2,
							"stop-order":                2,
							"batch-order":               4,
							"cancel-order":              2,
							"cancel-order-by-client-id": 2,
							"cancel-batch-order":        4,
							"cancel-all-order":          4,
							"modify-order":              2,
							"adjust-position-leverage":  2,
						},
					},
				},
			},
			categoryAssets: {
				"v2": {
					core.AccessPublic: {
						"GET": {
							"all-deposit-withdraw-config": 5,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"spot/balance":     2,
							"futures/balance":  2,
							"deposit-history":  5,
							"withdraw":         5,
							"transfer-history": 5,
						},
						"POST": {
							"transfer": 5,
							"withdraw": 5,
						},
					},
				},
			},
		},
		Fees: map[core.MarketType]core.FeeSchedule{
			core.MarketTypeSpot: {
				Maker:      "0.002",
				Taker:      "0.002",
				Percentage: true,
				TierBased:  true,
			},
			core.MarketTypeSwap: {
				Maker:      "0.0003",
				Taker:      "0.0005",
				Percentage: true,
				TierBased:  true,
			},
		},
		Has: map[core.Operation]core.Capability{
			core.OpGetMarkets:      core.CapabilitySupported,
			core.OpGetCurrencies:   core.CapabilitySupported,
			core.OpGetTicker:       core.CapabilitySupported,
			core.OpGetTickers:      core.CapabilitySupported,
			core.OpGetOrderBook:    core.CapabilitySupported,
			core.OpGetKlines:       core.CapabilitySupported,
			core.OpGetTrades:       core.CapabilitySupported,
			core.OpGetFundingRate:  core.CapabilitySupported,
			core.OpGetBalance:      core.CapabilitySupported,
			core.OpPlaceOrder:      core.CapabilitySupported,
			core.OpPlaceOrders:     core.CapabilitySupported,
			core.OpCancelOrder:     core.CapabilitySupported,
			core.OpCancelOrders:    core.CapabilitySupported,
			core.OpCancelAllOrders: core.CapabilitySupported,
			core.OpAmendOrder:      core.CapabilitySupported,
			core.OpGetOrder:        core.CapabilitySupported,
			core.OpGetOpenOrders:   core.CapabilitySupported,
			core.OpGetClosedOrders: core.CapabilitySupported,
			core.OpGetMyTrades:     core.CapabilitySupported,
			core.OpGetPositions:    core.CapabilitySupported,
			core.OpSetLeverage:     core.CapabilitySupported,
			// Margin mode rides on the same endpoint as leverage, so both
			// calls are native.
			core.OpSetMarginMode:  core.CapabilitySupported,
			core.OpTransfer:       core.CapabilitySupported,
			core.OpGetTransfers:   core.CapabilitySupported,
			core.OpGetDeposits:    core.CapabilitySupported,
			core.OpGetWithdrawals: core.CapabilitySupported,
			core.OpWithdraw:       core.CapabilitySupported,
		},
		Options: core.DescriptorOptions{
			DefaultMarketType: core.MarketTypeSpot,
			BrokerTag:         defaultBrokerTag,
		},
		Exceptions: core.ExceptionTable{
			Exact: map[string]core.ErrorType{
				"23":  core.ErrorTypePermissionDenied,
				"24":  core.ErrorTypeAuthentication,
				"25":  core.ErrorTypeAuthentication,
				"34":  core.ErrorTypeAuthentication,
				"35":  core.ErrorTypeExchangeNotAvailable,
				"36":  core.ErrorTypeTimeout,
				"107": core.ErrorTypeInsufficientFunds,
				"213": core.ErrorTypeRateLimit,
				"600": core.ErrorTypeOrderNotFound,
				"601": core.ErrorTypeInvalidOrder,
				"602": core.ErrorTypeInvalidOrder,
				"606": core.ErrorTypeInvalidOrder,

				"3008": core.ErrorTypeExchangeNotAvailable,
				"4001": core.ErrorTypeBadSymbol,
				"4213": core.ErrorTypeRateLimit,
			},
			Broad: map[string]core.ErrorType{
				"ip not allow visit":  core.ErrorTypePermissionDenied,
				"balance not enough":  core.ErrorTypeInsufficientFunds,
				"order not found":     core.ErrorTypeOrderNotFound,
				"service unavailable": core.ErrorTypeExchangeNotAvailable,
			},
		},
	}
}
