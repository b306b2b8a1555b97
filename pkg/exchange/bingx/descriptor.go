package bingx

import "tukar/pkg/core"

const (
	// ExchangeID is the lowercase venue identifier.
	ExchangeID = "bingx"

	// ProductionURL serves every product line.
	ProductionURL = "https://open-api.bingx.com"
	// SandboxURL is the demo-trading host. It only serves the swap API;
	// spot and wallet calls are rejected locally in sandbox mode.
	SandboxURL = "https://open-api-vst.bingx.com"

	// StreamSpotURL and StreamSwapURL are the market-data websocket hosts.
	// Both compress every frame with gzip.
	StreamSpotURL = "wss://open-api-ws.bingx.com/market"
	StreamSwapURL = "wss://open-api-swap.bingx.com/swap-market"

	// defaultBrokerTag is sent as X-SOURCE-KEY and prefixes generated client
	// order ids unless the config overrides it.
	defaultBrokerTag = "tukar"
)

// Categories of the BingX API. The URL shape is
// host + "/openApi/" + category + "/" + version + "/" + path.
const (
	categorySpot    = "spot"
	categorySwap    = "swap"
	categoryWallets = "wallets"
	categoryAPI     = "api"
)

// newDescriptor builds the static capability declaration. One instance per
// adapter; never mutated after construction.
func newDescriptor() *core.Descriptor {
	return &core.Descriptor{
		ID:          ExchangeID,
		Name:        "BingX",
		Countries:   []string{"SG"},
		RateLimitMS: 100,
		Routes: map[string]map[string]map[string]map[string]map[string]int{
			categorySpot: {
				"v1": {
					core.AccessPublic: {
						"GET": {
							"common/symbols": 2,
							"market/depth":   2,
							"market/trades":  2,
							"market/kline":   2,
							"ticker/24hr":    2,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"account/balance":     2,
							"trade/query":         2,
							"trade/openOrders":    2,
							"trade/historyOrders": 2,
							"trade/myTrades":      2,
						},
						"POST": {
							"trade/order":               2,
							"trade/batchOrders":         2,
							"trade/cancel":              2,
							"trade/cancelOrders":        2,
							"trade/cancelOpenOrders":    2,
							"trade/order/cancelReplace": 2,
						},
					},
				},
			},
			categorySwap: {
				"v2": {
					core.AccessPublic: {
						"GET": {
							"quote/contracts":    1,
							"quote/ticker":       1,
							"quote/depth":        1,
							"quote/trades":       1,
							"quote/premiumIndex": 1,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"trade/order":         2,
							"trade/openOrders":    2,
							"trade/allOrders":     2,
							"trade/allFillOrders": 2,
							"user/positions":      2,
						},
						"POST": {
							"trade/order":       2,
							"trade/batchOrders": 2,
							"trade/leverage":    2,
							"trade/marginType":  2,
						},
						"DELETE": {
							"trade/order":         2,
							"trade/batchOrders":   2,
							"trade/allOpenOrders": 2,
						},
					},
				},
				"v3": {
					core.AccessPublic: {
						"GET": {
							"quote/klines": 1,
						},
					},
					core.AccessPrivate: {
						"GET": {
							"user/balance": 2,
						},
					},
				},
				"v1": {
					core.AccessPrivate: {
						"POST": {
							"trade/cancelReplace": 2,
						},
					},
				},
			},
			categoryWallets: {
				"v1": {
					core.AccessPrivate: {
						"GET": {
							"capital/config/getall": 5,
						},
						"POST": {
							"capital/withdraw/apply": 5,
						},
					},
				},
			},
			categoryAPI: {
				"v3": {
					core.AccessPrivate: {
						"GET": {
							"capital/deposit/hisrec":   5,
							"capital/withdraw/history": 5,
							"asset/transfer":           5,
						},
						"POST": {
							"post/asset/transfer": 5,
						},
					},
				},
			},
		},
		Fees: map[core.MarketType]core.FeeSchedule{
			core.MarketTypeSpot: {
				Maker:      "0.001",
				Taker:      "0.001",
				Percentage: true,
				TierBased:  true,
			},
			core.MarketTypeSwap: {
				Maker:      "0.0002",
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
			core.OpSetMarginMode:   core.CapabilitySupported,
			core.OpTransfer:        core.CapabilitySupported,
			core.OpGetTransfers:    core.CapabilitySupported,
			core.OpGetDeposits:     core.CapabilitySupported,
			core.OpGetWithdrawals:  core.CapabilitySupported,
			core.OpWithdraw:        core.CapabilitySupported,
		},
		Options: core.DescriptorOptions{
			DefaultMarketType: core.MarketTypeSpot,
			RecvWindowMS:      5000,
			BrokerTag:         defaultBrokerTag,
		},
		Exceptions: core.ExceptionTable{
			Exact: map[string]core.ErrorType{
				// HTTP status codes, used when the envelope is missing.
				"400": core.ErrorTypeBadRequest,
				"401": core.ErrorTypeAuthentication,
				"403": core.ErrorTypePermissionDenied,
				"404": core.ErrorTypeBadRequest,
				"418": core.ErrorTypePermissionDenied,
				"429": core.ErrorTypeRateLimit,

				// Venue error codes from the response envelope.
				"100001": core.ErrorTypeAuthentication,
				"100412": core.ErrorTypeAuthentication,
				"100202": core.ErrorTypeInsufficientFunds,
				"101204": core.ErrorTypeInsufficientFunds,
				"100204": core.ErrorTypeBadRequest,
				"100400": core.ErrorTypeBadRequest,
				"100437": core.ErrorTypeBadRequest,
				"80001":  core.ErrorTypeBadRequest,
				"80014":  core.ErrorTypeBadRequest,
				"100421": core.ErrorTypeBadSymbol,
				"80012":  core.ErrorTypeExchangeNotAvailable,
				"80016":  core.ErrorTypeOrderNotFound,
				"80017":  core.ErrorTypeOrderNotFound,
				"100414": core.ErrorTypeAccountSuspended,
				"100419": core.ErrorTypePermissionDenied,
				"100410": core.ErrorTypeRateLimit,
			},
			Broad: map[string]core.ErrorType{
				"Insufficient assets":  core.ErrorTypeInsufficientFunds,
				"illegal transferType": core.ErrorTypeBadRequest,
			},
		},
	}
}
