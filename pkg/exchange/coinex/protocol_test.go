package coinex

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"resty.dev/v3"

	"tukar/pkg/core"
	"tukar/pkg/exchange"
)

func testMarkets() []*core.Market {
	return []*core.Market{
		{
			ID:      "BTCUSDT",
			Symbol:  "BTC/USDT",
			Base:    "BTC",
			Quote:   "USDT",
			BaseID:  "BTC",
			QuoteID: "USDT",
			Type:    core.MarketTypeSpot,
			Active:  true,
			Precision: core.MarketPrecision{
				Mode:         core.PrecisionDecimalPlaces,
				PricePlaces:  2,
				AmountPlaces: 4,
			},
		},
		{
			ID:       "BTCUSDT",
			Symbol:   "BTC/USDT:USDT",
			Base:     "BTC",
			Quote:    "USDT",
			Settle:   "USDT",
			BaseID:   "BTC",
			QuoteID:  "USDT",
			SettleID: "USDT",
			Type:     core.MarketTypeSwap,
			Active:   true,
			Linear:   true,
			Precision: core.MarketPrecision{
				Mode:         core.PrecisionDecimalPlaces,
				PricePlaces:  1,
				AmountPlaces: 4,
			},
		},
	}
}

func newTestProtocol(t *testing.T) *Protocol {
	t.Helper()
	cache := exchange.NewMarketCache()
	cache.Replace(testMarkets())
	p := NewProtocol(core.DefaultConfig(ExchangeID), cache)
	p.normalizer.Index(testMarkets())
	return p
}

// serveResponse runs one request through a real transport so ParseResponse
// sees the same resty plumbing production uses.
func serveResponse(t *testing.T, status int, body string) *resty.Response {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	client := resty.New()
	t.Cleanup(func() { _ = client.Close() })

	resp, err := client.R().Get(srv.URL)
	require.NoError(t, err)
	return resp
}

func TestProtocol_Name(t *testing.T) {
	p := newTestProtocol(t)
	assert.Equal(t, "coinex", p.Name())
}

func TestProtocol_BaseURL_IgnoresSandbox(t *testing.T) {
	p := newTestProtocol(t)
	assert.Equal(t, ProductionURL, p.BaseURL(categorySpot, false))
	assert.Equal(t, ProductionURL, p.BaseURL(categoryFutures, true))
}

func TestURLPath(t *testing.T) {
	r := core.Route{Category: categorySpot, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "ticker"}
	assert.Equal(t, "/v2/spot/ticker", URLPath(r))
}

func TestProtocol_BuildRequest_GetTicker(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpGetTicker, core.Params{"symbol": "BTC/USDT"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, categorySpot, req.Route.Category)
	assert.Equal(t, "ticker", req.Route.Path)
	assert.Equal(t, "BTCUSDT", req.Query["market"])
	assert.False(t, req.RequireAuth)
}

func TestProtocol_BuildRequest_GetTicker_Futures(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpGetTicker, core.Params{"symbol": "BTC/USDT:USDT"})
	require.NoError(t, err)

	assert.Equal(t, categoryFutures, req.Route.Category)
	assert.Equal(t, "BTCUSDT", req.Query["market"])
}

func TestProtocol_BuildRequest_GetOrderBook_Defaults(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpGetOrderBook, core.Params{"symbol": "BTC/USDT"})
	require.NoError(t, err)

	assert.Equal(t, 20, req.Query["limit"])
	assert.Equal(t, "0", req.Query["interval"])
}

func TestProtocol_BuildRequest_GetKlines_PeriodMapping(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpGetKlines, core.Params{"symbol": "BTC/USDT", "interval": "1h"})
	require.NoError(t, err)
	assert.Equal(t, "1hour", req.Query["period"])

	req, err = p.BuildRequest(ctx, core.OpGetKlines, core.Params{"symbol": "BTC/USDT"})
	require.NoError(t, err)
	assert.Equal(t, "1min", req.Query["period"])
}

func TestProtocol_BuildRequest_GetKlines_UnsupportedInterval(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpGetKlines, core.Params{"symbol": "BTC/USDT", "interval": "2m"})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeBadRequest))
}

func TestProtocol_BuildRequest_GetFundingRate_SpotRejected(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpGetFundingRate, core.Params{"symbol": "BTC/USDT"})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeBadSymbol))
}

func TestProtocol_BuildRequest_GetBalance(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	spot, err := p.BuildRequest(ctx, core.OpGetBalance, core.Params{})
	require.NoError(t, err)
	assert.Equal(t, "spot/balance", spot.Route.Path)
	assert.Equal(t, categoryAssets, spot.Route.Category)
	assert.True(t, spot.RequireAuth)

	futures, err := p.BuildRequest(ctx, core.OpGetBalance, core.Params{"marketType": core.MarketTypeSwap})
	require.NoError(t, err)
	assert.Equal(t, "futures/balance", futures.Route.Path)
}

func TestProtocol_BuildRequest_PlaceOrder_SpotLimit(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	order := &exchange.OrderRequest{
		Symbol:   "BTC/USDT",
		Side:     core.SideBuy,
		Type:     core.TypeLimit,
		Quantity: core.MustDecimal("0.12349"),
		Price:    core.MustDecimal("50000.129"),
	}
	req, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Params{"order": order})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "order", req.Route.Path)
	assert.True(t, req.RequireAuth)
	assert.Equal(t, "BTCUSDT", req.Body["market"])
	assert.Equal(t, "SPOT", req.Body["market_type"])
	assert.Equal(t, "buy", req.Body["side"])
	assert.Equal(t, "limit", req.Body["type"])
	assert.Equal(t, "0.1234", req.Body["amount"])
	assert.Equal(t, "50000.12", req.Body["price"])
	assert.Contains(t, req.Body["client_id"], "tukar_")
}

func TestProtocol_BuildRequest_PlaceOrder_PostOnly(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	order := &exchange.OrderRequest{
		Symbol:   "BTC/USDT",
		Side:     core.SideSell,
		Type:     core.TypeLimit,
		Quantity: core.MustDecimal("0.01"),
		Price:    core.MustDecimal("50000"),
		PostOnly: true,
	}
	req, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Params{"order": order})
	require.NoError(t, err)
	assert.Equal(t, "maker_only", req.Body["type"])
}

func TestProtocol_BuildRequest_PlaceOrder_Trigger(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	order := &exchange.OrderRequest{
		Symbol:       "BTC/USDT:USDT",
		Side:         core.SideBuy,
		Type:         core.TypeMarket,
		Quantity:     core.MustDecimal("0.01"),
		TriggerPrice: core.MustDecimal("50000.19"),
	}
	req, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Params{"order": order})
	require.NoError(t, err)

	assert.Equal(t, "stop-order", req.Route.Path)
	assert.Equal(t, categoryFutures, req.Route.Category)
	assert.Equal(t, "FUTURES", req.Body["market_type"])
	assert.Equal(t, "50000.1", req.Body["trigger_price"])
	assert.Equal(t, "latest_price", req.Body["trigger_price_type"])
}

func TestProtocol_BuildRequest_PlaceOrder_SpotMarketByQuote(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	order := &exchange.OrderRequest{
		Symbol:        "BTC/USDT",
		Side:          core.SideBuy,
		Type:          core.TypeMarket,
		QuoteQuantity: core.MustDecimal("100"),
	}
	req, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Params{"order": order})
	require.NoError(t, err)

	assert.Equal(t, "market", req.Body["type"])
	assert.Equal(t, "100", req.Body["amount"])
	assert.Equal(t, "USDT", req.Body["ccy"])
}

func TestProtocol_BuildRequest_PlaceOrder_UnsupportedShapes(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		order *exchange.OrderRequest
	}{
		{"protective stop loss", &exchange.OrderRequest{
			Symbol: "BTC/USDT:USDT", Side: core.SideSell, Type: core.TypeMarket,
			Quantity: core.MustDecimal("0.01"), StopLossPrice: core.MustDecimal("48000"),
		}},
		{"attached leg", &exchange.OrderRequest{
			Symbol: "BTC/USDT:USDT", Side: core.SideBuy, Type: core.TypeLimit,
			Quantity: core.MustDecimal("0.01"), Price: core.MustDecimal("50000"),
			TakeProfit: &exchange.AttachedOrder{TriggerPrice: core.MustDecimal("52000")},
		}},
		{"trailing stop", &exchange.OrderRequest{
			Symbol: "BTC/USDT:USDT", Side: core.SideSell, Type: core.TypeMarket,
			Quantity: core.MustDecimal("0.01"), TrailingPercent: core.MustDecimal("1"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.BuildRequest(ctx, core.OpPlaceOrder, core.Params{"order": tt.order})
			require.Error(t, err)
			assert.True(t, core.IsNotSupported(err))
		})
	}
}

func TestProtocol_BuildRequest_PlaceOrders_SymbolMismatch(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	orders := []*exchange.OrderRequest{
		{Symbol: "BTC/USDT", Side: core.SideBuy, Type: core.TypeLimit, Quantity: core.MustDecimal("0.01"), Price: core.MustDecimal("50000")},
		{Symbol: "BTC/USDT:USDT", Side: core.SideBuy, Type: core.TypeLimit, Quantity: core.MustDecimal("0.01"), Price: core.MustDecimal("50000")},
	}
	_, err := p.BuildRequest(ctx, core.OpPlaceOrders, core.Params{"orders": orders})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeBadRequest))
}

func TestProtocol_BuildRequest_PlaceOrders_TriggerRejected(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	orders := []*exchange.OrderRequest{
		{Symbol: "BTC/USDT", Side: core.SideBuy, Type: core.TypeLimit,
			Quantity: core.MustDecimal("0.01"), Price: core.MustDecimal("50000"),
			TriggerPrice: core.MustDecimal("49000")},
	}
	_, err := p.BuildRequest(ctx, core.OpPlaceOrders, core.Params{"orders": orders})
	require.Error(t, err)
	assert.True(t, core.IsNotSupported(err))
}

func TestProtocol_BuildRequest_CancelOrder_NumericID(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	cancel := &exchange.CancelRequest{Symbol: "BTC/USDT", OrderID: "123456"}
	req, err := p.BuildRequest(ctx, core.OpCancelOrder, core.Params{"cancel": cancel})
	require.NoError(t, err)

	assert.Equal(t, "cancel-order", req.Route.Path)
	assert.Equal(t, int64(123456), req.Body["order_id"])
}

func TestProtocol_BuildRequest_CancelOrder_NonNumericID(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	cancel := &exchange.CancelRequest{Symbol: "BTC/USDT", OrderID: "abc"}
	_, err := p.BuildRequest(ctx, core.OpCancelOrder, core.Params{"cancel": cancel})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeBadRequest))
}

func TestProtocol_BuildRequest_CancelOrder_ByClientID(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	cancel := &exchange.CancelRequest{Symbol: "BTC/USDT", ClientOrderID: "tukar_abc"}
	req, err := p.BuildRequest(ctx, core.OpCancelOrder, core.Params{"cancel": cancel})
	require.NoError(t, err)

	assert.Equal(t, "cancel-order-by-client-id", req.Route.Path)
	assert.Equal(t, "tukar_abc", req.Body["client_id"])
}

func TestProtocol_BuildRequest_GetOrder_RequiresOrderID(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	query := &exchange.OrderQuery{Symbol: "BTC/USDT", ClientOrderID: "tukar_abc"}
	_, err := p.BuildRequest(ctx, core.OpGetOrder, core.Params{"query": query})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeArgumentsRequired))
}

func TestProtocol_BuildRequest_SetLeverage(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	req, err := p.BuildRequest(ctx, core.OpSetLeverage, core.Params{
		"symbol":   "BTC/USDT:USDT",
		"leverage": 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "adjust-position-leverage", req.Route.Path)
	assert.Equal(t, "cross", req.Body["margin_mode"])
	assert.Equal(t, 10, req.Body["leverage"])
}

func TestProtocol_BuildRequest_SetMarginMode_RequiresLeverage(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpSetMarginMode, core.Params{
		"symbol":     "BTC/USDT:USDT",
		"marginMode": core.MarginModeIsolated,
	})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeArgumentsRequired))

	req, err := p.BuildRequest(ctx, core.OpSetMarginMode, core.Params{
		"symbol":     "BTC/USDT:USDT",
		"marginMode": core.MarginModeIsolated,
		"leverage":   5,
	})
	require.NoError(t, err)
	assert.Equal(t, "isolated", req.Body["margin_mode"])
	assert.Equal(t, 5, req.Body["leverage"])
}

func TestProtocol_BuildRequest_SetLeverage_SpotRejected(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpSetLeverage, core.Params{"symbol": "BTC/USDT", "leverage": 10})
	require.Error(t, err)
	assert.True(t, core.IsNotSupported(err))
}

func TestProtocol_BuildRequest_GetDeposits_RequiresAsset(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpGetDeposits, core.Params{})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeArgumentsRequired))

	req, err := p.BuildRequest(ctx, core.OpGetDeposits, core.Params{"asset": "USDT"})
	require.NoError(t, err)
	assert.Equal(t, "USDT", req.Query["ccy"])
}

func TestProtocol_BuildRequest_GetTransfers_RequiresAsset(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	_, err := p.BuildRequest(ctx, core.OpGetTransfers, core.Params{})
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypeArgumentsRequired))

	req, err := p.BuildRequest(ctx, core.OpGetTransfers, core.Params{"asset": "USDT", "limit": 20})
	require.NoError(t, err)
	assert.Equal(t, "transfer-history", req.Route.Path)
	assert.Equal(t, "USDT", req.Query["ccy"])
	assert.Equal(t, 20, req.Query["limit"])
}

func TestProtocol_BuildRequest_Withdraw_TagInAddress(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	withdraw := &exchange.WithdrawRequest{
		Asset:   "XRP",
		Amount:  core.MustDecimal("25"),
		Address: "rAddress",
		Tag:     "12345",
		Network: "XRP",
	}
	req, err := p.BuildRequest(ctx, core.OpWithdraw, core.Params{"withdraw": withdraw})
	require.NoError(t, err)

	assert.Equal(t, "rAddress:12345", req.Body["to_address"])
	assert.Equal(t, "XRP", req.Body["chain"])
}

func TestProtocol_BuildRequest_RoutesDeclared(t *testing.T) {
	p := newTestProtocol(t)
	ctx := context.Background()

	spot := core.Params{"symbol": "BTC/USDT"}
	futures := core.Params{"symbol": "BTC/USDT:USDT"}
	order := func(symbol string, trigger bool) *exchange.OrderRequest {
		o := &exchange.OrderRequest{
			Symbol:   symbol,
			Side:     core.SideBuy,
			Type:     core.TypeLimit,
			Quantity: core.MustDecimal("0.001"),
			Price:    core.MustDecimal("50000"),
		}
		if trigger {
			o.TriggerPrice = core.MustDecimal("49000")
		}
		return o
	}

	builds := []struct {
		name   string
		op     core.Operation
		params core.Params
	}{
		{"markets spot", core.OpGetMarkets, core.Params{}},
		{"markets futures", core.OpGetMarkets, core.Params{"marketType": core.MarketTypeSwap}},
		{"currencies", core.OpGetCurrencies, core.Params{}},
		{"ticker spot", core.OpGetTicker, spot},
		{"ticker futures", core.OpGetTicker, futures},
		{"order book spot", core.OpGetOrderBook, spot},
		{"order book futures", core.OpGetOrderBook, futures},
		{"klines spot", core.OpGetKlines, spot},
		{"klines futures", core.OpGetKlines, futures},
		{"trades spot", core.OpGetTrades, spot},
		{"trades futures", core.OpGetTrades, futures},
		{"funding rate", core.OpGetFundingRate, futures},
		{"balance spot", core.OpGetBalance, core.Params{}},
		{"balance futures", core.OpGetBalance, core.Params{"marketType": core.MarketTypeSwap}},
		{"place order spot", core.OpPlaceOrder, core.Params{"order": order("BTC/USDT", false)}},
		{"place trigger spot", core.OpPlaceOrder, core.Params{"order": order("BTC/USDT", true)}},
		{"place order futures", core.OpPlaceOrder, core.Params{"order": order("BTC/USDT:USDT", false)}},
		{"place trigger futures", core.OpPlaceOrder, core.Params{"order": order("BTC/USDT:USDT", true)}},
		{"batch orders spot", core.OpPlaceOrders, core.Params{"orders": []*exchange.OrderRequest{order("BTC/USDT", false)}}},
		{"batch orders futures", core.OpPlaceOrders, core.Params{"orders": []*exchange.OrderRequest{order("BTC/USDT:USDT", false)}}},
		{"cancel spot", core.OpCancelOrder, core.Params{"cancel": &exchange.CancelRequest{Symbol: "BTC/USDT", OrderID: "123456"}}},
		{"cancel spot by client id", core.OpCancelOrder, core.Params{"cancel": &exchange.CancelRequest{Symbol: "BTC/USDT", ClientOrderID: "tukar_1"}}},
		{"cancel futures", core.OpCancelOrder, core.Params{"cancel": &exchange.CancelRequest{Symbol: "BTC/USDT:USDT", OrderID: "123456"}}},
		{"cancel futures by client id", core.OpCancelOrder, core.Params{"cancel": &exchange.CancelRequest{Symbol: "BTC/USDT:USDT", ClientOrderID: "tukar_1"}}},
		{"cancel batch spot", core.OpCancelOrders, core.Params{"cancels": []*exchange.CancelRequest{{Symbol: "BTC/USDT", OrderID: "123456"}}}},
		{"cancel batch futures", core.OpCancelOrders, core.Params{"cancels": []*exchange.CancelRequest{{Symbol: "BTC/USDT:USDT", OrderID: "123456"}}}},
		{"cancel all spot", core.OpCancelAllOrders, spot},
		{"cancel all futures", core.OpCancelAllOrders, futures},
		{"amend spot", core.OpAmendOrder, core.Params{"amend": &exchange.AmendRequest{Symbol: "BTC/USDT", OrderID: "123456", Price: core.MustDecimal("50000")}}},
		{"amend futures", core.OpAmendOrder, core.Params{"amend": &exchange.AmendRequest{Symbol: "BTC/USDT:USDT", OrderID: "123456", Price: core.MustDecimal("50000")}}},
		{"get order spot", core.OpGetOrder, core.Params{"query": &exchange.OrderQuery{Symbol: "BTC/USDT", OrderID: "123456"}}},
		{"get order futures", core.OpGetOrder, core.Params{"query": &exchange.OrderQuery{Symbol: "BTC/USDT:USDT", OrderID: "123456"}}},
		{"open orders spot", core.OpGetOpenOrders, spot},
		{"open orders futures", core.OpGetOpenOrders, futures},
		{"closed orders spot", core.OpGetClosedOrders, spot},
		{"closed orders futures", core.OpGetClosedOrders, futures},
		{"my trades spot", core.OpGetMyTrades, spot},
		{"my trades futures", core.OpGetMyTrades, futures},
		{"positions", core.OpGetPositions, core.Params{}},
		{"set leverage", core.OpSetLeverage, core.Params{"symbol": "BTC/USDT:USDT", "leverage": 10}},
		{"transfer", core.OpTransfer, core.Params{"transfer": &exchange.TransferRequest{From: "spot", To: "swap", Asset: "USDT", Amount: core.MustDecimal("10")}}},
		{"transfers", core.OpGetTransfers, core.Params{"asset": "USDT"}},
		{"deposits", core.OpGetDeposits, core.Params{"asset": "USDT"}},
		{"withdrawals", core.OpGetWithdrawals, core.Params{}},
		{"withdraw", core.OpWithdraw, core.Params{"withdraw": &exchange.WithdrawRequest{Asset: "USDT", Address: "0xabc", Amount: core.MustDecimal("25")}}},
	}

	built := make(map[core.Route]bool)
	for _, tt := range builds {
		t.Run(tt.name, func(t *testing.T) {
			req, err := p.BuildRequest(ctx, tt.op, tt.params)
			require.NoError(t, err)
			require.NotNil(t, req)

			weight, ok := p.Descriptor().Weight(req.Route)
			require.True(t, ok, "route not declared: %+v", req.Route)
			assert.Equal(t, weight, req.Weight)
			built[req.Route] = true
		})
	}

	// Every declared route must be reachable from some builder; an orphaned
	// declaration means a dead table entry or a missing operation.
	for _, route := range p.Descriptor().DeclaredRoutes() {
		assert.True(t, built[route], "declared route never built: %+v", route)
	}
}

func TestCanonicalBody_SortedKeys(t *testing.T) {
	body, err := canonicalBody(core.Params{"market": "BTCUSDT", "amount": "0.01", "side": "buy"})
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"0.01","market":"BTCUSDT","side":"buy"}`, body)

	empty, err := canonicalBody(nil)
	require.NoError(t, err)
	assert.Equal(t, "", empty)
}

func TestProtocol_SignRequest_Deterministic(t *testing.T) {
	p := newTestProtocol(t)
	creds := core.Credentials{APIKey: "key", SecretKey: "secret"}

	build := func() *core.Request {
		req, err := p.BuildRequest(context.Background(), core.OpGetBalance, core.Params{})
		require.NoError(t, err)
		return req
	}

	first := build()
	second := build()
	require.NoError(t, p.SignRequest(first, creds, 1700000000000))
	require.NoError(t, p.SignRequest(second, creds, 1700000000000))

	assert.Equal(t, first.Headers["X-COINEX-SIGN"], second.Headers["X-COINEX-SIGN"])
	assert.Equal(t, "key", first.Headers["X-COINEX-KEY"])
	assert.Equal(t, "1700000000000", first.Headers["X-COINEX-TIMESTAMP"])
}

func TestProtocol_SignRequest_BodyCovered(t *testing.T) {
	p := newTestProtocol(t)
	creds := core.Credentials{APIKey: "key", SecretKey: "secret"}

	route := core.Route{Category: categorySpot, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "order"}
	first := core.NewRequest(http.MethodPost, route).SetBody("market", "BTCUSDT")
	second := core.NewRequest(http.MethodPost, route).SetBody("market", "ETHUSDT")

	require.NoError(t, p.SignRequest(first, creds, 1700000000000))
	require.NoError(t, p.SignRequest(second, creds, 1700000000000))

	assert.NotEqual(t, first.Headers["X-COINEX-SIGN"], second.Headers["X-COINEX-SIGN"])
}

func TestProtocol_SignRequest_NoCredentials(t *testing.T) {
	p := newTestProtocol(t)

	req, err := p.BuildRequest(context.Background(), core.OpGetBalance, core.Params{})
	require.NoError(t, err)

	err = p.SignRequest(req, core.Credentials{}, 1700000000000)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrNoCredentials))
}

func TestProtocol_ParseResponse_ErrorCode(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":107,"message":"balance not enough","data":{}}`)

	_, err := p.ParseResponse(core.OpPlaceOrder, resp)
	require.Error(t, err)

	var exErr *core.ExchangeError
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, core.ErrorTypeInsufficientFunds, exErr.Type)
	assert.Equal(t, "107", exErr.Code)
	assert.Equal(t, "coinex", exErr.Exchange)
}

func TestProtocol_ParseResponse_BroadMessageMatch(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":77777,"message":"ip not allow visit this api","data":{}}`)

	_, err := p.ParseResponse(core.OpGetBalance, resp)
	require.Error(t, err)
	assert.True(t, core.IsErrorType(err, core.ErrorTypePermissionDenied))
}

func TestProtocol_ParseResponse_Ticker(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":[
		{"market":"BTCUSDT","last":"50000.5","open":"49000","high":"51000",
		"low":"48500","volume":"1234.5","value":"61000000"}]}`)

	out, err := p.ParseResponse(core.OpGetTicker, resp)
	require.NoError(t, err)

	ticker, ok := out.(*core.Ticker)
	require.True(t, ok)
	assert.Equal(t, "BTC/USDT", ticker.Symbol)
	assert.Equal(t, core.MarketTypeSpot, ticker.Type)
	assert.Equal(t, "50000.5", ticker.Last.Text('f'))
	assert.Equal(t, "1000.5", ticker.Change.Text('f'))
}

func TestProtocol_ParseResponse_FuturesTickerSniff(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":[
		{"market":"BTCUSDT","last":"50000.5","mark_price":"50001"}]}`)

	out, err := p.ParseResponse(core.OpGetTicker, resp)
	require.NoError(t, err)

	ticker := out.(*core.Ticker)
	assert.Equal(t, core.MarketTypeSwap, ticker.Type)
	assert.Equal(t, "BTC/USDT:USDT", ticker.Symbol)
}

func TestProtocol_ParseResponse_OrderBook(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":{
		"market":"BTCUSDT","is_full":true,
		"depth":{"asks":[["50000.6","0.5"]],"bids":[["50000.4","1.5"]],
		"last":"50000.5","updated_at":1700000000000}}}`)

	out, err := p.ParseResponse(core.OpGetOrderBook, resp)
	require.NoError(t, err)

	book, ok := out.(*core.OrderBook)
	require.True(t, ok)
	require.Len(t, book.Asks, 1)
	require.Len(t, book.Bids, 1)
	assert.Equal(t, "50000.4", book.Bids[0].Price.Text('f'))
	assert.Equal(t, int64(1700000000000), book.Timestamp.UnixMilli())
}

func TestProtocol_ParseResponse_CancelAllEmptyObject(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":{}}`)

	out, err := p.ParseResponse(core.OpCancelAllOrders, resp)
	require.NoError(t, err)

	orders, ok := out.([]core.Order)
	require.True(t, ok)
	assert.Empty(t, orders)
}

func TestProtocol_ParseResponse_BatchAcks(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":[
		{"code":0,"message":"OK","data":{"order_id":101,"market":"BTCUSDT","market_type":"SPOT","side":"buy","type":"limit","amount":"0.01","price":"50000","status":"open"}},
		{"code":0,"message":"OK","data":{"order_id":102,"market":"BTCUSDT","market_type":"SPOT","side":"sell","type":"limit","amount":"0.02","price":"51000","status":"open"}}]}`)

	out, err := p.ParseResponse(core.OpPlaceOrders, resp)
	require.NoError(t, err)

	orders, ok := out.([]core.Order)
	require.True(t, ok)
	require.Len(t, orders, 2)
	assert.Equal(t, "101", orders[0].ID)
	assert.Equal(t, "102", orders[1].ID)
	assert.Equal(t, core.SideSell, orders[1].Side)
}

func TestProtocol_ParseResponse_Order(t *testing.T) {
	p := newTestProtocol(t)
	resp := serveResponse(t, http.StatusOK, `{"code":0,"message":"OK","data":{
		"order_id":123456,"market":"BTCUSDT","market_type":"SPOT","side":"buy",
		"type":"limit","amount":"1","price":"50000","filled_amount":"0.25",
		"unfilled_amount":"0.75","client_id":"tukar_abc","status":"part_filled",
		"created_at":1700000000000}}`)

	out, err := p.ParseResponse(core.OpGetOrder, resp)
	require.NoError(t, err)

	order, ok := out.(*core.Order)
	require.True(t, ok)
	assert.Equal(t, "123456", order.ID)
	assert.Equal(t, "tukar_abc", order.ClientOrderID)
	assert.Equal(t, "BTC/USDT", order.Symbol)
	assert.Equal(t, core.StatusOpen, order.Status)
	assert.Equal(t, "0.75", order.RemainingQty.Text('f'))
}
