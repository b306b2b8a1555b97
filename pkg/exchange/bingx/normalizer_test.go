package bingx

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tukar/pkg/core"
)

func TestNum_Decode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quoted string", `"50000.5"`, "50000.5"},
		{"bare number", `50000.5`, "50000.5"},
		{"percent suffix", `"1.25%"`, "1.25"},
		{"null", `null`, "0"},
		{"empty string", `""`, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n num
			require.NoError(t, sonic.Unmarshal([]byte(tt.input), &n))
			assert.Equal(t, tt.expected, n.Text('f'))
		})
	}
}

func TestIdent_Decode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"string id", `"123456"`, "123456"},
		{"numeric id", `123456`, "123456"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var i ident
			require.NoError(t, sonic.Unmarshal([]byte(tt.input), &i))
			assert.Equal(t, tt.expected, string(i))
		})
	}
}

func TestSymbolFromID(t *testing.T) {
	assert.Equal(t, "BTC/USDT", symbolFromID("BTC-USDT", core.MarketTypeSpot))
	assert.Equal(t, "BTC/USDT:USDT", symbolFromID("BTC-USDT", core.MarketTypeSwap))
	assert.Equal(t, "BTCUSDT", symbolFromID("BTCUSDT", core.MarketTypeSpot))
}

func TestNormalizer_NormalizeSpotMarket(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","tickSize":"0.01","stepSize":"0.0001",
		"minNotional":"5","status":1,"apiStateBuy":true,"apiStateSell":true}`)

	var m bingxSpotMarket
	require.NoError(t, sonic.Unmarshal(raw, &m))

	market := n.NormalizeSpotMarket(&m, core.FeeSchedule{Maker: "0.001", Taker: "0.001"}, raw)
	assert.Equal(t, "BTC-USDT", market.ID)
	assert.Equal(t, "BTC/USDT", market.Symbol)
	assert.Equal(t, core.MarketTypeSpot, market.Type)
	assert.True(t, market.Active)
	assert.Equal(t, core.PrecisionTickSize, market.Precision.Mode)
	assert.Equal(t, int32(2), market.Precision.PricePlaces)
	assert.Equal(t, int32(4), market.Precision.AmountPlaces)
	assert.Equal(t, "5", market.Limits.MinCost.Text('f'))
}

func TestNormalizer_NormalizeSwapMarket(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","asset":"BTC","currency":"USDT",
		"pricePrecision":2,"quantityPrecision":4,"size":"1",
		"tradeMinQuantity":"0.0001","maxLongLeverage":125,"maxShortLeverage":100,"status":1}`)

	var m bingxSwapMarket
	require.NoError(t, sonic.Unmarshal(raw, &m))

	market := n.NormalizeSwapMarket(&m, core.FeeSchedule{Maker: "0.0002", Taker: "0.0005"}, raw)
	assert.Equal(t, "BTC/USDT:USDT", market.Symbol)
	assert.Equal(t, core.MarketTypeSwap, market.Type)
	assert.True(t, market.Linear)
	assert.Equal(t, "USDT", market.Settle)
	assert.Equal(t, core.PrecisionDecimalPlaces, market.Precision.Mode)
	assert.Equal(t, 125, market.Limits.MaxLeverage)
}

func TestNormalizer_NormalizeTicker_FlavorSniff(t *testing.T) {
	n := NewNormalizer()

	var spot bingxTicker
	require.NoError(t, sonic.Unmarshal([]byte(`{"symbol":"BTC-USDT","lastPrice":"50000"}`), &spot))
	assert.Equal(t, core.MarketTypeSpot, n.NormalizeTicker(&spot, nil).Type)

	var swap bingxTicker
	require.NoError(t, sonic.Unmarshal([]byte(`{"symbol":"BTC-USDT","lastPrice":"50000","lastQty":"0.5"}`), &swap))
	ticker := n.NormalizeTicker(&swap, nil)
	assert.Equal(t, core.MarketTypeSwap, ticker.Type)
	assert.Equal(t, "BTC/USDT:USDT", ticker.Symbol)

	// A literal null is not a value; the spot flavor must not flip to swap.
	var nullQty bingxTicker
	require.NoError(t, sonic.Unmarshal([]byte(`{"symbol":"BTC-USDT","lastPrice":"50000","lastQty":null}`), &nullQty))
	assert.Equal(t, core.MarketTypeSpot, n.NormalizeTicker(&nullQty, nil).Type)
}

func TestNormalizer_NormalizeOrderBook(t *testing.T) {
	n := NewNormalizer()
	var depth bingxDepth
	require.NoError(t, sonic.Unmarshal([]byte(`{
		"bids":[["50000.4","1.5"],["50000.3","2"]],
		"asks":[["50000.6","0.5"]],
		"ts":1700000000000}`), &depth))

	book := n.NormalizeOrderBook(&depth, "BTC/USDT")
	require.Len(t, book.Bids, 2)
	require.Len(t, book.Asks, 1)
	assert.Equal(t, "50000.4", book.Bids[0].Price.Text('f'))
	assert.Equal(t, "1.5", book.Bids[0].Quantity.Text('f'))
	assert.Equal(t, int64(1700000000000), book.Timestamp.UnixMilli())
}

func TestNormalizer_NormalizeTrade_SideFromBuyerMaker(t *testing.T) {
	n := NewNormalizer()

	var taker bingxTrade
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":1,"price":"50000","qty":"0.5","time":1700000000000}`), &taker))
	assert.Equal(t, core.SideBuy, n.NormalizeTrade(&taker, "BTC/USDT", nil).Side)

	var maker bingxTrade
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":2,"price":"50000","qty":"0.5","buyerMaker":true}`), &maker))
	assert.Equal(t, core.SideSell, n.NormalizeTrade(&maker, "BTC/USDT", nil).Side)
}

func TestNormalizer_NormalizeTrade_Cost(t *testing.T) {
	n := NewNormalizer()
	var trade bingxTrade
	require.NoError(t, sonic.Unmarshal([]byte(`{"id":1,"price":"50000","qty":"2"}`), &trade))

	out := n.NormalizeTrade(&trade, "BTC/USDT", nil)
	assert.Equal(t, "100000", out.Cost.Text('f'))
}

func TestNormalizer_NormalizeOrder_StringEncodedStopLoss(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","orderId":123,"side":"BUY","positionSide":"LONG",
		"type":"LIMIT","status":"NEW","price":"50000","origQty":"0.5","executedQty":"0.1",
		"stopLoss":"{\"type\":\"STOP_MARKET\",\"stopPrice\":50}"}`)

	var o bingxOrder
	require.NoError(t, sonic.Unmarshal(raw, &o))

	order := n.NormalizeOrder(&o, raw)
	assert.Equal(t, "123", order.ID)
	assert.Equal(t, "BTC/USDT:USDT", order.Symbol)
	assert.Equal(t, core.SideBuy, order.Side)
	assert.Equal(t, core.PositionLong, order.PositionSide)
	assert.Equal(t, core.StatusOpen, order.Status)
	assert.Equal(t, "50", order.StopLossPrice.Text('f'))
	assert.Equal(t, "0.4", order.RemainingQty.Text('f'))
}

func TestNormalizer_NormalizeOrder_ObjectStopLoss(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","orderId":"9","side":"SELL","positionSide":"SHORT",
		"type":"MARKET","status":"FILLED","quantity":"0.5",
		"stopLoss":{"type":"STOP_MARKET","stopPrice":"48000"}}`)

	var o bingxOrder
	require.NoError(t, sonic.Unmarshal(raw, &o))

	order := n.NormalizeOrder(&o, raw)
	assert.Equal(t, core.StatusClosed, order.Status)
	assert.Equal(t, "48000", order.StopLossPrice.Text('f'))
	assert.Equal(t, "0.5", order.Quantity.Text('f'))
}

func TestNormalizer_NormalizeOrder_SpotFlavor(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","orderId":42,"clientOrderID":"tukar-abc",
		"side":"BUY","type":"MARKET","status":"PARTIALLY_FILLED",
		"origQty":"1","executedQty":"0.25","cummulativeQuoteQty":"12500"}`)

	var o bingxOrder
	require.NoError(t, sonic.Unmarshal(raw, &o))

	order := n.NormalizeOrder(&o, raw)
	assert.Equal(t, "BTC/USDT", order.Symbol)
	assert.Equal(t, "tukar-abc", order.ClientOrderID)
	assert.Equal(t, core.StatusOpen, order.Status)
	assert.Equal(t, "0.75", order.RemainingQty.Text('f'))
}

func TestNormalizer_NormalizeSpotBalances(t *testing.T) {
	n := NewNormalizer()
	var b bingxSpotBalances
	require.NoError(t, sonic.Unmarshal([]byte(`{"balances":[
		{"asset":"USDT","free":"100.5","locked":"10"},
		{"asset":"BTC","free":"0.5","locked":"0"}]}`), &b))

	out := n.NormalizeSpotBalances(&b)
	require.Len(t, out, 2)
	assert.Equal(t, "USDT", out[0].Asset)
	assert.Equal(t, "100.5", out[0].Free.Text('f'))
	assert.Equal(t, "10", out[0].Used.Text('f'))
	assert.Equal(t, "110.5", out[0].Total.Text('f'))
}

func TestNormalizer_NormalizeSwapBalances(t *testing.T) {
	n := NewNormalizer()
	var b []bingxSwapBalance
	require.NoError(t, sonic.Unmarshal([]byte(`[
		{"asset":"USDT","balance":"1000","availableMargin":"800","usedMargin":"150","freezedMargin":"50"}]`), &b))

	out := n.NormalizeSwapBalances(b)
	require.Len(t, out, 1)
	assert.Equal(t, "800", out[0].Free.Text('f'))
	assert.Equal(t, "200", out[0].Used.Text('f'))
	assert.Equal(t, "1000", out[0].Total.Text('f'))
}

func TestNormalizer_NormalizePosition(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"symbol":"BTC-USDT","positionId":"7","positionSide":"LONG",
		"isolated":true,"positionAmt":"0.5","avgPrice":"50000","markPrice":"50500",
		"liquidationPrice":"40000","leverage":10,"unrealizedProfit":"250","updateTime":1700000000000}`)

	var pos bingxPosition
	require.NoError(t, sonic.Unmarshal(raw, &pos))

	out := n.NormalizePosition(&pos, raw)
	assert.Equal(t, "BTC/USDT:USDT", out.Symbol)
	assert.Equal(t, core.PositionLong, out.Side)
	assert.Equal(t, core.MarginModeIsolated, out.MarginMode)
	assert.Equal(t, "250", out.UnrealizedPnl.Text('f'))
	assert.Equal(t, int64(1700000000000), out.Timestamp.UnixMilli())
}

func TestNormalizer_NormalizeCurrency(t *testing.T) {
	n := NewNormalizer()
	raw := []byte(`{"coin":"USDT","name":"Tether","networkList":[
		{"network":"ERC20","depositEnable":true,"withdrawEnable":false,"withdrawFee":"5","withdrawPrecision":6},
		{"network":"TRC20","depositEnable":false,"withdrawEnable":true,"withdrawFee":"1","withdrawPrecision":8}]}`)

	var c bingxCurrency
	require.NoError(t, sonic.Unmarshal(raw, &c))

	out := n.NormalizeCurrency(&c, raw)
	assert.Equal(t, "USDT", out.Code)
	assert.True(t, out.Deposit)
	assert.True(t, out.Withdraw)
	assert.Equal(t, int32(8), out.Precision)
	require.Len(t, out.Networks, 2)
	assert.Equal(t, "ERC20", out.Networks[0].ID)
	assert.False(t, out.Networks[0].Withdraw)
}

func TestNormalizer_NormalizeTransfer(t *testing.T) {
	n := NewNormalizer()
	var tr bingxTransferRecord
	require.NoError(t, sonic.Unmarshal([]byte(`{"asset":"USDT","amount":"100.5","type":"FUND_PFUTURES",
		"status":"CONFIRMED","tranId":1067594500957016069,"timestamp":1658388859000}`), &tr))

	out := n.NormalizeTransfer(&tr)
	assert.Equal(t, "1067594500957016069", out.ID)
	assert.Equal(t, "USDT", out.Asset)
	assert.Equal(t, "100.5", out.Amount.Text('f'))
	assert.Equal(t, "fund", out.From)
	assert.Equal(t, "swap", out.To)
	assert.Equal(t, core.TxStatusOK, out.Status)
	assert.Equal(t, int64(1658388859000), out.Timestamp.UnixMilli())

	var pending bingxTransferRecord
	require.NoError(t, sonic.Unmarshal([]byte(`{"asset":"USDT","amount":"1","type":"PFUTURES_FUND","status":"PROCESS"}`), &pending))
	assert.Equal(t, core.TxStatusPending, n.NormalizeTransfer(&pending).Status)
}

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		input    string
		expected core.OrderType
	}{
		{"MARKET", core.TypeMarket},
		{"LIMIT", core.TypeLimit},
		{"TRIGGER_MARKET", core.TypeTriggerMarket},
		{"TRIGGER_LIMIT", core.TypeTriggerLimit},
		{"STOP_MARKET", core.TypeStopLoss},
		{"STOP", core.TypeStopLossLimit},
		{"TAKE_PROFIT_MARKET", core.TypeTakeProfit},
		{"TAKE_PROFIT", core.TypeTakeProfitLimit},
		{"TRAILING_STOP_MARKET", core.TypeTrailingStop},
		{"SOMETHING_ELSE", core.TypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseOrderType(tt.input))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		input    string
		expected core.OrderStatus
	}{
		{"NEW", core.StatusOpen},
		{"PENDING", core.StatusOpen},
		{"PARTIALLY_FILLED", core.StatusOpen},
		{"FILLED", core.StatusClosed},
		{"CANCELED", core.StatusCanceled},
		{"CANCELLED", core.StatusCanceled},
		{"FAILED", core.StatusRejected},
		{"EXPIRED", core.StatusExpired},
		{"", core.StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseOrderStatus(tt.input))
		})
	}
}

func TestParseVenueTime(t *testing.T) {
	out := parseVenueTime("2023-11-14 22:13:20")
	assert.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC), out)

	assert.True(t, parseVenueTime("").IsZero())
	assert.True(t, parseVenueTime("garbage").IsZero())
}
