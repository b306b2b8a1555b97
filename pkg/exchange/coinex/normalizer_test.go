package coinex

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tukar/pkg/core"
)

func TestNum_Decode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quoted", `"1.25"`, "1.25"},
		{"bare", `1.25`, "1.25"},
		{"null", `null`, "0"},
		{"empty string", `""`, "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n num
			require.NoError(t, sonic.Unmarshal([]byte(tt.in), &n))
			assert.Equal(t, tt.want, n.Text('f'))
		})
	}
}

func TestIdent_Decode(t *testing.T) {
	var i ident
	require.NoError(t, sonic.Unmarshal([]byte(`13956231`), &i))
	assert.Equal(t, "13956231", string(i))

	require.NoError(t, sonic.Unmarshal([]byte(`"abc"`), &i))
	assert.Equal(t, "abc", string(i))

	require.NoError(t, sonic.Unmarshal([]byte(`null`), &i))
	assert.Equal(t, "", string(i))
}

func TestNormalizer_SymbolFor(t *testing.T) {
	n := NewNormalizer()
	n.Index(testMarkets())

	assert.Equal(t, "BTC/USDT", n.symbolFor("BTCUSDT", core.MarketTypeSpot))
	assert.Equal(t, "BTC/USDT:USDT", n.symbolFor("BTCUSDT", core.MarketTypeSwap))

	// Unindexed ids fall back to quote-suffix splitting.
	assert.Equal(t, "ETH/USDT", n.symbolFor("ETHUSDT", core.MarketTypeSpot))
	assert.Equal(t, "ETH/USDT:USDT", n.symbolFor("ETHUSDT", core.MarketTypeSwap))
	assert.Equal(t, "XYZ", n.symbolFor("XYZ", core.MarketTypeSpot))
}

func TestMarketTypeOf(t *testing.T) {
	assert.Equal(t, core.MarketTypeSpot, marketTypeOf("SPOT", core.MarketTypeSwap))
	assert.Equal(t, core.MarketTypeSpot, marketTypeOf("MARGIN", core.MarketTypeSwap))
	assert.Equal(t, core.MarketTypeSwap, marketTypeOf("futures", core.MarketTypeSpot))
	assert.Equal(t, core.MarketTypeSwap, marketTypeOf("", core.MarketTypeSwap))
}

func TestNormalizer_NormalizeSpotMarket(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexSpotMarket{
		Market:         "BTCUSDT",
		BaseCcy:        "BTC",
		QuoteCcy:       "USDT",
		BasePrecision:  8,
		QuotePrecision: 2,
	}
	raw.MinAmount.Decimal = core.MustDecimal("0.0001")

	m := n.NormalizeSpotMarket(raw, core.FeeSchedule{Maker: "0.002", Taker: "0.002"}, nil)

	assert.Equal(t, "BTC/USDT", m.Symbol)
	assert.Equal(t, core.MarketTypeSpot, m.Type)
	assert.Equal(t, core.PrecisionDecimalPlaces, m.Precision.Mode)
	assert.Equal(t, int32(8), m.Precision.AmountPlaces)
	assert.Equal(t, int32(2), m.Precision.PricePlaces)
	assert.Equal(t, "0.0001", m.Limits.MinAmount.Text('f'))
	// Venue rates were zero, so the schedule defaults apply.
	assert.Equal(t, "0.002", m.Maker.Text('f'))
}

func TestNormalizer_NormalizeFuturesMarket(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexFuturesMarket{
		Market:         "BTCUSDT",
		ContractType:   "linear",
		BaseCcy:        "BTC",
		QuoteCcy:       "USDT",
		BasePrecision:  4,
		QuotePrecision: 1,
		Leverage:       []int{3, 5, 10, 100},
	}
	raw.MakerFeeRate.Decimal = core.MustDecimal("0.0003")
	raw.TakerFeeRate.Decimal = core.MustDecimal("0.0005")

	m := n.NormalizeFuturesMarket(raw, core.FeeSchedule{}, nil)

	assert.Equal(t, "BTC/USDT:USDT", m.Symbol)
	assert.Equal(t, core.MarketTypeSwap, m.Type)
	assert.True(t, m.Linear)
	assert.Equal(t, "USDT", m.Settle)
	assert.Equal(t, 100, m.Limits.MaxLeverage)
	assert.Equal(t, "0.0003", m.Maker.Text('f'))
}

func TestNormalizer_NormalizeFuturesMarket_InverseSettlesInBase(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexFuturesMarket{
		Market:       "BTCUSD",
		ContractType: "inverse",
		BaseCcy:      "BTC",
		QuoteCcy:     "USD",
	}

	m := n.NormalizeFuturesMarket(raw, core.FeeSchedule{}, nil)

	assert.False(t, m.Linear)
	assert.Equal(t, "BTC", m.Settle)
	assert.Equal(t, "BTC/USD:BTC", m.Symbol)
}

func TestNormalizer_NormalizeTicker(t *testing.T) {
	n := NewNormalizer()
	n.Index(testMarkets())

	raw := &coinexTicker{Market: "BTCUSDT"}
	raw.Last.Decimal = core.MustDecimal("50000.5")
	raw.Open.Decimal = core.MustDecimal("49000")

	ticker := n.NormalizeTicker(raw, nil)
	assert.Equal(t, "BTC/USDT", ticker.Symbol)
	assert.Equal(t, core.MarketTypeSpot, ticker.Type)
	assert.Equal(t, "1000.5", ticker.Change.Text('f'))
}

func TestNormalizer_NormalizeTicker_LastFallsBackToClose(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexTicker{Market: "ETHUSDT"}
	raw.Close.Decimal = core.MustDecimal("3100.25")

	ticker := n.NormalizeTicker(raw, nil)
	assert.Equal(t, "3100.25", ticker.Last.Text('f'))
}

func TestNormalizer_NormalizeTicker_MarkPriceMeansFutures(t *testing.T) {
	n := NewNormalizer()
	n.Index(testMarkets())

	raw := &coinexTicker{Market: "BTCUSDT", MarkPrice: "50001"}
	ticker := n.NormalizeTicker(raw, nil)

	assert.Equal(t, core.MarketTypeSwap, ticker.Type)
	assert.Equal(t, "BTC/USDT:USDT", ticker.Symbol)
}

func TestNormalizer_NormalizeOrder_StopAckUsesStopID(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexOrder{StopID: "555"}

	o := n.NormalizeOrder(raw, nil)
	assert.Equal(t, "555", o.ID)
}

func TestNormalizer_NormalizeOrder_TriggeredType(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexOrder{OrderID: "1", Type: "limit"}
	raw.TriggerPrice.Decimal = core.MustDecimal("49000")

	o := n.NormalizeOrder(raw, nil)
	assert.Equal(t, core.TypeTriggerLimit, o.Type)
	assert.Equal(t, "49000", o.TriggerPrice.Text('f'))

	plain := n.NormalizeOrder(&coinexOrder{OrderID: "2", Type: "maker_only"}, nil)
	assert.Equal(t, core.TypeLimit, plain.Type)
}

func TestNormalizer_NormalizeOrder_FeePrecedence(t *testing.T) {
	n := NewNormalizer()

	raw := &coinexOrder{OrderID: "1", FeeCcy: "USDT"}
	raw.Fee.Decimal = core.MustDecimal("0.05")
	raw.QuoteFee.Decimal = core.MustDecimal("0.09")
	o := n.NormalizeOrder(raw, nil)
	assert.Equal(t, "0.05", o.Fee.Text('f'))
	assert.Equal(t, "USDT", o.FeeAsset)

	quoteOnly := &coinexOrder{OrderID: "2"}
	quoteOnly.QuoteFee.Decimal = core.MustDecimal("0.09")
	o = n.NormalizeOrder(quoteOnly, nil)
	assert.Equal(t, "0.09", o.Fee.Text('f'))
}

func TestNormalizer_NormalizeOrder_RemainingDerived(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexOrder{OrderID: "1", Status: "part_filled"}
	raw.Amount.Decimal = core.MustDecimal("1")
	raw.FilledAmount.Decimal = core.MustDecimal("0.25")

	o := n.NormalizeOrder(raw, nil)
	assert.Equal(t, core.StatusOpen, o.Status)
	assert.Equal(t, "0.75", o.RemainingQty.Text('f'))
}

func TestNormalizer_NormalizeBalances(t *testing.T) {
	n := NewNormalizer()
	var b coinexBalance
	b.Ccy = "USDT"
	b.Available.Decimal = core.MustDecimal("100.5")
	b.Frozen.Decimal = core.MustDecimal("10")

	out := n.NormalizeBalances([]coinexBalance{b})
	require.Len(t, out, 1)
	assert.Equal(t, "USDT", out[0].Asset)
	assert.Equal(t, "110.5", out[0].Total.Text('f'))
}

func TestNormalizer_NormalizeUserDeal(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexUserDeal{
		DealID:     "77",
		OrderID:    "123",
		Market:     "ETHUSDT",
		MarketType: "SPOT",
		Side:       "sell",
		Role:       "maker",
		FeeCcy:     "USDT",
		CreatedAt:  1700000000000,
	}
	raw.Price.Decimal = core.MustDecimal("50000")
	raw.Amount.Decimal = core.MustDecimal("2")

	trade := n.NormalizeUserDeal(raw, nil)
	assert.Equal(t, "77", trade.ID)
	assert.Equal(t, "ETH/USDT", trade.Symbol)
	assert.Equal(t, core.SideSell, trade.Side)
	assert.Equal(t, core.LiquidityMaker, trade.TakerOrMaker)
	assert.Equal(t, "100000", trade.Cost.Text('f'))
	assert.Equal(t, int64(1700000000000), trade.Timestamp.UnixMilli())
}

func TestNormalizer_NormalizePosition(t *testing.T) {
	n := NewNormalizer()
	n.Index(testMarkets())
	raw := &coinexPosition{
		PositionID: "9",
		Market:     "BTCUSDT",
		Side:       "short",
		MarginMode: "isolated",
		UpdatedAt:  1700000000000,
	}
	raw.AvgEntryPrice.Decimal = core.MustDecimal("50000")
	raw.UnrealizedPnl.Decimal = core.MustDecimal("-12.5")

	pos := n.NormalizePosition(raw, nil)
	assert.Equal(t, "BTC/USDT:USDT", pos.Symbol)
	assert.Equal(t, core.PositionShort, pos.Side)
	assert.Equal(t, core.MarginModeIsolated, pos.MarginMode)
	assert.Equal(t, "-12.5", pos.UnrealizedPnl.Text('f'))
}

func TestNormalizer_NormalizeCurrency(t *testing.T) {
	n := NewNormalizer()
	raw := &coinexCurrency{}
	raw.Asset.Ccy = "USDT"
	raw.Asset.DepositEnabled = true
	raw.Asset.WithdrawEnabled = false
	raw.Chains = []coinexChain{
		{
			Chain:             "TRC20",
			DepositEnabled:    true,
			WithdrawEnabled:   true,
			WithdrawPrecision: 6,
			WithdrawalFee:     num{core.MustDecimal("1")},
			MinWithdrawAmount: num{core.MustDecimal("10")},
			MinDepositAmount:  num{core.MustDecimal("0.1")},
		},
		{Chain: "ERC20", DepositEnabled: true, WithdrawEnabled: false, WithdrawPrecision: 8},
	}

	cur := n.NormalizeCurrency(raw, nil)
	assert.Equal(t, "USDT", cur.Code)
	assert.True(t, cur.Deposit)
	assert.False(t, cur.Withdraw)
	require.Len(t, cur.Networks, 2)
	assert.Equal(t, "TRC20", cur.Networks[0].ID)
	assert.Equal(t, "1", cur.Networks[0].WithdrawFee.Text('f'))
	assert.Equal(t, "10", cur.Networks[0].WithdrawMin.Text('f'))
	assert.Equal(t, "0.1", cur.Networks[0].DepositMin.Text('f'))
	assert.Equal(t, int32(8), cur.Precision)
}

func TestNormalizer_NormalizeTransfer(t *testing.T) {
	n := NewNormalizer()
	var tr coinexTransfer
	require.NoError(t, sonic.Unmarshal([]byte(`{"created_at":1691670133710,"ccy":"USDT","amount":"100.5",
		"from_account_type":"SPOT","to_account_type":"FUTURES","status":"finished"}`), &tr))

	out := n.NormalizeTransfer(&tr)
	assert.Equal(t, "USDT", out.Asset)
	assert.Equal(t, "100.5", out.Amount.Text('f'))
	assert.Equal(t, "spot", out.From)
	assert.Equal(t, "swap", out.To)
	assert.Equal(t, core.TxStatusOK, out.Status)
	assert.Equal(t, int64(1691670133710), out.Timestamp.UnixMilli())

	var pending coinexTransfer
	require.NoError(t, sonic.Unmarshal([]byte(`{"ccy":"CET","amount":"1",
		"from_account_type":"FUTURES","to_account_type":"MARGIN","status":"created"}`), &pending))
	got := n.NormalizeTransfer(&pending)
	assert.Equal(t, "swap", got.From)
	assert.Equal(t, "margin", got.To)
	assert.Equal(t, core.TxStatusPending, got.Status)
}

func TestParseOrderStatus(t *testing.T) {
	tests := []struct {
		in   string
		want core.OrderStatus
	}{
		{"open", core.StatusOpen},
		{"part_filled", core.StatusOpen},
		{"filled", core.StatusClosed},
		{"canceled", core.StatusCanceled},
		{"part_canceled", core.StatusCanceled},
		{"weird", core.StatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseOrderStatus(tt.in))
		})
	}
}

func TestParseTransactionStatus(t *testing.T) {
	tests := []struct {
		in   string
		want core.TransactionStatus
	}{
		{"processing", core.TxStatusPending},
		{"confirming", core.TxStatusPending},
		{"finished", core.TxStatusOK},
		{"cancelled", core.TxStatusCanceled},
		{"too_small_amount", core.TxStatusFailed},
		{"weird", core.TxStatusUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTransactionStatus(tt.in))
		})
	}
}
