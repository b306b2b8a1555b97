package coinex

import (
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/apd/v3"

	"tukar/pkg/core"
)

// num decodes a decimal from either encoding. The v2 API serializes almost every
// numeric field as a quoted string, but a few legacy endpoints still emit
// bare numbers. Missing and null decode to zero.
type num struct {
	apd.Decimal
}

func (n *num) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		n.Decimal = apd.Decimal{}
		return nil
	}
	s = strings.Trim(s, `"`)
	return core.ParseDecimal(&n.Decimal, s)
}

// ident decodes an identifier field that arrives as either a JSON string or
// a bare number. Order and deal ids are numeric on this venue.
type ident string

func (i *ident) UnmarshalJSON(b []byte) error {
	*i = ident(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if *i == "null" {
		*i = ""
	}
	return nil
}

// Raw v2 payload shapes.

type coinexSpotMarket struct {
	Market         string `json:"market"`
	BaseCcy        string `json:"base_ccy"`
	QuoteCcy       string `json:"quote_ccy"`
	BasePrecision  int32  `json:"base_ccy_precision"`
	QuotePrecision int32  `json:"quote_ccy_precision"`
	MinAmount      num    `json:"min_amount"`
	MakerFeeRate   num    `json:"maker_fee_rate"`
	TakerFeeRate   num    `json:"taker_fee_rate"`
}

type coinexFuturesMarket struct {
	Market         string `json:"market"`
	ContractType   string `json:"contract_type"`
	BaseCcy        string `json:"base_ccy"`
	QuoteCcy       string `json:"quote_ccy"`
	BasePrecision  int32  `json:"base_ccy_precision"`
	QuotePrecision int32  `json:"quote_ccy_precision"`
	MinAmount      num    `json:"min_amount"`
	MakerFeeRate   num    `json:"maker_fee_rate"`
	TakerFeeRate   num    `json:"taker_fee_rate"`
	Leverage       []int  `json:"leverage"`
}

// coinexTicker merges the spot and futures ticker rows. Only futures rows
// carry a mark price; that field decides the flavor.
type coinexTicker struct {
	Market     string `json:"market"`
	Last       num    `json:"last"`
	Open       num    `json:"open"`
	Close      num    `json:"close"`
	High       num    `json:"high"`
	Low        num    `json:"low"`
	Volume     num    `json:"volume"`
	Value      num    `json:"value"`
	MarkPrice  string `json:"mark_price"`
	IndexPrice num    `json:"index_price"`
	Period     int64  `json:"period"`
}

type coinexDepth struct {
	Depth struct {
		Asks      [][]num `json:"asks"`
		Bids      [][]num `json:"bids"`
		Last      num     `json:"last"`
		UpdatedAt int64   `json:"updated_at"`
	} `json:"depth"`
	IsFull bool   `json:"is_full"`
	Market string `json:"market"`
}

type coinexKline struct {
	Market    string `json:"market"`
	CreatedAt int64  `json:"created_at"`
	Open      num    `json:"open"`
	Close     num    `json:"close"`
	High      num    `json:"high"`
	Low       num    `json:"low"`
	Volume    num    `json:"volume"`
	Value     num    `json:"value"`
}

type coinexDeal struct {
	DealID    ident  `json:"deal_id"`
	CreatedAt int64  `json:"created_at"`
	Side      string `json:"side"`
	Price     num    `json:"price"`
	Amount    num    `json:"amount"`
}

type coinexUserDeal struct {
	DealID     ident  `json:"deal_id"`
	OrderID    ident  `json:"order_id"`
	Market     string `json:"market"`
	MarketType string `json:"market_type"`
	Side       string `json:"side"`
	Role       string `json:"role"`
	Price      num    `json:"price"`
	Amount     num    `json:"amount"`
	Fee        num    `json:"fee"`
	FeeCcy     string `json:"fee_ccy"`
	CreatedAt  int64  `json:"created_at"`
}

type coinexOrder struct {
	OrderID        ident  `json:"order_id"`
	StopID         ident  `json:"stop_id"`
	Market         string `json:"market"`
	MarketType     string `json:"market_type"`
	Side           string `json:"side"`
	Type           string `json:"type"`
	Amount         num    `json:"amount"`
	Price          num    `json:"price"`
	TriggerPrice   num    `json:"trigger_price"`
	UnfilledAmount num    `json:"unfilled_amount"`
	FilledAmount   num    `json:"filled_amount"`
	FilledValue    num    `json:"filled_value"`
	LastFillPrice  num    `json:"last_fill_price"`
	ClientID       string `json:"client_id"`
	BaseFee        num    `json:"base_fee"`
	QuoteFee       num    `json:"quote_fee"`
	Fee            num    `json:"fee"`
	FeeCcy         string `json:"fee_ccy"`
	Status         string `json:"status"`
	CreatedAt      int64  `json:"created_at"`
	UpdatedAt      int64  `json:"updated_at"`
}

type coinexBalance struct {
	Ccy           string `json:"ccy"`
	Available     num    `json:"available"`
	Frozen        num    `json:"frozen"`
	Margin        num    `json:"margin"`
	UnrealizedPnl num    `json:"unrealized_pnl"`
}

type coinexPosition struct {
	PositionID    ident  `json:"position_id"`
	Market        string `json:"market"`
	MarketType    string `json:"market_type"`
	Side          string `json:"side"`
	MarginMode    string `json:"margin_mode"`
	OpenInterest  num    `json:"open_interest"`
	AvgEntryPrice num    `json:"avg_entry_price"`
	Leverage      num    `json:"leverage"`
	MarginAvbl    num    `json:"margin_avbl"`
	UnrealizedPnl num    `json:"unrealized_pnl"`
	RealizedPnl   num    `json:"realized_pnl"`
	LiqPrice      num    `json:"liq_price"`
	SettlePrice   num    `json:"settle_price"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     int64  `json:"updated_at"`
}

type coinexFundingRate struct {
	Market            string `json:"market"`
	MarkPrice         num    `json:"mark_price"`
	LatestFundingRate num    `json:"latest_funding_rate"`
	LatestFundingTime int64  `json:"latest_funding_time"`
	NextFundingRate   num    `json:"next_funding_rate"`
	NextFundingTime   int64  `json:"next_funding_time"`
}

type coinexDeposit struct {
	DepositID     ident  `json:"deposit_id"`
	CreatedAt     int64  `json:"created_at"`
	TxID          string `json:"tx_id"`
	Chain         string `json:"chain"`
	Ccy           string `json:"ccy"`
	Amount        num    `json:"amount"`
	ActualAmount  num    `json:"actual_amount"`
	ToAddress     string `json:"to_address"`
	Confirmations int    `json:"confirmations"`
	Status        string `json:"status"`
}

type coinexTransfer struct {
	CreatedAt       int64  `json:"created_at"`
	Ccy             string `json:"ccy"`
	Amount          num    `json:"amount"`
	FromAccountType string `json:"from_account_type"`
	ToAccountType   string `json:"to_account_type"`
	Status          string `json:"status"`
}

type coinexWithdrawal struct {
	WithdrawID   ident  `json:"withdraw_id"`
	CreatedAt    int64  `json:"created_at"`
	Ccy          string `json:"ccy"`
	Chain        string `json:"chain"`
	Amount       num    `json:"amount"`
	ActualAmount num    `json:"actual_amount"`
	TxFee        num    `json:"tx_fee"`
	ToAddress    string `json:"to_address"`
	TxID         string `json:"tx_id"`
	Status       string `json:"status"`
}

type coinexChain struct {
	Chain             string `json:"chain"`
	DepositEnabled    bool   `json:"deposit_enabled"`
	WithdrawEnabled   bool   `json:"withdraw_enabled"`
	MinDepositAmount  num    `json:"min_deposit_amount"`
	MinWithdrawAmount num    `json:"min_withdraw_amount"`
	WithdrawalFee     num    `json:"withdrawal_fee"`
	WithdrawPrecision int32  `json:"withdrawal_precision"`
}

type coinexCurrency struct {
	Asset struct {
		Ccy             string `json:"ccy"`
		DepositEnabled  bool   `json:"deposit_enabled"`
		WithdrawEnabled bool   `json:"withdraw_enabled"`
	} `json:"asset"`
	Chains []coinexChain `json:"chains"`
}

// Normalizer converts CoinEx payloads into the canonical types. Market ids on
// this venue carry no separator ("BTCUSDT") and the same id names both the
// spot and the futures instrument, so the normalizer keeps a per-type symbol
// index that market loading refreshes.
type Normalizer struct {
	mu   sync.RWMutex
	spot map[string]string
	swap map[string]string
}

// NewNormalizer creates a Normalizer with empty symbol indexes.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		spot: make(map[string]string),
		swap: make(map[string]string),
	}
}

// Index rebuilds the id-to-symbol tables from a freshly loaded market set.
func (n *Normalizer) Index(markets []*core.Market) {
	spot := make(map[string]string, len(markets))
	swap := make(map[string]string, len(markets))
	for _, m := range markets {
		if m.Type == core.MarketTypeSwap {
			swap[m.ID] = m.Symbol
		} else {
			spot[m.ID] = m.Symbol
		}
	}
	n.mu.Lock()
	n.spot = spot
	n.swap = swap
	n.mu.Unlock()
}

// knownQuotes drives the suffix fallback for ids seen before markets load.
var knownQuotes = []string{"USDT", "USDC", "USD", "BTC", "ETH", "CET"}

// symbolFor resolves a venue id to the unified symbol for one market type.
// Unindexed ids fall back to quote-suffix splitting.
func (n *Normalizer) symbolFor(id string, mt core.MarketType) string {
	n.mu.RLock()
	table := n.spot
	if mt == core.MarketTypeSwap {
		table = n.swap
	}
	symbol, ok := table[id]
	n.mu.RUnlock()
	if ok {
		return symbol
	}

	for _, quote := range knownQuotes {
		base, found := strings.CutSuffix(id, quote)
		if !found || base == "" {
			continue
		}
		settle := ""
		if mt == core.MarketTypeSwap {
			settle = quote
		}
		return core.UnifiedSymbol(base, quote, settle)
	}
	return id
}

// marketTypeOf maps the venue's market_type discriminator; positions and
// futures-only payloads omit it, so callers pass their own default.
func marketTypeOf(marketType string, fallback core.MarketType) core.MarketType {
	switch strings.ToUpper(marketType) {
	case "SPOT", "MARGIN":
		return core.MarketTypeSpot
	case "FUTURES":
		return core.MarketTypeSwap
	default:
		return fallback
	}
}

// NormalizeSpotMarket converts one spot market row.
func (n *Normalizer) NormalizeSpotMarket(raw *coinexSpotMarket, fees core.FeeSchedule, info []byte) *core.Market {
	m := &core.Market{
		ID:      raw.Market,
		Symbol:  core.UnifiedSymbol(raw.BaseCcy, raw.QuoteCcy, ""),
		Base:    raw.BaseCcy,
		Quote:   raw.QuoteCcy,
		BaseID:  raw.BaseCcy,
		QuoteID: raw.QuoteCcy,
		Type:    core.MarketTypeSpot,
		Active:  true,
		Precision: core.MarketPrecision{
			Mode:         core.PrecisionDecimalPlaces,
			AmountPlaces: raw.BasePrecision,
			PricePlaces:  raw.QuotePrecision,
		},
		Limits: core.MarketLimits{MinAmount: raw.MinAmount.Decimal},
		Info:   info,
	}
	m.Maker = raw.MakerFeeRate.Decimal
	m.Taker = raw.TakerFeeRate.Decimal
	if m.Maker.IsZero() && m.Taker.IsZero() {
		_ = core.ParseDecimal(&m.Maker, fees.Maker)
		_ = core.ParseDecimal(&m.Taker, fees.Taker)
	}
	return m
}

// NormalizeFuturesMarket converts one futures market row. Inverse contracts
// settle in the base currency, linear ones in the quote.
func (n *Normalizer) NormalizeFuturesMarket(raw *coinexFuturesMarket, fees core.FeeSchedule, info []byte) *core.Market {
	linear := !strings.EqualFold(raw.ContractType, "inverse")
	settle := raw.QuoteCcy
	if !linear {
		settle = raw.BaseCcy
	}
	m := &core.Market{
		ID:       raw.Market,
		Symbol:   core.UnifiedSymbol(raw.BaseCcy, raw.QuoteCcy, settle),
		Base:     raw.BaseCcy,
		Quote:    raw.QuoteCcy,
		Settle:   settle,
		BaseID:   raw.BaseCcy,
		QuoteID:  raw.QuoteCcy,
		SettleID: settle,
		Type:     core.MarketTypeSwap,
		Active:   true,
		Linear:   linear,
		Precision: core.MarketPrecision{
			Mode:         core.PrecisionDecimalPlaces,
			AmountPlaces: raw.BasePrecision,
			PricePlaces:  raw.QuotePrecision,
		},
		Limits: core.MarketLimits{MinAmount: raw.MinAmount.Decimal},
		Info:   info,
	}
	if len(raw.Leverage) > 0 {
		m.Limits.MaxLeverage = raw.Leverage[len(raw.Leverage)-1]
	}
	m.Maker = raw.MakerFeeRate.Decimal
	m.Taker = raw.TakerFeeRate.Decimal
	if m.Maker.IsZero() && m.Taker.IsZero() {
		_ = core.ParseDecimal(&m.Maker, fees.Maker)
		_ = core.ParseDecimal(&m.Taker, fees.Taker)
	}
	return m
}

// NormalizeTicker converts one ticker row. The venue reports no best bid/ask
// on this endpoint.
func (n *Normalizer) NormalizeTicker(raw *coinexTicker, info []byte) *core.Ticker {
	mt := core.MarketTypeSpot
	if raw.MarkPrice != "" {
		mt = core.MarketTypeSwap
	}
	t := &core.Ticker{
		Symbol:      n.symbolFor(raw.Market, mt),
		Type:        mt,
		Open:        raw.Open.Decimal,
		Last:        raw.Last.Decimal,
		High:        raw.High.Decimal,
		Low:         raw.Low.Decimal,
		BaseVolume:  raw.Volume.Decimal,
		QuoteVolume: raw.Value.Decimal,
		Timestamp:   time.Now(),
		Info:        info,
	}
	if t.Last.IsZero() {
		t.Last = raw.Close.Decimal
	}
	if !t.Open.IsZero() {
		var change apd.Decimal
		if _, err := apd.BaseContext.Sub(&change, &t.Last, &t.Open); err == nil {
			t.Change = change
		}
	}
	return t
}

// NormalizeOrderBook converts a depth snapshot.
func (n *Normalizer) NormalizeOrderBook(raw *coinexDepth, symbol string) *core.OrderBook {
	book := &core.OrderBook{
		Symbol:    symbol,
		Timestamp: time.UnixMilli(raw.Depth.UpdatedAt),
	}
	for _, level := range raw.Depth.Bids {
		if len(level) < 2 {
			continue
		}
		book.Bids = append(book.Bids, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
	}
	for _, level := range raw.Depth.Asks {
		if len(level) < 2 {
			continue
		}
		book.Asks = append(book.Asks, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
	}
	return book
}

// NormalizeKline converts one candle row.
func (n *Normalizer) NormalizeKline(raw *coinexKline) core.Kline {
	return core.Kline{
		OpenTime:    time.UnixMilli(raw.CreatedAt),
		Open:        raw.Open.Decimal,
		High:        raw.High.Decimal,
		Low:         raw.Low.Decimal,
		Close:       raw.Close.Decimal,
		Volume:      raw.Volume.Decimal,
		QuoteVolume: raw.Value.Decimal,
	}
}

// NormalizeDeal converts one public trade.
func (n *Normalizer) NormalizeDeal(raw *coinexDeal, symbol string, info []byte) *core.Trade {
	return &core.Trade{
		ID:        string(raw.DealID),
		Symbol:    symbol,
		Side:      parseOrderSide(raw.Side),
		Price:     raw.Price.Decimal,
		Quantity:  raw.Amount.Decimal,
		Timestamp: time.UnixMilli(raw.CreatedAt),
		Info:      info,
	}
}

// NormalizeUserDeal converts one account execution.
func (n *Normalizer) NormalizeUserDeal(raw *coinexUserDeal, info []byte) *core.Trade {
	mt := marketTypeOf(raw.MarketType, core.MarketTypeSpot)
	t := &core.Trade{
		ID:           string(raw.DealID),
		OrderID:      string(raw.OrderID),
		Symbol:       n.symbolFor(raw.Market, mt),
		Side:         parseOrderSide(raw.Side),
		TakerOrMaker: parseLiquidityRole(raw.Role),
		Price:        raw.Price.Decimal,
		Quantity:     raw.Amount.Decimal,
		Fee:          raw.Fee.Decimal,
		FeeAsset:     raw.FeeCcy,
		Timestamp:    time.UnixMilli(raw.CreatedAt),
		Info:         info,
	}
	var cost apd.Decimal
	if _, err := apd.BaseContext.Mul(&cost, &t.Price, &t.Quantity); err == nil {
		t.Cost = cost
	}
	return t
}

// NormalizeOrder converts one order row. Stop placements acknowledge with a
// bare stop_id; everything else is best effort from the fields present.
func (n *Normalizer) NormalizeOrder(raw *coinexOrder, info []byte) *core.Order {
	mt := marketTypeOf(raw.MarketType, core.MarketTypeSpot)
	o := &core.Order{
		ID:             string(raw.OrderID),
		ClientOrderID:  raw.ClientID,
		Symbol:         n.symbolFor(raw.Market, mt),
		Side:           parseOrderSide(raw.Side),
		Type:           parseOrderType(raw.Type, !raw.TriggerPrice.IsZero()),
		Status:         parseOrderStatus(raw.Status),
		Price:          raw.Price.Decimal,
		Average:        raw.LastFillPrice.Decimal,
		Quantity:       raw.Amount.Decimal,
		FilledQuantity: raw.FilledAmount.Decimal,
		RemainingQty:   raw.UnfilledAmount.Decimal,
		TriggerPrice:   raw.TriggerPrice.Decimal,
		CreatedAt:      time.UnixMilli(raw.CreatedAt),
		UpdatedAt:      time.UnixMilli(raw.UpdatedAt),
		Info:           info,
	}
	if o.ID == "" {
		o.ID = string(raw.StopID)
	}
	switch {
	case !raw.Fee.IsZero():
		o.Fee = raw.Fee.Decimal
		o.FeeAsset = raw.FeeCcy
	case !raw.QuoteFee.IsZero():
		o.Fee = raw.QuoteFee.Decimal
	case !raw.BaseFee.IsZero():
		o.Fee = raw.BaseFee.Decimal
	}
	if o.RemainingQty.IsZero() && !o.Quantity.IsZero() && !o.FilledQuantity.IsZero() {
		var remaining apd.Decimal
		if _, err := apd.BaseContext.Sub(&remaining, &o.Quantity, &o.FilledQuantity); err == nil {
			o.RemainingQty = remaining
		}
	}
	return o
}

// NormalizeBalances converts the asset balance rows of either account.
func (n *Normalizer) NormalizeBalances(raw []coinexBalance) []core.Balance {
	out := make([]core.Balance, 0, len(raw))
	for i := range raw {
		b := core.Balance{
			Asset: raw[i].Ccy,
			Free:  raw[i].Available.Decimal,
			Used:  raw[i].Frozen.Decimal,
		}
		var total apd.Decimal
		if _, err := apd.BaseContext.Add(&total, &b.Free, &b.Used); err == nil {
			b.Total = total
		}
		out = append(out, b)
	}
	return out
}

// NormalizePosition converts one futures position.
func (n *Normalizer) NormalizePosition(raw *coinexPosition, info []byte) *core.Position {
	return &core.Position{
		ID:               string(raw.PositionID),
		Symbol:           n.symbolFor(raw.Market, core.MarketTypeSwap),
		Side:             parsePositionSide(raw.Side),
		MarginMode:       parseMarginMode(raw.MarginMode),
		Contracts:        raw.OpenInterest.Decimal,
		EntryPrice:       raw.AvgEntryPrice.Decimal,
		MarkPrice:        raw.SettlePrice.Decimal,
		LiquidationPrice: raw.LiqPrice.Decimal,
		Leverage:         raw.Leverage.Decimal,
		Margin:           raw.MarginAvbl.Decimal,
		UnrealizedPnl:    raw.UnrealizedPnl.Decimal,
		RealizedPnl:      raw.RealizedPnl.Decimal,
		Timestamp:        time.UnixMilli(raw.UpdatedAt),
		Info:             info,
	}
}

// NormalizeFundingRate converts one funding rate row.
func (n *Normalizer) NormalizeFundingRate(raw *coinexFundingRate) *core.FundingRate {
	return &core.FundingRate{
		Symbol:          n.symbolFor(raw.Market, core.MarketTypeSwap),
		Rate:            raw.LatestFundingRate.Decimal,
		MarkPrice:       raw.MarkPrice.Decimal,
		NextFundingTime: time.UnixMilli(raw.NextFundingTime),
		Timestamp:       time.UnixMilli(raw.LatestFundingTime),
	}
}

// transferAccountNames maps the venue's account types back onto the unified
// account names.
var transferAccountNames = map[string]string{
	"SPOT":    "spot",
	"FUTURES": "swap",
	"MARGIN":  "margin",
}

// NormalizeTransfer converts one internal-transfer history row.
func (n *Normalizer) NormalizeTransfer(raw *coinexTransfer) *core.Transfer {
	from, ok := transferAccountNames[raw.FromAccountType]
	if !ok {
		from = strings.ToLower(raw.FromAccountType)
	}
	to, ok := transferAccountNames[raw.ToAccountType]
	if !ok {
		to = strings.ToLower(raw.ToAccountType)
	}
	return &core.Transfer{
		Asset:     raw.Ccy,
		Amount:    raw.Amount.Decimal,
		From:      from,
		To:        to,
		Status:    parseTransactionStatus(raw.Status),
		Timestamp: time.UnixMilli(raw.CreatedAt),
	}
}

// NormalizeDeposit converts one deposit record.
func (n *Normalizer) NormalizeDeposit(raw *coinexDeposit, info []byte) *core.Transaction {
	return &core.Transaction{
		ID:        string(raw.DepositID),
		TxID:      raw.TxID,
		Kind:      core.TxDeposit,
		Asset:     raw.Ccy,
		Network:   raw.Chain,
		Amount:    raw.Amount.Decimal,
		Address:   raw.ToAddress,
		Status:    parseTransactionStatus(raw.Status),
		Timestamp: time.UnixMilli(raw.CreatedAt),
		Info:      info,
	}
}

// NormalizeWithdrawal converts one withdrawal record.
func (n *Normalizer) NormalizeWithdrawal(raw *coinexWithdrawal, info []byte) *core.Transaction {
	return &core.Transaction{
		ID:        string(raw.WithdrawID),
		TxID:      raw.TxID,
		Kind:      core.TxWithdrawal,
		Asset:     raw.Ccy,
		Network:   raw.Chain,
		Amount:    raw.Amount.Decimal,
		Fee:       raw.TxFee.Decimal,
		Address:   raw.ToAddress,
		Status:    parseTransactionStatus(raw.Status),
		Timestamp: time.UnixMilli(raw.CreatedAt),
		Info:      info,
	}
}

// NormalizeCurrency converts one deposit/withdraw config row.
func (n *Normalizer) NormalizeCurrency(raw *coinexCurrency, info []byte) *core.Currency {
	cur := &core.Currency{
		Code:     raw.Asset.Ccy,
		ID:       raw.Asset.Ccy,
		Deposit:  raw.Asset.DepositEnabled,
		Withdraw: raw.Asset.WithdrawEnabled,
		Info:     info,
	}
	for _, chain := range raw.Chains {
		cur.Networks = append(cur.Networks, core.CurrencyNetwork{
			ID:          chain.Chain,
			Deposit:     chain.DepositEnabled,
			Withdraw:    chain.WithdrawEnabled,
			WithdrawFee: chain.WithdrawalFee.Decimal,
			WithdrawMin: chain.MinWithdrawAmount.Decimal,
			DepositMin:  chain.MinDepositAmount.Decimal,
		})
		if chain.WithdrawPrecision > cur.Precision {
			cur.Precision = chain.WithdrawPrecision
		}
	}
	return cur
}

func parseOrderSide(s string) core.OrderSide {
	switch strings.ToLower(s) {
	case "buy":
		return core.SideBuy
	case "sell":
		return core.SideSell
	default:
		return core.SideUnknown
	}
}

func parseOrderType(s string, triggered bool) core.OrderType {
	switch strings.ToLower(s) {
	case "limit":
		if triggered {
			return core.TypeTriggerLimit
		}
		return core.TypeLimit
	case "market":
		if triggered {
			return core.TypeTriggerMarket
		}
		return core.TypeMarket
	case "maker_only":
		return core.TypeLimit
	default:
		return core.TypeUnknown
	}
}

func parseOrderStatus(s string) core.OrderStatus {
	switch strings.ToLower(s) {
	case "open", "part_filled":
		return core.StatusOpen
	case "filled":
		return core.StatusClosed
	case "canceled", "cancelled", "part_canceled":
		return core.StatusCanceled
	default:
		return core.StatusUnknown
	}
}

func parsePositionSide(s string) core.PositionSide {
	switch strings.ToLower(s) {
	case "long":
		return core.PositionLong
	case "short":
		return core.PositionShort
	default:
		return core.PositionSideUnknown
	}
}

func parseMarginMode(s string) core.MarginMode {
	switch strings.ToLower(s) {
	case "isolated":
		return core.MarginModeIsolated
	case "cross":
		return core.MarginModeCross
	default:
		return core.MarginModeUnknown
	}
}

func parseLiquidityRole(s string) core.TakerOrMaker {
	switch strings.ToLower(s) {
	case "taker":
		return core.LiquidityTaker
	case "maker":
		return core.LiquidityMaker
	default:
		return core.LiquidityUnknown
	}
}

func parseTransactionStatus(s string) core.TransactionStatus {
	switch strings.ToLower(s) {
	case "created", "audit_required", "audited", "processing", "confirming":
		return core.TxStatusPending
	case "finished":
		return core.TxStatusOK
	case "cancelled", "canceled":
		return core.TxStatusCanceled
	case "failed", "cancellation_failed", "too_small_amount":
		return core.TxStatusFailed
	default:
		return core.TxStatusUnknown
	}
}
