package bingx

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"

	"tukar/pkg/core"
)

// num decodes a decimal from either encoding. BingX serializes the same field as a
// JSON number on one endpoint and a quoted string on another, and percent
// fields may carry a trailing '%'. Missing and null decode to zero.
type num struct {
	apd.Decimal
}

func (n *num) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		n.Decimal = apd.Decimal{}
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimSuffix(s, "%")
	return core.ParseDecimal(&n.Decimal, s)
}

// ident decodes an identifier field that arrives as either a JSON string or
// a bare number.
type ident string

func (i *ident) UnmarshalJSON(b []byte) error {
	*i = ident(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if *i == "null" {
		*i = ""
	}
	return nil
}

// Raw payload shapes. Spot and swap variants of the same entity are merged
// into one struct; the discriminating fields decide which venue flavor a
// payload came from.

type bingxSpotMarket struct {
	Symbol       string `json:"symbol"`
	TickSize     num    `json:"tickSize"`
	StepSize     num    `json:"stepSize"`
	MinNotional  num    `json:"minNotional"`
	MaxNotional  num    `json:"maxNotional"`
	Status       int    `json:"status"`
	APIStateBuy  bool   `json:"apiStateBuy"`
	APIStateSell bool   `json:"apiStateSell"`
}

type bingxSwapMarket struct {
	Symbol            string `json:"symbol"`
	Asset             string `json:"asset"`
	Currency          string `json:"currency"`
	PricePrecision    int32  `json:"pricePrecision"`
	QuantityPrecision int32  `json:"quantityPrecision"`
	Size              num    `json:"size"`
	TradeMinQuantity  num    `json:"tradeMinQuantity"`
	MaxLongLeverage   int    `json:"maxLongLeverage"`
	MaxShortLeverage  int    `json:"maxShortLeverage"`
	Status            int    `json:"status"`
}

type bingxTicker struct {
	Symbol             string          `json:"symbol"`
	PriceChange        num             `json:"priceChange"`
	PriceChangePercent num             `json:"priceChangePercent"`
	LastPrice          num             `json:"lastPrice"`
	LastQty            json.RawMessage `json:"lastQty"`
	HighPrice          num             `json:"highPrice"`
	LowPrice           num             `json:"lowPrice"`
	OpenPrice          num             `json:"openPrice"`
	BidPrice           num             `json:"bidPrice"`
	BidQty             num             `json:"bidQty"`
	AskPrice           num             `json:"askPrice"`
	AskQty             num             `json:"askQty"`
	Volume             num             `json:"volume"`
	QuoteVolume        num             `json:"quoteVolume"`
	CloseTime          int64           `json:"closeTime"`
}

type bingxDepth struct {
	Bids [][]num `json:"bids"`
	Asks [][]num `json:"asks"`
	Ts   int64   `json:"ts"`
}

type bingxTrade struct {
	ID           ident           `json:"id"`
	Price        num             `json:"price"`
	Qty          num             `json:"qty"`
	QuoteQty     json.RawMessage `json:"quoteQty"`
	Time         int64           `json:"time"`
	BuyerMaker   bool            `json:"buyerMaker"`
	IsBuyerMaker bool            `json:"isBuyerMaker"`
}

type bingxFill struct {
	Symbol          string `json:"symbol"`
	ID              ident  `json:"id"`
	OrderID         ident  `json:"orderId"`
	Price           num    `json:"price"`
	Qty             num    `json:"qty"`
	Volume          num    `json:"volume"`
	Amount          num    `json:"amount"`
	QuoteQty        num    `json:"quoteQty"`
	Commission      num    `json:"commission"`
	CommissionAsset string `json:"commissionAsset"`
	Currency        string `json:"currency"`
	Time            int64  `json:"time"`
	FilledTime      string `json:"filledTime"`
	IsBuyer         bool   `json:"isBuyer"`
	IsMaker         bool   `json:"isMaker"`
	Side            string `json:"side"`
}

type bingxOrder struct {
	Symbol              string          `json:"symbol"`
	OrderID             ident           `json:"orderId"`
	ClientOrderIDSpot   string          `json:"clientOrderID"`
	ClientOrderIDSwap   string          `json:"clientOrderId"`
	NewClientOrderID    string          `json:"newClientOrderId"`
	Side                string          `json:"side"`
	PositionSide        json.RawMessage `json:"positionSide"`
	Type                string          `json:"type"`
	Status              string          `json:"status"`
	Price               num             `json:"price"`
	AvgPrice            num             `json:"avgPrice"`
	StopPrice           num             `json:"stopPrice"`
	OrigQty             num             `json:"origQty"`
	Quantity            num             `json:"quantity"`
	ExecutedQty         num             `json:"executedQty"`
	CumulativeQuoteQty  num             `json:"cummulativeQuoteQty"`
	QuoteOrderQty       num             `json:"quoteOrderQty"`
	Fee                 num             `json:"fee"`
	Commission          num             `json:"commission"`
	FeeAsset            string          `json:"feeAsset"`
	TimeInForce         string          `json:"timeInForce"`
	ReduceOnly          bool            `json:"reduceOnly"`
	StopLoss            json.RawMessage `json:"stopLoss"`
	TakeProfit          json.RawMessage `json:"takeProfit"`
	Time                int64           `json:"time"`
	TransactTime        int64           `json:"transactTime"`
	UpdateTime          int64           `json:"updateTime"`
}

// bingxAttached is one protective leg attached to a parent order. The venue
// returns it either as an object or as a JSON-encoded string.
type bingxAttached struct {
	Type        string `json:"type"`
	StopPrice   num    `json:"stopPrice"`
	Price       num    `json:"price"`
	Quantity    num    `json:"quantity"`
	WorkingType string `json:"workingType"`
}

type bingxSpotBalance struct {
	Asset  string `json:"asset"`
	Free   num    `json:"free"`
	Locked num    `json:"locked"`
}

type bingxSpotBalances struct {
	Balances []bingxSpotBalance `json:"balances"`
}

type bingxSwapBalance struct {
	Asset            string `json:"asset"`
	Balance          num    `json:"balance"`
	Equity           num    `json:"equity"`
	AvailableMargin  num    `json:"availableMargin"`
	UsedMargin       num    `json:"usedMargin"`
	FreezedMargin    num    `json:"freezedMargin"`
	UnrealizedProfit num    `json:"unrealizedProfit"`
}

type bingxPosition struct {
	Symbol           string `json:"symbol"`
	PositionID       ident  `json:"positionId"`
	PositionSide     string `json:"positionSide"`
	Isolated         bool   `json:"isolated"`
	PositionAmt      num    `json:"positionAmt"`
	AvgPrice         num    `json:"avgPrice"`
	MarkPrice        num    `json:"markPrice"`
	LiquidationPrice num    `json:"liquidationPrice"`
	Leverage         num    `json:"leverage"`
	Margin           num    `json:"margin"`
	UnrealizedProfit num    `json:"unrealizedProfit"`
	RealisedProfit   num    `json:"realisedProfit"`
	UpdateTime       int64  `json:"updateTime"`
}

type bingxPremiumIndex struct {
	Symbol          string `json:"symbol"`
	MarkPrice       num    `json:"markPrice"`
	IndexPrice      num    `json:"indexPrice"`
	LastFundingRate num    `json:"lastFundingRate"`
	NextFundingTime int64  `json:"nextFundingTime"`
}

type bingxDeposit struct {
	Amount     num    `json:"amount"`
	Coin       string `json:"coin"`
	Network    string `json:"network"`
	Status     int    `json:"status"`
	Address    string `json:"address"`
	TxID       string `json:"txId"`
	InsertTime int64  `json:"insertTime"`
}

type bingxWithdrawal struct {
	ID              ident  `json:"id"`
	Address         string `json:"address"`
	Amount          num    `json:"amount"`
	Coin            string `json:"coin"`
	Network         string `json:"network"`
	Status          int    `json:"status"`
	TransactionFee  num    `json:"transactionFee"`
	TxID            string `json:"txId"`
	ApplyTime       string `json:"applyTime"`
}

type bingxNetwork struct {
	Network           string `json:"network"`
	DepositEnable     bool   `json:"depositEnable"`
	WithdrawEnable    bool   `json:"withdrawEnable"`
	WithdrawFee       num    `json:"withdrawFee"`
	WithdrawMin       num    `json:"withdrawMin"`
	DepositMin        num    `json:"depositMin"`
	WithdrawPrecision int32  `json:"withdrawPrecision"`
}

type bingxCurrency struct {
	Coin        string         `json:"coin"`
	Name        string         `json:"name"`
	NetworkList []bingxNetwork `json:"networkList"`
}

type bingxTransfer struct {
	TranID ident `json:"tranId"`
}

type bingxTransferRecord struct {
	TranID    ident  `json:"tranId"`
	Asset     string `json:"asset"`
	Amount    num    `json:"amount"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}

// Normalizer converts BingX payloads into the canonical types. It is
// stateless; the venue id encodes everything symbol derivation needs.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer instance.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// symbolFromID derives the unified symbol from a venue id like "BTC-USDT".
// Swap markets settle in the quote currency, so the settle suffix repeats it.
func symbolFromID(id string, mt core.MarketType) string {
	base, quote, ok := strings.Cut(id, "-")
	if !ok {
		return id
	}
	if mt == core.MarketTypeSwap {
		return core.UnifiedSymbol(base, quote, quote)
	}
	return core.UnifiedSymbol(base, quote, "")
}

// fieldPresent reports whether a raw field carried a value. A literal null
// counts as absent, so a spot endpoint emitting "lastQty": null does not read
// as the swap flavor.
func fieldPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && string(trimmed) != "null"
}

// marketTypeOfTicker decides the flavor of a ticker payload. Only the swap
// endpoint reports the size of the last trade.
func marketTypeOfTicker(data *bingxTicker) core.MarketType {
	if fieldPresent(data.LastQty) {
		return core.MarketTypeSwap
	}
	return core.MarketTypeSpot
}

// marketTypeOfOrder decides the flavor of an order payload. Only swap orders
// carry a position side.
func marketTypeOfOrder(data *bingxOrder) core.MarketType {
	if len(data.PositionSide) > 0 {
		return core.MarketTypeSwap
	}
	return core.MarketTypeSpot
}

// marketTypeOfTrade decides the flavor of a public trade payload. Only the
// swap endpoint reports the quote-denominated size.
func marketTypeOfTrade(data *bingxTrade) core.MarketType {
	if fieldPresent(data.QuoteQty) {
		return core.MarketTypeSwap
	}
	return core.MarketTypeSpot
}

// NormalizeSpotMarket converts one spot instrument.
func (n *Normalizer) NormalizeSpotMarket(data *bingxSpotMarket, fees core.FeeSchedule, raw json.RawMessage) *core.Market {
	base, quote, _ := strings.Cut(data.Symbol, "-")
	return &core.Market{
		ID:       data.Symbol,
		Symbol:   core.UnifiedSymbol(base, quote, ""),
		Base:     base,
		Quote:    quote,
		BaseID:   base,
		QuoteID:  quote,
		Type:     core.MarketTypeSpot,
		Active:   data.Status == 1 && data.APIStateBuy && data.APIStateSell,
		Precision: core.MarketPrecision{
			Mode:         core.PrecisionTickSize,
			PriceTick:    data.TickSize.Decimal,
			AmountStep:   data.StepSize.Decimal,
			PricePlaces:  core.PrecisionFromIncrement(data.TickSize.Text('f')),
			AmountPlaces: core.PrecisionFromIncrement(data.StepSize.Text('f')),
		},
		Limits: core.MarketLimits{
			MinCost: data.MinNotional.Decimal,
			MaxCost: data.MaxNotional.Decimal,
		},
		Maker: core.MustDecimal(fees.Maker),
		Taker: core.MustDecimal(fees.Taker),
		Info:  raw,
	}
}

// NormalizeSwapMarket converts one perpetual contract.
func (n *Normalizer) NormalizeSwapMarket(data *bingxSwapMarket, fees core.FeeSchedule, raw json.RawMessage) *core.Market {
	base, quote, _ := strings.Cut(data.Symbol, "-")
	settle := data.Currency
	if settle == "" {
		settle = quote
	}
	maxLev := data.MaxLongLeverage
	if data.MaxShortLeverage > maxLev {
		maxLev = data.MaxShortLeverage
	}
	return &core.Market{
		ID:           data.Symbol,
		Symbol:       core.UnifiedSymbol(base, quote, settle),
		Base:         base,
		Quote:        quote,
		Settle:       settle,
		BaseID:       data.Asset,
		QuoteID:      quote,
		SettleID:     data.Currency,
		Type:         core.MarketTypeSwap,
		Active:       data.Status == 1,
		Linear:       true,
		ContractSize: data.Size.Decimal,
		Precision: core.MarketPrecision{
			Mode:         core.PrecisionDecimalPlaces,
			PricePlaces:  data.PricePrecision,
			AmountPlaces: data.QuantityPrecision,
		},
		Limits: core.MarketLimits{
			MinAmount:   data.TradeMinQuantity.Decimal,
			MaxLeverage: maxLev,
		},
		Maker: core.MustDecimal(fees.Maker),
		Taker: core.MustDecimal(fees.Taker),
		Info:  raw,
	}
}

// NormalizeTicker converts a ticker of either flavor.
func (n *Normalizer) NormalizeTicker(data *bingxTicker, raw json.RawMessage) *core.Ticker {
	mt := marketTypeOfTicker(data)
	t := &core.Ticker{
		Symbol:      symbolFromID(data.Symbol, mt),
		Type:        mt,
		Bid:         data.BidPrice.Decimal,
		BidVolume:   data.BidQty.Decimal,
		Ask:         data.AskPrice.Decimal,
		AskVolume:   data.AskQty.Decimal,
		Open:        data.OpenPrice.Decimal,
		Last:        data.LastPrice.Decimal,
		High:        data.HighPrice.Decimal,
		Low:         data.LowPrice.Decimal,
		Change:      data.PriceChange.Decimal,
		Percentage:  data.PriceChangePercent.Decimal,
		BaseVolume:  data.Volume.Decimal,
		QuoteVolume: data.QuoteVolume.Decimal,
		Info:        raw,
	}
	if data.CloseTime > 0 {
		t.Timestamp = time.UnixMilli(data.CloseTime)
	} else {
		t.Timestamp = time.Now()
	}
	return t
}

// NormalizeOrderBook converts a depth snapshot.
func (n *Normalizer) NormalizeOrderBook(data *bingxDepth, symbol string) *core.OrderBook {
	book := &core.OrderBook{
		Symbol: symbol,
		Bids:   make([]core.OrderBookLevel, 0, len(data.Bids)),
		Asks:   make([]core.OrderBookLevel, 0, len(data.Asks)),
	}
	for _, level := range data.Bids {
		if len(level) < 2 {
			continue
		}
		book.Bids = append(book.Bids, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
	}
	for _, level := range data.Asks {
		if len(level) < 2 {
			continue
		}
		book.Asks = append(book.Asks, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
	}
	if data.Ts > 0 {
		book.Timestamp = time.UnixMilli(data.Ts)
	} else {
		book.Timestamp = time.Now()
	}
	return book
}

// NormalizeTrade converts one public trade of either flavor.
func (n *Normalizer) NormalizeTrade(data *bingxTrade, symbol string, raw json.RawMessage) *core.Trade {
	side := core.SideBuy
	if data.BuyerMaker || data.IsBuyerMaker {
		side = core.SideSell
	}
	cost, err := core.DecimalMul(&data.Price.Decimal, &data.Qty.Decimal)
	if err != nil {
		cost = new(apd.Decimal)
	}
	return &core.Trade{
		ID:        string(data.ID),
		Symbol:    symbol,
		Side:      side,
		Price:     data.Price.Decimal,
		Quantity:  data.Qty.Decimal,
		Cost:      *cost,
		Timestamp: time.UnixMilli(data.Time),
		Info:      raw,
	}
}

// NormalizeFill converts one account execution of either flavor.
func (n *Normalizer) NormalizeFill(data *bingxFill, mt core.MarketType, raw json.RawMessage) *core.Trade {
	t := &core.Trade{
		ID:      string(data.ID),
		OrderID: string(data.OrderID),
		Symbol:  symbolFromID(data.Symbol, mt),
		Info:    raw,
	}
	switch {
	case data.Side != "":
		t.Side = parseOrderSide(data.Side)
	case data.IsBuyer:
		t.Side = core.SideBuy
	default:
		t.Side = core.SideSell
	}
	if data.IsMaker {
		t.TakerOrMaker = core.LiquidityMaker
	} else {
		t.TakerOrMaker = core.LiquidityTaker
	}
	t.Price = data.Price.Decimal
	if !data.Qty.IsZero() {
		t.Quantity = data.Qty.Decimal
	} else {
		t.Quantity = data.Volume.Decimal
	}
	if !data.QuoteQty.IsZero() {
		t.Cost = data.QuoteQty.Decimal
	} else {
		t.Cost = data.Amount.Decimal
	}
	t.Fee = data.Commission.Decimal
	if data.CommissionAsset != "" {
		t.FeeAsset = data.CommissionAsset
	} else {
		t.FeeAsset = data.Currency
	}
	if data.Time > 0 {
		t.Timestamp = time.UnixMilli(data.Time)
	} else if data.FilledTime != "" {
		t.Timestamp = parseVenueTime(data.FilledTime)
	}
	return t
}

// NormalizeOrder converts one order of either flavor. The protective legs
// may arrive as objects or as JSON-encoded strings; both forms decode.
func (n *Normalizer) NormalizeOrder(data *bingxOrder, raw json.RawMessage) *core.Order {
	mt := marketTypeOfOrder(data)
	order := &core.Order{
		ID:           string(data.OrderID),
		Symbol:       symbolFromID(data.Symbol, mt),
		Side:         parseOrderSide(data.Side),
		PositionSide: parsePositionSide(rawToString(data.PositionSide)),
		Type:         parseOrderType(data.Type),
		Status:       parseOrderStatus(data.Status),
		TimeInForce:  parseTimeInForce(data.TimeInForce),
		ReduceOnly:   data.ReduceOnly,
		Price:        data.Price.Decimal,
		Average:      data.AvgPrice.Decimal,
		TriggerPrice: data.StopPrice.Decimal,
		Info:         raw,
	}

	switch {
	case data.ClientOrderIDSpot != "":
		order.ClientOrderID = data.ClientOrderIDSpot
	case data.ClientOrderIDSwap != "":
		order.ClientOrderID = data.ClientOrderIDSwap
	default:
		order.ClientOrderID = data.NewClientOrderID
	}

	if !data.OrigQty.IsZero() {
		order.Quantity = data.OrigQty.Decimal
	} else {
		order.Quantity = data.Quantity.Decimal
	}
	order.QuoteQuantity = data.QuoteOrderQty.Decimal
	order.FilledQuantity = data.ExecutedQty.Decimal
	if remaining, err := core.DecimalSub(&order.Quantity, &order.FilledQuantity); err == nil {
		order.RemainingQty = *remaining
	}

	if !data.Fee.IsZero() {
		order.Fee = data.Fee.Decimal
	} else {
		order.Fee = data.Commission.Decimal
	}
	order.FeeAsset = data.FeeAsset

	if sl := decodeAttached(data.StopLoss); sl != nil {
		order.StopLossPrice = sl.StopPrice.Decimal
	}
	if tp := decodeAttached(data.TakeProfit); tp != nil {
		order.TakeProfitPrice = tp.StopPrice.Decimal
	}

	created := data.Time
	if created == 0 {
		created = data.TransactTime
	}
	if created > 0 {
		order.CreatedAt = time.UnixMilli(created)
	}
	if data.UpdateTime > 0 {
		order.UpdatedAt = time.UnixMilli(data.UpdateTime)
	}
	return order
}

// NormalizeSpotBalances converts the spot account snapshot.
func (n *Normalizer) NormalizeSpotBalances(data *bingxSpotBalances) []core.Balance {
	out := make([]core.Balance, 0, len(data.Balances))
	for _, b := range data.Balances {
		total, err := decAdd(&b.Free.Decimal, &b.Locked.Decimal)
		if err != nil {
			total = new(apd.Decimal)
		}
		out = append(out, core.Balance{
			Asset: b.Asset,
			Free:  b.Free.Decimal,
			Used:  b.Locked.Decimal,
			Total: *total,
		})
	}
	return out
}

// NormalizeSwapBalances converts the swap margin snapshot.
func (n *Normalizer) NormalizeSwapBalances(data []bingxSwapBalance) []core.Balance {
	out := make([]core.Balance, 0, len(data))
	for _, b := range data {
		used, err := decAdd(&b.UsedMargin.Decimal, &b.FreezedMargin.Decimal)
		if err != nil {
			used = new(apd.Decimal)
		}
		out = append(out, core.Balance{
			Asset: b.Asset,
			Free:  b.AvailableMargin.Decimal,
			Used:  *used,
			Total: b.Balance.Decimal,
		})
	}
	return out
}

// NormalizePosition converts one swap position.
func (n *Normalizer) NormalizePosition(data *bingxPosition, raw json.RawMessage) *core.Position {
	mode := core.MarginModeCross
	if data.Isolated {
		mode = core.MarginModeIsolated
	}
	p := &core.Position{
		ID:               string(data.PositionID),
		Symbol:           symbolFromID(data.Symbol, core.MarketTypeSwap),
		Side:             parsePositionSide(data.PositionSide),
		MarginMode:       mode,
		Contracts:        data.PositionAmt.Decimal,
		EntryPrice:       data.AvgPrice.Decimal,
		MarkPrice:        data.MarkPrice.Decimal,
		LiquidationPrice: data.LiquidationPrice.Decimal,
		Leverage:         data.Leverage.Decimal,
		Margin:           data.Margin.Decimal,
		UnrealizedPnl:    data.UnrealizedProfit.Decimal,
		RealizedPnl:      data.RealisedProfit.Decimal,
		Info:             raw,
	}
	if data.UpdateTime > 0 {
		p.Timestamp = time.UnixMilli(data.UpdateTime)
	}
	return p
}

// NormalizeFundingRate converts a premium index snapshot.
func (n *Normalizer) NormalizeFundingRate(data *bingxPremiumIndex) *core.FundingRate {
	return &core.FundingRate{
		Symbol:          symbolFromID(data.Symbol, core.MarketTypeSwap),
		Rate:            data.LastFundingRate.Decimal,
		MarkPrice:       data.MarkPrice.Decimal,
		IndexPrice:      data.IndexPrice.Decimal,
		NextFundingTime: time.UnixMilli(data.NextFundingTime),
		Timestamp:       time.Now(),
	}
}

// transferAccountNames maps the venue's transfer vocabulary back onto the
// unified account names.
var transferAccountNames = map[string]string{
	"FUND":     "fund",
	"PFUTURES": "swap",
	"SFUTURES": "futures",
}

// NormalizeTransfer converts one internal-transfer history row. The account
// pair rides in the type field, e.g. "FUND_PFUTURES".
func (n *Normalizer) NormalizeTransfer(data *bingxTransferRecord) *core.Transfer {
	fromID, toID, _ := strings.Cut(data.Type, "_")
	from, ok := transferAccountNames[fromID]
	if !ok {
		from = strings.ToLower(fromID)
	}
	to, ok := transferAccountNames[toID]
	if !ok {
		to = strings.ToLower(toID)
	}
	status := core.TxStatusPending
	if data.Status == "CONFIRMED" {
		status = core.TxStatusOK
	}
	return &core.Transfer{
		ID:        string(data.TranID),
		Asset:     data.Asset,
		Amount:    data.Amount.Decimal,
		From:      from,
		To:        to,
		Status:    status,
		Timestamp: time.UnixMilli(data.Timestamp),
	}
}

// NormalizeDeposit converts one deposit record.
func (n *Normalizer) NormalizeDeposit(data *bingxDeposit, raw json.RawMessage) *core.Transaction {
	return &core.Transaction{
		TxID:      data.TxID,
		Kind:      core.TxDeposit,
		Asset:     data.Coin,
		Network:   data.Network,
		Amount:    data.Amount.Decimal,
		Address:   data.Address,
		Status:    parseDepositStatus(data.Status),
		Timestamp: time.UnixMilli(data.InsertTime),
		Info:      raw,
	}
}

// NormalizeWithdrawal converts one withdrawal record.
func (n *Normalizer) NormalizeWithdrawal(data *bingxWithdrawal, raw json.RawMessage) *core.Transaction {
	return &core.Transaction{
		ID:        string(data.ID),
		TxID:      data.TxID,
		Kind:      core.TxWithdrawal,
		Asset:     data.Coin,
		Network:   data.Network,
		Amount:    data.Amount.Decimal,
		Fee:       data.TransactionFee.Decimal,
		Address:   data.Address,
		Status:    parseWithdrawalStatus(data.Status),
		Timestamp: parseVenueTime(data.ApplyTime),
		Info:      raw,
	}
}

// NormalizeCurrency converts one listed asset with its transfer networks.
func (n *Normalizer) NormalizeCurrency(data *bingxCurrency, raw json.RawMessage) *core.Currency {
	c := &core.Currency{
		Code: data.Coin,
		ID:   data.Coin,
		Name: data.Name,
		Info: raw,
	}
	for _, net := range data.NetworkList {
		c.Deposit = c.Deposit || net.DepositEnable
		c.Withdraw = c.Withdraw || net.WithdrawEnable
		if net.WithdrawPrecision > c.Precision {
			c.Precision = net.WithdrawPrecision
		}
		c.Networks = append(c.Networks, core.CurrencyNetwork{
			ID:          net.Network,
			Deposit:     net.DepositEnable,
			Withdraw:    net.WithdrawEnable,
			WithdrawFee: net.WithdrawFee.Decimal,
			WithdrawMin: net.WithdrawMin.Decimal,
			DepositMin:  net.DepositMin.Decimal,
		})
	}
	return c
}

// decodeAttached decodes a protective leg that may be a JSON object or a
// JSON-encoded string holding an object.
func decodeAttached(raw json.RawMessage) *bingxAttached {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		return nil
	}
	if trimmed[0] == '"' {
		var inner string
		if err := sonic.Unmarshal(trimmed, &inner); err != nil {
			return nil
		}
		trimmed = []byte(inner)
	}
	var out bingxAttached
	if err := sonic.Unmarshal(trimmed, &out); err != nil {
		return nil
	}
	return &out
}

func rawToString(raw json.RawMessage) string {
	return strings.Trim(string(bytes.TrimSpace(raw)), `"`)
}

func parseOrderSide(s string) core.OrderSide {
	switch strings.ToUpper(s) {
	case "BUY":
		return core.SideBuy
	case "SELL":
		return core.SideSell
	default:
		return core.SideUnknown
	}
}

func parsePositionSide(s string) core.PositionSide {
	switch strings.ToUpper(s) {
	case "LONG":
		return core.PositionLong
	case "SHORT":
		return core.PositionShort
	case "BOTH":
		return core.PositionBoth
	default:
		return core.PositionSideUnknown
	}
}

func parseOrderType(s string) core.OrderType {
	switch strings.ToUpper(s) {
	case "MARKET":
		return core.TypeMarket
	case "LIMIT":
		return core.TypeLimit
	case "TRIGGER_MARKET":
		return core.TypeTriggerMarket
	case "TRIGGER_LIMIT":
		return core.TypeTriggerLimit
	case "STOP_MARKET":
		return core.TypeStopLoss
	case "STOP":
		return core.TypeStopLossLimit
	case "TAKE_PROFIT_MARKET":
		return core.TypeTakeProfit
	case "TAKE_PROFIT":
		return core.TypeTakeProfitLimit
	case "TRAILING_STOP_MARKET", "TRAILING_TP_SL":
		return core.TypeTrailingStop
	default:
		return core.TypeUnknown
	}
}

func parseOrderStatus(s string) core.OrderStatus {
	switch strings.ToUpper(s) {
	case "NEW", "PENDING", "PARTIALLY_FILLED":
		return core.StatusOpen
	case "FILLED":
		return core.StatusClosed
	case "CANCELED", "CANCELLED":
		return core.StatusCanceled
	case "FAILED", "REJECTED":
		return core.StatusRejected
	case "EXPIRED":
		return core.StatusExpired
	default:
		return core.StatusUnknown
	}
}

func parseTimeInForce(s string) core.TimeInForce {
	switch strings.ToUpper(s) {
	case "IOC":
		return core.IOC
	case "FOK":
		return core.FOK
	case "POC", "POSTONLY":
		return core.PostOnly
	default:
		return core.GTC
	}
}

func parseDepositStatus(status int) core.TransactionStatus {
	switch status {
	case 0, 10:
		return core.TxStatusPending
	case 1, 6:
		return core.TxStatusOK
	default:
		return core.TxStatusUnknown
	}
}

func parseWithdrawalStatus(status int) core.TransactionStatus {
	switch status {
	case 4:
		return core.TxStatusPending
	case 5:
		return core.TxStatusFailed
	case 6:
		return core.TxStatusOK
	default:
		return core.TxStatusUnknown
	}
}

// parseVenueTime parses the wall-clock formats BingX mixes into otherwise
// millisecond-stamped payloads.
func parseVenueTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{
		"2006-01-02T15:04:05.000Z0700",
		time.RFC3339,
		"2006-01-02 15:04:05",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func decAdd(a, b *apd.Decimal) (*apd.Decimal, error) {
	out := new(apd.Decimal)
	if _, err := apd.BaseContext.Add(out, a, b); err != nil {
		return nil, err
	}
	return out, nil
}
