package core

// OrderSide represents the direction of an order (buy or sell).
type OrderSide int

// Order side constants define the direction of a trade.
const (
	// SideUnknown is the fallback for spellings no mapping table recognizes.
	SideUnknown OrderSide = iota
	// SideBuy indicates an order to purchase an asset.
	SideBuy
	// SideSell indicates an order to sell an asset.
	SideSell
)

// String returns the string representation of the order side.
func (s OrderSide) String() string {
	return [...]string{"UNKNOWN", "BUY", "SELL"}[s]
}

// MarshalJSON implements json.Marshaler for OrderSide.
func (s OrderSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// Opposite returns the reverse direction. Unknown stays unknown.
func (s OrderSide) Opposite() OrderSide {
	switch s {
	case SideBuy:
		return SideSell
	case SideSell:
		return SideBuy
	default:
		return SideUnknown
	}
}

// OrderType represents the unified type of an order.
// Exchange-specific variants (TRIGGER_LIMIT, STOP_MARKET, ...) are selected by
// each request builder from the base type plus the trigger/stop fields present.
type OrderType int

// Order type constants define how an order is executed.
const (
	// TypeUnknown is the fallback for spellings no mapping table recognizes.
	TypeUnknown OrderType = iota
	// TypeMarket executes immediately at the best available price.
	TypeMarket
	// TypeLimit executes at a specified price or better.
	TypeLimit
	// TypeTriggerMarket places a market order once the trigger price is hit.
	TypeTriggerMarket
	// TypeTriggerLimit places a limit order once the trigger price is hit.
	TypeTriggerLimit
	// TypeStopLoss closes a position at market once the stop price is hit.
	TypeStopLoss
	// TypeStopLossLimit closes a position with a limit order once the stop price is hit.
	TypeStopLossLimit
	// TypeTakeProfit closes a position at market once the target price is hit.
	TypeTakeProfit
	// TypeTakeProfitLimit closes a position with a limit order once the target price is hit.
	TypeTakeProfitLimit
	// TypeTrailingStop follows the market at a fixed amount or percent distance.
	TypeTrailingStop
)

// String returns the string representation of the order type.
func (t OrderType) String() string {
	return [...]string{
		"UNKNOWN",
		"MARKET",
		"LIMIT",
		"TRIGGER_MARKET",
		"TRIGGER_LIMIT",
		"STOP_LOSS",
		"STOP_LOSS_LIMIT",
		"TAKE_PROFIT",
		"TAKE_PROFIT_LIMIT",
		"TRAILING_STOP",
	}[t]
}

// MarshalJSON implements json.Marshaler for OrderType.
func (t OrderType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// IsMarket reports whether the order executes at market price, including the
// triggered market variants.
func (t OrderType) IsMarket() bool {
	return t == TypeMarket || t == TypeTriggerMarket || t == TypeStopLoss || t == TypeTakeProfit || t == TypeTrailingStop
}

// OrderStatus represents the current state of an order.
type OrderStatus int

// Order status constants define the lifecycle state of an order.
const (
	// StatusUnknown is the fallback for spellings no mapping table recognizes.
	StatusUnknown OrderStatus = iota
	// StatusOpen indicates the order is live on the book (new or partially filled).
	StatusOpen
	// StatusClosed indicates the order has been completely filled.
	StatusClosed
	// StatusCanceled indicates the order has been canceled.
	StatusCanceled
	// StatusRejected indicates the order was rejected by the exchange.
	StatusRejected
	// StatusExpired indicates the order has expired.
	StatusExpired
)

// String returns the string representation of the order status.
func (s OrderStatus) String() string {
	return [...]string{"UNKNOWN", "OPEN", "CLOSED", "CANCELED", "REJECTED", "EXPIRED"}[s]
}

// IsTerminal returns true if the order is in a terminal state.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusClosed || s == StatusCanceled || s == StatusRejected || s == StatusExpired
}

// MarshalJSON implements json.Marshaler for OrderStatus.
func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// TimeInForce defines how long an order remains active.
type TimeInForce int

// Time in force constants define order lifetime behavior.
const (
	// GTC (Good Till Canceled) keeps the order active until filled or canceled.
	GTC TimeInForce = iota
	// IOC (Immediate Or Cancel) requires immediate execution; the unfilled portion is canceled.
	IOC
	// FOK (Fill Or Kill) requires complete immediate execution or cancellation.
	FOK
	// PostOnly rejects the order if any part of it would take liquidity.
	PostOnly
)

// String returns the string representation of time in force.
func (t TimeInForce) String() string {
	return [...]string{"GTC", "IOC", "FOK", "POST_ONLY"}[t]
}

// MarshalJSON implements json.Marshaler for TimeInForce.
func (t TimeInForce) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// MarketType represents the type of trading market on an exchange.
type MarketType int

// Market type constants.
const (
	// MarketTypeSpot indicates spot trading where assets are exchanged immediately.
	MarketTypeSpot MarketType = iota
	// MarketTypeSwap indicates perpetual swap contracts.
	MarketTypeSwap
	// MarketTypeMargin indicates leveraged spot trading.
	MarketTypeMargin
)

// String returns the string representation of the market type.
func (m MarketType) String() string {
	return [...]string{"spot", "swap", "margin"}[m]
}

// MarshalJSON implements json.Marshaler for MarketType.
func (m MarketType) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// MarginMode represents how collateral is allocated to a derivatives position.
type MarginMode int

// Margin mode constants.
const (
	// MarginModeUnknown is the fallback for spellings no mapping table recognizes.
	MarginModeUnknown MarginMode = iota
	// MarginModeIsolated dedicates collateral per position.
	MarginModeIsolated
	// MarginModeCross shares collateral across positions.
	MarginModeCross
)

// String returns the string representation of the margin mode.
func (m MarginMode) String() string {
	return [...]string{"unknown", "isolated", "cross"}[m]
}

// MarshalJSON implements json.Marshaler for MarginMode.
func (m MarginMode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// PositionSide represents the direction of a derivatives position.
type PositionSide int

// Position side constants.
const (
	// PositionSideUnknown is the fallback for spellings no mapping table recognizes.
	PositionSideUnknown PositionSide = iota
	// PositionLong profits when price rises.
	PositionLong
	// PositionShort profits when price falls.
	PositionShort
	// PositionBoth is used by venues in one-way position mode.
	PositionBoth
)

// String returns the string representation of the position side.
func (p PositionSide) String() string {
	return [...]string{"unknown", "long", "short", "both"}[p]
}

// MarshalJSON implements json.Marshaler for PositionSide.
func (p PositionSide) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// TransactionStatus represents the state of a deposit or withdrawal.
type TransactionStatus int

// Transaction status constants.
const (
	// TxStatusUnknown is the fallback for spellings no mapping table recognizes.
	TxStatusUnknown TransactionStatus = iota
	// TxStatusPending indicates the transaction is awaiting confirmation.
	TxStatusPending
	// TxStatusOK indicates the transaction completed.
	TxStatusOK
	// TxStatusFailed indicates the transaction failed.
	TxStatusFailed
	// TxStatusCanceled indicates the transaction was canceled.
	TxStatusCanceled
)

// String returns the string representation of the transaction status.
func (t TransactionStatus) String() string {
	return [...]string{"unknown", "pending", "ok", "failed", "canceled"}[t]
}

// MarshalJSON implements json.Marshaler for TransactionStatus.
func (t TransactionStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

// TakerOrMaker indicates which side of the book a trade consumed.
type TakerOrMaker int

// Liquidity role constants.
const (
	// LiquidityUnknown is the fallback when the venue does not report the role.
	LiquidityUnknown TakerOrMaker = iota
	// LiquidityTaker consumed resting liquidity.
	LiquidityTaker
	// LiquidityMaker provided resting liquidity.
	LiquidityMaker
)

// String returns the string representation of the liquidity role.
func (t TakerOrMaker) String() string {
	return [...]string{"unknown", "taker", "maker"}[t]
}

// MarshalJSON implements json.Marshaler for TakerOrMaker.
func (t TakerOrMaker) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}
