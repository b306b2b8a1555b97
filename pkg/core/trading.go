package core

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Order represents an exchange order with all of its details.
// It is a per-call snapshot: the adapter never mutates an Order after
// returning it.
type Order struct {
	// ID is the exchange-assigned order identifier.
	ID string `json:"id"`
	// ClientOrderID is the client-assigned order identifier.
	ClientOrderID string `json:"client_order_id,omitempty"`
	// Symbol is the unified trading pair for this order.
	Symbol string `json:"symbol"`
	// Side indicates whether this is a buy or sell order.
	Side OrderSide `json:"side"`
	// PositionSide is the contract position direction, for swap orders.
	PositionSide PositionSide `json:"position_side,omitempty"`
	// Type defines how the order executes.
	Type OrderType `json:"type"`
	// Status is the current state of the order.
	Status OrderStatus `json:"status"`
	// TimeInForce defines how long the order remains active.
	TimeInForce TimeInForce `json:"time_in_force"`
	// ReduceOnly restricts the order to reducing an open position.
	ReduceOnly bool `json:"reduce_only,omitempty"`
	// Price is the limit price for limit orders.
	Price apd.Decimal `json:"price"`
	// Average is the volume-weighted fill price, when reported.
	Average apd.Decimal `json:"average"`
	// Quantity is the total order quantity in base units.
	Quantity apd.Decimal `json:"quantity"`
	// QuoteQuantity is the order size in quote units, for cost-denominated
	// market buys.
	QuoteQuantity apd.Decimal `json:"quote_quantity"`
	// FilledQuantity is the amount that has been executed.
	FilledQuantity apd.Decimal `json:"filled_quantity"`
	// RemainingQty is the unfilled portion. Venues report filled and
	// remaining inconsistently; when the venue omits one, it is derived from
	// the other and Quantity, and the identity filled+remaining == quantity
	// is best effort, not enforced.
	RemainingQty apd.Decimal `json:"remaining_quantity"`
	// TriggerPrice activates trigger orders when crossed.
	TriggerPrice apd.Decimal `json:"trigger_price"`
	// StopLossPrice is the attached stop-loss trigger, when present.
	StopLossPrice apd.Decimal `json:"stop_loss_price"`
	// TakeProfitPrice is the attached take-profit trigger, when present.
	TakeProfitPrice apd.Decimal `json:"take_profit_price"`
	// Fee is the cumulative fee charged so far.
	Fee apd.Decimal `json:"fee"`
	// FeeAsset is the currency in which the fee was charged.
	FeeAsset string `json:"fee_asset,omitempty"`
	// CreatedAt is when the order was accepted by the exchange.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the order last changed.
	UpdatedAt time.Time `json:"updated_at"`
	// Info is the raw venue payload this order was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// Position is a snapshot of one derivatives position. The exchange mutates it
// continuously; the adapter only observes it per call.
type Position struct {
	// ID is the venue's position identifier, when assigned.
	ID string `json:"id,omitempty"`
	// Symbol is the unified contract market.
	Symbol string `json:"symbol"`
	// Side is long or short.
	Side PositionSide `json:"side"`
	// MarginMode is isolated or cross.
	MarginMode MarginMode `json:"margin_mode"`
	// Contracts is the position size in contract units.
	Contracts apd.Decimal `json:"contracts"`
	// EntryPrice is the volume-weighted open price.
	EntryPrice apd.Decimal `json:"entry_price"`
	// MarkPrice is the venue's current mark price, when reported.
	MarkPrice apd.Decimal `json:"mark_price"`
	// LiquidationPrice is where the position would be force-closed.
	LiquidationPrice apd.Decimal `json:"liquidation_price"`
	// Leverage is the configured leverage multiple.
	Leverage apd.Decimal `json:"leverage"`
	// Margin is the collateral allocated to the position.
	Margin apd.Decimal `json:"margin"`
	// UnrealizedPnl is the open profit or loss.
	UnrealizedPnl apd.Decimal `json:"unrealized_pnl"`
	// RealizedPnl is the booked profit or loss, when reported.
	RealizedPnl apd.Decimal `json:"realized_pnl"`
	// Timestamp is when the position was opened or last updated.
	Timestamp time.Time `json:"timestamp"`
	// Info is the raw venue payload this position was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// Balance represents account balance for a single asset. Snapshot only.
type Balance struct {
	// Asset is the currency or token code (e.g. "BTC", "USDT").
	Asset string `json:"asset"`
	// Free is the balance available for trading.
	Free apd.Decimal `json:"free"`
	// Used is the balance locked in open orders or positions.
	Used apd.Decimal `json:"used"`
	// Total is free plus used.
	Total apd.Decimal `json:"total"`
}

// TransactionKind distinguishes deposits from withdrawals.
type TransactionKind int

// Transaction kind constants.
const (
	// TxDeposit is an on-chain transfer into the exchange account.
	TxDeposit TransactionKind = iota
	// TxWithdrawal is an on-chain transfer out of the exchange account.
	TxWithdrawal
)

// String returns the string representation of the transaction kind.
func (k TransactionKind) String() string {
	return [...]string{"deposit", "withdrawal"}[k]
}

// Transaction is one deposit or withdrawal record.
type Transaction struct {
	// ID is the venue's record identifier.
	ID string `json:"id"`
	// TxID is the on-chain transaction hash, when known.
	TxID string `json:"txid,omitempty"`
	// Kind is deposit or withdrawal.
	Kind TransactionKind `json:"kind"`
	// Asset is the unified currency code.
	Asset string `json:"asset"`
	// Network is the transfer chain, when reported.
	Network string `json:"network,omitempty"`
	// Amount is the transferred quantity.
	Amount apd.Decimal `json:"amount"`
	// Fee is the transfer fee charged, for withdrawals.
	Fee apd.Decimal `json:"fee"`
	// Address is the counterparty address.
	Address string `json:"address,omitempty"`
	// Status is the unified transaction state.
	Status TransactionStatus `json:"status"`
	// Timestamp is when the record was created.
	Timestamp time.Time `json:"timestamp"`
	// Info is the raw venue payload this record was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// Transfer is one internal move between account types on the same venue.
type Transfer struct {
	// ID is the venue's transfer identifier, when assigned.
	ID string `json:"id,omitempty"`
	// Asset is the unified currency code.
	Asset string `json:"asset"`
	// Amount is the transferred quantity.
	Amount apd.Decimal `json:"amount"`
	// From and To are venue account names (e.g. "spot", "swap").
	From string `json:"from"`
	To   string `json:"to"`
	// Status is the unified transaction state.
	Status TransactionStatus `json:"status"`
	// Timestamp is when the transfer was made.
	Timestamp time.Time `json:"timestamp"`
}
