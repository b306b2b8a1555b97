package core

// Operation represents one call of the unified API surface.
type Operation int

// Operation constants cover the whole unified surface. Each adapter declares
// which of these it supports in its capability descriptor.
const (
	// OpGetMarkets retrieves all tradable instruments.
	OpGetMarkets Operation = iota
	// OpGetCurrencies retrieves listed assets and their transfer networks.
	OpGetCurrencies
	// OpGetTicker retrieves 24h statistics for one symbol.
	OpGetTicker
	// OpGetTickers retrieves 24h statistics for all symbols of a market type.
	OpGetTickers
	// OpGetOrderBook retrieves the current order book depth.
	OpGetOrderBook
	// OpGetKlines retrieves candlestick/OHLCV data.
	OpGetKlines
	// OpGetTrades retrieves recent public trades.
	OpGetTrades
	// OpGetFundingRate retrieves the current funding rate of a swap market.
	OpGetFundingRate
	// OpGetBalance retrieves account balances.
	OpGetBalance
	// OpPlaceOrder submits a new order.
	OpPlaceOrder
	// OpPlaceOrders submits a batch of orders for one symbol.
	OpPlaceOrders
	// OpCancelOrder cancels one order.
	OpCancelOrder
	// OpCancelOrders cancels a batch of orders for one symbol.
	OpCancelOrders
	// OpCancelAllOrders cancels every open order, optionally per symbol.
	OpCancelAllOrders
	// OpAmendOrder edits price/amount of an open order.
	OpAmendOrder
	// OpGetOrder retrieves one order by id.
	OpGetOrder
	// OpGetOpenOrders retrieves live orders.
	OpGetOpenOrders
	// OpGetClosedOrders retrieves finished orders.
	OpGetClosedOrders
	// OpGetMyTrades retrieves the account's executions.
	OpGetMyTrades
	// OpGetPositions retrieves open derivative positions.
	OpGetPositions
	// OpSetLeverage sets the leverage of a contract market.
	OpSetLeverage
	// OpSetMarginMode switches between isolated and cross margin.
	OpSetMarginMode
	// OpTransfer moves funds between account types.
	OpTransfer
	// OpGetTransfers retrieves the history of internal transfers.
	OpGetTransfers
	// OpGetDeposits retrieves deposit history.
	OpGetDeposits
	// OpGetWithdrawals retrieves withdrawal history.
	OpGetWithdrawals
	// OpWithdraw requests an on-chain withdrawal.
	OpWithdraw

	numOperations int = iota
)

// String returns the string representation of the operation.
func (o Operation) String() string {
	return [...]string{
		"GET_MARKETS",
		"GET_CURRENCIES",
		"GET_TICKER",
		"GET_TICKERS",
		"GET_ORDER_BOOK",
		"GET_KLINES",
		"GET_TRADES",
		"GET_FUNDING_RATE",
		"GET_BALANCE",
		"PLACE_ORDER",
		"PLACE_ORDERS",
		"CANCEL_ORDER",
		"CANCEL_ORDERS",
		"CANCEL_ALL_ORDERS",
		"AMEND_ORDER",
		"GET_ORDER",
		"GET_OPEN_ORDERS",
		"GET_CLOSED_ORDERS",
		"GET_MY_TRADES",
		"GET_POSITIONS",
		"SET_LEVERAGE",
		"SET_MARGIN_MODE",
		"TRANSFER",
		"GET_TRANSFERS",
		"GET_DEPOSITS",
		"GET_WITHDRAWALS",
		"WITHDRAW",
	}[o]
}

// Operations returns every operation of the unified surface, in order.
func Operations() []Operation {
	ops := make([]Operation, numOperations)
	for i := range ops {
		ops[i] = Operation(i)
	}
	return ops
}
