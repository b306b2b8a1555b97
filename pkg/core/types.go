package core

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/apd/v3"
)

// Ticker represents 24-hour rolling market statistics for a trading pair.
// Numeric fields are arbitrary-precision decimals parsed straight from the
// venue's decimal strings; callers convert to float only at their own boundary.
type Ticker struct {
	// Symbol is the unified trading pair identifier (e.g. "BTC/USDT" or "BTC/USDT:USDT").
	Symbol string `json:"symbol"`
	// Type distinguishes the spot and swap flavor of the same pair.
	Type MarketType `json:"type"`
	// Bid is the highest price a buyer is willing to pay.
	Bid apd.Decimal `json:"bid"`
	// BidVolume is the size resting at the best bid, when reported.
	BidVolume apd.Decimal `json:"bid_volume"`
	// Ask is the lowest price a seller is willing to accept.
	Ask apd.Decimal `json:"ask"`
	// AskVolume is the size resting at the best ask, when reported.
	AskVolume apd.Decimal `json:"ask_volume"`
	// Open is the price 24 hours ago.
	Open apd.Decimal `json:"open"`
	// Last is the price of the most recent trade.
	Last apd.Decimal `json:"last"`
	// High is the highest price in the last 24 hours.
	High apd.Decimal `json:"high"`
	// Low is the lowest price in the last 24 hours.
	Low apd.Decimal `json:"low"`
	// Change is the absolute price change over the period.
	Change apd.Decimal `json:"change"`
	// Percentage is the relative price change over the period, without a % sign.
	Percentage apd.Decimal `json:"percentage"`
	// BaseVolume is the 24h volume in base currency units.
	BaseVolume apd.Decimal `json:"base_volume"`
	// QuoteVolume is the 24h volume in quote currency units.
	QuoteVolume apd.Decimal `json:"quote_volume"`
	// Timestamp is when this ticker data was generated.
	Timestamp time.Time `json:"timestamp"`
	// Info is the raw venue payload this ticker was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// OrderBookLevel represents a single price level in the order book.
type OrderBookLevel struct {
	// Price is the limit price for this level.
	Price apd.Decimal `json:"price"`
	// Quantity is the total quantity available at this price.
	Quantity apd.Decimal `json:"quantity"`
}

// OrderBook represents a snapshot of the order book for a trading pair.
type OrderBook struct {
	// Symbol is the unified trading pair for this order book.
	Symbol string `json:"symbol"`
	// Bids are buy orders sorted by price descending.
	Bids []OrderBookLevel `json:"bids"`
	// Asks are sell orders sorted by price ascending.
	Asks []OrderBookLevel `json:"asks"`
	// Timestamp is when this snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}

// Kline represents a candlestick/OHLCV data point for one interval.
type Kline struct {
	// Symbol is the unified trading pair for this kline.
	Symbol string `json:"symbol"`
	// OpenTime is the start of the candlestick period.
	OpenTime time.Time `json:"open_time"`
	// Open is the price at the start of the period.
	Open apd.Decimal `json:"open"`
	// High is the highest price during the period.
	High apd.Decimal `json:"high"`
	// Low is the lowest price during the period.
	Low apd.Decimal `json:"low"`
	// Close is the price at the end of the period.
	Close apd.Decimal `json:"close"`
	// Volume is the trading volume during the period in base units.
	Volume apd.Decimal `json:"volume"`
	// QuoteVolume is the value traded during the period in quote units.
	QuoteVolume apd.Decimal `json:"quote_volume"`
	// CloseTime is the end of the candlestick period, when reported.
	CloseTime time.Time `json:"close_time"`
}

// Trade represents a single execution, either public or belonging to the account.
type Trade struct {
	// ID is the venue-assigned trade identifier.
	ID string `json:"id"`
	// OrderID links this trade to its parent order, when known.
	OrderID string `json:"order_id,omitempty"`
	// Symbol is the unified trading pair for this trade.
	Symbol string `json:"symbol"`
	// Side indicates whether the taker bought or sold.
	Side OrderSide `json:"side"`
	// TakerOrMaker is the account's liquidity role, for account trades.
	TakerOrMaker TakerOrMaker `json:"taker_or_maker"`
	// Price is the execution price.
	Price apd.Decimal `json:"price"`
	// Quantity is the amount executed in base units.
	Quantity apd.Decimal `json:"quantity"`
	// Cost is price times quantity in quote units, when derivable.
	Cost apd.Decimal `json:"cost"`
	// Fee is the trading fee charged.
	Fee apd.Decimal `json:"fee"`
	// FeeAsset is the currency in which the fee was charged.
	FeeAsset string `json:"fee_asset,omitempty"`
	// Timestamp is when the trade was executed.
	Timestamp time.Time `json:"timestamp"`
	// Info is the raw venue payload this trade was parsed from.
	Info json.RawMessage `json:"info,omitempty"`
}

// FundingRate represents the current funding state of a perpetual swap market.
type FundingRate struct {
	// Symbol is the unified swap market.
	Symbol string `json:"symbol"`
	// Rate is the current or latest funding rate.
	Rate apd.Decimal `json:"rate"`
	// MarkPrice is the venue's mark price, when reported.
	MarkPrice apd.Decimal `json:"mark_price"`
	// IndexPrice is the venue's index price, when reported.
	IndexPrice apd.Decimal `json:"index_price"`
	// NextFundingTime is when the next funding payment settles.
	NextFundingTime time.Time `json:"next_funding_time"`
	// Timestamp is when this snapshot was taken.
	Timestamp time.Time `json:"timestamp"`
}
