package exchange

import (
	"context"

	"github.com/cockroachdb/apd/v3"

	"tukar/pkg/core"
)

// Exchange is the unified trading surface. Every adapter translates these
// calls into its venue's REST API and normalizes the responses into the
// core types, so callers switch venues without changing call sites.
//
// Methods an adapter does not support return a NotSupported error; the
// Describe capability map says so up front.
type Exchange interface {
	ID() string
	Name() string
	Describe() *core.Descriptor

	// LoadMarkets fetches and caches the venue's market table. reload forces
	// a refresh; otherwise a warm cache is returned as-is. Every symbol-taking
	// method requires a prior LoadMarkets.
	LoadMarkets(ctx context.Context, reload bool) (map[string]*core.Market, error)
	MarketBySymbol(symbol string) (*core.Market, error)
	GetCurrencies(ctx context.Context) (map[string]*core.Currency, error)

	GetTicker(ctx context.Context, symbol string, opts ...Option) (*core.Ticker, error)
	GetTickers(ctx context.Context, symbols []string, opts ...Option) (map[string]*core.Ticker, error)
	GetOrderBook(ctx context.Context, symbol string, opts ...Option) (*core.OrderBook, error)
	GetKlines(ctx context.Context, symbol string, opts ...Option) ([]core.Kline, error)
	GetTrades(ctx context.Context, symbol string, opts ...Option) ([]core.Trade, error)
	GetFundingRate(ctx context.Context, symbol string, opts ...Option) (*core.FundingRate, error)

	GetBalance(ctx context.Context, opts ...Option) ([]core.Balance, error)

	PlaceOrder(ctx context.Context, req *OrderRequest, opts ...Option) (*core.Order, error)
	PlaceOrders(ctx context.Context, reqs []*OrderRequest, opts ...Option) ([]core.Order, error)
	AmendOrder(ctx context.Context, req *AmendRequest, opts ...Option) (*core.Order, error)
	CancelOrder(ctx context.Context, req *CancelRequest, opts ...Option) (*core.Order, error)
	CancelOrders(ctx context.Context, reqs []*CancelRequest, opts ...Option) ([]core.Order, error)
	CancelAllOrders(ctx context.Context, symbol string, opts ...Option) ([]core.Order, error)
	GetOrder(ctx context.Context, req *OrderQuery, opts ...Option) (*core.Order, error)
	GetOpenOrders(ctx context.Context, symbol string, opts ...Option) ([]core.Order, error)
	GetClosedOrders(ctx context.Context, symbol string, opts ...Option) ([]core.Order, error)
	GetMyTrades(ctx context.Context, symbol string, opts ...Option) ([]core.Trade, error)

	GetPositions(ctx context.Context, symbols []string, opts ...Option) ([]core.Position, error)
	SetLeverage(ctx context.Context, symbol string, leverage int, opts ...Option) error
	SetMarginMode(ctx context.Context, symbol string, mode core.MarginMode, opts ...Option) error

	Transfer(ctx context.Context, req *TransferRequest, opts ...Option) (*core.Transfer, error)
	GetTransfers(ctx context.Context, asset string, opts ...Option) ([]core.Transfer, error)
	GetDeposits(ctx context.Context, asset string, opts ...Option) ([]core.Transaction, error)
	GetWithdrawals(ctx context.Context, asset string, opts ...Option) ([]core.Transaction, error)
	Withdraw(ctx context.Context, req *WithdrawRequest, opts ...Option) (*core.Transaction, error)

	Close() error
}

// Streamer is implemented by adapters that also carry a market-data
// websocket. It is split from Exchange because not every venue gets one.
type Streamer interface {
	WatchTicker(ctx context.Context, symbol string, opts ...Option) (<-chan *core.Ticker, <-chan error)
	WatchTrades(ctx context.Context, symbol string, opts ...Option) (<-chan *core.Trade, <-chan error)
	WatchOrderBook(ctx context.Context, symbol string, opts ...Option) (<-chan *core.OrderBook, <-chan error)
}

// OrderRequest carries the unified parameters for a new order. Zero-valued
// decimals mean "not set"; the adapter decides which fields its venue
// requires and rejects the rest before any network call.
type OrderRequest struct {
	Symbol      string
	Side        core.OrderSide
	Type        core.OrderType
	Quantity    apd.Decimal
	Price       apd.Decimal
	TimeInForce core.TimeInForce

	// QuoteQuantity places a market buy by spend instead of amount.
	QuoteQuantity apd.Decimal

	// TriggerPrice arms a conditional order. StopLossPrice and
	// TakeProfitPrice arm protective orders; at most one of the three may be
	// set per request.
	TriggerPrice    apd.Decimal
	StopLossPrice   apd.Decimal
	TakeProfitPrice apd.Decimal

	// StopLoss and TakeProfit attach protective legs to the main order.
	StopLoss   *AttachedOrder
	TakeProfit *AttachedOrder

	// TrailingPercent and TrailingAmount configure a trailing stop; the
	// venue accepts one or the other.
	TrailingPercent apd.Decimal
	TrailingAmount  apd.Decimal

	ReduceOnly    bool
	PostOnly      bool
	PositionSide  core.PositionSide
	ClientOrderID string
}

// AttachedOrder is a protective leg attached to a parent order.
type AttachedOrder struct {
	TriggerPrice apd.Decimal
	// Price makes the leg a limit order once triggered; zero means market.
	Price    apd.Decimal
	Quantity apd.Decimal
}

// CancelRequest identifies an order to cancel, by venue id or client id.
type CancelRequest struct {
	Symbol        string
	OrderID       string
	ClientOrderID string
}

// OrderQuery identifies an order to look up, by venue id or client id.
type OrderQuery struct {
	Symbol        string
	OrderID       string
	ClientOrderID string
}

// AmendRequest modifies a resting order in place. Zero-valued decimals keep
// the current value.
type AmendRequest struct {
	Symbol   string
	OrderID  string
	Side     core.OrderSide
	Price    apd.Decimal
	Quantity apd.Decimal
}

// TransferRequest moves funds between a venue's internal accounts.
type TransferRequest struct {
	Asset  string
	Amount apd.Decimal
	From   string
	To     string
	Symbol string
}

// WithdrawRequest sends funds to an external address.
type WithdrawRequest struct {
	Asset   string
	Amount  apd.Decimal
	Address string
	Tag     string
	Network string
}
