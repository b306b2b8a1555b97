package coinex

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"tukar/internal/circuitbreaker"
	httpclient "tukar/internal/http"
	"tukar/internal/keyring"
	"tukar/internal/ratelimit"
	"tukar/pkg/core"
	"tukar/pkg/exchange"
)

func init() {
	exchange.RegisterFactory(ExchangeID, func(cfg *core.Config) (exchange.Exchange, error) {
		return New(cfg)
	})
}

var _ exchange.Exchange = (*Exchange)(nil)

// Exchange implements the unified trading surface for CoinEx. It composes the
// venue protocol with the shared transport, weight-aware limiter, circuit
// breaker and key ring.
type Exchange struct {
	config   *core.Config
	protocol *Protocol
	markets  *exchange.MarketCache
	keyRing  *keyring.Ring
	limiter  *ratelimit.Limiter
	breaker  *circuitbreaker.Breaker
	logger   zerolog.Logger

	clientMu sync.Mutex
	client   *httpclient.Client

	loadMu sync.Mutex
}

// Option is a functional option for configuring the Exchange.
type Option func(*Options)

// Options holds construction options.
type Options struct {
	KeyRing *keyring.Ring
	Logger  zerolog.Logger
}

// WithKeyRing sets the API key ring for key rotation.
func WithKeyRing(r *keyring.Ring) Option {
	return func(o *Options) {
		o.KeyRing = r
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// New creates a CoinEx exchange from a validated config. The venue runs no
// testnet, so sandbox configs are rejected here rather than failing on every
// call.
func New(cfg *core.Config, opts ...Option) (*Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if cfg.Sandbox {
		return nil, core.NotSupported(ExchangeID, "sandbox mode")
	}

	options := &Options{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(options)
	}

	markets := exchange.NewMarketCache()

	var limiter *ratelimit.Limiter
	if cfg.RateLimitRequests > 0 {
		limiter = ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitPeriod)
	}

	var breaker *circuitbreaker.Breaker
	if cfg.CircuitBreakerEnabled {
		breaker = circuitbreaker.New(circuitbreaker.Config{
			FailThreshold:    cfg.CircuitBreakerFailThreshold,
			SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
			Timeout:          cfg.CircuitBreakerTimeout,
		})
	}

	return &Exchange{
		config:   cfg,
		protocol: NewProtocol(cfg, markets),
		markets:  markets,
		keyRing:  options.KeyRing,
		limiter:  limiter,
		breaker:  breaker,
		logger:   options.Logger.With().Str("exchange", ExchangeID).Logger(),
	}, nil
}

// ID returns the exchange identifier "coinex".
func (e *Exchange) ID() string {
	return ExchangeID
}

// Name returns the venue's display name.
func (e *Exchange) Name() string {
	return e.protocol.Descriptor().Name
}

// Describe returns the static capability declaration.
func (e *Exchange) Describe() *core.Descriptor {
	return e.protocol.Descriptor()
}

// Close shuts down the transport.
func (e *Exchange) Close() error {
	e.clientMu.Lock()
	defer e.clientMu.Unlock()
	if e.client == nil {
		return nil
	}
	err := e.client.Close()
	e.client = nil
	return err
}

// LoadMarkets fetches the spot and futures market tables concurrently, swaps
// the cache in one step and refreshes the normalizer's symbol index. A warm
// cache is returned as-is unless reload is set.
func (e *Exchange) LoadMarkets(ctx context.Context, reload bool) (map[string]*core.Market, error) {
	e.loadMu.Lock()
	defer e.loadMu.Unlock()

	if e.markets.Loaded() && !reload {
		return e.markets.All(), nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		combined []*core.Market
		firstErr error
	)
	for _, mt := range []core.MarketType{core.MarketTypeSpot, core.MarketTypeSwap} {
		wg.Add(1)
		go func(mt core.MarketType) {
			defer wg.Done()
			markets, err := request[[]*core.Market](ctx, e, core.OpGetMarkets, core.Params{"marketType": mt})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("load %s markets: %w", mt, err)
				}
				return
			}
			combined = append(combined, markets...)
		}(mt)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	e.markets.Replace(combined)
	e.protocol.normalizer.Index(combined)
	e.logger.Info().Int("markets", len(combined)).Msg("markets loaded")
	return e.markets.All(), nil
}

// MarketBySymbol looks up a cached market by unified symbol.
func (e *Exchange) MarketBySymbol(symbol string) (*core.Market, error) {
	if !e.markets.Loaded() {
		return nil, fmt.Errorf("%s: %w", ExchangeID, core.ErrMarketsNotLoaded)
	}
	m, ok := e.markets.BySymbol(symbol)
	if !ok {
		return nil, core.BadSymbol(ExchangeID, symbol)
	}
	return m, nil
}

// GetCurrencies retrieves listed assets and their transfer chains.
func (e *Exchange) GetCurrencies(ctx context.Context) (map[string]*core.Currency, error) {
	return request[map[string]*core.Currency](ctx, e, core.OpGetCurrencies, core.Params{})
}

// GetTicker retrieves 24h statistics for one symbol.
func (e *Exchange) GetTicker(ctx context.Context, symbol string, opts ...exchange.Option) (*core.Ticker, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[*core.Ticker](ctx, e, core.OpGetTicker, params)
}

// GetTickers retrieves 24h statistics for every symbol of one market type,
// filtered to the requested symbols when any are given.
func (e *Exchange) GetTickers(ctx context.Context, symbols []string, opts ...exchange.Option) (map[string]*core.Ticker, error) {
	tickers, err := request[[]*core.Ticker](ctx, e, core.OpGetTickers, paramsFrom(opts))
	if err != nil {
		return nil, err
	}

	var wanted map[string]bool
	if len(symbols) > 0 {
		wanted = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			wanted[s] = true
		}
	}
	out := make(map[string]*core.Ticker, len(tickers))
	for _, t := range tickers {
		if wanted == nil || wanted[t.Symbol] {
			out[t.Symbol] = t
		}
	}
	return out, nil
}

// GetOrderBook retrieves the current depth snapshot.
func (e *Exchange) GetOrderBook(ctx context.Context, symbol string, opts ...exchange.Option) (*core.OrderBook, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	book, err := request[*core.OrderBook](ctx, e, core.OpGetOrderBook, params)
	if err != nil {
		return nil, err
	}
	book.Symbol = symbol
	return book, nil
}

// GetKlines retrieves candlestick data.
func (e *Exchange) GetKlines(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Kline, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	klines, err := request[[]core.Kline](ctx, e, core.OpGetKlines, params)
	if err != nil {
		return nil, err
	}
	for i := range klines {
		klines[i].Symbol = symbol
	}
	return klines, nil
}

// GetTrades retrieves recent public trades.
func (e *Exchange) GetTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Trade, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	trades, err := request[[]core.Trade](ctx, e, core.OpGetTrades, params)
	if err != nil {
		return nil, err
	}
	for i := range trades {
		trades[i].Symbol = symbol
	}
	return trades, nil
}

// GetFundingRate retrieves the funding state of a futures market.
func (e *Exchange) GetFundingRate(ctx context.Context, symbol string, opts ...exchange.Option) (*core.FundingRate, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[*core.FundingRate](ctx, e, core.OpGetFundingRate, params)
}

// GetBalance retrieves account balances for the configured or requested
// market type.
func (e *Exchange) GetBalance(ctx context.Context, opts ...exchange.Option) ([]core.Balance, error) {
	return request[[]core.Balance](ctx, e, core.OpGetBalance, paramsFrom(opts))
}

// PlaceOrder submits one order.
func (e *Exchange) PlaceOrder(ctx context.Context, req *exchange.OrderRequest, opts ...exchange.Option) (*core.Order, error) {
	params := paramsFrom(opts)
	params["order"] = req
	return request[*core.Order](ctx, e, core.OpPlaceOrder, params)
}

// PlaceOrders submits a batch of orders for one symbol.
func (e *Exchange) PlaceOrders(ctx context.Context, reqs []*exchange.OrderRequest, opts ...exchange.Option) ([]core.Order, error) {
	params := paramsFrom(opts)
	params["orders"] = reqs
	return request[[]core.Order](ctx, e, core.OpPlaceOrders, params)
}

// AmendOrder replaces price/amount of a resting order in place.
func (e *Exchange) AmendOrder(ctx context.Context, req *exchange.AmendRequest, opts ...exchange.Option) (*core.Order, error) {
	params := paramsFrom(opts)
	params["amend"] = req
	return request[*core.Order](ctx, e, core.OpAmendOrder, params)
}

// CancelOrder cancels one order by venue or client id.
func (e *Exchange) CancelOrder(ctx context.Context, req *exchange.CancelRequest, opts ...exchange.Option) (*core.Order, error) {
	params := paramsFrom(opts)
	params["cancel"] = req
	return request[*core.Order](ctx, e, core.OpCancelOrder, params)
}

// CancelOrders cancels a batch of orders for one symbol.
func (e *Exchange) CancelOrders(ctx context.Context, reqs []*exchange.CancelRequest, opts ...exchange.Option) ([]core.Order, error) {
	params := paramsFrom(opts)
	params["cancels"] = reqs
	return request[[]core.Order](ctx, e, core.OpCancelOrders, params)
}

// CancelAllOrders cancels every open order on one symbol.
func (e *Exchange) CancelAllOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Order, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[[]core.Order](ctx, e, core.OpCancelAllOrders, params)
}

// GetOrder retrieves one order by venue id.
func (e *Exchange) GetOrder(ctx context.Context, req *exchange.OrderQuery, opts ...exchange.Option) (*core.Order, error) {
	params := paramsFrom(opts)
	params["query"] = req
	return request[*core.Order](ctx, e, core.OpGetOrder, params)
}

// GetOpenOrders retrieves live orders, optionally per symbol.
func (e *Exchange) GetOpenOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Order, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[[]core.Order](ctx, e, core.OpGetOpenOrders, params)
}

// GetClosedOrders retrieves finished orders, optionally per symbol.
func (e *Exchange) GetClosedOrders(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Order, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[[]core.Order](ctx, e, core.OpGetClosedOrders, params)
}

// GetMyTrades retrieves the account's executions for one symbol.
func (e *Exchange) GetMyTrades(ctx context.Context, symbol string, opts ...exchange.Option) ([]core.Trade, error) {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	return request[[]core.Trade](ctx, e, core.OpGetMyTrades, params)
}

// GetPositions retrieves open futures positions, filtered to the requested
// symbols when any are given.
func (e *Exchange) GetPositions(ctx context.Context, symbols []string, opts ...exchange.Option) ([]core.Position, error) {
	params := paramsFrom(opts)
	if len(symbols) == 1 {
		params["symbol"] = symbols[0]
	}
	positions, err := request[[]core.Position](ctx, e, core.OpGetPositions, params)
	if err != nil {
		return nil, err
	}
	if len(symbols) <= 1 {
		return positions, nil
	}
	wanted := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		wanted[s] = true
	}
	out := positions[:0]
	for _, p := range positions {
		if wanted[p.Symbol] {
			out = append(out, p)
		}
	}
	return out, nil
}

// SetLeverage sets the leverage of a futures market. The venue adjusts margin
// mode in the same call; pass WithParam("marginMode", ...) to change it too.
func (e *Exchange) SetLeverage(ctx context.Context, symbol string, leverage int, opts ...exchange.Option) error {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	params["leverage"] = leverage
	_, err := e.execute(ctx, core.OpSetLeverage, params)
	return err
}

// SetMarginMode switches a futures market between isolated and cross margin.
// The venue sets leverage in the same call, so a leverage extra parameter is
// required.
func (e *Exchange) SetMarginMode(ctx context.Context, symbol string, mode core.MarginMode, opts ...exchange.Option) error {
	params := paramsFrom(opts)
	params["symbol"] = symbol
	params["marginMode"] = mode
	_, err := e.execute(ctx, core.OpSetMarginMode, params)
	return err
}

// Transfer moves funds between the venue's internal accounts.
func (e *Exchange) Transfer(ctx context.Context, req *exchange.TransferRequest, opts ...exchange.Option) (*core.Transfer, error) {
	params := paramsFrom(opts)
	params["transfer"] = req
	transfer, err := request[*core.Transfer](ctx, e, core.OpTransfer, params)
	if err != nil {
		return nil, err
	}
	transfer.Asset = req.Asset
	transfer.Amount = req.Amount
	transfer.From = req.From
	transfer.To = req.To
	return transfer, nil
}

// GetTransfers retrieves internal transfer history for one asset.
func (e *Exchange) GetTransfers(ctx context.Context, asset string, opts ...exchange.Option) ([]core.Transfer, error) {
	params := paramsFrom(opts)
	params["asset"] = asset
	return request[[]core.Transfer](ctx, e, core.OpGetTransfers, params)
}

// GetDeposits retrieves deposit history for one asset.
func (e *Exchange) GetDeposits(ctx context.Context, asset string, opts ...exchange.Option) ([]core.Transaction, error) {
	params := paramsFrom(opts)
	params["asset"] = asset
	return request[[]core.Transaction](ctx, e, core.OpGetDeposits, params)
}

// GetWithdrawals retrieves withdrawal history, optionally per asset.
func (e *Exchange) GetWithdrawals(ctx context.Context, asset string, opts ...exchange.Option) ([]core.Transaction, error) {
	params := paramsFrom(opts)
	params["asset"] = asset
	return request[[]core.Transaction](ctx, e, core.OpGetWithdrawals, params)
}

// Withdraw requests an on-chain withdrawal.
func (e *Exchange) Withdraw(ctx context.Context, req *exchange.WithdrawRequest, opts ...exchange.Option) (*core.Transaction, error) {
	params := paramsFrom(opts)
	params["withdraw"] = req
	return request[*core.Transaction](ctx, e, core.OpWithdraw, params)
}

// paramsFrom folds per-call options into the builder parameter bag.
func paramsFrom(opts []exchange.Option) core.Params {
	options := exchange.ApplyOptions(opts...)
	params := core.Params{}
	if options.Limit > 0 {
		params["limit"] = options.Limit
	}
	if options.Interval != "" {
		params["interval"] = options.Interval
	}
	if !options.Since.IsZero() {
		params["since"] = options.Since
	}
	if !options.Until.IsZero() {
		params["until"] = options.Until
	}
	if options.MarketType != core.MarketTypeSpot {
		params["marketType"] = options.MarketType
	}
	if len(options.Params) > 0 {
		params["extra"] = options.Params
	}
	return params
}

// request runs one unified operation end to end and asserts the payload type.
func request[T any](ctx context.Context, e *Exchange, op core.Operation, params core.Params) (T, error) {
	var zero T
	result, err := e.execute(ctx, op, params)
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected response type for %s: %T", op, result)
	}
	return typed, nil
}

func (e *Exchange) execute(ctx context.Context, op core.Operation, params core.Params) (any, error) {
	if !e.protocol.Descriptor().Supports(op) {
		return nil, core.NotSupported(ExchangeID, op.String())
	}

	req, err := e.protocol.BuildRequest(ctx, op, params)
	if err != nil {
		return nil, err
	}

	// Venue-specific passthrough parameters land after the unified ones, so
	// callers can override anything the builder chose. They must merge before
	// signing; the signature covers both query and body.
	if extra, ok := params["extra"].(core.Params); ok {
		for k, v := range extra {
			if req.Method == http.MethodGet {
				req.SetQuery(k, v)
			} else {
				req.SetBody(k, v)
			}
		}
	}

	resp, err := e.doRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := e.protocol.ParseResponse(op, resp)
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (e *Exchange) doRequest(ctx context.Context, req *core.Request) (*resty.Response, error) {
	if e.limiter != nil {
		if err := e.limiter.WaitN(ctx, req.Weight); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	if e.breaker != nil && !e.breaker.Allow() {
		return nil, core.ErrCircuitBreakerOpen
	}

	if req.RequireAuth {
		creds, err := e.credentials()
		if err != nil {
			return nil, err
		}
		if err := e.protocol.SignRequest(req, creds, time.Now().UnixMilli()); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	}

	client, err := e.httpClient()
	if err != nil {
		return nil, err
	}

	restyReq := client.Request().SetContext(ctx)
	for k, v := range req.Headers {
		restyReq.SetHeader(k, v)
	}
	for k, v := range req.Query {
		restyReq.SetQueryParam(k, paramString(v))
	}
	if len(req.Body) > 0 {
		// The signature covers the serialized body, so the wire bytes must
		// come from the same canonical serialization.
		body, berr := canonicalBody(req.Body)
		if berr != nil {
			return nil, fmt.Errorf("serialize body: %w", berr)
		}
		restyReq.SetHeader("Content-Type", "application/json")
		restyReq.SetBody(body)
	}

	var resp *resty.Response
	switch req.Method {
	case http.MethodGet:
		resp, err = restyReq.Get(URLPath(req.Route))
	case http.MethodPost:
		resp, err = restyReq.Post(URLPath(req.Route))
	default:
		return nil, fmt.Errorf("unsupported method: %s", req.Method)
	}

	if e.breaker != nil {
		e.breaker.Record(err == nil)
	}
	if e.keyRing != nil && req.RequireAuth {
		if err != nil {
			e.keyRing.MarkFailed()
		} else {
			e.keyRing.MarkUsed()
		}
	}
	if err != nil {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeNetwork, err.Error())
	}
	return resp, nil
}

func (e *Exchange) credentials() (core.Credentials, error) {
	if e.keyRing != nil {
		key := e.keyRing.Current()
		if key == nil {
			return core.Credentials{}, core.ErrNoAPIKey
		}
		return core.Credentials{APIKey: key.Key, SecretKey: key.Secret, Passphrase: key.Passphrase}, nil
	}
	if e.config.Credentials.Empty() {
		return core.Credentials{}, core.ErrNoCredentials
	}
	return *e.config.Credentials, nil
}

// httpClient returns the shared transport, creating it on first use. Every
// route category lives on the same host here.
func (e *Exchange) httpClient() (*httpclient.Client, error) {
	e.clientMu.Lock()
	defer e.clientMu.Unlock()
	if e.client != nil {
		return e.client, nil
	}
	c, err := httpclient.NewClient(&httpclient.Config{
		BaseURL:      ProductionURL,
		Timeout:      e.config.Timeout,
		MaxRetries:   e.config.MaxRetries,
		RetryWaitMin: e.config.RetryWaitMin,
		RetryWaitMax: e.config.RetryWaitMax,
	}, e.logger)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	e.client = c
	return c, nil
}
