package coinex

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/apd/v3"
	"github.com/google/uuid"
	"resty.dev/v3"

	"tukar/pkg/core"
	"tukar/pkg/exchange"
)

// Protocol implements core.Protocol for CoinEx. It builds v2 requests from
// unified parameters, signs them and classifies responses; it performs no I/O
// itself.
type Protocol struct {
	desc        *core.Descriptor
	markets     *exchange.MarketCache
	normalizer  *Normalizer
	brokerTag   string
	defaultType core.MarketType
}

// NewProtocol creates the CoinEx protocol. The market cache is shared with
// the owning exchange.
func NewProtocol(cfg *core.Config, markets *exchange.MarketCache) *Protocol {
	desc := newDescriptor()
	p := &Protocol{
		desc:        desc,
		markets:     markets,
		normalizer:  NewNormalizer(),
		brokerTag:   desc.Options.BrokerTag,
		defaultType: desc.Options.DefaultMarketType,
	}
	if cfg != nil {
		if cfg.BrokerTag != "" {
			p.brokerTag = cfg.BrokerTag
		}
		p.defaultType = cfg.MarketType
	}
	return p
}

// Name returns the protocol identifier "coinex".
func (p *Protocol) Name() string {
	return ExchangeID
}

// Descriptor returns the static capability declaration.
func (p *Protocol) Descriptor() *core.Descriptor {
	return p.desc
}

// BaseURL returns the API host. The venue runs no testnet, so the sandbox
// flag never changes the host; New rejects sandbox configs outright.
func (p *Protocol) BaseURL(category string, sandbox bool) string {
	return ProductionURL
}

// URLPath assembles the request path for a route.
func URLPath(r core.Route) string {
	return "/" + r.Version + "/" + r.Category + "/" + r.Path
}

// BuildRequest constructs the venue request for one unified operation.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetMarkets:
		return p.buildGetMarkets(params)
	case core.OpGetCurrencies:
		return p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "all-deposit-withdraw-config"})
	case core.OpGetTicker:
		return p.buildGetTicker(params)
	case core.OpGetTickers:
		return p.buildGetTickers(params)
	case core.OpGetOrderBook:
		return p.buildGetOrderBook(params)
	case core.OpGetKlines:
		return p.buildGetKlines(params)
	case core.OpGetTrades:
		return p.buildGetTrades(params)
	case core.OpGetFundingRate:
		return p.buildGetFundingRate(params)
	case core.OpGetBalance:
		return p.buildGetBalance(params)
	case core.OpPlaceOrder:
		return p.buildPlaceOrder(params)
	case core.OpPlaceOrders:
		return p.buildPlaceOrders(params)
	case core.OpCancelOrder:
		return p.buildCancelOrder(params)
	case core.OpCancelOrders:
		return p.buildCancelOrders(params)
	case core.OpCancelAllOrders:
		return p.buildCancelAllOrders(params)
	case core.OpAmendOrder:
		return p.buildAmendOrder(params)
	case core.OpGetOrder:
		return p.buildGetOrder(params)
	case core.OpGetOpenOrders:
		return p.buildListOrders(params, "pending-order")
	case core.OpGetClosedOrders:
		return p.buildListOrders(params, "finished-order")
	case core.OpGetMyTrades:
		return p.buildGetMyTrades(params)
	case core.OpGetPositions:
		return p.buildGetPositions(params)
	case core.OpSetLeverage:
		return p.buildSetLeverage(params)
	case core.OpSetMarginMode:
		return p.buildSetMarginMode(params)
	case core.OpTransfer:
		return p.buildTransfer(params)
	case core.OpGetTransfers:
		return p.buildGetTransfers(params)
	case core.OpGetDeposits:
		return p.buildGetDeposits(params)
	case core.OpGetWithdrawals:
		return p.buildGetWithdrawals(params)
	case core.OpWithdraw:
		return p.buildWithdraw(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// SignRequest computes the v2 header signature: an HMAC-SHA256 over the verb,
// the path with its canonical query string, the serialized body and the
// millisecond timestamp, lowercase hex encoded. Deterministic for a fixed
// request, secret and nonce.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials, nonce int64) error {
	if creds.Empty() {
		return fmt.Errorf("%s: %w", ExchangeID, core.ErrNoCredentials)
	}

	ts := strconv.FormatInt(nonce, 10)
	path := URLPath(req.Route)
	if len(req.Query) > 0 {
		path += "?" + canonicalQuery(req.Query)
	}
	body, err := canonicalBody(req.Body)
	if err != nil {
		return fmt.Errorf("serialize body: %w", err)
	}

	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write([]byte(req.Method + path + body + ts))

	req.SetHeader("X-COINEX-KEY", creds.APIKey)
	req.SetHeader("X-COINEX-SIGN", hex.EncodeToString(mac.Sum(nil)))
	req.SetHeader("X-COINEX-TIMESTAMP", ts)
	return nil
}

// canonicalQuery produces the exact query string the signature covers:
// parameters sorted by key and form-encoded, matching the transport encoding.
func canonicalQuery(params core.Params) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, paramString(v))
	}
	return values.Encode()
}

// canonicalBody serializes the body parameters with sorted keys so signing
// and sending produce identical bytes. An empty body contributes nothing to
// the signature.
func canonicalBody(body core.Params) (string, error) {
	if len(body) == 0 {
		return "", nil
	}
	encoded, err := sonic.ConfigStd.Marshal(body)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func paramString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case *apd.Decimal:
		return val.Text('f')
	case apd.Decimal:
		return val.Text('f')
	default:
		return fmt.Sprint(v)
	}
}

// ParseResponse classifies the envelope first and only then decodes the
// payload into the canonical type for the operation.
func (p *Protocol) ParseResponse(op core.Operation, resp *resty.Response) (any, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil response")
	}

	data, err := p.envelope(resp)
	if err != nil {
		return nil, err
	}
	return p.normalize(op, data)
}

type coinexEnvelope struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// envelope decodes the {code, data, message} wrapper and maps non-zero codes
// through the exception table.
func (p *Protocol) envelope(resp *resty.Response) (json.RawMessage, error) {
	var env coinexEnvelope
	if err := sonic.Unmarshal(resp.Bytes(), &env); err != nil {
		if resp.StatusCode() >= 400 {
			return nil, p.classifyHTTP(resp)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Code != 0 {
		code := strconv.FormatInt(env.Code, 10)
		kind := p.desc.Exceptions.Classify(code, env.Message)
		return nil, core.NewExchangeErrorWithCode(ExchangeID, kind, resp.StatusCode(), code, env.Message)
	}
	if resp.StatusCode() >= 400 {
		return nil, p.classifyHTTP(resp)
	}
	return env.Data, nil
}

func (p *Protocol) classifyHTTP(resp *resty.Response) error {
	status := strconv.Itoa(resp.StatusCode())
	kind := p.desc.Exceptions.Classify(status, "")
	return core.NewExchangeErrorWithCode(ExchangeID, kind, resp.StatusCode(), status, resp.Status())
}

func (p *Protocol) normalize(op core.Operation, data json.RawMessage) (any, error) {
	n := p.normalizer
	switch op {
	case core.OpGetMarkets:
		return p.normalizeMarkets(data)

	case core.OpGetCurrencies:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal currencies: %w", err)
		}
		out := make(map[string]*core.Currency, len(raw))
		for _, item := range raw {
			var c coinexCurrency
			if err := sonic.Unmarshal(item, &c); err != nil {
				return nil, fmt.Errorf("unmarshal currency: %w", err)
			}
			cur := n.NormalizeCurrency(&c, item)
			out[cur.Code] = cur
		}
		return out, nil

	case core.OpGetTicker:
		var tickers []coinexTicker
		if err := sonic.Unmarshal(data, &tickers); err != nil {
			return nil, fmt.Errorf("unmarshal ticker: %w", err)
		}
		if len(tickers) == 0 {
			return nil, fmt.Errorf("empty ticker response")
		}
		return n.NormalizeTicker(&tickers[0], data), nil

	case core.OpGetTickers:
		var tickers []coinexTicker
		if err := sonic.Unmarshal(data, &tickers); err != nil {
			return nil, fmt.Errorf("unmarshal tickers: %w", err)
		}
		out := make([]*core.Ticker, 0, len(tickers))
		for i := range tickers {
			out = append(out, n.NormalizeTicker(&tickers[i], nil))
		}
		return out, nil

	case core.OpGetOrderBook:
		var depth coinexDepth
		if err := sonic.Unmarshal(data, &depth); err != nil {
			return nil, fmt.Errorf("unmarshal order book: %w", err)
		}
		return n.NormalizeOrderBook(&depth, ""), nil

	case core.OpGetKlines:
		var raw []coinexKline
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal klines: %w", err)
		}
		out := make([]core.Kline, 0, len(raw))
		for i := range raw {
			out = append(out, n.NormalizeKline(&raw[i]))
		}
		return out, nil

	case core.OpGetTrades:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
		out := make([]core.Trade, 0, len(raw))
		for _, item := range raw {
			var d coinexDeal
			if err := sonic.Unmarshal(item, &d); err != nil {
				return nil, fmt.Errorf("unmarshal trade: %w", err)
			}
			out = append(out, *n.NormalizeDeal(&d, "", item))
		}
		return out, nil

	case core.OpGetFundingRate:
		var rates []coinexFundingRate
		if err := sonic.Unmarshal(data, &rates); err != nil {
			return nil, fmt.Errorf("unmarshal funding rate: %w", err)
		}
		if len(rates) == 0 {
			return nil, fmt.Errorf("empty funding rate response")
		}
		return n.NormalizeFundingRate(&rates[0]), nil

	case core.OpGetBalance:
		var balances []coinexBalance
		if err := sonic.Unmarshal(data, &balances); err != nil {
			return nil, fmt.Errorf("unmarshal balances: %w", err)
		}
		return n.NormalizeBalances(balances), nil

	case core.OpPlaceOrder, core.OpCancelOrder, core.OpAmendOrder, core.OpGetOrder:
		orders, err := decodeOrders(data)
		if err != nil {
			return nil, err
		}
		if len(orders) == 0 {
			return nil, fmt.Errorf("empty order response")
		}
		return n.NormalizeOrder(&orders[0], data), nil

	case core.OpPlaceOrders, core.OpCancelOrders, core.OpCancelAllOrders, core.OpGetOpenOrders, core.OpGetClosedOrders:
		orders, err := decodeOrders(data)
		if err != nil {
			return nil, err
		}
		out := make([]core.Order, 0, len(orders))
		for i := range orders {
			out = append(out, *n.NormalizeOrder(&orders[i], nil))
		}
		return out, nil

	case core.OpGetMyTrades:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal fills: %w", err)
		}
		out := make([]core.Trade, 0, len(raw))
		for _, item := range raw {
			var d coinexUserDeal
			if err := sonic.Unmarshal(item, &d); err != nil {
				return nil, fmt.Errorf("unmarshal fill: %w", err)
			}
			out = append(out, *n.NormalizeUserDeal(&d, item))
		}
		return out, nil

	case core.OpGetPositions:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal positions: %w", err)
		}
		out := make([]core.Position, 0, len(raw))
		for _, item := range raw {
			var pos coinexPosition
			if err := sonic.Unmarshal(item, &pos); err != nil {
				return nil, fmt.Errorf("unmarshal position: %w", err)
			}
			out = append(out, *n.NormalizePosition(&pos, item))
		}
		return out, nil

	case core.OpSetLeverage, core.OpSetMarginMode:
		return nil, nil

	case core.OpTransfer:
		// A zero-code envelope with empty data is the whole acknowledgement.
		return &core.Transfer{Status: core.TxStatusOK, Timestamp: time.Now()}, nil

	case core.OpGetTransfers:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal transfers: %w", err)
		}
		out := make([]core.Transfer, 0, len(raw))
		for _, item := range raw {
			var tr coinexTransfer
			if err := sonic.Unmarshal(item, &tr); err != nil {
				return nil, fmt.Errorf("unmarshal transfer: %w", err)
			}
			out = append(out, *n.NormalizeTransfer(&tr))
		}
		return out, nil

	case core.OpGetDeposits:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal deposits: %w", err)
		}
		out := make([]core.Transaction, 0, len(raw))
		for _, item := range raw {
			var d coinexDeposit
			if err := sonic.Unmarshal(item, &d); err != nil {
				return nil, fmt.Errorf("unmarshal deposit: %w", err)
			}
			out = append(out, *n.NormalizeDeposit(&d, item))
		}
		return out, nil

	case core.OpGetWithdrawals:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal withdrawals: %w", err)
		}
		out := make([]core.Transaction, 0, len(raw))
		for _, item := range raw {
			var w coinexWithdrawal
			if err := sonic.Unmarshal(item, &w); err != nil {
				return nil, fmt.Errorf("unmarshal withdrawal: %w", err)
			}
			out = append(out, *n.NormalizeWithdrawal(&w, item))
		}
		return out, nil

	case core.OpWithdraw:
		var w coinexWithdrawal
		if err := sonic.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("unmarshal withdraw ack: %w", err)
		}
		return n.NormalizeWithdrawal(&w, data), nil

	default:
		var result any
		if err := sonic.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return result, nil
	}
}

// normalizeMarkets sniffs the flavor per row: only futures rows declare a
// contract type.
func (p *Protocol) normalizeMarkets(data json.RawMessage) ([]*core.Market, error) {
	var raw []json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal markets: %w", err)
	}
	out := make([]*core.Market, 0, len(raw))
	for _, item := range raw {
		var fm coinexFuturesMarket
		if err := sonic.Unmarshal(item, &fm); err != nil {
			return nil, fmt.Errorf("unmarshal market: %w", err)
		}
		if fm.ContractType != "" {
			out = append(out, p.normalizer.NormalizeFuturesMarket(&fm, p.desc.Fees[core.MarketTypeSwap], item))
			continue
		}
		var sm coinexSpotMarket
		if err := sonic.Unmarshal(item, &sm); err != nil {
			return nil, fmt.Errorf("unmarshal spot market: %w", err)
		}
		out = append(out, p.normalizer.NormalizeSpotMarket(&sm, p.desc.Fees[core.MarketTypeSpot], item))
	}
	return out, nil
}

// coinexAck is one element of a batch response: the per-item envelope the
// venue wraps around each order.
type coinexAck struct {
	Code    int64           `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeOrders accepts every order payload shape the v2 API produces: a bare
// order object, an order array, an ack array from the batch endpoints, or the
// empty object the cancel-all endpoint answers with.
func decodeOrders(data json.RawMessage) ([]coinexOrder, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '{' {
		var order coinexOrder
		if err := sonic.Unmarshal(trimmed, &order); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		return []coinexOrder{order}, nil
	}

	var items []json.RawMessage
	if err := sonic.Unmarshal(trimmed, &items); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	out := make([]coinexOrder, 0, len(items))
	for _, item := range items {
		var ack coinexAck
		if err := sonic.Unmarshal(item, &ack); err == nil && len(ack.Data) > 0 {
			var order coinexOrder
			if err := sonic.Unmarshal(ack.Data, &order); err != nil {
				return nil, fmt.Errorf("unmarshal batch order: %w", err)
			}
			out = append(out, order)
			continue
		}
		var order coinexOrder
		if err := sonic.Unmarshal(item, &order); err != nil {
			return nil, fmt.Errorf("unmarshal order: %w", err)
		}
		out = append(out, order)
	}
	return out, nil
}

// market resolves a unified symbol through the shared cache. Every failure
// happens before any network call.
func (p *Protocol) market(symbol string) (*core.Market, error) {
	if p.markets == nil || !p.markets.Loaded() {
		return nil, fmt.Errorf("%s: %w", ExchangeID, core.ErrMarketsNotLoaded)
	}
	m, ok := p.markets.BySymbol(symbol)
	if !ok {
		return nil, core.BadSymbol(ExchangeID, symbol)
	}
	return m, nil
}

// newRequest resolves the route's weight from the descriptor. An undeclared
// route is a programming error, caught by the table integrity tests.
func (p *Protocol) newRequest(route core.Route) (*core.Request, error) {
	weight, ok := p.desc.Weight(route)
	if !ok {
		return nil, fmt.Errorf("route not declared: %s %s/%s/%s", route.Method, route.Category, route.Version, route.Path)
	}
	req := core.NewRequest(route.Method, route).SetWeight(weight)
	if route.Access == core.AccessPrivate {
		req.SetRequireAuth(true)
	}
	return req, nil
}

func (p *Protocol) marketType(params core.Params) core.MarketType {
	if mt, ok := params["marketType"].(core.MarketType); ok {
		return mt
	}
	return p.defaultType
}

// category maps a market type onto the venue's URL category.
func category(mt core.MarketType) string {
	if mt == core.MarketTypeSwap {
		return categoryFutures
	}
	return categorySpot
}

// venueMarketType is the market_type body/query discriminator.
func venueMarketType(mt core.MarketType) string {
	if mt == core.MarketTypeSwap {
		return "FUTURES"
	}
	return "SPOT"
}

func (p *Protocol) publicGet(mt core.MarketType, path string) (*core.Request, error) {
	return p.newRequest(core.Route{Category: category(mt), Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: path})
}

func (p *Protocol) privateGet(mt core.MarketType, path string) (*core.Request, error) {
	return p.newRequest(core.Route{Category: category(mt), Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: path})
}

func (p *Protocol) privatePost(mt core.MarketType, path string) (*core.Request, error) {
	return p.newRequest(core.Route{Category: category(mt), Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: path})
}

func (p *Protocol) buildGetMarkets(params core.Params) (*core.Request, error) {
	return p.publicGet(p.marketType(params), "market")
}

func (p *Protocol) buildGetTicker(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	req, err := p.publicGet(m.Type, "ticker")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	return req, nil
}

func (p *Protocol) buildGetTickers(params core.Params) (*core.Request, error) {
	return p.publicGet(p.marketType(params), "ticker")
}

func (p *Protocol) buildGetOrderBook(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	req, err := p.publicGet(m.Type, "depth")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	limit := 20
	if l, ok := params["limit"].(int); ok && l > 0 {
		limit = l
	}
	req.SetQuery("limit", limit)
	// "0" requests unmerged depth.
	req.SetQuery("interval", "0")
	return req, nil
}

// klinePeriods maps unified intervals onto the venue's period names.
var klinePeriods = map[string]string{
	"1m":  "1min",
	"3m":  "3min",
	"5m":  "5min",
	"15m": "15min",
	"30m": "30min",
	"1h":  "1hour",
	"2h":  "2hour",
	"4h":  "4hour",
	"6h":  "6hour",
	"12h": "12hour",
	"1d":  "1day",
	"3d":  "3day",
	"1w":  "1week",
}

func (p *Protocol) buildGetKlines(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	req, err := p.publicGet(m.Type, "kline")
	if err != nil {
		return nil, err
	}
	interval, _ := params["interval"].(string)
	if interval == "" {
		interval = "1m"
	}
	period, ok := klinePeriods[interval]
	if !ok {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "unsupported kline interval "+interval)
	}
	req.SetQuery("market", m.ID)
	req.SetQuery("period", period)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetTrades(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	req, err := p.publicGet(m.Type, "deals")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetFundingRate(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	if m.Type != core.MarketTypeSwap {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadSymbol, "funding rate requires a futures market, got "+symbol)
	}
	req, err := p.publicGet(core.MarketTypeSwap, "funding-rate")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	return req, nil
}

func (p *Protocol) buildGetBalance(params core.Params) (*core.Request, error) {
	path := "spot/balance"
	if p.marketType(params) == core.MarketTypeSwap {
		path = "futures/balance"
	}
	return p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: path})
}

func (p *Protocol) buildPlaceOrder(params core.Params) (*core.Request, error) {
	order, ok := params["order"].(*exchange.OrderRequest)
	if !ok || order == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "order is required")
	}
	m, err := p.market(order.Symbol)
	if err != nil {
		return nil, err
	}

	fields, path, err := p.orderFields(m, order)
	if err != nil {
		return nil, err
	}
	req, err := p.privatePost(m.Type, path)
	if err != nil {
		return nil, err
	}
	req.Body = fields
	return req, nil
}

// orderFields maps one unified order onto the venue's body vocabulary and
// picks the plain or the stop endpoint. Prices and amounts are quantized to
// the market's declared precision.
func (p *Protocol) orderFields(m *core.Market, order *exchange.OrderRequest) (core.Params, string, error) {
	if order.Side != core.SideBuy && order.Side != core.SideSell {
		return nil, "", core.ArgumentsRequired(ExchangeID, "order side is required")
	}
	if order.StopLoss != nil || order.TakeProfit != nil {
		return nil, "", core.NotSupported(ExchangeID, "attached stop-loss/take-profit legs")
	}
	if !order.StopLossPrice.IsZero() || !order.TakeProfitPrice.IsZero() {
		return nil, "", core.NotSupported(ExchangeID, "stop-loss/take-profit protective orders")
	}
	if !order.TrailingPercent.IsZero() || !order.TrailingAmount.IsZero() {
		return nil, "", core.NotSupported(ExchangeID, "trailing stop orders")
	}

	fields := core.Params{
		"market":      m.ID,
		"market_type": venueMarketType(m.Type),
		"side":        strings.ToLower(order.Side.String()),
		"client_id":   p.clientOrderID(order.ClientOrderID),
	}

	venueType := "limit"
	switch {
	case order.PostOnly:
		venueType = "maker_only"
	case order.Type.IsMarket():
		venueType = "market"
	case order.TimeInForce == core.IOC:
		venueType = "ioc"
	case order.TimeInForce == core.FOK:
		venueType = "fok"
	}
	fields["type"] = venueType

	if !order.Quantity.IsZero() {
		qty, err := m.AmountToPrecision(&order.Quantity)
		if err != nil {
			return nil, "", err
		}
		fields["amount"] = qty.Text('f')
	} else if !order.QuoteQuantity.IsZero() && m.Type == core.MarketTypeSpot {
		fields["amount"] = order.QuoteQuantity.Text('f')
		fields["ccy"] = m.QuoteID
	} else {
		return nil, "", core.ArgumentsRequired(ExchangeID, "order quantity is required")
	}

	if venueType != "market" {
		if order.Price.IsZero() {
			return nil, "", core.ArgumentsRequired(ExchangeID, "limit orders require a price")
		}
		price, err := m.PriceToPrecision(&order.Price)
		if err != nil {
			return nil, "", err
		}
		fields["price"] = price.Text('f')
	}

	path := "order"
	if !order.TriggerPrice.IsZero() {
		trigger, err := m.PriceToPrecision(&order.TriggerPrice)
		if err != nil {
			return nil, "", err
		}
		fields["trigger_price"] = trigger.Text('f')
		fields["trigger_price_type"] = "latest_price"
		path = "stop-order"
	}
	return fields, path, nil
}

// clientOrderID returns the caller's id unchanged or generates one carrying
// the broker tag.
func (p *Protocol) clientOrderID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return p.brokerTag + "_" + raw[:16]
}

func (p *Protocol) buildPlaceOrders(params core.Params) (*core.Request, error) {
	orders, ok := params["orders"].([]*exchange.OrderRequest)
	if !ok || len(orders) == 0 {
		return nil, core.ArgumentsRequired(ExchangeID, "orders are required")
	}
	for _, o := range orders[1:] {
		if o.Symbol != orders[0].Symbol {
			return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest,
				"batch orders must share one symbol, got "+orders[0].Symbol+" and "+o.Symbol)
		}
	}
	m, err := p.market(orders[0].Symbol)
	if err != nil {
		return nil, err
	}

	batch := make([]core.Params, 0, len(orders))
	for _, o := range orders {
		fields, path, ferr := p.orderFields(m, o)
		if ferr != nil {
			return nil, ferr
		}
		if path != "order" {
			return nil, core.NotSupported(ExchangeID, "trigger orders in a batch")
		}
		batch = append(batch, fields)
	}

	req, err := p.privatePost(m.Type, "batch-order")
	if err != nil {
		return nil, err
	}
	req.SetBody("orders", batch)
	return req, nil
}

func (p *Protocol) buildCancelOrder(params core.Params) (*core.Request, error) {
	cancel, ok := params["cancel"].(*exchange.CancelRequest)
	if !ok || cancel == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "cancel request is required")
	}
	if cancel.OrderID == "" && cancel.ClientOrderID == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "orderId or clientOrderId is required")
	}
	m, err := p.market(cancel.Symbol)
	if err != nil {
		return nil, err
	}

	if cancel.OrderID != "" {
		id, perr := strconv.ParseInt(cancel.OrderID, 10, 64)
		if perr != nil {
			return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "order ids on this venue are numeric, got "+cancel.OrderID)
		}
		req, rerr := p.privatePost(m.Type, "cancel-order")
		if rerr != nil {
			return nil, rerr
		}
		req.SetBody("market", m.ID)
		req.SetBody("market_type", venueMarketType(m.Type))
		req.SetBody("order_id", id)
		return req, nil
	}

	req, err := p.privatePost(m.Type, "cancel-order-by-client-id")
	if err != nil {
		return nil, err
	}
	req.SetBody("market", m.ID)
	req.SetBody("market_type", venueMarketType(m.Type))
	req.SetBody("client_id", cancel.ClientOrderID)
	return req, nil
}

func (p *Protocol) buildCancelOrders(params core.Params) (*core.Request, error) {
	cancels, ok := params["cancels"].([]*exchange.CancelRequest)
	if !ok || len(cancels) == 0 {
		return nil, core.ArgumentsRequired(ExchangeID, "cancel requests are required")
	}
	ids := make([]int64, 0, len(cancels))
	for _, c := range cancels {
		if c.Symbol != cancels[0].Symbol {
			return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest,
				"batch cancels must share one symbol, got "+cancels[0].Symbol+" and "+c.Symbol)
		}
		id, perr := strconv.ParseInt(c.OrderID, 10, 64)
		if perr != nil {
			return nil, core.ArgumentsRequired(ExchangeID, "every batch cancel needs a numeric orderId")
		}
		ids = append(ids, id)
	}
	m, err := p.market(cancels[0].Symbol)
	if err != nil {
		return nil, err
	}

	req, err := p.privatePost(m.Type, "cancel-batch-order")
	if err != nil {
		return nil, err
	}
	req.SetBody("market", m.ID)
	req.SetBody("market_type", venueMarketType(m.Type))
	req.SetBody("order_ids", ids)
	return req, nil
}

func (p *Protocol) buildCancelAllOrders(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	req, err := p.privatePost(m.Type, "cancel-all-order")
	if err != nil {
		return nil, err
	}
	req.SetBody("market", m.ID)
	req.SetBody("market_type", venueMarketType(m.Type))
	return req, nil
}

func (p *Protocol) buildAmendOrder(params core.Params) (*core.Request, error) {
	amend, ok := params["amend"].(*exchange.AmendRequest)
	if !ok || amend == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "amend request is required")
	}
	if amend.OrderID == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "orderId is required")
	}
	id, perr := strconv.ParseInt(amend.OrderID, 10, 64)
	if perr != nil {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "order ids on this venue are numeric, got "+amend.OrderID)
	}
	m, err := p.market(amend.Symbol)
	if err != nil {
		return nil, err
	}

	req, err := p.privatePost(m.Type, "modify-order")
	if err != nil {
		return nil, err
	}
	req.SetBody("market", m.ID)
	req.SetBody("market_type", venueMarketType(m.Type))
	req.SetBody("order_id", id)
	if !amend.Quantity.IsZero() {
		qty, qerr := m.AmountToPrecision(&amend.Quantity)
		if qerr != nil {
			return nil, qerr
		}
		req.SetBody("amount", qty.Text('f'))
	}
	if !amend.Price.IsZero() {
		price, prerr := m.PriceToPrecision(&amend.Price)
		if prerr != nil {
			return nil, prerr
		}
		req.SetBody("price", price.Text('f'))
	}
	return req, nil
}

func (p *Protocol) buildGetOrder(params core.Params) (*core.Request, error) {
	query, ok := params["query"].(*exchange.OrderQuery)
	if !ok || query == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "order query is required")
	}
	if query.OrderID == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "orderId is required; this venue cannot query by client id")
	}
	m, err := p.market(query.Symbol)
	if err != nil {
		return nil, err
	}

	req, err := p.privateGet(m.Type, "order-status")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	req.SetQuery("order_id", query.OrderID)
	return req, nil
}

func (p *Protocol) buildListOrders(params core.Params, path string) (*core.Request, error) {
	symbol, _ := params["symbol"].(string)
	mt := p.marketType(params)

	var m *core.Market
	if symbol != "" {
		var err error
		m, err = p.market(symbol)
		if err != nil {
			return nil, err
		}
		mt = m.Type
	}

	req, err := p.privateGet(mt, path)
	if err != nil {
		return nil, err
	}
	req.SetQuery("market_type", venueMarketType(mt))
	if m != nil {
		req.SetQuery("market", m.ID)
	}
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetMyTrades(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}

	req, err := p.privateGet(m.Type, "user-deals")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market", m.ID)
	req.SetQuery("market_type", venueMarketType(m.Type))
	addTimeRange(req, params)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetPositions(params core.Params) (*core.Request, error) {
	req, err := p.privateGet(core.MarketTypeSwap, "pending-position")
	if err != nil {
		return nil, err
	}
	req.SetQuery("market_type", "FUTURES")
	if symbol, ok := params["symbol"].(string); ok && symbol != "" {
		m, merr := p.market(symbol)
		if merr != nil {
			return nil, merr
		}
		req.SetQuery("market", m.ID)
	}
	return req, nil
}

// buildSetLeverage and buildSetMarginMode share one endpoint: the venue sets
// margin mode and leverage in a single call.
func (p *Protocol) buildSetLeverage(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	leverage, ok := params["leverage"].(int)
	if !ok || leverage < 1 {
		return nil, core.ArgumentsRequired(ExchangeID, "leverage must be a positive integer")
	}
	mode := core.MarginModeCross
	if mm, ok := params["marginMode"].(core.MarginMode); ok && mm != core.MarginModeUnknown {
		mode = mm
	}
	return p.adjustLeverage(symbol, mode, leverage)
}

func (p *Protocol) buildSetMarginMode(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	mode, ok := params["marginMode"].(core.MarginMode)
	if !ok || mode == core.MarginModeUnknown {
		return nil, core.ArgumentsRequired(ExchangeID, "marginMode is required")
	}
	leverage := 0
	if l, ok := params["leverage"].(int); ok {
		leverage = l
	} else if extra, ok := params["extra"].(core.Params); ok {
		if l, ok := extra["leverage"].(int); ok {
			leverage = l
		}
	}
	if leverage < 1 {
		return nil, core.ArgumentsRequired(ExchangeID, "this venue sets margin mode and leverage together; pass leverage as an extra parameter")
	}
	return p.adjustLeverage(symbol, mode, leverage)
}

func (p *Protocol) adjustLeverage(symbol string, mode core.MarginMode, leverage int) (*core.Request, error) {
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	if m.Type != core.MarketTypeSwap {
		return nil, core.NotSupported(ExchangeID, "leverage and margin mode on spot markets")
	}
	req, err := p.privatePost(core.MarketTypeSwap, "adjust-position-leverage")
	if err != nil {
		return nil, err
	}
	req.SetBody("market", m.ID)
	req.SetBody("market_type", "FUTURES")
	req.SetBody("margin_mode", mode.String())
	req.SetBody("leverage", leverage)
	return req, nil
}

// transferAccounts maps unified account names onto the venue's account types.
var transferAccounts = map[string]string{
	"spot":    "SPOT",
	"fund":    "SPOT",
	"swap":    "FUTURES",
	"linear":  "FUTURES",
	"futures": "FUTURES",
	"margin":  "MARGIN",
}

func (p *Protocol) buildTransfer(params core.Params) (*core.Request, error) {
	transfer, ok := params["transfer"].(*exchange.TransferRequest)
	if !ok || transfer == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "transfer request is required")
	}
	from, ok := transferAccounts[strings.ToLower(transfer.From)]
	if !ok {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "unknown transfer account "+transfer.From)
	}
	to, ok := transferAccounts[strings.ToLower(transfer.To)]
	if !ok {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "unknown transfer account "+transfer.To)
	}
	if from == to {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "transfer source and destination are the same account")
	}
	if transfer.Asset == "" || transfer.Amount.IsZero() {
		return nil, core.ArgumentsRequired(ExchangeID, "transfer asset and amount are required")
	}

	req, err := p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "transfer"})
	if err != nil {
		return nil, err
	}
	req.SetBody("ccy", transfer.Asset)
	req.SetBody("amount", transfer.Amount.Text('f'))
	req.SetBody("from_account_type", from)
	req.SetBody("to_account_type", to)
	return req, nil
}

func (p *Protocol) buildGetTransfers(params core.Params) (*core.Request, error) {
	asset, _ := params["asset"].(string)
	if asset == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "this venue requires an asset to list transfers")
	}
	req, err := p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "transfer-history"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("ccy", asset)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetDeposits(params core.Params) (*core.Request, error) {
	asset, _ := params["asset"].(string)
	if asset == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "this venue requires an asset to list deposits")
	}
	req, err := p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "deposit-history"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("ccy", asset)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetWithdrawals(params core.Params) (*core.Request, error) {
	req, err := p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "withdraw"})
	if err != nil {
		return nil, err
	}
	if asset, ok := params["asset"].(string); ok && asset != "" {
		req.SetQuery("ccy", asset)
	}
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildWithdraw(params core.Params) (*core.Request, error) {
	withdraw, ok := params["withdraw"].(*exchange.WithdrawRequest)
	if !ok || withdraw == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "withdraw request is required")
	}
	if withdraw.Asset == "" || withdraw.Address == "" || withdraw.Amount.IsZero() {
		return nil, core.ArgumentsRequired(ExchangeID, "withdraw asset, address and amount are required")
	}
	req, err := p.newRequest(core.Route{Category: categoryAssets, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "withdraw"})
	if err != nil {
		return nil, err
	}
	req.SetBody("ccy", withdraw.Asset)
	req.SetBody("amount", withdraw.Amount.Text('f'))
	address := withdraw.Address
	if withdraw.Tag != "" {
		// Memo-style tags ride in the address, colon separated.
		address += ":" + withdraw.Tag
	}
	req.SetBody("to_address", address)
	if withdraw.Network != "" {
		req.SetBody("chain", withdraw.Network)
	}
	return req, nil
}

func addTimeRange(req *core.Request, params core.Params) {
	if since, ok := params["since"].(time.Time); ok && !since.IsZero() {
		req.SetQuery("start_time", strconv.FormatInt(since.UnixMilli(), 10))
	}
	if until, ok := params["until"].(time.Time); ok && !until.IsZero() {
		req.SetQuery("end_time", strconv.FormatInt(until.UnixMilli(), 10))
	}
}
