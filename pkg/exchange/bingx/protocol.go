package bingx

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

// Protocol implements core.Protocol for BingX. It is a pure translator: it
// builds venue requests from unified parameters, signs them and classifies
// responses, but performs no I/O itself.
type Protocol struct {
	desc        *core.Descriptor
	markets     *exchange.MarketCache
	normalizer  *Normalizer
	brokerTag   string
	recvWindow  int64
	defaultType core.MarketType
}

// NewProtocol creates the BingX protocol. The market cache is shared with the
// owning exchange; builders consult it for id mapping and quantization.
func NewProtocol(cfg *core.Config, markets *exchange.MarketCache) *Protocol {
	desc := newDescriptor()
	p := &Protocol{
		desc:        desc,
		markets:     markets,
		normalizer:  NewNormalizer(),
		brokerTag:   desc.Options.BrokerTag,
		recvWindow:  desc.Options.RecvWindowMS,
		defaultType: desc.Options.DefaultMarketType,
	}
	if cfg != nil {
		if cfg.BrokerTag != "" {
			p.brokerTag = cfg.BrokerTag
		}
		if cfg.RecvWindow > 0 {
			p.recvWindow = cfg.RecvWindow.Milliseconds()
		}
		p.defaultType = cfg.MarketType
	}
	return p
}

// Name returns the protocol identifier "bingx".
func (p *Protocol) Name() string {
	return ExchangeID
}

// Descriptor returns the static capability declaration.
func (p *Protocol) Descriptor() *core.Descriptor {
	return p.desc
}

// BaseURL returns the API host for the given route category. Only the swap
// API exists on the demo host; the exchange layer rejects other categories
// in sandbox mode before calling this.
func (p *Protocol) BaseURL(category string, sandbox bool) string {
	if sandbox && category == categorySwap {
		return SandboxURL
	}
	return ProductionURL
}

// URLPath assembles the request path for a route.
func URLPath(r core.Route) string {
	return "/openApi/" + r.Category + "/" + r.Version + "/" + r.Path
}

// BuildRequest constructs the venue request for one unified operation.
func (p *Protocol) BuildRequest(ctx context.Context, op core.Operation, params core.Params) (*core.Request, error) {
	switch op {
	case core.OpGetMarkets:
		return p.buildGetMarkets(params)
	case core.OpGetCurrencies:
		return p.newRequest(http.MethodGet, core.Route{Category: categoryWallets, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "capital/config/getall"})
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
		return p.buildGetOpenOrders(params)
	case core.OpGetClosedOrders:
		return p.buildGetClosedOrders(params)
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
		return p.buildGetTransactions(params, "capital/deposit/hisrec")
	case core.OpGetWithdrawals:
		return p.buildGetTransactions(params, "capital/withdraw/history")
	case core.OpWithdraw:
		return p.buildWithdraw(params)
	default:
		return nil, fmt.Errorf("unsupported operation: %s", op)
	}
}

// SignRequest canonicalizes the query parameters, appends the timestamp and
// the HMAC-SHA256 signature and attaches the auth headers. Deterministic for
// a fixed request, secret and nonce.
func (p *Protocol) SignRequest(req *core.Request, creds core.Credentials, nonce int64) error {
	if creds.Empty() {
		return fmt.Errorf("%s: %w", ExchangeID, core.ErrNoCredentials)
	}

	req.SetQuery("timestamp", strconv.FormatInt(nonce, 10))
	if p.recvWindow > 0 {
		req.SetQuery("recvWindow", strconv.FormatInt(p.recvWindow, 10))
	}

	payload := canonicalQuery(req.Query)
	mac := hmac.New(sha256.New, []byte(creds.SecretKey))
	mac.Write([]byte(payload))
	req.SetQuery("signature", hex.EncodeToString(mac.Sum(nil)))

	req.SetHeader("X-BX-APIKEY", creds.APIKey)
	req.SetHeader("X-SOURCE-KEY", p.brokerTag)
	return nil
}

// canonicalQuery produces the exact string the signature covers: parameters
// sorted by key and form-encoded.
func canonicalQuery(params core.Params) string {
	values := url.Values{}
	for k, v := range params {
		values.Set(k, paramString(v))
	}
	return values.Encode()
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

type bingxEnvelope struct {
	Code int64           `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// envelope decodes the {code, msg, data} wrapper and maps non-zero codes
// through the exception table. A few wallet endpoints answer with a bare
// array; those pass through as the payload.
func (p *Protocol) envelope(resp *resty.Response) (json.RawMessage, error) {
	body := bytes.TrimSpace(resp.Bytes())
	if len(body) > 0 && body[0] == '[' {
		return body, nil
	}

	var env bingxEnvelope
	if err := sonic.Unmarshal(body, &env); err != nil {
		if resp.StatusCode() >= 400 {
			return nil, p.classifyHTTP(resp)
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if env.Code != 0 {
		code := strconv.FormatInt(env.Code, 10)
		kind := p.desc.Exceptions.Classify(code, env.Msg)
		return nil, core.NewExchangeErrorWithCode(ExchangeID, kind, resp.StatusCode(), code, env.Msg)
	}
	if resp.StatusCode() >= 400 {
		return nil, p.classifyHTTP(resp)
	}
	// The transfer endpoints answer without the wrapper ({"total": ...,
	// "rows": [...]} or a bare {"tranId": ...}); when there is no data field
	// the whole body is the payload.
	if len(bytes.TrimSpace(env.Data)) == 0 || string(env.Data) == "null" {
		return body, nil
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
			var c bingxCurrency
			if err := sonic.Unmarshal(item, &c); err != nil {
				return nil, fmt.Errorf("unmarshal currency: %w", err)
			}
			cur := n.NormalizeCurrency(&c, item)
			out[cur.Code] = cur
		}
		return out, nil

	case core.OpGetTicker:
		tickers, err := decodeTickers(data)
		if err != nil {
			return nil, err
		}
		if len(tickers) == 0 {
			return nil, fmt.Errorf("empty ticker response")
		}
		return n.NormalizeTicker(&tickers[0], data), nil

	case core.OpGetTickers:
		tickers, err := decodeTickers(data)
		if err != nil {
			return nil, err
		}
		out := make([]*core.Ticker, 0, len(tickers))
		for i := range tickers {
			out = append(out, n.NormalizeTicker(&tickers[i], nil))
		}
		return out, nil

	case core.OpGetOrderBook:
		var depth bingxDepth
		if err := sonic.Unmarshal(data, &depth); err != nil {
			return nil, fmt.Errorf("unmarshal order book: %w", err)
		}
		return n.NormalizeOrderBook(&depth, ""), nil

	case core.OpGetKlines:
		return decodeKlines(data)

	case core.OpGetTrades:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal trades: %w", err)
		}
		out := make([]core.Trade, 0, len(raw))
		for _, item := range raw {
			var t bingxTrade
			if err := sonic.Unmarshal(item, &t); err != nil {
				return nil, fmt.Errorf("unmarshal trade: %w", err)
			}
			out = append(out, *n.NormalizeTrade(&t, "", item))
		}
		return out, nil

	case core.OpGetFundingRate:
		var idx bingxPremiumIndex
		if err := sonic.Unmarshal(data, &idx); err != nil {
			return nil, fmt.Errorf("unmarshal premium index: %w", err)
		}
		return n.NormalizeFundingRate(&idx), nil

	case core.OpGetBalance:
		return p.normalizeBalances(data)

	case core.OpPlaceOrder, core.OpCancelOrder, core.OpAmendOrder, core.OpGetOrder:
		order, err := decodeOrderPayload(data)
		if err != nil {
			return nil, err
		}
		return n.NormalizeOrder(order, data), nil

	case core.OpPlaceOrders, core.OpCancelOrders, core.OpCancelAllOrders, core.OpGetOpenOrders, core.OpGetClosedOrders:
		orders, err := decodeOrdersPayload(data)
		if err != nil {
			return nil, err
		}
		out := make([]core.Order, 0, len(orders))
		for i := range orders {
			out = append(out, *n.NormalizeOrder(&orders[i], nil))
		}
		return out, nil

	case core.OpGetMyTrades:
		fills, err := decodeFillsPayload(data)
		if err != nil {
			return nil, err
		}
		out := make([]core.Trade, 0, len(fills))
		for i := range fills {
			mt := core.MarketTypeSpot
			if fills[i].Currency != "" {
				mt = core.MarketTypeSwap
			}
			out = append(out, *n.NormalizeFill(&fills[i], mt, nil))
		}
		return out, nil

	case core.OpGetPositions:
		var raw []json.RawMessage
		if err := sonic.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal positions: %w", err)
		}
		out := make([]core.Position, 0, len(raw))
		for _, item := range raw {
			var pos bingxPosition
			if err := sonic.Unmarshal(item, &pos); err != nil {
				return nil, fmt.Errorf("unmarshal position: %w", err)
			}
			out = append(out, *n.NormalizePosition(&pos, item))
		}
		return out, nil

	case core.OpSetLeverage, core.OpSetMarginMode:
		return nil, nil

	case core.OpTransfer:
		var tr bingxTransfer
		if err := sonic.Unmarshal(data, &tr); err != nil {
			return nil, fmt.Errorf("unmarshal transfer: %w", err)
		}
		return &core.Transfer{ID: string(tr.TranID), Status: core.TxStatusOK, Timestamp: time.Now()}, nil

	case core.OpGetTransfers:
		var wrapper struct {
			Rows []json.RawMessage `json:"rows"`
		}
		if err := sonic.Unmarshal(data, &wrapper); err != nil {
			return nil, fmt.Errorf("unmarshal transfers: %w", err)
		}
		out := make([]core.Transfer, 0, len(wrapper.Rows))
		for _, item := range wrapper.Rows {
			var tr bingxTransferRecord
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
			var d bingxDeposit
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
			var w bingxWithdrawal
			if err := sonic.Unmarshal(item, &w); err != nil {
				return nil, fmt.Errorf("unmarshal withdrawal: %w", err)
			}
			out = append(out, *n.NormalizeWithdrawal(&w, item))
		}
		return out, nil

	case core.OpWithdraw:
		var w struct {
			ID ident `json:"id"`
		}
		if err := sonic.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("unmarshal withdraw ack: %w", err)
		}
		return &core.Transaction{ID: string(w.ID), Kind: core.TxWithdrawal, Status: core.TxStatusPending, Timestamp: time.Now()}, nil

	default:
		var result any
		if err := sonic.Unmarshal(data, &result); err != nil {
			return nil, fmt.Errorf("unmarshal response: %w", err)
		}
		return result, nil
	}
}

func (p *Protocol) normalizeMarkets(data json.RawMessage) ([]*core.Market, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := sonic.Unmarshal(trimmed, &raw); err != nil {
			return nil, fmt.Errorf("unmarshal swap markets: %w", err)
		}
		fees := p.desc.Fees[core.MarketTypeSwap]
		out := make([]*core.Market, 0, len(raw))
		for _, item := range raw {
			var m bingxSwapMarket
			if err := sonic.Unmarshal(item, &m); err != nil {
				return nil, fmt.Errorf("unmarshal swap market: %w", err)
			}
			out = append(out, p.normalizer.NormalizeSwapMarket(&m, fees, item))
		}
		return out, nil
	}

	var wrapper struct {
		Symbols []json.RawMessage `json:"symbols"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal spot markets: %w", err)
	}
	fees := p.desc.Fees[core.MarketTypeSpot]
	out := make([]*core.Market, 0, len(wrapper.Symbols))
	for _, item := range wrapper.Symbols {
		var m bingxSpotMarket
		if err := sonic.Unmarshal(item, &m); err != nil {
			return nil, fmt.Errorf("unmarshal spot market: %w", err)
		}
		out = append(out, p.normalizer.NormalizeSpotMarket(&m, fees, item))
	}
	return out, nil
}

func (p *Protocol) normalizeBalances(data json.RawMessage) ([]core.Balance, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var balances []bingxSwapBalance
		if err := sonic.Unmarshal(trimmed, &balances); err != nil {
			return nil, fmt.Errorf("unmarshal swap balances: %w", err)
		}
		return p.normalizer.NormalizeSwapBalances(balances), nil
	}
	var balances bingxSpotBalances
	if err := sonic.Unmarshal(trimmed, &balances); err != nil {
		return nil, fmt.Errorf("unmarshal spot balances: %w", err)
	}
	return p.normalizer.NormalizeSpotBalances(&balances), nil
}

func decodeTickers(data json.RawMessage) ([]bingxTicker, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var tickers []bingxTicker
		if err := sonic.Unmarshal(trimmed, &tickers); err != nil {
			return nil, fmt.Errorf("unmarshal tickers: %w", err)
		}
		return tickers, nil
	}
	var ticker bingxTicker
	if err := sonic.Unmarshal(trimmed, &ticker); err != nil {
		return nil, fmt.Errorf("unmarshal ticker: %w", err)
	}
	return []bingxTicker{ticker}, nil
}

// decodeKlines handles both kline encodings: the spot endpoint emits
// positional arrays, the swap endpoint emits objects.
func decodeKlines(data json.RawMessage) ([]core.Kline, error) {
	var raw []json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("unmarshal klines: %w", err)
	}
	out := make([]core.Kline, 0, len(raw))
	for _, item := range raw {
		trimmed := bytes.TrimSpace(item)
		if len(trimmed) == 0 {
			continue
		}
		if trimmed[0] == '[' {
			var cols []num
			if err := sonic.Unmarshal(trimmed, &cols); err != nil {
				return nil, fmt.Errorf("unmarshal kline row: %w", err)
			}
			if len(cols) < 6 {
				continue
			}
			k := core.Kline{
				Open:   cols[1].Decimal,
				High:   cols[2].Decimal,
				Low:    cols[3].Decimal,
				Close:  cols[4].Decimal,
				Volume: cols[5].Decimal,
			}
			if ts, err := cols[0].Int64(); err == nil {
				k.OpenTime = time.UnixMilli(ts)
			}
			if len(cols) > 6 {
				if ts, err := cols[6].Int64(); err == nil {
					k.CloseTime = time.UnixMilli(ts)
				}
			}
			if len(cols) > 7 {
				k.QuoteVolume = cols[7].Decimal
			}
			out = append(out, k)
			continue
		}

		var obj struct {
			Open   num   `json:"open"`
			High   num   `json:"high"`
			Low    num   `json:"low"`
			Close  num   `json:"close"`
			Volume num   `json:"volume"`
			Time   int64 `json:"time"`
		}
		if err := sonic.Unmarshal(trimmed, &obj); err != nil {
			return nil, fmt.Errorf("unmarshal kline: %w", err)
		}
		out = append(out, core.Kline{
			OpenTime: time.UnixMilli(obj.Time),
			Open:     obj.Open.Decimal,
			High:     obj.High.Decimal,
			Low:      obj.Low.Decimal,
			Close:    obj.Close.Decimal,
			Volume:   obj.Volume.Decimal,
		})
	}
	return out, nil
}

func decodeOrderPayload(data json.RawMessage) (*bingxOrder, error) {
	var wrapper struct {
		Order *bingxOrder `json:"order"`
	}
	if err := sonic.Unmarshal(data, &wrapper); err == nil && wrapper.Order != nil {
		return wrapper.Order, nil
	}
	var order bingxOrder
	if err := sonic.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &order, nil
}

func decodeOrdersPayload(data json.RawMessage) ([]bingxOrder, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var orders []bingxOrder
		if err := sonic.Unmarshal(trimmed, &orders); err != nil {
			return nil, fmt.Errorf("unmarshal orders: %w", err)
		}
		return orders, nil
	}
	var wrapper struct {
		Orders []bingxOrder `json:"orders"`
	}
	if err := sonic.Unmarshal(trimmed, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal orders: %w", err)
	}
	return wrapper.Orders, nil
}

func decodeFillsPayload(data json.RawMessage) ([]bingxFill, error) {
	var wrapper struct {
		Fills      []bingxFill `json:"fills"`
		FillOrders []bingxFill `json:"fill_orders"`
	}
	if err := sonic.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal fills: %w", err)
	}
	if wrapper.Fills != nil {
		return wrapper.Fills, nil
	}
	return wrapper.FillOrders, nil
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
func (p *Protocol) newRequest(method string, route core.Route) (*core.Request, error) {
	weight, ok := p.desc.Weight(route)
	if !ok {
		return nil, fmt.Errorf("route not declared: %s %s/%s/%s", method, route.Category, route.Version, route.Path)
	}
	req := core.NewRequest(method, route).SetWeight(weight)
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

func (p *Protocol) buildGetMarkets(params core.Params) (*core.Request, error) {
	if p.marketType(params) == core.MarketTypeSwap {
		return p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/contracts"})
	}
	return p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPublic, Method: http.MethodGet, Path: "common/symbols"})
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
	req, err := p.tickerRoute(m.Type)
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	return req, nil
}

func (p *Protocol) buildGetTickers(params core.Params) (*core.Request, error) {
	return p.tickerRoute(p.marketType(params))
}

func (p *Protocol) tickerRoute(mt core.MarketType) (*core.Request, error) {
	if mt == core.MarketTypeSwap {
		return p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/ticker"})
	}
	return p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPublic, Method: http.MethodGet, Path: "ticker/24hr"})
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
	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/depth"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPublic, Method: http.MethodGet, Path: "market/depth"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
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
	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v3", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/klines"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPublic, Method: http.MethodGet, Path: "market/kline"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	interval, _ := params["interval"].(string)
	if interval == "" {
		interval = "1m"
	}
	req.SetQuery("interval", interval)
	addTimeRange(req, params)
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
	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/trades"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPublic, Method: http.MethodGet, Path: "market/trades"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
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
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadSymbol, "funding rate requires a swap market, got "+symbol)
	}
	req, err := p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPublic, Method: http.MethodGet, Path: "quote/premiumIndex"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	return req, nil
}

func (p *Protocol) buildGetBalance(params core.Params) (*core.Request, error) {
	if p.marketType(params) == core.MarketTypeSwap {
		return p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v3", Access: core.AccessPrivate, Method: http.MethodGet, Path: "user/balance"})
	}
	return p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "account/balance"})
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

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/order"})
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/order"})
	}
	if err != nil {
		return nil, err
	}

	fields, err := p.orderFields(m, order)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		req.SetQuery(k, v)
	}
	return req, nil
}

// orderFields maps one unified order onto the venue's parameter vocabulary.
// Prices and amounts are quantized to the market's declared precision.
func (p *Protocol) orderFields(m *core.Market, order *exchange.OrderRequest) (core.Params, error) {
	if order.Side != core.SideBuy && order.Side != core.SideSell {
		return nil, core.ArgumentsRequired(ExchangeID, "order side is required")
	}
	fields := core.Params{
		"symbol": m.ID,
		"side":   order.Side.String(),
	}

	if m.Type == core.MarketTypeSwap {
		return p.swapOrderFields(m, order, fields)
	}
	return p.spotOrderFields(m, order, fields)
}

func (p *Protocol) spotOrderFields(m *core.Market, order *exchange.OrderRequest, fields core.Params) (core.Params, error) {
	venueType := "LIMIT"
	if order.Type.IsMarket() {
		venueType = "MARKET"
	}
	if !order.TriggerPrice.IsZero() {
		if order.Type.IsMarket() {
			venueType = "TRIGGER_MARKET"
		} else {
			venueType = "TRIGGER_LIMIT"
		}
		trigger, err := m.PriceToPrecision(&order.TriggerPrice)
		if err != nil {
			return nil, err
		}
		fields["stopPrice"] = trigger.Text('f')
	}
	fields["type"] = venueType

	if !order.Quantity.IsZero() {
		qty, err := m.AmountToPrecision(&order.Quantity)
		if err != nil {
			return nil, err
		}
		fields["quantity"] = qty.Text('f')
	} else if !order.QuoteQuantity.IsZero() {
		fields["quoteOrderQty"] = order.QuoteQuantity.Text('f')
	} else {
		return nil, core.ArgumentsRequired(ExchangeID, "order quantity is required")
	}

	if !order.Type.IsMarket() {
		if order.Price.IsZero() {
			return nil, core.ArgumentsRequired(ExchangeID, "limit orders require a price")
		}
		price, err := m.PriceToPrecision(&order.Price)
		if err != nil {
			return nil, err
		}
		fields["price"] = price.Text('f')
	}

	switch {
	case order.PostOnly:
		fields["timeInForce"] = "POC"
	case order.TimeInForce == core.IOC:
		fields["timeInForce"] = "IOC"
	case order.TimeInForce == core.FOK:
		fields["timeInForce"] = "FOK"
	}

	fields["newClientOrderId"] = p.clientOrderID(order.ClientOrderID)
	return fields, nil
}

func (p *Protocol) swapOrderFields(m *core.Market, order *exchange.OrderRequest, fields core.Params) (core.Params, error) {
	isMarket := order.Type.IsMarket()
	venueType := "LIMIT"
	if isMarket {
		venueType = "MARKET"
	}

	quantize := func(price *apd.Decimal) (string, error) {
		out, err := m.PriceToPrecision(price)
		if err != nil {
			return "", err
		}
		return out.Text('f'), nil
	}

	trailing := !order.TrailingPercent.IsZero() || !order.TrailingAmount.IsZero()
	conditionals := 0
	for _, set := range []bool{!order.TriggerPrice.IsZero(), !order.StopLossPrice.IsZero(), !order.TakeProfitPrice.IsZero(), trailing} {
		if set {
			conditionals++
		}
	}
	if conditionals > 1 {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeInvalidOrder,
			"triggerPrice, stopLossPrice, takeProfitPrice and trailing parameters are mutually exclusive")
	}

	switch {
	case trailing:
		venueType = "TRAILING_STOP_MARKET"
		if !order.TrailingPercent.IsZero() {
			rate, err := core.DecimalQuo(&order.TrailingPercent, apd.New(100, 0))
			if err != nil {
				return nil, err
			}
			fields["priceRate"] = rate.Text('f')
		} else {
			fields["price"] = order.TrailingAmount.Text('f')
		}
	case !order.StopLossPrice.IsZero():
		if isMarket {
			venueType = "STOP_MARKET"
		} else {
			venueType = "STOP"
		}
		stop, err := quantize(&order.StopLossPrice)
		if err != nil {
			return nil, err
		}
		fields["stopPrice"] = stop
		fields["reduceOnly"] = "true"
	case !order.TakeProfitPrice.IsZero():
		if isMarket {
			venueType = "TAKE_PROFIT_MARKET"
		} else {
			venueType = "TAKE_PROFIT"
		}
		stop, err := quantize(&order.TakeProfitPrice)
		if err != nil {
			return nil, err
		}
		fields["stopPrice"] = stop
		fields["reduceOnly"] = "true"
	case !order.TriggerPrice.IsZero():
		if isMarket {
			venueType = "TRIGGER_MARKET"
		} else {
			venueType = "TRIGGER_LIMIT"
		}
		stop, err := quantize(&order.TriggerPrice)
		if err != nil {
			return nil, err
		}
		fields["stopPrice"] = stop
	}
	fields["type"] = venueType

	if order.Quantity.IsZero() {
		return nil, core.ArgumentsRequired(ExchangeID, "order quantity is required")
	}
	qty, err := m.AmountToPrecision(&order.Quantity)
	if err != nil {
		return nil, err
	}
	fields["quantity"] = qty.Text('f')

	if !isMarket {
		if order.Price.IsZero() {
			return nil, core.ArgumentsRequired(ExchangeID, "limit orders require a price")
		}
		price, err := quantize(&order.Price)
		if err != nil {
			return nil, err
		}
		fields["price"] = price
	}

	fields["positionSide"] = p.positionSide(order)

	if order.ReduceOnly {
		fields["reduceOnly"] = "true"
	}
	switch {
	case order.PostOnly:
		fields["timeInForce"] = "PostOnly"
	case order.TimeInForce == core.IOC:
		fields["timeInForce"] = "IOC"
	case order.TimeInForce == core.FOK:
		fields["timeInForce"] = "FOK"
	}

	// Attached protective legs travel as JSON-encoded strings.
	if order.StopLoss != nil {
		leg, err := p.attachedLeg(m, order.StopLoss, "STOP_MARKET")
		if err != nil {
			return nil, err
		}
		fields["stopLoss"] = leg
	}
	if order.TakeProfit != nil {
		leg, err := p.attachedLeg(m, order.TakeProfit, "TAKE_PROFIT_MARKET")
		if err != nil {
			return nil, err
		}
		fields["takeProfit"] = leg
	}

	fields["clientOrderID"] = p.clientOrderID(order.ClientOrderID)
	return fields, nil
}

// positionSide derives the hedge-mode position direction from the order's
// side and reduce-only flag when the caller did not set it explicitly.
func (p *Protocol) positionSide(order *exchange.OrderRequest) string {
	if order.PositionSide != core.PositionSideUnknown {
		return strings.ToUpper(order.PositionSide.String())
	}
	long := order.Side == core.SideBuy
	if order.ReduceOnly || order.StopLoss != nil || !order.StopLossPrice.IsZero() || !order.TakeProfitPrice.IsZero() {
		long = order.Side == core.SideSell
	}
	if long {
		return "LONG"
	}
	return "SHORT"
}

func (p *Protocol) attachedLeg(m *core.Market, leg *exchange.AttachedOrder, marketType string) (string, error) {
	trigger, err := m.PriceToPrecision(&leg.TriggerPrice)
	if err != nil {
		return "", err
	}
	payload := core.Params{
		"type":        marketType,
		"stopPrice":   trigger.Text('f'),
		"workingType": "MARK_PRICE",
	}
	if !leg.Price.IsZero() {
		price, err := m.PriceToPrecision(&leg.Price)
		if err != nil {
			return "", err
		}
		payload["type"] = strings.TrimSuffix(marketType, "_MARKET")
		payload["price"] = price.Text('f')
	}
	if !leg.Quantity.IsZero() {
		qty, err := m.AmountToPrecision(&leg.Quantity)
		if err != nil {
			return "", err
		}
		payload["quantity"] = qty.Text('f')
	}
	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// clientOrderID returns the caller's id unchanged or generates one carrying
// the broker tag.
func (p *Protocol) clientOrderID(explicit string) string {
	if explicit != "" {
		return explicit
	}
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return p.brokerTag + "-" + raw[:16]
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
		fields, err := p.orderFields(m, o)
		if err != nil {
			return nil, err
		}
		batch = append(batch, fields)
	}
	encoded, err := sonic.Marshal(batch)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/batchOrders"})
		if err != nil {
			return nil, err
		}
		req.SetQuery("batchOrders", string(encoded))
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/batchOrders"})
		if err != nil {
			return nil, err
		}
		req.SetQuery("data", string(encoded))
	}
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

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodDelete, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodDelete, Path: "trade/order"})
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/cancel"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	if cancel.OrderID != "" {
		req.SetQuery("orderId", cancel.OrderID)
	} else if m.Type == core.MarketTypeSwap {
		req.SetQuery("clientOrderId", cancel.ClientOrderID)
	} else {
		req.SetQuery("clientOrderID", cancel.ClientOrderID)
	}
	return req, nil
}

func (p *Protocol) buildCancelOrders(params core.Params) (*core.Request, error) {
	cancels, ok := params["cancels"].([]*exchange.CancelRequest)
	if !ok || len(cancels) == 0 {
		return nil, core.ArgumentsRequired(ExchangeID, "cancel requests are required")
	}
	ids := make([]string, 0, len(cancels))
	for _, c := range cancels {
		if c.Symbol != cancels[0].Symbol {
			return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest,
				"batch cancels must share one symbol, got "+cancels[0].Symbol+" and "+c.Symbol)
		}
		if c.OrderID == "" {
			return nil, core.ArgumentsRequired(ExchangeID, "every batch cancel needs an orderId")
		}
		ids = append(ids, c.OrderID)
	}
	m, err := p.market(cancels[0].Symbol)
	if err != nil {
		return nil, err
	}

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodDelete, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodDelete, Path: "trade/batchOrders"})
		if err != nil {
			return nil, err
		}
		encoded, merr := sonic.Marshal(ids)
		if merr != nil {
			return nil, merr
		}
		req.SetQuery("orderIdList", string(encoded))
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/cancelOrders"})
		if err != nil {
			return nil, err
		}
		req.SetQuery("orderIds", strings.Join(ids, ","))
	}
	req.SetQuery("symbol", m.ID)
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
	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodDelete, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodDelete, Path: "trade/allOpenOrders"})
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/cancelOpenOrders"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
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
	m, err := p.market(amend.Symbol)
	if err != nil {
		return nil, err
	}

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySwap, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/cancelReplace"})
	} else {
		req, err = p.newRequest(http.MethodPost, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/order/cancelReplace"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	req.SetQuery("cancelOrderId", amend.OrderID)
	req.SetQuery("cancelReplaceMode", "STOP_ON_FAILURE")
	req.SetQuery("type", "LIMIT")
	if amend.Side == core.SideBuy || amend.Side == core.SideSell {
		req.SetQuery("side", amend.Side.String())
	}
	if !amend.Quantity.IsZero() {
		qty, qerr := m.AmountToPrecision(&amend.Quantity)
		if qerr != nil {
			return nil, qerr
		}
		req.SetQuery("quantity", qty.Text('f'))
	}
	if !amend.Price.IsZero() {
		price, perr := m.PriceToPrecision(&amend.Price)
		if perr != nil {
			return nil, perr
		}
		req.SetQuery("price", price.Text('f'))
	}
	return req, nil
}

func (p *Protocol) buildGetOrder(params core.Params) (*core.Request, error) {
	query, ok := params["query"].(*exchange.OrderQuery)
	if !ok || query == nil {
		return nil, core.ArgumentsRequired(ExchangeID, "order query is required")
	}
	if query.OrderID == "" && query.ClientOrderID == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "orderId or clientOrderId is required")
	}
	m, err := p.market(query.Symbol)
	if err != nil {
		return nil, err
	}

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/order"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/query"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	if query.OrderID != "" {
		req.SetQuery("orderId", query.OrderID)
	} else if m.Type == core.MarketTypeSwap {
		req.SetQuery("clientOrderId", query.ClientOrderID)
	} else {
		req.SetQuery("clientOrderID", query.ClientOrderID)
	}
	return req, nil
}

func (p *Protocol) buildGetOpenOrders(params core.Params) (*core.Request, error) {
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

	var req *core.Request
	var err error
	if mt == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/openOrders"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/openOrders"})
	}
	if err != nil {
		return nil, err
	}
	if m != nil {
		req.SetQuery("symbol", m.ID)
	}
	return req, nil
}

func (p *Protocol) buildGetClosedOrders(params core.Params) (*core.Request, error) {
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

	var req *core.Request
	var err error
	if mt == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/allOrders"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/historyOrders"})
	}
	if err != nil {
		return nil, err
	}
	if m != nil {
		req.SetQuery("symbol", m.ID)
	}
	addTimeRange(req, params)
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

	var req *core.Request
	if m.Type == core.MarketTypeSwap {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/allFillOrders"})
	} else {
		req, err = p.newRequest(http.MethodGet, core.Route{Category: categorySpot, Version: "v1", Access: core.AccessPrivate, Method: http.MethodGet, Path: "trade/myTrades"})
	}
	if err != nil {
		return nil, err
	}
	req.SetQuery("symbol", m.ID)
	addTimeRange(req, params)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("limit", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetPositions(params core.Params) (*core.Request, error) {
	req, err := p.newRequest(http.MethodGet, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodGet, Path: "user/positions"})
	if err != nil {
		return nil, err
	}
	if symbol, ok := params["symbol"].(string); ok && symbol != "" {
		m, merr := p.market(symbol)
		if merr != nil {
			return nil, merr
		}
		req.SetQuery("symbol", m.ID)
	}
	return req, nil
}

func (p *Protocol) buildSetLeverage(params core.Params) (*core.Request, error) {
	symbol, ok := params["symbol"].(string)
	if !ok || symbol == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "symbol is required")
	}
	leverage, ok := params["leverage"].(int)
	if !ok || leverage < 1 {
		return nil, core.ArgumentsRequired(ExchangeID, "leverage must be a positive integer")
	}
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	if m.Type != core.MarketTypeSwap {
		return nil, core.NotSupported(ExchangeID, "SetLeverage on spot markets")
	}
	req, err := p.newRequest(http.MethodPost, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/leverage"})
	if err != nil {
		return nil, err
	}
	side := "BOTH"
	if ps, ok := params["positionSide"].(core.PositionSide); ok && ps != core.PositionSideUnknown {
		side = strings.ToUpper(ps.String())
	}
	req.SetQuery("symbol", m.ID)
	req.SetQuery("side", side)
	req.SetQuery("leverage", leverage)
	return req, nil
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
	m, err := p.market(symbol)
	if err != nil {
		return nil, err
	}
	if m.Type != core.MarketTypeSwap {
		return nil, core.NotSupported(ExchangeID, "SetMarginMode on spot markets")
	}
	req, err := p.newRequest(http.MethodPost, core.Route{Category: categorySwap, Version: "v2", Access: core.AccessPrivate, Method: http.MethodPost, Path: "trade/marginType"})
	if err != nil {
		return nil, err
	}
	marginType := "CROSSED"
	if mode == core.MarginModeIsolated {
		marginType = "ISOLATED"
	}
	req.SetQuery("symbol", m.ID)
	req.SetQuery("marginType", marginType)
	return req, nil
}

// transferAccounts maps unified account names onto the venue's transfer-type
// vocabulary.
var transferAccounts = map[string]string{
	"fund":    "FUND",
	"spot":    "FUND",
	"swap":    "PFUTURES",
	"linear":  "PFUTURES",
	"futures": "SFUTURES",
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

	req, err := p.newRequest(http.MethodPost, core.Route{Category: categoryAPI, Version: "v3", Access: core.AccessPrivate, Method: http.MethodPost, Path: "post/asset/transfer"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("type", from+"_"+to)
	req.SetQuery("asset", transfer.Asset)
	req.SetQuery("amount", transfer.Amount.Text('f'))
	return req, nil
}

func (p *Protocol) buildGetTransfers(params core.Params) (*core.Request, error) {
	extra, _ := params["extra"].(core.Params)
	fromName, _ := extra["fromAccount"].(string)
	toName, _ := extra["toAccount"].(string)
	if fromName == "" || toName == "" {
		return nil, core.ArgumentsRequired(ExchangeID, "this venue requires fromAccount and toAccount params to list transfers")
	}
	from, ok := transferAccounts[strings.ToLower(fromName)]
	if !ok {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "unknown transfer account "+fromName)
	}
	to, ok := transferAccounts[strings.ToLower(toName)]
	if !ok {
		return nil, core.NewExchangeError(ExchangeID, core.ErrorTypeBadRequest, "unknown transfer account "+toName)
	}
	// Consumed here; the venue only understands the packed type parameter.
	delete(extra, "fromAccount")
	delete(extra, "toAccount")

	req, err := p.newRequest(http.MethodGet, core.Route{Category: categoryAPI, Version: "v3", Access: core.AccessPrivate, Method: http.MethodGet, Path: "asset/transfer"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("type", from+"_"+to)
	addTimeRange(req, params)
	if limit, ok := params["limit"].(int); ok && limit > 0 {
		req.SetQuery("size", limit)
	}
	return req, nil
}

func (p *Protocol) buildGetTransactions(params core.Params, path string) (*core.Request, error) {
	req, err := p.newRequest(http.MethodGet, core.Route{Category: categoryAPI, Version: "v3", Access: core.AccessPrivate, Method: http.MethodGet, Path: path})
	if err != nil {
		return nil, err
	}
	if asset, ok := params["asset"].(string); ok && asset != "" {
		req.SetQuery("coin", asset)
	}
	addTimeRange(req, params)
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
	req, err := p.newRequest(http.MethodPost, core.Route{Category: categoryWallets, Version: "v1", Access: core.AccessPrivate, Method: http.MethodPost, Path: "capital/withdraw/apply"})
	if err != nil {
		return nil, err
	}
	req.SetQuery("coin", withdraw.Asset)
	req.SetQuery("address", withdraw.Address)
	req.SetQuery("amount", withdraw.Amount.Text('f'))
	req.SetQuery("walletType", 1)
	if withdraw.Network != "" {
		req.SetQuery("network", withdraw.Network)
	}
	if withdraw.Tag != "" {
		req.SetQuery("addressTag", withdraw.Tag)
	}
	return req, nil
}

func addTimeRange(req *core.Request, params core.Params) {
	if since, ok := params["since"].(time.Time); ok && !since.IsZero() {
		req.SetQuery("startTime", strconv.FormatInt(since.UnixMilli(), 10))
	}
	if until, ok := params["until"].(time.Time); ok && !until.IsZero() {
		req.SetQuery("endTime", strconv.FormatInt(until.UnixMilli(), 10))
	}
}
