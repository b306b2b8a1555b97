package bingx

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"tukar/internal/ws"
	"tukar/pkg/core"
	"tukar/pkg/exchange"
)

// marketStream multiplexes one websocket connection per market type. Every
// frame arrives gzip-compressed; the decoder hook inflates before dispatch.
type marketStream struct {
	ex     *Exchange
	client *ws.Client
	mt     core.MarketType

	mu       sync.Mutex
	handlers map[string][]func(json.RawMessage)
	done     chan struct{}
}

// gunzip inflates one frame. Control frames occasionally arrive uncompressed;
// those pass through unchanged.
func gunzip(data []byte) ([]byte, error) {
	if len(data) < 2 || data[0] != 0x1f || data[1] != 0x8b {
		return data, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (e *Exchange) stream(ctx context.Context, mt core.MarketType) (*marketStream, error) {
	e.streamMu.Lock()
	defer e.streamMu.Unlock()

	if s, ok := e.streams[mt]; ok {
		return s, nil
	}

	streamURL := StreamSpotURL
	if mt == core.MarketTypeSwap {
		streamURL = StreamSwapURL
	}
	client := ws.NewClient(ws.Config{
		URL:              streamURL,
		Decode:           gunzip,
		ReconnectEnabled: true,
	}, e.logger)
	if err := client.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect stream: %w", err)
	}

	s := &marketStream{
		ex:       e,
		client:   client,
		mt:       mt,
		handlers: make(map[string][]func(json.RawMessage)),
		done:     make(chan struct{}),
	}
	go s.dispatch(client.Subscribe("frames"))

	e.streams[mt] = s
	return s, nil
}

type streamFrame struct {
	Code     int64           `json:"code"`
	DataType string          `json:"dataType"`
	Data     json.RawMessage `json:"data"`
	Ping     string          `json:"ping"`
}

// dispatch routes inflated frames to topic handlers and answers keepalives.
// The swap host pings with a bare "Ping" text frame, the spot host with a
// {"ping": id} object.
func (s *marketStream) dispatch(frames <-chan []byte) {
	for {
		select {
		case <-s.done:
			return
		case frame, ok := <-frames:
			if !ok {
				return
			}
			if bytes.Equal(bytes.TrimSpace(frame), []byte("Ping")) {
				_ = s.client.Send([]byte("Pong"))
				continue
			}

			var env streamFrame
			if err := sonic.Unmarshal(frame, &env); err != nil {
				continue
			}
			if env.Ping != "" {
				_ = s.client.SendJSON(map[string]string{
					"pong": env.Ping,
					"time": time.Now().UTC().Format(time.RFC3339),
				})
				continue
			}
			if env.DataType == "" || len(env.Data) == 0 {
				continue
			}

			s.mu.Lock()
			handlers := slices.Clone(s.handlers[env.DataType])
			s.mu.Unlock()
			for _, h := range handlers {
				h(env.Data)
			}
		}
	}
}

func (s *marketStream) subscribe(dataType string, handler func(json.RawMessage)) error {
	s.mu.Lock()
	s.handlers[dataType] = append(s.handlers[dataType], handler)
	s.mu.Unlock()

	msg := core.Params{
		"id":       uuid.NewString(),
		"dataType": dataType,
	}
	// Spot and swap hosts disagree on the verb key.
	if s.mt == core.MarketTypeSwap {
		msg["reqType"] = "sub"
	} else {
		msg["event"] = "sub"
	}
	return s.client.SendJSON(msg)
}

func (s *marketStream) close() error {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	return s.client.Close()
}

// wsTicker is the 24h ticker stream payload. The stream reuses abbreviated
// field names rather than the REST spellings.
type wsTicker struct {
	Symbol      string `json:"s"`
	Change      num    `json:"p"`
	Percent     num    `json:"P"`
	Last        num    `json:"c"`
	Open        num    `json:"o"`
	High        num    `json:"h"`
	Low         num    `json:"l"`
	Volume      num    `json:"v"`
	QuoteVolume num    `json:"q"`
	Bid         num    `json:"b"`
	BidVolume   num    `json:"B"`
	Ask         num    `json:"a"`
	AskVolume   num    `json:"A"`
	EventTime   int64  `json:"E"`
}

type wsTrade struct {
	TradeID    ident  `json:"t"`
	Symbol     string `json:"s"`
	Price      num    `json:"p"`
	Quantity   num    `json:"q"`
	TradeTime  int64  `json:"T"`
	BuyerMaker bool   `json:"m"`
}

type wsDepth struct {
	Bids [][]num `json:"bids"`
	Asks [][]num `json:"asks"`
}

// WatchTicker streams 24h statistics for one symbol.
func (e *Exchange) WatchTicker(ctx context.Context, symbol string, opts ...exchange.Option) (<-chan *core.Ticker, <-chan error) {
	out := make(chan *core.Ticker, 16)
	errCh := make(chan error, 1)

	m, err := e.MarketBySymbol(symbol)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}
	s, err := e.stream(ctx, m.Type)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}

	handler := func(data json.RawMessage) {
		var t wsTicker
		if uerr := sonic.Unmarshal(data, &t); uerr != nil {
			return
		}
		ticker := &core.Ticker{
			Symbol:      symbol,
			Type:        m.Type,
			Bid:         t.Bid.Decimal,
			BidVolume:   t.BidVolume.Decimal,
			Ask:         t.Ask.Decimal,
			AskVolume:   t.AskVolume.Decimal,
			Open:        t.Open.Decimal,
			Last:        t.Last.Decimal,
			High:        t.High.Decimal,
			Low:         t.Low.Decimal,
			Change:      t.Change.Decimal,
			Percentage:  t.Percent.Decimal,
			BaseVolume:  t.Volume.Decimal,
			QuoteVolume: t.QuoteVolume.Decimal,
			Timestamp:   time.UnixMilli(t.EventTime),
			Info:        data,
		}
		select {
		case out <- ticker:
		default:
		}
	}
	if err := s.subscribe(m.ID+"@ticker", handler); err != nil {
		errCh <- err
		close(out)
	}
	return out, errCh
}

// WatchTrades streams public executions for one symbol.
func (e *Exchange) WatchTrades(ctx context.Context, symbol string, opts ...exchange.Option) (<-chan *core.Trade, <-chan error) {
	out := make(chan *core.Trade, 64)
	errCh := make(chan error, 1)

	m, err := e.MarketBySymbol(symbol)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}
	s, err := e.stream(ctx, m.Type)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}

	handler := func(data json.RawMessage) {
		// The stream delivers either one trade or a batch.
		raw := bytes.TrimSpace(data)
		var batch []json.RawMessage
		if len(raw) > 0 && raw[0] == '[' {
			if uerr := sonic.Unmarshal(raw, &batch); uerr != nil {
				return
			}
		} else {
			batch = []json.RawMessage{raw}
		}
		for _, item := range batch {
			var t wsTrade
			if uerr := sonic.Unmarshal(item, &t); uerr != nil {
				continue
			}
			side := core.SideBuy
			if t.BuyerMaker {
				side = core.SideSell
			}
			trade := &core.Trade{
				ID:        string(t.TradeID),
				Symbol:    symbol,
				Side:      side,
				Price:     t.Price.Decimal,
				Quantity:  t.Quantity.Decimal,
				Timestamp: time.UnixMilli(t.TradeTime),
				Info:      item,
			}
			select {
			case out <- trade:
			default:
			}
		}
	}
	if err := s.subscribe(m.ID+"@trade", handler); err != nil {
		errCh <- err
		close(out)
	}
	return out, errCh
}

// WatchOrderBook streams depth snapshots for one symbol.
func (e *Exchange) WatchOrderBook(ctx context.Context, symbol string, opts ...exchange.Option) (<-chan *core.OrderBook, <-chan error) {
	out := make(chan *core.OrderBook, 16)
	errCh := make(chan error, 1)

	m, err := e.MarketBySymbol(symbol)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}
	s, err := e.stream(ctx, m.Type)
	if err != nil {
		errCh <- err
		close(out)
		return out, errCh
	}

	options := exchange.ApplyOptions(opts...)
	depth := 20
	if options.Limit > 0 {
		depth = options.Limit
	}
	dataType := fmt.Sprintf("%s@depth%d", m.ID, depth)

	handler := func(data json.RawMessage) {
		var d wsDepth
		if uerr := sonic.Unmarshal(data, &d); uerr != nil {
			return
		}
		book := &core.OrderBook{
			Symbol:    symbol,
			Timestamp: time.Now(),
		}
		for _, level := range d.Bids {
			if len(level) < 2 {
				continue
			}
			book.Bids = append(book.Bids, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
		}
		for _, level := range d.Asks {
			if len(level) < 2 {
				continue
			}
			book.Asks = append(book.Asks, core.OrderBookLevel{Price: level[0].Decimal, Quantity: level[1].Decimal})
		}
		// Swap depth arrives with asks sorted away from the touch; flip so
		// the best level always leads.
		if len(book.Asks) > 1 {
			first, last := book.Asks[0].Price, book.Asks[len(book.Asks)-1].Price
			if first.Cmp(&last) > 0 {
				for i, j := 0, len(book.Asks)-1; i < j; i, j = i+1, j-1 {
					book.Asks[i], book.Asks[j] = book.Asks[j], book.Asks[i]
				}
			}
		}
		select {
		case out <- book:
		default:
		}
	}
	if err := s.subscribe(dataType, handler); err != nil {
		errCh <- err
		close(out)
	}
	return out, errCh
}

var _ exchange.Streamer = (*Exchange)(nil)
