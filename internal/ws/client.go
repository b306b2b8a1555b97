package ws

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/lxzan/gws"
	"github.com/rs/zerolog"
)

// Config holds the settings for one stream connection.
type Config struct {
	// URL is the websocket endpoint.
	URL string
	// Decode transforms each raw frame before fan-out. Venues that compress
	// frames (BingX gzips every message) install their decompressor here.
	Decode func([]byte) ([]byte, error)
	// ReconnectEnabled turns automatic reconnection on.
	ReconnectEnabled bool
	// ReconnectBaseWait is the first backoff step; doubled per attempt up to
	// ReconnectMaxWait.
	ReconnectBaseWait time.Duration
	ReconnectMaxWait  time.Duration
	// PingInterval and PongWait bound connection liveness.
	PingInterval time.Duration
	PongWait     time.Duration
	// BufferSize is the per-subscription channel capacity.
	BufferSize int
}

// Client is a reconnecting websocket connection with topic fan-out.
// One Client serves every subscription of one adapter.
type Client struct {
	cfg     Config
	state   connState
	conn    *gws.Conn
	logger  zerolog.Logger
	handler *eventHandler

	mu        sync.RWMutex
	subs      map[string]*subscription
	connected chan struct{}
	stop      chan struct{}
	wg        sync.WaitGroup
	attempts  int
}

type subscription struct {
	topic  string
	dataCh chan []byte
}

type eventHandler struct {
	c *Client
}

// NewClient builds a stream client; zero config fields get defaults.
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.ReconnectBaseWait == 0 {
		cfg.ReconnectBaseWait = time.Second
	}
	if cfg.ReconnectMaxWait == 0 {
		cfg.ReconnectMaxWait = 30 * time.Second
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 10 * time.Second
	}
	if cfg.PongWait == 0 {
		cfg.PongWait = 20 * time.Second
	}
	if cfg.BufferSize == 0 {
		cfg.BufferSize = 100
	}

	c := &Client{
		cfg:       cfg,
		logger:    logger,
		subs:      make(map[string]*subscription),
		connected: make(chan struct{}),
		stop:      make(chan struct{}),
	}
	c.state.Store(StateDisconnected)
	c.handler = &eventHandler{c: c}
	return c
}

func (h *eventHandler) OnOpen(socket *gws.Conn) {
	h.c.state.Store(StateConnected)

	h.c.mu.Lock()
	h.c.attempts = 0
	select {
	case <-h.c.connected:
	default:
		close(h.c.connected)
	}
	h.c.mu.Unlock()

	h.c.logger.Info().Str("url", h.c.cfg.URL).Msg("stream connected")
	_ = socket.SetDeadline(time.Now().Add(h.c.cfg.PingInterval + h.c.cfg.PongWait))
}

func (h *eventHandler) OnClose(socket *gws.Conn, err error) {
	h.c.state.Store(StateDisconnected)

	h.c.mu.Lock()
	h.c.connected = make(chan struct{})
	h.c.mu.Unlock()

	h.c.logger.Warn().Err(err).Str("url", h.c.cfg.URL).Msg("stream disconnected")

	if h.c.cfg.ReconnectEnabled {
		select {
		case <-h.c.stop:
		default:
			go h.c.reconnect()
		}
	}
}

func (h *eventHandler) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.c.cfg.PingInterval + h.c.cfg.PongWait))
	_ = socket.WritePong(payload)
}

func (h *eventHandler) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(h.c.cfg.PingInterval + h.c.cfg.PongWait))
}

func (h *eventHandler) OnMessage(socket *gws.Conn, message *gws.Message) {
	defer message.Close()

	data := message.Bytes()
	if len(data) == 0 {
		return
	}

	if h.c.cfg.Decode != nil {
		decoded, err := h.c.cfg.Decode(data)
		if err != nil {
			h.c.logger.Warn().Err(err).Msg("drop undecodable frame")
			return
		}
		data = decoded
	}

	h.c.dispatch(data)
}

// dispatch fans one frame out to every subscriber. Topic filtering happens in
// the per-exchange stream layer, which knows the venue's envelope. The send
// runs under the read lock so a concurrent Unsubscribe or Close, which closes
// channels under the write lock, can never catch a send in flight.
func (c *Client) dispatch(data []byte) {
	owned := make([]byte, len(data))
	copy(owned, data)

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, sub := range c.subs {
		select {
		case sub.dataCh <- owned:
		default:
			c.logger.Warn().Str("topic", sub.topic).Msg("subscriber buffer full, dropping frame")
		}
	}
}

// Connect dials the endpoint and waits for the connection to come up.
func (c *Client) Connect(ctx context.Context) error {
	if !c.state.CompareAndSwap(StateDisconnected, StateConnecting) {
		if c.state.Load() == StateConnected {
			return nil
		}
		return fmt.Errorf("invalid state for connect: %s", c.state.Load())
	}

	socket, _, err := gws.NewClient(c.handler, &gws.ClientOption{Addr: c.cfg.URL})
	if err != nil {
		c.state.Store(StateDisconnected)
		return fmt.Errorf("dial stream: %w", err)
	}

	c.mu.Lock()
	c.conn = socket
	connected := c.connected
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		socket.ReadLoop()
	}()

	select {
	case <-connected:
		return nil
	case <-ctx.Done():
		_ = socket.NetConn().Close()
		c.state.Store(StateDisconnected)
		return ctx.Err()
	case <-c.stop:
		_ = socket.NetConn().Close()
		c.state.Store(StateClosed)
		return fmt.Errorf("client stopped")
	}
}

// Close shuts the client down and closes every subscription channel.
func (c *Client) Close() error {
	prev := c.state.Load()
	c.state.Store(StateClosed)
	if prev == StateClosed {
		return nil
	}

	close(c.stop)

	c.mu.Lock()
	if c.conn != nil {
		_ = c.conn.NetConn().Close()
	}
	for _, sub := range c.subs {
		close(sub.dataCh)
	}
	c.subs = make(map[string]*subscription)
	c.mu.Unlock()

	c.wg.Wait()
	return nil
}

// IsConnected reports whether the stream is currently up.
func (c *Client) IsConnected() bool {
	return c.state.Load() == StateConnected
}

// Subscribe registers interest in a topic and returns the frame channel.
// The topic string is only a registry key; routing by venue envelope happens
// in the caller.
func (c *Client) Subscribe(topic string) <-chan []byte {
	sub := &subscription{
		topic:  topic,
		dataCh: make(chan []byte, c.cfg.BufferSize),
	}

	c.mu.Lock()
	c.subs[topic] = sub
	c.mu.Unlock()

	c.logger.Debug().Str("topic", topic).Msg("subscribed")
	return sub.dataCh
}

// Unsubscribe drops a topic and closes its channel.
func (c *Client) Unsubscribe(topic string) {
	c.mu.Lock()
	if sub, ok := c.subs[topic]; ok {
		close(sub.dataCh)
		delete(c.subs, topic)
	}
	c.mu.Unlock()
}

// SendJSON marshals v with sonic and writes it as a text frame.
func (c *Client) SendJSON(v any) error {
	data, err := sonic.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	return c.Send(data)
}

// Send writes a raw text frame.
func (c *Client) Send(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.conn == nil || c.state.Load() != StateConnected {
		return fmt.Errorf("stream not connected")
	}
	return c.conn.WriteMessage(gws.OpcodeText, data)
}

func (c *Client) reconnect() {
	if !c.state.CompareAndSwap(StateDisconnected, StateReconnecting) {
		return
	}

	for {
		select {
		case <-c.stop:
			return
		default:
		}

		c.mu.Lock()
		attempt := c.attempts
		c.attempts++
		c.mu.Unlock()

		wait := min(c.cfg.ReconnectBaseWait*time.Duration(1<<uint(attempt)), c.cfg.ReconnectMaxWait)
		c.logger.Info().Dur("wait", wait).Int("attempt", attempt+1).Msg("reconnecting stream")

		select {
		case <-time.After(wait):
		case <-c.stop:
			return
		}

		c.state.Store(StateDisconnected)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.Connect(ctx)
		cancel()
		if err != nil {
			c.logger.Error().Err(err).Int("attempt", attempt+1).Msg("reconnect failed")
			continue
		}
		return
	}
}
