package ws

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return NewClient(Config{URL: "wss://example.test/stream", BufferSize: 4}, zerolog.Nop())
}

func TestClient_DispatchFanOut(t *testing.T) {
	c := testClient()
	a := c.Subscribe("a")
	b := c.Subscribe("b")

	c.dispatch([]byte(`{"seq":1}`))

	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, `{"seq":1}`, string(<-a))
	assert.Equal(t, `{"seq":1}`, string(<-b))
}

func TestClient_DispatchOwnsFrame(t *testing.T) {
	c := testClient()
	ch := c.Subscribe("a")

	frame := []byte("original")
	c.dispatch(frame)
	frame[0] = 'X'

	assert.Equal(t, "original", string(<-ch))
}

func TestClient_DispatchDropsWhenBufferFull(t *testing.T) {
	c := NewClient(Config{URL: "wss://example.test/stream", BufferSize: 1}, zerolog.Nop())
	ch := c.Subscribe("a")

	c.dispatch([]byte("one"))
	c.dispatch([]byte("two"))

	require.Len(t, ch, 1)
	assert.Equal(t, "one", string(<-ch))
}

func TestClient_UnsubscribeClosesChannel(t *testing.T) {
	c := testClient()
	ch := c.Subscribe("a")

	c.Unsubscribe("a")

	_, open := <-ch
	assert.False(t, open)

	// Dropping an unknown topic is a no-op.
	c.Unsubscribe("missing")
}

func TestClient_DispatchDuringUnsubscribe(t *testing.T) {
	c := testClient()
	for _, topic := range []string{"a", "b", "c", "d"} {
		ch := c.Subscribe(topic)
		go func() {
			for range ch {
			}
		}()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			c.dispatch([]byte("frame"))
		}
	}()
	go func() {
		defer wg.Done()
		for _, topic := range []string{"a", "b", "c", "d"} {
			c.Unsubscribe(topic)
		}
	}()
	wg.Wait()

	c.dispatch([]byte("after"))
}
