package bingx

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGunzip(t *testing.T) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(`{"dataType":"BTC-USDT@trade"}`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	out, err := gunzip(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, `{"dataType":"BTC-USDT@trade"}`, string(out))

	// Uncompressed control frames pass through unchanged.
	plain, err := gunzip([]byte("Ping"))
	require.NoError(t, err)
	assert.Equal(t, "Ping", string(plain))
}

func TestMarketStream_DispatchFansOut(t *testing.T) {
	s := &marketStream{
		handlers: make(map[string][]func(json.RawMessage)),
		done:     make(chan struct{}),
	}

	first := make(chan json.RawMessage, 1)
	second := make(chan json.RawMessage, 1)
	other := make(chan json.RawMessage, 1)
	s.handlers["BTC-USDT@trade"] = []func(json.RawMessage){
		func(data json.RawMessage) { first <- data },
		func(data json.RawMessage) { second <- data },
	}
	s.handlers["BTC-USDT@depth"] = []func(json.RawMessage){
		func(data json.RawMessage) { other <- data },
	}

	frames := make(chan []byte, 2)
	frames <- []byte(`{"dataType":"BTC-USDT@trade","data":{"p":"50000"}}`)
	frames <- []byte(`not json, skipped`)
	close(frames)

	finished := make(chan struct{})
	go func() {
		s.dispatch(frames)
		close(finished)
	}()

	select {
	case data := <-first:
		assert.JSONEq(t, `{"p":"50000"}`, string(data))
	case <-time.After(time.Second):
		t.Fatal("first handler never ran")
	}
	select {
	case data := <-second:
		assert.JSONEq(t, `{"p":"50000"}`, string(data))
	case <-time.After(time.Second):
		t.Fatal("second handler never ran")
	}

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("dispatch did not stop on channel close")
	}
	assert.Empty(t, other)
}
