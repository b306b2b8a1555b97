package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tukar/pkg/core"
)

func cacheMarkets() []*core.Market {
	return []*core.Market{
		{ID: "BTC-USDT", Symbol: "BTC/USDT", Type: core.MarketTypeSpot},
		{ID: "ETH-USDT", Symbol: "ETH/USDT", Type: core.MarketTypeSpot},
	}
}

func TestMarketCache_Replace(t *testing.T) {
	c := NewMarketCache()
	assert.False(t, c.Loaded())

	c.Replace(cacheMarkets())
	assert.True(t, c.Loaded())
	assert.Equal(t, 2, c.Len())

	m, ok := c.BySymbol("BTC/USDT")
	require.True(t, ok)
	assert.Equal(t, "BTC-USDT", m.ID)

	m, ok = c.ByID("ETH-USDT", core.MarketTypeSpot)
	require.True(t, ok)
	assert.Equal(t, "ETH/USDT", m.Symbol)

	// Replace swaps the whole table; old entries vanish.
	c.Replace([]*core.Market{{ID: "XRP-USDT", Symbol: "XRP/USDT"}})
	_, ok = c.BySymbol("BTC/USDT")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMarketCache_Merge(t *testing.T) {
	c := NewMarketCache()
	c.Replace(cacheMarkets())

	c.Merge([]*core.Market{{ID: "BTC-USDT-SWAP", Symbol: "BTC/USDT:USDT", Type: core.MarketTypeSwap}})

	assert.Equal(t, 3, c.Len())
	_, ok := c.BySymbol("BTC/USDT")
	assert.True(t, ok)
	_, ok = c.BySymbol("BTC/USDT:USDT")
	assert.True(t, ok)
}

func TestMarketCache_ByID_SharedVenueID(t *testing.T) {
	// CoinEx reuses one instrument id for the spot and futures listing; both
	// must stay addressable.
	c := NewMarketCache()
	c.Replace([]*core.Market{
		{ID: "BTCUSDT", Symbol: "BTC/USDT", Type: core.MarketTypeSpot},
		{ID: "BTCUSDT", Symbol: "BTC/USDT:USDT", Type: core.MarketTypeSwap},
	})

	spot, ok := c.ByID("BTCUSDT", core.MarketTypeSpot)
	require.True(t, ok)
	assert.Equal(t, "BTC/USDT", spot.Symbol)

	swap, ok := c.ByID("BTCUSDT", core.MarketTypeSwap)
	require.True(t, ok)
	assert.Equal(t, "BTC/USDT:USDT", swap.Symbol)

	_, ok = c.ByID("BTCUSDT", core.MarketTypeMargin)
	assert.False(t, ok)
}

func TestMarketCache_All(t *testing.T) {
	c := NewMarketCache()
	c.Replace(cacheMarkets())

	all := c.All()
	assert.Len(t, all, 2)

	// The snapshot is detached from the cache.
	delete(all, "BTC/USDT")
	assert.Equal(t, 2, c.Len())
}

func TestMarketCache_Clear(t *testing.T) {
	c := NewMarketCache()
	c.Replace(cacheMarkets())

	c.Clear()
	assert.False(t, c.Loaded())
	_, ok := c.BySymbol("BTC/USDT")
	assert.False(t, ok)
}
