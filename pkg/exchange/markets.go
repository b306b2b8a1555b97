package exchange

import (
	"sync"

	"tukar/pkg/core"
)

// MarketCache is the read-mostly market table an adapter fills from
// LoadMarkets. Lookups are by unified symbol or by venue id; Replace swaps
// the whole table atomically so readers never see a half-loaded state.
type MarketCache struct {
	mu       sync.RWMutex
	bySymbol map[string]*core.Market
	byID     map[marketKey]*core.Market
}

// marketKey disambiguates venues that reuse one instrument id across market
// types, such as CoinEx listing spot and futures BTCUSDT under the same id.
type marketKey struct {
	id string
	mt core.MarketType
}

// NewMarketCache returns an empty cache.
func NewMarketCache() *MarketCache {
	return &MarketCache{
		bySymbol: make(map[string]*core.Market),
		byID:     make(map[marketKey]*core.Market),
	}
}

// Replace swaps the table for the given markets.
func (c *MarketCache) Replace(markets []*core.Market) {
	bySymbol := make(map[string]*core.Market, len(markets))
	byID := make(map[marketKey]*core.Market, len(markets))
	for _, m := range markets {
		bySymbol[m.Symbol] = m
		byID[marketKey{m.ID, m.Type}] = m
	}

	c.mu.Lock()
	c.bySymbol = bySymbol
	c.byID = byID
	c.mu.Unlock()
}

// Merge adds markets to the table without dropping existing entries. Used
// when spot and swap tables load from separate endpoints.
func (c *MarketCache) Merge(markets []*core.Market) {
	c.mu.Lock()
	for _, m := range markets {
		c.bySymbol[m.Symbol] = m
		c.byID[marketKey{m.ID, m.Type}] = m
	}
	c.mu.Unlock()
}

// BySymbol looks a market up by unified symbol.
func (c *MarketCache) BySymbol(symbol string) (*core.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.bySymbol[symbol]
	return m, ok
}

// ByID looks a market up by the venue's own identifier and market type.
func (c *MarketCache) ByID(id string, mt core.MarketType) (*core.Market, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.byID[marketKey{id, mt}]
	return m, ok
}

// All returns a snapshot of the table keyed by unified symbol.
func (c *MarketCache) All() map[string]*core.Market {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]*core.Market, len(c.bySymbol))
	for sym, m := range c.bySymbol {
		out[sym] = m
	}
	return out
}

// Len reports the number of cached markets.
func (c *MarketCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.bySymbol)
}

// Loaded reports whether the table has been filled at least once.
func (c *MarketCache) Loaded() bool {
	return c.Len() > 0
}

// Clear empties the table.
func (c *MarketCache) Clear() {
	c.mu.Lock()
	c.bySymbol = make(map[string]*core.Market)
	c.byID = make(map[marketKey]*core.Market)
	c.mu.Unlock()
}
