package exchange

import (
	"fmt"
	"sort"
	"sync"

	"tukar/pkg/core"
)

// Factory builds an adapter from a validated config.
type Factory func(cfg *core.Config) (Exchange, error)

var (
	factoriesMu sync.RWMutex
	factories   = make(map[string]Factory)
)

// RegisterFactory makes an adapter constructor available under its exchange
// id. Adapter packages call this from init.
func RegisterFactory(id string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	if _, dup := factories[id]; dup {
		panic(fmt.Sprintf("exchange: factory %q registered twice", id))
	}
	factories[id] = f
}

// Build validates the config and constructs the adapter registered under
// cfg.Exchange.
func Build(cfg *core.Config) (Exchange, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	factoriesMu.RLock()
	f, ok := factories[cfg.Exchange]
	factoriesMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("exchange %q not registered (known: %v)", cfg.Exchange, FactoryIDs())
	}
	return f(cfg)
}

// FactoryIDs lists the registered exchange ids, sorted.
func FactoryIDs() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()
	ids := make([]string, 0, len(factories))
	for id := range factories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Container holds live adapter instances keyed by name, for applications
// that trade on several venues at once. Closing the container closes every
// adapter in it.
type Container struct {
	mu        sync.RWMutex
	exchanges map[string]Exchange
}

// NewContainer returns an empty container.
func NewContainer() *Container {
	return &Container{exchanges: make(map[string]Exchange)}
}

// Add registers a live adapter under a name. Re-adding a name is an error;
// Remove it first.
func (c *Container) Add(name string, ex Exchange) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.exchanges[name]; dup {
		return fmt.Errorf("exchange %q already added", name)
	}
	c.exchanges[name] = ex
	return nil
}

// Get retrieves an adapter by name.
func (c *Container) Get(name string) (Exchange, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ex, ok := c.exchanges[name]
	if !ok {
		return nil, fmt.Errorf("exchange %q not found", name)
	}
	return ex, nil
}

// Remove drops an adapter from the container and closes it.
func (c *Container) Remove(name string) error {
	c.mu.Lock()
	ex, ok := c.exchanges[name]
	delete(c.exchanges, name)
	c.mu.Unlock()
	if !ok {
		return nil
	}
	return ex.Close()
}

// Names lists the registered adapter names, sorted.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.exchanges))
	for name := range c.exchanges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close shuts down every adapter and empties the container. The first error
// is returned; remaining adapters are still closed.
func (c *Container) Close() error {
	c.mu.Lock()
	exchanges := c.exchanges
	c.exchanges = make(map[string]Exchange)
	c.mu.Unlock()

	var first error
	for _, ex := range exchanges {
		if err := ex.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
