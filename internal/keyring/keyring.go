package keyring

import (
	"fmt"
	"sync"
	"time"
)

// RotationStrategy selects when the ring advances to the next key.
type RotationStrategy int

// Rotation strategies.
const (
	// RotateRoundRobin advances on every use.
	RotateRoundRobin RotationStrategy = iota
	// RotateOnError advances when a request using the key fails.
	RotateOnError
	// RotateManual only advances on explicit Rotate calls.
	RotateManual
)

// APIKey is one credential set in the ring.
type APIKey struct {
	ID         string
	Key        string
	Secret     string
	Passphrase string
	Disabled   bool
	LastUsed   time.Time
	ErrorCount int
}

// Ring rotates across several API keys for one venue, so a single
// rate-limited or disabled key does not take the adapter down.
type Ring struct {
	mu       sync.Mutex
	keys     []*APIKey
	current  int
	strategy RotationStrategy
	// maxErrors disables a key after this many consecutive failures; zero
	// means never auto-disable.
	maxErrors int
}

// New builds a ring from a copy of the given keys.
func New(keys []*APIKey, strategy RotationStrategy) *Ring {
	copied := make([]*APIKey, len(keys))
	for i, k := range keys {
		dup := *k
		copied[i] = &dup
	}
	return &Ring{keys: copied, strategy: strategy}
}

// SetMaxErrors enables auto-disable after n consecutive failures per key.
func (r *Ring) SetMaxErrors(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maxErrors = n
}

// Current returns the active key, or nil when every key is disabled.
func (r *Ring) Current() *APIKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.currentLocked()
}

func (r *Ring) currentLocked() *APIKey {
	if len(r.keys) == 0 {
		return nil
	}
	for i := range r.keys {
		idx := (r.current + i) % len(r.keys)
		if !r.keys[idx].Disabled {
			r.current = idx
			return r.keys[idx]
		}
	}
	return nil
}

// MarkUsed stamps the active key and advances in round-robin mode.
func (r *Ring) MarkUsed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.currentLocked()
	if key == nil {
		return
	}
	key.LastUsed = time.Now()
	key.ErrorCount = 0
	if r.strategy == RotateRoundRobin {
		r.advanceLocked()
	}
}

// MarkFailed records a failure against the active key and rotates when the
// strategy asks for it.
func (r *Ring) MarkFailed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := r.currentLocked()
	if key == nil {
		return
	}
	key.ErrorCount++
	if r.maxErrors > 0 && key.ErrorCount >= r.maxErrors {
		key.Disabled = true
	}
	if r.strategy == RotateOnError {
		r.advanceLocked()
	}
}

// Rotate advances to the next enabled key.
func (r *Ring) Rotate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.advanceLocked()
}

func (r *Ring) advanceLocked() {
	if len(r.keys) == 0 {
		return
	}
	start := r.current
	for {
		r.current = (r.current + 1) % len(r.keys)
		if !r.keys[r.current].Disabled || r.current == start {
			return
		}
	}
}

// Enable re-enables a key by id and clears its error count.
func (r *Ring) Enable(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.ID == id {
			k.Disabled = false
			k.ErrorCount = 0
			return
		}
	}
}

// Disable takes a key out of rotation by id.
func (r *Ring) Disable(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.keys {
		if k.ID == id {
			k.Disabled = true
			return
		}
	}
}

// Len returns the number of keys, enabled or not.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// String masks the key material for logs.
func (k *APIKey) String() string {
	return fmt.Sprintf("APIKey{ID:%s, Key:%s}", k.ID, mask(k.Key))
}

func mask(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}
