package asset

import (
	"fmt"
	"sync"
)

// Registry is a thread-safe registry of known native coins keyed by chain id.
type Registry struct {
	byChain map[uint64]*Asset
	mu      sync.RWMutex
}

// NewRegistry creates a new empty asset registry.
func NewRegistry() *Registry {
	return &Registry{
		byChain: make(map[uint64]*Asset),
	}
}

// Register adds an asset to the registry.
// Panics if the chain already has a registered coin.
func (r *Registry) Register(a *Asset) {
	if a == nil {
		panic("asset: cannot register nil asset")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byChain[a.ChainID()]; exists {
		panic(fmt.Sprintf("asset: chain %d already registered", a.ChainID()))
	}
	r.byChain[a.ChainID()] = a
}

// Get retrieves the native coin for a chain.
func (r *Registry) Get(chainID uint64) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byChain[chainID]
	return a, ok
}

// MustGet retrieves the native coin for a chain, panics if not found.
func (r *Registry) MustGet(chainID uint64) *Asset {
	a, ok := r.Get(chainID)
	if !ok {
		panic(fmt.Sprintf("asset: chain %d not found in registry", chainID))
	}
	return a
}

// Count returns the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byChain)
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns a registry pre-populated with well-known coins.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r := NewRegistry()
		r.Register(ETH)
		r.Register(SepoliaETH)
		r.Register(HoleskyETH)
		r.Register(POL)
		r.Register(ArbETH)
		r.Register(OpETH)
		r.Register(BaseETH)
		defaultRegistry = r
	})
	return defaultRegistry
}
