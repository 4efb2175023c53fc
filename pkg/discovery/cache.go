package discovery

import (
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/Solana-ZH/poolscout/pkg"
)

// DefaultCacheTTL bounds how long a discovered pool set stays fresh.
const DefaultCacheTTL = 30 * time.Second

type cacheEntry struct {
	pools     []pkg.PoolInfo
	expiresAt time.Time
}

type pairKey struct {
	a solana.PublicKey
	b solana.PublicKey
}

// Cache memoizes discovery results per token pair. Every write stores both
// key orderings under one lock acquisition, so a lookup with swapped operands
// hits the same entry. Expired entries are evicted on read.
type Cache struct {
	mu  sync.RWMutex
	ttl time.Duration
	m   map[pairKey]cacheEntry

	now func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		ttl: ttl,
		m:   make(map[pairKey]cacheEntry),
		now: time.Now,
	}
}

// Get returns the cached pools for the pair in either operand order.
func (c *Cache) Get(tokenA, tokenB solana.PublicKey) ([]pkg.PoolInfo, bool) {
	key := pairKey{tokenA, tokenB}

	c.mu.RLock()
	entry, ok := c.m[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have refreshed
		// the pair.
		if cur, ok := c.m[key]; ok && c.now().After(cur.expiresAt) {
			delete(c.m, key)
			delete(c.m, pairKey{tokenB, tokenA})
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.pools, true
}

// Set stores pools under both (a, b) and (b, a) atomically.
func (c *Cache) Set(tokenA, tokenB solana.PublicKey, pools []pkg.PoolInfo) {
	entry := cacheEntry{pools: pools, expiresAt: c.now().Add(c.ttl)}

	c.mu.Lock()
	c.m[pairKey{tokenA, tokenB}] = entry
	c.m[pairKey{tokenB, tokenA}] = entry
	c.mu.Unlock()
}

// Invalidate drops both orderings of the pair.
func (c *Cache) Invalidate(tokenA, tokenB solana.PublicKey) {
	c.mu.Lock()
	delete(c.m, pairKey{tokenA, tokenB})
	delete(c.m, pairKey{tokenB, tokenA})
	c.mu.Unlock()
}

// Len reports the number of stored entries, both orderings counted.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
