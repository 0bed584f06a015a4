package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/povarna/generative-ai-agents/loop-agent/internal/models"
)

const (
	DefaultMaxSize = 1000
	DefaultTTL     = 5 * time.Minute
)

type memoryEntry struct {
	key        string
	result     models.ValidationResult
	insertedAt time.Time
}

// MemoryCache is an in-process LRU cache with fixed-from-insert TTL
// expiry. Entries expire lazily on access and are evicted
// least-recently-used first once maxSize is reached.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	order   *list.List // front = most recently used
	maxSize int
	ttl     time.Duration

	hits      int64
	misses    int64
	evictions int64

	now func() time.Time
}

func NewMemoryCache(maxSize int, ttl time.Duration) *MemoryCache {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &MemoryCache{
		entries: make(map[string]*list.Element),
		order:   list.New(),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// NewDefaultCache is a convenience constructor; callers that need
// isolation build their own instances instead of sharing process
// state.
func NewDefaultCache() *MemoryCache {
	return NewMemoryCache(DefaultMaxSize, DefaultTTL)
}

func (c *MemoryCache) Get(ctx context.Context, validatorID, input string, vctx map[string]any) (models.ValidationResult, bool) {
	key := Key(validatorID, input, vctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		c.misses++
		return models.ValidationResult{}, false
	}

	entry := elem.Value.(*memoryEntry)
	if c.now().Sub(entry.insertedAt) > c.ttl {
		c.order.Remove(elem)
		delete(c.entries, key)
		c.misses++
		return models.ValidationResult{}, false
	}

	// A hit refreshes recency but not the TTL.
	c.order.MoveToFront(elem)
	c.hits++
	return entry.result, true
}

func (c *MemoryCache) Put(ctx context.Context, validatorID, input string, vctx map[string]any, result models.ValidationResult) {
	key := Key(validatorID, input, vctx)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.result = result
		entry.insertedAt = c.now()
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.maxSize {
		c.evictOldest()
	}

	elem := c.order.PushFront(&memoryEntry{
		key:        key,
		result:     result,
		insertedAt: c.now(),
	})
	c.entries[key] = elem
}

func (c *MemoryCache) evictOldest() {
	oldest := c.order.Back()
	if oldest == nil {
		return
	}

	entry := oldest.Value.(*memoryEntry)
	c.order.Remove(oldest)
	delete(c.entries, entry.key)
	c.evictions++
}

func (c *MemoryCache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Stats{
		Size:      c.order.Len(),
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
}

func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hits, c.misses, c.evictions = 0, 0, 0
}
