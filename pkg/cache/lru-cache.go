package cache

import (
	"container/list"
	"sync"
	"time"

	"go.uber.org/zap"
)

const cleanupInterval = 3 * time.Second

// LRUCache evicts the least recently used entry once maxSize is reached.
// Expired entries are dropped lazily on access and by a janitor goroutine.
type LRUCache struct {
	cacheData  map[string]*list.Element
	list       *list.List
	maxSize    int
	defaultTtl time.Duration
	mu         sync.Mutex
	stopChan   chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

type lruItem struct {
	key  string
	data CacheData
}

func NewLRUCache(maxSize int, defaultTtl time.Duration) *LRUCache {
	cache := &LRUCache{
		cacheData:  make(map[string]*list.Element),
		list:       list.New(),
		maxSize:    maxSize,
		defaultTtl: defaultTtl,
		stopChan:   make(chan struct{}),
		now:        time.Now,
	}

	go cache.cleanupExpiredKeys()

	return cache
}

func (c *LRUCache) cleanupExpiredKeys() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.removeExpired(); n > 0 {
				zap.L().Debug("Cleaned up expired LRU cache entries", zap.Int("count", n))
			}
		case <-c.stopChan:
			return
		}
	}
}

func (c *LRUCache) removeExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	expired := 0
	for e := c.list.Front(); e != nil; {
		next := e.Next()
		item := e.Value.(*lruItem)
		if now.After(item.data.Timeout) {
			c.list.Remove(e)
			delete(c.cacheData, item.key)
			expired++
		}
		e = next
	}
	return expired
}

// Stop may be called more than once.
func (c *LRUCache) Stop() {
	c.stopOnce.Do(func() { close(c.stopChan) })
}

func (c *LRUCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTtl)
}

func (c *LRUCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	timeout := c.now().Add(ttl)

	if element, exists := c.cacheData[key]; exists {
		item := element.Value.(*lruItem)
		item.data = CacheData{Value: value, Timeout: timeout}
		c.list.MoveToBack(element)
		return
	}

	if c.list.Len() >= c.maxSize {
		if oldest := c.list.Front(); oldest != nil {
			oldestItem := oldest.Value.(*lruItem)
			c.list.Remove(oldest)
			delete(c.cacheData, oldestItem.key)
		}
	}

	item := &lruItem{key: key, data: CacheData{Value: value, Timeout: timeout}}
	c.cacheData[key] = c.list.PushBack(item)
}

func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	element, exists := c.cacheData[key]
	if !exists {
		return nil, false
	}

	item := element.Value.(*lruItem)
	if c.now().After(item.data.Timeout) {
		c.list.Remove(element)
		delete(c.cacheData, key)
		return nil, false
	}

	c.list.MoveToBack(element)
	return item.data.Value, true
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.cacheData[key]; exists {
		c.list.Remove(element)
		delete(c.cacheData, key)
	}
}

// Size counts entries including expired ones the janitor has not reached yet.
func (c *LRUCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.list.Len()
}

func (c *LRUCache) MaxSize() int {
	return c.maxSize
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.list.Init()
	c.cacheData = make(map[string]*list.Element)
}
