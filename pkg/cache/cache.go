// Package cache provides a bounded in-memory cache with per-entry TTL and a
// background janitor, plus the redis client constructor.
package cache

import (
	"time"

	"github.com/duccv/go-product-catalog/config"
)

// Cache is safe for concurrent use.
type Cache interface {
	// Get returns the value and whether it is present and unexpired.
	Get(key string) (any, bool)
	// Set stores value with the default TTL.
	Set(key string, value any)
	// SetWithTTL stores value until ttl elapses.
	SetWithTTL(key string, value any, ttl time.Duration)
	Delete(key string)
	Size() int
	MaxSize() int
	Clear()
	// Stop terminates the janitor goroutine.
	Stop()
}

// CacheData is a stored value and its expiry.
type CacheData struct {
	Value   any
	Timeout time.Time
}

// NewCache builds the cache described by cfg. LRU is the only eviction policy.
func NewCache(cfg config.CacheConfig) Cache {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1000
	}
	return NewLRUCache(capacity, time.Duration(cfg.DefaultTTL)*time.Second)
}
