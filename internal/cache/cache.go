// Package cache stores encoded recommendation responses with ETag support.
// The in-memory backend serves a single instance; the Redis backend shares
// entries between API replicas.
package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"sync"
	"time"
)

// DefaultTTL bounds how long a ranked list is served without re-scoring.
const DefaultTTL = 15 * time.Minute

// RecommendationPrefix namespaces every recommendation key.
const RecommendationPrefix = "rec:"

// Cache is implemented by Memory and Redis.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, etag string, ok bool)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) string
	DeletePrefix(ctx context.Context, prefix string) int
	Stats(ctx context.Context) map[string]interface{}
}

// RecommendationKey builds the key for one recommendation request. The
// as-of date and filter are part of the key, so changing either is a miss.
func RecommendationKey(playerID, filterKey, asOf string, maxResults int) string {
	return fmt.Sprintf("%s%s:%s:%s:%d", RecommendationPrefix, playerID, filterKey, asOf, maxResults)
}

// PlayerPrefix matches every cached recommendation for one player.
func PlayerPrefix(playerID string) string {
	return RecommendationPrefix + playerID + ":"
}

// --------------------------------------------------------------------------
// In-memory backend
// --------------------------------------------------------------------------

type entry struct {
	data      []byte
	etag      string
	expiresAt time.Time
}

// Memory is a thread-safe in-memory TTL cache.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
	enabled bool
	now     func() time.Time
}

// NewMemory creates a new cache. Pass enabled=false to create a no-op cache.
// Expired entries are dropped lazily on Get and in bulk by Evict.
func NewMemory(enabled bool) *Memory {
	return &Memory{
		entries: make(map[string]entry),
		enabled: enabled,
		now:     time.Now,
	}
}

// Get retrieves a cached value. Returns data, etag, and whether the entry was found.
func (c *Memory) Get(_ context.Context, key string) (data []byte, etag string, ok bool) {
	if !c.enabled {
		return nil, "", false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, exists := c.entries[key]
	if !exists || c.now().After(e.expiresAt) {
		return nil, "", false
	}
	return e.data, e.etag, true
}

// Set stores a value with a TTL.
func (c *Memory) Set(_ context.Context, key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if !c.enabled {
		return etag
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{
		data:      data,
		etag:      etag,
		expiresAt: c.now().Add(ttl),
	}
	return etag
}

// DeletePrefix drops every key starting with prefix and returns the count.
func (c *Memory) DeletePrefix(_ context.Context, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Stats returns cache statistics.
func (c *Memory) Stats(_ context.Context) map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	active := 0
	now := c.now()
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			active++
		}
	}
	return map[string]interface{}{
		"backend":      "memory",
		"enabled":      c.enabled,
		"total_keys":   len(c.entries),
		"active_keys":  active,
		"expired_keys": len(c.entries) - active,
	}
}

// Evict removes expired entries and returns how many were dropped.
func (c *Memory) Evict() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for key, e := range c.entries {
		if now.After(e.expiresAt) {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// --------------------------------------------------------------------------
// ETag helpers
// --------------------------------------------------------------------------

// ComputeETag generates a weak ETag from response data using MD5.
func ComputeETag(data []byte) string {
	hash := md5.Sum(data)
	return fmt.Sprintf(`W/"%x"`, hash[:8])
}

// CheckETagMatch checks if If-None-Match header matches the current ETag.
func CheckETagMatch(ifNoneMatch, etag string) bool {
	if ifNoneMatch == "" {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		if strings.TrimSpace(candidate) == etag {
			return true
		}
	}
	return false
}
