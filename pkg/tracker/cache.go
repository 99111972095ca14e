package tracker

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// Static errors for err113 compliance.
var (
	ErrCacheKeyNotFound     = errors.New("key not found")
	ErrCacheEntryExpired    = errors.New("entry expired")
	ErrCacheDisabled        = errors.New("cache disabled")
	ErrNATSConfigRequired   = errors.New("NATS configuration required for NATS cache")
	ErrUnsupportedCacheType = errors.New("unsupported cache type")
)

// CacheEntry is one cached response body.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry is past its lifetime.
func (e *CacheEntry) Expired() bool {
	return !e.ExpiresAt.IsZero() && time.Now().After(e.ExpiresAt)
}

// Cache stores response entries. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// MemoryCache is an in-process cache bounded by entry count. When full,
// the entry closest to expiry is evicted.
type MemoryCache struct {
	mutex   sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for key, or an error when absent or expired.
func (c *MemoryCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	c.mutex.RLock()
	entry, ok := c.entries[key]
	c.mutex.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
	}

	if entry.Expired() {
		c.mutex.Lock()
		delete(c.entries, key)
		c.mutex.Unlock()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return entry, nil
}

// Set stores the entry, evicting the entry closest to expiry when full.
func (c *MemoryCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	c.entries[key] = entry

	return nil
}

// Delete removes the entry for key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)

	return nil
}

// Clear removes every entry.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)

	return nil
}

// Has reports whether a live entry exists for key.
func (c *MemoryCache) Has(_ context.Context, key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[key]

	return ok && !entry.Expired()
}

// Cleanup removes expired entries.
func (c *MemoryCache) Cleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	for key, entry := range c.entries {
		if entry.Expired() {
			delete(c.entries, key)
		}
	}
}

// evictOldest removes the entry with the nearest expiry. Caller holds
// the lock.
func (c *MemoryCache) evictOldest() {
	var (
		oldestKey  string
		oldestTime time.Time
	)

	for key, entry := range c.entries {
		if oldestKey == "" || entry.ExpiresAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.ExpiresAt
		}
	}

	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// NoOpCache caches nothing.
type NoOpCache struct{}

// NewNoOpCache creates a cache that never stores anything.
func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

// Get always misses.
func (c *NoOpCache) Get(_ context.Context, _ string) (*CacheEntry, error) {
	return nil, ErrCacheDisabled
}

// Set does nothing.
func (c *NoOpCache) Set(_ context.Context, _ string, _ *CacheEntry) error {
	return nil
}

// Delete does nothing.
func (c *NoOpCache) Delete(_ context.Context, _ string) error {
	return nil
}

// Clear does nothing.
func (c *NoOpCache) Clear(_ context.Context) error {
	return nil
}

// Has always returns false.
func (c *NoOpCache) Has(_ context.Context, _ string) bool {
	return false
}

// NATSKVConfig configures the NATS JetStream key-value cache backend.
type NATSKVConfig struct {
	URL    string
	Bucket string
	// TTL is applied bucket-wide when the bucket has to be created.
	TTL         time.Duration
	Credentials string
}

// NATSKVCache stores entries in a NATS JetStream key-value bucket, so
// multiple processes can share one cache.
type NATSKVCache struct {
	conn *nats.Conn
	kv   nats.KeyValue
}

// NewNATSKVCache connects to NATS and binds the configured bucket,
// creating it when absent.
func NewNATSKVCache(config *NATSKVConfig) (*NATSKVCache, error) {
	if config == nil {
		return nil, ErrNATSConfigRequired
	}

	var opts []nats.Option
	if config.Credentials != "" {
		opts = append(opts, nats.UserCredentials(config.Credentials))
	}

	conn, err := nats.Connect(config.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("getting JetStream context: %w", err)
	}

	kv, err := js.KeyValue(config.Bucket)
	if errors.Is(err, nats.ErrBucketNotFound) {
		kv, err = js.CreateKeyValue(&nats.KeyValueConfig{
			Bucket: config.Bucket,
			TTL:    config.TTL,
		})
	}

	if err != nil {
		conn.Close()

		return nil, fmt.Errorf("binding KV bucket %q: %w", config.Bucket, err)
	}

	return &NATSKVCache{conn: conn, kv: kv}, nil
}

// Get returns the entry for key, or an error when absent or expired.
func (c *NATSKVCache) Get(_ context.Context, key string) (*CacheEntry, error) {
	kvEntry, err := c.kv.Get(hashKey(key))
	if err != nil {
		if errors.Is(err, nats.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
		}

		return nil, fmt.Errorf("getting KV entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(kvEntry.Value(), &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding KV entry: %w", err)
	}

	if entry.Expired() {
		_ = c.kv.Delete(hashKey(key))

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores the entry.
func (c *NATSKVCache) Set(_ context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding KV entry: %w", err)
	}

	_, err = c.kv.Put(hashKey(key), data)
	if err != nil {
		return fmt.Errorf("putting KV entry: %w", err)
	}

	return nil
}

// Delete removes the entry for key.
func (c *NATSKVCache) Delete(_ context.Context, key string) error {
	err := c.kv.Delete(hashKey(key))
	if err != nil && !errors.Is(err, nats.ErrKeyNotFound) {
		return fmt.Errorf("deleting KV entry: %w", err)
	}

	return nil
}

// Clear removes every entry in the bucket.
func (c *NATSKVCache) Clear(_ context.Context) error {
	keys, err := c.kv.Keys()
	if err != nil {
		if errors.Is(err, nats.ErrNoKeysFound) {
			return nil
		}

		return fmt.Errorf("listing KV keys: %w", err)
	}

	for _, key := range keys {
		err = c.kv.Delete(key)
		if err != nil {
			return fmt.Errorf("deleting KV entry: %w", err)
		}
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *NATSKVCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

// Close releases the NATS connection.
func (c *NATSKVCache) Close() {
	c.conn.Close()
}

// hashKey maps arbitrary cache keys onto the subset of characters NATS
// allows in KV keys.
func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))

	return hex.EncodeToString(sum[:])
}

// CacheType selects the cache backend.
type CacheType string

const (
	// CacheTypeMemory is the in-process backend.
	CacheTypeMemory CacheType = "memory"
	// CacheTypeNATS is the shared NATS KV backend.
	CacheTypeNATS CacheType = "nats"
	// CacheTypeNone disables caching.
	CacheTypeNone CacheType = "none"
)

// DefaultCacheSize bounds the memory backend when unconfigured.
const DefaultCacheSize = 1000

// CacheConfig selects and configures a cache backend.
type CacheConfig struct {
	Type    CacheType
	MaxSize int
	TTL     time.Duration
	NATS    *NATSKVConfig
}

// DefaultCacheConfig returns a memory cache configuration.
func DefaultCacheConfig() *CacheConfig {
	return &CacheConfig{
		Type:    CacheTypeMemory,
		MaxSize: DefaultCacheSize,
		TTL:     time.Minute,
	}
}

// NewCacheFromConfig creates a cache backend from configuration.
func NewCacheFromConfig(config *CacheConfig) (Cache, error) {
	if config == nil {
		config = DefaultCacheConfig()
	}

	switch config.Type {
	case CacheTypeMemory:
		size := config.MaxSize
		if size == 0 {
			size = DefaultCacheSize
		}

		return NewMemoryCache(size), nil

	case CacheTypeNATS:
		if config.NATS == nil {
			return nil, ErrNATSConfigRequired
		}

		return NewNATSKVCache(config.NATS)

	case CacheTypeNone:
		return NewNoOpCache(), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCacheType, config.Type)
	}
}

// ResponseCache adapts a Cache to the byte-oriented shape the transport
// consults for GET responses.
type ResponseCache struct {
	cache Cache
}

// NewResponseCache wraps a cache backend for use by the transport.
func NewResponseCache(cache Cache) *ResponseCache {
	return &ResponseCache{cache: cache}
}

// Get returns the cached body for key, if any.
func (r *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, err := r.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}

	return entry.Data, true
}

// Set stores a body under key with the given lifetime.
func (r *ResponseCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	entry := &CacheEntry{Data: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}

	_ = r.cache.Set(ctx, key, entry)
}
