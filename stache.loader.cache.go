package stache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// CachedLoader wraps any PartialLoader with an in-memory cache.
// Successful loads are kept for TTL; "not found" results for NegativeTTL.
// Other errors are never cached.
type CachedLoader struct {
	loader PartialLoader
	config CacheConfig
	logger *zap.Logger

	mu    sync.Mutex
	cache map[string]*cacheEntry
	now   func() time.Time
}

// CacheConfig configures the caching behavior.
type CacheConfig struct {
	// TTL is how long cached sources remain valid.
	// Default: 5 minutes.
	TTL time.Duration

	// MaxEntries is the maximum number of cached names.
	// When exceeded, the least recently accessed entry is evicted.
	// Default: 1000.
	MaxEntries int

	// NegativeTTL is how long to cache "not found" results.
	// Set to 0 to disable negative caching.
	NegativeTTL time.Duration
}

// DefaultCacheConfig returns the default caching configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		TTL:         DefaultCacheTTL,
		MaxEntries:  DefaultCacheMaxEntries,
		NegativeTTL: DefaultNegativeCacheTTL,
	}
}

// cacheEntry represents a cached load result.
type cacheEntry struct {
	source     string
	notFound   bool
	cachedAt   time.Time
	accessedAt time.Time
}

// NewCachedLoader wraps loader with caching. A nil logger disables logging.
func NewCachedLoader(loader PartialLoader, config CacheConfig, logger *zap.Logger) *CachedLoader {
	if config.TTL == 0 {
		config.TTL = DefaultCacheTTL
	}
	if config.MaxEntries == 0 {
		config.MaxEntries = DefaultCacheMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CachedLoader{
		loader: loader,
		config: config,
		logger: logger,
		cache:  make(map[string]*cacheEntry),
		now:    time.Now,
	}
}

// Load returns a cached source or loads it from the wrapped loader.
func (l *CachedLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	l.mu.Lock()
	entry, ok := l.cache[name]
	if ok && l.isValid(entry) {
		entry.accessedAt = l.now()
		l.mu.Unlock()

		l.logger.Debug(LogMsgLoaderCacheHit, zap.String(LogFieldName, name))
		if entry.notFound {
			return "", NewPartialNotFoundError(name)
		}
		return entry.source, nil
	}
	l.mu.Unlock()

	l.logger.Debug(LogMsgLoaderCacheMiss, zap.String(LogFieldName, name))
	source, err := l.loader.Load(ctx, name)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		if IsPartialNotFound(err) && l.config.NegativeTTL > 0 {
			l.addEntry(name, "", true)
		}
		return "", err
	}

	l.addEntry(name, source, false)
	return source, nil
}

// Invalidate drops name from the cache.
func (l *CachedLoader) Invalidate(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, name)
}

// Clear drops every cached entry.
func (l *CachedLoader) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]*cacheEntry)
}

// Len returns the number of cached entries, including expired ones not yet
// replaced.
func (l *CachedLoader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.cache)
}

// isValid reports whether entry is within its TTL.
// Caller must hold the lock.
func (l *CachedLoader) isValid(entry *cacheEntry) bool {
	ttl := l.config.TTL
	if entry.notFound {
		ttl = l.config.NegativeTTL
	}
	return l.now().Sub(entry.cachedAt) < ttl
}

// addEntry stores a result, evicting the least recently accessed entry at
// capacity. Caller must hold the lock.
func (l *CachedLoader) addEntry(name, source string, notFound bool) {
	if _, exists := l.cache[name]; !exists && len(l.cache) >= l.config.MaxEntries {
		l.evictOldest()
	}

	now := l.now()
	l.cache[name] = &cacheEntry{
		source:     source,
		notFound:   notFound,
		cachedAt:   now,
		accessedAt: now,
	}
}

// evictOldest removes the least recently accessed entry.
// Caller must hold the lock.
func (l *CachedLoader) evictOldest() {
	var (
		oldestName string
		oldest     *cacheEntry
	)
	for name, entry := range l.cache {
		if oldest == nil || entry.accessedAt.Before(oldest.accessedAt) {
			oldestName, oldest = name, entry
		}
	}
	if oldest != nil {
		delete(l.cache, oldestName)
	}
}
