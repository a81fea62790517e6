// Package regioncache adds a read-through payload cache in front of a
// region.Searcher for services that repeatedly look up the same hot IPs.
package regioncache

import (
	"context"
	"encoding/hex"
	"errors"

	"github.com/allegro/bigcache/v3"
	"github.com/regionxdb/xdb/ipkey"
	"github.com/regionxdb/xdb/region"
	"k8s.io/klog/v2"
)

// Cache wraps a *region.Searcher with a bigcache-backed payload cache keyed
// by the raw IP key. Misses (empty payload) are cached too, since a miss is
// itself a stable answer for a given key.
type Cache struct {
	searcher *region.Searcher
	cache    *bigcache.BigCache
}

// emptyMarker stands in for a cached empty payload: bigcache treats a
// zero-length value the same as a missing entry, so an empty search result
// needs a distinguishable sentinel to be cacheable.
var emptyMarker = []byte{0}

// New wraps searcher with a cache built from config. Use
// bigcache.DefaultConfig(ttl) for a simple time-boxed cache, or tune
// Shards/MaxEntrySize for the expected key cardinality.
func New(ctx context.Context, searcher *region.Searcher, config bigcache.Config) (*Cache, error) {
	bc, err := bigcache.New(ctx, config)
	if err != nil {
		return nil, err
	}
	return &Cache{searcher: searcher, cache: bc}, nil
}

func cacheKey(key []byte) string {
	return hex.EncodeToString(key)
}

// SearchText parses ip text and serves it from cache if present, otherwise
// queries the underlying Searcher and populates the cache.
func (c *Cache) SearchText(text string) ([]byte, error) {
	key, err := ipkey.Parse(text)
	if err != nil {
		return nil, err
	}
	return c.SearchBytes(key.Bytes)
}

// SearchBytes is the cached equivalent of Searcher.SearchBytes.
func (c *Cache) SearchBytes(key []byte) ([]byte, error) {
	k := cacheKey(key)
	if cached, err := c.cache.Get(k); err == nil {
		if len(cached) == len(emptyMarker) && cached[0] == emptyMarker[0] {
			return []byte{}, nil
		}
		return cached, nil
	} else if !errors.Is(err, bigcache.ErrEntryNotFound) {
		return nil, err
	}

	payload, err := c.searcher.SearchBytes(key)
	if err != nil {
		return nil, err
	}

	toStore := payload
	if len(payload) == 0 {
		toStore = emptyMarker
	}
	if err := c.cache.Set(k, toStore); err != nil {
		klog.V(2).Infof("regioncache: failed to cache key %s: %v", k, err)
	}
	return payload, nil
}

// Close closes both the cache and the underlying Searcher.
func (c *Cache) Close() error {
	if err := c.cache.Close(); err != nil {
		return err
	}
	return c.searcher.Close()
}
