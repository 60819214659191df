package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
)

// CachedStore serves leaderboard reads from a local cache with a TTL.
// RecordGame clears the cache so a finished game shows up on the next read.
type CachedStore struct {
	HistoryStore
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewCachedStore wraps next. capacity bounds the number of cached pages.
func NewCachedStore(next HistoryStore, ttl time.Duration, capacity int64) (*CachedStore, error) {
	if capacity <= 0 {
		capacity = 64
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: capacity * 10,
		MaxCost:     capacity,
		BufferItems: 64,

		// Cost counts pages, not bytes.
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating leaderboard cache: %w", err)
	}
	return &CachedStore{HistoryStore: next, cache: cache, ttl: ttl}, nil
}

// ListLeaderboard returns a cached page when one is fresh.
func (c *CachedStore) ListLeaderboard(ctx context.Context, limit, offset int) ([]LeaderboardEntry, error) {
	limit, offset = clampPage(limit, offset)
	key := fmt.Sprintf("leaderboard:%d:%d", limit, offset)
	if v, ok := c.cache.Get(key); ok {
		if entries, ok := v.([]LeaderboardEntry); ok {
			return cloneEntries(entries), nil
		}
	}
	entries, err := c.HistoryStore.ListLeaderboard(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	c.cache.SetWithTTL(key, cloneEntries(entries), 1, c.ttl)
	c.cache.Wait()
	return entries, nil
}

// RecordGame writes through and drops every cached page.
func (c *CachedStore) RecordGame(ctx context.Context, res GameResult) error {
	if err := c.HistoryStore.RecordGame(ctx, res); err != nil {
		return err
	}
	c.cache.Clear()
	return nil
}

// Close closes the cache and the wrapped store.
func (c *CachedStore) Close() {
	c.cache.Close()
	c.HistoryStore.Close()
}

// cloneEntries copies a page so callers can flag the current user without
// touching the cached copy.
func cloneEntries(entries []LeaderboardEntry) []LeaderboardEntry {
	return append([]LeaderboardEntry{}, entries...)
}
