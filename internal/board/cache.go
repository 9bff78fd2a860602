package board

import (
	"fmt"
	"sync"
	"time"
)

// metadataCache holds fetched board metadata keyed by project identity.
// Entries expire purely by age: item-level edits never invalidate them,
// so a hit may be stale relative to concurrent external schema changes.
// Readers never block on an in-flight fetch; a miss simply triggers a
// fresh fetch by the caller.
type metadataCache struct {
	mu      sync.Mutex
	entries map[string]*Board
}

func newMetadataCache() *metadataCache {
	return &metadataCache{entries: make(map[string]*Board)}
}

func cacheKey(owner string, projectNumber int, isOrg bool) string {
	return fmt.Sprintf("%s/%d/org=%t", owner, projectNumber, isOrg)
}

// fresh reports whether a snapshot captured at t is still within the
// freshness window ttl.
func fresh(t time.Time, ttl time.Duration) bool {
	return time.Since(t) < ttl
}

// get returns the cached board for key if it is younger than ttl.
func (mc *metadataCache) get(key string, ttl time.Duration) (*Board, bool) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	b, ok := mc.entries[key]
	if !ok || !fresh(b.FetchedAt, ttl) {
		return nil, false
	}
	return b, true
}

func (mc *metadataCache) put(key string, b *Board) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.entries[key] = b
}

func (mc *metadataCache) drop(key string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	delete(mc.entries, key)
}
