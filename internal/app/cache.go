package service

import (
	"sync"
	"time"

	"github.com/okian/robopath/internal/domain/model"
	"github.com/okian/robopath/pkg/metrics"
)

type cacheEntry struct {
	events  []model.MatchEvent
	expires time.Time
}

// eventCache holds decoded event lists for a fixed lifetime.
type eventCache struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[model.EventListKey]cacheEntry
}

func newEventCache(ttl time.Duration, now func() time.Time) *eventCache {
	return &eventCache{ttl: ttl, now: now, data: make(map[model.EventListKey]cacheEntry)}
}

func (c *eventCache) enabled() bool { return c.ttl > 0 }

// get returns a cached list; the slice must not be modified.
func (c *eventCache) get(k model.EventListKey) ([]model.MatchEvent, bool) {
	if !c.enabled() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	ent, ok := c.data[k]
	if !ok {
		metrics.RecordCacheMiss()
		return nil, false
	}
	if !c.now().Before(ent.expires) {
		delete(c.data, k)
		metrics.UpdateCacheSize(len(c.data))
		metrics.RecordCacheMiss()
		return nil, false
	}
	metrics.RecordCacheHit()
	return ent.events, true
}

// contains reports a live entry without touching hit and miss counters.
func (c *eventCache) contains(k model.EventListKey) bool {
	if !c.enabled() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	ent, ok := c.data[k]
	return ok && c.now().Before(ent.expires)
}

func (c *eventCache) put(k model.EventListKey, evs []model.MatchEvent) {
	if !c.enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[k] = cacheEntry{events: evs, expires: c.now().Add(c.ttl)}
	metrics.UpdateCacheSize(len(c.data))
}

// sweep drops expired entries and returns how many remain.
func (c *eventCache) sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for k, ent := range c.data {
		if !now.Before(ent.expires) {
			delete(c.data, k)
		}
	}
	metrics.UpdateCacheSize(len(c.data))
	return len(c.data)
}

func (c *eventCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}
