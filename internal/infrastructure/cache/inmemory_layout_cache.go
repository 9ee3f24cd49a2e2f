package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/workbench/internal/domain/gridlayout"
	"github.com/google/uuid"
)

type layoutEntry struct {
	state     gridlayout.LayoutState
	expiresAt time.Time // zero means no expiry
}

// InMemoryLayoutCache is a process-local layout cache for single-instance
// deployments and tests.
type InMemoryLayoutCache struct {
	mu        sync.RWMutex
	entries   map[string]layoutEntry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryLayoutCache starts a cache whose entries live for ttl (0 = forever)
func NewInMemoryLayoutCache(ttl time.Duration) *InMemoryLayoutCache {
	c := &InMemoryLayoutCache{
		entries:  make(map[string]layoutEntry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}
	if ttl > 0 {
		c.wg.Add(1)
		go c.cleanupLoop(ttl)
	}
	return c
}

// Get returns a copy of the cached state
func (c *InMemoryLayoutCache) Get(_ context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) (*gridlayout.LayoutState, bool) {
	c.mu.RLock()
	e, ok := c.entries[layoutKey("", tenantID, userID, key)]
	c.mu.RUnlock()
	if !ok || e.expired(time.Now()) {
		return nil, false
	}
	state := cloneState(e.state)
	return &state, true
}

// Set stores a copy of state
func (c *InMemoryLayoutCache) Set(_ context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey, state gridlayout.LayoutState) error {
	e := layoutEntry{state: cloneState(state)}
	if c.ttl > 0 {
		e.expiresAt = time.Now().Add(c.ttl)
	}
	c.mu.Lock()
	c.entries[layoutKey("", tenantID, userID, key)] = e
	c.mu.Unlock()
	return nil
}

// Invalidate removes the entry
func (c *InMemoryLayoutCache) Invalidate(_ context.Context, tenantID, userID uuid.UUID, key gridlayout.GridKey) error {
	c.mu.Lock()
	delete(c.entries, layoutKey("", tenantID, userID, key))
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (c *InMemoryLayoutCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine
func (c *InMemoryLayoutCache) Close() error {
	c.closeOnce.Do(func() {
		close(c.stopChan)
		c.wg.Wait()
	})
	return nil
}

func (c *InMemoryLayoutCache) cleanupLoop(interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopChan:
			return
		case now := <-ticker.C:
			c.evictExpired(now)
		}
	}
}

func (c *InMemoryLayoutCache) evictExpired(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, k)
		}
	}
}

func (e layoutEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

var _ gridlayout.LayoutCache = (*InMemoryLayoutCache)(nil)
