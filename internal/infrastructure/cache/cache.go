package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ReportCache stores serialized commission reports per tenant and period.
// Invalidate drops every cached period of a tenant at once.
type ReportCache interface {
	Get(ctx context.Context, tenantID uuid.UUID, period string) ([]byte, bool, error)
	Set(ctx context.Context, tenantID uuid.UUID, period string, payload []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, tenantID uuid.UUID) error
}

// NoopReportCache never stores anything
type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ uuid.UUID, _ string) ([]byte, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ uuid.UUID, _ string, _ []byte, _ time.Duration) error {
	return nil
}

func (NoopReportCache) Invalidate(_ context.Context, _ uuid.UUID) error {
	return nil
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

// MemoryReportCache is a process-local cache used with the memory storage driver
type MemoryReportCache struct {
	mu      sync.Mutex
	entries map[uuid.UUID]map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryReportCache creates an empty in-process cache
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		entries: make(map[uuid.UUID]map[string]memoryEntry),
		now:     time.Now,
	}
}

func (c *MemoryReportCache) Get(_ context.Context, tenantID uuid.UUID, period string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[tenantID][period]
	if !ok {
		return nil, false, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.entries[tenantID], period)
		return nil, false, nil
	}
	return append([]byte(nil), entry.payload...), true, nil
}

func (c *MemoryReportCache) Set(_ context.Context, tenantID uuid.UUID, period string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.entries[tenantID] == nil {
		c.entries[tenantID] = make(map[string]memoryEntry)
	}
	entry := memoryEntry{payload: append([]byte(nil), payload...)}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.entries[tenantID][period] = entry
	return nil
}

func (c *MemoryReportCache) Invalidate(_ context.Context, tenantID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, tenantID)
	return nil
}
