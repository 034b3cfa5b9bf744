package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryReportCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryReportCache()
	tenant, other := uuid.New(), uuid.New()

	_, ok, err := c.Get(ctx, tenant, "2026-01-01_2026-01-31")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, tenant, "2026-01-01_2026-01-31", []byte(`{"a":1}`), time.Minute))
	require.NoError(t, c.Set(ctx, other, "2026-01-01_2026-01-31", []byte(`{"b":2}`), time.Minute))

	got, ok, err := c.Get(ctx, tenant, "2026-01-01_2026-01-31")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(got))

	require.NoError(t, c.Invalidate(ctx, tenant))
	_, ok, _ = c.Get(ctx, tenant, "2026-01-01_2026-01-31")
	assert.False(t, ok)

	_, ok, _ = c.Get(ctx, other, "2026-01-01_2026-01-31")
	assert.True(t, ok)
}

func TestMemoryReportCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryReportCache()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	tenant := uuid.New()

	require.NoError(t, c.Set(ctx, tenant, "all", []byte("x"), time.Minute))
	now = now.Add(2 * time.Minute)

	_, ok, err := c.Get(ctx, tenant, "all")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReportKeyIncludesGeneration(t *testing.T) {
	tenant := uuid.MustParse("7f1d8b1e-3c1a-4f3e-9d55-0a6c1f2b9e10")
	assert.Equal(t, "salon:commission:7f1d8b1e-3c1a-4f3e-9d55-0a6c1f2b9e10:3:all", reportKey(tenant, 3, "all"))
	assert.Equal(t, "salon:commission:7f1d8b1e-3c1a-4f3e-9d55-0a6c1f2b9e10:gen", generationKey(tenant))
}
