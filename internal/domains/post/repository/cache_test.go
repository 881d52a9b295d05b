package repository

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/domains/post"
)

type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes map[string]int
}

func newMemCache() *memCache {
	return &memCache{entries: map[string][]byte{}, deletes: map[string]int{}}
}

func (m *memCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (m *memCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = data
	return nil
}

func (m *memCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.entries, k)
		m.deletes[k]++
	}
	return nil
}

func (m *memCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok, nil
}

func (m *memCache) Ping(context.Context) error { return nil }

func (m *memCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[key]
	return ok
}

func (m *memCache) deleteCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes[key]
}

func TestInvalidateLaterEvictsRefilledEntry(t *testing.T) {
	cache := newMemCache()
	repo := &postgresRepository{cache: cache, refillGrace: 20 * time.Millisecond}
	ctx := context.Background()

	repo.invalidate(ctx, "old-slug", "new-slug")
	repo.invalidateLater("old-slug", "new-slug")

	// A read that started before the write lands after the first delete.
	stale := &post.Post{ID: "p1", Slug: "old-slug", Title: "before"}
	require.NoError(t, cache.Set(ctx, slugKey("old-slug"), stale, slugCacheTTL))
	require.True(t, cache.has(slugKey("old-slug")))

	assert.Eventually(t, func() bool {
		return !cache.has(slugKey("old-slug"))
	}, time.Second, 5*time.Millisecond)
}

func TestInvalidateSkipsEmptySlugsAndNilCache(t *testing.T) {
	cache := newMemCache()
	repo := &postgresRepository{cache: cache, refillGrace: time.Hour}

	repo.invalidate(context.Background(), "", "kept")

	assert.Equal(t, 1, cache.deleteCount(slugKey("kept")))
	assert.Equal(t, 0, cache.deleteCount(slugKey("")))

	noCache := &postgresRepository{}
	noCache.invalidate(context.Background(), "x")
	noCache.invalidateLater("x")
}
