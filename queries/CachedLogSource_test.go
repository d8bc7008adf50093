package queries_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
)

// FlakyLogSource counts fetches and can be told to fail.
type FlakyLogSource struct {
	entries map[string][]core.LogEntry
	err     error
	fetches int
}

func (s *FlakyLogSource) Entries(ctx context.Context, rc *core.RunContext, filter string) (map[string][]core.LogEntry, error) {
	s.fetches++
	if s.err != nil {
		return nil, s.err
	}
	return s.entries, nil
}

func cannedEntries() map[string][]core.LogEntry {
	return map[string][]core.LogEntry{
		"1111": {
			{Timestamp: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Text: "chronyd: time reset +3.2 seconds"},
		},
	}
}

func TestCachedLogSource_ServesRepeatFetchesFromCache(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	inner := &FlakyLogSource{entries: cannedEntries()}
	rc := scopedContext(t, "")

	first := queries.NewCachedLogSource(inner, cachePath, time.Hour)
	got, err := first.Entries(context.Background(), rc, "filter-a")
	assert.NoError(t, err)
	assert.Equal(t, cannedEntries(), got)

	// A brand-new wrapper over the same file proves the cache is persistent,
	// not just in-process memoization.
	second := queries.NewCachedLogSource(inner, cachePath, time.Hour)
	got, err = second.Entries(context.Background(), rc, "filter-a")
	assert.NoError(t, err)
	assert.Equal(t, cannedEntries(), got)

	assert.Equal(t, 1, inner.fetches)
}

func TestCachedLogSource_DoesNotCacheFailures(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	inner := &FlakyLogSource{err: errors.New("backend timeout")}
	rc := scopedContext(t, "")
	cached := queries.NewCachedLogSource(inner, cachePath, time.Hour)

	_, err := cached.Entries(context.Background(), rc, "")
	assert.Error(t, err)

	// Once the backend recovers the fetch goes through and gets cached.
	inner.err = nil
	inner.entries = cannedEntries()
	got, err := cached.Entries(context.Background(), rc, "")
	assert.NoError(t, err)
	assert.Equal(t, cannedEntries(), got)
	assert.Equal(t, 2, inner.fetches)

	_, err = cached.Entries(context.Background(), rc, "")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.fetches)
}

func TestCachedLogSource_ExpiresOldEntries(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	inner := &FlakyLogSource{entries: cannedEntries()}
	rc := scopedContext(t, "")
	cached := queries.NewCachedLogSource(inner, cachePath, time.Nanosecond)

	_, err := cached.Entries(context.Background(), rc, "")
	assert.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = cached.Entries(context.Background(), rc, "")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.fetches)
}

func TestCachedLogSource_KeysOnScopeAndFilter(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "cache.db")
	inner := &FlakyLogSource{entries: cannedEntries()}
	rc := scopedContext(t, "")
	cached := queries.NewCachedLogSource(inner, cachePath, time.Hour)

	_, err := cached.Entries(context.Background(), rc, "filter-a")
	assert.NoError(t, err)
	_, err = cached.Entries(context.Background(), rc, "filter-b")
	assert.NoError(t, err)

	// Different filters are different fetches, even on the same scope.
	assert.Equal(t, 2, inner.fetches)
}
