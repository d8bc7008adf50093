package queries

import (
	"context"
	"encoding/json"
	"time"

	log "github.com/sirupsen/logrus"
	bbolt "go.etcd.io/bbolt"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/search"
)

const serialLogBucket = "serial_log_entries"

// cachedFetch is the stored value: one successful bulk fetch together with
// the time it was taken.
type cachedFetch struct {
	FetchedAt time.Time                   `json:"fetched_at"`
	Entries   map[string][]core.LogEntry `json:"entries"`
}

// CachedLogSource wraps a LogLineSource with a persistent bbolt cache so
// that repeated runs over the same scope skip the bulk fetch. Only
// successful fetches are stored; unavailability and transient failures
// always go back to the wrapped source on the next run.
type CachedLogSource struct {
	inner search.LogLineSource
	path  string
	ttl   time.Duration
}

// NewCachedLogSource caches inner's fetches in the bbolt file at path.
// Entries older than ttl are refetched; a ttl of zero disables expiry.
func NewCachedLogSource(inner search.LogLineSource, path string, ttl time.Duration) *CachedLogSource {
	return &CachedLogSource{inner: inner, path: path, ttl: ttl}
}

func (c *CachedLogSource) Entries(ctx context.Context, rc *core.RunContext, filter string) (map[string][]core.LogEntry, error) {
	key := rc.Key() + "\x00" + filter

	if entries, ok := c.load(key); ok {
		log.Debugf("serial log cache hit for scope %s", rc.Key())
		return entries, nil
	}

	entries, err := c.inner.Entries(ctx, rc, filter)
	if err != nil {
		return nil, err
	}
	c.save(key, entries)
	return entries, nil
}

func (c *CachedLogSource) load(key string) (map[string][]core.LogEntry, bool) {
	db, err := bbolt.Open(c.path, 0666, nil)
	if err != nil {
		log.WithError(err).Warnf("Could not open serial log cache %s", c.path)
		return nil, false
	}
	defer db.Close()

	var raw []byte
	err = db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(serialLogBucket))
		if bucket == nil {
			return nil
		}
		if value := bucket.Get([]byte(key)); value != nil {
			raw = append([]byte(nil), value...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false
	}

	var fetch cachedFetch
	if err := json.Unmarshal(raw, &fetch); err != nil {
		log.WithError(err).Warn("Discarding unreadable serial log cache entry")
		return nil, false
	}
	if c.ttl > 0 && time.Since(fetch.FetchedAt) > c.ttl {
		log.Debugf("serial log cache entry for scope %s expired", key)
		return nil, false
	}
	return fetch.Entries, true
}

func (c *CachedLogSource) save(key string, entries map[string][]core.LogEntry) {
	raw, err := json.Marshal(cachedFetch{FetchedAt: time.Now(), Entries: entries})
	if err != nil {
		log.WithError(err).Warn("Could not encode serial log cache entry")
		return
	}

	db, err := bbolt.Open(c.path, 0666, nil)
	if err != nil {
		log.WithError(err).Warnf("Could not open serial log cache %s", c.path)
		return
	}
	defer db.Close()

	err = db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(serialLogBucket))
		if err != nil {
			return err
		}
		return bucket.Put([]byte(key), raw)
	})
	if err != nil {
		log.WithError(err).Warn("Could not store serial log cache entry")
	}
}
