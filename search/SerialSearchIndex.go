package search

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/reaandrew/vmlint/core"
)

// MatchOutcome distinguishes the three results of a last-match query.
type MatchOutcome int

const (
	// MatchFound means the instance has at least one matching line.
	MatchFound MatchOutcome = iota
	// MatchNotFound means serial output was searched and nothing matched.
	MatchNotFound
	// MatchUnavailable means serial output cannot be retrieved for the
	// scope, so absence of a match proves nothing.
	MatchUnavailable
)

// Match is the result of a GetLastMatch query. Entry is only meaningful
// when Outcome is MatchFound.
type Match struct {
	Outcome MatchOutcome
	Entry   core.LogEntry
}

// SerialSearchIndex answers "most recent matching serial log line" queries
// for the instances of one run scope. The underlying fetch-and-scan happens
// at most once for the lifetime of the index, no matter how many instances
// or rules query it; both the per-instance results and any fetch failure
// are memoized for the rest of the run.
type SerialSearchIndex struct {
	source   LogLineSource
	rc       *core.RunContext
	patterns *PatternSet

	mu          sync.Mutex
	scanned     bool
	unavailable bool
	fetchErr    error
	lastMatch   map[string]core.LogEntry
}

func NewSerialSearchIndex(source LogLineSource, rc *core.RunContext, patterns *PatternSet) *SerialSearchIndex {
	return &SerialSearchIndex{
		source:   source,
		rc:       rc,
		patterns: patterns,
	}
}

// GetLastMatch returns the chronologically latest matching line for the
// instance. The first call performs the bulk fetch and scan for all
// instances in scope; concurrent callers block until that pass completes
// and then read the memoized results. A transient fetch failure is
// remembered and returned to every later caller without touching the
// source again.
func (idx *SerialSearchIndex) GetLastMatch(ctx context.Context, instanceID string) (Match, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !idx.scanned {
		idx.scan(ctx)
	}

	if idx.unavailable {
		return Match{Outcome: MatchUnavailable}, nil
	}
	if idx.fetchErr != nil {
		return Match{}, idx.fetchErr
	}
	if entry, ok := idx.lastMatch[instanceID]; ok {
		return Match{Outcome: MatchFound, Entry: entry}, nil
	}
	return Match{Outcome: MatchNotFound}, nil
}

// scan performs the single fetch-and-scan pass. The caller holds idx.mu.
func (idx *SerialSearchIndex) scan(ctx context.Context) {
	idx.scanned = true

	entries, err := idx.source.Entries(ctx, idx.rc, idx.patterns.Filter())
	if err != nil {
		if errors.Is(err, core.ErrSerialUnavailable) {
			log.Debugf("serial output unavailable for scope %s", idx.rc.Key())
			idx.unavailable = true
			return
		}
		log.WithError(err).Warnf("serial log fetch failed for scope %s", idx.rc.Key())
		idx.fetchErr = &core.FetchError{Cause: err}
		return
	}

	idx.lastMatch = make(map[string]core.LogEntry)
	for instanceID, lines := range entries {
		for _, entry := range lines {
			if !idx.patterns.Matches(entry.Text) {
				continue
			}
			previous, ok := idx.lastMatch[instanceID]
			// Later timestamp wins; on equal timestamps the line delivered
			// later keeps the slot, since sources emit chronological order.
			if !ok || !entry.Timestamp.Before(previous.Timestamp) {
				idx.lastMatch[instanceID] = entry
			}
		}
	}

	log.Debugf("scanned serial output of %d instances in scope %s, %d with matches",
		len(entries), idx.rc.Key(), len(idx.lastMatch))
}
