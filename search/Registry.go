package search

import (
	"sync"

	"github.com/reaandrew/vmlint/core"
)

// Registry is the run-scoped cache of search indexes. Rules that share a
// run scope and an identical pattern set receive the same index and with it
// one fetch-and-scan pass. A Registry must not outlive the run it serves;
// the next run starts with a fresh one.
type Registry struct {
	source LogLineSource

	mu      sync.Mutex
	indexes map[string]*SerialSearchIndex
}

func NewRegistry(source LogLineSource) *Registry {
	return &Registry{
		source:  source,
		indexes: make(map[string]*SerialSearchIndex),
	}
}

// Index returns the shared index for the scope and pattern set, creating it
// on first use. Creation is cheap: the bulk fetch only happens once the
// index answers its first query.
func (r *Registry) Index(rc *core.RunContext, patterns *PatternSet) *SerialSearchIndex {
	key := rc.Key() + "\x00" + patterns.Fingerprint()

	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.indexes[key]
	if !ok {
		idx = NewSerialSearchIndex(r.source, rc, patterns)
		r.indexes[key] = idx
	}
	return idx
}

// Size returns the number of distinct indexes created so far.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.indexes)
}
