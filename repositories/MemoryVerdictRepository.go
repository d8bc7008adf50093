package repositories

import (
	"fmt"
	"sync"

	"github.com/reaandrew/vmlint/core"
)

// MemoryVerdictRepository implements core.VerdictRepository in memory. It
// backs tests and one-shot runs that do not archive to disk.
type MemoryVerdictRepository struct {
	mu       sync.Mutex
	verdicts []core.Verdict
}

func NewMemoryVerdictRepository() *MemoryVerdictRepository {
	return &MemoryVerdictRepository{}
}

func (r *MemoryVerdictRepository) Store(verdicts []core.Verdict) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts = append(r.verdicts, verdicts...)
	return nil
}

func (r *MemoryVerdictRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.verdicts = nil
	return nil
}

func (r *MemoryVerdictRepository) NewIterator() core.VerdictIterator {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]core.Verdict, len(r.verdicts))
	copy(snapshot, r.verdicts)
	return &memoryVerdictIterator{verdicts: snapshot}
}

func (r *MemoryVerdictRepository) Close() error {
	return nil
}

// All returns a copy of everything stored so far.
func (r *MemoryVerdictRepository) All() []core.Verdict {
	r.mu.Lock()
	defer r.mu.Unlock()
	snapshot := make([]core.Verdict, len(r.verdicts))
	copy(snapshot, r.verdicts)
	return snapshot
}

type memoryVerdictIterator struct {
	verdicts []core.Verdict
	position int
}

func (it *memoryVerdictIterator) HasNext() bool {
	return it.position < len(it.verdicts)
}

func (it *memoryVerdictIterator) Next() (core.Verdict, error) {
	if it.position >= len(it.verdicts) {
		return core.Verdict{}, fmt.Errorf("no more verdicts available")
	}
	verdict := it.verdicts[it.position]
	it.position++
	return verdict, nil
}

func (it *memoryVerdictIterator) Reset() error {
	it.position = 0
	return nil
}
