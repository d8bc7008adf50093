package core

// VerdictRepository accumulates the verdicts of a run for later inspection.
type VerdictRepository interface {
	Store(verdicts []Verdict) error
	Clear() error
	NewIterator() VerdictIterator
	Close() error
}

// VerdictIterator walks stored verdicts in insertion order.
type VerdictIterator interface {
	HasNext() bool
	Next() (Verdict, error)
	Reset() error
}
