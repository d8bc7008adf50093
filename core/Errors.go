package core

import (
	"errors"
	"fmt"
)

// ErrSerialUnavailable means serial console output cannot be retrieved at
// all for the run scope (logging disabled or access denied), as opposed to
// being retrievable with no matching lines. Rules downgrade it to a single
// skipped verdict.
var ErrSerialUnavailable = errors.New("serial port output is unavailable")

// ErrConfiguration marks a misconfiguration detected at construction time,
// such as an empty pattern set or an unparsable name filter. It is never
// downgraded to a skip: the run refuses to start.
var ErrConfiguration = errors.New("configuration error")

// FetchError wraps a transient failure while bulk-fetching serial log
// entries. The search index caches it so the failed backend is not hit
// again during the run; rules report it as a skip.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching serial log entries: %v", e.Cause)
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}
