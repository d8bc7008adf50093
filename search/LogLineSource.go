package search

import (
	"context"

	"github.com/reaandrew/vmlint/core"
)

// LogLineSource produces the serial console lines for every instance in a
// run scope, keyed by instance ID and in chronological order per instance.
// filter is an optional backend-side expression that limits the volume of
// fetched lines; sources that cannot push filters down ignore it.
//
// A scope whose serial logging is disabled entirely is reported by
// returning an error wrapping core.ErrSerialUnavailable.
type LogLineSource interface {
	Entries(ctx context.Context, rc *core.RunContext, filter string) (map[string][]core.LogEntry, error)
}
