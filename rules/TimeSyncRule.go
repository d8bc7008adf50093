package rules

import (
	"github.com/flosch/pongo2/v6"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/search"
)

const metadataServerName = "metadata.google.internal"

// Signatures that NTP, Chrony and the kernel write to the console when the
// system clock drifts or cannot synchronize.
var timeSyncErrorMessages = []string{
	"time may be out of sync",
	"System clock is unsynchronized",
	"Time drift detected",
	"no servers can be used, system clock unsynchronized",
	"time reset",
	"System clock unsynchronized",
	"Time offset too large",
	"Can't synchronise: no selectable sources",
	"Clock skew detected",
	"Clock skew too great",
	"Could not receive latest log timestamp from server",
}

// timeSyncFilter narrows the backend-side query to lines that can contain
// one of the signatures, so a bulk fetch does not transfer every line of
// every serial log.
const timeSyncFilter = `textPayload:("time may be out of sync" OR "System clock is unsynchronized" OR "Time drift detected" OR "no servers can be used" OR "time reset" OR "Time offset too large" OR "Can't synchronise" OR "Clock skew detected" OR "Clock skew too great" OR "Could not receive latest log timestamp")`

// NewTimeSyncRule builds the rule that flags instances whose serial output
// shows time synchronization problems. An unsynchronized clock surfaces
// later as Kerberos and TLS failures, replication lag and inconsistent
// logs, which makes it worth a rule of its own.
func NewTimeSyncRule(searches *search.Registry, env queries.Environment) (core.Rule, error) {
	patterns, err := search.NewPatternSet(timeSyncErrorMessages, timeSyncFilter)
	if err != nil {
		return nil, err
	}

	remediation, err := renderTemplate("timesync", pongo2.Context{"metadata_server": metadataServerName})
	if err != nil {
		return nil, err
	}

	return &serialLogRule{
		id:          "serial/time-sync",
		patterns:    patterns,
		summary:     "Time synchronization errors detected",
		remediation: remediation,
		searches:    searches,
		env:         env,
	}, nil
}
