package core

import "context"

// Rule is one diagnostic check over the instances of a run scope.
type Rule interface {
	// ID returns the stable rule identifier, e.g. "serial/time-sync".
	ID() string
	// Prepare performs per-run setup such as registering the rule's pattern
	// set with the shared search registry. It runs before Run and must be
	// idempotent.
	Prepare(ctx context.Context, rc *RunContext) error
	// Run evaluates the rule for every instance in scope and emits verdicts
	// through the reporter. Conditions that prevent evaluation are reported
	// as skips, not returned as errors; an error return means the rule
	// itself broke.
	Run(ctx context.Context, rc *RunContext, report Reporter) error
}
