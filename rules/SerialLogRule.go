package rules

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/search"
)

// serialLogRule is the shared shape of every serial-log signature rule: a
// pattern set, a one-line failure summary and remediation guidance. Run
// implements the classification policy once for all of them, which keeps
// each concrete rule down to its patterns and wording.
type serialLogRule struct {
	id          string
	patterns    *search.PatternSet
	summary     string
	remediation string
	searches    *search.Registry
	env         queries.Environment
}

func (r *serialLogRule) ID() string {
	return r.id
}

// Prepare registers the rule's pattern set with the shared registry so the
// index exists before any rule in the run starts querying.
func (r *serialLogRule) Prepare(ctx context.Context, rc *core.RunContext) error {
	r.searches.Index(rc, r.patterns)
	return nil
}

// Run classifies every instance in scope. Availability is probed first so
// a disabled backend yields one skip for the whole rule; instances are
// visited in name order so verdicts come out deterministic.
func (r *serialLogRule) Run(ctx context.Context, rc *core.RunContext, report core.Reporter) error {
	available, err := r.env.SerialOutputAvailable(ctx, rc)
	if err != nil {
		return fmt.Errorf("probing serial output availability: %w", err)
	}
	if !available {
		report.Skipped(r.id, nil, "serial port output is unavailable")
		return nil
	}

	instances, err := r.env.Instances(ctx, rc)
	if err != nil {
		return fmt.Errorf("listing instances: %w", err)
	}
	if len(instances) == 0 {
		report.Skipped(r.id, nil, "no instances found")
		return nil
	}

	index := r.searches.Index(rc, r.patterns)

	for _, instance := range sortedByName(instances) {
		match, err := index.GetLastMatch(ctx, instance.ID)
		if err != nil {
			var fetchErr *core.FetchError
			if errors.As(err, &fetchErr) {
				report.Skipped(r.id, nil, fmt.Sprintf("serial log fetch failed: %v", fetchErr.Cause))
				return nil
			}
			return err
		}

		switch match.Outcome {
		case search.MatchUnavailable:
			report.Skipped(r.id, nil, "serial port output is unavailable")
			return nil
		case search.MatchFound:
			report.Failed(r.id, &instance, r.failureMessage(instance, match.Entry))
		default:
			report.OK(r.id, &instance)
		}
	}
	return nil
}

func (r *serialLogRule) failureMessage(instance core.Instance, entry core.LogEntry) string {
	return fmt.Sprintf("%s on instance %s.\n%s: %q\n%s",
		r.summary, instance.Name, entry.ISOTimestamp(), entry.Text, r.remediation)
}

func sortedByName(instances map[string]core.Instance) []core.Instance {
	ordered := make([]core.Instance, 0, len(instances))
	for _, instance := range instances {
		ordered = append(ordered, instance)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})
	return ordered
}
