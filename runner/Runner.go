package runner

import (
	"context"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/utils"
)

// Runner executes diagnostic rules against one run scope. Rules run
// sequentially in ID order so verdict output is deterministic; the search
// registry they share is safe for concurrent use should a host embed rules
// differently.
type Runner struct {
	rules    []core.Rule
	reporter core.Reporter
	progress utils.ProgressReporter
}

func NewRunner(rules []core.Rule, reporter core.Reporter, progress utils.ProgressReporter) *Runner {
	return &Runner{
		rules:    rules,
		reporter: reporter,
		progress: progress,
	}
}

// Run prepares and executes every rule. A rule that fails to prepare or
// run is reported as skipped and never aborts the rest of the run; the
// only error Run itself returns is context cancellation.
func (r *Runner) Run(ctx context.Context, rc *core.RunContext) error {
	ordered := make([]core.Rule, len(r.rules))
	copy(ordered, r.rules)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].ID() < ordered[j].ID()
	})

	r.progress.SetTotal(len(ordered))
	log.Infof("Starting run %s on project %s with %d rules", rc.RunID, rc.ProjectID, len(ordered))

	for _, rule := range ordered {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := rule.Prepare(ctx, rc); err != nil {
			log.WithError(err).Errorf("Rule %s failed to prepare", rule.ID())
			r.reporter.Skipped(rule.ID(), nil, fmt.Sprintf("rule preparation failed: %v", err))
			r.progress.Increment()
			continue
		}

		if err := rule.Run(ctx, rc, r.reporter); err != nil {
			log.WithError(err).Errorf("Rule %s failed", rule.ID())
			r.reporter.Skipped(rule.ID(), nil, fmt.Sprintf("rule execution failed: %v", err))
		}
		r.progress.Increment()
	}

	log.Infof("Run %s finished", rc.RunID)
	return nil
}
