package reporters

import (
	log "github.com/sirupsen/logrus"

	"github.com/reaandrew/vmlint/core"
)

// RepositoryReporter archives every verdict in a VerdictRepository so a run
// can be inspected after the fact. Storage failures are logged rather than
// propagated: a broken archive must not abort the diagnosis itself.
type RepositoryReporter struct {
	repository core.VerdictRepository
}

func NewRepositoryReporter(repository core.VerdictRepository) *RepositoryReporter {
	return &RepositoryReporter{repository: repository}
}

func (r *RepositoryReporter) OK(ruleID string, instance *core.Instance) {
	r.store(core.Verdict{RuleID: ruleID, Instance: instance, Status: core.StatusOK})
}

func (r *RepositoryReporter) Failed(ruleID string, instance *core.Instance, message string) {
	r.store(core.Verdict{RuleID: ruleID, Instance: instance, Status: core.StatusFailed, Message: message})
}

func (r *RepositoryReporter) Skipped(ruleID string, instance *core.Instance, reason string) {
	r.store(core.Verdict{RuleID: ruleID, Instance: instance, Status: core.StatusSkipped, Message: reason})
}

func (r *RepositoryReporter) store(verdict core.Verdict) {
	if err := r.repository.Store([]core.Verdict{verdict}); err != nil {
		log.WithError(err).Errorf("Failed to archive verdict for rule %s", verdict.RuleID)
	}
}
