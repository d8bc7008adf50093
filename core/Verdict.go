package core

// VerdictStatus is the outcome class of a verdict.
type VerdictStatus string

const (
	StatusOK      VerdictStatus = "ok"
	StatusFailed  VerdictStatus = "failed"
	StatusSkipped VerdictStatus = "skipped"
)

// Verdict is the outcome of one rule for one instance. Skips that apply to
// the whole rule rather than a single instance carry a nil Instance.
type Verdict struct {
	RuleID   string        `json:"rule_id"`
	Instance *Instance     `json:"instance,omitempty"`
	Status   VerdictStatus `json:"status"`
	Message  string        `json:"message,omitempty"`
}
