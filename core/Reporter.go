package core

// Reporter receives verdicts as rules produce them. Implementations must
// tolerate a nil instance: skips that apply to a whole rule are reported
// once, not once per instance.
type Reporter interface {
	OK(ruleID string, instance *Instance)
	Failed(ruleID string, instance *Instance, message string)
	Skipped(ruleID string, instance *Instance, reason string)
}
