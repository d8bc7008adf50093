package reporters

import "github.com/reaandrew/vmlint/core"

// CompositeReporter fans every verdict out to all wrapped reporters in
// order.
type CompositeReporter struct {
	reporters []core.Reporter
}

func NewCompositeReporter(reporters ...core.Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) OK(ruleID string, instance *core.Instance) {
	for _, reporter := range c.reporters {
		reporter.OK(ruleID, instance)
	}
}

func (c *CompositeReporter) Failed(ruleID string, instance *core.Instance, message string) {
	for _, reporter := range c.reporters {
		reporter.Failed(ruleID, instance, message)
	}
}

func (c *CompositeReporter) Skipped(ruleID string, instance *core.Instance, reason string) {
	for _, reporter := range c.reporters {
		reporter.Skipped(ruleID, instance, reason)
	}
}
