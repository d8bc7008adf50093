package reporters

import (
	"fmt"
	"io"
	"sync"

	"github.com/reaandrew/vmlint/core"
)

// TerminalReporter writes one verdict line per result, the way operators
// see them on stdout:
//
//	[FAIL] serial/time-sync instance-1: Time synchronization errors detected ...
//	[ OK ] serial/time-sync instance-2
//	[SKIP] serial/oom-kill: serial port output is unavailable
type TerminalReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewTerminalReporter(w io.Writer) *TerminalReporter {
	return &TerminalReporter{w: w}
}

func (t *TerminalReporter) OK(ruleID string, instance *core.Instance) {
	t.print("[ OK ]", ruleID, instance, "")
}

func (t *TerminalReporter) Failed(ruleID string, instance *core.Instance, message string) {
	t.print("[FAIL]", ruleID, instance, message)
}

func (t *TerminalReporter) Skipped(ruleID string, instance *core.Instance, reason string) {
	t.print("[SKIP]", ruleID, instance, reason)
}

func (t *TerminalReporter) print(tag, ruleID string, instance *core.Instance, detail string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	line := tag + " " + ruleID
	if instance != nil {
		line += " " + instance.Name
	}
	if detail != "" {
		line += ": " + detail
	}
	fmt.Fprintln(t.w, line)
}
