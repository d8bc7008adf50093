package rules

import (
	"github.com/flosch/pongo2/v6"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/search"
)

// Signatures the kernel OOM killer writes to the console. Both the pre- and
// post-5.0 message forms are listed.
var oomKillErrorMessages = []string{
	"Out of memory: Kill process",
	"Out of memory: Killed process",
	"invoked oom-killer",
	"Memory cgroup out of memory",
}

const oomKillFilter = `textPayload:("Out of memory" OR "oom-killer" OR "Memory cgroup out of memory")`

// NewOOMKillRule builds the rule that flags instances whose kernel killed a
// process for lack of memory.
func NewOOMKillRule(searches *search.Registry, env queries.Environment) (core.Rule, error) {
	patterns, err := search.NewPatternSet(oomKillErrorMessages, oomKillFilter)
	if err != nil {
		return nil, err
	}

	remediation, err := renderTemplate("oomkill", pongo2.Context{"min_memory_gb": nil})
	if err != nil {
		return nil, err
	}

	return &serialLogRule{
		id:          "serial/oom-kill",
		patterns:    patterns,
		summary:     "Out of memory kills detected",
		remediation: remediation,
		searches:    searches,
		env:         env,
	}, nil
}
