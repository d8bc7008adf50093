package rules

import (
	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/queries"
	"github.com/reaandrew/vmlint/search"
)

// Deps carries the collaborators shared by every rule.
type Deps struct {
	Searches *search.Registry
	Env      queries.Environment
}

// Initialize builds the full rule list. Registration is explicit: adding a
// rule means adding its constructor here.
func Initialize(deps Deps) ([]core.Rule, error) {
	builders := []func(*search.Registry, queries.Environment) (core.Rule, error){
		NewKernelPanicRule,
		NewOOMKillRule,
		NewTimeSyncRule,
	}

	rules := make([]core.Rule, 0, len(builders))
	for _, build := range builders {
		rule, err := build(deps.Searches, deps.Env)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
