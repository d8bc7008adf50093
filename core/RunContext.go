package core

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gobwas/glob"
	"github.com/google/uuid"
)

// RunContext identifies the scope of one lint run: the project under
// diagnosis and which of its instances are in scope. Every run-scoped cache
// is keyed off a RunContext, so rules that work on the same scope end up
// sharing fetches instead of repeating them.
type RunContext struct {
	// ProjectID is the project whose instances are being diagnosed.
	ProjectID string
	// RunID tags log statements and archives; it is unique per run and is
	// deliberately not part of Key().
	RunID string
	// Labels restricts the scope to instances carrying all of these labels.
	Labels map[string]string

	nameFilter string
	nameGlob   glob.Glob
}

// NewRunContext builds the scope for a run. nameFilter is an optional glob
// over instance names ("prod-*"); labels is an optional label selector.
// Pass "" and nil to scope the run to every instance in the project.
func NewRunContext(projectID, nameFilter string, labels map[string]string) (*RunContext, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: project id is required", ErrConfiguration)
	}

	rc := &RunContext{
		ProjectID: projectID,
		RunID:     uuid.NewString(),
		Labels:    labels,
	}

	if nameFilter != "" {
		g, err := glob.Compile(nameFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: instance name filter %q: %v", ErrConfiguration, nameFilter, err)
		}
		rc.nameFilter = nameFilter
		rc.nameGlob = g
	}

	return rc, nil
}

// InScope reports whether the instance falls inside this run's scope.
func (rc *RunContext) InScope(instance Instance) bool {
	if rc.nameGlob != nil && !rc.nameGlob.Match(instance.Name) {
		return false
	}
	for key, value := range rc.Labels {
		if instance.Labels[key] != value {
			return false
		}
	}
	return true
}

// Key returns the canonical cache key for this scope. Two RunContexts with
// the same project, name filter and labels produce the same key, so caches
// built during the run are shared across all rules querying that scope.
func (rc *RunContext) Key() string {
	parts := []string{rc.ProjectID}
	if rc.nameFilter != "" {
		parts = append(parts, "name="+rc.nameFilter)
	}

	labelKeys := make([]string, 0, len(rc.Labels))
	for key := range rc.Labels {
		labelKeys = append(labelKeys, key)
	}
	sort.Strings(labelKeys)
	for _, key := range labelKeys {
		parts = append(parts, fmt.Sprintf("label=%s:%s", key, rc.Labels[key]))
	}

	return strings.Join(parts, "/")
}
