package core_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reaandrew/vmlint/core"
)

func TestNewRunContext_RequiresProject(t *testing.T) {
	_, err := core.NewRunContext("", "", nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestNewRunContext_RejectsUnparsableNameFilter(t *testing.T) {
	_, err := core.NewRunContext("test-project", "prod-[", nil)

	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestRunContext_InScopeAppliesNameFilter(t *testing.T) {
	rc, err := core.NewRunContext("test-project", "prod-*", nil)
	assert.NoError(t, err)

	assert.True(t, rc.InScope(core.Instance{ID: "1", Name: "prod-web-1"}))
	assert.False(t, rc.InScope(core.Instance{ID: "2", Name: "staging-web-1"}))
}

func TestRunContext_InScopeAppliesLabelSelector(t *testing.T) {
	rc, err := core.NewRunContext("test-project", "", map[string]string{"env": "prod"})
	assert.NoError(t, err)

	assert.True(t, rc.InScope(core.Instance{ID: "1", Name: "web-1", Labels: map[string]string{"env": "prod", "team": "core"}}))
	assert.False(t, rc.InScope(core.Instance{ID: "2", Name: "web-2", Labels: map[string]string{"env": "staging"}}))
	assert.False(t, rc.InScope(core.Instance{ID: "3", Name: "web-3"}))
}

func TestRunContext_EverythingInScopeByDefault(t *testing.T) {
	rc, err := core.NewRunContext("test-project", "", nil)
	assert.NoError(t, err)

	assert.True(t, rc.InScope(core.Instance{ID: "1", Name: "anything"}))
}

func TestRunContext_KeyIsStableAcrossRuns(t *testing.T) {
	first, err := core.NewRunContext("test-project", "prod-*", map[string]string{"env": "prod", "team": "core"})
	assert.NoError(t, err)
	second, err := core.NewRunContext("test-project", "prod-*", map[string]string{"team": "core", "env": "prod"})
	assert.NoError(t, err)

	// Same scope, same key; the run IDs still differ.
	assert.Equal(t, first.Key(), second.Key())
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestRunContext_KeySeparatesDifferentScopes(t *testing.T) {
	base, err := core.NewRunContext("test-project", "", nil)
	assert.NoError(t, err)
	filtered, err := core.NewRunContext("test-project", "prod-*", nil)
	assert.NoError(t, err)
	otherProject, err := core.NewRunContext("other-project", "", nil)
	assert.NoError(t, err)

	assert.NotEqual(t, base.Key(), filtered.Key())
	assert.NotEqual(t, base.Key(), otherProject.Key())
}
