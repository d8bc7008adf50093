package search_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/reaandrew/vmlint/core"
	"github.com/reaandrew/vmlint/search"
)

func TestNewPatternSet_RejectsEmptyPatternList(t *testing.T) {
	_, err := search.NewPatternSet(nil, "")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestNewPatternSet_RejectsInvalidRegex(t *testing.T) {
	_, err := search.NewPatternSet([]string{"Clock skew of ([0-9+ seconds"}, "")

	assert.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfiguration))
}

func TestPatternSet_MatchesPlainSubstrings(t *testing.T) {
	ps, err := search.NewPatternSet([]string{"System clock is unsynchronized"}, "")
	assert.NoError(t, err)

	assert.True(t, ps.Matches("Jan  2 15:04:05 ntpd[123]: System clock is unsynchronized"))
	assert.False(t, ps.Matches("Jan  2 15:04:05 ntpd[123]: clock synchronized to NTP server"))
}

func TestPatternSet_TreatsMetacharacterPatternsAsRegex(t *testing.T) {
	ps, err := search.NewPatternSet([]string{`Clock skew of [0-9]+ seconds`}, "")
	assert.NoError(t, err)

	assert.True(t, ps.Matches("warning: Clock skew of 42 seconds"))
	assert.False(t, ps.Matches("warning: Clock skew of ? seconds"))
}

func TestPatternSet_AnyPatternSuffices(t *testing.T) {
	ps, err := search.NewPatternSet([]string{"Time drift detected", "time reset"}, "")
	assert.NoError(t, err)

	assert.True(t, ps.Matches("chronyd: time reset +3.2 seconds"))
	assert.True(t, ps.Matches("ntpd: Time drift detected on CPU clock"))
	assert.False(t, ps.Matches("ntpd: all clocks nominal"))
}

func TestPatternSet_FingerprintIsStableForEqualInputs(t *testing.T) {
	first, err := search.NewPatternSet([]string{"time reset", "Time drift detected"}, "textPayload:x")
	assert.NoError(t, err)
	second, err := search.NewPatternSet([]string{"time reset", "Time drift detected"}, "textPayload:x")
	assert.NoError(t, err)

	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestPatternSet_FingerprintSeparatesDifferentInputs(t *testing.T) {
	base, err := search.NewPatternSet([]string{"time reset", "Time drift detected"}, "textPayload:x")
	assert.NoError(t, err)
	reordered, err := search.NewPatternSet([]string{"Time drift detected", "time reset"}, "textPayload:x")
	assert.NoError(t, err)
	otherFilter, err := search.NewPatternSet([]string{"time reset", "Time drift detected"}, "textPayload:y")
	assert.NoError(t, err)

	assert.NotEqual(t, base.Fingerprint(), reordered.Fingerprint())
	assert.NotEqual(t, base.Fingerprint(), otherFilter.Fingerprint())
}

func TestPatternSet_FilterDoesNotAffectMatching(t *testing.T) {
	ps, err := search.NewPatternSet([]string{"time reset"}, `textPayload:("something else entirely")`)
	assert.NoError(t, err)

	assert.Equal(t, `textPayload:("something else entirely")`, ps.Filter())
	assert.True(t, ps.Matches("chronyd: time reset +3.2 seconds"))
}
