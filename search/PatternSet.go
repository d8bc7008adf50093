package search

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/reaandrew/vmlint/core"
)

// PatternSet is an ordered, immutable set of search patterns. A pattern
// containing regular-expression metacharacters is compiled as a regex; any
// other pattern matches as a plain substring, so rule authors can list raw
// error messages without escaping them.
type PatternSet struct {
	patterns    []string
	regexes     []*regexp.Regexp // nil entry = substring pattern
	filter      string
	fingerprint string
}

// NewPatternSet compiles the given patterns. filter is an optional
// backend-side expression handed to the log source to cut down the fetched
// volume; it has no effect on Matches.
func NewPatternSet(patterns []string, filter string) (*PatternSet, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("%w: pattern set needs at least one pattern", core.ErrConfiguration)
	}

	ps := &PatternSet{
		patterns: append([]string(nil), patterns...),
		regexes:  make([]*regexp.Regexp, len(patterns)),
		filter:   filter,
	}

	for i, pattern := range ps.patterns {
		if !containsRegexSpecialChars(pattern) {
			continue
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %q: %v", core.ErrConfiguration, pattern, err)
		}
		ps.regexes[i] = re
	}

	sum := sha256.New()
	for _, pattern := range ps.patterns {
		sum.Write([]byte(pattern))
		sum.Write([]byte{0})
	}
	sum.Write([]byte(filter))
	ps.fingerprint = hex.EncodeToString(sum.Sum(nil))

	return ps, nil
}

// Matches reports whether any pattern in the set matches the line.
func (ps *PatternSet) Matches(line string) bool {
	for i, pattern := range ps.patterns {
		if re := ps.regexes[i]; re != nil {
			if re.MatchString(line) {
				return true
			}
		} else if strings.Contains(line, pattern) {
			return true
		}
	}
	return false
}

// Filter returns the optional backend-side filter expression.
func (ps *PatternSet) Filter() string {
	return ps.filter
}

// Fingerprint returns a stable digest of the patterns and filter. Two sets
// built from equal inputs share a fingerprint, which is what lets separate
// rules share one search index.
func (ps *PatternSet) Fingerprint() string {
	return ps.fingerprint
}

func containsRegexSpecialChars(s string) bool {
	return strings.ContainsAny(s, "\\.+*?()|[]{}^$")
}
