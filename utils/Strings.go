package utils

import "strings"

// SanitizeForFilename turns an arbitrary identifier, such as a project ID
// or snapshot path, into something safe to embed in a filename.
func SanitizeForFilename(name string) string {
	s := strings.ToLower(name)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_")
}
