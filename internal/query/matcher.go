package query

import "strings"

// matches reports whether haystack contains needle as a substring,
// case-insensitively. The caller lower-cases and trims needle once up
// front; empty haystacks and empty needles never match. Pure substring
// containment — no tokenization, no regex.
func matches(haystack, needle string) bool {
	if haystack == "" || needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}

// matchAny returns the sub-sequence of values that individually match
// needle, preserving input order. Returns nil when nothing matches.
func matchAny(values []string, needle string) []string {
	var out []string
	for _, v := range values {
		if matches(v, needle) {
			out = append(out, v)
		}
	}
	return out
}
