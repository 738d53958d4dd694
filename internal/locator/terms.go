package locator

import "strings"

// ParseTerms splits a comma-separated list into lower-cased, trimmed terms.
// Empty entries are dropped.
func ParseTerms(raw string) []string {
	terms := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if t := normalizeTerm(part); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

// MergeTerms appends user terms after the defaults, normalizing both and
// keeping only the first occurrence of each term.
func MergeTerms(defaults, user []string) []string {
	seen := make(map[string]struct{}, len(defaults)+len(user))
	merged := make([]string, 0, len(defaults)+len(user))
	for _, list := range [][]string{defaults, user} {
		for _, raw := range list {
			t := normalizeTerm(raw)
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			merged = append(merged, t)
		}
	}
	return merged
}

func normalizeTerm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
