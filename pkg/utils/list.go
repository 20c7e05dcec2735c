package utils

import "strings"

// ReadList parses a multi-line list. Blank lines and lines starting with '#'
// are skipped; the remaining entries are trimmed and lower-cased.
func ReadList(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out
}

// Set builds a membership set from entries.
func Set(entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	return set
}
