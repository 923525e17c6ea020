// Package symbol canonicalizes the textual percepts and actions used by table
// documents and the command line.
package symbol

import "strings"

// Normalize lower-cases name, turns underscores and spaces into dashes and
// trims surrounding dashes, so "Partly_Cloudy" and "partly cloudy" compare
// equal.
func Normalize(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	return strings.Trim(normalized, "-")
}

// NormalizeAll normalizes every element of names into a new slice.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = Normalize(name)
	}
	return out
}

// Split parses a comma separated list, dropping empty elements.
func Split(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		if n := Normalize(part); n != "" {
			out = append(out, n)
		}
	}
	return out
}
