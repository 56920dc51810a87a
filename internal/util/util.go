// Package util holds small helpers shared by the rest of civrules.
package util

import (
	"sort"
	"strings"
)

// MakeTextList gives a nice list of things, joined by commas and with "and"
// before the last one. If there are more than two items, an oxford comma is
// used.
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}

	withAnd := make([]string, len(items))
	copy(withAnd, items)
	withAnd[len(withAnd)-1] = "and " + withAnd[len(withAnd)-1]
	return strings.Join(withAnd, ", ")
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortBy returns a copy of sl sorted stably using the given less function.
func SortBy[E any](sl []E, less func(l, r E) bool) []E {
	sorted := make([]E, len(sl))
	copy(sorted, sl)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// Truncate shortens s to at most n runes, ending it with "..." if anything
// was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
