package sync

import "sort"

// SelectCanonical picks exactly one path from a non-empty candidate set:
// shortest path first, ties broken by lexicographic byte order.
//
// The order is a compatibility contract. Duplicates are never merged or
// deleted, only reported, so repeated runs against an unchanged candidate
// set must keep mutating the same document; changing this rule would
// silently re-pick which duplicate is canonical.
func SelectCanonical(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	best := paths[0]
	for _, p := range paths[1:] {
		if pathLess(p, best) {
			best = p
		}
	}
	return best
}

// SortCanonical orders paths by the canonical rule, for stable reporting.
func SortCanonical(paths []string) []string {
	out := make([]string, len(paths))
	copy(out, paths)
	sort.Slice(out, func(i, j int) bool { return pathLess(out[i], out[j]) })
	return out
}

func pathLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
