package projection

import "sort"

// addToSet inserts value into a sorted string set. Adding an already-present
// value is a no-op, so folds stay idempotent under duplicate extraction.
func addToSet(set []string, value string) []string {
	i := sort.SearchStrings(set, value)
	if i < len(set) && set[i] == value {
		return set
	}
	set = append(set, "")
	copy(set[i+1:], set[i:])
	set[i] = value
	return set
}

// removeFromSet deletes value from a sorted string set. Removing an absent
// value is a no-op, never an error.
func removeFromSet(set []string, value string) []string {
	i := sort.SearchStrings(set, value)
	if i >= len(set) || set[i] != value {
		return set
	}
	return append(set[:i], set[i+1:]...)
}
