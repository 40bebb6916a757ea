package util

import (
	"maps"
	"slices"
)

// A Set represents a set of strings.
// Membership tests are O(1) on average.
// The zero value represents an empty set.
type Set struct {
	m      map[string]struct{}
	maxLen int
}

// NewSet returns a Set that contains all of elems
// but no other elements.
func NewSet(elems ...string) (set Set) {
	for _, e := range elems {
		set.Add(e)
	}
	return
}

// Add adds e to set.
func (set *Set) Add(e string) {
	if set.m == nil {
		set.m = make(map[string]struct{})
	}
	set.m[e] = struct{}{}
	set.maxLen = max(set.maxLen, len(e))
}

// Contains reports whether e is an element of set.
func (set Set) Contains(e string) bool {
	// Elements longer than the longest element cannot possibly be in the set;
	// this check spares us hashing maliciously long inputs.
	if len(e) > set.maxLen {
		return false
	}
	_, found := set.m[e]
	return found
}

// Size returns the cardinality of set.
func (set Set) Size() int {
	return len(set.m)
}

// MaxLen returns the length of set's longest element,
// or 0 if set is empty.
func (set Set) MaxLen() int {
	return set.maxLen
}

// ToSortedSlice returns a slice of set's elements sorted in lexicographical
// order. The result is a fresh slice that callers may mutate.
func (set Set) ToSortedSlice() []string {
	return slices.Sorted(maps.Keys(set.m))
}

// Equal reports whether set and other contain the same elements.
func (set Set) Equal(other Set) bool {
	if len(set.m) != len(other.m) {
		return false
	}
	for e := range set.m {
		if _, found := other.m[e]; !found {
			return false
		}
	}
	return true
}
