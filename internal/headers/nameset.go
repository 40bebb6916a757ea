package headers

import (
	"strings"

	"github.com/jub0bs/corspolicy/internal/util"
)

// A NameSet represents a set of header names.
// Membership is case-insensitive; elements are stored byte-lowercased.
// The zero value represents an empty set.
type NameSet struct {
	set util.Set
}

// NewNameSet returns a NameSet that contains all of names
// (modulo case) but no other elements.
func NewNameSet(names ...string) NameSet {
	var ns NameSet
	for _, name := range names {
		ns.Add(name)
	}
	return ns
}

// Add adds name to ns.
func (ns *NameSet) Add(name string) {
	ns.set.Add(util.ByteLowercase(name))
}

// Contains reports whether name, compared case-insensitively,
// is an element of ns.
func (ns NameSet) Contains(name string) bool {
	if len(name) > ns.set.MaxLen() {
		return false
	}
	if !util.IsByteLowercase(name) {
		name = util.ByteLowercase(name)
	}
	return ns.set.Contains(name)
}

// Size returns the cardinality of ns.
func (ns NameSet) Size() int {
	return ns.set.Size()
}

// ToSortedSlice returns the (byte-lowercase) elements of ns sorted in
// lexicographical order.
func (ns NameSet) ToSortedSlice() []string {
	return ns.set.ToSortedSlice()
}

// String joins the elements of ns (sorted in lexicographical order)
// with a comma and returns the resulting string.
func (ns NameSet) String() string {
	// The elements of a header-field value may be separated simply by commas;
	// since whitespace is optional, let's not use any.
	return strings.Join(ns.ToSortedSlice(), ValueSep)
}

// Equal reports whether ns and other contain the same names.
func (ns NameSet) Equal(other NameSet) bool {
	return ns.set.Equal(other.set)
}

// Accepts reports whether values is a sequence of [list-based field values]
// whose non-empty elements are all members of ns.
//
// The parameter is a slice of strings rather than just a string
// because, although [the Fetch standard] requires browsers to include at most
// one Access-Control-Request-Headers field line in CORS-preflight requests,
// some intermediaries may well (and [some reportedly do]) split it into
// multiple field lines. Each element of values may itself be a
// comma-separated list.
//
// Only a small number (1) of OWS bytes is tolerated before and/or after each
// element, and only a small number (16) of empty list elements is tolerated
// overall; this keeps the cost of adversarial inputs bounded.
//
// [list-based field values]: https://httpwg.org/specs/rfc9110.html#abnf.extension
// [some reportedly do]: https://github.com/rs/cors/issues/184
// [the Fetch standard]: https://fetch.spec.whatwg.org
func (ns NameSet) Accepts(values []string) bool {
	// +1 for comma; effectively constant
	maxLen := MaxOWSBytes + ns.set.MaxLen() + MaxOWSBytes + 1
	var (
		name          string
		commaFound    bool
		emptyElements int
		ok            bool
	)
	for _, s := range values {
		for {
			// As a defense against maliciously long names in s,
			// we process only a small number of s's leading bytes per iteration.
			name, s, commaFound = cutAtComma(s, maxLen)
			name, ok = TrimOWS(name, MaxOWSBytes)
			if !ok {
				return false
			}
			if name == "" {
				// RFC 9110 requires recipients to tolerate
				// "a reasonable number of empty list elements"; see
				// https://httpwg.org/specs/rfc9110.html#abnf.extension.recipient.
				emptyElements++
				if emptyElements > MaxEmptyElements {
					return false
				}
			} else if !ns.Contains(name) {
				return false
			}
			if !commaFound {
				break
			}
		}
	}
	return true
}

const (
	MaxOWSBytes      = 1  // number of leading/trailing OWS bytes tolerated
	MaxEmptyElements = 16 // number of empty list elements tolerated
)

// cutAtComma slices s around the first comma that appears among (up to) the
// first n bytes of s, returning the parts of s before and after the comma.
// The found result reports whether a comma appears in that portion of s.
// If no comma appears in that portion of s, cutAtComma returns s, "", false.
func cutAtComma(s string, n int) (before, after string, found bool) {
	end := min(len(s), n)
	if i := strings.IndexByte(s[:end], ','); i >= 0 {
		after = s[i+1:] // deal with this first to save one bounds check
		return s[:i], after, true
	}
	return s, "", false
}
