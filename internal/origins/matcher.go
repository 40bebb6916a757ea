package origins

import (
	"slices"
	"strings"

	"github.com/jub0bs/corspolicy/internal/util"
)

// A Match describes how an origin was matched by a [Matcher].
type Match uint8

const (
	NoMatch      Match = iota // the origin is not allowed
	ExactMatch                // the origin is one of the exact origins
	PatternMatch              // the origin matches some wildcard pattern
)

// A Matcher represents a compiled set of origin patterns.
// Exact origins are looked up in a hash set first; wildcard patterns are then
// tried in turn, each by a single prefix/suffix comparison.
// The zero value matches no origin. Matchers are safe for concurrent use.
type Matcher struct {
	exact    util.Set
	patterns []wildcard
}

type wildcard struct {
	prefix string // scheme and scheme-host separator; empty for any scheme
	suffix string // base domain, including leading period, and port (if any)
	src    string
}

// NewMatcher returns a Matcher for the union of patterns.
func NewMatcher(patterns ...Pattern) Matcher {
	var m Matcher
	seen := make(map[string]struct{})
	for i := range patterns {
		p := &patterns[i]
		str := p.String()
		if p.IsExact() {
			m.exact.Add(str)
			continue
		}
		if _, found := seen[str]; found {
			continue
		}
		seen[str] = struct{}{}
		w := wildcard{
			suffix: strings.TrimPrefix(p.HostPattern, subdomainWildcard),
			src:    str,
		}
		if p.Scheme != "" {
			w.prefix = p.Scheme + schemeHostSep
		}
		if p.Port != 0 {
			var sb strings.Builder
			sb.WriteString(w.suffix)
			sb.WriteByte(hostPortSep)
			writeInt(&sb, p.Port)
			w.suffix = sb.String()
		}
		m.patterns = append(m.patterns, w)
	}
	slices.SortFunc(m.patterns, func(a, b wildcard) int {
		return strings.Compare(a.src, b.src)
	})
	return m
}

// Match reports whether and how origin is matched by m.
// Exact origins are compared byte for byte; browsers always send origins
// in serialized (lowercase) form.
func (m *Matcher) Match(origin string) Match {
	if len(origin) > MaxOriginLen {
		return NoMatch
	}
	if m.exact.Contains(origin) {
		return ExactMatch
	}
	for i := range m.patterns {
		if m.patterns[i].matches(origin) {
			return PatternMatch
		}
	}
	return NoMatch
}

func (w *wildcard) matches(origin string) bool {
	var (
		hostPort string
		ok       bool
	)
	if w.prefix == "" {
		var scheme string
		scheme, hostPort, ok = strings.Cut(origin, schemeHostSep)
		if !ok || !isScheme(scheme) {
			return false
		}
	} else {
		hostPort, ok = strings.CutPrefix(origin, w.prefix)
		if !ok {
			return false
		}
	}
	sub, ok := strings.CutSuffix(hostPort, w.suffix)
	return ok && isSubdomainLabels(sub)
}

func isScheme(s string) bool {
	if s == "" || len(s) > maxSchemeLen || !isLowerAlpha(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isSubsequentSchemeByte(s[i]) {
			return false
		}
	}
	return true
}

// isSubdomainLabels reports whether s is a non-empty sequence of
// period-separated, non-empty DNS labels.
func isSubdomainLabels(s string) bool {
	if s == "" || s[0] == labelSep || s[len(s)-1] == labelSep {
		return false
	}
	var prev byte
	for i := range len(s) {
		c := s[i]
		if !isDomainByte(c) || c == labelSep && prev == labelSep {
			return false
		}
		prev = c
	}
	return true
}

// IsEmpty reports whether m matches no origin at all.
func (m *Matcher) IsEmpty() bool {
	return m.exact.Size() == 0 && len(m.patterns) == 0
}

// Elems returns the textual representations of m's exact origins followed by
// those of its wildcard patterns, each group sorted lexicographically.
func (m *Matcher) Elems() []string {
	res := m.exact.ToSortedSlice()
	for _, w := range m.patterns {
		res = append(res, w.src)
	}
	return res
}
