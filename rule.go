package corspolicy

import "slices"

// A RuleKind identifies the variant of an [OriginRule], [MethodRule], or
// [HeaderRule]. The zero value, DenyAll, allows nothing.
type RuleKind uint8

const (
	DenyAll RuleKind = iota // nothing is allowed
	Any                     // everything is allowed
	Exact                   // only the listed values are allowed
	Pattern                 // listed values, some of which are wildcard origin patterns
	Mirror                  // whatever the request asks for is allowed
)

var ruleKindNames = [...]string{
	DenyAll: "deny-all",
	Any:     "any",
	Exact:   "exact",
	Pattern: "pattern",
	Mirror:  "mirror",
}

func (k RuleKind) String() string {
	if int(k) < len(ruleKindNames) {
		return ruleKindNames[k]
	}
	return "unknown"
}

// An OriginRule specifies which [Web origins] are allowed.
// Kind may only be DenyAll, Any, Exact, or Pattern.
// Origins must be non-empty if and only if Kind is Exact or Pattern;
// a Pattern rule may mix exact origins and wildcard patterns.
//
// [Web origins]: https://developer.mozilla.org/en-US/docs/Glossary/Origin
type OriginRule struct {
	Kind    RuleKind
	Origins []string
}

// A MethodRule specifies which HTTP methods are allowed.
// Kind may only be DenyAll, Any, Exact, or Mirror; a Mirror rule allows
// whichever non-forbidden method a preflight request asks for.
// Methods must be non-empty if and only if Kind is Exact.
type MethodRule struct {
	Kind    RuleKind
	Methods []string
}

// A HeaderRule specifies a set of header names, either allowed in requests
// or exposed in responses. Kind may only be DenyAll, Any, Exact, or Mirror;
// Mirror is only meaningful for allowed request headers.
// Names must be non-empty if and only if Kind is Exact.
// Header names are case-insensitive; their canonical form is byte-lowercase.
type HeaderRule struct {
	Kind  RuleKind
	Names []string
}

func (r OriginRule) clone() OriginRule {
	r.Origins = slices.Clone(r.Origins)
	return r
}

func (r MethodRule) clone() MethodRule {
	r.Methods = slices.Clone(r.Methods)
	return r
}

func (r HeaderRule) clone() HeaderRule {
	r.Names = slices.Clone(r.Names)
	return r
}
