package corspolicy

import (
	"strings"

	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/methods"
	"github.com/jub0bs/corspolicy/internal/origins"
)

// An Outcome is the verdict of [*Policy.Origin].
type Outcome uint8

const (
	// Denied means that the response should carry no
	// Access-Control-Allow-Origin header.
	Denied Outcome = iota
	// AllowedStatic means that the response should carry an
	// Access-Control-Allow-Origin header whose value does not depend on
	// anything but the origin's membership in a fixed list.
	AllowedStatic
	// AllowedReflect means that the response should carry an
	// Access-Control-Allow-Origin header that echoes the request's origin.
	AllowedReflect
)

func (o Outcome) String() string {
	switch o {
	case AllowedStatic:
		return "allowed (static)"
	case AllowedReflect:
		return "allowed (reflect)"
	default:
		return "denied"
	}
}

// An OriginDecision is the result of [*Policy.Origin].
type OriginDecision struct {
	Outcome Outcome
	// Value is the value of the Access-Control-Allow-Origin header,
	// or the empty string if Outcome is Denied.
	Value string
	// Credentials reports whether an Access-Control-Allow-Credentials
	// header (with value "true") should accompany Value.
	Credentials bool
	// Vary reports whether the response should list Origin in its Vary
	// header. It does not depend on Outcome; see [*Policy.VaryOrigin].
	Vary bool
}

// Origin decides whether a request from origin is allowed. It never fails
// and performs no heap allocation.
//
// When p allows all origins without credentials, the decision is
// AllowedStatic with value "*"; with credentials (which requires explicit
// reflection), the decision is AllowedReflect with the origin itself as
// value, so that a credentialed response never carries the wildcard.
//
// Origin expects a serialized origin (scheme, host, and optional port);
// a bare host such as "example.com" is never allowed by an exact or
// pattern rule.
func (p *Policy) Origin(origin string) OriginDecision {
	d := p.decideOrigin(origin)
	d.Vary = p.VaryOrigin()
	return d
}

func (p *Policy) decideOrigin(origin string) OriginDecision {
	if origin == "" {
		return OriginDecision{}
	}
	switch p.cfg.Origins.Kind {
	case Any:
		if p.cfg.Credentials {
			return OriginDecision{
				Outcome:     AllowedReflect,
				Value:       origin,
				Credentials: true,
			}
		}
		return OriginDecision{
			Outcome: AllowedStatic,
			Value:   headers.ValueWildcard,
		}
	case Exact, Pattern:
		var outcome Outcome
		switch p.matcher.Match(origin) {
		case origins.ExactMatch:
			outcome = AllowedStatic
		case origins.PatternMatch:
			outcome = AllowedReflect
		default:
			return OriginDecision{}
		}
		return OriginDecision{
			Outcome:     outcome,
			Value:       origin,
			Credentials: p.cfg.Credentials,
		}
	default:
		return OriginDecision{}
	}
}

// A PreflightDecision is the result of [*Policy.Preflight].
// Each of its string fields holds the value of the corresponding response
// header; the empty string means that the header should be omitted.
type PreflightDecision struct {
	Allowed bool
	// Methods is the value of Access-Control-Allow-Methods.
	Methods string
	// Headers is the value of Access-Control-Allow-Headers.
	Headers string
	// MaxAge is the value of Access-Control-Max-Age.
	MaxAge string
	// PrivateNetwork reports whether Access-Control-Allow-Private-Network
	// should be set to "true" (if the request asked for it).
	PrivateNetwork bool
}

// Preflight decides whether a CORS-preflight request for method and
// requestedHeaders is allowed. The requestedHeaders parameter holds the
// field lines of the request's Access-Control-Request-Headers header,
// each of which may be a comma-separated list.
// Preflight says nothing about the request's origin; see [*Policy.Origin].
//
// The [CORS-safelisted methods] (GET, HEAD, and POST) always pass the
// method check.
//
// [CORS-safelisted methods]: https://fetch.spec.whatwg.org/#cors-safelisted-method
func (p *Policy) Preflight(method string, requestedHeaders []string) PreflightDecision {
	var d PreflightDecision
	var ok bool
	if d.Methods, ok = p.checkMethod(method); !ok {
		return PreflightDecision{}
	}
	if d.Headers, ok = p.checkHeaders(requestedHeaders); !ok {
		return PreflightDecision{}
	}
	d.Allowed = true
	d.MaxAge = p.acma
	d.PrivateNetwork = p.cfg.PrivateNetwork
	return d
}

func (p *Policy) checkMethod(method string) (acam string, ok bool) {
	if !methods.IsValid(method) {
		return "", false
	}
	switch p.cfg.Methods.Kind {
	case Any:
		if p.cfg.Credentials {
			return method, true
		}
		return headers.ValueWildcard, true
	case Exact:
		if p.methods.Contains(methods.Normalize(method)) {
			return p.acam, true
		}
	case Mirror:
		return method, !methods.IsForbidden(method)
	}
	return p.acam, methods.IsSafelisted(method)
}

func (p *Policy) checkHeaders(lines []string) (acah string, ok bool) {
	switch p.cfg.Headers.Kind {
	case Any:
		if p.cfg.Credentials {
			return reflectHeaders(lines), true
		}
		// The wildcard does not cover Authorization;
		// see https://fetch.spec.whatwg.org/#cors-non-wildcard-request-header-name.
		if mentions(lines, headers.Authorization) {
			return headers.ValueWildcard + headers.ValueSep + headers.Authorization, true
		}
		return headers.ValueWildcard, true
	case Mirror:
		return reflectHeaders(lines), true
	case Exact:
		if p.headers.Accepts(lines) {
			if isEmptyList(lines) {
				return "", true
			}
			return p.acah, true
		}
		return "", false
	default:
		return "", isEmptyList(lines)
	}
}

var emptyNameSet headers.NameSet

// isEmptyList reports whether lines contain no header name at all.
func isEmptyList(lines []string) bool {
	return emptyNameSet.Accepts(lines)
}

// mentions reports whether name (byte-lowercase) is an element of lines.
func mentions(lines []string, name string) bool {
	for _, line := range lines {
		for line != "" {
			var elem string
			elem, line, _ = strings.Cut(line, headers.ValueSep)
			if strings.EqualFold(strings.Trim(elem, " \t"), name) {
				return true
			}
		}
	}
	return false
}

// reflectHeaders echoes the requested header names.
func reflectHeaders(lines []string) string {
	if isEmptyList(lines) {
		return ""
	}
	if len(lines) == 1 {
		return lines[0]
	}
	return strings.Join(lines, headers.ValueSep)
}
