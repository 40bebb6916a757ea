package corspolicy

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/origins"
	"github.com/jub0bs/corspolicy/internal/util"
)

// A Policy is the compiled, immutable form of a valid [Config].
// Its query methods are what a CORS middleware evaluates for each request;
// they never fail and are safe for concurrent use by multiple goroutines.
//
// To replace a Policy at run time, compile a new one and publish it through
// a [Holder]; never attempt to mutate a Policy in place.
type Policy struct {
	cfg        Config // defensive copy
	matcher    origins.Matcher
	methods    util.Set
	headers    headers.NameSet
	acam       string
	acah       string
	aceh       string
	acma       string
	transforms []Transform
}

// A Transform records a legalizing rewrite that [Compile] performed on an
// Any rule because credentialed access is enabled.
type Transform struct {
	Dimension string // see the cfgerrors.Dim* constants
	From      string
	To        string
}

func (t Transform) String() string {
	return t.Dimension + ": " + t.From + " -> " + t.To
}

// Compile turns cfg into an immutable [Policy].
//
// It first re-asserts the shape of cfg's rules (which matters if cfg was not
// obtained via [ParseDocument]) and fails with one or more
// [*cfgerrors.ConfigShapeError] values if necessary; it then runs [Validate].
// No partial policy is ever produced: if err is non-nil, the resulting
// [*Policy] is nil.
//
// Mutating the fields of cfg after Compile has returned does not alter
// the resulting policy's behavior. Compile is deterministic.
func Compile(cfg *Config) (*Policy, error) {
	var p Policy
	if err := p.build(cfg); err != nil {
		return nil, err
	}
	if err := Validate(&p.cfg); err != nil {
		return nil, err
	}
	p.render()
	return &p, nil
}

// build normalizes the rules of cfg by running them back through the
// dimension parsers and stores the result in p.
func (p *Policy) build(cfg *Config) error {
	var errs []error
	c := Config{
		Credentials:                        cfg.Credentials,
		MaxAgeSeconds:                      cfg.MaxAgeSeconds,
		HasMaxAge:                          cfg.HasMaxAge,
		PrivateNetwork:                     cfg.PrivateNetwork,
		ReflectWildcardWithCredentials:     cfg.ReflectWildcardWithCredentials,
		TolerateSubdomainsOfPublicSuffixes: cfg.TolerateSubdomainsOfPublicSuffixes,
		VaryOrigin:                         cfg.VaryOrigin,
	}
	var err error
	if c.Origins, err = reparse(cfgerrors.DimOrigins, cfg.Origins.Kind, cfg.Origins.Origins, ParseOrigins, Any, Exact, Pattern); err != nil {
		errs = append(errs, err)
	}
	if c.Methods, err = reparse(cfgerrors.DimMethods, cfg.Methods.Kind, cfg.Methods.Methods, ParseMethods, Any, Exact, Mirror); err != nil {
		errs = append(errs, err)
	}
	if c.Headers, err = reparse(cfgerrors.DimHeaders, cfg.Headers.Kind, cfg.Headers.Names, ParseAllowedHeaders, Any, Exact, Mirror); err != nil {
		errs = append(errs, err)
	}
	if c.ExposedHeaders, err = reparse(cfgerrors.DimExposedHeaders, cfg.ExposedHeaders.Kind, cfg.ExposedHeaders.Names, ParseExposedHeaders, Any, Exact, Mirror); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	p.cfg = c
	return nil
}

// reparse checks that kind is acceptable for dimension dim and that elems is
// consistent with kind, and returns the rule that parse yields for the
// canonical value of (kind, elems).
func reparse[R any](
	dim string,
	kind RuleKind,
	elems []string,
	parse func(any) (R, error),
	kinds ...RuleKind,
) (R, error) {
	var zero R
	if kind != DenyAll && !slices.Contains(kinds, kind) {
		return zero, typeError(dim, kind.String())
	}
	switch kind {
	case Exact, Pattern:
		if len(elems) == 0 {
			return zero, elemError(dim, elems, "invalid")
		}
	default:
		if len(elems) != 0 {
			return zero, elemError(dim, elems, "invalid")
		}
	}
	r, err := parse(ruleValue(kind, elems))
	if err != nil {
		return zero, err
	}
	return r, nil
}

// render precomputes the matchers and header values of p.
func (p *Policy) render() {
	cfg := &p.cfg
	if cfg.Origins.Kind == Exact || cfg.Origins.Kind == Pattern {
		ps := make([]origins.Pattern, 0, len(cfg.Origins.Origins))
		for _, raw := range cfg.Origins.Origins {
			pattern, err := origins.ParsePattern(raw)
			if err != nil { // precluded by build
				continue
			}
			ps = append(ps, pattern)
		}
		p.matcher = origins.NewMatcher(ps...)
	}
	if cfg.Methods.Kind == Exact {
		p.methods = util.NewSet(cfg.Methods.Methods...)
		// The elements of a header-field value may be separated simply by
		// commas; since whitespace is optional, let's not use any.
		p.acam = strings.Join(cfg.Methods.Methods, headers.ValueSep)
	}
	if cfg.Headers.Kind == Exact {
		p.headers = headers.NewNameSet(cfg.Headers.Names...)
		p.acah = p.headers.String()
	}
	switch cfg.ExposedHeaders.Kind {
	case Any:
		p.aceh = headers.ValueWildcard
	case Exact:
		p.aceh = strings.Join(cfg.ExposedHeaders.Names, headers.ValueSep)
	}
	if cfg.HasMaxAge {
		p.acma = strconv.Itoa(cfg.MaxAgeSeconds)
	}
	if cfg.Credentials && cfg.ReflectWildcardWithCredentials {
		if cfg.Origins.Kind == Any {
			p.transforms = append(p.transforms, Transform{
				Dimension: cfgerrors.DimOrigins,
				From:      markerAny,
				To:        "reflect request origin",
			})
		}
		if cfg.Methods.Kind == Any {
			p.transforms = append(p.transforms, Transform{
				Dimension: cfgerrors.DimMethods,
				From:      markerAny,
				To:        "reflect requested method",
			})
		}
		if cfg.Headers.Kind == Any {
			p.transforms = append(p.transforms, Transform{
				Dimension: cfgerrors.DimHeaders,
				From:      markerAny,
				To:        "reflect requested headers",
			})
		}
	}
}

// Config returns a pointer to a deep copy of the [Config] from which p was
// compiled, in normalized form. The following statement is guaranteed
// to succeed and to yield an equivalent policy:
//
//	Compile(p.Config())
func (p *Policy) Config() *Config {
	cfg := p.cfg
	cfg.Origins = cfg.Origins.clone()
	cfg.Methods = cfg.Methods.clone()
	cfg.Headers = cfg.Headers.clone()
	cfg.ExposedHeaders = cfg.ExposedHeaders.clone()
	return &cfg
}

// Document re-derives the dimension shapes of p. Compiling the result yields
// a policy with the same semantics as p; in particular, configurations
// that differ only in form (e.g. "*" and ["*"]) produce identical documents.
func (p *Policy) Document() Document {
	return p.cfg.Document()
}

// Transforms returns the legalizing rewrites performed while compiling p,
// if any.
func (p *Policy) Transforms() []Transform {
	return slices.Clone(p.transforms)
}

// Credentials reports whether p allows credentialed access.
func (p *Policy) Credentials() bool {
	return p.cfg.Credentials
}

// MaxAge returns the max-age (in seconds) of p, if any.
// If ok is false, no Access-Control-Max-Age header should be sent
// and browsers apply their default.
func (p *Policy) MaxAge() (seconds int, ok bool) {
	return p.cfg.MaxAgeSeconds, p.cfg.HasMaxAge
}

// PrivateNetwork reports whether p allows [Private-Network Access].
//
// [Private-Network Access]: https://wicg.github.io/private-network-access/
func (p *Policy) PrivateNetwork() bool {
	return p.cfg.PrivateNetwork
}

// VaryOrigin reports whether responses to CORS requests should list Origin
// in their Vary header: either because the policy's Access-Control-Allow-Origin
// value depends on the request's origin, or because the vary_origin toggle
// is set.
func (p *Policy) VaryOrigin() bool {
	switch {
	case p.cfg.VaryOrigin:
		return true
	case p.cfg.Origins.Kind == Exact, p.cfg.Origins.Kind == Pattern:
		return true
	case p.cfg.Origins.Kind == Any:
		return p.cfg.Credentials
	default:
		return false
	}
}

// ExposeHeaders returns the exposed-header rule of p.
// Its Kind is never Mirror.
func (p *Policy) ExposeHeaders() HeaderRule {
	return p.cfg.ExposedHeaders.clone()
}

// ExposeHeadersValue returns the value of the Access-Control-Expose-Headers
// header for responses to actual CORS requests, or the empty string if that
// header should be omitted. It does not depend on the request.
func (p *Policy) ExposeHeadersValue() string {
	return p.aceh
}
