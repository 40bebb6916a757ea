package corspolicy

import (
	"fmt"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/jub0bs/corspolicy/internal/origins"
)

// maxMaxAge is the largest max-age value (in seconds) that browsers honor;
// see https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds.
const maxMaxAge = 86400

// A Config is the parsed, but not necessarily valid, form of a [Document].
// Each of its first five fields corresponds to one dimension of a CORS policy.
// The zero value of each rule allows nothing.
//
// A Config is typically obtained via [ParseDocument] but may also be
// constructed directly; in both cases, it must go through [Compile]
// before it can be enforced.
//
// # Origins
//
// An Any rule allows all [Web origins]. Exact and Pattern rules allow the
// listed origins, which must be in [ASCII serialized form]. A Pattern rule
// may also list wildcard patterns, in which a leading asterisk followed by a
// period denotes one or more period-separated DNS labels:
//
//	https://*.example.com // encompasses https://foo.example.com, https://bar.foo.example.com
//	*.example.com         // same, but for any scheme
//
// A pattern never encompasses its base domain (here, example.com).
//
// # Credentials
//
// Credentials allows [credentialed access]. For [security reasons],
// the CORS protocol forbids the wildcard as the value of
// Access-Control-Allow-Origin in responses to credentialed requests;
// likewise for the wildcard as the value of Access-Control-Allow-Methods
// and Access-Control-Allow-Headers. Therefore, Any rules for those
// dimensions are prohibited when Credentials is set, unless
// ReflectWildcardWithCredentials is also set, in which case [Compile]
// turns them into reflection of the corresponding request values and
// records each such rewrite as a [Transform].
//
// Exposing all response headers is prohibited when Credentials is set.
//
// # MaxAgeSeconds
//
// MaxAgeSeconds, only considered when HasMaxAge is set, instructs browsers
// to cache preflight responses for a duration no longer than the specified
// number of seconds. Because modern browsers [cap the max-age value],
// values larger than 86400 are prohibited; so are negative values.
//
// # VaryOrigin
//
// VaryOrigin requests that every response to a CORS request list Origin in
// its Vary header, even when the policy's responses do not otherwise depend
// on the request's origin (see [Policy.VaryOrigin]).
//
// # TolerateSubdomainsOfPublicSuffixes
//
// Allowing arbitrary subdomains of a [public suffix] (e.g. *.com or
// *.github.io) is dangerous, because such domains are typically registrable by
// anyone, including attackers; doing so is prohibited unless
// TolerateSubdomainsOfPublicSuffixes is set.
//
// [ASCII serialized form]: https://html.spec.whatwg.org/multipage/browsers.html#ascii-serialisation-of-an-origin
// [Web origins]: https://developer.mozilla.org/en-US/docs/Glossary/Origin
// [cap the max-age value]: https://developer.mozilla.org/en-US/docs/Web/HTTP/Headers/Access-Control-Max-Age#delta-seconds
// [credentialed access]: https://fetch.spec.whatwg.org/#concept-request-credentials-mode
// [public suffix]: https://publicsuffix.org/
// [security reasons]: https://portswigger.net/research/exploiting-cors-misconfigurations-for-bitcoins-and-bounties
type Config struct {
	// Precludes comparability, unkeyed struct literals, and conversion to and
	// from third-party types.
	_                                  [0]func()
	Origins                            OriginRule
	Methods                            MethodRule
	Headers                            HeaderRule
	ExposedHeaders                     HeaderRule
	Credentials                        bool
	MaxAgeSeconds                      int
	HasMaxAge                          bool
	PrivateNetwork                     bool
	ReflectWildcardWithCredentials     bool
	TolerateSubdomainsOfPublicSuffixes bool
	VaryOrigin                         bool
}

// Validate checks the cross-dimension consistency of cfg and fails fast:
// it returns a [*cfgerrors.PolicyConflict] describing the first violated
// rule, or nil. The rules are checked in the following order:
//
//  1. credentials and an Any origin rule (unless reflection is enabled);
//  2. credentials and an Any header or method rule (likewise);
//  3. exposed headers that mirror the request;
//  4. a negative or overly large max-age;
//  5. credentials and an Any exposed-header rule;
//  6. wildcard patterns whose base domain is a public suffix.
//
// Validate does not check the shape of cfg's rules; [Compile] does.
func Validate(cfg *Config) error {
	if cfg.Credentials && !cfg.ReflectWildcardWithCredentials {
		if cfg.Origins.Kind == Any {
			return conflict(cfgerrors.DimOrigins, cfgerrors.DimCredentials,
				`"*" cannot be combined with credentialed access; list origins explicitly or set `+cfgerrors.DimReflect)
		}
		if cfg.Headers.Kind == Any {
			return conflict(cfgerrors.DimHeaders, cfgerrors.DimCredentials,
				`"*" cannot be combined with credentialed access; list header names explicitly or set `+cfgerrors.DimReflect)
		}
		if cfg.Methods.Kind == Any {
			return conflict(cfgerrors.DimMethods, cfgerrors.DimCredentials,
				`"*" cannot be combined with credentialed access; list methods explicitly or set `+cfgerrors.DimReflect)
		}
	}
	if cfg.ExposedHeaders.Kind == Mirror {
		return conflict(cfgerrors.DimExposedHeaders, cfgerrors.DimHeaders,
			"only allowed request headers can mirror the request")
	}
	if cfg.HasMaxAge {
		if cfg.MaxAgeSeconds < 0 {
			return conflict(cfgerrors.DimMaxAge, "lower bound",
				fmt.Sprintf("%d is negative", cfg.MaxAgeSeconds))
		}
		if cfg.MaxAgeSeconds > maxMaxAge {
			return conflict(cfgerrors.DimMaxAge, "browser cap",
				fmt.Sprintf("%d exceeds %d", cfg.MaxAgeSeconds, maxMaxAge))
		}
	}
	if cfg.Credentials && cfg.ExposedHeaders.Kind == Any {
		return conflict(cfgerrors.DimExposedHeaders, cfgerrors.DimCredentials,
			`"*" has no wildcard meaning for credentialed requests`)
	}
	if cfg.Origins.Kind == Pattern && !cfg.TolerateSubdomainsOfPublicSuffixes {
		for _, raw := range cfg.Origins.Origins {
			p, err := origins.ParsePattern(raw)
			if err != nil { // reported by Compile
				continue
			}
			if p.BaseIsPublicSuffix() {
				return conflict(cfgerrors.DimOrigins, "public suffix",
					fmt.Sprintf("%q encompasses subdomains of a public suffix; set %s to allow it", raw, cfgerrors.DimTolerancePSL))
			}
		}
	}
	return nil
}

func conflict(ruleA, ruleB, reason string) error {
	return &cfgerrors.PolicyConflict{
		RuleA:  ruleA,
		RuleB:  ruleB,
		Reason: reason,
	}
}

// Document re-derives a canonical [Document] from cfg.
// Deny-all rules are rendered as "none"; disabled toggles are omitted.
func (cfg *Config) Document() Document {
	doc := Document{
		AllowedOrigins:   ruleValue(cfg.Origins.Kind, cfg.Origins.Origins),
		AllowedMethods:   ruleValue(cfg.Methods.Kind, cfg.Methods.Methods),
		AllowedHeaders:   ruleValue(cfg.Headers.Kind, cfg.Headers.Names),
		ExposedHeaders:   ruleValue(cfg.ExposedHeaders.Kind, cfg.ExposedHeaders.Names),
		AllowCredentials: cfg.Credentials,
	}
	if cfg.HasMaxAge {
		doc.MaxAgeSeconds = cfg.MaxAgeSeconds
	}
	if cfg.PrivateNetwork {
		doc.AllowPrivateNetwork = true
	}
	if cfg.ReflectWildcardWithCredentials {
		doc.ReflectWildcardWithCredentials = true
	}
	if cfg.TolerateSubdomainsOfPublicSuffixes {
		doc.TolerateSubdomainsOfPublicSuffixes = true
	}
	if cfg.VaryOrigin {
		doc.VaryOrigin = true
	}
	return doc
}

func ruleValue(kind RuleKind, elems []string) any {
	switch kind {
	case Any:
		return markerAny
	case Mirror:
		return markerMirror
	case Exact, Pattern:
		// a fresh slice, so that callers may mutate it
		return append([]string(nil), elems...)
	default:
		return markerNone
	}
}
