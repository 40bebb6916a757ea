package corspolicy

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/jub0bs/corspolicy/internal/headers"
	"github.com/jub0bs/corspolicy/internal/methods"
	"github.com/jub0bs/corspolicy/internal/origins"
	"github.com/jub0bs/corspolicy/internal/util"
	"github.com/spf13/cast"
)

// ParseDocument parses every dimension of doc independently.
// If one or more dimensions have an unrecognized shape, it returns a nil
// [*Config] and the corresponding [*cfgerrors.ConfigShapeError] values joined
// together; otherwise, it returns a [*Config] that is yet to be validated
// (see [Validate] and [Compile]).
func ParseDocument(doc Document) (*Config, error) {
	var (
		cfg  Config
		errs []error
		err  error
	)
	// Accumulate errors in a slice so as to call errors.Join at most once.
	if cfg.Origins, err = ParseOrigins(doc.AllowedOrigins); err != nil {
		errs = append(errs, err)
	}
	if cfg.Methods, err = ParseMethods(doc.AllowedMethods); err != nil {
		errs = append(errs, err)
	}
	if cfg.Headers, err = ParseAllowedHeaders(doc.AllowedHeaders); err != nil {
		errs = append(errs, err)
	}
	if cfg.ExposedHeaders, err = ParseExposedHeaders(doc.ExposedHeaders); err != nil {
		errs = append(errs, err)
	}
	if cfg.Credentials, err = ParseCredentials(doc.AllowCredentials); err != nil {
		errs = append(errs, err)
	}
	if cfg.MaxAgeSeconds, cfg.HasMaxAge, err = ParseMaxAge(doc.MaxAgeSeconds); err != nil {
		errs = append(errs, err)
	}
	if cfg.PrivateNetwork, err = parseBool(cfgerrors.DimPrivateNetwork, doc.AllowPrivateNetwork); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReflectWildcardWithCredentials, err = parseBool(cfgerrors.DimReflect, doc.ReflectWildcardWithCredentials); err != nil {
		errs = append(errs, err)
	}
	if cfg.TolerateSubdomainsOfPublicSuffixes, err = parseBool(cfgerrors.DimTolerancePSL, doc.TolerateSubdomainsOfPublicSuffixes); err != nil {
		errs = append(errs, err)
	}
	if cfg.VaryOrigin, err = parseBool(cfgerrors.DimVaryOrigin, doc.VaryOrigin); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &cfg, nil
}

// ParseOrigins parses the value of the allowed_origins dimension.
// A sequence that contains "*" amounts to "*". Exact origins and wildcard
// patterns are stored in canonical (byte-lowercase) form, without duplicates.
func ParseOrigins(v any) (OriginRule, error) {
	const dim = cfgerrors.DimOrigins
	marker, elems, err := sequence(dim, v)
	if err != nil {
		return OriginRule{}, err
	}
	switch marker {
	case "": // sequence
	case markerAny:
		return OriginRule{Kind: Any}, nil
	case markerNone:
		return OriginRule{}, nil
	default:
		return OriginRule{}, typeError(dim, v)
	}
	var (
		patterns  []origins.Pattern
		anyOrigin bool
		wildcard  bool
		errs      []error
	)
	for _, raw := range elems {
		switch raw {
		case "":
			errs = append(errs, emptyError(dim))
			continue
		case markerAny:
			anyOrigin = true
			continue
		}
		p, err := origins.ParsePattern(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		wildcard = wildcard || !p.IsExact()
		patterns = append(patterns, p)
	}
	if len(errs) > 0 {
		return OriginRule{}, errors.Join(errs...)
	}
	if anyOrigin {
		return OriginRule{Kind: Any}, nil
	}
	if len(patterns) == 0 {
		return OriginRule{}, nil
	}
	m := origins.NewMatcher(patterns...)
	kind := Exact
	if wildcard {
		kind = Pattern
	}
	return OriginRule{Kind: kind, Origins: m.Elems()}, nil
}

// ParseMethods parses the value of the allowed_methods dimension.
// Method names are normalized to uppercase; duplicates collapse.
func ParseMethods(v any) (MethodRule, error) {
	const dim = cfgerrors.DimMethods
	marker, elems, err := sequence(dim, v)
	if err != nil {
		return MethodRule{}, err
	}
	switch marker {
	case "": // sequence
	case markerAny:
		return MethodRule{Kind: Any}, nil
	case markerNone:
		return MethodRule{}, nil
	case markerMirror:
		return MethodRule{Kind: Mirror}, nil
	default:
		return MethodRule{}, typeError(dim, v)
	}
	var (
		set       util.Set
		anyMethod bool
		errs      []error
	)
	for _, raw := range elems {
		switch {
		case raw == "":
			errs = append(errs, emptyError(dim))
		case raw == markerAny:
			anyMethod = true
		case !methods.IsValid(raw):
			errs = append(errs, elemError(dim, raw, "invalid"))
		case methods.IsForbidden(raw):
			errs = append(errs, elemError(dim, raw, "forbidden"))
		default:
			set.Add(methods.Normalize(raw))
		}
	}
	if len(errs) > 0 {
		return MethodRule{}, errors.Join(errs...)
	}
	if anyMethod {
		return MethodRule{Kind: Any}, nil
	}
	if set.Size() == 0 {
		return MethodRule{}, nil
	}
	return MethodRule{Kind: Exact, Methods: set.ToSortedSlice()}, nil
}

// ParseAllowedHeaders parses the value of the allowed_headers dimension.
// Header names are normalized to lowercase; duplicates collapse.
func ParseAllowedHeaders(v any) (HeaderRule, error) {
	return parseHeaders(cfgerrors.DimHeaders, v, headers.ClassifyRequestHeaderName)
}

// ParseExposedHeaders parses the value of the exposed_headers dimension.
// Header names are normalized to lowercase; duplicates collapse.
// [CORS-safelisted response-header names] are dropped, since browsers
// expose them anyway.
//
// The "mirror" marker is recognized here, but [Validate] rejects it.
//
// [CORS-safelisted response-header names]: https://fetch.spec.whatwg.org/#cors-safelisted-response-header-name
func ParseExposedHeaders(v any) (HeaderRule, error) {
	return parseHeaders(cfgerrors.DimExposedHeaders, v, headers.ClassifyResponseHeaderName)
}

func parseHeaders(dim string, v any, classify func(string) headers.Class) (HeaderRule, error) {
	marker, elems, err := sequence(dim, v)
	if err != nil {
		return HeaderRule{}, err
	}
	switch marker {
	case "": // sequence
	case markerAny:
		return HeaderRule{Kind: Any}, nil
	case markerNone:
		return HeaderRule{}, nil
	case markerMirror:
		return HeaderRule{Kind: Mirror}, nil
	default:
		return HeaderRule{}, typeError(dim, v)
	}
	var (
		names     headers.NameSet
		anyHeader bool
		errs      []error
	)
	for _, raw := range elems {
		if raw == "" {
			errs = append(errs, emptyError(dim))
			continue
		}
		if raw == markerAny {
			anyHeader = true
			continue
		}
		if !headers.IsValid(raw) {
			errs = append(errs, elemError(dim, raw, "invalid"))
			continue
		}
		switch class := classify(util.ByteLowercase(raw)); class {
		case headers.Ordinary:
			names.Add(raw)
		case headers.Safelisted: // exposed anyway
		default:
			errs = append(errs, elemError(dim, raw, class.String()))
		}
	}
	if len(errs) > 0 {
		return HeaderRule{}, errors.Join(errs...)
	}
	if anyHeader {
		return HeaderRule{Kind: Any}, nil
	}
	if names.Size() == 0 {
		return HeaderRule{}, nil
	}
	return HeaderRule{Kind: Exact, Names: names.ToSortedSlice()}, nil
}

// ParseCredentials parses the value of the allow_credentials dimension.
// An absent value means false.
func ParseCredentials(v any) (bool, error) {
	return parseBool(cfgerrors.DimCredentials, v)
}

func parseBool(dim string, v any) (bool, error) {
	switch v := v.(type) {
	case nil:
		return false, nil
	case bool:
		return v, nil
	default:
		return false, typeError(dim, v)
	}
}

// ParseMaxAge parses the value of the max_age_seconds dimension.
// The present result reports whether a max-age was specified at all.
// Negative values are not rejected here; see [Validate].
func ParseMaxAge(v any) (seconds int, present bool, err error) {
	const dim = cfgerrors.DimMaxAge
	switch v := v.(type) {
	case nil:
		return 0, false, nil
	case bool:
		return 0, false, typeError(dim, v)
	case time.Duration:
		return durationSeconds(v, v)
	case float32, float64:
		f := cast.ToFloat64(v)
		if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
			return 0, false, elemError(dim, v, "invalid")
		}
		return int(f), true, nil
	case string:
		if v == "" {
			return 0, false, emptyError(dim)
		}
		if n, err := strconv.Atoi(v); err == nil {
			return n, true, nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, false, elemError(dim, v, "invalid")
		}
		return durationSeconds(v, d)
	default:
		n, err := cast.ToIntE(v)
		if err != nil {
			return 0, false, typeError(dim, v)
		}
		return n, true, nil
	}
}

func durationSeconds(raw any, d time.Duration) (int, bool, error) {
	if d%time.Second != 0 {
		return 0, false, elemError(cfgerrors.DimMaxAge, raw, "invalid")
	}
	return int(d / time.Second), true, nil
}

// sequence classifies v as either a marker string or a sequence of strings.
// An absent value amounts to the "none" marker.
func sequence(dim string, v any) (marker string, elems []string, err error) {
	switch v := v.(type) {
	case nil:
		return markerNone, nil, nil
	case string:
		if v == "" {
			return "", nil, emptyError(dim)
		}
		return v, nil, nil
	case []string:
		return "", v, nil
	case []any:
		elems = make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return "", nil, typeError(dim, v)
			}
			elems = append(elems, s)
		}
		return "", elems, nil
	default:
		return "", nil, typeError(dim, v)
	}
}

func typeError(dim string, v any) error {
	return &cfgerrors.ConfigShapeError{
		Dimension: dim,
		Value:     v,
		Reason:    "type",
	}
}

func emptyError(dim string) error {
	return &cfgerrors.ConfigShapeError{
		Dimension: dim,
		Value:     "",
		Reason:    "empty",
	}
}

func elemError(dim string, v any, reason string) error {
	return &cfgerrors.ConfigShapeError{
		Dimension: dim,
		Value:     v,
		Reason:    reason,
	}
}
