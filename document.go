package corspolicy

import "github.com/jub0bs/corspolicy/cfgerrors"

// A Document is the logical schema of a CORS policy configuration document,
// independent of any particular encoding (JSON, YAML, TOML, etc.).
// Each field holds the raw value found under the corresponding top-level key;
// a nil field corresponds to an absent key.
//
// The accepted shapes are the following:
//
//   - AllowedOrigins: "*", "none", or a sequence of origins and
//     origin patterns (e.g. "https://*.example.com");
//   - AllowedMethods: "*", "none", "mirror", or a sequence of method names;
//   - AllowedHeaders: "*", "none", "mirror", or a sequence of header names;
//   - ExposedHeaders: "*", "none", or a sequence of header names;
//   - AllowCredentials, AllowPrivateNetwork, ReflectWildcardWithCredentials,
//     TolerateSubdomainsOfPublicSuffixes, and VaryOrigin: a boolean
//     (strings such as "true" are rejected; the loader converts environment
//     variables beforehand);
//   - MaxAgeSeconds: a whole number of seconds, or a duration string
//     (e.g. "10m") that amounts to a whole number of seconds.
//
// An absent key, the literal "none", and an empty sequence all mean that
// nothing is allowed for the corresponding dimension.
type Document struct {
	AllowedOrigins                     any `json:"allowed_origins,omitempty" yaml:"allowed_origins,omitempty" toml:"allowed_origins,omitempty" koanf:"allowed_origins"`
	AllowedMethods                     any `json:"allowed_methods,omitempty" yaml:"allowed_methods,omitempty" toml:"allowed_methods,omitempty" koanf:"allowed_methods"`
	AllowedHeaders                     any `json:"allowed_headers,omitempty" yaml:"allowed_headers,omitempty" toml:"allowed_headers,omitempty" koanf:"allowed_headers"`
	ExposedHeaders                     any `json:"exposed_headers,omitempty" yaml:"exposed_headers,omitempty" toml:"exposed_headers,omitempty" koanf:"exposed_headers"`
	AllowCredentials                   any `json:"allow_credentials,omitempty" yaml:"allow_credentials,omitempty" toml:"allow_credentials,omitempty" koanf:"allow_credentials"`
	MaxAgeSeconds                      any `json:"max_age_seconds,omitempty" yaml:"max_age_seconds,omitempty" toml:"max_age_seconds,omitempty" koanf:"max_age_seconds"`
	AllowPrivateNetwork                any `json:"allow_private_network,omitempty" yaml:"allow_private_network,omitempty" toml:"allow_private_network,omitempty" koanf:"allow_private_network"`
	ReflectWildcardWithCredentials     any `json:"reflect_wildcard_with_credentials,omitempty" yaml:"reflect_wildcard_with_credentials,omitempty" toml:"reflect_wildcard_with_credentials,omitempty" koanf:"reflect_wildcard_with_credentials"`
	TolerateSubdomainsOfPublicSuffixes any `json:"tolerate_public_suffix_subdomains,omitempty" yaml:"tolerate_public_suffix_subdomains,omitempty" toml:"tolerate_public_suffix_subdomains,omitempty" koanf:"tolerate_public_suffix_subdomains"`
	VaryOrigin                         any `json:"vary_origin,omitempty" yaml:"vary_origin,omitempty" toml:"vary_origin,omitempty" koanf:"vary_origin"`
}

// markers that may stand in for a sequence
const (
	markerAny    = "*"
	markerNone   = "none"
	markerMirror = "mirror"
)

// Keys returns the recognized top-level keys of a configuration document,
// in a stable order.
func Keys() []string {
	return []string{
		cfgerrors.DimOrigins,
		cfgerrors.DimMethods,
		cfgerrors.DimHeaders,
		cfgerrors.DimExposedHeaders,
		cfgerrors.DimCredentials,
		cfgerrors.DimMaxAge,
		cfgerrors.DimPrivateNetwork,
		cfgerrors.DimReflect,
		cfgerrors.DimTolerancePSL,
		cfgerrors.DimVaryOrigin,
	}
}
