/*
Package loader reads CORS policy configuration documents encoded as JSON,
YAML, or TOML, and compiles them into [corspolicy.Policy] values.

Documents are layered with [koanf]: the document itself comes first and,
if an environment prefix is configured, environment variables override it
key by key. For example, with prefix "CORS_",

	CORS_ALLOWED_ORIGINS=https://a.example,https://b.example

overrides the allowed_origins key with a sequence of two origins.

Errors are those documented in package
[github.com/jub0bs/corspolicy/cfgerrors]; for YAML documents, shape errors
carry the line and column of the offending value.

[koanf]: https://github.com/knadh/koanf
*/
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/jub0bs/corspolicy"
	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cast"
)

// A Mode determines how a [Loader] treats unrecognized top-level keys.
type Mode uint8

const (
	// Strict rejects unknown keys with a [*cfgerrors.ConfigShapeError]
	// whose Reason is "unknown".
	Strict Mode = iota
	// Lenient ignores unknown keys but logs them at WARN level.
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// A Loader loads configuration documents.
// Loaders are safe for concurrent use by multiple goroutines.
type Loader struct {
	mode      Mode
	logger    *slog.Logger
	envPrefix string
}

// Option configures a [Loader].
type Option func(*Loader)

// WithMode sets how unknown keys are treated. The default is [Strict].
func WithMode(m Mode) Option {
	return func(l *Loader) {
		l.mode = m
	}
}

// WithLogger sets the logger. The default is [slog.Default].
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithEnvPrefix enables environment overrides: a variable named prefix
// followed by some top-level key (case-insensitive) overrides that key.
// Values of sequence-valued keys are split on commas.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// New returns a Loader configured with opts.
func New(opts ...Option) *Loader {
	l := &Loader{
		mode:   Strict,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseDocument decodes data into a [corspolicy.Document] without
// interpreting its values. It only fails if data is malformed or, in strict
// mode, if data contains unknown keys.
func (l *Loader) ParseDocument(data []byte, f Format) (corspolicy.Document, error) {
	k, err := l.load(rawbytes.Provider(data), f)
	if err != nil {
		return corspolicy.Document{}, err
	}
	doc, errs := l.decode(k)
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if f == YAML {
			locate(data, err)
		}
		return corspolicy.Document{}, err
	}
	return doc, nil
}

// Parse decodes data and compiles the resulting document into a policy.
// Legalizing transforms performed by [corspolicy.Compile] are logged at
// WARN level.
func (l *Loader) Parse(data []byte, f Format) (*corspolicy.Policy, error) {
	k, err := l.load(rawbytes.Provider(data), f)
	if err != nil {
		return nil, err
	}
	doc, errs := l.decode(k)
	// Report unknown keys together with shape errors.
	cfg, err := corspolicy.ParseDocument(doc)
	if err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		if f == YAML {
			locate(data, err)
		}
		return nil, err
	}
	p, err := corspolicy.Compile(cfg)
	if err != nil {
		return nil, err
	}
	for _, t := range p.Transforms() {
		l.logger.Warn("legalizing transform",
			slog.String("dimension", t.Dimension),
			slog.String("from", t.From),
			slog.String("to", t.To),
		)
	}
	return p, nil
}

// LoadFile reads the file at path, infers its format from its extension,
// and parses it (see [*Loader.Parse]).
func (l *Loader) LoadFile(path string) (*corspolicy.Policy, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := file.Provider(path).ReadBytes()
	if err != nil {
		return nil, fmt.Errorf("corspolicy: failed to read %s: %w", path, err)
	}
	return l.Parse(data, f)
}

func (l *Loader) load(p koanf.Provider, f Format) (*koanf.Koanf, error) {
	k := koanf.New(".")
	if err := k.Load(p, f.parser()); err != nil {
		return nil, &cfgerrors.ConfigShapeError{
			Dimension: cfgerrors.DimDocument,
			Value:     err.Error(),
			Reason:    "syntax",
		}
	}
	if l.envPrefix != "" {
		if err := k.Load(env.ProviderWithValue(l.envPrefix, ".", l.envValue), nil); err != nil {
			return nil, fmt.Errorf("corspolicy: failed to load environment variables: %w", err)
		}
	}
	return k, nil
}

// decode unmarshals the contents of k into a Document and returns one error
// per unknown key in strict mode.
func (l *Loader) decode(k *koanf.Koanf) (corspolicy.Document, []error) {
	var (
		doc corspolicy.Document
		md  mapstructure.Metadata
	)
	err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:  "koanf",
			Metadata: &md,
			Result:   &doc,
		},
	})
	if err != nil {
		return corspolicy.Document{}, []error{&cfgerrors.ConfigShapeError{
			Dimension: cfgerrors.DimDocument,
			Value:     err.Error(),
			Reason:    "syntax",
		}}
	}
	var errs []error
	for _, key := range md.Unused {
		if l.mode == Lenient {
			l.logger.Warn("ignoring unknown key", slog.String("key", key))
			continue
		}
		errs = append(errs, &cfgerrors.ConfigShapeError{
			Dimension: key,
			Reason:    "unknown",
		})
	}
	return doc, errs
}

// envValue maps an environment variable to a document key and value.
// Variables that name no known key are skipped.
func (l *Loader) envValue(name, value string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(name, l.envPrefix))
	switch key {
	case cfgerrors.DimOrigins,
		cfgerrors.DimMethods,
		cfgerrors.DimHeaders,
		cfgerrors.DimExposedHeaders:
		return key, splitList(value)
	case cfgerrors.DimMaxAge:
		return key, strings.TrimSpace(value)
	case cfgerrors.DimCredentials,
		cfgerrors.DimPrivateNetwork,
		cfgerrors.DimReflect,
		cfgerrors.DimTolerancePSL,
		cfgerrors.DimVaryOrigin:
		value = strings.TrimSpace(value)
		b, err := cast.ToBoolE(value)
		if err != nil { // reported as a shape error
			return key, value
		}
		return key, b
	default:
		l.logger.Debug("skipping environment variable", slog.String("name", name))
		return "", nil
	}
}

// splitList turns a comma-separated list into a sequence, leaving markers
// such as "*" or "none" alone. An empty value yields an empty sequence.
func splitList(value string) any {
	value = strings.TrimSpace(value)
	switch value {
	case "":
		return []any{}
	case "*", "none", "mirror":
		return value
	}
	parts := strings.Split(value, ",")
	elems := make([]any, len(parts))
	for i, part := range parts {
		elems[i] = strings.TrimSpace(part)
	}
	return elems
}
