/*
Package cfgerrors provides functionalities for programmatically handling
configuration errors produced by package [github.com/jub0bs/corspolicy]
and its loader.

Loading a CORS policy fails with exactly one of two kinds of errors:

  - one or more [*ConfigShapeError] values, joined together, when some
    dimension of the configuration document has an unrecognized shape;
  - a single [*PolicyConflict] when otherwise well-shaped dimensions
    contradict each other or the CORS protocol.

No partial policy is ever produced. Services that let their tenants configure
CORS (e.g. via some Web portal) may rely on this package to turn those errors
into custom, human-friendly diagnostics.
*/
package cfgerrors

import (
	"fmt"
	"iter"
	"strings"

	"github.com/jub0bs/corspolicy/internal/util"
)

// Names of the dimensions (top-level document keys) that errors may refer to.
const (
	DimOrigins        = "allowed_origins"
	DimMethods        = "allowed_methods"
	DimHeaders        = "allowed_headers"
	DimExposedHeaders = "exposed_headers"
	DimCredentials    = "allow_credentials"
	DimMaxAge         = "max_age_seconds"
	DimPrivateNetwork = "allow_private_network"
	DimReflect        = "reflect_wildcard_with_credentials"
	DimTolerancePSL   = "tolerate_public_suffix_subdomains"
	DimVaryOrigin     = "vary_origin"
	// DimDocument designates the configuration document as a whole,
	// e.g. when it cannot be parsed at all.
	DimDocument = "document"
)

// A ConfigShapeError indicates that the value of some dimension of a
// configuration document has an unrecognized shape.
// The Reason field may take one of the following values:
//   - "type": the value is of the wrong type (e.g. a number where a
//     sequence of strings is expected);
//   - "empty": an element of a sequence is the empty string;
//   - "invalid": an element is syntactically invalid
//     (e.g. a malformed origin or method);
//   - "forbidden": an element is forbidden by [the Fetch standard];
//   - "prohibited": an element is prohibited by this library;
//   - "unknown": the key itself is not recognized (strict mode only);
//   - "syntax": the document could not be parsed.
//
// Line and Column, when positive, locate the offending value in the source
// document; they are only populated for formats that support it.
//
// [the Fetch standard]: https://fetch.spec.whatwg.org
type ConfigShapeError struct {
	Dimension string // see the Dim* constants
	Value     any    // the unacceptable value that was received
	Reason    string // type | empty | invalid | forbidden | prohibited | unknown | syntax
	Line      int
	Column    int
}

func (err *ConfigShapeError) Error() string {
	var sb strings.Builder
	sb.WriteString("corspolicy: ")
	if err.Line > 0 {
		fmt.Fprintf(&sb, "line %d, column %d: ", err.Line, err.Column)
	}
	switch err.Reason {
	case "type":
		fmt.Fprintf(&sb, "%s: unexpected value %#v (%T); want ", err.Dimension, err.Value, err.Value)
		writeAcceptedShapes(&sb, err.Dimension)
	case "empty":
		fmt.Fprintf(&sb, "%s: empty element", err.Dimension)
	case "unknown":
		fmt.Fprintf(&sb, "unknown key %q", err.Dimension)
	case "syntax":
		fmt.Fprintf(&sb, "malformed document: %v", err.Value)
	default:
		if _, ok := err.Value.(string); ok {
			fmt.Fprintf(&sb, "%s: %s value %q", err.Dimension, err.Reason, err.Value)
		} else {
			fmt.Fprintf(&sb, "%s: %s value %v", err.Dimension, err.Reason, err.Value)
		}
	}
	return sb.String()
}

func writeAcceptedShapes(sb *strings.Builder, dim string) {
	switch dim {
	case DimOrigins, DimExposedHeaders:
		util.Join(sb, []string{"*", "none"})
		sb.WriteString(", or a sequence of strings")
	case DimMethods, DimHeaders:
		util.Join(sb, []string{"*", "none", "mirror"})
		sb.WriteString(", or a sequence of strings")
	case DimMaxAge:
		sb.WriteString("a whole number of seconds or a duration string")
	default:
		sb.WriteString("a boolean")
	}
}

// A PolicyConflict indicates that two otherwise valid parts of a
// configuration contradict each other or the CORS protocol.
// RuleA and RuleB name the conflicting dimensions (see the Dim* constants);
// RuleB may also name a protocol constraint, such as "public suffix" or
// "browser cap".
type PolicyConflict struct {
	RuleA  string
	RuleB  string
	Reason string
}

func (err *PolicyConflict) Error() string {
	const tmpl = "corspolicy: %s conflicts with %s: %s"
	return fmt.Sprintf(tmpl, err.RuleA, err.RuleB, err.Reason)
}

// All returns an iterator over the configuration errors contained in
// err's error tree. The order is unspecified. All only supports error values
// returned by package [github.com/jub0bs/corspolicy] and its loader;
// it should not be called on any other error value.
func All(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		every(err, yield)
	}
}

func every(err error, f func(error) bool) bool {
	switch err := err.(type) {
	// Configuration errors are only ever joined, never wrapped;
	// errors wrapped with %w (I/O failures, for instance) are leaves.
	case interface{ Unwrap() []error }:
		for _, err := range err.Unwrap() {
			if !every(err, f) {
				return false
			}
		}
		return true
	default:
		return f(err)
	}
}
