package cfgerrors_test

import (
	"errors"
	"iter"
	"net/http"
	"strings"
	"testing"

	"github.com/jub0bs/corspolicy/cfgerrors"
)

func TestAll(t *testing.T) {
	cases := []struct {
		desc      string
		err       error
		want      []error
		breakWhen func(error) bool
	}{
		{
			desc: "singleton",
			err:  err0,
			want: []error{
				err0,
			},
			breakWhen: alwaysFalse,
		}, {
			desc: "multi-error no break",
			err:  err4,
			want: []error{
				err2,
				err3,
			},
			breakWhen: alwaysFalse,
		}, {
			desc: "multi-error break early",
			err:  err4,
			want: []error{
				err2,
			},
			breakWhen: equal(err3),
		}, {
			desc: "single joined error no break",
			err:  err1,
			want: []error{
				err0,
			},
			breakWhen: alwaysFalse,
		}, {
			desc:      "single joined error break early",
			err:       err1,
			want:      []error{},
			breakWhen: equal(err0),
		}, {
			desc:      "complex error tree no break",
			err:       err5,
			breakWhen: alwaysFalse,
			want: []error{
				err0,
				err2,
				err3,
			},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			got := cfgerrors.All(tc.err)
			assertEqual(t, got, tc.want, tc.breakWhen)
		}
		t.Run(tc.desc, f)
	}
}

var (
	err0 = errors.New("err0")
	err1 = errors.Join(err0)
	err2 = errors.New("err2")
	err3 = errors.New("err3")
	err4 = errors.Join(err2, err3)
	err5 = errors.Join(err1, err4)
)

func assertEqual(
	t *testing.T,
	got iter.Seq[error],
	want []error,
	breakWhen func(error) bool,
) {
	t.Helper()
	var errs []error
	var i int
	for err := range got {
		if breakWhen(err) {
			return
		}
		errs = append(errs, err)
		if len(want) <= i {
			t.Fatalf("too many elements: got %v...; want %v", errs, want)
		}
		if err != want[i] {
			t.Fatalf("unexpected element: got %v...; want %v...", errs, want[:i+1])
		}
		i++
	}
	// i should now be equal to len(want)
	if i != len(want) {
		t.Fatalf("not enough elements: got %v; want %v...", errs, want)
	}
}

func alwaysFalse(_ error) bool {
	return false
}

func equal(target error) func(error) bool {
	return func(err error) bool {
		return err == target
	}
}

func TestPackageNamePrefixInErrorMessages(t *testing.T) {
	errs := []error{
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimOrigins, Value: 42, Reason: "type"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimHeaders, Value: true, Reason: "type"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimMaxAge, Value: "soon", Reason: "type"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimCredentials, Value: "yes", Reason: "type"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimMethods, Value: "", Reason: "empty"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimOrigins, Value: "https://", Reason: "invalid"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimMethods, Value: http.MethodConnect, Reason: "forbidden"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimOrigins, Value: "null", Reason: "prohibited"},
		&cfgerrors.ConfigShapeError{Dimension: "allowed_origin", Reason: "unknown"},
		&cfgerrors.ConfigShapeError{Dimension: cfgerrors.DimDocument, Value: "unexpected EOF", Reason: "syntax"},
		&cfgerrors.PolicyConflict{RuleA: cfgerrors.DimCredentials, RuleB: cfgerrors.DimOrigins, Reason: "whatever"},
	}
	const wantPrefix = "corspolicy: "
	for _, err := range errs {
		if msg := err.Error(); !strings.HasPrefix(msg, wantPrefix) {
			t.Errorf("missing package-name prefix in %q", msg)
		}
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		desc string
		err  error
		want string
	}{
		{
			desc: "wrong type for origins",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimOrigins,
				Value:     42,
				Reason:    "type",
			},
			want: `corspolicy: allowed_origins: unexpected value 42 (int); want "*" or "none", or a sequence of strings`,
		}, {
			desc: "wrong type for allowed headers",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimHeaders,
				Value:     "all",
				Reason:    "type",
			},
			want: `corspolicy: allowed_headers: unexpected value "all" (string); want "*", "none", or "mirror", or a sequence of strings`,
		}, {
			desc: "wrong type for allowed methods",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimMethods,
				Value:     "all",
				Reason:    "type",
			},
			want: `corspolicy: allowed_methods: unexpected value "all" (string); want "*", "none", or "mirror", or a sequence of strings`,
		}, {
			desc: "wrong type for vary_origin",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimVaryOrigin,
				Value:     "yes",
				Reason:    "type",
			},
			want: `corspolicy: vary_origin: unexpected value "yes" (string); want a boolean`,
		}, {
			desc: "with source position",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimMethods,
				Value:     "TRACE",
				Reason:    "forbidden",
				Line:      3,
				Column:    5,
			},
			want: `corspolicy: line 3, column 5: allowed_methods: forbidden value "TRACE"`,
		}, {
			desc: "non-string invalid value",
			err: &cfgerrors.ConfigShapeError{
				Dimension: cfgerrors.DimMaxAge,
				Value:     1.5,
				Reason:    "invalid",
			},
			want: "corspolicy: max_age_seconds: invalid value 1.5",
		}, {
			desc: "unknown key",
			err: &cfgerrors.ConfigShapeError{
				Dimension: "allowed_origin",
				Reason:    "unknown",
			},
			want: `corspolicy: unknown key "allowed_origin"`,
		}, {
			desc: "conflict",
			err: &cfgerrors.PolicyConflict{
				RuleA:  cfgerrors.DimCredentials,
				RuleB:  cfgerrors.DimExposedHeaders,
				Reason: "wildcard",
			},
			want: "corspolicy: allow_credentials conflicts with exposed_headers: wildcard",
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("got %q; want %q", got, tc.want)
			}
		}
		t.Run(tc.desc, f)
	}
}

// comparability checks
var (
	_ map[cfgerrors.ConfigShapeError]struct{}
	_ map[cfgerrors.PolicyConflict]struct{}
)
