package origins_test

import (
	"slices"
	"strings"
	"testing"

	"github.com/jub0bs/corspolicy/internal/origins"
)

func TestMatcher(t *testing.T) {
	cases := []struct {
		desc     string
		patterns []string
		elems    []string
		exact    []string
		matching []string
		rejected []string
	}{
		{
			desc:     "empty",
			rejected: []string{"https://example.com", "null", ""},
		}, {
			desc:     "exact origins only",
			patterns: []string{"https://a.test", "HTTPS://B.TEST", "https://a.test"},
			elems:    []string{"https://a.test", "https://b.test"},
			exact:    []string{"https://a.test", "https://b.test"},
			rejected: []string{
				"https://c.test",
				"http://a.test",
				"https://a.test:8080",
				"https://sub.a.test",
				"https://a.test.",
			},
		}, {
			desc:     "wildcard pattern with scheme",
			patterns: []string{"https://*.example.com"},
			elems:    []string{"https://*.example.com"},
			matching: []string{
				"https://a.example.com",
				"https://a.b.example.com",
				"https://xn--rsum-bpad.example.com",
			},
			rejected: []string{
				"https://example.com",
				"http://a.example.com",
				"https://.example.com",
				"https://a..example.com",
				"https://a.example.com:8080",
				"https://a.example.com.evil.test",
				"https://evil.test/.example.com",
				"https://a:b.example.com",
				"https://example.com.example.org",
			},
		}, {
			desc:     "wildcard pattern without scheme",
			patterns: []string{"*.example.com"},
			elems:    []string{"*.example.com"},
			matching: []string{
				"https://a.example.com",
				"http://a.example.com",
				"chrome-extension://a.example.com",
			},
			rejected: []string{
				"a.example.com",
				"://a.example.com",
				"1https://a.example.com",
				"https://example.com",
			},
		}, {
			desc:     "wildcard pattern with port",
			patterns: []string{"http://*.example.com:8080"},
			elems:    []string{"http://*.example.com:8080"},
			matching: []string{"http://a.example.com:8080"},
			rejected: []string{
				"http://a.example.com",
				"http://a.example.com:9090",
				"http://a.example.com:80800",
			},
		}, {
			desc: "mixed exact origins and patterns",
			patterns: []string{
				"https://*.example.com",
				"https://example.com",
				"*.example.org",
				"https://*.example.com",
			},
			elems: []string{
				"https://example.com",
				"*.example.org",
				"https://*.example.com",
			},
			exact:    []string{"https://example.com"},
			matching: []string{"https://a.example.com", "http://b.example.org"},
			rejected: []string{"https://example.org", "https://a.example.net"},
		},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			t.Parallel()
			var patterns []origins.Pattern
			for _, raw := range tc.patterns {
				p, err := origins.ParsePattern(raw)
				if err != nil {
					t.Fatalf("origins.ParsePattern(%q): got %v; want nil error", raw, err)
				}
				patterns = append(patterns, p)
			}
			m := origins.NewMatcher(patterns...)
			if got := m.IsEmpty(); got != (len(tc.patterns) == 0) {
				t.Errorf("IsEmpty(): got %t", got)
			}
			if got := m.Elems(); !slices.Equal(got, tc.elems) {
				t.Errorf("Elems(): got %q; want %q", got, tc.elems)
			}
			for _, o := range tc.exact {
				if got := m.Match(o); got != origins.ExactMatch {
					const tmpl = "Match(%q): got %d; want ExactMatch"
					t.Errorf(tmpl, o, got)
				}
			}
			for _, o := range tc.matching {
				if got := m.Match(o); got != origins.PatternMatch {
					const tmpl = "Match(%q): got %d; want PatternMatch"
					t.Errorf(tmpl, o, got)
				}
			}
			for _, o := range tc.rejected {
				if got := m.Match(o); got != origins.NoMatch {
					const tmpl = "Match(%q): got %d; want NoMatch"
					t.Errorf(tmpl, o, got)
				}
			}
		}
		t.Run(tc.desc, f)
	}
}

func TestMatcherRejectsOverlyLongOrigins(t *testing.T) {
	p, err := origins.ParsePattern("*.example.com")
	if err != nil {
		t.Fatal(err)
	}
	m := origins.NewMatcher(p)
	long := "https://" + strings.Repeat("a.", origins.MaxOriginLen) + "example.com"
	if got := m.Match(long); got != origins.NoMatch {
		t.Errorf("got %d; want NoMatch", got)
	}
}

func BenchmarkMatcher(b *testing.B) {
	var patterns []origins.Pattern
	for _, raw := range []string{
		"https://example.com",
		"https://*.example.com",
		"https://*.example.org",
		"*.example.net",
	} {
		p, err := origins.ParsePattern(raw)
		if err != nil {
			b.Fatal(err)
		}
		patterns = append(patterns, p)
	}
	m := origins.NewMatcher(patterns...)
	cases := []struct {
		desc   string
		origin string
	}{
		{desc: "exact", origin: "https://example.com"},
		{desc: "pattern", origin: "https://foo.example.net"},
		{desc: "miss", origin: "https://attacker.test"},
	}
	for _, bc := range cases {
		f := func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				m.Match(bc.origin)
			}
		}
		b.Run(bc.desc, f)
	}
}
