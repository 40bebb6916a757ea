package util_test

import (
	"testing"

	"github.com/jub0bs/corspolicy/internal/util"
)

func TestByteCase(t *testing.T) {
	cases := []struct {
		str   string
		lower string
		upper string
	}{
		{str: "", lower: "", upper: ""},
		{str: "Authorization", lower: "authorization", upper: "AUTHORIZATION"},
		{str: "Foo-42", lower: "foo-42", upper: "FOO-42"},
		{str: "x-already-lower", lower: "x-already-lower", upper: "X-ALREADY-LOWER"},
		{str: "HTTPS://Example.COM", lower: "https://example.com", upper: "HTTPS://EXAMPLE.COM"},
		{str: "Ünïcödé-K", lower: "Ünïcödé-k", upper: "ÜNïCöDé-K"},
	}
	for _, tc := range cases {
		f := func(t *testing.T) {
			if got := util.ByteLowercase(tc.str); got != tc.lower {
				t.Errorf("ByteLowercase(%q): got %q; want %q", tc.str, got, tc.lower)
			}
			if got := util.ByteUppercase(tc.str); got != tc.upper {
				t.Errorf("ByteUppercase(%q): got %q; want %q", tc.str, got, tc.upper)
			}
			if got, want := util.IsByteLowercase(tc.str), tc.str == tc.lower; got != want {
				t.Errorf("IsByteLowercase(%q): got %t; want %t", tc.str, got, want)
			}
		}
		t.Run(tc.str, f)
	}
}

func TestByteLowercaseDoesNotAllocateWhenAlreadyLowercase(t *testing.T) {
	const s = "https://example.com"
	allocs := testing.AllocsPerRun(100, func() {
		_ = util.ByteLowercase(s)
	})
	if allocs != 0 {
		t.Errorf("got %.0f allocs; want 0", allocs)
	}
}

func FuzzByteCaseRoundTrip(f *testing.F) {
	for _, s := range []string{"Authorization", "Foo-42", "https://*.Example.com"} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, orig string) {
		lower := util.ByteLowercase(orig)
		if !util.IsByteLowercase(lower) {
			t.Errorf("ByteLowercase(%q) = %q contains uppercase bytes", orig, lower)
		}
		if got := util.ByteLowercase(util.ByteUppercase(lower)); got != lower {
			const tmpl = "L(%q): %q; L(U(L(%q))): %q"
			t.Errorf(tmpl, orig, lower, orig, got)
		}
		if len(lower) != len(orig) {
			t.Errorf("ByteLowercase(%q) changed the length", orig)
		}
	})
}
