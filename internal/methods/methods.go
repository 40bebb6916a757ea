package methods

import (
	"net/http"

	"github.com/jub0bs/corspolicy/internal/util"
	"golang.org/x/net/http/httpguts"
)

// IsValid reports whether name is a valid method, [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#concept-method
func IsValid(name string) bool {
	// Note: the production is identical to that of header names.
	return httpguts.ValidHeaderFieldName(name)
}

// Normalize returns the byte-uppercase form of name.
// Unlike browsers, which only [normalize] a handful of well-known methods,
// Normalize uppercases every method; configured methods are therefore
// matched case-insensitively against incoming ones.
//
// [normalize]: https://fetch.spec.whatwg.org/#concept-method-normalize
func Normalize(name string) string {
	return util.ByteUppercase(name)
}

// IsForbidden reports whether name is a forbidden method,
// [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#forbidden-method
func IsForbidden(name string) bool {
	return byteLowercasedForbiddenMethodSet.Contains(util.ByteLowercase(name))
}

var byteLowercasedForbiddenMethods = []string{
	"connect",
	"trace",
	"track",
}

var byteLowercasedForbiddenMethodSet = util.NewSet(byteLowercasedForbiddenMethods...)

// IsSafelisted reports whether name is a safelisted method,
// [per the Fetch standard]. The comparison is case-sensitive.
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#cors-safelisted-method
func IsSafelisted(name string) bool {
	return safelistedMethods.Contains(name)
}

var safelistedMethods = util.NewSet(
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
)
