package headers

import (
	"golang.org/x/net/http/httpguts"
)

// header names in canonical format, for use by consuming middleware
const (
	Origin = "Origin"

	ACRPN = "Access-Control-Request-Private-Network"
	ACRM  = "Access-Control-Request-Method"
	ACRH  = "Access-Control-Request-Headers"

	ACAO  = "Access-Control-Allow-Origin"
	ACAC  = "Access-Control-Allow-Credentials"
	ACAPN = "Access-Control-Allow-Private-Network"
	ACAM  = "Access-Control-Allow-Methods"
	ACAH  = "Access-Control-Allow-Headers"
	ACMA  = "Access-Control-Max-Age"
	ACEH  = "Access-Control-Expose-Headers"

	Vary = "Vary"
)

const Authorization = "authorization" // note: byte-lowercase

const (
	ValueTrue     = "true"
	ValueWildcard = "*"
	ValueSep      = ","
)

// IsValid reports whether name is a valid header name,
// [per the Fetch standard].
//
// [per the Fetch standard]: https://fetch.spec.whatwg.org/#header-name
func IsValid(name string) bool {
	return httpguts.ValidHeaderFieldName(name)
}
