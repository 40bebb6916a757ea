package headers

import "strings"

// A Class categorizes a header name as it appears in a CORS configuration.
type Class uint8

const (
	// Ordinary names may be listed freely.
	Ordinary Class = iota
	// Forbidden names are controlled by browsers [per the Fetch standard];
	// listing them has no effect.
	//
	// [per the Fetch standard]: https://fetch.spec.whatwg.org/#forbidden-header-name
	Forbidden
	// Prohibited names belong to the CORS protocol itself; listing them
	// almost always stems from some misunderstanding of CORS.
	Prohibited
	// Safelisted names are exposed to clients regardless of configuration.
	Safelisted
)

var classNames = [...]string{
	Ordinary:   "ordinary",
	Forbidden:  "forbidden",
	Prohibited: "prohibited",
	Safelisted: "safelisted",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return "unknown"
}

// ClassifyRequestHeaderName classifies name for use in the list of
// allowed request headers.
//
// Precondition: name is a valid and [byte-lowercase] header name.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func ClassifyRequestHeaderName(name string) Class {
	if c, found := requestClasses[name]; found {
		return c
	}
	if strings.HasPrefix(name, "proxy-") || strings.HasPrefix(name, "sec-") {
		return Forbidden
	}
	return Ordinary
}

// ClassifyResponseHeaderName classifies name for use in the list of
// exposed response headers.
//
// Precondition: name is a valid and [byte-lowercase] header name.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func ClassifyResponseHeaderName(name string) Class {
	return responseClasses[name]
}

var requestClasses = map[string]Class{
	"accept-charset":                 Forbidden,
	"accept-encoding":                Forbidden,
	"access-control-request-headers": Forbidden,
	"access-control-request-method":  Forbidden,
	// see https://wicg.github.io/private-network-access/#forbidden-header-names
	"access-control-request-private-network": Forbidden,
	"connection":                             Forbidden,
	"content-length":                         Forbidden,
	"cookie":                                 Forbidden,
	"cookie2":                                Forbidden,
	"date":                                   Forbidden,
	"dnt":                                    Forbidden,
	"expect":                                 Forbidden,
	"host":                                   Forbidden,
	"keep-alive":                             Forbidden,
	"origin":                                 Forbidden,
	"referer":                                Forbidden,
	"set-cookie":                             Forbidden,
	"te":                                     Forbidden,
	"trailer":                                Forbidden,
	"transfer-encoding":                      Forbidden,
	"upgrade":                                Forbidden,
	"via":                                    Forbidden,

	"access-control-allow-origin":          Prohibited,
	"access-control-allow-credentials":     Prohibited,
	"access-control-allow-methods":         Prohibited,
	"access-control-allow-headers":         Prohibited,
	"access-control-allow-private-network": Prohibited,
	"access-control-max-age":               Prohibited,
	"access-control-expose-headers":        Prohibited,
}

var responseClasses = map[string]Class{
	// see https://fetch.spec.whatwg.org/#forbidden-response-header-name
	"set-cookie":  Forbidden,
	"set-cookie2": Forbidden,

	"origin":                                 Prohibited,
	"access-control-request-method":          Prohibited,
	"access-control-request-headers":         Prohibited,
	"access-control-request-private-network": Prohibited,
	"access-control-allow-methods":           Prohibited,
	"access-control-allow-headers":           Prohibited,
	"access-control-max-age":                 Prohibited,
	"access-control-allow-private-network":   Prohibited,

	// see https://fetch.spec.whatwg.org/#cors-safelisted-response-header-name
	"cache-control":    Safelisted,
	"content-language": Safelisted,
	"content-length":   Safelisted,
	"content-type":     Safelisted,
	"expires":          Safelisted,
	"last-modified":    Safelisted,
	"pragma":           Safelisted,
}
