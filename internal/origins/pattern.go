package origins

import (
	"net/netip"
	"strings"
	"sync"

	"github.com/jub0bs/corspolicy/cfgerrors"
	"github.com/jub0bs/corspolicy/internal/util"
	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"
)

const (
	schemeHostSep = "://" // scheme-host separator
	hostPortSep   = ':'   // host-port separator
	labelSep      = '.'   // DNS-label separator
	maxUint16     = 1<<16 - 1

	subdomainWildcard = "*" // marks one or more period-separated DNS labels
	wildcardSeq       = subdomainWildcard + string(labelSep)
)

const (
	// maxHostLen is the maximum length of a host, which is dominated by
	// the maximum length of an (absolute) domain name (253);
	// see https://devblogs.microsoft.com/oldnewthing/20120412-00/?p=7873.
	maxHostLen = 253
	// maxSchemeLen is the maximum tolerated length for schemes.
	// Its value is somewhat arbitrary but chosen so as to cover the great
	// majority of commonly used schemes.
	maxSchemeLen = 64
	// maxPortLen is the maximum length of a port's decimal representation.
	maxPortLen = len("65535")
	// maxHostPortLen is the maximum length of an origin's host-port part.
	maxHostPortLen = maxHostLen + len(string(hostPortSep)) + maxPortLen
	// MaxOriginLen is the maximum length of an origin.
	MaxOriginLen = maxSchemeLen + len(schemeHostSep) + maxHostPortLen
	// maxPatternLen is the maximum length of an origin pattern.
	// It is simply equal to MaxOriginLen because *. is a placeholder for at
	// least two bytes (e.g. "a.").
	maxPatternLen = MaxOriginLen
)

// Kind represents the kind of a host pattern.
type Kind uint8

const (
	Domain              Kind = iota // exact domain
	ArbitrarySubdomains             // arbitrary subdomains of a domain
	IP                              // IP address
)

// A Pattern represents either an exact Web origin or a wildcard origin
// pattern. The zero value does not correspond to a valid pattern.
type Pattern struct {
	// Scheme is the scheme of this origin pattern.
	// The empty string indicates that any scheme is acceptable; only
	// wildcard patterns may omit their scheme.
	Scheme string
	// HostPattern is the host pattern of this origin pattern.
	// For ArbitrarySubdomains patterns, it starts with "*.".
	HostPattern string
	// Port is the positive port number (if any) of this origin pattern.
	// The zero value marks the absence of an explicit port.
	Port int
	// Kind is the kind of this origin pattern's host pattern.
	Kind Kind
}

// IsExact reports whether p designates exactly one Web origin.
func (p *Pattern) IsExact() bool {
	return p.Kind != ArbitrarySubdomains
}

// String returns the canonical textual representation of p.
func (p *Pattern) String() string {
	var sb strings.Builder
	if p.Scheme != "" {
		sb.WriteString(p.Scheme)
		sb.WriteString(schemeHostSep)
	}
	if p.Kind == IP && strings.IndexByte(p.HostPattern, ':') >= 0 {
		sb.WriteByte('[')
		sb.WriteString(p.HostPattern)
		sb.WriteByte(']')
	} else {
		sb.WriteString(p.HostPattern)
	}
	if p.Port != 0 {
		sb.WriteByte(hostPortSep)
		writeInt(&sb, p.Port)
	}
	return sb.String()
}

func writeInt(sb *strings.Builder, n int) {
	var buf [maxPortLen]byte
	i := len(buf)
	for {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	sb.Write(buf[i:])
}

// ParsePattern parses str into a fully valid [Pattern] structure.
// Input is byte-lowercased first. Exact origins must be of the form
// scheme://host[:port]; wildcard patterns may omit the scheme
// (e.g. "*.example.com"), in which case they match origins of any scheme.
// If it fails, it returns a non-nil error and some invalid pattern.
// Note that origin pattern "*" is handled elsewhere.
func ParsePattern(str string) (p Pattern, err error) {
	// As a defensive measure against maliciously long origin patterns,
	// let's first check the length of str.
	if len(str) > maxPatternLen {
		err = invalidOriginPatternError(str)
		return
	}
	raw := str
	str = util.ByteLowercase(str)
	if str == "null" {
		err = prohibitedOriginPatternError(raw)
		return
	}
	rest := str
	if !strings.HasPrefix(str, wildcardSeq) {
		var ok bool
		p.Scheme, rest, ok = parseScheme(str)
		if !ok {
			err = invalidOriginPatternError(raw)
			return
		}
		rest, ok = strings.CutPrefix(rest, schemeHostSep)
		if !ok {
			err = invalidOriginPatternError(raw)
			return
		}
	}
	p.HostPattern, p.Kind, rest, err = parseHostPattern(rest, raw)
	if err != nil {
		return
	}
	if p.Scheme == "" && p.Kind != ArbitrarySubdomains {
		err = invalidOriginPatternError(raw)
		return
	}
	if rest != "" {
		var ok bool
		rest, ok = strings.CutPrefix(rest, string(hostPortSep))
		if !ok {
			err = invalidOriginPatternError(raw)
			return
		}
		p.Port, rest, ok = parsePort(rest)
		if !ok || rest != "" {
			err = invalidOriginPatternError(raw)
			return
		}
		if isDefaultPortForScheme(p.Scheme, p.Port) {
			err = prohibitedOriginPatternError(raw)
			return
		}
	}
	return p, nil
}

func prohibitedOriginPatternError(pattern string) error {
	return &cfgerrors.ConfigShapeError{
		Dimension: cfgerrors.DimOrigins,
		Value:     pattern,
		Reason:    "prohibited",
	}
}

func invalidOriginPatternError(pattern string) error {
	return &cfgerrors.ConfigShapeError{
		Dimension: cfgerrors.DimOrigins,
		Value:     pattern,
		Reason:    "invalid",
	}
}

// parseScheme parses a URI scheme. If successful, it returns the scheme,
// the unconsumed part of str, and true; otherwise, its ok result is false.
func parseScheme(str string) (scheme, rest string, ok bool) {
	// See https://www.rfc-editor.org/rfc/rfc3986.html#section-3.1.
	if str == "" || !isLowerAlpha(str[0]) {
		return
	}
	end := min(maxSchemeLen, len(str))
	i := 1
	for ; i < end; i++ {
		if !isSubsequentSchemeByte(str[i]) {
			break
		}
	}
	return str[:i], str[i:], str[:i] != "file"
}

// isLowerAlpha reports whether c is in the 0x61-0x7A ASCII range.
func isLowerAlpha(c byte) bool {
	return 'a' <= c && c <= 'z'
}

// isSubsequentSchemeByte reports whether c a valid byte at index >= 1 in a scheme.
func isSubsequentSchemeByte(c byte) bool {
	// See https://www.rfc-editor.org/rfc/rfc3986.html#section-3.1.
	const mask = 0 |
		1<<'+' |
		1<<'-' |
		1<<'.' |
		(1<<10-1)<<'0' |
		(1<<26-1)<<'a' |
		1<<'_'
	return ((uint64(1)<<c)&(mask&(1<<64-1)) |
		(uint64(1)<<(c-64))&(mask>>64)) != 0
}

// parseHostPattern scans and validates a host pattern in str.
// If it succeeds, it returns the host pattern, its kind, the unconsumed part
// of str, and nil; otherwise, its err result is some non-nil error.
func parseHostPattern(str, rawOriginPattern string) (hostPattern string, kind Kind, rest string, err error) {
	var assumeIP, wildcardSubs bool
	if str != "" && str[0] == '[' { // str must be an IPv6 address.
		var ok bool
		hostPattern, rest, ok = strings.Cut(str[1:], "]")
		if !ok { // unmatched left bracket
			err = invalidOriginPatternError(rawOriginPattern)
			return
		}
		assumeIP = true
	} else { // str must be either an IPv4 address or a domain pattern.
		hostPattern, rest, wildcardSubs = scanHostPattern(str)
		if wildcardSubs {
			kind = ArbitrarySubdomains
		}
		// If the last non-empty label starts with a digit,
		// assume an IPv4 address, since no TLD starts with a digit
		// (see https://www.iana.org/domains/root/db).
		var ok bool
		assumeIP, ok = firstByteOfRightmostLabelIsDigit(hostPattern)
		if !ok || assumeIP && wildcardSubs {
			err = invalidOriginPatternError(rawOriginPattern)
			return
		}
	}
	if assumeIP { // hostPattern must be an IPv4 or IPv6 address.
		ip, perr := netip.ParseAddr(hostPattern)
		if perr != nil || ip.Zone() != "" {
			err = invalidOriginPatternError(rawOriginPattern)
			return
		}
		if ip.Is4In6() || hostPattern != ip.String() {
			err = prohibitedOriginPatternError(rawOriginPattern)
			return
		}
		return hostPattern, IP, rest, nil
	}
	// hostPattern must be a domain pattern.
	host, wildcardSubs := strings.CutPrefix(hostPattern, wildcardSeq)
	if wildcardSubs && len(host) > maxHostLen-len(wildcardSeq) {
		err = invalidOriginPatternError(rawOriginPattern)
		return
	}
	profileOnce.Do(initProfile)
	if _, err = profile.ToASCII(host); err != nil {
		err = invalidOriginPatternError(rawOriginPattern)
		return
	}
	return hostPattern, kind, rest, nil
}

// scanHostPattern scans a host pattern in str; it does not
// attempt to validate the resulting host pattern.
// It returns the scanned host pattern, the unconsumed part of str, and reports
// whether the host pattern starts with the *. sequence.
func scanHostPattern(str string) (hostPattern, rest string, wildcardSubs bool) {
	var start, i int
	// Skip over "*." if needed.
	if wildcardSubs = strings.HasPrefix(str, wildcardSeq); wildcardSubs {
		start += len(wildcardSeq)
	}
	for i = start; i < len(str) && isDomainByte(str[i]); i++ {
		// deliberately empty
	}
	return str[:i], str[i:], wildcardSubs
}

// isDomainByte reports whether c is an ASCII lowercase letter, an ASCII digit,
// a hyphen (0x2D), a period (0x2E), or an underscore (0x5F).
func isDomainByte(c byte) bool {
	const mask = 0 |
		1<<'-' |
		1<<labelSep |
		(1<<10-1)<<'0' |
		(1<<26-1)<<'a' |
		1<<'_' // see https://stackoverflow.com/q/2180465
	return ((uint64(1)<<c)&(mask&(1<<64-1)) |
		(uint64(1)<<(c-64))&(mask>>64)) != 0
}

// firstByteOfRightmostLabelIsDigit reports whether the first byte of the
// rightmost DNS label in hostPattern is a digit.
// If it succeeds, it returns the result of that check and true;
// otherwise, its ok result returns false.
func firstByteOfRightmostLabelIsDigit(hostPattern string) (_ bool, ok bool) {
	rest, label, _ := lastCutByte(hostPattern, labelSep)
	if label != "" {
		return isDigit(label[0]), true
	}
	// hostPattern contains a trailing period ("absolute" domain).
	_, label, _ = lastCutByte(rest, labelSep)
	if label != "" {
		return isDigit(label[0]), true
	}
	return
}

// isDigit reports whether c is in the 0x30-0x39 ASCII range.
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// lastCutByte slices s around the last instance of sep, returning the text
// before and after sep. The found result reports whether sep appears in s.
// If sep does not appear in s, lastCutByte returns "", s, false.
func lastCutByte(s string, sep byte) (before, after string, found bool) {
	if i := strings.LastIndexByte(s, sep); i >= 0 {
		after = s[i+1:] // eliminate one bounds check below
		return s[:i], after, true
	}
	return "", s, false
}

var (
	profileOnce sync.Once     // guards init of profile via initProfile
	profile     *idna.Profile // lazily initialized
)

func initProfile() {
	profile = idna.New(
		idna.BidiRule(),
		idna.ValidateLabels(true),
		idna.StrictDomainName(true),
		idna.VerifyDNSLength(true),
	)
}

// parsePort parses a port number. It returns the port number, the unconsumed
// part of the input string, and a bool that indicates success or failure.
func parsePort(str string) (int, string, bool) {
	if str == "" || str[0] < '1' || '9' < str[0] {
		return 0, str, false
	}
	port := int(str[0] - '0')
	i := 1
	end := min(len(str), maxPortLen)
	for ; i < end; i++ {
		if !isDigit(str[i]) {
			break
		}
		port = 10*port + int(str[i]-'0')
	}
	if maxUint16 < port {
		return 0, str, false
	}
	return port, str[i:], true
}

// isDefaultPortForScheme returns true for the following combinations
//   - (https, 443)
//   - (http, 80)
//
// and false otherwise.
func isDefaultPortForScheme(scheme string, port int) bool {
	const (
		portHTTP    = 80
		schemeHTTP  = "http"
		portHTTPS   = 443
		schemeHTTPS = "https"
	)
	return port == portHTTP && scheme == schemeHTTP ||
		port == portHTTPS && scheme == schemeHTTPS
}

// BaseIsPublicSuffix reports whether p is a wildcard pattern whose base
// domain (the part after "*.") is an effective top-level domain (eTLD),
// also known as [public suffix]. Such a pattern would match origins
// belonging to unrelated parties.
//
// [public suffix]: https://publicsuffix.org/list/
func (p *Pattern) BaseIsPublicSuffix() bool {
	host, wildcardSubs := strings.CutPrefix(p.HostPattern, wildcardSeq)
	if !wildcardSubs {
		return false
	}
	// For cases like of a Web origin that ends with a full stop,
	// we need to trim the latter for this check.
	host = strings.TrimSuffix(host, string(labelSep))
	// We ignore the second (boolean) result because
	// it's false for some listed eTLDs (e.g. github.io)
	etld, _ := publicsuffix.PublicSuffix(host)
	return etld == host
}
