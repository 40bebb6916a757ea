package headers

// TrimOWS trims up to n bytes of [optional whitespace (OWS)]
// from the start of and/or the end of s.
// If no more than n bytes of OWS are found at the start of s
// and no more than n bytes of OWS are found at the end of s,
// it returns the trimmed result and true.
// Otherwise, it returns the original string and false.
// TrimOWS never scans more than n+1 bytes from either end of s.
//
// [optional whitespace (OWS)]: https://httpwg.org/specs/rfc9110.html#whitespace
func TrimOWS(s string, n int) (trimmed string, ok bool) {
	start := 0
	for start < len(s) && start <= n && isOWS(s[start]) {
		start++
	}
	if start == len(s) { // nothing but OWS
		if len(s) > 2*n {
			return s, false
		}
		return "", true
	}
	if start > n {
		return s, false
	}
	end := len(s)
	for end > start && len(s)-end <= n && isOWS(s[end-1]) {
		end--
	}
	if len(s)-end > n {
		return s, false
	}
	return s[start:end], true
}

func isOWS(b byte) bool {
	return b == ' ' || b == '\t'
}
