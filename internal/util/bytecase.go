package util

// ByteLowercase returns a [byte-lowercase] version of s.
// If s contains no uppercase ASCII byte, s itself is returned
// and no allocation takes place.
//
// [byte-lowercase]: https://infra.spec.whatwg.org/#byte-lowercase
func ByteLowercase(s string) string {
	return flipCase(s, 'A', 'Z')
}

// ByteUppercase returns a [byte-uppercase] version of s.
// If s contains no lowercase ASCII byte, s itself is returned
// and no allocation takes place.
//
// [byte-uppercase]: https://infra.spec.whatwg.org/#byte-uppercase
func ByteUppercase(s string) string {
	return flipCase(s, 'a', 'z')
}

// IsByteLowercase reports whether s contains no uppercase ASCII byte.
func IsByteLowercase(s string) bool {
	return indexRange(s, 'A', 'Z') < 0
}

// flipCase flips the case of every byte of s that lies in [lo, hi],
// which must be a range of ASCII letters.
func flipCase(s string, lo, hi byte) string {
	i := indexRange(s, lo, hi)
	if i < 0 {
		return s
	}
	b := []byte(s)
	for ; i < len(b); i++ {
		if lo <= b[i] && b[i] <= hi {
			b[i] ^= caseBit
		}
	}
	return string(b)
}

func indexRange(s string, lo, hi byte) int {
	for i := range len(s) {
		if lo <= s[i] && s[i] <= hi {
			return i
		}
	}
	return -1
}

const caseBit = 'a' ^ 'A'
