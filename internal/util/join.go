package util

import (
	"io"
	"strconv"
)

// Join joins the elements of strs in a human-friendly way
// and writes the result to w.
func Join(w io.StringWriter, strs []string) {
	// Errors are deliberately ignored.
	switch len(strs) {
	case 0:
	case 1:
		w.WriteString(strconv.Quote(strs[0]))
	case 2:
		w.WriteString(strconv.Quote(strs[0]))
		w.WriteString(" or ")
		w.WriteString(strconv.Quote(strs[1]))
	default:
		w.WriteString(strconv.Quote(strs[0]))
		for i := 1; i < len(strs)-1; i++ {
			w.WriteString(", ")
			w.WriteString(strconv.Quote(strs[i]))
		}
		w.WriteString(", or ")
		w.WriteString(strconv.Quote(strs[len(strs)-1]))
	}
}
