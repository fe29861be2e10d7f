package utils

import (
	"strconv"
	"strings"
)

// FormatPrice formats an amount in minor units (cents) as a string like
// "$1,249.00". Uses comma as thousands separator.
func FormatPrice(minor int64) string {
	neg := minor < 0
	if neg {
		minor = -minor
	}

	whole := strconv.FormatInt(minor/100, 10)
	cents := minor % 100

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $ + cents
	b.Grow(len(whole) + len(whole)/3 + 5)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(whole) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(whole[:rem])
	for i := rem; i < len(whole); i += 3 {
		b.WriteByte(',')
		b.WriteString(whole[i : i+3])
	}

	b.WriteByte('.')
	if cents < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(cents, 10))
	return b.String()
}
