package util

import "strconv"

// FormatThousands renders n with comma separators, e.g. 1234567 -> "1,234,567".
func FormatThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	start := 0
	if n < 0 {
		start = 1
	}

	digits := len(s) - start
	if digits <= 3 {
		return s
	}

	out := make([]byte, 0, len(s)+(digits-1)/3)
	out = append(out, s[:start]...)
	lead := digits % 3
	if lead == 0 {
		lead = 3
	}
	out = append(out, s[start:start+lead]...)
	for i := start + lead; i < len(s); i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return string(out)
}
