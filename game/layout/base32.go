package layout

const digits = "0123456789abcdefghijklmnopqrstuv"

func digitValue(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'a' && c <= 'v':
		return int(c-'a') + 10, true
	}
	return 0, false
}

// appendFixed renders v as exactly n base-32 digits, most significant first.
func appendFixed(dst []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, digits[(v>>(5*uint(i)))&31])
	}
	return dst
}

func fixed(v uint64, n int) string {
	return string(appendFixed(make([]byte, 0, n), v, n))
}

func parseFixed(s string) (uint64, bool) {
	var v uint64
	for i := 0; i < len(s); i++ {
		d, ok := digitValue(s[i])
		if !ok {
			return 0, false
		}
		v = v<<5 | uint64(d)
	}
	return v, true
}
