package layout

// Codes are shared as plain text, so every vowel after the prefix is
// swapped for a letter the encoder never emits. The two blocks below are
// the complete substitution; nothing else is rewritten.
var sanitizeTable = map[byte]byte{
	'a': 'w',
	'e': 'x',
	'i': 'y',
	'o': 'z',
	'u': 'W',
	'A': 'X',
	'E': 'Y',
	'I': 'Z',
}

var desanitizeTable = func() map[byte]byte {
	m := make(map[byte]byte, len(sanitizeTable))
	for k, v := range sanitizeTable {
		m[v] = k
	}
	return m
}()

func sanitize(s string) string {
	b := []byte(s)
	for i, c := range b {
		if r, ok := sanitizeTable[c]; ok {
			b[i] = r
		}
	}
	return string(b)
}

// desanitize reverses sanitize. A vowel in the input means the code was
// typed by hand or damaged, since sanitize never leaves one behind.
func desanitize(s string) (string, bool) {
	b := []byte(s)
	for i, c := range b {
		switch c {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return "", false
		}
		if r, ok := desanitizeTable[c]; ok {
			b[i] = r
		}
	}
	return string(b), true
}
