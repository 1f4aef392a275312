package layout

import (
	"bytes"
	"fmt"
	"strings"
)

// literal replaces a frequent digit pattern with a single code letter.
type literal struct {
	pattern string
	code    byte
}

// literalTable is applied top to bottom when compressing; the first entry
// that matches a region wins. Code letters never appear in raw payloads,
// so expansion is a straight per-character lookup.
type literalTable []literal

func (t literalTable) compress(s string) string {
	for _, l := range t {
		s = strings.ReplaceAll(s, l.pattern, string(l.code))
	}
	return s
}

func (t literalTable) expand(s string, limit int) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if _, ok := digitValue(c); ok {
			b.WriteByte(c)
		} else if p, ok := t.lookup(c); ok {
			b.WriteString(p)
		} else {
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidFormat, c)
		}
		if b.Len() > limit {
			return "", fmt.Errorf("%w: payload exceeds grid size", ErrInvalidFormat)
		}
	}
	return b.String(), nil
}

func (t literalTable) lookup(code byte) (string, bool) {
	for _, l := range t {
		if l.code == code {
			return l.pattern, true
		}
	}
	return "", false
}

// runWindow is one run-length pass: k repeats of a size-character pattern
// become marker, count digit, pattern.
type runWindow struct {
	size   int
	marker byte
}

var runWindows = []runWindow{
	{size: 6, marker: 'N'},
	{size: 3, marker: 'M'},
	{size: 2, marker: 'L'},
	{size: 1, marker: 'K'},
}

const (
	runMarkers = "NMLK"
	maxRepeat  = len(digits) - 1
	// maxRunPasses bounds run-length expansion. Well-formed codes never
	// nest headers and expand in a single pass.
	maxRunPasses = 4
)

func windowFor(marker byte) int {
	for _, w := range runWindows {
		if w.marker == marker {
			return w.size
		}
	}
	return 0
}

// compressRuns applies every window in order. Characters that already
// belong to a header unit are never folded into a later window, so the
// output contains only top-level headers.
func compressRuns(s string) string {
	buf := []byte(s)
	held := make([]bool, len(buf))

	for _, w := range runWindows {
		out := make([]byte, 0, len(buf))
		outHeld := make([]bool, 0, len(buf))
		for i := 0; i < len(buf); {
			if k := countRepeats(buf, held, i, w.size); k*w.size > w.size+2 {
				out = append(out, w.marker, digits[k])
				out = append(out, buf[i:i+w.size]...)
				for j := 0; j < w.size+2; j++ {
					outHeld = append(outHeld, true)
				}
				i += k * w.size
				continue
			}
			out = append(out, buf[i])
			outHeld = append(outHeld, held[i])
			i++
		}
		buf, held = out, outHeld
	}
	return string(buf)
}

func countRepeats(buf []byte, held []bool, i, n int) int {
	if i+n > len(buf) || anyHeld(held[i:i+n]) {
		return 0
	}
	k := 1
	for k < maxRepeat {
		start := i + k*n
		if start+n > len(buf) || anyHeld(held[start:start+n]) {
			break
		}
		if !bytes.Equal(buf[i:i+n], buf[start:start+n]) {
			break
		}
		k++
	}
	return k
}

func anyHeld(held []bool) bool {
	for _, h := range held {
		if h {
			return true
		}
	}
	return false
}

// expandRuns reverses compressRuns. Nested headers are resolved one level
// per pass; anything still holding a marker after passes runs out is
// rejected rather than expanded further.
func expandRuns(s string, passes, limit int) (string, error) {
	for pass := 0; pass < passes; pass++ {
		if !strings.ContainsAny(s, runMarkers) {
			return s, nil
		}
		var b strings.Builder
		for i := 0; i < len(s); {
			n := windowFor(s[i])
			if n == 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			if i+2+n > len(s) {
				return "", fmt.Errorf("%w: truncated run header at %d", ErrInvalidFormat, i)
			}
			k, ok := digitValue(s[i+1])
			if !ok || k < 2 {
				return "", fmt.Errorf("%w: bad run count at %d", ErrInvalidFormat, i)
			}
			if b.Len()+k*n > limit {
				return "", fmt.Errorf("%w: payload exceeds grid size", ErrInvalidFormat)
			}
			pattern := s[i+2 : i+2+n]
			for r := 0; r < k; r++ {
				b.WriteString(pattern)
			}
			i += 2 + n
		}
		s = b.String()
	}
	if strings.ContainsAny(s, runMarkers) {
		return "", fmt.Errorf("%w: run headers nested too deeply", ErrInvalidFormat)
	}
	return s, nil
}
