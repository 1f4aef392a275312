package layout

// DefaultFlatCode is the full 17x8 two-corner board (136 tiles).
const DefaultFlatCode = "2CO01h8lgVVVVVVVV"

// DefaultLayered returns a 12x8 pyramid of five layers, 178 tiles, capped
// by two tiles shifted half a cell down.
func DefaultLayered() *Layered {
	l := NewLayered(12, 8)
	l.Fill(0, 0, 11, 7, 0)
	l.Fill(2, 1, 9, 6, 1)
	l.Fill(3, 2, 8, 5, 2)
	l.Fill(4, 3, 7, 4, 3)
	l.Place(4, 3, 4, true, true)
	l.Place(6, 3, 4, false, true)
	return l
}

// DefaultLayeredCode is the encoded form of DefaultLayered.
var DefaultLayeredCode = func() string {
	code, err := EncodeLayered(DefaultLayered())
	if err != nil {
		panic(err)
	}
	return code
}()

// DefaultCode returns the fallback code for a variant.
func DefaultCode(v Variant) string {
	if v == VariantLayered {
		return DefaultLayeredCode
	}
	return DefaultFlatCode
}
