package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant identifies which rule set a layout code belongs to.
type Variant string

const (
	// VariantFlat is the two-corner game played on a bordered 2-D grid.
	VariantFlat Variant = "2CO"
	// VariantLayered is the traditional stacked game.
	VariantLayered Variant = "TRD"
)

// Version is the only format version accepted by Decode.
const Version = "01"

const (
	MaxWidth  = 20
	MaxHeight = 12

	prefixLen   = len("2CO") + len(Version)
	headerLen   = prefixLen + 4
	checksumMod = 1024
)

// Header is the fixed part of a layout code.
type Header struct {
	Variant Variant `json:"variant"`
	Version string  `json:"version"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
}

// ValidateDimensions reports ErrInvalidDimensions for sizes outside the
// encodable range.
func ValidateDimensions(width, height int) error {
	if width < 1 || width > MaxWidth || height < 1 || height > MaxHeight {
		return fmt.Errorf("%w: %dx%d (allowed 1-%d x 1-%d)", ErrInvalidDimensions, width, height, MaxWidth, MaxHeight)
	}
	return nil
}

// ParseDimensions parses textual width and height as supplied by a user.
func ParseDimensions(width, height string) (int, int, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: width %q is not a number", ErrInvalidDimensions, width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: height %q is not a number", ErrInvalidDimensions, height)
	}
	if err := ValidateDimensions(w, h); err != nil {
		return 0, 0, err
	}
	return w, h, nil
}

// checksum is the byte sum of the payload modulo 1024. A single changed
// character shifts the sum by less than 1024, so it is always caught.
// Edits to several characters can cancel out and collide with a
// probability of about 1 in 1024.
func checksum(payload string) string {
	sum := 0
	for i := 0; i < len(payload); i++ {
		sum += int(payload[i])
	}
	return fixed(uint64(sum%checksumMod), 2)
}

// seal assembles a complete code from a compressed payload.
func seal(variant Variant, width, height int, payload string) string {
	body := string(digits[width]) + string(digits[height]) + checksum(payload) + payload
	return string(variant) + Version + sanitize(body)
}

// Inspect parses and checks the header of code without decoding the
// occupancy payload.
func Inspect(code string) (Header, error) {
	h, _, err := open(code)
	return h, err
}

// open validates everything up to and including the checksum and returns
// the still-compressed payload.
func open(code string) (Header, string, error) {
	code = strings.TrimSpace(code)
	if len(code) < headerLen {
		return Header{}, "", fmt.Errorf("%w: code too short", ErrInvalidFormat)
	}

	variant := Variant(code[:3])
	if variant != VariantFlat && variant != VariantLayered {
		return Header{}, "", fmt.Errorf("%w: unknown variant %q", ErrInvalidFormat, code[:3])
	}
	if code[3:prefixLen] != Version {
		return Header{}, "", fmt.Errorf("%w: unsupported version %q", ErrInvalidFormat, code[3:prefixLen])
	}

	body, ok := desanitize(code[prefixLen:])
	if !ok {
		return Header{}, "", fmt.Errorf("%w: unexpected vowel", ErrInvalidFormat)
	}

	w, okW := digitValue(body[0])
	h, okH := digitValue(body[1])
	if !okW || !okH {
		return Header{}, "", fmt.Errorf("%w: dimensions %q are not base-32 digits", ErrInvalidDimensions, body[:2])
	}
	if err := ValidateDimensions(w, h); err != nil {
		return Header{}, "", err
	}

	header := Header{Variant: variant, Version: Version, Width: w, Height: h}
	want, ok := parseFixed(body[2:4])
	if !ok {
		return Header{}, "", fmt.Errorf("%w: checksum %q is not base-32", ErrInvalidFormat, body[2:4])
	}
	payload := body[4:]
	if got, _ := parseFixed(checksum(payload)); got != want {
		return Header{}, "", fmt.Errorf("%w: got %d, code carries %d", ErrChecksumMismatch, got, want)
	}
	return header, payload, nil
}

func openVariant(code string, variant Variant) (Header, string, error) {
	h, payload, err := open(code)
	if err != nil {
		return Header{}, "", err
	}
	if h.Variant != variant {
		return Header{}, "", fmt.Errorf("%w: expected %s code, got %s", ErrInvalidFormat, variant, h.Variant)
	}
	return h, payload, nil
}
