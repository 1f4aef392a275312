package layout

import "errors"

var (
	// ErrInvalidDimensions is returned when a width or height is outside
	// [1,MaxWidth] x [1,MaxHeight] or cannot be parsed.
	ErrInvalidDimensions = errors.New("invalid layout dimensions")
	// ErrInvalidFormat is returned for malformed codes: wrong variant id,
	// unsupported version, bad characters or payload overflow.
	ErrInvalidFormat = errors.New("invalid layout code")
	// ErrChecksumMismatch is returned when the payload does not match the
	// checksum carried in the code.
	ErrChecksumMismatch = errors.New("layout checksum mismatch")
)
