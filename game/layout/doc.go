// Package layout encodes and decodes board shapes as short shareable codes.
//
// A code looks like
//
//	2CO01h8lgVVVVVVVV
//	^^^                 variant id (2CO flat, TRD layered)
//	   ^^               format version
//	     ^^             width and height as base-32 digits
//	       ^^           checksum of the payload
//	         ^^^^^^^^   compressed occupancy payload
//
// Flat shapes store one base-32 word per row. Layered shapes store one
// six-digit word per occupied cell holding the preceding empty run, the
// layer bitmask and both half-step bitmasks. Payloads are shortened with a
// literal table (and, for layered shapes, run-length headers), and vowels
// after the prefix are substituted so codes never spell words.
//
// Decoding fails closed: any other version, a bad checksum or an
// overflowing payload is reported as an error wrapping ErrInvalidFormat,
// ErrInvalidDimensions or ErrChecksumMismatch.
package layout
