package zant

import "errors"

// Sentinel errors for the kinds spec.md §7 enumerates, usable with
// errors.Is. Each is wrapped with position context (chunk index, byte
// offset) at its call site, following the sentinel-plus-wrap idiom
// github.com/klauspost/compress uses throughout its zstd decoder.
var (
	// ErrInputTooLarge is returned when a single chunk would exceed
	// 2^32-1 bytes.
	ErrInputTooLarge = errors.New("zant: input chunk too large")

	// ErrTruncatedInput is returned when decode needs bytes past the
	// end of the stream.
	ErrTruncatedInput = errors.New("zant: truncated input")

	// ErrBadMagic is returned when a chunk header's magic does not
	// match.
	ErrBadMagic = errors.New("zant: bad chunk magic")

	// ErrBadHistogram is returned when a decoded histogram does not sum
	// to TABLE.
	ErrBadHistogram = errors.New("zant: bad histogram")

	// ErrBadState is returned when tANS decode produces an out-of-range
	// state.
	ErrBadState = errors.New("zant: bad tANS state")

	// ErrBadReference is returned when a decoded match offset or length
	// would read outside the already-decoded chunk prefix.
	ErrBadReference = errors.New("zant: bad match reference")

	// ErrLengthMismatch is returned when the reconstructed chunk length
	// does not match the declared origLen.
	ErrLengthMismatch = errors.New("zant: length mismatch")
)
