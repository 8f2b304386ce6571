package zant

import "math"

// estimateCost approximates the entropy-coded size in bits of a packet
// with a literal run of length runLen followed by a match of the given
// offset and length (spec.md §4.4). It is a tie-breaker, not a promise
// of the actual encoded size, so both parsers may use the same rough
// constants.
func estimateCost(offset, length, runLen int) float64 {
	if length == 0 {
		// Pure literal run: roughly one byte's worth of bits each.
		return float64(runLen) * 8
	}
	return 4 + math.Log2(float64(offset)) + 0.5*float64(runLen) - float64(length)
}

// costLiteral is the estimated cost of emitting a single literal byte,
// used by the optimal parser's dynamic program.
func costLiteral() float64 {
	return 8
}
