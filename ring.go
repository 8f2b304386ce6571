package zant

import "math/bits"

// offsetRing is the three-entry MRU list of recently used match offsets
// (spec.md §4.5), generalized from original_source/src/block.rs's inline
// prev_off1/2/3 scalars into one type shared by stream encoding
// (buildStreams) and decoding (reconstruct), so the bijection property
// has a single implementation to test. The parsers emit plain distances
// and do not use it.
type offsetRing [3]int

// newOffsetRing returns the ring in its fixed initial state.
func newOffsetRing() offsetRing {
	return offsetRing{1, 4, 8}
}

// encode maps a real match offset to its transformed value and updates
// the ring in place, per spec.md §4.5's three numbered rules.
func (r *offsetRing) encode(offset int) int {
	switch offset {
	case r[0]:
		return 0
	case r[1]:
		r[0], r[1] = r[1], r[0]
		return 1
	case r[2]:
		o := r[2]
		r[2] = r[1]
		r[1] = r[0]
		r[0] = o
		return 2
	default:
		r[2] = r[1]
		r[1] = r[0]
		r[0] = offset
		return offset + 3
	}
}

// decode is encode's exact inverse: given a transformed value, it
// returns the real offset and updates the ring identically to how
// encode did at emission time.
func (r *offsetRing) decode(value int) int {
	switch value {
	case 0:
		return r[0]
	case 1:
		r[0], r[1] = r[1], r[0]
		return r[0]
	case 2:
		o := r[2]
		r[2] = r[1]
		r[1] = r[0]
		r[0] = o
		return o
	default:
		offset := value - 3
		r[2] = r[1]
		r[1] = r[0]
		r[0] = offset
		return offset
	}
}

// splitOffsetToken splits a transformed offset value v (>= 0, the
// output of offsetRing.encode) into an OffsetTok symbol and an
// extraBits-wide raw value for OffsetExtra.
//
// Reserved ring-hit values 0/1/2 take the token directly, with zero
// extra bits, since they never need a log2 split. Real offsets are
// always v >= 4 (an encoded offset is >= 1, shifted up by 3), so plain
// floor(log2(v)) would start at token 2 and collide with the ring-hit-2
// reserved token; this module shifts real-offset tokens up by one
// (tok = floor(log2(v))+1) to keep the two token spaces disjoint. Decode
// recovers the bit width directly from tok (tok-1), so extraBits is
// never itself transmitted.
func splitOffsetToken(v int) (tok, extraBits, extra int) {
	if v <= 2 {
		return v, 0, 0
	}
	b := bits.Len(uint(v)) - 1
	return b + 1, b, v - (1 << b)
}

// joinOffsetToken inverts splitOffsetToken: given tok and the extra bits
// read from OffsetExtra, it reconstructs v.
func joinOffsetToken(tok, extra int) int {
	if tok <= 2 {
		return tok
	}
	b := tok - 1
	return (1 << b) + extra
}

// offsetExtraWidth returns how many raw bits of OffsetExtra a given
// token consumes, so decode knows how much to read before calling
// joinOffsetToken.
func offsetExtraWidth(tok int) int {
	if tok <= 2 {
		return 0
	}
	return tok - 1
}
