package tans

import "github.com/zant-codec/zant/internal/bitio"

// appendLengthRun serializes v using the classical LZ4-style escape: full
// 255 bytes while v >= 255, then the remainder. It is used here only for
// histogram entries, which is why it lives in this package rather than
// the root varint helper (which serializes run lengths, a related but
// separately-grounded use of the same scheme).
func appendLengthRun(dst []byte, v uint32) []byte {
	for v >= 255 {
		dst = append(dst, 255)
		v -= 255
	}
	return append(dst, byte(v))
}

// readLengthRun parses a value encoded by appendLengthRun starting at
// src[pos], returning the value and the number of bytes consumed.
func readLengthRun(src []byte, pos int) (uint32, int, bool) {
	var v uint32
	start := pos
	for {
		if pos >= len(src) {
			return 0, 0, false
		}
		b := src[pos]
		pos++
		v += uint32(b)
		if b != 255 {
			break
		}
	}
	return v, pos - start, true
}

// EncodeHistogram serializes a normalized histogram of the given
// alphabet size using one entry per symbol.
func EncodeHistogram(norm []uint32) []byte {
	var out []byte
	for _, v := range norm {
		out = appendLengthRun(out, v)
	}
	return out
}

// DecodeHistogram parses alphabet entries from src starting at pos,
// returning the histogram and the number of bytes consumed.
func DecodeHistogram(src []byte, pos, alphabet int) ([]uint32, int, error) {
	norm := make([]uint32, alphabet)
	start := pos
	for i := 0; i < alphabet; i++ {
		v, n, ok := readLengthRun(src, pos)
		if !ok {
			return nil, 0, errTruncatedHistogram
		}
		norm[i] = v
		pos += n
	}
	return norm, pos - start, nil
}

// Encode entropy-codes data (every byte < c.alphabet) against c's tables,
// processing symbols in reverse as tANS requires, and returns the
// resulting bitstream bytes (not including the histogram, which the
// caller serializes separately via EncodeHistogram so it can be shared
// across calls that re-use the same Coder).
func (c *Coder) Encode(data []byte) []byte {
	type op struct {
		val uint64
		n   uint
	}
	ops := make([]op, 0, len(data)+1)

	state := uint32(TableSize)
	for i := len(data) - 1; i >= 0; i-- {
		sym := data[i]
		maxS := c.maxState[sym]

		var k uint
		for (state >> k) >= maxS {
			k++
		}
		if k > 0 {
			bits := uint64(state) & (1<<k - 1)
			ops = append(ops, op{bits, k})
		}
		reduced := state >> k
		state = uint32(c.encodeTable[int(sym)*TableSize*2+int(reduced)])
	}
	ops = append(ops, op{uint64(state - TableSize), TableLog})

	w := bitio.NewWriter(nil)
	for i := len(ops) - 1; i >= 0; i-- {
		w.Write(ops[i].val, ops[i].n)
	}
	return w.Flush()
}
