package tans

import (
	"errors"

	"github.com/zant-codec/zant/internal/bitio"
)

// ErrBadState is returned when a decoded tANS state falls outside
// [0, TableSize), which can only happen on malformed input.
var ErrBadState = errors.New("tans: state out of range")

var errTruncatedHistogram = errors.New("tans: truncated histogram")

// Decode reverses Encode: it reads exactly count symbols from payload
// using c's tables and returns them in their original forward order.
func (c *Coder) Decode(payload []byte, count int) ([]byte, error) {
	r := bitio.NewReader(payload)

	raw := r.Read(TableLog)
	state := TableSize + uint32(raw)
	if state < TableSize || state >= 2*TableSize {
		return nil, ErrBadState
	}

	out := make([]byte, count)
	for i := 0; i < count; i++ {
		idx := state - TableSize
		if idx >= uint32(len(c.decodeTable)) {
			return nil, ErrBadState
		}
		e := c.decodeTable[idx]
		out[i] = e.sym
		state = e.newState

		if i == count-1 {
			break
		}
		var k uint
		for (state << k) < TableSize {
			k++
		}
		if k > 0 {
			extra := r.Read(k)
			state = state<<k | uint32(extra)
		}
	}

	return out, nil
}
