// Package tans implements a table-based Asymmetric Numeral System (tANS)
// entropy coder. Given a byte alphabet of fixed size (256 for literal and
// length streams, 28 for the offset-token stream) it normalizes a
// histogram to a fixed table size, spreads symbols across the state
// table using Yann Collet's spreading step, and uses the resulting
// tables to encode and decode a symbol sequence.
//
// The coder processes symbols in reverse during encoding and forward
// during decoding; this asymmetry is inherent to ANS and is fixed here
// as the one convention used for every stream (literal, length, and
// offset-token alike), per the container format's requirements.
package tans

import "fmt"

// TableLog is the base-2 logarithm of the state table size.
const TableLog = 12

// TableSize is the tANS state table size (4096).
const TableSize = 1 << TableLog

// Coder holds the encode/decode tables built from a single normalized
// histogram. A Coder is specific to one alphabet size and must be
// rebuilt (via Init) for each block of data it codes, since the
// histogram changes per block.
type Coder struct {
	alphabet int

	// encodeTable[sym*TableSize*2+fromState] = toState (offset by TableSize).
	// Only entries with fromState in [H[sym], 2*H[sym]-1] are populated;
	// the renormalization invariant guarantees encode never indexes
	// outside that range.
	encodeTable []uint16

	// maxState[sym] is the renormalization threshold for sym: a live
	// encode state must be reduced below maxState[sym] before the table
	// lookup. After table construction this equals 2*H[sym].
	maxState []uint32

	// decodeTable[toState] = (symbol, fromState) for toState in
	// [0, TableSize).
	decodeTable []decEntry

	normHist []uint32
}

type decEntry struct {
	sym      byte
	newState uint32
}

// NewCoder returns a Coder for the given alphabet size (256 or 28).
func NewCoder(alphabet int) *Coder {
	return &Coder{alphabet: alphabet}
}

// Alphabet returns the coder's alphabet size.
func (c *Coder) Alphabet() int { return c.alphabet }

// NormHist returns the normalized histogram the coder was built from.
func (c *Coder) NormHist() []uint32 { return c.normHist }

// IsValidHistogram reports whether norm has the right length and sums
// to TableSize exactly, the condition spec.md calls BadHistogram when
// violated.
func IsValidHistogram(norm []uint32, alphabet int) bool {
	if len(norm) != alphabet {
		return false
	}
	var sum uint64
	for _, v := range norm {
		sum += uint64(v)
	}
	return sum == uint64(TableSize)
}

// BuildHistogram counts occurrences of each byte in data. Every value in
// data must be < alphabet.
func BuildHistogram(data []byte, alphabet int) []uint32 {
	counts := make([]uint32, alphabet)
	for _, b := range data {
		counts[b]++
	}
	return counts
}

// NormalizeHistogram scales counts (of length alphabet) so that the
// result sums to exactly tableSize: each nonzero-count symbol gets
// floor(count*tableSize/total), any nonzero count that rounds to zero is
// bumped to 1, and the largest bucket absorbs the resulting rounding
// error so the sum is exact (spec.md §4.2).
func NormalizeHistogram(counts []uint32, tableSize int) []uint32 {
	norm := make([]uint32, len(counts))

	var total uint64
	for _, c := range counts {
		total += uint64(c)
	}
	if total == 0 {
		// No data at all: produce some valid histogram. All weight goes
		// to symbol 0, matching how a degenerate zero-frequency table is
		// conventionally built for an empty block.
		norm[0] = uint32(tableSize)
		return norm
	}

	var sum uint32
	for i, c := range counts {
		if c == 0 {
			continue
		}
		v := uint32(uint64(c) * uint64(tableSize) / total)
		if v == 0 {
			v = 1
		}
		norm[i] = v
		sum += v
	}

	if sum != uint32(tableSize) {
		maxIdx := 0
		for i, v := range norm {
			if v > norm[maxIdx] {
				maxIdx = i
			}
		}
		if sum > uint32(tableSize) {
			norm[maxIdx] -= sum - uint32(tableSize)
		} else {
			norm[maxIdx] += uint32(tableSize) - sum
		}
	}

	return norm
}

// tableStep is Yann Collet's spreading step: (tableSize*5/8)+3, which for
// a power-of-two tableSize is always odd and therefore coprime with it,
// guaranteeing the spread below visits every slot exactly once.
func tableStep(tableSize int) int {
	return (tableSize >> 1) + (tableSize >> 3) + 3
}

// spreadSymbols assigns each table slot to a symbol so that symbol s
// receives norm[s] consecutive slot assignments (not consecutive
// positions) in Collet's spread order.
func spreadSymbols(norm []uint32, tableSize int) []byte {
	table := make([]byte, tableSize)
	step := tableStep(tableSize)
	mask := tableSize - 1
	pos := 0
	for sym, count := range norm {
		for i := uint32(0); i < count; i++ {
			table[pos] = byte(sym)
			pos = (pos + step) & mask
		}
	}
	return table
}

// Init builds the encode/decode tables from a normalized histogram.
func (c *Coder) Init(norm []uint32) error {
	if !IsValidHistogram(norm, c.alphabet) {
		return fmt.Errorf("tans: invalid histogram (alphabet %d)", c.alphabet)
	}

	c.normHist = append([]uint32(nil), norm...)
	c.maxState = make([]uint32, c.alphabet)
	for sym, h := range norm {
		if h > 0 {
			c.maxState[sym] = h
		}
	}

	spread := spreadSymbols(norm, TableSize)

	c.encodeTable = make([]uint16, c.alphabet*TableSize*2)
	c.decodeTable = make([]decEntry, TableSize)

	for toState := 0; toState < TableSize; toState++ {
		sym := spread[toState]
		fromState := c.maxState[sym]
		c.maxState[sym]++

		c.encodeTable[int(sym)*TableSize*2+int(fromState)] = uint16(toState + TableSize)
		c.decodeTable[toState] = decEntry{sym: sym, newState: fromState}
	}

	return nil
}
