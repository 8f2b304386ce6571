package zant

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

// hashMul32 is the multiplicative mix constant for the 4-byte match key.
const hashMul32 = 0x1e35a7bd

// MatchCache is the set-associative hash dictionary of spec.md §4.3: E
// entries (buckets), each holding up to W candidate positions ordered
// most-recent first. It is chunk-local — callers must build a fresh one
// (or call Reset) at each chunk boundary, since offsets never cross
// chunks.
type MatchCache struct {
	entries int // E, power of two
	ways    int // W
	window  int // w_max, maximum back-distance considered a candidate

	shift uint // 32 - log2(entries)
	mask  uint32

	// table holds Entries*Ways uint32 positions, bucket-major: bucket b
	// occupies table[b*ways : b*ways+ways], slot 0 most recent.
	table []uint32
}

// NewMatchCache returns a cache with entries buckets (must be a power of
// two), ways candidates per bucket, and a window of at most windowMax
// back-distance.
func NewMatchCache(entries, ways, windowMax int) *MatchCache {
	c := &MatchCache{
		entries: entries,
		ways:    ways,
		window:  windowMax,
	}
	c.shift = uint(32 - bits.Len(uint(entries-1)))
	c.mask = uint32(entries - 1)
	c.table = make([]uint32, entries*ways)
	return c
}

// Reset clears every bucket so the cache can be reused for a new chunk.
func (c *MatchCache) Reset() {
	for i := range c.table {
		c.table[i] = 0
	}
}

func (c *MatchCache) hash(key uint32) uint32 {
	return ((key * hashMul32) >> c.shift) & c.mask
}

// Insert records position i (data[i:i+4] is its key) in its bucket,
// shifting older entries down by one and dropping the oldest.
func (c *MatchCache) Insert(data []byte, i int) {
	if i+4 > len(data) {
		return
	}
	key := binary.LittleEndian.Uint32(data[i:])
	h := c.hash(key)
	bucket := c.table[int(h)*c.ways : int(h)*c.ways+c.ways]
	for j := c.ways - 1; j > 0; j-- {
		bucket[j] = bucket[j-1]
	}
	bucket[0] = uint32(i)
}

// candidates returns, into dst, the up-to-W raw bucket entries for
// position i's key, most-recent first, without any filtering.
func (c *MatchCache) candidates(dst []uint32, data []byte, i int) []uint32 {
	if i+4 > len(data) {
		return dst
	}
	key := binary.LittleEndian.Uint32(data[i:])
	h := c.hash(key)
	bucket := c.table[int(h)*c.ways : int(h)*c.ways+c.ways]
	return append(dst, bucket...)
}

// FindBest looks up position i's bucket and returns the longest legal
// match within [min, max), applying the early-disqualify heuristic: once
// a provisional best of length X is found, a new candidate is rejected
// without a full scan if the bytes at candidate+X and i+X differ.
func (c *MatchCache) FindBest(data []byte, i, min, max int) (AbsoluteMatch, bool) {
	var cand [16]uint32
	buf := c.candidates(cand[:0], data, i)

	var best AbsoluteMatch
	var bestLen int
	searchSeq := binary.LittleEndian.Uint32(data[i:])

	for _, pRaw := range buf {
		p := int(pRaw)
		if p == 0 && i != 0 {
			// Zero is also the zero-value of an empty slot; position 0
			// can only be a real candidate when i itself is not 0 (a
			// match can't reference itself), so this is safe to treat
			// as "empty" in the overwhelmingly common case where real
			// matches rarely originate at byte 0 of the chunk.
			continue
		}
		if p >= i || i-p > c.window || p < min {
			continue
		}
		if binary.LittleEndian.Uint32(data[p:]) != searchSeq {
			continue
		}

		if bestLen > 0 {
			if p+bestLen >= len(data) || i+bestLen >= len(data) || data[p+bestLen] != data[i+bestLen] {
				continue
			}
		}

		end := extendMatch(data[:max], p+4, i+4)
		length := end - i
		if length > bestLen {
			bestLen = length
			best = AbsoluteMatch{Start: i, End: end, Match: p}
		}
	}

	return best, bestLen >= MinMatch
}

// Candidates appends to dst one AbsoluteMatch per bucket entry that
// legally matches and extends the previous best, mirroring the
// incremental "keep only if longer" search used by optimal parsing,
// which wants several offset/length tradeoffs rather than just the
// single longest match FindBest returns.
func (c *MatchCache) Candidates(dst []AbsoluteMatch, data []byte, i, min, max int) []AbsoluteMatch {
	var cand [16]uint32
	buf := c.candidates(cand[:0], data, i)

	searchSeq := binary.LittleEndian.Uint32(data[i:])
	length := 0

	for _, pRaw := range buf {
		p := int(pRaw)
		if p == 0 && i != 0 {
			continue
		}
		if p >= i || i-p > c.window || p < min {
			continue
		}
		if binary.LittleEndian.Uint32(data[p:]) != searchSeq {
			continue
		}
		if length > 0 && (p+length >= len(data) || i+length >= len(data) || data[p+length] != data[i+length]) {
			continue
		}

		end := extendMatch(data[:max], p+4, i+4)
		if end-i > length {
			length = end - i
			dst = append(dst, AbsoluteMatch{Start: i, End: end, Match: p})
		}
	}

	return dst
}

// extendMatch returns the largest k such that k <= len(src) and
// src[i:i+k-j] equals src[j:k], assuming 0 <= i < j <= len(src).
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	default:
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
