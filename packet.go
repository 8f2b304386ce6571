package zant

// MinMatch is the minimum length a match may report (spec.md §3).
const MinMatch = 4

// A Match is an (offset, length) back-reference: offset ≥ 1 is the byte
// distance back into the already-consumed chunk, length ≥ MinMatch.
type Match struct {
	Offset int
	Length int
}

// A Packet is a (literal-run, match) pair, the unit a parser emits.
// Unmatched is the length of the literal run immediately preceding the
// match. When a chunk ends with literal bytes, its final packet carries a
// zero Match (no copy) and those trailing bytes; when the last match
// reaches the end of the chunk, no such packet is emitted.
type Packet struct {
	Unmatched int
	Match     Match // Match.Length == 0 means "no match" (end of chunk)
}

// HasMatch reports whether p carries a real match.
func (p Packet) HasMatch() bool {
	return p.Match.Length > 0
}

// AbsoluteMatch is a candidate match expressed as byte-stream indexes
// rather than packet-relative lengths: Start/End bound the matched
// region of the current (i.e. later) occurrence, Match is the index of
// the earlier occurrence it copies from.
type AbsoluteMatch struct {
	Start int
	End   int
	Match int
}

// Length returns End - Start.
func (m AbsoluteMatch) Length() int { return m.End - m.Start }

// Distance returns Start - Match.
func (m AbsoluteMatch) Distance() int { return m.Start - m.Match }
