package zant

import "math"

// A Parser consumes a chunk's bytes, driven by a MatchCache, and returns
// the packet sequence to encode. The two parsers (spec.md §4.4) share no
// state; a chunk selects one variant at the start and runs it to
// completion. Model them as a small tagged choice rather than dynamic
// dispatch per packet (spec.md §9).
type Parser interface {
	Parse(data []byte) []Packet
}

// LookaheadParser implements the greedy look-ahead strategy: at each
// position it compares the best match available there against the best
// matches at up to K following positions, picking whichever has the
// lowest estimated cost.
type LookaheadParser struct {
	Cache *MatchCache
	K     int
}

func (p *LookaheadParser) Parse(data []byte) []Packet {
	p.Cache.Reset()
	n := len(data)
	limit := n - MinMatch

	var packets []Packet
	nextEmit := 0
	i := 0

	for i <= limit {
		bestCost := math.Inf(1)
		var chosen AbsoluteMatch
		haveMatch := false

		if m, ok := p.Cache.FindBest(data, i, nextEmit, n); ok {
			bestCost = estimateCost(m.Distance(), m.Length(), 0)
			chosen = m
			haveMatch = true
		}

		for k := 1; k <= p.K && i+k <= limit; k++ {
			m, ok := p.Cache.FindBest(data, i+k, nextEmit, n)
			if !ok {
				continue
			}
			cost := estimateCost(m.Distance(), m.Length(), k)
			if cost < bestCost {
				bestCost = cost
				chosen = m
				haveMatch = true
			}
		}

		if !haveMatch {
			p.Cache.Insert(data, i)
			i++
			continue
		}

		for j := i; j < chosen.Start; j++ {
			p.Cache.Insert(data, j)
		}

		packets = append(packets, Packet{
			Unmatched: chosen.Start - nextEmit,
			Match:     Match{Offset: chosen.Distance(), Length: chosen.Length()},
		})

		for j := chosen.Start; j < chosen.End; j++ {
			p.Cache.Insert(data, j)
		}

		i = chosen.End
		nextEmit = i
	}

	if nextEmit < n {
		packets = append(packets, Packet{Unmatched: n - nextEmit})
	}

	return packets
}
