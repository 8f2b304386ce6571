package zant

// OptimalParser implements spec.md §4.4's backward dynamic program: it
// computes, for every position, the minimum-cost way to reach the end
// of the chunk, then reconstructs the packet sequence forward. Neither
// the teacher (whose O3 matcher resolves overlaps greedily) nor the
// original source (bounded 1..4 lookahead) implements a true DP; this is
// built directly from the spec's pseudocode.
type OptimalParser struct {
	Cache *MatchCache
}

type parseChoice struct {
	isMatch bool
	offset  int
	length  int
}

func (p *OptimalParser) Parse(data []byte) []Packet {
	p.Cache.Reset()
	n := len(data)
	limit := n - MinMatch

	candidates := make([][]AbsoluteMatch, n)
	for i := 0; i <= limit && i < n; i++ {
		candidates[i] = p.Cache.Candidates(nil, data, i, 0, n)
		p.Cache.Insert(data, i)
	}

	cost := make([]float64, n+1)
	choice := make([]parseChoice, n)

	for i := n - 1; i >= 0; i-- {
		best := cost[i+1] + costLiteral()
		bestChoice := parseChoice{}

		for _, m := range candidates[i] {
			length := m.Length()
			if length < MinMatch || m.End > n {
				continue
			}
			c := cost[m.End] + estimateCost(m.Distance(), length, 0)
			switch {
			case c < best:
				best = c
				bestChoice = parseChoice{isMatch: true, offset: m.Distance(), length: length}
			case c == best && bestChoice.isMatch && m.Distance() < bestChoice.offset:
				bestChoice = parseChoice{isMatch: true, offset: m.Distance(), length: length}
			}
		}

		cost[i] = best
		choice[i] = bestChoice
	}

	var packets []Packet
	nextEmit := 0
	i := 0
	for i < n {
		ch := choice[i]
		if ch.isMatch {
			packets = append(packets, Packet{
				Unmatched: i - nextEmit,
				Match:     Match{Offset: ch.offset, Length: ch.length},
			})
			i += ch.length
			nextEmit = i
			continue
		}
		i++
	}

	if nextEmit < n {
		packets = append(packets, Packet{Unmatched: n - nextEmit})
	}

	return packets
}

// TotalCost returns the estimated bit cost of a packet sequence under
// the shared cost model, used by tests to compare the optimal and
// look-ahead parsers (spec.md §8's "optimal ≤ greedy" property).
func TotalCost(packets []Packet) float64 {
	total := 0.0
	for _, p := range packets {
		if p.HasMatch() {
			total += estimateCost(p.Match.Offset, p.Match.Length, p.Unmatched)
		} else {
			total += float64(p.Unmatched) * 8
		}
	}
	return total
}
