package zant

// parserKind is a small tagged enumeration selecting which parser
// variant a level uses (spec.md §9: "model them as variants selected at
// chunk start, not as dynamic dispatch per packet").
type parserKind int

const (
	parserLookahead parserKind = iota
	parserOptimal
)

// levelParams is one row of the level Pareto table: cache entries E
// (a power of two), ways W, look-ahead budget K, maximum search window
// w_max, and which parser the level uses.
type levelParams struct {
	entries int
	ways    int
	k       int
	window  int
	parser  parserKind
}

// levels is indexed by level-1; level 9 selects the optimal parser,
// lower levels select look-ahead with progressively larger search
// effort (spec.md §6).
var levels = [9]levelParams{
	{entries: 1 << 10, ways: 1, k: 0, window: 1 << 12, parser: parserLookahead},
	{entries: 1 << 11, ways: 1, k: 0, window: 1 << 13, parser: parserLookahead},
	{entries: 1 << 12, ways: 2, k: 1, window: 1 << 14, parser: parserLookahead},
	{entries: 1 << 13, ways: 2, k: 1, window: 1 << 15, parser: parserLookahead},
	{entries: 1 << 14, ways: 4, k: 2, window: 1 << 16, parser: parserLookahead},
	{entries: 1 << 15, ways: 4, k: 2, window: 1 << 18, parser: parserLookahead},
	{entries: 1 << 16, ways: 8, k: 3, window: 1 << 20, parser: parserLookahead},
	{entries: 1 << 17, ways: 8, k: 4, window: 1 << 21, parser: parserLookahead},
	{entries: 1 << 17, ways: 16, k: 0, window: 1 << 22, parser: parserOptimal},
}

// levelFor returns the parameter row for level (clamped to 1..9).
func levelFor(level int) levelParams {
	if level < 1 {
		level = 1
	}
	if level > 9 {
		level = 9
	}
	return levels[level-1]
}

// newParser builds the parser and backing MatchCache for level.
func newParser(level int) Parser {
	lp := levelFor(level)
	cache := NewMatchCache(lp.entries, lp.ways, lp.window)
	switch lp.parser {
	case parserOptimal:
		return &OptimalParser{Cache: cache}
	default:
		return &LookaheadParser{Cache: cache, K: lp.k}
	}
}
