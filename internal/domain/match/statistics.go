package match

// Statistics is a pure reduction over a result set. Merge is associative and
// order-independent, so worker partials can be combined in any order.
type Statistics struct {
	Total     int
	Exact     int
	Fuzzy     int
	Unmatched int
}

// Observe folds one result into the statistics.
func (s *Statistics) Observe(r Result) {
	s.Total++
	switch r.Kind() {
	case KindExact:
		s.Exact++
	case KindFuzzy:
		s.Fuzzy++
	default:
		s.Unmatched++
	}
}

// Merge combines two partial statistics.
func (s Statistics) Merge(o Statistics) Statistics {
	return Statistics{
		Total:     s.Total + o.Total,
		Exact:     s.Exact + o.Exact,
		Fuzzy:     s.Fuzzy + o.Fuzzy,
		Unmatched: s.Unmatched + o.Unmatched,
	}
}

// Matched returns the number of queries that received a document number.
func (s Statistics) Matched() int { return s.Exact + s.Fuzzy }

// MatchRate returns the matched fraction as a percentage (0 for an empty run).
func (s Statistics) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched()) / float64(s.Total) * 100
}
