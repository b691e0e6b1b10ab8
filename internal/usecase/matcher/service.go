// Package matcher resolves a single roster query to a registry document number.
package matcher

import (
	"github.com/meridian-data/corpmatch/internal/domain/match"
)

// Defaults for unset options.
const (
	DefaultThreshold     = 80
	DefaultMaxCandidates = 50
)

// Service runs the three-stage resolution: exact lookup, shortlist
// construction, fuzzy scoring. Every query yields a Result; there is no
// error path.
type Service struct {
	index         CandidateIndex
	scorer        Scorer
	threshold     int
	maxCandidates int
}

// New creates a matcher over a frozen index. threshold is the minimum fuzzy
// score (0-100) to accept; 0 accepts every scored candidate and a negative
// value selects the default. maxCandidates bounds the shortlist; zero selects
// the default.
func New(index CandidateIndex, scorer Scorer, threshold, maxCandidates int) *Service {
	if threshold < 0 {
		threshold = DefaultThreshold
	}
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	return &Service{index: index, scorer: scorer, threshold: threshold, maxCandidates: maxCandidates}
}

// Match resolves one query.
//
// Stage 1 (exact): a non-empty exact bucket wins immediately with score 100.
// On a normalized-name collision the first-inserted candidate wins; ties are
// not reported as ambiguous.
// Stage 2 (shortlist): an empty shortlist is an unmatched result with score 0.
// Stage 3 (fuzzy): the best-scoring shortlist candidate wins if it reaches the
// threshold; equal scores resolve to the earliest shortlist position, which
// keeps output byte-identical across runs. Below-threshold best scores are
// retained on the unmatched result for diagnostics.
func (s *Service) Match(q match.Query) match.Result {
	if q.IsEmpty() {
		return match.NewNone(q.Name(), 0)
	}

	if bucket := s.index.ExactBucket(q.Normalized()); len(bucket) > 0 {
		c := bucket[0]
		return match.NewExact(q.Name(), c.DocumentNumber(), c.RawName())
	}

	shortlist := s.index.FindCandidates(q.Normalized(), s.maxCandidates)
	if len(shortlist) == 0 {
		return match.NewNone(q.Name(), 0)
	}

	best := shortlist[0]
	bestScore := -1
	for _, c := range shortlist {
		if sc := s.scorer.Score(q.Normalized(), c.NormalizedName()); sc > bestScore {
			best, bestScore = c, sc
		}
	}

	if bestScore >= s.threshold {
		return match.NewFuzzy(q.Name(), best.DocumentNumber(), best.RawName(), bestScore)
	}
	return match.NewNone(q.Name(), bestScore)
}

// Threshold returns the configured acceptance threshold.
func (s *Service) Threshold() int { return s.threshold }
