package matcher

import "github.com/meridian-data/corpmatch/internal/domain"

// CandidateIndex provides bucketed lookups over the frozen candidate pool.
type CandidateIndex interface {
	// ExactBucket returns every candidate whose normalized name equals the key,
	// in pool insertion order.
	ExactBucket(normalized string) []domain.Candidate
	// FindCandidates returns the bounded shortlist for the key (exact bucket
	// first, then prefix, then token; de-duplicated by document number).
	FindCandidates(normalized string, max int) []domain.Candidate
}

// Scorer rates the similarity of two normalized names on a 0-100 scale.
type Scorer interface {
	Score(a, b string) int
}
