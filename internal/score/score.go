// Package score provides the pluggable name-similarity scorers.
package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/meridian-data/corpmatch/internal/domain"
)

// Scorer rates the similarity of two normalized names on a 0-100 scale,
// where 100 means identical. Implementations must be deterministic and
// length-invariant (a score does not drift with absolute name length).
type Scorer interface {
	Score(a, b string) int
}

// Scorer names accepted by New.
const (
	ScorerNameRatio = "ratio"
)

// New returns the scorer registered under name ("" selects the default ratio
// scorer).
func New(name string) (Scorer, error) {
	switch name {
	case "", ScorerNameRatio:
		return NameRatio{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScorer, name)
	}
}

// NameRatio is the built-in scorer: the higher of the plain Levenshtein ratio
// and the token-sorted indel ratio. The token-sorted pass makes the score
// robust against word-order differences ("ACME CORPORATION FL" vs
// "ACME CORP OF FLORIDA") that a single edit-distance pass penalizes twice.
type NameRatio struct{}

// Score rates two normalized names from 0 to 100.
func (NameRatio) Score(a, b string) int {
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	plain := levenshteinRatio(a, b)
	sorted := indelRatio(sortTokens(a), sortTokens(b))
	if sorted > plain {
		return sorted
	}
	return plain
}

// levenshteinRatio is 100 * (1 - distance/maxLen).
func levenshteinRatio(a, b string) int {
	dist := levenshtein.ComputeDistance(a, b)
	maxLen := len([]rune(a))
	if n := len([]rune(b)); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 100
	}
	return int(math.Round((1 - float64(dist)/float64(maxLen)) * 100))
}

// indelRatio is the insert/delete-only similarity 100 * 2*LCS / (len(a)+len(b)).
func indelRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra)+len(rb) == 0 {
		return 100
	}
	lcs := lcsLength(ra, rb)
	return int(math.Round(float64(2*lcs) / float64(len(ra)+len(rb)) * 100))
}

// lcsLength computes the longest-common-subsequence length with two rows.
func lcsLength(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
