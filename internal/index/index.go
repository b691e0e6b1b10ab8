// Package index builds the frozen candidate index used for bounded lookups.
//
// The index is constructed once per batch from the full candidate pool and is
// read-only afterwards, so any number of matching goroutines may share it
// without locking. Build is the only way to obtain a usable Index.
package index

import (
	"github.com/meridian-data/corpmatch/internal/domain"
	"github.com/meridian-data/corpmatch/internal/normalize"
)

// DefaultPrefixLength is the prefix-bucket key length used when none is configured.
const DefaultPrefixLength = 3

// Index holds three bucketed views of the candidate pool, all keyed on
// normalized names: full string, fixed-length prefix, and first token.
// Every candidate lands in exactly one bucket of each view.
type Index struct {
	exact     map[string][]domain.Candidate
	prefix    map[string][]domain.Candidate
	token     map[string][]domain.Candidate
	prefixLen int
	size      int
}

// Build indexes the candidate pool in a single pass. Insertion is append-only
// per bucket, preserving pool order inside each bucket. Candidates with empty
// normalized names bucket under "".
func Build(candidates []domain.Candidate, prefixLen int) *Index {
	if prefixLen <= 0 {
		prefixLen = DefaultPrefixLength
	}
	ix := &Index{
		exact:     make(map[string][]domain.Candidate, len(candidates)),
		prefix:    make(map[string][]domain.Candidate),
		token:     make(map[string][]domain.Candidate),
		prefixLen: prefixLen,
	}
	for _, c := range candidates {
		name := c.NormalizedName()
		ix.exact[name] = append(ix.exact[name], c)

		pk := prefixKey(name, prefixLen)
		ix.prefix[pk] = append(ix.prefix[pk], c)

		tk := normalize.FirstToken(name)
		ix.token[tk] = append(ix.token[tk], c)

		ix.size++
	}
	return ix
}

// ExactBucket returns all candidates whose normalized name equals the query
// key, in insertion order. Callers must not mutate the returned slice.
func (ix *Index) ExactBucket(normalized string) []domain.Candidate {
	return ix.exact[normalized]
}

// FindCandidates returns the shortlist for a query key: the union of its
// exact, prefix, and token buckets, de-duplicated by document number, ordered
// exact first, then prefix, then token (each in insertion order), truncated
// to max after de-duplication. max <= 0 means unbounded.
//
// The shortlist bounds fuzzy-scoring cost to bucket size instead of pool
// size. A true match that shares neither the full normalized name, the
// prefix, nor the first token with the query is unreachable by construction;
// that recall ceiling is deliberate.
func (ix *Index) FindCandidates(normalized string, max int) []domain.Candidate {
	seen := make(map[string]struct{})
	var out []domain.Candidate

	add := func(bucket []domain.Candidate) {
		for _, c := range bucket {
			if _, dup := seen[c.DocumentNumber()]; dup {
				continue
			}
			seen[c.DocumentNumber()] = struct{}{}
			out = append(out, c)
		}
	}

	add(ix.exact[normalized])
	add(ix.prefix[prefixKey(normalized, ix.prefixLen)])
	add(ix.token[normalize.FirstToken(normalized)])

	if max > 0 && len(out) > max {
		out = out[:max]
	}
	return out
}

// Size returns the number of indexed candidates.
func (ix *Index) Size() int { return ix.size }

// PrefixLength returns the prefix-bucket key length fixed at build time.
func (ix *Index) PrefixLength() int { return ix.prefixLen }

func prefixKey(name string, k int) string {
	if len(name) <= k {
		return name
	}
	return name[:k]
}
