package resolver

import "github.com/meridian-data/corpmatch/internal/domain/match"

// Matcher resolves a single query against the frozen candidate index.
type Matcher interface {
	Match(q match.Query) match.Result
}
