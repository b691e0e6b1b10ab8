// Package match holds the query/result value types of the matching engine.
package match

// Kind is the resolution outcome of a single query.
type Kind string

// Match kinds.
const (
	KindExact Kind = "exact"
	KindFuzzy Kind = "fuzzy"
	KindNone  Kind = "none"
)

// Query is one roster entry prepared for matching.
type Query struct {
	name       string
	normalized string
}

// NewQuery creates a Query from a raw roster name and its normalized form.
func NewQuery(name, normalized string) Query {
	return Query{name: name, normalized: normalized}
}

// Name returns the roster name as it appeared in the input.
func (q Query) Name() string { return q.name }

// Normalized returns the comparison key for the roster name.
func (q Query) Normalized() string { return q.normalized }

// IsEmpty reports whether the query normalizes to nothing matchable.
func (q Query) IsEmpty() bool { return q.normalized == "" }

// Result is the terminal outcome of resolving one query. It is created once
// by the matcher and never revised; "no match" is a normal outcome, not an
// error.
type Result struct {
	queryName   string
	docNumber   string
	matchedName string
	score       int
	kind        Kind
}

// NewExact creates a Result for a literal normalized-name hit (score 100).
func NewExact(queryName, docNumber, matchedName string) Result {
	return Result{queryName: queryName, docNumber: docNumber, matchedName: matchedName, score: 100, kind: KindExact}
}

// NewFuzzy creates a Result for a similarity hit at or above the threshold.
func NewFuzzy(queryName, docNumber, matchedName string, score int) Result {
	return Result{queryName: queryName, docNumber: docNumber, matchedName: matchedName, score: score, kind: KindFuzzy}
}

// NewNone creates an unmatched Result. bestScore is the highest similarity
// seen below the threshold, retained for diagnostics (0 when no candidate
// was scored at all).
func NewNone(queryName string, bestScore int) Result {
	return Result{queryName: queryName, score: bestScore, kind: KindNone}
}

// QueryName returns the roster name this result belongs to.
func (r Result) QueryName() string { return r.queryName }

// DocumentNumber returns the matched document number, or "" when unmatched.
func (r Result) DocumentNumber() string { return r.docNumber }

// MatchedName returns the matched candidate's registry name, or "" when unmatched.
func (r Result) MatchedName() string { return r.matchedName }

// Score returns the similarity score (0-100).
func (r Result) Score() int { return r.score }

// Kind returns the resolution outcome.
func (r Result) Kind() Kind { return r.kind }

// Matched reports whether a document number was assigned.
func (r Result) Matched() bool { return r.kind != KindNone }
