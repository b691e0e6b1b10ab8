package matcher

import (
	"testing"

	"github.com/meridian-data/corpmatch/internal/domain"
	"github.com/meridian-data/corpmatch/internal/domain/match"
	"github.com/meridian-data/corpmatch/internal/index"
	"github.com/meridian-data/corpmatch/internal/normalize"
	"github.com/meridian-data/corpmatch/internal/score"
)

func buildService(t *testing.T, pool [][2]string, threshold int) *Service {
	t.Helper()
	candidates := make([]domain.Candidate, len(pool))
	for i, p := range pool {
		candidates[i] = domain.ReconstructCandidate(p[0], p[1], normalize.Normalize(p[1]))
	}
	scorer, err := score.New("")
	if err != nil {
		t.Fatalf("create scorer: %v", err)
	}
	return New(index.Build(candidates, 0), scorer, threshold, 0)
}

func query(name string) match.Query {
	return match.NewQuery(name, normalize.Normalize(name))
}

func TestMatch_ExactHit(t *testing.T) {
	svc := buildService(t, [][2]string{{"L24000326550", "WOYUNTANG LLC"}}, 80)

	r := svc.Match(query("Woyuntang LLC"))

	if r.Kind() != match.KindExact {
		t.Fatalf("kind = %s, want exact", r.Kind())
	}
	if r.DocumentNumber() != "L24000326550" {
		t.Errorf("doc = %s, want L24000326550", r.DocumentNumber())
	}
	if r.Score() != 100 {
		t.Errorf("score = %d, want 100", r.Score())
	}
}

func TestMatch_FuzzyHit(t *testing.T) {
	svc := buildService(t, [][2]string{{"P12345", "ACME CORP OF FLORIDA"}}, 70)

	r := svc.Match(query("ACME CORPORATION FL"))

	if r.Kind() != match.KindFuzzy {
		t.Fatalf("kind = %s, want fuzzy (score %d)", r.Kind(), r.Score())
	}
	if r.DocumentNumber() != "P12345" {
		t.Errorf("doc = %s, want P12345", r.DocumentNumber())
	}
	if r.Score() < 70 {
		t.Errorf("score = %d, want >= 70", r.Score())
	}
	if r.MatchedName() != "ACME CORP OF FLORIDA" {
		t.Errorf("matched name = %q, want raw registry name", r.MatchedName())
	}
}

func TestMatch_BelowThreshold(t *testing.T) {
	// Shares the first token, so the shortlist is non-empty; the best score
	// is kept on the unmatched result.
	svc := buildService(t, [][2]string{{"P1", "QQQ HOLDINGS"}}, 80)

	r := svc.Match(query("QQQ ENTERPRISES"))

	if r.Kind() != match.KindNone {
		t.Fatalf("kind = %s, want none", r.Kind())
	}
	if r.DocumentNumber() != "" {
		t.Errorf("doc = %s, want empty", r.DocumentNumber())
	}
	if r.Score() != 44 {
		t.Errorf("score = %d, want best-found 44", r.Score())
	}
}

func TestMatch_EmptyShortlist(t *testing.T) {
	// No shared prefix or first token: unreachable by construction.
	svc := buildService(t, [][2]string{{"P1", "ZZZ HOLDINGS"}}, 80)

	r := svc.Match(query("QQQ ENTERPRISES"))

	if r.Kind() != match.KindNone || r.Score() != 0 {
		t.Errorf("got kind=%s score=%d, want none with score 0", r.Kind(), r.Score())
	}
}

func TestMatch_ExactTieFirstInserted(t *testing.T) {
	svc := buildService(t, [][2]string{
		{"docA", "SMITH LLC"},
		{"docB", "SMITH LLC"},
	}, 80)

	for i := 0; i < 10; i++ {
		r := svc.Match(query("Smith LLC"))
		if r.DocumentNumber() != "docA" {
			t.Fatalf("run %d: doc = %s, want first-inserted docA", i, r.DocumentNumber())
		}
	}
}

func TestMatch_EmptyQuery(t *testing.T) {
	svc := buildService(t, [][2]string{{"P1", "ACME CORP"}}, 80)

	for _, raw := range []string{"", "   ", "!!!"} {
		r := svc.Match(query(raw))
		if r.Kind() != match.KindNone || r.Score() != 0 || r.DocumentNumber() != "" {
			t.Errorf("query %q: got kind=%s score=%d doc=%q, want empty none",
				raw, r.Kind(), r.Score(), r.DocumentNumber())
		}
	}
}

func TestMatch_ExactBeatsCloserFuzzy(t *testing.T) {
	// An exact hit wins even when another candidate would fuzzy-score high.
	svc := buildService(t, [][2]string{
		{"P1", "ACME CORPS"},
		{"P2", "ACME CORP"},
	}, 80)

	r := svc.Match(query("ACME CORP"))

	if r.Kind() != match.KindExact || r.DocumentNumber() != "P2" {
		t.Errorf("got kind=%s doc=%s, want exact P2", r.Kind(), r.DocumentNumber())
	}
}

func TestMatch_ThresholdMonotonicity(t *testing.T) {
	pool := [][2]string{{"P12345", "ACME CORP OF FLORIDA"}}
	q := query("ACME CORPORATION FL") // scores 72 against the pool

	matchedAt := func(threshold int) bool {
		t.Helper()
		return buildService(t, pool, threshold).Match(q).Matched()
	}

	// Raising the threshold can only turn matches into non-matches.
	prev := true
	for _, threshold := range []int{10, 50, 72, 73, 90, 100} {
		got := matchedAt(threshold)
		if got && !prev {
			t.Fatalf("match set grew when threshold rose to %d", threshold)
		}
		prev = got
	}

	if !matchedAt(72) {
		t.Error("expected match at threshold equal to score")
	}
	if matchedAt(73) {
		t.Error("expected no match just above score")
	}
}

func TestMatch_FuzzyTieFirstInShortlist(t *testing.T) {
	// Both candidates score identically against the query; the earlier
	// shortlist position must win on every run.
	svc := buildService(t, [][2]string{
		{"P1", "ACME CORP ALPHA"},
		{"P2", "ACME CORP ALPHB"},
	}, 50)

	q := query("ACME CORP ALPHX")
	want := svc.Match(q).DocumentNumber()
	if want != "P1" {
		t.Fatalf("doc = %s, want first-inserted P1", want)
	}
	for i := 0; i < 10; i++ {
		if got := svc.Match(q).DocumentNumber(); got != want {
			t.Fatalf("run %d: doc = %s, want %s", i, got, want)
		}
	}
}

func TestMatch_ZeroThresholdAcceptsAnyShortlisted(t *testing.T) {
	// "QQQ ENTERPRISES" vs "QQQ HOLDINGS" scores 44, far below the default.
	svc := buildService(t, [][2]string{{"P555", "QQQ HOLDINGS"}}, 0)

	r := svc.Match(query("QQQ ENTERPRISES"))

	if r.Kind() != match.KindFuzzy {
		t.Fatalf("kind = %s, want fuzzy at threshold 0 (score %d)", r.Kind(), r.Score())
	}
	if r.DocumentNumber() != "P555" {
		t.Errorf("doc = %s, want P555", r.DocumentNumber())
	}
	if svc.Threshold() != 0 {
		t.Errorf("Threshold() = %d, want 0", svc.Threshold())
	}
}

func TestNew_Defaults(t *testing.T) {
	svc := New(nil, nil, -1, 0)
	if svc.threshold != DefaultThreshold {
		t.Errorf("threshold = %d, want %d", svc.threshold, DefaultThreshold)
	}
	if svc.maxCandidates != DefaultMaxCandidates {
		t.Errorf("maxCandidates = %d, want %d", svc.maxCandidates, DefaultMaxCandidates)
	}
	if svc.Threshold() != DefaultThreshold {
		t.Errorf("Threshold() = %d, want %d", svc.Threshold(), DefaultThreshold)
	}
}
