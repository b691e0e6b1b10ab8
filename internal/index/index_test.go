package index

import (
	"fmt"
	"testing"

	"github.com/meridian-data/corpmatch/internal/domain"
)

func cand(doc, name string) domain.Candidate {
	return domain.ReconstructCandidate(doc, name, name)
}

func TestBuild_EveryCandidateRetrievable(t *testing.T) {
	candidates := []domain.Candidate{
		cand("D1", "ACME CORP"),
		cand("D2", "ACME CORPORATION"),
		cand("D3", "BETA LLC"),
		cand("D4", "ACME CORP"), // duplicate normalized name, distinct doc
		cand("D5", ""),          // empty normalized name
	}

	ix := Build(candidates, 3)

	if ix.Size() != len(candidates) {
		t.Fatalf("Size() = %d, want %d", ix.Size(), len(candidates))
	}

	for _, c := range candidates {
		found := false
		for _, got := range ix.FindCandidates(c.NormalizedName(), 0) {
			if got.DocumentNumber() == c.DocumentNumber() {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("candidate %s (%q) not retrievable by its own name", c.DocumentNumber(), c.NormalizedName())
		}
	}
}

func TestExactBucket_InsertionOrder(t *testing.T) {
	ix := Build([]domain.Candidate{
		cand("D1", "ACME CORP"),
		cand("D2", "BETA LLC"),
		cand("D3", "ACME CORP"),
	}, 3)

	bucket := ix.ExactBucket("ACME CORP")
	if len(bucket) != 2 {
		t.Fatalf("bucket size = %d, want 2", len(bucket))
	}
	if bucket[0].DocumentNumber() != "D1" || bucket[1].DocumentNumber() != "D3" {
		t.Errorf("bucket order = [%s %s], want [D1 D3]",
			bucket[0].DocumentNumber(), bucket[1].DocumentNumber())
	}

	if got := ix.ExactBucket("NO SUCH NAME"); got != nil {
		t.Errorf("expected nil bucket for unknown name, got %d entries", len(got))
	}
}

func TestFindCandidates_UnionOrderAndDedup(t *testing.T) {
	ix := Build([]domain.Candidate{
		cand("D1", "ACME CORP"),      // exact + prefix + token hit
		cand("D2", "ACM HOLDINGS"),   // prefix hit only ("ACM")
		cand("D3", "ACME SUPPLY CO"), // prefix + token hit
		cand("D4", "ZETA GROUP"),     // no hit
	}, 3)

	got := ix.FindCandidates("ACME CORP", 0)

	want := []string{"D1", "D2", "D3"}
	if len(got) != len(want) {
		t.Fatalf("shortlist size = %d, want %d", len(got), len(want))
	}
	for i, doc := range want {
		if got[i].DocumentNumber() != doc {
			t.Errorf("shortlist[%d] = %s, want %s", i, got[i].DocumentNumber(), doc)
		}
	}
}

func TestFindCandidates_TruncatesAfterDedup(t *testing.T) {
	var candidates []domain.Candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, cand(fmt.Sprintf("D%02d", i), fmt.Sprintf("ACME UNIT %02d", i)))
	}
	ix := Build(candidates, 3)

	got := ix.FindCandidates("ACME UNIT 00", 5)
	if len(got) != 5 {
		t.Fatalf("shortlist size = %d, want 5", len(got))
	}
	// The exact hit sits first; the rest follow prefix-bucket insertion order.
	if got[0].DocumentNumber() != "D00" {
		t.Errorf("shortlist[0] = %s, want D00", got[0].DocumentNumber())
	}
}

func TestBuild_DefaultPrefixLength(t *testing.T) {
	ix := Build(nil, 0)
	if ix.PrefixLength() != DefaultPrefixLength {
		t.Errorf("PrefixLength() = %d, want %d", ix.PrefixLength(), DefaultPrefixLength)
	}
	if ix.Size() != 0 {
		t.Errorf("Size() = %d, want 0", ix.Size())
	}
}

func TestFindCandidates_ShortName(t *testing.T) {
	ix := Build([]domain.Candidate{
		cand("D1", "AB"),
		cand("D2", "ABC INDUSTRIES"),
	}, 3)

	// A name shorter than the prefix length buckets under itself.
	got := ix.FindCandidates("AB", 0)
	if len(got) != 1 || got[0].DocumentNumber() != "D1" {
		t.Fatalf("expected only D1 for query AB, got %d entries", len(got))
	}
}
