package checkpoint

import (
	"os"
	"path/filepath"
	"testing"
)

func TestTracker_SaveAndResume(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	tr, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.SetStage("resolve")
	tr.Advance(25, 10, 5, 10)

	// A second tracker over the same file resumes the persisted state.
	tr2, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	state := tr2.Get()
	if state.Stage != "resolve" {
		t.Errorf("Stage = %q, want resolve", state.Stage)
	}
	if state.Resolved != 25 || state.Exact != 10 || state.Fuzzy != 5 || state.Unmatched != 10 {
		t.Errorf("state = %+v", state)
	}
}

func TestTracker_AdvanceSavesEveryN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	tr, err := New(path, 100, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tr.Advance(50, 50, 0, 0)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file before the save interval is crossed")
	}

	tr.Advance(60, 60, 0, 0) // crosses 100
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file after crossing the save interval: %v", err)
	}
}

func TestTracker_Done(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	tr, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.Done()

	tr2, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !tr2.Get().Done() {
		t.Error("expected Done() after completed run")
	}
}

func TestTracker_Reset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")

	tr, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr.Advance(42, 42, 0, 0)
	tr.Done()

	tr.Reset()
	state := tr.Get()
	if state.Resolved != 0 || state.Done() {
		t.Errorf("state after reset = %+v, want zero", state)
	}

	tr2, err := New(path, 10, nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if tr2.Get().Resolved != 0 {
		t.Error("reset state must be persisted")
	}
}

func TestNew_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, err := New(path, 10, nil); err == nil {
		t.Fatal("expected error for corrupt checkpoint")
	}
}
