// Package checkpoint persists batch progress so an interrupted run can
// resume without re-resolving completed queries.
package checkpoint

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the on-disk snapshot of a batch run.
type State struct {
	Stage     string    `json:"stage"`
	Resolved  int       `json:"resolved"`
	Exact     int       `json:"exact"`
	Fuzzy     int       `json:"fuzzy"`
	Unmatched int       `json:"unmatched"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Done reports whether a previous run finished.
func (s State) Done() bool { return s.Stage == "done" }

// Tracker is a thread-safe progress tracker with periodic persistence.
type Tracker struct {
	mu        sync.Mutex
	state     State
	path      string
	saveEvery int
	dirty     bool
	logger    *zap.Logger
}

// New loads previous state from path when the file exists, otherwise starts
// fresh. saveEvery controls how many resolved queries pass between writes.
func New(path string, saveEvery int, logger *zap.Logger) (*Tracker, error) {
	if saveEvery <= 0 {
		saveEvery = 1000
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{path: path, saveEvery: saveEvery, logger: logger}

	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &t.state); err != nil {
			return nil, fmt.Errorf("parse checkpoint %s: %w", path, err)
		}
		logger.Info("resuming from checkpoint",
			zap.String("stage", t.state.Stage),
			zap.Int("resolved", t.state.Resolved),
		)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read checkpoint %s: %w", path, err)
	}
	return t, nil
}

// Get returns a copy of the current state.
func (t *Tracker) Get() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// SetStage records the current pipeline stage and persists immediately.
func (t *Tracker) SetStage(stage string) {
	t.mu.Lock()
	t.state.Stage = stage
	t.state.UpdatedAt = time.Now()
	t.dirty = true
	t.mu.Unlock()
	t.forceSave()
}

// Advance adds resolved counts and persists every saveEvery queries.
func (t *Tracker) Advance(resolved, exact, fuzzy, unmatched int) {
	t.mu.Lock()
	t.state.Resolved += resolved
	t.state.Exact += exact
	t.state.Fuzzy += fuzzy
	t.state.Unmatched += unmatched
	t.state.UpdatedAt = time.Now()
	t.dirty = true
	shouldSave := t.state.Resolved%t.saveEvery < resolved
	t.mu.Unlock()

	if shouldSave {
		t.forceSave()
	}
}

// Done marks the run complete.
func (t *Tracker) Done() {
	t.SetStage("done")
}

// Reset clears state to start over.
func (t *Tracker) Reset() {
	t.mu.Lock()
	t.state = State{}
	t.dirty = true
	t.mu.Unlock()
	t.forceSave()
}

// forceSave writes the state to disk with a tmp+rename to keep the file
// readable if the process dies mid-write.
func (t *Tracker) forceSave() {
	t.mu.Lock()
	if !t.dirty {
		t.mu.Unlock()
		return
	}
	data, err := json.MarshalIndent(t.state, "", "  ")
	if err != nil {
		t.mu.Unlock()
		t.logger.Error("checkpoint marshal failed", zap.Error(err))
		return
	}
	t.dirty = false
	t.mu.Unlock()

	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		t.logger.Error("checkpoint write failed", zap.Error(err))
		t.markDirty()
		return
	}
	if err := os.Rename(tmp, t.path); err != nil {
		t.logger.Error("checkpoint rename failed", zap.Error(err))
		t.markDirty()
	}
}

func (t *Tracker) markDirty() {
	t.mu.Lock()
	t.dirty = true
	t.mu.Unlock()
}
