package translationconfig

import (
	"context"
	"testing"
	"time"
)

func TestStateNilKeepsFallback(t *testing.T) {
	var st *State
	if st.EnforceRequired() || !st.FallbackToEnglish() {
		t.Fatalf("unexpected nil state snapshot %+v", st.Snapshot())
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	st := NewState(Settings{EnforceRequired: true})
	if err := Load(context.Background(), NewMemoryRepository(), st); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if st.Snapshot() != DefaultSettings() {
		t.Fatalf("expected defaults, got %+v", st.Snapshot())
	}
}

func TestWatchAppliesChanges(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo := NewMemoryRepository()
	st := NewState(DefaultSettings())
	if err := Watch(ctx, repo, st, nil); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	if _, err := repo.Upsert(ctx, Settings{EnforceRequired: true, FallbackToEnglish: false}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for !st.EnforceRequired() {
		if time.Now().After(deadline) {
			t.Fatalf("state was not updated")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if st.FallbackToEnglish() {
		t.Fatalf("expected fallback disabled")
	}
}
