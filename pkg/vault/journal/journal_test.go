//go:build integration

package journal

import (
	"context"
	"testing"
)

func openTestJournal(t *testing.T, dir string) *Journal {
	t.Helper()
	j, err := Open(dir)
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	return j
}

func TestJournalLifecycle(t *testing.T) {
	ctx := context.Background()
	j := openTestJournal(t, t.TempDir())
	defer j.Close()

	t.Run("empty journal lists nothing", func(t *testing.T) {
		intents, err := j.List(ctx)
		if err != nil {
			t.Fatalf("failed to list intents: %v", err)
		}
		if len(intents) != 0 {
			t.Errorf("expected no intents, got %d", len(intents))
		}
	})

	var firstID string

	t.Run("begin records an intent", func(t *testing.T) {
		id, err := j.Begin(ctx, Intent{Op: OpUpload, Path: "/srv/cubby/a.txt"})
		if err != nil {
			t.Fatalf("failed to begin intent: %v", err)
		}
		if id == "" {
			t.Fatal("expected non-empty intent id")
		}
		firstID = id

		intents, err := j.List(ctx)
		if err != nil {
			t.Fatalf("failed to list intents: %v", err)
		}
		if len(intents) != 1 {
			t.Fatalf("expected 1 intent, got %d", len(intents))
		}
		if intents[0].ID != id || intents[0].Op != OpUpload {
			t.Errorf("unexpected intent: %+v", intents[0])
		}
		if intents[0].StartedAt.IsZero() {
			t.Error("expected started_at to be set")
		}
	})

	t.Run("list returns oldest first", func(t *testing.T) {
		_, err := j.Begin(ctx, Intent{Op: OpMove, FileID: 7, Path: "/srv/a", NewPath: "/srv/b"})
		if err != nil {
			t.Fatalf("failed to begin intent: %v", err)
		}

		intents, err := j.List(ctx)
		if err != nil {
			t.Fatalf("failed to list intents: %v", err)
		}
		if len(intents) != 2 {
			t.Fatalf("expected 2 intents, got %d", len(intents))
		}
		if intents[0].ID != firstID {
			t.Errorf("expected oldest intent first, got %s", intents[0].Op)
		}
	})

	t.Run("end clears the intent", func(t *testing.T) {
		if err := j.End(ctx, firstID); err != nil {
			t.Fatalf("failed to end intent: %v", err)
		}

		intents, _ := j.List(ctx)
		for _, intent := range intents {
			if intent.ID == firstID {
				t.Error("expected intent to be cleared")
			}
		}
	})

	t.Run("ending an unknown id is not an error", func(t *testing.T) {
		if err := j.End(ctx, "no-such-intent"); err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	})
}

func TestJournalPersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	j := openTestJournal(t, dir)
	id, err := j.Begin(ctx, Intent{Op: OpDelete, FileID: 3, Path: "/srv/cubby/gone.txt"})
	if err != nil {
		t.Fatalf("failed to begin intent: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("failed to close journal: %v", err)
	}

	// An intent written before a crash must survive the restart.
	reopened := openTestJournal(t, dir)
	defer reopened.Close()

	intents, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("failed to list intents: %v", err)
	}
	if len(intents) != 1 || intents[0].ID != id {
		t.Fatalf("expected surviving intent %s, got %d intents", id, len(intents))
	}
	if intents[0].Op != OpDelete || intents[0].FileID != 3 {
		t.Errorf("unexpected intent: %+v", intents[0])
	}
}
