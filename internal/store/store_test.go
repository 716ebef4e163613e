package store

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "storycast.db"))
	if err != nil {
		t.Fatalf("failed to open test ledger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storycast.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	s.Close()
}

func TestInsertAndListDrafts(t *testing.T) {
	s := openTestStore(t)

	runID, err := s.InsertRun("Emergency Board Meeting")
	if err != nil {
		t.Fatalf("InsertRun: %v", err)
	}

	id1, err := s.InsertDraft(runID, "Kamea", "social", "main", "public", "The board formed a committee.")
	if err != nil {
		t.Fatalf("InsertDraft: %v", err)
	}
	if _, err := s.InsertDraft(runID, "Chris", "surveillance", "south", "encrypted", "22:35 perimeter check."); err != nil {
		t.Fatalf("InsertDraft: %v", err)
	}

	drafts, err := s.GetDrafts(false)
	if err != nil {
		t.Fatalf("GetDrafts: %v", err)
	}
	if len(drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(drafts))
	}

	d, err := s.GetDraft(id1)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if d == nil || d.Character != "Kamea" || d.Approved {
		t.Errorf("unexpected draft: %+v", d)
	}
}

func TestApproveDraft(t *testing.T) {
	s := openTestStore(t)
	runID, _ := s.InsertRun("scene")
	id, _ := s.InsertDraft(runID, "Kamea", "social", "main", "public", "content")

	if err := s.ApproveDraft(id); err != nil {
		t.Fatalf("ApproveDraft: %v", err)
	}

	d, _ := s.GetDraft(id)
	if d == nil || !d.Approved {
		t.Error("expected draft to be approved")
	}

	pending, _ := s.GetDrafts(true)
	if len(pending) != 0 {
		t.Errorf("expected no pending drafts, got %d", len(pending))
	}

	if err := s.ApproveDraft("no-such-id"); err == nil {
		t.Error("expected error approving unknown draft")
	}
}

func TestGetStats(t *testing.T) {
	s := openTestStore(t)
	runID, _ := s.InsertRun("scene")
	id, _ := s.InsertDraft(runID, "Kamea", "social", "main", "public", "a")
	s.InsertDraft(runID, "Kamea", "blog", "main", "public", "b")
	s.InsertDraft(runID, "Chris", "social", "south", "public", "c")
	s.ApproveDraft(id)
	s.FinishRun(runID, 3, 0)

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Runs != 1 {
		t.Errorf("expected 1 run, got %d", stats.Runs)
	}
	if stats.TotalDrafts != 3 || stats.ApprovedDrafts != 1 || stats.PendingDrafts != 2 {
		t.Errorf("unexpected draft counts: %+v", stats)
	}
	if stats.Characters != 2 {
		t.Errorf("expected 2 distinct characters, got %d", stats.Characters)
	}
}
