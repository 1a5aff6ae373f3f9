package store

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/amishk599/resumetailor/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveThenGet(t *testing.T) {
	s := newTestStore(t)

	c := model.Completion{
		ID:             "c-1",
		Mode:           "recommend",
		JobDescription: "Go backend engineer",
		Resume:         "Built microservices in Go",
		Result:         "## ✅ Definitely Include",
	}
	if err := s.Save(c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get("c-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Mode != "recommend" || got.JobDescription != c.JobDescription || got.Resume != c.Resume || got.Result != c.Result {
		t.Errorf("Get = %+v", got)
	}
	if got.Failed {
		t.Error("Failed = true, want false")
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt was not filled in")
	}
}

func TestSaveAssignsID(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(model.Completion{Mode: "tailor", Result: "x", Failed: true}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	list, err := s.List(0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("List len = %d, want 1", len(list))
	}
	if list[0].ID == "" {
		t.Error("expected generated ID")
	}
	if !list[0].Failed {
		t.Error("Failed = false, want true")
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"old", "mid", "new"} {
		c := model.Completion{ID: id, Mode: "recommend", CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		if err := s.Save(c); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	list, err := s.List(2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("List len = %d, want 2", len(list))
	}
	if list[0].ID != "new" || list[1].ID != "mid" {
		t.Errorf("List order = %s, %s; want new, mid", list[0].ID, list[1].ID)
	}
}

func TestGetUnknownReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get("does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSaveDuplicateIDFails(t *testing.T) {
	s := newTestStore(t)

	if err := s.Save(model.Completion{ID: "dup", Mode: "recommend"}); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if err := s.Save(model.Completion{ID: "dup", Mode: "recommend"}); err == nil {
		t.Error("expected error on duplicate ID")
	}
}

func TestNopStore(t *testing.T) {
	s := NewNopStore()
	if err := s.Save(model.Completion{ID: "x"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	list, _ := s.List(10)
	if len(list) != 0 {
		t.Errorf("List len = %d, want 0", len(list))
	}
	if _, err := s.Get("x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v, want ErrNotFound", err)
	}
}
