package memstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store"
	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/store/memstore"
)

func TestStore_AddListDelete(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	ref, err := s.Add(ctx, "jobs", store.Record{"title": "a", "seeded": true})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if ref.ID == "" || ref.Collection != "jobs" {
		t.Fatalf("Add returned ref %+v", ref)
	}
	if _, err := s.Add(ctx, "jobs", store.Record{"title": "b"}); err != nil {
		t.Fatalf("Add: %v", err)
	}

	all, err := s.List(ctx, "jobs")
	if err != nil || len(all) != 2 {
		t.Fatalf("List() = %d docs, err %v; want 2", len(all), err)
	}
	seeded, err := s.List(ctx, "jobs", store.Where("seeded", true))
	if err != nil || len(seeded) != 1 || seeded[0].ID != ref.ID {
		t.Fatalf("List(seeded) = %+v, err %v", seeded, err)
	}

	if err := s.Delete(ctx, ref); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if s.Count("jobs") != 1 {
		t.Errorf("Count = %d, want 1", s.Count("jobs"))
	}
	// Deleting again is not an error.
	if err := s.Delete(ctx, ref); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestStore_SetMergePreservesUnspecifiedFields(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	if err := s.Set(ctx, "users", "u1", store.Record{"email": "old@pathx.dev", "role": "default"}, store.SetOptions{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, "users", "u1", store.Record{"role": "super_admin"}, store.SetOptions{Merge: true}); err != nil {
		t.Fatalf("Set merge: %v", err)
	}

	rec, ok, err := s.Get(ctx, "users", "u1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if rec["email"] != "old@pathx.dev" || rec["role"] != "super_admin" {
		t.Errorf("merged record = %v", rec)
	}

	if err := s.Set(ctx, "users", "u1", store.Record{"role": "default"}, store.SetOptions{}); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}
	rec, _, _ = s.Get(ctx, "users", "u1")
	if _, ok := rec["email"]; ok {
		t.Errorf("non-merge Set should replace the document, got %v", rec)
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := memstore.New()
	rec, ok, err := s.Get(context.Background(), "users", "nobody")
	if err != nil || ok || rec != nil {
		t.Errorf("Get(missing) = %v, %v, %v", rec, ok, err)
	}
	if _, _, err := s.Get(context.Background(), "users", ""); !errors.Is(err, store.ErrInvalidKey) {
		t.Errorf("Get(empty key) err = %v, want ErrInvalidKey", err)
	}
}

func TestStore_FaultInjection(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	boom := errors.New("quota exceeded")
	s.InjectFault(func(op memstore.Op, collection string, _ store.Record) error {
		if op == memstore.OpAdd {
			return boom
		}
		return nil
	})

	if _, err := s.Add(ctx, "jobs", store.Record{"title": "a"}); !errors.Is(err, boom) {
		t.Errorf("Add err = %v, want wrapped %v", err, boom)
	}
	if s.Count("jobs") != 0 || s.Writes() != 0 {
		t.Errorf("failed Add must not write: count=%d writes=%d", s.Count("jobs"), s.Writes())
	}
}

func TestStore_AddAllIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.InjectFault(func(op memstore.Op, _ string, data store.Record) error {
		if data["title"] == "bad" {
			return errors.New("rejected")
		}
		return nil
	})

	_, err := s.AddAll(ctx, "jobs", []store.Record{{"title": "a"}, {"title": "bad"}, {"title": "c"}})
	if err == nil {
		t.Fatal("AddAll expected error")
	}
	if s.Count("jobs") != 0 {
		t.Errorf("AddAll wrote %d docs after failure, want 0", s.Count("jobs"))
	}

	refs, err := s.AddAll(ctx, "jobs", []store.Record{{"title": "a"}, {"title": "c"}})
	if err != nil || len(refs) != 2 || s.Count("jobs") != 2 {
		t.Errorf("AddAll = %d refs, err %v, count %d", len(refs), err, s.Count("jobs"))
	}
}

func TestStore_StoredRecordsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	skills := []any{"Go"}
	in := store.Record{"skills": skills}
	if err := s.Set(ctx, "jobs", "j1", in, store.SetOptions{}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	skills[0] = "mutated"

	rec, _, _ := s.Get(ctx, "jobs", "j1")
	if rec["skills"].([]any)[0] != "Go" {
		t.Error("store must not alias caller slices")
	}
}

func TestStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memstore.New()
	if _, err := s.Add(ctx, "jobs", store.Record{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Add on canceled ctx err = %v", err)
	}
}
