package docstore

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestMemoryStore_SetGetQuery(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("Get absent document", func(t *testing.T) {
		_, err := store.Get(ctx, "students", "22000000")
		if !IsNotFound(err) {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		doc := Document{"studentNumber": "22000001", "email": "s1@live.mut.ac.za"}
		if err := store.Set(ctx, "students", "22000001", doc); err != nil {
			t.Fatalf("Set failed: %v", err)
		}

		snap, err := store.Get(ctx, "students", "22000001")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if snap.Data["email"] != "s1@live.mut.ac.za" {
			t.Errorf("expected email to round-trip, got %v", snap.Data["email"])
		}
	})

	t.Run("Set is a full replace", func(t *testing.T) {
		if err := store.Set(ctx, "students", "22000001", Document{"studentNumber": "22000001"}); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		snap, err := store.Get(ctx, "students", "22000001")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if _, ok := snap.Data["email"]; ok {
			t.Error("expected email field to be gone after replace")
		}
	})

	t.Run("Query single-field equality", func(t *testing.T) {
		for i, module := range []string{"CS100", "CS100", "IT200"} {
			doc := Document{"moduleCode": module}
			if err := store.Set(ctx, "Attended", fmt.Sprintf("scan-%d", i), doc); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
		}

		snaps, err := store.Query(ctx, "Attended", "moduleCode", "CS100")
		if err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if len(snaps) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(snaps))
		}
		if snaps[0].ID > snaps[1].ID {
			t.Error("expected results sorted by document ID")
		}
	})
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	t.Run("Update absent document", func(t *testing.T) {
		err := store.Update(ctx, "students", "missing", Document{"email": "x@y.z"})
		if !IsNotFound(err) {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("Update merges fields", func(t *testing.T) {
		mustSet(t, store, "students", "22000002", Document{"name": "Thabo", "email": "old@live.mut.ac.za"})

		if err := store.Update(ctx, "students", "22000002", Document{"email": "new@live.mut.ac.za"}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		snap, _ := store.Get(ctx, "students", "22000002")
		if snap.Data["email"] != "new@live.mut.ac.za" {
			t.Errorf("expected updated email, got %v", snap.Data["email"])
		}
		if snap.Data["name"] != "Thabo" {
			t.Errorf("expected untouched field to survive, got %v", snap.Data["name"])
		}
	})

	t.Run("ArrayUnion appends without duplicates", func(t *testing.T) {
		mustSet(t, store, "enrolledModules", "CS100", Document{"entries": []any{"a"}})

		if err := store.Update(ctx, "enrolledModules", "CS100", Document{"entries": Union("b", "a")}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		snap, _ := store.Get(ctx, "enrolledModules", "CS100")
		entries := snap.Data["entries"].([]any)
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries after union, got %d: %v", len(entries), entries)
		}
	})

	t.Run("ArrayRemove drops matching elements", func(t *testing.T) {
		if err := store.Update(ctx, "enrolledModules", "CS100", Document{"entries": Remove("a")}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		snap, _ := store.Get(ctx, "enrolledModules", "CS100")
		entries := snap.Data["entries"].([]any)
		if len(entries) != 1 || entries[0] != "b" {
			t.Fatalf("expected only 'b' to remain, got %v", entries)
		}
	})
}

func TestMemoryStore_Batch(t *testing.T) {
	ctx := context.Background()

	t.Run("commit applies all staged operations", func(t *testing.T) {
		store := NewMemoryStore()
		mustSet(t, store, "students", "22000003", Document{"email": "old@live.mut.ac.za"})

		batch := store.Batch()
		batch.Set("students", "22000004", Document{"email": "new@live.mut.ac.za"})
		batch.Update("students", "22000003", Document{"email": "changed@live.mut.ac.za"})
		batch.Delete("students", "22000003")

		if batch.Len() != 3 {
			t.Fatalf("expected 3 staged ops, got %d", batch.Len())
		}
		if err := batch.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}

		if _, err := store.Get(ctx, "students", "22000004"); err != nil {
			t.Errorf("expected created document: %v", err)
		}
		if _, err := store.Get(ctx, "students", "22000003"); !IsNotFound(err) {
			t.Errorf("expected deleted document, got %v", err)
		}
	})

	t.Run("failing update leaves the batch unapplied", func(t *testing.T) {
		store := NewMemoryStore()

		batch := store.Batch()
		batch.Set("students", "22000005", Document{"email": "a@b.c"})
		batch.Update("students", "missing", Document{"email": "x@y.z"})

		if err := batch.Commit(ctx); !IsNotFound(err) {
			t.Fatalf("expected not-found commit error, got %v", err)
		}
		if _, err := store.Get(ctx, "students", "22000005"); !IsNotFound(err) {
			t.Errorf("expected nothing applied after failed commit, got %v", err)
		}
	})

	t.Run("update may target a document created earlier in the batch", func(t *testing.T) {
		store := NewMemoryStore()

		batch := store.Batch()
		batch.Set("students", "22000006", Document{"email": "a@b.c"})
		batch.Update("students", "22000006", Document{"name": "Naledi"})

		if err := batch.Commit(ctx); err != nil {
			t.Fatalf("Commit failed: %v", err)
		}
		snap, _ := store.Get(ctx, "students", "22000006")
		if snap.Data["name"] != "Naledi" {
			t.Errorf("expected update over in-batch set, got %v", snap.Data)
		}
	})

	t.Run("staged operation limit", func(t *testing.T) {
		store := NewMemoryStore()

		batch := store.Batch()
		for i := 0; i <= MaxBatchOperations; i++ {
			batch.Set("Attended", fmt.Sprintf("scan-%d", i), Document{"i": i})
		}

		if err := batch.Commit(ctx); !errors.Is(err, ErrBatchLimitExceeded) {
			t.Fatalf("expected batch limit error, got %v", err)
		}
		if snaps, _ := store.List(ctx, "Attended"); len(snaps) != 0 {
			t.Errorf("expected nothing applied, found %d documents", len(snaps))
		}
	})

	t.Run("injected commit failure", func(t *testing.T) {
		store := NewMemoryStore()
		outage := errors.New("store unavailable")
		store.FailAfterCommits(1, outage)

		first := store.Batch()
		first.Set("students", "22000007", Document{"email": "a@b.c"})
		if err := first.Commit(ctx); err != nil {
			t.Fatalf("first commit should succeed: %v", err)
		}

		second := store.Batch()
		second.Set("students", "22000008", Document{"email": "d@e.f"})
		if err := second.Commit(ctx); !errors.Is(err, outage) {
			t.Fatalf("expected injected failure, got %v", err)
		}
		if _, err := store.Get(ctx, "students", "22000008"); !IsNotFound(err) {
			t.Errorf("expected second write to be rejected, got %v", err)
		}
	})
}

func mustSet(t *testing.T, store *MemoryStore, collection, id string, doc Document) {
	t.Helper()
	if err := store.Set(context.Background(), collection, id, doc); err != nil {
		t.Fatalf("Set %s/%s failed: %v", collection, id, err)
	}
}
