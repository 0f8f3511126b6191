package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mmynk/allotment/internal/models"
	"github.com/mmynk/allotment/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateParticipant assigns increasing IDs", func(t *testing.T) {
		first := &models.Participant{FirstName: "Carlos", LastName: "Moura", Percentage: 5}
		second := &models.Participant{FirstName: "Fernanda", LastName: "Oliveira", Percentage: 15}

		if err := store.CreateParticipant(ctx, first); err != nil {
			t.Fatalf("CreateParticipant failed: %v", err)
		}
		if err := store.CreateParticipant(ctx, second); err != nil {
			t.Fatalf("CreateParticipant failed: %v", err)
		}

		if first.ID == 0 {
			t.Error("Expected participant ID to be assigned")
		}
		if second.ID <= first.ID {
			t.Errorf("Expected second ID %d to be greater than first %d", second.ID, first.ID)
		}
	})

	t.Run("ListParticipants returns creation order", func(t *testing.T) {
		list, err := store.ListParticipants(ctx)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		if len(list) != 2 {
			t.Fatalf("Expected 2 participants, got %d", len(list))
		}
		if list[0].FirstName != "Carlos" || list[1].FirstName != "Fernanda" {
			t.Errorf("Unexpected order: %+v", list)
		}
		if list[1].Percentage != 15 {
			t.Errorf("Expected percentage 15, got %v", list[1].Percentage)
		}
	})

	t.Run("GetParticipant reports absence without error", func(t *testing.T) {
		_, found, err := store.GetParticipant(ctx, 9999)
		if err != nil {
			t.Fatalf("GetParticipant failed: %v", err)
		}
		if found {
			t.Error("Expected participant not to be found")
		}
	})

	t.Run("UpdatePercentage returns post-update record", func(t *testing.T) {
		list, _ := store.ListParticipants(ctx)
		id := list[0].ID

		updated, found, err := store.UpdatePercentage(ctx, id, 42.5)
		if err != nil {
			t.Fatalf("UpdatePercentage failed: %v", err)
		}
		if !found {
			t.Fatal("Expected participant to be found")
		}
		if updated.Percentage != 42.5 || updated.FirstName != "Carlos" {
			t.Errorf("Unexpected updated participant: %+v", updated)
		}

		got, _, _ := store.GetParticipant(ctx, id)
		if got.Percentage != 42.5 {
			t.Errorf("Expected stored percentage 42.5, got %v", got.Percentage)
		}
	})

	t.Run("UpdatePercentage on missing ID", func(t *testing.T) {
		_, found, err := store.UpdatePercentage(ctx, 9999, 1)
		if err != nil {
			t.Fatalf("UpdatePercentage failed: %v", err)
		}
		if found {
			t.Error("Expected participant not to be found")
		}
	})

	t.Run("DeleteParticipant reports affected rows", func(t *testing.T) {
		list, _ := store.ListParticipants(ctx)

		n, err := store.DeleteParticipant(ctx, list[0].ID)
		if err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 affected row, got %d", n)
		}

		n, err = store.DeleteParticipant(ctx, list[0].ID)
		if err != nil {
			t.Fatalf("DeleteParticipant failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected 0 affected rows on second delete, got %d", n)
		}
	})

	t.Run("percentage outside range violates the table constraint", func(t *testing.T) {
		err := store.CreateParticipant(ctx, &models.Participant{FirstName: "A", LastName: "B", Percentage: 101})
		if err == nil {
			t.Error("Expected constraint violation")
		}
	})
}

func TestInTx(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("commits on success", func(t *testing.T) {
		err := store.InTx(ctx, func(tx storage.ParticipantStore) error {
			return tx.CreateParticipant(ctx, &models.Participant{FirstName: "Carlos", LastName: "Moura", Percentage: 5})
		})
		if err != nil {
			t.Fatalf("InTx failed: %v", err)
		}

		list, _ := store.ListParticipants(ctx)
		if len(list) != 1 {
			t.Errorf("Expected 1 participant after commit, got %d", len(list))
		}
	})

	t.Run("rolls back on error", func(t *testing.T) {
		errAbort := errors.New("abort")
		err := store.InTx(ctx, func(tx storage.ParticipantStore) error {
			if err := tx.CreateParticipant(ctx, &models.Participant{FirstName: "Fernanda", LastName: "Oliveira", Percentage: 15}); err != nil {
				return err
			}
			return errAbort
		})
		if !errors.Is(err, errAbort) {
			t.Fatalf("Expected errAbort, got %v", err)
		}

		list, _ := store.ListParticipants(ctx)
		if len(list) != 1 {
			t.Errorf("Expected rollback to leave 1 participant, got %d", len(list))
		}
	})
}

func TestMemoryStore(t *testing.T) {
	store, err := New(MemoryPath)
	if err != nil {
		t.Fatalf("Failed to create in-memory store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.CreateParticipant(ctx, &models.Participant{FirstName: "Carlos", LastName: "Moura", Percentage: 5}); err != nil {
		t.Fatalf("CreateParticipant failed: %v", err)
	}

	list, err := store.ListParticipants(ctx)
	if err != nil {
		t.Fatalf("ListParticipants failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 participant, got %d", len(list))
	}
}
