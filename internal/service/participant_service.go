package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"

	"github.com/mmynk/allotment/internal/allocation"
	"github.com/mmynk/allotment/internal/models"
	"github.com/mmynk/allotment/internal/storage"
)

// ParticipantService enforces the allocation rules on top of a storage.Store.
type ParticipantService struct {
	store storage.Store

	// writeMu serializes check-and-write sequences within this process. The
	// store transaction covers writers in other processes.
	writeMu sync.Mutex
}

// NewParticipantService creates a new ParticipantService with the given storage backend.
func NewParticipantService(store storage.Store) *ParticipantService {
	return &ParticipantService{store: store}
}

// AddInput carries the fields of a new participant.
type AddInput struct {
	FirstName  string
	LastName   string
	Percentage float64
}

// List returns all participants and the remaining quota.
func (s *ParticipantService) List(ctx context.Context) (models.Summary, error) {
	participants, err := s.store.ListParticipants(ctx)
	if err != nil {
		return models.Summary{}, fmt.Errorf("failed to list participants: %w", err)
	}

	slog.Debug("ListParticipants successful", "count", len(participants))

	return models.Summary{
		Participants: participants,
		Remaining:    allocation.Remaining(participants),
	}, nil
}

// Get looks up one participant. Absence is reported with found=false.
func (s *ParticipantService) Get(ctx context.Context, id int64) (models.Participant, bool, error) {
	participant, found, err := s.store.GetParticipant(ctx, id)
	if err != nil {
		return models.Participant{}, false, fmt.Errorf("failed to get participant %d: %w", id, err)
	}
	return participant, found, nil
}

// Add creates a participant if the name pair is free and the share fits in
// the remaining quota.
func (s *ParticipantService) Add(ctx context.Context, in AddInput) (models.Participant, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return models.Participant{}, errNamesRequired
	}
	if !validPercentage(in.Percentage) {
		return models.Participant{}, ErrInvalidPercentage
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	participant := models.Participant{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Percentage: in.Percentage,
	}

	err := s.store.InTx(ctx, func(tx storage.ParticipantStore) error {
		current, err := tx.ListParticipants(ctx)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}

		if err := allocation.CheckAdd(current, in.FirstName, in.LastName, in.Percentage); err != nil {
			return err
		}

		if err := tx.CreateParticipant(ctx, &participant); err != nil {
			return fmt.Errorf("failed to create participant: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.Participant{}, err
	}

	slog.Info("Participant created",
		"participant_id", participant.ID,
		"percentage", participant.Percentage,
	)
	return participant, nil
}

// UpdatePercentage changes the share of participant id if the new total stays
// within capacity.
func (s *ParticipantService) UpdatePercentage(ctx context.Context, id int64, percentage float64) (models.Participant, error) {
	if !validPercentage(percentage) {
		return models.Participant{}, ErrInvalidPercentage
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	var updated models.Participant
	err := s.store.InTx(ctx, func(tx storage.ParticipantStore) error {
		current, err := tx.ListParticipants(ctx)
		if err != nil {
			return fmt.Errorf("failed to list participants: %w", err)
		}

		if err := allocation.CheckUpdate(current, id, percentage); err != nil {
			return err
		}

		var found bool
		updated, found, err = tx.UpdatePercentage(ctx, id, percentage)
		if err != nil {
			return fmt.Errorf("failed to update participant %d: %w", id, err)
		}
		if !found {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return models.Participant{}, err
	}

	slog.Info("Participant updated", "participant_id", id, "percentage", percentage)
	return updated, nil
}

// Remove deletes participant id and returns the number of affected rows.
// Deleting an unknown id returns ErrNotFound.
func (s *ParticipantService) Remove(ctx context.Context, id int64) (int64, error) {
	n, err := s.store.DeleteParticipant(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	slog.Info("Participant deleted", "participant_id", id)
	return n, nil
}

func validPercentage(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= allocation.Capacity
}
