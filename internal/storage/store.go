// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/allotment/internal/models"
)

// ParticipantStore defines the participant record operations.
// Implementations apply no business rules; any failure of the underlying
// database is returned as an opaque error.
type ParticipantStore interface {
	// CreateParticipant persists a new participant.
	// The participant.ID field will be populated by the store.
	CreateParticipant(ctx context.Context, participant *models.Participant) error

	// ListParticipants returns every participant in creation order.
	ListParticipants(ctx context.Context) ([]models.Participant, error)

	// GetParticipant retrieves a participant by ID.
	// A missing participant is reported with found=false and a nil error.
	GetParticipant(ctx context.Context, id int64) (participant models.Participant, found bool, err error)

	// UpdatePercentage overwrites the share of a participant and returns the
	// stored record. found is false when there is no such participant.
	UpdatePercentage(ctx context.Context, id int64, percentage float64) (participant models.Participant, found bool, err error)

	// DeleteParticipant removes a participant and reports how many rows were
	// affected (0 when there is no such participant).
	DeleteParticipant(ctx context.Context, id int64) (int64, error)
}

// Store is a ParticipantStore with an explicit lifecycle and transactions.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the service layer.
type Store interface {
	ParticipantStore

	// InTx runs fn against a view of the store bound to one transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// fn must only use the ParticipantStore it is given.
	InTx(ctx context.Context, fn func(ParticipantStore) error) error

	// Close releases any resources held by the store.
	Close() error
}
