package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/allotment/internal/models"
)

// querier is the subset of *sql.DB and *sql.Tx used for participant queries.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// participants implements storage.ParticipantStore on top of a querier.
type participants struct {
	q querier
}

// CreateParticipant inserts a participant and sets its ID.
func (p participants) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	res, err := p.q.ExecContext(ctx,
		"INSERT INTO tb_participant (first_name, last_name, percentage) VALUES (?, ?, ?)",
		participant.FirstName, participant.LastName, participant.Percentage,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read participant id: %w", err)
	}
	participant.ID = id
	return nil
}

// ListParticipants returns all participants ordered by ID.
func (p participants) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	rows, err := p.q.QueryContext(ctx,
		"SELECT id_participant, first_name, last_name, percentage FROM tb_participant ORDER BY id_participant",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	defer rows.Close()

	result := []models.Participant{}
	for rows.Next() {
		var participant models.Participant
		if err := rows.Scan(&participant.ID, &participant.FirstName, &participant.LastName, &participant.Percentage); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		result = append(result, participant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}

	return result, nil
}

// GetParticipant retrieves a participant by ID.
func (p participants) GetParticipant(ctx context.Context, id int64) (models.Participant, bool, error) {
	var participant models.Participant
	err := p.q.QueryRowContext(ctx,
		"SELECT id_participant, first_name, last_name, percentage FROM tb_participant WHERE id_participant = ?",
		id,
	).Scan(&participant.ID, &participant.FirstName, &participant.LastName, &participant.Percentage)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, false, nil
	}
	if err != nil {
		return models.Participant{}, false, fmt.Errorf("failed to get participant: %w", err)
	}
	return participant, true, nil
}

// UpdatePercentage sets the share of a participant and reads the row back.
func (p participants) UpdatePercentage(ctx context.Context, id int64, percentage float64) (models.Participant, bool, error) {
	res, err := p.q.ExecContext(ctx,
		"UPDATE tb_participant SET percentage = ? WHERE id_participant = ?",
		percentage, id,
	)
	if err != nil {
		return models.Participant{}, false, fmt.Errorf("failed to update participant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Participant{}, false, fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return models.Participant{}, false, nil
	}

	return p.GetParticipant(ctx, id)
}

// DeleteParticipant removes a participant by ID.
func (p participants) DeleteParticipant(ctx context.Context, id int64) (int64, error) {
	res, err := p.q.ExecContext(ctx, "DELETE FROM tb_participant WHERE id_participant = ?", id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete participant: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete result: %w", err)
	}
	return n, nil
}
