package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mmynk/allotment/internal/models"
)

type participantModel struct {
	ID         int64   `gorm:"column:id_participant;primaryKey;autoIncrement"`
	FirstName  string  `gorm:"column:first_name;type:text;not null"`
	LastName   string  `gorm:"column:last_name;type:text;not null"`
	Percentage float64 `gorm:"column:percentage;type:double precision;not null;check:chk_tb_participant_percentage,percentage >= 0 AND percentage <= 100"`
}

func (participantModel) TableName() string {
	return "tb_participant"
}

func (m participantModel) toModel() models.Participant {
	return models.Participant{
		ID:         m.ID,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Percentage: m.Percentage,
	}
}

// participants implements storage.ParticipantStore on a gorm handle, which
// may be the pool or a transaction.
type participants struct {
	db *gorm.DB
}

func (p participants) CreateParticipant(ctx context.Context, participant *models.Participant) error {
	row := participantModel{
		FirstName:  participant.FirstName,
		LastName:   participant.LastName,
		Percentage: participant.Percentage,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert participant: %w", err)
	}
	participant.ID = row.ID
	return nil
}

func (p participants) ListParticipants(ctx context.Context) ([]models.Participant, error) {
	var rows []participantModel
	if err := p.db.WithContext(ctx).Order("id_participant ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	result := make([]models.Participant, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toModel())
	}
	return result, nil
}

func (p participants) GetParticipant(ctx context.Context, id int64) (models.Participant, bool, error) {
	var row participantModel
	err := p.db.WithContext(ctx).Where("id_participant = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Participant{}, false, nil
		}
		return models.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}
	return row.toModel(), true, nil
}

func (p participants) UpdatePercentage(ctx context.Context, id int64, percentage float64) (models.Participant, bool, error) {
	res := p.db.WithContext(ctx).
		Model(&participantModel{}).
		Where("id_participant = ?", id).
		Update("percentage", percentage)
	if res.Error != nil {
		return models.Participant{}, false, fmt.Errorf("update participant: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Participant{}, false, nil
	}
	return p.GetParticipant(ctx, id)
}

func (p participants) DeleteParticipant(ctx context.Context, id int64) (int64, error) {
	res := p.db.WithContext(ctx).Where("id_participant = ?", id).Delete(&participantModel{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete participant: %w", res.Error)
	}
	return res.RowsAffected, nil
}
