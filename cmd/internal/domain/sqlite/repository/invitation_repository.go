package repository

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"gorm.io/gorm"
)

type DefaultInvitationRepository struct {
	db *gorm.DB
}

func NewInvitationRepository(db *gorm.DB) *DefaultInvitationRepository {
	return &DefaultInvitationRepository{db: db}
}

// Respond sets the status of the invitation addressed to userID. The bool
// result is false when no such invitation exists.
func (i *DefaultInvitationRepository) Respond(ctx context.Context, appointmentID, userID string, status entity.InvitationStatus, at int64) (bool, error) {
	res := i.db.WithContext(ctx).
		Model(&entity.AppointmentInvitation{}).
		Where("appointment_id = ?", appointmentID).
		Where("invited_user_id = ?", userID).
		Updates(map[string]any{
			"status":       status,
			"responded_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
