package repository

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"gorm.io/gorm"
)

type DefaultStaffRepository struct {
	db *gorm.DB
}

func NewStaffRepository(db *gorm.DB) *DefaultStaffRepository {
	return &DefaultStaffRepository{db: db}
}

// ActiveMembers returns the user ids of the active staff of a business.
func (s *DefaultStaffRepository) ActiveMembers(ctx context.Context, ownerID string) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&entity.StaffMember{}).
		Where("business_owner = ?", ownerID).
		Where("status = ?", entity.StaffActive).
		Order("user_id asc").
		Pluck("user_id", &ids).Error
	return ids, err
}
