package repository

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultChatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) *DefaultChatRepository {
	return &DefaultChatRepository{db: db}
}

func (c *DefaultChatRepository) Find(ctx context.Context, userID, mode string) (*entity.ChatHistory, error) {
	var history entity.ChatHistory
	err := c.db.WithContext(ctx).
		Where("user_id = ? AND mode = ?", userID, mode).
		First(&history).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &history, err
}

func (c *DefaultChatRepository) Upsert(ctx context.Context, history *entity.ChatHistory) error {
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(history).Error
}
