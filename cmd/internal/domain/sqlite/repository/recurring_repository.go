package repository

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"gorm.io/gorm"
)

type DefaultRecurringRepository struct {
	db *gorm.DB
}

func NewRecurringRepository(db *gorm.DB) *DefaultRecurringRepository {
	return &DefaultRecurringRepository{db: db}
}

// FindByEntities returns the settings of the given entities keyed by
// entity id. Entities without settings are absent from the map.
func (r *DefaultRecurringRepository) FindByEntities(ctx context.Context, entityType entity.RecurringEntityType, ids []string) (map[string]*entity.RecurringSettings, error) {
	out := make(map[string]*entity.RecurringSettings, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []*entity.RecurringSettings
	err := r.db.WithContext(ctx).
		Where("entity_type = ?", entityType).
		Where("entity_id IN ?", ids).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		out[row.EntityID] = row
	}
	return out, nil
}
