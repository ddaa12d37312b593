package repository

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"errors"
	"gorm.io/gorm"
)

// AppointmentQuery describes one scoped listing. Zero-valued fields add no
// filter; Limit <= 0 means no LIMIT clause.
type AppointmentQuery struct {
	OwnerIDs         []string
	AssigneeID       string
	VisibleTo        string
	InvitedUserID    string
	InvitationStatus entity.InvitationStatus
	StartsFrom       *int64
	EndsBefore       *int64
	RangeStart       *int64
	RangeEnd         *int64
	Descending       bool
	Limit            int
}

type DefaultAppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *DefaultAppointmentRepository {
	return &DefaultAppointmentRepository{db: db}
}

func (a *DefaultAppointmentRepository) FindByID(ctx context.Context, id string) (*entity.Appointment, error) {
	var appt entity.Appointment
	err := a.db.WithContext(ctx).First(&appt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &appt, err
}

func (a *DefaultAppointmentRepository) Find(ctx context.Context, q AppointmentQuery) ([]*entity.Appointment, error) {
	tx := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Preload("Owner").
		Preload("Assignee")

	if len(q.OwnerIDs) > 0 {
		tx = tx.Where("user_id IN ?", q.OwnerIDs)
	}
	if q.AssigneeID != "" {
		tx = tx.Where("assignee_id = ?", q.AssigneeID)
	}
	if q.VisibleTo != "" {
		tx = tx.Where("(user_id = ? OR assignee_id = ?)", q.VisibleTo, q.VisibleTo)
	}
	if q.InvitedUserID != "" {
		invited := a.db.Model(&entity.AppointmentInvitation{}).
			Select("appointment_id").
			Where("invited_user_id = ?", q.InvitedUserID).
			Where("status = ?", q.InvitationStatus)
		tx = tx.Where("id IN (?)", invited)
	}
	if q.StartsFrom != nil {
		tx = tx.Where("start_time >= ?", *q.StartsFrom)
	}
	if q.EndsBefore != nil {
		tx = tx.Where("end_time < ?", *q.EndsBefore)
	}
	if q.RangeStart != nil && q.RangeEnd != nil {
		tx = tx.Where("start_time < ?", *q.RangeEnd).
			Where("end_time > ?", *q.RangeStart)
	}

	if q.Descending {
		tx = tx.Order("start_time desc").Order("id desc")
	} else {
		tx = tx.Order("start_time asc").Order("id asc")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var appts []*entity.Appointment
	err := tx.Find(&appts).Error
	return appts, err
}

// CanCreateAppointment reports whether the user is still below the monthly
// quota. A quota of zero means unlimited.
func (a *DefaultAppointmentRepository) CanCreateAppointment(ctx context.Context, userID string, quota int, monthStart int64) (bool, error) {
	if quota <= 0 {
		return true, nil
	}

	var count int64
	err := a.db.WithContext(ctx).
		Model(&entity.Appointment{}).
		Where("user_id = ?", userID).
		Where("created_at >= ?", monthStart).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count < int64(quota), nil
}

// Create stores the appointment, its invitations and its recurring settings
// (nil when the appointment does not repeat) in a single transaction.
func (a *DefaultAppointmentRepository) Create(ctx context.Context, appointment *entity.Appointment, invitations []*entity.AppointmentInvitation, recurring *entity.RecurringSettings) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Owner", "Assignee").Create(appointment).Error; err != nil {
			return err
		}
		if len(invitations) > 0 {
			if err := tx.Create(invitations).Error; err != nil {
				return err
			}
		}
		if recurring != nil {
			return tx.Create(recurring).Error
		}
		return nil
	})
}

func (a *DefaultAppointmentRepository) Delete(ctx context.Context, appointment *entity.Appointment) error {
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("appointment_id = ?", appointment.ID).
			Delete(&entity.AppointmentInvitation{}).Error
		if err != nil {
			return err
		}
		err = tx.Where("entity_id = ? AND entity_type = ?", appointment.ID, entity.RecurringAppointment).
			Delete(&entity.RecurringSettings{}).Error
		if err != nil {
			return err
		}
		return tx.Delete(appointment).Error
	})
}
