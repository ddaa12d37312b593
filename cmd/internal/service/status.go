package service

import "bizbook/cmd/internal/domain/entity"

// ValidateStatus maps a raw status read from the store onto the known
// statuses. Unknown or empty values become "scheduled".
func ValidateStatus(raw string) entity.AppointmentStatus {
	switch s := entity.AppointmentStatus(raw); s {
	case entity.StatusScheduled,
		entity.StatusConfirmed,
		entity.StatusCancelled,
		entity.StatusCompleted,
		entity.StatusDraft:
		return s
	default:
		return entity.StatusScheduled
	}
}
