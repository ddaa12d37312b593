package service

import (
	"bizbook/cmd/internal/domain/sqlite/repository"
	"bizbook/cmd/internal/utils/apierror"
	"errors"

	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

// resilientRead runs a read and fails open: any error is logged and turned
// into an empty, non-nil slice so listings never break the client.
func resilientRead[T any](op string, read func() ([]T, error)) []T {
	rows, err := read()
	if err != nil {
		log.Errorf("%s failed, returning empty result: %v", op, err)
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

// strictWrite runs a write and fails closed: the first error is reported to
// the caller as an API error, never swallowed or retried.
func strictWrite[T any](op string, write func() (T, error)) (T, apierror.ErrorResponse) {
	v, err := write()
	if err != nil {
		return v, classifyWriteError(op, err)
	}
	return v, nil
}

func classifyWriteError(op string, err error) apierror.ErrorResponse {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apierror.DuplicateError
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apierror.InvalidReferenceError
	case errors.Is(err, repository.ErrPermissionDenied):
		return apierror.PermissionDeniedError
	}
	log.Errorf("%s failed: %v", op, err)
	return apierror.InternalServerError
}
