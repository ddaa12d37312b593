package service

import (
	"bizbook/cmd/internal/domain/entity"
	"bizbook/cmd/internal/utils/apierror"
	"context"
	"strings"

	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (*entity.User, error)
}

type DefaultUserService struct {
	UserRepo UserRepository
}

func NewUserService(userRepo UserRepository) *DefaultUserService {
	return &DefaultUserService{UserRepo: userRepo}
}

// GetUser returns the profile of rawId, or of the caller when rawId is "@me".
func (u *DefaultUserService) GetUser(ctx context.Context, rawId, subId string) (*Profile, apierror.ErrorResponse) {
	id := strings.TrimSpace(rawId)
	if id == "@me" {
		if subId == "" {
			return nil, apierror.SessionRequiredError
		}
		id = subId
	}

	user, err := u.UserRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to find user (%s) by id: %v", id, err)
		return nil, apierror.InternalServerError
	}

	profile := MapProfile(user)
	if profile == nil {
		return nil, apierror.NotFoundError
	}
	return profile, nil
}
