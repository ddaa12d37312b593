package service

import (
	"bizbook/cmd/internal/domain/entity"
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want entity.AppointmentStatus
	}{
		{"scheduled", entity.StatusScheduled},
		{"confirmed", entity.StatusConfirmed},
		{"cancelled", entity.StatusCancelled},
		{"completed", entity.StatusCompleted},
		{"draft", entity.StatusDraft},
		{"", entity.StatusScheduled},
		{"CONFIRMED", entity.StatusScheduled},
		{"no-show", entity.StatusScheduled},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateStatus(tt.raw))
		})
	}
}

func TestMapProfile(t *testing.T) {
	name := "Grace"
	var nilUser *entity.User

	tests := []struct {
		name string
		raw  any
		want *Profile
	}{
		{"nil", nil, nil},
		{"typed nil user", nilUser, nil},
		{"user pointer", &entity.User{ID: "u1", Email: "g@example.com", DisplayName: &name}, &Profile{ID: "u1", Email: "g@example.com", DisplayName: &name}},
		{"user value", entity.User{ID: "u1"}, &Profile{ID: "u1"}},
		{"join error", &JoinError{Message: "relation missing"}, nil},
		{"plain error", errors.New("boom"), nil},
		{"map with error key", map[string]any{"error": "not found", "id": "u1"}, nil},
		{"map", map[string]any{"id": "u1", "email": "g@example.com", "display_name": "Grace"}, &Profile{ID: "u1", Email: "g@example.com", DisplayName: &name}},
		{"map with numeric id", map[string]any{"id": 42}, &Profile{ID: "42"}},
		{"empty map", map[string]any{}, nil},
		{"user without id or email", &entity.User{DisplayName: &name}, nil},
		{"unknown shape", []string{"u1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Profile
			require.NotPanics(t, func() { got = MapProfile(tt.raw) })
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetUser(t *testing.T) {
	repo := &fakeUserRepo{users: map[string]*entity.User{
		"u1": {ID: "u1", Email: "a@example.com"},
	}}
	svc := NewUserService(repo)

	t.Run("by id", func(t *testing.T) {
		p, apierr := svc.GetUser(context.Background(), "u1", "")
		require.Nil(t, apierr)
		assert.Equal(t, "a@example.com", p.Email)
	})

	t.Run("me", func(t *testing.T) {
		p, apierr := svc.GetUser(context.Background(), "@me", "u1")
		require.Nil(t, apierr)
		assert.Equal(t, "u1", p.ID)
	})

	t.Run("me without session", func(t *testing.T) {
		_, apierr := svc.GetUser(context.Background(), "@me", "")
		require.NotNil(t, apierr)
		assert.Equal(t, http.StatusUnauthorized, apierr.Code())
	})

	t.Run("unknown", func(t *testing.T) {
		_, apierr := svc.GetUser(context.Background(), "u2", "u1")
		require.NotNil(t, apierr)
		assert.Equal(t, http.StatusNotFound, apierr.Code())
	})
}
