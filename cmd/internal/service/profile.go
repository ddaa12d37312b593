package service

import (
	"bizbook/cmd/internal/domain/entity"
	"fmt"
)

type Profile struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	DisplayName *string `json:"display_name"`
}

// JoinError stands in for a related record the store failed to resolve.
type JoinError struct {
	Message string
}

func (e *JoinError) Error() string {
	return "join failed: " + e.Message
}

// MapProfile turns whatever a profile join produced into a Profile, or nil
// when there is nothing usable: nil input, an error value or a map carrying
// an "error" key, a shape it does not know, or a record with neither id nor
// email.
func MapProfile(raw any) *Profile {
	switch v := raw.(type) {
	case nil:
		return nil
	case *entity.User:
		if v == nil {
			return nil
		}
		return newProfile(v.ID, v.Email, v.DisplayName)
	case entity.User:
		return newProfile(v.ID, v.Email, v.DisplayName)
	case error:
		return nil
	case map[string]any:
		if _, failed := v["error"]; failed {
			return nil
		}
		return newProfile(coerce(v["id"]), coerce(v["email"]), displayName(v["display_name"]))
	default:
		return nil
	}
}

func newProfile(id, email string, name *string) *Profile {
	if id == "" && email == "" {
		return nil
	}
	return &Profile{ID: id, Email: email, DisplayName: name}
}

func coerce(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func displayName(v any) *string {
	switch x := v.(type) {
	case string:
		return &x
	case *string:
		return x
	default:
		return nil
	}
}
