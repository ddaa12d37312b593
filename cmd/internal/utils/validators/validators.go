package validators

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// IsIso8601 accepts RFC 3339 timestamps, the only ISO 8601 profile the
// API speaks. Empty strings are left to the "required" tag.
func IsIso8601(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(time.RFC3339, s)
	return err == nil
}

func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("iso8601", IsIso8601)

	// Report fields by their JSON name so errors match the request body.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}
