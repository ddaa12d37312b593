package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type Kind string

const (
	KindAuthentication Kind = "authentication_missing"
	KindPermission     Kind = "permission_denied"
	KindValidation     Kind = "validation_failure"
	KindNotFound       Kind = "not_found"
	KindConflict       Kind = "conflict"
	KindBackend        Kind = "backend_error"
)

// ErrorResponse is what services hand back to routes. It serializes to the
// JSON body of the HTTP response.
type ErrorResponse interface {
	error
	Code() int
}

type SimpleError struct {
	Status  int               `json:"-"`
	Kind    Kind              `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func (e *SimpleError) Error() string {
	return e.Message
}

func (e *SimpleError) Code() int {
	return e.Status
}

func NewSimple(status int, message string) *SimpleError {
	return &SimpleError{Status: status, Kind: kindFor(status), Message: message}
}

func NewMissingParamError(param string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Missing required parameter '%s'", param))
}

func NewInvalidParamTypeError(param, expected string) *SimpleError {
	return NewSimple(http.StatusBadRequest, fmt.Sprintf("Parameter '%s' must be of type %s", param, expected))
}

func NewValidationError(message string) *SimpleError {
	return NewSimple(http.StatusBadRequest, message)
}

var (
	InternalServerError   = NewSimple(http.StatusInternalServerError, "Something went wrong, please try again")
	MalformedBodyError    = NewSimple(http.StatusBadRequest, "Request body is malformed")
	NotFoundError         = NewSimple(http.StatusNotFound, "Resource not found")
	InvalidAuthTokenError = NewSimple(http.StatusUnauthorized, "Authentication token is missing or invalid")
	SessionRequiredError  = NewSimple(http.StatusUnauthorized, "You need to be signed in to do this")
	PermissionDeniedError = NewSimple(http.StatusForbidden, "You do not have permission to do this")
	QuotaExceededError    = NewSimple(http.StatusForbidden, "You have reached the monthly appointment limit of your plan")
	FeatureGatedError     = NewSimple(http.StatusForbidden, "This feature is not available on your plan")
	DuplicateError        = NewSimple(http.StatusConflict, "This record already exists")
	InvalidReferenceError = NewSimple(http.StatusUnprocessableEntity, "A referenced record does not exist")
	InvitationFailedError = NewSimple(http.StatusNotFound, "Could not respond to the invitation")
	TimeRangeError        = NewSimple(http.StatusBadRequest, "Start time must be before end time")
)

// FromValidationError converts validator errors into a 400 listing the
// offending fields.
func FromValidationError(err error) *SimpleError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewValidationError(err.Error())
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name := jsonName(fe)
		fields[name] = describe(fe)
		names = append(names, name)
	}

	e := NewValidationError("Invalid fields: " + strings.Join(names, ", "))
	e.Fields = fields
	return e
}

func jsonName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return "must be at most " + fe.Param()
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "iso8601":
		return "must be an RFC 3339 timestamp"
	case "excluded_with":
		return "cannot be combined with " + fe.Param()
	default:
		return "failed '" + fe.Tag() + "' validation"
	}
}

func kindFor(status int) Kind {
	switch status {
	case http.StatusUnauthorized:
		return KindAuthentication
	case http.StatusForbidden:
		return KindPermission
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	default:
		return KindBackend
	}
}
