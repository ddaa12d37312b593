package routes

import (
	"bizbook/cmd/internal/taskparse"
	"bizbook/cmd/internal/utils/apierror"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type ParseTaskRequest struct {
	Text     string `json:"text" validate:"required,max=500"`
	Timezone string `json:"timezone" validate:"omitempty,timezone"`
}

type DefaultTaskRoute struct {
	Validate Validator
	Now      func() time.Time
}

// Validator is the subset of *validator.Validate the routes use.
type Validator interface {
	Struct(s any) error
}

func NewTaskDefault(validate Validator) *DefaultTaskRoute {
	return &DefaultTaskRoute{Validate: validate, Now: time.Now}
}

// ParseTask answers {"task": null} when the text is not a task request.
func (t *DefaultTaskRoute) ParseTask(c echo.Context) error {
	var req ParseTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}
	if err := t.Validate.Struct(&req); err != nil {
		apierr := apierror.FromValidationError(err)
		return c.JSON(apierr.Code(), apierr)
	}

	loc := time.UTC
	if req.Timezone != "" {
		if l, err := time.LoadLocation(req.Timezone); err == nil {
			loc = l
		}
	}

	task := taskparse.Parse(req.Text, t.Now().In(loc))
	return c.JSON(http.StatusOK, echo.Map{"task": task})
}
