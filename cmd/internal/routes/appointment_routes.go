package routes

import (
	"bizbook/cmd/internal/service"
	"bizbook/cmd/internal/utils"
	"bizbook/cmd/internal/utils/apierror"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	FetchForTab(ctx context.Context, subId, tab string) []*service.AppointmentResponse
	CreateAppointment(ctx context.Context, subId string, req *service.AppointmentRequest) (*service.CreateAppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, id, subId string) apierror.ErrorResponse
	RespondToInvitation(ctx context.Context, subId, appointmentID, response string) bool
	PreviewRecurrence(req *service.PreviewRequest) (*service.RecurrencePreview, apierror.ErrorResponse)
	ExportCalendar(ctx context.Context, subId string, rangeStart, rangeEnd *int64) string
}

type InvitationAnswer struct {
	Response string `json:"response"`
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

// GetAppointments never fails: a request without a session, or a listing
// the store could not produce, yields an empty list.
func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	tab := strings.ToLower(strings.TrimSpace(c.QueryParam("tab")))
	appts := a.AppointmentService.FetchForTab(c.Request().Context(), utils.SessionSub(c), tab)

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := a.AppointmentService.CreateAppointment(c.Request().Context(), utils.SessionSub(c), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	serr := a.AppointmentService.DeleteAppointment(c.Request().Context(), id, data.Sub)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func (a *DefaultAppointmentRoute) RespondToInvitation(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	var answer InvitationAnswer
	if err := c.Bind(&answer); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	if !a.AppointmentService.RespondToInvitation(c.Request().Context(), data.Sub, id, strings.TrimSpace(answer.Response)) {
		return c.JSON(apierror.InvitationFailedError.Code(), apierror.InvitationFailedError)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": answer.Response})
}

func (a *DefaultAppointmentRoute) PreviewRecurrence(c echo.Context) error {
	var req service.PreviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	preview, apierr := a.AppointmentService.PreviewRecurrence(&req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, preview)
}

// GetCalendar serves the caller's appointments as text/calendar, limited
// to one month when ?month=YYYY-MM is given.
func (a *DefaultAppointmentRoute) GetCalendar(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	var rangeStart, rangeEnd *int64
	if monthStr := c.QueryParam("month"); monthStr != "" {
		monthStartMillis, monthEndMillis, err := parseMonthString(monthStr)
		if err != nil {
			apierr := apierror.NewSimple(http.StatusBadRequest, "Could not understand month format")
			return c.JSON(apierr.Code(), apierr)
		}
		rangeStart, rangeEnd = &monthStartMillis, &monthEndMillis
	}

	feed := a.AppointmentService.ExportCalendar(c.Request().Context(), data.Sub, rangeStart, rangeEnd)
	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// parseMonthString takes "YYYY-MM" (e.g., "2025-08") and returns
// the start of that month and the start of the next month as epoch millis.
func parseMonthString(monthString string) (int64, int64, error) {
	t, err := time.Parse("2006-01", monthString)
	if err != nil {
		return 0, 0, errors.New("invalid month format, expected YYYY-MM")
	}

	monthStart := t.UTC() // Ensure UTC always
	monthEnd := monthStart.AddDate(0, 1, 0)
	return monthStart.UnixMilli(), monthEnd.UnixMilli(), nil
}
