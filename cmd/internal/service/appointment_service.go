package service

import (
	"bizbook/cmd/internal/calendar"
	"bizbook/cmd/internal/config"
	"bizbook/cmd/internal/domain/entity"
	"bizbook/cmd/internal/domain/sqlite/repository"
	"bizbook/cmd/internal/recurrence"
	"bizbook/cmd/internal/utils"
	"bizbook/cmd/internal/utils/apierror"
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

type AppointmentRepository interface {
	FindByID(ctx context.Context, id string) (*entity.Appointment, error)
	Find(ctx context.Context, q repository.AppointmentQuery) ([]*entity.Appointment, error)
	CanCreateAppointment(ctx context.Context, userID string, quota int, monthStart int64) (bool, error)
	Create(ctx context.Context, appointment *entity.Appointment, invitations []*entity.AppointmentInvitation, recurring *entity.RecurringSettings) error
	Delete(ctx context.Context, appointment *entity.Appointment) error
}

type InvitationRepository interface {
	Respond(ctx context.Context, appointmentID, userID string, status entity.InvitationStatus, at int64) (bool, error)
}

type RecurringRepository interface {
	FindByEntities(ctx context.Context, entityType entity.RecurringEntityType, ids []string) (map[string]*entity.RecurringSettings, error)
}

// RosterResolver lists the active staff of a business owner.
type RosterResolver interface {
	Members(ctx context.Context, ownerID string) ([]string, error)
}

// Tabs understood by FetchForTab. Anything else selects the default listing.
const (
	TabMine        = "mine"
	TabShared      = "shared"
	TabAssigned    = "assigned"
	TabInvitations = "invitations"
	TabUpcoming    = "upcoming"
	TabPast        = "past"
	TabTeam        = "team"
)

type RecurringRequest struct {
	Frequency      string `json:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Interval       *int   `json:"interval" validate:"omitnil,gte=1"`
	DaysOfWeek     []int  `json:"days_of_week" validate:"omitempty,max=7,dive,gte=0,lte=6"`
	DayOfMonth     *int   `json:"day_of_month" validate:"omitnil,gte=1,lte=31"`
	EndDate        string `json:"end_date" validate:"omitempty,iso8601,excluded_with=MaxOccurrences"`
	MaxOccurrences *int   `json:"max_occurrences" validate:"omitnil,gte=1"`
}

type AppointmentRequest struct {
	Title           string            `json:"title" validate:"required,max=128"`
	Description     string            `json:"description" validate:"max=4000"`
	Location        string            `json:"location" validate:"max=255"`
	StartTime       string            `json:"start_time" validate:"required,iso8601"`
	EndTime         string            `json:"end_time" validate:"required,iso8601"`
	IsAllDay        bool              `json:"is_all_day"`
	Status          string            `json:"status" validate:"omitempty,oneof=scheduled confirmed cancelled completed draft"`
	AppointmentType string            `json:"appointment_type" validate:"max=64"`
	AssigneeID      *string           `json:"assignee_id" validate:"omitnil,min=1,max=36"`
	InviteeIDs      []string          `json:"invitee_ids" validate:"omitempty,max=50,dive,required,max=36"`
	Recurring       *RecurringRequest `json:"recurring"`
}

type PreviewRequest struct {
	Anchor    string           `json:"anchor" validate:"required,iso8601"`
	Count     int              `json:"count" validate:"omitempty,gte=1,lte=100"`
	Recurring RecurringRequest `json:"recurring"`
}

type AppointmentResponse struct {
	ID                  string                   `json:"id"`
	UserID              string                   `json:"user_id"`
	AssigneeID          *string                  `json:"assignee_id"`
	Title               string                   `json:"title"`
	Description         string                   `json:"description"`
	Location            string                   `json:"location"`
	StartTime           string                   `json:"start_time"`
	EndTime             string                   `json:"end_time"`
	IsAllDay            bool                     `json:"is_all_day"`
	Status              entity.AppointmentStatus `json:"status"`
	AppointmentType     string                   `json:"appointment_type"`
	IsRecurringInstance bool                     `json:"is_recurring_instance"`
	ParentRecurringID   *string                  `json:"parent_recurring_id"`
	CreatedAt           string                   `json:"created_at"`
	UpdatedAt           string                   `json:"updated_at"`
	Owner               *Profile                 `json:"owner"`
	Assignee            *Profile                 `json:"assignee"`
}

// RecurrencePreview lists the dates a rule would produce. Only the anchor
// appointment is stored; the other dates are informational.
type RecurrencePreview struct {
	Count int      `json:"count"`
	Dates []string `json:"dates"`
}

type CreateAppointmentResponse struct {
	Appointment *AppointmentResponse `json:"appointment"`
	Recurrence  *RecurrencePreview   `json:"recurrence,omitempty"`
}

type Repositories struct {
	Appointments AppointmentRepository
	Invitations  InvitationRepository
	Recurring    RecurringRepository
	Users        UserRepository
}

type DefaultAppointmentService struct {
	AppointmentRepo AppointmentRepository
	InvitationRepo  InvitationRepository
	RecurringRepo   RecurringRepository
	UserRepo        UserRepository
	Roster          RosterResolver
	Policies        config.TierPolicies
	Validate        *validator.Validate

	// Now returns the current time in epoch millis.
	Now func() int64
}

func NewAppointmentService(repos Repositories, roster RosterResolver, policies config.TierPolicies, validate *validator.Validate) *DefaultAppointmentService {
	return &DefaultAppointmentService{
		AppointmentRepo: repos.Appointments,
		InvitationRepo:  repos.Invitations,
		RecurringRepo:   repos.Recurring,
		UserRepo:        repos.Users,
		Roster:          roster,
		Policies:        policies,
		Validate:        validate,
		Now:             utils.NowUTC,
	}
}

// FetchForTab resolves the caller's tier and runs the fetcher behind tab.
func (a *DefaultAppointmentService) FetchForTab(ctx context.Context, subId, tab string) []*AppointmentResponse {
	if subId == "" {
		return []*AppointmentResponse{}
	}

	tier, ok := a.callerTier(ctx, subId)
	if !ok {
		return []*AppointmentResponse{}
	}

	switch tab {
	case TabMine:
		return a.FetchMyAppointments(ctx, subId, tier)
	case TabShared:
		return a.FetchSharedAppointments(ctx, subId, tier)
	case TabAssigned:
		return a.FetchAssignedAppointments(ctx, subId, tier)
	case TabInvitations:
		return a.FetchInvitations(ctx, subId, tier)
	case TabUpcoming:
		return a.FetchUpcomingAppointments(ctx, subId, tier)
	case TabPast:
		return a.FetchPastAppointments(ctx, subId, tier)
	case TabTeam:
		return a.FetchTeamAppointments(ctx, subId, tier)
	default:
		return a.FetchDefaultAppointments(ctx, subId, tier)
	}
}

func (a *DefaultAppointmentService) FetchMyAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" {
		return []*AppointmentResponse{}
	}
	return a.list(ctx, "fetch my appointments", repository.AppointmentQuery{
		OwnerIDs: []string{userID},
		Limit:    a.Policies.For(tier).MyAppointmentsLimit,
	})
}

func (a *DefaultAppointmentService) FetchSharedAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" || !a.Policies.For(tier).SharedEnabled {
		return []*AppointmentResponse{}
	}
	return a.list(ctx, "fetch shared appointments", repository.AppointmentQuery{
		InvitedUserID:    userID,
		InvitationStatus: entity.InvitationAccepted,
	})
}

func (a *DefaultAppointmentService) FetchAssignedAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" || !a.Policies.For(tier).AssignedEnabled {
		return []*AppointmentResponse{}
	}
	return a.list(ctx, "fetch assigned appointments", repository.AppointmentQuery{
		AssigneeID: userID,
	})
}

// FetchInvitations lists appointments the user was invited to and has not
// answered yet. Available on every tier.
func (a *DefaultAppointmentService) FetchInvitations(ctx context.Context, userID string, _ entity.Tier) []*AppointmentResponse {
	if userID == "" {
		return []*AppointmentResponse{}
	}
	return a.list(ctx, "fetch pending invitations", repository.AppointmentQuery{
		InvitedUserID:    userID,
		InvitationStatus: entity.InvitationPending,
	})
}

func (a *DefaultAppointmentService) FetchUpcomingAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" {
		return []*AppointmentResponse{}
	}
	now := a.Now()
	return a.list(ctx, "fetch upcoming appointments", repository.AppointmentQuery{
		OwnerIDs:   []string{userID},
		StartsFrom: &now,
		Limit:      a.Policies.For(tier).UpcomingLimit,
	})
}

func (a *DefaultAppointmentService) FetchPastAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" {
		return []*AppointmentResponse{}
	}
	now := a.Now()
	return a.list(ctx, "fetch past appointments", repository.AppointmentQuery{
		OwnerIDs:   []string{userID},
		EndsBefore: &now,
		Descending: true,
		Limit:      a.Policies.For(tier).PastLimit,
	})
}

// FetchDefaultAppointments is the plain listing: everything the user owns or
// is assigned to.
func (a *DefaultAppointmentService) FetchDefaultAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	if userID == "" {
		return []*AppointmentResponse{}
	}
	return a.list(ctx, "fetch appointments", repository.AppointmentQuery{
		VisibleTo: userID,
		Limit:     a.Policies.For(tier).DefaultLimit,
	})
}

// FetchTeamAppointments lists the appointments owned by the business owner
// and by every active member of their staff.
func (a *DefaultAppointmentService) FetchTeamAppointments(ctx context.Context, userID string, tier entity.Tier) []*AppointmentResponse {
	policy := a.Policies.For(tier)
	if userID == "" || !policy.TeamEnabled {
		return []*AppointmentResponse{}
	}

	members := resilientRead("resolve staff roster", func() ([]string, error) {
		return a.Roster.Members(ctx, userID)
	})

	owners := make([]string, 0, len(members)+1)
	owners = append(owners, userID)
	for _, m := range members {
		if m != userID {
			owners = append(owners, m)
		}
	}

	return a.list(ctx, "fetch team appointments", repository.AppointmentQuery{
		OwnerIDs: owners,
		Limit:    policy.DefaultLimit,
	})
}

func (a *DefaultAppointmentService) CreateAppointment(ctx context.Context, subId string, req *AppointmentRequest) (*CreateAppointmentResponse, apierror.ErrorResponse) {
	utils.Sanitize(req)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	begin, err := utils.FromEpoch(req.StartTime)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	end, err := utils.FromEpoch(req.EndTime)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	if begin >= end {
		return nil, apierror.TimeRangeError
	}

	var recurring *entity.RecurringSettings
	if req.Recurring != nil {
		utils.Sanitize(req.Recurring)
		recurring, err = toRecurringSettings(req.Recurring)
		if err != nil {
			return nil, apierror.MalformedBodyError
		}
	}

	if subId == "" {
		return nil, apierror.SessionRequiredError
	}

	tier, ok := a.callerTier(ctx, subId)
	if !ok {
		return nil, apierror.InternalServerError
	}
	policy := a.Policies.For(tier)

	invitees := inviteesOf(req.InviteeIDs, subId)
	if len(invitees) > 0 && !policy.InviteEnabled {
		return nil, apierror.FeatureGatedError
	}

	now := a.Now()
	allowed, apierr := strictWrite("check appointment quota", func() (bool, error) {
		return a.AppointmentRepo.CanCreateAppointment(ctx, subId, policy.MonthlyAppointmentQuota, utils.MonthStart(now))
	})
	if apierr != nil {
		return nil, apierr
	}
	if !allowed {
		return nil, apierror.QuotaExceededError
	}

	status := entity.StatusScheduled
	if req.Status != "" {
		status = entity.AppointmentStatus(req.Status)
	}

	appointment := &entity.Appointment{
		ID:              uuid.NewString(),
		UserID:          subId,
		AssigneeID:      req.AssigneeID,
		Title:           req.Title,
		Description:     req.Description,
		Location:        req.Location,
		StartTime:       begin,
		EndTime:         end,
		IsAllDay:        req.IsAllDay,
		Status:          string(status),
		AppointmentType: req.AppointmentType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	invitations := make([]*entity.AppointmentInvitation, len(invitees))
	for i, invitee := range invitees {
		invitations[i] = &entity.AppointmentInvitation{
			ID:            uuid.NewString(),
			AppointmentID: appointment.ID,
			InvitedUserID: invitee,
			InvitedBy:     subId,
			Status:        entity.InvitationPending,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
	}

	if recurring != nil {
		recurring.ID = uuid.NewString()
		recurring.EntityID = appointment.ID
		recurring.EntityType = entity.RecurringAppointment
		recurring.CreatedBy = subId
		recurring.CreatedAt = now
		recurring.UpdatedAt = now
	}

	_, apierr = strictWrite("create appointment", func() (struct{}, error) {
		return struct{}{}, a.AppointmentRepo.Create(ctx, appointment, invitations, recurring)
	})
	if apierr != nil {
		return nil, apierr
	}

	resp := &CreateAppointmentResponse{Appointment: toAppointmentResponse(appointment)}
	if recurring != nil {
		anchor := time.UnixMilli(begin).UTC()
		resp.Recurrence = toPreview(recurrence.GenerateDates(anchor, recurrence.FromEntity(recurring, time.UTC), recurrence.DefaultMaxCount))
	}

	log.Infof("user %s created appointment %s (%d invitations, recurring=%t)", subId, appointment.ID, len(invitations), recurring != nil)
	return resp, nil
}

// RespondToInvitation records the caller's answer to an invitation. It
// reports false, never an error, when the answer could not be stored.
func (a *DefaultAppointmentService) RespondToInvitation(ctx context.Context, subId, appointmentID, response string) bool {
	status := entity.InvitationStatus(response)
	if status != entity.InvitationAccepted && status != entity.InvitationDeclined {
		log.Warnf("rejected invitation response %q from user %s", response, subId)
		return false
	}
	if subId == "" || appointmentID == "" {
		return false
	}

	updated, err := a.InvitationRepo.Respond(ctx, appointmentID, subId, status, a.Now())
	if err != nil {
		log.Errorf("failed to respond to invitation for appointment %s by user %s: %v", appointmentID, subId, err)
		return false
	}
	if !updated {
		log.Warnf("no invitation for appointment %s addressed to user %s", appointmentID, subId)
	}
	return updated
}

func (a *DefaultAppointmentService) DeleteAppointment(ctx context.Context, id, subId string) apierror.ErrorResponse {
	if subId == "" {
		return apierror.SessionRequiredError
	}

	appt, err := a.AppointmentRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch appointment by id %s: %v", id, err)
		return apierror.InternalServerError
	}
	// Someone else's appointment looks the same as a missing one.
	if appt == nil || appt.UserID != subId {
		return apierror.NotFoundError
	}

	_, apierr := strictWrite("delete appointment "+id, func() (struct{}, error) {
		return struct{}{}, a.AppointmentRepo.Delete(ctx, appt)
	})
	return apierr
}

// PreviewRecurrence expands a rule without storing anything.
func (a *DefaultAppointmentService) PreviewRecurrence(req *PreviewRequest) (*RecurrencePreview, apierror.ErrorResponse) {
	utils.Sanitize(req)
	utils.Sanitize(&req.Recurring)
	if valerr := a.Validate.Struct(req); valerr != nil {
		return nil, apierror.FromValidationError(valerr)
	}

	anchor, err := time.Parse(time.RFC3339, req.Anchor)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}
	settings, err := toRecurringSettings(&req.Recurring)
	if err != nil {
		return nil, apierror.MalformedBodyError
	}

	rule := recurrence.FromEntity(settings, anchor.Location())
	return toPreview(recurrence.GenerateDates(anchor, rule, req.Count)), nil
}

// ExportCalendar renders the caller's visible appointments, optionally
// restricted to [rangeStart, rangeEnd), as an iCalendar feed. Like the
// listings it fails open and yields an empty calendar on store errors.
func (a *DefaultAppointmentService) ExportCalendar(ctx context.Context, subId string, rangeStart, rangeEnd *int64) string {
	now := time.UnixMilli(a.Now()).UTC()
	if subId == "" {
		return calendar.Render(nil, now)
	}

	tier, ok := a.callerTier(ctx, subId)
	if !ok {
		return calendar.Render(nil, now)
	}

	appts := resilientRead("export calendar", func() ([]*entity.Appointment, error) {
		return a.AppointmentRepo.Find(ctx, repository.AppointmentQuery{
			VisibleTo:  subId,
			RangeStart: rangeStart,
			RangeEnd:   rangeEnd,
			Limit:      a.Policies.For(tier).DefaultLimit,
		})
	})

	ids := make([]string, len(appts))
	for i, appt := range appts {
		ids[i] = appt.ID
	}
	rules, err := a.RecurringRepo.FindByEntities(ctx, entity.RecurringAppointment, ids)
	if err != nil {
		log.Errorf("failed to load recurring settings for calendar export: %v", err)
		rules = nil
	}

	events := make([]calendar.Event, len(appts))
	for i, appt := range appts {
		events[i] = toCalendarEvent(appt, rules[appt.ID])
	}
	return calendar.Render(events, now)
}

func (a *DefaultAppointmentService) list(ctx context.Context, op string, q repository.AppointmentQuery) []*AppointmentResponse {
	appts := resilientRead(op, func() ([]*entity.Appointment, error) {
		return a.AppointmentRepo.Find(ctx, q)
	})
	return toAppointmentResponses(appts)
}

// callerTier looks up the caller's plan. A caller without a user record yet
// is treated as free; ok is false only when the lookup itself failed.
func (a *DefaultAppointmentService) callerTier(ctx context.Context, subId string) (entity.Tier, bool) {
	caller, err := a.UserRepo.FindByID(ctx, subId)
	if err != nil {
		log.Errorf("failed to resolve tier of user %s: %v", subId, err)
		return "", false
	}
	if caller == nil {
		return entity.TierFree, true
	}
	return caller.Tier, true
}

func inviteesOf(ids []string, owner string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || id == owner || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toRecurringSettings(req *RecurringRequest) (*entity.RecurringSettings, error) {
	settings := &entity.RecurringSettings{
		Frequency:      entity.Frequency(req.Frequency),
		Interval:       1,
		DaysOfWeek:     req.DaysOfWeek,
		DayOfMonth:     req.DayOfMonth,
		MaxOccurrences: req.MaxOccurrences,
	}
	if req.Interval != nil {
		settings.Interval = *req.Interval
	}
	if req.EndDate != "" {
		end, err := utils.FromEpoch(req.EndDate)
		if err != nil {
			return nil, err
		}
		settings.EndDate = &end
	}
	return settings, nil
}

func toPreview(dates []time.Time) *RecurrencePreview {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(time.RFC3339)
	}
	return &RecurrencePreview{Count: len(dates), Dates: out}
}

func toCalendarEvent(appt *entity.Appointment, rule *entity.RecurringSettings) calendar.Event {
	start := time.UnixMilli(appt.StartTime).UTC()
	ev := calendar.Event{
		UID:         appt.ID,
		Summary:     appt.Title,
		Description: appt.Description,
		Location:    appt.Location,
		Start:       start,
		End:         time.UnixMilli(appt.EndTime).UTC(),
		AllDay:      appt.IsAllDay,
		Status:      ValidateStatus(appt.Status),
		Created:     time.UnixMilli(appt.CreatedAt).UTC(),
		Modified:    time.UnixMilli(appt.UpdatedAt).UTC(),
	}
	if rule != nil {
		r := recurrence.NewRule(start, recurrence.FromEntity(rule, time.UTC))
		ev.RRule = r.RRuleString()
		ev.RDates = r.RDates
		ev.ExDates = r.ExDates
	}
	return ev
}

func toAppointmentResponses(appts []*entity.Appointment) []*AppointmentResponse {
	out := make([]*AppointmentResponse, len(appts))
	for i, appt := range appts {
		out[i] = toAppointmentResponse(appt)
	}
	return out
}

func toAppointmentResponse(appt *entity.Appointment) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                  appt.ID,
		UserID:              appt.UserID,
		AssigneeID:          appt.AssigneeID,
		Title:               appt.Title,
		Description:         appt.Description,
		Location:            appt.Location,
		StartTime:           utils.FormatEpoch(appt.StartTime),
		EndTime:             utils.FormatEpoch(appt.EndTime),
		IsAllDay:            appt.IsAllDay,
		Status:              ValidateStatus(appt.Status),
		AppointmentType:     appt.AppointmentType,
		IsRecurringInstance: appt.IsRecurringInstance,
		ParentRecurringID:   appt.ParentRecurringID,
		CreatedAt:           utils.FormatEpoch(appt.CreatedAt),
		UpdatedAt:           utils.FormatEpoch(appt.UpdatedAt),
		Owner:               MapProfile(appt.Owner),
		Assignee:            MapProfile(appt.Assignee),
	}
}
