package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	"google.golang.org/api/calendar/v3"

	"roomly/internal/errors"
	"roomly/internal/google"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// SyncStatus classifies the outcome of a best-effort sync attempt.
type SyncStatus string

const (
	// SyncOK means the remote calendar mirrors the local reservation.
	SyncOK SyncStatus = "ok"
	// SyncSkipped means sync was not attempted, typically because the user
	// holds no usable credentials.
	SyncSkipped SyncStatus = "skipped"
	// SyncFailed means the attempt failed; the local reservation stands and
	// the mirror may lag.
	SyncFailed SyncStatus = "failed"
)

// SyncResult reports what happened to the remote mirror. Callers surface
// it alongside a successful local operation instead of treating sync
// problems as failures.
type SyncResult struct {
	Status SyncStatus `json:"status"`
	Detail string     `json:"detail,omitempty"`
}

func syncOK() SyncResult {
	return SyncResult{Status: SyncOK}
}

func syncSkipped(detail string) SyncResult {
	return SyncResult{Status: SyncSkipped, Detail: detail}
}

func syncFailed(detail string) SyncResult {
	return SyncResult{Status: SyncFailed, Detail: detail}
}

// GoogleEventView is the UI projection of an event pulled from the user's
// Google calendar.
type GoogleEventView struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Location string `json:"location,omitempty"`
	HTMLLink string `json:"html_link,omitempty"`
}

// CalendarSync mirrors reservations into the owner's Google calendar and
// pulls Google events back for display. All mutation methods are
// best-effort: they log and report, never error out.
type CalendarSync interface {
	CreateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult
	UpdateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult
	DeleteRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult
	ListRemoteEvents(ctx context.Context, owner *model.User, from, to time.Time) ([]GoogleEventView, SyncResult)
}

type calendarSync struct {
	tokens       TokenService
	api          google.EventAPI
	reservations repository.ReservationRepository
	calendarID   string
	timezone     *time.Location
}

// NewCalendarSync creates a new calendar sync adapter.
func NewCalendarSync(
	tokens TokenService,
	api google.EventAPI,
	reservations repository.ReservationRepository,
	calendarID string,
	timezone *time.Location,
) CalendarSync {
	if timezone == nil {
		timezone = time.UTC
	}
	return &calendarSync{
		tokens:       tokens,
		api:          api,
		reservations: reservations,
		calendarID:   calendarID,
		timezone:     timezone,
	}
}

// CreateRemoteEvent mirrors a reservation as a new remote event and
// persists the provider-assigned ID. If the reservation already carries a
// remote ID the call degrades to an update, so create happens at most once
// per reservation no matter how often sync runs.
func (s *calendarSync) CreateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	if reservation.HasRemoteEvent() {
		return s.UpdateRemoteEvent(ctx, reservation, owner)
	}

	token, err := s.tokens.ValidAccessToken(ctx, owner)
	if err != nil {
		return s.credentialOutcome("create", reservation, err)
	}

	created, err := s.api.Insert(ctx, token, s.calendarID, s.buildEvent(reservation, owner))
	if err != nil {
		log.Errorf("sync: create remote event for reservation %s: %v", reservation.ID, err)
		return syncFailed("could not create calendar event")
	}

	if err := s.reservations.UpdateRemoteEventID(ctx, reservation.ID, created.Id); err != nil {
		// The remote event exists but the mapping write failed; the next
		// sync would create a duplicate, so report failure loudly.
		log.Errorf("sync: persist remote event id %s for reservation %s: %v", created.Id, reservation.ID, err)
		return syncFailed("could not record calendar event id")
	}
	reservation.RemoteEventID = created.Id
	return syncOK()
}

// UpdateRemoteEvent rewrites the mirrored event from current reservation
// state. Without a remote ID it falls back to create.
func (s *calendarSync) UpdateRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	if !reservation.HasRemoteEvent() {
		return s.CreateRemoteEvent(ctx, reservation, owner)
	}

	token, err := s.tokens.ValidAccessToken(ctx, owner)
	if err != nil {
		return s.credentialOutcome("update", reservation, err)
	}

	if _, err := s.api.Update(ctx, token, s.calendarID, reservation.RemoteEventID, s.buildEvent(reservation, owner)); err != nil {
		log.Errorf("sync: update remote event %s for reservation %s: %v", reservation.RemoteEventID, reservation.ID, err)
		return syncFailed("could not update calendar event")
	}
	return syncOK()
}

// DeleteRemoteEvent removes the mirrored event. A reservation without a
// remote ID is a no-op; an already-missing remote event counts as success.
func (s *calendarSync) DeleteRemoteEvent(ctx context.Context, reservation *model.Reservation, owner *model.User) SyncResult {
	if !reservation.HasRemoteEvent() {
		return syncSkipped("no remote event to delete")
	}

	token, err := s.tokens.ValidAccessToken(ctx, owner)
	if err != nil {
		return s.credentialOutcome("delete", reservation, err)
	}

	if err := s.api.Delete(ctx, token, s.calendarID, reservation.RemoteEventID); err != nil {
		if stderrors.Is(err, google.ErrEventNotFound) {
			return syncOK()
		}
		log.Errorf("sync: delete remote event %s for reservation %s: %v", reservation.RemoteEventID, reservation.ID, err)
		return syncFailed("could not delete calendar event")
	}
	return syncOK()
}

// ListRemoteEvents pulls the user's Google events in [from, to) for
// display. Missing credentials yield an empty list plus a skipped outcome
// rather than an error.
func (s *calendarSync) ListRemoteEvents(ctx context.Context, owner *model.User, from, to time.Time) ([]GoogleEventView, SyncResult) {
	token, err := s.tokens.ValidAccessToken(ctx, owner)
	if err != nil {
		if stderrors.Is(err, errors.ErrNoCredentials) || stderrors.Is(err, errors.ErrRefreshFailed) {
			return nil, syncSkipped("google account not connected")
		}
		log.Errorf("sync: obtain token for user %s: %v", owner.ID, err)
		return nil, syncFailed("could not obtain calendar access")
	}

	events, err := s.api.List(ctx, token, s.calendarID, from, to)
	if err != nil {
		log.Errorf("sync: list remote events for user %s: %v", owner.ID, err)
		return nil, syncFailed("could not list calendar events")
	}

	views := make([]GoogleEventView, 0, len(events))
	for _, ev := range events {
		views = append(views, GoogleEventView{
			ID:       ev.Id,
			Title:    ev.Summary,
			Start:    eventTime(ev.Start),
			End:      eventTime(ev.End),
			Location: ev.Location,
			HTMLLink: ev.HtmlLink,
		})
	}
	return views, syncOK()
}

// credentialOutcome turns token manager failures into sync outcomes:
// missing or unrefreshable credentials skip the attempt, anything else is
// a failure.
func (s *calendarSync) credentialOutcome(op string, reservation *model.Reservation, err error) SyncResult {
	if stderrors.Is(err, errors.ErrNoCredentials) {
		log.Infof("sync: %s skipped for reservation %s: owner has no credentials", op, reservation.ID)
		return syncSkipped("google account not connected")
	}
	if stderrors.Is(err, errors.ErrRefreshFailed) {
		log.Warnf("sync: %s skipped for reservation %s: token refresh failed", op, reservation.ID)
		return syncSkipped("google session expired, re-authentication required")
	}
	log.Errorf("sync: %s failed for reservation %s: %v", op, reservation.ID, err)
	return syncFailed("could not obtain calendar access")
}

// buildEvent translates a reservation into the provider event payload.
func (s *calendarSync) buildEvent(reservation *model.Reservation, owner *model.User) *calendar.Event {
	description := fmt.Sprintf(
		"Responsible: %s\nPeople: %d\nLocation: %s\nType: %s",
		owner.Name, reservation.PeopleCount, reservation.Location, reservation.Type,
	)
	if reservation.Description != "" {
		description += "\n\n" + reservation.Description
	}

	return &calendar.Event{
		Summary:     reservation.Title,
		Description: description,
		Location:    string(reservation.Location),
		Start: &calendar.EventDateTime{
			DateTime: reservation.StartAt.In(s.timezone).Format(time.RFC3339),
			TimeZone: s.timezone.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: reservation.EndAt.In(s.timezone).Format(time.RFC3339),
			TimeZone: s.timezone.String(),
		},
		Attendees: []*calendar.EventAttendee{
			{Email: owner.Email},
		},
	}
}

func eventTime(t *calendar.EventDateTime) string {
	if t == nil {
		return ""
	}
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}
