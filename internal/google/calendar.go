package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

var (
	// ErrPermissionDenied is returned when the stored credentials lack the
	// calendar scope or access was revoked.
	ErrPermissionDenied = errors.New("calendar access denied")
	// ErrEventNotFound is returned when the remote event no longer exists.
	ErrEventNotFound = errors.New("remote event not found")
	// ErrQuotaExceeded is returned when Google rejects the call for rate
	// or quota reasons.
	ErrQuotaExceeded = errors.New("calendar quota exceeded")
)

// EventAPI is the calendar surface the sync adapter depends on. Tokens are
// passed per call because each reservation owner syncs against their own
// credentials.
type EventAPI interface {
	Insert(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error)
	Update(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error)
	Delete(ctx context.Context, accessToken, calendarID, eventID string) error
	List(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]*calendar.Event, error)
}

// CalendarClient implements EventAPI against the Google Calendar API.
// Every call is bounded by the configured timeout. List retries once on a
// transient failure since it is idempotent; Insert never retries, so a
// timed-out create cannot produce a duplicate remote event.
type CalendarClient struct {
	timeout time.Duration
}

var _ EventAPI = (*CalendarClient)(nil)

// NewCalendarClient creates a calendar client with the given per-call timeout.
func NewCalendarClient(timeout time.Duration) *CalendarClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CalendarClient{timeout: timeout}
}

func (c *CalendarClient) service(ctx context.Context, accessToken string) (*calendar.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	svc, err := calendar.NewService(ctx, option.WithTokenSource(src))
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	return svc, nil
}

// Insert creates a remote event and returns it with the provider-assigned ID.
func (c *CalendarClient) Insert(ctx context.Context, accessToken, calendarID string, event *calendar.Event) (*calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	created, err := svc.Events.Insert(calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, translateAPIError("insert event", err)
	}
	return created, nil
}

// Update rewrites an existing remote event.
func (c *CalendarClient) Update(ctx context.Context, accessToken, calendarID, eventID string, event *calendar.Event) (*calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	updated, err := svc.Events.Update(calendarID, eventID, event).Context(ctx).Do()
	if err != nil {
		return nil, translateAPIError("update event", err)
	}
	return updated, nil
}

// Delete removes a remote event. A missing event is translated to
// ErrEventNotFound so callers can treat it as already deleted.
func (c *CalendarClient) Delete(ctx context.Context, accessToken, calendarID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return translateAPIError("delete event", err)
	}
	return nil
}

// List returns non-deleted events in [from, to), expanding recurring events
// into single instances. Retries once on a transient failure.
func (c *CalendarClient) List(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]*calendar.Event, error) {
	events, err := c.listOnce(ctx, accessToken, calendarID, from, to)
	if err != nil && isTransient(err) {
		events, err = c.listOnce(ctx, accessToken, calendarID, from, to)
	}
	return events, err
}

func (c *CalendarClient) listOnce(ctx context.Context, accessToken, calendarID string, from, to time.Time) ([]*calendar.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	call := svc.Events.List(calendarID).
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	var events []*calendar.Event
	if err := call.Pages(ctx, func(page *calendar.Events) error {
		events = append(events, page.Items...)
		return nil
	}); err != nil {
		return nil, translateAPIError("list events", err)
	}
	return events, nil
}

// translateAPIError maps known provider error codes to local error kinds at
// the client boundary. Downstream code matches with errors.Is instead of
// inspecting provider error text.
func translateAPIError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 401, 403:
			return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
		case 404, 410:
			return fmt.Errorf("%s: %w", op, ErrEventNotFound)
		case 429:
			return fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isTransient(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code >= 500
	}
	// Network-level failures have no API code; treat them as transient.
	return !errors.Is(err, ErrPermissionDenied) &&
		!errors.Is(err, ErrEventNotFound) &&
		!errors.Is(err, ErrQuotaExceeded)
}
