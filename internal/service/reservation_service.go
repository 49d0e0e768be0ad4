package service

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roomly/internal/cache"
	"roomly/internal/errors"
	"roomly/internal/model"
	"roomly/internal/repository"
)

// eventsCacheTTL bounds staleness of the cached calendar grid when the
// generation bump is lost (redis restart).
const eventsCacheTTL = 60 * time.Second

// CreateReservationInput carries the fields a caller may set when booking.
type CreateReservationInput struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Location    model.Location
	Type        model.ReservationType
	PeopleCount int
}

// UpdateReservationInput names every mutable field explicitly; nil means
// "leave unchanged". Nothing outside this struct can be written through an
// update.
type UpdateReservationInput struct {
	Title       *string
	Description *string
	Start       *time.Time
	End         *time.Time
	Location    *model.Location
	Type        *model.ReservationType
	PeopleCount *int
}

// ExtendedProps is the extra payload attached to a calendar event view.
type ExtendedProps struct {
	Description string    `json:"description,omitempty"`
	PeopleCount int       `json:"people_count"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Editable    bool      `json:"editable"`
	Synced      bool      `json:"synced"`
}

// CalendarEventView is the JSON shape the calendar grid renders.
type CalendarEventView struct {
	ID            uuid.UUID               `json:"id"`
	Title         string                  `json:"title"`
	Start         string                  `json:"start"`
	End           string                  `json:"end"`
	Location      model.Location          `json:"location"`
	Status        model.ReservationStatus `json:"status"`
	Type          model.ReservationType   `json:"type"`
	ExtendedProps ExtendedProps           `json:"extendedProps"`
}

// ReservationService orchestrates the reservation lifecycle: validation
// and conflict detection block an operation; calendar sync and
// notifications are best-effort and never roll back a committed local
// mutation.
type ReservationService interface {
	Create(ctx context.Context, owner *model.User, in CreateReservationInput) (*model.Reservation, SyncResult, error)
	Update(ctx context.Context, caller *model.User, id uuid.UUID, in UpdateReservationInput) (*model.Reservation, SyncResult, error)
	Delete(ctx context.Context, caller *model.User, id uuid.UUID) error
	UpdateStatus(ctx context.Context, caller *model.User, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error)
	Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context, caller *model.User) ([]model.Reservation, error)
	CheckAvailability(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (bool, error)
	ListEvents(ctx context.Context, caller *model.User, from, to time.Time, location model.Location) ([]CalendarEventView, error)
}

type reservationService struct {
	reservations repository.ReservationRepository
	locations    repository.LocationRepository
	availability *AvailabilityChecker
	sync         CalendarSync
	notifier     Notifier
	cache        *cache.Client
}

// NewReservationService creates a new reservation service.
func NewReservationService(
	reservations repository.ReservationRepository,
	locations repository.LocationRepository,
	availability *AvailabilityChecker,
	sync CalendarSync,
	notifier Notifier,
	cacheClient *cache.Client,
) ReservationService {
	return &reservationService{
		reservations: reservations,
		locations:    locations,
		availability: availability,
		sync:         sync,
		notifier:     notifier,
		cache:        cacheClient,
	}
}

// Create books a new reservation. The availability pre-check gives racing
// requests a friendly conflict error; the exclusion constraint behind
// repository.Create guarantees at most one winner regardless.
func (s *reservationService) Create(ctx context.Context, owner *model.User, in CreateReservationInput) (*model.Reservation, SyncResult, error) {
	start := QuantizeTime(in.Start)
	end := QuantizeTime(in.End)

	if err := s.validateWindow(ctx, in.Location, start, end, in.PeopleCount); err != nil {
		return nil, SyncResult{}, err
	}

	available, err := s.availability.IsAvailable(ctx, in.Location, start, end, uuid.Nil)
	if err != nil {
		return nil, SyncResult{}, err
	}
	if !available {
		return nil, SyncResult{}, errors.ErrReservationConflict
	}

	reservation := &model.Reservation{
		Title:       in.Title,
		Description: in.Description,
		StartAt:     start,
		EndAt:       end,
		Location:    in.Location,
		OwnerID:     owner.ID,
		Status:      model.ReservationStatusPending,
		Type:        normalizeType(in.Type),
		PeopleCount: in.PeopleCount,
	}

	if err := s.reservations.Create(ctx, reservation); err != nil {
		return nil, SyncResult{}, err
	}
	s.invalidateEvents(ctx)

	// Local state is committed; everything below is best-effort.
	result := s.sync.CreateRemoteEvent(ctx, reservation, owner)
	s.notifier.Notify(ctx, model.NotificationConfirmation, reservation, owner)

	return reservation, result, nil
}

// Update edits a reservation. Time or location changes are re-validated
// against availability excluding the reservation itself, so keeping the
// same window never conflicts.
func (s *reservationService) Update(ctx context.Context, caller *model.User, id uuid.UUID, in UpdateReservationInput) (*model.Reservation, SyncResult, error) {
	reservation, err := s.fetchForCaller(ctx, caller, id)
	if err != nil {
		return nil, SyncResult{}, err
	}

	changed, windowChanged := applyUpdate(reservation, in)
	if !changed {
		return reservation, syncSkipped("nothing changed"), nil
	}

	if windowChanged {
		reservation.StartAt = QuantizeTime(reservation.StartAt)
		reservation.EndAt = QuantizeTime(reservation.EndAt)

		if err := s.validateWindow(ctx, reservation.Location, reservation.StartAt, reservation.EndAt, reservation.PeopleCount); err != nil {
			return nil, SyncResult{}, err
		}

		available, err := s.availability.IsAvailable(ctx, reservation.Location, reservation.StartAt, reservation.EndAt, reservation.ID)
		if err != nil {
			return nil, SyncResult{}, err
		}
		if !available {
			return nil, SyncResult{}, errors.ErrReservationConflict
		}
	} else if in.PeopleCount != nil {
		if err := s.validatePeopleCount(ctx, reservation.Location, reservation.PeopleCount); err != nil {
			return nil, SyncResult{}, err
		}
	}

	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, SyncResult{}, err
	}
	s.invalidateEvents(ctx)

	var result SyncResult
	if reservation.HasRemoteEvent() {
		result = s.sync.UpdateRemoteEvent(ctx, reservation, caller)
	} else {
		result = s.sync.CreateRemoteEvent(ctx, reservation, caller)
	}
	s.notifier.Notify(ctx, model.NotificationChange, reservation, caller)

	return reservation, result, nil
}

// Delete removes a reservation permanently. The remote mirror is removed
// first, best-effort: a failed remote delete never blocks the local one.
func (s *reservationService) Delete(ctx context.Context, caller *model.User, id uuid.UUID) error {
	reservation, err := s.fetchForCaller(ctx, caller, id)
	if err != nil {
		return err
	}

	s.sync.DeleteRemoteEvent(ctx, reservation, caller)

	if err := s.reservations.Delete(ctx, reservation); err != nil {
		return err
	}
	s.invalidateEvents(ctx)

	s.notifier.Notify(ctx, model.NotificationCancellation, reservation, caller)
	return nil
}

// UpdateStatus moves a reservation through its state machine. Cancelling
// frees the slot (the exclusion constraint ignores cancelled rows) and
// removes the remote mirror best-effort.
func (s *reservationService) UpdateStatus(ctx context.Context, caller *model.User, id uuid.UUID, status model.ReservationStatus) (*model.Reservation, error) {
	reservation, err := s.fetchForCaller(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if !reservation.Status.CanTransitionTo(status) {
		return nil, errors.ErrInvalidStatusTransition
	}

	reservation.Status = status
	if err := s.reservations.Update(ctx, reservation); err != nil {
		return nil, err
	}
	s.invalidateEvents(ctx)

	if status == model.ReservationStatusCancelled {
		result := s.sync.DeleteRemoteEvent(ctx, reservation, caller)
		if result.Status == SyncOK && reservation.HasRemoteEvent() {
			if err := s.reservations.UpdateRemoteEventID(ctx, reservation.ID, ""); err == nil {
				reservation.RemoteEventID = ""
			}
		}
		s.notifier.Notify(ctx, model.NotificationCancellation, reservation, caller)
	} else {
		s.notifier.Notify(ctx, model.NotificationChange, reservation, caller)
	}

	return reservation, nil
}

// Get returns a reservation the caller is allowed to see.
func (s *reservationService) Get(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Reservation, error) {
	return s.fetchForCaller(ctx, caller, id)
}

// List returns the caller's reservations, or all of them for admins.
func (s *reservationService) List(ctx context.Context, caller *model.User) ([]model.Reservation, error) {
	if caller.IsAdmin() {
		return s.reservations.List(ctx)
	}
	return s.reservations.ListByOwner(ctx, caller.ID)
}

// CheckAvailability exposes the availability pre-check. Times are
// quantized the same way create/update quantize them, so the answer
// matches what a subsequent booking would see.
func (s *reservationService) CheckAvailability(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	return s.availability.IsAvailable(ctx, location, QuantizeTime(start), QuantizeTime(end), excludeID)
}

// ListEvents projects reservations in a window into the calendar grid
// shape, computing the editable flag from the caller's identity.
func (s *reservationService) ListEvents(ctx context.Context, caller *model.User, from, to time.Time, location model.Location) ([]CalendarEventView, error) {
	if location != "" && !location.Valid() {
		return nil, errors.ErrInvalidLocation
	}
	if !from.Before(to) {
		return nil, errors.ErrInvalidTimeRange
	}

	reservations, err := s.listRangeCached(ctx, from, to, location)
	if err != nil {
		return nil, err
	}

	views := make([]CalendarEventView, 0, len(reservations))
	for _, r := range reservations {
		views = append(views, CalendarEventView{
			ID:       r.ID,
			Title:    r.Title,
			Start:    r.StartAt.Format(time.RFC3339),
			End:      r.EndAt.Format(time.RFC3339),
			Location: r.Location,
			Status:   r.Status,
			Type:     r.Type,
			ExtendedProps: ExtendedProps{
				Description: r.Description,
				PeopleCount: r.PeopleCount,
				OwnerID:     r.OwnerID,
				Editable:    caller.IsAdmin() || caller.ID == r.OwnerID,
				Synced:      r.HasRemoteEvent(),
			},
		})
	}
	return views, nil
}

// listRangeCached is a read-through cache over ListRange. Raw rows are
// cached, not caller-shaped views, so the editable flag stays per-caller.
// Keys embed a generation counter bumped on every mutation; a short TTL
// bounds staleness if the bump is lost.
func (s *reservationService) listRangeCached(ctx context.Context, from, to time.Time, location model.Location) ([]model.Reservation, error) {
	key := s.eventsCacheKey(ctx, from, to, location)

	if data, _ := s.cache.Get(ctx, key); data != nil {
		var cached []model.Reservation
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	reservations, err := s.reservations.ListRange(ctx, from, to, location)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(reservations); err == nil {
		_ = s.cache.Set(ctx, key, payload, eventsCacheTTL)
	}
	return reservations, nil
}

func (s *reservationService) eventsCacheKey(ctx context.Context, from, to time.Time, location model.Location) string {
	gen, _ := s.cache.Get(ctx, "reservations:gen")
	return fmt.Sprintf("events:%s:%d:%d:%s", gen, from.Unix(), to.Unix(), location)
}

// invalidateEvents bumps the generation counter so every cached events
// window is abandoned after a mutation.
func (s *reservationService) invalidateEvents(ctx context.Context) {
	_, _ = s.cache.Incr(ctx, "reservations:gen")
}

// fetchForCaller loads a reservation and checks that the caller owns it or
// is an admin.
func (s *reservationService) fetchForCaller(ctx context.Context, caller *model.User, id uuid.UUID) (*model.Reservation, error) {
	reservation, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrReservationNotFound
		}
		return nil, err
	}
	if !caller.IsAdmin() && reservation.OwnerID != caller.ID {
		return nil, errors.ErrForbidden
	}
	return reservation, nil
}

// validateWindow checks location, ordering, and capacity after quantization.
func (s *reservationService) validateWindow(ctx context.Context, location model.Location, start, end time.Time, peopleCount int) error {
	if !location.Valid() {
		return errors.ErrInvalidLocation
	}
	if !start.Before(end) {
		return errors.ErrInvalidTimeRange
	}
	return s.validatePeopleCount(ctx, location, peopleCount)
}

// validatePeopleCount checks the count against the location's capacity.
// Updates call it directly when only the head count changed, so an edit
// can never push a reservation above what a create would accept.
func (s *reservationService) validatePeopleCount(ctx context.Context, location model.Location, peopleCount int) error {
	if peopleCount < 1 {
		return errors.ErrInvalidPeopleCount
	}
	if info, err := s.locations.FindByName(ctx, location); err == nil && info.Capacity > 0 && peopleCount > info.Capacity {
		return errors.ErrInvalidPeopleCount
	}
	return nil
}

// applyUpdate copies set fields onto the reservation and reports whether
// anything changed and whether the booked window (time or location) did.
func applyUpdate(reservation *model.Reservation, in UpdateReservationInput) (changed, windowChanged bool) {
	if in.Title != nil && *in.Title != reservation.Title {
		reservation.Title = *in.Title
		changed = true
	}
	if in.Description != nil && *in.Description != reservation.Description {
		reservation.Description = *in.Description
		changed = true
	}
	if in.Type != nil && normalizeType(*in.Type) != reservation.Type {
		reservation.Type = normalizeType(*in.Type)
		changed = true
	}
	if in.PeopleCount != nil && *in.PeopleCount != reservation.PeopleCount {
		reservation.PeopleCount = *in.PeopleCount
		changed = true
	}
	if in.Start != nil && !in.Start.Equal(reservation.StartAt) {
		reservation.StartAt = *in.Start
		changed = true
		windowChanged = true
	}
	if in.End != nil && !in.End.Equal(reservation.EndAt) {
		reservation.EndAt = *in.End
		changed = true
		windowChanged = true
	}
	if in.Location != nil && *in.Location != reservation.Location {
		reservation.Location = *in.Location
		changed = true
		windowChanged = true
	}
	return changed, windowChanged
}

func normalizeType(t model.ReservationType) model.ReservationType {
	switch t {
	case model.ReservationTypeMeeting, model.ReservationTypeEvent,
		model.ReservationTypeAppointment, model.ReservationTypeOther:
		return t
	default:
		return model.ReservationTypeMeeting
	}
}
