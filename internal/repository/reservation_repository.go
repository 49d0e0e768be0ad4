package repository

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"roomly/internal/errors"
	"roomly/internal/model"
)

// pgExclusionViolation is the SQLSTATE raised when an insert or update
// collides with the reservations_no_overlap exclusion constraint.
const pgExclusionViolation = "23P01"

// ReservationRepository defines reservation persistence operations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	Update(ctx context.Context, reservation *model.Reservation) error
	Delete(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error)
	List(ctx context.Context) ([]model.Reservation, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reservation, error)
	ListRange(ctx context.Context, from, to time.Time, location model.Location) ([]model.Reservation, error)
	CountOverlapping(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (int64, error)
	UpdateRemoteEventID(ctx context.Context, id uuid.UUID, remoteEventID string) error
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository creates a new reservation repository.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

// Create inserts a new reservation. The database exclusion constraint is
// the authoritative double-booking guard: if two racing requests pass the
// in-application availability pre-check, exactly one insert commits and
// the other surfaces ErrReservationConflict here.
func (r *reservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	if err := r.db.WithContext(ctx).Create(reservation).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// Update saves changes to an existing reservation, with the same conflict
// translation as Create for time or location changes.
func (r *reservationRepository) Update(ctx context.Context, reservation *model.Reservation) error {
	if err := r.db.WithContext(ctx).Save(reservation).Error; err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// Delete removes a reservation permanently.
func (r *reservationRepository) Delete(ctx context.Context, reservation *model.Reservation) error {
	return r.db.WithContext(ctx).Delete(reservation).Error
}

// FindByID finds a reservation by ID.
func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Reservation, error) {
	var reservation model.Reservation
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&reservation).Error; err != nil {
		return nil, err
	}
	return &reservation, nil
}

// List returns all reservations ordered by start time.
func (r *reservationRepository) List(ctx context.Context) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := r.db.WithContext(ctx).Order("start_at asc").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListByOwner returns all reservations owned by a user, ordered by start time.
func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Reservation, error) {
	var reservations []model.Reservation
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("start_at asc").
		Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// ListRange returns reservations overlapping the half-open window [from, to),
// optionally filtered by location.
func (r *reservationRepository) ListRange(ctx context.Context, from, to time.Time, location model.Location) ([]model.Reservation, error) {
	q := r.db.WithContext(ctx).
		Where("start_at < ?", to).
		Where("end_at > ?", from)
	if location != "" {
		q = q.Where("location = ?", location)
	}

	var reservations []model.Reservation
	if err := q.Order("start_at asc").Find(&reservations).Error; err != nil {
		return nil, err
	}
	return reservations, nil
}

// CountOverlapping counts non-cancelled reservations at the location whose
// half-open interval overlaps [start, end), excluding excludeID when set.
// Two intervals overlap iff a1 < b2 AND b1 < a2, so back-to-back bookings
// sharing a boundary never count.
func (r *reservationRepository) CountOverlapping(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("location = ?", location).
		Where("status <> ?", model.ReservationStatusCancelled).
		Where("start_at < ?", end).
		Where("end_at > ?", start)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateRemoteEventID persists the provider-assigned event ID onto the
// reservation after a successful sync.
func (r *reservationRepository) UpdateRemoteEventID(ctx context.Context, id uuid.UUID, remoteEventID string) error {
	return r.db.WithContext(ctx).Model(&model.Reservation{}).
		Where("id = ?", id).
		Update("remote_event_id", remoteEventID).Error
}

// translateConstraintError maps an exclusion constraint violation to the
// domain conflict error; everything else passes through unchanged.
func translateConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == pgExclusionViolation {
		return errors.ErrReservationConflict
	}
	return err
}
