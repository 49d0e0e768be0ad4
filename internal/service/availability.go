package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roomly/internal/errors"
	"roomly/internal/model"
	"roomly/internal/repository"
)

const (
	// slotMinutes is the booking grid: reservation boundaries snap to
	// quarter-hour marks.
	slotMinutes = 15
	// roundUpThreshold splits a slot for rounding: a remainder below 8
	// minutes rounds down, 8 or more rounds up to the next quarter.
	roundUpThreshold = 8
)

// QuantizeTime snaps t to the nearest quarter-hour mark, dropping seconds
// and sub-second precision. Quantizing an already-quantized time returns
// it unchanged.
func QuantizeTime(t time.Time) time.Time {
	t = t.Truncate(time.Minute)
	rem := t.Minute() % slotMinutes
	if rem == 0 {
		return t
	}
	if rem < roundUpThreshold {
		return t.Add(-time.Duration(rem) * time.Minute)
	}
	return t.Add(time.Duration(slotMinutes-rem) * time.Minute)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Full containment counts as overlap; sharing a
// single boundary does not, so back-to-back bookings are allowed.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// AvailabilityChecker answers whether a proposed window is free. It is a
// fast pre-check over the current snapshot of reservations; the database
// exclusion constraint remains the authoritative guard against races.
type AvailabilityChecker struct {
	reservations repository.ReservationRepository
}

// NewAvailabilityChecker creates a new availability checker.
func NewAvailabilityChecker(reservations repository.ReservationRepository) *AvailabilityChecker {
	return &AvailabilityChecker{reservations: reservations}
}

// IsAvailable returns true iff no non-cancelled reservation at the location
// overlaps [start, end). excludeID skips one reservation, so an edit never
// conflicts with itself; pass uuid.Nil to exclude nothing.
func (c *AvailabilityChecker) IsAvailable(ctx context.Context, location model.Location, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	if !location.Valid() {
		return false, errors.ErrInvalidLocation
	}
	if !start.Before(end) {
		return false, errors.ErrInvalidTimeRange
	}

	count, err := c.reservations.CountOverlapping(ctx, location, start, end, excludeID)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
