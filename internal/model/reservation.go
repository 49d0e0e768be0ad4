package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReservationStatus represents the lifecycle status of a reservation.
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusCompleted ReservationStatus = "completed"
)

// ReservationType classifies what the space is booked for.
type ReservationType string

const (
	ReservationTypeMeeting     ReservationType = "meeting"
	ReservationTypeEvent       ReservationType = "event"
	ReservationTypeAppointment ReservationType = "appointment"
	ReservationTypeOther       ReservationType = "other"
)

// ValidStatusTransitions describes the allowed status state machine:
// pending -> confirmed -> completed, with cancelled reachable from
// pending or confirmed.
var ValidStatusTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusCancelled: {},
	ReservationStatusCompleted: {},
}

// CanTransitionTo reports whether the status machine allows moving to next.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range ValidStatusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Reservation represents a booking of a location for a time window.
// Intervals are half-open [StartAt, EndAt): two reservations at the same
// location conflict iff their intervals overlap and neither is cancelled.
// Reservations are hard-deleted, so there is no soft-delete column.
type Reservation struct {
	ID            uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	Title         string            `json:"title" gorm:"size:255;not null"`
	Description   string            `json:"description" gorm:"type:text"`
	StartAt       time.Time         `json:"start" gorm:"not null;index"`
	EndAt         time.Time         `json:"end" gorm:"not null"`
	Location      Location          `json:"location" gorm:"type:varchar(32);not null;index"`
	OwnerID       uuid.UUID         `json:"owner_id" gorm:"type:uuid;not null;index"`
	Status        ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	Type          ReservationType   `json:"type" gorm:"type:varchar(20);not null;default:'meeting'"`
	PeopleCount   int               `json:"people_count" gorm:"not null;default:1"`
	RemoteEventID string            `json:"remote_event_id,omitempty" gorm:"size:255"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relations
	Owner User `json:"-" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// HasRemoteEvent reports whether this reservation is mirrored in the
// external calendar.
func (r *Reservation) HasRemoteEvent() bool {
	return r.RemoteEventID != ""
}
