package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationKind identifies which lifecycle event a notification is for.
type NotificationKind string

const (
	NotificationConfirmation NotificationKind = "confirmation"
	NotificationChange       NotificationKind = "change"
	NotificationCancellation NotificationKind = "cancellation"
)

// Notification represents a queued user-facing message for a reservation
// lifecycle event. Delivery is best-effort: rows are written by a
// background worker and a failed write never affects the reservation
// operation that produced it.
type Notification struct {
	ID            uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey"`
	ReservationID uuid.UUID        `json:"reservation_id" gorm:"type:uuid;not null;index"`
	UserID        uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;index"`
	Kind          NotificationKind `json:"kind" gorm:"type:varchar(20);not null;index"`
	Message       string           `json:"message" gorm:"type:text"`
	CreatedAt     time.Time        `json:"created_at"`
}

// BeforeCreate sets UUID before creating the record.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
