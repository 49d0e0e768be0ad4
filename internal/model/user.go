package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role distinguishes regular users from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated user in the system. Users sign in via
// Google OAuth; GoogleID is the provider identity and the token columns
// hold the OAuth credential pair used for calendar sync. AccessToken and
// RefreshToken are either both present or both absent; TokenExpiry is only
// meaningful when AccessToken is set.
type User struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string         `json:"name" gorm:"size:255;not null"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	AvatarURL    string         `json:"avatar_url,omitempty" gorm:"size:512"`
	Role         Role           `json:"role" gorm:"type:varchar(20);not null;default:'user';index"`
	GoogleID     string         `json:"-" gorm:"uniqueIndex;size:255;not null"`
	AccessToken  string         `json:"-" gorm:"size:2048"` // Never expose in JSON
	RefreshToken string         `json:"-" gorm:"size:2048"` // Never expose in JSON
	TokenExpiry  time.Time      `json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Reservations []Reservation `json:"reservations,omitempty" gorm:"foreignKey:OwnerID"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasCredentials reports whether the user holds an OAuth credential pair.
func (u *User) HasCredentials() bool {
	return u.AccessToken != "" && u.RefreshToken != ""
}
