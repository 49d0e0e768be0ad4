package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"roomly/internal/model"
)

// NewPostgres returns a connected GORM DB instance.
func NewPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

// Migrate runs schema migrations for all models and installs the exclusion
// constraint that is the authoritative guard against double-booking. The
// in-application availability check is only a fast pre-check; this
// constraint is what makes exactly one of two racing inserts win.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.LocationInfo{},
		&model.Reservation{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS btree_gist`).Error; err != nil {
		return fmt.Errorf("create btree_gist extension: %w", err)
	}

	// Non-cancelled reservations at the same location must not have
	// overlapping [start, end) ranges. tstzrange defaults to the
	// half-open '[)' bound form, so back-to-back bookings never collide.
	const constraint = `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap'
	) THEN
		ALTER TABLE reservations
			ADD CONSTRAINT reservations_no_overlap
			EXCLUDE USING gist (
				location WITH =,
				tstzrange(start_at, end_at) WITH &&
			)
			WHERE (status <> 'cancelled');
	END IF;
END
$$;`
	if err := db.Exec(constraint).Error; err != nil {
		return fmt.Errorf("install exclusion constraint: %w", err)
	}
	return nil
}
