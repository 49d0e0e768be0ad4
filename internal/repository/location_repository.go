package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"roomly/internal/model"
)

// LocationRepository defines location persistence operations.
type LocationRepository interface {
	List(ctx context.Context) ([]model.LocationInfo, error)
	FindByName(ctx context.Context, name model.Location) (*model.LocationInfo, error)
	Upsert(ctx context.Context, location *model.LocationInfo) error
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository creates a new location repository.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) List(ctx context.Context) ([]model.LocationInfo, error) {
	var locations []model.LocationInfo
	if err := r.db.WithContext(ctx).Order("name asc").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) FindByName(ctx context.Context, name model.Location) (*model.LocationInfo, error) {
	var location model.LocationInfo
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&location).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

// Upsert inserts the location or updates its label and capacity if it
// already exists. Used by the seed command.
func (r *locationRepository) Upsert(ctx context.Context, location *model.LocationInfo) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"label", "capacity", "updated_at"}),
	}).Create(location).Error
}
