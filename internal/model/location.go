package model

import "time"

// Location identifies one of the fixed set of bookable physical spaces.
type Location string

const (
	LocationGarden  Location = "garden"
	LocationCasino  Location = "casino"
	LocationLounge  Location = "lounge"
	LocationRooftop Location = "rooftop"
)

// AllLocations lists every bookable space, in display order.
var AllLocations = []Location{
	LocationGarden,
	LocationCasino,
	LocationLounge,
	LocationRooftop,
}

// Valid reports whether l is one of the known locations.
func (l Location) Valid() bool {
	for _, known := range AllLocations {
		if l == known {
			return true
		}
	}
	return false
}

// LocationInfo is the persisted record for a bookable space, seeded once
// at startup. Capacity bounds the people_count accepted for the space.
type LocationInfo struct {
	Name      Location  `json:"name" gorm:"type:varchar(32);primaryKey"`
	Label     string    `json:"label" gorm:"size:128;not null"`
	Capacity  int       `json:"capacity" gorm:"not null;default:10"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the table name aligned with the Location enum.
func (LocationInfo) TableName() string {
	return "locations"
}
