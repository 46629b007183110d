package models

import "time"

// Location is a place shown on the journey map
type Location struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	LocationName  string    `gorm:"size:200;not null;uniqueIndex:idx_location_name_city" json:"location_name"`
	City          string    `gorm:"size:100;not null;uniqueIndex:idx_location_name_city" json:"city"`
	StateCountry  string    `gorm:"size:100" json:"state_country"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Description   string    `gorm:"type:text" json:"description"`
	Significance  string    `gorm:"size:200" json:"significance"`
	DateVisited   string    `gorm:"size:100" json:"date_visited"`
	Order         int       `gorm:"column:display_order;not null" json:"order"`
	IsActive      bool      `gorm:"not null;index" json:"is_active"`
	PhotoBaseName string    `gorm:"size:100" json:"photo_base_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Location) TableName() string { return "locations" }
