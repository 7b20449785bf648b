package models

import (
	"time"

	"gorm.io/gorm"
)

// District is an administrative district members belong to
type District struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name string `gorm:"type:varchar(100)" json:"name"`

	// Relationships
	Tehsils []Tehsil `gorm:"foreignKey:DistrictID;constraint:OnDelete:CASCADE" json:"tehsils,omitempty"`
}

// Tehsil is a subdivision of a district
type Tehsil struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Name       string `gorm:"type:varchar(100)" json:"name"`
	DistrictID uint   `gorm:"index" json:"district_id"`

	Latitude  *float64 `gorm:"type:decimal(9,6)" json:"latitude"`
	Longitude *float64 `gorm:"type:decimal(9,6)" json:"longitude"`

	// Relationships
	District District `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
}
