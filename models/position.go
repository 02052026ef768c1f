package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PositionType classifies a named geographic location.
type PositionType string

const (
	PositionTypeCity       PositionType = "city"
	PositionTypeLandmark   PositionType = "landmark"
	PositionTypeRestaurant PositionType = "restaurant"
	PositionTypeOther      PositionType = "other"
)

// Position is a named geographic location that posts and media attach to.
type Position struct {
	ID          string       `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string       `gorm:"size:255;not null" json:"name"`
	Address     string       `gorm:"size:512" json:"address,omitempty"`
	Description string       `gorm:"size:1024" json:"description,omitempty"`
	Latitude    float64      `gorm:"not null" json:"latitude"`
	Longitude   float64      `gorm:"not null" json:"longitude"`
	Type        PositionType `gorm:"size:32;not null" json:"type"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	Medias []Media `gorm:"foreignKey:LocationID" json:"medias,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (p *Position) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
