package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaType distinguishes uploaded media kinds.
type MediaType string

const (
	MediaTypeImage MediaType = "image"
	MediaTypeVideo MediaType = "video"
)

// MediaOwnerType tells whether a media row belongs to a post or directly to a
// position.
type MediaOwnerType string

const (
	MediaOwnerPost     MediaOwnerType = "post"
	MediaOwnerLocation MediaOwnerType = "location"
)

// Media is an externally stored file attached to a post or a position. URL is
// the external storage reference; Order establishes display sequence among
// files uploaded in one batch.
type Media struct {
	ID           string         `gorm:"type:char(36);primaryKey" json:"id"`
	PostID       *string        `gorm:"type:char(36);index" json:"post_id,omitempty"`
	LocationID   string         `gorm:"type:char(36);index;not null" json:"location_id"`
	OwnerType    MediaOwnerType `gorm:"size:16;not null" json:"owner_type"`
	Type         MediaType      `gorm:"size:16;not null" json:"type"`
	URL          string         `gorm:"size:1024;not null" json:"url"`
	Order        int            `gorm:"column:display_order;not null;default:0" json:"order"`
	FolderPath   string         `gorm:"size:512" json:"folder_path,omitempty"`
	ThumbnailURL *string        `gorm:"size:1024" json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
