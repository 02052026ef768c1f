package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostVisibility controls who can see a post.
type PostVisibility string

const (
	VisibilityPublic  PostVisibility = "public"
	VisibilityPrivate PostVisibility = "private"
	VisibilityFriends PostVisibility = "friends"
)

// Valid reports whether v is one of the known visibility values.
func (v PostVisibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityFriends:
		return true
	}
	return false
}

// Post is a user-authored entry attached to a geographic position. Media rows
// are attached asynchronously after the post itself is committed, so a freshly
// created post may be observed with an empty Medias slice.
type Post struct {
	ID         string         `gorm:"type:char(36);primaryKey" json:"id"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	AuthorID   string         `gorm:"type:char(36);index;not null" json:"author_id"`
	Visibility PostVisibility `gorm:"size:16;not null" json:"visibility"`
	LocationID string         `gorm:"type:char(36);index;not null" json:"location_id"`
	Rating     *float64       `json:"rating"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Author   *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Location *Position `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Medias   []Media   `gorm:"foreignKey:PostID" json:"medias"`
	Comments []Comment `gorm:"foreignKey:PostID" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
