package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a reply to a post. ParentID is nil for top-level comments and
// otherwise references another comment of the same post.
type Comment struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostID    string    `gorm:"type:char(36);index;not null" json:"post_id"`
	AuthorID  string    `gorm:"type:char(36);index;not null" json:"author_id"`
	ParentID  *string   `gorm:"type:char(36);index" json:"parent_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// CommentNode is a comment with its replies nested underneath. It is a read
// model rebuilt from the flat comment set on every fetch and is never
// persisted.
type CommentNode struct {
	Comment
	ChildComments []*CommentNode `json:"child_comments"`
}
