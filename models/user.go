package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account together with its public profile. Passwords are
// stored as bcrypt hashes only.
type User struct {
	ID            string     `gorm:"type:char(36);primaryKey" json:"id"`
	Email         string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PhoneNumber   *string    `gorm:"size:32" json:"phone_number,omitempty"`
	PasswordHash  string     `gorm:"size:255;not null" json:"-"`
	FirstName     string     `gorm:"size:128" json:"first_name,omitempty"`
	LastName      string     `gorm:"size:128" json:"last_name,omitempty"`
	DisplayName   string     `gorm:"size:128" json:"display_name"`
	Sex           string     `gorm:"size:16" json:"sex,omitempty"`
	Dob           *time.Time `json:"dob,omitempty"`
	Description   string     `gorm:"size:512" json:"description,omitempty"`
	AvatarURL     string     `gorm:"size:512" json:"avt_url,omitempty"`
	BackgroundURL string     `gorm:"size:512" json:"backgrd_url,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"-"`
	Comments []Comment `gorm:"foreignKey:AuthorID" json:"-"`
}

// BeforeCreate assigns a UUID primary key when none is provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
