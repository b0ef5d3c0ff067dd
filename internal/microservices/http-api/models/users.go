package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        string     `gorm:"primaryKey;type:uuid" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:150;not null" json:"username"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	FirstName string     `gorm:"size:150;not null" json:"first_name"`
	LastName  string     `gorm:"size:150;not null" json:"last_name"`
	Password  string     `gorm:"column:password_hash;not null" json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// BeforeCreate assigns a UUID to users inserted without one.
func (user *User) BeforeCreate(*gorm.DB) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	return nil
}

// FullName is shown next to the username on profile and search pages.
func (user User) FullName() string {
	return strings.TrimSpace(user.FirstName + " " + user.LastName)
}

func (User) TableName() string {
	return "users"
}
