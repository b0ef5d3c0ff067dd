package models

import "time"

const (
	MinRating = 0
	MaxRating = 5
)

type Review struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	BookID    int64     `json:"book_id" gorm:"not null;index"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;index"`
	Headline  string    `json:"headline" gorm:"size:128;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	Rating    int       `json:"rating" gorm:"not null;check:rating >= 0 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
