package models

import "time"

// Book is shared catalogue data; nobody owns it.
type Book struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:128;not null;index"`
	Description *string   `json:"description,omitempty" gorm:"size:2048"`
	CoverImage  *string   `json:"cover_image,omitempty"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (Book) TableName() string {
	return "books"
}
