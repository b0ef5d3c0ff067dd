package dto

import "strings"

// BookForm is the submitted book; the cover arrives separately as a multipart file.
type BookForm struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=128"`
	Description string `form:"description" json:"description" validate:"max=2048"`
}

// DescriptionPtr returns nil for a blank description.
func (f BookForm) DescriptionPtr() *string {
	d := strings.TrimSpace(f.Description)
	if d == "" {
		return nil
	}
	return &d
}
