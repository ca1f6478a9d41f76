package models

import "time"

// Tag is a user-owned label that can be attached to recipes.
type Tag struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name   string `gorm:"size:255;not null"`
	UserID uint   `gorm:"not null;index"`
}

func (t Tag) String() string {
	return t.Name
}
