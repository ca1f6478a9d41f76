package models

import "time"

type Ingredient struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name   string `gorm:"size:255;not null"`
	UserID uint   `gorm:"not null;index"`
}

func (i Ingredient) String() string {
	return i.Name
}
