package models

import (
	"strings"
	"time"
)

type User struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Email       string `gorm:"size:255;unique;not null"`
	Password    string `gorm:"not null"`
	Name        string `gorm:"size:255"`
	IsActive    bool   `gorm:"not null;default:true"`
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`

	Tags        []Tag        `gorm:"constraint:OnDelete:CASCADE;"`
	Ingredients []Ingredient `gorm:"constraint:OnDelete:CASCADE;"`
	Recipes     []Recipe     `gorm:"constraint:OnDelete:CASCADE;"`
}

func (u User) String() string {
	return u.Email
}

// NormalizeEmail trims surrounding whitespace and lowercases the address so
// lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
