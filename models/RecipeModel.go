package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Recipe struct {
	ID        uint `gorm:"primarykey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Title       string          `gorm:"size:255;not null"`
	TimeMinutes int             `gorm:"not null"`
	Price       decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Link        string          `gorm:"size:255"`
	UserID      uint            `gorm:"not null;index"`

	Tags        []Tag        `gorm:"many2many:recipe_tags;"`
	Ingredients []Ingredient `gorm:"many2many:recipe_ingredients;"`
}

func (r Recipe) String() string {
	return r.Title
}
