package database

import (
	"fmt"

	"github.com/RushabhMehta2005/recipe-api/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema for every model, including the
// recipe join tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
