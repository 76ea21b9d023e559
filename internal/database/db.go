package database

import (
	"kitchenops/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL dialect
	_ "github.com/jinzhu/gorm/dialects/sqlite"   // SQLite dialect
)

var DB *gorm.DB

// InitDB initializes the database connection. Driver is "sqlite3" or
// "postgres"; dsn is a file path or connection string respectively.
func InitDB(driver, dsn string) error {
	var err error
	DB, err = gorm.Open(driver, dsn)
	if err != nil {
		return err
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

// Migrate creates and updates all tables the checker reads and writes.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.ProductionSchedule{},
		&models.ProductionDay{},
		&models.ProductionItem{},
		&models.RecipeIngredient{},
		&models.IngredientMapping{},
		&models.InventoryRecord{},
		&models.InventoryCheck{},
		&models.IngredientShortage{},
	).Error
}
