package database

import (
	"log"
	"os"
	"path/filepath"

	"github.com/codyseavey/tcg-pricewatch/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Initialize opens the SQLite database at dbPath, creating parent
// directories as needed, and migrates the schema.
func Initialize(dbPath string) (*gorm.DB, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	if err := db.AutoMigrate(&models.Card{}, &models.PriceSnapshot{}); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}
