package controllers

import (
	"testing"

	"barbershop-backend/config"
	"barbershop-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an in-memory database, migrates the schema and wires
// it into the package-global handle the handlers read.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Master{},
		&models.Service{},
		&models.Order{},
		&models.Review{},
		&models.OutboxEvent{},
		&models.NotificationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	config.DB = db
	return db
}
