package database

import (
	"fmt"

	"memberbill/config"
	"memberbill/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func allModels() []interface{} {
	return []interface{}{
		&models.Group{},
		&models.Member{},
		&models.Plan{},
		&models.PlanField{},
		&models.Subscription{},
		&models.Invoice{},
		&models.InvoiceLineItem{},
		&models.Transaction{},
	}
}

// ConnectDatabase opens the shared connection handle and runs migrations.
// The handle is reused process-wide; callers reach it through database.DB.
func ConnectDatabase(cfg *config.Config) {
	db, err := gorm.Open(postgres.Open(cfg.DB.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	DB = db

	log.Info("Running database migrations...")
	if err := DB.AutoMigrate(allModels()...); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}
	log.Info("Database migration completed")
}

// Migrate runs migrations against an already-open handle. Tests use this
// with an in-memory sqlite DB.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(allModels()...)
}

// ClearDBAndMigrate drops all tables and re-runs migrations.
// This is primarily for development/testing purposes.
func ClearDBAndMigrate() error {
	log.Info("Clearing database...")
	if err := DB.Migrator().DropTable(allModels()...); err != nil {
		log.Errorf("Failed to drop tables: %v", err)
		return fmt.Errorf("failed to drop tables: %w", err)
	}

	if err := DB.AutoMigrate(allModels()...); err != nil {
		log.Errorf("Failed to re-migrate database: %v", err)
		return fmt.Errorf("failed to re-migrate database: %w", err)
	}
	log.Info("Database re-migrated successfully")
	return nil
}
