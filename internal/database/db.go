package database

import (
	"fmt"
	"log"
	"time"

	"go-pos/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const connectAttempts = 5

// Connect opens the store named by driver ("mysql" or "sqlite"), retrying
// while the server comes up, and migrates the schema.
func Connect(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	var (
		db  *gorm.DB
		err error
	)

	// Wait for the DB to be ready (docker-compose starts us first)
	for i := 0; i < connectAttempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/%d)", i+1, connectAttempts)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect after %d attempts: %w", connectAttempts, err)
	}

	log.Printf("✅ Connected to %s", driver)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Println("✅ Database Schema Synced!")
	return db, nil
}

// Migrate creates or updates every table the POS uses.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Customer{},
		&models.Provider{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Expense{},
		&models.SystemLicense{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
