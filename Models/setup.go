package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", path, err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
}

// Migrate runs AutoMigrate in dependency order.
func Migrate(db *gorm.DB) error {
	// 1. Base entities with no foreign keys
	if err := db.AutoMigrate(
		&User{},
		&Supplier{},
		&Vehicle{},
	); err != nil {
		return err
	}

	// 2. Vehicle children
	if err := db.AutoMigrate(
		&MaintenanceRecord{},
		&FuelingRecord{},
	); err != nil {
		return err
	}

	// 3. Service orders and their children
	return db.AutoMigrate(
		&ServiceOrder{},
		&ServiceOrderBudget{},
		&OSPayment{},
	)
}
