package config

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/freshpress/laundry-orders-api/models"
)

// schemaMigration records an applied migration so each step runs exactly once.
type schemaMigration struct {
	Version   string `gorm:"primaryKey"`
	AppliedAt time.Time
}

func (schemaMigration) TableName() string {
	return "schema_migrations"
}

// migration is one ordered schema change. Versions are applied in slice
// order; databases created by older releases pick up only the steps they are
// missing, so old rows stay readable (new columns are nullable).
type migration struct {
	version string
	apply   func(db *gorm.DB) error
}

var migrations = []migration{
	{
		version: "001_base_tables",
		apply: func(db *gorm.DB) error {
			return db.AutoMigrate(
				&models.ServiceType{},
				&models.GarmentType{},
				&models.Customer{},
				&models.Order{},
			)
		},
	},
	{
		// Databases from before the itemized-order release lack the
		// service/itemization/scheduling columns; AutoMigrate adds them as
		// nullable columns without touching existing rows.
		version: "002_itemized_orders",
		apply: func(db *gorm.DB) error {
			m := db.Migrator()
			for _, col := range []string{"service_type", "items_json", "instructions", "scheduled_pickup", "scheduled_delivery", "customer_id"} {
				if !m.HasColumn(&models.Order{}, col) {
					if err := m.AddColumn(&models.Order{}, col); err != nil {
						return fmt.Errorf("failed to add orders.%s: %w", col, err)
					}
				}
			}
			return nil
		},
	},
}

// MigrateDatabase applies every pending migration in order.
func MigrateDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int64
		if err := db.Model(&schemaMigration{}).Where("version = ?", m.version).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration %s: %w", m.version, err)
		}
		if count > 0 {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %s failed: %w", m.version, err)
		}
		record := schemaMigration{Version: m.version, AppliedAt: time.Now()}
		if err := db.Create(&record).Error; err != nil {
			return fmt.Errorf("failed to record migration %s: %w", m.version, err)
		}
		log.Printf("Applied migration %s", m.version)
	}

	return nil
}
