package db

import (
	"fmt"

	"gorm.io/gorm"

	"servicedirectory/internal/model"
)

var models = []interface{}{
	&model.ServiceRecord{},
	&model.User{},
}

// Migrate creates or updates the directory tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Reset drops every directory table. Missing tables are ignored.
func Reset(db *gorm.DB) error {
	for _, m := range models {
		if !db.Migrator().HasTable(m) {
			continue
		}
		if err := db.Migrator().DropTable(m); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
