// Package db contains things related to SQLite
package db

import (
	"fmt"

	"robohub/hub-api/model"

	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func New() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open("database.db"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite database, %w", err)
	}

	err = db.AutoMigrate(model.User{}, model.Stats{}, model.Model{}, model.Deployment{}, model.Dataset{})
	if err != nil {
		return nil, fmt.Errorf("failed to automigrate tables, %w", err)
	}

	if viper.GetBool("app.seed_datasets") {
		if err := seedDatasets(db); err != nil {
			return nil, err
		}
	}

	return db, nil
}

// seedDatasets inserts the curated dataset catalog once. Existing rows
// are left alone so download counters survive restarts
func seedDatasets(db *gorm.DB) error {
	var count int64
	if err := db.Model(model.Dataset{}).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count datasets, %w", err)
	}

	if count > 0 {
		return nil
	}

	if err := db.Create(&model.SampleDatasets).Error; err != nil {
		return fmt.Errorf("failed to seed datasets, %w", err)
	}

	return nil
}
