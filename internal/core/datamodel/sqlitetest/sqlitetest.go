// Package sqlitetest opens an in-memory database with the full schema for repository and
// handler tests.
package sqlitetest

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	companyDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/company"
	locationDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/location"
	userDatamodel "github.com/frahmantamala/business-management/internal/core/datamodel/user"
)

// Open returns gorm and sqlx handles over one shared connection. A single connection keeps
// every query on the same in-memory database.
func Open() (*gorm.DB, *sqlx.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&companyDatamodel.Company{},
		&locationDatamodel.Location{},
		&userDatamodel.User{},
	); err != nil {
		return nil, nil, err
	}

	return db, sqlx.NewDb(sqlDB, "sqlite3"), nil
}

// Deactivate flips active to false after creation; a false bool is skipped on insert
// in favour of the column default.
func Deactivate(db *gorm.DB, model interface{}, id int64) error {
	return db.Model(model).Where("id = ?", id).Update("active", false).Error
}
