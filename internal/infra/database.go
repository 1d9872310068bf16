package infra

import (
	"fmt"

	"tiendapos/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens the embedded SQLite store and runs AutoMigrate.
//
// The store is single-writer: SQLite serializes writes, and every sale or
// purchase receipt runs inside one transaction, so concurrent requests
// never interleave partial writes. WAL mode keeps readers from blocking
// the writer; busy_timeout makes a second writer wait instead of failing
// immediately with SQLITE_BUSY.
func NewDatabase(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if err := db.Exec(p).Error; err != nil {
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// One writer at a time keeps SQLITE_BUSY out of the request path.
	sqlDB.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}

// RunMigrations creates or updates every table from the models.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Business{},
		&model.Branch{},
		&model.User{},
		&model.BranchUser{},
		&model.Product{},
		&model.ProductPresentation{},
		&model.Supplier{},
		&model.Sale{},
		&model.SaleItem{},
		&model.Purchase{},
		&model.PurchaseItem{},
		&model.WorkSession{},
	)
}
