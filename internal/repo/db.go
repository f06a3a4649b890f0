// Package repo implements the data persistence layer for the game catalog,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
)

// OpenSQLite opens (or creates) the catalog database and applies PRAGMAs.
// Query tracing is attached via the GORM OpenTelemetry plugin; spans are
// no-ops unless a tracer provider is installed.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if the parent directory does not exist, instead of a cryptic
	// sqlite "out of memory (14)" later.
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// AutoMigrate creates or updates the catalog and search-entry tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.GameRecord{},
		&domain.SearchEntry{},
	)
}
