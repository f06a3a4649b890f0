// Package repo implements the data persistence layer for the game catalog.
// This file provides repository functions for GameRecord: the bulk clear and
// insert primitives used by the ingestion pipeline's destructive refresh, and
// the read paths used by the recommendation engine.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - When a game is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for consistency across the service
// layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// insertBatchSize bounds the number of rows per INSERT during bulk loads.
const insertBatchSize = 500

// ClearCatalog deletes every row from the games and search_entries tables in
// one transaction. This is the "clear" phase of the destructive refresh: a
// failure between this call and the subsequent inserts leaves the catalog
// empty or partial, which is the documented trade-off of the refresh
// contract.
func ClearCatalog(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.GameRecord{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
			Delete(&domain.SearchEntry{}).Error
	})
}

// InsertGames bulk-inserts catalog records in bounded batches.
func InsertGames(ctx context.Context, db *gorm.DB, games []domain.GameRecord) error {
	if len(games) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(games, insertBatchSize).Error
}

// GetGame fetches a single catalog record by provider ID, or ErrNotFound.
func GetGame(ctx context.Context, db *gorm.DB, id int64) (*domain.GameRecord, error) {
	var g domain.GameRecord
	if err := db.WithContext(ctx).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// FindGameByName resolves a free-text title to a catalog record. An exact
// case-insensitive match wins; otherwise the shortest case-insensitive prefix
// match is returned as the best available candidate. Misses return
// ErrNotFound.
func FindGameByName(ctx context.Context, db *gorm.DB, name string) (*domain.GameRecord, error) {
	var g domain.GameRecord
	err := db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", name).
		First(&g).Error
	if err == nil {
		return &g, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	err = db.WithContext(ctx).
		Where("LOWER(name) LIKE LOWER(?)", name+"%").
		Order("LENGTH(name) asc").
		Order("id asc").
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames returns the full catalog, ordered by ascending ID. The
// recommendation engine scores this scan in memory; ordering keeps repeated
// runs deterministic.
func ListGames(ctx context.Context, db *gorm.DB) ([]domain.GameRecord, error) {
	var out []domain.GameRecord
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// CountGames returns the number of catalog records.
func CountGames(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.GameRecord{}).Count(&total).Error
	return total, err
}
