// Package repo implements the data persistence layer for the game catalog.
// This file covers the search-entry projection: the denormalized subset of
// catalog fields that backs the in-memory suggestion index. The table is
// rebuilt wholesale by ingestion (see ClearCatalog) and read back at server
// startup; nothing mutates individual rows.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/tbourn/go-gamerec-backend/internal/domain"
)

// InsertSearchEntries bulk-inserts search projections in bounded batches.
func InsertSearchEntries(ctx context.Context, db *gorm.DB, entries []domain.SearchEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(entries, insertBatchSize).Error
}

// ListSearchEntries returns every search entry, ordered by ascending ID.
// Used to build the in-memory suggestion index.
func ListSearchEntries(ctx context.Context, db *gorm.DB) ([]domain.SearchEntry, error) {
	var out []domain.SearchEntry
	err := db.WithContext(ctx).Order("id asc").Find(&out).Error
	return out, err
}

// CountSearchEntries returns the number of indexed entries.
func CountSearchEntries(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.SearchEntry{}).Count(&total).Error
	return total, err
}
