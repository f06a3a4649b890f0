// Package services implements the business logic of the recommendation
// backend: similarity-based recommendations over the catalog and live name
// suggestions over the search projection.
//
// This file centralizes service-level error values so they can be returned
// consistently by service methods and mapped to HTTP responses at the handler
// layer.
package services

import "errors"

var (
	// ErrGameNotFound indicates that no catalog record matches the requested
	// title, neither exactly nor by prefix.
	ErrGameNotFound = errors.New("game not found")

	// ErrEmptyCatalog is returned when a recommendation is requested before
	// any catalog refresh has populated the store.
	ErrEmptyCatalog = errors.New("catalog is empty")
)
