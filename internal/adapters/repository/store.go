// Package repository defines the catalog store interface and its gorm-backed
// implementation.
package repository

import (
	"context"

	"github.com/okian/nutrilookup/internal/domain/model"
)

// Store provides access to the relational catalog. Every method issues a
// single statement.
type Store interface {
	// Countries returns every country ordered by id.
	Countries(ctx context.Context) ([]model.Country, error)

	// BranchesByCountry returns branches having a location in countryID.
	BranchesByCountry(ctx context.Context, countryID uint64) ([]model.Branch, error)

	// ItemsByLocation returns the nutrition facts of items sold by branchID in countryID.
	ItemsByLocation(ctx context.Context, countryID, branchID uint64) ([]model.NutritionFacts, error)

	// Item returns the full row for id.
	// Returns ErrNotFound if no row matches.
	Item(ctx context.Context, id uint64) (model.FoodItem, error)

	// CreateItem inserts item and returns the store-assigned id.
	CreateItem(ctx context.Context, item model.FoodItem) (uint64, error)

	// DeleteItem removes the row for id and reports how many rows went away.
	DeleteItem(ctx context.Context, id uint64) (int64, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
