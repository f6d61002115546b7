// Package repotest opens throwaway in-memory catalog stores for tests.
package repotest

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/okian/nutrilookup/internal/adapters/repository"
	"github.com/okian/nutrilookup/internal/domain/model"
)

// Schema is the catalog DDL in the SQLite dialect.
const Schema = `
CREATE TABLE countries (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE branches (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL
);
CREATE TABLE branch_locations (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	branch_id  INTEGER NOT NULL REFERENCES branches(id),
	country_id INTEGER NOT NULL REFERENCES countries(id)
);
CREATE TABLE food_items (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	branch_location_id INTEGER NOT NULL REFERENCES branch_locations(id),
	name               TEXT,
	serving_size       TEXT,
	calories           REAL,
	total_fat          REAL,
	saturated_fat      REAL,
	trans_fat          REAL,
	cholesterol        REAL,
	sodium             REAL,
	carbohydrates      REAL,
	sugars             REAL,
	protein            REAL
);
`

// NewSQLite opens an isolated in-memory store with the catalog schema. The
// store is closed when the test ends.
func NewSQLite(tb testing.TB, opts ...repository.Option) *repository.GormStore {
	tb.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	// One connection keeps the shared in-memory database alive and serializes writers.
	opts = append([]repository.Option{repository.WithMaxOpenConns(1)}, opts...)
	s, err := repository.Open(context.Background(), repository.DriverSQLite, dsn, opts...)
	if err != nil {
		tb.Fatalf("open sqlite: %v", err)
	}
	tb.Cleanup(func() { _ = s.Close() })
	if err := s.DB().Exec(Schema).Error; err != nil {
		tb.Fatalf("create schema: %v", err)
	}
	return s
}

// Seed identifies the rows inserted by SeedCatalog.
type Seed struct {
	USA, Canada, Japan uint64
	Burgers, Tacos     uint64
	// Locations maps "branch/country" to the branch_locations id.
	Locations map[string]uint64
	// Items lists food item ids in insertion order.
	Items []uint64
}

// SeedCatalog inserts a small catalog: three countries, two branches with
// three locations and three food items. Japan has no locations.
func SeedCatalog(tb testing.TB, s *repository.GormStore) Seed {
	tb.Helper()
	db := s.DB()
	var seed Seed

	countries := []model.Country{{Name: "USA"}, {Name: "Canada"}, {Name: "Japan"}}
	if err := db.Create(&countries).Error; err != nil {
		tb.Fatalf("seed countries: %v", err)
	}
	seed.USA, seed.Canada, seed.Japan = countries[0].ID, countries[1].ID, countries[2].ID

	branches := []model.Branch{{Name: "Burger Barn"}, {Name: "Taco Town"}}
	if err := db.Create(&branches).Error; err != nil {
		tb.Fatalf("seed branches: %v", err)
	}
	seed.Burgers, seed.Tacos = branches[0].ID, branches[1].ID

	locations := []model.BranchLocation{
		{BranchID: seed.Burgers, CountryID: seed.USA},
		{BranchID: seed.Tacos, CountryID: seed.USA},
		{BranchID: seed.Burgers, CountryID: seed.Canada},
	}
	if err := db.Create(&locations).Error; err != nil {
		tb.Fatalf("seed locations: %v", err)
	}
	seed.Locations = map[string]uint64{
		"burgers/usa":    locations[0].ID,
		"tacos/usa":      locations[1].ID,
		"burgers/canada": locations[2].ID,
	}

	items := []model.FoodItem{
		{BranchLocationID: locations[0].ID, Name: model.Text("Classic Burger"), ServingSize: model.Text("1 burger"),
			Nutrients: model.Nutrients{Calories: model.Number(550), TotalFat: model.Number(30), Protein: model.Number(25)}},
		{BranchLocationID: locations[0].ID, Name: model.Text("Fries"), ServingSize: model.Text("medium"),
			Nutrients: model.Nutrients{Calories: model.Number(320), Sodium: model.Number(260)}},
		{BranchLocationID: locations[2].ID, Name: model.Text("Poutine"), ServingSize: model.Text("regular"),
			Nutrients: model.Nutrients{Calories: model.Number(740)}},
	}
	if err := db.Create(&items).Error; err != nil {
		tb.Fatalf("seed items: %v", err)
	}
	for _, it := range items {
		seed.Items = append(seed.Items, it.ID)
	}
	return seed
}
