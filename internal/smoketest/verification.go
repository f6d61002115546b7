package smoketest

import (
	"fmt"

	"github.com/okian/nutrilookup/internal/domain/model"
)

// verifyItem checks that got carries every value that was sent. Numbers match
// by value, so a store that echoes 500 as "500.00" still passes.
func verifyItem(sent, got Item) error {
	if got.BranchLocationID != sent.BranchLocationID {
		return fmt.Errorf("%w: branch_location_id %d, want %d", ErrMismatch, got.BranchLocationID, sent.BranchLocationID)
	}
	fields := []struct {
		name      string
		sent, got model.Value
	}{
		{"name", sent.Name, got.Name},
		{"serving_size", sent.ServingSize, got.ServingSize},
		{"calories", sent.Calories, got.Calories},
		{"total_fat", sent.TotalFat, got.TotalFat},
		{"saturated_fat", sent.SaturatedFat, got.SaturatedFat},
		{"trans_fat", sent.TransFat, got.TransFat},
		{"cholesterol", sent.Cholesterol, got.Cholesterol},
		{"sodium", sent.Sodium, got.Sodium},
		{"carbohydrates", sent.Carbohydrates, got.Carbohydrates},
		{"sugars", sent.Sugars, got.Sugars},
		{"protein", sent.Protein, got.Protein},
	}
	for _, f := range fields {
		if !sameValue(f.sent, f.got) {
			return fmt.Errorf("%w: %s %s, want %s", ErrMismatch, f.name, show(f.got), show(f.sent))
		}
	}
	return nil
}

func sameValue(want, got model.Value) bool {
	if want.IsNull() || got.IsNull() {
		return want.IsNull() == got.IsNull()
	}
	if w, ok := want.Float64(); ok {
		if g, ok := got.Float64(); ok {
			return w == g
		}
	}
	return want.String() == got.String()
}

func show(v model.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.String()
}

// containsID reports whether list has an entry with id.
func containsID[T any](list []T, id uint64, idOf func(T) uint64) bool {
	for _, e := range list {
		if idOf(e) == id {
			return true
		}
	}
	return false
}
