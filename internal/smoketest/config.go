// Package smoketest drives a running lookup server through the full item
// lifecycle and checks every response against what was sent.
package smoketest

import (
	"time"

	"github.com/okian/nutrilookup/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL          string        // Base URL of the service
	CountryID        uint64        // Country the branch operates in
	BranchID         uint64        // Branch whose menu is exercised
	BranchLocationID uint64        // Location new items are attached to
	Timeout          time.Duration // HTTP request timeout
	Verbose          bool          // Log every step
}

// Named mirrors the country and branch list shape.
type Named struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// Item mirrors the full item record returned by GET /api/item.
type Item struct {
	ID               uint64      `json:"id,omitempty"`
	BranchLocationID uint64      `json:"branch_location_id"`
	Name             model.Value `json:"name"`
	ServingSize      model.Value `json:"serving_size"`
	Calories         model.Value `json:"calories"`
	TotalFat         model.Value `json:"total_fat"`
	SaturatedFat     model.Value `json:"saturated_fat"`
	TransFat         model.Value `json:"trans_fat"`
	Cholesterol      model.Value `json:"cholesterol"`
	Sodium           model.Value `json:"sodium"`
	Carbohydrates    model.Value `json:"carbohydrates"`
	Sugars           model.Value `json:"sugars"`
	Protein          model.Value `json:"protein"`
}

// Stats holds run statistics.
type Stats struct {
	Steps     []StepResult
	CreatedID uint64
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// StepResult records how one step went.
type StepResult struct {
	Name     string
	Status   int
	Duration time.Duration
	Err      error
}

// Failed reports how many steps failed.
func (s *Stats) Failed() int {
	n := 0
	for _, st := range s.Steps {
		if st.Err != nil {
			n++
		}
	}
	return n
}
