package smoketest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/okian/nutrilookup/internal/domain/model"
	"github.com/okian/nutrilookup/pkg/logger"
)

// defaultCleanupTimeout bounds the cleanup delete when no request timeout is set.
const defaultCleanupTimeout = 10 * time.Second

// runner carries the state shared by the steps of one run.
type runner struct {
	cfg    *Config
	client *HTTPClient
	log    logger.Logger
	stats  *Stats
	sent   Item
}

// Run executes the smoke scenario against cfg.BaseURL. A nil hc uses a
// default client. The returned stats are filled in even when a step fails.
func Run(ctx context.Context, cfg *Config, hc *http.Client) (*Stats, error) {
	r := &runner{
		cfg:    cfg,
		client: NewHTTPClient(cfg.BaseURL, cfg.Timeout, hc),
		log:    logger.Get().Named("smoke"),
		stats:  &Stats{StartTime: time.Now()},
		sent:   sampleItem(cfg.BranchLocationID),
	}
	defer r.finish(ctx)

	r.log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Uint64("country_id", cfg.CountryID),
		logger.Uint64("branch_id", cfg.BranchID),
		logger.Uint64("branch_location_id", cfg.BranchLocationID),
		logger.Duration("timeout", cfg.Timeout))

	steps := []struct {
		name string
		fn   func(context.Context) (int, error)
	}{
		{"health", r.checkHealth},
		{"countries", r.checkCountries},
		{"branches", r.checkBranches},
		{"missing_parameter", r.checkMissingParameter},
		{"create_item", r.createItem},
		{"get_item", r.getItem},
		{"list_items", r.listItems},
		{"delete_item", r.deleteItem},
		{"item_gone", r.checkGone},
		{"delete_again", r.deleteItem},
	}
	for _, st := range steps {
		if err := r.step(ctx, st.name, st.fn); err != nil {
			r.cleanup(ctx)
			return r.stats, fmt.Errorf("step %s: %w", st.name, err)
		}
	}

	return r.stats, nil
}

// finish stamps the run duration and logs the final statistics.
func (r *runner) finish(ctx context.Context) {
	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	r.log.Info(ctx, "final statistics",
		logger.Int("steps", len(r.stats.Steps)),
		logger.Int("failed", r.stats.Failed()),
		logger.Uint64("createdID", r.stats.CreatedID),
		logger.Duration("duration", r.stats.Duration))
}

func (r *runner) step(ctx context.Context, name string, fn func(context.Context) (int, error)) error {
	start := time.Now()
	status, err := fn(ctx)
	res := StepResult{Name: name, Status: status, Duration: time.Since(start), Err: err}
	r.stats.Steps = append(r.stats.Steps, res)

	fields := []logger.Field{
		logger.String("step", name),
		logger.Int("status", status),
		logger.Duration("duration", res.Duration),
	}
	switch {
	case err != nil:
		r.log.Error(ctx, "step failed", append(fields, logger.Error(err))...)
	case r.cfg.Verbose:
		r.log.Info(ctx, "step passed", fields...)
	}
	return err
}

func (r *runner) checkHealth(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return status, err
	}
	return status, expect(status, http.StatusOK, body, nil)
}

func (r *runner) checkCountries(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodGet, "/api/countries", nil)
	if err != nil {
		return status, err
	}
	var list []Named
	if err := expect(status, http.StatusOK, body, &list); err != nil {
		return status, err
	}
	if !containsID(list, r.cfg.CountryID, func(n Named) uint64 { return n.ID }) {
		return status, fmt.Errorf("%w: country %d not listed", ErrMismatch, r.cfg.CountryID)
	}
	return status, nil
}

func (r *runner) checkBranches(ctx context.Context) (int, error) {
	path := fmt.Sprintf("/api/branches?country_id=%d", r.cfg.CountryID)
	status, body, err := r.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}
	var list []Named
	if err := expect(status, http.StatusOK, body, &list); err != nil {
		return status, err
	}
	if !containsID(list, r.cfg.BranchID, func(n Named) uint64 { return n.ID }) {
		return status, fmt.Errorf("%w: branch %d not listed for country %d", ErrMismatch, r.cfg.BranchID, r.cfg.CountryID)
	}
	return status, nil
}

func (r *runner) checkMissingParameter(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodGet, "/api/branches", nil)
	if err != nil {
		return status, err
	}
	return status, expect(status, http.StatusBadRequest, body, nil)
}

func (r *runner) createItem(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodPost, "/api/items", r.sent)
	if err != nil {
		return status, err
	}
	var created struct {
		ID uint64 `json:"id"`
	}
	if err := expect(status, http.StatusCreated, body, &created); err != nil {
		return status, err
	}
	if created.ID == 0 {
		return status, fmt.Errorf("%w: created id is zero", ErrMismatch)
	}
	r.stats.CreatedID = created.ID
	return status, nil
}

func (r *runner) getItem(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/item?id=%d", r.stats.CreatedID), nil)
	if err != nil {
		return status, err
	}
	var got Item
	if err := expect(status, http.StatusOK, body, &got); err != nil {
		return status, err
	}
	if got.ID != r.stats.CreatedID {
		return status, fmt.Errorf("%w: id %d, want %d", ErrMismatch, got.ID, r.stats.CreatedID)
	}
	return status, verifyItem(r.sent, got)
}

func (r *runner) listItems(ctx context.Context) (int, error) {
	path := fmt.Sprintf("/api/items?country_id=%d&branch_id=%d", r.cfg.CountryID, r.cfg.BranchID)
	status, body, err := r.client.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return status, err
	}
	var list []Item
	if err := expect(status, http.StatusOK, body, &list); err != nil {
		return status, err
	}
	if !containsID(list, r.stats.CreatedID, func(i Item) uint64 { return i.ID }) {
		return status, fmt.Errorf("%w: item %d missing from branch listing", ErrMismatch, r.stats.CreatedID)
	}
	return status, nil
}

func (r *runner) deleteItem(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", r.stats.CreatedID), nil)
	if err != nil {
		return status, err
	}
	return status, expect(status, http.StatusNoContent, body, nil)
}

func (r *runner) checkGone(ctx context.Context) (int, error) {
	status, body, err := r.client.Do(ctx, http.MethodGet, fmt.Sprintf("/api/item?id=%d", r.stats.CreatedID), nil)
	if err != nil {
		return status, err
	}
	return status, expect(status, http.StatusNotFound, body, nil)
}

// cleanup removes the item created by a failed run. It runs even when ctx
// is already done, bounded by the request timeout.
func (r *runner) cleanup(ctx context.Context) {
	if r.stats.CreatedID == 0 {
		return
	}
	timeout := r.cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCleanupTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	status, body, err := r.client.Do(ctx, http.MethodDelete, fmt.Sprintf("/api/items/%d", r.stats.CreatedID), nil)
	if err == nil {
		err = expect(status, http.StatusNoContent, body, nil)
	}
	if err != nil {
		r.log.Warn(ctx, "cleanup failed", logger.Uint64("id", r.stats.CreatedID), logger.Error(err))
		return
	}
	r.log.Info(ctx, "cleanup removed item", logger.Uint64("id", r.stats.CreatedID))
}

func sampleItem(locationID uint64) Item {
	return Item{
		BranchLocationID: locationID,
		Name:             model.Text("Smoke Test Burger"),
		ServingSize:      model.Text("1 burger (220 g)"),
		Calories:         model.Number(500),
		TotalFat:         model.Number(25),
		SaturatedFat:     model.Number(9.5),
		Sodium:           model.Number(970),
		Carbohydrates:    model.Number(41),
		Protein:          model.Number(28),
	}
}
