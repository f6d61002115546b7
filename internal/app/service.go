// Package service provides the catalog lookup service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/okian/nutrilookup/internal/adapters/repository"
	"github.com/okian/nutrilookup/internal/domain/model"
	"github.com/okian/nutrilookup/pkg/errs"
	"github.com/okian/nutrilookup/pkg/logger"
	"github.com/okian/nutrilookup/pkg/metrics"
)

// Client-facing messages.
const (
	msgItemNotFound = "Item not found"
)

// Service validates request parameters and dispatches them to the store.
// It holds no state of its own; concurrency is bounded by the store pool.
type Service struct {
	store  repository.Store
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Countries returns every country ordered by id.
func (s *Service) Countries(ctx context.Context) ([]model.Country, error) {
	const op = "countries"
	out, err := s.store.Countries(ctx)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	return out, nil
}

// Branches returns the branches with a location in countryID.
func (s *Service) Branches(ctx context.Context, countryID string) ([]model.Branch, error) {
	const op = "branches"
	if err := required(op, "country_id", countryID); err != nil {
		return nil, err
	}
	cid, ok := parseID(countryID)
	if !ok {
		return []model.Branch{}, nil
	}
	out, err := s.store.BranchesByCountry(ctx, cid)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	return out, nil
}

// Items returns the nutrition facts of items sold by branchID in countryID.
func (s *Service) Items(ctx context.Context, countryID, branchID string) ([]model.NutritionFacts, error) {
	const op = "items"
	if err := required(op, "country_id", countryID); err != nil {
		return nil, err
	}
	if err := required(op, "branch_id", branchID); err != nil {
		return nil, err
	}
	cid, okC := parseID(countryID)
	bid, okB := parseID(branchID)
	if !okC || !okB {
		return []model.NutritionFacts{}, nil
	}
	out, err := s.store.ItemsByLocation(ctx, cid, bid)
	if err != nil {
		return nil, s.storeFailure(ctx, op, err)
	}
	return out, nil
}

// Item returns the full row for id.
func (s *Service) Item(ctx context.Context, id string) (model.FoodItem, error) {
	const op = "item"
	if err := required(op, "id", id); err != nil {
		return model.FoodItem{}, err
	}
	iid, ok := parseID(id)
	if !ok {
		return model.FoodItem{}, errs.NotFound(op, msgItemNotFound)
	}
	item, err := s.store.Item(ctx, iid)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return model.FoodItem{}, errs.NotFound(op, msgItemNotFound)
	case err != nil:
		return model.FoodItem{}, s.storeFailure(ctx, op, err)
	}
	return item, nil
}

// CreateItem inserts in and returns the store-assigned id. Field values are
// not checked here; the store's constraints decide.
func (s *Service) CreateItem(ctx context.Context, in model.NewFoodItem) (uint64, error) {
	const op = "create_item"
	id, err := s.store.CreateItem(ctx, in.Row())
	if err != nil {
		return 0, s.storeFailure(ctx, op, err)
	}
	metrics.RecordItemCreated()
	s.logger.Debug(ctx, "food item created",
		logger.Uint64("id", id),
		logger.Uint64("branch_location_id", in.BranchLocationID))
	return id, nil
}

// DeleteItem removes the item for id. Deleting an id that does not exist
// succeeds.
func (s *Service) DeleteItem(ctx context.Context, id string) error {
	const op = "delete_item"
	iid, ok := parseID(id)
	if !ok {
		return nil
	}
	n, err := s.store.DeleteItem(ctx, iid)
	if err != nil {
		return s.storeFailure(ctx, op, err)
	}
	metrics.RecordItemsDeleted(n)
	s.logger.Debug(ctx, "food item delete",
		logger.Uint64("id", iid),
		logger.Any("rows", n))
	return nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	const op = "ping"
	if err := s.store.Ping(ctx); err != nil {
		return s.storeFailure(ctx, op, err)
	}
	return nil
}

func (s *Service) storeFailure(ctx context.Context, op string, err error) error {
	s.logger.Error(ctx, "store operation failed",
		logger.String("op", op),
		logger.Error(err))
	return errs.Store(op, err)
}

// required rejects a missing or blank parameter.
func required(op, name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.Validation(op, name+" is required")
	}
	return nil
}

// parseID reports whether raw is a base-10 unsigned id. Anything else can
// never match a stored row.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
