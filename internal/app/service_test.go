package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/okian/nutrilookup/internal/adapters/repository"
	service "github.com/okian/nutrilookup/internal/app"
	"github.com/okian/nutrilookup/internal/domain/model"
	"github.com/okian/nutrilookup/pkg/errs"
	"github.com/okian/nutrilookup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// fakeStore records calls and returns canned results.
type fakeStore struct {
	mu    sync.Mutex
	calls []string
	args  []uint64

	countries []model.Country
	branches  []model.Branch
	items     []model.NutritionFacts
	item      model.FoodItem
	itemErr   error
	createdID uint64
	created   model.FoodItem
	deleted   int64
	err       error
}

func (f *fakeStore) record(call string, args ...uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	f.args = append(f.args, args...)
}

func (f *fakeStore) Countries(context.Context) ([]model.Country, error) {
	f.record("countries")
	return f.countries, f.err
}

func (f *fakeStore) BranchesByCountry(_ context.Context, countryID uint64) ([]model.Branch, error) {
	f.record("branches", countryID)
	return f.branches, f.err
}

func (f *fakeStore) ItemsByLocation(_ context.Context, countryID, branchID uint64) ([]model.NutritionFacts, error) {
	f.record("items", countryID, branchID)
	return f.items, f.err
}

func (f *fakeStore) Item(_ context.Context, id uint64) (model.FoodItem, error) {
	f.record("item", id)
	if f.itemErr != nil {
		return model.FoodItem{}, f.itemErr
	}
	return f.item, f.err
}

func (f *fakeStore) CreateItem(_ context.Context, item model.FoodItem) (uint64, error) {
	f.record("create")
	f.created = item
	return f.createdID, f.err
}

func (f *fakeStore) DeleteItem(_ context.Context, id uint64) (int64, error) {
	f.record("delete", id)
	return f.deleted, f.err
}

func (f *fakeStore) Ping(context.Context) error {
	f.record("ping")
	return f.err
}

func TestService_Validation(t *testing.T) {
	Convey("Given a service over a fake store", t, func() {
		store := &fakeStore{}
		svc := service.New(store)
		ctx := context.Background()

		Convey("When country_id is missing for branches", func() {
			_, err := svc.Branches(ctx, "")

			Convey("Then it should be a validation error without touching the store", func() {
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(errs.Message(err), ShouldEqual, "country_id is required")
				So(store.calls, ShouldBeEmpty)
			})
		})

		Convey("When branch_id is blank for items", func() {
			_, err := svc.Items(ctx, "1", "   ")

			Convey("Then branch_id should be reported", func() {
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(errs.Message(err), ShouldEqual, "branch_id is required")
				So(store.calls, ShouldBeEmpty)
			})
		})

		Convey("When both ids are missing for items", func() {
			_, err := svc.Items(ctx, "", "")

			Convey("Then country_id should be reported first", func() {
				So(errs.Message(err), ShouldEqual, "country_id is required")
			})
		})

		Convey("When id is missing for item", func() {
			_, err := svc.Item(ctx, "")

			Convey("Then it should be a validation error", func() {
				So(errors.Is(err, errs.ErrValidation), ShouldBeTrue)
				So(errs.Message(err), ShouldEqual, "id is required")
				So(store.calls, ShouldBeEmpty)
			})
		})
	})
}

func TestService_NonNumericIDs(t *testing.T) {
	Convey("Given a service over a fake store", t, func() {
		store := &fakeStore{}
		svc := service.New(store)
		ctx := context.Background()

		Convey("Then non-numeric ids should match nothing without a store call", func() {
			branches, err := svc.Branches(ctx, "abc")
			So(err, ShouldBeNil)
			So(branches, ShouldNotBeNil)
			So(branches, ShouldBeEmpty)

			items, err := svc.Items(ctx, "1", "-2")
			So(err, ShouldBeNil)
			So(items, ShouldNotBeNil)
			So(items, ShouldBeEmpty)

			_, err = svc.Item(ctx, "1.5")
			So(errors.Is(err, errs.ErrNotFound), ShouldBeTrue)
			So(errs.Message(err), ShouldEqual, "Item not found")

			So(svc.DeleteItem(ctx, "x"), ShouldBeNil)
			So(store.calls, ShouldBeEmpty)
		})
	})
}

func TestService_Dispatch(t *testing.T) {
	Convey("Given a service over a fake store", t, func() {
		store := &fakeStore{
			countries: []model.Country{{ID: 1, Name: "USA"}},
			branches:  []model.Branch{{ID: 2, Name: "Test Co"}},
			items:     []model.NutritionFacts{{ID: 9}},
			item:      model.FoodItem{ID: 9, BranchLocationID: 3},
			createdID: 10,
			deleted:   1,
		}
		svc := service.New(store)
		ctx := context.Background()

		Convey("Countries should pass the store result through", func() {
			got, err := svc.Countries(ctx)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, store.countries)
		})

		Convey("Branches should parse the country id", func() {
			got, err := svc.Branches(ctx, "1")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, store.branches)
			So(store.args, ShouldResemble, []uint64{1})
		})

		Convey("Items should pass both ids in order", func() {
			got, err := svc.Items(ctx, "1", "2")
			So(err, ShouldBeNil)
			So(got, ShouldResemble, store.items)
			So(store.args, ShouldResemble, []uint64{1, 2})
		})

		Convey("Item should return the full row", func() {
			got, err := svc.Item(ctx, "9")
			So(err, ShouldBeNil)
			So(got.BranchLocationID, ShouldEqual, uint64(3))
		})

		Convey("Item should map a store miss to not found", func() {
			store.itemErr = repository.ErrNotFound
			_, err := svc.Item(ctx, "404")
			So(errors.Is(err, errs.ErrNotFound), ShouldBeTrue)
			So(errors.Is(err, errs.ErrStore), ShouldBeFalse)
		})

		Convey("CreateItem should hand the converted row to the store", func() {
			id, err := svc.CreateItem(ctx, model.NewFoodItem{BranchLocationID: 3, Name: model.Text("Burger")})
			So(err, ShouldBeNil)
			So(id, ShouldEqual, uint64(10))
			So(store.created.BranchLocationID, ShouldEqual, uint64(3))
			So(store.created.Name.String(), ShouldEqual, "Burger")
		})

		Convey("DeleteItem should succeed whether or not a row existed", func() {
			So(svc.DeleteItem(ctx, "9"), ShouldBeNil)
			store.deleted = 0
			So(svc.DeleteItem(ctx, "9"), ShouldBeNil)
			So(store.calls, ShouldResemble, []string{"delete", "delete"})
		})
	})
}

func TestService_StoreFailures(t *testing.T) {
	Convey("Given a store that fails every call", t, func() {
		cause := errors.New("connection refused")
		svc := service.New(&fakeStore{err: cause})
		ctx := context.Background()

		Convey("Then every operation should surface a store error carrying its op", func() {
			_, err := svc.Countries(ctx)
			So(errors.Is(err, errs.ErrStore), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errs.Op(err), ShouldEqual, "countries")

			_, err = svc.Branches(ctx, "1")
			So(errs.Op(err), ShouldEqual, "branches")

			_, err = svc.Items(ctx, "1", "2")
			So(errs.Op(err), ShouldEqual, "items")

			_, err = svc.Item(ctx, "1")
			So(errs.Op(err), ShouldEqual, "item")

			_, err = svc.CreateItem(ctx, model.NewFoodItem{})
			So(errs.Op(err), ShouldEqual, "create_item")

			err = svc.DeleteItem(ctx, "1")
			So(errs.Op(err), ShouldEqual, "delete_item")

			err = svc.Ping(ctx)
			So(errors.Is(err, errs.ErrStore), ShouldBeTrue)
		})
	})
}
