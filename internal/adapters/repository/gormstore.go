package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/nutrilookup/internal/domain/model"
	"github.com/okian/nutrilookup/pkg/logger"
	"github.com/okian/nutrilookup/pkg/metrics"
)

// Store driver names accepted by Open.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const nanosecondsPerMillisecond = 1e6

const itemColumns = "fi.id, fi.name, fi.serving_size, fi.calories, fi.total_fat, fi.saturated_fat, " +
	"fi.trans_fat, fi.cholesterol, fi.sodium, fi.carbohydrates, fi.sugars, fi.protein"

// GormStore implements Store on top of a gorm connection pool. It is safe for
// concurrent use; the pool is the only shared state.
type GormStore struct {
	db    *gorm.DB
	sqlDB *sql.DB

	maxOpenConns    int
	maxIdleConns    int
	connMaxLifetime time.Duration
	slowThreshold   time.Duration
	logger          logger.Logger
}

// Open connects to driver using dsn, sizes the pool and verifies connectivity.
// The returned store owns the pool until Close.
func Open(ctx context.Context, driver, dsn string, opts ...Option) (*GormStore, error) {
	s := &GormStore{
		maxOpenConns:  defaultMaxOpenConns,
		maxIdleConns:  defaultMaxIdleConns,
		slowThreshold: defaultSlowThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}

	dialector, err := dialectorFor(driver, dsn)
	if err != nil {
		return nil, err
	}

	var gl gormlogger.Interface = gormlogger.Discard
	if s.logger != nil {
		gl = newGormLog(s.logger, s.slowThreshold)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gl,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrUnavailable, driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	sqlDB.SetMaxOpenConns(s.maxOpenConns)
	sqlDB.SetMaxIdleConns(s.maxIdleConns)
	sqlDB.SetConnMaxLifetime(s.connMaxLifetime)

	s.db = db
	s.sqlDB = sqlDB

	if err := s.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return s, nil
}

func dialectorFor(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case DriverMySQL:
		return mysql.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	case DriverSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
}

// DB exposes the gorm handle, mainly for seeding in tests.
func (s *GormStore) DB() *gorm.DB { return s.db }

// Stats returns a snapshot of the connection pool.
func (s *GormStore) Stats() sql.DBStats { return s.sqlDB.Stats() }

// Close releases every pooled connection.
func (s *GormStore) Close() error { return s.sqlDB.Close() }

// Ping verifies the store is reachable.
func (s *GormStore) Ping(ctx context.Context) (err error) {
	defer s.observe("ping", time.Now(), &err)
	if err = s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Countries returns every country ordered by id.
func (s *GormStore) Countries(ctx context.Context) (out []model.Country, err error) {
	defer s.observe("countries", time.Now(), &err)
	out = make([]model.Country, 0)
	err = s.db.WithContext(ctx).
		Select("id", "name").
		Order("id").
		Find(&out).Error
	return out, err
}

// BranchesByCountry returns branches having a location in countryID.
func (s *GormStore) BranchesByCountry(ctx context.Context, countryID uint64) (out []model.Branch, err error) {
	defer s.observe("branches", time.Now(), &err)
	out = make([]model.Branch, 0)
	err = s.db.WithContext(ctx).
		Table("branches AS b").
		Select("b.id, b.name").
		Joins("JOIN branch_locations bl ON bl.branch_id = b.id").
		Where("bl.country_id = ?", countryID).
		Order("b.id").
		Scan(&out).Error
	return out, err
}

// ItemsByLocation returns the nutrition facts of items sold by branchID in countryID.
func (s *GormStore) ItemsByLocation(ctx context.Context, countryID, branchID uint64) (out []model.NutritionFacts, err error) {
	defer s.observe("items", time.Now(), &err)
	out = make([]model.NutritionFacts, 0)
	err = s.db.WithContext(ctx).
		Table("food_items AS fi").
		Select(itemColumns).
		Joins("JOIN branch_locations bl ON fi.branch_location_id = bl.id").
		Where("bl.country_id = ? AND bl.branch_id = ?", countryID, branchID).
		Order("fi.id").
		Scan(&out).Error
	return out, err
}

// Item returns the full row for id.
func (s *GormStore) Item(ctx context.Context, id uint64) (item model.FoodItem, err error) {
	defer s.observe("item", time.Now(), &err)
	err = s.db.WithContext(ctx).Where("id = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// A miss is an answer, not a store failure.
		return model.FoodItem{}, ErrNotFound
	}
	return item, err
}

// CreateItem inserts item and returns the store-assigned id.
func (s *GormStore) CreateItem(ctx context.Context, item model.FoodItem) (id uint64, err error) {
	defer s.observe("create_item", time.Now(), &err)
	item.ID = 0
	if err = s.db.WithContext(ctx).Create(&item).Error; err != nil {
		return 0, err
	}
	return item.ID, nil
}

// DeleteItem removes the row for id and reports how many rows went away.
func (s *GormStore) DeleteItem(ctx context.Context, id uint64) (n int64, err error) {
	defer s.observe("delete_item", time.Now(), &err)
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FoodItem{})
	return res.RowsAffected, res.Error
}

func (s *GormStore) observe(op string, start time.Time, errp *error) {
	var err error
	if errp != nil && !errors.Is(*errp, ErrNotFound) {
		err = *errp
	}
	metrics.RecordStoreQuery(op, float64(time.Since(start).Nanoseconds())/nanosecondsPerMillisecond, err)
}
