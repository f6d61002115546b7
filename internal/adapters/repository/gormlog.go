package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/nutrilookup/pkg/logger"
)

// gormLog adapts logger.Logger to gorm's logger interface. Statements are
// traced at debug level, slow ones at warn, failures at error.
type gormLog struct {
	log           logger.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLog(l logger.Logger, slow time.Duration) *gormLog {
	return &gormLog{log: l, level: gormlogger.Info, slowThreshold: slow}
}

func (g *gormLog) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *g
	cp.level = level
	return &cp
}

func (g *gormLog) Info(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Info {
		g.log.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Warn(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Warn {
		g.log.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Error(ctx context.Context, msg string, args ...interface{}) {
	if g.level >= gormlogger.Error {
		g.log.Error(ctx, fmt.Sprintf(msg, args...))
	}
}

func (g *gormLog) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && g.level >= gormlogger.Error:
		sql, rows := fc()
		g.log.Error(ctx, "sql failed",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed),
			logger.Error(err))
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= gormlogger.Warn:
		sql, rows := fc()
		g.log.Warn(ctx, "slow sql",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed),
			logger.Duration("threshold", g.slowThreshold))
	case g.level >= gormlogger.Info:
		sql, rows := fc()
		g.log.Debug(ctx, "sql",
			logger.String("sql", sql),
			logger.Any("rows", rows),
			logger.Duration("elapsed", elapsed))
	}
}
