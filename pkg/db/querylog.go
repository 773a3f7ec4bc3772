package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/supplyhub-backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// queryLogger routes gorm's own logging through the service logger. Failed
// statements log at error and slow ones at warn. Everything else, including
// not-found lookups and unique violations, logs at debug when the mode is Info.
type queryLogger struct {
	logg  *logger.Logger
	mode  gormlogger.LogLevel
	slow  time.Duration
	clock func() time.Time
}

func newQueryLogger(logg *logger.Logger, slow time.Duration) queryLogger {
	return queryLogger{logg: logg, mode: gormlogger.Warn, slow: slow, clock: time.Now}
}

func (q queryLogger) LogMode(mode gormlogger.LogLevel) gormlogger.Interface {
	q.mode = mode
	return q
}

func (q queryLogger) Info(ctx context.Context, msg string, args ...any) {
	if q.mode >= gormlogger.Info {
		q.logg.Info(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q queryLogger) Warn(ctx context.Context, msg string, args ...any) {
	if q.mode >= gormlogger.Warn {
		q.logg.Warn(ctx, fmt.Sprintf(msg, args...))
	}
}

func (q queryLogger) Error(ctx context.Context, msg string, args ...any) {
	if q.mode >= gormlogger.Error {
		q.logg.Error(ctx, fmt.Sprintf(msg, args...), nil)
	}
}

func (q queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if q.mode <= gormlogger.Silent {
		return
	}
	elapsed := q.clock().Sub(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && !IsUniqueViolation(err, "")
	slow := q.slow > 0 && elapsed > q.slow

	if !(failed && q.mode >= gormlogger.Error) && !(slow && q.mode >= gormlogger.Warn) && q.mode < gormlogger.Info {
		return
	}

	sql, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	switch {
	case failed && q.mode >= gormlogger.Error:
		q.logg.Error(ctx, "db.query_failed", err)
	case slow && q.mode >= gormlogger.Warn:
		q.logg.Warn(q.logg.WithField(ctx, "slow_threshold_ms", q.slow.Milliseconds()), "db.slow_query")
	default:
		q.logg.Debug(ctx, "db.query")
	}
}
