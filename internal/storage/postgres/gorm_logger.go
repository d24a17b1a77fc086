package postgres

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowQueryThreshold = 200 * time.Millisecond

// gormLogger пробрасывает события ORM в logrus.
type gormLogger struct {
	entry         *log.Entry
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(entry *log.Entry) gormlogger.Interface {
	return &gormLogger{
		entry:         entry,
		level:         gormlogger.Warn,
		slowThreshold: defaultSlowQueryThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.entry.Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.entry.Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.entry.Errorf(msg, args...)
	}
}

// Trace логирует запросы: ошибки всегда, медленные — как warning, остальные — в debug.
func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gormlogger.ErrRecordNotFound):
		query, rows := fc()
		l.entry.WithError(err).WithFields(log.Fields{
			"sql":        query,
			"rows":       rows,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Error("sql query failed")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		query, rows := fc()
		l.entry.WithFields(log.Fields{
			"sql":        query,
			"rows":       rows,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Warn("slow sql query")
	case l.level >= gormlogger.Info:
		query, rows := fc()
		l.entry.WithFields(log.Fields{
			"sql":        query,
			"rows":       rows,
			"elapsed_ms": elapsed.Milliseconds(),
		}).Debug("sql query")
	}
}
