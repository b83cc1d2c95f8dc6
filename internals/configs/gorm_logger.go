package configs

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"
)

// =======================
// GORM LOGGER CUSTOM
// =======================

// GormLogger routes GORM output through logrus.
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger(level string) gormLogger.Interface {
	l := &GormLogger{SlowThreshold: 200 * time.Millisecond, LogLevel: gormLogger.Warn}
	if level == "debug" || level == "trace" {
		l.LogLevel = gormLogger.Info
	}
	return l
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Info {
		log.WithContext(ctx).Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Warn {
		log.WithContext(ctx).Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormLogger.Error {
		log.WithContext(ctx).Errorf(msg, data...)
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormLogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	entry := log.WithContext(ctx).WithFields(log.Fields{
		"file":    utils.FileWithLineNum(),
		"elapsed": elapsed.String(),
		"rows":    rows,
	})

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.LogLevel >= gormLogger.Error:
		entry.WithError(err).Error(sql)
	case elapsed > l.SlowThreshold && l.LogLevel >= gormLogger.Warn:
		entry.Warn("slow sql: " + sql)
	case l.LogLevel >= gormLogger.Info:
		entry.Debug(sql)
	}
}
