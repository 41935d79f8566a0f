package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PoolConfig sizes the connection pool. Zero fields take the defaults.
type PoolConfig struct {
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

var defaultPool = PoolConfig{
	MaxIdleConns:    10,
	MaxOpenConns:    50,
	ConnMaxLifetime: time.Hour,
}

type Option func(*options)

type options struct {
	pool     PoolConfig
	logLevel logger.LogLevel
}

func WithPool(pool PoolConfig) Option {
	return func(o *options) {
		if pool.MaxIdleConns > 0 {
			o.pool.MaxIdleConns = pool.MaxIdleConns
		}
		if pool.MaxOpenConns > 0 {
			o.pool.MaxOpenConns = pool.MaxOpenConns
		}
		if pool.ConnMaxLifetime > 0 {
			o.pool.ConnMaxLifetime = pool.ConnMaxLifetime
		}
	}
}

// WithLogLevel overrides the SQL log level; GORM_LOG_LEVEL sets the default.
func WithLogLevel(level logger.LogLevel) Option {
	return func(o *options) { o.logLevel = level }
}

// logLevelFromEnv maps GORM_LOG_LEVEL (silent, error, warn, info) to a level.
// Tool calls issue many small queries, so warn is the default.
func logLevelFromEnv() logger.LogLevel {
	switch os.Getenv("GORM_LOG_LEVEL") {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func newLogger(level logger.LogLevel) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             500 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true, // FindOne treats not found as (nil, nil)
			ParameterizedQueries:      true, // keep tenant data out of the SQL log
			Colorful:                  false,
		},
	)
}

// NewGormDBFromDSN opens postgres and sizes the pool.
func NewGormDBFromDSN(dsn string, opts ...Option) (*gorm.DB, error) {
	o := options{pool: defaultPool, logLevel: logLevelFromEnv()}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: newLogger(o.logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(o.pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(o.pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(o.pool.ConnMaxLifetime)

	return db, nil
}
