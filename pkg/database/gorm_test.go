package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestWithPool_KeepsDefaultsForZeroFields(t *testing.T) {
	o := options{pool: defaultPool}
	WithPool(PoolConfig{MaxOpenConns: 8})(&o)

	assert.Equal(t, 8, o.pool.MaxOpenConns)
	assert.Equal(t, defaultPool.MaxIdleConns, o.pool.MaxIdleConns)
	assert.Equal(t, time.Hour, o.pool.ConnMaxLifetime)
}

func TestLogLevelFromEnv(t *testing.T) {
	tests := []struct {
		raw  string
		want logger.LogLevel
	}{
		{"", logger.Warn},
		{"silent", logger.Silent},
		{"error", logger.Error},
		{"info", logger.Info},
		{"verbose", logger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Setenv("GORM_LOG_LEVEL", tt.raw)
			assert.Equal(t, tt.want, logLevelFromEnv())
		})
	}
}
