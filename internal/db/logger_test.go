package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"servicedirectory/internal/model"
)

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func TestLogger_Trace(t *testing.T) {
	fc := func() (string, int64) { return "SELECT 1", 0 }
	ctx := context.Background()

	t.Run("record not found is silent", func(t *testing.T) {
		log, logs := observedLogger()
		NewLogger(log).Trace(ctx, time.Now(), fc, gorm.ErrRecordNotFound)
		assert.Zero(t, logs.Len())
	})

	t.Run("query error is logged", func(t *testing.T) {
		log, logs := observedLogger()
		NewLogger(log).Trace(ctx, time.Now(), fc, errors.New("disk I/O error"))
		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "gorm", entry.LoggerName)
		assert.Equal(t, "SELECT 1", entry.ContextMap()["sql"])
	})

	t.Run("slow query is a warning", func(t *testing.T) {
		log, logs := observedLogger()
		NewLogger(log).Trace(ctx, time.Now().Add(-time.Second), fc, nil)
		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.WarnLevel, logs.All()[0].Level)
	})

	t.Run("silent mode logs nothing", func(t *testing.T) {
		log, logs := observedLogger()
		NewLogger(log).LogMode(gormlogger.Silent).Trace(ctx, time.Now(), fc, errors.New("boom"))
		assert.Zero(t, logs.Len())
	})
}

func TestNewSQLite_LookupMissIsNotLogged(t *testing.T) {
	log, logs := observedLogger()
	gormDB, err := NewSQLite(filepath.Join(t.TempDir(), "quiet.db"), log)
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	logs.TakeAll()

	var user model.User
	err = gormDB.Where("name = ?", "nobody").First(&user).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.Len())
}
