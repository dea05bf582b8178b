package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"servicedirectory/internal/config"
	"servicedirectory/internal/storage"
)

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	t.Run("reachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		core, logs := observer.New(zapcore.WarnLevel)

		c := OpenCache(ctx, &config.Config{RedisAddr: mr.Addr()}, zap.New(core))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		assert.True(t, mr.Exists("k"))
		assert.Zero(t, logs.Len())
	})

	t.Run("unreachable is logged, not fatal", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()

		c := OpenCache(ctx, &config.Config{RedisAddr: "127.0.0.1:1"}, zap.New(core))
		defer c.Close()

		require.NotNil(t, c)
		assert.Equal(t, 1, logs.FilterMessage("redis unavailable, caching and sessions degraded").Len())
	})
}

func TestOpenStorage_Local(t *testing.T) {
	store, err := OpenStorage(context.Background(), &config.Config{StorageType: "local", StorageLocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.LocalStorage{}, store)
}
