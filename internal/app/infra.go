package app

import (
	"context"

	"go.uber.org/zap"

	"servicedirectory/internal/cache"
	"servicedirectory/internal/config"
	"servicedirectory/internal/storage"
)

// OpenCache connects the Redis cache. An unreachable server is logged and
// the client is still returned; it behaves as an empty cache until Redis
// comes back.
func OpenCache(ctx context.Context, cfg *config.Config, logger *zap.Logger) *cache.Client {
	c := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := c.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, caching and sessions degraded",
			zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}
	return c
}

// OpenStorage builds the image store named by cfg.StorageType.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	return storage.NewStorage(ctx, storage.StorageConfig{
		Type:         storage.StorageType(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		S3Prefix:     cfg.S3Prefix,
		AWSAccessKey: cfg.AWSAccessKey,
		AWSSecretKey: cfg.AWSSecretKey,
	})
}
