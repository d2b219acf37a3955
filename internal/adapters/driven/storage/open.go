// Package storage selects the draft store backend named by settings.
package storage

import (
	"context"
	"fmt"

	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/memory"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/redis"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/s3"
	"github.com/enplussmartenergy/erp-sub001/internal/adapters/driven/storage/sqlite"
	"github.com/enplussmartenergy/erp-sub001/internal/core/domain"
	"github.com/enplussmartenergy/erp-sub001/internal/core/ports/driven"
)

// Open returns the draft store configured by cfg.
func Open(ctx context.Context, cfg domain.StorageSettings) (driven.DraftStore, error) {
	switch cfg.Driver {
	case domain.StorageMemory:
		return memory.NewDraftStore(), nil
	case domain.StorageSQLite, "":
		return sqlite.NewStore(cfg.SQLiteDir)
	case domain.StorageRedis:
		return redis.New(ctx, redis.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.KeyPrefix,
		})
	case domain.StorageS3:
		return s3.New(ctx, s3.Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			PathStyle: cfg.S3PathStyle,
			Prefix:    cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", domain.ErrStorageUnavailable, cfg.Driver)
	}
}
