package redis

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"finance_backend/internal/platform/config"
)

// NewRedisClient は設定に従ってRedisへ接続し、疎通確認まで行います。
// アドレスが未設定の場合は(nil, nil)を返し、呼び出し側はRedis依存の機能
// （レートリミットなど）を無効化して動作を続けます。
func NewRedisClient(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		slog.Info("Redis address not configured, rate limiting disabled")
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	// 接続確認
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.RedisAddr, "error", err)
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.RedisAddr)
	return rdb, nil
}
