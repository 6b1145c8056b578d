package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"finance_backend/internal/app/di"
	"finance_backend/internal/app/router"
	"finance_backend/internal/platform/config"
	"finance_backend/internal/platform/db"
	infraredis "finance_backend/internal/platform/redis"
	"finance_backend/internal/shared/ratelimiter"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// db
	gormDB, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Redis（レートリミット用、未設定なら制限なしで稼働）
	rdb, err := infraredis.NewRedisClient(cfg)
	if err != nil {
		slog.Warn("Redis unavailable, running without rate limiting", "error", err)
		rdb = nil
	}
	if rdb != nil {
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}
	limiter := ratelimiter.NewLimiter(rdb, cfg.RateLimitPerMinute, time.Minute)

	// APIキー未設定の注意喚起（Parameter Store側にあれば実行時に解決される）
	if cfg.YFAPIKey == "" {
		slog.Warn("YFAPI_API_KEY is not set, relying on Parameter Store for the upstream API key")
	}

	marketH := di.NewMarketHandler(context.Background(), cfg, gormDB)

	r := router.NewRouter(marketH, limiter)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
