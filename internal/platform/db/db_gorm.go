package db

import (
	"fmt"
	"log/slog"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	"finance_backend/internal/feature/market/adapters"
	"finance_backend/internal/platform/config"
)

// Opener はDSNからgorm.DBを開く関数です。テストで差し替え可能にするために
// 注入ポイントとして公開しています。
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry はタイムアウトまで接続をリトライします。コンテナ起動直後は
// DBがまだ受け付けないことがあるため、3秒間隔で再試行します。
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying...", "error", err)
		time.Sleep(3 * time.Second)
	}
}

// Open は設定に従ってMySQLへ接続します。RunMigrationsが有効な場合は
// marketフィーチャーのモデルをマイグレーションします。
func Open(cfg *config.Config) (*gorm.DB, error) {
	open := func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gmysql.Open(dsn), &gorm.Config{})
	}

	db, err := ConnectWithRetry(cfg.DSN(), 60*time.Second, open)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := db.AutoMigrate(adapters.Models()...); err != nil {
			return nil, fmt.Errorf("failed to migrate: %w", err)
		}
	}

	return db, nil
}
