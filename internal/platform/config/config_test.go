package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_Defaults は環境変数未設定時のデフォルト値を検証します。
func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "3306", cfg.DBPort)
	assert.Equal(t, "https://yfapi.net", cfg.YFAPIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.YFAPITimeout)
	assert.Equal(t, "/finance_backend/yfapi/api_key", cfg.SSMParameterName)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.False(t, cfg.RunMigrations)
}

// TestLoad_EnvOverrides は環境変数がデフォルトを上書きすることを検証します。
func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_NAME", "finance")
	t.Setenv("RUN_MIGRATIONS", "true")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")
	t.Setenv("YFAPI_API_KEY", "static-key")
	t.Setenv("YFAPI_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "app", cfg.DBUser)
	assert.Equal(t, "db.internal", cfg.DBHost)
	assert.True(t, cfg.RunMigrations)
	assert.Equal(t, "redis.internal:6379", cfg.RedisAddr)
	assert.Equal(t, "static-key", cfg.YFAPIKey)
	assert.Equal(t, 3*time.Second, cfg.YFAPITimeout)
	assert.Equal(t, 120, cfg.RateLimitPerMinute)
}

// TestDSN はMySQL接続文字列の組み立てを検証します。
func TestDSN(t *testing.T) {
	cfg := &Config{
		DBUser:     "app",
		DBPassword: "secret",
		DBHost:     "localhost",
		DBPort:     "3306",
		DBName:     "finance",
	}

	expected := "app:secret@tcp(localhost:3306)/finance?charset=utf8mb4&parseTime=true&loc=Local"
	assert.Equal(t, expected, cfg.DSN())
}
