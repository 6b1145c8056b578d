// Package config loads application configuration from environment variables
// and an optional yaml file. Environment variables take precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the finance backend service.
type Config struct {
	// HTTP server
	Port string `mapstructure:"port"`

	// MySQL connection
	DBUser     string `mapstructure:"db_user"`
	DBPassword string `mapstructure:"db_password"`
	DBHost     string `mapstructure:"db_host"`
	DBPort     string `mapstructure:"db_port"`
	DBName     string `mapstructure:"db_name"`
	// RunMigrations enables AutoMigrate on startup.
	RunMigrations bool `mapstructure:"run_migrations"`

	// Redis (rate limiting); the service runs without limits when unset.
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`

	// Upstream YH Finance API
	YFAPIBaseURL string        `mapstructure:"yfapi_base_url"`
	YFAPIKey     string        `mapstructure:"yfapi_api_key"` // static fallback when Parameter Store has no key
	YFAPITimeout time.Duration `mapstructure:"yfapi_timeout"`

	// AWS SSM Parameter Store path holding the upstream API key.
	SSMParameterName string `mapstructure:"ssm_parameter_name"`

	// Per-client API rate limit (requests per minute). 0 disables limiting.
	RateLimitPerMinute int `mapstructure:"rate_limit_per_minute"`
}

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory or $HOME/.finance_backend.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("port", "8080")
	v.SetDefault("db_port", "3306")
	v.SetDefault("yfapi_base_url", "https://yfapi.net")
	v.SetDefault("yfapi_timeout", 10*time.Second)
	v.SetDefault("ssm_parameter_name", "/finance_backend/yfapi/api_key")
	v.SetDefault("rate_limit_per_minute", 60)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.finance_backend")
	// Config file is optional; env vars alone are enough.
	_ = v.ReadInConfig()

	for key, env := range map[string]string{
		"port":                  "PORT",
		"db_user":               "DB_USER",
		"db_password":           "DB_PASSWORD",
		"db_host":               "DB_HOST",
		"db_port":               "DB_PORT",
		"db_name":               "DB_NAME",
		"run_migrations":        "RUN_MIGRATIONS",
		"redis_addr":            "REDIS_ADDR",
		"redis_password":        "REDIS_PASSWORD",
		"yfapi_base_url":        "YFAPI_BASE_URL",
		"yfapi_api_key":         "YFAPI_API_KEY",
		"yfapi_timeout":         "YFAPI_TIMEOUT",
		"ssm_parameter_name":    "SSM_PARAMETER_NAME",
		"rate_limit_per_minute": "RATE_LIMIT_PER_MINUTE",
	} {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg, nil
}

// DSN builds the MySQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
