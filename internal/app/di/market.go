// Package di provides dependency injection factories for creating application components.
package di

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"finance_backend/internal/feature/market/adapters"
	"finance_backend/internal/feature/market/adapters/yhfinance"
	markethandler "finance_backend/internal/feature/market/transport/handler"
	marketdto "finance_backend/internal/feature/market/transport/http/dto"
	"finance_backend/internal/feature/market/usecase"
	"finance_backend/internal/platform/config"
	platformhttp "finance_backend/internal/platform/http"
	"finance_backend/internal/platform/secrets"
)

// NewMarketHandler creates the fully wired market handler: the upstream
// client with its API key chain, the read-through cache around it, and the
// telemetry sink, all backed by the given database.
func NewMarketHandler(ctx context.Context, cfg *config.Config, db *gorm.DB) *markethandler.MarketHandler {
	// API key resolution: Parameter Store first, configuration fallback second.
	var paramStore secrets.KeySource
	if ssmClient, err := secrets.NewSSMClient(ctx); err != nil {
		slog.Warn("SSM client unavailable, using configuration fallback only", "error", err)
	} else {
		paramStore = secrets.NewParameterStore(ssmClient, cfg.SSMParameterName)
	}

	keys := secrets.Chain{}
	if paramStore != nil {
		keys = append(keys, paramStore)
	}
	keys = append(keys, secrets.Static(cfg.YFAPIKey))

	httpClient := platformhttp.NewHTTPClient(cfg.YFAPITimeout)
	upstream := yhfinance.NewClient(yhfinance.Config{
		BaseURL: cfg.YFAPIBaseURL,
		Timeout: cfg.YFAPITimeout,
	}, httpClient, keys)

	store := adapters.NewQuoteStore(db)
	svc := usecase.NewCachedQuoteService(upstream, store, store)

	limits := marketdto.RateLimit{
		RequestsPerMinute: cfg.RateLimitPerMinute,
		RequestsPerHour:   cfg.RateLimitPerMinute * 60,
		RequestsPerDay:    cfg.RateLimitPerMinute * 60 * 24,
		BurstLimit:        cfg.RateLimitPerMinute,
	}

	return markethandler.NewMarketHandler(svc, paramStore, cfg.SSMParameterName, limits)
}
