package router

import (
	"github.com/gin-gonic/gin"

	markethandler "finance_backend/internal/feature/market/transport/handler"
	"finance_backend/internal/platform/http/handler"
	"finance_backend/internal/shared/ratelimiter"
)

func NewRouter(market *markethandler.MarketHandler, limiter *ratelimiter.Limiter) *gin.Engine {
	r := gin.Default()

	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)

	// マーケットAPI（クライアント単位のレートリミット付き）
	api := r.Group("/api/market")
	api.Use(limiter.Middleware())
	{
		api.GET("/quote", market.GetQuote)
		api.POST("/quote", market.PostQuote)
		api.GET("/trending/:region", market.GetTrending)
		api.GET("/market-summary/:region", market.GetMarketSummary)
		api.GET("/currency-exchange/:from/:to", market.GetCurrencyExchange)
		api.GET("/crypto", market.GetCrypto)
		api.POST("/bulk-quotes", market.PostBulkQuotes)
		api.GET("/capabilities", market.GetCapabilities)
		api.GET("/health", market.GetHealth)
	}

	return r
}
