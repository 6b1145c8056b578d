// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health はロードバランサー向けの /healthz エンドポイントを処理します。
// DBや上流APIには触れない純粋な死活確認です（依存込みの確認は /api/market/health）。
func Health(c *gin.Context) {
	// 死活確認の結果はキャッシュさせない
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "finance_backend"})
	}
}
