// Package ratelimiter はRedisを用いたクライアント単位の固定ウィンドウ
// レートリミットを提供します。
package ratelimiter

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "ratelimit:"

// Limiter はクライアントごとのリクエスト数をウィンドウ単位で制限します。
type Limiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewLimiter は新しいLimiterのインスタンスを生成します。
// rdbがnilの場合、制限は無効化され全リクエストが許可されます。
func NewLimiter(rdb *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{rdb: rdb, limit: limit, window: window}
}

// Allow はclientIDのカウンターをインクリメントし、上限以内かどうかを返します。
// 上限超過時は次のウィンドウまでの待ち時間も返します。
func (l *Limiter) Allow(ctx context.Context, clientID string) (bool, time.Duration, error) {
	if l == nil || l.rdb == nil || l.limit <= 0 {
		return true, 0, nil
	}

	key := keyPrefix + clientID
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	// 最初のリクエストでウィンドウの有効期限を設定
	if count == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, 0, err
		}
	}

	if count <= int64(l.limit) {
		return true, 0, nil
	}

	retryAfter, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil || retryAfter < 0 {
		retryAfter = l.window
	}
	return false, retryAfter, nil
}

// Middleware はレートリミットを適用するginミドルウェアを返します。
// Redisに到達できない場合はリクエストを通します（フェイルオープン）。
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter, err := l.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			slog.Warn("rate limit check failed, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			seconds := int(retryAfter.Round(time.Second) / time.Second)
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code":    "RATE_LIMIT_EXCEEDED",
					"message": "too many requests, try again later",
				},
				"timestamp": time.Now().UTC(),
			})
			return
		}
		c.Next()
	}
}
