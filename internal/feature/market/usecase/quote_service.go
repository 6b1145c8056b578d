package usecase

import (
	"context"
	"time"

	"finance_backend/internal/feature/market/domain/entity"
)

// QuoteResult は1回のクォートリクエストに対する統合レスポンスです。
// Symbols にはリクエストされた正規化済み銘柄を、Quotes には解決できた
// クォートをリクエスト順で保持します。
type QuoteResult struct {
	Symbols      []string       `json:"symbols"`
	Region       string         `json:"region"`
	Language     string         `json:"language"`
	Quotes       []entity.Quote `json:"quotes"`
	Timestamp    time.Time      `json:"timestamp"`
	ErrorMessage string         `json:"errorMessage,omitempty"` // 上流が報告した部分的な失敗（致命的ではない）
}

// TrendingResult は1リージョンのトレンド銘柄リストのレスポンスです。
type TrendingResult struct {
	Region        string                 `json:"region"`
	Stocks        []entity.TrendingStock `json:"stocks"`
	Count         int                    `json:"count"`
	Timestamp     time.Time              `json:"timestamp"`
	JobTimestamp  *int64                 `json:"jobTimestamp,omitempty"`
	StartInterval *int64                 `json:"startInterval,omitempty"`
}

// QuoteProvider は株価データの取得サービスを抽象化します。
// 直接上流APIを呼ぶ実装と、それをラップするキャッシュ実装の2つが存在し、
// 構築時に合成されます（デコレータパターン）。
// Goの慣例に従い、インターフェースは利用者側で定義します。
type QuoteProvider interface {
	// GetQuotes は指定された銘柄のクォートをまとめて取得します。
	GetQuotes(ctx context.Context, symbols []string, region, language string) (*QuoteResult, error)
	// GetTrending はリージョンのトレンド銘柄リストを取得します。
	GetTrending(ctx context.Context, region string) (*TrendingResult, error)
	// SupportedRegions は対応リージョンの一覧を返します。
	SupportedRegions() []string
}

// QuoteStore は有効期限付きキャッシュレコードの永続化層を抽象化します。
// 書き込みは追記型で、読み取りは now 時点で有効なレコードだけを返します。
type QuoteStore interface {
	// GetFreshQuote は銘柄+リージョンの最新の有効レコードを返します。
	// 有効なレコードがない場合は (nil, nil) を返します。
	GetFreshQuote(ctx context.Context, symbol, region string, now time.Time) (*entity.Quote, error)
	// GetFreshTrending はリージョンの有効なトレンドレコードをランク順に最大 limit 件返します。
	GetFreshTrending(ctx context.Context, region string, now time.Time, limit int) ([]entity.TrendingStock, error)
	// SaveQuote はクォートを有効期限付きで追記します。
	SaveQuote(ctx context.Context, quote entity.Quote, region string, now time.Time) error
	// SaveTrending はトレンドリスト全体をリスト順のランク付きで追記します。
	SaveTrending(ctx context.Context, stocks []entity.TrendingStock, region string, now time.Time) error
}

// TelemetrySink はリクエストテレメトリの記録先を抽象化します。
// 記録の失敗が呼び出し元の結果に影響してはいけません。
type TelemetrySink interface {
	Record(ctx context.Context, t entity.RequestTelemetry) error
}
