// Package adapters はmarketフィーチャーの永続化アダプタを提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/feature/market/domain/entity"
	"finance_backend/internal/feature/market/usecase"
)

type quoteStoreGorm struct {
	db *gorm.DB
}

var (
	_ usecase.QuoteStore    = (*quoteStoreGorm)(nil)
	_ usecase.TelemetrySink = (*quoteStoreGorm)(nil)
)

// NewQuoteStore はGORMベースのキャッシュストアを生成します。
// レコードは追記型で、cache_valid_until を過ぎたものは読み取り時に無視されます。
// 期限切れレコードの削除は運用側の仕事であり、ここでは行いません。
func NewQuoteStore(db *gorm.DB) *quoteStoreGorm {
	return &quoteStoreGorm{db: db}
}

// QuoteModel は stock_quotes テーブルの1行（1銘柄の1キャッシュレコード）です。
type QuoteModel struct {
	ID     uint   `gorm:"primaryKey"`
	Symbol string `gorm:"size:32;not null;index:idx_quote_lookup,priority:1"`
	Region string `gorm:"size:2;not null;index:idx_quote_lookup,priority:2"`

	// QuoteTimestamp は上流が報告した観測時刻（Unix秒）です。
	// 同一キーに複数レコードが存在するとき、最新の観測を選ぶために使います。
	QuoteTimestamp int64 `gorm:"not null"`

	RegularMarketPrice          *float64
	RegularMarketChange         *float64
	RegularMarketChangePercent  *float64
	RegularMarketTime           *int64
	RegularMarketDayHigh        *float64
	RegularMarketDayLow         *float64
	RegularMarketVolume         *int64
	RegularMarketPreviousClose  *float64
	Currency                    string `gorm:"size:8"`
	MarketState                 string `gorm:"size:16"`
	ShortName                   string `gorm:"size:128"`
	LongName                    string `gorm:"size:256"`
	Exchange                    string `gorm:"size:32"`
	ExchangeTimezoneName        string `gorm:"size:64"`
	ExchangeTimezoneShortName   string `gorm:"size:16"`
	QuoteType                   string `gorm:"size:32"`
	MarketCap                   *int64
	SharesOutstanding           *int64
	BookValue                   *float64
	PriceToBook                 *float64
	FiftyTwoWeekLow             *float64
	FiftyTwoWeekHigh            *float64
	FiftyDayAverage             *float64
	TwoHundredDayAverage        *float64
	TrailingPE                  *float64
	ForwardPE                   *float64
	DividendYield               *float64
	TrailingAnnualDividendYield *float64
	Beta                        *float64

	CacheValidUntil time.Time `gorm:"not null;index:idx_quote_lookup,priority:3"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (QuoteModel) TableName() string {
	return "stock_quotes"
}

// TrendingModel は trending_stocks テーブルの1行です。
// リージョンのリスト全体が同じ JobTimestamp で書き込まれ、まとめて期限切れになります。
type TrendingModel struct {
	ID     uint   `gorm:"primaryKey"`
	Region string `gorm:"size:2;not null;index:idx_trending_lookup,priority:1"`
	Symbol string `gorm:"size:32;not null"`

	ShortName                  string `gorm:"size:128"`
	LongName                   string `gorm:"size:256"`
	RegularMarketPrice         *float64
	RegularMarketChange        *float64
	RegularMarketChangePercent *float64
	Currency                   string `gorm:"size:8"`
	MarketState                string `gorm:"size:16"`
	Exchange                   string `gorm:"size:32"`
	QuoteType                  string `gorm:"size:32"`

	TrendingRank    int       `gorm:"not null"` // リスト内の順位 1..N
	JobTimestamp    int64     `gorm:"not null"` // 同一書き込みバッチの識別子（Unix秒）
	CacheValidUntil time.Time `gorm:"not null;index:idx_trending_lookup,priority:2"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TrendingModel) TableName() string {
	return "trending_stocks"
}

// RequestLogModel は api_requests テーブルの1行（リクエストテレメトリ）です。
type RequestLogModel struct {
	ID             uint      `gorm:"primaryKey"`
	RequestID      string    `gorm:"size:36;not null"`
	Endpoint       string    `gorm:"size:64;not null"`
	Method         string    `gorm:"size:8;not null"`
	Symbols        *string   `gorm:"size:256"`
	Region         string    `gorm:"size:2"`
	Language       string    `gorm:"size:2"`
	StatusCode     int
	ResponseTimeMs int
	CacheHit       bool
	CreatedAt      time.Time
}

func (RequestLogModel) TableName() string {
	return "api_requests"
}

// Models はマイグレーション対象のモデル一覧を返します。
func Models() []any {
	return []any{&QuoteModel{}, &TrendingModel{}, &RequestLogModel{}}
}

// GetFreshQuote は銘柄+リージョンの有効なレコードのうち観測時刻が最新のものを返します。
// 有効なレコードがなければ (nil, nil) を返します。
func (s *quoteStoreGorm) GetFreshQuote(ctx context.Context, symbol, region string, now time.Time) (*entity.Quote, error) {
	var row QuoteModel
	err := s.db.WithContext(ctx).
		Where("symbol = ? AND region = ? AND cache_valid_until > ?", symbol, region, now).
		Order("quote_timestamp DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	q := toQuote(row)
	return &q, nil
}

// SaveQuote はクォートを新しいキャッシュレコードとして追記します。
// 有効期限は鮮度ポリシーのTTLから計算します。
func (s *quoteStoreGorm) SaveQuote(ctx context.Context, quote entity.Quote, region string, now time.Time) error {
	row := toQuoteModel(quote, region)
	row.CacheValidUntil = domain.ValidUntil(domain.DataTypeQuote, now)
	return s.db.WithContext(ctx).Create(&row).Error
}

// GetFreshTrending はリージョンの有効なトレンドレコードをランク順（同ランクは新しい順）に
// 最大 limit 件返します。
func (s *quoteStoreGorm) GetFreshTrending(ctx context.Context, region string, now time.Time, limit int) ([]entity.TrendingStock, error) {
	var rows []TrendingModel
	err := s.db.WithContext(ctx).
		Where("region = ? AND cache_valid_until > ?", region, now).
		Order("trending_rank ASC").
		Order("job_timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]entity.TrendingStock, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTrending(row))
	}
	return out, nil
}

// SaveTrending はトレンドリスト全体を同一の JobTimestamp で追記します。
// ランクはリスト順に 1..N を割り当てます。
func (s *quoteStoreGorm) SaveTrending(ctx context.Context, stocks []entity.TrendingStock, region string, now time.Time) error {
	if len(stocks) == 0 {
		return nil
	}
	validUntil := domain.ValidUntil(domain.DataTypeTrending, now)
	job := now.Unix()
	rows := make([]TrendingModel, 0, len(stocks))
	for i, st := range stocks {
		row := toTrendingModel(st, region)
		row.TrendingRank = i + 1
		row.JobTimestamp = job
		row.CacheValidUntil = validUntil
		rows = append(rows, row)
	}
	return s.db.WithContext(ctx).Create(&rows).Error
}

// Record はリクエストテレメトリを追記します。
func (s *quoteStoreGorm) Record(ctx context.Context, t entity.RequestTelemetry) error {
	row := RequestLogModel{
		RequestID:      t.RequestID,
		Endpoint:       t.Endpoint,
		Method:         t.Method,
		Symbols:        t.Symbols,
		Region:         t.Region,
		Language:       t.Language,
		StatusCode:     t.StatusCode,
		ResponseTimeMs: t.ResponseTimeMs,
		CacheHit:       t.CacheHit,
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

func toQuoteModel(q entity.Quote, region string) QuoteModel {
	m := QuoteModel{
		Symbol:                      q.Symbol,
		Region:                      region,
		RegularMarketPrice:          q.RegularMarketPrice,
		RegularMarketChange:         q.RegularMarketChange,
		RegularMarketChangePercent:  q.RegularMarketChangePercent,
		RegularMarketTime:           q.RegularMarketTime,
		RegularMarketDayHigh:        q.RegularMarketDayHigh,
		RegularMarketDayLow:         q.RegularMarketDayLow,
		RegularMarketVolume:         q.RegularMarketVolume,
		RegularMarketPreviousClose:  q.RegularMarketPreviousClose,
		Currency:                    q.Currency,
		MarketState:                 q.MarketState,
		ShortName:                   q.ShortName,
		LongName:                    q.LongName,
		Exchange:                    q.Exchange,
		ExchangeTimezoneName:        q.ExchangeTimezoneName,
		ExchangeTimezoneShortName:   q.ExchangeTimezoneShortName,
		QuoteType:                   q.QuoteType,
		MarketCap:                   q.MarketCap,
		SharesOutstanding:           q.SharesOutstanding,
		BookValue:                   q.BookValue,
		PriceToBook:                 q.PriceToBook,
		FiftyTwoWeekLow:             q.FiftyTwoWeekLow,
		FiftyTwoWeekHigh:            q.FiftyTwoWeekHigh,
		FiftyDayAverage:             q.FiftyDayAverage,
		TwoHundredDayAverage:        q.TwoHundredDayAverage,
		TrailingPE:                  q.TrailingPE,
		ForwardPE:                   q.ForwardPE,
		DividendYield:               q.DividendYield,
		TrailingAnnualDividendYield: q.TrailingAnnualDividendYield,
		Beta:                        q.Beta,
	}
	// 観測時刻が上流から報告されない場合は保存時刻で代用
	if q.RegularMarketTime != nil {
		m.QuoteTimestamp = *q.RegularMarketTime
	} else {
		m.QuoteTimestamp = time.Now().Unix()
	}
	return m
}

func toQuote(m QuoteModel) entity.Quote {
	return entity.Quote{
		Symbol:                      m.Symbol,
		RegularMarketPrice:          m.RegularMarketPrice,
		RegularMarketChange:         m.RegularMarketChange,
		RegularMarketChangePercent:  m.RegularMarketChangePercent,
		RegularMarketTime:           m.RegularMarketTime,
		RegularMarketDayHigh:        m.RegularMarketDayHigh,
		RegularMarketDayLow:         m.RegularMarketDayLow,
		RegularMarketVolume:         m.RegularMarketVolume,
		RegularMarketPreviousClose:  m.RegularMarketPreviousClose,
		Currency:                    m.Currency,
		MarketState:                 m.MarketState,
		ShortName:                   m.ShortName,
		LongName:                    m.LongName,
		Exchange:                    m.Exchange,
		ExchangeTimezoneName:        m.ExchangeTimezoneName,
		ExchangeTimezoneShortName:   m.ExchangeTimezoneShortName,
		QuoteType:                   m.QuoteType,
		MarketCap:                   m.MarketCap,
		SharesOutstanding:           m.SharesOutstanding,
		BookValue:                   m.BookValue,
		PriceToBook:                 m.PriceToBook,
		FiftyTwoWeekLow:             m.FiftyTwoWeekLow,
		FiftyTwoWeekHigh:            m.FiftyTwoWeekHigh,
		FiftyDayAverage:             m.FiftyDayAverage,
		TwoHundredDayAverage:        m.TwoHundredDayAverage,
		TrailingPE:                  m.TrailingPE,
		ForwardPE:                   m.ForwardPE,
		DividendYield:               m.DividendYield,
		TrailingAnnualDividendYield: m.TrailingAnnualDividendYield,
		Beta:                        m.Beta,
	}
}

func toTrendingModel(t entity.TrendingStock, region string) TrendingModel {
	return TrendingModel{
		Region:                     region,
		Symbol:                     t.Symbol,
		ShortName:                  t.ShortName,
		LongName:                   t.LongName,
		RegularMarketPrice:         t.RegularMarketPrice,
		RegularMarketChange:        t.RegularMarketChange,
		RegularMarketChangePercent: t.RegularMarketChangePercent,
		Currency:                   t.Currency,
		MarketState:                t.MarketState,
		Exchange:                   t.Exchange,
		QuoteType:                  t.QuoteType,
	}
}

func toTrending(m TrendingModel) entity.TrendingStock {
	return entity.TrendingStock{
		Symbol:                     m.Symbol,
		ShortName:                  m.ShortName,
		LongName:                   m.LongName,
		RegularMarketPrice:         m.RegularMarketPrice,
		RegularMarketChange:        m.RegularMarketChange,
		RegularMarketChangePercent: m.RegularMarketChangePercent,
		Currency:                   m.Currency,
		MarketState:                m.MarketState,
		Exchange:                   m.Exchange,
		QuoteType:                  m.QuoteType,
	}
}
