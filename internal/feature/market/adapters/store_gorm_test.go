package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/feature/market/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(Models()...)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func fptr(v float64) *float64 { return &v }
func iptr(v int64) *int64     { return &v }

// seedQuote は指定した観測時刻のクォートレコードを書き込みます。
func seedQuote(t *testing.T, store *quoteStoreGorm, symbol string, marketTime int64, savedAt time.Time) {
	t.Helper()

	q := entity.Quote{
		Symbol:             symbol,
		RegularMarketPrice: fptr(100 + float64(marketTime%100)),
		RegularMarketTime:  iptr(marketTime),
		Currency:           "USD",
	}
	require.NoError(t, store.SaveQuote(context.Background(), q, "US", savedAt), "failed to seed quote")
}

func TestNewQuoteStore(t *testing.T) {
	db := setupTestDB(t)

	store := NewQuoteStore(db)

	assert.NotNil(t, store, "store is nil")
	assert.NotNil(t, store.db, "database connection is nil")
}

func TestQuoteStore_GetFreshQuote(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh record is returned", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		seedQuote(t, store, "AAPL", now.Unix(), now)

		got, err := store.GetFreshQuote(context.Background(), "AAPL", "US", now.Add(5*time.Minute))

		require.NoError(t, err)
		require.NotNil(t, got, "expected a fresh quote")
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, "USD", got.Currency)
	})

	t.Run("expired record is a miss", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		seedQuote(t, store, "AAPL", now.Unix(), now)

		// クォートのTTLは15分。ちょうど期限切れの瞬間はミス扱い
		got, err := store.GetFreshQuote(context.Background(), "AAPL", "US", now.Add(domain.QuoteTTL))

		require.NoError(t, err)
		assert.Nil(t, got, "expected a miss at expiry")
	})

	t.Run("unknown symbol is a miss, not an error", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))

		got, err := store.GetFreshQuote(context.Background(), "MSFT", "US", now)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("region is part of the cache key", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		seedQuote(t, store, "AAPL", now.Unix(), now)

		got, err := store.GetFreshQuote(context.Background(), "AAPL", "GB", now.Add(time.Minute))

		require.NoError(t, err)
		assert.Nil(t, got, "a quote cached for US must not serve GB")
	})

	t.Run("most recent observation wins", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		older := now.Add(-10 * time.Minute)
		// 追記型: 同一キーに2世代のレコードが共存する
		seedQuote(t, store, "AAPL", older.Unix(), older)
		seedQuote(t, store, "AAPL", now.Unix(), now)

		got, err := store.GetFreshQuote(context.Background(), "AAPL", "US", now.Add(time.Minute))

		require.NoError(t, err)
		require.NotNil(t, got)
		require.NotNil(t, got.RegularMarketTime)
		assert.Equal(t, now.Unix(), *got.RegularMarketTime, "expected the newest observation")
	})
}

func TestQuoteStore_SaveQuote(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid until follows the quote TTL", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewQuoteStore(db)
		seedQuote(t, store, "AAPL", now.Unix(), now)

		var row QuoteModel
		require.NoError(t, db.First(&row).Error)
		assert.Equal(t, now.Add(domain.QuoteTTL).Unix(), row.CacheValidUntil.Unix())
	})

	t.Run("missing market time falls back to wall clock", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewQuoteStore(db)

		q := entity.Quote{Symbol: "^GSPC", RegularMarketPrice: fptr(5300)}
		require.NoError(t, store.SaveQuote(context.Background(), q, "US", now))

		var row QuoteModel
		require.NoError(t, db.First(&row).Error)
		assert.NotZero(t, row.QuoteTimestamp, "expected a fallback observation timestamp")
	})

	t.Run("round trip preserves optional fields", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		q := entity.Quote{
			Symbol:               "AAPL",
			RegularMarketPrice:   fptr(190.5),
			RegularMarketTime:    iptr(now.Unix()),
			MarketCap:            iptr(2_900_000_000_000),
			TrailingPE:           fptr(29.4),
			Currency:             "USD",
			MarketState:          "REGULAR",
			ShortName:            "Apple Inc.",
			ExchangeTimezoneName: "America/New_York",
		}
		require.NoError(t, store.SaveQuote(context.Background(), q, "US", now))

		got, err := store.GetFreshQuote(context.Background(), "AAPL", "US", now.Add(time.Minute))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, q, *got)
	})
}

func TestQuoteStore_Trending(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	stocks := []entity.TrendingStock{
		{Symbol: "NVDA", ShortName: "NVIDIA", Currency: "USD"},
		{Symbol: "TSLA", ShortName: "Tesla", Currency: "USD"},
		{Symbol: "AMD", ShortName: "AMD", Currency: "USD"},
	}

	t.Run("save and read back in rank order", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		require.NoError(t, store.SaveTrending(context.Background(), stocks, "US", now))

		got, err := store.GetFreshTrending(context.Background(), "US", now.Add(time.Minute), 50)

		require.NoError(t, err)
		assert.Equal(t, stocks, got, "expected the list back in rank order")
	})

	t.Run("limit caps the result", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		require.NoError(t, store.SaveTrending(context.Background(), stocks, "US", now))

		got, err := store.GetFreshTrending(context.Background(), "US", now.Add(time.Minute), 2)

		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "NVDA", got[0].Symbol)
		assert.Equal(t, "TSLA", got[1].Symbol)
	})

	t.Run("expired list is a miss", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		require.NoError(t, store.SaveTrending(context.Background(), stocks, "US", now))

		// トレンドのTTLは30分
		got, err := store.GetFreshTrending(context.Background(), "US", now.Add(domain.TrendingTTL), 50)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("other region does not leak", func(t *testing.T) {
		store := NewQuoteStore(setupTestDB(t))
		require.NoError(t, store.SaveTrending(context.Background(), stocks, "US", now))

		got, err := store.GetFreshTrending(context.Background(), "GB", now.Add(time.Minute), 50)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewQuoteStore(db)

		require.NoError(t, store.SaveTrending(context.Background(), nil, "US", now))

		var count int64
		require.NoError(t, db.Model(&TrendingModel{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("whole list shares one job timestamp", func(t *testing.T) {
		db := setupTestDB(t)
		store := NewQuoteStore(db)
		require.NoError(t, store.SaveTrending(context.Background(), stocks, "US", now))

		var rows []TrendingModel
		require.NoError(t, db.Order("trending_rank ASC").Find(&rows).Error)
		require.Len(t, rows, 3)
		for i, row := range rows {
			assert.Equal(t, i+1, row.TrendingRank)
			assert.Equal(t, now.Unix(), row.JobTimestamp)
			assert.Equal(t, now.Add(domain.TrendingTTL).Unix(), row.CacheValidUntil.Unix())
		}
	})
}

func TestQuoteStore_Record(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	store := NewQuoteStore(db)
	symbols := "AAPL,MSFT"

	err := store.Record(context.Background(), entity.RequestTelemetry{
		RequestID:      "3f1d9a6e-0000-0000-0000-000000000000",
		Endpoint:       "/api/market/quote",
		Method:         "GET",
		Symbols:        &symbols,
		Region:         "US",
		Language:       "en",
		StatusCode:     200,
		ResponseTimeMs: 12,
		CacheHit:       true,
	})

	require.NoError(t, err)

	var row RequestLogModel
	require.NoError(t, db.First(&row).Error)
	assert.Equal(t, "/api/market/quote", row.Endpoint)
	require.NotNil(t, row.Symbols)
	assert.Equal(t, symbols, *row.Symbols)
	assert.True(t, row.CacheHit)
	assert.Equal(t, 200, row.StatusCode)
}
