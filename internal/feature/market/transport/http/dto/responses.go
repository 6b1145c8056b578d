package dto

import (
	"time"

	"finance_backend/internal/feature/market/domain/entity"
)

// ErrorDetails はエラーレスポンスの詳細です。
type ErrorDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse は全エンドポイント共通のエラーレスポンスです。
type ErrorResponse struct {
	Error     ErrorDetails `json:"error"`
	Timestamp time.Time    `json:"timestamp"`
}

// MarketIndex は市場サマリーに含まれる1指数のデータです。
type MarketIndex struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	MarketState   string   `json:"marketState,omitempty"`
	MarketTime    *int64   `json:"marketTime,omitempty"`
}

// MarketSummaryResponse は GET /api/market/market-summary/:region のレスポンスです。
type MarketSummaryResponse struct {
	Region       string        `json:"region"`
	Language     string        `json:"language"`
	Indices      []MarketIndex `json:"indices"`
	Timestamp    time.Time     `json:"timestamp"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
}

// CurrencyExchangeResponse は GET /api/market/currency-exchange のレスポンスです。
type CurrencyExchangeResponse struct {
	FromCurrency  string    `json:"fromCurrency"`
	ToCurrency    string    `json:"toCurrency"`
	Symbol        string    `json:"symbol"`
	ExchangeRate  *float64  `json:"exchangeRate,omitempty"`
	Change        *float64  `json:"change,omitempty"`
	ChangePercent *float64  `json:"changePercent,omitempty"`
	LastUpdate    *int64    `json:"lastUpdate,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
}

// CryptoData は1暗号資産のデータです。
type CryptoData struct {
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name,omitempty"`
	Price         *float64 `json:"price,omitempty"`
	Change        *float64 `json:"change,omitempty"`
	ChangePercent *float64 `json:"changePercent,omitempty"`
	Currency      string   `json:"currency,omitempty"`
	MarketCap     *int64   `json:"marketCap,omitempty"`
	Volume24h     *int64   `json:"volume24h,omitempty"`
	High24h       *float64 `json:"high24h,omitempty"`
	Low24h        *float64 `json:"low24h,omitempty"`
	MarketState   string   `json:"marketState,omitempty"`
	LastUpdate    *int64   `json:"lastUpdate,omitempty"`
}

// CryptoResponse は GET /api/market/crypto のレスポンスです。
type CryptoResponse struct {
	Symbols      []string     `json:"symbols"`
	Currency     string       `json:"currency"`
	CryptoQuotes []CryptoData `json:"cryptoQuotes"`
	Timestamp    time.Time    `json:"timestamp"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
}

// QuoteGroup は一括クォートの1グループの結果です。
type QuoteGroup struct {
	GroupName    string         `json:"groupName"`
	Quotes       []entity.Quote `json:"quotes"`
	SuccessCount int            `json:"successCount"`
	ErrorCount   int            `json:"errorCount"`
	Errors       []string       `json:"errors,omitempty"`
}

// BulkQuoteResponse は POST /api/market/bulk-quotes のレスポンスです。
type BulkQuoteResponse struct {
	Region           string       `json:"region"`
	Language         string       `json:"language"`
	QuoteGroups      []QuoteGroup `json:"quoteGroups"`
	Timestamp        time.Time    `json:"timestamp"`
	TotalSymbols     int          `json:"totalSymbols"`
	SuccessfulQuotes int          `json:"successfulQuotes"`
	FailedQuotes     int          `json:"failedQuotes"`
	Errors           []string     `json:"errors,omitempty"`
}

// HealthResponse は GET /api/market/health のレスポンスです。
type HealthResponse struct {
	Service            string    `json:"service"`
	Status             string    `json:"status"`
	APIKeyConfigured   bool      `json:"apiKeyConfigured"`
	APIKeySource       string    `json:"apiKeySource"`
	ParameterStorePath string    `json:"parameterStorePath"`
	SupportedRegions   []string  `json:"supportedRegions"`
	Timestamp          time.Time `json:"timestamp"`
	Message            string    `json:"message"`
	AvailableEndpoints []string  `json:"availableEndpoints"`
}

// RateLimit はAPIのレート制限情報です。
type RateLimit struct {
	RequestsPerMinute int `json:"requestsPerMinute"`
	RequestsPerHour   int `json:"requestsPerHour"`
	RequestsPerDay    int `json:"requestsPerDay"`
	BurstLimit        int `json:"burstLimit"`
}

// CapabilitiesResponse は GET /api/market/capabilities のレスポンスです。
type CapabilitiesResponse struct {
	AvailableEndpoints  []string  `json:"availableEndpoints"`
	SupportedRegions    []string  `json:"supportedRegions"`
	SupportedLanguages  []string  `json:"supportedLanguages"`
	SupportedAssetTypes []string  `json:"supportedAssetTypes"`
	RateLimits          RateLimit `json:"rateLimits"`
	Timestamp           time.Time `json:"timestamp"`
	APIVersion          string    `json:"apiVersion"`
}
