// Package handler はmarketフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/feature/market/transport/http/dto"
	"finance_backend/internal/feature/market/usecase"
	"finance_backend/internal/platform/secrets"
)

// QuoteService は株価データ取得サービスのインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type QuoteService interface {
	GetQuotes(ctx context.Context, symbols []string, region, language string) (*usecase.QuoteResult, error)
	GetTrending(ctx context.Context, region string) (*usecase.TrendingResult, error)
	SupportedRegions() []string
}

// availableEndpoints はヘルス/ケイパビリティレスポンスに載せるエンドポイント一覧です。
var availableEndpoints = []string{
	"GET /api/market/quote?symbols={symbols}&region={region}&lang={lang}",
	"POST /api/market/quote",
	"GET /api/market/trending/{region}",
	"GET /api/market/market-summary/{region}",
	"GET /api/market/currency-exchange/{fromCurrency}/{toCurrency}",
	"GET /api/market/crypto?symbols={symbols}&currency={currency}",
	"POST /api/market/bulk-quotes",
	"GET /api/market/capabilities",
	"GET /api/market/health",
}

// regionIndices はリージョンごとの代表的な指数シンボルです。
// 市場サマリーはこれらをクォートパス経由で取得するため、キャッシュの恩恵を
// そのまま受けます。
var regionIndices = map[string][]dto.MarketIndex{
	"US": {{Symbol: "^GSPC", Name: "S&P 500"}, {Symbol: "^DJI", Name: "Dow Jones Industrial Average"}, {Symbol: "^IXIC", Name: "NASDAQ Composite"}},
	"AU": {{Symbol: "^AXJO", Name: "S&P/ASX 200"}},
	"CA": {{Symbol: "^GSPTSE", Name: "S&P/TSX Composite"}},
	"FR": {{Symbol: "^FCHI", Name: "CAC 40"}},
	"DE": {{Symbol: "^GDAXI", Name: "DAX"}},
	"HK": {{Symbol: "^HSI", Name: "Hang Seng Index"}},
	"IT": {{Symbol: "FTSEMIB.MI", Name: "FTSE MIB"}},
	"ES": {{Symbol: "^IBEX", Name: "IBEX 35"}},
	"GB": {{Symbol: "^FTSE", Name: "FTSE 100"}},
	"IN": {{Symbol: "^BSESN", Name: "S&P BSE SENSEX"}, {Symbol: "^NSEI", Name: "NIFTY 50"}},
}

// MarketHandler は株価・トレンド・派生エンドポイントのHTTPリクエストを処理します。
type MarketHandler struct {
	svc        QuoteService
	paramStore secrets.KeySource // Parameter Store側のキーソース（ヘルスチェック用、nil可）
	paramName  string
	limits     dto.RateLimit
}

// NewMarketHandler は指定されたサービスでMarketHandlerの新しいインスタンスを生成します。
func NewMarketHandler(svc QuoteService, paramStore secrets.KeySource, paramName string, limits dto.RateLimit) *MarketHandler {
	return &MarketHandler{svc: svc, paramStore: paramStore, paramName: paramName, limits: limits}
}

// GetQuote は GET /api/market/quote を処理します。
//
// エンドポイント例:
// GET /api/market/quote?symbols=AAPL,MSFT&region=US&lang=en
func (h *MarketHandler) GetQuote(c *gin.Context) {
	symbols := strings.Split(c.Query("symbols"), ",")
	region := c.DefaultQuery("region", usecase.DefaultRegion)
	lang := c.DefaultQuery("lang", usecase.DefaultLanguage)

	result, err := h.svc.GetQuotes(c.Request.Context(), symbols, region, lang)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostQuote は POST /api/market/quote を処理します。
func (h *MarketHandler) PostQuote(c *gin.Context) {
	var body dto.QuoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.renderError(c, domain.NewValidation("invalid request body: %v", err))
		return
	}

	result, err := h.svc.GetQuotes(c.Request.Context(), strings.Split(body.Symbols, ","), body.Region, body.Language)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetTrending は GET /api/market/trending/:region を処理します。
func (h *MarketHandler) GetTrending(c *gin.Context) {
	result, err := h.svc.GetTrending(c.Request.Context(), c.Param("region"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMarketSummary は GET /api/market/market-summary/:region を処理します。
// リージョンの代表指数をクォートパス経由で取得して組み立てます。
func (h *MarketHandler) GetMarketSummary(c *gin.Context) {
	region := usecase.NormalizeRegion(c.Param("region"))
	lang := c.DefaultQuery("lang", usecase.DefaultLanguage)

	indices, ok := regionIndices[region]
	if !ok {
		h.renderError(c, domain.NewValidation("unsupported region %q", region))
		return
	}

	symbols := make([]string, 0, len(indices))
	for _, idx := range indices {
		symbols = append(symbols, idx.Symbol)
	}

	result, err := h.svc.GetQuotes(c.Request.Context(), symbols, region, lang)
	if err != nil {
		h.renderError(c, err)
		return
	}

	out := make([]dto.MarketIndex, 0, len(indices))
	for _, idx := range indices {
		entry := dto.MarketIndex{Symbol: idx.Symbol, Name: idx.Name}
		for _, q := range result.Quotes {
			if q.Symbol != idx.Symbol {
				continue
			}
			entry.Price = q.RegularMarketPrice
			entry.Change = q.RegularMarketChange
			entry.ChangePercent = q.RegularMarketChangePercent
			entry.Currency = q.Currency
			entry.MarketState = q.MarketState
			entry.MarketTime = q.RegularMarketTime
			break
		}
		out = append(out, entry)
	}

	c.JSON(http.StatusOK, dto.MarketSummaryResponse{
		Region:       region,
		Language:     result.Language,
		Indices:      out,
		Timestamp:    time.Now().UTC(),
		ErrorMessage: result.ErrorMessage,
	})
}

// GetCurrencyExchange は GET /api/market/currency-exchange/:from/:to を処理します。
// 通貨ペアを上流のシンボル形式（例: EURUSD=X）に変換してクォートパスへ委譲します。
func (h *MarketHandler) GetCurrencyExchange(c *gin.Context) {
	from := strings.ToUpper(strings.TrimSpace(c.Param("from")))
	to := strings.ToUpper(strings.TrimSpace(c.Param("to")))
	if len(from) != 3 || len(to) != 3 {
		h.renderError(c, domain.NewValidation("currency codes must be 3 characters"))
		return
	}

	symbol := from + to + "=X"
	result, err := h.svc.GetQuotes(c.Request.Context(), []string{symbol}, usecase.DefaultRegion, usecase.DefaultLanguage)
	if err != nil {
		h.renderError(c, err)
		return
	}

	out := dto.CurrencyExchangeResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Symbol:       symbol,
		Timestamp:    time.Now().UTC(),
		ErrorMessage: result.ErrorMessage,
	}
	if len(result.Quotes) > 0 {
		q := result.Quotes[0]
		out.ExchangeRate = q.RegularMarketPrice
		out.Change = q.RegularMarketChange
		out.ChangePercent = q.RegularMarketChangePercent
		out.LastUpdate = q.RegularMarketTime
	}
	c.JSON(http.StatusOK, out)
}

// GetCrypto は GET /api/market/crypto を処理します。
// 暗号資産シンボルを上流の形式（例: BTC-USD）に変換してクォートパスへ委譲します。
func (h *MarketHandler) GetCrypto(c *gin.Context) {
	currency := strings.ToUpper(c.DefaultQuery("currency", "USD"))

	symbols, err := usecase.SplitSymbols(c.Query("symbols"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	pairs := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if strings.HasSuffix(s, "-USD") {
			pairs = append(pairs, s)
			continue
		}
		pairs = append(pairs, s+"-"+currency)
	}

	result, err := h.svc.GetQuotes(c.Request.Context(), pairs, usecase.DefaultRegion, usecase.DefaultLanguage)
	if err != nil {
		h.renderError(c, err)
		return
	}

	quotes := make([]dto.CryptoData, 0, len(result.Quotes))
	for _, q := range result.Quotes {
		name := q.ShortName
		if name == "" {
			name = q.Symbol
		}
		quotes = append(quotes, dto.CryptoData{
			Symbol:        q.Symbol,
			Name:          name,
			Price:         q.RegularMarketPrice,
			Change:        q.RegularMarketChange,
			ChangePercent: q.RegularMarketChangePercent,
			Currency:      q.Currency,
			MarketCap:     q.MarketCap,
			Volume24h:     q.RegularMarketVolume,
			High24h:       q.RegularMarketDayHigh,
			Low24h:        q.RegularMarketDayLow,
			MarketState:   q.MarketState,
			LastUpdate:    q.RegularMarketTime,
		})
	}

	c.JSON(http.StatusOK, dto.CryptoResponse{
		Symbols:      symbols,
		Currency:     currency,
		CryptoQuotes: quotes,
		Timestamp:    time.Now().UTC(),
		ErrorMessage: result.ErrorMessage,
	})
}

// PostBulkQuotes は POST /api/market/bulk-quotes を処理します。
// グループごとにクォートパスを呼び、グループ単位の失敗は集計して返します。
func (h *MarketHandler) PostBulkQuotes(c *gin.Context) {
	var body dto.BulkQuoteRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.renderError(c, domain.NewValidation("invalid request body: %v", err))
		return
	}
	if len(body.SymbolGroups) == 0 {
		h.renderError(c, domain.NewValidation("symbol groups are required"))
		return
	}

	region := usecase.NormalizeRegion(body.Region)
	lang := usecase.NormalizeLanguage(body.Language)

	out := dto.BulkQuoteResponse{
		Region:      region,
		Language:    lang,
		QuoteGroups: make([]dto.QuoteGroup, 0, len(body.SymbolGroups)),
		Timestamp:   time.Now().UTC(),
	}
	for _, group := range body.SymbolGroups {
		out.TotalSymbols += len(group.Symbols)
		result, err := h.svc.GetQuotes(c.Request.Context(), group.Symbols, region, lang)
		if err != nil {
			out.FailedQuotes += len(group.Symbols)
			out.Errors = append(out.Errors, group.GroupName+": "+err.Error())
			out.QuoteGroups = append(out.QuoteGroups, dto.QuoteGroup{
				GroupName:  group.GroupName,
				ErrorCount: len(group.Symbols),
				Errors:     []string{err.Error()},
			})
			continue
		}
		out.SuccessfulQuotes += len(result.Quotes)
		out.QuoteGroups = append(out.QuoteGroups, dto.QuoteGroup{
			GroupName:    group.GroupName,
			Quotes:       result.Quotes,
			SuccessCount: len(result.Quotes),
		})
	}

	c.JSON(http.StatusOK, out)
}

// GetCapabilities は GET /api/market/capabilities を処理します。
func (h *MarketHandler) GetCapabilities(c *gin.Context) {
	c.JSON(http.StatusOK, dto.CapabilitiesResponse{
		AvailableEndpoints:  availableEndpoints,
		SupportedRegions:    h.svc.SupportedRegions(),
		SupportedLanguages:  []string{"en", "fr", "de", "it", "es", "zh"},
		SupportedAssetTypes: []string{"EQUITY", "INDEX", "CURRENCY", "CRYPTOCURRENCY", "ETF"},
		RateLimits:          h.limits,
		Timestamp:           time.Now().UTC(),
		APIVersion:          "v1",
	})
}

// GetHealth は GET /api/market/health を処理します。
// Parameter StoreにAPIキーが存在するかを確認し、キーの取得元を報告します。
func (h *MarketHandler) GetHealth(c *gin.Context) {
	hasStoreKey := false
	if h.paramStore != nil {
		if _, err := h.paramStore.APIKey(c.Request.Context()); err == nil {
			hasStoreKey = true
		}
	}
	source := "Configuration Fallback"
	if hasStoreKey {
		source = "AWS Parameter Store"
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Service:            "Market API",
		Status:             "Healthy",
		APIKeyConfigured:   hasStoreKey,
		APIKeySource:       source,
		ParameterStorePath: h.paramName,
		SupportedRegions:   h.svc.SupportedRegions(),
		Timestamp:          time.Now().UTC(),
		Message:            "finance API integration is ready",
		AvailableEndpoints: availableEndpoints,
	})
}

// renderError はドメインエラーをHTTPステータスとエラーレスポンスに変換します。
func (h *MarketHandler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
		code = "VALIDATION_ERROR"
	case domain.KindNotFound:
		status = http.StatusNotFound
		code = "NOT_FOUND"
	case domain.KindTimeout:
		status = http.StatusGatewayTimeout
		code = "NETWORK_TIMEOUT"
	case domain.KindConnectionFailed:
		status = http.StatusBadGateway
		code = "NETWORK_CONNECTION_FAILED"
	case domain.KindUpstreamFailed:
		status = http.StatusBadGateway
		code = "UPSTREAM_REQUEST_FAILED"
	case domain.KindParse:
		status = http.StatusBadGateway
		code = "DATA_PARSE_ERROR"
	case domain.KindConfiguration:
		status = http.StatusInternalServerError
		code = "CONFIGURATION_ERROR"
	}

	c.JSON(status, dto.ErrorResponse{
		Error:     dto.ErrorDetails{Code: code, Message: err.Error()},
		Timestamp: time.Now().UTC(),
	})
}
