package yhfinance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finance_backend/internal/feature/market/adapters/yhfinance/dto"
	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/feature/market/domain/entity"
	"finance_backend/internal/feature/market/usecase"
	"finance_backend/internal/platform/secrets"
)

// Client はYH Finance外部APIから株価データを取得するQuoteProvider実装です。
// キャッシュのことは一切関知しません。
type Client struct {
	cfg    Config
	client *http.Client
	keys   secrets.KeySource
}

// ClientがQuoteProviderを実装していることをコンパイル時に検証します。
var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient は指定された設定とHTTPクライアント、APIキーソースで新しいインスタンスを生成します。
func NewClient(cfg Config, client *http.Client, keys secrets.KeySource) *Client {
	return &Client{cfg: cfg, client: client, keys: keys}
}

// GetQuotes は /v6/finance/quote から指定銘柄のクォートを取得します。
func (c *Client) GetQuotes(ctx context.Context, symbols []string, region, language string) (*usecase.QuoteResult, error) {
	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	q.Set("region", region)
	q.Set("lang", language)
	u := fmt.Sprintf("%s/v6/finance/quote?%s", c.cfg.BaseURL, q.Encode())

	var body dto.QuoteEnvelope
	if err := c.get(ctx, u, &body); err != nil {
		return nil, err
	}

	quotes := make([]entity.Quote, 0, len(body.QuoteResponse.Result))
	for _, v := range body.QuoteResponse.Result {
		// symbolのないエントリはスキップ
		if v.Symbol == "" {
			continue
		}
		quotes = append(quotes, toQuote(v))
	}

	return &usecase.QuoteResult{
		Symbols:      symbols,
		Region:       region,
		Language:     language,
		Quotes:       quotes,
		Timestamp:    time.Now().UTC(),
		ErrorMessage: body.QuoteResponse.Error.Message(),
	}, nil
}

// GetTrending は /v1/finance/trending/{region} からトレンド銘柄リストを取得します。
func (c *Client) GetTrending(ctx context.Context, region string) (*usecase.TrendingResult, error) {
	u := fmt.Sprintf("%s/v1/finance/trending/%s", c.cfg.BaseURL, strings.ToUpper(region))

	var body dto.TrendingEnvelope
	if err := c.get(ctx, u, &body); err != nil {
		return nil, err
	}

	result := &usecase.TrendingResult{
		Region:    strings.ToUpper(region),
		Stocks:    []entity.TrendingStock{},
		Timestamp: time.Now().UTC(),
	}
	for _, r := range body.Finance.Result {
		result.Count = r.Count
		result.JobTimestamp = r.JobTimestamp
		result.StartInterval = r.StartInterval
		for _, v := range r.Quotes {
			if v.Symbol == "" {
				continue
			}
			result.Stocks = append(result.Stocks, toTrendingStock(v))
		}
	}
	return result, nil
}

// SupportedRegions は対応リージョンの一覧を返します。
func (c *Client) SupportedRegions() []string {
	return usecase.SupportedRegions()
}

// get はAPIキーを解決してGETリクエストを実行し、レスポンスを out にデコードします。
// APIキーは共有クライアントの状態ではなく、リクエストごとにヘッダーへ設定します。
func (c *Client) get(ctx context.Context, u string, out any) error {
	apiKey, err := c.keys.APIKey(ctx)
	if err != nil {
		slog.Warn("no API key available for upstream request", "error", err)
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.NewConnectionFailed(err)
	}
	req.Header.Set("X-API-KEY", apiKey)
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		slog.Warn("upstream returned error status", "status", res.StatusCode, "url", u)
		return domain.NewUpstreamFailed(res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return domain.NewParse("JSON response", err)
	}
	return nil
}

// classifyTransportError はトランスポート層のエラーをドメインエラーに分類します。
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.NewTimeout(err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return domain.NewTimeout(err)
	}
	return domain.NewConnectionFailed(err)
}

func toQuote(v dto.QuoteJSON) entity.Quote {
	return entity.Quote{
		Symbol:                      v.Symbol,
		RegularMarketPrice:          v.RegularMarketPrice,
		RegularMarketChange:         v.RegularMarketChange,
		RegularMarketChangePercent:  v.RegularMarketChangePercent,
		RegularMarketTime:           v.RegularMarketTime,
		RegularMarketDayHigh:        v.RegularMarketDayHigh,
		RegularMarketDayLow:         v.RegularMarketDayLow,
		RegularMarketVolume:         v.RegularMarketVolume,
		RegularMarketPreviousClose:  v.RegularMarketPreviousClose,
		Currency:                    v.Currency,
		MarketState:                 v.MarketState,
		ShortName:                   v.ShortName,
		LongName:                    v.LongName,
		Exchange:                    v.Exchange,
		ExchangeTimezoneName:        v.ExchangeTimezoneName,
		ExchangeTimezoneShortName:   v.ExchangeTimezoneShortName,
		QuoteType:                   v.QuoteType,
		MarketCap:                   v.MarketCap,
		SharesOutstanding:           v.SharesOutstanding,
		BookValue:                   v.BookValue,
		PriceToBook:                 v.PriceToBook,
		FiftyTwoWeekLow:             v.FiftyTwoWeekLow,
		FiftyTwoWeekHigh:            v.FiftyTwoWeekHigh,
		FiftyDayAverage:             v.FiftyDayAverage,
		TwoHundredDayAverage:        v.TwoHundredDayAverage,
		TrailingPE:                  v.TrailingPE,
		ForwardPE:                   v.ForwardPE,
		DividendYield:               v.DividendYield,
		TrailingAnnualDividendYield: v.TrailingAnnualDividendYield,
		Beta:                        v.Beta,
	}
}

func toTrendingStock(v dto.TrendingJSON) entity.TrendingStock {
	return entity.TrendingStock{
		Symbol:                     v.Symbol,
		ShortName:                  v.ShortName,
		LongName:                   v.LongName,
		RegularMarketPrice:         v.RegularMarketPrice,
		RegularMarketChange:        v.RegularMarketChange,
		RegularMarketChangePercent: v.RegularMarketChangePercent,
		Currency:                   v.Currency,
		MarketState:                v.MarketState,
		Exchange:                   v.Exchange,
		QuoteType:                  v.QuoteType,
	}
}
