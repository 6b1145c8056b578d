package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/feature/market/domain/entity"
)

const (
	endpointQuote    = "/api/market/quote"
	endpointTrending = "/api/market/trending"

	// trendingCacheLimit はキャッシュから返すトレンド銘柄の上限です。
	trendingCacheLimit = 50
)

// CachedQuoteService は QuoteProvider をリードスルーキャッシュでラップするデコレータです。
// 元のサービスを変更せずにキャッシュを透過的に追加します。
//
// クォートパスは銘柄単位で分割します: リクエストされた銘柄ごとにキャッシュの
// 鮮度を確認し、有効なものはキャッシュから、残りだけを上流から取得して
// マージし、新規取得分を有効期限付きで書き戻します。
// トレンドパスはリージョン単位の全量キャッシュです（リストが1キャッシュ単位）。
type CachedQuoteService struct {
	upstream  QuoteProvider
	store     QuoteStore
	telemetry TelemetrySink
	now       func() time.Time
}

// CachedQuoteServiceがQuoteProviderを実装していることをコンパイル時に検証します。
var _ QuoteProvider = (*CachedQuoteService)(nil)

// NewCachedQuoteService は上流サービスをキャッシュでラップした新しいインスタンスを生成します。
func NewCachedQuoteService(upstream QuoteProvider, store QuoteStore, telemetry TelemetrySink) *CachedQuoteService {
	return &CachedQuoteService{
		upstream:  upstream,
		store:     store,
		telemetry: telemetry,
		now:       time.Now,
	}
}

// GetQuotes はクォートバッチリクエストを処理します。
//
// ステートマシン:
//  1. 銘柄を正規化・検証する（失敗時はストアにも上流にも触れない）
//  2. 銘柄ごとにキャッシュを確認し、cached / toFetch に分割する
//  3. 全銘柄がキャッシュ済みなら上流を呼ばずに返す
//  4. 未キャッシュ分だけを上流から取得する。上流の失敗はリクエスト全体の失敗になる
//  5. 新規取得分をベストエフォートで書き戻し、リクエスト順にマージして返す
func (s *CachedQuoteService) GetQuotes(ctx context.Context, symbols []string, region, language string) (*QuoteResult, error) {
	start := s.now()
	requestID := uuid.NewString()
	region = NormalizeRegion(region)
	language = NormalizeLanguage(language)

	norm, err := NormalizeSymbols(symbols)
	if err != nil {
		s.record(ctx, requestID, endpointQuote, joinedOrNil(symbols), region, language, 400, s.elapsedMs(start), false)
		return nil, err
	}
	if !IsSupportedRegion(region) {
		s.record(ctx, requestID, endpointQuote, joinedOrNil(norm), region, language, 400, s.elapsedMs(start), false)
		return nil, domain.NewValidation("unsupported region %q", region)
	}

	// キャッシュ確認: 読み取りエラーはミス扱い（フェイルオープン）
	cached := make(map[string]entity.Quote, len(norm))
	toFetch := make([]string, 0, len(norm))
	for _, sym := range norm {
		q, err := s.store.GetFreshQuote(ctx, sym, region, s.now())
		if err != nil {
			slog.Warn("cache read failed, treating as miss", "symbol", sym, "region", region, "error", err)
			toFetch = append(toFetch, sym)
			continue
		}
		if q == nil {
			toFetch = append(toFetch, sym)
			continue
		}
		cached[sym] = *q
	}

	// 全銘柄キャッシュ済み: 上流を呼ばない
	if len(toFetch) == 0 {
		result := &QuoteResult{
			Symbols:   norm,
			Region:    region,
			Language:  language,
			Quotes:    orderQuotes(cached, norm),
			Timestamp: s.now(),
		}
		s.record(ctx, requestID, endpointQuote, joinedOrNil(norm), region, language, 200, s.elapsedMs(start), true)
		slog.Info("all symbols served from cache", "count", len(norm), "region", region)
		return result, nil
	}

	// 未キャッシュ分だけを上流から取得
	fetched, err := s.upstream.GetQuotes(ctx, toFetch, region, language)
	if err != nil {
		s.record(ctx, requestID, endpointQuote, joinedOrNil(norm), region, language, 500, s.elapsedMs(start), false)
		// 上流の失敗はバッチ全体の失敗。キャッシュ済みの部分集合は今回のレスポンスでは破棄される
		return nil, err
	}

	// 新規取得分をベストエフォートで書き戻す。1件の失敗が後続の書き込みを妨げてはいけない
	for _, q := range fetched.Quotes {
		if err := s.store.SaveQuote(ctx, q, region, s.now()); err != nil {
			slog.Warn("cache write failed", "symbol", q.Symbol, "region", region, "error", err)
		}
	}

	// マージしてリクエスト順に並べ直す
	merged := make(map[string]entity.Quote, len(norm))
	for sym, q := range cached {
		merged[sym] = q
	}
	for _, q := range fetched.Quotes {
		merged[strings.ToUpper(q.Symbol)] = q
	}

	result := &QuoteResult{
		Symbols:      norm,
		Region:       region,
		Language:     language,
		Quotes:       orderQuotes(merged, norm),
		Timestamp:    s.now(),
		ErrorMessage: fetched.ErrorMessage,
	}
	// cacheHit はバッチ単位の全か無かのフラグ: 1銘柄でも上流から取得したら false
	s.record(ctx, requestID, endpointQuote, joinedOrNil(norm), region, language, 200, s.elapsedMs(start), false)
	slog.Info("quote request merged", "cached", len(cached), "fetched", len(toFetch), "region", region)
	return result, nil
}

// GetTrending はリージョンのトレンドリクエストを処理します。
// クォートパスと異なりリージョン単位の全か無かのキャッシュです。
func (s *CachedQuoteService) GetTrending(ctx context.Context, region string) (*TrendingResult, error) {
	start := s.now()
	requestID := uuid.NewString()
	region = NormalizeRegion(region)

	if !IsSupportedRegion(region) {
		s.record(ctx, requestID, endpointTrending, nil, region, DefaultLanguage, 400, s.elapsedMs(start), false)
		return nil, domain.NewValidation("unsupported region %q", region)
	}

	stocks, err := s.store.GetFreshTrending(ctx, region, s.now(), trendingCacheLimit)
	if err != nil {
		slog.Warn("trending cache read failed, treating as miss", "region", region, "error", err)
		stocks = nil
	}
	if len(stocks) > 0 {
		result := &TrendingResult{
			Region:    region,
			Stocks:    stocks,
			Count:     len(stocks),
			Timestamp: s.now(),
		}
		s.record(ctx, requestID, endpointTrending, nil, region, DefaultLanguage, 200, s.elapsedMs(start), true)
		slog.Info("trending served from cache", "count", len(stocks), "region", region)
		return result, nil
	}

	fetched, err := s.upstream.GetTrending(ctx, region)
	if err != nil {
		s.record(ctx, requestID, endpointTrending, nil, region, DefaultLanguage, 500, s.elapsedMs(start), false)
		return nil, err
	}

	// リスト全体を1キャッシュ単位として書き戻す（ランクはリスト順）
	if err := s.store.SaveTrending(ctx, fetched.Stocks, region, s.now()); err != nil {
		slog.Warn("trending cache write failed", "region", region, "error", err)
	}

	s.record(ctx, requestID, endpointTrending, nil, region, DefaultLanguage, 200, s.elapsedMs(start), false)
	return fetched, nil
}

// SupportedRegions はキャッシュ対象外のため上流へ委譲します。
func (s *CachedQuoteService) SupportedRegions() []string {
	return s.upstream.SupportedRegions()
}

// record はテレメトリをベストエフォートで記録します。
// 記録の失敗はログに残すだけで、計算済みの結果を変えることはありません。
func (s *CachedQuoteService) record(ctx context.Context, requestID, endpoint string, symbols *string, region, language string, status, elapsedMs int, cacheHit bool) {
	if s.telemetry == nil {
		return
	}
	t := entity.RequestTelemetry{
		RequestID:      requestID,
		Endpoint:       endpoint,
		Method:         "GET",
		Symbols:        symbols,
		Region:         region,
		Language:       language,
		StatusCode:     status,
		ResponseTimeMs: elapsedMs,
		CacheHit:       cacheHit,
	}
	if err := s.telemetry.Record(ctx, t); err != nil {
		slog.Warn("telemetry write failed", "endpoint", endpoint, "error", err)
	}
}

func (s *CachedQuoteService) elapsedMs(start time.Time) int {
	return int(s.now().Sub(start).Milliseconds())
}

// orderQuotes は銘柄→クォートのマップをリクエスト順のスライスに並べます。
// 上流が返さなかった銘柄は含まれません（空の結果は正常系）。
func orderQuotes(bySymbol map[string]entity.Quote, order []string) []entity.Quote {
	out := make([]entity.Quote, 0, len(order))
	for _, sym := range order {
		if q, ok := bySymbol[sym]; ok {
			out = append(out, q)
		}
	}
	return out
}

// joinedOrNil はテレメトリ用に銘柄リストを結合します。空ならnilのままです。
func joinedOrNil(symbols []string) *string {
	if len(symbols) == 0 {
		return nil
	}
	j := strings.Join(symbols, ",")
	return &j
}
