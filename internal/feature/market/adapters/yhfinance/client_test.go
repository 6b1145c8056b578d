package yhfinance

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finance_backend/internal/feature/market/domain"
	"finance_backend/internal/platform/secrets"
)

const testAPIKey = "test-api-key"

// newTestClient は httptest サーバーに向けたClientを生成します。
func newTestClient(serverURL string, timeout time.Duration) *Client {
	cfg := Config{BaseURL: serverURL, Timeout: timeout}
	return NewClient(cfg, &http.Client{Timeout: timeout}, secrets.Static(testAPIKey))
}

func TestClient_GetQuotes(t *testing.T) {
	quoteBody := `{
		"quoteResponse": {
			"result": [
				{
					"symbol": "AAPL",
					"regularMarketPrice": 190.5,
					"regularMarketChange": 1.2,
					"regularMarketTime": 1717243200,
					"currency": "USD",
					"marketState": "REGULAR",
					"shortName": "Apple Inc.",
					"quoteType": "EQUITY",
					"marketCap": 2900000000000
				},
				{
					"symbol": "MSFT",
					"regularMarketPrice": 410.1,
					"currency": "USD"
				},
				{
					"regularMarketPrice": 1.0
				}
			],
			"error": null
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// リクエストごとにヘッダーへキーが載ること
		assert.Equal(t, testAPIKey, r.Header.Get("X-API-KEY"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "/v6/finance/quote", r.URL.Path)
		assert.Equal(t, "AAPL,MSFT", r.URL.Query().Get("symbols"))
		assert.Equal(t, "US", r.URL.Query().Get("region"))
		assert.Equal(t, "en", r.URL.Query().Get("lang"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(quoteBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	result, err := client.GetQuotes(context.Background(), []string{"AAPL", "MSFT"}, "US", "en")

	require.NoError(t, err)
	// symbolのないエントリはスキップされる
	require.Len(t, result.Quotes, 2)
	assert.Equal(t, "AAPL", result.Quotes[0].Symbol)
	require.NotNil(t, result.Quotes[0].RegularMarketPrice)
	assert.Equal(t, 190.5, *result.Quotes[0].RegularMarketPrice)
	require.NotNil(t, result.Quotes[0].MarketCap)
	assert.Equal(t, int64(2_900_000_000_000), *result.Quotes[0].MarketCap)
	assert.Equal(t, "MSFT", result.Quotes[1].Symbol)
	assert.Empty(t, result.ErrorMessage)
}

func TestClient_GetQuotes_EnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[],"error":{"code":"Bad Request","description":"Invalid symbol"}}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	result, err := client.GetQuotes(context.Background(), []string{"???"}, "US", "en")

	// エンベロープ内のエラーは致命的ではなく、メッセージとして伝搬する
	require.NoError(t, err)
	assert.Empty(t, result.Quotes)
	assert.Equal(t, "Invalid symbol", result.ErrorMessage)
}

func TestClient_GetQuotes_UpstreamStatus(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "unauthorized", status: http.StatusUnauthorized},
		{name: "rate limited", status: http.StatusTooManyRequests},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			client := newTestClient(srv.URL, 5*time.Second)

			_, err := client.GetQuotes(context.Background(), []string{"AAPL"}, "US", "en")

			require.Error(t, err)
			assert.Equal(t, domain.KindUpstreamFailed, domain.KindOf(err))
			var de *domain.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tc.status, de.StatusCode)
		})
	}
}

func TestClient_GetQuotes_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse": {`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"}, "US", "en")

	require.Error(t, err)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}

func TestClient_GetQuotes_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 50*time.Millisecond)

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"}, "US", "en")

	require.Error(t, err)
	assert.Equal(t, domain.KindTimeout, domain.KindOf(err))
}

func TestClient_GetQuotes_ConnectionFailed(t *testing.T) {
	// 閉じたサーバーへの接続は必ず失敗する
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := newTestClient(srv.URL, time.Second)

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"}, "US", "en")

	require.Error(t, err)
	assert.Equal(t, domain.KindConnectionFailed, domain.KindOf(err))
}

func TestClient_GetQuotes_NoAPIKey(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	cfg := Config{BaseURL: srv.URL, Timeout: time.Second}
	client := NewClient(cfg, &http.Client{Timeout: time.Second}, secrets.Static(""))

	_, err := client.GetQuotes(context.Background(), []string{"AAPL"}, "US", "en")

	require.Error(t, err)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
	assert.False(t, called, "the upstream must not be called without an API key")
}

func TestClient_GetTrending(t *testing.T) {
	trendingBody := `{
		"finance": {
			"result": [
				{
					"count": 2,
					"jobTimestamp": 1717243200123,
					"startInterval": 202406011200,
					"quotes": [
						{"symbol": "NVDA", "shortName": "NVIDIA Corporation", "quoteType": "EQUITY"},
						{"symbol": "TSLA", "shortName": "Tesla, Inc.", "quoteType": "EQUITY"}
					]
				}
			],
			"error": null
		}
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/finance/trending/GB", r.URL.Path)
		assert.Equal(t, testAPIKey, r.Header.Get("X-API-KEY"))
		_, _ = w.Write([]byte(trendingBody))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	// リージョンは大文字化されてパスに載る
	result, err := client.GetTrending(context.Background(), "gb")

	require.NoError(t, err)
	assert.Equal(t, "GB", result.Region)
	assert.Equal(t, 2, result.Count)
	require.NotNil(t, result.JobTimestamp)
	assert.Equal(t, int64(1717243200123), *result.JobTimestamp)
	require.Len(t, result.Stocks, 2)
	assert.Equal(t, "NVDA", result.Stocks[0].Symbol)
	assert.Equal(t, "Tesla, Inc.", result.Stocks[1].ShortName)
}

func TestClient_GetTrending_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"finance":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, 5*time.Second)

	result, err := client.GetTrending(context.Background(), "US")

	require.NoError(t, err)
	assert.NotNil(t, result.Stocks, "stocks must be an empty slice, not nil")
	assert.Empty(t, result.Stocks)
	assert.Zero(t, result.Count)
}
