// Package dto defines data transfer objects for YH Finance API responses.
package dto

// ResponseError is the error object embedded in YH Finance envelopes.
type ResponseError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Message returns a human-readable form of the error.
func (e *ResponseError) Message() string {
	if e == nil {
		return ""
	}
	if e.Description != "" {
		return e.Description
	}
	return e.Code
}

// QuoteEnvelope represents the JSON response of /v6/finance/quote.
type QuoteEnvelope struct {
	QuoteResponse struct {
		Result []QuoteJSON    `json:"result"`
		Error  *ResponseError `json:"error"`
	} `json:"quoteResponse"`
}

// QuoteJSON is one quote entry as returned upstream. All fields besides the
// symbol are optional depending on asset class.
type QuoteJSON struct {
	Symbol                      string   `json:"symbol"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice"`
	RegularMarketChange         *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent  *float64 `json:"regularMarketChangePercent"`
	RegularMarketTime           *int64   `json:"regularMarketTime"`
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow"`
	RegularMarketVolume         *int64   `json:"regularMarketVolume"`
	RegularMarketPreviousClose  *float64 `json:"regularMarketPreviousClose"`
	Currency                    string   `json:"currency"`
	MarketState                 string   `json:"marketState"`
	ShortName                   string   `json:"shortName"`
	LongName                    string   `json:"longName"`
	FullExchangeName            string   `json:"fullExchangeName"`
	Exchange                    string   `json:"exchange"`
	ExchangeTimezoneName        string   `json:"exchangeTimezoneName"`
	ExchangeTimezoneShortName   string   `json:"exchangeTimezoneShortName"`
	QuoteType                   string   `json:"quoteType"`
	MarketCap                   *int64   `json:"marketCap"`
	SharesOutstanding           *int64   `json:"sharesOutstanding"`
	BookValue                   *float64 `json:"bookValue"`
	PriceToBook                 *float64 `json:"priceToBook"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh"`
	FiftyDayAverage             *float64 `json:"fiftyDayAverage"`
	TwoHundredDayAverage        *float64 `json:"twoHundredDayAverage"`
	TrailingPE                  *float64 `json:"trailingPE"`
	ForwardPE                   *float64 `json:"forwardPE"`
	DividendYield               *float64 `json:"dividendYield"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield"`
	Beta                        *float64 `json:"beta"`
}

// TrendingEnvelope represents the JSON response of /v1/finance/trending/{region}.
type TrendingEnvelope struct {
	Finance struct {
		Result []struct {
			Count         int            `json:"count"`
			JobTimestamp  *int64         `json:"jobTimestamp"`
			StartInterval *int64         `json:"startInterval"`
			Quotes        []TrendingJSON `json:"quotes"`
		} `json:"result"`
		Error *ResponseError `json:"error"`
	} `json:"finance"`
}

// TrendingJSON is one trending entry as returned upstream.
type TrendingJSON struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName"`
	LongName                   string   `json:"longName"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
	Currency                   string   `json:"currency"`
	MarketState                string   `json:"marketState"`
	Exchange                   string   `json:"exchange"`
	QuoteType                  string   `json:"quoteType"`
}
