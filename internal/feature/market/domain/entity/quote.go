// Package entity defines the domain models for the market feature.
package entity

// Quote represents a single market quote for one symbol, as served to the
// dashboard and as persisted by the cache store. Pointer fields are optional:
// the upstream API omits them for some asset classes (indices, currencies).
type Quote struct {
	Symbol                      string   `json:"symbol"`
	RegularMarketPrice          *float64 `json:"regularMarketPrice,omitempty"`
	RegularMarketChange         *float64 `json:"regularMarketChange,omitempty"`
	RegularMarketChangePercent  *float64 `json:"regularMarketChangePercent,omitempty"`
	RegularMarketTime           *int64   `json:"regularMarketTime,omitempty"` // Unix seconds as reported upstream
	RegularMarketDayHigh        *float64 `json:"regularMarketDayHigh,omitempty"`
	RegularMarketDayLow         *float64 `json:"regularMarketDayLow,omitempty"`
	RegularMarketVolume         *int64   `json:"regularMarketVolume,omitempty"`
	RegularMarketPreviousClose  *float64 `json:"regularMarketPreviousClose,omitempty"`
	Currency                    string   `json:"currency,omitempty"`
	MarketState                 string   `json:"marketState,omitempty"`
	ShortName                   string   `json:"shortName,omitempty"`
	LongName                    string   `json:"longName,omitempty"`
	Exchange                    string   `json:"exchange,omitempty"`
	ExchangeTimezoneName        string   `json:"exchangeTimezoneName,omitempty"`
	ExchangeTimezoneShortName   string   `json:"exchangeTimezoneShortName,omitempty"`
	QuoteType                   string   `json:"quoteType,omitempty"`
	MarketCap                   *int64   `json:"marketCap,omitempty"`
	SharesOutstanding           *int64   `json:"sharesOutstanding,omitempty"`
	BookValue                   *float64 `json:"bookValue,omitempty"`
	PriceToBook                 *float64 `json:"priceToBook,omitempty"`
	FiftyTwoWeekLow             *float64 `json:"fiftyTwoWeekLow,omitempty"`
	FiftyTwoWeekHigh            *float64 `json:"fiftyTwoWeekHigh,omitempty"`
	FiftyDayAverage             *float64 `json:"fiftyDayAverage,omitempty"`
	TwoHundredDayAverage        *float64 `json:"twoHundredDayAverage,omitempty"`
	TrailingPE                  *float64 `json:"trailingPE,omitempty"`
	ForwardPE                   *float64 `json:"forwardPE,omitempty"`
	DividendYield               *float64 `json:"dividendYield,omitempty"`
	TrailingAnnualDividendYield *float64 `json:"trailingAnnualDividendYield,omitempty"`
	Beta                        *float64 `json:"beta,omitempty"`
}
