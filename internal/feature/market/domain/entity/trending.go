package entity

// TrendingStock represents one entry of a region's trending list.
// The whole list is one cache unit: entries are persisted together with
// sequential ranks and expire together.
type TrendingStock struct {
	Symbol                     string   `json:"symbol"`
	ShortName                  string   `json:"shortName,omitempty"`
	LongName                   string   `json:"longName,omitempty"`
	RegularMarketPrice         *float64 `json:"regularMarketPrice,omitempty"`
	RegularMarketChange        *float64 `json:"regularMarketChange,omitempty"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent,omitempty"`
	Currency                   string   `json:"currency,omitempty"`
	MarketState                string   `json:"marketState,omitempty"`
	Exchange                   string   `json:"exchange,omitempty"`
	QuoteType                  string   `json:"quoteType,omitempty"`
}
