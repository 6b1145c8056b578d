// Package yhfinance provides a client for the YH Finance (yfapi.net) API.
package yhfinance

import "time"

// Config holds configuration for the YH Finance API client.
type Config struct {
	BaseURL string        // Base URL for the API (e.g., "https://yfapi.net")
	Timeout time.Duration // HTTP request timeout
}
