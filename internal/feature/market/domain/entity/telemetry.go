package entity

// RequestTelemetry is the append-only record of one logical API call.
// It is written once after the response is computed and never read back by
// the service itself.
type RequestTelemetry struct {
	RequestID      string  // correlation id, one per logical call
	Endpoint       string  // e.g. "/api/market/quote"
	Method         string  // HTTP method of the logical call
	Symbols        *string // requested symbols joined with ",", nil for symbol-less endpoints
	Region         string
	Language       string
	StatusCode     int  // HTTP-equivalent outcome of the call
	ResponseTimeMs int  // elapsed wall-clock time
	CacheHit       bool // true only when every requested item came from cache
}
