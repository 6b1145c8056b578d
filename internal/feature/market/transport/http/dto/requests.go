// Package dto はmarketフィーチャーのHTTPリクエスト/レスポンスDTOを定義します。
package dto

// QuoteRequestBody は POST /api/market/quote のリクエストボディです。
type QuoteRequestBody struct {
	Symbols  string `json:"symbols" binding:"required"` // カンマ区切り（最大10銘柄）
	Region   string `json:"region"`
	Language string `json:"language"`
}

// SymbolGroup は一括クォートの1グループです。
type SymbolGroup struct {
	GroupName string   `json:"groupName" binding:"required"`
	Symbols   []string `json:"symbols" binding:"required"`
}

// BulkQuoteRequestBody は POST /api/market/bulk-quotes のリクエストボディです。
type BulkQuoteRequestBody struct {
	SymbolGroups []SymbolGroup `json:"symbolGroups" binding:"required"`
	Region       string        `json:"region"`
	Language     string        `json:"language"`
}
