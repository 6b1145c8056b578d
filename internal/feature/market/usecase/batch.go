// Package usecase は株価データ取得のビジネスロジック（リードスルーキャッシュ）を実装します。
package usecase

import (
	"strings"

	"finance_backend/internal/feature/market/domain"
)

const (
	// MaxBatchSymbols は1リクエストで扱える銘柄数の上限です。
	MaxBatchSymbols = 10
	// DefaultRegion は未指定時のマーケットリージョンです。
	DefaultRegion = "US"
	// DefaultLanguage は未指定時のレスポンス言語です。
	DefaultLanguage = "en"
)

// supportedRegions は上流APIが対応しているマーケットリージョンの一覧です。
var supportedRegions = []string{"US", "AU", "CA", "FR", "DE", "HK", "IT", "ES", "GB", "IN"}

// SupportedRegions は対応リージョンのコピーを返します。
func SupportedRegions() []string {
	out := make([]string, len(supportedRegions))
	copy(out, supportedRegions)
	return out
}

// IsSupportedRegion はリージョンコードが対応リストに含まれるかを判定します。
// 比較は大文字化して行います。
func IsSupportedRegion(region string) bool {
	r := strings.ToUpper(region)
	for _, s := range supportedRegions {
		if s == r {
			return true
		}
	}
	return false
}

// NormalizeSymbols は銘柄リストを正規化します。
// 空白をトリムし、空要素を除き、大文字小文字を無視して重複を排除（初出順を維持）した上で
// 大文字化します。空のリストや上限超過はバリデーションエラーになります。
func NormalizeSymbols(symbols []string) ([]string, error) {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, domain.NewValidation("symbols are required")
	}
	if len(out) > MaxBatchSymbols {
		return nil, domain.NewValidation("too many symbols: %d (max %d)", len(out), MaxBatchSymbols)
	}
	return out, nil
}

// SplitSymbols はカンマ区切りの銘柄文字列を正規化済みリストに変換します。
func SplitSymbols(raw string) ([]string, error) {
	return NormalizeSymbols(strings.Split(raw, ","))
}

// NormalizeRegion はリージョンコードを大文字化し、未指定ならデフォルトを返します。
func NormalizeRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return DefaultRegion
	}
	return region
}

// NormalizeLanguage は言語タグを小文字化し、未指定ならデフォルトを返します。
// 言語は上流のフォーマットにのみ影響し、キャッシュ判定には使われません。
func NormalizeLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}
