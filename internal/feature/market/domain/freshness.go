// Package domain はmarketフィーチャーのドメインルール（鮮度ポリシー、エラー分類）を定義します。
package domain

import "time"

// DataType はキャッシュ対象のデータ種別です。TTLはデータ種別ごとに決まります。
type DataType string

const (
	// DataTypeQuote は個別銘柄のクォートです。
	DataTypeQuote DataType = "quote"
	// DataTypeTrending はリージョン単位のトレンド銘柄リストです。
	DataTypeTrending DataType = "trending"
)

// データ種別ごとのTTL。クォートはトレンドより変動が激しいため短く保ちます。
const (
	QuoteTTL    = 15 * time.Minute
	TrendingTTL = 30 * time.Minute
)

// TTLFor は指定されたデータ種別のキャッシュ有効期間を返します。
// 未知の種別には安全側に倒して短い方（QuoteTTL）を返します。
func TTLFor(dt DataType) time.Duration {
	switch dt {
	case DataTypeTrending:
		return TrendingTTL
	default:
		return QuoteTTL
	}
}

// ValidUntil は now に保存されるレコードの有効期限を計算します。
func ValidUntil(dt DataType, now time.Time) time.Time {
	return now.Add(TTLFor(dt))
}

// IsFresh はレコードがまだ有効かを判定します。
// now < validUntil の間だけ有効で、猶予期間やジッターはありません。
func IsFresh(validUntil, now time.Time) bool {
	return now.Before(validUntil)
}
