package model

import "time"

// VerificationToken はSMS認証コードを保持する一時レコードです。
// identifier は電話番号のソルトなしSHA-256ハッシュで、生の電話番号は含まれません。
// (identifier, token) の複合キーで一意になります。
// 検証成功時に削除、期限切れは検出時に遅延削除されます (バックグラウンド掃除なし)。
type VerificationToken struct {
	Identifier string    `gorm:"primaryKey"`
	Token      string    `gorm:"primaryKey"` // 6桁の数字コード
	Type       string    `gorm:"type:varchar(20);not null"`
	Expires    time.Time `gorm:"not null"`
}

func (VerificationToken) TableName() string {
	return "verification_tokens"
}

// TokenTypeSMS はSMS経由で配送されるコードの種別です
const TokenTypeSMS = "sms"

// IsExpired は有効期限切れかどうかを返します
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return now.After(t.Expires)
}
