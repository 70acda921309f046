package model

import (
	"time"

	"github.com/google/uuid"
)

// PendingLink は外部IDの自動リンクを保留した状態を表します。
// 新しい (provider, provider_account_id) のメールアドレスが既存ユーザーと一致した場合、
// 自動リンクせずこのレコードを作り、明示的な確認ステップへ誘導します。
// 消費されるか期限切れになるかのどちらかで、暗黙に解決されることはありません。
type PendingLink struct {
	Token             string    `gorm:"primaryKey"` // 16バイト以上の乱数 (hex)
	UserID            uuid.UUID `gorm:"type:uuid;not null"` // リンク先候補のユーザー (作成時に確定)
	Provider          string    `gorm:"type:varchar(50);not null"`
	ProviderAccountID string    `gorm:"not null"`
	Payload           string    `gorm:"type:jsonb;not null"` // 保留中のIDペイロードのスナップショット
	ExpiresAt         time.Time `gorm:"not null"`
	CreatedAt         time.Time
}

func (PendingLink) TableName() string {
	return "pending_links"
}

// IsExpired は有効期限切れかどうかを返します
func (p *PendingLink) IsExpired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}
