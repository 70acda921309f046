package model

import (
	"time"

	"github.com/google/uuid"
)

// 認証プロバイダ
const (
	ProviderSMS     = "sms"
	ProviderGoogle  = "google"
	ProviderTwitter = "twitter"
)

// Accountの種別
const (
	AccountTypeOAuth       = "oauth"
	AccountTypeCredentials = "credentials"
)

// Account は外部プロバイダの認証情報と User を結びつけるリンクレコードです。
// (provider, provider_account_id) の組は恒久的に1ユーザーへ対応し、上書きされません。
type Account struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Type              string    `gorm:"type:varchar(20);not null"`
	Provider          string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_provider_account"`
	ProviderAccountID string    `gorm:"not null;uniqueIndex:uq_provider_account"`
	CreatedAt         time.Time
}

func (Account) TableName() string {
	return "accounts"
}
