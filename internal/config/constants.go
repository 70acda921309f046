// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "OSHI-HIGH"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort    = ":8080"
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "json"
	DefaultSessionMaxAge = 30 * 24 * time.Hour // 30日
)

// PendingLink (外部ID連携の保留) の有効期限
const PendingLinkTTL = time.Hour

// 外部検証プロバイダ (Firebase identitytoolkit) のエンドポイント
const DefaultIdentityToolkitEndpoint = "https://identitytoolkit.googleapis.com/v1"
