package model

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims はセッションJWTに含めるクレームです。
// PhoneVerified は更新のたびにストアから再取得されます (取得失敗時は前回値を維持)。
type SessionClaims struct {
	Role          string `json:"role"`
	PhoneVerified bool   `json:"phone_verified"`
	jwt.RegisteredClaims
}

// Credential は認証試行の入力を表す閉じたタグ付きバリアントです。
// 電話番号+コード、または外部プロバイダの検証トークンのどちらか一方で、
// サービス層が明示的にディスパッチします (暗黙のフック連鎖はしない)。
type Credential interface {
	credential()
}

// PhoneCredential は (電話番号, コード) による認証入力です
type PhoneCredential struct {
	Phone string
	Code  string
}

func (PhoneCredential) credential() {}

// ProviderCredential は外部検証プロバイダのトークンによる認証入力です。
// SessionInfo+Code か IDToken のどちらかを使います。
type ProviderCredential struct {
	SessionInfo string
	Code        string
	IDToken     string
}

func (ProviderCredential) credential() {}

// ExternalIdentity はOAuthコールバック境界で受け取る外部IDの主張です
type ExternalIdentity struct {
	Provider          string `json:"provider"`
	ProviderAccountID string `json:"provider_account_id"`
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	Username          string `json:"username,omitempty"` // SNS上のハンドル (例: twitterのscreen name)
}

// LinkDecision はOAuthサインインに対するリゾルバの判断です
type LinkDecision string

const (
	// LinkAllowed はそのままサインインを許可 (既存Account or 新規作成)
	LinkAllowed LinkDecision = "allowed"
	// LinkConfirmationRequired は自動リンクを保留し、明示的な確認ステップへ誘導
	LinkConfirmationRequired LinkDecision = "confirmation_required"
)

// Resolution はOAuthサインイン解決の結果です
type Resolution struct {
	Decision     LinkDecision
	User         *User  // Decision == LinkAllowed のとき非nil
	PendingToken string // Decision == LinkConfirmationRequired のとき非空
	IsNewUser    bool
}

// --- リクエスト/レスポンス DTO ---

// SendCodeRequest は認証コード送信APIのリクエストボディ
type SendCodeRequest struct {
	Phone string `json:"phone" validate:"required,min=10,max=14"`
}

// SendCodeResponse は認証コード送信APIのレスポンス。
// 生の電話番号もコードも含めてはいけません。
type SendCodeResponse struct {
	Success     bool   `json:"success"`
	PhoneHash   string `json:"phone_hash"`
	ExpiresIn   int    `json:"expires_in"` // 秒単位
	IsNewUser   bool   `json:"is_new_user"`
	SessionInfo string `json:"session_info,omitempty"` // firebaseプロバイダ利用時のみ
	Message     string `json:"message"`
}

// VerifyCodeRequest は認証コード検証APIのリクエストボディ。
// (phone, code) か (session_info / id_token) のどちらか一方を指定します。
type VerifyCodeRequest struct {
	Phone       string `json:"phone"`
	Code        string `json:"code"`
	SessionInfo string `json:"session_info"`
	IDToken     string `json:"id_token"`
}

// VerifyCodeResponse は認証成功時のレスポンス
type VerifyCodeResponse struct {
	Success     bool   `json:"success"`
	UserID      string `json:"user_id"`
	IsNewUser   bool   `json:"is_new_user"`
	AccessToken string `json:"access_token"`
	Message     string `json:"message"`
}

// ConfirmLinkRequest はPendingLink解決APIのリクエストボディ
type ConfirmLinkRequest struct {
	Token string `json:"token" validate:"required,min=32"`
}
