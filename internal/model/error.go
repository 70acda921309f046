// internal/model/error.go
package model

import "errors"

// アプリケーション固有のエラー
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrInternalServer = errors.New("internal server error")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("resource conflict") // 重複エラー用
)

// 認証・連携フロー固有のエラー
var (
	ErrTokenNotFound       = errors.New("verification token not found")
	ErrTokenExpired        = errors.New("verification token expired")
	ErrProviderError       = errors.New("verification provider error")
	ErrPendingLinkNotFound = errors.New("pending link not found")
	ErrPendingLinkExpired  = errors.New("pending link expired")
	ErrDuplicateIdentity   = errors.New("duplicate identity conflict")
)

// ErrorDetail はクライアントに返すエラーの詳細情報です
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// APIErrorResponse はAPIエラーレスポンスの構造体
type APIErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// AppError はエラーコード・ユーザー向けメッセージと根本原因をまとめたエラー型です。
// Unwrap で根本原因(センチネルエラー)を辿れるため、errors.Is での分類が可能です。
type AppError struct {
	Detail ErrorDetail
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Detail.Code + ": " + e.Err.Error()
	}
	return e.Detail.Code + ": " + e.Detail.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError は AppError を生成します
func NewAppError(code, message, field string, err error) *AppError {
	return &AppError{
		Detail: ErrorDetail{
			Code:    code,
			Message: message,
			Field:   field,
		},
		Err: err,
	}
}
