package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"golang.org/x/oauth2/google"
)

// ProviderVerifier はOTPの生成・検証を外部プロバイダに委ねる場合の抽象です。
// この場合コードはローカルに保存されず、sessionInfo が検証セッションを識別します。
type ProviderVerifier interface {
	// SendCode はプロバイダにSMS送信を依頼し、検証用の sessionInfo を返します
	SendCode(ctx context.Context, phone string) (string, error)
	// VerifyCode は sessionInfo とコードを照合し、検証済みの電話番号を返します
	VerifyCode(ctx context.Context, sessionInfo, code string) (string, error)
	// VerifyIDToken はプロバイダ発行のIDトークンを検証し、電話番号を返します
	VerifyIDToken(ctx context.Context, idToken string) (string, error)
}

// FirebaseVerifier は Google Identity Toolkit REST API を利用する実装です
type FirebaseVerifier struct {
	endpoint   string
	httpClient *http.Client
}

const identityToolkitScope = "https://www.googleapis.com/auth/identitytoolkit"

// NewFirebaseVerifier はサービスアカウントの認証情報からクライアントを生成します。
// 生成されたHTTPクライアントはBearerトークンを自動で付与・更新します。
func NewFirebaseVerifier(cfg *config.FirebaseConfig) (*FirebaseVerifier, error) {
	data, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read firebase credentials file: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(data, identityToolkitScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse firebase credentials: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = config.DefaultIdentityToolkitEndpoint
	}

	return &FirebaseVerifier{
		endpoint:   endpoint,
		httpClient: jwtCfg.Client(context.Background()),
	}, nil
}

func (v *FirebaseVerifier) SendCode(ctx context.Context, phone string) (string, error) {
	var result struct {
		SessionInfo string `json:"sessionInfo"`
	}
	err := v.post(ctx, "accounts:sendVerificationCode", map[string]string{
		"phoneNumber": phone,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.SessionInfo == "" {
		return "", model.NewAppError("PROVIDER_ERROR", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}
	return result.SessionInfo, nil
}

func (v *FirebaseVerifier) VerifyCode(ctx context.Context, sessionInfo, code string) (string, error) {
	var result struct {
		PhoneNumber string `json:"phoneNumber"`
	}
	err := v.post(ctx, "accounts:signInWithPhoneNumber", map[string]string{
		"sessionInfo": sessionInfo,
		"code":        code,
	}, &result)
	if err != nil {
		return "", err
	}
	if result.PhoneNumber == "" {
		return "", model.NewAppError("INVALID_CODE", "認証コードが正しくありません。", "code", model.ErrTokenNotFound)
	}
	return result.PhoneNumber, nil
}

func (v *FirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (string, error) {
	var result struct {
		Users []struct {
			PhoneNumber string `json:"phoneNumber"`
		} `json:"users"`
	}
	err := v.post(ctx, "accounts:lookup", map[string]string{
		"idToken": idToken,
	}, &result)
	if err != nil {
		return "", err
	}
	if len(result.Users) == 0 || result.Users[0].PhoneNumber == "" {
		return "", model.NewAppError("INVALID_TOKEN", "トークンの検証に失敗しました。", "id_token", model.ErrTokenNotFound)
	}
	return result.Users[0].PhoneNumber, nil
}

func (v *FirebaseVerifier) post(ctx context.Context, method string, payload any, result any) error {
	logger := middleware.GetLogger(ctx)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal identitytoolkit request: %w", err)
	}

	url := fmt.Sprintf("%s/%s", v.endpoint, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create identitytoolkit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		logger.Error("identitytoolkit request failed", "method", method, "error", err)
		return model.NewAppError("PROVIDER_ERROR", "外部プロバイダとの通信に失敗しました。", "", model.ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		logger.Error("identitytoolkit HTTP error",
			"method", method,
			"status", resp.StatusCode,
			"message", apiErr.Error.Message,
		)
		return model.NewAppError("PROVIDER_ERROR", "外部プロバイダとの通信に失敗しました。", "", model.ErrProviderError)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		logger.Error("failed to decode identitytoolkit response", "method", method, "error", err)
		return model.NewAppError("PROVIDER_ERROR", "外部プロバイダとの通信に失敗しました。", "", model.ErrProviderError)
	}
	return nil
}
