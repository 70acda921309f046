package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/service"
	"oshi_high/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	stateCookieName    = "oauth_state"
	verifierCookieName = "oauth_verifier"
	oauthCookieMaxAge  = 10 * time.Minute
)

// Twitter OAuth 2.0 (PKCE必須)
var twitterEndpoint = oauth2.Endpoint{
	AuthURL:  "https://twitter.com/i/oauth2/authorize",
	TokenURL: "https://api.twitter.com/2/oauth2/token",
}

const (
	defaultGoogleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	defaultTwitterUserInfoURL = "https://api.twitter.com/2/users/me"
)

// OAuthHandler はOAuthサインインのリダイレクトとコールバックを処理します
type OAuthHandler struct {
	resolver service.ResolverService
	session  service.SessionService
	cfg      *config.Config

	googleConf  *oauth2.Config
	twitterConf *oauth2.Config

	// テスト用にオーバーライド可能
	googleUserInfoURL  string
	twitterUserInfoURL string
}

func NewOAuthHandler(resolver service.ResolverService, session service.SessionService, cfg *config.Config) *OAuthHandler {
	return &OAuthHandler{
		resolver: resolver,
		session:  session,
		cfg:      cfg,
		googleConf: &oauth2.Config{
			ClientID:     cfg.OAuth.Google.ClientID,
			ClientSecret: cfg.OAuth.Google.ClientSecret,
			RedirectURL:  cfg.OAuth.Google.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		twitterConf: &oauth2.Config{
			ClientID:     cfg.OAuth.Twitter.ClientID,
			ClientSecret: cfg.OAuth.Twitter.ClientSecret,
			RedirectURL:  cfg.OAuth.Twitter.RedirectURL,
			Scopes:       []string{"users.read", "tweet.read"},
			Endpoint:     twitterEndpoint,
		},
		googleUserInfoURL:  defaultGoogleUserInfoURL,
		twitterUserInfoURL: defaultTwitterUserInfoURL,
	}
}

func (h *OAuthHandler) conf(provider string) *oauth2.Config {
	switch provider {
	case model.ProviderGoogle:
		return h.googleConf
	case model.ProviderTwitter:
		return h.twitterConf
	default:
		return nil
	}
}

// Login はプロバイダの認可画面へリダイレクトします
func (h *OAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	provider := chi.URLParam(r, "provider")
	conf := h.conf(provider)
	if conf == nil {
		logger.Warn("Unknown OAuth provider requested", "provider", provider)
		appErr := model.NewAppError("UNKNOWN_PROVIDER", "サポートされていないプロバイダです。", "provider", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	stateBytes := make([]byte, 16)
	if _, err := rand.Read(stateBytes); err != nil {
		logger.Error("Failed to generate OAuth state", "error", err)
		webutil.HandleError(w, logger, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err))
		return
	}
	state := hex.EncodeToString(stateBytes)
	verifier := oauth2.GenerateVerifier()

	h.setFlowCookie(w, stateCookieName, state)
	h.setFlowCookie(w, verifierCookieName, verifier)

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	logger.Info("Redirecting to OAuth provider", "provider", provider)
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback はプロバイダからのコールバックを処理し、ID解決の結果に応じて
// フロントエンドへリダイレクトします
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	provider := chi.URLParam(r, "provider")
	conf := h.conf(provider)
	if conf == nil {
		logger.Warn("Unknown OAuth provider on callback", "provider", provider)
		appErr := model.NewAppError("UNKNOWN_PROVIDER", "サポートされていないプロバイダです。", "provider", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	logger = logger.With("provider", provider)

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		logger.Warn("OAuth provider returned an error", "error", errParam)
		h.redirectWithError(w, r, "provider_denied")
		return
	}

	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != r.URL.Query().Get("state") {
		logger.Warn("OAuth state mismatch")
		appErr := model.NewAppError("INVALID_STATE", "認証セッションが無効です。最初からやり直してください。", "state", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	verifierCookie, err := r.Cookie(verifierCookieName)
	if err != nil || verifierCookie.Value == "" {
		logger.Warn("OAuth verifier cookie missing")
		appErr := model.NewAppError("INVALID_STATE", "認証セッションが無効です。最初からやり直してください。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}
	h.clearFlowCookies(w)

	token, err := conf.Exchange(r.Context(), r.URL.Query().Get("code"), oauth2.VerifierOption(verifierCookie.Value))
	if err != nil {
		logger.Error("OAuth code exchange failed", "error", err)
		webutil.HandleError(w, logger, model.NewAppError("PROVIDER_ERROR", "外部プロバイダとの通信に失敗しました。", "", model.ErrProviderError))
		return
	}

	identity, err := h.fetchIdentity(r.Context(), provider, conf, token)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	resolution, err := h.resolver.ResolveIdentity(r.Context(), *identity)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	switch resolution.Decision {
	case model.LinkConfirmationRequired:
		// 自動リンクを保留。確認メールの案内画面へ
		http.Redirect(w, r, fmt.Sprintf("%s/link/pending", h.cfg.App.FrontendURL), http.StatusFound)
	default:
		accessToken, err := h.session.Issue(r.Context(), resolution.User)
		if err != nil {
			webutil.HandleError(w, logger, err)
			return
		}
		redirect := fmt.Sprintf("%s/auth/callback?token=%s&is_new_user=%t",
			h.cfg.App.FrontendURL, url.QueryEscape(accessToken), resolution.IsNewUser)
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

// ConfirmLink は保留中のリンクを確認・消費し、セッションJWTを返します
func (h *OAuthHandler) ConfirmLink(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.ConfirmLinkRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode confirm link request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for confirm link", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation for confirm link", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	user, err := h.resolver.ResolvePendingLink(r.Context(), req.Token)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	accessToken, err := h.session.Issue(r.Context(), user)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, &model.VerifyCodeResponse{
		Success:     true,
		UserID:      user.ID.String(),
		AccessToken: accessToken,
		Message:     "アカウント連携が完了しました。",
	}, logger)
}

// fetchIdentity はアクセストークンでプロバイダのプロフィールAPIを呼び出します
func (h *OAuthHandler) fetchIdentity(ctx context.Context, provider string, conf *oauth2.Config, token *oauth2.Token) (*model.ExternalIdentity, error) {
	logger := middleware.GetLogger(ctx).With("provider", provider)
	client := conf.Client(ctx, token)

	switch provider {
	case model.ProviderGoogle:
		var profile struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := fetchJSON(client, h.googleUserInfoURL, &profile); err != nil {
			logger.Error("Failed to fetch google profile", "error", err)
			return nil, model.NewAppError("PROVIDER_ERROR", "プロフィールの取得に失敗しました。", "", model.ErrProviderError)
		}
		if profile.ID == "" {
			return nil, model.NewAppError("PROVIDER_ERROR", "プロフィールの取得に失敗しました。", "", model.ErrProviderError)
		}
		return &model.ExternalIdentity{
			Provider:          model.ProviderGoogle,
			ProviderAccountID: profile.ID,
			Email:             profile.Email,
			Name:              profile.Name,
		}, nil

	case model.ProviderTwitter:
		var profile struct {
			Data struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				Username string `json:"username"`
			} `json:"data"`
		}
		if err := fetchJSON(client, h.twitterUserInfoURL, &profile); err != nil {
			logger.Error("Failed to fetch twitter profile", "error", err)
			return nil, model.NewAppError("PROVIDER_ERROR", "プロフィールの取得に失敗しました。", "", model.ErrProviderError)
		}
		if profile.Data.ID == "" {
			return nil, model.NewAppError("PROVIDER_ERROR", "プロフィールの取得に失敗しました。", "", model.ErrProviderError)
		}
		return &model.ExternalIdentity{
			Provider:          model.ProviderTwitter,
			ProviderAccountID: profile.Data.ID,
			Name:              profile.Data.Name,
			Username:          profile.Data.Username,
		}, nil

	default:
		return nil, model.NewAppError("UNKNOWN_PROVIDER", "サポートされていないプロバイダです。", "provider", model.ErrInvalidInput)
	}
}

func fetchJSON(client *http.Client, url string, dst interface{}) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (h *OAuthHandler) setFlowCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(oauthCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *OAuthHandler) clearFlowCookies(w http.ResponseWriter) {
	for _, name := range []string{stateCookieName, verifierCookieName} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
	}
}

func (h *OAuthHandler) redirectWithError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, fmt.Sprintf("%s/auth/error?reason=%s", h.cfg.App.FrontendURL, url.QueryEscape(reason)), http.StatusFound)
}
