// internal/handlers/oauth_handler_test.go
package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"oshi_high/internal/config"
	"oshi_high/internal/handlers"
	"oshi_high/internal/model"
	"oshi_high/internal/service/mocks"
)

func testOAuthConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name:        "oshi-high-test",
			FrontendURL: "https://app.example.com",
		},
		OAuth: config.OAuthConfig{
			Google: config.OAuthProviderConfig{
				ClientID:     "google-client",
				ClientSecret: "google-secret",
				RedirectURL:  "https://api.example.com/api/v1/auth/google/callback",
			},
			Twitter: config.OAuthProviderConfig{
				ClientID:     "twitter-client",
				ClientSecret: "twitter-secret",
				RedirectURL:  "https://api.example.com/api/v1/auth/twitter/callback",
			},
		},
	}
}

func setupOAuthRouter(resolver *mocks.ResolverService, session *mocks.SessionService) *chi.Mux {
	h := handlers.NewOAuthHandler(resolver, session, testOAuthConfig())
	router := chi.NewRouter()
	router.Get("/auth/{provider}/login", h.Login)
	router.Get("/auth/{provider}/callback", h.Callback)
	router.Post("/auth/link/confirm", h.ConfirmLink)
	return router
}

func TestOAuthHandler_Login(t *testing.T) {
	t.Run("正常系: googleの認可画面へリダイレクトしcookieを設定する", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		location := rec.Header().Get("Location")
		assert.Contains(t, location, "accounts.google.com")
		assert.Contains(t, location, "code_challenge_method=S256")
		assert.Contains(t, location, "client_id=google-client")

		cookieNames := map[string]bool{}
		for _, c := range rec.Result().Cookies() {
			cookieNames[c.Name] = true
			assert.True(t, c.HttpOnly)
		}
		assert.True(t, cookieNames["oauth_state"])
		assert.True(t, cookieNames["oauth_verifier"])
	})

	t.Run("正常系: twitterもPKCE付きでリダイレクトされる", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/twitter/login", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		location := rec.Header().Get("Location")
		assert.Contains(t, location, "twitter.com/i/oauth2/authorize")
		assert.Contains(t, location, "code_challenge_method=S256")
	})

	t.Run("異常系: 未対応のプロバイダは400", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/github/login", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOAuthHandler_Callback(t *testing.T) {
	t.Run("異常系: プロバイダ側で拒否されたらエラー画面へリダイレクト", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "https://app.example.com/auth/error"))
	})

	t.Run("異常系: stateが一致しないと400", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=forged&code=abc", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "expected"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("異常系: verifier cookieが無いと400", func(t *testing.T) {
		router := setupOAuthRouter(new(mocks.ResolverService), new(mocks.SessionService))

		req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=st&code=abc", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "st"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestOAuthHandler_ConfirmLink(t *testing.T) {
	userID := uuid.New()
	validToken := strings.Repeat("ab", 16)

	tests := []struct {
		name           string
		requestBody    interface{}
		setupMock      func(resolver *mocks.ResolverService, session *mocks.SessionService)
		expectedStatus int
		checkBody      func(t *testing.T, body map[string]interface{})
	}{
		{
			name:        "正常系: トークン消費とJWT発行",
			requestBody: model.ConfirmLinkRequest{Token: validToken},
			setupMock: func(resolver *mocks.ResolverService, session *mocks.SessionService) {
				user := &model.User{ID: userID, Role: model.RoleFan}
				resolver.On("ResolvePendingLink", mock.Anything, validToken).Return(user, nil).Once()
				session.On("Issue", mock.Anything, user).Return("linked-jwt", nil).Once()
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body map[string]interface{}) {
				assert.Equal(t, true, body["success"])
				assert.Equal(t, userID.String(), body["user_id"])
				assert.Equal(t, "linked-jwt", body["access_token"])
			},
		},
		{
			name:           "異常系: トークンが短いとバリデーションエラー",
			requestBody:    model.ConfirmLinkRequest{Token: "short"},
			setupMock:      func(resolver *mocks.ResolverService, session *mocks.SessionService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "異常系: 期限切れトークンは410",
			requestBody: model.ConfirmLinkRequest{Token: validToken},
			setupMock: func(resolver *mocks.ResolverService, session *mocks.SessionService) {
				resolver.On("ResolvePendingLink", mock.Anything, validToken).
					Return(nil, model.NewAppError("PENDING_LINK_EXPIRED", "連携リンクの有効期限が切れています。", "token", model.ErrPendingLinkExpired)).Once()
			},
			expectedStatus: http.StatusGone,
		},
		{
			name:        "異常系: 消費済みトークンは404",
			requestBody: model.ConfirmLinkRequest{Token: validToken},
			setupMock: func(resolver *mocks.ResolverService, session *mocks.SessionService) {
				resolver.On("ResolvePendingLink", mock.Anything, validToken).
					Return(nil, model.NewAppError("PENDING_LINK_NOT_FOUND", "連携リンクが見つかりません。", "token", model.ErrPendingLinkNotFound)).Once()
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := new(mocks.ResolverService)
			session := new(mocks.SessionService)
			tt.setupMock(resolver, session)
			router := setupOAuthRouter(resolver, session)

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/auth/link/confirm", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.checkBody != nil {
				var body map[string]interface{}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				tt.checkBody(t, body)
			}
			resolver.AssertExpectations(t)
			session.AssertExpectations(t)
		})
	}
}
