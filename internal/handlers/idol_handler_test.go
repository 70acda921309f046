// internal/handlers/idol_handler_test.go
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"oshi_high/internal/handlers"
	"oshi_high/internal/model"
	"oshi_high/internal/service/mocks"
)

// テスト用に認証ミドルウェア相当のユーザーIDを注入する
func withUserID(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), model.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setupIdolRouter(svc *mocks.IdolService, userID uuid.UUID) *chi.Mux {
	h := handlers.NewIdolHandler(svc)
	router := chi.NewRouter()
	router.Get("/idols", h.ListIdols)
	router.Get("/idols/{idol_id}", h.GetIdol)
	router.Group(func(r chi.Router) {
		r.Use(withUserID(userID))
		r.Post("/idols", h.CreateIdol)
		r.Patch("/idols/{idol_id}", h.UpdateIdol)
	})
	return router
}

func TestIdolHandler_ListIdols(t *testing.T) {
	userID := uuid.New()

	t.Run("正常系: 一覧を返す", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("ListIdols", mock.Anything, (*bool)(nil)).
			Return([]model.Idol{{ID: uuid.New(), Name: "星野ひかり"}}, nil).Once()
		router := setupIdolRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/idols", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "星野ひかり", body[0]["name"])
		svc.AssertExpectations(t)
	})

	t.Run("正常系: claimed=trueで絞り込み", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("ListIdols", mock.Anything, mock.MatchedBy(func(claimed *bool) bool {
			return claimed != nil && *claimed
		})).Return([]model.Idol{}, nil).Once()
		router := setupIdolRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/idols?claimed=true", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("異常系: claimedが不正な値なら400", func(t *testing.T) {
		svc := new(mocks.IdolService)
		router := setupIdolRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/idols?claimed=yes!", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ListIdols", mock.Anything, mock.Anything)
	})
}

func TestIdolHandler_GetIdol(t *testing.T) {
	userID := uuid.New()
	idolID := uuid.New()

	t.Run("正常系: 詳細を返す", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("GetIdol", mock.Anything, idolID).
			Return(&model.Idol{ID: idolID, Name: "星野ひかり"}, nil).Once()
		router := setupIdolRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/idols/"+idolID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("異常系: UUIDでないIDは400", func(t *testing.T) {
		router := setupIdolRouter(new(mocks.IdolService), userID)

		req := httptest.NewRequest(http.MethodGet, "/idols/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("異常系: 存在しない推しは404", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("GetIdol", mock.Anything, idolID).
			Return(nil, model.NewAppError("IDOL_NOT_FOUND", "推しが見つかりません。", "idol_id", model.ErrNotFound)).Once()
		router := setupIdolRouter(svc, userID)

		req := httptest.NewRequest(http.MethodGet, "/idols/"+idolID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		svc.AssertExpectations(t)
	})
}

func TestIdolHandler_CreateIdol(t *testing.T) {
	userID := uuid.New()
	snsLink := "https://twitter.com/hikari_hoshino"

	tests := []struct {
		name           string
		requestBody    model.CreateIdolRequest
		setupMock      func(svc *mocks.IdolService)
		expectedStatus int
	}{
		{
			name:        "正常系: 作成成功で201",
			requestBody: model.CreateIdolRequest{Name: "星野ひかり", SNSLink: &snsLink},
			setupMock: func(svc *mocks.IdolService) {
				svc.On("CreateIdol", mock.Anything, mock.MatchedBy(func(req *model.CreateIdolRequest) bool {
					return req.Name == "星野ひかり" && req.SNSLink != nil && *req.SNSLink == snsLink
				})).Return(&model.Idol{ID: uuid.New(), Name: "星野ひかり", SNSLink: &snsLink}, nil).Once()
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "異常系: 名前が空でバリデーションエラー",
			requestBody:    model.CreateIdolRequest{Name: ""},
			setupMock:      func(svc *mocks.IdolService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "異常系: SNSリンク重複は409",
			requestBody: model.CreateIdolRequest{Name: "星野ひかり", SNSLink: &snsLink},
			setupMock: func(svc *mocks.IdolService) {
				svc.On("CreateIdol", mock.Anything, mock.Anything).
					Return(nil, model.NewAppError("DUPLICATE_SNS_LINK", "このSNSリンクは既に登録されています。", "sns_link", model.ErrConflict)).Once()
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mocks.IdolService)
			tt.setupMock(svc)
			router := setupIdolRouter(svc, userID)

			bodyBytes, err := json.Marshal(tt.requestBody)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodPost, "/idols", bytes.NewReader(bodyBytes))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestIdolHandler_UpdateIdol(t *testing.T) {
	userID := uuid.New()
	idolID := uuid.New()
	description := "新しいプロフィールです。"

	t.Run("正常系: オーナーによる更新", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("UpdateIdol", mock.Anything, idolID, userID, mock.MatchedBy(func(req *model.UpdateIdolRequest) bool {
			return req.Description != nil && *req.Description == description
		})).Return(&model.Idol{ID: idolID, Name: "星野ひかり", Description: &description, ClaimedBy: &userID}, nil).Once()
		router := setupIdolRouter(svc, userID)

		bodyBytes, err := json.Marshal(model.UpdateIdolRequest{Description: &description})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPatch, "/idols/"+idolID.String(), bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("異常系: オーナー以外の更新は403", func(t *testing.T) {
		svc := new(mocks.IdolService)
		svc.On("UpdateIdol", mock.Anything, idolID, userID, mock.Anything).
			Return(nil, model.NewAppError("FORBIDDEN", "この推しを編集する権限がありません。", "", model.ErrForbidden)).Once()
		router := setupIdolRouter(svc, userID)

		bodyBytes, err := json.Marshal(model.UpdateIdolRequest{Description: &description})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPatch, "/idols/"+idolID.String(), bytes.NewReader(bodyBytes))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		svc.AssertExpectations(t)
	})
}
