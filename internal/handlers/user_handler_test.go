// internal/handlers/user_handler_test.go
package handlers_test

import (
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

func TestUserHandler_GetMe(t *testing.T) {
	userID := uuid.New()

	t.Run("正常系: 自分の情報を返す", func(t *testing.T) {
		svc := new(mocks.UserService)
		svc.On("GetUser", mock.Anything, userID).
			Return(&model.User{ID: userID, Role: model.RoleFan, PhoneVerified: true}, nil).Once()

		h := handlers.NewUserHandler(svc)
		router := chi.NewRouter()
		router.Group(func(r chi.Router) {
			r.Use(withUserID(userID))
			r.Get("/users/me", h.GetMe)
		})

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["id"])
		assert.Equal(t, model.RoleFan, body["role"])
		assert.Equal(t, true, body["phone_verified"])
		// 電話番号ハッシュやソルトはレスポンスに含めない
		assert.NotContains(t, body, "phone_hash")
		assert.NotContains(t, body, "phone_salt")
		svc.AssertExpectations(t)
	})

	t.Run("異常系: 認証コンテキストが無いと500", func(t *testing.T) {
		h := handlers.NewUserHandler(new(mocks.UserService))
		router := chi.NewRouter()
		router.Get("/users/me", h.GetMe)

		req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestUserHandler_ListUsers(t *testing.T) {
	t.Run("正常系: ユーザー一覧を返す", func(t *testing.T) {
		svc := new(mocks.UserService)
		svc.On("ListUsers", mock.Anything).
			Return([]model.User{
				{ID: uuid.New(), Role: model.RoleFan},
				{ID: uuid.New(), Role: model.RoleIdol},
			}, nil).Once()

		h := handlers.NewUserHandler(svc)
		router := chi.NewRouter()
		router.Get("/users", h.ListUsers)

		req := httptest.NewRequest(http.MethodGet, "/users", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		var body []map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Len(t, body, 2)
		svc.AssertExpectations(t)
	})
}
