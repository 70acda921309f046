package handlers

import (
	"net/http"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/service"
	"oshi_high/internal/webutil"
)

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetMe は認証済みユーザー自身の情報を返します
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	user, err := h.service.GetUser(r.Context(), userID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, model.NewUserResponse(user), logger)
}

// ListUsers はユーザー一覧を返します (ADMINのみ)
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	responses := make([]*model.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, model.NewUserResponse(&users[i]))
	}

	webutil.RespondWithJSON(w, http.StatusOK, responses, logger)
}
