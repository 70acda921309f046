package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/service"
	"oshi_high/internal/webutil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type IdolHandler struct {
	service service.IdolService
}

func NewIdolHandler(s service.IdolService) *IdolHandler {
	return &IdolHandler{service: s}
}

// ListIdols は推し一覧を返します。?claimed=true/false で絞り込みできます
func (h *IdolHandler) ListIdols(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var claimed *bool
	if v := r.URL.Query().Get("claimed"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			appErr := model.NewAppError("INVALID_QUERY", "claimedにはtrueかfalseを指定してください。", "claimed", model.ErrInvalidInput)
			webutil.HandleError(w, logger, appErr)
			return
		}
		claimed = &parsed
	}

	idols, err := h.service.ListIdols(r.Context(), claimed)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, idols, logger)
}

// GetIdol は推しの詳細を返します
func (h *IdolHandler) GetIdol(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	idolID, err := uuid.Parse(chi.URLParam(r, "idol_id"))
	if err != nil {
		appErr := model.NewAppError("INVALID_ID", "IDの形式が正しくありません。", "idol_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	idol, err := h.service.GetIdol(r.Context(), idolID)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, idol, logger)
}

// CreateIdol は推しを登録します (要認証)
func (h *IdolHandler) CreateIdol(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.CreateIdolRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode create idol request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for create idol", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation for create idol", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	idol, err := h.service.CreateIdol(r.Context(), &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusCreated, idol, logger)
}

// UpdateIdol は推しの情報を更新します (claim済みオーナーのみ)
func (h *IdolHandler) UpdateIdol(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	idolID, err := uuid.Parse(chi.URLParam(r, "idol_id"))
	if err != nil {
		appErr := model.NewAppError("INVALID_ID", "IDの形式が正しくありません。", "idol_id", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	var req model.UpdateIdolRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode update idol request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for update idol", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation for update idol", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	idol, err := h.service.UpdateIdol(r.Context(), idolID, userID, &req)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, idol, logger)
}
