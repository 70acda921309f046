package handlers

import (
	"errors"
	"net/http"
	"strings"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/service"
	"oshi_high/internal/webutil"

	"github.com/go-playground/validator/v10"
)

type AuthHandler struct {
	service service.AuthService
	session service.SessionService
}

func NewAuthHandler(s service.AuthService, session service.SessionService) *AuthHandler {
	return &AuthHandler{service: s, session: session}
}

// SendCode は電話番号へ認証コードを送信します
func (h *AuthHandler) SendCode(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.SendCodeRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode send code request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	if err := webutil.Validator.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			logger.Warn("Validation failed for send code", "errors", validationErrors.Error())
			webutil.HandleError(w, logger, webutil.NewValidationErrorResponse(validationErrors))
		} else {
			logger.Error("Unexpected error during validation for send code", "error", err)
			webutil.HandleError(w, logger, err)
		}
		return
	}

	resp, err := h.service.SendCode(r.Context(), req.Phone)
	if err != nil {
		// サービス層でログは出力済みなので、ここではエラー処理に専念
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// VerifyCode は認証コードを検証し、セッションJWTを返します。
// (phone, code) か (session_info / id_token) のどちらか一方を受け付けます。
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	var req model.VerifyCodeRequest
	if err := webutil.DecodeJSONBody(r, &req); err != nil {
		logger.Warn("Failed to decode verify code request body", "error", err)
		appErr := model.NewAppError("INVALID_REQUEST_BODY", "リクエストボディの形式が正しくありません。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	var cred model.Credential
	switch {
	case req.IDToken != "" || req.SessionInfo != "":
		cred = model.ProviderCredential{
			SessionInfo: req.SessionInfo,
			Code:        req.Code,
			IDToken:     req.IDToken,
		}
	case req.Phone != "" && req.Code != "":
		cred = model.PhoneCredential{Phone: req.Phone, Code: req.Code}
	default:
		logger.Warn("Verify code request missing credentials")
		appErr := model.NewAppError("INVALID_INPUT", "電話番号と認証コード、または検証トークンが必要です。", "", model.ErrInvalidInput)
		webutil.HandleError(w, logger, appErr)
		return
	}

	resp, err := h.service.Authorize(r.Context(), cred)
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, resp, logger)
}

// RenewSession は有効なセッションJWTを最新のクレームで再発行します
func (h *AuthHandler) RenewSession(w http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLogger(r.Context())

	authHeader := r.Header.Get("Authorization")
	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || strings.ToLower(headerParts[0]) != "bearer" {
		logger.Warn("Session renewal attempt without bearer token")
		appErr := model.NewAppError("UNAUTHORIZED", "Authorizationヘッダーが必要です。", "", model.ErrForbidden)
		webutil.HandleError(w, logger, appErr)
		return
	}

	newToken, err := h.session.Renew(r.Context(), headerParts[1])
	if err != nil {
		webutil.HandleError(w, logger, err)
		return
	}

	webutil.RespondWithJSON(w, http.StatusOK, map[string]string{
		"access_token": newToken,
	}, logger)
}
