package service

import (
	"context"
	"errors"
	"time"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SessionService はセッションJWTの発行と更新を提供します
type SessionService interface {
	Issue(ctx context.Context, user *model.User) (string, error)
	// Renew は有効なトークンを受け取り、role と phone_verified を
	// ストアから再取得した上で新しいトークンを発行します
	Renew(ctx context.Context, tokenString string) (string, error)
}

type sessionService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	cfg      *config.Config
}

func NewSessionService(db *gorm.DB, userRepo repository.UserRepository, cfg *config.Config) SessionService {
	return &sessionService{db: db, userRepo: userRepo, cfg: cfg}
}

func (s *sessionService) Issue(ctx context.Context, user *model.User) (string, error) {
	return s.sign(ctx, user.ID.String(), user.Role, user.PhoneVerified)
}

func (s *sessionService) Renew(ctx context.Context, tokenString string) (string, error) {
	logger := middleware.GetLogger(ctx)

	claims := &model.SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil || !token.Valid {
		logger.Warn("Session renewal failed: invalid token", "error", err)
		return "", model.NewAppError("INVALID_TOKEN", "セッションが無効です。再度ログインしてください。", "", model.ErrForbidden)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		logger.Warn("Session renewal failed: malformed subject", "error", err)
		return "", model.NewAppError("INVALID_TOKEN", "セッションが無効です。再度ログインしてください。", "", model.ErrForbidden)
	}

	// role と phone_verified はストアの現在値で上書きする。
	// 取得に失敗した場合はトークンの前回値を維持する (セッションは失効させない)。
	role := claims.Role
	phoneVerified := claims.PhoneVerified
	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	switch {
	case err == nil:
		role = user.Role
		phoneVerified = user.PhoneVerified
	case errors.Is(err, model.ErrNotFound):
		logger.Warn("Session renewal failed: user no longer exists", "user_id", userID)
		return "", model.NewAppError("INVALID_TOKEN", "アカウントが見つかりません。", "", model.ErrForbidden)
	default:
		logger.Error("Failed to refresh session claims from store, keeping previous values", "error", err, "user_id", userID)
	}

	return s.sign(ctx, userID.String(), role, phoneVerified)
}

func (s *sessionService) sign(ctx context.Context, subject, role string, phoneVerified bool) (string, error) {
	logger := middleware.GetLogger(ctx)

	now := time.Now()
	claims := &model.SessionClaims{
		Role:          role,
		PhoneVerified: phoneVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.App.Name,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWT.SessionMaxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		logger.Error("Failed to sign session JWT", "error", err, "user_id", subject)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	return signedToken, nil
}
