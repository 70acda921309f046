package service

import (
	"context"
	"errors"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 管理者向けユーザー一覧の最大件数
const userListLimit = 100

// UserService はユーザー情報の参照を提供します
type UserService interface {
	GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
}

type userService struct {
	db       *gorm.DB
	userRepo repository.UserRepository
}

func NewUserService(db *gorm.DB, userRepo repository.UserRepository) UserService {
	return &userService{db: db, userRepo: userRepo}
}

func (s *userService) GetUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	user, err := s.userRepo.FindByID(ctx, s.db, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("User not found", "user_id", userID.String())
			return nil, model.NewAppError("USER_NOT_FOUND", "ユーザーが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Error finding user by ID", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部エラー", "", err)
	}
	return user, nil
}

// ListUsers は新しい順にユーザーを返します (管理者用、最大100件)
func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	logger := middleware.GetLogger(ctx)

	users, err := s.userRepo.List(ctx, s.db, userListLimit)
	if err != nil {
		logger.Error("Failed to list users", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	return users, nil
}
