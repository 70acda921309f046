//go:generate mockery --name UserRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, db *gorm.DB, user *model.User) error
	FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error)
	FindByPhoneHash(ctx context.Context, db *gorm.DB, phoneHash string) (*model.User, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error)
	UpdateRole(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string) error
	UpdatePhoneVerified(ctx context.Context, db *gorm.DB, userID uuid.UUID, verified bool) error
	List(ctx context.Context, db *gorm.DB, limit int) ([]model.User, error)
}

type gormUserRepository struct{}

func NewGormUserRepository() UserRepository {
	return &gormUserRepository{}
}

func (r *gormUserRepository) Create(ctx context.Context, db *gorm.DB, user *model.User) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(user)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			// レースコンディションによる一意制約違反
			logger.Warn("Duplicate key error on create user", "error", result.Error, "user_id", user.ID.String())
			return model.ErrConflict
		}
		logger.Error("Error creating user in DB", "error", result.Error, "user_id", user.ID.String())
		return fmt.Errorf("gormUserRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("id = ?", userID).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by ID in DB", "error", result.Error, "user_id", userID.String())
		return nil, fmt.Errorf("gormUserRepository.FindByID: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByPhoneHash(ctx context.Context, db *gorm.DB, phoneHash string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("phone_hash = ?", phoneHash).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		// 生の電話番号はここに到達しないため、ハッシュのみログに残る
		logger.Error("Error finding user by phone hash in DB", "error", result.Error)
		return nil, fmt.Errorf("gormUserRepository.FindByPhoneHash: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)
	var user model.User

	result := db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.Debug("User not found by email", "email", email)
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding user by email in DB", "error", result.Error, "email", email)
		return nil, fmt.Errorf("gormUserRepository.FindByEmail: %w", result.Error)
	}
	return &user, nil
}

func (r *gormUserRepository) UpdateRole(ctx context.Context, db *gorm.DB, userID uuid.UUID, role string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("role", role)
	if result.Error != nil {
		logger.Error("Error updating user role in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.UpdateRole: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) UpdatePhoneVerified(ctx context.Context, db *gorm.DB, userID uuid.UUID, verified bool) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Update("phone_verified", verified)
	if result.Error != nil {
		logger.Error("Error updating phone_verified in DB", "error", result.Error, "user_id", userID.String())
		return fmt.Errorf("gormUserRepository.UpdatePhoneVerified: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormUserRepository) List(ctx context.Context, db *gorm.DB, limit int) ([]model.User, error) {
	logger := middleware.GetLogger(ctx)
	var users []model.User

	result := db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&users)
	if result.Error != nil {
		logger.Error("Error listing users in DB", "error", result.Error)
		return nil, fmt.Errorf("gormUserRepository.List: %w", result.Error)
	}
	return users, nil
}
