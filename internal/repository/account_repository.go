//go:generate mockery --name AccountRepository --output ./mocks --outpkg mocks --case=underscore
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

type AccountRepository interface {
	Create(ctx context.Context, db *gorm.DB, account *model.Account) error
	FindByProvider(ctx context.Context, db *gorm.DB, provider, providerAccountID string) (*model.Account, error)
	FindByUserAndProvider(ctx context.Context, db *gorm.DB, userID uuid.UUID, provider string) (*model.Account, error)
	// DeleteByProvider は (provider, provider_account_id) の行を削除し、削除件数を返します
	DeleteByProvider(ctx context.Context, db *gorm.DB, provider, providerAccountID string) (int64, error)
}

type gormAccountRepository struct{}

func NewGormAccountRepository() AccountRepository {
	return &gormAccountRepository{}
}

func (r *gormAccountRepository) Create(ctx context.Context, db *gorm.DB, account *model.Account) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(account)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			// (provider, provider_account_id) は恒久的に1ユーザーに対応するため上書きしない
			logger.Warn("Duplicate key error on create account",
				"error", result.Error,
				"provider", account.Provider,
				"provider_account_id", account.ProviderAccountID,
			)
			return model.ErrConflict
		}
		logger.Error("Error creating account in DB",
			"error", result.Error,
			"provider", account.Provider,
			"provider_account_id", account.ProviderAccountID,
		)
		return fmt.Errorf("gormAccountRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormAccountRepository) FindByProvider(ctx context.Context, db *gorm.DB, provider, providerAccountID string) (*model.Account, error) {
	logger := middleware.GetLogger(ctx)
	var account model.Account

	result := db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding account by provider in DB",
			"error", result.Error,
			"provider", provider,
			"provider_account_id", providerAccountID,
		)
		return nil, fmt.Errorf("gormAccountRepository.FindByProvider: %w", result.Error)
	}
	return &account, nil
}

func (r *gormAccountRepository) FindByUserAndProvider(ctx context.Context, db *gorm.DB, userID uuid.UUID, provider string) (*model.Account, error) {
	logger := middleware.GetLogger(ctx)
	var account model.Account

	result := db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userID, provider).
		First(&account)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding account by user and provider in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"provider", provider,
		)
		return nil, fmt.Errorf("gormAccountRepository.FindByUserAndProvider: %w", result.Error)
	}
	return &account, nil
}

func (r *gormAccountRepository) DeleteByProvider(ctx context.Context, db *gorm.DB, provider, providerAccountID string) (int64, error) {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Where("provider = ? AND provider_account_id = ?", provider, providerAccountID).
		Delete(&model.Account{})
	if result.Error != nil {
		logger.Error("Error deleting account by provider in DB",
			"error", result.Error,
			"provider", provider,
			"provider_account_id", providerAccountID,
		)
		return 0, fmt.Errorf("gormAccountRepository.DeleteByProvider: %w", result.Error)
	}
	return result.RowsAffected, nil
}
