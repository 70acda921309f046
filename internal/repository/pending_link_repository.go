//go:generate mockery --name PendingLinkRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type PendingLinkRepository interface {
	Create(ctx context.Context, db *gorm.DB, link *model.PendingLink) error
	Find(ctx context.Context, db *gorm.DB, token string) (*model.PendingLink, error)
	// Delete はトークンの行を削除し、削除件数を返します。
	// 同時実行時は件数 1 を観測した側だけが解決に成功したことになります
	Delete(ctx context.Context, db *gorm.DB, token string) (int64, error)
}

type gormPendingLinkRepository struct{}

func NewGormPendingLinkRepository() PendingLinkRepository {
	return &gormPendingLinkRepository{}
}

func (r *gormPendingLinkRepository) Create(ctx context.Context, db *gorm.DB, link *model.PendingLink) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(link)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key error on create pending link", "provider", link.Provider)
			return model.ErrConflict
		}
		logger.Error("Error creating pending link in DB", "error", result.Error, "provider", link.Provider)
		return fmt.Errorf("gormPendingLinkRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormPendingLinkRepository) Find(ctx context.Context, db *gorm.DB, token string) (*model.PendingLink, error) {
	logger := middleware.GetLogger(ctx)
	var link model.PendingLink

	result := db.WithContext(ctx).Where("token = ?", token).First(&link)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding pending link in DB", "error", result.Error)
		return nil, fmt.Errorf("gormPendingLinkRepository.Find: %w", result.Error)
	}
	return &link, nil
}

func (r *gormPendingLinkRepository) Delete(ctx context.Context, db *gorm.DB, token string) (int64, error) {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Where("token = ?", token).Delete(&model.PendingLink{})
	if result.Error != nil {
		logger.Error("Error deleting pending link in DB", "error", result.Error)
		return 0, fmt.Errorf("gormPendingLinkRepository.Delete: %w", result.Error)
	}
	return result.RowsAffected, nil
}
