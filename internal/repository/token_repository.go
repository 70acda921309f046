//go:generate mockery --name TokenRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenRepository は認証コード (VerificationToken) のストア境界です。
// すべての操作は (identifier, token) の複合キー単位で行います。
type TokenRepository interface {
	// Upsert は同一の (identifier, token) が存在すれば有効期限のみ更新し、
	// なければ新規作成します
	Upsert(ctx context.Context, db *gorm.DB, token *model.VerificationToken) error
	// DeleteOthers は同じ identifier の (token 以外の) コードを削除します。
	// 新規発行時に過去のコードを無効化するために使います
	DeleteOthers(ctx context.Context, db *gorm.DB, identifier, token string) error
	Find(ctx context.Context, db *gorm.DB, identifier, token string) (*model.VerificationToken, error)
	// Delete は (identifier, token) を削除し、削除件数を返します。
	// 既に削除済みでもエラーにはなりません (冪等)。同時実行時は件数 1 を
	// 観測した側だけが消費に成功したことになります
	Delete(ctx context.Context, db *gorm.DB, identifier, token string) (int64, error)
}

type gormTokenRepository struct{}

func NewGormTokenRepository() TokenRepository {
	return &gormTokenRepository{}
}

func (r *gormTokenRepository) Upsert(ctx context.Context, db *gorm.DB, token *model.VerificationToken) error {
	logger := middleware.GetLogger(ctx)

	err := db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "identifier"}, {Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"expires"}),
	}).Create(token).Error
	if err != nil {
		logger.Error("Failed to upsert verification token", "error", err)
		return fmt.Errorf("gormTokenRepository.Upsert: %w", err)
	}
	return nil
}

func (r *gormTokenRepository) DeleteOthers(ctx context.Context, db *gorm.DB, identifier, token string) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Where("identifier = ? AND token <> ?", identifier, token).
		Delete(&model.VerificationToken{})
	if result.Error != nil {
		logger.Error("Failed to delete stale verification tokens", "error", result.Error)
		return fmt.Errorf("gormTokenRepository.DeleteOthers: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		logger.Debug("Invalidated previous verification codes", "count", result.RowsAffected)
	}
	return nil
}

func (r *gormTokenRepository) Find(ctx context.Context, db *gorm.DB, identifier, token string) (*model.VerificationToken, error) {
	logger := middleware.GetLogger(ctx)
	var vt model.VerificationToken

	err := db.WithContext(ctx).
		Where("identifier = ? AND token = ?", identifier, token).
		First(&vt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Failed to find verification token", "error", err)
		return nil, fmt.Errorf("gormTokenRepository.Find: %w", err)
	}
	return &vt, nil
}

func (r *gormTokenRepository) Delete(ctx context.Context, db *gorm.DB, identifier, token string) (int64, error) {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).
		Where("identifier = ? AND token = ?", identifier, token).
		Delete(&model.VerificationToken{})
	if result.Error != nil {
		logger.Error("Failed to delete verification token", "error", result.Error)
		return 0, fmt.Errorf("gormTokenRepository.Delete: %w", result.Error)
	}
	return result.RowsAffected, nil
}
