//go:generate mockery --name IdolRepository --output ./mocks --outpkg mocks --case=underscore
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type IdolRepository interface {
	Create(ctx context.Context, db *gorm.DB, idol *model.Idol) error
	FindByID(ctx context.Context, db *gorm.DB, idolID uuid.UUID) (*model.Idol, error)
	FindBySNSLink(ctx context.Context, db *gorm.DB, snsLink string) (*model.Idol, error)
	// List は claimed フィルタ (nil=全件, true=claim済みのみ, false=未claimのみ) で一覧を返します
	List(ctx context.Context, db *gorm.DB, claimed *bool) ([]model.Idol, error)
	// Claim は claimed_by が NULL の場合のみ claim を設定する条件付き更新です。
	// 設定できた場合 true を返します。既に誰かが claim 済みなら false (エラーではない)。
	Claim(ctx context.Context, db *gorm.DB, idolID, userID uuid.UUID, now time.Time) (bool, error)
	Update(ctx context.Context, db *gorm.DB, idolID uuid.UUID, updates map[string]interface{}) error
}

type gormIdolRepository struct{}

func NewGormIdolRepository() IdolRepository {
	return &gormIdolRepository{}
}

func (r *gormIdolRepository) Create(ctx context.Context, db *gorm.DB, idol *model.Idol) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Create(idol)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" {
			logger.Warn("Duplicate key error on create idol", "error", result.Error, "name", idol.Name)
			return model.ErrConflict
		}
		logger.Error("Error creating idol in DB", "error", result.Error, "name", idol.Name)
		return fmt.Errorf("gormIdolRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormIdolRepository) FindByID(ctx context.Context, db *gorm.DB, idolID uuid.UUID) (*model.Idol, error) {
	logger := middleware.GetLogger(ctx)
	var idol model.Idol

	result := db.WithContext(ctx).Where("id = ?", idolID).First(&idol)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding idol by ID in DB", "error", result.Error, "idol_id", idolID.String())
		return nil, fmt.Errorf("gormIdolRepository.FindByID: %w", result.Error)
	}
	return &idol, nil
}

func (r *gormIdolRepository) FindBySNSLink(ctx context.Context, db *gorm.DB, snsLink string) (*model.Idol, error) {
	logger := middleware.GetLogger(ctx)
	var idol model.Idol

	result := db.WithContext(ctx).Where("sns_link = ?", snsLink).First(&idol)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		logger.Error("Error finding idol by sns_link in DB", "error", result.Error, "sns_link", snsLink)
		return nil, fmt.Errorf("gormIdolRepository.FindBySNSLink: %w", result.Error)
	}
	return &idol, nil
}

func (r *gormIdolRepository) List(ctx context.Context, db *gorm.DB, claimed *bool) ([]model.Idol, error) {
	logger := middleware.GetLogger(ctx)
	var idols []model.Idol

	query := db.WithContext(ctx).Order("created_at DESC")
	if claimed != nil {
		if *claimed {
			query = query.Where("claimed_by IS NOT NULL")
		} else {
			query = query.Where("claimed_by IS NULL")
		}
	}

	if err := query.Find(&idols).Error; err != nil {
		logger.Error("Error listing idols in DB", "error", err)
		return nil, fmt.Errorf("gormIdolRepository.List: %w", err)
	}
	return idols, nil
}

func (r *gormIdolRepository) Claim(ctx context.Context, db *gorm.DB, idolID, userID uuid.UUID, now time.Time) (bool, error) {
	logger := middleware.GetLogger(ctx)

	// claimed_by IS NULL を条件に含めることで、同時claimはどちらか一方しか成功しない
	result := db.WithContext(ctx).Model(&model.Idol{}).
		Where("id = ? AND claimed_by IS NULL", idolID).
		Updates(map[string]interface{}{
			"claimed_by":      userID,
			"claimed_at":      now,
			"sns_verified_at": now,
		})
	if result.Error != nil {
		logger.Error("Error claiming idol in DB", "error", result.Error, "idol_id", idolID.String())
		return false, fmt.Errorf("gormIdolRepository.Claim: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *gormIdolRepository) Update(ctx context.Context, db *gorm.DB, idolID uuid.UUID, updates map[string]interface{}) error {
	logger := middleware.GetLogger(ctx)

	result := db.WithContext(ctx).Model(&model.Idol{}).Where("id = ?", idolID).Updates(updates)
	if result.Error != nil {
		logger.Error("Error updating idol in DB", "error", result.Error, "idol_id", idolID.String())
		return fmt.Errorf("gormIdolRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
