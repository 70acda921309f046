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

// IdolService は推しアカウントのCRUDを提供します
type IdolService interface {
	ListIdols(ctx context.Context, claimed *bool) ([]model.Idol, error)
	GetIdol(ctx context.Context, idolID uuid.UUID) (*model.Idol, error)
	CreateIdol(ctx context.Context, req *model.CreateIdolRequest) (*model.Idol, error)
	UpdateIdol(ctx context.Context, idolID, userID uuid.UUID, req *model.UpdateIdolRequest) (*model.Idol, error)
}

type idolService struct {
	db       *gorm.DB
	idolRepo repository.IdolRepository
}

func NewIdolService(db *gorm.DB, idolRepo repository.IdolRepository) IdolService {
	return &idolService{db: db, idolRepo: idolRepo}
}

func (s *idolService) ListIdols(ctx context.Context, claimed *bool) ([]model.Idol, error) {
	logger := middleware.GetLogger(ctx)

	idols, err := s.idolRepo.List(ctx, s.db, claimed)
	if err != nil {
		logger.Error("Failed to list idols", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	return idols, nil
}

func (s *idolService) GetIdol(ctx context.Context, idolID uuid.UUID) (*model.Idol, error) {
	logger := middleware.GetLogger(ctx)

	idol, err := s.idolRepo.FindByID(ctx, s.db, idolID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAppError("IDOL_NOT_FOUND", "推しが見つかりません。", "", model.ErrNotFound)
		}
		logger.Error("Failed to find idol", "error", err, "idol_id", idolID)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	return idol, nil
}

func (s *idolService) CreateIdol(ctx context.Context, req *model.CreateIdolRequest) (*model.Idol, error) {
	logger := middleware.GetLogger(ctx)

	idol := &model.Idol{
		ID:          uuid.New(),
		Name:        req.Name,
		SNSHandle:   req.SNSHandle,
		SNSLink:     req.SNSLink,
		Description: req.Description,
	}
	if err := s.idolRepo.Create(ctx, s.db, idol); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Duplicate SNS link on idol creation")
			return nil, model.NewAppError("DUPLICATE_SNS_LINK", "このSNSリンクは既に登録されています。", "sns_link", model.ErrConflict)
		}
		logger.Error("Failed to create idol", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "推しの作成に失敗しました。", "", err)
	}

	logger.Info("Idol created", "idol_id", idol.ID, "name", idol.Name)
	return idol, nil
}

// UpdateIdol はclaim済みの公式オーナー本人にのみ更新を許可します
func (s *idolService) UpdateIdol(ctx context.Context, idolID, userID uuid.UUID, req *model.UpdateIdolRequest) (*model.Idol, error) {
	logger := middleware.GetLogger(ctx).With("idol_id", idolID, "user_id", userID)

	var updated *model.Idol
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		idol, err := s.idolRepo.FindByID(ctx, tx, idolID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				return model.NewAppError("IDOL_NOT_FOUND", "推しが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Failed to find idol", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		if idol.ClaimedBy == nil || *idol.ClaimedBy != userID {
			logger.Warn("Update denied: requester is not the claimed owner")
			return model.NewAppError("FORBIDDEN", "この推しを編集する権限がありません。", "", model.ErrForbidden)
		}

		updates := map[string]interface{}{}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.SNSHandle != nil {
			updates["sns_handle"] = *req.SNSHandle
		}
		if req.ProfileImage != nil {
			updates["profile_image"] = *req.ProfileImage
		}
		if len(updates) > 0 {
			if err := s.idolRepo.Update(ctx, tx, idolID, updates); err != nil {
				logger.Error("Failed to update idol", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "推しの更新に失敗しました。", "", err)
			}
		}

		updated, err = s.idolRepo.FindByID(ctx, tx, idolID)
		if err != nil {
			logger.Error("Failed to reload idol after update", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Idol updated")
	return updated, nil
}
