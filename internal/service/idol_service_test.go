// internal/service/idol_service_test.go
package service

import (
	"context"
	"testing"

	"oshi_high/internal/model"
	repomocks "oshi_high/internal/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBIdol() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

func Test_idolService_CreateIdol(t *testing.T) {
	ctx := context.Background()
	snsLink := "https://twitter.com/hikari_hoshino"

	tests := []struct {
		name        string
		req         *model.CreateIdolRequest
		setupMocks  func(idolRepo *repomocks.IdolRepository)
		wantErr     error
		checkResult func(t *testing.T, idol *model.Idol)
	}{
		{
			name: "正常系: 未claimの推しとして作成される",
			req:  &model.CreateIdolRequest{Name: "星野ひかり", SNSLink: &snsLink},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(idol *model.Idol) bool {
					return idol.Name == "星野ひかり" &&
						idol.SNSLink != nil && *idol.SNSLink == snsLink &&
						idol.ClaimedBy == nil
				})).Return(nil).Once()
			},
			checkResult: func(t *testing.T, idol *model.Idol) {
				assert.NotEqual(t, uuid.Nil, idol.ID)
				assert.Nil(t, idol.ClaimedBy)
			},
		},
		{
			name: "異常系: SNSリンクの重複",
			req:  &model.CreateIdolRequest{Name: "星野ひかり", SNSLink: &snsLink},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(model.ErrConflict).Once()
			},
			wantErr: model.ErrConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDBIdol()
			idolRepo := new(repomocks.IdolRepository)
			tt.setupMocks(idolRepo)
			s := NewIdolService(db, idolRepo)

			idol, err := s.CreateIdol(ctx, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				tt.checkResult(t, idol)
			}
			idolRepo.AssertExpectations(t)
		})
	}
}

func Test_idolService_GetIdol(t *testing.T) {
	ctx := context.Background()
	idolID := uuid.New()

	t.Run("正常系: 推しを取得できる", func(t *testing.T) {
		db := setupTestDBIdol()
		idolRepo := new(repomocks.IdolRepository)
		idolRepo.On("FindByID", ctx, mock.Anything, idolID).
			Return(&model.Idol{ID: idolID, Name: "星野ひかり"}, nil).Once()
		s := NewIdolService(db, idolRepo)

		idol, err := s.GetIdol(ctx, idolID)
		require.NoError(t, err)
		assert.Equal(t, idolID, idol.ID)
		idolRepo.AssertExpectations(t)
	})

	t.Run("異常系: 存在しない推し", func(t *testing.T) {
		db := setupTestDBIdol()
		idolRepo := new(repomocks.IdolRepository)
		idolRepo.On("FindByID", ctx, mock.Anything, idolID).Return(nil, model.ErrNotFound).Once()
		s := NewIdolService(db, idolRepo)

		_, err := s.GetIdol(ctx, idolID)
		require.Error(t, err)
		assert.ErrorIs(t, err, model.ErrNotFound)
		idolRepo.AssertExpectations(t)
	})
}

func Test_idolService_UpdateIdol(t *testing.T) {
	ctx := context.Background()
	idolID := uuid.New()
	ownerID := uuid.New()
	otherID := uuid.New()
	description := "新しいプロフィールです。"

	tests := []struct {
		name       string
		userID     uuid.UUID
		req        *model.UpdateIdolRequest
		setupMocks func(idolRepo *repomocks.IdolRepository)
		wantErr    error
	}{
		{
			name:   "正常系: claim済みオーナーによる更新",
			userID: ownerID,
			req:    &model.UpdateIdolRequest{Description: &description},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("FindByID", ctx, mock.Anything, idolID).
					Return(&model.Idol{ID: idolID, Name: "星野ひかり", ClaimedBy: &ownerID}, nil).Once()
				idolRepo.On("Update", ctx, mock.Anything, idolID, mock.MatchedBy(func(updates map[string]interface{}) bool {
					return updates["description"] == description
				})).Return(nil).Once()
				idolRepo.On("FindByID", ctx, mock.Anything, idolID).
					Return(&model.Idol{ID: idolID, Name: "星野ひかり", Description: &description, ClaimedBy: &ownerID}, nil).Once()
			},
		},
		{
			name:   "異常系: オーナー以外のユーザーは更新できない",
			userID: otherID,
			req:    &model.UpdateIdolRequest{Description: &description},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("FindByID", ctx, mock.Anything, idolID).
					Return(&model.Idol{ID: idolID, Name: "星野ひかり", ClaimedBy: &ownerID}, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name:   "異常系: 未claimの推しは誰も更新できない",
			userID: ownerID,
			req:    &model.UpdateIdolRequest{Description: &description},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("FindByID", ctx, mock.Anything, idolID).
					Return(&model.Idol{ID: idolID, Name: "星野ひかり"}, nil).Once()
			},
			wantErr: model.ErrForbidden,
		},
		{
			name:   "異常系: 存在しない推し",
			userID: ownerID,
			req:    &model.UpdateIdolRequest{Description: &description},
			setupMocks: func(idolRepo *repomocks.IdolRepository) {
				idolRepo.On("FindByID", ctx, mock.Anything, idolID).Return(nil, model.ErrNotFound).Once()
			},
			wantErr: model.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDBIdol()
			idolRepo := new(repomocks.IdolRepository)
			tt.setupMocks(idolRepo)
			s := NewIdolService(db, idolRepo)

			idol, err := s.UpdateIdol(ctx, idolID, tt.userID, tt.req)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				idolRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				require.NotNil(t, idol.Description)
				assert.Equal(t, description, *idol.Description)
			}
			idolRepo.AssertExpectations(t)
		})
	}
}

func Test_idolService_UpdateIdol_NoFields(t *testing.T) {
	ctx := context.Background()
	idolID := uuid.New()
	ownerID := uuid.New()

	db := setupTestDBIdol()
	idolRepo := new(repomocks.IdolRepository)
	idolRepo.On("FindByID", ctx, mock.Anything, idolID).
		Return(&model.Idol{ID: idolID, Name: "星野ひかり", ClaimedBy: &ownerID}, nil).Twice()
	s := NewIdolService(db, idolRepo)

	idol, err := s.UpdateIdol(ctx, idolID, ownerID, &model.UpdateIdolRequest{})
	require.NoError(t, err)
	assert.Equal(t, idolID, idol.ID)
	// 更新フィールドが無ければUpdateは呼ばれない
	idolRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	idolRepo.AssertExpectations(t)
}
