// internal/service/resolver_service_test.go
package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"oshi_high/internal/config"
	"oshi_high/internal/model"
	"oshi_high/internal/repository"
	repomocks "oshi_high/internal/repository/mocks"
	"oshi_high/internal/service"
	svcmocks "oshi_high/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDBResolver() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect database for testing: " + err.Error())
	}
	return db
}

type resolverMocks struct {
	userRepo    *repomocks.UserRepository
	accountRepo *repomocks.AccountRepository
	pendingRepo *repomocks.PendingLinkRepository
	idolRepo    *repomocks.IdolRepository
	mailer      *svcmocks.Mailer
}

func newResolverForTest(db *gorm.DB) (service.ResolverService, *resolverMocks) {
	m := &resolverMocks{
		userRepo:    new(repomocks.UserRepository),
		accountRepo: new(repomocks.AccountRepository),
		pendingRepo: new(repomocks.PendingLinkRepository),
		idolRepo:    new(repomocks.IdolRepository),
		mailer:      new(svcmocks.Mailer),
	}
	cfg := &config.Config{
		App: config.AppConfig{Name: "OSHI-HIGH", FrontendURL: "http://localhost:3000"},
	}
	s := service.NewResolverService(db, m.userRepo, m.accountRepo, m.pendingRepo, m.idolRepo, m.mailer, cfg)
	return s, m
}

// --- Test ResolveIdentity ---
func Test_resolverService_ResolveIdentity(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResolver()

	googleIdentity := model.ExternalIdentity{
		Provider:          model.ProviderGoogle,
		ProviderAccountID: "google-sub-1",
		Email:             "fan@example.com",
		Name:              "推し活ユーザー",
	}

	t.Run("正常系: 既存Accountがあればそのままサインイン許可", func(t *testing.T) {
		s, m := newResolverForTest(db)
		userID := uuid.New()

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(&model.Account{UserID: userID, Provider: model.ProviderGoogle, ProviderAccountID: "google-sub-1"}, nil).Once()
		m.userRepo.On("FindByID", ctx, mock.Anything, userID).
			Return(&model.User{ID: userID, Role: model.RoleFan}, nil).Once()

		res, err := s.ResolveIdentity(ctx, googleIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.LinkAllowed, res.Decision)
		assert.Equal(t, userID, res.User.ID)
		assert.False(t, res.IsNewUser)
		m.accountRepo.AssertExpectations(t)
	})

	t.Run("正常系: メール一致で自動リンクを保留しPendingLinkを作成", func(t *testing.T) {
		s, m := newResolverForTest(db)
		existingID := uuid.New()
		email := "fan@example.com"

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("FindByEmail", ctx, mock.Anything, email).
			Return(&model.User{ID: existingID, Email: &email, Role: model.RoleFan}, nil).Once()
		m.pendingRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(link *model.PendingLink) bool {
			var payload model.ExternalIdentity
			if err := json.Unmarshal([]byte(link.Payload), &payload); err != nil {
				return false
			}
			return link.UserID == existingID &&
				link.Provider == model.ProviderGoogle &&
				link.ProviderAccountID == "google-sub-1" &&
				len(link.Token) >= 32 &&
				payload.ProviderAccountID == "google-sub-1" &&
				link.ExpiresAt.After(time.Now())
		})).Return(nil).Once()
		m.accountRepo.On("DeleteByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(int64(0), nil).Once()
		m.mailer.On("Send", ctx, email, mock.Anything, mock.MatchedBy(func(body string) bool {
			return len(body) > 0
		})).Return(nil).Once()

		res, err := s.ResolveIdentity(ctx, googleIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.LinkConfirmationRequired, res.Decision)
		assert.Nil(t, res.User)
		assert.NotEmpty(t, res.PendingToken)
		// Accountは作成されない (保留)
		m.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
		m.pendingRepo.AssertExpectations(t)
		m.mailer.AssertExpectations(t)
	})

	t.Run("正常系: 確認メール送信失敗でも保留自体は成立する", func(t *testing.T) {
		s, m := newResolverForTest(db)
		existingID := uuid.New()
		email := "fan@example.com"

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("FindByEmail", ctx, mock.Anything, email).
			Return(&model.User{ID: existingID, Email: &email}, nil).Once()
		m.pendingRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.accountRepo.On("DeleteByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(int64(0), nil).Once()
		m.mailer.On("Send", ctx, email, mock.Anything, mock.Anything).
			Return(assert.AnError).Once()

		res, err := s.ResolveIdentity(ctx, googleIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.LinkConfirmationRequired, res.Decision)
	})

	t.Run("正常系: メール一致なしなら新規ユーザー+Accountを作成", func(t *testing.T) {
		s, m := newResolverForTest(db)

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderGoogle, "google-sub-1").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("FindByEmail", ctx, mock.Anything, "fan@example.com").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.Role == model.RoleFan && u.Email != nil && *u.Email == "fan@example.com"
		})).Return(nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *model.Account) bool {
			return a.Provider == model.ProviderGoogle && a.ProviderAccountID == "google-sub-1" && a.Type == model.AccountTypeOAuth
		})).Return(nil).Once()

		res, err := s.ResolveIdentity(ctx, googleIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.LinkAllowed, res.Decision)
		assert.True(t, res.IsNewUser)
		m.userRepo.AssertExpectations(t)
		m.accountRepo.AssertExpectations(t)
	})

	t.Run("異常系: プロバイダ情報が不足", func(t *testing.T) {
		s, _ := newResolverForTest(db)
		_, err := s.ResolveIdentity(ctx, model.ExternalIdentity{Provider: model.ProviderGoogle})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

// --- Test ResolveIdentity (twitterのアイドルclaim) ---
func Test_resolverService_ResolveIdentity_IdolClaim(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResolver()

	twitterIdentity := model.ExternalIdentity{
		Provider:          model.ProviderTwitter,
		ProviderAccountID: "tw-100",
		Name:              "星野アイ",
		Username:          "hoshino_ai",
	}
	snsLink := "https://twitter.com/hoshino_ai"

	t.Run("正常系: 未claimのアイドルが一致したらclaimしIDOLに昇格", func(t *testing.T) {
		s, m := newResolverForTest(db)
		idolID := uuid.New()

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderTwitter, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, snsLink).
			Return(&model.Idol{ID: idolID, Name: "星野アイ", SNSLink: &snsLink}, nil).Once()
		m.idolRepo.On("Claim", ctx, mock.Anything, idolID, mock.Anything, mock.Anything).
			Return(true, nil).Once()
		m.userRepo.On("UpdateRole", ctx, mock.Anything, mock.Anything, model.RoleIdol).Return(nil).Once()

		res, err := s.ResolveIdentity(ctx, twitterIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.LinkAllowed, res.Decision)
		assert.Equal(t, model.RoleIdol, res.User.Role)
		m.idolRepo.AssertExpectations(t)
		m.userRepo.AssertExpectations(t)
	})

	t.Run("正常系: sns_linkがアカウントIDそのものでも一致する", func(t *testing.T) {
		s, m := newResolverForTest(db)
		idolID := uuid.New()
		rawLink := "tw-100"

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderTwitter, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "tw-100").
			Return(&model.Idol{ID: idolID, Name: "星野アイ", SNSLink: &rawLink}, nil).Once()
		m.idolRepo.On("Claim", ctx, mock.Anything, idolID, mock.Anything, mock.Anything).
			Return(true, nil).Once()
		m.userRepo.On("UpdateRole", ctx, mock.Anything, mock.Anything, model.RoleIdol).Return(nil).Once()

		res, err := s.ResolveIdentity(ctx, twitterIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.RoleIdol, res.User.Role)
		m.idolRepo.AssertExpectations(t)
	})

	t.Run("正常系: claim済みアイドルは上書きせずサインインは成功", func(t *testing.T) {
		s, m := newResolverForTest(db)
		idolID := uuid.New()
		otherUser := uuid.New()

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderTwitter, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, snsLink).
			Return(&model.Idol{ID: idolID, SNSLink: &snsLink, ClaimedBy: &otherUser}, nil).Once()
		m.idolRepo.On("Claim", ctx, mock.Anything, idolID, mock.Anything, mock.Anything).
			Return(false, nil).Once()

		res, err := s.ResolveIdentity(ctx, twitterIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.RoleFan, res.User.Role)
		m.userRepo.AssertNotCalled(t, "UpdateRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("正常系: 一致するアイドルがいなければ何もしない", func(t *testing.T) {
		s, m := newResolverForTest(db)

		m.accountRepo.On("FindByProvider", ctx, mock.Anything, model.ProviderTwitter, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.userRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "tw-100").
			Return(nil, model.ErrNotFound).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "https://twitter.com/hoshino_ai").
			Return(nil, model.ErrNotFound).Once()
		m.idolRepo.On("FindBySNSLink", ctx, mock.Anything, "https://x.com/hoshino_ai").
			Return(nil, model.ErrNotFound).Once()

		res, err := s.ResolveIdentity(ctx, twitterIdentity)

		require.NoError(t, err)
		assert.Equal(t, model.RoleFan, res.User.Role)
		m.idolRepo.AssertNotCalled(t, "Claim", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

// --- Test ResolvePendingLink ---
func Test_resolverService_ResolvePendingLink(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResolver()

	userID := uuid.New()
	pendingToken := "0123456789abcdef0123456789abcdef"

	validLink := func() *model.PendingLink {
		payload, _ := json.Marshal(model.ExternalIdentity{
			Provider:          model.ProviderGoogle,
			ProviderAccountID: "google-sub-1",
			Email:             "fan@example.com",
		})
		return &model.PendingLink{
			Token:             pendingToken,
			UserID:            userID,
			Provider:          model.ProviderGoogle,
			ProviderAccountID: "google-sub-1",
			Payload:           string(payload),
			ExpiresAt:         time.Now().Add(30 * time.Minute),
		}
	}

	t.Run("正常系: 確認成功でAccountが作成されリンクが消費される", func(t *testing.T) {
		s, m := newResolverForTest(db)

		m.pendingRepo.On("Find", ctx, mock.Anything, pendingToken).Return(validLink(), nil).Once()
		m.userRepo.On("FindByID", ctx, mock.Anything, userID).
			Return(&model.User{ID: userID, Role: model.RoleFan}, nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.MatchedBy(func(a *model.Account) bool {
			return a.UserID == userID && a.Provider == model.ProviderGoogle && a.ProviderAccountID == "google-sub-1"
		})).Return(nil).Once()
		m.pendingRepo.On("Delete", ctx, mock.Anything, pendingToken).Return(int64(1), nil).Once()

		user, err := s.ResolvePendingLink(ctx, pendingToken)

		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)
		m.pendingRepo.AssertExpectations(t)
		m.accountRepo.AssertExpectations(t)
	})

	t.Run("異常系: リンクが存在しない", func(t *testing.T) {
		s, m := newResolverForTest(db)
		m.pendingRepo.On("Find", ctx, mock.Anything, pendingToken).Return(nil, model.ErrNotFound).Once()

		_, err := s.ResolvePendingLink(ctx, pendingToken)
		assert.ErrorIs(t, err, model.ErrPendingLinkNotFound)
	})

	t.Run("異常系: 期限切れのリンクは削除してGone相当のエラー", func(t *testing.T) {
		s, m := newResolverForTest(db)
		expired := validLink()
		expired.ExpiresAt = time.Now().Add(-time.Minute)

		m.pendingRepo.On("Find", ctx, mock.Anything, pendingToken).Return(expired, nil).Once()
		m.pendingRepo.On("Delete", ctx, mock.Anything, pendingToken).Return(int64(1), nil).Once()

		_, err := s.ResolvePendingLink(ctx, pendingToken)
		assert.ErrorIs(t, err, model.ErrPendingLinkExpired)
		m.accountRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("異常系: 同時確認で消費に負けた側は失敗する", func(t *testing.T) {
		s, m := newResolverForTest(db)

		m.pendingRepo.On("Find", ctx, mock.Anything, pendingToken).Return(validLink(), nil).Once()
		m.userRepo.On("FindByID", ctx, mock.Anything, userID).
			Return(&model.User{ID: userID}, nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(nil).Once()
		m.pendingRepo.On("Delete", ctx, mock.Anything, pendingToken).Return(int64(0), nil).Once()

		_, err := s.ResolvePendingLink(ctx, pendingToken)
		assert.ErrorIs(t, err, model.ErrPendingLinkNotFound)
	})

	t.Run("異常系: 保留中に外部IDが別ユーザーへ紐付いていたら409", func(t *testing.T) {
		s, m := newResolverForTest(db)

		m.pendingRepo.On("Find", ctx, mock.Anything, pendingToken).Return(validLink(), nil).Once()
		m.userRepo.On("FindByID", ctx, mock.Anything, userID).
			Return(&model.User{ID: userID}, nil).Once()
		m.accountRepo.On("Create", ctx, mock.Anything, mock.Anything).Return(model.ErrConflict).Once()

		_, err := s.ResolvePendingLink(ctx, pendingToken)
		assert.ErrorIs(t, err, model.ErrDuplicateIdentity)
	})
}

// 期限切れリンクの遅延削除がロールバックに巻き込まれず、行が実際に消えること
func Test_resolverService_ResolvePendingLink_ExpiredLinkIsPurged(t *testing.T) {
	ctx := context.Background()
	db := setupTestDBResolver()
	require.NoError(t, db.AutoMigrate(&model.PendingLink{}))

	token := "feedfacefeedfacefeedfacefeedface"
	require.NoError(t, db.Create(&model.PendingLink{
		Token:             token,
		UserID:            uuid.New(),
		Provider:          model.ProviderGoogle,
		ProviderAccountID: "google-sub-99",
		Payload:           "{}",
		ExpiresAt:         time.Now().Add(-time.Minute),
	}).Error)

	cfg := &config.Config{
		App: config.AppConfig{Name: "OSHI-HIGH", FrontendURL: "http://localhost:3000"},
	}
	s := service.NewResolverService(db, new(repomocks.UserRepository), new(repomocks.AccountRepository),
		repository.NewGormPendingLinkRepository(), new(repomocks.IdolRepository), new(svcmocks.Mailer), cfg)

	_, err := s.ResolvePendingLink(ctx, token)
	assert.ErrorIs(t, err, model.ErrPendingLinkExpired)

	var count int64
	require.NoError(t, db.Model(&model.PendingLink{}).
		Where("token = ?", token).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}
