package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResolverService はOAuthサインイン時の外部IDとユーザーの対応付けを解決します。
//
// 既存のAccountがあればそのユーザーでサインインを許可し、なければ
// メールアドレスの一致を調べます。一致する既存ユーザーがいる場合は
// 自動リンクせず PendingLink を作成して明示的な確認ステップへ誘導します。
type ResolverService interface {
	ResolveIdentity(ctx context.Context, identity model.ExternalIdentity) (*model.Resolution, error)
	ResolvePendingLink(ctx context.Context, token string) (*model.User, error)
}

type resolverService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	pendingRepo repository.PendingLinkRepository
	idolRepo    repository.IdolRepository
	mailer      Mailer
	cfg         *config.Config
}

func NewResolverService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	pendingRepo repository.PendingLinkRepository,
	idolRepo repository.IdolRepository,
	mailer Mailer,
	cfg *config.Config,
) ResolverService {
	return &resolverService{
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		pendingRepo: pendingRepo,
		idolRepo:    idolRepo,
		mailer:      mailer,
		cfg:         cfg,
	}
}

func (s *resolverService) ResolveIdentity(ctx context.Context, identity model.ExternalIdentity) (*model.Resolution, error) {
	logger := middleware.GetLogger(ctx).With("provider", identity.Provider)

	if identity.Provider == "" || identity.ProviderAccountID == "" {
		return nil, model.NewAppError("INVALID_INPUT", "プロバイダ情報が不足しています。", "", model.ErrInvalidInput)
	}

	var resolution *model.Resolution
	var confirmEmail string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 既存のAccountがあれば、紐付くユーザーでそのままサインイン
		acct, err := s.accountRepo.FindByProvider(ctx, tx, identity.Provider, identity.ProviderAccountID)
		if err == nil {
			user, err := s.userRepo.FindByID(ctx, tx, acct.UserID)
			if err != nil {
				logger.Error("Account exists but user is missing", "error", err, "user_id", acct.UserID)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
			}
			if err := s.bindIdolClaim(ctx, tx, user, identity); err != nil {
				return err
			}
			resolution = &model.Resolution{Decision: model.LinkAllowed, User: user}
			return nil
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up account", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		// メールアドレスが既存ユーザーと一致する場合は自動リンクを保留する
		if identity.Email != "" {
			existing, err := s.userRepo.FindByEmail(ctx, tx, identity.Email)
			if err == nil {
				token, err := s.createPendingLink(ctx, tx, existing, identity)
				if err != nil {
					return err
				}
				resolution = &model.Resolution{
					Decision:     model.LinkConfirmationRequired,
					PendingToken: token,
				}
				confirmEmail = identity.Email
				return nil
			}
			if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Failed to look up user by email", "error", err)
				return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
			}
		}

		// 新規ユーザーとして作成
		user, err := s.createUserWithAccount(ctx, tx, identity)
		if err != nil {
			return err
		}
		if err := s.bindIdolClaim(ctx, tx, user, identity); err != nil {
			return err
		}
		resolution = &model.Resolution{Decision: model.LinkAllowed, User: user, IsNewUser: true}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// 確認メールはコミット後に送信する。失敗してもPendingLink自体は有効なので
	// エラーにはせずログに残すだけにする。
	if confirmEmail != "" {
		if err := s.sendLinkConfirmationEmail(ctx, confirmEmail, resolution.PendingToken, identity.Provider); err != nil {
			logger.Error("Failed to send link confirmation email", "error", err)
		}
	}

	logger.Info("External identity resolved", "decision", resolution.Decision, "is_new_user", resolution.IsNewUser)
	return resolution, nil
}

// ResolvePendingLink は保留中のリンクを確認・消費し、Accountを作成します
func (s *resolverService) ResolvePendingLink(ctx context.Context, token string) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	var user *model.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		link, err := s.pendingRepo.Find(ctx, tx, token)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Pending link not found or already consumed")
				return model.NewAppError("PENDING_LINK_NOT_FOUND", "このリンクは無効か、既に使用されています。", "token", model.ErrPendingLinkNotFound)
			}
			logger.Error("Error finding pending link", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		if link.IsExpired(time.Now()) {
			logger.Warn("Pending link expired", "expires_at", link.ExpiresAt)
			return model.NewAppError("PENDING_LINK_EXPIRED", "このリンクの有効期限が切れています。再度サインインしてください。", "token", model.ErrPendingLinkExpired)
		}

		user, err = s.userRepo.FindByID(ctx, tx, link.UserID)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Pending link references a deleted user", "user_id", link.UserID)
				return model.NewAppError("NOT_FOUND", "アカウントが見つかりません。", "", model.ErrNotFound)
			}
			logger.Error("Error finding user for pending link", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		account := &model.Account{
			ID:                uuid.New(),
			UserID:            link.UserID,
			Type:              model.AccountTypeOAuth,
			Provider:          link.Provider,
			ProviderAccountID: link.ProviderAccountID,
		}
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Provider identity was linked elsewhere while pending")
				return model.NewAppError("DUPLICATE_IDENTITY", "このアカウントは既に別のユーザーに紐付いています。", "", model.ErrDuplicateIdentity)
			}
			logger.Error("Failed to create account from pending link", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		// PendingLinkを消費する。同じトークンでの同時確認は削除の成否で勝敗が決まる。
		rows, err := s.pendingRepo.Delete(ctx, tx, token)
		if err != nil {
			logger.Error("Failed to consume pending link", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		if rows == 0 {
			return model.NewAppError("PENDING_LINK_NOT_FOUND", "このリンクは無効か、既に使用されています。", "token", model.ErrPendingLinkNotFound)
		}

		// 保留時点のIDスナップショットでアイドルの紐付けを試みる
		var identity model.ExternalIdentity
		if err := json.Unmarshal([]byte(link.Payload), &identity); err != nil {
			logger.Error("Failed to decode pending link payload", "error", err)
			return nil // ペイロードが壊れていてもリンク自体は成立させる
		}
		return s.bindIdolClaim(ctx, tx, user, identity)
	})
	if err != nil {
		// 期限切れリンクは検出時に削除する。トランザクション本体はロールバック
		// されるため、削除は外側で行う
		if errors.Is(err, model.ErrPendingLinkExpired) {
			if _, derr := s.pendingRepo.Delete(ctx, s.db, token); derr != nil {
				logger.Warn("Failed to remove expired pending link", "error", derr)
			}
		}
		return nil, err
	}

	logger.Info("Pending link resolved", "user_id", user.ID)
	return user, nil
}

// createPendingLink はPendingLinkを作成します。対象ユーザーはこの時点で確定します。
// 同じ外部IDに対して誤って作られたAccountの残骸があれば、ここで掃除します。
func (s *resolverService) createPendingLink(ctx context.Context, tx *gorm.DB, user *model.User, identity model.ExternalIdentity) (string, error) {
	logger := middleware.GetLogger(ctx)

	tokenBytes := make([]byte, 16)
	if _, err := rand.Read(tokenBytes); err != nil {
		logger.Error("Failed to generate pending link token", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "トークンの生成に失敗しました。", "", err)
	}
	tokenString := hex.EncodeToString(tokenBytes)

	payload, err := json.Marshal(identity)
	if err != nil {
		logger.Error("Failed to encode identity payload", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}

	link := &model.PendingLink{
		Token:             tokenString,
		UserID:            user.ID,
		Provider:          identity.Provider,
		ProviderAccountID: identity.ProviderAccountID,
		Payload:           string(payload),
		ExpiresAt:         time.Now().Add(config.PendingLinkTTL),
	}
	if err := s.pendingRepo.Create(ctx, tx, link); err != nil {
		logger.Error("Failed to create pending link", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}

	// 対象の (provider, provider_account_id) の行だけを削除する
	rows, err := s.accountRepo.DeleteByProvider(ctx, tx, identity.Provider, identity.ProviderAccountID)
	if err != nil {
		logger.Error("Failed to clean up stray account", "error", err)
		return "", model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	if rows > 0 {
		logger.Warn("Removed stray account created before deferral", "rows", rows)
	}

	logger.Info("Pending link created", "user_id", user.ID, "provider", identity.Provider)
	return tokenString, nil
}

func (s *resolverService) createUserWithAccount(ctx context.Context, tx *gorm.DB, identity model.ExternalIdentity) (*model.User, error) {
	logger := middleware.GetLogger(ctx)

	user := &model.User{
		ID:   uuid.New(),
		Role: model.RoleFan,
	}
	if identity.Email != "" {
		user.Email = &identity.Email
	}
	if identity.Name != "" {
		user.Name = &identity.Name
	}
	if err := s.userRepo.Create(ctx, tx, user); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Conflict during user creation (race condition)")
			return nil, model.NewAppError("DUPLICATE_ENTRY", "このアカウントは既に登録されています。", "", model.ErrConflict)
		}
		logger.Error("Failed to create user", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
	}

	account := &model.Account{
		ID:                uuid.New(),
		UserID:            user.ID,
		Type:              model.AccountTypeOAuth,
		Provider:          identity.Provider,
		ProviderAccountID: identity.ProviderAccountID,
	}
	if err := s.accountRepo.Create(ctx, tx, account); err != nil {
		if errors.Is(err, model.ErrConflict) {
			logger.Warn("Conflict during account creation (race condition)")
			return nil, model.NewAppError("DUPLICATE_IDENTITY", "このアカウントは既に別のユーザーに紐付いています。", "", model.ErrDuplicateIdentity)
		}
		logger.Error("Failed to create account", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}

	logger.Info("New user created via external identity", "user_id", user.ID, "provider", identity.Provider)
	return user, nil
}

// bindIdolClaim はtwitterサインイン時にアイドルの本人確認を試みます。
// SNSハンドルに一致する未クレームのアイドルがいれば claimed_by をこのユーザーに
// 確定し、ロールをIDOLに昇格します。一致しない・既にクレーム済みの場合は
// 何もしません (サインイン自体は成功させる)。
func (s *resolverService) bindIdolClaim(ctx context.Context, tx *gorm.DB, user *model.User, identity model.ExternalIdentity) error {
	if identity.Provider != model.ProviderTwitter {
		return nil
	}
	logger := middleware.GetLogger(ctx).With("user_id", user.ID, "username", identity.Username)

	// アカウントIDそのものと、ハンドルから組み立てたプロフィールURLの両方で照合する
	candidates := []string{identity.ProviderAccountID}
	if identity.Username != "" {
		candidates = append(candidates,
			fmt.Sprintf("https://twitter.com/%s", identity.Username),
			fmt.Sprintf("https://x.com/%s", identity.Username),
		)
	}

	var idol *model.Idol
	for _, link := range candidates {
		found, err := s.idolRepo.FindBySNSLink(ctx, tx, link)
		if err == nil {
			idol = found
			break
		}
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up idol by SNS link", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
	}
	if idol == nil {
		return nil
	}

	claimed, err := s.idolRepo.Claim(ctx, tx, idol.ID, user.ID, time.Now())
	if err != nil {
		logger.Error("Failed to claim idol", "error", err, "idol_id", idol.ID)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	if !claimed {
		// 既にクレーム済み (本人による再サインインを含む)。紐付けは上書きしない。
		logger.Debug("Idol already claimed, skipping", "idol_id", idol.ID)
		return nil
	}

	if err := s.userRepo.UpdateRole(ctx, tx, user.ID, model.RoleIdol); err != nil {
		logger.Error("Failed to promote user to IDOL", "error", err)
		return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
	}
	user.Role = model.RoleIdol

	logger.Info("Idol claimed via SNS sign-in", "idol_id", idol.ID)
	return nil
}

func (s *resolverService) sendLinkConfirmationEmail(ctx context.Context, email, token, provider string) error {
	confirmURL := fmt.Sprintf("%s/link/confirm?token=%s", s.cfg.App.FrontendURL, token)
	subject := "【OSHI-HIGH】アカウント連携の確認"
	body := fmt.Sprintf(
		"お使いのメールアドレスに一致する %s アカウントからサインインがありました。\n\n"+
			"ご本人による操作の場合は、以下のリンクをクリックして連携を完了してください:\n%s\n\n"+
			"このリンクの有効期限は1時間です。心当たりがない場合はこのメールを無視してください。",
		provider, confirmURL,
	)
	return s.mailer.Send(ctx, email, subject, body)
}
