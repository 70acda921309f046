package service

import (
	"context"
	"errors"
	"time"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"
	"oshi_high/internal/phonehash"
	"oshi_high/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthService は電話番号認証のコード送信と検証を提供します
type AuthService interface {
	SendCode(ctx context.Context, phone string) (*model.SendCodeResponse, error)
	Authorize(ctx context.Context, cred model.Credential) (*model.VerifyCodeResponse, error)
}

type authService struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	accountRepo repository.AccountRepository
	tokenRepo   repository.TokenRepository
	sms         SMSGateway
	verifier    ProviderVerifier // 外部検証プロバイダ利用時のみ非nil
	session     SessionService
	cfg         *config.Config
}

func NewAuthService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	accountRepo repository.AccountRepository,
	tokenRepo repository.TokenRepository,
	sms SMSGateway,
	verifier ProviderVerifier,
	session SessionService,
	cfg *config.Config,
) AuthService {
	return &authService{
		db:          db,
		userRepo:    userRepo,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		sms:         sms,
		verifier:    verifier,
		session:     session,
		cfg:         cfg,
	}
}

// SendCode は認証コードを生成・保存し、SMSで送信します。
// 同一identifierの既存コードは無効化され、有効なコードは常に1つだけになります。
// 外部検証プロバイダ利用時はコードをローカルに保存せず、sessionInfo を返します。
func (s *authService) SendCode(ctx context.Context, phone string) (*model.SendCodeResponse, error) {
	logger := middleware.GetLogger(ctx)

	normalized, err := phonehash.Normalize(phone)
	if err != nil {
		logger.Warn("Invalid phone number format on send code")
		return nil, model.NewAppError("INVALID_PHONE", "電話番号の形式が正しくありません。", "phone", model.ErrInvalidInput)
	}
	hash := phonehash.Hash(normalized)
	logger = logger.With("phone_hash", hash)

	// 新規ユーザーかどうか (レスポンスの案内文言の出し分けに使う)
	isNewUser := false
	if _, err := s.userRepo.FindByPhoneHash(ctx, s.db, hash); err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up user by phone hash", "error", err)
			return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "サーバー内部でエラーが発生しました。", "", err)
		}
		isNewUser = true
	}

	// 外部検証プロバイダ経路: OTPの生成・保存・照合をプロバイダに委ねる
	if s.verifier != nil && s.cfg.SMS.Provider == "firebase" {
		sessionInfo, err := s.verifier.SendCode(ctx, normalized)
		if err != nil {
			return nil, err
		}
		logger.Info("Verification code requested via external provider", "is_new_user", isNewUser)
		return &model.SendCodeResponse{
			Success:     true,
			PhoneHash:   hash,
			ExpiresIn:   int(phonehash.CodeExpiry.Seconds()),
			IsNewUser:   isNewUser,
			SessionInfo: sessionInfo,
			Message:     "認証コードを送信しました。",
		}, nil
	}

	code, err := phonehash.NewCode()
	if err != nil {
		logger.Error("Failed to generate verification code", "error", err)
		return nil, model.NewAppError("INTERNAL_SERVER_ERROR", "認証コードの生成に失敗しました。", "", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token := &model.VerificationToken{
			Identifier: hash,
			Token:      code,
			Type:       model.TokenTypeSMS,
			Expires:    time.Now().Add(phonehash.CodeExpiry),
		}
		if err := s.tokenRepo.Upsert(ctx, tx, token); err != nil {
			logger.Error("Failed to save verification token", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "認証コードの保存に失敗しました。", "", err)
		}

		// 同じ電話番号の古いコードを無効化する
		if err := s.tokenRepo.DeleteOthers(ctx, tx, hash, code); err != nil {
			logger.Error("Failed to invalidate previous codes", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "認証コードの保存に失敗しました。", "", err)
		}

		// 送信失敗時はコード保存ごとロールバックする
		msg := SMSMessage{PhoneHash: hash, Phone: normalized, Code: code}
		if err := s.sms.Send(ctx, msg); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Verification code sent", "is_new_user", isNewUser)
	return &model.SendCodeResponse{
		Success:   true,
		PhoneHash: hash,
		ExpiresIn: int(phonehash.CodeExpiry.Seconds()),
		IsNewUser: isNewUser,
		Message:   "認証コードを送信しました。",
	}, nil
}

// Authorize は認証入力の種別に応じて明示的にディスパッチします。
// 成功時はユーザーを解決 (なければFANとして作成) し、セッションJWTを発行します。
func (s *authService) Authorize(ctx context.Context, cred model.Credential) (*model.VerifyCodeResponse, error) {
	switch c := cred.(type) {
	case model.ProviderCredential:
		return s.authorizeProvider(ctx, c)
	case model.PhoneCredential:
		return s.authorizePhone(ctx, c)
	default:
		return nil, model.NewAppError("INVALID_INPUT", "認証情報の形式が正しくありません。", "", model.ErrInvalidInput)
	}
}

// authorizePhone はローカル保存された認証コードを照合します
func (s *authService) authorizePhone(ctx context.Context, cred model.PhoneCredential) (*model.VerifyCodeResponse, error) {
	logger := middleware.GetLogger(ctx)

	normalized, err := phonehash.Normalize(cred.Phone)
	if err != nil {
		logger.Warn("Invalid phone number format on verify")
		return nil, model.NewAppError("INVALID_PHONE", "電話番号の形式が正しくありません。", "phone", model.ErrInvalidInput)
	}
	if !phonehash.IsCode(cred.Code) {
		logger.Warn("Malformed verification code on verify")
		return nil, model.NewAppError("INVALID_CODE", "認証コードが正しくありません。", "code", model.ErrInvalidInput)
	}
	hash := phonehash.Hash(normalized)
	logger = logger.With("phone_hash", hash)

	var user *model.User
	var isNewUser bool

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err := s.tokenRepo.Find(ctx, tx, hash, cred.Code)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				logger.Warn("Verification code not found")
				return model.NewAppError("INVALID_CODE", "認証コードが正しくないか、既に使用されています。", "code", model.ErrTokenNotFound)
			}
			logger.Error("Error finding verification token", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		if token.IsExpired(time.Now()) {
			logger.Warn("Verification code expired", "expires", token.Expires)
			return model.NewAppError("CODE_EXPIRED", "認証コードの有効期限が切れています。再送信してください。", "code", model.ErrTokenExpired)
		}

		// コードを消費する。同じコードでの同時検証は削除の成否で勝敗が決まり、
		// 削除できなかった側は認証失敗になる。
		rows, err := s.tokenRepo.Delete(ctx, tx, hash, cred.Code)
		if err != nil {
			logger.Error("Failed to consume verification token", "error", err)
			return model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		if rows == 0 {
			logger.Warn("Verification code already consumed")
			return model.NewAppError("INVALID_CODE", "認証コードが正しくないか、既に使用されています。", "code", model.ErrTokenNotFound)
		}

		user, isNewUser, err = s.resolvePhoneUser(ctx, tx, hash)
		return err
	})
	if err != nil {
		// 期限切れコードは検出時に削除する (バックグラウンド掃除はしない)。
		// トランザクション本体はロールバックされるため、削除は外側で行う
		if errors.Is(err, model.ErrTokenExpired) {
			if _, derr := s.tokenRepo.Delete(ctx, s.db, hash, cred.Code); derr != nil {
				logger.Warn("Failed to remove expired verification code", "error", derr)
			}
		}
		return nil, err
	}

	return s.issueSession(ctx, user, isNewUser)
}

// authorizeProvider は外部検証プロバイダのトークンを照合します。
// sessionInfo+code または idToken のどちらかを受け付けます。
func (s *authService) authorizeProvider(ctx context.Context, cred model.ProviderCredential) (*model.VerifyCodeResponse, error) {
	logger := middleware.GetLogger(ctx)

	if s.verifier == nil {
		logger.Error("Provider credential received but no verifier is configured")
		return nil, model.NewAppError("PROVIDER_ERROR", "この認証方式は現在利用できません。", "", model.ErrProviderError)
	}

	var phone string
	var err error
	switch {
	case cred.IDToken != "":
		phone, err = s.verifier.VerifyIDToken(ctx, cred.IDToken)
	case cred.SessionInfo != "" && phonehash.IsCode(cred.Code):
		phone, err = s.verifier.VerifyCode(ctx, cred.SessionInfo, cred.Code)
	default:
		return nil, model.NewAppError("INVALID_INPUT", "認証情報の形式が正しくありません。", "", model.ErrInvalidInput)
	}
	if err != nil {
		return nil, err
	}

	normalized, err := phonehash.Normalize(phone)
	if err != nil {
		logger.Error("Provider returned unexpected phone number format")
		return nil, model.NewAppError("PROVIDER_ERROR", "外部プロバイダの応答が不正です。", "", model.ErrProviderError)
	}
	hash := phonehash.Hash(normalized)

	var user *model.User
	var isNewUser bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, isNewUser, err = s.resolvePhoneUser(ctx, tx, hash)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.issueSession(ctx, user, isNewUser)
}

// resolvePhoneUser は電話番号ハッシュからユーザーを解決します。
// 未登録ならFANロールで新規作成し、smsプロバイダのAccountを紐付け、
// phone_verified を立てます。
func (s *authService) resolvePhoneUser(ctx context.Context, tx *gorm.DB, hash string) (*model.User, bool, error) {
	logger := middleware.GetLogger(ctx).With("phone_hash", hash)

	isNewUser := false
	user, err := s.userRepo.FindByPhoneHash(ctx, tx, hash)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up user by phone hash", "error", err)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}

		salt, err := phonehash.NewSalt()
		if err != nil {
			logger.Error("Failed to generate phone salt", "error", err)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		user = &model.User{
			ID:            uuid.New(),
			PhoneHash:     &hash,
			PhoneSalt:     &salt,
			PhoneVerified: true,
			Role:          model.RoleFan,
		}
		if err := s.userRepo.Create(ctx, tx, user); err != nil {
			if errors.Is(err, model.ErrConflict) {
				logger.Warn("Conflict during user creation (race condition)")
				return nil, false, model.NewAppError("DUPLICATE_ENTRY", "このアカウントは既に登録されています。", "", model.ErrConflict)
			}
			logger.Error("Failed to create user", "error", err)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "ユーザーの作成に失敗しました。", "", err)
		}
		isNewUser = true
		logger.Info("New user created via phone verification", "user_id", user.ID)
	}

	// smsプロバイダのAccountを保証する (identifierは電話番号ハッシュ)
	acct, err := s.accountRepo.FindByProvider(ctx, tx, model.ProviderSMS, hash)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			logger.Error("Failed to look up sms account", "error", err)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		// 既存ユーザーが別の識別子のsmsアカウントを既に持つ場合は拒否する。
		// 1ユーザーにsmsアカウントは1つまでで、マージはしない
		if !isNewUser {
			if _, err := s.accountRepo.FindByUserAndProvider(ctx, tx, user.ID, model.ProviderSMS); err == nil {
				logger.Warn("User already has an sms account with a different identifier", "user_id", user.ID)
				return nil, false, model.NewAppError("DUPLICATE_IDENTITY", "このアカウントは既に別のユーザーに紐付いています。", "", model.ErrDuplicateIdentity)
			} else if !errors.Is(err, model.ErrNotFound) {
				logger.Error("Failed to look up sms account for user", "error", err)
				return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
			}
		}
		account := &model.Account{
			ID:                uuid.New(),
			UserID:            user.ID,
			Type:              model.AccountTypeCredentials,
			Provider:          model.ProviderSMS,
			ProviderAccountID: hash,
		}
		if err := s.accountRepo.Create(ctx, tx, account); err != nil {
			if errors.Is(err, model.ErrConflict) {
				return nil, false, model.NewAppError("DUPLICATE_IDENTITY", "このアカウントは既に別のユーザーに紐付いています。", "", model.ErrDuplicateIdentity)
			}
			logger.Error("Failed to create sms account", "error", err)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
	} else if acct.UserID != user.ID {
		// 既存のリンクは決して上書きしない
		logger.Warn("sms account already linked to another user", "account_user_id", acct.UserID)
		return nil, false, model.NewAppError("DUPLICATE_IDENTITY", "このアカウントは既に別のユーザーに紐付いています。", "", model.ErrDuplicateIdentity)
	}

	if !user.PhoneVerified {
		if err := s.userRepo.UpdatePhoneVerified(ctx, tx, user.ID, true); err != nil {
			logger.Error("Failed to mark phone as verified", "error", err, "user_id", user.ID)
			return nil, false, model.NewAppError("INTERNAL_SERVER_ERROR", "エラーが発生しました。", "", err)
		}
		user.PhoneVerified = true
	}

	return user, isNewUser, nil
}

func (s *authService) issueSession(ctx context.Context, user *model.User, isNewUser bool) (*model.VerifyCodeResponse, error) {
	logger := middleware.GetLogger(ctx)

	accessToken, err := s.session.Issue(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("Phone verification succeeded", "user_id", user.ID, "is_new_user", isNewUser)
	return &model.VerifyCodeResponse{
		Success:     true,
		UserID:      user.ID.String(),
		IsNewUser:   isNewUser,
		AccessToken: accessToken,
		Message:     "電話番号認証が完了しました。",
	}, nil
}
