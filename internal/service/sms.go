package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"oshi_high/internal/config"
	"oshi_high/internal/middleware"
	"oshi_high/internal/model"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SMSMessage は認証コードの送信依頼です。
// Phone は送信時にのみ使用し、保存もログ出力もしません。
type SMSMessage struct {
	PhoneHash string
	Phone     string
	Code      string
}

// SMSGateway はSMS配送プロバイダの抽象です
type SMSGateway interface {
	Send(ctx context.Context, msg SMSMessage) error
}

// --- LogSMSGateway ---

// LogSMSGateway は開発用のモック実装で、実送信せずログに出力します。
// 送信先はハッシュのみ出力し、生の電話番号は出力しません。
type LogSMSGateway struct{}

func (g *LogSMSGateway) Send(ctx context.Context, msg SMSMessage) error {
	logger := middleware.GetLogger(ctx)
	logger.Info("--- Sending SMS (LogSMSGateway) ---", "phone_hash", msg.PhoneHash, "code", msg.Code)
	return nil
}

// --- TwilioSMSGateway ---

const defaultTwilioAPIBase = "https://api.twilio.com/2010-04-01"

// TwilioSMSGateway はTwilio REST APIでSMSを送信します
type TwilioSMSGateway struct {
	cfg        *config.TwilioConfig
	apiBase    string // テスト用にオーバーライド可能
	httpClient *http.Client
}

func NewTwilioSMSGateway(cfg *config.TwilioConfig) *TwilioSMSGateway {
	return &TwilioSMSGateway{
		cfg:        cfg,
		apiBase:    defaultTwilioAPIBase,
		httpClient: http.DefaultClient,
	}
}

func (g *TwilioSMSGateway) Send(ctx context.Context, msg SMSMessage) error {
	logger := middleware.GetLogger(ctx)

	if msg.Phone == "" {
		logger.Error("Twilio send failed: raw phone number is required", "phone_hash", msg.PhoneHash)
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}
	if g.cfg.FromNumber == "" && g.cfg.MessagingServiceSID == "" {
		logger.Error("Twilio send failed: from_number or messaging_service_sid is required")
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}

	body := url.Values{}
	body.Set("To", msg.Phone)
	body.Set("Body", fmt.Sprintf("OSHI-HIGH: 認証コード %s (10分以内に入力)", msg.Code))
	if g.cfg.MessagingServiceSID != "" {
		body.Set("MessagingServiceSid", g.cfg.MessagingServiceSID)
	} else {
		body.Set("From", g.cfg.FromNumber)
	}

	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", g.apiBase, g.cfg.AccountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create twilio request: %w", err)
	}
	req.SetBasicAuth(g.cfg.AccountSID, g.cfg.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		logger.Error("Twilio request failed", "error", err)
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// レスポンスボディの先頭のみログに残す (電話番号を含む可能性があるため全文は残さない)
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		logger.Error("Twilio HTTP error",
			"status", resp.StatusCode,
			"response_body", string(raw),
		)
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}

	logger.Info("SMS sent successfully via Twilio", "phone_hash", msg.PhoneHash)
	return nil
}

// --- SNSSMSGateway ---

// SNSSMSGateway は AWS SNS でSMSを送信します
type SNSSMSGateway struct {
	client *sns.Client
}

// NewSNSSMSGateway は設定に応じて認証方法を切り替えてSNSクライアントを生成します
func NewSNSSMSGateway(cfg *config.SNSConfig) *SNSSMSGateway {
	var awsCfgOpts []func(*awsconfig.LoadOptions) error
	awsCfgOpts = append(awsCfgOpts, awsconfig.WithRegion(cfg.Region))

	switch cfg.AuthType {
	case "static_credentials":
		slog.Info("Configuring SNS with static credentials.")
		if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
			slog.Error("SNS auth_type is 'static_credentials' but access_key_id or secret_access_key is missing in config.")
			// 起動時にpanicさせることで、設定ミスに即座に気づけるようにする
			panic("missing static credentials for SNS")
		}
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		awsCfgOpts = append(awsCfgOpts, awsconfig.WithCredentialsProvider(creds))

	case "iam_role":
		// SDKが自動で認証情報を解決する
		slog.Info("Configuring SNS with IAM Role credentials.")

	default:
		slog.Warn("Unknown SNS auth_type specified, defaulting to IAM Role.", "type", cfg.AuthType)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsCfgOpts...)
	if err != nil {
		slog.Error("Failed to load AWS config for SNS", "error", err)
		panic(err)
	}

	return &SNSSMSGateway{client: sns.NewFromConfig(awsCfg)}
}

func (g *SNSSMSGateway) Send(ctx context.Context, msg SMSMessage) error {
	logger := middleware.GetLogger(ctx)

	if msg.Phone == "" {
		logger.Error("SNS send failed: raw phone number is required", "phone_hash", msg.PhoneHash)
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}

	_, err := g.client.Publish(ctx, &sns.PublishInput{
		Message:     aws.String(fmt.Sprintf("OSHI-HIGH: 認証コード %s (10分以内に入力)", msg.Code)),
		PhoneNumber: aws.String(msg.Phone),
	})
	if err != nil {
		logger.Error("SNS publish failed", "error", err, "phone_hash", msg.PhoneHash)
		return model.NewAppError("SMS_SEND_FAILED", "認証コードの送信に失敗しました。", "", model.ErrProviderError)
	}

	logger.Info("SMS sent successfully via SNS", "phone_hash", msg.PhoneHash)
	return nil
}

// --- NewSMSGateway ファクトリ関数 ---

func NewSMSGateway(cfg *config.Config) SMSGateway {
	logger := slog.Default()

	if cfg.SMS.MockEnabled {
		logger.Info("SMS mock is enabled. Initializing Log SMS gateway...")
		return &LogSMSGateway{}
	}

	switch cfg.SMS.Provider {
	case "twilio":
		logger.Info("Initializing Twilio SMS gateway...")
		return NewTwilioSMSGateway(&cfg.SMS.Twilio)
	case "sns":
		logger.Info("Initializing SNS SMS gateway...")
		return NewSNSSMSGateway(&cfg.SMS.SNS)
	case "log":
		logger.Info("Initializing Log SMS gateway...")
		return &LogSMSGateway{}
	default:
		// "firebase" の場合、配送はプロバイダ側で行われゲートウェイは使われない
		logger.Warn("Unknown or externally-delivered SMS provider, defaulting to Log gateway", "provider", cfg.SMS.Provider)
		return &LogSMSGateway{}
	}
}
