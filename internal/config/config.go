// internal/config/config.go
package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

type JWTConfig struct {
	SecretKey     string        `mapstructure:"secret_key"`
	SessionMaxAge time.Duration `mapstructure:"session_max_age"`
}

// TwilioConfig はTwilio SMS送信の設定です (from_number か messaging_service_sid のどちらか必須)
type TwilioConfig struct {
	AccountSID          string `mapstructure:"account_sid"`
	AuthToken           string `mapstructure:"auth_token"`
	FromNumber          string `mapstructure:"from_number"`
	MessagingServiceSID string `mapstructure:"messaging_service_sid"`
}

// SNSConfig はAWS SNSによるSMS送信の設定です
type SNSConfig struct {
	Region          string `mapstructure:"region"`
	AuthType        string `mapstructure:"auth_type"` // "static_credentials" or "iam_role"
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// SMSConfig はSMSゲートウェイの設定です。
// provider: "log" (開発用モック) / "twilio" / "sns" / "firebase"
// firebase の場合はOTPの生成・検証をプロバイダ側に委ねます。
type SMSConfig struct {
	Provider    string       `mapstructure:"provider"`
	MockEnabled bool         `mapstructure:"mock_enabled"`
	Twilio      TwilioConfig `mapstructure:"twilio"`
	SNS         SNSConfig    `mapstructure:"sns"`
}

// FirebaseConfig は外部検証プロバイダ (identitytoolkit) の設定です
type FirebaseConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"` // サービスアカウントJSONのパス
	Endpoint        string `mapstructure:"endpoint"`         // テスト用にオーバーライド可能
}

type MailerConfig struct {
	Type string `mapstructure:"type"` // "log" / "smtp" / "ses"
}

type SMTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	From string `mapstructure:"from"`
}

type SESConfig struct {
	Region          string `mapstructure:"region"`
	From            string `mapstructure:"from"`
	AuthType        string `mapstructure:"auth_type"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// OAuthProviderConfig は1プロバイダ分のOAuthクライアント設定です
type OAuthProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RedirectURL  string `mapstructure:"redirect_url"`
}

type OAuthConfig struct {
	Google  OAuthProviderConfig `mapstructure:"google"`
	Twitter OAuthProviderConfig `mapstructure:"twitter"`
}

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	CORS     CORSConfig     `mapstructure:"cors"`
	App      AppConfig      `mapstructure:"app"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMS      SMSConfig      `mapstructure:"sms"`
	Firebase FirebaseConfig `mapstructure:"firebase"`
	Mailer   MailerConfig   `mapstructure:"mailer"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	SES      SESConfig      `mapstructure:"ses"`
	OAuth    OAuthConfig    `mapstructure:"oauth"`
}

var Cfg Config

func LoadConfig(path string) error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(path)
	viper.AddConfigPath(".")

	// 環境変数の自動読み込み (例: APP_SMS_PROVIDER)
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()
	viper.BindEnv("database.url", "DATABASE_URL")
	viper.BindEnv("jwt.secret_key", "JWT_SECRET_KEY")
	viper.BindEnv("sms.provider", "SMS_PROVIDER")
	viper.BindEnv("sms.mock_enabled", "ENABLE_SMS_MOCK")
	viper.BindEnv("sms.twilio.account_sid", "TWILIO_ACCOUNT_SID")
	viper.BindEnv("sms.twilio.auth_token", "TWILIO_AUTH_TOKEN")
	viper.BindEnv("firebase.credentials_file", "FIREBASE_CREDENTIALS_FILE")
	viper.BindEnv("oauth.google.client_id", "GOOGLE_CLIENT_ID")
	viper.BindEnv("oauth.google.client_secret", "GOOGLE_CLIENT_SECRET")
	viper.BindEnv("oauth.twitter.client_id", "TWITTER_CLIENT_ID")
	viper.BindEnv("oauth.twitter.client_secret", "TWITTER_CLIENT_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Warning: Config file not found. Using default settings or environment variables if available.")
		} else {
			log.Printf("Error reading config file: %s\n", err)
			return err
		}
	}

	if err := viper.Unmarshal(&Cfg); err != nil {
		log.Printf("Error unmarshalling config: %s\n", err)
		return err
	}

	// --- デフォルト値の設定 ---
	if Cfg.Server.Port == "" {
		log.Println("Server port not set, using default ':8080'")
		Cfg.Server.Port = DefaultServerPort
	}
	if Cfg.App.Name == "" {
		Cfg.App.Name = AppName
	}
	if Cfg.JWT.SessionMaxAge <= 0 {
		Cfg.JWT.SessionMaxAge = DefaultSessionMaxAge
	}
	if Cfg.SMS.Provider == "" {
		log.Println("SMS provider not set, using default 'log'")
		Cfg.SMS.Provider = "log"
	}
	if Cfg.Mailer.Type == "" {
		Cfg.Mailer.Type = "log"
	}
	if Cfg.Database.URL == "" {
		log.Println("Warning: Database URL is not set in config.")
	}
	if Cfg.JWT.SecretKey == "" {
		log.Println("Warning: JWT secret key is not set in config.")
	}

	log.Println("Config loaded successfully")
	log.Printf("Server Port: %s", Cfg.Server.Port)
	log.Printf("SMS Provider: %s (mock=%t)", Cfg.SMS.Provider, Cfg.SMS.MockEnabled)
	log.Printf("Session Max Age: %s", Cfg.JWT.SessionMaxAge)

	return nil
}
