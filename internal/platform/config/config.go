package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	RedisURL     string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Telegram operator channel
	TelegramBotToken      string
	TelegramChatID        string
	TelegramWebhookSecret string

	// Bank account shown to depositors
	DepositBankName      string
	DepositAccountNumber string
	DepositAccountName   string

	UploadDir          string
	AppBaseURL         string
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "moneta-backend")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_CHAT_ID", "")
	viper.SetDefault("TELEGRAM_WEBHOOK_SECRET", "")
	viper.SetDefault("DEPOSIT_BANK_NAME", "Sample Bank")
	viper.SetDefault("DEPOSIT_ACCOUNT_NUMBER", "1234567890")
	viper.SetDefault("DEPOSIT_ACCOUNT_NAME", "MONETA-ICT")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("APP_BASE_URL", "http://localhost:8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = 24 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TelegramBotToken = viper.GetString("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = viper.GetString("TELEGRAM_CHAT_ID")
	cfg.TelegramWebhookSecret = viper.GetString("TELEGRAM_WEBHOOK_SECRET")
	if cfg.TelegramBotToken == "" || cfg.TelegramChatID == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Operator notifications will not be delivered.")
	}

	cfg.DepositBankName = viper.GetString("DEPOSIT_BANK_NAME")
	cfg.DepositAccountNumber = viper.GetString("DEPOSIT_ACCOUNT_NUMBER")
	cfg.DepositAccountName = viper.GetString("DEPOSIT_ACCOUNT_NAME")

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.AppBaseURL = strings.TrimRight(viper.GetString("APP_BASE_URL"), "/")

	origins := viper.GetString("CORS_ALLOWED_ORIGINS")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	return cfg, nil
}
