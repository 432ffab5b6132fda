package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Gateway  GatewayConfig
	Payout   PayoutConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	JWTSecret          string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

// GatewayConfig holds the payment processor credentials. Capture and
// refund use the core API server key; payouts use the disbursement
// (iris) key.
type GatewayConfig struct {
	ServerKey      string
	IrisKey        string
	Production     bool
	WebhookSignKey string
}

// PayoutConfig drives the platform's transfer fee.
type PayoutConfig struct {
	FeeFlatCents   int64
	FeePercentBps  int64
	DefaultMethod  string
	EarningsTTLSec int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
			JWTSecret:          getEnv("JWT_SECRET", ""),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "CoachPay"),
		},
		Gateway: GatewayConfig{
			ServerKey:      getEnv("MIDTRANS_SERVER_KEY", ""),
			IrisKey:        getEnv("MIDTRANS_IRIS_KEY", ""),
			Production:     getEnv("MIDTRANS_ENV", "sandbox") == "production",
			WebhookSignKey: getEnv("MIDTRANS_SERVER_KEY", ""),
		},
		Payout: PayoutConfig{
			FeeFlatCents:   getEnvAsInt64("PAYOUT_FEE_FLAT_CENTS", 2500),
			FeePercentBps:  getEnvAsInt64("PAYOUT_FEE_PERCENT_BPS", 0),
			DefaultMethod:  getEnv("PAYOUT_DEFAULT_METHOD", "bank_transfer"),
			EarningsTTLSec: getEnvAsInt("EARNINGS_CACHE_TTL_SEC", 60),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsInt64(key string, fallback int64) int64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseInt(strValue, 10, 64); err == nil {
		return value
	}
	return fallback
}
