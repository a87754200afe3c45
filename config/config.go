package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Admin       AdminConfig
	Payment     PaymentConfig
	MobileMoney MobileMoneyConfig
	Bank        BankConfig
	Insurance   InsuranceConfig
	SMS         SMSConfig
	Cloudinary  CloudinaryConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// AdminConfig holds the shared secret required on admin-only endpoints
// in addition to an ADMIN role token.
type AdminConfig struct {
	SharedSecret string
}

type PaymentConfig struct {
	// WebhookSecret, when set, makes signature verification mandatory on
	// payment callbacks; a missing or wrong signature is rejected with 401.
	WebhookSecret string
	// ControlNumberTTL is the validity window of an ACTIVE control number.
	ControlNumberTTL time.Duration
	// InvoiceDueWindow is how long after the service date an invoice may
	// stay PENDING before the overdue report flags it.
	InvoiceDueWindow time.Duration
	// SweepInterval is how often the overdue maintenance sweep runs.
	SweepInterval time.Duration
}

// MobileMoneyConfig for STK-style push payments via the gateway API.
type MobileMoneyConfig struct {
	BaseURL        string
	Email          string
	Password       string
	WebhookBaseURL string // callback will be WebhookBaseURL + /api/v1/webhooks/payments
}

// BankConfig for control-number issuance against the bank gateway.
type BankConfig struct {
	BaseURL string
	APIKey  string
}

// InsuranceConfig for the payer claims API (OAuth2 client credentials).
type InsuranceConfig struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
}

type SMSConfig struct {
	BaseURL  string
	APIKey   string
	SenderID string
}

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getenv("PORT", "8090"),
			Env:          getenv("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             getenv("DB_DSN", "medicore:medicore@tcp(localhost:3306)/medicore?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getenv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getenv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "medicore",
		},
		Admin: AdminConfig{
			SharedSecret: os.Getenv("ADMIN_SHARED_SECRET"),
		},
		Payment: PaymentConfig{
			WebhookSecret:    os.Getenv("PAYMENT_WEBHOOK_SECRET"),
			ControlNumberTTL: getdur("CONTROL_NUMBER_TTL_HOURS", 72) * time.Hour,
			InvoiceDueWindow: getdur("INVOICE_DUE_DAYS", 30) * 24 * time.Hour,
			SweepInterval:    getdur("SWEEP_INTERVAL_HOURS", 6) * time.Hour,
		},
		MobileMoney: MobileMoneyConfig{
			BaseURL:        os.Getenv("MOBILE_MONEY_BASE_URL"),
			Email:          os.Getenv("MOBILE_MONEY_EMAIL"),
			Password:       os.Getenv("MOBILE_MONEY_PASSWORD"),
			WebhookBaseURL: os.Getenv("PAYMENT_WEBHOOK_BASE_URL"),
		},
		Bank: BankConfig{
			BaseURL: os.Getenv("BANK_GATEWAY_BASE_URL"),
			APIKey:  os.Getenv("BANK_GATEWAY_API_KEY"),
		},
		Insurance: InsuranceConfig{
			BaseURL:      os.Getenv("INSURANCE_API_BASE_URL"),
			TokenURL:     os.Getenv("INSURANCE_TOKEN_URL"),
			ClientID:     os.Getenv("INSURANCE_CLIENT_ID"),
			ClientSecret: os.Getenv("INSURANCE_CLIENT_SECRET"),
		},
		SMS: SMSConfig{
			BaseURL:  os.Getenv("SMS_GATEWAY_BASE_URL"),
			APIKey:   os.Getenv("SMS_GATEWAY_API_KEY"),
			SenderID: getenv("SMS_SENDER_ID", "MEDICORE"),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
			APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
			APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		},
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getdur(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(fallback)
}
