package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port      int
	LogLevel  string
	LogFormat string

	Database    DatabaseConfig
	Media       MediaConfig
	Mail        MailConfig
	SMS         SMSConfig
	Redis       RedisConfig
	Admin       AdminConfig
	Compression CompressionConfig
	Wedding     WeddingConfig

	WhatsAppDataDir  string
	GoogleAPIKey     string
	PartyImageDir    string
	LocationImageDir string
}

type DatabaseConfig struct {
	Type string
	URL  string
}

// MediaConfig holds the hosted media service credentials
type MediaConfig struct {
	CloudName   string
	APIKey      string
	APISecret   string
	BaseURL     string
	DeliveryURL string
	CacheTTL    time.Duration
}

// Configured reports whether uploads and listings can be made
func (m MediaConfig) Configured() bool {
	return m.CloudName != "" && m.APIKey != "" && m.APISecret != ""
}

type MailConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	Operators []string
}

type SMSConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	BaseURL    string
}

func (s SMSConfig) Configured() bool {
	return s.AccountSID != "" && s.AuthToken != "" && s.FromNumber != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AdminConfig struct {
	JWTSecret string
	Password  string
	TokenTTL  time.Duration
}

// CompressionConfig holds the size and quality thresholds used by the image tools
type CompressionConfig struct {
	MaxUploadSize int64
	MaxWidth      int
	Quality       int
	QualityStart  int
	QualityFloor  int
	QualityStep   int
	MaxDimension  int
	ResizeQuality int
}

type WeddingConfig struct {
	BrideName      string
	GroomName      string
	Date           string
	Location       string
	Venue          string
	PhotoUploadURL string
}

// LoadConfig loads configuration from environment variables or defaults.
// A .env file in the working directory is read first when present.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	p := &parser{}
	cfg := &Config{
		Port:      p.int("PORT", 8000),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
		Database: DatabaseConfig{
			Type: getEnv("DATABASE_TYPE", "sqlite"),
			URL:  getEnv("DATABASE_URL", "file:data/wedding.db?_foreign_keys=on"),
		},
		Media: MediaConfig{
			CloudName:   getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:      getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:   getEnv("CLOUDINARY_API_SECRET", ""),
			BaseURL:     getEnv("CLOUDINARY_BASE_URL", "https://api.cloudinary.com/v1_1"),
			DeliveryURL: getEnv("CLOUDINARY_DELIVERY_URL", "https://res.cloudinary.com"),
			CacheTTL:    p.duration("MEDIA_CACHE_TTL", 5*time.Minute),
		},
		Mail: MailConfig{
			Host:      getEnv("SMTP_HOST", ""),
			Port:      p.int("SMTP_PORT", 587),
			User:      getEnv("SMTP_USER", ""),
			Password:  getEnv("SMTP_PASSWORD", ""),
			From:      getEnv("MAIL_FROM", os.Getenv("SMTP_USER")),
			Operators: getEnvList("OPERATOR_EMAILS"),
		},
		SMS: SMSConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
			BaseURL:    getEnv("TWILIO_BASE_URL", "https://api.twilio.com"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       p.int("REDIS_DB", 0),
		},
		Admin: AdminConfig{
			JWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
			Password:  getEnv("ADMIN_PASSWORD", ""),
			TokenTTL:  p.duration("ADMIN_TOKEN_TTL", 12*time.Hour),
		},
		Compression: CompressionConfig{
			MaxUploadSize: p.int64("MAX_UPLOAD_SIZE_BYTES", 10*1024*1024),
			MaxWidth:      p.int("COMPRESS_MAX_WIDTH", 1920),
			Quality:       p.int("COMPRESS_QUALITY", 80),
			QualityStart:  p.int("UPLOAD_QUALITY_START", 95),
			QualityFloor:  p.int("UPLOAD_QUALITY_FLOOR", 60),
			QualityStep:   p.int("UPLOAD_QUALITY_STEP", 2),
			MaxDimension:  p.int("UPLOAD_MAX_DIMENSION", 3200),
			ResizeQuality: p.int("UPLOAD_RESIZE_QUALITY", 92),
		},
		Wedding: WeddingConfig{
			BrideName:      getEnv("BRIDE_NAME", "Caitlin"),
			GroomName:      getEnv("GROOM_NAME", "Dennis"),
			Date:           getEnv("WEDDING_DATE", "September 5th, 2026"),
			Location:       getEnv("WEDDING_LOCATION", "Pittsburgh, PA"),
			Venue:          getEnv("VENUE_NAME", "The Aviary"),
			PhotoUploadURL: getEnv("PHOTO_UPLOAD_URL", "http://localhost:8000/photos/upload/"),
		},
		WhatsAppDataDir:  getEnv("WHATSAPP_DATA_DIR", "data"),
		GoogleAPIKey:     getEnv("GOOGLE_API_KEY", ""),
		PartyImageDir:    getEnv("PARTY_IMAGE_DIR", "static/images/party"),
		LocationImageDir: getEnv("LOCATION_IMAGE_DIR", "static/images/locations"),
	}
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parser collects conversion errors so every bad variable is reported at once
type parser struct {
	errs []error
}

func (p *parser) int(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %q", key, value))
		return defaultValue
	}
	return n
}

func (p *parser) int64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %q", key, value))
		return defaultValue
	}
	return n
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s: %q", key, value))
		return defaultValue
	}
	return d
}
