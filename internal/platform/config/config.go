package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"pinnacle_metals/internal/domain/model"

	"github.com/joho/godotenv"
)

type SMTPConfig struct {
	Host     string
	Port     int
	SSL      bool
	User     string
	Password string
	From     string
}

// Configured reports whether credentials for a real SMTP transport are present.
func (s SMTPConfig) Configured() bool {
	return s.User != "" && s.Password != ""
}

type Config struct {
	Env          string
	APIPort      string
	ClientOrigin string

	JWTKey               []byte
	JWTExp               time.Duration
	AuthCookieName       string
	TokenQueryParam      string
	RecheckRole          bool
	ResetTokenTTL        time.Duration
	VerificationTokenTTL time.Duration

	DBConnStr string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	MailQueueName string

	SMTP SMTPConfig

	CopperPriceURL         string
	GoldAPIKey             string
	PriceFeedTimeout       time.Duration
	USDToGBPRate           float64
	FallbackReferencePrice float64
	FallbackJitter         float64
	Materials              []model.Material
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	LoadDotEnv()

	cfg := &Config{
		Env:          getEnv("APP_ENV", "development"),
		APIPort:      getEnv("API_PORT", "4000"),
		ClientOrigin: strings.TrimRight(getEnv("CLIENT_ORIGIN", "http://localhost:5173"), "/"),

		JWTKey:               []byte(getEnv("JWT_SECRET", "")),
		JWTExp:               getEnvAsDuration("JWT_EXPIRATION", 7*24*time.Hour),
		AuthCookieName:       getEnv("AUTH_COOKIE_NAME", "auth"),
		TokenQueryParam:      getEnv("AUTH_TOKEN_QUERY_PARAM", "token"),
		RecheckRole:          getEnvAsBool("AUTH_RECHECK_ROLE", true),
		ResetTokenTTL:        getEnvAsDuration("RESET_TOKEN_TTL", time.Hour),
		VerificationTokenTTL: getEnvAsDuration("VERIFICATION_TOKEN_TTL", 24*time.Hour),

		DBConnStr: databaseURL(),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		MailQueueName: getEnv("MAIL_QUEUE_NAME", "outbound_mail_queue"),

		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", "smtp.office365.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			SSL:      getEnvAsBool("SMTP_SECURE", false),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("SMTP_FROM", "Pinnacle Metals <noreply@pinnaclemetals.co.uk>"),
		},

		CopperPriceURL:         getEnv("COPPER_PRICE_URL", ""),
		GoldAPIKey:             getEnv("GOLD_API_KEY", ""),
		PriceFeedTimeout:       getEnvAsDuration("PRICE_FEED_TIMEOUT", 5*time.Second),
		USDToGBPRate:           getEnvAsFloat("USD_GBP_RATE", 0.79),
		FallbackReferencePrice: getEnvAsFloat("FALLBACK_COPPER_PRICE", 6840.50),
		FallbackJitter:         getEnvAsFloat("FALLBACK_COPPER_JITTER", 20),
	}

	materials, err := loadMaterials(getEnv("PRICING_MATERIALS", ""))
	if err != nil {
		return nil, err
	}
	cfg.Materials = materials

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTKey) == 0 {
		return errors.New("config: JWT_SECRET is required")
	}
	if c.JWTExp <= 0 || c.ResetTokenTTL <= 0 || c.VerificationTokenTTL <= 0 {
		return errors.New("config: token lifetimes must be positive")
	}
	if c.USDToGBPRate <= 0 {
		return errors.New("config: USD_GBP_RATE must be positive")
	}
	if c.FallbackReferencePrice <= 0 || c.FallbackJitter < 0 {
		return errors.New("config: fallback price settings are invalid")
	}
	return nil
}

// loadMaterials parses PRICING_MATERIALS (a JSON array) or falls back to the built-in grades.
func loadMaterials(raw string) ([]model.Material, error) {
	if strings.TrimSpace(raw) == "" {
		return model.DefaultMaterials(), nil
	}
	var materials []model.Material
	if err := json.Unmarshal([]byte(raw), &materials); err != nil {
		return nil, fmt.Errorf("config: invalid PRICING_MATERIALS: %w", err)
	}
	return model.NormalizeMaterials(materials)
}

// DatabaseURL is for tools that only need the database, such as seedadmin.
func DatabaseURL() string {
	LoadDotEnv()
	return databaseURL()
}

// LoadDotEnv copies an optional .env file from the working directory into the
// process environment. Variables that are already set win.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found, relying on environment variables")
	}
}

func databaseURL() string {
	if dsn := getEnv("DATABASE_URL", ""); dsn != "" {
		return dsn
	}
	return "host=" + getEnv("DB_HOST", "localhost") +
		" port=" + getEnv("DB_PORT", "5432") +
		" user=" + getEnv("DB_USER", "pinnacle") +
		" password=" + getEnv("DB_PASSWORD", "password") +
		" dbname=" + getEnv("DB_NAME", "pinnacle_metals") +
		" sslmode=" + getEnv("DB_SSLMODE", "disable")
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration accepts Go durations ("1h", "90s") or a bare number of seconds.
func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
