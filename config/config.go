// config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the portal reads from the environment.
type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	DatabaseURL string

	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	RedisKeyPrefix string

	AllowedOrigins []string
	AdminToken     string

	OTPLength          int
	OTPTTL             time.Duration
	SessionTTL         time.Duration
	LoginRequireOTP    bool
	DefaultPhoneRegion string

	MailFrom   string
	AWSRegion  string
	SESEnabled bool

	R2AccountID    string
	R2AccessKeyID  string
	R2AccessSecret string
	R2Bucket       string
	CDNBaseURL     string

	ReindexInterval   time.Duration
	StandingsInterval time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("No .env file found, reading environment variables directly")
	}

	cfg := &Config{
		Port:               getEnv("PORT", "5200"),
		AppEnv:             getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            getInt("REDIS_DB", 0),
		RedisKeyPrefix:     getEnv("REDIS_KEY_PREFIX", "league:"),
		AllowedOrigins:     splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		AdminToken:         os.Getenv("ADMIN_TOKEN"),
		OTPLength:          getInt("OTP_LENGTH", 6),
		OTPTTL:             time.Duration(getInt("OTP_TTL_SECONDS", 120)) * time.Second,
		SessionTTL:         time.Duration(getInt("SESSION_TTL_HOURS", 336)) * time.Hour,
		LoginRequireOTP:    getBool("LOGIN_REQUIRE_OTP", true),
		DefaultPhoneRegion: strings.ToUpper(getEnv("DEFAULT_PHONE_REGION", "CN")),
		MailFrom:           getEnv("MAIL_FROM", "no-reply@localhost"),
		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		SESEnabled:         getBool("SES_ENABLED", false),
		R2AccountID:        os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
		R2AccessKeyID:      os.Getenv("R2_ACCESS_KEY_ID"),
		R2AccessSecret:     os.Getenv("R2_ACCESS_KEY_SECRET"),
		R2Bucket:           os.Getenv("R2_BUCKET_NAME"),
		CDNBaseURL:         os.Getenv("CDN_BASE_URL"),
		ReindexInterval:    time.Duration(getInt("REINDEX_INTERVAL_MINUTES", 10)) * time.Minute,
		StandingsInterval:  time.Duration(getInt("STANDINGS_INTERVAL_SECONDS", 60)) * time.Second,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("environment variable DATABASE_URL must be set")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("environment variable REDIS_ADDR must be set")
	}
	if cfg.OTPLength < 4 || cfg.OTPLength > 10 {
		logrus.Warnf("OTP_LENGTH %d out of range, using 6", cfg.OTPLength)
		cfg.OTPLength = 6
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Invalid LOG_LEVEL '%s', using default 'info'", cfg.LogLevel)
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// R2Enabled reports whether crest uploads can be served.
func (c *Config) R2Enabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessSecret != "" && c.R2Bucket != ""
}

// NewLogger builds the process logger the way the environment asks for it.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	if c.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	level, _ := logrus.ParseLevel(c.LogLevel)
	log.SetLevel(level)
	log.SetOutput(os.Stdout)
	return log
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("Invalid integer for %s ('%s'), using %d", key, v, fallback)
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		logrus.Warnf("Invalid boolean for %s ('%s'), using %t", key, v, fallback)
		return fallback
	}
	return b
}

// splitList splits a comma-separated env value and trims each item.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
