// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port          string
	BotToken      string
	APIBase       string
	AppURL        string
	WebhookSecret string
	AdminChatID   int64
	DBPath        string

	PaymentNumber  string
	PaymentCode    string
	SupportContact string

	SMSPattern   string
	SMSRetention time.Duration
	SMSCapacity  int
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	adminChatID, err := getEnvInt64("ADMIN_CHAT_ID", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		BotToken:      getEnv("TELEGRAM_TOKEN", ""),
		APIBase:       getEnv("TELEGRAM_API_BASE", ""),
		AppURL:        strings.TrimRight(getEnv("APP_URL", ""), "/"),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		AdminChatID:   adminChatID,
		DBPath:        getEnv("DB_PATH", "./data/users.db"),

		PaymentNumber:  getEnv("PAYMENT_NUMBER", "0933000000"),
		PaymentCode:    getEnv("PAYMENT_CODE", "7788297"),
		SupportContact: getEnv("SUPPORT_CONTACT", "@support"),

		SMSPattern:   getEnv("SMS_PATTERN", ""),
		SMSRetention: getEnvDuration("SMS_RETENTION", 5*time.Minute),
		SMSCapacity:  getEnvInt("SMS_CAPACITY", 200),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.BotToken == "" {
		return fmt.Errorf("TELEGRAM_TOKEN must be set")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.SMSRetention <= 0 {
		return fmt.Errorf("SMS_RETENTION must be positive")
	}
	if c.SMSCapacity <= 0 {
		return fmt.Errorf("SMS_CAPACITY must be > 0")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer chat id: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
