package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURI    string
	HTTPAddr       string
	AppEnv         string
	LogLevel       string
	ScanInterval   time.Duration
	ReportHour     int // -1 disables the daily report
	TelegramToken  string
	TelegramChatID int64
	AIAPIKey       string
	AIBaseURL      string
	AIModel        string
	RedisURL       string
	RateLimit      int // intake requests per client per minute
	AMQPURL        string
	AMQPQueue      string
}

// IsDevelopment reports whether the development logger and memory fallback messages apply.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional in production
	}

	interval, err := time.ParseDuration(getEnvOrDefault("SCAN_INTERVAL", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid SCAN_INTERVAL: %w", err)
	}
	if interval < 0 {
		return nil, fmt.Errorf("invalid SCAN_INTERVAL: must not be negative")
	}

	reportHour, err := strconv.Atoi(getEnvOrDefault("REPORT_HOUR", "18"))
	if err != nil || reportHour < -1 || reportHour > 23 {
		return nil, fmt.Errorf("invalid REPORT_HOUR: want an hour 0-23 or -1")
	}

	rateLimit, err := strconv.Atoi(getEnvOrDefault("RATE_LIMIT", "30"))
	if err != nil || rateLimit <= 0 {
		return nil, fmt.Errorf("invalid RATE_LIMIT: want a positive number")
	}

	var chatID int64
	if raw := os.Getenv("TELEGRAM_CHAT_ID"); raw != "" {
		chatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
	}

	return &Config{
		DatabaseURI:    os.Getenv("DATABASE_URI"),
		HTTPAddr:       getEnvOrDefault("HTTP_ADDR", ":8080"),
		AppEnv:         getEnvOrDefault("APP_ENV", "production"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		ScanInterval:   interval,
		ReportHour:     reportHour,
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: chatID,
		AIAPIKey:       os.Getenv("AI_API_KEY"),
		AIBaseURL:      getEnvOrDefault("AI_BASE_URL", "https://openrouter.ai/api/v1"),
		AIModel:        getEnvOrDefault("AI_MODEL", "openai/gpt-4o-mini"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RateLimit:      rateLimit,
		AMQPURL:        os.Getenv("AMQP_URL"),
		AMQPQueue:      getEnvOrDefault("AMQP_QUEUE", "notifications"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
