package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URI", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("SCAN_INTERVAL", "")
	t.Setenv("REPORT_HOUR", "")
	t.Setenv("RATE_LIMIT", "")
	t.Setenv("AMQP_QUEUE", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Minute, cfg.ScanInterval)
	assert.Equal(t, 18, cfg.ReportHour)
	assert.Equal(t, 30, cfg.RateLimit)
	assert.Equal(t, "notifications", cfg.AMQPQueue)
	assert.Zero(t, cfg.TelegramChatID)
	assert.Empty(t, cfg.DatabaseURI)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "0")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REPORT_HOUR", "-1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.ScanInterval)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, -1, cfg.ReportHour)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "soon")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("SCAN_INTERVAL", "-1m")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("SCAN_INTERVAL", "30s")
	t.Setenv("TELEGRAM_CHAT_ID", "admins")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("REPORT_HOUR", "24")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("REPORT_HOUR", "")
	t.Setenv("RATE_LIMIT", "0")
	_, err = Load()
	assert.Error(t, err)
}
