package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("TELEGRAM_ADMIN_ID", "42")
	t.Setenv("KEEPALIVE_INTERVAL", "not-a-duration")
	t.Setenv("REPORT_DAILY_LIMIT", "")

	LoadConfig()

	assert.Equal(t, "123:abc", AppConfig.TelegramToken)
	assert.Equal(t, int64(42), AppConfig.AdminID)
	assert.Equal(t, "gemini-flash-latest", AppConfig.GeminiModel)
	assert.Equal(t, defaultImageAPIURL, AppConfig.ImageAPIURL)
	assert.Equal(t, 5, AppConfig.ReportDailyLimit)
	assert.Equal(t, 10, AppConfig.ContextMaxTurns)
	assert.Equal(t, 14*time.Minute, AppConfig.KeepAliveInterval)
	require.NoError(t, AppConfig.ValidateBot())
}

func TestValidateBotReportsMissingCredentials(t *testing.T) {
	cfg := Config{ReportDailyLimit: 5, ContextMaxTurns: 10}

	err := cfg.ValidateBot()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN")
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}

func TestLocationFallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Config{ReportTimezone: "Nowhere/Atlantis"}.Location())
	assert.Equal(t, "Europe/Moscow", Config{ReportTimezone: "Europe/Moscow"}.Location().String())
}
