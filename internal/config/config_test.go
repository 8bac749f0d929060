package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/budget/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, "budget-app-categories", cfg.Storage.CategoriesKey)
	assert.Equal(t, "budget-app-transactions", cfg.Storage.TransactionsKey)
	assert.Equal(t, "EUR", cfg.Locale.Currency)
	assert.Equal(t, "Uncategorized", cfg.Import.DefaultCategory)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOCALE", "pt-PT")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("STORAGE_TRANSACTIONS_KEY", "other-transactions")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "other-transactions", cfg.Storage.TransactionsKey)

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, "pt-PT", tag.String())
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.Load()
	require.Error(t, err)
}

func TestConfig_InvalidLanguage(t *testing.T) {
	t.Setenv("LOCALE", "!!")

	cfg, err := config.Load()
	require.NoError(t, err)

	_, err = cfg.Language()
	require.Error(t, err)
}
