package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/text/language"
)

type Config struct {
	App struct {
		Name     string     `envconfig:"APP_NAME" default:"Budget"`
		Port     int        `envconfig:"PORT" default:"8080"`
		LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"info"`
	}

	Storage struct {
		Path            string `envconfig:"STORAGE_PATH" default:"budget.db"`
		CategoriesKey   string `envconfig:"STORAGE_CATEGORIES_KEY" default:"budget-app-categories"`
		TransactionsKey string `envconfig:"STORAGE_TRANSACTIONS_KEY" default:"budget-app-transactions"`
		RulesKey        string `envconfig:"STORAGE_RULES_KEY" default:"budget-app-rules"`
	}

	Locale struct {
		Language string `envconfig:"LOCALE" default:"en"`
		Currency string `envconfig:"CURRENCY" default:"EUR"`
	}

	Import struct {
		DefaultCategory string `envconfig:"IMPORT_DEFAULT_CATEGORY" default:"Uncategorized"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

// Language parses the configured BCP 47 tag.
func (c *Config) Language() (language.Tag, error) {
	tag, err := language.Parse(c.Locale.Language)
	if err != nil {
		return language.Und, fmt.Errorf("parsing LOCALE %q: %w", c.Locale.Language, err)
	}

	return tag, nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
