// Package config loads cotton settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexanderramin/cotton/internal/domain"
	"github.com/alexanderramin/cotton/internal/report"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	LocaleEnglish   = "en"
	LocaleBilingual = "en+hi"
)

// Config holds all runtime settings. Unset variables take their defaults.
type Config struct {
	DBPath      string   `env:"COTTON_DB" env-description:"SQLite database file (default ~/.cotton/cotton.db)"`
	ReportDir   string   `env:"COTTON_REPORT_DIR" env-default:"." env-description:"directory reports are written to"`
	Layout      string   `env:"COTTON_LAYOUT" env-default:"date-rate" env-description:"report table layout: date-rate or serial"`
	Locale      string   `env:"COTTON_LOCALE" env-default:"en" env-description:"message locale: en or en+hi"`
	DraftFields []string `env:"COTTON_DRAFT_FIELDS" env-default:"kg,rate" env-separator:"," env-description:"entry fields kept as drafts: name, kg, rate"`
	LogLevel    string   `env:"COTTON_LOG_LEVEL" env-default:"warn" env-description:"debug, info, warn or error"`
	LogUseCases bool     `env:"COTTON_LOG_USECASES" env-default:"false" env-description:"log every service use case"`
}

// Load reads envFile when it exists, then the environment. Variables already
// set in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if cfg.DBPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		cfg.DBPath = filepath.Join(home, ".cotton", "cotton.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the rest of the program cannot use.
func (c *Config) Validate() error {
	if _, err := report.ParseLayout(c.Layout); err != nil {
		return fmt.Errorf("COTTON_LAYOUT: %w", err)
	}
	switch c.Locale {
	case LocaleEnglish, LocaleBilingual:
	default:
		return fmt.Errorf("COTTON_LOCALE: unknown locale %q (want en or en+hi)", c.Locale)
	}
	if _, err := c.Drafts(); err != nil {
		return fmt.Errorf("COTTON_DRAFT_FIELDS: %w", err)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("COTTON_LOG_LEVEL: %w", err)
	}
	return nil
}

// ReportLayout returns the validated table layout.
func (c *Config) ReportLayout() report.Layout {
	l, _ := report.ParseLayout(c.Layout)
	return l
}

// Bilingual reports whether headings carry the Hindi line as well.
func (c *Config) Bilingual() bool {
	return c.Locale == LocaleBilingual
}

// Drafts maps the configured short names to draft fields.
func (c *Config) Drafts() ([]domain.DraftField, error) {
	fields := make([]domain.DraftField, 0, len(c.DraftFields))
	seen := make(map[domain.DraftField]bool)
	for _, raw := range c.DraftFields {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		f, err := domain.ParseDraftField(raw)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// SlogLevel returns the validated log level.
func (c *Config) SlogLevel() slog.Level {
	l, _ := parseLevel(c.LogLevel)
	return l
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
