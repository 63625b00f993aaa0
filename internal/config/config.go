// Package config loads the cruisebot configuration: a YAML file under
// ~/.cruisebot, overridable per key through CRUISEBOT_* environment
// variables. A missing file is fine, every key has a default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the flat cruisebot configuration.
type Config struct {
	DBPath   string `mapstructure:"db_path"`
	DumpPath string `mapstructure:"dump_path"`
	LogLevel string `mapstructure:"log_level"`

	// SheetURLTemplate builds the CSV export URL from the spreadsheet id
	// and worksheet name.
	SheetURLTemplate string `mapstructure:"sheet_url_template"`

	// WebhookURL, when set, routes notifications to the chat webhook.
	// Empty means log-only delivery.
	WebhookURL string `mapstructure:"webhook_url"`

	// EventStateURL is the endpoint the scheduler polls for the event flag.
	// Empty disables the poll loop.
	EventStateURL string `mapstructure:"event_state_url"`

	EventDuration  time.Duration `mapstructure:"event_duration"`
	ReminderAfter  time.Duration `mapstructure:"reminder_after"`
	ConfirmTimeout time.Duration `mapstructure:"confirm_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	ReconcileEvery time.Duration `mapstructure:"reconcile_every"`
	ReminderEvery  time.Duration `mapstructure:"reminder_every"`
}

// Dir returns the cruisebot home directory.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".cruisebot"), nil
}

// Load reads config.yaml from dir. When dir is empty the default directory
// is used. Environment variables win over file values.
func Load(dir string) (*Config, error) {
	if dir == "" {
		var err error
		dir, err = Dir()
		if err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("CRUISEBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db_path", filepath.Join(dir, "cruisebot.db"))
	v.SetDefault("dump_path", filepath.Join(dir, "ledger_dump.json"))
	v.SetDefault("log_level", "info")
	v.SetDefault("sheet_url_template", "https://docs.google.com/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s")
	v.SetDefault("webhook_url", "")
	v.SetDefault("event_state_url", "")
	v.SetDefault("event_duration", "48h")
	v.SetDefault("reminder_after", "20m")
	v.SetDefault("confirm_timeout", "30s")
	v.SetDefault("poll_interval", "1m")
	v.SetDefault("reconcile_every", "5m")
	v.SetDefault("reminder_every", "1m")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
