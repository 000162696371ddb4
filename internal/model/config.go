package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// UserConfig identifies the journal owner for local surfaces.
type UserConfig struct {
	ID string `mapstructure:"id" yaml:"id"`
}

// StorageConfig selects and configures the entry store.
type StorageConfig struct {
	// Backend is "sqlite" or "postgres".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// SQLitePath is the database file used by the sqlite backend.
	SQLitePath string `mapstructure:"sqlite_path" yaml:"sqlite_path"`

	// PostgresDSN is the connection string for the postgres backend.
	// When empty, the "postgres_dsn" keyring credential is used.
	PostgresDSN string `mapstructure:"postgres_dsn" yaml:"postgres_dsn"`
}

// EmailCaptureConfig holds the IMAP settings for rapid-log capture by mail.
// The password is read from the "imap_password" keyring credential.
type EmailCaptureConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled"`
	IMAPHost        string `mapstructure:"imap_host" yaml:"imap_host"`
	IMAPPort        string `mapstructure:"imap_port" yaml:"imap_port"`
	Username        string `mapstructure:"username" yaml:"username"`
	TLS             bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox         string `mapstructure:"mailbox" yaml:"mailbox"`
	PollIntervalSec int    `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// CaptureConfig groups the capture integrations.
type CaptureConfig struct {
	Email EmailCaptureConfig `mapstructure:"email" yaml:"email"`
}

// DisplayConfig holds CLI rendering preferences.
type DisplayConfig struct {
	Color      bool   `mapstructure:"color" yaml:"color"`
	TableStyle string `mapstructure:"table_style" yaml:"table_style"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	User    UserConfig    `mapstructure:"user" yaml:"user"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Capture CaptureConfig `mapstructure:"capture" yaml:"capture"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// configDir returns ~/.config/bujo, or the working directory when the home
// directory cannot be resolved.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "bujo")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/bujo/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// DefaultSQLitePath returns the default journal database location.
func DefaultSQLitePath() string {
	return filepath.Join(configDir(), "journal.db")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("user.id", "local")
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.sqlite_path", DefaultSQLitePath())
	v.SetDefault("storage.postgres_dsn", "")
	v.SetDefault("capture.email.enabled", false)
	v.SetDefault("capture.email.imap_host", "")
	v.SetDefault("capture.email.imap_port", "993")
	v.SetDefault("capture.email.username", "")
	v.SetDefault("capture.email.tls", true)
	v.SetDefault("capture.email.mailbox", "INBOX")
	v.SetDefault("capture.email.poll_interval_sec", 300)
	v.SetDefault("display.color", true)
	v.SetDefault("display.table_style", "light")
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		User: UserConfig{ID: "local"},
		Storage: StorageConfig{
			Backend:    BackendSQLite,
			SQLitePath: DefaultSQLitePath(),
		},
		Capture: CaptureConfig{
			Email: EmailCaptureConfig{
				IMAPPort:        "993",
				TLS:             true,
				Mailbox:         "INBOX",
				PollIntervalSec: 300,
			},
		},
		Display: DisplayConfig{
			Color:      true,
			TableStyle: "light",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// BUJO_* environment variables override file values (BUJO_USER_ID,
// BUJO_STORAGE_BACKEND, ...). A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("bujo")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if _, ok := err.(*os.PathError); !ok && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendPostgres:
	default:
		return nil, fmt.Errorf("config %s: unknown storage backend %q", path, cfg.Storage.Backend)
	}
	if cfg.Capture.Email.PollIntervalSec <= 0 {
		cfg.Capture.Email.PollIntervalSec = 300
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("user", cfg.User)
	v.Set("storage", cfg.Storage)
	v.Set("capture", cfg.Capture)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
