package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API         APIConfig
	Printer     PrinterConfig
	Database    DatabaseConfig
	Credentials CredentialsConfig
	UI          UIConfig
	Log         LogConfig
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// PrinterConfig names the label printer. Empty means the print
// command's default destination.
type PrinterConfig struct {
	Name string
}

// DatabaseConfig holds sqlite settings for the session journal.
type DatabaseConfig struct {
	Path string
}

// CredentialsConfig locates the stored credentials file.
type CredentialsConfig struct {
	Path string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize int  `mapstructure:"page_size"`
	Sound    bool // terminal bell on scan errors
}

// LogConfig holds file logging settings. The TUI owns the terminal, so
// logs always go to a file.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use
// prefix CEREBRO_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "cerebro-packing")

	// default values
	v.SetDefault("api.base_url", "http://localhost:8000/api")
	v.SetDefault("api.timeout_seconds", 10)
	v.SetDefault("printer.name", "")
	v.SetDefault("database.path", filepath.Join(dataDir, "journal.db"))
	v.SetDefault("credentials.path", filepath.Join(dataDir, "credentials.json"))
	v.SetDefault("ui.page_size", 10)
	v.SetDefault("ui.sound", true)
	v.SetDefault("log.path", filepath.Join(dataDir, "cerebro-packing.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("CEREBRO_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "cerebro-packing"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("CEREBRO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config
// directory if needed. Used when the operator changes a preference
// from the UI, e.g. the scan sound toggle.
func Save(cfg Config) error {
	path := os.Getenv("CEREBRO_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "cerebro-packing", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.timeout_seconds", cfg.API.TimeoutSeconds)
	v.Set("printer.name", cfg.Printer.Name)
	v.Set("database.path", cfg.Database.Path)
	v.Set("credentials.path", cfg.Credentials.Path)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.sound", cfg.UI.Sound)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
