package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	UI       UIConfig
	Payments PaymentsConfig
	Export   ExportConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings. An empty Migrations uses the
// migrations embedded in the binary.
type DatabaseConfig struct {
	Path       string
	Migrations string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat     string `mapstructure:"date_format"`
	CurrencySymbol string `mapstructure:"currency_symbol"`
	Timezone       string
}

// PaymentsConfig holds payment-recording rules.
type PaymentsConfig struct {
	GraceDays     int    `mapstructure:"grace_days"`
	DefaultMethod string `mapstructure:"default_method"`
}

// ExportConfig holds report export settings.
type ExportConfig struct {
	OutputDir     string `mapstructure:"output_dir"`
	DefaultFormat string `mapstructure:"default_format"`
}

// LogConfig holds logger settings. An empty File means stderr.
type LogConfig struct {
	Level string
	File  string
}

// New returns a viper instance with defaults, config file lookup and env
// overrides applied. Env var overrides use prefix RENTDESK_.
func New() *viper.Viper {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "rentdesk", "rentdesk.db"))
	v.SetDefault("database.migrations", "")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("payments.grace_days", 30)
	v.SetDefault("payments.default_method", "")
	v.SetDefault("export.output_dir", filepath.Join(home, "rentdesk-reports"))
	v.SetDefault("export.default_format", "pdf")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "rentdesk", "rentdesk.log"))

	v.SetConfigType("toml")

	if cfgPath := os.Getenv("RENTDESK_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Dir(Path()))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("RENTDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configuration from file and env.
func Load() (Config, error) {
	return LoadFrom(New())
}

// LoadFrom reads the config file (if present) into v and decodes it. Callers
// that bind command-line flags pass their own instance.
func LoadFrom(v *viper.Viper) (Config, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Payments.GraceDays < 0 {
		return Config{}, fmt.Errorf("payments.grace_days must be >= 0, got %d", c.Payments.GraceDays)
	}
	return c, nil
}

// Path is where Save writes: RENTDESK_CONFIG, or config.toml under
// $HOME/.config/rentdesk.
func Path() string {
	if p := os.Getenv("RENTDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "rentdesk", "config.toml")
}

// Save writes the provided config to Path, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("database.migrations", cfg.Database.Migrations)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("payments.grace_days", cfg.Payments.GraceDays)
	v.Set("payments.default_method", cfg.Payments.DefaultMethod)
	v.Set("export.output_dir", cfg.Export.OutputDir)
	v.Set("export.default_format", cfg.Export.DefaultFormat)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
