// Package config loads the console's configuration from herbadmin.yaml via
// viper. Everything has a default, so a missing file just means defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// FileName is the config file looked up in the working directory.
const FileName = "herbadmin.yaml"

// Config is the full application configuration.
type Config struct {
	// DBPath is the SQLite document database file.
	DBPath string `mapstructure:"db_path"`

	Storage StorageConfig `mapstructure:"storage"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// StorageConfig configures the object storage bucket.
type StorageConfig struct {
	// Dir is the local bucket root.
	Dir string `mapstructure:"dir"`
	// BaseURL, when set, is prepended to object paths to form public URLs.
	BaseURL string `mapstructure:"base_url"`
}

// AuthConfig configures the sign-in gate. The gate ships disabled, matching
// the deployed console.
type AuthConfig struct {
	Enabled  bool              `mapstructure:"enabled"`
	Secret   string            `mapstructure:"secret"`
	TokenTTL int               `mapstructure:"token_ttl_hours"`
	Users    map[string]string `mapstructure:"users"` // email -> bcrypt hash
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db_path", "herbadmin.db")
	v.SetDefault("storage.dir", "storage")
	v.SetDefault("storage.base_url", "")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.token_ttl_hours", 24)
}

// Load reads the config file at path. An empty path means FileName in the
// working directory; a missing file is not an error.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = FileName
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				if _, statErr := os.Stat(path); statErr == nil {
					return Config{}, fmt.Errorf("read config %s: %w", path, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

const defaultConfig = `# herbadmin configuration
db_path: herbadmin.db

storage:
  dir: storage
  # base_url: https://cdn.example.com/herb

auth:
  enabled: false
  # secret: change-me
  # token_ttl_hours: 24
  # users:
  #   admin@example.com: "$2a$10$..."   # bcrypt hash
`

// WriteDefaultConfig creates a commented default config file at path. Fails
// if the file already exists.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(defaultConfig), 0o644)
}
