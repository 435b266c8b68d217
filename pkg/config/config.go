// Package config assembles engine settings from a .env file,
// environment variables and an optional YAML file. Environment
// variables win over the YAML file; both win over defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds everything the CLI and engine need at startup.
type Config struct {
	// StorageBackend selects the persistence adapter:
	// memory | file | sqlite | redis | postgres.
	StorageBackend string `yaml:"storage_backend"`

	SQLitePath string `yaml:"sqlite_path"`
	FileDir    string `yaml:"file_dir"`
	RedisAddr  string `yaml:"redis_addr"`

	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresDB       string `yaml:"postgres_db"`

	CatalogPath string `yaml:"catalog_path"`

	// AllowDuplicateOnSuggestedAdd preserves the legacy append-always
	// behavior of AI-suggested adds. See the reconciler for details.
	AllowDuplicateOnSuggestedAdd bool `yaml:"allow_duplicate_on_suggested_add"`

	// NotifyRatePerSec limits user-facing notifications per second.
	NotifyRatePerSec float64 `yaml:"notify_rate_per_sec"`
	NotifyBurst      int     `yaml:"notify_burst"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		StorageBackend:               "sqlite",
		SQLitePath:                   "./precivox.db",
		FileDir:                      "./data",
		CatalogPath:                  "./catalog.json",
		AllowDuplicateOnSuggestedAdd: true,
		NotifyRatePerSec:             5,
		NotifyBurst:                  10,
	}
}

// Load builds the configuration. A .env file is honored for local
// development; PRECIVOX_CONFIG may point at a YAML file; individual
// PRECIVOX_* environment variables override both.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// Missing .env is normal; anything else is worth knowing.
		fmt.Fprintf(os.Stderr, "config: could not load .env: %v\n", err)
	}

	cfg := Defaults()

	if path := os.Getenv("PRECIVOX_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&cfg.StorageBackend, "PRECIVOX_STORAGE")
	setString(&cfg.SQLitePath, "PRECIVOX_SQLITE_PATH")
	setString(&cfg.FileDir, "PRECIVOX_FILE_DIR")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setString(&cfg.PostgresHost, "DB_HOST")
	setString(&cfg.PostgresPort, "DB_PORT")
	setString(&cfg.PostgresUser, "DB_USER")
	setString(&cfg.PostgresPassword, "DB_PASSWORD")
	setString(&cfg.PostgresDB, "DB_NAME")
	setString(&cfg.CatalogPath, "PRECIVOX_CATALOG")

	if v := os.Getenv("PRECIVOX_ALLOW_DUPLICATE_ADD"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			cfg.AllowDuplicateOnSuggestedAdd = parsed
		}
	}
	if v := os.Getenv("PRECIVOX_NOTIFY_RATE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed > 0 {
			cfg.NotifyRatePerSec = parsed
		}
	}
}
