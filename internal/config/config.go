// Package config assembles the service configuration from defaults, an
// optional .env file, and TAROTD_* environment variables (highest
// precedence).
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Catalog CatalogConfig
	Limits  LimitsConfig
	HTTP    HTTPConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	DataDir string
}

type CatalogConfig struct {
	// IndexPaths are probed in order for the name→external_ref card index.
	IndexPaths []string
}

type LimitsConfig struct {
	// HistoryLimit caps rows returned by the history endpoint.
	HistoryLimit int
	// RateLimit is requests per minute per client IP on /api; 0 disables.
	RateLimit int
}

type HTTPConfig struct {
	// AllowedOrigins for CORS. The original web app is served from an
	// origin we don't control, so the default is allow-all.
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

const maxHistoryLimit = 50

func defaults() Config {
	dataDir := defaultDataDir()
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Storage: StorageConfig{
			DataDir: dataDir,
		},
		Catalog: CatalogConfig{
			IndexPaths: []string{
				"file_ids.json",
				filepath.Join(dataDir, "file_ids.json"),
			},
		},
		Limits: LimitsConfig{
			HistoryLimit: maxHistoryLimit,
			RateLimit:    120,
		},
		HTTP: HTTPConfig{
			AllowedOrigins: []string{"*"},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, ".tarotd")
}

// Load reads configuration. A .env file in the working directory is loaded
// first when present; explicit environment variables always win.
func Load() (Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()
	return loadFromEnv(os.Getenv), nil
}

func loadFromEnv(getenv func(string) string) Config {
	cfg := defaults()

	if v := getenv("TAROTD_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := getenv("TAROTD_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := getenv("TAROTD_DATA_DIR"); v != "" {
		cfg.Storage.DataDir = v
		cfg.Catalog.IndexPaths = append(cfg.Catalog.IndexPaths, filepath.Join(v, "file_ids.json"))
	}
	if v := getenv("TAROTD_CARD_INDEX"); v != "" {
		// An explicit index path takes priority over the probed defaults.
		cfg.Catalog.IndexPaths = append([]string{v}, cfg.Catalog.IndexPaths...)
	}
	if v := getenv("TAROTD_HISTORY_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Limits.HistoryLimit = n
		}
	}
	if cfg.Limits.HistoryLimit > maxHistoryLimit {
		cfg.Limits.HistoryLimit = maxHistoryLimit
	}
	if v := getenv("TAROTD_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Limits.RateLimit = n
		}
	}
	if v := getenv("TAROTD_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.HTTP.AllowedOrigins = origins
	}
	if v := getenv("TAROTD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg
}
