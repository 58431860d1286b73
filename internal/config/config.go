package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shakeit/internal/cocktaildb"
)

// Config captures the settings shakeit reads at startup.
type Config struct {
	APIBase      string
	DatabasePath string
	LogLevel     slog.Level
}

const (
	defaultConfigPath   = "~/.config/shakeit/config.toml"
	defaultDatabasePath = "~/.local/share/shakeit/favorites.db"

	envAPIBase      = "SHAKEIT_API_BASE"
	envDatabasePath = "SHAKEIT_DATABASE_PATH"
	envLogLevel     = "SHAKEIT_LOG_LEVEL"
)

// Load locates and parses the config file, falling back to defaults when it
// is missing. SHAKEIT_* environment variables override file values.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw struct {
		APIBase      string `toml:"api_base"`
		DatabasePath string `toml:"database_path"`
		LogLevel     string `toml:"log_level"`
	}

	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()

		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if v, ok := os.LookupEnv(envAPIBase); ok {
		raw.APIBase = v
	}
	if v, ok := os.LookupEnv(envDatabasePath); ok {
		raw.DatabasePath = v
	}
	if v, ok := os.LookupEnv(envLogLevel); ok {
		raw.LogLevel = v
	}

	cfg := Config{
		APIBase:      strings.TrimSpace(raw.APIBase),
		DatabasePath: strings.TrimSpace(raw.DatabasePath),
		LogLevel:     slog.LevelInfo,
	}
	if cfg.APIBase == "" {
		cfg.APIBase = cocktaildb.DefaultBaseURL
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = defaultDatabasePath
	}
	if cfg.DatabasePath != ":memory:" {
		cfg.DatabasePath = mustExpand(cfg.DatabasePath)
	}
	if level := strings.TrimSpace(raw.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return Config{}, fmt.Errorf("parse log_level %q: %w", level, err)
		}
	}

	return cfg, nil
}

// LoadEnvFile exports the variables in a dotenv file into the process
// environment without overriding variables that are already set. A missing
// file is not an error. An empty path means ".env".
func LoadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
