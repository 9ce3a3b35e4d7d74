package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds snipbox settings after defaults and environment overrides.
type Config struct {
	DataDir      string
	Backend      string
	ExportDir    string
	StrictImport bool
	LogLevel     string
}

const (
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const (
	defaultConfigPath = "~/.config/snipbox/config.toml"
	defaultDataDir    = "~/.local/share/snipbox"
	defaultBackend    = BackendBolt
	defaultExportDir  = "."
	defaultLogLevel   = "info"
)

// Environment variables that override the file.
const (
	EnvDataDir      = "SNIPBOX_DATA_DIR"
	EnvBackend      = "SNIPBOX_BACKEND"
	EnvExportDir    = "SNIPBOX_EXPORT_DIR"
	EnvStrictImport = "SNIPBOX_STRICT_IMPORT"
	EnvLogLevel     = "SNIPBOX_LOG_LEVEL"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return defaultConfigPath
}

// LoadDotenv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Load parses the config file at path (or the default location), falling
// back to defaults when it is missing, then applies SNIPBOX_* overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:   defaultDataDir,
		Backend:   defaultBackend,
		ExportDir: defaultExportDir,
		LogLevel:  defaultLogLevel,
	}

	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		if err := cfg.readFrom(file); err != nil {
			return Config{}, err
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) readFrom(r io.Reader) error {
	bytes, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		DataDir      string `toml:"data_dir"`
		Backend      string `toml:"backend"`
		ExportDir    string `toml:"export_dir"`
		StrictImport bool   `toml:"strict_import"`
		LogLevel     string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	c.DataDir = firstNonEmpty(raw.DataDir, c.DataDir)
	c.Backend = firstNonEmpty(raw.Backend, c.Backend)
	c.ExportDir = firstNonEmpty(raw.ExportDir, c.ExportDir)
	c.LogLevel = firstNonEmpty(raw.LogLevel, c.LogLevel)
	c.StrictImport = raw.StrictImport
	return nil
}

func (c *Config) applyEnv() error {
	c.DataDir = firstNonEmpty(os.Getenv(EnvDataDir), c.DataDir)
	c.Backend = firstNonEmpty(os.Getenv(EnvBackend), c.Backend)
	c.ExportDir = firstNonEmpty(os.Getenv(EnvExportDir), c.ExportDir)
	c.LogLevel = firstNonEmpty(os.Getenv(EnvLogLevel), c.LogLevel)

	if raw := strings.TrimSpace(os.Getenv(EnvStrictImport)); raw != "" {
		strict, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvStrictImport, err)
		}
		c.StrictImport = strict
	}
	return nil
}

func (c *Config) normalize() error {
	c.Backend = strings.ToLower(c.Backend)
	switch c.Backend {
	case BackendBolt, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unsupported backend %q (want %s or %s)", c.Backend, BackendBolt, BackendSQLite)
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	c.DataDir = mustExpand(c.DataDir)
	c.ExportDir = mustExpand(c.ExportDir)
	return nil
}

// SlotPath returns the database file for the configured backend. It is empty
// for the memory backend.
func (c Config) SlotPath() string {
	switch c.Backend {
	case BackendSQLite:
		return filepath.Join(c.dataDir(), "snippets.sqlite")
	case BackendMemory:
		return ""
	default:
		return filepath.Join(c.dataDir(), "snippets.db")
	}
}

// LogPath returns the application log file.
func (c Config) LogPath() string {
	return filepath.Join(c.dataDir(), "snipbox.log")
}

// Level returns the slog level for LogLevel, defaulting to info.
func (c Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func (c Config) dataDir() string {
	if strings.TrimSpace(c.DataDir) == "" {
		return mustExpand(defaultDataDir)
	}
	return c.DataDir
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", name)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
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
