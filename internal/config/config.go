package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "STRINDEX_"

// Config holds application configuration.
type Config struct {
	// HTTPBind is the interface the HTTP API listens on.
	HTTPBind string `json:"http_bind"`

	// HTTPPort is the TCP port the HTTP API listens on.
	HTTPPort int `json:"http_port"`

	// LogEnv selects the logger flavour: "development" or "production".
	LogEnv string `json:"log_env"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside <base>/exports require either being in this list or AllowUnsafePaths=true.
	// Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// Symlink and extension checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HTTPBind: "127.0.0.1",
		HTTPPort: 8080,
		LogEnv:   "development",
	}
}

// BaseDir returns the data directory: $STRINDEX_HOME if set, else ~/.strindex.
func BaseDir() (string, error) {
	if home := strings.TrimSpace(os.Getenv(EnvPrefix + "HOME")); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(userHome, ".strindex"), nil
}

// Load loads configuration from baseDir/config.json, then applies environment
// overrides. A .env file in the working directory is loaded first if present.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.strindex.
func Load(baseDir string) (*Config, error) {
	// Missing .env is the normal case.
	_ = godotenv.Load()

	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// ApplyEnv overlays STRINDEX_* variables onto cfg. getenv is injected so tests
// don't have to mutate the process environment.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvPrefix + "HTTP_BIND"); v != "" {
		cfg.HTTPBind = v
	}
	if v := getenv(EnvPrefix + "HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return fmt.Errorf("%sHTTP_PORT must be a port number, got %q", EnvPrefix, v)
		}
		cfg.HTTPPort = port
	}
	if v := getenv(EnvPrefix + "LOG_ENV"); v != "" {
		cfg.LogEnv = v
	}
	if v := getenv(EnvPrefix + "ALLOW_UNSAFE_PATHS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%sALLOW_UNSAFE_PATHS must be a boolean, got %q", EnvPrefix, v)
		}
		cfg.AllowUnsafePaths = b
	}
	if v := getenv(EnvPrefix + "DISABLED_TOOLS"); v != "" {
		cfg.DisabledTools = mergeStringSlice(cfg.DisabledTools, strings.Split(v, ","))
	}
	return nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.HTTPBind = overlay.HTTPBind
	if result.HTTPBind == "" {
		result.HTTPBind = base.HTTPBind
	}

	result.HTTPPort = overlay.HTTPPort
	if result.HTTPPort == 0 {
		result.HTTPPort = base.HTTPPort
	}

	result.LogEnv = overlay.LogEnv
	if result.LogEnv == "" {
		result.LogEnv = base.LogEnv
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
