// Package config handles the configuration directory, config file and
// storage settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "todo"

	// ConfigFile is the optional TOML settings file inside the config dir.
	ConfigFile = "config.toml"

	// DefaultTaskFile is the task file name used by the file backend.
	DefaultTaskFile = "tasks.json"

	// DefaultSQLiteFile is the database name used by the sqlite backend.
	DefaultSQLiteFile = "tasks.db"

	// DefaultRedisKey is the key used by the redis backend.
	DefaultRedisKey = "todo:tasks"

	// DefaultGoogleList is the Google Tasks list used by the googletasks backend.
	DefaultGoogleList = "@default"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Backend names accepted in the backend setting.
const (
	BackendFile        = "file"
	BackendMemory      = "memory"
	BackendSQLite      = "sqlite"
	BackendRedis       = "redis"
	BackendGoogleTasks = "googletasks"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Backend selects the storage backend.
	Backend string `toml:"backend"`

	// File is the task file for the file backend.
	File string `toml:"file"`

	// SQLitePath is the database file for the sqlite backend.
	SQLitePath string `toml:"sqlite_path"`

	// RedisURL and RedisKey configure the redis backend.
	RedisURL string `toml:"redis_url"`
	RedisKey string `toml:"redis_key"`

	// GoogleList is the Google Tasks list ID that holds the tasks.
	GoogleList string `toml:"google_list"`

	// LogFormat is "text" or "json".
	LogFormat string `toml:"log_format"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`
}

// New creates a Config for the default or specified config directory.
// Settings are layered: defaults, then config.toml, then environment.
// If configDir is empty, uses XDG_CONFIG_HOME/todo or $HOME/.config/todo.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{Dir: dir}
	setDefaults(cfg)

	if err := cfg.loadFile(filepath.Join(dir, ConfigFile)); err != nil {
		return nil, err
	}
	loadFromEnv(cfg)

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func setDefaults(cfg *Config) {
	cfg.Backend = BackendFile
	cfg.File = DefaultTaskFile
	cfg.SQLitePath = DefaultSQLiteFile
	cfg.RedisURL = "redis://localhost:6379/0"
	cfg.RedisKey = DefaultRedisKey
	cfg.GoogleList = DefaultGoogleList
	cfg.LogFormat = "text"
}

// loadFile overlays settings from a TOML file. A missing file is fine.
func (c *Config) loadFile(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading config file %s: %w", path, err)
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODO_BACKEND"); v != "" {
		cfg.Backend = v
	}
	if v := os.Getenv("TODO_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TODO_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := os.Getenv("TODO_REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("TODO_REDIS_KEY"); v != "" {
		cfg.RedisKey = v
	}
	if v := os.Getenv("TODO_GOOGLE_LIST"); v != "" {
		cfg.GoogleList = v
	}
	if v := os.Getenv("TODO_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// finalize validates settings and resolves relative paths against Dir.
func (c *Config) finalize() error {
	switch c.Backend {
	case BackendFile, BackendMemory, BackendSQLite, BackendRedis, BackendGoogleTasks:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format: %s", c.LogFormat)
	}
	c.File = c.resolve(c.File)
	c.SQLitePath = c.resolve(c.SQLitePath)
	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir, path)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
