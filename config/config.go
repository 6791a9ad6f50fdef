package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvProduction selects the production API base URL; every other
// environment talks to the local one.
const EnvProduction = "production"

// AppConfig defines application configuration loaded from files and environment.
type AppConfig struct {
	Env     string        `koanf:"env"`
	API     APIConfig     `koanf:"api"`
	Auth    AuthConfig    `koanf:"auth"`
	Journal JournalConfig `koanf:"journal"`
	Fetch   FetchConfig   `koanf:"fetch"`
	Log     LogConfig     `koanf:"log"`
}

type APIConfig struct {
	BaseURL    string        `koanf:"base_url"`
	LocalURL   string        `koanf:"local_url"`
	Timeout    time.Duration `koanf:"timeout"`
	RetryCount int           `koanf:"retry_count"`
	Debug      bool          `koanf:"debug"`
}

// AuthConfig selects where the bearer token lives: a buntdb file ("bunt")
// or a shared Valkey instance ("valkey").
type AuthConfig struct {
	Backend    string `koanf:"backend"`
	Path       string `koanf:"path"`
	ValkeyAddr string `koanf:"valkey_addr"`
	Prefix     string `koanf:"prefix"`
}

// JournalConfig enables the local mutation journal when Driver is set.
type JournalConfig struct {
	Driver string `koanf:"driver"`
	DSN    string `koanf:"dsn"`
}

type FetchConfig struct {
	Concurrency int `koanf:"concurrency"`
}

type LogConfig struct {
	Level string `koanf:"level"`
}

var (
	cfgOnce sync.Once
	cfgInst *AppConfig
)

// GetConfig loads the configuration once and returns the shared instance.
func GetConfig() *AppConfig {
	cfgOnce.Do(func() {
		cfgInst = Load()
	})
	return cfgInst
}

// Load builds a fresh AppConfig. Loading order:
// 1) <CONFIG_DIR>/config.yaml (optional)
// 2) <CONFIG_DIR>/config.<APP_ENV>.yaml (optional), APP_ENV defaults to "local"
// 3) Environment variables with prefix PERMADMIN_ mapped using __ as nested separator,
// e.g. PERMADMIN_API__BASE_URL -> api.base_url
//
// Files are only read when APP_CONFIG_FILES is 1/true, so tests stay isolated.
func Load() *AppConfig {
	k := koanf.New(".")
	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "config"
	}
	loadFiles := isTruthy(os.Getenv("APP_CONFIG_FILES"))
	envName := os.Getenv("APP_ENV")
	if envName == "" {
		envName = "local"
	}
	if loadFiles {
		for _, name := range []string{"config.yaml", "config." + envName + ".yaml"} {
			path := filepath.Join(configDir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				log.Printf("config: failed loading %s: %v", path, err)
			}
		}
	}
	// PERMADMIN_API__BASE_URL -> api.base_url
	_ = k.Load(env.Provider("PERMADMIN_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "PERMADMIN_")
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	}), nil)

	var c AppConfig
	if err := k.Unmarshal("", &c); err != nil {
		log.Printf("config: unmarshal error: %v", err)
	}
	if c.Env == "" {
		c.Env = envName
	}
	c.applyDefaults()
	return &c
}

func (c *AppConfig) applyDefaults() {
	if c.API.LocalURL == "" {
		c.API.LocalURL = "http://localhost:5000"
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30 * time.Second
	}
	if c.Auth.Backend == "" {
		c.Auth.Backend = "bunt"
	}
	if c.Auth.Path == "" {
		c.Auth.Path = defaultTokenPath()
	}
	if c.Auth.Prefix == "" {
		c.Auth.Prefix = "permadmin:"
	}
	if c.Fetch.Concurrency <= 0 {
		c.Fetch.Concurrency = 4
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// BaseURL returns the API base URL selected by the environment.
func (c *AppConfig) BaseURL() string {
	if strings.EqualFold(c.Env, EnvProduction) && c.API.BaseURL != "" {
		return strings.TrimRight(strings.TrimSpace(c.API.BaseURL), "/")
	}
	return strings.TrimRight(strings.TrimSpace(c.API.LocalURL), "/")
}

// JournalEnabled reports whether a journal driver and DSN are configured.
func (c *AppConfig) JournalEnabled() bool {
	return strings.TrimSpace(c.Journal.Driver) != "" && strings.TrimSpace(c.Journal.DSN) != ""
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "permadmin-token.db"
	}
	return filepath.Join(dir, "permadmin", "token.db")
}

func isTruthy(v string) bool {
	s := strings.TrimSpace(strings.ToLower(v))
	return s == "1" || s == "true" || s == "yes" || s == "y"
}
