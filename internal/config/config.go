package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ahmes-app/ahmes/internal/i18n"
)

const (
	defaultServerURL  = "http://localhost:8000/api"
	defaultTimeoutSec = 30
)

type Config struct {
	Server      ServerConfig `yaml:"server"`
	Auth        AuthConfig   `yaml:"auth,omitempty"`
	Preferences Preferences  `yaml:"preferences,omitempty"`
}

// ServerConfig points at the Ahmes backend.
type ServerConfig struct {
	URL        string `yaml:"url"`
	TimeoutSec int    `yaml:"timeout_sec,omitempty"`
}

// AuthConfig holds the bearer token issued on login.
type AuthConfig struct {
	Token string `yaml:"token,omitempty"`
}

// Preferences are the local display settings the web app keeps in the
// browser: language and theme.
type Preferences struct {
	Locale string `yaml:"locale,omitempty"` // da, en
	Theme  string `yaml:"theme,omitempty"`  // light, dark
}

func checkFilePermissions(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return fmt.Errorf("config file %s has insecure permissions %04o; should be 0600", path, perm)
	}
	return nil
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".ahmes", "config.yaml")
}

// Default returns a usable configuration for a first run.
func Default() *Config {
	return &Config{
		Server:      ServerConfig{URL: defaultServerURL, TimeoutSec: defaultTimeoutSec},
		Preferences: Preferences{Locale: string(i18n.DefaultLocale), Theme: "light"},
	}
}

// Load reads the config file, fills defaults, and applies environment
// overrides (AHMES_SERVER, AHMES_TOKEN, AHMES_LOCALE), including from a
// .env file in the working directory. A missing config file is not an
// error; defaults are returned so login works before any file exists.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// fall through to env overrides
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if permErr := checkFilePermissions(path); permErr != nil {
			fmt.Fprintf(os.Stderr, "WARNING: %v\n", permErr)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if cfg.Server.URL == "" {
		cfg.Server.URL = defaultServerURL
	}
	if cfg.Server.TimeoutSec == 0 {
		cfg.Server.TimeoutSec = defaultTimeoutSec
	}
	if cfg.Preferences.Locale == "" {
		cfg.Preferences.Locale = string(i18n.DefaultLocale)
	}
	if cfg.Preferences.Theme == "" {
		cfg.Preferences.Theme = "light"
	}

	if v := os.Getenv("AHMES_SERVER"); v != "" {
		cfg.Server.URL = v
	}
	if v := os.Getenv("AHMES_TOKEN"); v != "" {
		cfg.Auth.Token = v
	}
	if v := os.Getenv("AHMES_LOCALE"); v != "" {
		cfg.Preferences.Locale = v
	}

	return cfg, nil
}

// Save writes the config with owner-only permissions; it stores the
// bearer token.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server: url is required")
	}
	if _, err := url.ParseRequestURI(c.Server.URL); err != nil {
		return fmt.Errorf("server: invalid url %q: %w", c.Server.URL, err)
	}
	if _, err := i18n.ParseLocale(c.Preferences.Locale); err != nil {
		return fmt.Errorf("preferences: %w", err)
	}
	if t := c.Preferences.Theme; t != "" && t != "light" && t != "dark" {
		return fmt.Errorf("preferences: unknown theme %q (light or dark)", t)
	}
	return nil
}

// Locale returns the configured display language.
func (c *Config) Locale() i18n.Locale {
	loc, err := i18n.ParseLocale(c.Preferences.Locale)
	if err != nil {
		return i18n.DefaultLocale
	}
	return loc
}
