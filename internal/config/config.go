// Package config loads the TOML configuration file.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"

	"github.com/anomredux/slt-usage/internal/api"
	"github.com/anomredux/slt-usage/internal/assets"
)

// DefaultRendererURL is where the published circular gauge definition lives.
const DefaultRendererURL = "https://raw.githubusercontent.com/anomredux/slt-usage/main/renderers/progress-circle.yaml"

// PassphraseEnv holds the passphrase of the file keychain.
const PassphraseEnv = "SLT_USAGE_PASSPHRASE"

type Config struct {
	General   GeneralConfig   `toml:"general"`
	Endpoints EndpointsConfig `toml:"endpoints"`
	Renderer  RendererConfig  `toml:"renderer"`
	Mirror    MirrorConfig    `toml:"mirror"`
	Keychain  KeychainConfig  `toml:"keychain"`
	Display   DisplayConfig   `toml:"display"`
	Log       LogConfig       `toml:"log"`
}

type GeneralConfig struct {
	Variant        string `toml:"variant"`
	RefreshMinutes int    `toml:"refresh_minutes"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Language       string `toml:"language"`
	Appearance     string `toml:"appearance"`
}

type EndpointsConfig struct {
	LoginURL       string `toml:"login_url"`
	UsageURL       string `toml:"usage_url"`
	ClientID       string `toml:"client_id"`
	ClientIDHeader string `toml:"client_id_header"`
	ChannelID      string `toml:"channel_id"`
	LogoURL        string `toml:"logo_url"`
}

type RendererConfig struct {
	Name         string `toml:"name"`
	URL          string `toml:"url"`
	CacheDir     string `toml:"cache_dir"`
	ForceRefresh bool   `toml:"force_refresh"`
}

// MirrorConfig enables the S3 mirror of the renderer cache when Bucket is set.
type MirrorConfig struct {
	Bucket   string `toml:"bucket"`
	Region   string `toml:"region"`
	Prefix   string `toml:"prefix"`
	Endpoint string `toml:"endpoint"`
}

type KeychainConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Service string `toml:"service"`
}

type DisplayConfig struct {
	ImageMode string `toml:"image_mode"`
	PNGPath   string `toml:"png_path"`
}

type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

func DefaultConfig() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "slt-usage")
}

func DefaultPath() string {
	return filepath.Join(configDir(), "config.toml")
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(configDir(), "renderers")
	}
	return filepath.Join(dir, "slt-usage", "renderers")
}

// DefaultLogPath is where full-screen and scheduled modes log when
// log.file is unset.
func DefaultLogPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(configDir(), "slt-usage.log")
	}
	return filepath.Join(dir, "slt-usage", "slt-usage.log")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	g := &c.General
	if g.Variant == "" {
		g.Variant = "home"
	}
	if g.RefreshMinutes <= 0 {
		g.RefreshMinutes = 30
	}
	if g.TimeoutSeconds <= 0 {
		g.TimeoutSeconds = 30
	}
	if g.Language == "" {
		g.Language = "en"
	}
	if g.Appearance == "" {
		g.Appearance = "auto"
	}

	e := &c.Endpoints
	if e.LoginURL == "" {
		e.LoginURL = api.DefaultLoginURL
	}
	if e.UsageURL == "" {
		e.UsageURL = api.DefaultUsageURL
	}
	if e.ClientID == "" {
		e.ClientID = api.DefaultClientID
	}
	if e.ClientIDHeader == "" {
		e.ClientIDHeader = api.DefaultClientIDHeader
	}
	if e.ChannelID == "" {
		e.ChannelID = api.DefaultChannelID
	}
	if e.LogoURL == "" {
		e.LogoURL = assets.DefaultLogoURL
	}

	if c.Renderer.Name == "" {
		c.Renderer.Name = "ProgressCircle"
	}
	if c.Renderer.URL == "" {
		c.Renderer.URL = DefaultRendererURL
	}
	if c.Renderer.CacheDir == "" {
		c.Renderer.CacheDir = defaultCacheDir()
	}

	if c.Keychain.Backend == "" {
		c.Keychain.Backend = "auto"
	}
	if c.Keychain.Path == "" {
		c.Keychain.Path = filepath.Join(configDir(), "keychain.json")
	}
	if c.Keychain.Service == "" {
		c.Keychain.Service = "slt-usage"
	}

	if c.Display.ImageMode == "" {
		c.Display.ImageMode = "halfblock"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if err := oneOf("general.variant", c.General.Variant, "home", "lock", "default"); err != nil {
		return err
	}
	if err := oneOf("general.appearance", c.General.Appearance, "auto", "dark", "light"); err != nil {
		return err
	}
	if err := oneOf("keychain.backend", c.Keychain.Backend, "auto", "system", "file", "memory"); err != nil {
		return err
	}
	if err := oneOf("display.image_mode", c.Display.ImageMode, "halfblock", "braille"); err != nil {
		return err
	}
	for name, raw := range map[string]string{
		"endpoints.login_url": c.Endpoints.LoginURL,
		"endpoints.usage_url": c.Endpoints.UsageURL,
		"renderer.url":        c.Renderer.URL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func oneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got %q", field, strings.Join(allowed, ", "), value)
}

// Refresh is the delay before the next run.
func (g GeneralConfig) Refresh() time.Duration {
	return time.Duration(g.RefreshMinutes) * time.Minute
}

// Timeout bounds each HTTP request.
func (g GeneralConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Load reads the config at path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if _, err := toml.NewDecoder(bytes.NewReader(expandEnvVars(data))).Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1])
		name, def, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(name)
		if val == "" && hasDefault {
			val = def
		}
		return []byte(val)
	})
}
