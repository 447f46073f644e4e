// Package config loads service settings from configs/config.yml and PIVOVAR_* env vars.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "PIVOVAR"

type Config struct {
	Port        string            `mapstructure:"port"`
	DB          DBConfig          `mapstructure:"db"`
	WashMachine WashMachineConfig `mapstructure:"wash_machine"`
	Poll        PollConfig        `mapstructure:"poll"`
	Log         LogConfig         `mapstructure:"log"`
	Console     ConsoleConfig     `mapstructure:"console"`
	I18n        I18nConfig        `mapstructure:"i18n"`
	Auth        AuthConfig        `mapstructure:"auth"`
	Datadog     DatadogConfig     `mapstructure:"datadog"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type WashMachineConfig struct {
	URL string `mapstructure:"url"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type ConsoleConfig struct {
	Size int `mapstructure:"size"`
}

type I18nConfig struct {
	DefaultLocale string `mapstructure:"default_locale"`
}

type AuthConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// DatadogConfig enables the statsd sink when Addr is set.
type DatadogConfig struct {
	Addr      string   `mapstructure:"addr"`
	Namespace string   `mapstructure:"namespace"`
	Tags      []string `mapstructure:"tags"`
}

var (
	ErrBadURL      = errors.New("wash_machine.url must be an absolute http(s) url")
	ErrBadInterval = errors.New("poll.interval must be positive")
	ErrNoKey       = errors.New("auth.signing_key is required when auth is enabled")
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "pivovar.db")
	v.SetDefault("wash_machine.url", "http://localhost:5001")
	v.SetDefault("poll.interval", 2*time.Second)
	v.SetDefault("poll.timeout", 5*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("console.size", 500)
	v.SetDefault("i18n.default_locale", "en")
	v.SetDefault("auth.enabled", false)
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("datadog.addr", "")
	v.SetDefault("datadog.namespace", "pivovar.")
	v.SetDefault("datadog.tags", []string{})
}

// Load reads config.yml from the given directories (default "configs"). A missing
// file is not an error; defaults and the environment still apply.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if len(paths) == 0 {
		paths = []string{"configs"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.WashMachine.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrBadURL, c.WashMachine.URL)
	}
	if c.Poll.Interval <= 0 {
		return ErrBadInterval
	}
	if c.Auth.Enabled && strings.TrimSpace(c.Auth.SigningKey) == "" {
		return ErrNoKey
	}
	return nil
}
