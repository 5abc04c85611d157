// Package config loads CLI configuration from an optional YAML file,
// HTMLVIEW_* environment variables and bound command flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/goliatone/go-htmlview/pkg/view"
)

// EnvPrefix is prepended to environment variable names, e.g. HTMLVIEW_PATH.
const EnvPrefix = "HTMLVIEW"

// DefaultFile is read from the working directory when no file is given.
const DefaultFile = "htmlview.yaml"

// Cache modes.
const (
	CacheAuto = "auto"
	CacheOn   = "on"
	CacheOff  = "off"
)

// Config holds CLI settings.
type Config struct {
	Env  string `mapstructure:"env"`
	Path string `mapstructure:"path"`
	// Namespaces maps namespace names to directories. Keys are lowercased by
	// the config loader.
	Namespaces  map[string]string `mapstructure:"namespaces"`
	StrictPaths bool              `mapstructure:"strict_paths"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Serve       ServeConfig       `mapstructure:"serve"`
	LogLevel    string            `mapstructure:"log_level"`
}

// CacheConfig controls template caching.
type CacheConfig struct {
	Mode string        `mapstructure:"mode"`
	TTL  time.Duration `mapstructure:"ttl"`
}

// ServeConfig configures the preview server.
type ServeConfig struct {
	Addr  string `mapstructure:"addr"`
	Watch bool   `mapstructure:"watch"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Env:        view.EnvDevelopment,
		Path:       "view",
		Namespaces: map[string]string{},
		Cache:      CacheConfig{Mode: CacheAuto},
		Serve:      ServeConfig{Addr: "127.0.0.1:8080"},
		LogLevel:   "info",
	}
}

// Load reads configuration into v and decodes it. file may be empty, in which
// case DefaultFile is used when present. Flags bound to v before calling Load
// take precedence over the file and the environment.
func Load(v *viper.Viper, file string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	defaults := Defaults()
	v.SetDefault("env", defaults.Env)
	v.SetDefault("path", defaults.Path)
	v.SetDefault("namespaces", defaults.Namespaces)
	v.SetDefault("strict_paths", defaults.StrictPaths)
	v.SetDefault("cache.mode", defaults.Cache.Mode)
	v.SetDefault("cache.ttl", defaults.Cache.TTL)
	v.SetDefault("serve.addr", defaults.Serve.Addr)
	v.SetDefault("serve.watch", defaults.Serve.Watch)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("config: read %s: %w", v.ConfigFileUsed(), err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that cannot be decoded into a wrong type.
func (c Config) Validate() error {
	switch strings.ToLower(c.Cache.Mode) {
	case "", CacheAuto, CacheOn, CacheOff:
	default:
		return fmt.Errorf("config: cache.mode must be one of auto, on, off (got %q)", c.Cache.Mode)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("config: cache.ttl must not be negative")
	}
	for name, dir := range c.Namespaces {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(dir) == "" {
			return fmt.Errorf("config: namespace %q needs a name and a directory", name)
		}
		if name == view.DefaultNamespace {
			return fmt.Errorf("config: namespace %q is reserved, use path instead", name)
		}
	}
	return nil
}

// Options returns the construction options for view.New.
func (c Config) Options() view.Options {
	paths := make(map[string]string, len(c.Namespaces))
	for name, dir := range c.Namespaces {
		paths[name] = dir
	}
	return view.Options{Env: c.Env, Path: c.Path, NamespacePaths: paths}
}

// ViewOptions translates the configuration into renderer options.
func (c Config) ViewOptions() []view.Option {
	opts := []view.Option{view.WithOptions(c.Options())}
	switch strings.ToLower(c.Cache.Mode) {
	case CacheOn:
		opts = append(opts, view.WithTemplateCache(c.Cache.TTL))
	case CacheOff:
		opts = append(opts, view.WithTemplateCache(-1))
	}
	if c.StrictPaths {
		opts = append(opts, view.WithStrictPaths())
	}
	return opts
}
