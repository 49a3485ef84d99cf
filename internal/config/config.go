// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

// Package config loads application configuration from an optional YAML
// file layered under command-line flags. Construction-time injection
// replaces the process-wide globals of older deployments: the secret key
// and store location travel inside the Config value, never as ambient
// state.
package config

import (
	"encoding/base64"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults.
const (
	DefaultListenAddr  = "127.0.0.1:8080"
	DefaultMetricsAddr = "127.0.0.1:9100"
	DefaultLogFormat   = "json"
	DefaultSessionTTL  = 24 * time.Hour
)

// Database holds credential-store settings.
type Database struct {
	// URL is the PostgreSQL connection string.
	URL string `koanf:"url"`
}

// Session holds session-cookie settings.
type Session struct {
	// Secret signs the session cookie, base64 (raw URL encoding) or a
	// plain string. Left empty, a random secret is generated at startup
	// and sessions do not survive a restart.
	Secret string `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// Config is the full application configuration.
type Config struct {
	ListenAddr  string   `koanf:"listen_addr"`
	MetricsAddr string   `koanf:"metrics_addr"`
	LogFormat   string   `koanf:"log_format"`
	Database    Database `koanf:"database"`
	Session     Session  `koanf:"session"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListenAddr:  DefaultListenAddr,
		MetricsAddr: DefaultMetricsAddr,
		LogFormat:   DefaultLogFormat,
		Session:     Session{TTL: DefaultSessionTTL},
	}
}

// Load builds the configuration from defaults, an optional YAML file, and
// an optional flag set, in increasing order of precedence. The
// DATABASE_URL environment variable is honored as a fallback for
// database.url.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}
	if flags != nil {
		// Passing k makes posflag skip defaults for keys the file set.
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_INVALID").
			With("operation", "unmarshal config").
			Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values no command could run with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen_addr is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").
			Errorf("log_format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.Session.TTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session.ttl must be positive")
	}
	return nil
}

// SessionSecret decodes the configured session secret. Base64 (raw URL
// encoding) is preferred; a value that does not decode is used as raw
// bytes.
func (c *Config) SessionSecret() []byte {
	if c.Session.Secret == "" {
		return nil
	}
	if raw, err := base64.RawURLEncoding.DecodeString(c.Session.Secret); err == nil {
		return raw
	}
	return []byte(c.Session.Secret)
}
