// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 my-login-app Contributors

package config_test

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KobbyFlex00/my-login-app/internal/config"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultListenAddr, cfg.ListenAddr)
	assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
	assert.Equal(t, config.DefaultLogFormat, cfg.LogFormat)
	assert.Equal(t, config.DefaultSessionTTL, cfg.Session.TTL)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfigFile(t, `
listen_addr: "0.0.0.0:9999"
log_format: text
database:
  url: postgres://file@localhost/app
session:
  secret: file-secret-at-least-16-bytes
  ttl: 1h
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9999", cfg.ListenAddr)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "postgres://file@localhost/app", cfg.Database.URL)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	// Defaults survive for keys the file omits.
	assert.Equal(t, config.DefaultMetricsAddr, cfg.MetricsAddr)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfigFile(t, `
listen_addr: "0.0.0.0:9999"
database:
  url: postgres://file@localhost/app
`)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("listen_addr", config.DefaultListenAddr, "")
	flags.String("database.url", "", "")
	require.NoError(t, flags.Parse([]string{
		"--listen_addr=127.0.0.1:7777",
		"--database.url=postgres://flag@localhost/app",
	}))

	cfg, err := config.Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7777", cfg.ListenAddr)
	assert.Equal(t, "postgres://flag@localhost/app", cfg.Database.URL)
}

func TestLoad_DatabaseURLEnvFallback(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env@localhost/app")

	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env@localhost/app", cfg.Database.URL)

	t.Run("explicit config wins over the environment", func(t *testing.T) {
		path := writeConfigFile(t, `
database:
  url: postgres://file@localhost/app
`)
		cfg, err := config.Load(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "postgres://file@localhost/app", cfg.Database.URL)
	})
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/config.yaml", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/nonexistent/config.yaml")
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "empty listen_addr",
			mutate:  func(c *config.Config) { c.ListenAddr = "" },
			wantErr: "listen_addr is required",
		},
		{
			name:    "unknown log format",
			mutate:  func(c *config.Config) { c.LogFormat = "xml" },
			wantErr: "log_format must be",
		},
		{
			name:    "non-positive session ttl",
			mutate:  func(c *config.Config) { c.Session.TTL = 0 },
			wantErr: "session.ttl must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestConfig_SessionSecret(t *testing.T) {
	t.Run("empty secret decodes to nil", func(t *testing.T) {
		cfg := config.Default()
		assert.Nil(t, cfg.SessionSecret())
	})

	t.Run("base64 raw-URL secrets are decoded", func(t *testing.T) {
		raw := []byte("0123456789abcdef0123456789abcdef")
		cfg := config.Default()
		cfg.Session.Secret = base64.RawURLEncoding.EncodeToString(raw)
		assert.Equal(t, raw, cfg.SessionSecret())
	})

	t.Run("non-base64 secrets are used as raw bytes", func(t *testing.T) {
		cfg := config.Default()
		cfg.Session.Secret = "plain secret with spaces!"
		assert.Equal(t, []byte("plain secret with spaces!"), cfg.SessionSecret())
	})
}
