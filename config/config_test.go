package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-config-1234\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, SettingsStorePostgres, cfg.Policy.SettingsStore)
	assert.Equal(t, 30*time.Second, cfg.Policy.SchedulerInterval)
	assert.Equal(t, "Asia/Shanghai", cfg.Policy.Timezone)
	assert.Equal(t, 720*time.Hour, cfg.Auth.AccessTokenTTL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "auth:\n  jwt_secret: test-secret-key-for-config-1234\npolicy:\n  settings_store: postgres\n")
	t.Setenv("MROFL_POLICY_SETTINGS_STORE", "redis")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SettingsStoreRedis, cfg.Policy.SettingsStore)
}

func TestLoad_MissingSecret(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Policy(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: 8080},
			Auth:   AuthConfig{JWTSecret: "test-secret-key-for-config-1234"},
			Policy: PolicyConfig{
				Timezone:          "UTC",
				SettingsStore:     SettingsStorePostgres,
				SchedulerInterval: time.Second,
			},
		}
	}

	require.NoError(t, base().Validate())

	cfg := base()
	cfg.Policy.SettingsStore = "memcached"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Policy.Timezone = "Mars/Olympus_Mons"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Policy.SchedulerInterval = 0
	assert.Error(t, cfg.Validate())
}
