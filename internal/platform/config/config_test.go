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

// TestLoad_FileAndDefaults はYAMLの値と既定値が反映されることを検証します。
func TestLoad_FileAndDefaults(t *testing.T) {
	path := writeConfig(t, `
predict_api:
  base_url: https://backend.test
  timeout: 3s
redis:
  host: localhost
dashboard:
  poll_every: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://backend.test", cfg.PredictAPI.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.PredictAPI.Timeout)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.PollEvery)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 200, cfg.Dashboard.MarketLimit)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.NoError(t, cfg.Validate())
}

// TestLoad_EnvOverrides は環境変数がファイルの値を上書きすることを検証します。
func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
predict_api:
  base_url: https://file.test
`)
	t.Setenv("PREDICT_API_BASE_URL", "https://env.test")
	t.Setenv("PORT", "9090")
	t.Setenv("POLL_EVERY", "15s")
	t.Setenv("REFRESH_PER_MINUTE", "abc")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_DSN", "host=db user=app dbname=dashboard")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.test", cfg.PredictAPI.BaseURL)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Dashboard.PollEvery)
	assert.Equal(t, 6, cfg.Dashboard.RefreshPerMinute, "invalid integer falls back to the default")
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "", cfg.RedisAddr())
	assert.Error(t, cfg.Validate(), "base_url is required")
}

func TestLoad_InvalidYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "predict_api: [unterminated"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "missing base url", mutate: func(c *Config) { c.PredictAPI.BaseURL = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "missing dsn", mutate: func(c *Config) { c.Database.DSN = "" }, wantErr: true},
		{name: "market limit too large", mutate: func(c *Config) { c.Dashboard.MarketLimit = 501 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := &Config{}
			c.applyDefaults()
			c.PredictAPI.BaseURL = "https://backend.test"
			tt.mutate(c)
			if tt.wantErr {
				assert.Error(t, c.Validate())
			} else {
				assert.NoError(t, c.Validate())
			}
		})
	}
}
