package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectConfigPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	require.NoError(t, err)

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Title)
	assert.Equal(t, 3000, cfg.Webserver.Port)
	assert.NotEmpty(t, cfg.Webserver.URL)
	assert.Equal(t, "/checkalive", cfg.Webserver.CheckAliveURI)
	assert.Equal(t, 720*time.Hour, cfg.Webserver.Session.ExpiryTime)
	assert.Equal(t, 10*time.Minute, cfg.Webserver.Session.SweepInterval)
	assert.Equal(t, "http://localhost:8000", cfg.API.Base)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "refresh_token", cfg.API.RefreshCookie)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "info", cfg.Log.LogLevel)
	assert.True(t, cfg.Log.Console.Enabled)
	assert.Equal(t, "access.log", cfg.Log.File.AccessLog)
}

func TestReadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.toml"), []byte("title = \"Minimal\"\n"), 0o600))

	cfg, err := ReadConfig(dir + string(filepath.Separator))
	require.NoError(t, err)

	assert.Equal(t, "Minimal", cfg.Title)
	assert.Equal(t, 3000, cfg.Webserver.Port)
	assert.Equal(t, defaultShutDownTime, cfg.Webserver.ShutDownTime)
	assert.Equal(t, "Lax", cfg.Webserver.Session.SameSite)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestReadConfigMissingFile(t *testing.T) {
	_, err := ReadConfig(t.TempDir() + string(filepath.Separator))
	require.Error(t, err)
}

func TestReadConfigEnvOverride(t *testing.T) {
	t.Setenv("RECIPEBOOK_API_BASE", "https://api.recipebook.test")
	t.Setenv("RECIPEBOOK_WEBSERVER_PORT", "9191")

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "https://api.recipebook.test", cfg.API.Base)
	assert.Equal(t, 9191, cfg.Webserver.Port)
}

func TestReadConfigWithJSONOverride(t *testing.T) {
	t.Setenv(JSONConfigEnv, `{"Title":"Test Override","Webserver":{"Port":9090}}`)

	cfg, err := ReadConfig(projectConfigPath(t))
	require.NoError(t, err)

	assert.Equal(t, "Test Override", cfg.Title)
	assert.Equal(t, 9090, cfg.Webserver.Port)
	assert.Equal(t, "http://localhost:3000", cfg.Webserver.URL, "fields missing in the override are kept")
}

func TestReadConfigWithBrokenJSONOverride(t *testing.T) {
	t.Setenv(JSONConfigEnv, `{"Title":`)

	_, err := ReadConfig(projectConfigPath(t))
	require.Error(t, err)
}

func validConfig() Config {
	return Config{
		Webserver: Webserver{
			Port:    8080,
			URL:     "http://localhost:8080",
			Session: Session{ExpiryTime: time.Hour},
		},
		API:     API{Base: "http://localhost:8000"},
		Storage: Storage{Driver: "memory"},
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "missing URL",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "session expiry too short",
			mutate:  func(c *Config) { c.Webserver.Session.ExpiryTime = time.Second },
			wantErr: ErrSessionExpiryTooShort,
		},
		{name: "api base is not a url", mutate: func(c *Config) { c.API.Base = "not a url" }},
		{name: "unknown storage driver", mutate: func(c *Config) { c.Storage.Driver = "etcd" }},
		{name: "redis without uri", mutate: func(c *Config) { c.Storage.Driver = "redis" }},
		{name: "bad same site", mutate: func(c *Config) { c.Webserver.Session.SameSite = "sometimes" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)

			err := validate(&c)

			switch {
			case tt.name == "valid config":
				require.NoError(t, err)
				assert.Equal(t, defaultShutDownTime, c.Webserver.ShutDownTime)
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			default:
				require.Error(t, err)
			}
		})
	}
}

func TestDumpConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Title = "Dumped"

	out, err := DumpConfig(&cfg)
	require.NoError(t, err)

	assert.Contains(t, out, "Dumped")
	assert.Contains(t, out, "[webserver]")
}

func TestDumpConfigJSON(t *testing.T) {
	cfg := validConfig()
	cfg.Title = "Dumped"

	out, err := DumpConfigJSON(&cfg)
	require.NoError(t, err)

	assert.Contains(t, out, `"title": "Dumped"`)
}
