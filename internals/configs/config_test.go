package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "access")
	t.Setenv("JWT_REFRESH_SECRET", "refresh")
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "AcademyKit", cfg.App.Name)
	assert.Equal(t, 24*time.Hour, cfg.JWT.AccessTTL)
	assert.Equal(t, "console", cfg.Mail.Provider)
	assert.Equal(t, "local", cfg.Storage.Provider)
	assert.Equal(t, "access", cfg.JWT.Secret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := []byte("app:\n  port: \"8080\"\n  name: FromFile\nmail:\n  provider: sendgrid\n")
	require.NoError(t, os.WriteFile(path, yml, 0o600))

	t.Setenv("APP_ENV", "production")
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("JWT_SECRET", "a")
	t.Setenv("JWT_REFRESH_SECRET", "b")
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("JWT_ACCESS_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "FromFile", cfg.App.Name)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "sendgrid", cfg.Mail.Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowOrigins)
	assert.Equal(t, 2*time.Hour, cfg.JWT.AccessTTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}},
		{name: "unknown mail provider", mutate: func(c *Config) { c.Mail.Provider = "smtp" }, wantErr: true},
		{name: "unknown storage provider", mutate: func(c *Config) { c.Storage.Provider = "s3" }, wantErr: true},
		{name: "production needs secrets", mutate: func(c *Config) { c.App.Env = "production" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.JWT.AccessTTL = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaultConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "database.host", envTransformFunc("DB_HOST"))
	assert.Equal(t, "jwt.secret", envTransformFunc("JWT_SECRET"))
	assert.Equal(t, "", envTransformFunc("HOME"))
}
