package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.Equal(t, RevocationSQLite, cfg.RevocationBackend)
	assert.Equal(t, 10*time.Minute, cfg.PruneInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.GoogleClientID)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "JWT_SECRET=" + testSecret + "\nSERVER_ADDR=:9999\nTOKEN_TTL=1h\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// Переменная окружения приоритетнее файла
	t.Setenv("TOKEN_TTL", "2h")
	// Пустое значение, чтобы t.Setenv восстановил окружение после теста
	t.Setenv("SERVER_ADDR", "")
	require.NoError(t, os.Unsetenv("SERVER_ADDR"))
	t.Setenv("JWT_SECRET", "")
	require.NoError(t, os.Unsetenv("JWT_SECRET"))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.ServerAddr)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, testSecret, cfg.JWTSecret)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("TOKEN_TTL", "forever")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse env:")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			DatabasePath:      "todo.db",
			JWTSecret:         testSecret,
			TokenTTL:          time.Hour,
			RevocationBackend: RevocationMemory,
			PruneInterval:     time.Minute,
			ShutdownTimeout:   time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "short secret", mutate: func(c *Config) { c.JWTSecret = "short" }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.TokenTTL = 0 }, wantErr: true},
		{name: "zero prune interval", mutate: func(c *Config) { c.PruneInterval = 0 }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.RevocationBackend = "redis" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.RevocationBackend = RevocationSQLite
			c.DatabasePath = ""
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
