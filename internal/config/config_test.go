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
	path := writeConfig(t, `
storage:
  driver: "memory"
auth:
  jwt_secret: "secret"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, "polls", cfg.Storage.MongoDatabase)
	assert.Equal(t, 4000, cfg.HTTP.Port)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.HTTP.CORSOrigins)
	assert.Equal(t, AuthProviderJWT, cfg.Auth.Provider)
	assert.Equal(t, 168*time.Hour, cfg.Auth.TokenTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.ResultsTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
storage:
  driver: "memory"
http:
  port: 4000
auth:
  jwt_secret: "from-file"
`)

	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "postgres without url",
			body: "storage:\n  driver: postgres\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "mongo without uri",
			body: "storage:\n  driver: mongo\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "unknown driver",
			body: "storage:\n  driver: sqlite\nauth:\n  jwt_secret: s\n",
		},
		{
			name: "jwt without secret",
			body: "storage:\n  driver: memory\n",
		},
		{
			name: "unknown provider",
			body: "storage:\n  driver: memory\nauth:\n  provider: oauth\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_FirebaseNeedsNoSecret(t *testing.T) {
	cfg, err := Load(writeConfig(t, "storage:\n  driver: memory\nauth:\n  provider: firebase\n"))
	require.NoError(t, err)
	assert.Equal(t, AuthProviderFirebase, cfg.Auth.Provider)
}
