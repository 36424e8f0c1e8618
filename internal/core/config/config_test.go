package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestRead_FileAndDefaults(t *testing.T) {
	p := writeYAML(t, `
app:
  http:
    port: 9090
jwt:
  secret: s3cr3t
db:
  driver: sqlite
  dsn: file:test.db
redis:
  enable: true
  scoreTTLSec: 5
`)
	c, err := Read(p)
	require.NoError(t, err)

	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "s3cr3t", c.JWT.Secret)
	assert.Equal(t, 720*60, c.JWT.AccessTokenTTLMin)
	assert.Equal(t, "wishcircle", c.JWT.Issuer)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.True(t, c.DB.AutoMigrate)
	assert.True(t, c.Redis.Enable)
	assert.Equal(t, 5, c.Redis.ScoreTTLSec)
	assert.EqualValues(t, 16, c.App.HTTP.MaxBodyMB)
}

func TestRead_EnvOverrides(t *testing.T) {
	p := writeYAML(t, `
jwt:
  secret: from-file
db:
  dsn: file:test.db
`)
	t.Setenv("APP_JWT_SECRET", "from-env")
	t.Setenv("APP_APP_HTTP_PORT", "7070")

	c, err := Read(p)
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.JWT.Secret)
	assert.Equal(t, 7070, c.App.HTTP.Port)
}

func TestRead_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("APP_JWT_SECRET", "env-only")
	t.Setenv("APP_DB_DSN", "postgres://x")

	c, err := Read(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "env-only", c.JWT.Secret)
	assert.Equal(t, "postgres", c.DB.Driver)
}

func TestRead_ValidationFails(t *testing.T) {
	p := writeYAML(t, "app:\n  name: x\n")

	_, err := Read(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt.secret is required")
	assert.Contains(t, err.Error(), "db.dsn is required")
}
