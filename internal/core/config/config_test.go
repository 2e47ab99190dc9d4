package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: test
  http:
    port: 9090
db:
  driver: postgres
  dsn: "host=db"
auth:
  token_ttl_min: 0
`), 0o600))
	t.Setenv("APP_DB_DSN", "host=override")
	t.Setenv("APP_LIMITS_RPS", "5")

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test", c.App.Env)
	assert.Equal(t, 9090, c.App.HTTP.Port)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "host=override", c.DB.DSN)
	assert.Equal(t, 5.0, c.Limits.RPS)
	assert.Equal(t, time.Duration(0), c.Auth.TokenTTL())

	// untouched keys keep their defaults
	assert.Equal(t, 10, c.Auth.BcryptCost)
	assert.Equal(t, 600, c.Analytics.ChartWidth)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadDefaultPathOptional(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_PATH", "")

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", c.DB.Driver)
	assert.Equal(t, 7*24*time.Hour, c.Auth.TokenTTL())
}
