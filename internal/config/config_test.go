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
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: postgres
  host: db
  port: 5432
  user: eval
  password: secret
  name: evaluator
analysis:
  delay: 0s
  resultTTL: 5m
  seed: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, time.Duration(0), cfg.Analysis.Delay)
	assert.Equal(t, 5*time.Minute, cfg.Analysis.ResultTTL)
	assert.Equal(t, int64(42), cfg.Analysis.Seed)
	// untouched sections keep defaults
	assert.Equal(t, "inline", cfg.Storage.Driver)
	assert.Equal(t, "Demo User", cfg.Session.UserName)
	assert.Equal(t, "host=db port=5432 user=eval password=secret dbname=evaluator sslmode=disable", cfg.PostgresDSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "server:\n  port: 9090\n")
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("ANALYSIS_DELAY", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.Analysis.Delay)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	_, err := Load(writeConfig(t, "database:\n  driver: sqlite\n"))
	assert.ErrorContains(t, err, "unknown database driver")

	_, err = Load(writeConfig(t, "storage:\n  driver: minio\n"))
	assert.ErrorContains(t, err, "minio")

	_, err = Load(writeConfig(t, "server: [1, 2]"))
	assert.Error(t, err)

	t.Setenv("SERVER_PORT", "eighty")
	_, err = Load(writeConfig(t, ""))
	assert.ErrorContains(t, err, "SERVER_PORT")
}

func TestMySQLDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.User = "root"
	cfg.Database.Password = "pw"
	cfg.Database.Host = "127.0.0.1"
	cfg.Database.Port = 3306
	cfg.Database.Name = "eval"
	assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/eval?parseTime=true&charset=utf8mb4&loc=UTC", cfg.MySQLDSN())
}

func TestLoad_RejectsBadRateLimit(t *testing.T) {
	_, err := Load(writeConfig(t, "server:\n  rateLimit:\n    capacity: 0\n"))
	assert.ErrorContains(t, err, "rateLimit")
}

func TestLoad_ExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 2*time.Second, cfg.Analysis.Delay)
}
