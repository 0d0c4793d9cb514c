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

func TestLoadDefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadDefault()
	require.NoError(t, err)

	assert.Equal(t, "scamguard", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 65536, cfg.Analysis.MaxTextBytes)
	assert.Equal(t, 100, cfg.Analysis.MaxBatchSize)
	assert.Equal(t, 5, cfg.Analysis.BatchConcurrency)
	assert.Equal(t, int64(5<<20), cfg.Analysis.MaxUploadBytes)
	assert.Equal(t, "scamguard:", cfg.Redis.KeyPrefix)
	assert.False(t, cfg.Database.Enabled)
	assert.Empty(t, cfg.Auth.APIKeys)
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
app:
  environment: production
server:
  http_port: 8181
redis:
  enabled: true
  host: cache.internal
analysis:
  max_batch_size: 20
auth:
  api_keys: ["file-key"]
`)
	t.Setenv("SCAMGUARD_SERVER_HTTP_PORT", "9000")
	t.Setenv("SCAMGUARD_AUTH_API_KEYS", "k1,k2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, 20, cfg.Analysis.MaxBatchSize)
	assert.Equal(t, []string{"k1", "k2"}, cfg.Auth.APIKeys)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  http_port: 9090
  grpc_port: 9090
stats:
  rollup_schedule: "whenever"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grpc_port must differ")
	assert.Contains(t, err.Error(), "stats.rollup_schedule")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:   ServerConfig{HTTPPort: 8080, GRPCPort: 9090, GRPCEnabled: true},
			Analysis: AnalysisConfig{MaxTextBytes: 10, MaxBatchSize: 1, BatchConcurrency: 1, MaxUploadBytes: 1},
		}
	}

	cfg := valid()
	assert.NoError(t, cfg.Validate())

	cfg = valid()
	cfg.Server.HTTPPort = 70000
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit = RateLimitConfig{Enabled: true}
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Server.GRPCEnabled = false
	cfg.Server.GRPCPort = 0
	assert.NoError(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{User: "u", Password: "p", Host: "db", Port: 5432, DBName: "sg", SSLMode: "disable", Schema: "public"}

	assert.Equal(t, "postgres://u:p@db:5432/sg?sslmode=disable&search_path=public", c.DSN())
}
