package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 12, cfg.Processing.LookbackMonths)
	require.NotEmpty(t, cfg.Sources)
	assert.Equal(t, "straitstimes", cfg.Sources[0].Name)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
logging:
  level: debug
processing:
  lookbackMonths: 6
sources:
  - name: propertyguru
    extractor: propertyguru
    baseUrl: https://www.propertyguru.com.sg
    rateLimitMs: 500
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("DEVSCANNER_CONFIG", path)
	t.Setenv("DATABASE_DSN", "postgres://env-wins")

	cfg := Load()

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "postgres://env-wins", cfg.Database.DSN)
	assert.Equal(t, 6, cfg.Processing.LookbackMonths)
	require.Len(t, cfg.Sources, 1)
	assert.Equal(t, 500*time.Millisecond, cfg.Sources[0].RateLimit())
}

func TestSourceConfigDefaults(t *testing.T) {
	t.Parallel()

	var src SourceConfig
	assert.Equal(t, 10*time.Second, src.Timeout())
	assert.Equal(t, time.Second, src.RetryDelay())
	assert.Equal(t, 2*time.Second, src.RateLimit())
}

func TestLookbackDefault(t *testing.T) {
	t.Parallel()

	var p ProcessingConfig
	assert.Equal(t, 12*30*24*time.Hour, p.Lookback())
}
