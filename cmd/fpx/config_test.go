package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/fpx"
	main "github.com/fwojciec/fpx/cmd/fpx"
	fpxhttp "github.com/fwojciec/fpx/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// Config tests use t.Setenv and can't run in parallel.

func TestLoadConfig_Defaults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	t.Setenv("FPX_DB", dbPath)

	cfg, err := main.LoadConfig(writeConfig(t, ""))

	require.NoError(t, err)
	assert.Equal(t, fpxhttp.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "popular", cfg.Feed)
	assert.Equal(t, 40, cfg.PageSize)
	assert.InDelta(t, 5.0, cfg.RateLimit, 0.001)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.False(t, cfg.Dedupe)
	assert.Equal(t, dbPath, cfg.Cache.Path)
	assert.Equal(t, 10*time.Minute, cfg.Cache.MaxAge)
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("FPX_DB", filepath.Join(t.TempDir(), "cache.db"))
	path := writeConfig(t, `
consumer_key: abc123
feed: editors
page_size: 20
rate_limit: 0
timeout: 3s
dedupe: true
cache:
  path: /tmp/photos.db
  max_age: 1h
`)

	cfg, err := main.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "abc123", cfg.ConsumerKey)
	assert.Equal(t, "editors", cfg.Feed)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Zero(t, cfg.RateLimit)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.True(t, cfg.Dedupe)
	assert.Equal(t, "/tmp/photos.db", cfg.Cache.Path)
	assert.Equal(t, time.Hour, cfg.Cache.MaxAge)
}

func TestLoadConfig_Environment(t *testing.T) {
	t.Setenv("FPX_DB", filepath.Join(t.TempDir(), "cache.db"))
	t.Setenv("FPX_CONSUMER_KEY", "from-env")
	t.Setenv("FPX_PAGE_SIZE", "15")
	t.Setenv("FPX_CACHE_MAX_AGE", "30s")
	path := writeConfig(t, "consumer_key: from-file\npage_size: 20\n")

	cfg, err := main.LoadConfig(path)

	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ConsumerKey)
	assert.Equal(t, 15, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Cache.MaxAge)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Setenv("FPX_DB", filepath.Join(t.TempDir(), "cache.db"))

	for name, content := range map[string]string{
		"zero page size":   "page_size: 0\n",
		"negative rate":    "rate_limit: -1\n",
		"negative max age": "cache:\n  max_age: -1m\n",
		"empty feed":       "feed: \"\"\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := main.LoadConfig(writeConfig(t, content))

			assert.Equal(t, fpx.EINVALID, fpx.ErrorCode(err))
		})
	}
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	t.Setenv("FPX_DB", filepath.Join(t.TempDir(), "cache.db"))

	_, err := main.LoadConfig(writeConfig(t, "page_size: [1, 2\n"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}
