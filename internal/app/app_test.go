package app

import (
	"context"
	"path/filepath"
	"testing"

	"go-leadgen-automation/internal/config"
	"go-leadgen-automation/internal/fetch"
	"go-leadgen-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("EMBEDDINGS_API_KEY", "")
	t.Setenv("LEADGEN_FETCH_MODE", "")
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	return cfg
}

func TestNewRegistry_AllSources(t *testing.T) {
	cfg := testConfig(t)
	reg := NewRegistry(fetch.NewHTTPFetcher(zap.NewNop()), cfg, zap.NewNop())

	assert.Equal(t, len(models.DefaultSources()), reg.Len())
	for _, s := range models.DefaultSources() {
		a, ok := reg.Get(s)
		require.True(t, ok, s)
		assert.Equal(t, s, a.Source())
	}
}

func TestNewFetcher_HTTPWithoutCache(t *testing.T) {
	cfg := testConfig(t)
	f, release, err := NewFetcher(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	_, ok := f.(*fetch.HTTPFetcher)
	assert.True(t, ok)
}

func TestNewFetcher_UnreachableRedisFallsBack(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.RedisAddr = "127.0.0.1:1"

	f, release, err := NewFetcher(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	_, ok := f.(*fetch.HTTPFetcher)
	assert.True(t, ok)
}

func TestNewNotifier_Disabled(t *testing.T) {
	cfg := testConfig(t)
	n, err := NewNotifier(cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, n)
}

func TestNewRunner(t *testing.T) {
	cfg := testConfig(t)
	r, release, err := NewRunner(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer release()

	assert.Equal(t, "data/leads_raw.csv", r.RawPath())
	assert.Equal(t, "data/leads_ranked.csv", r.RankedPath())
}
