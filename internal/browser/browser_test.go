package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go-leadgen-automation/internal/errors"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadCookies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	data := `[
		{"name":"sid","value":"abc","domain":".indeed.com","path":"/","expires":1893456000,"httpOnly":true,"secure":true,"sameSite":"Lax"},
		{"name":"pref","value":"en","domain":"indeed.com","sameSite":"unspecified"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cookies, err := LoadCookies(path)
	require.NoError(t, err)
	require.Len(t, cookies, 2)

	first := cookies[0].ToPlaywright()
	assert.Equal(t, "sid", first.Name)
	assert.Equal(t, ".indeed.com", *first.Domain)
	assert.Equal(t, 1893456000.0, *first.Expires)
	assert.True(t, *first.HttpOnly)
	assert.True(t, *first.Secure)
	assert.Equal(t, playwright.SameSiteAttributeLax, first.SameSite)

	second := cookies[1].ToPlaywright()
	assert.Equal(t, "/", *second.Path)
	assert.Nil(t, second.Expires)
	assert.Nil(t, second.HttpOnly)
	assert.Nil(t, second.SameSite)
}

func TestLoadCookies_EmptyPath(t *testing.T) {
	cookies, err := LoadCookies("")
	require.NoError(t, err)
	assert.Empty(t, cookies)
}

func TestLoadCookies_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := LoadCookies(path)
	assert.Error(t, err)
}

func TestIsBlockedTitle(t *testing.T) {
	assert.True(t, IsBlockedTitle("Attention Required! | Cloudflare"))
	assert.True(t, IsBlockedTitle("Just a moment..."))
	assert.False(t, IsBlockedTitle("Remote AI Jobs | Indeed"))
}

func TestRandomDelay_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := RandomDelay(ctx, time.Minute, 2*time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func requireBrowser(t *testing.T) {
	t.Helper()
	if testing.Short() || os.Getenv("LEADGEN_BROWSER_TESTS") != "1" {
		t.Skip("browser tests need LEADGEN_BROWSER_TESTS=1 and an installed playwright driver")
	}
}

func TestPageFetcher_Integration(t *testing.T) {
	requireBrowser(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blocked":
			w.Write([]byte(`<html><title>Attention Required! | Cloudflare</title><body></body></html>`))
		default:
			w.Write([]byte(`<html><title>Jobs</title><body><div class="job_seen_beacon"><h2 class="jobTitle">Go Engineer</h2></div></body></html>`))
		}
	}))
	defer srv.Close()

	pm, err := NewPlaywright(context.Background())
	require.NoError(t, err)
	defer pm.Close()

	f := NewPageFetcher(pm, nil, 10*time.Second, nil, zap.NewNop())

	body, err := f.Fetch(context.Background(), srv.URL+"/jobs")
	require.NoError(t, err)
	assert.Contains(t, string(body), "job_seen_beacon")

	_, err = f.Fetch(context.Background(), srv.URL+"/blocked")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
}
