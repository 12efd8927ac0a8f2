package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"go-leadgen-automation/internal/cache"
	"go-leadgen-automation/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, "<html><body><tr class=\"job\"></tr></body></html>")
		default:
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	f := NewHTTPFetcher(zap.NewNop(), WithTimeout(2*time.Second), WithUserAgent("leadgen-test"))

	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Contains(t, string(body), `class="job"`)
	assert.Equal(t, "leadgen-test", gotUA)

	// same URL twice must not be swallowed by the collector's visit tracking
	_, err = f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL+"/down")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
	assert.Contains(t, err.Error(), "503")
}

func TestHTTPFetcher_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPFetcher(zap.NewNop()).Fetch(context.Background(), url)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
}

func TestHTTPFetcher_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		fmt.Fprint(w, "<html>too late</html>")
	}))
	defer srv.Close()
	defer close(done)

	f := NewHTTPFetcher(zap.NewNop(), WithTimeout(200*time.Millisecond))

	start := time.Now()
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestHTTPFetcher_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPFetcher(zap.NewNop()).Fetch(ctx, "http://127.0.0.1:1/")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeUnavailable))
}

type memoryCache struct {
	mu     sync.Mutex
	data   map[string]string
	getErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string]string{}}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := value.(string)
	if !ok {
		return cache.ErrInvalidValue
	}
	m.data[key] = s
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return m.getErr
	}
	s, ok := m.data[key]
	if !ok {
		return cache.ErrNotFound
	}
	*(value.(*string)) = s
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memoryCache) Close() error { return nil }

type countingFetcher struct {
	calls int
	body  string
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, _ string) ([]byte, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []byte(c.body), nil
}

func TestCachedFetcher(t *testing.T) {
	next := &countingFetcher{body: "<html>page</html>"}
	mem := newMemoryCache()
	f := NewCachedFetcher(next, mem, time.Minute, zap.NewNop())

	first, err := f.Fetch(context.Background(), "https://remoteok.com/remote-ai-jobs")
	require.NoError(t, err)
	second, err := f.Fetch(context.Background(), "https://remoteok.com/remote-ai-jobs")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, next.calls)
	assert.Contains(t, mem.data, "leadgen:page:https://remoteok.com/remote-ai-jobs")
}

func TestCachedFetcher_CacheErrorFallsThrough(t *testing.T) {
	next := &countingFetcher{body: "fresh"}
	mem := newMemoryCache()
	mem.getErr = fmt.Errorf("connection refused")
	f := NewCachedFetcher(next, mem, time.Minute, zap.NewNop())

	body, err := f.Fetch(context.Background(), "https://indeed.com/jobs")
	require.NoError(t, err)
	assert.Equal(t, "fresh", string(body))
	assert.Equal(t, 1, next.calls)
}

func TestCachedFetcher_DoesNotCacheFailures(t *testing.T) {
	next := &countingFetcher{err: errors.Unavailable("unexpected status code: 500", nil)}
	mem := newMemoryCache()
	f := NewCachedFetcher(next, mem, time.Minute, zap.NewNop())

	_, err := f.Fetch(context.Background(), "https://angel.co/talent/jobs")
	require.Error(t, err)
	assert.Empty(t, mem.data)
}
