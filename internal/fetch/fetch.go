package fetch

import (
	"context"
	"fmt"
	"time"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/telemetry"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-leadgen-automation/fetch")

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher returns the HTML of a results page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher downloads pages with a colly collector. One request per call, no retries.
type HTTPFetcher struct {
	timeout   time.Duration
	userAgent string
	logger    *zap.Logger
}

type Option func(*HTTPFetcher)

func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

func NewHTTPFetcher(logger *zap.Logger, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	_, span := tracer.Start(ctx, "HTTPFetcher.Fetch")
	defer span.End()
	span.SetAttributes(telemetry.String("http.url", url))

	if err := ctx.Err(); err != nil {
		return nil, errors.Unavailable("context done before fetch", err)
	}

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	var (
		body   []byte
		status int
	)
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	f.logger.Debug("fetching page", zap.String("url", url))
	if err := c.Visit(url); err != nil {
		span.RecordError(err)
		span.SetAttributes(telemetry.Int("http.status_code", status))
		if status != 0 {
			f.logger.Warn("unexpected status code", zap.String("url", url), zap.Int("status_code", status))
			return nil, errors.Unavailable(fmt.Sprintf("unexpected status code: %d", status), err)
		}
		f.logger.Warn("failed to fetch page", zap.String("url", url), zap.Error(err))
		return nil, errors.Unavailable("fetching page", err)
	}

	span.SetAttributes(
		telemetry.Int("http.status_code", status),
		telemetry.Int("http.response_size", len(body)),
	)
	return body, nil
}
