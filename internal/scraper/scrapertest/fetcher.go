// Package scrapertest provides fakes for adapter tests.
package scrapertest

import (
	"context"
	"fmt"
	"sync"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"
)

// Fetcher serves canned pages by URL and records every request.
type Fetcher struct {
	mu    sync.Mutex
	Pages map[string]string
	Errs  map[string]error
	URLs  []string
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Pages: map[string]string{},
		Errs:  map[string]error{},
	}
}

func (f *Fetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.URLs = append(f.URLs, url)

	if err, ok := f.Errs[url]; ok {
		return nil, err
	}
	if page, ok := f.Pages[url]; ok {
		return []byte(page), nil
	}
	return nil, errors.Unavailable(fmt.Sprintf("unexpected status code: %d", 404), nil)
}

// Requested returns the URLs fetched so far.
func (f *Fetcher) Requested() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.URLs...)
}

// Collect drains the postings of res into a slice.
func Collect(res scraper.Result) []models.RawPosting {
	var out []models.RawPosting
	if res.Postings == nil {
		return out
	}
	for p := range res.Postings {
		out = append(out, p)
	}
	return out
}
