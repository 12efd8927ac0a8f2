package weworkremotely

import (
	"context"
	"fmt"
	"strings"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultBaseURL  = "https://weworkremotely.com"
	DefaultCategory = "programming"
)

// The site has no free-text search, so keywords are mapped onto its categories.
var categories = map[string]string{
	"ai":         "programming",
	"python":     "programming",
	"javascript": "programming",
	"react":      "programming",
	"nurse":      "customer-support",
	"design":     "design",
	"marketing":  "marketing",
}

// Category returns the listing category searched for keyword.
func Category(keyword string) string {
	if c, ok := categories[scraper.NormalizeText(keyword)]; ok {
		return c
	}
	return DefaultCategory
}

type WeWorkRemotelyScraper struct {
	scraper.Base
}

func NewWeWorkRemotelyScraper(base scraper.Base) *WeWorkRemotelyScraper {
	if base.BaseURL == "" {
		base.BaseURL = DefaultBaseURL
	}
	return &WeWorkRemotelyScraper{Base: base}
}

func (s *WeWorkRemotelyScraper) Source() models.Source {
	return models.SourceWeWorkRemotely
}

func (s *WeWorkRemotelyScraper) SearchURL(q models.Query) string {
	return fmt.Sprintf("%s/categories/remote-%s-jobs", strings.TrimRight(s.BaseURL, "/"), Category(q.Keyword))
}

func (s *WeWorkRemotelyScraper) Fetch(ctx context.Context, q models.Query) scraper.Result {
	searchURL := s.SearchURL(q)
	category := Category(q.Keyword)
	keyword := strings.TrimSpace(q.Keyword)

	return s.Scrape(ctx, s.Source(), searchURL, "li.feature", func(listing *goquery.Selection) (models.RawPosting, error) {
		return models.RawPosting{
			Title:   scraper.TextOr(listing, "span.title", scraper.NotAvailable),
			Company: scraper.TextOr(listing, "span.company", scraper.NotAvailable),
			Tags:    []string{keyword, category},
			Link:    scraper.Href(listing, "a", s.BaseURL, searchURL),
		}, nil
	})
}
