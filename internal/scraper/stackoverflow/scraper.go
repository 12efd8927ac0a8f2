package stackoverflow

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://stackoverflow.com"

type StackOverflowScraper struct {
	scraper.Base
}

func NewStackOverflowScraper(base scraper.Base) *StackOverflowScraper {
	if base.BaseURL == "" {
		base.BaseURL = DefaultBaseURL
	}
	return &StackOverflowScraper{Base: base}
}

func (s *StackOverflowScraper) Source() models.Source {
	return models.SourceStackOverflow
}

func (s *StackOverflowScraper) SearchURL(q models.Query) string {
	return fmt.Sprintf("%s/jobs?q=%s&r=true",
		strings.TrimRight(s.BaseURL, "/"),
		url.QueryEscape(scraper.NormalizeText(q.Keyword)),
	)
}

func (s *StackOverflowScraper) Fetch(ctx context.Context, q models.Query) scraper.Result {
	searchURL := s.SearchURL(q)
	return s.Scrape(ctx, s.Source(), searchURL, "div.-job", func(listing *goquery.Selection) (models.RawPosting, error) {
		return models.RawPosting{
			Title:   scraper.TextOr(listing, "h2.mb4", scraper.NotAvailable),
			Company: scraper.TextOr(listing, "h3.mb4", scraper.NotAvailable),
			Tags:    scraper.Texts(listing, "a.post-tag"),
			Link:    scraper.Href(listing, "a.s-link", s.BaseURL, searchURL),
		}, nil
	})
}
