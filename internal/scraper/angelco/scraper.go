package angelco

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://angel.co"

type AngelListScraper struct {
	scraper.Base
}

func NewAngelListScraper(base scraper.Base) *AngelListScraper {
	if base.BaseURL == "" {
		base.BaseURL = DefaultBaseURL
	}
	return &AngelListScraper{Base: base}
}

func (s *AngelListScraper) Source() models.Source {
	return models.SourceAngelList
}

func (s *AngelListScraper) SearchURL(q models.Query) string {
	return fmt.Sprintf("%s/talent/jobs?keywords=%s&remote=true",
		strings.TrimRight(s.BaseURL, "/"),
		url.QueryEscape(scraper.NormalizeText(q.Keyword)),
	)
}

func (s *AngelListScraper) Fetch(ctx context.Context, q models.Query) scraper.Result {
	searchURL := s.SearchURL(q)
	return s.Scrape(ctx, s.Source(), searchURL, "div.listing", func(listing *goquery.Selection) (models.RawPosting, error) {
		return models.RawPosting{
			Title:   scraper.TextOr(listing, "h3.title", scraper.NotAvailable),
			Company: scraper.TextOr(listing, "div.company", scraper.NotAvailable),
			Tags:    scraper.Texts(listing, "span.tag"),
			Link:    scraper.Href(listing, "a", s.BaseURL, searchURL),
		}, nil
	})
}
