package remoteok

import (
	"context"
	"fmt"
	"strings"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://remoteok.com"

type RemoteOKScraper struct {
	scraper.Base
}

func NewRemoteOKScraper(base scraper.Base) *RemoteOKScraper {
	if base.BaseURL == "" {
		base.BaseURL = DefaultBaseURL
	}
	return &RemoteOKScraper{Base: base}
}

func (s *RemoteOKScraper) Source() models.Source {
	return models.SourceRemoteOK
}

// SearchURL: "AI Engineer" -> {base}/remote-ai-engineer-jobs
func (s *RemoteOKScraper) SearchURL(q models.Query) string {
	return fmt.Sprintf("%s/remote-%s-jobs", strings.TrimRight(s.BaseURL, "/"), scraper.Slug(q.Keyword))
}

func (s *RemoteOKScraper) Fetch(ctx context.Context, q models.Query) scraper.Result {
	return s.Scrape(ctx, s.Source(), s.SearchURL(q), "tr.job", s.extract)
}

// Rows without a title, company or data-href are broken and skipped.
func (s *RemoteOKScraper) extract(row *goquery.Selection) (models.RawPosting, error) {
	title := scraper.Text(row, "h2")
	if title == "" {
		return models.RawPosting{}, errors.Markup("row has no h2 title", nil)
	}
	company := scraper.Text(row, "h3")
	if company == "" {
		return models.RawPosting{}, errors.Markup("row has no h3 company", nil)
	}
	href, ok := row.Attr("data-href")
	if !ok || strings.TrimSpace(href) == "" {
		return models.RawPosting{}, errors.Markup("row has no data-href", nil)
	}

	return models.RawPosting{
		Title:   title,
		Company: company,
		Tags:    scraper.Texts(row, "div.tag"),
		Link:    scraper.Join(s.BaseURL, strings.TrimSpace(href)),
	}, nil
}
