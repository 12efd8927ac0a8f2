package indeed

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"

	"github.com/PuerkitoBio/goquery"
)

const DefaultBaseURL = "https://www.indeed.com"

// minTagLen: snippet words this short are dropped from tags.
const minTagLen = 3

type IndeedScraper struct {
	scraper.Base
}

func NewIndeedScraper(base scraper.Base) *IndeedScraper {
	if base.BaseURL == "" {
		base.BaseURL = DefaultBaseURL
	}
	return &IndeedScraper{Base: base}
}

func (s *IndeedScraper) Source() models.Source {
	return models.SourceIndeed
}

// SearchURL searches by keyword, the location constraint (or "remote") and newest first.
func (s *IndeedScraper) SearchURL(q models.Query) string {
	location := "remote"
	if models.Active(q.Location) {
		location = strings.TrimSpace(q.Location)
	}
	return fmt.Sprintf("%s/jobs?q=%s&l=%s&sort=date",
		strings.TrimRight(s.BaseURL, "/"),
		url.QueryEscape(scraper.NormalizeText(q.Keyword)),
		url.QueryEscape(location),
	)
}

func (s *IndeedScraper) Fetch(ctx context.Context, q models.Query) scraper.Result {
	searchURL := s.SearchURL(q)
	return s.Scrape(ctx, s.Source(), searchURL, "div.job_seen_beacon", func(card *goquery.Selection) (models.RawPosting, error) {
		return s.extract(card, searchURL), nil
	})
}

func (s *IndeedScraper) extract(card *goquery.Selection, searchURL string) models.RawPosting {
	return models.RawPosting{
		Title:        scraper.TextOr(card, "h2.jobTitle", scraper.NotAvailable),
		Company:      scraper.TextOr(card, "span.companyName", scraper.NotAvailable),
		Tags:         snippetTags(card.Find("div.job-snippet").First().Text()),
		Link:         scraper.Href(card, "a.jcs-JobTitle", s.BaseURL, searchURL),
		LocationHint: scraper.TextOr(card, "div.companyLocation", "Remote"),
	}
}

// snippetTags keeps the words of a description snippet longer than minTagLen characters.
func snippetTags(snippet string) []string {
	var tags []string
	for _, word := range strings.Fields(snippet) {
		if len([]rune(word)) > minTagLen {
			tags = append(tags, word)
		}
	}
	return tags
}
