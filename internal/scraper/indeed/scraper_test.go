package indeed

import (
	"context"
	"testing"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"
	"go-leadgen-automation/internal/scraper/scrapertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const page = `<html><body>
<div class="job_seen_beacon">
  <h2 class="jobTitle"><a class="jcs-JobTitle" href="/rc/clk?jk=abc">Senior Backend Engineer</a></h2>
  <span class="companyName">Initech</span>
  <div class="companyLocation">Austin, TX</div>
  <div class="job-snippet">Build our API in Go and Python on AWS</div>
</div>
<div class="job_seen_beacon">
  <div class="job-snippet">Great team</div>
</div>
</body></html>`

func newScraper(f *scrapertest.Fetcher) *IndeedScraper {
	return NewIndeedScraper(scraper.Base{Fetcher: f, Logger: zap.NewNop()})
}

func TestSearchURL(t *testing.T) {
	s := newScraper(scrapertest.NewFetcher())

	assert.Equal(t, "https://www.indeed.com/jobs?q=data+science&l=remote&sort=date",
		s.SearchURL(models.Query{Keyword: "Data Science"}))
	assert.Equal(t, "https://www.indeed.com/jobs?q=go&l=remote&sort=date",
		s.SearchURL(models.Query{Keyword: "go", Location: "Any"}))
	assert.Equal(t, "https://www.indeed.com/jobs?q=go&l=New+York&sort=date",
		s.SearchURL(models.Query{Keyword: "go", Location: "New York"}))
}

func TestFetch(t *testing.T) {
	f := scrapertest.NewFetcher()
	url := "https://www.indeed.com/jobs?q=backend&l=remote&sort=date"
	f.Pages[url] = page

	res := newScraper(f).Fetch(context.Background(), models.Query{Keyword: "backend"})
	require.True(t, res.Available())
	got := scrapertest.Collect(res)
	require.Len(t, got, 2)

	assert.Equal(t, models.RawPosting{
		Title:        "Senior Backend Engineer",
		Company:      "Initech",
		Tags:         []string{"Build", "Python"},
		Link:         "https://www.indeed.com/rc/clk?jk=abc",
		Source:       models.SourceIndeed,
		LocationHint: "Austin, TX",
	}, got[0])

	// missing elements fall back to placeholders and the search page
	assert.Equal(t, "N/A", got[1].Title)
	assert.Equal(t, "N/A", got[1].Company)
	assert.Equal(t, "Remote", got[1].LocationHint)
	assert.Equal(t, url, got[1].Link)
	assert.Equal(t, []string{"Great", "team"}, got[1].Tags)
}

func TestSnippetTags(t *testing.T) {
	assert.Equal(t, []string{"Work", "remotely", "with"}, snippetTags("Work remotely with us on AI"))
	assert.Empty(t, snippetTags("  "))
}
