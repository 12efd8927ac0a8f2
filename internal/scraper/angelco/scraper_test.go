package angelco

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
<div class="listing">
  <a href="/company/hooli/jobs/77-founding-engineer"><h3 class="title">Founding Engineer</h3></a>
  <div class="company">Hooli</div>
  <span class="tag">Series A</span><span class="tag">Remote</span>
</div>
<div class="listing">
  <h3 class="title">Growth Marketer</h3>
</div>
</body></html>`

func TestFetch(t *testing.T) {
	f := scrapertest.NewFetcher()
	url := "https://angel.co/talent/jobs?keywords=startup&remote=true"
	f.Pages[url] = page
	s := NewAngelListScraper(scraper.Base{Fetcher: f, Logger: zap.NewNop()})

	res := s.Fetch(context.Background(), models.Query{Keyword: "startup"})
	require.True(t, res.Available())
	got := scrapertest.Collect(res)
	require.Len(t, got, 2)

	assert.Equal(t, models.RawPosting{
		Title:   "Founding Engineer",
		Company: "Hooli",
		Tags:    []string{"Series A", "Remote"},
		Link:    "https://angel.co/company/hooli/jobs/77-founding-engineer",
		Source:  models.SourceAngelList,
	}, got[0])

	assert.Equal(t, "N/A", got[1].Company)
	assert.Equal(t, url, got[1].Link)
}

func TestSearchURL_CustomBase(t *testing.T) {
	s := NewAngelListScraper(scraper.Base{BaseURL: "http://127.0.0.1:8080/", Logger: zap.NewNop()})
	assert.Equal(t, "http://127.0.0.1:8080/talent/jobs?keywords=chief+technology+officer&remote=true",
		s.SearchURL(models.Query{Keyword: "Chief Technology Officer"}))
}
