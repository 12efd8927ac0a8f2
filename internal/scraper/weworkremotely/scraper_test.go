package weworkremotely

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

func TestCategory(t *testing.T) {
	tests := []struct {
		keyword string
		want    string
	}{
		{"AI", "programming"},
		{"python", "programming"},
		{"React", "programming"},
		{"nurse", "customer-support"},
		{"design", "design"},
		{"Marketing", "marketing"},
		{"golang", "programming"},
		{"", "programming"},
	}

	for _, tt := range tests {
		t.Run(tt.keyword, func(t *testing.T) {
			assert.Equal(t, tt.want, Category(tt.keyword))
		})
	}
}

const page = `<html><body><ul>
<li class="feature">
  <a href="/remote-jobs/pixel-product-designer">
    <span class="company">Pixel</span>
    <span class="title">Product Designer</span>
  </a>
</li>
<li class="feature"><span class="title">Orphan</span></li>
</ul></body></html>`

func TestFetch(t *testing.T) {
	f := scrapertest.NewFetcher()
	url := "https://weworkremotely.com/categories/remote-design-jobs"
	f.Pages[url] = page
	s := NewWeWorkRemotelyScraper(scraper.Base{Fetcher: f, Logger: zap.NewNop()})

	res := s.Fetch(context.Background(), models.Query{Keyword: "design"})
	require.True(t, res.Available())
	got := scrapertest.Collect(res)
	require.Len(t, got, 2)

	assert.Equal(t, models.RawPosting{
		Title:   "Product Designer",
		Company: "Pixel",
		Tags:    []string{"design", "design"},
		Link:    "https://weworkremotely.com/remote-jobs/pixel-product-designer",
		Source:  models.SourceWeWorkRemotely,
	}, got[0])
	assert.Equal(t, "N/A", got[1].Company)
	assert.Equal(t, url, got[1].Link)
}
