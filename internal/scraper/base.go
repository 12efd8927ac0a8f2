// Package scraper defines the contract every listing-site adapter implements
// and the plumbing they share: fetch one results page, then lazily walk its
// record containers.
package scraper

import (
	"bytes"
	"context"
	"iter"
	"strings"
	"unicode"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/fetch"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxRecords caps how many record containers are read from one page.
const MaxRecords = 20

// NotAvailable is the placeholder for a title or company the page left out.
const NotAvailable = "N/A"

var tracer = telemetry.GetTracer("go-leadgen-automation/scraper")

// Adapter scrapes one listing site.
type Adapter interface {
	Source() models.Source
	// Fetch downloads the results page for q eagerly. Records are extracted
	// while the caller ranges over Result.Postings.
	Fetch(ctx context.Context, q models.Query) Result
}

// Result is the outcome of one adapter call. A non-nil Err means the site was
// unavailable, which is different from a page with zero records.
type Result struct {
	Source   models.Source
	Postings iter.Seq[models.RawPosting]
	Err      error
}

func (r Result) Available() bool {
	return r.Err == nil
}

func Unavailable(source models.Source, err error) Result {
	return Result{
		Source:   source,
		Postings: func(func(models.RawPosting) bool) {},
		Err:      err,
	}
}

// ExtractFunc turns one record container into a posting. An error skips the record.
type ExtractFunc func(sel *goquery.Selection) (models.RawPosting, error)

// Base carries what every adapter needs.
type Base struct {
	Fetcher    fetch.Fetcher
	BaseURL    string
	MaxRecords int
	Logger     *zap.Logger
}

func (b Base) maxRecords() int {
	if b.MaxRecords <= 0 {
		return MaxRecords
	}
	return b.MaxRecords
}

// Scrape fetches pageURL and returns a lazy sequence over the first records matching selector.
func (b Base) Scrape(ctx context.Context, source models.Source, pageURL, selector string, extract ExtractFunc) Result {
	ctx, span := tracer.Start(ctx, "Adapter.Fetch")
	defer span.End()
	span.SetAttributes(
		telemetry.String("source", string(source)),
		telemetry.String("http.url", pageURL),
	)

	logger := b.Logger.With(zap.String("source", string(source)))

	body, err := b.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		span.RecordError(err)
		logger.Warn("source unavailable", zap.String("url", pageURL), zap.Error(err))
		if !errors.IsType(err, errors.ErrTypeUnavailable) {
			err = errors.Unavailable("fetching "+pageURL, err)
		}
		return Unavailable(source, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		logger.Warn("unparseable page", zap.String("url", pageURL), zap.Error(err))
		return Unavailable(source, errors.Markup("parsing "+pageURL, err))
	}

	containers := doc.Find(selector)
	span.SetAttributes(telemetry.Int("records.found", containers.Length()))
	logger.Debug("found record containers", zap.String("selector", selector), zap.Int("count", containers.Length()))

	return Result{
		Source:   source,
		Postings: records(containers, b.maxRecords(), source, extract, logger),
	}
}

func records(containers *goquery.Selection, max int, source models.Source, extract ExtractFunc, logger *zap.Logger) iter.Seq[models.RawPosting] {
	return func(yield func(models.RawPosting) bool) {
		containers.EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= max {
				return false
			}
			p, err := extract(sel)
			if err != nil {
				logger.Warn("skipping record", zap.Int("index", i), zap.Error(err))
				return true
			}
			p.Source = source
			return yield(p)
		})
	}
}

// Text returns the trimmed text of the first element matching selector, or "".
func Text(sel *goquery.Selection, selector string) string {
	return strings.TrimSpace(sel.Find(selector).First().Text())
}

// TextOr is Text with a fallback for missing or empty elements.
func TextOr(sel *goquery.Selection, selector, fallback string) string {
	if t := Text(sel, selector); t != "" {
		return t
	}
	return fallback
}

// Texts returns the trimmed, non-empty texts of every element matching selector.
func Texts(sel *goquery.Selection, selector string) []string {
	var out []string
	sel.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			out = append(out, t)
		}
	})
	return out
}

// Href returns the href of the first element matching selector joined onto base.
// fallback is used when there is no such element.
func Href(sel *goquery.Selection, selector, base, fallback string) string {
	href, ok := sel.Find(selector).First().Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return fallback
	}
	return Join(base, href)
}

// Join prefixes relative paths with base and leaves absolute links alone.
func Join(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

// NormalizeText lowercases str and strips accents.
func NormalizeText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(strings.TrimSpace(result))
}

// Slug turns a keyword into a path segment: "Machine Learning" -> "machine-learning".
func Slug(keyword string) string {
	return strings.Join(strings.Fields(NormalizeText(keyword)), "-")
}
