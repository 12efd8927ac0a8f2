package aggregator

import (
	"context"
	"math/rand"
	"time"

	"go-leadgen-automation/internal/dedup"
	"go-leadgen-automation/internal/filter"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/scraper"
	"go-leadgen-automation/internal/telemetry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-leadgen-automation/aggregator")

const (
	DefaultPauseMin = time.Second
	DefaultPauseMax = 3 * time.Second
)

// SourceStats describes what one adapter contributed to a run.
type SourceStats struct {
	Source     models.Source `json:"source"`
	Available  bool          `json:"available"`
	Fetched    int           `json:"fetched"`
	Filtered   int           `json:"filtered"`
	Duplicates int           `json:"duplicates"`
	Kept       int           `json:"kept"`
	Error      string        `json:"error,omitempty"`
}

type Report struct {
	RunID   string        `json:"run_id"`
	Sources []SourceStats `json:"sources"`
	Unknown []string      `json:"unknown,omitempty"`
	Total   int           `json:"total"`
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type Aggregator struct {
	registry *scraper.Registry
	pauseMin time.Duration
	pauseMax time.Duration
	sleep    Sleeper
	logger   *zap.Logger
}

type Option func(*Aggregator)

// WithPause sets the range of the randomized wait between two sources.
func WithPause(min, max time.Duration) Option {
	return func(a *Aggregator) {
		a.pauseMin = min
		a.pauseMax = max
	}
}

func WithSleeper(s Sleeper) Option {
	return func(a *Aggregator) {
		a.sleep = s
	}
}

func New(logger *zap.Logger, registry *scraper.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry: registry,
		pauseMin: DefaultPauseMin,
		pauseMax: DefaultPauseMax,
		sleep:    sleep,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.pauseMax < a.pauseMin {
		a.pauseMax = a.pauseMin
	}
	return a
}

func (a *Aggregator) pause() time.Duration {
	d := a.pauseMin
	if span := a.pauseMax - a.pauseMin; span > 0 {
		d += time.Duration(rand.Int63n(int64(span) + 1))
	}
	return d
}

// Run scrapes the given sources one after another and returns the filtered,
// deduplicated postings in arrival order. A nil sources slice means every
// default source. Unavailable sources are reported and do not stop the run.
func (a *Aggregator) Run(ctx context.Context, q models.Query, sources []models.Source) ([]models.NormalizedPosting, Report) {
	report := Report{RunID: uuid.New().String()}
	logger := a.logger.With(zap.String("run_id", report.RunID), zap.String("keyword", q.Keyword))

	ctx, span := tracer.Start(ctx, "Aggregator.Run")
	defer span.End()
	span.SetAttributes(
		telemetry.String("run_id", report.RunID),
		telemetry.String("keyword", q.Keyword),
	)

	if sources == nil {
		sources = models.DefaultSources()
	}

	seen := dedup.NewSet()
	out := make([]models.NormalizedPosting, 0)
	ran := 0

	for _, source := range sources {
		adapter, ok := a.registry.Get(source)
		if !ok {
			logger.Warn("unknown source, skipping", zap.String("source", string(source)))
			report.Unknown = append(report.Unknown, string(source))
			continue
		}

		if ran > 0 {
			if err := a.sleep(ctx, a.pause()); err != nil {
				logger.Warn("run interrupted", zap.Error(err))
				break
			}
		}
		ran++

		stats := a.collect(ctx, adapter, q, seen, &out)
		logger.Info("source finished",
			zap.String("source", string(stats.Source)),
			zap.Bool("available", stats.Available),
			zap.Int("fetched", stats.Fetched),
			zap.Int("kept", stats.Kept),
			zap.Int("duplicates", stats.Duplicates),
		)
		report.Sources = append(report.Sources, stats)
	}

	report.Total = seen.Len()
	span.SetAttributes(telemetry.Int("postings.total", report.Total))
	logger.Info("total unique postings", zap.Int("count", report.Total))
	return out, report
}

func (a *Aggregator) collect(ctx context.Context, adapter scraper.Adapter, q models.Query, seen *dedup.Set, out *[]models.NormalizedPosting) SourceStats {
	ctx, span := tracer.Start(ctx, "Aggregator.collect")
	defer span.End()

	stats := SourceStats{Source: adapter.Source()}
	span.SetAttributes(telemetry.String("source", string(stats.Source)))

	res := adapter.Fetch(ctx, q)
	if !res.Available() {
		stats.Error = res.Err.Error()
		span.RecordError(res.Err)
		return stats
	}
	stats.Available = true
	if res.Postings == nil {
		return stats
	}

	for raw := range res.Postings {
		stats.Fetched++
		p := filter.Normalize(raw)
		if !filter.Matches(p, q) {
			stats.Filtered++
			continue
		}
		if !seen.Add(p) {
			stats.Duplicates++
			continue
		}
		*out = append(*out, p)
		stats.Kept++
	}

	span.SetAttributes(
		telemetry.Int("postings.fetched", stats.Fetched),
		telemetry.Int("postings.kept", stats.Kept),
	)
	return stats
}
