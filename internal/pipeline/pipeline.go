package pipeline

import (
	"context"
	"sync"
	"time"

	"go-leadgen-automation/internal/aggregator"
	"go-leadgen-automation/internal/export"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/ranker"
	"go-leadgen-automation/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-leadgen-automation/pipeline")

// Notifier receives the ranked leads of a finished run, or the error of a
// run that could not export them.
type Notifier interface {
	Send(ctx context.Context, keyword string, ranked []models.RankedPosting) int
	Failed(ctx context.Context, keyword string, err error)
}

// Observer sees the aggregation report of every run.
type Observer interface {
	ObserveReport(r aggregator.Report)
}

type Option func(*Runner)

func WithObserver(o Observer) Option {
	return func(r *Runner) {
		r.observer = o
	}
}

type Summary struct {
	RunID      string            `json:"run_id"`
	Query      models.Query      `json:"query"`
	Found      int               `json:"found"`
	RawPath    string            `json:"raw_path,omitempty"`
	RankedPath string            `json:"ranked_path,omitempty"`
	Notified   int               `json:"notified"`
	Report     aggregator.Report `json:"report"`
	Duration   string            `json:"duration"`
}

type Runner struct {
	aggregator *aggregator.Aggregator
	scorer     *ranker.Scorer
	rawPath    string
	rankedPath string
	notifier   Notifier
	observer   Observer
	logger     *zap.Logger

	// guards the raw and ranked files so one run's pair is never mixed
	// with another's
	mu sync.Mutex
}

// NewRunner wires a pipeline. notifier may be nil.
func NewRunner(agg *aggregator.Aggregator, scorer *ranker.Scorer, rawPath, rankedPath string, notifier Notifier, logger *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		aggregator: agg,
		scorer:     scorer,
		rawPath:    rawPath,
		rankedPath: rankedPath,
		notifier:   notifier,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runner) RawPath() string    { return r.rawPath }
func (r *Runner) RankedPath() string { return r.rankedPath }

// Run scrapes, exports the raw CSV, ranks it into the ranked CSV and sends
// the digest. With nothing found no files are touched.
func (r *Runner) Run(ctx context.Context, q models.Query, sources []models.Source) (Summary, error) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "Runner.Run")
	defer span.End()

	postings, report := r.aggregator.Run(ctx, q, sources)
	summary := Summary{
		RunID:  report.RunID,
		Query:  q,
		Found:  len(postings),
		Report: report,
	}
	logger := r.logger.With(zap.String("run_id", report.RunID))
	if r.observer != nil {
		r.observer.ObserveReport(report)
	}

	if len(postings) == 0 {
		logger.Warn("no jobs found", zap.String("keyword", q.Keyword))
		summary.Duration = time.Since(start).String()
		return summary, nil
	}

	ranked, err := r.export(ctx, postings, &summary, logger)
	if err != nil {
		span.RecordError(err)
		logger.Error("export failed", zap.Error(err))
		if r.notifier != nil {
			r.notifier.Failed(ctx, q.Keyword, err)
		}
		return summary, err
	}

	if r.notifier != nil {
		summary.Notified = r.notifier.Send(ctx, q.Keyword, ranked)
	}

	summary.Duration = time.Since(start).String()
	span.SetAttributes(telemetry.Int("postings.found", summary.Found))
	return summary, nil
}

func (r *Runner) export(ctx context.Context, postings []models.NormalizedPosting, summary *Summary, logger *zap.Logger) ([]models.RankedPosting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := export.WriteFile(r.rawPath, postings); err != nil {
		return nil, err
	}
	summary.RawPath = r.rawPath
	logger.Info("raw leads saved", zap.String("path", r.rawPath), zap.Int("count", len(postings)))

	ranked, err := ranker.RankFile(ctx, r.scorer, r.rawPath, r.rankedPath)
	if err != nil {
		return nil, err
	}
	summary.RankedPath = r.rankedPath
	return ranked, nil
}
