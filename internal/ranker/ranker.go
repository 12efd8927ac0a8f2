package ranker

import (
	"context"
	"fmt"
	"sort"

	"go-leadgen-automation/internal/ai"
	"go-leadgen-automation/internal/export"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/telemetry"

	"go.uber.org/zap"
)

var tracer = telemetry.GetTracer("go-leadgen-automation/ranker")

// DefaultKeywords describe the decision makers a lead should lead to.
var DefaultKeywords = []string{
	"founder",
	"chief technology officer",
	"cto",
	"scaling",
	"ai",
	"growth",
	"series a",
	"decision maker",
	"venture",
	"startup",
	"ceo",
}

// Scorer holds the keyword vectors. Build it once with NewScorer and share it;
// it is never modified after construction.
type Scorer struct {
	embedder ai.Embedder
	keywords []string
	vectors  [][]float32
	logger   *zap.Logger
}

func NewScorer(ctx context.Context, embedder ai.Embedder, keywords []string, logger *zap.Logger) (*Scorer, error) {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	vectors, err := embedder.Embed(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("encoding priority keywords: %w", err)
	}
	if len(vectors) != len(keywords) {
		return nil, fmt.Errorf("encoding priority keywords: got %d vectors for %d keywords", len(vectors), len(keywords))
	}
	return &Scorer{
		embedder: embedder,
		keywords: append([]string(nil), keywords...),
		vectors:  vectors,
		logger:   logger,
	}, nil
}

func (s *Scorer) Keywords() []string {
	return append([]string(nil), s.keywords...)
}

func (s *Scorer) similarity(vec []float32) float64 {
	var sum float64
	for _, kv := range s.vectors {
		sum += ai.Cosine(vec, kv)
	}
	return sum / float64(len(s.vectors))
}

// Score is the mean cosine similarity between title and every keyword.
// A title that cannot be encoded scores 0.
func (s *Scorer) Score(ctx context.Context, title string) float64 {
	vecs, err := s.embedder.Embed(ctx, []string{title})
	if err != nil || len(vecs) != 1 {
		s.logger.Warn("failed to score title", zap.String("title", title), zap.Error(err))
		return 0
	}
	return s.similarity(vecs[0])
}

// ScoreAll scores titles in one batch, falling back to one call per title
// when the batch fails.
func (s *Scorer) ScoreAll(ctx context.Context, titles []string) []float64 {
	scores := make([]float64, len(titles))
	if len(titles) == 0 {
		return scores
	}

	vecs, err := s.embedder.Embed(ctx, titles)
	if err != nil || len(vecs) != len(titles) {
		s.logger.Warn("batch scoring failed, scoring one by one", zap.Int("count", len(titles)), zap.Error(err))
		for i, t := range titles {
			scores[i] = s.Score(ctx, t)
		}
		return scores
	}
	for i, v := range vecs {
		scores[i] = s.similarity(v)
	}
	return scores
}

// Rank scores every posting and sorts by score, highest first. Equal scores
// keep their input order.
func Rank(ctx context.Context, s *Scorer, postings []models.NormalizedPosting) []models.RankedPosting {
	ctx, span := tracer.Start(ctx, "Rank")
	defer span.End()
	span.SetAttributes(telemetry.Int("postings.count", len(postings)))

	titles := make([]string, len(postings))
	for i, p := range postings {
		titles[i] = p.Title
	}
	scores := s.ScoreAll(ctx, titles)

	ranked := make([]models.RankedPosting, len(postings))
	for i, p := range postings {
		ranked[i] = models.RankedPosting{NormalizedPosting: p, RelevanceScore: scores[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})
	return ranked
}

// RankFile reads a raw export, ranks it and writes the ranked export.
func RankFile(ctx context.Context, s *Scorer, in, out string) ([]models.RankedPosting, error) {
	postings, err := export.ReadFile(in)
	if err != nil {
		return nil, err
	}
	ranked := Rank(ctx, s, postings)
	if err := export.WriteRankedFile(out, ranked); err != nil {
		return nil, err
	}
	s.logger.Info("ranked leads saved", zap.String("path", out), zap.Int("count", len(ranked)))
	return ranked, nil
}

// AboveThreshold keeps the postings scoring at least min, preserving order.
func AboveThreshold(ranked []models.RankedPosting, min float64) []models.RankedPosting {
	out := make([]models.RankedPosting, 0, len(ranked))
	for _, r := range ranked {
		if r.RelevanceScore >= min {
			out = append(out, r)
		}
	}
	return out
}

// Top returns at most n postings from the head of ranked.
func Top(ranked []models.RankedPosting, n int) []models.RankedPosting {
	if n < 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
