package ranker

import (
	"context"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"go-leadgen-automation/internal/ai"
	"go-leadgen-automation/internal/export"
	"go-leadgen-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// axisEmbedder maps each known word to its own axis, so similarity is exact.
type axisEmbedder struct {
	axes    map[string]int
	failOn  string
	batches int
}

func (e *axisEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	e.batches++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if e.failOn != "" && t == e.failOn {
			return nil, fmt.Errorf("cannot encode %q", t)
		}
		v := make([]float32, len(e.axes))
		for _, w := range strings.Fields(strings.ToLower(t)) {
			if idx, ok := e.axes[w]; ok {
				v[idx] = 1
			}
		}
		out[i] = v
	}
	return out, nil
}

func newAxis(words ...string) *axisEmbedder {
	axes := map[string]int{}
	for i, w := range words {
		axes[w] = i
	}
	return &axisEmbedder{axes: axes}
}

func TestNewScorer_Defaults(t *testing.T) {
	s, err := NewScorer(context.Background(), ai.NewHashingEmbedder(64), nil, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, DefaultKeywords, s.Keywords())
}

func TestNewScorer_EmbedFailure(t *testing.T) {
	e := newAxis("cto")
	e.failOn = "cto"
	_, err := NewScorer(context.Background(), e, []string{"cto"}, zap.NewNop())
	assert.Error(t, err)
}

func TestScore_MeanCosine(t *testing.T) {
	e := newAxis("cto", "founder")
	s, err := NewScorer(context.Background(), e, []string{"cto", "founder"}, zap.NewNop())
	require.NoError(t, err)

	// matches one keyword exactly, orthogonal to the other
	assert.InDelta(t, 0.5, s.Score(context.Background(), "CTO"), 1e-9)
	assert.InDelta(t, 0.0, s.Score(context.Background(), "nurse"), 1e-9)
}

func TestScore_FailureScoresZero(t *testing.T) {
	e := newAxis("cto")
	s, err := NewScorer(context.Background(), e, []string{"cto"}, zap.NewNop())
	require.NoError(t, err)

	e.failOn = "cto"
	assert.Equal(t, 0.0, s.Score(context.Background(), "cto"))
}

func TestRank_SortsDescendingStable(t *testing.T) {
	e := newAxis("cto", "founder")
	s, err := NewScorer(context.Background(), e, []string{"cto", "founder"}, zap.NewNop())
	require.NoError(t, err)

	postings := []models.NormalizedPosting{
		{Title: "Nurse", Company: "A"},
		{Title: "CTO", Company: "B"},
		{Title: "Designer", Company: "C"},
		{Title: "Founder", Company: "D"},
	}
	ranked := Rank(context.Background(), s, postings)

	var order []string
	for _, r := range ranked {
		order = append(order, r.Company)
	}
	assert.Equal(t, []string{"B", "D", "A", "C"}, order)
	assert.InDelta(t, 0.5, ranked[0].RelevanceScore, 1e-9)
}

func TestRank_BatchFailureFallsBack(t *testing.T) {
	e := newAxis("cto")
	s, err := NewScorer(context.Background(), e, []string{"cto"}, zap.NewNop())
	require.NoError(t, err)

	e.failOn = "broken"
	ranked := Rank(context.Background(), s, []models.NormalizedPosting{
		{Title: "broken", Company: "X"},
		{Title: "cto", Company: "Y"},
	})
	require.Len(t, ranked, 2)
	assert.Equal(t, "Y", ranked[0].Company)
	assert.InDelta(t, 1.0, ranked[0].RelevanceScore, 1e-9)
	assert.Equal(t, 0.0, ranked[1].RelevanceScore)
}

func TestRankFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads_raw.csv")
	out := filepath.Join(dir, "out", "leads_ranked.csv")
	require.NoError(t, export.WriteFile(in, []models.NormalizedPosting{
		{Title: "Nurse", Company: "A", Source: "Indeed"},
		{Title: "Startup CTO", Company: "B", Source: "AngelList"},
	}))

	s, err := NewScorer(context.Background(), newAxis("startup", "cto"), []string{"startup", "cto"}, zap.NewNop())
	require.NoError(t, err)

	ranked, err := RankFile(context.Background(), s, in, out)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Startup CTO", ranked[0].Title)

	back, err := export.ReadRankedFile(out)
	require.NoError(t, err)
	require.Len(t, back, 2)
	for i := range back {
		assert.Equal(t, ranked[i].NormalizedPosting, back[i].NormalizedPosting)
		assert.InDelta(t, ranked[i].RelevanceScore, back[i].RelevanceScore, 1e-6)
	}
}

func TestRankFile_MissingTitle(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "leads_raw.csv")
	require.NoError(t, export.WriteFile(in, []models.NormalizedPosting{{Company: "A"}}, "company"))

	s, err := NewScorer(context.Background(), newAxis("cto"), []string{"cto"}, zap.NewNop())
	require.NoError(t, err)

	_, err = RankFile(context.Background(), s, in, filepath.Join(dir, "ranked.csv"))
	assert.True(t, stderrors.Is(err, export.ErrMissingTitleColumn))
}

func TestAboveThresholdAndTop(t *testing.T) {
	ranked := []models.RankedPosting{
		{NormalizedPosting: models.NormalizedPosting{Title: "a"}, RelevanceScore: 0.9},
		{NormalizedPosting: models.NormalizedPosting{Title: "b"}, RelevanceScore: 0.5},
		{NormalizedPosting: models.NormalizedPosting{Title: "c"}, RelevanceScore: 0.1},
	}

	assert.Len(t, AboveThreshold(ranked, 0.5), 2)
	assert.Len(t, AboveThreshold(ranked, 0), 3)
	assert.Empty(t, AboveThreshold(ranked, 3))

	assert.Len(t, Top(ranked, 1), 1)
	assert.Len(t, Top(ranked, 10), 3)
	assert.Len(t, Top(ranked, -1), 3)
}
