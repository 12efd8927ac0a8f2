package reporter

import (
	"context"
	"fmt"

	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/ranker"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Sender delivers digest messages. telegram.Bot implements it.
type Sender interface {
	SendLead(lead models.RankedPosting) error
	SendStatus(message string) error
	SendError(err error) error
}

const DefaultTopN = 10

// Digest sends the best leads of a run followed by a status line. Messages are
// spaced by a rate limiter so the chat API does not answer 429.
type Digest struct {
	sender  Sender
	limiter *rate.Limiter
	topN    int
	logger  *zap.Logger
}

func NewDigest(sender Sender, limiter *rate.Limiter, topN int, logger *zap.Logger) *Digest {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Limit(1), 1)
	}
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &Digest{
		sender:  sender,
		limiter: limiter,
		topN:    topN,
		logger:  logger,
	}
}

// Send delivers up to topN leads and a summary. Failed sends are logged and
// skipped; it returns the number of leads delivered.
func (d *Digest) Send(ctx context.Context, keyword string, ranked []models.RankedPosting) int {
	sent := 0
	for _, lead := range ranker.Top(ranked, d.topN) {
		if err := d.limiter.Wait(ctx); err != nil {
			d.logger.Warn("digest interrupted", zap.Error(err))
			return sent
		}
		if err := d.sender.SendLead(lead); err != nil {
			d.logger.Warn("failed to send lead", zap.String("title", lead.Title), zap.Error(err))
			continue
		}
		sent++
	}

	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Warn("digest interrupted", zap.Error(err))
		return sent
	}
	status := fmt.Sprintf("Found %d leads for %q, sent top %d.", len(ranked), keyword, sent)
	if err := d.sender.SendStatus(status); err != nil {
		d.logger.Warn("failed to send status", zap.Error(err))
	}
	return sent
}

// Failed reports a run that stopped before its leads could be ranked.
func (d *Digest) Failed(ctx context.Context, keyword string, runErr error) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.logger.Warn("failure notice dropped", zap.Error(err))
		return
	}
	if err := d.sender.SendError(fmt.Errorf("run for %q failed: %w", keyword, runErr)); err != nil {
		d.logger.Warn("failed to send error", zap.Error(err))
	}
}
