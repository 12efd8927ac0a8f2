// Package app builds the pipeline from a Config. Both binaries share it.
package app

import (
	"context"
	"fmt"
	"time"

	"go-leadgen-automation/internal/aggregator"
	"go-leadgen-automation/internal/ai"
	"go-leadgen-automation/internal/browser"
	"go-leadgen-automation/internal/cache"
	"go-leadgen-automation/internal/cache/redis"
	"go-leadgen-automation/internal/config"
	"go-leadgen-automation/internal/fetch"
	"go-leadgen-automation/internal/pipeline"
	"go-leadgen-automation/internal/ranker"
	"go-leadgen-automation/internal/reporter"
	"go-leadgen-automation/internal/scraper"
	"go-leadgen-automation/internal/scraper/angelco"
	"go-leadgen-automation/internal/scraper/indeed"
	"go-leadgen-automation/internal/scraper/remoteok"
	"go-leadgen-automation/internal/scraper/stackoverflow"
	"go-leadgen-automation/internal/scraper/weworkremotely"
	"go-leadgen-automation/internal/telegram"
	"go-leadgen-automation/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const ServiceName = "go-leadgen-automation"

func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// NewFetcher returns the fetcher for cfg.Fetch.Mode, wrapped in the Redis page
// cache when one is configured and reachable. release frees the browser and
// the cache connection.
func NewFetcher(ctx context.Context, cfg *config.Config, logger *zap.Logger) (f fetch.Fetcher, release func(), err error) {
	var closers []func()
	release = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Fetch.Mode {
	case config.FetchModeBrowser:
		cookies, err := browser.LoadCookies(cfg.Fetch.CookiesPath)
		if err != nil {
			logger.Warn("could not load cookies, continuing without", zap.String("path", cfg.Fetch.CookiesPath), zap.Error(err))
		}
		manager, err := browser.NewPlaywright(ctx)
		if err != nil {
			return nil, release, err
		}
		closers = append(closers, func() {
			if err := manager.Close(); err != nil {
				logger.Warn("failed to close browser", zap.Error(err))
			}
		})
		shots := utils.NewScreenShotDebugger(cfg.Fetch.ScreenshotDir, logger)
		f = browser.NewPageFetcher(manager, cookies, cfg.Fetch.Timeout, shots, logger)
	default:
		f = fetch.NewHTTPFetcher(logger,
			fetch.WithTimeout(cfg.Fetch.Timeout),
			fetch.WithUserAgent(cfg.Fetch.UserAgent),
		)
	}

	if !cfg.CacheEnabled() {
		return f, release, nil
	}

	rc := redis.New(cache.Options{
		RedisURL:      cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		DefaultTTL:    cfg.Cache.TTL,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("redis unreachable, fetching without cache", zap.String("addr", cfg.Cache.RedisAddr), zap.Error(err))
		_ = rc.Close()
		return f, release, nil
	}
	closers = append(closers, func() { _ = rc.Close() })
	logger.Info("page cache enabled", zap.String("addr", cfg.Cache.RedisAddr), zap.Duration("ttl", cfg.Cache.TTL))

	return fetch.NewCachedFetcher(f, rc, cfg.Cache.TTL, logger), release, nil
}

// NewRegistry registers the five listing sites against one fetcher.
func NewRegistry(f fetch.Fetcher, cfg *config.Config, logger *zap.Logger) *scraper.Registry {
	base := func(name string) scraper.Base {
		return scraper.Base{
			Fetcher:    f,
			MaxRecords: cfg.Fetch.MaxRecords,
			Logger:     logger.Named(name),
		}
	}
	return scraper.NewRegistry(
		remoteok.NewRemoteOKScraper(base("remoteok")),
		indeed.NewIndeedScraper(base("indeed")),
		stackoverflow.NewStackOverflowScraper(base("stackoverflow")),
		angelco.NewAngelListScraper(base("angelco")),
		weworkremotely.NewWeWorkRemotelyScraper(base("we_work_remotely")),
	)
}

// NewEmbedder uses the embeddings API when a key is set and the local hashing
// embedder otherwise.
func NewEmbedder(cfg *config.Config, logger *zap.Logger) ai.Embedder {
	if cfg.Ranker.EmbeddingsAPIKey != "" {
		logger.Info("using embeddings api", zap.String("model", cfg.Ranker.EmbeddingsModel))
		return ai.NewOpenAIEmbedder(cfg.Ranker.EmbeddingsBaseURL, cfg.Ranker.EmbeddingsAPIKey, cfg.Ranker.EmbeddingsModel)
	}
	logger.Info("using hashing embedder", zap.Int("dimensions", cfg.Ranker.Dimensions))
	return ai.NewHashingEmbedder(cfg.Ranker.Dimensions)
}

// NewNotifier returns nil when Telegram is not configured.
func NewNotifier(cfg *config.Config, logger *zap.Logger) (pipeline.Notifier, error) {
	if !cfg.TelegramEnabled() {
		logger.Info("telegram disabled, digest will not be sent")
		return nil, nil
	}
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot: %w", err)
	}
	return reporter.NewDigest(bot, rate.NewLimiter(rate.Every(time.Second), 1), cfg.DigestTopN, logger), nil
}

// NewRunner assembles the whole pipeline. The returned func must be called
// once the runner is no longer used.
func NewRunner(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...pipeline.Option) (*pipeline.Runner, func(), error) {
	f, release, err := NewFetcher(ctx, cfg, logger)
	if err != nil {
		release()
		return nil, func() {}, err
	}

	agg := aggregator.New(logger, NewRegistry(f, cfg, logger),
		aggregator.WithPause(cfg.Fetch.PauseMin, cfg.Fetch.PauseMax),
	)

	scorer, err := ranker.NewScorer(ctx, NewEmbedder(cfg, logger), cfg.Ranker.Keywords, logger)
	if err != nil {
		release()
		return nil, func() {}, err
	}

	notifier, err := NewNotifier(cfg, logger)
	if err != nil {
		release()
		return nil, func() {}, err
	}

	return pipeline.NewRunner(agg, scorer, cfg.Output.RawPath, cfg.Output.RankedPath, notifier, logger, opts...), release, nil
}
