package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go-leadgen-automation/internal/app"
	"go-leadgen-automation/internal/config"
	"go-leadgen-automation/internal/export"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/pdf"
	"go-leadgen-automation/internal/pipeline"
	"go-leadgen-automation/internal/ranker"
	"go-leadgen-automation/internal/telemetry"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to the YAML config")
	keyword := flag.String("keyword", "", "search keyword (overrides config)")
	location := flag.String("location", "", "location constraint, \"any\" to disable")
	field := flag.String("field", "", "field constraint, \"any\" to disable")
	experience := flag.String("experience", "", "experience constraint, \"any\" to disable")
	sources := flag.String("sources", "", "comma separated source ids, e.g. remoteok,indeed")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall run timeout")
	report := flag.String("report", "", "write a PDF report of the ranked leads to this path")
	minScore := flag.Float64("min-score", 0, "only include leads scoring at least this in the report")
	flag.Parse()

	//load config
	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	q := cfg.Query()
	if *keyword != "" {
		q.Keyword = *keyword
	}
	if *location != "" {
		q.Location = *location
	}
	if *field != "" {
		q.Field = *field
	}
	if *experience != "" {
		q.Experience = *experience
	}

	srcs := cfg.SourceList()
	if *sources != "" {
		var unknown []string
		srcs, unknown = models.ParseSources(strings.Split(*sources, ","))
		if len(unknown) > 0 {
			logger.Warn("ignoring unknown sources", zap.Strings("sources", unknown))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	shutdown, err := telemetry.InitTracer(ctx, app.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", zap.Error(err))
		shutdown = func() {}
	}
	defer shutdown()

	runner, release, err := app.NewRunner(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to build pipeline", zap.Error(err))
	}
	defer release()

	logger.Info("starting run",
		zap.String("keyword", q.Keyword),
		zap.String("location", q.Location),
		zap.String("field", q.Field),
		zap.String("experience", q.Experience),
	)

	summary, err := runner.Run(ctx, q, srcs)
	if err != nil {
		logger.Error("run failed", zap.Error(err))
		return
	}
	printSummary(summary)

	if *report != "" && summary.RankedPath != "" {
		if err := writeReport(cfg, q.Keyword, *minScore, summary.RankedPath, *report); err != nil {
			logger.Error("report failed", zap.String("path", *report), zap.Error(err))
			return
		}
		fmt.Printf("PDF report:    %s\n", *report)
	}
}

func writeReport(cfg *config.Config, keyword string, minScore float64, rankedPath, out string) error {
	ranked, err := export.ReadRankedFile(rankedPath)
	if err != nil {
		return err
	}
	gen, err := pdf.NewGenerator(cfg.Output.ReportTemplate)
	if err != nil {
		return err
	}
	data, err := gen.Generate(pdf.Report{
		Keyword:     keyword,
		MinScore:    minScore,
		GeneratedAt: time.Now(),
		Leads:       ranker.AboveThreshold(ranked, minScore),
	})
	if err != nil {
		return err
	}
	return pdf.SaveToFile(out, data)
}

func printSummary(summary pipeline.Summary) {
	for _, s := range summary.Report.Sources {
		status := "ok"
		if !s.Available {
			status = "unavailable: " + s.Error
		}
		fmt.Printf("  %-18s kept %2d of %2d (%s)\n", s.Source.DisplayName(), s.Kept, s.Fetched, status)
	}
	if summary.Found == 0 {
		fmt.Println("No jobs found for this search.")
		return
	}
	fmt.Printf("Found %d jobs in %s\n", summary.Found, summary.Duration)
	fmt.Printf("Raw export:    %s\n", summary.RawPath)
	fmt.Printf("Ranked export: %s\n", summary.RankedPath)
	if summary.Notified > 0 {
		fmt.Printf("Sent %d leads to Telegram\n", summary.Notified)
	}
}
