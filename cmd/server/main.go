package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go-leadgen-automation/internal/api"
	"go-leadgen-automation/internal/app"
	"go-leadgen-automation/internal/config"
	"go-leadgen-automation/internal/metrics"
	"go-leadgen-automation/internal/pdf"
	"go-leadgen-automation/internal/pipeline"
	"go-leadgen-automation/internal/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newTracing(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) error {
	shutdown, err := telemetry.InitTracer(context.Background(), app.ServiceName, cfg.OTELEndpoint)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			shutdown()
			return nil
		},
	})
	if cfg.OTELEndpoint != "" {
		logger.Info("tracing enabled", zap.String("endpoint", cfg.OTELEndpoint))
	}
	return nil
}

func newMetrics() (*prometheus.Registry, *metrics.Metrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg, metrics.New(reg)
}

func newRunner(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) (*pipeline.Runner, error) {
	runner, release, err := app.NewRunner(context.Background(), cfg, logger, pipeline.WithObserver(m))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			release()
			return nil
		},
	})
	return runner, nil
}

func newReportGenerator(cfg *config.Config) (*pdf.Generator, error) {
	return pdf.NewGenerator(cfg.Output.ReportTemplate)
}

func newHandler(runner *pipeline.Runner, reports *pdf.Generator, logger *zap.Logger) *api.Handler {
	return api.NewHandler(runner, reports, logger)
}

func newEngine(cfg *config.Config, h *api.Handler, reg *prometheus.Registry, m *metrics.Metrics) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(api.CORS(cfg.AllowedOrigins), m.Middleware())
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	h.RegisterRoutes(r)
	return r
}

func registerServer(lc fx.Lifecycle, cfg *config.Config, r *gin.Engine, logger *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func main() {
	fxApp := fx.New(
		fx.Provide(
			config.Load,
			app.NewLogger,
			newMetrics,
			newRunner,
			newReportGenerator,
			newHandler,
			newEngine,
		),
		fx.Invoke(newTracing, registerServer),
	)

	startCtx := context.Background()
	if err := fxApp.Start(startCtx); err != nil {
		log.Fatal(err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		log.Fatal(err)
	}
}
