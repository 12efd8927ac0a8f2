package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-leadgen-automation/internal/errors"
	"go-leadgen-automation/internal/export"
	"go-leadgen-automation/internal/filter"
	"go-leadgen-automation/internal/models"
	"go-leadgen-automation/internal/pdf"
	"go-leadgen-automation/internal/pipeline"
	"go-leadgen-automation/internal/ranker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Runner is the part of pipeline.Runner the handlers use.
type Runner interface {
	Run(ctx context.Context, q models.Query, sources []models.Source) (pipeline.Summary, error)
	RawPath() string
	RankedPath() string
}

// ReportGenerator prints a leads report to PDF.
type ReportGenerator interface {
	Generate(report pdf.Report) ([]byte, error)
}

type ScrapeRequest struct {
	Keyword    string   `json:"keyword" binding:"required"`
	Location   string   `json:"location"`
	Field      string   `json:"field"`
	Experience string   `json:"experience"`
	Sources    []string `json:"sources"`
}

type Handler struct {
	runner  Runner
	reports ReportGenerator
	logger  *zap.Logger
}

func NewHandler(runner Runner, reports ReportGenerator, logger *zap.Logger) *Handler {
	return &Handler{
		runner:  runner,
		reports: reports,
		logger:  logger,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Health)
	r.GET("/options", h.Options)
	r.POST("/scrape", h.Scrape)
	r.GET("/leads", h.Leads)

	dl := r.Group("/downloads")
	dl.GET("/raw", h.DownloadRaw)
	dl.GET("/ranked", h.DownloadRanked)
	dl.GET("/filtered", h.DownloadFiltered)
	dl.GET("/report.pdf", h.DownloadReport)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "Lead generation API is running!",
		"status":  "healthy",
	})
}

// Options lists the choices a search form can offer.
func (h *Handler) Options(c *gin.Context) {
	sources := make([]gin.H, 0, len(models.DefaultSources()))
	for _, s := range models.DefaultSources() {
		sources = append(sources, gin.H{"id": s, "name": s.DisplayName()})
	}
	c.JSON(http.StatusOK, gin.H{
		"sources":    sources,
		"locations":  append([]string{models.Any}, filter.Locations()...),
		"fields":     append([]string{models.Any}, filter.Fields()...),
		"experience": append([]string{models.Any}, filter.ExperienceLevels()...),
	})
}

func (h *Handler) Scrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "keyword is required"})
		return
	}

	q := models.Query{
		Keyword:    strings.TrimSpace(req.Keyword),
		Location:   req.Location,
		Field:      req.Field,
		Experience: req.Experience,
	}

	// nil keeps the default source order; unknown ids are skipped by the aggregator
	var sources []models.Source
	if req.Sources != nil {
		sources = make([]models.Source, 0, len(req.Sources))
		for _, id := range req.Sources {
			sources = append(sources, models.Source(strings.ToLower(strings.TrimSpace(id))))
		}
	}

	summary, err := h.runner.Run(c.Request.Context(), q, sources)
	if err != nil {
		h.logger.Error("scrape failed", zap.String("keyword", q.Keyword), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

func minScore(c *gin.Context) (float64, error) {
	v := c.Query("min_score")
	if v == "" {
		return 0, nil
	}
	s, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("min_score %q is not a number", v), err)
	}
	return s, nil
}

func (h *Handler) rankedAbove(c *gin.Context) ([]models.RankedPosting, float64, bool) {
	threshold, err := minScore(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, 0, false
	}
	ranked, err := export.ReadRankedFile(h.runner.RankedPath())
	if err != nil {
		h.writeError(c, err)
		return nil, 0, false
	}
	return ranker.AboveThreshold(ranked, threshold), threshold, true
}

func (h *Handler) Leads(c *gin.Context) {
	leads, threshold, ok := h.rankedAbove(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"min_score": threshold,
		"count":     len(leads),
		"leads":     leads,
	})
}

func (h *Handler) DownloadRaw(c *gin.Context) {
	h.sendFile(c, h.runner.RawPath(), "leads_raw.csv")
}

func (h *Handler) DownloadRanked(c *gin.Context) {
	h.sendFile(c, h.runner.RankedPath(), "leads_ranked.csv")
}

func (h *Handler) DownloadFiltered(c *gin.Context) {
	leads, _, ok := h.rankedAbove(c)
	if !ok {
		return
	}
	c.Header("Content-Disposition", `attachment; filename="leads_filtered.csv"`)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Status(http.StatusOK)
	if err := export.WriteRankedCSV(c.Writer, leads); err != nil {
		h.logger.Error("failed to write filtered csv", zap.Error(err))
	}
}

func (h *Handler) DownloadReport(c *gin.Context) {
	leads, threshold, ok := h.rankedAbove(c)
	if !ok {
		return
	}
	keyword := c.Query("keyword")
	if keyword == "" {
		keyword = "latest run"
	}

	data, err := h.reports.Generate(pdf.Report{
		Keyword:     keyword,
		MinScore:    threshold,
		GeneratedAt: time.Now(),
		Leads:       leads,
	})
	if err != nil {
		h.logger.Error("failed to generate report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate report"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="leads_report.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (h *Handler) sendFile(c *gin.Context, path, name string) {
	if _, err := export.ReadFile(path); err != nil {
		h.writeError(c, err)
		return
	}
	c.FileAttachment(path, name)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.IsType(err, errors.ErrTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no export yet, run a scrape first"})
	case errors.IsType(err, errors.ErrTypeInvalidInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
