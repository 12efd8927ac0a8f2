package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ScreenShotDebugger saves full-page screenshots of pages a scrape gave up on.
type ScreenShotDebugger struct {
	outputDir string
	logger    *zap.Logger
}

func NewScreenShotDebugger(dir string, logger *zap.Logger) *ScreenShotDebugger {
	if dir == "" {
		dir = filepath.Join(".", "logs", "screenshots")
	}
	return &ScreenShotDebugger{
		outputDir: dir,
		logger:    logger,
	}
}

// FileName builds the screenshot name for a capture taken at t.
func (s *ScreenShotDebugger) FileName(name string, t time.Time) string {
	return filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, t.Format("2006-01-02_15-04-05")))
}

func (s *ScreenShotDebugger) CaptureAndLog(page playwright.Page, name, message string) error {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		s.logger.Warn("failed to create screenshot dir", zap.String("dir", s.outputDir), zap.Error(err))
		return err
	}

	path := s.FileName(name, time.Now())
	s.logger.Info(message, zap.String("screenshot", path))

	_, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		s.logger.Warn("failed to capture screenshot", zap.Error(err))
		return err
	}
	return nil
}
