package utils

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestScreenShotDebugger_FileName(t *testing.T) {
	s := NewScreenShotDebugger("shots", zap.NewNop())
	at := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

	assert.Equal(t, filepath.Join("shots", "indeed-captcha_2024-03-09_14-05-07.png"), s.FileName("indeed-captcha", at))
}

func TestScreenShotDebugger_DefaultDir(t *testing.T) {
	s := NewScreenShotDebugger("", zap.NewNop())
	assert.Equal(t, filepath.Join("logs", "screenshots"), s.outputDir)
}
