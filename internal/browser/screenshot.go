package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sales-tracker-scraper/internal/logger"
)

// ScreenshotDebugger saves full-page captures of pages that went wrong.
type ScreenshotDebugger struct {
	outputDir string
	logger    logger.Logger
}

func NewScreenshotDebugger(dir string, log logger.Logger) *ScreenshotDebugger {
	return &ScreenshotDebugger{outputDir: dir, logger: log}
}

// Capture writes <name>_<timestamp>.png and returns its path.
func (s *ScreenshotDebugger) Capture(page Page, name string) (string, error) {
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(s.outputDir, fmt.Sprintf("%s_%s.png", name, timestamp))
	if err := page.Screenshot(path); err != nil {
		s.logger.Warn("Failed to capture screenshot", logger.String("name", name), logger.Err(err))
		return "", err
	}

	s.logger.Info("Screenshot saved", logger.String("path", path), logger.String("url", page.URL()))
	return path, nil
}
