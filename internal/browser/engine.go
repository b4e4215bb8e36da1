// Package browser owns the headless browser: launching instances, installing
// sessions and stealth shims, and navigating with login detection.
package browser

import (
	"context"
	"time"

	"sales-tracker-scraper/internal/session"
)

// Viewport is a page size in CSS pixels.
type Viewport struct {
	Width  int
	Height int
}

// DefaultViewport matches the --window-size launch flag.
var DefaultViewport = Viewport{Width: 1920, Height: 1080}

// PageOptions are applied before the first navigation.
type PageOptions struct {
	UserAgent  string
	Viewport   Viewport
	Cookies    []session.Cookie
	InitScript string
}

// Engine starts browser instances.
type Engine interface {
	Launch(ctx context.Context, cfg LaunchConfig) (Instance, error)
}

// Instance is one running browser process.
type Instance interface {
	NewPage(opts PageOptions) (Page, error)
	Close() error
}

// Page is a single tab.
type Page interface {
	// Goto waits for DOMContentLoaded only.
	Goto(url string, timeout time.Duration) error
	URL() string
	Title() (string, error)
	Content() (string, error)
	Evaluate(expr string) (any, error)
	Cookies() ([]session.Cookie, error)
	WaitForFunction(expr string, timeout time.Duration) error
	Screenshot(path string) error
}
