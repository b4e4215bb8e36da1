package browser

import (
	"context"
	"fmt"
	"time"

	"sales-tracker-scraper/internal/session"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightEngine drives Chromium through a single Playwright driver
// process. Each Launch starts a fresh browser.
type PlaywrightEngine struct {
	pw *playwright.Playwright
}

// NewPlaywrightEngine starts the Playwright driver, installing Chromium
// first when install is set.
func NewPlaywrightEngine(install bool) (*PlaywrightEngine, error) {
	if install {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	return &PlaywrightEngine{pw: pw}, nil
}

func (e *PlaywrightEngine) Launch(ctx context.Context, cfg LaunchConfig) (Instance, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
		Args:     cfg.Args,
	}
	if cfg.ExecutablePath != "" {
		opts.ExecutablePath = playwright.String(cfg.ExecutablePath)
	}

	b, err := e.pw.Chromium.Launch(opts)
	if err != nil {
		return nil, fmt.Errorf("could not launch chromium: %w", err)
	}
	return &playwrightInstance{browser: b}, nil
}

// Stop shuts the driver down.
func (e *PlaywrightEngine) Stop() error {
	return e.pw.Stop()
}

type playwrightInstance struct {
	browser playwright.Browser
}

func (i *playwrightInstance) NewPage(opts PageOptions) (Page, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: opts.Viewport.Width, Height: opts.Viewport.Height},
	}
	if opts.UserAgent != "" {
		ctxOpts.UserAgent = playwright.String(opts.UserAgent)
	}

	bctx, err := i.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("could not create context: %w", err)
	}
	if len(opts.Cookies) > 0 {
		if err := bctx.AddCookies(toPlaywright(opts.Cookies)); err != nil {
			return nil, fmt.Errorf("could not add cookies: %w", err)
		}
	}
	if opts.InitScript != "" {
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(opts.InitScript)}); err != nil {
			return nil, fmt.Errorf("could not add init script: %w", err)
		}
	}

	page, err := bctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("could not create page: %w", err)
	}
	return &playwrightPage{page: page, context: bctx}, nil
}

func (i *playwrightInstance) Close() error {
	return i.browser.Close()
}

type playwrightPage struct {
	page    playwright.Page
	context playwright.BrowserContext
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() (string, error) {
	return p.page.Title()
}

func (p *playwrightPage) Content() (string, error) {
	return p.page.Content()
}

func (p *playwrightPage) Evaluate(expr string) (any, error) {
	return p.page.Evaluate(expr)
}

func (p *playwrightPage) Cookies() ([]session.Cookie, error) {
	cookies, err := p.context.Cookies()
	if err != nil {
		return nil, err
	}
	return fromPlaywright(cookies), nil
}

func (p *playwrightPage) WaitForFunction(expr string, timeout time.Duration) error {
	_, err := p.page.WaitForFunction(expr, nil, playwright.PageWaitForFunctionOptions{
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	return err
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}
