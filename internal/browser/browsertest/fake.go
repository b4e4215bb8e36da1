// Package browsertest provides an in-memory browser.Engine for tests.
package browsertest

import (
	"context"
	"sync"
	"time"

	"sales-tracker-scraper/internal/browser"
	"sales-tracker-scraper/internal/session"
)

// Engine hands out instances backed by Page. Every field is optional.
type Engine struct {
	LaunchErr  error
	NewPageErr error
	CloseErr   error
	Page       *Page

	mu          sync.Mutex
	launches    int
	closes      int
	lastLaunch  browser.LaunchConfig
	lastOptions browser.PageOptions
}

func (e *Engine) Launch(_ context.Context, cfg browser.LaunchConfig) (browser.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.LaunchErr != nil {
		return nil, e.LaunchErr
	}
	e.launches++
	e.lastLaunch = cfg
	return &instance{engine: e}, nil
}

// Launches is the number of successful launches.
func (e *Engine) Launches() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.launches
}

// Closes counts Close calls across all instances.
func (e *Engine) Closes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closes
}

func (e *Engine) LastLaunch() browser.LaunchConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastLaunch
}

// LastOptions are the options of the most recent NewPage call.
func (e *Engine) LastOptions() browser.PageOptions {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastOptions
}

type instance struct {
	engine *Engine
}

func (i *instance) NewPage(opts browser.PageOptions) (browser.Page, error) {
	e := i.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.NewPageErr != nil {
		return nil, e.NewPageErr
	}
	e.lastOptions = opts
	if e.Page == nil {
		e.Page = &Page{}
	}
	return e.Page, nil
}

func (i *instance) Close() error {
	e := i.engine
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closes++
	return e.CloseErr
}

// Page serves canned content. URL reports FinalURL when set, else the last
// URL passed to Goto.
type Page struct {
	FinalURL  string
	TitleText string
	HTML      string
	CookieSet []session.Cookie

	GotoErr    error
	ContentErr error
	CookiesErr error
	WaitErr    error
	// Eval answers Evaluate; nil means every expression yields false.
	Eval func(expr string) (any, error)
	// OnContent runs inside Content, e.g. to panic mid-extraction.
	OnContent func()

	mu          sync.Mutex
	visited     []string
	screenshots []string
}

func (p *Page) Goto(url string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.visited = append(p.visited, url)
	return p.GotoErr
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FinalURL != "" {
		return p.FinalURL
	}
	if len(p.visited) > 0 {
		return p.visited[len(p.visited)-1]
	}
	return "about:blank"
}

func (p *Page) Title() (string, error) {
	return p.TitleText, nil
}

func (p *Page) Content() (string, error) {
	if p.OnContent != nil {
		p.OnContent()
	}
	return p.HTML, p.ContentErr
}

func (p *Page) Evaluate(expr string) (any, error) {
	if p.Eval == nil {
		return false, nil
	}
	return p.Eval(expr)
}

func (p *Page) Cookies() ([]session.Cookie, error) {
	return p.CookieSet, p.CookiesErr
}

func (p *Page) WaitForFunction(string, time.Duration) error {
	return p.WaitErr
}

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.screenshots = append(p.screenshots, path)
	return nil
}

// Visited lists every URL passed to Goto.
func (p *Page) Visited() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.visited...)
}

func (p *Page) Screenshots() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.screenshots...)
}
