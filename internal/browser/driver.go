package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/session"
)

// DefaultUserAgent is used when no session supplies its own.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

const (
	DefaultNavigationTimeout = 30 * time.Second

	loginURL           = "https://www.linkedin.com/login"
	loginPageTimeout   = 60 * time.Second
	manualLoginTimeout = 5 * time.Minute
)

// ErrNavigation wraps any failure of the initial page load.
var ErrNavigation = errors.New("navigation failed")

// loginCheckScript looks for the sign-in form or a sign-in title.
const loginCheckScript = `() => window.location.href.includes('/login') ||
	window.location.href.includes('/uas/login') ||
	document.querySelector('input[name="session_key"]') !== null ||
	document.title.toLowerCase().includes('sign in')`

// loginRedirects are paths a gated site sends a rejected session to.
var loginRedirects = []string{"/login", "/authwall", "/checkpoint"}

// SessionLoader finds the session to install for an owner.
type SessionLoader interface {
	Load(ctx context.Context, ownerID string) (*session.Session, error)
}

// SessionSaver persists a captured session.
type SessionSaver interface {
	Save(ctx context.Context, ownerID string, cookies []session.Cookie, userAgent, platform string) (*session.Session, error)
}

// Target is a page to open.
type Target struct {
	URL string
	// RequiresSession installs the owner's session and checks for a login
	// wall after navigation.
	RequiresSession bool
}

// Driver opens one browser per call and closes it on every exit path.
type Driver struct {
	engine   Engine
	launch   LaunchConfig
	sessions SessionLoader
	logger   logger.Logger

	// Delay is the dwell after navigation. It ignores cancellation.
	Delay             func()
	NavigationTimeout time.Duration
	LoginSettle       time.Duration
	// Screenshots, when set, captures pages where the session was rejected.
	Screenshots *ScreenshotDebugger
}

func NewDriver(engine Engine, launch LaunchConfig, sessions SessionLoader, log logger.Logger) *Driver {
	return &Driver{
		engine:            engine,
		launch:            launch,
		sessions:          sessions,
		logger:            log,
		Delay:             HumanDelay,
		NavigationTimeout: DefaultNavigationTimeout,
		LoginSettle:       3 * time.Second,
	}
}

// WithAuthenticatedPage launches a browser, prepares a page for target and
// hands it to fn once navigation has settled. Session-gated targets fail with
// session.ErrAuthRequired when ownerID has no session, and with
// session.ErrSessionExpired when the site answers with a login wall.
func (d *Driver) WithAuthenticatedPage(ctx context.Context, target Target, ownerID string, fn func(Page) error) error {
	inst, err := d.engine.Launch(ctx, d.launch)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer d.closeInstance(inst)

	opts := PageOptions{
		UserAgent:  DefaultUserAgent,
		Viewport:   DefaultViewport,
		InitScript: StealthScript,
	}
	if target.RequiresSession {
		sess, err := d.sessions.Load(ctx, ownerID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				return session.ErrAuthRequired
			}
			return fmt.Errorf("load session: %w", err)
		}
		// the site pins cookies to the user agent they were issued to
		if sess.UserAgent != "" {
			opts.UserAgent = sess.UserAgent
		}
		opts.Cookies = sess.Cookies
		d.logger.Debug("Installing session",
			logger.String("owner_id", ownerID),
			logger.Int("cookies", len(sess.Cookies)),
		)
	}

	page, err := inst.NewPage(opts)
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := page.Goto(target.URL, d.NavigationTimeout); err != nil {
		return fmt.Errorf("%w: %w", ErrNavigation, err)
	}
	d.Delay()

	if target.RequiresSession {
		onLogin, err := d.onLoginPage(page)
		if err != nil {
			return err
		}
		if onLogin {
			d.captureRejected(page, ownerID)
			return session.ErrSessionExpired
		}
	}

	return fn(page)
}

func (d *Driver) onLoginPage(page Page) (bool, error) {
	current := page.URL()
	for _, p := range loginRedirects {
		if strings.Contains(current, p) {
			return true, nil
		}
	}

	v, err := page.Evaluate(loginCheckScript)
	if err != nil {
		return false, fmt.Errorf("check for login page: %w", err)
	}
	onLogin, _ := v.(bool)
	return onLogin, nil
}

func (d *Driver) captureRejected(page Page, ownerID string) {
	d.logger.Warn("Session rejected, landed on login page",
		logger.String("owner_id", ownerID),
		logger.String("url", page.URL()),
	)
	if d.Screenshots != nil {
		_, _ = d.Screenshots.Capture(page, "session_expired")
	}
}

func (d *Driver) closeInstance(inst Instance) {
	if err := inst.Close(); err != nil {
		d.logger.Warn("Failed to close browser", logger.Err(err))
	}
}

// InteractiveLogin opens a visible browser on the LinkedIn login page and
// waits up to five minutes for a human to finish signing in. The resulting
// cookies, user agent and platform are saved to the shared slot. It returns
// the number of cookies captured.
func (d *Driver) InteractiveLogin(ctx context.Context, saver SessionSaver) (int, error) {
	inst, err := d.engine.Launch(ctx, d.launch.Headed())
	if err != nil {
		return 0, fmt.Errorf("launch browser: %w", err)
	}
	defer d.closeInstance(inst)

	page, err := inst.NewPage(PageOptions{Viewport: DefaultViewport})
	if err != nil {
		return 0, fmt.Errorf("open page: %w", err)
	}

	d.logger.Info("Opening LinkedIn login page, waiting for manual sign-in")
	if err := page.Goto(loginURL, loginPageTimeout); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNavigation, err)
	}

	if err := page.WaitForFunction(`() => !window.location.href.includes('/login')`, manualLoginTimeout); err != nil {
		return 0, fmt.Errorf("wait for login: %w", err)
	}

	d.logger.Info("Login detected, letting the session settle")
	select {
	case <-time.After(d.LoginSettle):
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	cookies, err := page.Cookies()
	if err != nil {
		return 0, fmt.Errorf("read cookies: %w", err)
	}
	userAgent := d.evalString(page, "() => navigator.userAgent")
	platform := d.evalString(page, "() => navigator.platform")

	if _, err := saver.Save(ctx, "", cookies, userAgent, platform); err != nil {
		return 0, fmt.Errorf("save session: %w", err)
	}
	d.logger.Info("LinkedIn session captured", logger.Int("cookies", len(cookies)))
	return len(cookies), nil
}

func (d *Driver) evalString(page Page, expr string) string {
	v, err := page.Evaluate(expr)
	if err != nil {
		d.logger.Warn("Failed to read navigator property", logger.String("expr", expr), logger.Err(err))
		return ""
	}
	s, _ := v.(string)
	return s
}
