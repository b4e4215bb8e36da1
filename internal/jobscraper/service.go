// Package jobscraper turns a job-posting URL into a structured JobPosting.
// It owns the scrape state machine: classify, launch, authenticate,
// navigate, extract, close. Nothing it calls can make it panic or leak a
// browser.
package jobscraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sales-tracker-scraper/internal/browser"
	"sales-tracker-scraper/internal/logger"
	"sales-tracker-scraper/internal/metrics"
	"sales-tracker-scraper/internal/notify"
	"sales-tracker-scraper/internal/scraper"
	"sales-tracker-scraper/internal/scraper/generic"
	"sales-tracker-scraper/internal/scraper/greenhouse"
	"sales-tracker-scraper/internal/scraper/indeed"
	"sales-tracker-scraper/internal/scraper/linkedin"
	"sales-tracker-scraper/internal/session"

	"github.com/google/uuid"
)

// Result is the outcome of one scrape. Exactly one of Data and Error is set.
type Result struct {
	Success bool                `json:"success"`
	Data    *scraper.JobPosting `json:"data,omitempty"`
	Source  scraper.Site        `json:"source,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// LoginResult reports an interactive login.
type LoginResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message,omitempty"`
	Error       string `json:"error,omitempty"`
	CookieCount int    `json:"cookieCount,omitempty"`
}

// UploadResult reports a session upload.
type UploadResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	CookieCount int    `json:"cookieCount"`
}

// Options wires a Service. Driver, Store and Logger are required.
type Options struct {
	Driver     *browser.Driver
	Store      *session.Store
	Extractors map[scraper.Site]scraper.Extractor
	Logger     logger.Logger
	Metrics    *metrics.Metrics
	Notifier   notify.Notifier
}

// Service is the public entry point used by the HTTP layer and the CLI.
type Service struct {
	driver     *browser.Driver
	store      *session.Store
	extractors map[scraper.Site]scraper.Extractor
	logger     logger.Logger
	metrics    *metrics.Metrics
	notifier   notify.Notifier
	now        func() time.Time
}

// DefaultExtractors returns one extractor per known site.
func DefaultExtractors(log logger.Logger) map[scraper.Site]scraper.Extractor {
	return map[scraper.Site]scraper.Extractor{
		scraper.SiteGreenhouse: greenhouse.New(),
		scraper.SiteLinkedIn:   linkedin.New(log),
		scraper.SiteIndeed:     indeed.New(),
		scraper.SiteGeneric:    generic.New(),
	}
}

func NewService(opts Options) (*Service, error) {
	if opts.Driver == nil {
		return nil, errors.New("jobscraper: driver is required")
	}
	if opts.Store == nil {
		return nil, errors.New("jobscraper: session store is required")
	}
	if opts.Logger == nil {
		opts.Logger = logger.NewNop()
	}
	if opts.Extractors == nil {
		opts.Extractors = DefaultExtractors(opts.Logger)
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}

	return &Service{
		driver:     opts.Driver,
		store:      opts.Store,
		extractors: opts.Extractors,
		logger:     opts.Logger,
		metrics:    opts.Metrics,
		notifier:   opts.Notifier,
		now:        time.Now,
	}, nil
}

// ScrapeJobPosting opens rawURL in a fresh browser and extracts the posting.
// ownerID selects the session for gated sites and may be empty. Every
// failure, including a panic in an extractor, comes back as a failed Result.
func (s *Service) ScrapeJobPosting(ctx context.Context, rawURL, ownerID string) (result Result) {
	scrapeID := uuid.NewString()
	site := scraper.DetectSite(rawURL)
	log := s.logger.With(
		logger.String("scrape_id", scrapeID),
		logger.String("site", site.String()),
		logger.String("url", rawURL),
		logger.String("owner_id", ownerID),
	)
	start := s.now()

	defer func() {
		if r := recover(); r != nil {
			log.Error("Scrape panicked", logger.String("panic", fmt.Sprint(r)))
			result = Result{Success: false, Error: fmt.Sprintf("unexpected error while scraping: %v", r)}
			s.metrics.RecordScrape(site.String(), metrics.OutcomeError, s.now().Sub(start))
		}
	}()

	posting, err := s.scrape(ctx, rawURL, site, ownerID)
	elapsed := s.now().Sub(start)
	if err != nil {
		outcome := outcomeOf(err)
		s.metrics.RecordScrape(site.String(), outcome, elapsed)
		log.Warn("Scrape failed",
			logger.String("outcome", outcome),
			logger.Duration("elapsed", elapsed),
			logger.Err(err),
		)
		if errors.Is(err, session.ErrSessionExpired) {
			s.alertSessionExpired(ctx, notify.Event{
				OwnerID:  ownerID,
				URL:      rawURL,
				Site:     site.String(),
				ScrapeID: scrapeID,
				Err:      err,
			})
		}
		return Result{Success: false, Error: UserMessage(err)}
	}

	s.metrics.RecordScrape(site.String(), metrics.OutcomeSuccess, elapsed)
	log.Info("Scrape finished",
		logger.String("job_title", posting.JobTitle),
		logger.String("company", posting.CompanyName),
		logger.Duration("elapsed", elapsed),
	)
	return Result{Success: true, Data: posting, Source: site}
}

func (s *Service) scrape(ctx context.Context, rawURL string, site scraper.Site, ownerID string) (*scraper.JobPosting, error) {
	u, err := scraper.ParseURL(rawURL)
	if err != nil {
		return nil, err
	}
	extractor, ok := s.extractors[site]
	if !ok {
		extractor, ok = s.extractors[scraper.SiteGeneric]
		if !ok {
			return nil, fmt.Errorf("no extractor registered for %s", site)
		}
	}

	var posting *scraper.JobPosting
	target := browser.Target{URL: u.String(), RequiresSession: site.RequiresSession()}
	err = s.driver.WithAuthenticatedPage(ctx, target, ownerID, func(page browser.Page) error {
		snapshot, err := snapshotOf(page)
		if err != nil {
			return err
		}
		posting, err = extractor.Extract(snapshot)
		return err
	})
	if err != nil {
		return nil, err
	}
	return posting, nil
}

// snapshotOf reads the rendered DOM out of the live page.
func snapshotOf(page browser.Page) (*scraper.Page, error) {
	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("read page content: %w", err)
	}
	title, err := page.Title()
	if err != nil {
		return nil, fmt.Errorf("read page title: %w", err)
	}
	return scraper.NewPage(page.URL(), title, html)
}

func (s *Service) alertSessionExpired(ctx context.Context, ev notify.Event) {
	if err := s.notifier.SessionExpired(ctx, ev); err != nil {
		s.logger.Warn("Failed to send session alert", logger.String("owner_id", ev.OwnerID), logger.Err(err))
	}
}

// InteractiveLogin runs the human-driven LinkedIn login and stores the
// captured session in the shared slot. At most one should run at a time.
func (s *Service) InteractiveLogin(ctx context.Context) LoginResult {
	count, err := s.driver.InteractiveLogin(ctx, s.store)
	if err != nil {
		s.logger.Error("Interactive login failed", logger.Err(err))
		return LoginResult{Success: false, Error: err.Error()}
	}
	s.metrics.RecordSessionSaved("login")
	return LoginResult{
		Success:     true,
		Message:     "LinkedIn authentication successful! Cookies saved.",
		CookieCount: count,
	}
}

// UploadSession stores cookies supplied by the caller for ownerID.
func (s *Service) UploadSession(ctx context.Context, ownerID string, cookies []session.Cookie, userAgent, platform string) (UploadResult, error) {
	sess, err := s.store.Save(ctx, ownerID, cookies, userAgent, platform)
	if err != nil {
		return UploadResult{}, err
	}
	s.metrics.RecordSessionSaved("upload")
	return UploadResult{
		Success:     true,
		Message:     "LinkedIn cookies uploaded successfully",
		CookieCount: len(sess.Cookies),
	}, nil
}

// HasSavedCookies reports whether any file-cached session exists.
func (s *Service) HasSavedCookies() bool {
	return s.store.HasSaved()
}

// ClearCookies removes cached sessions, and ownerID's stored session when set.
func (s *Service) ClearCookies(ctx context.Context, ownerID string) (session.ClearResult, error) {
	return s.store.Clear(ctx, ownerID)
}

func outcomeOf(err error) string {
	switch {
	case isTimeout(err):
		return metrics.OutcomeTimeout
	case errors.Is(err, session.ErrAuthRequired):
		return metrics.OutcomeAuthRequired
	case errors.Is(err, session.ErrSessionExpired):
		return metrics.OutcomeSessionExpired
	case errors.Is(err, browser.ErrNavigation):
		return metrics.OutcomeNavigation
	default:
		return metrics.OutcomeError
	}
}
