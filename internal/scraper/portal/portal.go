// Package portal automates the wealth-reporting portal: login, report
// selection, generation, and download of the daily capital-flows statement.
package portal

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/stealth"
)

const (
	defaultStepTimeout     = 45 * time.Second
	defaultDownloadTimeout = 2 * time.Minute
)

// Scraper drives a single browser session through the portal flow. It is not
// safe for concurrent use; the flow is strictly sequential by design.
type Scraper struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	router   *rod.HijackRouter

	sel             Selectors
	loginURL        string
	downloadDir     string
	stepTimeout     time.Duration
	downloadTimeout time.Duration
	headless        bool
	hijacker        func(*rod.Hijack)
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithSelectors replaces the default candidate locator lists.
func WithSelectors(sel Selectors) Option {
	return func(s *Scraper) { s.sel = sel }
}

// WithDownloadDir sets where triggered downloads are persisted.
func WithDownloadDir(dir string) Option {
	return func(s *Scraper) { s.downloadDir = dir }
}

// WithStepTimeout bounds each navigation and element interaction.
func WithStepTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.stepTimeout = d }
}

// WithDownloadTimeout bounds the wait for a file download to begin and
// complete after a trigger click.
func WithDownloadTimeout(d time.Duration) Option {
	return func(s *Scraper) { s.downloadTimeout = d }
}

// WithHeadless toggles headless mode. Headed runs are only useful when
// debugging the flow by eye.
func WithHeadless(headless bool) Option {
	return func(s *Scraper) { s.headless = headless }
}

// WithHijacker installs a request hijacker, used by tests to serve recorded
// sessions instead of hitting the live portal.
func WithHijacker(h func(*rod.Hijack)) Option {
	return func(s *Scraper) { s.hijacker = h }
}

// New launches a browser and prepares a stealth page. Close must be called
// on every path once New succeeds.
func New(loginURL string, opts ...Option) (*Scraper, error) {
	s := &Scraper{
		sel:             DefaultSelectors(),
		loginURL:        loginURL,
		downloadDir:     "downloads",
		stepTimeout:     defaultStepTimeout,
		downloadTimeout: defaultDownloadTimeout,
		headless:        true,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.launcher = launcher.New().
		Headless(s.headless).
		Set("disable-blink-features", "AutomationControlled").
		Set("no-first-run").
		Set("no-default-browser-check").
		Set("window-size", "1920,1080")

	controlURL, err := s.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		s.launcher.Kill()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}
	s.browser = browser

	if s.hijacker != nil {
		s.router = browser.HijackRequests()
		if err := s.router.Add("*", "", s.hijacker); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("install hijacker: %w", err)
		}
		go s.router.Run()
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.page = page

	return s, nil
}

// Close releases the page, browser, and launcher. Safe to call exactly once
// on any exit path, including after partial construction.
func (s *Scraper) Close() error {
	var firstErr error

	if s.router != nil {
		if err := s.router.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.page != nil {
		if err := s.page.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}

	return firstErr
}
