package browser

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"SkuScraper/internal/scraper"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/lmittmann/tint"
)

// Options configures the Chrome instance behind a Session.
type Options struct {
	Headless  bool
	UserAgent string
	// NavigationTimeout bounds loading a single URL.
	NavigationTimeout time.Duration
	// ControlURL connects to an already running browser instead of launching one.
	ControlURL string
}

// Session drives one Chrome tab. The browser is launched on the first Open
// and lives until Close; the tab is reused for every navigation.
type Session struct {
	opts Options

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	page     *rod.Page
}

var _ scraper.Engine = (*Session)(nil)

func New(opts Options) *Session {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	return &Session{opts: opts}
}

// acquire launches the browser and opens the shared tab the first time it is called.
func (s *Session) acquire() (*rod.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		return s.page, nil
	}

	controlURL := s.opts.ControlURL
	if controlURL == "" {
		l := launcher.New().
			Headless(s.opts.Headless).
			NoSandbox(true).
			Set("disable-dev-shm-usage").
			Set("disable-gpu")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch browser: %w", err)
		}
		s.launcher = l
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		s.cleanupLauncher()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		_ = browser.Close()
		s.cleanupLauncher()
		return nil, fmt.Errorf("open stealth page: %w", err)
	}
	if s.opts.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: s.opts.UserAgent}); err != nil {
			slog.Warn("could not override user agent", tint.Err(err))
		}
	}

	slog.Info("browser session started", "headless", s.opts.Headless)
	s.browser, s.page = browser, page
	return page, nil
}

// Open navigates the shared tab to url and waits for the load event.
func (s *Session) Open(ctx context.Context, url string) (scraper.Page, error) {
	tab, err := s.acquire()
	if err != nil {
		return nil, err
	}

	page := tab.Context(ctx)
	if err := page.Timeout(s.opts.NavigationTimeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("navigate to %s: %w", url, err)
	}
	if err := page.Timeout(s.opts.NavigationTimeout).WaitLoad(); err != nil {
		slog.Warn("page did not finish loading, continuing", "url", url, tint.Err(err))
	}

	if status := navigationStatus(page); status != 0 && (status < 200 || status > 299) {
		return nil, &scraper.StatusError{URL: url, StatusCode: status}
	}
	return &Page{page: page}, nil
}

// navigationStatus reads the HTTP status of the last navigation, or 0 when the browser does not expose it.
func navigationStatus(page *rod.Page) int {
	res, err := page.Eval(`() => {
		const nav = performance.getEntriesByType('navigation')[0];
		return nav && nav.responseStatus ? nav.responseStatus : 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

// Close shuts the browser down. The session can be reused afterwards; the next Open relaunches it.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	s.cleanupLauncher()
	s.browser, s.page = nil, nil
	return err
}

func (s *Session) cleanupLauncher() {
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
}
