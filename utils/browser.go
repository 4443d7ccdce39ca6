package utils

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"urbanstyle-registrar/internal/types"
)

// Browser is the operation set one headless session exposes. *Session
// implements it against a real browser; callers that drive shop runs accept
// this interface so they can be exercised without one.
type Browser interface {
	Navigate(url string) error
	WaitVisible(selector string) error
	SendKeys(selector, value string) error
	Click(selector string) error
	Evaluate(expression string) (string, error)
	PageHTML() (string, error)
	Location() (string, error)
	Cookies() ([]*network.Cookie, error)
	SetCookie(c *network.Cookie) error
	Close()
}

// Session is one headless browser with its own cookie jar and page state.
// A shop run owns a pair of them: one for the login/list flow, one for
// parsing detail pages with the login session's cookies.
type Session struct {
	config      *types.Config
	logger      types.Logger
	browserCtx  context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
}

// NewSession starts a headless browser and returns a handle to it.
// The caller must Close the session when the shop run ends.
func NewSession(config *types.Config, logger types.Logger) (*Session, error) {
	// Suppress chromedp debug logging
	log.SetOutput(io.Discard)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(config.UserAgent),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	return &Session{
		config:      config,
		logger:      logger,
		browserCtx:  browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
	}, nil
}

// Navigate loads the given URL in this session.
func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.browserCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// WaitVisible blocks until the element matching the CSS selector is visible,
// bounded by the configured wait timeout.
func (s *Session) WaitVisible(selector string) error {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.config.WaitTimeout)
	defer cancel()

	if err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to wait for element %s: %w", selector, err)
	}
	return nil
}

// SendKeys waits for the element to become visible and types into it.
func (s *Session) SendKeys(selector, value string) error {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.config.WaitTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to send keys to %s: %w", selector, err)
	}
	return nil
}

// Click waits for the element and clicks it.
func (s *Session) Click(selector string) error {
	ctx, cancel := context.WithTimeout(s.browserCtx, s.config.WaitTimeout)
	defer cancel()

	err := chromedp.Run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Click(selector, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// Evaluate runs an inline script on the current page and returns its
// string result.
func (s *Session) Evaluate(expression string) (string, error) {
	var result string
	if err := chromedp.Run(s.browserCtx, chromedp.Evaluate(expression, &result)); err != nil {
		return "", fmt.Errorf("failed to evaluate script: %w", err)
	}
	return result, nil
}

// PageHTML returns the current page's rendered HTML.
func (s *Session) PageHTML() (string, error) {
	var html string
	if err := chromedp.Run(s.browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to get page content: %w", err)
	}
	s.logger.Debugf("Retrieved page content (%d bytes)", len(html))
	return html, nil
}

// Location returns the session's current URL.
func (s *Session) Location() (string, error) {
	var url string
	if err := chromedp.Run(s.browserCtx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current URL: %w", err)
	}
	return url, nil
}

// Cookies returns every cookie in this session's jar.
func (s *Session) Cookies() ([]*network.Cookie, error) {
	var cookies []*network.Cookie
	err := chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read cookies: %w", err)
	}
	return cookies, nil
}

// SetCookie adds a single cookie to this session's jar, carrying over the
// source cookie's expiry and same-site policy.
func (s *Session) SetCookie(c *network.Cookie) error {
	err := chromedp.Run(s.browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		return setCookieParams(c).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to set cookie %s: %w", c.Name, err)
	}
	return nil
}

// setCookieParams builds the CDP request for one copied cookie. Session
// cookies (no positive expiry) stay session cookies; everything else keeps
// its expiration timestamp.
func setCookieParams(c *network.Cookie) *network.SetCookieParams {
	params := network.SetCookie(c.Name, c.Value).
		WithDomain(c.Domain).
		WithPath(c.Path).
		WithSecure(c.Secure).
		WithHTTPOnly(c.HTTPOnly)
	if c.SameSite != "" {
		params = params.WithSameSite(c.SameSite)
	}
	if c.Expires > 0 {
		expires := cdp.TimeSinceEpoch(time.Unix(int64(c.Expires), 0))
		params = params.WithExpires(&expires)
	}
	return params
}

// Close tears the browser down. Safe to call on a partially failed run.
func (s *Session) Close() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
}
