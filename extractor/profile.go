// Package extractor holds the per-site scraping strategies and the runner
// that drives one shop end to end: login, cookie hand-off to the parse
// session, product-list discovery and per-product extraction into the
// registration pipeline.
package extractor

import (
	"context"
	"fmt"
	"time"

	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/types"
	"urbanstyle-registrar/pipeline"
	"urbanstyle-registrar/utils"
)

const (
	loginPath        = "/member/login.html"
	loginIDField     = `input[name="member_id"]`
	loginPWField     = `input[name="member_passwd"]`
	contentContainer = "#contents"
	priceSelector    = "#span_product_price_text"
	optionDataGlobal = "option_stock_data"
)

// Profile is one storefront's bespoke scraping strategy. The four supported
// sites differ in markup paths and URL quirks but share this operation set.
type Profile interface {
	Name() string
	Login(s utils.Browser, shop *models.Shop) error
	DiscoverProductURLs(s utils.Browser, shop *models.Shop) ([]string, error)
	ExtractProduct(s utils.Browser, shop *models.Shop, productURL string) (*types.RawProduct, error)
}

// sessionFactory opens a fresh browser session for one shop run.
type sessionFactory func(config *types.Config, logger types.Logger) (utils.Browser, error)

// Runner executes one shop run against a profile. It owns the browser
// session pair for the duration of the run and tears it down regardless of
// outcome. Failures never escalate past the run boundary.
type Runner struct {
	config    *types.Config
	logger    types.Logger
	pipeline  *pipeline.Pipeline
	errorLogs models.ErrorLogRepository
	sessions  sessionFactory
}

// NewRunner creates a shop runner backed by real headless sessions.
func NewRunner(config *types.Config, pipe *pipeline.Pipeline, errorLogs models.ErrorLogRepository, logger types.Logger) *Runner {
	return &Runner{
		config:    config,
		logger:    logger,
		pipeline:  pipe,
		errorLogs: errorLogs,
		sessions: func(config *types.Config, logger types.Logger) (utils.Browser, error) {
			return utils.NewSession(config, logger)
		},
	}
}

// Run processes one shop end to end. A session-level failure (login,
// discovery) aborts the run; a single product's failure is logged and the
// loop continues with the next product.
func (r *Runner) Run(ctx context.Context, shop *models.Shop, profile Profile) error {
	startTime := time.Now()
	r.logger.Infof("Starting %s run", shop.ShopName)

	loginSession, err := r.sessions(r.config, r.logger)
	if err != nil {
		return r.abort(ctx, shop, fmt.Errorf("failed to start login session: %w", err))
	}
	defer loginSession.Close()

	parseSession, err := r.sessions(r.config, r.logger)
	if err != nil {
		return r.abort(ctx, shop, fmt.Errorf("failed to start parse session: %w", err))
	}
	defer parseSession.Close()

	if err := profile.Login(loginSession, shop); err != nil {
		return r.abort(ctx, shop, fmt.Errorf("login failed: %w", err))
	}
	r.logger.Debugf("Logged into %s", shop.ShopName)

	if err := utils.CopyCookies(loginSession, parseSession, r.logger); err != nil {
		r.logger.Warnf("Cookie transfer for %s failed: %v", shop.ShopName, err)
	}

	productURLs, err := profile.DiscoverProductURLs(loginSession, shop)
	if err != nil {
		return r.abort(ctx, shop, fmt.Errorf("product discovery failed: %w", err))
	}
	r.logger.Infof("Found %d products on %s", len(productURLs), shop.ShopName)

	registered, skipped, failed := 0, 0, 0
	for i, productURL := range productURLs {
		r.logger.Debugf("Processing product %d/%d: %s", i+1, len(productURLs), productURL)

		raw, err := profile.ExtractProduct(parseSession, shop, productURL)
		if err != nil {
			r.logger.Warnf("Failed to extract %s: %v", productURL, err)
			failed++
			continue
		}

		result := r.pipeline.Register(ctx, raw)
		switch result.Status {
		case pipeline.Registered:
			registered++
		case pipeline.SkippedDuplicate:
			skipped++
		case pipeline.Failed:
			r.logger.Warnf("Failed to register %s: %v", result.Code, result.Reason)
			failed++
		}
	}

	r.logger.Infof("%s run completed in %v: %d registered, %d skipped, %d failed",
		shop.ShopName, time.Since(startTime), registered, skipped, failed)
	return nil
}

// abort logs a session-level failure, records it in the error log table and
// reports it to the caller. The error log write is best effort.
func (r *Runner) abort(ctx context.Context, shop *models.Shop, runErr error) error {
	r.logger.Errorf("%s run aborted: %v", shop.ShopName, runErr)

	if r.errorLogs != nil {
		entry := &models.ErrorLog{
			ErrorDate: time.Now(),
			URL:       shop.ShopURL,
			Message:   runErr.Error(),
		}
		if err := r.errorLogs.Create(ctx, entry); err != nil {
			r.logger.Warnf("Failed to record error log: %v", err)
		}
	}
	return runErr
}

// loginWithSubmit performs the shared login flow: navigate to the login
// page, wait for the credential fields, type and submit. The submit control
// differs per site.
func loginWithSubmit(s utils.Browser, shop *models.Shop, submitSelector string) error {
	if err := s.Navigate(shop.ShopURL + loginPath); err != nil {
		return err
	}
	if err := s.SendKeys(loginIDField, shop.ShopID); err != nil {
		return err
	}
	if err := s.SendKeys(loginPWField, shop.ShopPW); err != nil {
		return err
	}
	return s.Click(submitSelector)
}

// snapshot navigates the session, waits for the container and returns the
// rendered page HTML.
func snapshot(s utils.Browser, pageURL, waitSelector string) (string, error) {
	if err := s.Navigate(pageURL); err != nil {
		return "", err
	}
	if err := s.WaitVisible(waitSelector); err != nil {
		return "", err
	}
	return s.PageHTML()
}
