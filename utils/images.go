package utils

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"urbanstyle-registrar/internal/types"
)

// ImageStore mirrors product imagery to local disk under a fixed base
// directory, one file per URL at {base}/{shop}/{kind}/{name}. An existing
// file at the target path is overwritten silently.
type ImageStore struct {
	baseDir string
	client  *http.Client
	limiter *rate.Limiter
	config  *types.Config
	logger  types.Logger
}

// NewImageStore creates an image store rooted at the configured base directory.
func NewImageStore(config *types.Config, logger types.Logger) *ImageStore {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	interval := config.RequestDelay
	if interval <= 0 {
		interval = time.Millisecond
	}

	return &ImageStore{
		baseDir: config.ImageBaseDir,
		client:  client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		config:  config,
		logger:  logger,
	}
}

// Download fetches one image and writes it to {base}/{shop}/{kind}/{name}.
// It reports whether the file landed on disk; failures are logged, never
// escalated, so sibling downloads keep going.
func (s *ImageStore) Download(ctx context.Context, shop, kind, imgURL, name string) bool {
	if shop == "" || kind == "" || imgURL == "" || name == "" {
		s.logger.Warn("Image download skipped: missing argument")
		return false
	}

	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warnf("Image download canceled for %s: %v", imgURL, err)
		return false
	}

	folder := filepath.Join(s.baseDir, shop, kind)
	if err := os.MkdirAll(folder, 0755); err != nil {
		s.logger.Warnf("Failed to create %s: %v", folder, err)
		return false
	}

	if err := s.fetch(ctx, imgURL, filepath.Join(folder, name)); err != nil {
		s.logger.Warnf("Image download failed for %s: %v", imgURL, err)
		return false
	}

	s.logger.Debugf("Downloaded %s to %s/%s/%s", imgURL, shop, kind, name)
	return true
}

func (s *ImageStore) fetch(ctx context.Context, imgURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imgURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}
