// Package orchestrator resolves configured shops to their extraction
// profiles and drives shop runs, either one-shot or as a periodic sweep.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"urbanstyle-registrar/extractor"
	"urbanstyle-registrar/internal/models"
	"urbanstyle-registrar/internal/types"
)

// ShopRunner executes one shop run against a profile.
type ShopRunner interface {
	Run(ctx context.Context, shop *models.Shop, profile extractor.Profile) error
}

// Orchestrator maps shop names to extraction profiles and runs them.
// Shop runs are strictly sequential: the store's dedup gate is a
// read-then-write check and the scraped sites should not see parallel
// sessions from us.
type Orchestrator struct {
	shops    models.ShopRepository
	runner   ShopRunner
	profiles map[string]extractor.Profile
	logger   types.Logger
}

// New creates an orchestrator over the given profiles. Lookup by shop name
// is case-insensitive.
func New(shops models.ShopRepository, runner ShopRunner, logger types.Logger, profiles ...extractor.Profile) *Orchestrator {
	byName := make(map[string]extractor.Profile, len(profiles))
	for _, p := range profiles {
		byName[strings.ToLower(p.Name())] = p
	}
	return &Orchestrator{
		shops:    shops,
		runner:   runner,
		profiles: byName,
		logger:   logger,
	}
}

// RunOne processes a single shop selected by name.
func (o *Orchestrator) RunOne(ctx context.Context, shopName string) error {
	shop, err := o.shops.GetByName(ctx, shopName)
	if err != nil {
		return fmt.Errorf("shop %q not found: %w", shopName, err)
	}

	profile, ok := o.profiles[strings.ToLower(shop.ShopName)]
	if !ok {
		return fmt.Errorf("unknown shop: %s", shop.ShopName)
	}
	return o.runner.Run(ctx, shop, profile)
}

// RunAll processes every open shop in order. One shop's failure is logged
// and the sweep continues with the next shop; a canceled context stops the
// sweep before the next shop's sessions are opened.
func (o *Orchestrator) RunAll(ctx context.Context) error {
	shops, err := o.shops.ListOpen(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open shops: %w", err)
	}

	for _, shop := range shops {
		select {
		case <-ctx.Done():
			o.logger.Info("Sweep canceled")
			return ctx.Err()
		default:
		}

		profile, ok := o.profiles[strings.ToLower(shop.ShopName)]
		if !ok {
			o.logger.Warnf("Unknown shop %s, skipping", shop.ShopName)
			continue
		}
		if err := o.runner.Run(ctx, shop, profile); err != nil {
			o.logger.Errorf("Run for %s failed: %v", shop.ShopName, err)
		}
	}
	return nil
}

// Scheduler re-runs the full sweep on a fixed interval. It is the only
// retry mechanism in the system: the dedup gate makes each sweep a no-op
// for already-registered products and a fresh attempt for the rest.
type Scheduler struct {
	interval time.Duration
	orch     *Orchestrator
	logger   types.Logger
}

// NewScheduler creates a periodic sweep scheduler.
func NewScheduler(interval time.Duration, orch *Orchestrator, logger types.Logger) *Scheduler {
	return &Scheduler{interval: interval, orch: orch, logger: logger}
}

// Start blocks, sweeping all shops every interval until the context is
// canceled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Infof("Sweeping all shops every %v", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler stopped")
			return
		case <-ticker.C:
			if err := s.orch.RunAll(ctx); err != nil {
				s.logger.Errorf("Sweep failed: %v", err)
			}
		}
	}
}
