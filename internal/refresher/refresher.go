// Package refresher keeps the winning-numbers cache warm on a schedule.
package refresher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"invoice-prize-checker-go/internal/metrics"
	"invoice-prize-checker-go/internal/models"
)

// NumberSource is the winning-numbers provider being refreshed.
type NumberSource interface {
	Latest(ctx context.Context, force bool) ([]models.WinningNumbers, error)
}

// Refresher periodically re-reads the official feed so draw results appear
// without a user-triggered refresh.
type Refresher struct {
	cron      *cron.Cron
	entryID   cron.EntryID
	source    NumberSource
	metrics   *metrics.Metrics
	interval  int
	ctx       context.Context
	cancel    context.CancelFunc
	isRunning bool
	mu        sync.RWMutex
}

// New creates a Refresher; intervalMinutes must be positive.
func New(source NumberSource, m *metrics.Metrics, intervalMinutes int) *Refresher {
	ctx, cancel := context.WithCancel(context.Background())
	if intervalMinutes <= 0 {
		intervalMinutes = 360
	}
	return &Refresher{
		cron:     cron.New(cron.WithSeconds()),
		source:   source,
		metrics:  m,
		interval: intervalMinutes,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the refresher
func (r *Refresher) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isRunning {
		return fmt.Errorf("refresher is already running")
	}

	schedule := fmt.Sprintf("0 */%d * * * *", r.interval%60)
	if r.interval >= 60 {
		schedule = fmt.Sprintf("0 0 */%d * * *", r.interval/60)
	}

	entryID, err := r.cron.AddFunc(schedule, r.refresh)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}

	r.entryID = entryID
	r.cron.Start()
	r.isRunning = true

	logrus.Infof("Winning-numbers refresher started with interval: %d minutes", r.interval)
	return nil
}

// Stop stops the refresher
func (r *Refresher) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isRunning {
		return nil
	}

	r.cancel()
	ctx := r.cron.Stop()

	select {
	case <-ctx.Done():
		logrus.Info("Refresher stopped gracefully")
	case <-time.After(30 * time.Second):
		logrus.Warn("Refresher stop timeout, forcing shutdown")
	}

	r.isRunning = false
	return nil
}

// IsRunning returns whether the refresher is running
func (r *Refresher) IsRunning() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isRunning
}

// RunOnce refreshes immediately (for manual triggering)
func (r *Refresher) RunOnce() {
	r.refresh()
}

// GetNextRun returns the time of the next scheduled refresh
func (r *Refresher) GetNextRun() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.isRunning {
		return time.Time{}
	}
	return r.cron.Entry(r.entryID).Next
}

func (r *Refresher) refresh() {
	r.mu.RLock()
	if !r.isRunning {
		r.mu.RUnlock()
		return
	}
	r.mu.RUnlock()

	// Latest applies TTL and draw-day rules itself; this is not a forced
	// fetch, just an opportunity to notice staleness.
	periods, err := r.source.Latest(r.ctx, false)
	if err != nil {
		logrus.Errorf("Scheduled winning-numbers refresh failed: %v", err)
		return
	}
	if r.metrics != nil {
		r.metrics.FeedRefreshes.Inc()
	}
	logrus.Debugf("Winning-numbers cache holds %d periods", len(periods))
}
