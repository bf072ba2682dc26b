// Package scheduler runs the delayed price-drift evaluations for accepted
// broadcasts. Each broadcast gets its own task walking the three horizons in
// order: wait, re-fetch the buy token's current price, record variance and
// the won flag against the row store. The waits chain off one another (30s,
// then another 30s, then another 4m), so any latency in an earlier stage
// pushes every later stage back by the same amount.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rewired-gh/vectorpulse/internal/logger"
	"github.com/rewired-gh/vectorpulse/internal/models"
)

// TokenSource provides current token snapshots for variance evaluation.
type TokenSource interface {
	FetchToken(ctx context.Context, tokenID string) models.TokenSnapshot
}

// OutcomeStore receives the per-horizon evaluation results.
type OutcomeStore interface {
	SetOutcome(id string, h models.Horizon, variance float64, won bool) error
}

// Notifier is told about horizons that cleared the win threshold. It may be
// nil, in which case wins are only logged.
type Notifier interface {
	SendWin(username, tokenSymbol string, h models.Horizon, variance float64) error
}

// Config holds scheduler tuning.
type Config struct {
	// Waits holds the chained delay before each horizon, in horizon order.
	Waits [3]time.Duration
	// WinThreshold is the variance percentage a horizon must strictly exceed
	// to count as won.
	WinThreshold float64
}

// DefaultConfig returns the production stage timing: 30s, +30s, +4m, win
// above 25%.
func DefaultConfig() Config {
	return Config{
		Waits:        [3]time.Duration{30 * time.Second, 30 * time.Second, 240 * time.Second},
		WinThreshold: 25.0,
	}
}

// Scheduler launches and tracks variance evaluation tasks.
type Scheduler struct {
	cfg      Config
	tokens   TokenSource
	store    OutcomeStore
	notifier Notifier
	wg       sync.WaitGroup
}

// New creates a scheduler. notifier may be nil.
func New(cfg Config, tokens TokenSource, store OutcomeStore, notifier Notifier) *Scheduler {
	return &Scheduler{
		cfg:      cfg,
		tokens:   tokens,
		store:    store,
		notifier: notifier,
	}
}

// Schedule starts the three-stage evaluation task for an accepted broadcast.
// The task runs until all horizons are recorded or ctx is cancelled. A cancel
// only takes effect while a stage is waiting: a fetch or store write that has
// begun always completes, so shutdown can never leave a half-applied outcome.
func (s *Scheduler) Schedule(ctx context.Context, rec *models.BroadcastRecord) {
	taskID := uuid.New().String()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runTask(ctx, taskID, rec.BroadcastID, rec.UserUsername, rec.BuyTokenSymbol, rec.BuyTokenID, rec.BuyTokenPriceBcast)
	}()
}

// Drain blocks until every launched task has finished.
func (s *Scheduler) Drain() {
	s.wg.Wait()
}

func (s *Scheduler) runTask(ctx context.Context, taskID, broadcastID, username, tokenSymbol, buyTokenID string, baselinePrice float64) {
	logger.Debug("Task %s: starting evaluation schedule for broadcast %s", taskID, broadcastID)

	for i, h := range models.Horizons {
		if !s.wait(ctx, s.cfg.Waits[i]) {
			logger.Info("Task %s: shutdown during %s wait, abandoning remaining horizons for broadcast %s", taskID, h, broadcastID)
			return
		}

		// Past the wait, the stage runs to completion regardless of ctx.
		current := s.tokens.FetchToken(context.Background(), buyTokenID).Price
		variance := Variance(baselinePrice, current)
		won := variance > s.cfg.WinThreshold

		if err := s.store.SetOutcome(broadcastID, h, variance, won); err != nil {
			logger.Error("Task %s: failed to record %s outcome for broadcast %s: %v", taskID, h, broadcastID, err)
			continue
		}
		logger.Info("Task %s: %s variance for broadcast %s: %.2f%% (won: %t)", taskID, h, broadcastID, variance, won)

		if won && s.notifier != nil {
			if err := s.notifier.SendWin(username, tokenSymbol, h, variance); err != nil {
				logger.Warn("Task %s: failed to send win alert for broadcast %s: %v", taskID, broadcastID, err)
			}
		}
	}

	logger.Debug("Task %s: all horizons recorded for broadcast %s", taskID, broadcastID)
}

// wait sleeps for d or until ctx is cancelled; it reports whether the full
// wait elapsed.
func (s *Scheduler) wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
