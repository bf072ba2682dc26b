// Package ingest drives the broadcast ingestion cycle: poll the feed,
// filter already-seen broadcasts through the ledger, enrich the new ones,
// persist them, and hand each one to the variance scheduler.
//
// Enrichment runs synchronously inside the cycle, so ingestion throughput is
// bounded by upstream latency; only the variance evaluations run concurrently.
// A candidate is marked in the ledger before its enrichment calls go out, so
// the same ID arriving again on the next poll can never be accepted twice no
// matter how slow the enrichment is.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/rewired-gh/vectorpulse/internal/ledger"
	"github.com/rewired-gh/vectorpulse/internal/logger"
	"github.com/rewired-gh/vectorpulse/internal/models"
	"github.com/rewired-gh/vectorpulse/internal/scheduler"
	"github.com/rewired-gh/vectorpulse/internal/store"
)

// Client is the slice of the vector.fun API the orchestrator depends on.
type Client interface {
	FetchFeed(ctx context.Context, first int) ([]models.BroadcastCandidate, models.PageInfo, error)
	FetchProfile(ctx context.Context, username string) models.ProfileSnapshot
	FetchToken(ctx context.Context, tokenID string) models.TokenSnapshot
}

// Config holds orchestrator tuning.
type Config struct {
	PollInterval time.Duration
	PageSize     int
}

// Orchestrator ties the poller, ledger, enrichment, store, and scheduler
// together into the continuous ingestion loop.
type Orchestrator struct {
	cfg    Config
	client Client
	store  *store.Store
	ledger *ledger.Ledger
	sched  *scheduler.Scheduler
}

// New creates an orchestrator.
func New(cfg Config, client Client, st *store.Store, led *ledger.Ledger, sched *scheduler.Scheduler) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg,
		client: client,
		store:  st,
		ledger: led,
		sched:  sched,
	}
}

// Run executes an immediate first cycle and then one cycle per poll interval
// until ctx is cancelled. onResult, if non-nil, receives every cycle's
// outcome so the caller can wire failure reporting.
func (o *Orchestrator) Run(ctx context.Context, onResult func(error)) {
	report := func(err error) {
		if err != nil {
			logger.Error("Ingestion cycle failed: %v", err)
		}
		if onResult != nil {
			onResult(err)
		}
	}

	report(o.RunCycle(ctx))

	ticker := time.NewTicker(o.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Ingestion loop stopped")
			return
		case <-ticker.C:
			report(o.RunCycle(ctx))
		}
	}
}

// RunCycle performs one poll cycle. Enrichment failures degrade to default
// snapshots and never fail the cycle; a feed fetch failure fails the whole
// cycle (there is nothing to process), and persistence failures are collected
// into the returned error after every candidate has been attempted.
func (o *Orchestrator) RunCycle(ctx context.Context) error {
	start := time.Now()

	candidates, pageInfo, err := o.client.FetchFeed(ctx, o.cfg.PageSize)
	if err != nil {
		return fmt.Errorf("feed fetch failed: %w", err)
	}
	logger.Debug("Fetched %d feed candidates (end_cursor=%q, has_next=%t)",
		len(candidates), pageInfo.EndCursor, pageInfo.HasNextPage)

	accepted := 0
	persistFailures := 0
	for _, cand := range candidates {
		if cand.ID == "" {
			continue
		}
		if o.ledger.Seen(cand.ID) {
			logger.Debug("Broadcast %s already processed, skipping", cand.ID)
			continue
		}
		o.ledger.Mark(cand.ID)

		token := o.client.FetchToken(ctx, cand.BuyTokenID)
		user := o.client.FetchProfile(ctx, cand.Username)
		rec := buildRecord(cand, user, token)

		if err := o.store.Upsert(rec); err != nil {
			// The record is still held in memory and the scheduler still
			// runs; a later outcome write retries the snapshot.
			logger.Error("Failed to persist broadcast %s: %v", cand.ID, err)
			persistFailures++
		}
		o.sched.Schedule(ctx, rec)
		accepted++
		logger.Info("Accepted broadcast %s from %q (buy token %s at %g)",
			cand.ID, cand.Username, cand.BuyTokenID, cand.BuyTokenPrice)
	}

	logger.Info("Ingestion cycle completed in %v: %d candidates, %d accepted, store size %d",
		time.Since(start), len(candidates), accepted, o.store.Len())

	if persistFailures > 0 {
		return fmt.Errorf("%d of %d accepted broadcasts failed to persist", persistFailures, accepted)
	}
	return nil
}
