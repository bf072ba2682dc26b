package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rewired-gh/vectorpulse/internal/ledger"
	"github.com/rewired-gh/vectorpulse/internal/models"
	"github.com/rewired-gh/vectorpulse/internal/scheduler"
	"github.com/rewired-gh/vectorpulse/internal/store"
)

type fakeClient struct {
	mu       sync.Mutex
	feed     []models.BroadcastCandidate
	feedErr  error
	profiles map[string]models.ProfileSnapshot
	tokens   map[string]models.TokenSnapshot
}

func (f *fakeClient) FetchFeed(_ context.Context, _ int) ([]models.BroadcastCandidate, models.PageInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.feedErr != nil {
		return nil, models.PageInfo{}, f.feedErr
	}
	return append([]models.BroadcastCandidate(nil), f.feed...), models.PageInfo{}, nil
}

func (f *fakeClient) FetchProfile(_ context.Context, username string) models.ProfileSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profiles[username]; ok {
		return p
	}
	return models.EmptyProfileSnapshot()
}

func (f *fakeClient) FetchToken(_ context.Context, tokenID string) models.TokenSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens[tokenID]
}

func candidate(id string) models.BroadcastCandidate {
	return models.BroadcastCandidate{
		ID:            id,
		CreatedAt:     "2026-08-30T12:00:00Z",
		UserID:        "user-1",
		Username:      "trader",
		BuyTokenID:    "token-1",
		BuyTokenPrice: 100,
	}
}

func newTestOrchestrator(t *testing.T, client *fakeClient) (*Orchestrator, *store.Store, *scheduler.Scheduler) {
	t.Helper()
	st := store.New(filepath.Join(t.TempDir(), "enriched_broadcasts.csv"), 0o644, 0o755)
	t.Cleanup(st.Close)
	led := ledger.New(nil)
	sched := scheduler.New(
		scheduler.Config{
			Waits:        [3]time.Duration{time.Millisecond, time.Millisecond, time.Millisecond},
			WinThreshold: 25.0,
		},
		client, st, nil,
	)
	orch := New(Config{PollInterval: time.Hour, PageSize: 10}, client, st, led, sched)
	return orch, st, sched
}

func TestRunCycleAcceptsNewBroadcasts(t *testing.T) {
	client := &fakeClient{
		feed: []models.BroadcastCandidate{candidate("b1"), candidate("b2")},
		tokens: map[string]models.TokenSnapshot{
			"token-1": {Symbol: "TST", Price: 130, Liquidity: 5000},
		},
	}
	orch, st, sched := newTestOrchestrator(t, client)

	if err := orch.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	sched.Drain()

	if st.Len() != 2 {
		t.Fatalf("Expected 2 persisted broadcasts, got %d", st.Len())
	}

	rec, ok := st.Get("b1")
	if !ok {
		t.Fatal("b1 missing from store")
	}
	if rec.BuyTokenSymbol != "TST" {
		t.Errorf("Enrichment did not reach the record: symbol %q", rec.BuyTokenSymbol)
	}
	// All three horizons settled: price went from 100 to 130.
	for _, h := range models.Horizons {
		variance, won := rec.Outcome(h)
		if variance == nil {
			t.Fatalf("Horizon %s never settled", h)
		}
		if *variance != 30 || won == nil || !*won {
			t.Errorf("Horizon %s: variance %v won %v, want 30 and true", h, *variance, won)
		}
	}
}

func TestRunCycleIsIdempotentAcrossCycles(t *testing.T) {
	client := &fakeClient{feed: []models.BroadcastCandidate{candidate("b1")}}
	orch, st, sched := newTestOrchestrator(t, client)

	ctx := context.Background()
	if err := orch.RunCycle(ctx); err != nil {
		t.Fatalf("First cycle failed: %v", err)
	}
	// The same feed page comes back on the next poll.
	if err := orch.RunCycle(ctx); err != nil {
		t.Fatalf("Second cycle failed: %v", err)
	}
	sched.Drain()

	if st.Len() != 1 {
		t.Errorf("Duplicate feed entries produced %d records, want 1", st.Len())
	}
	rec, _ := st.Get("b1")
	for _, h := range models.Horizons {
		if !rec.OutcomeSet(h) {
			t.Errorf("Horizon %s unset: duplicate acceptance may have split the schedule", h)
		}
	}
}

func TestRunCycleSkipsEmptyIDs(t *testing.T) {
	client := &fakeClient{feed: []models.BroadcastCandidate{candidate(""), candidate("b1")}}
	orch, st, sched := newTestOrchestrator(t, client)

	if err := orch.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	sched.Drain()

	if st.Len() != 1 {
		t.Errorf("Expected only the identified candidate stored, got %d", st.Len())
	}
}

func TestRunCycleFeedFailure(t *testing.T) {
	client := &fakeClient{feedErr: errors.New("upstream 500")}
	orch, st, _ := newTestOrchestrator(t, client)

	if err := orch.RunCycle(context.Background()); err == nil {
		t.Error("Expected cycle error when the feed fetch fails")
	}
	if st.Len() != 0 {
		t.Errorf("Failed cycle should persist nothing, got %d records", st.Len())
	}
}

func TestRunCycleDegradedEnrichmentStillAccepts(t *testing.T) {
	// No profile or token data configured: both enrichments degrade to
	// defaults, the broadcast is accepted anyway.
	client := &fakeClient{feed: []models.BroadcastCandidate{candidate("b1")}}
	orch, st, sched := newTestOrchestrator(t, client)

	if err := orch.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	sched.Drain()

	rec, ok := st.Get("b1")
	if !ok {
		t.Fatal("Degraded broadcast was not stored")
	}
	if rec.UserVisibility != "PUBLIC" || rec.UserVisiblePublic != 1 {
		t.Errorf("Expected default PUBLIC visibility, got %q", rec.UserVisibility)
	}
	if rec.BuyTokenSymbol != "" || rec.BuyTokenPrice != 0 {
		t.Error("Expected zero-value token snapshot on degraded enrichment")
	}
}

func TestRunCyclePersistFailureStillSchedules(t *testing.T) {
	bad := candidate("b1")
	bad.BuyTokenPrice = -1 // fails record validation, so the upsert is rejected
	client := &fakeClient{feed: []models.BroadcastCandidate{bad}}
	orch, st, sched := newTestOrchestrator(t, client)

	err := orch.RunCycle(context.Background())
	if err == nil {
		t.Error("Expected cycle error when persistence fails")
	}
	sched.Drain()

	if st.Len() != 0 {
		t.Errorf("Rejected record should not be stored, got %d", st.Len())
	}
	// Second cycle with the same feed: the ledger already holds b1, so the
	// cycle is clean.
	if err := orch.RunCycle(context.Background()); err != nil {
		t.Errorf("Expected clean second cycle, got %v", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	client := &fakeClient{feed: []models.BroadcastCandidate{candidate("b1")}}
	orch, _, sched := newTestOrchestrator(t, client)

	ctx, cancel := context.WithCancel(context.Background())
	results := make(chan error, 4)
	done := make(chan struct{})
	go func() {
		orch.Run(ctx, func(err error) { results <- err })
		close(done)
	}()

	// The immediate first cycle reports before any tick.
	select {
	case err := <-results:
		if err != nil {
			t.Errorf("First cycle failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("First cycle never reported")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	sched.Drain()
}
