package vector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rewired-gh/vectorpulse/internal/models"
)

func testClient(endpoint, bearerToken string) *Client {
	return NewClient(endpoint, "profile-me", bearerToken, 5*time.Second, ClientConfig{
		MaxRetries:     3,
		RetryDelayBase: time.Millisecond,
	})
}

const feedResponse = `{
	"data": {
		"feedV3": {
			"edges": [
				{
					"cursor": "cur-1",
					"node": {
						"broadcast": {
							"id": "b1",
							"buyTokenId": "token-1",
							"buyTokenAmount": 1000,
							"buyTokenPrice": 0.5,
							"buyTokenMCap": 500000,
							"sellTokenId": "sol",
							"sellTokenAmount": 2,
							"sellTokenPrice": 150,
							"sellTokenMCap": 0,
							"createdAt": "2026-08-30T12:00:00Z",
							"profile": {"id": "user-1", "username": "trader"}
						},
						"buyToken": {"id": "token-1", "symbol": "TST", "price": 0.5, "chain": "SOLANA"},
						"sellToken": null
					}
				},
				{
					"cursor": "cur-2",
					"node": {"broadcast": null, "buyToken": null, "sellToken": null}
				}
			],
			"pageInfo": {"endCursor": "cur-2", "hasNextPage": true}
		}
	}
}`

func TestFetchFeed(t *testing.T) {
	var gotAuth string
	var gotVars map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		gotVars = req.Variables
		w.Write([]byte(feedResponse))
	}))
	defer server.Close()

	client := testClient(server.URL, "secret-token")
	candidates, pageInfo, err := client.FetchFeed(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchFeed failed: %v", err)
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Expected bearer header, got %q", gotAuth)
	}
	if gotVars["after"] != nil {
		t.Errorf("Feed must always be read from the start, got after=%v", gotVars["after"])
	}
	filters, _ := gotVars["filters"].(map[string]any)
	if filters["direction"] != "Buy" {
		t.Errorf("Expected Buy direction filter, got %v", filters["direction"])
	}
	if gotVars["first"] != float64(10) {
		t.Errorf("Expected first=10, got %v", gotVars["first"])
	}

	// The null-broadcast edge is dropped.
	if len(candidates) != 1 {
		t.Fatalf("Expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.ID != "b1" || c.UserID != "user-1" || c.Username != "trader" {
		t.Errorf("Candidate identity wrong: %+v", c)
	}
	if c.BuyTokenID != "token-1" || c.BuyTokenPrice != 0.5 {
		t.Errorf("Candidate buy side wrong: %+v", c)
	}
	if c.BuyToken == nil || c.BuyToken.Symbol != "TST" {
		t.Error("Buy token summary not carried over")
	}
	if c.SellToken != nil {
		t.Error("Null sell token should stay nil")
	}
	if pageInfo.EndCursor != "cur-2" || !pageInfo.HasNextPage {
		t.Errorf("Page info wrong: %+v", pageInfo)
	}
}

func TestFetchFeedNoBearerHeaderWhenUnauthenticated(t *testing.T) {
	var sawAuth atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth.Store(true)
		}
		w.Write([]byte(feedResponse))
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	if _, _, err := client.FetchFeed(context.Background(), 10); err != nil {
		t.Fatalf("FetchFeed failed: %v", err)
	}
	if sawAuth.Load() {
		t.Error("Unauthenticated client must not send an Authorization header")
	}
}

func TestFetchFeedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(feedResponse))
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	candidates, _, err := client.FetchFeed(context.Background(), 10)
	if err != nil {
		t.Fatalf("Expected retry to recover, got %v", err)
	}
	if len(candidates) != 1 {
		t.Errorf("Expected 1 candidate after recovery, got %d", len(candidates))
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchFeedDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	if _, _, err := client.FetchFeed(context.Background(), 10); err == nil {
		t.Error("Expected error for 403 response")
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d attempts", calls.Load())
	}
}

func TestFetchFeedExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	if _, _, err := client.FetchFeed(context.Background(), 10); err == nil {
		t.Error("Expected error after exhausting retries")
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetchProfileParsesNestedStructures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"profile": {
					"id": "user-1",
					"username": "trader",
					"twitterUsername": "trader_x",
					"visibility": null,
					"isVerified": true,
					"followerCount": 321,
					"followeeCount": 12,
					"mutualFollowersV2": {"totalCount": 5},
					"weeklyLeaderboardStanding": {"rank": 7, "value": 1234.5},
					"bestEverStanding": {"rank": null, "value": 0},
					"topThreePnlWin": [10, 20, 30],
					"topThreePnlLoss": [-5, -15],
					"topThreeVolume": [100, 200, 300],
					"profileLeaderboardValues": {
						"daily": {"pnl": 42, "volume": 1000, "maxTradeSize": 50},
						"weekly": null
					},
					"subscribedByProfileV2": false,
					"subscriberCountV2": 9,
					"followedByProfile": true
				}
			}
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	p := client.FetchProfile(context.Background(), "trader")

	if p.Visibility != "PUBLIC" {
		t.Errorf("Null visibility should default to PUBLIC, got %q", p.Visibility)
	}
	if p.TwitterUsername != "trader_x" || !p.IsVerified || p.FollowerCount != 321 {
		t.Errorf("Basic fields wrong: %+v", p)
	}
	if p.MutualFollowerCount != 5 {
		t.Errorf("Mutual follower count = %d, want 5", p.MutualFollowerCount)
	}
	if p.WeeklyRank == nil || *p.WeeklyRank != 7 || p.WeeklyValue != 1234.5 {
		t.Errorf("Weekly standing wrong: rank=%v value=%v", p.WeeklyRank, p.WeeklyValue)
	}
	if p.BestRank != nil {
		t.Errorf("Null best rank should stay nil, got %v", *p.BestRank)
	}
	if p.TopThreePnlWinTotal != 60 || p.TopThreePnlLossTotal != -20 || p.TopThreeVolumeTotal != 600 {
		t.Errorf("Top three totals wrong: %+v", p)
	}
	if p.DailyPnl != 42 || p.WeeklyPnl != 0 {
		t.Errorf("Leaderboard values wrong: daily=%v weekly=%v", p.DailyPnl, p.WeeklyPnl)
	}
	if !p.FollowedByYou || p.SubscribedByYou || p.SubscriberCount != 9 {
		t.Errorf("Relationship fields wrong: %+v", p)
	}
}

func TestFetchProfileDegradesToDefaults(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
		{"null profile", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"data": {"profile": null}}`))
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			server := httptest.NewServer(c.handler)
			defer server.Close()

			client := testClient(server.URL, "")
			p := client.FetchProfile(context.Background(), "trader")
			if p.Visibility != "PUBLIC" {
				t.Errorf("Expected default snapshot, got %+v", p)
			}
			if p.FollowerCount != 0 || p.WeeklyRank != nil {
				t.Errorf("Expected zero values, got %+v", p)
			}
		})
	}
}

func TestFetchTokenEmptyIDSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	snap := client.FetchToken(context.Background(), "")
	if calls.Load() != 0 {
		t.Error("Empty token ID must not hit the network")
	}
	if snap.Price != 0 || snap.Symbol != "" {
		t.Errorf("Expected empty snapshot, got %+v", snap)
	}
}

func TestFetchTokenParsesSnapshot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"data": {
				"token": {
					"id": "token-1",
					"chain": "SOLANA",
					"name": "Test Token",
					"symbol": "TST",
					"price": 0.00042,
					"supply": 1000000000,
					"verified": true,
					"jupVerified": false,
					"freezable": false,
					"liquidity": 9999.5,
					"volume24h": 123456,
					"buyCount1h": 17,
					"twitter": "https://x.com/tst",
					"top10HolderPercent": 31.5
				}
			}
		}`))
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	snap := client.FetchToken(context.Background(), "token-1")
	if snap.Symbol != "TST" || snap.Price != 0.00042 || snap.Chain != "SOLANA" {
		t.Errorf("Basic fields wrong: %+v", snap)
	}
	if !snap.Verified || snap.JupVerified {
		t.Errorf("Verification flags wrong: %+v", snap)
	}
	if snap.Liquidity != 9999.5 || snap.Volume24h != 123456 || snap.BuyCount1h != 17 {
		t.Errorf("Market stats wrong: %+v", snap)
	}
	if snap.Twitter != "https://x.com/tst" || snap.Top10HolderPercent != 31.5 {
		t.Errorf("Metadata wrong: %+v", snap)
	}
}

func TestFetchTokenDegradesToDefaults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"token": null}}`))
	}))
	defer server.Close()

	client := testClient(server.URL, "")
	snap := client.FetchToken(context.Background(), "token-1")
	if snap != (models.TokenSnapshot{}) {
		t.Errorf("Expected zero snapshot, got %+v", snap)
	}
}
