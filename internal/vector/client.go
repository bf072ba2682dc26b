// Package vector provides a client for the vector.fun GraphQL API.
// It covers the three queries the ingestion pipeline depends on: the broadcast
// feed, profile lookups, and token screens.
//
// Enrichment lookups (FetchProfile, FetchToken) never fail the caller: any
// transport, status, or decode problem degrades to an empty snapshot, because
// a broadcast with unknown enrichment data is still worth recording. Only the
// feed fetch itself surfaces errors, since without a page there is nothing to
// ingest.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rewired-gh/vectorpulse/internal/logger"
	"github.com/rewired-gh/vectorpulse/internal/models"
)

// ClientConfig holds transport tuning for the vector.fun client.
type ClientConfig struct {
	MaxRetries     int
	RetryDelayBase time.Duration
}

// Client provides access to the vector.fun GraphQL API.
type Client struct {
	endpoint       string
	bearerToken    string
	yourProfileID  string
	httpClient     *http.Client
	maxRetries     int
	retryDelayBase time.Duration
}

// NewClient creates a new vector.fun client. bearerToken may be empty, in
// which case requests are sent unauthenticated. yourProfileID is the operator
// profile used to resolve relationship fields on profile lookups.
func NewClient(endpoint, yourProfileID, bearerToken string, timeout time.Duration, cfg ClientConfig) *Client {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelayBase <= 0 {
		cfg.RetryDelayBase = time.Second
	}
	return &Client{
		endpoint:      endpoint,
		bearerToken:   bearerToken,
		yourProfileID: yourProfileID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries:     cfg.MaxRetries,
		retryDelayBase: cfg.RetryDelayBase,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// FetchFeed retrieves the newest page of broadcasts from the feed. The feed is
// always read from the start (no continuation cursor): at a 1s poll interval
// the newest page covers everything a cursor walk would, and the dedup ledger
// absorbs the overlap between consecutive pages. PageInfo is returned so
// callers can still observe the cursor the upstream handed back.
func (c *Client) FetchFeed(ctx context.Context, first int) ([]models.BroadcastCandidate, models.PageInfo, error) {
	vars := map[string]any{
		"mode":      "ForYou",
		"sortOrder": "Newest",
		"after":     nil,
		"filters": map[string]any{
			"bcastMCap":  nil,
			"direction":  "Buy",
			"lookbackMs": nil,
			"tradeSize":  nil,
		},
		"first": first,
	}

	var resp struct {
		Data struct {
			FeedV3 struct {
				Edges []struct {
					Cursor string `json:"cursor"`
					Node   struct {
						Broadcast *broadcastWire    `json:"broadcast"`
						BuyToken  *tokenSummaryWire `json:"buyToken"`
						SellToken *tokenSummaryWire `json:"sellToken"`
					} `json:"node"`
				} `json:"edges"`
				PageInfo struct {
					EndCursor   string `json:"endCursor"`
					HasNextPage bool   `json:"hasNextPage"`
				} `json:"pageInfo"`
			} `json:"feedV3"`
		} `json:"data"`
	}

	if err := c.doQuery(ctx, feedQuery, vars, &resp); err != nil {
		return nil, models.PageInfo{}, fmt.Errorf("failed to fetch feed: %w", err)
	}

	feed := resp.Data.FeedV3
	candidates := make([]models.BroadcastCandidate, 0, len(feed.Edges))
	for _, edge := range feed.Edges {
		b := edge.Node.Broadcast
		if b == nil || b.ID == "" {
			continue
		}
		cand := models.BroadcastCandidate{
			ID:              b.ID,
			CreatedAt:       b.CreatedAt,
			BuyTokenID:      b.BuyTokenID,
			BuyTokenAmount:  b.BuyTokenAmount,
			BuyTokenPrice:   b.BuyTokenPrice,
			BuyTokenMCap:    b.BuyTokenMCap,
			SellTokenID:     b.SellTokenID,
			SellTokenAmount: b.SellTokenAmount,
			SellTokenPrice:  b.SellTokenPrice,
			SellTokenMCap:   b.SellTokenMCap,
			Cursor:          edge.Cursor,
			BuyToken:        edge.Node.BuyToken.toSummary(),
			SellToken:       edge.Node.SellToken.toSummary(),
		}
		if b.Profile != nil {
			cand.UserID = b.Profile.ID
			cand.Username = b.Profile.Username
		}
		candidates = append(candidates, cand)
	}

	return candidates, models.PageInfo{
		EndCursor:   feed.PageInfo.EndCursor,
		HasNextPage: feed.PageInfo.HasNextPage,
	}, nil
}

// FetchProfile retrieves a best-effort profile snapshot for a username.
// Failures of any kind degrade to the empty snapshot.
func (c *Client) FetchProfile(ctx context.Context, username string) models.ProfileSnapshot {
	vars := map[string]any{
		"username":      username,
		"yourProfileId": c.yourProfileID,
	}

	var resp struct {
		Data struct {
			Profile *profileWire `json:"profile"`
		} `json:"data"`
	}

	if err := c.doQuery(ctx, profileQuery, vars, &resp); err != nil {
		logger.Warn("Profile fetch for %q failed, recording defaults: %v", username, err)
		return models.EmptyProfileSnapshot()
	}
	if resp.Data.Profile == nil {
		return models.EmptyProfileSnapshot()
	}
	return resp.Data.Profile.toSnapshot()
}

// FetchToken retrieves a best-effort market snapshot for a token. An empty
// tokenID short-circuits to the empty snapshot without a network round trip;
// failures of any kind degrade the same way.
func (c *Client) FetchToken(ctx context.Context, tokenID string) models.TokenSnapshot {
	if tokenID == "" {
		return models.TokenSnapshot{}
	}

	vars := map[string]any{"id": tokenID}

	var resp struct {
		Data struct {
			Token *tokenWire `json:"token"`
		} `json:"data"`
	}

	if err := c.doQuery(ctx, tokenQuery, vars, &resp); err != nil {
		logger.Warn("Token fetch for %s failed, recording defaults: %v", tokenID, err)
		return models.TokenSnapshot{}
	}
	if resp.Data.Token == nil {
		return models.TokenSnapshot{}
	}
	return resp.Data.Token.toSnapshot()
}

// doQuery posts a GraphQL document and decodes the response, retrying
// transport failures and 5xx responses with linear backoff.
func (c *Client) doQuery(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to marshal query: %w", err)
	}

	var lastErr error
	for i := 0; i < c.maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		if c.bearerToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.bearerToken)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if !sleepCtx(ctx, c.retryDelayBase*time.Duration(i+1)) {
				return ctx.Err()
			}
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			if !sleepCtx(ctx, c.retryDelayBase*time.Duration(i+1)) {
				return ctx.Err()
			}
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// sleepCtx sleeps for d or until ctx is cancelled; it reports whether the
// full duration elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
