// Package models defines the core domain entities for the vectorpulse application.
// These models represent trade broadcasts pulled from the vector.fun feed, the
// profile and token snapshots used to enrich them, and the delayed price-drift
// outcomes recorded against each broadcast.
//
// Terminology (matching vector.fun's own naming):
//   - Broadcast: a single trade a profile shares to the feed. This is the unit we track.
//   - Baseline price: the buy-token price the broadcast itself reported, used as
//     the reference point for all later drift measurements.
package models

import (
	"errors"
	"fmt"
)

// Horizon identifies one of the three delayed price-drift evaluations run
// against every accepted broadcast.
type Horizon int

const (
	// Horizon30s is evaluated 30 seconds after acceptance.
	Horizon30s Horizon = iota
	// Horizon1m is evaluated 30 seconds after the 30s evaluation completes.
	Horizon1m
	// Horizon5m is evaluated 4 minutes after the 1m evaluation completes.
	Horizon5m
)

// Horizons lists all evaluation horizons in execution order.
var Horizons = []Horizon{Horizon30s, Horizon1m, Horizon5m}

func (h Horizon) String() string {
	switch h {
	case Horizon30s:
		return "30s"
	case Horizon1m:
		return "1m"
	case Horizon5m:
		return "5m"
	default:
		return fmt.Sprintf("Horizon(%d)", int(h))
	}
}

// BroadcastRecord is the enriched, persisted form of one accepted broadcast.
// Broadcast facts and the user/token snapshots are captured once, at acceptance
// time, and never change afterwards. Only the outcome fields (variance and won,
// one pair per horizon) mutate post-creation, and each pair is set exactly once.
type BroadcastRecord struct {
	// Broadcast facts, as reported by the broadcast itself.
	BroadcastID         string
	CreatedAt           string
	UserID              string
	UserUsername        string
	BuyTokenID          string
	BuyTokenAmount      float64
	BuyTokenPriceBcast  float64
	BuyTokenMCapBcast   float64
	SellTokenID         string
	SellTokenAmount     float64
	SellTokenPriceBcast float64
	SellTokenMCapBcast  float64
	HasBuyToken         int
	HasSellToken        int

	// User snapshot, fetched once at acceptance time.
	UserTwitterUsername       string
	UserIsVerified            bool
	UserIsVerifiedBinary      int
	UserFollowerCount         int
	UserFolloweeCount         int
	UserMutualFollowerCount   int
	UserMutualFollowersBinary int
	UserVisibility            string
	UserVisiblePublic         int
	UserWeeklyRank            *int
	UserWeeklyValue           float64
	UserWeeklyRankIsTop100    int
	UserBestRank              *int
	UserBestRankValue         float64
	UserBestRankIsTop100      int
	UserTopThreePnlWinTotal   float64
	UserTopThreePnlLossTotal  float64
	UserTopThreeVolumeTotal   float64
	UserDailyPnl              float64
	UserDailyVolume           float64
	UserWeeklyPnl             float64
	UserWeeklyVolume          float64
	UserSubscriberCount       int
	UserHasSubscribers        int
	UserFollowedByYou         bool
	UserFollowedByYouBinary   int
	UserSubscribedByYou       bool
	UserSubscribedByYouBinary int
	UserHasTwitter            int

	// Buy-token snapshot, fetched once at acceptance time.
	BuyTokenName                 string
	BuyTokenSymbol               string
	BuyTokenPrice                float64
	BuyTokenSupply               float64
	BuyTokenChain                string
	BuyTokenLiquidity            float64
	BuyTokenHasLiquidity         int
	BuyTokenVolume24h            float64
	BuyTokenVolume6h             float64
	BuyTokenVolume1h             float64
	BuyTokenVolume5min           float64
	BuyTokenBuyVolume24h         float64
	BuyTokenSellVolume24h        float64
	BuyTokenBuyVolume6h          float64
	BuyTokenSellVolume6h         float64
	BuyTokenBuyVolume1h          float64
	BuyTokenSellVolume1h         float64
	BuyTokenBuyVolume5min        float64
	BuyTokenSellVolume5min       float64
	BuyTokenBuyCount24h          int
	BuyTokenSellCount24h         int
	BuyTokenBuyCount6h           int
	BuyTokenSellCount6h          int
	BuyTokenBuyCount1h           int
	BuyTokenSellCount1h          int
	BuyTokenBuyCount5min         int
	BuyTokenSellCount5min        int
	BuyTokenVerified             bool
	BuyTokenIsVerified           int
	BuyTokenJupVerified          bool
	BuyTokenIsJupVerified        int
	BuyTokenFreezable            bool
	BuyTokenIsFreezable          int
	BuyTokenTwitter              string
	BuyTokenHasTwitter           int
	BuyTokenTelegram             string
	BuyTokenHasTelegram          int
	BuyTokenWebsite              string
	BuyTokenHasWebsite           int
	BuyTokenDiscord              string
	BuyTokenHasDiscord           int
	BuyTokenTop10HolderPercent   float64
	BuyTokenTop10HolderPercentV2 float64

	// Outcome fields, nil until the corresponding horizon completes.
	Price30sVariance *float64
	Price1mVariance  *float64
	Price5mVariance  *float64
	Won30s           *bool
	Won1m            *bool
	Won5m            *bool
}

// Validate checks that the record's invariant fields are well-formed.
func (r *BroadcastRecord) Validate() error {
	if r.BroadcastID == "" {
		return errors.New("broadcast ID must not be empty")
	}
	if r.HasBuyToken != 0 && r.HasBuyToken != 1 {
		return errors.New("broadcast_has_buy_token must be 0 or 1")
	}
	if r.HasSellToken != 0 && r.HasSellToken != 1 {
		return errors.New("broadcast_has_sell_token must be 0 or 1")
	}
	if r.BuyTokenPriceBcast < 0 {
		return errors.New("baseline buy token price must not be negative")
	}
	if r.UserFollowerCount < 0 || r.UserFolloweeCount < 0 {
		return errors.New("follower counts must not be negative")
	}
	return nil
}

// Outcome returns the variance and won values recorded for the given horizon.
// Both are nil until the horizon's evaluation has completed.
func (r *BroadcastRecord) Outcome(h Horizon) (variance *float64, won *bool) {
	switch h {
	case Horizon30s:
		return r.Price30sVariance, r.Won30s
	case Horizon1m:
		return r.Price1mVariance, r.Won1m
	case Horizon5m:
		return r.Price5mVariance, r.Won5m
	}
	return nil, nil
}

// OutcomeSet reports whether the given horizon's outcome has been recorded.
func (r *BroadcastRecord) OutcomeSet(h Horizon) bool {
	v, _ := r.Outcome(h)
	return v != nil
}

// SetOutcome records the variance and won flag for a horizon. Outcomes are
// write-once: recording a horizon that is already set is an error, so a stale
// or duplicated evaluation can never clobber an earlier result.
func (r *BroadcastRecord) SetOutcome(h Horizon, variance float64, won bool) error {
	if r.OutcomeSet(h) {
		return fmt.Errorf("outcome for horizon %s already set on broadcast %s", h, r.BroadcastID)
	}
	switch h {
	case Horizon30s:
		r.Price30sVariance, r.Won30s = &variance, &won
	case Horizon1m:
		r.Price1mVariance, r.Won1m = &variance, &won
	case Horizon5m:
		r.Price5mVariance, r.Won5m = &variance, &won
	default:
		return fmt.Errorf("unknown horizon %d", int(h))
	}
	return nil
}

// Clone returns a deep copy of the record. Pointer-valued outcome and rank
// fields are copied so mutations on the clone never alias the original.
func (r *BroadcastRecord) Clone() *BroadcastRecord {
	c := *r
	c.UserWeeklyRank = cloneInt(r.UserWeeklyRank)
	c.UserBestRank = cloneInt(r.UserBestRank)
	c.Price30sVariance = cloneFloat(r.Price30sVariance)
	c.Price1mVariance = cloneFloat(r.Price1mVariance)
	c.Price5mVariance = cloneFloat(r.Price5mVariance)
	c.Won30s = cloneBool(r.Won30s)
	c.Won1m = cloneBool(r.Won1m)
	c.Won5m = cloneBool(r.Won5m)
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneBool(p *bool) *bool {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
