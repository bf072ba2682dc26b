package vector

import "github.com/rewired-gh/vectorpulse/internal/models"

// Wire types mirror the upstream GraphQL response shapes. JSON null decodes
// into the Go zero value, which is exactly the degrade-to-default behavior the
// pipeline wants; pointers are used only where "absent" and "zero" must stay
// distinguishable (leaderboard ranks, optional nested objects).

type broadcastWire struct {
	ID              string  `json:"id"`
	BuyTokenID      string  `json:"buyTokenId"`
	BuyTokenAmount  float64 `json:"buyTokenAmount"`
	BuyTokenPrice   float64 `json:"buyTokenPrice"`
	BuyTokenMCap    float64 `json:"buyTokenMCap"`
	SellTokenID     string  `json:"sellTokenId"`
	SellTokenAmount float64 `json:"sellTokenAmount"`
	SellTokenPrice  float64 `json:"sellTokenPrice"`
	SellTokenMCap   float64 `json:"sellTokenMCap"`
	CreatedAt       string  `json:"createdAt"`
	Profile         *struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	} `json:"profile"`
}

type tokenSummaryWire struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Price    float64 `json:"price"`
	Supply   float64 `json:"supply"`
	Chain    string  `json:"chain"`
	Decimals int     `json:"decimals"`
}

func (t *tokenSummaryWire) toSummary() *models.TokenSummary {
	if t == nil {
		return nil
	}
	return &models.TokenSummary{
		ID:       t.ID,
		Name:     t.Name,
		Symbol:   t.Symbol,
		Price:    t.Price,
		Supply:   t.Supply,
		Chain:    t.Chain,
		Decimals: t.Decimals,
	}
}

type leaderboardStandingWire struct {
	Rank  *int    `json:"rank"`
	Value float64 `json:"value"`
}

type leaderboardValuesWire struct {
	Pnl          float64 `json:"pnl"`
	Volume       float64 `json:"volume"`
	MaxTradeSize float64 `json:"maxTradeSize"`
}

type profileWire struct {
	ID                string                   `json:"id"`
	Username          string                   `json:"username"`
	TwitterUsername   string                   `json:"twitterUsername"`
	Visibility        string                   `json:"visibility"`
	IsVerified        bool                     `json:"isVerified"`
	FollowerCount     int                      `json:"followerCount"`
	FolloweeCount     int                      `json:"followeeCount"`
	MutualFollowersV2 *struct {
		TotalCount int `json:"totalCount"`
	} `json:"mutualFollowersV2"`
	WeeklyLeaderboardStanding *leaderboardStandingWire `json:"weeklyLeaderboardStanding"`
	BestEverStanding          *leaderboardStandingWire `json:"bestEverStanding"`
	TopThreePnlWin            []float64                `json:"topThreePnlWin"`
	TopThreePnlLoss           []float64                `json:"topThreePnlLoss"`
	TopThreeVolume            []float64                `json:"topThreeVolume"`
	ProfileLeaderboardValues  *struct {
		Daily  *leaderboardValuesWire `json:"daily"`
		Weekly *leaderboardValuesWire `json:"weekly"`
	} `json:"profileLeaderboardValues"`
	SubscribedByProfileV2 bool `json:"subscribedByProfileV2"`
	SubscriberCountV2     int  `json:"subscriberCountV2"`
	FollowedByProfile     bool `json:"followedByProfile"`
}

func (p *profileWire) toSnapshot() models.ProfileSnapshot {
	snap := models.ProfileSnapshot{
		TwitterUsername: p.TwitterUsername,
		Visibility:      p.Visibility,
		IsVerified:      p.IsVerified,
		FollowerCount:   p.FollowerCount,
		FolloweeCount:   p.FolloweeCount,
		SubscriberCount: p.SubscriberCountV2,
		FollowedByYou:   p.FollowedByProfile,
		SubscribedByYou: p.SubscribedByProfileV2,
	}
	if snap.Visibility == "" {
		snap.Visibility = "PUBLIC"
	}
	if p.MutualFollowersV2 != nil {
		snap.MutualFollowerCount = p.MutualFollowersV2.TotalCount
	}
	if p.WeeklyLeaderboardStanding != nil {
		snap.WeeklyRank = p.WeeklyLeaderboardStanding.Rank
		snap.WeeklyValue = p.WeeklyLeaderboardStanding.Value
	}
	if p.BestEverStanding != nil {
		snap.BestRank = p.BestEverStanding.Rank
		snap.BestRankValue = p.BestEverStanding.Value
	}
	snap.TopThreePnlWinTotal = sum(p.TopThreePnlWin)
	snap.TopThreePnlLossTotal = sum(p.TopThreePnlLoss)
	snap.TopThreeVolumeTotal = sum(p.TopThreeVolume)
	if plv := p.ProfileLeaderboardValues; plv != nil {
		if plv.Daily != nil {
			snap.DailyPnl = plv.Daily.Pnl
			snap.DailyVolume = plv.Daily.Volume
		}
		if plv.Weekly != nil {
			snap.WeeklyPnl = plv.Weekly.Pnl
			snap.WeeklyVolume = plv.Weekly.Volume
		}
	}
	return snap
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}

type tokenWire struct {
	ID                   string  `json:"id"`
	Chain                string  `json:"chain"`
	Address              string  `json:"address"`
	Decimals             int     `json:"decimals"`
	Name                 string  `json:"name"`
	Symbol               string  `json:"symbol"`
	Price                float64 `json:"price"`
	Supply               float64 `json:"supply"`
	Verified             bool    `json:"verified"`
	JupVerified          bool    `json:"jupVerified"`
	Freezable            bool    `json:"freezable"`
	Liquidity            float64 `json:"liquidity"`
	Volume24h            float64 `json:"volume24h"`
	Volume6h             float64 `json:"volume6h"`
	Volume1h             float64 `json:"volume1h"`
	Volume5min           float64 `json:"volume5min"`
	BuyVolume24h         float64 `json:"buyVolume24h"`
	SellVolume24h        float64 `json:"sellVolume24h"`
	BuyVolume6h          float64 `json:"buyVolume6h"`
	SellVolume6h         float64 `json:"sellVolume6h"`
	BuyVolume1h          float64 `json:"buyVolume1h"`
	SellVolume1h         float64 `json:"sellVolume1h"`
	BuyVolume5min        float64 `json:"buyVolume5min"`
	SellVolume5min       float64 `json:"sellVolume5min"`
	BuyCount24h          int     `json:"buyCount24h"`
	SellCount24h         int     `json:"sellCount24h"`
	BuyCount6h           int     `json:"buyCount6h"`
	SellCount6h          int     `json:"sellCount6h"`
	BuyCount1h           int     `json:"buyCount1h"`
	SellCount1h          int     `json:"sellCount1h"`
	BuyCount5min         int     `json:"buyCount5min"`
	SellCount5min        int     `json:"sellCount5min"`
	Twitter              string  `json:"twitter"`
	Telegram             string  `json:"telegram"`
	Website              string  `json:"website"`
	Discord              string  `json:"discord"`
	Top10HolderPercent   float64 `json:"top10HolderPercent"`
	Top10HolderPercentV2 float64 `json:"top10HolderPercentV2"`
}

func (t *tokenWire) toSnapshot() models.TokenSnapshot {
	return models.TokenSnapshot{
		Name:                 t.Name,
		Symbol:               t.Symbol,
		Price:                t.Price,
		Supply:               t.Supply,
		Chain:                t.Chain,
		Liquidity:            t.Liquidity,
		Verified:             t.Verified,
		JupVerified:          t.JupVerified,
		Freezable:            t.Freezable,
		Twitter:              t.Twitter,
		Telegram:             t.Telegram,
		Website:              t.Website,
		Discord:              t.Discord,
		Volume24h:            t.Volume24h,
		Volume6h:             t.Volume6h,
		Volume1h:             t.Volume1h,
		Volume5min:           t.Volume5min,
		BuyVolume24h:         t.BuyVolume24h,
		SellVolume24h:        t.SellVolume24h,
		BuyVolume6h:          t.BuyVolume6h,
		SellVolume6h:         t.SellVolume6h,
		BuyVolume1h:          t.BuyVolume1h,
		SellVolume1h:         t.SellVolume1h,
		BuyVolume5min:        t.BuyVolume5min,
		SellVolume5min:       t.SellVolume5min,
		BuyCount24h:          t.BuyCount24h,
		SellCount24h:         t.SellCount24h,
		BuyCount6h:           t.BuyCount6h,
		SellCount6h:          t.SellCount6h,
		BuyCount1h:           t.BuyCount1h,
		SellCount1h:          t.SellCount1h,
		BuyCount5min:         t.BuyCount5min,
		SellCount5min:        t.SellCount5min,
		Top10HolderPercent:   t.Top10HolderPercent,
		Top10HolderPercentV2: t.Top10HolderPercentV2,
	}
}
