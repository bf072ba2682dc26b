package models

// ProfileSnapshot is a best-effort, point-in-time view of a broadcaster's
// profile and leaderboard standing. Any structure the upstream omits degrades
// to its zero value rather than failing the broadcast, with one exception:
// visibility defaults to "PUBLIC", mirroring the upstream's own default.
type ProfileSnapshot struct {
	TwitterUsername      string
	Visibility           string
	IsVerified           bool
	FollowerCount        int
	FolloweeCount        int
	MutualFollowerCount  int
	WeeklyRank           *int
	WeeklyValue          float64
	BestRank             *int
	BestRankValue        float64
	TopThreePnlWinTotal  float64
	TopThreePnlLossTotal float64
	TopThreeVolumeTotal  float64
	DailyPnl             float64
	DailyVolume          float64
	WeeklyPnl            float64
	WeeklyVolume         float64
	SubscriberCount      int
	FollowedByYou        bool
	SubscribedByYou      bool
}

// EmptyProfileSnapshot returns the snapshot used when a profile fetch fails
// or returns nothing usable.
func EmptyProfileSnapshot() ProfileSnapshot {
	return ProfileSnapshot{Visibility: "PUBLIC"}
}

// TokenSnapshot is a best-effort, point-in-time view of a token's market
// stats and metadata. The zero value is the documented "unknown" snapshot.
type TokenSnapshot struct {
	Name                 string
	Symbol               string
	Price                float64
	Supply               float64
	Chain                string
	Liquidity            float64
	Verified             bool
	JupVerified          bool
	Freezable            bool
	Twitter              string
	Telegram             string
	Website              string
	Discord              string
	Volume24h            float64
	Volume6h             float64
	Volume1h             float64
	Volume5min           float64
	BuyVolume24h         float64
	SellVolume24h        float64
	BuyVolume6h          float64
	SellVolume6h         float64
	BuyVolume1h          float64
	SellVolume1h         float64
	BuyVolume5min        float64
	SellVolume5min       float64
	BuyCount24h          int
	SellCount24h         int
	BuyCount6h           int
	SellCount6h          int
	BuyCount1h           int
	SellCount1h          int
	BuyCount5min         int
	SellCount5min        int
	Top10HolderPercent   float64
	Top10HolderPercentV2 float64
}
