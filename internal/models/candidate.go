package models

// TokenSummary is the denormalized token view embedded in a feed edge. It is
// a thin subset of TokenSnapshot; the authoritative snapshot is fetched
// separately at acceptance time.
type TokenSummary struct {
	ID       string
	Name     string
	Symbol   string
	Price    float64
	Supply   float64
	Chain    string
	Decimals int
}

// BroadcastCandidate carries the raw facts of one broadcast as yielded by a
// feed page, before deduplication and enrichment.
type BroadcastCandidate struct {
	ID              string
	CreatedAt       string
	UserID          string
	Username        string
	BuyTokenID      string
	BuyTokenAmount  float64
	BuyTokenPrice   float64
	BuyTokenMCap    float64
	SellTokenID     string
	SellTokenAmount float64
	SellTokenPrice  float64
	SellTokenMCap   float64
	Cursor          string
	BuyToken        *TokenSummary
	SellToken       *TokenSummary
}

// PageInfo is the feed pagination state returned alongside each page.
type PageInfo struct {
	EndCursor   string
	HasNextPage bool
}
