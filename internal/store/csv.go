package store

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rewired-gh/vectorpulse/internal/models"
)

// columns is the persisted column set, in the fixed order every snapshot is
// written with. The header row of the CSV file must match this list exactly.
var columns = []string{
	"broadcast_id", "created_at",
	"user_id", "user_username",
	"buy_token_id", "buy_token_amount", "buy_token_price_bcast", "buy_token_mcap_bcast",
	"sell_token_id", "sell_token_amount", "sell_token_price_bcast", "sell_token_mcap_bcast",
	"broadcast_has_buy_token", "broadcast_has_sell_token",
	"user_twitter_username", "user_is_verified", "user_is_verified_binary",
	"user_follower_count", "user_followee_count", "user_mutual_follower_count",
	"user_mutual_followers_binary",
	"user_visibility", "user_visible_public",
	"user_weekly_rank", "user_weekly_value",
	"user_weekly_rank_is_top100",
	"user_best_rank", "user_best_rank_value",
	"user_best_rank_is_top100",
	"user_top_three_pnl_win_total",
	"user_top_three_pnl_loss_total",
	"user_top_three_volume_total",
	"user_daily_pnl", "user_daily_volume",
	"user_weekly_pnl", "user_weekly_volume",
	"user_subscriber_count", "user_has_subscribers",
	"user_followed_by_you", "user_followed_by_you_binary",
	"user_subscribed_by_you", "user_subscribed_by_you_binary",
	"user_has_twitter",
	"buy_token_name", "buy_token_symbol", "buy_token_price", "buy_token_supply",
	"buy_token_chain", "buy_token_liquidity", "buy_token_has_liquidity",
	"buy_token_volume24h", "buy_token_volume6h", "buy_token_volume1h", "buy_token_volume5min",
	"buy_token_buyVolume24h", "buy_token_sellVolume24h",
	"buy_token_buyVolume6h", "buy_token_sellVolume6h",
	"buy_token_buyVolume1h", "buy_token_sellVolume1h",
	"buy_token_buyVolume5min", "buy_token_sellVolume5min",
	"buy_token_buyCount24h", "buy_token_sellCount24h",
	"buy_token_buyCount6h", "buy_token_sellCount6h",
	"buy_token_buyCount1h", "buy_token_sellCount1h",
	"buy_token_buyCount5min", "buy_token_sellCount5min",
	"buy_token_verified", "buy_token_is_verified",
	"buy_token_jupVerified", "buy_token_is_jupVerified",
	"buy_token_freezable", "buy_token_is_freezable",
	"buy_token_twitter", "buy_token_has_twitter",
	"buy_token_telegram", "buy_token_has_telegram",
	"buy_token_website", "buy_token_has_website",
	"buy_token_discord", "buy_token_has_discord",
	"buy_token_top10HolderPercent", "buy_token_top10HolderPercentV2",
	"price_30s_variance", "price_1m_variance", "price_5m_variance",
	"won_30s", "won_1m", "won_5m",
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func formatOptInt(p *int) string {
	if p == nil {
		return ""
	}
	return strconv.Itoa(*p)
}

func formatOptFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return formatFloat(*p)
}

func formatOptBool(p *bool) string {
	if p == nil {
		return ""
	}
	return strconv.FormatBool(*p)
}

// encodeRecord renders one record as a CSV row in column order.
func encodeRecord(r *models.BroadcastRecord) []string {
	return []string{
		r.BroadcastID, r.CreatedAt,
		r.UserID, r.UserUsername,
		r.BuyTokenID, formatFloat(r.BuyTokenAmount), formatFloat(r.BuyTokenPriceBcast), formatFloat(r.BuyTokenMCapBcast),
		r.SellTokenID, formatFloat(r.SellTokenAmount), formatFloat(r.SellTokenPriceBcast), formatFloat(r.SellTokenMCapBcast),
		strconv.Itoa(r.HasBuyToken), strconv.Itoa(r.HasSellToken),
		r.UserTwitterUsername, strconv.FormatBool(r.UserIsVerified), strconv.Itoa(r.UserIsVerifiedBinary),
		strconv.Itoa(r.UserFollowerCount), strconv.Itoa(r.UserFolloweeCount), strconv.Itoa(r.UserMutualFollowerCount),
		strconv.Itoa(r.UserMutualFollowersBinary),
		r.UserVisibility, strconv.Itoa(r.UserVisiblePublic),
		formatOptInt(r.UserWeeklyRank), formatFloat(r.UserWeeklyValue),
		strconv.Itoa(r.UserWeeklyRankIsTop100),
		formatOptInt(r.UserBestRank), formatFloat(r.UserBestRankValue),
		strconv.Itoa(r.UserBestRankIsTop100),
		formatFloat(r.UserTopThreePnlWinTotal),
		formatFloat(r.UserTopThreePnlLossTotal),
		formatFloat(r.UserTopThreeVolumeTotal),
		formatFloat(r.UserDailyPnl), formatFloat(r.UserDailyVolume),
		formatFloat(r.UserWeeklyPnl), formatFloat(r.UserWeeklyVolume),
		strconv.Itoa(r.UserSubscriberCount), strconv.Itoa(r.UserHasSubscribers),
		strconv.FormatBool(r.UserFollowedByYou), strconv.Itoa(r.UserFollowedByYouBinary),
		strconv.FormatBool(r.UserSubscribedByYou), strconv.Itoa(r.UserSubscribedByYouBinary),
		strconv.Itoa(r.UserHasTwitter),
		r.BuyTokenName, r.BuyTokenSymbol, formatFloat(r.BuyTokenPrice), formatFloat(r.BuyTokenSupply),
		r.BuyTokenChain, formatFloat(r.BuyTokenLiquidity), strconv.Itoa(r.BuyTokenHasLiquidity),
		formatFloat(r.BuyTokenVolume24h), formatFloat(r.BuyTokenVolume6h), formatFloat(r.BuyTokenVolume1h), formatFloat(r.BuyTokenVolume5min),
		formatFloat(r.BuyTokenBuyVolume24h), formatFloat(r.BuyTokenSellVolume24h),
		formatFloat(r.BuyTokenBuyVolume6h), formatFloat(r.BuyTokenSellVolume6h),
		formatFloat(r.BuyTokenBuyVolume1h), formatFloat(r.BuyTokenSellVolume1h),
		formatFloat(r.BuyTokenBuyVolume5min), formatFloat(r.BuyTokenSellVolume5min),
		strconv.Itoa(r.BuyTokenBuyCount24h), strconv.Itoa(r.BuyTokenSellCount24h),
		strconv.Itoa(r.BuyTokenBuyCount6h), strconv.Itoa(r.BuyTokenSellCount6h),
		strconv.Itoa(r.BuyTokenBuyCount1h), strconv.Itoa(r.BuyTokenSellCount1h),
		strconv.Itoa(r.BuyTokenBuyCount5min), strconv.Itoa(r.BuyTokenSellCount5min),
		strconv.FormatBool(r.BuyTokenVerified), strconv.Itoa(r.BuyTokenIsVerified),
		strconv.FormatBool(r.BuyTokenJupVerified), strconv.Itoa(r.BuyTokenIsJupVerified),
		strconv.FormatBool(r.BuyTokenFreezable), strconv.Itoa(r.BuyTokenIsFreezable),
		r.BuyTokenTwitter, strconv.Itoa(r.BuyTokenHasTwitter),
		r.BuyTokenTelegram, strconv.Itoa(r.BuyTokenHasTelegram),
		r.BuyTokenWebsite, strconv.Itoa(r.BuyTokenHasWebsite),
		r.BuyTokenDiscord, strconv.Itoa(r.BuyTokenHasDiscord),
		formatFloat(r.BuyTokenTop10HolderPercent), formatFloat(r.BuyTokenTop10HolderPercentV2),
		formatOptFloat(r.Price30sVariance), formatOptFloat(r.Price1mVariance), formatOptFloat(r.Price5mVariance),
		formatOptBool(r.Won30s), formatOptBool(r.Won1m), formatOptBool(r.Won5m),
	}
}

// rowReader consumes one CSV row cell by cell, remembering the first parse
// failure so decodeRecord can report it with the offending column name.
type rowReader struct {
	row []string
	idx int
	err error
}

func (rr *rowReader) next() string {
	v := rr.row[rr.idx]
	rr.idx++
	return v
}

func (rr *rowReader) fail(err error) {
	if rr.err == nil {
		rr.err = fmt.Errorf("column %q: %w", columns[rr.idx-1], err)
	}
}

func (rr *rowReader) str() string {
	return rr.next()
}

func (rr *rowReader) intVal() int {
	v := rr.next()
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		rr.fail(err)
	}
	return n
}

func (rr *rowReader) floatVal() float64 {
	v := rr.next()
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		rr.fail(err)
	}
	return f
}

// boolVal accepts Go bool literals plus the "True"/"False" spelling found in
// snapshots written by the legacy collector.
func (rr *rowReader) boolVal() bool {
	v := rr.next()
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		rr.fail(err)
	}
	return b
}

func (rr *rowReader) optInt() *int {
	v := rr.next()
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		rr.fail(err)
		return nil
	}
	return &n
}

func (rr *rowReader) optFloat() *float64 {
	v := rr.next()
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		rr.fail(err)
		return nil
	}
	return &f
}

func (rr *rowReader) optBool() *bool {
	v := rr.next()
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		rr.fail(err)
		return nil
	}
	return &b
}

// decodeRecord parses one CSV row (in column order) back into a record.
func decodeRecord(row []string) (*models.BroadcastRecord, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("expected %d columns, got %d", len(columns), len(row))
	}
	rr := &rowReader{row: row}
	r := &models.BroadcastRecord{
		BroadcastID:         rr.str(),
		CreatedAt:           rr.str(),
		UserID:              rr.str(),
		UserUsername:        rr.str(),
		BuyTokenID:          rr.str(),
		BuyTokenAmount:      rr.floatVal(),
		BuyTokenPriceBcast:  rr.floatVal(),
		BuyTokenMCapBcast:   rr.floatVal(),
		SellTokenID:         rr.str(),
		SellTokenAmount:     rr.floatVal(),
		SellTokenPriceBcast: rr.floatVal(),
		SellTokenMCapBcast:  rr.floatVal(),
		HasBuyToken:         rr.intVal(),
		HasSellToken:        rr.intVal(),

		UserTwitterUsername:       rr.str(),
		UserIsVerified:            rr.boolVal(),
		UserIsVerifiedBinary:      rr.intVal(),
		UserFollowerCount:         rr.intVal(),
		UserFolloweeCount:         rr.intVal(),
		UserMutualFollowerCount:   rr.intVal(),
		UserMutualFollowersBinary: rr.intVal(),
		UserVisibility:            rr.str(),
		UserVisiblePublic:         rr.intVal(),
		UserWeeklyRank:            rr.optInt(),
		UserWeeklyValue:           rr.floatVal(),
		UserWeeklyRankIsTop100:    rr.intVal(),
		UserBestRank:              rr.optInt(),
		UserBestRankValue:         rr.floatVal(),
		UserBestRankIsTop100:      rr.intVal(),
		UserTopThreePnlWinTotal:   rr.floatVal(),
		UserTopThreePnlLossTotal:  rr.floatVal(),
		UserTopThreeVolumeTotal:   rr.floatVal(),
		UserDailyPnl:              rr.floatVal(),
		UserDailyVolume:           rr.floatVal(),
		UserWeeklyPnl:             rr.floatVal(),
		UserWeeklyVolume:          rr.floatVal(),
		UserSubscriberCount:       rr.intVal(),
		UserHasSubscribers:        rr.intVal(),
		UserFollowedByYou:         rr.boolVal(),
		UserFollowedByYouBinary:   rr.intVal(),
		UserSubscribedByYou:       rr.boolVal(),
		UserSubscribedByYouBinary: rr.intVal(),
		UserHasTwitter:            rr.intVal(),

		BuyTokenName:                 rr.str(),
		BuyTokenSymbol:               rr.str(),
		BuyTokenPrice:                rr.floatVal(),
		BuyTokenSupply:               rr.floatVal(),
		BuyTokenChain:                rr.str(),
		BuyTokenLiquidity:            rr.floatVal(),
		BuyTokenHasLiquidity:         rr.intVal(),
		BuyTokenVolume24h:            rr.floatVal(),
		BuyTokenVolume6h:             rr.floatVal(),
		BuyTokenVolume1h:             rr.floatVal(),
		BuyTokenVolume5min:           rr.floatVal(),
		BuyTokenBuyVolume24h:         rr.floatVal(),
		BuyTokenSellVolume24h:        rr.floatVal(),
		BuyTokenBuyVolume6h:          rr.floatVal(),
		BuyTokenSellVolume6h:         rr.floatVal(),
		BuyTokenBuyVolume1h:          rr.floatVal(),
		BuyTokenSellVolume1h:         rr.floatVal(),
		BuyTokenBuyVolume5min:        rr.floatVal(),
		BuyTokenSellVolume5min:       rr.floatVal(),
		BuyTokenBuyCount24h:          rr.intVal(),
		BuyTokenSellCount24h:         rr.intVal(),
		BuyTokenBuyCount6h:           rr.intVal(),
		BuyTokenSellCount6h:          rr.intVal(),
		BuyTokenBuyCount1h:           rr.intVal(),
		BuyTokenSellCount1h:          rr.intVal(),
		BuyTokenBuyCount5min:         rr.intVal(),
		BuyTokenSellCount5min:        rr.intVal(),
		BuyTokenVerified:             rr.boolVal(),
		BuyTokenIsVerified:           rr.intVal(),
		BuyTokenJupVerified:          rr.boolVal(),
		BuyTokenIsJupVerified:        rr.intVal(),
		BuyTokenFreezable:            rr.boolVal(),
		BuyTokenIsFreezable:          rr.intVal(),
		BuyTokenTwitter:              rr.str(),
		BuyTokenHasTwitter:           rr.intVal(),
		BuyTokenTelegram:             rr.str(),
		BuyTokenHasTelegram:          rr.intVal(),
		BuyTokenWebsite:              rr.str(),
		BuyTokenHasWebsite:           rr.intVal(),
		BuyTokenDiscord:              rr.str(),
		BuyTokenHasDiscord:           rr.intVal(),
		BuyTokenTop10HolderPercent:   rr.floatVal(),
		BuyTokenTop10HolderPercentV2: rr.floatVal(),

		Price30sVariance: rr.optFloat(),
		Price1mVariance:  rr.optFloat(),
		Price5mVariance:  rr.optFloat(),
		Won30s:           rr.optBool(),
		Won1m:            rr.optBool(),
		Won5m:            rr.optBool(),
	}
	if rr.err != nil {
		return nil, rr.err
	}
	return r, nil
}
