package ingest

import "github.com/rewired-gh/vectorpulse/internal/models"

func boolToBinary(b bool) int {
	if b {
		return 1
	}
	return 0
}

func rankIsTop100(rank *int) int {
	return boolToBinary(rank != nil && *rank > 0 && *rank <= 100)
}

// buildRecord assembles the persisted record for a newly accepted broadcast
// from its feed facts and the two enrichment snapshots. All derived presence
// and binary flags are computed here, once; the record never changes after
// this except for its outcome fields.
func buildRecord(cand models.BroadcastCandidate, user models.ProfileSnapshot, token models.TokenSnapshot) *models.BroadcastRecord {
	return &models.BroadcastRecord{
		BroadcastID:         cand.ID,
		CreatedAt:           cand.CreatedAt,
		UserID:              cand.UserID,
		UserUsername:        cand.Username,
		BuyTokenID:          cand.BuyTokenID,
		BuyTokenAmount:      cand.BuyTokenAmount,
		BuyTokenPriceBcast:  cand.BuyTokenPrice,
		BuyTokenMCapBcast:   cand.BuyTokenMCap,
		SellTokenID:         cand.SellTokenID,
		SellTokenAmount:     cand.SellTokenAmount,
		SellTokenPriceBcast: cand.SellTokenPrice,
		SellTokenMCapBcast:  cand.SellTokenMCap,
		HasBuyToken:         boolToBinary(cand.BuyTokenID != ""),
		HasSellToken:        boolToBinary(cand.SellTokenID != ""),

		UserTwitterUsername:       user.TwitterUsername,
		UserIsVerified:            user.IsVerified,
		UserIsVerifiedBinary:      boolToBinary(user.IsVerified),
		UserFollowerCount:         user.FollowerCount,
		UserFolloweeCount:         user.FolloweeCount,
		UserMutualFollowerCount:   user.MutualFollowerCount,
		UserMutualFollowersBinary: boolToBinary(user.MutualFollowerCount > 0),
		UserVisibility:            user.Visibility,
		UserVisiblePublic:         boolToBinary(user.Visibility == "PUBLIC"),
		UserWeeklyRank:            user.WeeklyRank,
		UserWeeklyValue:           user.WeeklyValue,
		UserWeeklyRankIsTop100:    rankIsTop100(user.WeeklyRank),
		UserBestRank:              user.BestRank,
		UserBestRankValue:         user.BestRankValue,
		UserBestRankIsTop100:      rankIsTop100(user.BestRank),
		UserTopThreePnlWinTotal:   user.TopThreePnlWinTotal,
		UserTopThreePnlLossTotal:  user.TopThreePnlLossTotal,
		UserTopThreeVolumeTotal:   user.TopThreeVolumeTotal,
		UserDailyPnl:              user.DailyPnl,
		UserDailyVolume:           user.DailyVolume,
		UserWeeklyPnl:             user.WeeklyPnl,
		UserWeeklyVolume:          user.WeeklyVolume,
		UserSubscriberCount:       user.SubscriberCount,
		UserHasSubscribers:        boolToBinary(user.SubscriberCount > 0),
		UserFollowedByYou:         user.FollowedByYou,
		UserFollowedByYouBinary:   boolToBinary(user.FollowedByYou),
		UserSubscribedByYou:       user.SubscribedByYou,
		UserSubscribedByYouBinary: boolToBinary(user.SubscribedByYou),
		UserHasTwitter:            boolToBinary(user.TwitterUsername != ""),

		BuyTokenName:                 token.Name,
		BuyTokenSymbol:               token.Symbol,
		BuyTokenPrice:                token.Price,
		BuyTokenSupply:               token.Supply,
		BuyTokenChain:                token.Chain,
		BuyTokenLiquidity:            token.Liquidity,
		BuyTokenHasLiquidity:         boolToBinary(token.Liquidity > 0),
		BuyTokenVolume24h:            token.Volume24h,
		BuyTokenVolume6h:             token.Volume6h,
		BuyTokenVolume1h:             token.Volume1h,
		BuyTokenVolume5min:           token.Volume5min,
		BuyTokenBuyVolume24h:         token.BuyVolume24h,
		BuyTokenSellVolume24h:        token.SellVolume24h,
		BuyTokenBuyVolume6h:          token.BuyVolume6h,
		BuyTokenSellVolume6h:         token.SellVolume6h,
		BuyTokenBuyVolume1h:          token.BuyVolume1h,
		BuyTokenSellVolume1h:         token.SellVolume1h,
		BuyTokenBuyVolume5min:        token.BuyVolume5min,
		BuyTokenSellVolume5min:       token.SellVolume5min,
		BuyTokenBuyCount24h:          token.BuyCount24h,
		BuyTokenSellCount24h:         token.SellCount24h,
		BuyTokenBuyCount6h:           token.BuyCount6h,
		BuyTokenSellCount6h:          token.SellCount6h,
		BuyTokenBuyCount1h:           token.BuyCount1h,
		BuyTokenSellCount1h:          token.SellCount1h,
		BuyTokenBuyCount5min:         token.BuyCount5min,
		BuyTokenSellCount5min:        token.SellCount5min,
		BuyTokenVerified:             token.Verified,
		BuyTokenIsVerified:           boolToBinary(token.Verified),
		BuyTokenJupVerified:          token.JupVerified,
		BuyTokenIsJupVerified:        boolToBinary(token.JupVerified),
		BuyTokenFreezable:            token.Freezable,
		BuyTokenIsFreezable:          boolToBinary(token.Freezable),
		BuyTokenTwitter:              token.Twitter,
		BuyTokenHasTwitter:           boolToBinary(token.Twitter != ""),
		BuyTokenTelegram:             token.Telegram,
		BuyTokenHasTelegram:          boolToBinary(token.Telegram != ""),
		BuyTokenWebsite:              token.Website,
		BuyTokenHasWebsite:           boolToBinary(token.Website != ""),
		BuyTokenDiscord:              token.Discord,
		BuyTokenHasDiscord:           boolToBinary(token.Discord != ""),
		BuyTokenTop10HolderPercent:   token.Top10HolderPercent,
		BuyTokenTop10HolderPercentV2: token.Top10HolderPercentV2,
	}
}
