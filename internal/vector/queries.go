package vector

// GraphQL documents sent to the vector.fun API. Field aliases (e.g.
// buyTokenPrice: buyTokenPriceV2) keep the response shape stable across the
// upstream's V2 field migrations.

const feedQuery = `
query FeedListsQuery($mode: FeedMode!, $sortOrder: FeedSortOrder!, $filters: FeedFilters, $after: String, $first: Int) {
  feedV3(mode: $mode, sortOrder: $sortOrder, filters: $filters, after: $after, first: $first) {
    edges {
      cursor
      node {
        broadcast {
          id
          buyTokenId
          buyTokenAmount
          buyTokenPrice: buyTokenPriceV2
          buyTokenMCap: buyTokenMCapV2
          sellTokenId
          sellTokenAmount
          sellTokenPrice: sellTokenPriceV2
          sellTokenMCap: sellTokenMCapV2
          createdAt
          profile {
            id
            username
          }
        }
        buyToken {
          id
          name
          symbol
          price
          supply
          chain
          decimals
        }
        sellToken {
          id
          name
          symbol
          price
          supply
          chain
          decimals
        }
      }
    }
    pageInfo {
      endCursor
      hasNextPage
    }
  }
}
`

const profileQuery = `
query UsernameProfileQuery($username: String!, $yourProfileId: String!) {
  profile(username: $username) {
    id
    username
    twitterUsername
    visibility
    profileImageUrl
    isVerified
    followerCount
    followeeCount
    mutualFollowersV2 {
      totalCount
    }
    weeklyLeaderboardStanding(leaderboardType: PNL_WIN) {
      rank
      value
    }
    bestEverStanding(leaderboardType: PNL_WIN) {
      rank
      value
      leaderboardDate
    }
    topThreePnlWin: topThreeFinishes(leaderboardType: PNL_WIN)
    topThreePnlLoss: topThreeFinishes(leaderboardType: PNL_LOSS)
    topThreeVolume: topThreeFinishes(leaderboardType: VOLUME)
    profileLeaderboardValues {
      daily {
        pnl
        volume
        maxTradeSize
      }
      weekly {
        pnl
        volume
        maxTradeSize
      }
    }
    subscribedByProfileV2(profileId: $yourProfileId)
    subscriberCountV2
    followedByProfile(profileId: $yourProfileId)
  }
}
`

const tokenQuery = `
query tokenScreenQuery($id: ID!) {
  token(id: $id) {
    image
    chain
    id
    address
    decimals
    name
    symbol
    price
    supply
    verified
    jupVerified
    mintAuthority
    freezable
    liquidity
    exchPumpFun
    exchMoonshot
    exchRaydium
    exchMeteora
    volume24h
    volume6h
    volume1h
    volume5min
    volumeLastUpdated
    buyVolume24h
    sellVolume24h
    buyVolume6h
    sellVolume6h
    buyVolume1h
    sellVolume1h
    buyVolume5min
    sellVolume5min
    buyCount24h
    sellCount24h
    buyCount6h
    sellCount6h
    buyCount1h
    sellCount1h
    buyCount5min
    sellCount5min
    twitter
    telegram
    website
    discord
    top10HolderPercent
    top10HolderPercentV2
  }
}
`
