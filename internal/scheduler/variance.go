package scheduler

import "github.com/shopspring/decimal"

// Variance returns the percentage drift of current relative to baseline.
// A zero baseline yields zero regardless of the current price, so a token the
// broadcast reported no price for can never be scored. Computed in decimal to
// keep round numbers exact (a 25.000…01% float artifact must not flip a won
// flag at the strict threshold).
func Variance(baseline, current float64) float64 {
	if baseline == 0 {
		return 0
	}
	b := decimal.NewFromFloat(baseline)
	c := decimal.NewFromFloat(current)
	v, _ := c.Sub(b).Div(b).Mul(decimal.NewFromInt(100)).Float64()
	return v
}
