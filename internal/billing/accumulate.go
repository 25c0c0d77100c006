package billing

// Leeway model: the billing source may round each reported bin up by a small
// fixed unit, and the cycle total itself by up to one whole unit. The budget
// is the worst-case accumulation of both.
const (
	baseLeewayGB   = 1.0
	perBinLeewayGB = 0.01
)

// AccumulateUsage sums every bin's usage across every day of the cycle and
// returns the total alongside the rounding-tolerance budget for that many
// bins: 1.0 + 0.01 per bin. The budget is never negative and grows
// monotonically with the number of bins folded in.
func AccumulateUsage(c BillingCycle) (totalGB, leewayGB float64) {
	bins := 0
	for _, day := range c.DailyDataUsages {
		for _, bin := range day.DataUsageBins {
			totalGB += bin.TotalGB
			bins++
		}
	}
	return totalGB, baseLeewayGB + perBinLeewayGB*float64(bins)
}
