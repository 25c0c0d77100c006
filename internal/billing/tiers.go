package billing

import (
	"fmt"
	"time"
)

// TierTotals accumulates usage by billing tier for one calendar month.
type TierTotals struct {
	PriorityGB      float64
	StandardGB      float64
	OptInPriorityGB float64
}

// MonthlyTiers maps a month name ("September") to the tier totals of every
// cycle starting in that month. Build one per service line with
// NewMonthlyTiers; the map is freshly allocated, never shared.
type MonthlyTiers map[string]TierTotals

// NewMonthlyTiers returns an empty per-service-line accumulator.
func NewMonthlyTiers() MonthlyTiers {
	return make(MonthlyTiers)
}

// AddCycle folds one cycle's tier totals into the month its start timestamp
// falls in.
func (m MonthlyTiers) AddCycle(c BillingCycle) error {
	start, err := time.Parse(time.RFC3339, c.StartDate)
	if err != nil {
		return fmt.Errorf("billing: cycle start %q: %w", c.StartDate, err)
	}
	month := start.Month().String()
	totals := m[month]
	totals.PriorityGB += c.TotalPriorityGB
	totals.StandardGB += c.TotalStandardGB
	totals.OptInPriorityGB += c.TotalOptInPriorityGB
	m[month] = totals
	return nil
}
