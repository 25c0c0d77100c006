// Package billing models the satellite-ISP billing source's usage payloads
// and derives the per-router billing window and usage totals from them.
package billing

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// UsagePayload is the raw usage document the billing API returns for one
// service line. A payload may carry several billing cycles; only the
// earliest-starting one is authoritative for reconciliation.
type UsagePayload struct {
	BillingCycles []BillingCycle `json:"billingCycles"`
}

// BillingCycle is one source-defined billing period with its nested
// per-day usage samples and per-tier cycle totals.
type BillingCycle struct {
	StartDate       string       `json:"startDate"`
	EndDate         string       `json:"endDate"`
	DailyDataUsages []DailyUsage `json:"dailyDataUsages"`

	// Per-tier cycle totals, used by the starpull export only. Tiers are
	// not reconciled against the flow-accounting side.
	TotalPriorityGB      float64 `json:"totalPriorityGB"`
	TotalStandardGB      float64 `json:"totalStandardGB"`
	TotalOptInPriorityGB float64 `json:"totalOptInPriorityGB"`
}

// DailyUsage is one day's worth of usage bins within a cycle.
type DailyUsage struct {
	DataUsageBins []UsageBin `json:"dataUsageBins"`
}

// UsageBin is one elementary usage sample, reported in decimal GB.
type UsageBin struct {
	TotalGB float64 `json:"totalGB"`
}

// ParsePayload decodes a raw usage document.
func ParsePayload(data []byte) (UsagePayload, error) {
	var p UsagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return UsagePayload{}, fmt.Errorf("billing: decode usage payload: %w", err)
	}
	return p, nil
}
