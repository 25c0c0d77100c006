// Package reconcile combines per-router usage totals from the billing and
// flow-accounting sources into signed, leeway-adjusted overage metrics.
package reconcile

import (
	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/device"
)

// Router carries the per-device state assembled from all sources during one
// reconciliation run. Routers are constructed fresh per run; nothing in a
// Router is shared between runs or between routers.
type Router struct {
	Name        device.ID    `json:"name"`
	ServiceLine string       `json:"serviceLine"`
	Window      align.Window `json:"window"`

	// Billing side.
	PrimaryTotal float64 `json:"primaryTotal"` // GB over Window
	Leeway       float64 `json:"leeway"`       // rounding-tolerance budget for PrimaryTotal
	HasPrimary   bool    `json:"hasPrimary"`

	// Flow-accounting side.
	Interface      string  `json:"interface"`      // interface carrying this link
	SecondaryTotal float64 `json:"secondaryTotal"` // GB over the aligned window
	HasSecondary   bool    `json:"hasSecondary"`
}

// Complete reports whether both sources produced a total for the router.
// Only complete routers enter the comparison set; partial data cannot
// support a trustworthy comparison.
func (r *Router) Complete() bool {
	return r.HasPrimary && r.HasSecondary
}
