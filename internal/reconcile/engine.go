package reconcile

import (
	"math"
	"sort"

	"github.com/remdambrosio/bridgetroll/internal/device"
)

// Result is the report-ready reconciliation record for one router.
type Result struct {
	Name           device.ID
	PrimaryTotal   float64
	Leeway         float64
	SecondaryTotal float64

	// Overage is PrimaryTotal minus SecondaryTotal; positive means the
	// billing source over-reports relative to flow accounting.
	Overage float64

	// OverLeeway is Overage with the tolerance deadband applied: zero
	// whenever |Overage| fits inside Leeway, otherwise the signed excess.
	OverLeeway float64

	// Ratio is Overage divided by SecondaryTotal. RatioDefined is false
	// when SecondaryTotal is exactly zero; the ratio is then undefined
	// rather than infinite.
	Ratio        float64
	RatioDefined bool
}

// Compare reconciles every router for which both totals were computed.
// Routers missing either total are dropped, not reported as zero. Results
// are sorted by router name for deterministic output.
func Compare(routers map[device.ID]*Router) []Result {
	results := make([]Result, 0, len(routers))
	for _, r := range routers {
		if !r.Complete() {
			continue
		}
		overage := r.PrimaryTotal - r.SecondaryTotal
		res := Result{
			Name:           r.Name,
			PrimaryTotal:   r.PrimaryTotal,
			Leeway:         r.Leeway,
			SecondaryTotal: r.SecondaryTotal,
			Overage:        overage,
			OverLeeway:     applyDeadband(overage, r.Leeway),
		}
		if r.SecondaryTotal != 0 {
			res.Ratio = overage / r.SecondaryTotal
			res.RatioDefined = true
		}
		results = append(results, res)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results
}

// applyDeadband suppresses any overage whose magnitude falls within the
// tolerance budget and surfaces only the signed excess beyond it.
func applyDeadband(overage, leeway float64) float64 {
	switch {
	case overage > 0:
		return math.Max(overage-leeway, 0)
	case overage < 0:
		return math.Min(overage+leeway, 0)
	default:
		return 0
	}
}
