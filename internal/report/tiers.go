package report

import (
	"encoding/csv"
	"io"

	"github.com/remdambrosio/bridgetroll/internal/billing"
)

// TierRow is one service line's tier totals for one month.
type TierRow struct {
	ServiceLine string
	Tiers       billing.TierTotals
}

// TierCSV writes one month's per-tier usage export.
func TierCSV(w io.Writer, rows []TierRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"SLN", "Priority", "Standard", "Opt-In Priority"}); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			row.ServiceLine,
			formatGB(row.Tiers.PriorityGB),
			formatGB(row.Tiers.StandardGB),
			formatGB(row.Tiers.OptInPriorityGB),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
