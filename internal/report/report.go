// Package report renders reconciliation results as the text discrepancy
// report and the CSV data export.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/reconcile"
)

// ratioSentinel marks an undefined overage ratio (flow total exactly zero)
// in CSV output.
const ratioSentinel = "undef"

// Text writes the discrepancy report. Only routers whose leeway-adjusted
// overage is non-zero appear; everything else agreed within tolerance.
func Text(w io.Writer, window align.Window, results []reconcile.Result) error {
	if _, err := fmt.Fprintf(w, "===== Unexpected Traffic Discrepancies: %s to %s =====\n",
		window.StartDate(), window.EndDate()); err != nil {
		return err
	}
	for _, r := range results {
		if r.OverLeeway == 0 {
			continue
		}
		_, err := fmt.Fprintf(w, `=== %s ===
	Starlink GB: %.4f
	Ares GB: %.4f
	Overage: %.4f
	Expected Leeway: %.4f
	GB Over Expected: %.4f
`, r.Name, r.PrimaryTotal, r.SecondaryTotal, r.Overage, r.Leeway, r.OverLeeway)
		if err != nil {
			return err
		}
	}
	return nil
}

// CSV writes every qualifying router with the full metric set, one row per
// router. The ratio column carries "undef" when the flow total is zero.
func CSV(w io.Writer, results []reconcile.Result) error {
	cw := csv.NewWriter(w)
	header := []string{"name", "star_total", "leeway", "ares_total", "overage", "over_leeway", "overage_ratio"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		ratio := ratioSentinel
		if r.RatioDefined {
			ratio = formatGB(r.Ratio)
		}
		row := []string{
			string(r.Name),
			formatGB(r.PrimaryTotal),
			formatGB(r.Leeway),
			formatGB(r.SecondaryTotal),
			formatGB(r.Overage),
			formatGB(r.OverLeeway),
			ratio,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatGB(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
