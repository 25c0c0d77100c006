package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/billing"
	"github.com/remdambrosio/bridgetroll/internal/reconcile"
)

func TestText(t *testing.T) {
	window, err := align.NewWindow("2024-09-01", "2024-10-01")
	require.NoError(t, err)

	results := []reconcile.Result{
		{
			Name: "KEL00007", PrimaryTotal: 130, Leeway: 1.05,
			SecondaryTotal: 118, Overage: 12, OverLeeway: 10.95,
		},
		{
			Name: "VAN00012", PrimaryTotal: 120, Leeway: 1.05,
			SecondaryTotal: 118, Overage: 2, OverLeeway: 0,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, window, results))
	out := buf.String()

	assert.Contains(t, out, "Unexpected Traffic Discrepancies: 2024-09-01 to 2024-10-01")
	assert.Contains(t, out, "=== KEL00007 ===")
	assert.Contains(t, out, "GB Over Expected: 10.9500")
	// Agreement within tolerance never appears in the text report.
	assert.NotContains(t, out, "VAN00012")
}

func TestCSV(t *testing.T) {
	results := []reconcile.Result{
		{
			Name: "KEL00007", PrimaryTotal: 130, Leeway: 1.05,
			SecondaryTotal: 118, Overage: 12, OverLeeway: 10.95,
			Ratio: 12.0 / 118.0, RatioDefined: true,
		},
		{
			Name: "ZER00001", PrimaryTotal: 3, Leeway: 1.02,
			SecondaryTotal: 0, Overage: 3, OverLeeway: 1.98,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, results))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"name", "star_total", "leeway", "ares_total", "overage", "over_leeway", "overage_ratio"}, records[0])
	assert.Equal(t, []string{"KEL00007", "130.0000", "1.0500", "118.0000", "12.0000", "10.9500", "0.1017"}, records[1])
	// Zero flow total reports the ratio sentinel, never inf or NaN.
	assert.Equal(t, "undef", records[2][6])
}

func TestTierCSV(t *testing.T) {
	rows := []TierRow{
		{ServiceLine: "SL-100", Tiers: billing.TierTotals{PriorityGB: 40.5, StandardGB: 2, OptInPriorityGB: 0.75}},
		{ServiceLine: "SL-200", Tiers: billing.TierTotals{}},
	}

	var buf bytes.Buffer
	require.NoError(t, TierCSV(&buf, rows))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"SLN", "Priority", "Standard", "Opt-In Priority"}, records[0])
	assert.Equal(t, []string{"SL-100", "40.5000", "2.0000", "0.7500"}, records[1])
	assert.Equal(t, []string{"SL-200", "0.0000", "0.0000", "0.0000"}, records[2])
}
