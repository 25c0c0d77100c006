// Command starpull exports recent Starlink usage per billing tier: one CSV
// per calendar month with Priority, Standard, and Opt-In Priority GB per
// service line. Tier totals are informational and are not reconciled
// against the flow-accounting side.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/remdambrosio/bridgetroll/internal/billing"
	"github.com/remdambrosio/bridgetroll/internal/report"
	"github.com/remdambrosio/bridgetroll/internal/starlink"
)

func main() {
	config, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	client := starlink.NewClient(config.StarlinkURL, config.StarlinkToken, log.Logger)

	log.Info().Int("cycles", config.CycleCount).Msg("Pulling traffic from Starlink")
	tiersBySLN, err := pullTiers(ctx, client, config.CycleCount, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Pull failed")
	}

	written, err := writeMonthlyCSVs(config.CSVPrefix, tiersBySLN)
	if err != nil {
		log.Fatal().Err(err).Msg("CSV write failed")
	}
	log.Info().Int("service_lines", len(tiersBySLN)).Int("files", written).Msg("Export complete")
}

// pullTiers walks the paginated usage history and folds every cycle's tier
// totals into per-service-line monthly accumulators.
func pullTiers(ctx context.Context, client *starlink.Client, cycleCount int, logger zerolog.Logger) (map[string]billing.MonthlyTiers, error) {
	tiersBySLN := make(map[string]billing.MonthlyTiers)
	for page := 0; ; page++ {
		devices, last, err := client.UsageHistory(ctx, cycleCount, page)
		if err != nil {
			return nil, err
		}
		for _, d := range devices {
			if d.ServiceLineNumber == "" {
				continue
			}
			tiers, ok := tiersBySLN[d.ServiceLineNumber]
			if !ok {
				tiers = billing.NewMonthlyTiers()
				tiersBySLN[d.ServiceLineNumber] = tiers
			}
			for _, cycle := range d.BillingCycles {
				if err := tiers.AddCycle(cycle); err != nil {
					logger.Error().Err(err).Str("service_line", d.ServiceLineNumber).Msg("Cycle skipped")
				}
			}
		}
		if last {
			return tiersBySLN, nil
		}
	}
}

// writeMonthlyCSVs regroups the accumulated tiers by month and writes one
// CSV per month, rows sorted by service line. Returns the file count.
func writeMonthlyCSVs(prefix string, tiersBySLN map[string]billing.MonthlyTiers) (int, error) {
	byMonth := make(map[string][]report.TierRow)
	for sln, months := range tiersBySLN {
		for month, totals := range months {
			byMonth[month] = append(byMonth[month], report.TierRow{ServiceLine: sln, Tiers: totals})
		}
	}

	for month, rows := range byMonth {
		sort.Slice(rows, func(i, j int) bool { return rows[i].ServiceLine < rows[j].ServiceLine })

		path := fmt.Sprintf("%s_%s.csv", prefix, month)
		f, err := os.Create(path)
		if err != nil {
			return 0, err
		}
		if err := report.TierCSV(f, rows); err != nil {
			_ = f.Close()
			return 0, err
		}
		if err := f.Close(); err != nil {
			return 0, err
		}
	}
	return len(byMonth), nil
}
