// Command bridgetroll reconciles per-router traffic totals reported by the
// Starlink billing API against the totals the Ares flow-accounting system
// measured on the same links over the same billing window, and reports the
// routers whose discrepancy exceeds the expected rounding leeway.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/device"
	"github.com/remdambrosio/bridgetroll/internal/reconcile"
	"github.com/remdambrosio/bridgetroll/internal/report"
	"github.com/remdambrosio/bridgetroll/internal/snapshot"
)

func main() {
	config, err := parseConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	runID := uuid.New().String()
	logger := log.With().Str("run_id", runID).Logger()

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()

	var routers map[device.ID]*reconcile.Router
	var window align.Window

	if config.FromFile {
		snap, err := snapshot.Load(config.SnapshotPath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Snapshot load failed")
		}
		routers = snap.Routers
		window = snap.Window
		logger.Info().
			Str("snapshot_run_id", snap.RunID).
			Time("pulled_at", snap.PulledAt).
			Int("routers", len(routers)).
			Msg("Reconciling from snapshot")
	} else {
		routers, window, err = pull(ctx, config, runID, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Pull failed")
		}
	}

	results := reconcile.Compare(routers)

	if err := writeText(config.ReportPath, window, results); err != nil {
		logger.Fatal().Err(err).Msg("Report write failed")
	}
	if err := writeCSV(config.CSVPath, results); err != nil {
		logger.Fatal().Err(err).Msg("CSV write failed")
	}

	flagged := 0
	for _, r := range results {
		if r.OverLeeway != 0 {
			flagged++
		}
	}
	logger.Info().
		Int("routers", len(routers)).
		Int("compared", len(results)).
		Int("flagged", flagged).
		Str("report", config.ReportPath).
		Str("csv", config.CSVPath).
		Msg("Reconciliation complete")
}

func writeText(path string, window align.Window, results []reconcile.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Text(f, window, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, results []reconcile.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.CSV(f, results); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
