package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/ares"
	"github.com/remdambrosio/bridgetroll/internal/billing"
	"github.com/remdambrosio/bridgetroll/internal/device"
	"github.com/remdambrosio/bridgetroll/internal/flow"
	"github.com/remdambrosio/bridgetroll/internal/reconcile"
	"github.com/remdambrosio/bridgetroll/internal/snapshot"
	"github.com/remdambrosio/bridgetroll/internal/starlink"
	"github.com/remdambrosio/bridgetroll/internal/venus"
)

// pull walks all three sources in order: billing totals first, then the
// interface mapping, then the flow-accounting counters for the aligned
// window. It returns the assembled batch and the reference billing window,
// and snapshots the result before returning.
func pull(ctx context.Context, config *Config, runID string, logger zerolog.Logger) (map[device.ID]*reconcile.Router, align.Window, error) {
	starClient := starlink.NewClient(config.StarlinkURL, config.StarlinkToken, logger)

	logger.Info().Msg("Pulling routers and traffic from Starlink")
	routers, window, err := pullBillingTotals(ctx, starClient, logger)
	if err != nil {
		return nil, align.Window{}, err
	}

	logger.Info().Int("routers", len(routers)).Msg("Pulling Starlink-connected interfaces from Venus")
	venusClient := venus.NewClient(config.VenusURL, config.VenusToken, logger)
	interfaces, err := venusClient.StarlinkInterfaces(ctx)
	if err != nil {
		return nil, align.Window{}, err
	}
	for name, r := range routers {
		if iface, ok := interfaces[name]; ok {
			r.Interface = iface
		}
	}

	if len(routers) == 0 || window.IsZero() {
		// No reference window exists; querying Ares with a default or
		// garbage window would produce meaningless totals.
		logger.Warn().Msg("No routers in batch; skipping flow-accounting pull")
	} else {
		start, end, err := align.FlowBounds(window, config.FlowLocation)
		if err != nil {
			return nil, align.Window{}, err
		}
		logger.Info().Str("start", start).Str("end", end).Msg("Pulling traffic on interfaces from Ares")
		aresClient := ares.NewClient(config.AresURL, config.AresToken, logger)
		blob, err := aresClient.TrafficBlob(ctx, start, end)
		if err != nil {
			return nil, align.Window{}, err
		}
		for _, r := range routers {
			gb, found := flow.Extract(blob, r.Name, r.Interface)
			if !found {
				// Absence of counter lines is not a zero total; the
				// router stays incomplete and drops out of comparison.
				continue
			}
			r.SecondaryTotal = gb
			r.HasSecondary = true
		}
	}

	snap := snapshot.New(runID, window, routers)
	if err := snapshot.Save(config.SnapshotPath, snap); err != nil {
		return nil, align.Window{}, err
	}
	logger.Info().Str("path", config.SnapshotPath).Msg("Snapshot saved")

	return routers, window, nil
}

// pullBillingTotals lists active service lines tied to a managed router,
// pulls each line's usage payload, and derives the billing window and
// primary total. Per-router payload failures exclude that router and are
// surfaced in the log; they never default to zero.
func pullBillingTotals(ctx context.Context, client *starlink.Client, logger zerolog.Logger) (map[device.ID]*reconcile.Router, align.Window, error) {
	lines, err := client.ServiceLines(ctx)
	if err != nil {
		return nil, align.Window{}, err
	}

	routers := make(map[device.ID]*reconcile.Router)
	var window align.Window

	for _, line := range lines {
		if !line.Active || line.ServiceLineNumber == "" {
			continue
		}
		name, ok := device.FromLabel(line.Nickname)
		if !ok {
			// Service line not tied to a managed router.
			continue
		}

		payload, err := client.DataUsage(ctx, line.ServiceLineNumber)
		if err != nil {
			logger.Error().Err(err).Str("router", string(name)).Msg("Usage pull failed; router excluded")
			continue
		}
		cycle, err := billing.EarliestCycle(payload)
		if err != nil {
			logger.Error().Err(err).Str("router", string(name)).Msg("Malformed usage payload; router excluded")
			continue
		}
		w, err := billing.CycleWindow(cycle)
		if err != nil {
			logger.Error().Err(err).Str("router", string(name)).Msg("Unusable billing window; router excluded")
			continue
		}
		total, leeway := billing.AccumulateUsage(cycle)

		routers[name] = &reconcile.Router{
			Name:         name,
			ServiceLine:  line.ServiceLineNumber,
			Window:       w,
			PrimaryTotal: total,
			Leeway:       leeway,
			HasPrimary:   true,
		}

		if window.IsZero() {
			// Billing period boundaries are uniform across devices within
			// one pull; the first window anchors the batch.
			window = w
		} else if !w.Start.Equal(window.Start) || !w.End.Equal(window.End) {
			logger.Warn().
				Str("router", string(name)).
				Str("window_start", w.StartDate()).
				Str("batch_start", window.StartDate()).
				Msg("Billing window differs from batch reference window")
		}
	}

	return routers, window, nil
}
