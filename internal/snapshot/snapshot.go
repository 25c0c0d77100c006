// Package snapshot persists the pulled per-router state of one run so a
// later invocation can replay reconciliation without touching the source
// APIs.
package snapshot

import (
	"fmt"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/remdambrosio/bridgetroll/internal/align"
	"github.com/remdambrosio/bridgetroll/internal/device"
	"github.com/remdambrosio/bridgetroll/internal/reconcile"
)

// Snapshot is the on-disk record of one run's pulled data.
type Snapshot struct {
	RunID    string                          `json:"runId"`
	PulledAt time.Time                       `json:"pulledAt"`
	Window   align.Window                    `json:"window"`
	Routers  map[device.ID]*reconcile.Router `json:"routers"`
}

// New stamps the pulled batch with the run ID and capture time.
func New(runID string, window align.Window, routers map[device.ID]*reconcile.Router) Snapshot {
	if runID == "" {
		runID = uuid.New().String()
	}
	return Snapshot{
		RunID:    runID,
		PulledAt: time.Now().UTC(),
		Window:   window,
		Routers:  routers,
	}
}

// Save writes the snapshot as indented JSON.
func Save(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// Load reads a snapshot written by Save.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: read %s: %w", path, err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return s, nil
}
