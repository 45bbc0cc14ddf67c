// Package artifact serializes the pipeline's outputs. Artifacts are pretty
// JSON intended to be checked into version control, so serialization must be
// deterministic: regions are sorted by code and maps marshal with sorted
// string keys.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/hanriverdata/regionpulse/internal/domain"
)

// Snapshot is the single-year artifact: one complete record per region for
// the target year, plus the inputs needed to reproduce the run.
type Snapshot struct {
	TargetYear int                   `json:"targetYear"`
	Seed       uint64                `json:"seed"`
	Regions    []domain.RegionRecord `json:"regions"`
}

// BuildSnapshot orders the merged records by region code.
func BuildSnapshot(targetYear int, seed uint64, records map[string]domain.RegionRecord) Snapshot {
	regions := make([]domain.RegionRecord, 0, len(records))
	for _, rec := range records {
		regions = append(regions, rec)
	}
	sort.Slice(regions, func(i, j int) bool { return regions[i].Code < regions[j].Code })
	return Snapshot{TargetYear: targetYear, Seed: seed, Regions: regions}
}

// WriteSnapshot writes the snapshot artifact to dir/snapshot.json.
func WriteSnapshot(dir string, snap Snapshot) error {
	return writeJSON(filepath.Join(dir, "snapshot.json"), snap)
}

// WriteHistory writes the historical series artifact to dir/history.json.
func WriteHistory(dir string, series *domain.HistoricalSeries) error {
	return writeJSON(filepath.Join(dir, "history.json"), series)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	// Write-then-rename so a crash never leaves a torn artifact behind.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}
	return nil
}
