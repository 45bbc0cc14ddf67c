// Command validate performs integrity checks over the generated artifacts:
// snapshot completeness against the region catalog and field registry,
// industry share normalization, health score consistency, and historical
// series shape including terminal-year agreement with the snapshot.
//
// Usage:
//
//	go run ./cmd/validate -snapshot data/snapshot.json -history data/history.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/hanriverdata/regionpulse/internal/artifact"
	"github.com/hanriverdata/regionpulse/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	snapshotPath := flag.String("snapshot", "data/snapshot.json", "path to snapshot artifact")
	historyPath := flag.String("history", "data/history.json", "path to history artifact")
	flag.Parse()

	if code := run(*snapshotPath, *historyPath); code != 0 {
		os.Exit(code)
	}
}

func run(snapshotPath, historyPath string) int {
	fmt.Println("=== Artifact Integrity Validation ===")
	fmt.Println()

	catalog, err := domain.LoadCatalog()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load region catalog: %v\n", err)
		return 1
	}

	var snap artifact.Snapshot
	if err := loadJSON(snapshotPath, &snap); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load snapshot: %v\n", err)
		return 1
	}
	var series domain.HistoricalSeries
	if err := loadJSON(historyPath, &series); err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load history: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSnapshotCompleteness(&snap, catalog),
		validateIndustryShares(&snap),
		validateHealthScores(&snap),
		validateHistoryShape(&series, &snap),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Regions: %d snapshot, %d history; years %d..%d\n",
		len(snap.Regions), len(series.Data), series.StartYear, series.EndYear)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// ── Phase 1: Snapshot Completeness ──
// Every catalog region exactly once, sorted by code, every registry field
// present, finite, and within its clamp bounds.

func validateSnapshotCompleteness(snap *artifact.Snapshot, catalog *domain.Catalog) *phase {
	p := &phase{name: "Phase 1: Snapshot Completeness"}

	if len(snap.Regions) != catalog.Len() {
		p.errorf("region count: catalog has %d, snapshot has %d", catalog.Len(), len(snap.Regions))
	}

	seen := make(map[string]bool, len(snap.Regions))
	prevCode := ""
	for i := range snap.Regions {
		rec := &snap.Regions[i]
		if catalog.ByCode(rec.Code) == nil {
			p.errorf("region %s: not in catalog", rec.Code)
			continue
		}
		if seen[rec.Code] {
			p.errorf("region %s: duplicated in snapshot", rec.Code)
		}
		seen[rec.Code] = true
		if rec.Code < prevCode {
			p.errorf("region %s: out of code order (after %s)", rec.Code, prevCode)
		}
		prevCode = rec.Code

		checkFields(p, rec.Code, rec.Fields)
	}
	return p
}

func checkFields(p *phase, code string, fields map[domain.FieldID]float64) {
	for _, spec := range domain.Fields() {
		v, ok := fields[spec.ID]
		if !ok {
			p.errorf("region %s: missing field %s", code, spec.ID)
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			p.errorf("region %s field %s: non-finite value", code, spec.ID)
			continue
		}
		if clamped := spec.ClampValue(v); clamped != v {
			p.errorf("region %s field %s: %g outside clamp bounds", code, spec.ID, v)
		}
	}
	if extra := len(fields) - len(domain.Fields()); extra > 0 {
		p.errorf("region %s: %d fields not in the registry", code, extra)
	}
}

// ── Phase 2: Industry Shares ──
// The ten distribution shares sum to exactly 100 and each lies in [0, 100].

func validateIndustryShares(snap *artifact.Snapshot) *phase {
	p := &phase{name: "Phase 2: Industry Share Normalization"}

	for i := range snap.Regions {
		rec := &snap.Regions[i]
		var sum float64
		for _, id := range domain.IndustryShareFields() {
			v := rec.Fields[id]
			if v < 0 || v > 100 {
				p.errorf("region %s share %s: %g outside [0, 100]", rec.Code, id, v)
			}
			sum += v
		}
		if math.Abs(sum-100) > 1e-9 {
			p.errorf("region %s: industry shares sum to %.6f, want 100", rec.Code, sum)
		}
	}
	return p
}

// ── Phase 3: Health Scores ──
// The stored score must equal a recompute from the same record's fields.

func validateHealthScores(snap *artifact.Snapshot) *phase {
	p := &phase{name: "Phase 3: Health Score Consistency"}

	for i := range snap.Regions {
		rec := &snap.Regions[i]
		if rec.HealthScore < 0 || rec.HealthScore > 100 {
			p.errorf("region %s: health score %g outside [0, 100]", rec.Code, rec.HealthScore)
		}
		if want := domain.ComputeHealthScore(rec.Fields); !floatEq(rec.HealthScore, want) {
			p.errorf("region %s: health score %g, recompute gives %g", rec.Code, rec.HealthScore, want)
		}
	}
	return p
}

// ── Phase 4: History Shape ──
// One contiguous ascending series per snapshot region, and the terminal year
// must agree with the snapshot record field by field.

func validateHistoryShape(series *domain.HistoricalSeries, snap *artifact.Snapshot) *phase {
	p := &phase{name: "Phase 4: Historical Series Shape"}

	if series.StartYear > series.EndYear {
		p.errorf("year window inverted: %d..%d", series.StartYear, series.EndYear)
		return p
	}
	wantLen := series.EndYear - series.StartYear + 1

	for i := range snap.Regions {
		rec := &snap.Regions[i]
		years, ok := series.Data[rec.Code]
		if !ok {
			p.errorf("region %s: missing from history", rec.Code)
			continue
		}
		if len(years) != wantLen {
			p.errorf("region %s: %d year records, want %d", rec.Code, len(years), wantLen)
			continue
		}
		for j, yr := range years {
			if yr.Year != series.StartYear+j {
				p.errorf("region %s: year %d at index %d, want %d", rec.Code, yr.Year, j, series.StartYear+j)
				break
			}
		}

		terminal := years[len(years)-1]
		for id, want := range rec.Fields {
			if got, ok := terminal.Fields[id]; !ok || !floatEq(got, want) {
				p.errorf("region %s field %s: terminal year %g, snapshot %g", rec.Code, id, terminal.Fields[id], want)
			}
		}
		if !floatEq(terminal.HealthScore, rec.HealthScore) {
			p.errorf("region %s: terminal health score %g, snapshot %g", rec.Code, terminal.HealthScore, rec.HealthScore)
		}
	}

	if extra := len(series.Data) - len(snap.Regions); extra > 0 {
		p.errorf("history has %d regions not in the snapshot", extra)
	}
	return p
}

func floatEq(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
