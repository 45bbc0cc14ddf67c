package pipeline

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/hanriverdata/regionpulse/internal/domain"
)

// CategoryCoverage counts how many (region, field) slots in one category were
// filled from a real source versus the synthesizer.
type CategoryCoverage struct {
	Real  int
	Total int
}

// Fraction is the real share of the category's slots, 0 when empty.
func (c CategoryCoverage) Fraction() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Real) / float64(c.Total)
}

// CoverageReport summarizes how much of the snapshot is grounded in real
// observations. It is informational: low coverage is logged, never fatal.
type CoverageReport struct {
	ByCategory map[domain.Category]CategoryCoverage
	// FullySynthetic lists regions no source covered at all, sorted by code.
	FullySynthetic []string
}

// BuildCoverage derives the report from the merge provenance.
func BuildCoverage(prov domain.Provenance) CoverageReport {
	report := CoverageReport{
		ByCategory: make(map[domain.Category]CategoryCoverage, len(domain.Categories())),
	}

	for code, byField := range prov {
		anyReal := false
		for field, fp := range byField {
			cat := domain.FieldByID(field).Category
			cc := report.ByCategory[cat]
			cc.Total++
			if fp.Kind == domain.ProvenanceReal {
				cc.Real++
				anyReal = true
			}
			report.ByCategory[cat] = cc
		}
		if !anyReal {
			report.FullySynthetic = append(report.FullySynthetic, code)
		}
	}
	sort.Strings(report.FullySynthetic)
	return report
}

// Log emits one line per category plus a summary of fully synthetic regions.
func (r CoverageReport) Log(logger *slog.Logger) {
	for _, cat := range domain.Categories() {
		cc, ok := r.ByCategory[cat]
		if !ok {
			continue
		}
		logger.Info("category coverage",
			"category", string(cat),
			"real", cc.Real,
			"total", cc.Total,
			"fraction", fmt.Sprintf("%.3f", cc.Fraction()),
		)
	}
	if n := len(r.FullySynthetic); n > 0 {
		logger.Info("regions with no real coverage", "count", n)
	}
}
