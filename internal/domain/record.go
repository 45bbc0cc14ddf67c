package domain

import "math"

// ProvenanceKind marks whether a field value came from a real source row or
// from the fallback synthesizer.
type ProvenanceKind string

const (
	ProvenanceReal      ProvenanceKind = "real"
	ProvenanceSynthetic ProvenanceKind = "synthetic"
)

// FieldProvenance records the origin of one (region, field) value. Used for
// coverage reporting only; merge decisions never read it back.
type FieldProvenance struct {
	Kind     ProvenanceKind `json:"kind"`
	SourceID string         `json:"source_id,omitempty"`
}

// Provenance is the per-region, per-field origin map.
type Provenance map[string]map[FieldID]FieldProvenance

// Set records the origin of one field value.
func (p Provenance) Set(regionCode string, field FieldID, fp FieldProvenance) {
	m, ok := p[regionCode]
	if !ok {
		m = make(map[FieldID]FieldProvenance, len(fieldRegistry))
		p[regionCode] = m
	}
	m[field] = fp
}

// RegionRecord is the canonical snapshot for one district: every registry
// field populated with a finite value, plus the derived health score.
type RegionRecord struct {
	Code        string              `json:"code"`
	Name        string              `json:"name"`
	Province    string              `json:"province"`
	Class       RegionClass         `json:"class"`
	Fields      map[FieldID]float64 `json:"fields"`
	HealthScore float64             `json:"healthScore"`
}

// NormalizeIndustryShares rescales the ten industry distribution shares in
// place so they sum to exactly 100. Each share is rounded to one decimal and
// the rounding residue lands on the catch-all share, so the total is exact
// rather than 100±epsilon.
func NormalizeIndustryShares(fields map[FieldID]float64) {
	shareIDs := IndustryShareFields()

	var sum float64
	for _, id := range shareIDs {
		if v := fields[id]; v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			sum += v
		} else {
			fields[id] = 0
		}
	}
	if sum <= 0 {
		// Degenerate input: spread evenly.
		for _, id := range shareIDs {
			fields[id] = 10
		}
		return
	}

	var catchAll FieldID
	var roundedSum float64
	for _, id := range shareIDs {
		if FieldByID(id).CatchAll {
			catchAll = id
			continue
		}
		v := roundTo1(fields[id] / sum * 100)
		fields[id] = v
		roundedSum += v
	}
	fields[catchAll] = roundTo1(100 - roundedSum)
}

// healthScoreWeights: employment carries the most signal, business churn and
// demographic trajectory the rest.
const (
	weightEmployment = 0.30
	weightBizChurn   = 0.20
	weightPopGrowth  = 0.20
	weightAging      = 0.15
	weightGRDP       = 0.15
)

// ComputeHealthScore derives the composite 0–100 health score from the same
// record's fields. It is a pure function: recompute it whenever any input
// field changes, never interpolate it directly.
func ComputeHealthScore(fields map[FieldID]float64) float64 {
	employment := scaleTo100(fields[FieldEmploymentRate], 35, 85)
	churn := clamp01To100(50 + (fields[FieldBusinessBirthRate]-fields[FieldBusinessClosureRate])*5)
	popGrowth := clamp01To100(50 + fields[FieldPopulationGrowthRate]*12.5)
	aging := scaleTo100(48-fields[FieldAgingRate], 0, 45)
	grdp := scaleTo100(fields[FieldGRDPPerCapita], 800, 20000)

	score := weightEmployment*employment +
		weightBizChurn*churn +
		weightPopGrowth*popGrowth +
		weightAging*aging +
		weightGRDP*grdp
	return roundTo1(clamp01To100(score))
}

func scaleTo100(v, lo, hi float64) float64 {
	return clamp01To100((v - lo) / (hi - lo) * 100)
}

func clamp01To100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
