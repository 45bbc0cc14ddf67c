package pipeline

import (
	"math"

	"github.com/hanriverdata/regionpulse/internal/domain"
)

// SourceFields is one source's extracted snapshot values, keyed region code
// then field.
type SourceFields map[string]map[domain.FieldID]float64

// MergeResult pairs the complete per-region records with the provenance map
// and the counters coverage reporting reads.
type MergeResult struct {
	Records      map[string]domain.RegionRecord
	Provenance   domain.Provenance
	RealBySource map[string]int
	Synthesized  int
}

// Merge builds a complete record for every region in the catalog. For each
// field, sources are consulted in priority order and the first finite value
// wins; fields no source covered are filled by the synthesizer. Industry
// shares are renormalized and the health score recomputed after the merge, so
// derived values are always consistent with the merged inputs.
func Merge(catalog *domain.Catalog, priority []string, bySource map[string]SourceFields, synth *domain.Synthesizer) MergeResult {
	res := MergeResult{
		Records:      make(map[string]domain.RegionRecord, catalog.Len()),
		Provenance:   make(domain.Provenance, catalog.Len()),
		RealBySource: make(map[string]int, len(priority)),
	}

	for _, region := range catalog.Regions() {
		fields := make(map[domain.FieldID]float64, len(domain.Fields()))

		for _, spec := range domain.Fields() {
			value, sourceID, ok := firstFinite(priority, bySource, region.Code, spec.ID)
			if ok {
				fields[spec.ID] = spec.ClampValue(spec.RoundToShape(value))
				res.Provenance.Set(region.Code, spec.ID, domain.FieldProvenance{
					Kind:     domain.ProvenanceReal,
					SourceID: sourceID,
				})
				res.RealBySource[sourceID]++
				continue
			}
			fields[spec.ID] = synth.ValueFor(region, spec.ID)
			res.Provenance.Set(region.Code, spec.ID, domain.FieldProvenance{Kind: domain.ProvenanceSynthetic})
			res.Synthesized++
		}

		domain.NormalizeIndustryShares(fields)

		res.Records[region.Code] = domain.RegionRecord{
			Code:        region.Code,
			Name:        region.Name,
			Province:    region.ProvinceName,
			Class:       domain.Classify(region),
			Fields:      fields,
			HealthScore: domain.ComputeHealthScore(fields),
		}
	}
	return res
}

// firstFinite walks the priority list and returns the first usable value.
// NaN and infinities are treated as absent so a malformed source value can
// never mask a lower-priority real one.
func firstFinite(priority []string, bySource map[string]SourceFields, code string, field domain.FieldID) (float64, string, bool) {
	for _, sourceID := range priority {
		byRegion, ok := bySource[sourceID]
		if !ok {
			continue
		}
		v, ok := byRegion[code][field]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		return v, sourceID, true
	}
	return 0, "", false
}
