package domain

import "strconv"

// Synthesizer generates deterministic, plausible-range substitute values for
// fields no real source populated. All randomness derives from the run seed
// plus the (region, field) identity, so repeated runs are bit-identical and
// filling one field never perturbs another.
type Synthesizer struct {
	seed uint64
}

// NewSynthesizer creates a generator for one run seed.
func NewSynthesizer(seed uint64) *Synthesizer {
	return &Synthesizer{seed: seed}
}

// Seed returns the run seed the synthesizer was built with.
func (s *Synthesizer) Seed() uint64 { return s.seed }

// ValueFor draws a value for one (region, field) pair from the region
// class's plausible range, rounded to the field's declared shape.
func (s *Synthesizer) ValueFor(region Region, field FieldID) float64 {
	spec := FieldByID(field)
	if spec == nil {
		return 0
	}
	rng := DeriveRNG(s.seed, "snapshot", region.Code, string(field))
	return s.sample(rng, spec, s.rangeFor(region, spec))
}

// FullRecordFor synthesizes a complete record for a region with zero real
// coverage, used when bootstrapping before any source data is merged.
func (s *Synthesizer) FullRecordFor(region Region) RegionRecord {
	fields := make(map[FieldID]float64, len(fieldRegistry))
	for _, spec := range fieldRegistry {
		fields[spec.ID] = s.ValueFor(region, spec.ID)
	}
	NormalizeIndustryShares(fields)
	return RegionRecord{
		Code:        region.Code,
		Name:        region.Name,
		Province:    region.ProvinceName,
		Class:       Classify(region),
		Fields:      fields,
		HealthScore: ComputeHealthScore(fields),
	}
}

// NoiseFactor returns a bounded multiplicative noise term in
// [1-amplitude, 1+amplitude] for a (region, field, year) triple. The history
// builder uses it so reconstructed years wiggle without drifting.
func (s *Synthesizer) NoiseFactor(regionCode string, field FieldID, year int, amplitude float64) float64 {
	rng := DeriveRNG(s.seed, "history", regionCode, string(field), strconv.Itoa(year))
	return 1 + (2*rng.Float64()-1)*amplitude
}

// rangeFor resolves the effective sampling range: class profile first
// (replacement range or category scale over the registry base), then any
// named-region override, then intersection with the hard clamp.
func (s *Synthesizer) rangeFor(region Region, spec *FieldSpec) Range {
	profile := classProfiles[Classify(region)]

	r := spec.Base
	if pr, ok := profile.ranges[spec.ID]; ok {
		r = pr
	} else if scale, ok := profile.scale[spec.Category]; ok {
		r = Range{r.Lo * scale, r.Hi * scale}
	}

	if o := overrideFor(region); o != nil {
		if or, ok := o.Ranges[spec.ID]; ok {
			r = or
		} else if scale, ok := o.Scale[spec.Category]; ok {
			r = Range{r.Lo * scale, r.Hi * scale}
		}
	}

	r.Lo = spec.ClampValue(r.Lo)
	r.Hi = spec.ClampValue(r.Hi)
	if r.Hi < r.Lo {
		r.Lo, r.Hi = r.Hi, r.Lo
	}
	return r
}

func (s *Synthesizer) sample(rng *RNG, spec *FieldSpec, r Range) float64 {
	var v float64
	if spec.Gaussian {
		mean := (r.Lo + r.Hi) / 2
		stddev := (r.Hi - r.Lo) / 6
		v = rng.Gaussian(mean, stddev)
		if v < r.Lo {
			v = r.Lo
		}
		if v > r.Hi {
			v = r.Hi
		}
	} else {
		v = rng.Uniform(r.Lo, r.Hi)
	}
	return spec.ClampValue(spec.RoundToShape(v))
}
