package domain

import (
	"fmt"
	"math"
)

// YearRecord is one reconstructed year for one region.
type YearRecord struct {
	Year        int                 `json:"year"`
	Fields      map[FieldID]float64 `json:"fields"`
	HealthScore float64             `json:"healthScore"`
}

// HistoricalSeries is the multi-year artifact: one contiguous, ascending
// yearly array per region, terminal year consistent with the snapshot.
type HistoricalSeries struct {
	StartYear int                     `json:"startYear"`
	EndYear   int                     `json:"endYear"`
	Fields    []FieldID               `json:"fields"`
	Data      map[string][]YearRecord `json:"data"`
}

// YearObservations holds real time-indexed values from multi-year-capable
// sources: regionCode -> field -> year -> value.
type YearObservations map[string]map[FieldID]map[int]float64

// Add records one real yearly observation.
func (o YearObservations) Add(regionCode string, field FieldID, year int, value float64) {
	byField, ok := o[regionCode]
	if !ok {
		byField = make(map[FieldID]map[int]float64)
		o[regionCode] = byField
	}
	byYear, ok := byField[field]
	if !ok {
		byYear = make(map[int]float64)
		byField[field] = byYear
	}
	byYear[year] = value
}

func (o YearObservations) lookup(regionCode string, field FieldID, year int) (float64, bool) {
	v, ok := o[regionCode][field][year]
	return v, ok
}

// historyNoise bounds the multiplicative wiggle on synthesized years.
const historyNoise = 0.025

// trendProfile shapes one field's trajectory backward from the final year.
// annualRate is the forward compound rate (positive means the metric grew
// into the present, so past values shrink); power < 1 flattens the far past;
// the cycle terms add a business-cycle oscillation on absolute years.
type trendProfile struct {
	annualRate  float64
	power       float64
	cycleAmp    float64
	cyclePeriod float64
}

// categoryTrends is the default profile per category.
var categoryTrends = map[Category]trendProfile{
	CategoryPopulation:     {annualRate: 0.002, power: 1},
	CategoryIndustry:       {annualRate: 0.015, power: 0.95},
	CategoryEconomy:        {annualRate: 0.045, power: 0.95, cycleAmp: 0.015, cyclePeriod: 9},
	CategoryRealEstate:     {annualRate: 0.055, power: 0.9},
	CategoryEmployment:     {annualRate: 0.003, power: 1, cycleAmp: 0.02, cyclePeriod: 8},
	CategoryEducation:      {annualRate: 0.01, power: 1},
	CategoryCommercial:     {annualRate: 0.02, power: 0.95},
	CategoryHealthcare:     {annualRate: 0.03, power: 0.95},
	CategorySafety:         {annualRate: 0.015, power: 1},
	CategoryEnvironment:    {annualRate: -0.01, power: 1},
	CategoryInfrastructure: {annualRate: 0.012, power: 0.85},
	CategoryTransportation: {annualRate: 0.02, power: 0.9},
	CategoryCulture:        {annualRate: 0.035, power: 0.9},
}

// fieldTrends overrides the category default where a single metric has a
// known structural shape of its own.
var fieldTrends = map[FieldID]trendProfile{
	FieldAgingRate:            {annualRate: 0.045, power: 1},
	FieldYouthRate:            {annualRate: -0.02, power: 1},
	FieldAvgHouseholdSize:     {annualRate: -0.012, power: 1},
	FieldPM10Average:          {annualRate: -0.022, power: 1},
	FieldPM25Average:          {annualRate: -0.018, power: 1},
	FieldCCTVCount:            {annualRate: 0.12, power: 0.85},
	FieldSubwayStationCount:   {annualRate: 0.03, power: 0.9},
	FieldInfoCommShare:        {annualRate: 0.04, power: 0.95},
	FieldAgricultureShare:     {annualRate: -0.02, power: 1},
	FieldManufacturingShare:   {annualRate: -0.008, power: 1},
	FieldUnemploymentRate:     {annualRate: -0.005, power: 1, cycleAmp: 0.08, cyclePeriod: 8},
	FieldEmploymentRate:       {annualRate: 0.003, power: 1, cycleAmp: 0.015, cyclePeriod: 8},
	FieldHousePriceChangeRate: {cycleAmp: 0.4, cyclePeriod: 7, power: 1},
	FieldCarsPerHousehold:     {annualRate: 0.018, power: 0.9},
}

// classTrendAdjust shifts population-family rates per region class: rural
// counties have been emptying while exurbs filled up, so their pasts diverge
// from the national default.
var classTrendAdjust = map[RegionClass]map[FieldID]float64{
	ClassRuralCounty:    {FieldTotalPopulation: -0.014, FieldHouseholdCount: -0.008},
	ClassProvincialCity: {FieldTotalPopulation: -0.006},
	ClassGrowingExurb:   {FieldTotalPopulation: 0.055, FieldHouseholdCount: 0.06},
	ClassDenseUrban:     {FieldTotalPopulation: -0.004},
}

// eraShock is a named historical window with an adjustment keyed by absolute
// year. Shocks target whole categories and may pin individual fields.
type eraShock struct {
	name       string
	from, to   int
	categories map[Category]float64 // multiplicative
	fieldAdds  map[FieldID]float64  // additive
}

var eraShocks = []eraShock{
	{
		name: "card crisis", from: 2003, to: 2003,
		categories: map[Category]float64{CategoryEconomy: 0.97, CategoryCommercial: 0.96},
		fieldAdds:  map[FieldID]float64{FieldBusinessClosureRate: 1.2, FieldUnemploymentRate: 0.5},
	},
	{
		name: "global financial downturn", from: 2008, to: 2010,
		categories: map[Category]float64{CategoryEconomy: 0.95, CategoryRealEstate: 0.93},
		fieldAdds: map[FieldID]float64{
			FieldEmploymentRate:       -0.8,
			FieldUnemploymentRate:     0.7,
			FieldHousePriceChangeRate: -3,
		},
	},
	{
		name: "asset boom", from: 2019, to: 2022,
		categories: map[Category]float64{CategoryRealEstate: 1.18},
		fieldAdds:  map[FieldID]float64{FieldHousePriceChangeRate: 4},
	},
	{
		name: "pandemic", from: 2020, to: 2020,
		categories: map[Category]float64{CategoryCommercial: 0.88, CategoryCulture: 0.8},
		fieldAdds: map[FieldID]float64{
			FieldEmploymentRate:         -1.0,
			FieldUnemploymentRate:       1.0,
			FieldBusinessClosureRate:    1.5,
			FieldAccommodationFoodShare: -1.5,
			FieldAvgCommuteMinutes:      -4,
		},
	},
}

// Trend returns the (multiplier, additive) adjustment that maps a region's
// final-year value for a field onto the given absolute year.
func Trend(field FieldID, year, endYear int, class RegionClass) (float64, float64) {
	spec := FieldByID(field)
	if spec == nil || year >= endYear {
		return 1, 0
	}

	profile, ok := fieldTrends[field]
	if !ok {
		profile = categoryTrends[spec.Category]
	}
	rate := profile.annualRate
	if adj, ok := classTrendAdjust[class][field]; ok {
		rate = adj
	}

	back := float64(endYear - year)
	shaped := back
	if profile.power > 0 && profile.power != 1 {
		shaped = math.Pow(back, profile.power)
	}
	mult := math.Pow(1+rate, -shaped)

	if profile.cycleAmp > 0 && profile.cyclePeriod > 0 {
		mult *= 1 + profile.cycleAmp*math.Sin(2*math.Pi*float64(year)/profile.cyclePeriod)
	}

	var add float64
	for _, shock := range eraShocks {
		if year < shock.from || year > shock.to {
			continue
		}
		if m, ok := shock.categories[spec.Category]; ok {
			mult *= m
		}
		if a, ok := shock.fieldAdds[field]; ok {
			add += a
		}
	}
	return mult, add
}

// BuildHistory reconstructs the multi-year series for every canonical record.
// Real yearly observations win; everything else is shaped from the final-year
// value by Trend plus bounded noise, clamped to the field's domain. The
// terminal year is always the canonical snapshot, so the two artifacts agree.
func BuildHistory(records map[string]RegionRecord, real YearObservations, startYear, endYear int, synth *Synthesizer) (*HistoricalSeries, error) {
	if endYear < startYear {
		return nil, fmt.Errorf("history window inverted: %d..%d", startYear, endYear)
	}

	fields := make([]FieldID, 0, len(fieldRegistry))
	for _, spec := range fieldRegistry {
		fields = append(fields, spec.ID)
	}

	series := &HistoricalSeries{
		StartYear: startYear,
		EndYear:   endYear,
		Fields:    fields,
		Data:      make(map[string][]YearRecord, len(records)),
	}

	for code, record := range records {
		class := record.Class
		years := make([]YearRecord, 0, endYear-startYear+1)
		for year := startYear; year <= endYear; year++ {
			yr := YearRecord{Year: year, Fields: make(map[FieldID]float64, len(fields))}
			for _, spec := range fieldRegistry {
				yr.Fields[spec.ID] = reconstruct(&spec, record, real, code, year, endYear, class, synth)
			}
			NormalizeIndustryShares(yr.Fields)
			yr.HealthScore = ComputeHealthScore(yr.Fields)
			years = append(years, yr)
		}
		reconcileTerminalYear(years, record)
		series.Data[code] = years
	}
	return series, nil
}

func reconstruct(spec *FieldSpec, record RegionRecord, real YearObservations, code string, year, endYear int, class RegionClass, synth *Synthesizer) float64 {
	if v, ok := real.lookup(code, spec.ID, year); ok && year != endYear {
		return spec.ClampValue(spec.RoundToShape(v))
	}
	final := record.Fields[spec.ID]
	if year == endYear {
		return final
	}
	mult, add := Trend(spec.ID, year, endYear, class)
	v := final*mult + add
	v *= synth.NoiseFactor(code, spec.ID, year, historyNoise)
	return spec.ClampValue(spec.RoundToShape(v))
}

// reconcileTerminalYear overwrites sentinel/zero slots in the last year with
// the canonical merged values and recomputes that year's derived fields.
func reconcileTerminalYear(years []YearRecord, record RegionRecord) {
	last := &years[len(years)-1]
	for id, v := range record.Fields {
		if cur, ok := last.Fields[id]; !ok || cur == 0 {
			if v != 0 {
				last.Fields[id] = v
			}
		}
	}
	last.HealthScore = ComputeHealthScore(last.Fields)
}
