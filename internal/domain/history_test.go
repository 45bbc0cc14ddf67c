package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestRecords(t *testing.T, codes ...string) map[string]domain.RegionRecord {
	t.Helper()
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	synth := domain.NewSynthesizer(20240101)

	records := make(map[string]domain.RegionRecord, len(codes))
	for _, code := range codes {
		region := catalog.ByCode(code)
		require.NotNil(t, region, "code %s", code)
		records[code] = synth.FullRecordFor(*region)
	}
	return records
}

func TestBuildHistory_ShapeAndContiguity(t *testing.T) {
	records := buildTestRecords(t, "11110", "27720")
	synth := domain.NewSynthesizer(20240101)

	series, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, synth)
	require.NoError(t, err)

	assert.Equal(t, 2000, series.StartYear)
	assert.Equal(t, 2024, series.EndYear)
	assert.Len(t, series.Fields, len(domain.Fields()))
	require.Len(t, series.Data, 2)

	for code, years := range series.Data {
		require.Len(t, years, 25, "region %s", code)
		for i, yr := range years {
			assert.Equal(t, 2000+i, yr.Year, "region %s index %d", code, i)
			assert.Len(t, yr.Fields, len(domain.Fields()))
		}
	}
}

func TestBuildHistory_TerminalYearMatchesSnapshot(t *testing.T) {
	records := buildTestRecords(t, "11110")
	synth := domain.NewSynthesizer(20240101)

	series, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, synth)
	require.NoError(t, err)

	years := series.Data["11110"]
	terminal := years[len(years)-1]
	record := records["11110"]

	if diff := cmp.Diff(record.Fields, terminal.Fields); diff != "" {
		t.Errorf("terminal year diverged from snapshot (-snapshot +terminal):\n%s", diff)
	}
	assert.Equal(t, record.HealthScore, terminal.HealthScore)
}

func TestBuildHistory_RealObservationWins(t *testing.T) {
	records := buildTestRecords(t, "11110")
	synth := domain.NewSynthesizer(20240101)

	real := domain.YearObservations{}
	real.Add("11110", domain.FieldTotalPopulation, 2015, 171843)
	// A real value at the terminal year must NOT displace the canonical
	// merged value; the two artifacts have to agree.
	real.Add("11110", domain.FieldTotalPopulation, 2024, 1)

	series, err := domain.BuildHistory(records, real, 2000, 2024, synth)
	require.NoError(t, err)

	years := series.Data["11110"]
	assert.Equal(t, 171843.0, years[15].Fields[domain.FieldTotalPopulation])
	assert.Equal(t, records["11110"].Fields[domain.FieldTotalPopulation],
		years[24].Fields[domain.FieldTotalPopulation])
}

func TestBuildHistory_Deterministic(t *testing.T) {
	records := buildTestRecords(t, "41590")

	a, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, domain.NewSynthesizer(7))
	require.NoError(t, err)
	b, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, domain.NewSynthesizer(7))
	require.NoError(t, err)

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same inputs produced different series:\n%s", diff)
	}
}

func TestBuildHistory_ValuesStayClamped(t *testing.T) {
	records := buildTestRecords(t, "11680", "27720", "36110")
	synth := domain.NewSynthesizer(20240101)

	series, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, synth)
	require.NoError(t, err)

	for code, years := range series.Data {
		for _, yr := range years {
			for _, spec := range domain.Fields() {
				v := yr.Fields[spec.ID]
				if spec.IndustryShare {
					// Shares are renormalized after clamping; bound them by
					// the distribution domain instead.
					require.GreaterOrEqual(t, v, 0.0, "region %s year %d field %s", code, yr.Year, spec.ID)
					require.LessOrEqual(t, v, 100.0, "region %s year %d field %s", code, yr.Year, spec.ID)
					continue
				}
				require.GreaterOrEqual(t, v, spec.Clamp.Lo, "region %s year %d field %s", code, yr.Year, spec.ID)
				require.LessOrEqual(t, v, spec.Clamp.Hi, "region %s year %d field %s", code, yr.Year, spec.ID)
			}
		}
	}
}

func TestBuildHistory_SharesSumTo100EveryYear(t *testing.T) {
	records := buildTestRecords(t, "43110")
	synth := domain.NewSynthesizer(3)

	series, err := domain.BuildHistory(records, domain.YearObservations{}, 2000, 2024, synth)
	require.NoError(t, err)

	for _, yr := range series.Data["43110"] {
		assert.InDelta(t, 100, shareSum(yr.Fields), 1e-9, "year %d", yr.Year)
	}
}

func TestBuildHistory_InvertedWindow(t *testing.T) {
	records := buildTestRecords(t, "11110")
	_, err := domain.BuildHistory(records, domain.YearObservations{}, 2024, 2000, domain.NewSynthesizer(1))
	assert.Error(t, err)
}

func TestTrend_EraShocks(t *testing.T) {
	// The pandemic year must push unemployment up relative to its neighbors.
	m2019, a2019 := domain.Trend(domain.FieldUnemploymentRate, 2019, 2024, domain.ClassDenseUrban)
	m2020, a2020 := domain.Trend(domain.FieldUnemploymentRate, 2020, 2024, domain.ClassDenseUrban)

	assert.Greater(t, a2020, a2019)
	assert.Greater(t, m2019, 0.0)
	assert.Greater(t, m2020, 0.0)

	// Terminal year is the identity.
	m, a := domain.Trend(domain.FieldUnemploymentRate, 2024, 2024, domain.ClassDenseUrban)
	assert.Equal(t, 1.0, m)
	assert.Equal(t, 0.0, a)
}

func TestTrend_ClassDivergence(t *testing.T) {
	// Rural populations shrank into the present, so a rural county's past
	// population multiplier exceeds a growing exurb's.
	ruralMult, _ := domain.Trend(domain.FieldTotalPopulation, 2005, 2024, domain.ClassRuralCounty)
	exurbMult, _ := domain.Trend(domain.FieldTotalPopulation, 2005, 2024, domain.ClassGrowingExurb)

	assert.Greater(t, ruralMult, 1.0)
	assert.Less(t, exurbMult, 1.0)
}
