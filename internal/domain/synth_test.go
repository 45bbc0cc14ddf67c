package domain_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRegion(t *testing.T, code string) domain.Region {
	t.Helper()
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	region := catalog.ByCode(code)
	require.NotNil(t, region)
	return *region
}

func TestSynthesizer_Deterministic(t *testing.T) {
	region := testRegion(t, "11110")

	a := domain.NewSynthesizer(20240101)
	b := domain.NewSynthesizer(20240101)

	recA := a.FullRecordFor(region)
	recB := b.FullRecordFor(region)

	if diff := cmp.Diff(recA, recB); diff != "" {
		t.Errorf("same seed produced different records (-a +b):\n%s", diff)
	}
}

func TestSynthesizer_SeedChangesValues(t *testing.T) {
	region := testRegion(t, "11110")

	a := domain.NewSynthesizer(1)
	b := domain.NewSynthesizer(2)

	// At least most fields should differ across seeds.
	differs := 0
	for _, spec := range domain.Fields() {
		if a.ValueFor(region, spec.ID) != b.ValueFor(region, spec.ID) {
			differs++
		}
	}
	assert.Greater(t, differs, len(domain.Fields())/2)
}

func TestSynthesizer_OrderIndependent(t *testing.T) {
	region := testRegion(t, "41590")
	s := domain.NewSynthesizer(99)

	// Drawing agingRate after other fields must not change its value: each
	// (region, field) pair owns an independent stream.
	direct := s.ValueFor(region, domain.FieldAgingRate)

	s2 := domain.NewSynthesizer(99)
	s2.ValueFor(region, domain.FieldTotalPopulation)
	s2.ValueFor(region, domain.FieldStoreCount)
	assert.Equal(t, direct, s2.ValueFor(region, domain.FieldAgingRate))
}

func TestSynthesizer_ValuesWithinClamp(t *testing.T) {
	catalog, err := domain.LoadCatalog()
	require.NoError(t, err)
	s := domain.NewSynthesizer(20240101)

	for _, region := range catalog.Regions() {
		for _, spec := range domain.Fields() {
			v := s.ValueFor(region, spec.ID)
			require.GreaterOrEqual(t, v, spec.Clamp.Lo, "region %s field %s", region.Code, spec.ID)
			require.LessOrEqual(t, v, spec.Clamp.Hi, "region %s field %s", region.Code, spec.ID)
		}
	}
}

func TestSynthesizer_RegionClassShiftsRanges(t *testing.T) {
	dense := testRegion(t, "11680") // 강남구
	rural := testRegion(t, "27720") // 군위군
	s := domain.NewSynthesizer(20240101)

	// Apartment prices in a named dense-urban override region should sit far
	// above a rural county's.
	assert.Greater(t,
		s.ValueFor(dense, domain.FieldAvgApartmentPrice),
		s.ValueFor(rural, domain.FieldAvgApartmentPrice))
	// Aging runs the other way.
	assert.Less(t,
		s.ValueFor(dense, domain.FieldAgingRate),
		s.ValueFor(rural, domain.FieldAgingRate))
}

func TestSynthesizer_FullRecord(t *testing.T) {
	region := testRegion(t, "43110")
	s := domain.NewSynthesizer(7)

	rec := s.FullRecordFor(region)

	assert.Equal(t, region.Code, rec.Code)
	assert.Equal(t, domain.ClassProvincialCity, rec.Class)
	assert.Len(t, rec.Fields, len(domain.Fields()))
	assert.InDelta(t, 100, shareSum(rec.Fields), 1e-9)
	assert.GreaterOrEqual(t, rec.HealthScore, 0.0)
	assert.LessOrEqual(t, rec.HealthScore, 100.0)
}

func TestNoiseFactor_BoundedAndDeterministic(t *testing.T) {
	s := domain.NewSynthesizer(5)

	for year := 2000; year <= 2024; year++ {
		f := s.NoiseFactor("11110", domain.FieldTotalPopulation, year, 0.025)
		require.GreaterOrEqual(t, f, 0.975)
		require.LessOrEqual(t, f, 1.025)
		require.Equal(t, f, s.NoiseFactor("11110", domain.FieldTotalPopulation, year, 0.025))
	}
}
