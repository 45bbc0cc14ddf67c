package domain_test

import (
	"math"
	"testing"

	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func shareSum(fields map[domain.FieldID]float64) float64 {
	var sum float64
	for _, id := range domain.IndustryShareFields() {
		sum += fields[id]
	}
	return sum
}

func TestNormalizeIndustryShares_SumsToExactly100(t *testing.T) {
	fields := map[domain.FieldID]float64{
		domain.FieldAgricultureShare:        3.3,
		domain.FieldManufacturingShare:      21.7,
		domain.FieldConstructionShare:       7.1,
		domain.FieldWholesaleRetailShare:    19.4,
		domain.FieldTransportLogisticsShare: 6.2,
		domain.FieldAccommodationFoodShare:  11.8,
		domain.FieldInfoCommShare:           4.4,
		domain.FieldFinanceShare:            3.1,
		domain.FieldPublicAdminShare:        6.6,
		domain.FieldOtherServicesShare:      13.9,
	}

	domain.NormalizeIndustryShares(fields)

	assert.InDelta(t, 100, shareSum(fields), 1e-9)
	for _, id := range domain.IndustryShareFields() {
		assert.GreaterOrEqual(t, fields[id], 0.0, "share %s", id)
	}
}

func TestNormalizeIndustryShares_Idempotent(t *testing.T) {
	fields := map[domain.FieldID]float64{
		domain.FieldAgricultureShare:        12,
		domain.FieldManufacturingShare:      30,
		domain.FieldConstructionShare:       5,
		domain.FieldWholesaleRetailShare:    15,
		domain.FieldTransportLogisticsShare: 4,
		domain.FieldAccommodationFoodShare:  9,
		domain.FieldInfoCommShare:           3,
		domain.FieldFinanceShare:            2,
		domain.FieldPublicAdminShare:        8,
		domain.FieldOtherServicesShare:      12,
	}

	domain.NormalizeIndustryShares(fields)
	first := make(map[domain.FieldID]float64, len(fields))
	for k, v := range fields {
		first[k] = v
	}
	domain.NormalizeIndustryShares(fields)

	assert.Equal(t, first, fields, "normalization must be a fixed point")
}

func TestNormalizeIndustryShares_DegenerateInput(t *testing.T) {
	fields := map[domain.FieldID]float64{
		domain.FieldManufacturingShare: math.NaN(),
		domain.FieldFinanceShare:       -4,
	}

	domain.NormalizeIndustryShares(fields)

	assert.InDelta(t, 100, shareSum(fields), 1e-9)
	for _, id := range domain.IndustryShareFields() {
		assert.Equal(t, 10.0, fields[id], "degenerate input spreads evenly")
	}
}

func TestComputeHealthScore_Bounds(t *testing.T) {
	strong := map[domain.FieldID]float64{
		domain.FieldEmploymentRate:       80,
		domain.FieldBusinessBirthRate:    13,
		domain.FieldBusinessClosureRate:  3,
		domain.FieldPopulationGrowthRate: 3,
		domain.FieldAgingRate:            9,
		domain.FieldGRDPPerCapita:        18000,
	}
	weak := map[domain.FieldID]float64{
		domain.FieldEmploymentRate:       38,
		domain.FieldBusinessBirthRate:    3,
		domain.FieldBusinessClosureRate:  11,
		domain.FieldPopulationGrowthRate: -4,
		domain.FieldAgingRate:            41,
		domain.FieldGRDPPerCapita:        1200,
	}

	hi := domain.ComputeHealthScore(strong)
	lo := domain.ComputeHealthScore(weak)

	require.Greater(t, hi, lo)
	assert.GreaterOrEqual(t, lo, 0.0)
	assert.LessOrEqual(t, hi, 100.0)
	assert.Greater(t, hi, 80.0, "a thriving district should score high")
	assert.Less(t, lo, 30.0, "a struggling district should score low")
}

func TestComputeHealthScore_PureFunction(t *testing.T) {
	fields := map[domain.FieldID]float64{
		domain.FieldEmploymentRate:       61.2,
		domain.FieldBusinessBirthRate:    8.3,
		domain.FieldBusinessClosureRate:  6.1,
		domain.FieldPopulationGrowthRate: 0.4,
		domain.FieldAgingRate:            17.9,
		domain.FieldGRDPPerCapita:        4200,
	}

	assert.Equal(t, domain.ComputeHealthScore(fields), domain.ComputeHealthScore(fields))
}
