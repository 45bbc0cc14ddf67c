package domain

import "strings"

// RegionClass buckets districts into synthesis profiles. The bucket decides
// the plausible value range per field, not the merge behavior.
type RegionClass string

const (
	ClassDenseUrban     RegionClass = "dense_urban"
	ClassMetroSuburb    RegionClass = "metro_suburb"
	ClassGrowingExurb   RegionClass = "growing_exurb"
	ClassProvincialCity RegionClass = "provincial_city"
	ClassRuralCounty    RegionClass = "rural_county"
)

// metroProvinces are the 광역시 codes plus Seoul; a 구 there is dense urban.
var metroProvinces = map[string]bool{
	"11": true, "26": true, "27": true,
	"28": true, "29": true, "30": true, "31": true,
}

// growingExurbs are capital-region cities in a sustained construction boom.
// They get growth-shaped ranges their raw province default would miss.
var growingExurbs = map[string]bool{
	"41220": true, // 평택시
	"41450": true, // 하남시
	"41480": true, // 파주시
	"41570": true, // 김포시
	"41590": true, // 화성시
	"41630": true, // 양주시
}

// Classify derives a district's synthesis bucket from its code prefix and
// name suffix.
func Classify(region Region) RegionClass {
	if strings.HasSuffix(region.Name, "군") {
		return ClassRuralCounty
	}
	if metroProvinces[region.ProvinceCode] {
		return ClassDenseUrban
	}
	if region.ProvinceCode == "36" || growingExurbs[region.Code] {
		return ClassGrowingExurb
	}
	if region.ProvinceCode == "41" {
		return ClassMetroSuburb
	}
	return ClassProvincialCity
}

// classProfile parameterizes sampling for one bucket: a per-category scale
// applied to the registry base range, and full range replacements for fields
// where scaling the national base would be wrong (a share or a rate shifts,
// it does not stretch).
type classProfile struct {
	scale  map[Category]float64
	ranges map[FieldID]Range
}

var classProfiles = map[RegionClass]classProfile{
	ClassDenseUrban: {
		scale: map[Category]float64{
			CategoryRealEstate:     1.8,
			CategoryEconomy:        1.3,
			CategoryCommercial:     1.4,
			CategoryHealthcare:     1.3,
			CategoryTransportation: 1.3,
			CategoryCulture:        1.3,
			CategoryEnvironment:    0.8,
		},
		ranges: map[FieldID]Range{
			FieldTotalPopulation:      {120000, 680000},
			FieldPopulationDensity:    {8000, 28000},
			FieldAgingRate:            {9, 20},
			FieldPopulationGrowthRate: {-1.5, 1.0},
			FieldAgricultureShare:     {0.2, 2},
			FieldManufacturingShare:   {2, 12},
			FieldSubwayStationCount:   {5, 40},
			FieldAvgApartmentPrice:    {60000, 180000},
			FieldWaterSupplyRate:      {99, 100},
			FieldSewerageRate:         {95, 100},
		},
	},
	ClassMetroSuburb: {
		scale: map[Category]float64{
			CategoryRealEstate:     1.3,
			CategoryCommercial:     1.1,
			CategoryTransportation: 1.1,
		},
		ranges: map[FieldID]Range{
			FieldTotalPopulation:      {200000, 1200000},
			FieldPopulationDensity:    {1500, 12000},
			FieldAgingRate:            {10, 22},
			FieldPopulationGrowthRate: {-0.5, 2.0},
			FieldAgricultureShare:     {0.5, 5},
			FieldSubwayStationCount:   {0, 15},
			FieldWaterSupplyRate:      {96, 100},
		},
	},
	ClassGrowingExurb: {
		scale: map[Category]float64{
			CategoryRealEstate: 1.2,
		},
		ranges: map[FieldID]Range{
			FieldTotalPopulation:      {250000, 950000},
			FieldPopulationGrowthRate: {1.5, 6},
			FieldAgingRate:            {8, 15},
			FieldNetMigration:         {2000, 25000},
			FieldHousePriceChangeRate: {0, 14},
			FieldSubwayStationCount:   {0, 8},
			FieldManufacturingShare:   {10, 30},
		},
	},
	ClassProvincialCity: {
		ranges: map[FieldID]Range{
			FieldTotalPopulation:      {80000, 450000},
			FieldPopulationDensity:    {100, 2500},
			FieldAgingRate:            {16, 30},
			FieldPopulationGrowthRate: {-2, 0.5},
			FieldSubwayStationCount:   {0, 5},
			FieldAgricultureShare:     {3, 15},
		},
	},
	ClassRuralCounty: {
		scale: map[Category]float64{
			CategoryRealEstate:     0.4,
			CategoryCommercial:     0.6,
			CategoryHealthcare:     0.5,
			CategoryCulture:        0.7,
			CategoryEconomy:        0.85,
			CategoryTransportation: 0.6,
		},
		ranges: map[FieldID]Range{
			FieldTotalPopulation:      {18000, 90000},
			FieldPopulationDensity:    {15, 300},
			FieldAgingRate:            {28, 46},
			FieldPopulationGrowthRate: {-3.5, -0.5},
			FieldYouthRate:            {5, 10},
			FieldNetMigration:         {-4000, 500},
			FieldAgricultureShare:     {15, 45},
			FieldSubwayStationCount:   {0, 0},
			FieldStoresPerThousand:    {8, 20},
			FieldAvgApartmentPrice:    {3000, 15000},
		},
	},
}

// regionOverride shifts a region's profile away from its class default.
// Matched by exact code or by name substring, applied before range sampling.
type regionOverride struct {
	Code          string
	NameSubstring string
	Scale         map[Category]float64
	Ranges        map[FieldID]Range
}

var regionOverrides = []regionOverride{
	// Gangnam belt: prices and incomes well above the dense-urban default.
	{NameSubstring: "강남", Scale: map[Category]float64{CategoryRealEstate: 2.2, CategoryEconomy: 1.6, CategoryEducation: 1.5}},
	{Code: "11650", Scale: map[Category]float64{CategoryRealEstate: 2.0, CategoryEconomy: 1.5, CategoryEducation: 1.5}}, // 서초구
	{Code: "11710", Scale: map[Category]float64{CategoryRealEstate: 1.8, CategoryEconomy: 1.3}},                         // 송파구
	// Affluent capital-adjacent suburbs.
	{Code: "41290", Scale: map[Category]float64{CategoryRealEstate: 1.9, CategoryEconomy: 1.4}}, // 과천시
	{Code: "41130", Scale: map[Category]float64{CategoryRealEstate: 1.7, CategoryEconomy: 1.3}}, // 성남시
	// Sejong: administrative city, public sector dominates the mix.
	{Code: "36110", Ranges: map[FieldID]Range{
		FieldPublicAdminShare:     {18, 32},
		FieldPopulationGrowthRate: {2.5, 7},
	}},
	// Remote islands: thin infrastructure and transit.
	{Code: "47940", Scale: map[Category]float64{CategoryInfrastructure: 0.8, CategoryTransportation: 0.4}}, // 울릉군
	{Code: "28720", Scale: map[Category]float64{CategoryInfrastructure: 0.8, CategoryTransportation: 0.4}}, // 옹진군
}

func overrideFor(region Region) *regionOverride {
	for i := range regionOverrides {
		o := &regionOverrides[i]
		if o.Code != "" && o.Code == region.Code {
			return o
		}
		if o.NameSubstring != "" && strings.Contains(region.Name, o.NameSubstring) {
			return o
		}
	}
	return nil
}
