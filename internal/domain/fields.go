package domain

// FieldID identifies one canonical statistic in the field registry.
type FieldID string

// Category groups fields into the thirteen semantic areas shown on the map.
type Category string

const (
	CategoryPopulation     Category = "population"
	CategoryIndustry       Category = "industry"
	CategoryEconomy        Category = "economy"
	CategoryRealEstate     Category = "real_estate"
	CategoryEmployment     Category = "employment"
	CategoryEducation      Category = "education"
	CategoryCommercial     Category = "commercial"
	CategoryHealthcare     Category = "healthcare"
	CategorySafety         Category = "safety"
	CategoryEnvironment    Category = "environment"
	CategoryInfrastructure Category = "infrastructure"
	CategoryTransportation Category = "transportation"
	CategoryCulture        Category = "culture"
)

// Shape declares how a field's numeric value is rounded and interpreted.
type Shape int

const (
	// ShapeCount is a non-negative (or signed, for migration) integer count.
	ShapeCount Shape = iota
	// ShapeRate is a decimal rate or ratio, kept to one decimal place.
	ShapeRate
	// ShapeGrowth is a signed percentage change, one decimal place.
	ShapeGrowth
	// ShapeCurrency is an amount in 만원/억원, rounded to an integer.
	ShapeCurrency
)

// Range is an inclusive [Lo, Hi] interval.
type Range struct {
	Lo float64
	Hi float64
}

// FieldSpec describes one registry entry. Base is the plausible range the
// synthesizer samples from before class scaling; Clamp is the hard domain
// bound applied to every value, real or synthetic.
type FieldSpec struct {
	ID       FieldID
	Category Category
	Shape    Shape
	Base     Range
	Clamp    Range

	// IndustryShare marks the ten distribution shares that must sum to 100.
	IndustryShare bool
	// CatchAll marks the single share that absorbs rounding residue.
	CatchAll bool
	// Gaussian selects clamped-Gaussian sampling instead of uniform.
	Gaussian bool
}

// Field identifiers. Grouped by category; order here is the registry order
// and the column order of the exported artifacts.
const (
	FieldTotalPopulation      FieldID = "totalPopulation"
	FieldPopulationDensity    FieldID = "populationDensity"
	FieldPopulationGrowthRate FieldID = "populationGrowthRate"
	FieldAgingRate            FieldID = "agingRate"
	FieldYouthRate            FieldID = "youthRate"
	FieldNetMigration         FieldID = "netMigration"
	FieldHouseholdCount       FieldID = "householdCount"
	FieldAvgHouseholdSize     FieldID = "avgHouseholdSize"

	FieldCompanyCount            FieldID = "companyCount"
	FieldEmployeeCount           FieldID = "employeeCount"
	FieldAgricultureShare        FieldID = "agricultureShare"
	FieldManufacturingShare      FieldID = "manufacturingShare"
	FieldConstructionShare       FieldID = "constructionShare"
	FieldWholesaleRetailShare    FieldID = "wholesaleRetailShare"
	FieldTransportLogisticsShare FieldID = "transportLogisticsShare"
	FieldAccommodationFoodShare  FieldID = "accommodationFoodShare"
	FieldInfoCommShare           FieldID = "infoCommShare"
	FieldFinanceShare            FieldID = "financeShare"
	FieldPublicAdminShare        FieldID = "publicAdminShare"
	FieldOtherServicesShare      FieldID = "otherServicesShare"

	FieldGRDPPerCapita       FieldID = "grdpPerCapita"
	FieldAvgAnnualIncome     FieldID = "avgAnnualIncome"
	FieldFiscalAutonomy      FieldID = "fiscalAutonomy"
	FieldLocalTaxRevenue     FieldID = "localTaxRevenue"
	FieldBusinessBirthRate   FieldID = "businessBirthRate"
	FieldBusinessClosureRate FieldID = "businessClosureRate"

	FieldAvgApartmentPrice    FieldID = "avgApartmentPrice"
	FieldAvgJeonsePrice       FieldID = "avgJeonsePrice"
	FieldHousePriceChangeRate FieldID = "housePriceChangeRate"
	FieldHousingSupplyRate    FieldID = "housingSupplyRate"
	FieldVacancyRate          FieldID = "vacancyRate"

	FieldEmploymentRate          FieldID = "employmentRate"
	FieldUnemploymentRate        FieldID = "unemploymentRate"
	FieldYouthEmploymentRate     FieldID = "youthEmploymentRate"
	FieldLaborForceParticipation FieldID = "laborForceParticipation"

	FieldSchoolCount         FieldID = "schoolCount"
	FieldStudentsPerTeacher  FieldID = "studentsPerTeacher"
	FieldPrivateAcademyCount FieldID = "privateAcademyCount"

	FieldStoreCount        FieldID = "storeCount"
	FieldStoresPerThousand FieldID = "storesPerThousand"
	FieldFranchiseCount    FieldID = "franchiseCount"

	FieldHospitalCount         FieldID = "hospitalCount"
	FieldDoctorsPerThousand    FieldID = "doctorsPerThousand"
	FieldHospitalBedsPerK      FieldID = "hospitalBedsPerThousand"
	FieldPharmacyCount         FieldID = "pharmacyCount"
	FieldCrimeRatePerThousand  FieldID = "crimeRatePerThousand"
	FieldTrafficAccidentCount  FieldID = "trafficAccidentCount"
	FieldCCTVCount             FieldID = "cctvCount"
	FieldParkAreaPerCapita     FieldID = "parkAreaPerCapita"
	FieldPM10Average           FieldID = "pm10Average"
	FieldPM25Average           FieldID = "pm25Average"
	FieldGreenSpaceRatio       FieldID = "greenSpaceRatio"
	FieldWaterSupplyRate       FieldID = "waterSupplyRate"
	FieldSewerageRate          FieldID = "sewerageRate"
	FieldRoadPavementRate      FieldID = "roadPavementRate"
	FieldBusRouteCount         FieldID = "busRouteCount"
	FieldSubwayStationCount    FieldID = "subwayStationCount"
	FieldCarsPerHousehold      FieldID = "carsPerHousehold"
	FieldAvgCommuteMinutes     FieldID = "avgCommuteMinutes"
	FieldLibraryCount          FieldID = "libraryCount"
	FieldMuseumCount           FieldID = "museumCount"
	FieldCulturalFacilityCount FieldID = "culturalFacilityCount"
)

// fieldRegistry is the versioned canonical field list. Every region record
// carries exactly these 62 fields.
var fieldRegistry = []FieldSpec{
	{ID: FieldTotalPopulation, Category: CategoryPopulation, Shape: ShapeCount, Base: Range{15000, 700000}, Clamp: Range{3000, 1300000}},
	{ID: FieldPopulationDensity, Category: CategoryPopulation, Shape: ShapeRate, Base: Range{40, 28000}, Clamp: Range{10, 30000}},
	{ID: FieldPopulationGrowthRate, Category: CategoryPopulation, Shape: ShapeGrowth, Base: Range{-2.5, 2.5}, Clamp: Range{-8, 8}, Gaussian: true},
	{ID: FieldAgingRate, Category: CategoryPopulation, Shape: ShapeRate, Base: Range{8, 38}, Clamp: Range{3, 48}, Gaussian: true},
	{ID: FieldYouthRate, Category: CategoryPopulation, Shape: ShapeRate, Base: Range{8, 22}, Clamp: Range{4, 30}, Gaussian: true},
	{ID: FieldNetMigration, Category: CategoryPopulation, Shape: ShapeCount, Base: Range{-8000, 8000}, Clamp: Range{-60000, 60000}},
	{ID: FieldHouseholdCount, Category: CategoryPopulation, Shape: ShapeCount, Base: Range{8000, 320000}, Clamp: Range{1500, 650000}},
	{ID: FieldAvgHouseholdSize, Category: CategoryPopulation, Shape: ShapeRate, Base: Range{1.8, 2.9}, Clamp: Range{1.2, 4}, Gaussian: true},

	{ID: FieldCompanyCount, Category: CategoryIndustry, Shape: ShapeCount, Base: Range{1500, 90000}, Clamp: Range{300, 250000}},
	{ID: FieldEmployeeCount, Category: CategoryIndustry, Shape: ShapeCount, Base: Range{5000, 500000}, Clamp: Range{800, 1500000}},
	{ID: FieldAgricultureShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{1, 30}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldManufacturingShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{3, 35}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldConstructionShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{3, 12}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldWholesaleRetailShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{8, 28}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldTransportLogisticsShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{2, 12}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldAccommodationFoodShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{5, 18}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldInfoCommShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{1, 15}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldFinanceShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{1, 10}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldPublicAdminShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{2, 14}, Clamp: Range{0, 80}, IndustryShare: true},
	{ID: FieldOtherServicesShare, Category: CategoryIndustry, Shape: ShapeRate, Base: Range{8, 25}, Clamp: Range{0, 80}, IndustryShare: true, CatchAll: true},

	{ID: FieldGRDPPerCapita, Category: CategoryEconomy, Shape: ShapeCurrency, Base: Range{1800, 9000}, Clamp: Range{800, 20000}},
	{ID: FieldAvgAnnualIncome, Category: CategoryEconomy, Shape: ShapeCurrency, Base: Range{2400, 7000}, Clamp: Range{1500, 12000}},
	{ID: FieldFiscalAutonomy, Category: CategoryEconomy, Shape: ShapeRate, Base: Range{8, 60}, Clamp: Range{5, 90}, Gaussian: true},
	{ID: FieldLocalTaxRevenue, Category: CategoryEconomy, Shape: ShapeCurrency, Base: Range{300, 30000}, Clamp: Range{50, 80000}},
	{ID: FieldBusinessBirthRate, Category: CategoryEconomy, Shape: ShapeRate, Base: Range{4, 14}, Clamp: Range{1, 25}},
	{ID: FieldBusinessClosureRate, Category: CategoryEconomy, Shape: ShapeRate, Base: Range{3, 11}, Clamp: Range{1, 20}},

	{ID: FieldAvgApartmentPrice, Category: CategoryRealEstate, Shape: ShapeCurrency, Base: Range{6000, 180000}, Clamp: Range{2000, 400000}},
	{ID: FieldAvgJeonsePrice, Category: CategoryRealEstate, Shape: ShapeCurrency, Base: Range{4000, 90000}, Clamp: Range{1500, 200000}},
	{ID: FieldHousePriceChangeRate, Category: CategoryRealEstate, Shape: ShapeGrowth, Base: Range{-6, 10}, Clamp: Range{-25, 35}},
	{ID: FieldHousingSupplyRate, Category: CategoryRealEstate, Shape: ShapeRate, Base: Range{85, 125}, Clamp: Range{60, 160}},
	{ID: FieldVacancyRate, Category: CategoryRealEstate, Shape: ShapeRate, Base: Range{2, 16}, Clamp: Range{0.5, 30}},

	{ID: FieldEmploymentRate, Category: CategoryEmployment, Shape: ShapeRate, Base: Range{52, 70}, Clamp: Range{35, 85}, Gaussian: true},
	{ID: FieldUnemploymentRate, Category: CategoryEmployment, Shape: ShapeRate, Base: Range{1.5, 5.5}, Clamp: Range{0.4, 12}, Gaussian: true},
	{ID: FieldYouthEmploymentRate, Category: CategoryEmployment, Shape: ShapeRate, Base: Range{35, 55}, Clamp: Range{20, 70}},
	{ID: FieldLaborForceParticipation, Category: CategoryEmployment, Shape: ShapeRate, Base: Range{55, 72}, Clamp: Range{40, 85}},

	{ID: FieldSchoolCount, Category: CategoryEducation, Shape: ShapeCount, Base: Range{15, 150}, Clamp: Range{3, 300}},
	{ID: FieldStudentsPerTeacher, Category: CategoryEducation, Shape: ShapeRate, Base: Range{8, 18}, Clamp: Range{4, 30}},
	{ID: FieldPrivateAcademyCount, Category: CategoryEducation, Shape: ShapeCount, Base: Range{30, 1500}, Clamp: Range{5, 4000}},

	{ID: FieldStoreCount, Category: CategoryCommercial, Shape: ShapeCount, Base: Range{800, 45000}, Clamp: Range{150, 120000}},
	{ID: FieldStoresPerThousand, Category: CategoryCommercial, Shape: ShapeRate, Base: Range{8, 35}, Clamp: Range{2, 60}},
	{ID: FieldFranchiseCount, Category: CategoryCommercial, Shape: ShapeCount, Base: Range{50, 4000}, Clamp: Range{10, 12000}},

	{ID: FieldHospitalCount, Category: CategoryHealthcare, Shape: ShapeCount, Base: Range{20, 2500}, Clamp: Range{3, 6000}},
	{ID: FieldDoctorsPerThousand, Category: CategoryHealthcare, Shape: ShapeRate, Base: Range{0.8, 6}, Clamp: Range{0.2, 15}},
	{ID: FieldHospitalBedsPerK, Category: CategoryHealthcare, Shape: ShapeRate, Base: Range{3, 25}, Clamp: Range{0.5, 45}},
	{ID: FieldPharmacyCount, Category: CategoryHealthcare, Shape: ShapeCount, Base: Range{10, 700}, Clamp: Range{2, 1800}},

	{ID: FieldCrimeRatePerThousand, Category: CategorySafety, Shape: ShapeRate, Base: Range{12, 45}, Clamp: Range{3, 80}},
	{ID: FieldTrafficAccidentCount, Category: CategorySafety, Shape: ShapeCount, Base: Range{150, 4500}, Clamp: Range{20, 12000}},
	{ID: FieldCCTVCount, Category: CategorySafety, Shape: ShapeCount, Base: Range{300, 12000}, Clamp: Range{50, 40000}},

	{ID: FieldParkAreaPerCapita, Category: CategoryEnvironment, Shape: ShapeRate, Base: Range{3, 30}, Clamp: Range{0.5, 60}},
	{ID: FieldPM10Average, Category: CategoryEnvironment, Shape: ShapeRate, Base: Range{25, 55}, Clamp: Range{10, 90}},
	{ID: FieldPM25Average, Category: CategoryEnvironment, Shape: ShapeRate, Base: Range{12, 30}, Clamp: Range{5, 60}},
	{ID: FieldGreenSpaceRatio, Category: CategoryEnvironment, Shape: ShapeRate, Base: Range{10, 75}, Clamp: Range{2, 95}},

	{ID: FieldWaterSupplyRate, Category: CategoryInfrastructure, Shape: ShapeRate, Base: Range{88, 100}, Clamp: Range{50, 100}},
	{ID: FieldSewerageRate, Category: CategoryInfrastructure, Shape: ShapeRate, Base: Range{60, 100}, Clamp: Range{20, 100}},
	{ID: FieldRoadPavementRate, Category: CategoryInfrastructure, Shape: ShapeRate, Base: Range{70, 100}, Clamp: Range{30, 100}},

	{ID: FieldBusRouteCount, Category: CategoryTransportation, Shape: ShapeCount, Base: Range{20, 700}, Clamp: Range{3, 1500}},
	{ID: FieldSubwayStationCount, Category: CategoryTransportation, Shape: ShapeCount, Base: Range{0, 40}, Clamp: Range{0, 80}},
	{ID: FieldCarsPerHousehold, Category: CategoryTransportation, Shape: ShapeRate, Base: Range{0.7, 1.6}, Clamp: Range{0.3, 2.5}},
	{ID: FieldAvgCommuteMinutes, Category: CategoryTransportation, Shape: ShapeRate, Base: Range{18, 55}, Clamp: Range{8, 90}, Gaussian: true},

	{ID: FieldLibraryCount, Category: CategoryCulture, Shape: ShapeCount, Base: Range{2, 40}, Clamp: Range{1, 90}},
	{ID: FieldMuseumCount, Category: CategoryCulture, Shape: ShapeCount, Base: Range{0, 25}, Clamp: Range{0, 60}},
	{ID: FieldCulturalFacilityCount, Category: CategoryCulture, Shape: ShapeCount, Base: Range{5, 120}, Clamp: Range{1, 300}},
}

var fieldByID = func() map[FieldID]*FieldSpec {
	m := make(map[FieldID]*FieldSpec, len(fieldRegistry))
	for i := range fieldRegistry {
		m[fieldRegistry[i].ID] = &fieldRegistry[i]
	}
	return m
}()

// Fields returns the registry in canonical order.
func Fields() []FieldSpec {
	return fieldRegistry
}

// FieldByID looks up a registry entry, or nil for an unknown identifier.
func FieldByID(id FieldID) *FieldSpec {
	return fieldByID[id]
}

// IndustryShareFields returns the ten distribution shares in registry order.
func IndustryShareFields() []FieldID {
	ids := make([]FieldID, 0, 10)
	for _, f := range fieldRegistry {
		if f.IndustryShare {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Categories returns the thirteen categories in registry order, each once.
func Categories() []Category {
	seen := make(map[Category]bool, 13)
	out := make([]Category, 0, 13)
	for _, f := range fieldRegistry {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// RoundToShape rounds v according to the field's declared shape: counts and
// currency amounts to integers, rates and growth percentages to one decimal.
func (s *FieldSpec) RoundToShape(v float64) float64 {
	switch s.Shape {
	case ShapeCount, ShapeCurrency:
		return float64(int64(v + copysignHalf(v)))
	default:
		return roundTo1(v)
	}
}

// ClampValue bounds v to the field's hard domain interval.
func (s *FieldSpec) ClampValue(v float64) float64 {
	if v < s.Clamp.Lo {
		return s.Clamp.Lo
	}
	if v > s.Clamp.Hi {
		return s.Clamp.Hi
	}
	return v
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}

func roundTo1(v float64) float64 {
	if v < 0 {
		return float64(int64(v*10-0.5)) / 10
	}
	return float64(int64(v*10+0.5)) / 10
}
