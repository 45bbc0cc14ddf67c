package domain

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
)

//go:embed regions.json
var regionsJSON []byte

// Region is one administrative district (시/군/구). The catalog is the single
// source of truth for valid codes; entries are immutable after load.
//
// Codes follow the 법정동 scheme: five digits, of which the first two identify
// the province (시/도).
type Region struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"province_code"`
	ProvinceName string `json:"province"`
}

// Catalog holds the loaded region registry and its lookup indexes.
type Catalog struct {
	regions    []Region
	byCode     map[string]*Region
	byProvince map[string][]*Region
}

// LoadCatalog parses the embedded geographic definition artifact. A missing
// or malformed artifact is fatal: no downstream stage can run without it.
func LoadCatalog() (*Catalog, error) {
	var regions []Region
	if err := json.Unmarshal(regionsJSON, &regions); err != nil {
		return nil, fmt.Errorf("parse region catalog: %w", err)
	}
	if len(regions) == 0 {
		return nil, fmt.Errorf("region catalog is empty")
	}

	c := &Catalog{
		regions:    regions,
		byCode:     make(map[string]*Region, len(regions)),
		byProvince: make(map[string][]*Region),
	}
	for i := range c.regions {
		r := &c.regions[i]
		if len(r.Code) != 5 || r.Name == "" || r.ProvinceCode != r.Code[:2] {
			return nil, fmt.Errorf("region catalog: invalid entry %q (%s)", r.Code, r.Name)
		}
		if _, dup := c.byCode[r.Code]; dup {
			return nil, fmt.Errorf("region catalog: duplicate code %s", r.Code)
		}
		c.byCode[r.Code] = r
		c.byProvince[r.ProvinceCode] = append(c.byProvince[r.ProvinceCode], r)
	}
	return c, nil
}

// Regions returns all regions in code order.
func (c *Catalog) Regions() []Region {
	out := make([]Region, len(c.regions))
	copy(out, c.regions)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// ByCode returns the region for a canonical code, or nil.
func (c *Catalog) ByCode(code string) *Region {
	return c.byCode[code]
}

// AllOfProvince returns every district of one province (two-digit code).
func (c *Catalog) AllOfProvince(provinceCode string) []Region {
	ptrs := c.byProvince[provinceCode]
	out := make([]Region, 0, len(ptrs))
	for _, p := range ptrs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// Len reports the number of catalog entries.
func (c *Catalog) Len() int { return len(c.regions) }
