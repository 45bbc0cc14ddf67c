package domain

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Resolution failures. Ambiguous matches are deliberately not guessed at;
// callers treat both errors as "skip this row".
var (
	ErrUnresolved = errors.New("region name unresolved")
	ErrAmbiguous  = errors.New("region name ambiguous")
)

// provinceSuffixes are administrative suffixes stripped when matching a
// province label, longest first so 특별자치도 is not truncated to 특별자치.
var provinceSuffixes = []string{"특별자치시", "특별자치도", "특별시", "광역시", "도"}

// provinceAliases maps contracted and legacy province labels to their
// two-digit codes. The two-character contractions (충청북도 → 충북) are not
// derivable by suffix stripping, so they are declared explicitly; legacy
// names cover sources that predate the 특별자치도 renamings.
var provinceAliases = map[string]string{
	"서울": "11", "부산": "26", "대구": "27", "인천": "28",
	"광주": "29", "대전": "30", "울산": "31", "세종": "36",
	"경기": "41", "강원": "42", "충북": "43", "충남": "44",
	"전북": "45", "전남": "46", "경북": "47", "경남": "48",
	"제주":   "50",
	"강원도":  "42",
	"전라북도": "45",
	"제주도":  "50",
	"세종시":  "36",
}

// aggregateLabels are row labels that denote totals, never a district.
var aggregateLabels = map[string]bool{
	"소계": true, "합계": true, "총계": true,
	"계": true, "전체": true, "전국": true,
}

// districtSuffixes end every legitimate district name. Checked before the
// sub-district deny list so names like 남동구 are never misclassified.
var districtSuffixes = []rune{'구', '시', '군'}

// subDistrictSuffixes end 읍/면/동-level units that some sources intermix
// with district rows and that must be discarded before resolution.
var subDistrictSuffixes = []rune{'읍', '면', '동', '리', '가'}

// subDistrictAllow overrides the suffix heuristic for district names that
// would otherwise be misclassified. Currently empty; kept as the explicit
// escape hatch so a new entry is a one-line data change.
var subDistrictAllow = map[string]bool{}

// Resolver maps free-text region names from any source onto canonical codes.
type Resolver struct {
	catalog  *Catalog
	combined map[string]string   // "<provinceCode>|<name>" -> code
	bare     map[string][]string // district name -> codes (all provinces)
	province map[string]string   // normalized province label -> province code
}

// NewResolver precomputes the exact-match indexes from the catalog.
func NewResolver(catalog *Catalog) *Resolver {
	r := &Resolver{
		catalog:  catalog,
		combined: make(map[string]string, catalog.Len()),
		bare:     make(map[string][]string, catalog.Len()),
		province: make(map[string]string, 64),
	}

	for alias, code := range provinceAliases {
		r.province[alias] = code
	}
	for _, reg := range catalog.Regions() {
		full := Normalize(reg.ProvinceName)
		r.province[full] = reg.ProvinceCode
		if stripped := stripProvinceSuffix(full); stripped != full {
			r.province[stripped] = reg.ProvinceCode
		}

		name := Normalize(reg.Name)
		r.combined[reg.ProvinceCode+"|"+name] = reg.Code
		r.bare[name] = appendUnique(r.bare[name], reg.Code)
	}
	return r
}

// Normalize folds full-width characters to half-width, trims, and collapses
// internal whitespace. Government sources mix both width forms freely.
func Normalize(s string) string {
	return strings.Join(strings.Fields(width.Fold.String(s)), " ")
}

// Resolve maps a free-text district name, optionally qualified by a province
// hint, onto a canonical region code.
func (r *Resolver) Resolve(name, provinceHint string) (string, error) {
	n := Normalize(name)
	if n == "" || IsAggregateLabel(n) {
		return "", ErrUnresolved
	}

	// Composite input: "<province> <district>" in a single label.
	if i := strings.IndexByte(n, ' '); i > 0 {
		prov, district := n[:i], strings.TrimSpace(n[i+1:])
		if code, ok := r.lookupCombined(prov, district); ok {
			return code, nil
		}
		return "", ErrUnresolved
	}

	if IsSubDistrict(n) {
		return "", ErrUnresolved
	}

	if hint := Normalize(provinceHint); hint != "" {
		if code, ok := r.lookupCombined(hint, n); ok {
			return code, nil
		}
	}

	codes := r.bare[n]
	switch len(codes) {
	case 0:
		return "", ErrUnresolved
	case 1:
		return codes[0], nil
	default:
		return "", ErrAmbiguous
	}
}

// ProvinceCodeOf resolves a free-text province label to its two-digit code.
func (r *Resolver) ProvinceCodeOf(label string) (string, bool) {
	n := Normalize(label)
	if code, ok := r.province[n]; ok {
		return code, true
	}
	if code, ok := r.province[stripProvinceSuffix(n)]; ok {
		return code, true
	}
	return "", false
}

func (r *Resolver) lookupCombined(provinceLabel, districtName string) (string, bool) {
	if IsAggregateLabel(districtName) || IsSubDistrict(districtName) {
		return "", false
	}
	provCode, ok := r.ProvinceCodeOf(provinceLabel)
	if !ok {
		return "", false
	}
	code, ok := r.combined[provCode+"|"+districtName]
	return code, ok
}

// IsAggregateLabel reports whether a label is a total/subtotal marker.
func IsAggregateLabel(name string) bool {
	return aggregateLabels[Normalize(name)]
}

// IsSubDistrict classifies 읍/면/동-level labels so they can be discarded
// before resolution. District suffixes win over the deny list, and labels
// containing digits (종로1가동 and the like) are always finer than district.
func IsSubDistrict(name string) bool {
	n := Normalize(name)
	if n == "" || subDistrictAllow[n] {
		return false
	}
	runes := []rune(n)
	last := runes[len(runes)-1]
	for _, s := range districtSuffixes {
		if last == s {
			return false
		}
	}
	for _, r := range runes {
		if unicode.IsDigit(r) {
			return true
		}
	}
	for _, s := range subDistrictSuffixes {
		if last == s {
			return true
		}
	}
	return false
}

func stripProvinceSuffix(name string) string {
	for _, suf := range provinceSuffixes {
		if strings.HasSuffix(name, suf) && len(name) > len(suf) {
			return strings.TrimSuffix(name, suf)
		}
	}
	return name
}

func appendUnique(codes []string, code string) []string {
	for _, c := range codes {
		if c == code {
			return codes
		}
	}
	return append(codes, code)
}
