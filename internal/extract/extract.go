// Package extract maps raw source rows onto canonical per-region field
// values. Row-level failures (unresolvable names, aggregate rows, sentinel
// values) are counted, never logged per row and never fatal.
package extract

import (
	"strconv"
	"strings"

	"github.com/hanriverdata/regionpulse/internal/domain"
	"github.com/hanriverdata/regionpulse/internal/source"
)

// Stats aggregates row-level outcomes for one table pass.
type Stats struct {
	RowsTotal    int
	Extracted    int
	Unresolved   int
	Ambiguous    int
	Aggregate    int
	SubDistrict  int
	Unparsable   int
	NoFieldMatch int
	Duplicate    int
}

// Add accumulates another table's stats into s.
func (s *Stats) Add(o Stats) {
	s.RowsTotal += o.RowsTotal
	s.Extracted += o.Extracted
	s.Unresolved += o.Unresolved
	s.Ambiguous += o.Ambiguous
	s.Aggregate += o.Aggregate
	s.SubDistrict += o.SubDistrict
	s.Unparsable += o.Unparsable
	s.NoFieldMatch += o.NoFieldMatch
	s.Duplicate += o.Duplicate
}

// Skipped is the total of rows that contributed nothing.
func (s Stats) Skipped() int {
	return s.Unresolved + s.Ambiguous + s.Aggregate + s.SubDistrict + s.Unparsable + s.NoFieldMatch + s.Duplicate
}

// Result holds one table's extracted values: the target-year snapshot map
// and, for yearly-capable tables, the real time-indexed observations.
type Result struct {
	Fields map[string]map[domain.FieldID]float64
	Yearly domain.YearObservations
	Stats  Stats
}

// noDataSentinels are upstream markers for "no observation". They must parse
// as failure, never as zero.
var noDataSentinels = map[string]bool{
	"": true, "-": true, "…": true, "...": true,
	"X": true, "x": true, "*": true, "N/A": true,
}

// Extract runs one table's rows through resolution, numeric normalization,
// and keyword dispatch. First write wins for a (region, field) pair within
// one table; later duplicate rows never overwrite.
func Extract(rows []domain.Row, table source.TableSpec, resolver *domain.Resolver, targetYear int) Result {
	res := Result{
		Fields: make(map[string]map[domain.FieldID]float64),
		Yearly: make(domain.YearObservations),
	}

	for _, row := range rows {
		res.Stats.RowsTotal++

		label := domain.Normalize(row.RegionLabel)
		if domain.IsAggregateLabel(label) {
			res.Stats.Aggregate++
			continue
		}
		if domain.IsSubDistrict(label) {
			res.Stats.SubDistrict++
			continue
		}

		code, err := resolver.Resolve(label, row.ParentLabel)
		if err == domain.ErrAmbiguous {
			res.Stats.Ambiguous++
			continue
		}
		if err != nil {
			res.Stats.Unresolved++
			continue
		}

		value, ok := ParseNumeric(row.Value)
		if !ok {
			res.Stats.Unparsable++
			continue
		}

		fieldID, ok := matchField(table.Fields, row.Item)
		if !ok {
			res.Stats.NoFieldMatch++
			continue
		}
		spec := domain.FieldByID(fieldID)
		value = spec.RoundToShape(value)

		year := periodYear(row.Period, targetYear)
		if table.Yearly && year != targetYear {
			if _, exists := res.Yearly[code][fieldID][year]; exists {
				res.Stats.Duplicate++
				continue
			}
			res.Yearly.Add(code, fieldID, year, value)
			res.Stats.Extracted++
			continue
		}

		byField, ok := res.Fields[code]
		if !ok {
			byField = make(map[domain.FieldID]float64)
			res.Fields[code] = byField
		}
		if _, exists := byField[fieldID]; exists {
			res.Stats.Duplicate++
			continue
		}
		byField[fieldID] = value
		res.Stats.Extracted++
	}
	return res
}

// matchField returns the first rule whose keyword the item label contains.
// A single keywordless rule accepts unconditionally.
func matchField(rules []source.FieldRule, item string) (domain.FieldID, bool) {
	item = domain.Normalize(item)
	for _, rule := range rules {
		if rule.Keyword == "" || strings.Contains(item, rule.Keyword) {
			return rule.Field, true
		}
	}
	return "", false
}

// ParseNumeric normalizes a string-encoded number: thousands separators and
// surrounding whitespace are stripped, and no-data sentinels fail the parse.
func ParseNumeric(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if noDataSentinels[s] {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// periodYear extracts the 4-digit year prefix of a period stamp such as
// "2024" or "202403", falling back to the target year.
func periodYear(period string, fallback int) int {
	p := strings.TrimSpace(period)
	if len(p) < 4 {
		return fallback
	}
	y, err := strconv.Atoi(p[:4])
	if err != nil || y < 1900 || y > 2100 {
		return fallback
	}
	return y
}
