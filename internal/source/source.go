// Package source declares the external statistics sources and their table
// configurations. The registry is an explicit, versioned, priority-ordered
// list embedded at build time: merge priority is list position, and the
// keyword rules that map free-text item labels onto registry fields live
// here as data, not as conditionals scattered through the extractor.
package source

import (
	_ "embed"
	"fmt"

	"github.com/hanriverdata/regionpulse/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed sources.yaml
var sourcesYAML []byte

// FieldRule maps an item label to a canonical field: the rule matches when
// the label contains Keyword. A table whose only rule has an empty keyword
// accepts every row for that field.
type FieldRule struct {
	Field   domain.FieldID `yaml:"field"`
	Keyword string         `yaml:"keyword"`
}

// TableSpec configures one query against a source's tabular endpoint and how
// its rows map onto the uniform row format.
type TableSpec struct {
	ID      string            `yaml:"id"`
	TableID string            `yaml:"table_id"`
	Yearly  bool              `yaml:"yearly"`
	Params  map[string]string `yaml:"params"`

	RegionKey string `yaml:"region_key"`
	ParentKey string `yaml:"parent_key"`
	ItemKey   string `yaml:"item_key"`
	ValueKey  string `yaml:"value_key"`
	PeriodKey string `yaml:"period_key"`

	Fields []FieldRule `yaml:"fields"`

	// SourceID is filled in during load.
	SourceID string `yaml:"-"`
}

// Source is one external statistics provider.
type Source struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	BaseURL       string `yaml:"base_url"`
	CredentialEnv string `yaml:"credential_env"`
	// KeyParam is the query parameter carrying the API key; data.go.kr
	// services use serviceKey (the default), KOSIS uses apiKey.
	KeyParam       string      `yaml:"key_param"`
	RequestDelayMS int         `yaml:"request_delay_ms"`
	Paged          bool        `yaml:"paged"`
	Tables         []TableSpec `yaml:"tables"`
}

// Registry is the loaded, validated source list.
type Registry struct {
	Version int      `yaml:"version"`
	Sources []Source `yaml:"sources"`
}

// Load parses and validates the embedded registry.
func Load() (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(sourcesYAML, &reg); err != nil {
		return nil, fmt.Errorf("parse source registry: %w", err)
	}
	if err := reg.validate(); err != nil {
		return nil, err
	}
	for i := range reg.Sources {
		src := &reg.Sources[i]
		for j := range src.Tables {
			src.Tables[j].SourceID = src.ID
		}
	}
	return &reg, nil
}

// Priority returns the source IDs in merge priority order.
func (r *Registry) Priority() []string {
	ids := make([]string, len(r.Sources))
	for i, s := range r.Sources {
		ids[i] = s.ID
	}
	return ids
}

// ByID returns the source with the given ID, or nil.
func (r *Registry) ByID(id string) *Source {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}

func (r *Registry) validate() error {
	if len(r.Sources) == 0 {
		return fmt.Errorf("source registry: no sources declared")
	}
	seen := make(map[string]bool, len(r.Sources))
	for _, src := range r.Sources {
		if src.ID == "" {
			return fmt.Errorf("source registry: source with empty id")
		}
		if seen[src.ID] {
			return fmt.Errorf("source registry: duplicate source id %q", src.ID)
		}
		seen[src.ID] = true
		if src.BaseURL == "" {
			return fmt.Errorf("source %s: missing base_url", src.ID)
		}
		tableIDs := make(map[string]bool, len(src.Tables))
		for _, t := range src.Tables {
			if err := validateTable(src.ID, t); err != nil {
				return err
			}
			if tableIDs[t.ID] {
				return fmt.Errorf("source %s: duplicate table id %q", src.ID, t.ID)
			}
			tableIDs[t.ID] = true
		}
	}
	return nil
}

func validateTable(sourceID string, t TableSpec) error {
	if t.ID == "" || t.TableID == "" {
		return fmt.Errorf("source %s: table with empty id", sourceID)
	}
	if t.RegionKey == "" || t.ItemKey == "" || t.ValueKey == "" {
		return fmt.Errorf("source %s table %s: region/item/value keys are required", sourceID, t.ID)
	}
	if len(t.Fields) == 0 {
		return fmt.Errorf("source %s table %s: no field rules", sourceID, t.ID)
	}
	for _, rule := range t.Fields {
		if domain.FieldByID(rule.Field) == nil {
			return fmt.Errorf("source %s table %s: unknown field %q", sourceID, t.ID, rule.Field)
		}
		if rule.Keyword == "" && len(t.Fields) > 1 {
			return fmt.Errorf("source %s table %s: keywordless rule requires a single-field table", sourceID, t.ID)
		}
	}
	return nil
}
