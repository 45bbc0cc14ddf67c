package domain

// Row is the uniform shape every source table is mapped onto before
// extraction. Values stay as raw strings; numeric normalization happens in
// the extractor, where a parse failure can be counted instead of lost.
type Row struct {
	RegionLabel string // district-level free-text label (e.g. "종로구")
	ParentLabel string // province-level label when the table is two-level
	Item        string // free-text item/category label (e.g. "총인구수")
	Value       string // string-encoded numeric value (e.g. "162,820")
	Period      string // source period stamp (e.g. "2024" or "202403")
}
