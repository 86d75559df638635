package task

import (
	"sort"
	"strings"

	"github.com/compozy/gantt/pkg/config"
)

// ColorStyle is the rendering hint attached to a record.
type ColorStyle struct {
	Hex     string
	Label   string
	Outline bool
}

// ColorTable maps lower-cased color names to styles.
type ColorTable map[string]ColorStyle

// DefaultColorTable returns the built-in color names.
func DefaultColorTable() ColorTable {
	return ColorTable{
		"orange":        {Hex: "#f5642d", Label: "Orange"},
		"grey":          {Hex: "#a9a9a9", Label: "Grey"},
		"gray":          {Hex: "#a9a9a9", Label: "Grey"},
		"black":         {Hex: "#000000", Label: "Black"},
		"black outline": {Hex: "#000000", Label: "Black Outline", Outline: true},
	}
}

// DefaultColor is used when a row has no color value.
var DefaultColor = ColorStyle{Hex: "#4F46E5", Label: "Indigo"}

// Columns names the CSV headers read for each record field.
// Color is optional; an empty name disables color lookup.
type Columns struct {
	Name  string
	Start string
	End   string
	Color string
}

// Schema bundles the column layout and color mapping used by the Normalizer.
type Schema struct {
	Columns      Columns
	Colors       ColorTable
	DefaultColor ColorStyle
}

// DefaultSchema returns the schema for the stock CSV export.
func DefaultSchema() *Schema {
	return &Schema{
		Columns: Columns{
			Name:  "Tasks",
			Start: "Start Date",
			End:   "Completion",
			Color: "Color",
		},
		Colors:       DefaultColorTable(),
		DefaultColor: DefaultColor,
	}
}

// SchemaFromConfig builds a schema from the data section of the configuration.
func SchemaFromConfig(cfg *config.DataConfig) *Schema {
	schema := DefaultSchema()
	if cfg == nil {
		return schema
	}
	cols := cfg.Columns
	if cols.Name != "" {
		schema.Columns.Name = cols.Name
	}
	if cols.Start != "" {
		schema.Columns.Start = cols.Start
	}
	if cols.End != "" {
		schema.Columns.End = cols.End
	}
	schema.Columns.Color = cols.Color
	return schema
}

// RequiredColumns returns the headers that must be present in the source.
func (s *Schema) RequiredColumns() []string {
	return []string{s.Columns.Name, s.Columns.Start, s.Columns.End}
}

// MissingColumns returns required headers absent from header, sorted.
func (s *Schema) MissingColumns(header []string) []string {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}
	var missing []string
	for _, col := range s.RequiredColumns() {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	sort.Strings(missing)
	return missing
}

// ResolveColor maps a raw color cell to a style.
// Known names are matched case-insensitively after trimming. Unknown non-blank
// values pass through verbatim as both hex and label so arbitrary CSS colors
// reach the renderer uninterpreted. Blank values use the schema default.
func (s *Schema) ResolveColor(raw string) ColorStyle {
	value := strings.TrimSpace(raw)
	if value == "" {
		return s.DefaultColor
	}
	if style, ok := s.Colors[strings.ToLower(value)]; ok {
		return style
	}
	return ColorStyle{Hex: value, Label: value}
}
