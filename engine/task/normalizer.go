package task

import (
	"fmt"
	"strings"
)

// Row is one CSV data row keyed by header name.
type Row map[string]string

// Get returns the cell for column, or "" when the column is absent.
func (r Row) Get(column string) string {
	if column == "" {
		return ""
	}
	return r[column]
}

// Normalizer turns raw rows into records according to a Schema.
type Normalizer struct {
	schema *Schema
}

// NewNormalizer creates a normalizer; a nil schema selects DefaultSchema.
func NewNormalizer(schema *Schema) *Normalizer {
	if schema == nil {
		schema = DefaultSchema()
	}
	return &Normalizer{schema: schema}
}

// Schema returns the schema in use.
func (n *Normalizer) Schema() *Schema {
	return n.schema
}

// Normalize converts the row at the given 0-based position.
// Rows whose start or end cannot be parsed are skipped; it never fails otherwise.
func (n *Normalizer) Normalize(row Row, position int) Outcome {
	cols := n.schema.Columns
	start, ok := ParseTimestamp(row.Get(cols.Start))
	if !ok {
		return Skipped(SkipInvalidStart)
	}
	end, ok := ParseTimestamp(row.Get(cols.End))
	if !ok {
		return Skipped(SkipInvalidEnd)
	}
	name := strings.TrimSpace(row.Get(cols.Name))
	if name == "" {
		name = fmt.Sprintf("Task %d", position+1)
	}
	style := n.schema.ResolveColor(row.Get(cols.Color))
	duration := ComputeDuration(start, end)
	return Parsed(Record{
		ID:            RecordID(position),
		Name:          name,
		Position:      position,
		Start:         start,
		End:           end,
		Color:         style.Hex,
		ColorLabel:    style.Label,
		Outline:       style.Outline,
		DurationLabel: duration.Label,
		DurationHours: duration.Hours,
		DurationDays:  duration.Days,
		StartLabel:    FormatLabel(start),
		EndLabel:      FormatLabel(end),
	})
}

// RecordID derives the identifier for the row at position.
func RecordID(position int) string {
	return fmt.Sprintf("task-%d", position)
}
