package task

import "time"

// Record is one normalized CSV row, ready to render as a Gantt bar.
// It carries no serialization tags; transports map it to their own shape.
type Record struct {
	ID            string
	Name          string
	Position      int
	Start         time.Time
	End           time.Time
	Color         string
	ColorLabel    string
	Outline       bool
	DurationLabel string
	DurationHours float64
	DurationDays  float64
	StartLabel    string
	EndLabel      string
}

// SkipReason explains why a row produced no record.
type SkipReason string

const (
	SkipInvalidStart SkipReason = "invalid_start"
	SkipInvalidEnd   SkipReason = "invalid_end"
)

// Outcome is the result of normalizing a single row: either a parsed record or a skip.
type Outcome struct {
	record *Record
	reason SkipReason
}

// Parsed wraps a record produced from a row.
func Parsed(r Record) Outcome {
	return Outcome{record: &r}
}

// Skipped signals that the row must be dropped.
func Skipped(reason SkipReason) Outcome {
	return Outcome{reason: reason}
}

// Record returns the parsed record and true, or a zero record and false for a skip.
func (o Outcome) Record() (Record, bool) {
	if o.record == nil {
		return Record{}, false
	}
	return *o.record, true
}

// IsSkipped reports whether the row was dropped.
func (o Outcome) IsSkipped() bool {
	return o.record == nil
}

// Reason returns the skip reason; empty for parsed rows.
func (o Outcome) Reason() SkipReason {
	return o.reason
}
