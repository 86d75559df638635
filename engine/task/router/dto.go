package taskrouter

import "github.com/compozy/gantt/engine/task"

// TaskResponse is the wire shape of a task record.
type TaskResponse struct {
	ID            string  `json:"id"            example:"task-0"`
	Name          string  `json:"name"          example:"Design review"`
	Position      int     `json:"position"      example:"0"`
	Start         string  `json:"start"         example:"2024-01-05T15:30:00"`
	End           string  `json:"end"           example:"2024-01-07T18:40:00"`
	Color         string  `json:"color"         example:"#f5642d"`
	ColorLabel    string  `json:"colorLabel"    example:"Orange"`
	Outline       bool    `json:"outline"       example:"false"`
	DurationLabel string  `json:"durationLabel" example:"2 days 3 hrs"`
	DurationHours float64 `json:"durationHours" example:"51.17"`
	DurationDays  float64 `json:"durationDays"  example:"2.13"`
	StartLabel    string  `json:"startLabel"    example:"Jan 05, 2024 03:30 PM"`
	EndLabel      string  `json:"endLabel"      example:"Jan 07, 2024 06:40 PM"`
}

func ToResponse(r task.Record) TaskResponse {
	return TaskResponse{
		ID:            r.ID,
		Name:          r.Name,
		Position:      r.Position,
		Start:         task.FormatISO(r.Start),
		End:           task.FormatISO(r.End),
		Color:         r.Color,
		ColorLabel:    r.ColorLabel,
		Outline:       r.Outline,
		DurationLabel: r.DurationLabel,
		DurationHours: r.DurationHours,
		DurationDays:  r.DurationDays,
		StartLabel:    r.StartLabel,
		EndLabel:      r.EndLabel,
	}
}

// ToResponses converts records in order; the result is never nil.
func ToResponses(records []task.Record) []TaskResponse {
	out := make([]TaskResponse, 0, len(records))
	for _, r := range records {
		out = append(out, ToResponse(r))
	}
	return out
}
