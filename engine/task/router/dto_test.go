package taskrouter

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/compozy/gantt/engine/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToResponses(t *testing.T) {
	t.Run("Should return an empty non-nil slice", func(t *testing.T) {
		out := ToResponses(nil)
		require.NotNil(t, out)
		raw, err := json.Marshal(out)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("Should format times as zone-less ISO strings", func(t *testing.T) {
		start := time.Date(2024, 3, 1, 8, 0, 0, 250_000_000, time.UTC)
		resp := ToResponse(task.Record{ID: "task-4", Position: 4, Start: start, End: start.Add(time.Hour)})
		assert.Equal(t, "2024-03-01T08:00:00.250000", resp.Start)
		assert.Equal(t, "2024-03-01T09:00:00.250000", resp.End)
		assert.Equal(t, 4, resp.Position)
	})
}
