package task

import (
	"testing"

	"github.com/compozy/gantt/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestSchema_ResolveColor(t *testing.T) {
	t.Parallel()
	schema := DefaultSchema()
	cases := []struct {
		name  string
		raw   string
		style ColorStyle
	}{
		{"Should map named color case-insensitively", "Orange", ColorStyle{Hex: "#f5642d", Label: "Orange"}},
		{"Should map outlined black", "black outline", ColorStyle{Hex: "#000000", Label: "Black Outline", Outline: true}},
		{"Should map both grey spellings", " GRAY ", ColorStyle{Hex: "#a9a9a9", Label: "Grey"}},
		{"Should map plain black", "Black", ColorStyle{Hex: "#000000", Label: "Black"}},
		{"Should pass unknown values through", "#00ff00", ColorStyle{Hex: "#00ff00", Label: "#00ff00"}},
		{"Should pass numeric-looking values through", "42", ColorStyle{Hex: "42", Label: "42"}},
		{"Should default blank values", "   ", ColorStyle{Hex: "#4F46E5", Label: "Indigo"}},
		{"Should default missing values", "", ColorStyle{Hex: "#4F46E5", Label: "Indigo"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.style, schema.ResolveColor(tc.raw))
		})
	}
}

func TestSchema_MissingColumns(t *testing.T) {
	t.Parallel()
	schema := DefaultSchema()
	t.Run("Should report nothing when all required headers exist", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, schema.MissingColumns([]string{"Tasks", "Start Date", "Completion"}))
	})
	t.Run("Should not require the color column", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, schema.MissingColumns([]string{"Completion", "Tasks", "Start Date"}))
	})
	t.Run("Should list missing headers sorted", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Completion", "Start Date"}, schema.MissingColumns([]string{"Tasks", "Color"}))
	})
}

func TestSchemaFromConfig(t *testing.T) {
	t.Parallel()
	t.Run("Should use configured headers", func(t *testing.T) {
		t.Parallel()
		schema := SchemaFromConfig(&config.DataConfig{Columns: config.ColumnsConfig{
			Name: "Title", Start: "Begin", End: "Finish", Color: "",
		}})
		assert.Equal(t, Columns{Name: "Title", Start: "Begin", End: "Finish"}, schema.Columns)
		assert.Equal(t, DefaultColorTable(), schema.Colors)
	})
	t.Run("Should fall back to defaults for nil config", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, DefaultSchema(), SchemaFromConfig(nil))
	})
}
