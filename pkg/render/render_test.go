package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/rundiff/pkg/pattern"
)

func TestTerminal_RenderTests(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render(testPatterns())

	assert.Contains(t, out, "Baseline report")
	assert.Contains(t, out, "File       : base.xml")
	assert.Contains(t, out, "! Warning: total count differs: 3 vs. 4")
	assert.Contains(t, out, "x pkg.Mod::test_decode  passed → failure")
}

func TestTerminal_TruncatesWideNames(t *testing.T) {
	long := strings.Repeat("測", 40) // 80 cells
	patterns := []pattern.Pattern{&pattern.TestTable{
		Label:   "Extra Tests (1)",
		Results: []pattern.TestTableItem{{Name: long, Status: pattern.StatusPass}},
	}}
	out := NewTerminal(MonoTheme(), 60).Render(patterns)

	assert.Contains(t, out, "...")
	assert.NotContains(t, out, long)
}

func TestTerminal_ComparisonPolarity(t *testing.T) {
	c := &pattern.Comparison{
		Label:          "Progressions (1)",
		HigherIsBetter: true,
		Changes:        []pattern.ComparisonItem{{Label: "b.go", Before: "50.00%", After: "60.00%", Change: 10, Unit: " pts"}},
	}
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{c})
	assert.Contains(t, out, "b.go  50.00% → 60.00% ↑ 10.00 pts")
}

func TestTerminal_SkipsEmptyPatterns(t *testing.T) {
	out := NewTerminal(DefaultTheme(), 80).Render([]pattern.Pattern{
		&pattern.TestTable{Label: "Empty"},
		&pattern.Comparison{Label: "Empty"},
		&pattern.Leaderboard{Label: "Empty"},
	})
	assert.Empty(t, out)
}

func TestTerminal_RenderError(t *testing.T) {
	out := NewTerminal(MonoTheme(), 80).Render([]pattern.Pattern{&pattern.Error{Source: "base.xml", Message: "no such file"}})
	assert.Equal(t, "x base.xml: no such file\n", out)
}

func TestJSON_Envelope(t *testing.T) {
	out := NewJSON().Render(testPatterns())

	var doc struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, SchemaVersion, doc.Version)
	require.Len(t, doc.Patterns, 3)
	assert.Equal(t, "summary", doc.Patterns[0].Type)
	assert.Equal(t, "test-table", doc.Patterns[2].Type)

	var table pattern.TestTable
	require.NoError(t, json.Unmarshal(doc.Patterns[2].Data, &table))
	assert.Equal(t, "regression", table.Category)
	assert.Equal(t, "passed → failure", table.Results[0].Details)

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(out), &top))
	assert.NotContains(t, top, "delta")
	assert.NotContains(t, top, "kind")
}

func TestJSON_WithDeltaEmbedsReport(t *testing.T) {
	d := map[string][]string{"regressions": {"mod::a"}}
	out := NewJSON().WithDelta("tests", d).Render(testPatterns())

	var doc struct {
		Kind     string              `json:"kind"`
		Delta    map[string][]string `json:"delta"`
		Patterns []json.RawMessage   `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "tests", doc.Kind)
	assert.Equal(t, []string{"mod::a"}, doc.Delta["regressions"])
	assert.Len(t, doc.Patterns, 3)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, "orca", ThemeByName("orca", false).Name)
	assert.Equal(t, "default", ThemeByName("unknown", false).Name)
	assert.Equal(t, "✓", ThemeByName("default", true).Icons.Pass)
}
