package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkoosis/rundiff/pkg/pattern"
)

func testPatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label: "Baseline report",
			Kind:  pattern.SummaryKindRun,
			Metrics: []pattern.SummaryItem{
				{Label: "File", Value: "base.xml", Kind: "info"},
				{Label: "Suite name", Value: "pytest", Kind: "info"},
			},
		},
		&pattern.Summary{
			Label: "TESTS: 4 total, 1 regressions (25.00%), 0 progressions (0.00%)",
			Kind:  pattern.SummaryKindTests,
			Metrics: []pattern.SummaryItem{
				{Label: pattern.WarningLabel, Value: "total count differs: 3 vs. 4", Kind: "warning"},
				{Label: "Regressions", Value: "1 (25.00%)", Kind: "error"},
			},
		},
		&pattern.TestTable{
			Label:    "Regressions (1)",
			Category: "regression",
			Results: []pattern.TestTableItem{
				{Name: "pkg.Mod::test_decode", Status: pattern.StatusFail, Details: "passed → failure"},
			},
		},
	}
}

func TestLLM_RenderTests(t *testing.T) {
	out := NewLLM().Render(testPatterns())

	lines := strings.Split(out, "\n")
	assert.Equal(t, "SCOPE: TESTS: 4 total, 1 regressions (25.00%), 0 progressions (0.00%)", lines[0])
	assert.Equal(t, "baseline: file=base.xml, suite_name=pytest", lines[1])
	assert.Equal(t, "WARN total count differs: 3 vs. 4", lines[2])
	assert.Contains(t, out, "## Regressions (1)\n  pkg.Mod::test_decode passed → failure\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestLLM_RenderCoverage(t *testing.T) {
	patterns := []pattern.Pattern{
		&pattern.Summary{Label: "COVERAGE: 80.00% → 75.00% (-5.00%), 3 files", Kind: pattern.SummaryKindCoverage},
		&pattern.Comparison{
			Label:          "Regressions (1)",
			HigherIsBetter: true,
			Changes:        []pattern.ComparisonItem{{Label: "a.go", Before: "90.00%", After: "60.00%", Change: -30, Unit: " pts"}},
		},
		&pattern.Leaderboard{
			Label:      "Largest coverage drops",
			TotalCount: 12,
			Items:      []pattern.LeaderboardItem{{Name: "a.go", Metric: "-30.00 pts", Rank: 1}},
		},
	}
	out := NewLLM().Render(patterns)

	assert.True(t, strings.HasPrefix(out, "SCOPE: COVERAGE: 80.00% → 75.00% (-5.00%), 3 files\n"))
	assert.Contains(t, out, "  a.go 90.00% → 60.00% (-30.00 pts)\n")
	assert.Contains(t, out, "## Largest coverage drops (top 1 of 12)\n  1. a.go -30.00 pts\n")
}

func TestLLM_RenderError(t *testing.T) {
	out := NewLLM().Render([]pattern.Pattern{&pattern.Error{Source: "report.xml", Message: "unexpected EOF"}})
	assert.Equal(t, "ERROR report.xml: unexpected EOF\n", out)
}
