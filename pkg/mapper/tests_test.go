package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/rundiff/pkg/delta"
	"github.com/dkoosis/rundiff/pkg/pattern"
	"github.com/dkoosis/rundiff/pkg/result"
	"github.com/dkoosis/rundiff/pkg/skiplist"
)

func mustTests(t *testing.T, meta result.Metadata, pairs ...any) *result.TestSet {
	t.Helper()
	var recs []result.TestRecord
	for i := 0; i+1 < len(pairs); i += 2 {
		recs = append(recs, result.TestRecord{ID: pairs[i].(string), Status: pairs[i+1].(result.Status)})
	}
	set, err := result.NewTestSet(meta, recs)
	require.NoError(t, err)
	return set
}

func tables(patterns []pattern.Pattern) []*pattern.TestTable {
	var out []*pattern.TestTable
	for _, p := range patterns {
		if tt, ok := p.(*pattern.TestTable); ok {
			out = append(out, tt)
		}
	}
	return out
}

func TestFromTestDelta_SectionsInReportOrder(t *testing.T) {
	base := mustTests(t, result.Metadata{Name: "suite", Origin: "base.xml", Label: "2024-01-01T00:00:00", Host: "ci"},
		"a", result.StatusPassed,
		"b", result.StatusFailure,
		"c", result.StatusFailure,
		"d", result.StatusPassed,
		"gone", result.StatusPassed,
		"known", result.StatusFailure,
	)
	curr := mustTests(t, result.Metadata{Name: "suite"},
		"a", result.StatusFailure,
		"b", result.StatusPassed,
		"c", result.StatusError,
		"d", result.StatusPassed,
		"new", result.StatusPassed,
		"known", result.StatusFailure,
	)
	d := delta.Classify(base, curr, skiplist.New("known"))

	patterns := FromTestDelta(base, curr, d, nil)
	require.GreaterOrEqual(t, len(patterns), 3)

	baseSum := patterns[0].(*pattern.Summary)
	assert.Equal(t, pattern.SummaryKindRun, baseSum.Kind)
	assert.Equal(t, "Baseline report", baseSum.Label)
	assert.Equal(t, "base.xml", baseSum.Metrics[0].Value)
	assert.Equal(t, "ci", baseSum.Metrics[4].Value)

	currSum := patterns[1].(*pattern.Summary)
	assert.Equal(t, "N/A", currSum.Metrics[0].Value)

	cls := patterns[2].(*pattern.Summary)
	assert.Equal(t, pattern.SummaryKindTests, cls.Kind)
	assert.Contains(t, cls.Label, "7 total")
	assert.Contains(t, cls.Label, "1 regressions (14.29%)")

	var labels []string
	for _, tt := range tables(patterns) {
		labels = append(labels, tt.Label)
	}
	assert.Equal(t, []string{
		"Missing Tests (1)",
		"Extra Tests (1)",
		"Regressions (1)",
		"Progressions (1)",
		"Known Failures (1)",
		"Changed Failures (1)",
	}, labels)

	reg := tables(patterns)[2]
	assert.Equal(t, string(delta.CategoryRegression), reg.Category)
	require.Len(t, reg.Results, 1)
	assert.Equal(t, pattern.TestTableItem{Name: "a", Status: pattern.StatusFail, Details: "passed → failure"}, reg.Results[0])

	missing := tables(patterns)[0]
	assert.Equal(t, pattern.StatusMissing, missing.Results[0].Status)
	assert.Equal(t, "passed → missing", missing.Results[0].Details)
}

func TestFromTestDelta_OmitsEmptyCategories(t *testing.T) {
	base := mustTests(t, result.Metadata{}, "a", result.StatusPassed)
	curr := mustTests(t, result.Metadata{}, "a", result.StatusPassed)

	patterns := FromTestDelta(base, curr, delta.Classify(base, curr, nil), nil)
	assert.Len(t, patterns, 3)
	assert.Empty(t, tables(patterns))

	cls := patterns[2].(*pattern.Summary)
	for _, m := range cls.Metrics {
		if m.Label == "Regressions" {
			assert.Equal(t, "0 (0.00%)", m.Value)
			assert.Equal(t, kindSuccess, m.Kind)
		}
	}
}

func TestFromTestDelta_WarningsLeadClassification(t *testing.T) {
	base := mustTests(t, result.Metadata{Name: "x", Total: 1}, "a", result.StatusPassed)
	curr := mustTests(t, result.Metadata{Name: "y", Total: 2}, "a", result.StatusPassed)
	warnings := delta.Compatibility(base.Meta(), curr.Meta())

	patterns := FromTestDelta(base, curr, delta.Classify(base, curr, nil), warnings)
	cls := patterns[2].(*pattern.Summary)
	require.GreaterOrEqual(t, len(cls.Metrics), 2)
	assert.Equal(t, kindWarning, cls.Metrics[0].Kind)
	assert.Contains(t, cls.Metrics[0].Value, `"x" vs. "y"`)
	assert.Equal(t, kindWarning, cls.Metrics[1].Kind)
}

func TestFromTestDelta_NilInputs(t *testing.T) {
	patterns := FromTestDelta(nil, nil, nil, nil)
	require.Len(t, patterns, 3)
	assert.Contains(t, patterns[2].(*pattern.Summary).Label, "0 total")
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Changed Failures", title("changed failures"))
}
