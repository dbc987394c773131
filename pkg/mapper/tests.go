package mapper

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dkoosis/rundiff/pkg/delta"
	"github.com/dkoosis/rundiff/pkg/pattern"
	"github.com/dkoosis/rundiff/pkg/result"
)

// testSections is the order category tables are emitted in.
var testSections = []struct {
	cat   delta.Category
	title string
	ids   func(*delta.TestDelta) []string
}{
	{delta.CategoryMissing, "missing tests", func(d *delta.TestDelta) []string { return d.MissingInCurrent }},
	{delta.CategoryExtra, "extra tests", func(d *delta.TestDelta) []string { return d.ExtraInCurrent }},
	{delta.CategoryRegression, "regressions", func(d *delta.TestDelta) []string { return d.Regressions }},
	{delta.CategoryProgression, "progressions", func(d *delta.TestDelta) []string { return d.Progressions }},
	{delta.CategoryKnownFailure, "known failures", func(d *delta.TestDelta) []string { return d.KnownFailures }},
	{delta.CategoryChangedFailure, "changed failures", func(d *delta.TestDelta) []string { return d.ChangedFailures }},
}

// FromTestDelta converts a test classification into patterns: one summary
// per run, the classification summary, then one table per non-empty category.
func FromTestDelta(baseline, current *result.TestSet, d *delta.TestDelta, warnings []delta.Warning) []pattern.Pattern {
	if d == nil {
		d = &delta.TestDelta{}
	}
	patterns := []pattern.Pattern{
		testRunSummary("Baseline", baseline),
		testRunSummary("Current", current),
		testClassification(d, warnings),
	}

	for _, sec := range testSections {
		ids := slices.Clone(sec.ids(d))
		if len(ids) == 0 {
			continue
		}
		slices.Sort(ids)
		table := &pattern.TestTable{
			Label:    fmt.Sprintf("%s (%d)", title(sec.title), len(ids)),
			Category: string(sec.cat),
			Results:  make([]pattern.TestTableItem, 0, len(ids)),
		}
		for _, id := range ids {
			tr := d.Transitions[id]
			table.Results = append(table.Results, pattern.TestTableItem{
				Name:    id,
				Status:  statusKey(tr.Current),
				Details: tr.Baseline.String() + " → " + tr.Current.String(),
			})
		}
		patterns = append(patterns, table)
	}
	return patterns
}

func testRunSummary(label string, set *result.TestSet) *pattern.Summary {
	meta := set.Meta()
	return &pattern.Summary{
		Label: label + " report",
		Kind:  pattern.SummaryKindRun,
		Metrics: []pattern.SummaryItem{
			{Label: "File", Value: orNA(meta.Origin), Kind: kindInfo},
			{Label: "Suite name", Value: orNA(meta.Name), Kind: kindInfo},
			{Label: "Tests", Value: strconv.Itoa(meta.Tests.Tests), Kind: kindInfo},
			{Label: "Timestamp", Value: orNA(meta.Label), Kind: kindInfo},
			{Label: "Hostname", Value: orNA(meta.Host), Kind: kindInfo},
		},
	}
}

// testClassification is the headline summary. Its label doubles as the
// scope line for plain-text output.
func testClassification(d *delta.TestDelta, warnings []delta.Warning) *pattern.Summary {
	counts := d.Counts()
	label := fmt.Sprintf("TESTS: %d total, %d regressions (%.2f%%), %d progressions (%.2f%%)",
		d.Total, counts[delta.CategoryRegression], d.RegressionPercent(),
		counts[delta.CategoryProgression], d.ProgressionPercent())

	regressKind := kindSuccess
	if counts[delta.CategoryRegression] > 0 {
		regressKind = kindError
	}
	metrics := make([]pattern.SummaryItem, 0, 8+len(warnings))
	for _, w := range warnings {
		metrics = append(metrics, pattern.SummaryItem{Label: pattern.WarningLabel, Value: w.Message, Kind: kindWarning})
	}
	metrics = append(metrics,
		pattern.SummaryItem{Label: "Total tests", Value: strconv.Itoa(d.Total), Kind: kindInfo},
		pattern.SummaryItem{Label: "Skipped tests", Value: strconv.Itoa(d.SkipPolicySize), Kind: kindInfo},
		pattern.SummaryItem{
			Label: "Regressions",
			Value: fmt.Sprintf("%d (%.2f%%)", counts[delta.CategoryRegression], d.RegressionPercent()),
			Kind:  regressKind,
		},
		pattern.SummaryItem{
			Label: "Progressions",
			Value: fmt.Sprintf("%d (%.2f%%)", counts[delta.CategoryProgression], d.ProgressionPercent()),
			Kind:  kindSuccess,
		},
		pattern.SummaryItem{Label: "Known failures", Value: strconv.Itoa(counts[delta.CategoryKnownFailure]), Kind: kindInfo},
		pattern.SummaryItem{Label: "Changed failures", Value: strconv.Itoa(counts[delta.CategoryChangedFailure]), Kind: nonZero(counts[delta.CategoryChangedFailure], kindWarning)},
		pattern.SummaryItem{Label: "Missing tests", Value: strconv.Itoa(counts[delta.CategoryMissing]), Kind: nonZero(counts[delta.CategoryMissing], kindWarning)},
		pattern.SummaryItem{Label: "Extra tests", Value: strconv.Itoa(counts[delta.CategoryExtra]), Kind: kindInfo},
	)
	return &pattern.Summary{Label: label, Kind: pattern.SummaryKindTests, Metrics: metrics}
}

func statusKey(s result.Status) string {
	switch s {
	case result.StatusPassed:
		return pattern.StatusPass
	case result.StatusFailure, result.StatusError:
		return pattern.StatusFail
	case result.StatusSkipped:
		return pattern.StatusSkip
	default:
		return pattern.StatusMissing
	}
}

func nonZero(n int, kind string) string {
	if n > 0 {
		return kind
	}
	return kindInfo
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
