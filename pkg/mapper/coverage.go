package mapper

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dkoosis/rundiff/pkg/delta"
	"github.com/dkoosis/rundiff/pkg/pattern"
	"github.com/dkoosis/rundiff/pkg/result"
)

// TopDrops bounds the largest-drops leaderboard.
const TopDrops = 10

// FromCoverageDelta converts a coverage comparison into patterns: run
// summaries, the overall delta, new and removed files, per-file regressions
// and progressions, and a leaderboard of the largest drops.
func FromCoverageDelta(baseline, current *result.CoverageSet, d *delta.CoverageDelta) []pattern.Pattern {
	if d == nil {
		d = &delta.CoverageDelta{}
	}
	patterns := []pattern.Pattern{
		coverageRunSummary("Baseline", baseline),
		coverageRunSummary("Current", current),
		coverageOverall(d),
	}

	if t := fileTable("new files", "new", pattern.StatusPass, d.NewFiles); t != nil {
		patterns = append(patterns, t)
	}
	if t := fileTable("removed files", "removed", pattern.StatusMissing, d.RemovedFiles); t != nil {
		patterns = append(patterns, t)
	}
	if c := fileComparison("regressions", d.RegressedFiles); c != nil {
		patterns = append(patterns, c)
	}
	if c := fileComparison("progressions", d.ImprovedFiles); c != nil {
		patterns = append(patterns, c)
	}
	if l := largestDrops(d.RegressedFiles); l != nil {
		patterns = append(patterns, l)
	}
	return patterns
}

func coverageRunSummary(label string, set *result.CoverageSet) *pattern.Summary {
	meta := set.Meta()
	c := meta.Coverage
	ts := "N/A"
	if !meta.Timestamp.IsZero() {
		ts = meta.Timestamp.UTC().Format(time.DateTime)
	}
	return &pattern.Summary{
		Label: label + " report",
		Kind:  pattern.SummaryKindRun,
		Metrics: []pattern.SummaryItem{
			{Label: "File", Value: orNA(meta.Origin), Kind: kindInfo},
			{Label: "Source path", Value: orNA(meta.Name), Kind: kindInfo},
			{Label: "Coverage version", Value: orNA(meta.Version), Kind: kindInfo},
			{Label: "Timestamp", Value: ts, Kind: kindInfo},
			{Label: "Lines valid", Value: thousands(c.LinesValid), Kind: kindInfo},
			{Label: "Lines covered", Value: thousands(c.LinesCovered), Kind: kindInfo},
			{Label: "Line rate", Value: pct(c.LineRate), Kind: kindInfo},
			{Label: "Branches valid", Value: thousands(c.BranchesValid), Kind: kindInfo},
			{Label: "Branches covered", Value: thousands(c.BranchesCovered), Kind: kindInfo},
			{Label: "Branch rate", Value: pct(c.BranchRate), Kind: kindInfo},
			{Label: "Complexity", Value: strconv.FormatFloat(c.Complexity, 'f', -1, 64), Kind: kindInfo},
		},
	}
}

func coverageOverall(d *delta.CoverageDelta) *pattern.Summary {
	kind := kindInfo
	switch {
	case d.RateChange < 0:
		kind = kindError
	case d.RateChange > 0:
		kind = kindSuccess
	}
	return &pattern.Summary{
		Label: fmt.Sprintf("COVERAGE: %s → %s (%s), %d files",
			pct(d.BaselineRate), pct(d.CurrentRate), signedPct(d.RateChange), d.Files),
		Kind: pattern.SummaryKindCoverage,
		Metrics: []pattern.SummaryItem{
			{Label: "Line rate delta", Value: signedPct(d.RateChange), Kind: kind},
			{Label: "New files", Value: strconv.Itoa(len(d.NewFiles)), Kind: kindInfo},
			{Label: "Removed files", Value: strconv.Itoa(len(d.RemovedFiles)), Kind: nonZero(len(d.RemovedFiles), kindWarning)},
			{Label: "Regressions", Value: strconv.Itoa(len(d.RegressedFiles)), Kind: nonZero(len(d.RegressedFiles), kindError)},
			{Label: "Progressions", Value: strconv.Itoa(len(d.ImprovedFiles)), Kind: kindSuccess},
		},
	}
}

func fileTable(heading, category, status string, files []delta.FileRate) *pattern.TestTable {
	if len(files) == 0 {
		return nil
	}
	files = slices.Clone(files)
	slices.SortFunc(files, func(a, b delta.FileRate) int { return strings.Compare(a.Path, b.Path) })

	t := &pattern.TestTable{
		Label:    fmt.Sprintf("%s (%d)", title(heading), len(files)),
		Category: category,
		Results:  make([]pattern.TestTableItem, 0, len(files)),
	}
	for _, f := range files {
		t.Results = append(t.Results, pattern.TestTableItem{Name: f.Path, Status: status, Details: pct(f.Rate)})
	}
	return t
}

func fileComparison(heading string, changes []delta.FileChange) *pattern.Comparison {
	if len(changes) == 0 {
		return nil
	}
	changes = slices.Clone(changes)
	slices.SortFunc(changes, func(a, b delta.FileChange) int { return strings.Compare(a.Path, b.Path) })

	c := &pattern.Comparison{
		Label:          fmt.Sprintf("%s (%d)", title(heading), len(changes)),
		Changes:        make([]pattern.ComparisonItem, 0, len(changes)),
		HigherIsBetter: true,
	}
	for _, ch := range changes {
		c.Changes = append(c.Changes, pattern.ComparisonItem{
			Label:  ch.Path,
			Before: pct(ch.Baseline),
			After:  pct(ch.Current),
			Change: ch.Delta() * 100,
			Unit:   " pts",
		})
	}
	return c
}

// largestDrops ranks regressed files by how far their rate fell; ties
// break by path.
func largestDrops(changes []delta.FileChange) *pattern.Leaderboard {
	if len(changes) == 0 {
		return nil
	}
	ranked := slices.Clone(changes)
	slices.SortFunc(ranked, func(a, b delta.FileChange) int {
		da, db := a.Delta(), b.Delta()
		switch {
		case da < db:
			return -1
		case da > db:
			return 1
		}
		return strings.Compare(a.Path, b.Path)
	})

	l := &pattern.Leaderboard{
		Label:      "Largest coverage drops",
		MetricName: "line rate change",
		Direction:  "lowest",
		TotalCount: len(ranked),
		ShowRank:   true,
	}
	for i, ch := range ranked {
		if i == TopDrops {
			break
		}
		l.Items = append(l.Items, pattern.LeaderboardItem{
			Name:    ch.Path,
			Metric:  fmt.Sprintf("%+.2f pts", ch.Delta()*100),
			Value:   ch.Delta(),
			Rank:    i + 1,
			Context: pct(ch.Baseline) + " → " + pct(ch.Current),
		})
	}
	return l
}

func pct(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}

func signedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v*100)
}

// thousands formats n with English digit grouping.
func thousands(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
