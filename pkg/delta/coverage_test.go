package delta

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/rundiff/pkg/result"
)

func coverageSet(t *testing.T, overall float64, rates map[string]float64) *result.CoverageSet {
	t.Helper()
	records := make([]result.CoverageRecord, 0, len(rates))
	for path, rate := range rates {
		records = append(records, result.CoverageRecord{Path: path, LineRate: rate})
	}
	meta := result.Metadata{Coverage: result.CoverageTotals{LineRate: overall}}
	s, err := result.NewCoverageSet(meta, records)
	require.NoError(t, err)
	return s
}

func TestCompareCoverage_RegressedAndNewFiles(t *testing.T) {
	base := coverageSet(t, 0.80, map[string]float64{"x.py": 0.80})
	curr := coverageSet(t, 0.58, map[string]float64{"x.py": 0.60, "y.py": 0.50})

	d := CompareCoverage(base, curr)

	assert.Equal(t, []FileChange{{Path: "x.py", Baseline: 0.80, Current: 0.60}}, d.RegressedFiles)
	assert.Equal(t, []FileRate{{Path: "y.py", Rate: 0.50}}, d.NewFiles)
	assert.Empty(t, d.ImprovedFiles)
	assert.Empty(t, d.RemovedFiles)
	assert.Equal(t, 2, d.Files)
}

func TestCompareCoverage_OmitsUnchangedFiles(t *testing.T) {
	base := coverageSet(t, 0.5, map[string]float64{"same.go": 0.5, "gone.go": 0.1})
	curr := coverageSet(t, 0.5, map[string]float64{"same.go": 0.5})

	d := CompareCoverage(base, curr)

	assert.Empty(t, d.RegressedFiles)
	assert.Empty(t, d.ImprovedFiles)
	assert.Equal(t, []FileRate{{Path: "gone.go", Rate: 0.1}}, d.RemovedFiles)
}

func TestCompareCoverage_OverallRateComesFromMetadata(t *testing.T) {
	// Per-file rates say nothing changed; the aggregate still moved because
	// the tool weights by line count.
	base := coverageSet(t, 0.70, map[string]float64{"a.go": 0.5, "b.go": 0.9})
	curr := coverageSet(t, 0.75, map[string]float64{"a.go": 0.5, "b.go": 0.9})

	d := CompareCoverage(base, curr)

	assert.InDelta(t, 0.70, d.BaselineRate, 1e-9)
	assert.InDelta(t, 0.75, d.CurrentRate, 1e-9)
	assert.InDelta(t, 0.05, d.RateChange, 1e-9)
	assert.Empty(t, d.RegressedFiles)
	assert.Empty(t, d.ImprovedFiles)
}

func TestCompareCoverage_SwapIsSymmetric(t *testing.T) {
	a := coverageSet(t, 0.6, map[string]float64{"up.go": 0.2, "down.go": 0.9, "flat.go": 0.4, "old.go": 0.3})
	b := coverageSet(t, 0.7, map[string]float64{"up.go": 0.6, "down.go": 0.1, "flat.go": 0.4, "new.go": 0.8})

	forward := CompareCoverage(a, b)
	backward := CompareCoverage(b, a)

	swap := func(in []FileChange) []FileChange {
		out := make([]FileChange, len(in))
		for i, c := range in {
			out[i] = FileChange{Path: c.Path, Baseline: c.Current, Current: c.Baseline}
		}
		return out
	}

	if diff := cmp.Diff(swap(forward.ImprovedFiles), backward.RegressedFiles); diff != "" {
		t.Errorf("improved→regressed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(swap(forward.RegressedFiles), backward.ImprovedFiles); diff != "" {
		t.Errorf("regressed→improved mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, forward.NewFiles, backward.RemovedFiles)
	assert.Equal(t, forward.RemovedFiles, backward.NewFiles)
	assert.InDelta(t, -forward.RateChange, backward.RateChange, 1e-9)
}

func TestCompareCoverage_Empty(t *testing.T) {
	d := CompareCoverage(coverageSet(t, 0, nil), coverageSet(t, 0, nil))

	assert.Equal(t, 0, d.Files)
	assert.Zero(t, d.RateChange)
	assert.NotNil(t, d.NewFiles)
	assert.NotNil(t, d.RegressedFiles)
}

func TestCompareCoverage_NilSets(t *testing.T) {
	d := CompareCoverage(nil, nil)
	assert.Equal(t, 0, d.Files)
	assert.Zero(t, d.RateChange)

	curr := coverageSet(t, 0.5, map[string]float64{"x.py": 0.5})
	d = CompareCoverage(nil, curr)
	assert.InDelta(t, 0.5, d.RateChange, 1e-9)
	assert.Equal(t, []FileRate{{Path: "x.py", Rate: 0.5}}, d.NewFiles)
}

func TestFileChange_Delta(t *testing.T) {
	c := FileChange{Path: "x", Baseline: 0.25, Current: 0.75}
	assert.InDelta(t, 0.5, c.Delta(), 1e-9)
}
