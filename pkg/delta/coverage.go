package delta

import "github.com/dkoosis/rundiff/pkg/result"

// FileRate is a file present in only one of the two runs.
type FileRate struct {
	Path string  `json:"path"`
	Rate float64 `json:"rate"`
}

// FileChange is a file whose line rate moved between runs.
type FileChange struct {
	Path     string  `json:"path"`
	Baseline float64 `json:"baseline"`
	Current  float64 `json:"current"`
}

// Delta is the signed change, current minus baseline.
func (c FileChange) Delta() float64 { return c.Current - c.Baseline }

// CoverageDelta compares two coverage runs. Files whose rate did not move
// are not listed. All lists are sorted by path.
type CoverageDelta struct {
	// BaselineRate and CurrentRate are the aggregate line rates each tool
	// reported, not an average of the per-file rates.
	BaselineRate float64 `json:"baseline_rate"`
	CurrentRate  float64 `json:"current_rate"`
	RateChange   float64 `json:"rate_change"`

	NewFiles       []FileRate   `json:"new_files"`
	RemovedFiles   []FileRate   `json:"removed_files"`
	RegressedFiles []FileChange `json:"regressed_files"`
	ImprovedFiles  []FileChange `json:"improved_files"`

	// Files is the size of the path union.
	Files int `json:"files"`
}

// CompareCoverage compares current coverage against baseline. A nil set is
// treated as an empty run with a zero overall rate.
func CompareCoverage(baseline, current *result.CoverageSet) *CoverageDelta {
	baseRate := baseline.Meta().Coverage.LineRate
	currRate := current.Meta().Coverage.LineRate

	paths := result.Union(baseline, current)
	d := &CoverageDelta{
		BaselineRate:   baseRate,
		CurrentRate:    currRate,
		RateChange:     currRate - baseRate,
		NewFiles:       []FileRate{},
		RemovedFiles:   []FileRate{},
		RegressedFiles: []FileChange{},
		ImprovedFiles:  []FileChange{},
		Files:          len(paths),
	}

	for _, path := range paths {
		base, inBase := baseline.Get(path)
		curr, inCurr := current.Get(path)

		switch {
		case inBase && inCurr:
			change := FileChange{Path: path, Baseline: base.LineRate, Current: curr.LineRate}
			switch delta := change.Delta(); {
			case delta > 0:
				d.ImprovedFiles = append(d.ImprovedFiles, change)
			case delta < 0:
				d.RegressedFiles = append(d.RegressedFiles, change)
			}
		case inCurr:
			d.NewFiles = append(d.NewFiles, FileRate{Path: path, Rate: curr.LineRate})
		default:
			d.RemovedFiles = append(d.RemovedFiles, FileRate{Path: path, Rate: base.LineRate})
		}
	}
	return d
}
