package result

import "time"

// Record is a measured unit keyed by a stable identity.
type Record interface {
	Identity() string
}

// TestRecord is one test outcome. Identity is the test's full name,
// e.g. "module.Class::test_name".
type TestRecord struct {
	ID     string `json:"id"`
	Status Status `json:"status"`
}

// Identity returns the test's full name.
func (r TestRecord) Identity() string { return r.ID }

// CoverageRecord is one source file's line coverage ratio.
type CoverageRecord struct {
	Path     string  `json:"path"`
	LineRate float64 `json:"line_rate"` // in [0, 1]
}

// Identity returns the file path.
func (r CoverageRecord) Identity() string { return r.Path }

// Metadata describes the run a set was built from.
type Metadata struct {
	Origin    string    `json:"origin,omitempty"` // file path or snapshot label
	Name      string    `json:"name,omitempty"`   // suite name or coverage source root
	Label     string    `json:"label,omitempty"`  // free-form run label
	Timestamp time.Time `json:"timestamp"`
	Host      string    `json:"host,omitempty"`
	Version   string    `json:"version,omitempty"`
	// Total is the unit count declared by the producer, which can differ
	// from the number of records actually present.
	Total    int            `json:"total"`
	Tests    TestTotals     `json:"tests"`
	Coverage CoverageTotals `json:"coverage"`
}

// TestTotals are the suite-level counters reported by the test runner.
type TestTotals struct {
	Tests    int           `json:"tests"`
	Failures int           `json:"failures"`
	Errors   int           `json:"errors"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration"`
}

// CoverageTotals are the aggregate figures reported by the coverage tool.
type CoverageTotals struct {
	LineRate        float64 `json:"line_rate"`
	BranchRate      float64 `json:"branch_rate"`
	LinesValid      int     `json:"lines_valid"`
	LinesCovered    int     `json:"lines_covered"`
	BranchesValid   int     `json:"branches_valid"`
	BranchesCovered int     `json:"branches_covered"`
	Complexity      float64 `json:"complexity"`
}
