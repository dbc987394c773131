package pattern

// Item statuses understood by renderers.
const (
	StatusPass    = "pass"
	StatusFail    = "fail"
	StatusSkip    = "skip"
	StatusMissing = "missing"
)

// TestTable lists the identities that fell into one delta category.
type TestTable struct {
	Label    string          `json:"label"`
	Category string          `json:"category"`
	Results  []TestTableItem `json:"results"`
}

// TestTableItem is a single test or file.
type TestTableItem struct {
	Name    string `json:"name"`
	Status  string `json:"status"`            // current outcome: pass, fail, skip, missing
	Details string `json:"details,omitempty"` // e.g. "passed → failure"
}

func (t *TestTable) Type() PatternType { return PatternTypeTestTable }
