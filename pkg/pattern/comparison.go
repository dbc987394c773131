package pattern

// Comparison represents before/after metric comparisons.
type Comparison struct {
	Label   string           `json:"label"`
	Changes []ComparisonItem `json:"changes"`
	// HigherIsBetter colors increases as improvements.
	HigherIsBetter bool `json:"higher_is_better"`
}

// ComparisonItem is a single before/after delta.
type ComparisonItem struct {
	Label  string  `json:"label"`
	Before string  `json:"before"`
	After  string  `json:"after"`
	Change float64 `json:"change"` // positive or negative
	Unit   string  `json:"unit"`   // e.g., "%", "pts"
}

func (c *Comparison) Type() PatternType { return PatternTypeComparison }
