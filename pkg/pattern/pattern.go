// Package pattern defines the semantic data types for rundiff's report output.
// Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of visualization pattern.
type PatternType string

const (
	PatternTypeSummary     PatternType = "summary"
	PatternTypeLeaderboard PatternType = "leaderboard"
	PatternTypeTestTable   PatternType = "test-table"
	PatternTypeComparison  PatternType = "comparison"
	PatternTypeError       PatternType = "error"
)

// Pattern is the interface all visualization patterns implement.
// Patterns hold data; renderers decide how to present it.
type Pattern interface {
	Type() PatternType
}

// Error reports an input that could not be loaded, so a long-running watch
// can show the failure and keep going.
type Error struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

func (e *Error) Type() PatternType { return PatternTypeError }
