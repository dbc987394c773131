package pattern

// Leaderboard represents a ranked list of items by metric.
type Leaderboard struct {
	Label      string            `json:"label"`
	MetricName string            `json:"metric_name"`
	Items      []LeaderboardItem `json:"items"`
	Direction  string            `json:"direction"`   // "highest" or "lowest"
	TotalCount int               `json:"total_count"` // total before filtering to top N
	ShowRank   bool              `json:"show_rank"`
}

// LeaderboardItem is a single ranked entry.
type LeaderboardItem struct {
	Name    string  `json:"name"`
	Metric  string  `json:"metric"` // formatted value (e.g., "-12.5 pts")
	Value   float64 `json:"value"`  // numeric value for sorting
	Rank    int     `json:"rank"`
	Context string  `json:"context,omitempty"`
}

func (l *Leaderboard) Type() PatternType { return PatternTypeLeaderboard }
