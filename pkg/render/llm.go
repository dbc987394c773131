package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/rundiff/pkg/pattern"
)

// LLM renders patterns as terse plain text optimized for AI consumption.
// Zero ANSI codes, SCOPE line first, one line per item.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder

	var runs []*pattern.Summary
	var warnings []string
	var body []pattern.Pattern
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if v.Kind == pattern.SummaryKindRun {
				runs = append(runs, v)
				continue
			}
			sb.WriteString("SCOPE: " + v.Label + "\n")
			for _, m := range v.Metrics {
				if m.Label == pattern.WarningLabel {
					warnings = append(warnings, m.Value)
				}
			}
		case *pattern.Error:
			sb.WriteString("ERROR " + errorText(v) + "\n")
		default:
			body = append(body, p)
		}
	}

	for _, r := range runs {
		sb.WriteString(runLine(r) + "\n")
	}
	for _, w := range warnings {
		sb.WriteString("WARN " + w + "\n")
	}

	for _, p := range body {
		switch v := p.(type) {
		case *pattern.TestTable:
			l.renderTable(&sb, v)
		case *pattern.Comparison:
			l.renderComparison(&sb, v)
		case *pattern.Leaderboard:
			l.renderLeaderboard(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderTable(sb *strings.Builder, t *pattern.TestTable) {
	if len(t.Results) == 0 {
		return
	}
	sb.WriteString("\n## " + t.Label + "\n")
	for _, item := range t.Results {
		line := "  " + item.Name
		if item.Details != "" {
			line += " " + item.Details
		}
		sb.WriteString(line + "\n")
	}
}

func (l *LLM) renderComparison(sb *strings.Builder, c *pattern.Comparison) {
	if len(c.Changes) == 0 {
		return
	}
	sb.WriteString("\n## " + c.Label + "\n")
	for _, item := range c.Changes {
		sb.WriteString(fmt.Sprintf("  %s %s → %s (%+.2f%s)\n", item.Label, item.Before, item.After, item.Change, item.Unit))
	}
}

func (l *LLM) renderLeaderboard(sb *strings.Builder, lb *pattern.Leaderboard) {
	if len(lb.Items) == 0 {
		return
	}
	header := lb.Label
	if lb.TotalCount > len(lb.Items) {
		header += fmt.Sprintf(" (top %d of %d)", len(lb.Items), lb.TotalCount)
	}
	sb.WriteString("\n## " + header + "\n")
	for _, item := range lb.Items {
		sb.WriteString(fmt.Sprintf("  %d. %s %s\n", item.Rank, item.Name, item.Metric))
	}
}

// runLine flattens run metadata into "label: key=value, ..." form.
func runLine(s *pattern.Summary) string {
	parts := make([]string, 0, len(s.Metrics))
	for _, m := range s.Metrics {
		parts = append(parts, strings.ToLower(strings.ReplaceAll(m.Label, " ", "_"))+"="+m.Value)
	}
	return strings.ToLower(strings.TrimSuffix(s.Label, " report")) + ": " + strings.Join(parts, ", ")
}

func errorText(e *pattern.Error) string {
	if e.Source == "" {
		return e.Message
	}
	return e.Source + ": " + e.Message
}
