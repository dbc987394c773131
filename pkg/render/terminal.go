package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/rundiff/pkg/pattern"
)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.Leaderboard:
		return t.renderLeaderboard(v)
	case *pattern.TestTable:
		return t.renderTestTable(v)
	case *pattern.Comparison:
		return t.renderComparison(v)
	case *pattern.Error:
		return t.renderError(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		sb.WriteString(t.theme.Bold.Render(s.Label))
		sb.WriteString("\n")
	}

	// Run metadata reads as an aligned key/value block.
	if s.Kind == pattern.SummaryKindRun {
		maxLabel := 0
		for _, m := range s.Metrics {
			maxLabel = max(maxLabel, runewidth.StringWidth(m.Label))
		}
		for _, m := range s.Metrics {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(runewidth.FillRight(m.Label, maxLabel) + " :"))
			sb.WriteString(" " + m.Value + "\n")
		}
		return sb.String()
	}

	for _, m := range s.Metrics {
		sb.WriteString("  ")
		icon, style := t.iconStyle(m.Kind)
		sb.WriteString(style.Render(icon + " " + m.Label + ": " + m.Value))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderLeaderboard(l *pattern.Leaderboard) string {
	if len(l.Items) == 0 {
		return ""
	}
	var sb strings.Builder
	if l.Label != "" {
		header := l.Label
		if l.TotalCount > len(l.Items) {
			header += fmt.Sprintf(" (top %d of %d)", len(l.Items), l.TotalCount)
		}
		sb.WriteString(t.theme.Bold.Render(header))
		sb.WriteString("\n")
	}

	maxName, maxMetric := 0, 0
	for _, item := range l.Items {
		maxName = max(maxName, runewidth.StringWidth(item.Name))
		maxMetric = max(maxMetric, runewidth.StringWidth(item.Metric))
	}
	maxName = min(maxName, t.nameBudget(50))

	for _, item := range l.Items {
		sb.WriteString("  ")
		if l.ShowRank {
			sb.WriteString(t.theme.Muted.Render(fmt.Sprintf("%2d. ", item.Rank)))
		}
		sb.WriteString(t.theme.Primary.Render(fit(item.Name, maxName)))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Error.Render(runewidth.FillLeft(item.Metric, maxMetric)))
		if item.Context != "" {
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(item.Context))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderTestTable(tt *pattern.TestTable) string {
	if len(tt.Results) == 0 {
		return ""
	}
	var sb strings.Builder
	if tt.Label != "" {
		sb.WriteString(t.theme.Bold.Render(tt.Label))
		sb.WriteString("\n")
	}

	maxName := 0
	for _, r := range tt.Results {
		maxName = max(maxName, runewidth.StringWidth(r.Name))
	}
	maxName = min(maxName, t.nameBudget(60))

	for _, r := range tt.Results {
		sb.WriteString("  ")
		icon, style := t.statusIconStyle(r.Status)
		sb.WriteString(style.Render(icon + " "))
		if r.Details == "" {
			sb.WriteString(fit(r.Name, maxName))
		} else {
			sb.WriteString(runewidth.FillRight(fit(r.Name, maxName), maxName))
			sb.WriteString("  ")
			sb.WriteString(t.theme.Muted.Render(r.Details))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderComparison(c *pattern.Comparison) string {
	if len(c.Changes) == 0 {
		return ""
	}
	var sb strings.Builder
	if c.Label != "" {
		sb.WriteString(t.theme.Bold.Render(c.Label))
		sb.WriteString("\n")
	}

	maxName := 0
	for _, item := range c.Changes {
		maxName = max(maxName, runewidth.StringWidth(item.Label))
	}
	maxName = min(maxName, t.nameBudget(50))

	for _, item := range c.Changes {
		sb.WriteString("  ")
		sb.WriteString(runewidth.FillRight(fit(item.Label, maxName), maxName) + "  ")
		sb.WriteString(t.theme.Muted.Render(item.Before + " → " + item.After))
		sb.WriteString(" ")

		improved := item.Change < 0
		if c.HigherIsBetter {
			improved = item.Change > 0
		}
		var arrow string
		var style lipgloss.Style
		switch {
		case item.Change > 0:
			arrow = "↑"
		case item.Change < 0:
			arrow = "↓"
		default:
			arrow = "="
		}
		switch {
		case item.Change == 0:
			style = t.theme.Muted
		case improved:
			style = t.theme.Success
		default:
			style = t.theme.Error
		}
		abs := item.Change
		if abs < 0 {
			abs = -abs
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s %.2f%s", arrow, abs, item.Unit)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderError(e *pattern.Error) string {
	msg := t.theme.Icons.Fail + " " + e.Message
	if e.Source != "" {
		msg = t.theme.Icons.Fail + " " + e.Source + ": " + e.Message
	}
	return t.theme.Error.Render(msg) + "\n"
}

// nameBudget caps name columns so a row fits the terminal width.
func (t *Terminal) nameBudget(limit int) int {
	return max(10, min(limit, t.width-30))
}

// fit truncates s to width display cells.
func fit(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "...")
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func (t *Terminal) statusIconStyle(status string) (string, lipgloss.Style) {
	switch status {
	case pattern.StatusPass:
		return t.theme.Icons.Pass, t.theme.Success
	case pattern.StatusFail:
		return t.theme.Icons.Fail, t.theme.Error
	case pattern.StatusSkip:
		return t.theme.Icons.Warn, t.theme.Warning
	case pattern.StatusMissing:
		return t.theme.Icons.Missing, t.theme.Muted
	default:
		return t.theme.Icons.Info, t.theme.Muted
	}
}
