package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/opsbench/setup/internal/domain/provision"
)

var (
	colorSuccess = lipgloss.AdaptiveColor{Light: "#40a02b", Dark: "#a6e3a1"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#df8e1d", Dark: "#f9e2af"}
	colorError   = lipgloss.AdaptiveColor{Light: "#d20f39", Dark: "#f38ba8"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6c6f85", Dark: "#6c7086"}

	styleTitle     = lipgloss.NewStyle().Bold(true)
	styleInstalled = lipgloss.NewStyle().Foreground(colorSuccess)
	styleSkipped   = lipgloss.NewStyle().Foreground(colorMuted)
	stylePlanned   = lipgloss.NewStyle().Foreground(colorWarning)
	styleFailed    = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	styleDuration  = lipgloss.NewStyle().Foreground(colorMuted)
)

// RenderReport formats the per-step outcomes of a phase run. The string ends
// with a newline.
func RenderReport(phase string, results []provision.StepResult, total time.Duration) string {
	var b strings.Builder

	b.WriteString(styleTitle.Render(fmt.Sprintf("%s results", phase)))
	b.WriteString("\n")

	width := 0
	for _, r := range results {
		if n := len(r.ID().String()); n > width {
			width = n
		}
	}

	for _, r := range results {
		mark, style := outcomeGlyph(r.Outcome())
		line := fmt.Sprintf("  %s %-*s %-9s %s",
			style.Render(mark),
			width, r.ID().String(),
			style.Render(r.Outcome().String()),
			styleDuration.Render(r.Duration().Round(time.Millisecond).String()))
		b.WriteString(line)
		b.WriteString("\n")
		if err := r.Err(); err != nil {
			b.WriteString(styleFailed.Render(fmt.Sprintf("      %v", err)))
			b.WriteString("\n")
		}
	}

	b.WriteString(styleDuration.Render(fmt.Sprintf("  total %s", total.Round(time.Millisecond))))
	b.WriteString("\n")
	return b.String()
}

func outcomeGlyph(o provision.Outcome) (string, lipgloss.Style) {
	switch o {
	case provision.OutcomeInstalled:
		return "✓", styleInstalled
	case provision.OutcomeSkipped:
		return "-", styleSkipped
	case provision.OutcomePlanned:
		return "→", stylePlanned
	case provision.OutcomeFailed:
		return "✗", styleFailed
	default:
		return "?", styleSkipped
	}
}
