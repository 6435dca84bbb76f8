package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/christopherklint97/sitterload/internal/analysis"
	"github.com/christopherklint97/sitterload/internal/workload"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14")).
			Bold(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

func levelStyle(l workload.Level) lipgloss.Style {
	switch l {
	case workload.LevelBurnout:
		return errorStyle
	case workload.LevelHigh:
		return warningStyle.Bold(true)
	case workload.LevelBusy:
		return warningStyle
	default:
		return successStyle
	}
}

func severityStyle(s analysis.Severity) lipgloss.Style {
	switch s {
	case analysis.SeverityCritical:
		return errorStyle
	case analysis.SeverityWarning:
		return warningStyle
	default:
		return dimStyle
	}
}

func trendStyle(t analysis.Trend) lipgloss.Style {
	switch t {
	case analysis.TrendPositive:
		return warningStyle
	case analysis.TrendNegative:
		return successStyle
	default:
		return dimStyle
	}
}
