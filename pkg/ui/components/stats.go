package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Stats holds keeper statistics for display.
type Stats struct {
	CyclesRun int64
	TopUps    int64
	Alerts    int64
	Errors    int64
}

// StatsComponent renders statistics.
type StatsComponent struct {
	stats Stats
}

// NewStatsComponent creates a new stats component.
func NewStatsComponent() *StatsComponent {
	return &StatsComponent{}
}

// Update updates the statistics.
func (s *StatsComponent) Update(stats Stats) {
	s.stats = stats
}

// View renders the stats component.
func (s *StatsComponent) View() string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	topUpRate := float64(0)
	if s.stats.CyclesRun > 0 {
		topUpRate = float64(s.stats.TopUps) / float64(s.stats.CyclesRun) * 100
	}

	errorsDisplay := valueStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	if s.stats.Errors > 0 {
		errorsDisplay = errorStyle.Render(fmt.Sprintf("%d", s.stats.Errors))
	}

	return style.Render("STATS") + "\n" +
		fmt.Sprintf("Cycles: %s  │  Top-ups: %s (%.1f%%)  │  Alerts: %s  │  Errors: %s",
			valueStyle.Render(fmt.Sprintf("%d", s.stats.CyclesRun)),
			valueStyle.Render(fmt.Sprintf("%d", s.stats.TopUps)),
			topUpRate,
			valueStyle.Render(fmt.Sprintf("%d", s.stats.Alerts)),
			errorsDisplay,
		)
}
