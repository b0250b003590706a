// Package components provides reusable TUI components.
package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// CycleRow represents one maintenance cycle in the list.
type CycleRow struct {
	Timestamp  string
	Kind       string
	Balance    string
	TransferID string
	Detail     string
	Healthy    bool
	Actionable bool
}

// CyclesComponent renders the cycle history list.
type CyclesComponent struct {
	rows    []CycleRow
	maxRows int
	offset  int
}

// NewCyclesComponent creates a new cycles component.
func NewCyclesComponent(maxRows int) *CyclesComponent {
	return &CyclesComponent{
		rows:    make([]CycleRow, 0),
		maxRows: maxRows,
	}
}

// Add adds a new cycle to the top of the list.
func (c *CyclesComponent) Add(row CycleRow) {
	c.rows = append([]CycleRow{row}, c.rows...)
	if len(c.rows) > c.maxRows {
		c.rows = c.rows[:c.maxRows]
	}
	c.offset = 0
}

// Clear clears all cycles.
func (c *CyclesComponent) Clear() {
	c.rows = make([]CycleRow, 0)
	c.offset = 0
}

// ScrollUp moves the view window towards older cycles.
func (c *CyclesComponent) ScrollUp() {
	if c.offset < len(c.rows)-1 {
		c.offset++
	}
}

// ScrollDown moves the view window towards newer cycles.
func (c *CyclesComponent) ScrollDown() {
	if c.offset > 0 {
		c.offset--
	}
}

const visibleCycles = 10

// View renders the cycles component.
func (c *CyclesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

	if len(c.rows) == 0 {
		return headerStyle.Render("CYCLES") + "\n\nNo cycles completed yet..."
	}

	healthyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	alertStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))

	result := headerStyle.Render(fmt.Sprintf("CYCLES (last %d)\n", c.maxRows))
	result += "┌──────────┬─────────────────────┬──────────────┬────────────────────────────┐\n"
	result += "│   Time   │       Outcome       │   Balance    │          Detail            │\n"
	result += "├──────────┼─────────────────────┼──────────────┼────────────────────────────┤\n"

	start := c.offset
	end := start + visibleCycles
	if end > len(c.rows) {
		end = len(c.rows)
	}

	for _, row := range c.rows[start:end] {
		style := healthyStyle
		icon := "✓"
		switch {
		case row.Actionable:
			style = alertStyle
			icon = "✗"
		case !row.Healthy:
			style = warnStyle
			icon = "↑"
		}

		detail := row.Detail
		if len(detail) > 26 {
			detail = detail[:23] + "..."
		}

		result += fmt.Sprintf("│ %8s │ %s %-17s │%13s │ %-26s │\n",
			row.Timestamp,
			icon,
			style.Render(row.Kind),
			row.Balance,
			detail,
		)
	}

	result += "└──────────┴─────────────────────┴──────────────┴────────────────────────────┘"

	return result
}
