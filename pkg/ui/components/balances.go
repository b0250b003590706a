package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// BalanceInfo holds a single account's display state.
type BalanceInfo struct {
	Label   string
	Address string
	Balance string
	Low     bool
}

// BalancesComponent renders watched and funding account balances.
type BalancesComponent struct {
	target    *BalanceInfo
	funding   *BalanceInfo
	threshold string
	topUp     string
}

// NewBalancesComponent creates a new balances component.
func NewBalancesComponent() *BalancesComponent {
	return &BalancesComponent{}
}

// SetPolicy sets the threshold and top-up values shown in the header.
func (b *BalancesComponent) SetPolicy(threshold, topUp string) {
	b.threshold = threshold
	b.topUp = topUp
}

// SetTarget updates the watched account's display state.
func (b *BalancesComponent) SetTarget(info BalanceInfo) {
	b.target = &info
}

// SetFunding updates the funding account's display state.
func (b *BalancesComponent) SetFunding(info BalanceInfo) {
	b.funding = &info
}

// View renders the balances component.
func (b *BalancesComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	lowStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

	result := headerStyle.Render("BALANCES")
	if b.threshold != "" {
		result += mutedStyle.Render(fmt.Sprintf("  (threshold %s, top-up %s)", b.threshold, b.topUp))
	}
	result += "\n\n"

	if b.target == nil && b.funding == nil {
		return result + mutedStyle.Render("  Waiting for first balance check...")
	}

	for _, info := range []*BalanceInfo{b.target, b.funding} {
		if info == nil {
			continue
		}
		valueStyle := okStyle
		if info.Low {
			valueStyle = lowStyle
		}
		result += fmt.Sprintf("  %-8s %s\n", info.Label, mutedStyle.Render(shortAddress(info.Address)))
		result += fmt.Sprintf("           %s\n", valueStyle.Render(info.Balance))
	}

	return result
}

func shortAddress(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:8] + "..." + addr[len(addr)-4:]
}
