// Package ui provides the Bubble Tea TUI for the wallet keeper.
package ui

import (
	"time"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// Message types for TUI updates

// CycleMsg is sent when a maintenance cycle completes.
type CycleMsg struct {
	Status  domain.Status
	Outcome *domain.CycleOutcome
}

// BalanceMsg is sent when fresh balances are available.
type BalanceMsg struct {
	Target  asset.Amount
	Funding asset.Amount
}

// ConnectionStatusMsg is sent when the ledger connection state changes.
type ConnectionStatusMsg struct {
	Name      string
	Connected bool
	ChainID   uint64
	LastBlock uint64
	Latency   time.Duration
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}

// StartModulesMsg signals that modules should start loading.
type StartModulesMsg struct{}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// StartupMsg is sent during application startup to show progress.
type StartupMsg struct {
	Step    string // Current step name
	Status  string // "connecting", "connected", "failed"
	Message string // Optional message
}

// PolicyMsg carries the configured top-up policy for display.
type PolicyMsg struct {
	Threshold string
	TopUp     string
}
