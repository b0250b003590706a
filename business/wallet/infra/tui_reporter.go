package infra

import (
	"context"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
	"github.com/roshanbvadassery/send-openputer-kit/pkg/ui"
)

// TUIReporter implements Reporter by forwarding cycle results to the
// Bubble Tea dashboard.
type TUIReporter struct {
	logger    logger.LoggerInterface
	threshold string
	topUp     string
}

// NewTUIReporter creates a new TUIReporter. The policy strings are shown
// in the dashboard's balances header.
func NewTUIReporter(log logger.LoggerInterface, threshold, topUp string) *TUIReporter {
	return &TUIReporter{
		logger:    log,
		threshold: threshold,
		topUp:     topUp,
	}
}

// Start initializes the TUI reporter.
func (r *TUIReporter) Start(ctx context.Context) error {
	ui.Send(ui.PolicyMsg{Threshold: r.threshold, TopUp: r.topUp})
	ui.Send(ui.LogMsg{Level: "info", Message: "wallet keeper started"})
	return nil
}

// Report forwards one cycle's status to the dashboard.
func (r *TUIReporter) Report(status domain.Status, outcome *domain.CycleOutcome) {
	ui.Send(ui.CycleMsg{
		Status:  status,
		Outcome: outcome,
	})

	if status.Actionable() {
		ui.Send(ui.LogMsg{Level: "warn", Message: status.Detail})
	}
}

// UpdateBalances forwards fresh balance readings to the dashboard.
func (r *TUIReporter) UpdateBalances(target, funding asset.Amount) {
	ui.Send(ui.BalanceMsg{
		Target:  target,
		Funding: funding,
	})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	ui.Send(ui.LogMsg{Level: "info", Message: "wallet keeper stopped"})
	return nil
}
