// Package infra contains infrastructure adapters for the wallet context.
package infra

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// ConsoleReporter implements Reporter for CLI output.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a new ConsoleReporter.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// Start initializes the console reporter.
func (r *ConsoleReporter) Start(ctx context.Context) error {
	fmt.Fprintln(r.out, "Wallet Keeper Started")
	fmt.Fprintln(r.out, "=====================")
	return nil
}

// Report outputs one cycle's status to the console.
func (r *ConsoleReporter) Report(status domain.Status, outcome *domain.CycleOutcome) {
	stamp := status.Timestamp.Format("15:04:05")

	if !status.Actionable() {
		fmt.Fprintf(r.out, "[%s] %s: %s\n", stamp, status.Summary, status.Detail)
		return
	}

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "ATTENTION REQUIRED: %s\n", status.Summary)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Time:           %s\n", stamp)
	fmt.Fprintf(r.out, "Outcome:        %s\n", outcome.Kind)
	if outcome.Account != (common.Address{}) {
		fmt.Fprintf(r.out, "Account:        %s\n", outcome.Account.Hex())
	}
	if outcome.Kind == domain.KindInsufficientFunds {
		fmt.Fprintf(r.out, "Funding:        %s\n", outcome.FundingAddress.Hex())
		fmt.Fprintf(r.out, "Held:           %s\n", outcome.FundingBalance.String())
		fmt.Fprintf(r.out, "Shortfall:      %s\n", outcome.Shortfall.String())
	}
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintf(r.out, "%s\n", status.Detail)
	fmt.Fprintln(r.out, "================================================================================")
}

// UpdateBalances outputs balance changes (no-op for console mode).
func (r *ConsoleReporter) UpdateBalances(target, funding asset.Amount) {
	// Console reporter only outputs cycle results, not continuous balance updates
}

// Stop gracefully shuts down the console reporter.
func (r *ConsoleReporter) Stop() error {
	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "Wallet Keeper Stopped")
	return nil
}
