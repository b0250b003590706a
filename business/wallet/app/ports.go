// Package app contains application services and port definitions for the wallet context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	ledgerDomain "github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// Ledger is the slice of the ledger context this module consumes.
type Ledger interface {
	// BalanceOf retrieves the spendable balance of an address.
	BalanceOf(ctx context.Context, addr common.Address) (asset.Amount, error)

	// FundingAddress returns the address transfers are sent from.
	FundingAddress() common.Address

	// Transfer submits a value transfer from the funding address.
	Transfer(ctx context.Context, to common.Address, amount asset.Amount) (*ledgerDomain.Commitment, error)

	// AwaitConfirmation blocks until the commitment resolves or times out.
	AwaitConfirmation(ctx context.Context, c *ledgerDomain.Commitment) (*ledgerDomain.Confirmation, error)
}

// Reporter defines the interface for surfacing cycle results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// Report surfaces one cycle's status.
	Report(status domain.Status, outcome *domain.CycleOutcome)

	// UpdateBalances updates the current balance display.
	UpdateBalances(target, funding asset.Amount)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// Notifier delivers actionable statuses to an external channel.
type Notifier interface {
	Notify(ctx context.Context, status domain.Status, outcome *domain.CycleOutcome) error
}
