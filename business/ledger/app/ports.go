// Package app contains application services and port definitions for the ledger context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// Ledger defines the interface for balance queries, transfer submission
// and confirmation against a chain node.
type Ledger interface {
	// BalanceOf retrieves the spendable balance of an address.
	BalanceOf(ctx context.Context, addr common.Address) (asset.Amount, error)

	// FundingAddress returns the address derived from the configured
	// signing identity. Transfers are always sent from this address.
	FundingAddress() common.Address

	// Transfer submits a value transfer from the funding address.
	Transfer(ctx context.Context, to common.Address, amount asset.Amount) (*domain.Commitment, error)

	// AwaitConfirmation blocks until the commitment is recorded at the
	// configured depth, reverts, or the wait times out.
	AwaitConfirmation(ctx context.Context, c *domain.Commitment) (*domain.Confirmation, error)

	// FeeQuote returns the current gas price observation.
	FeeQuote(ctx context.Context) (*domain.FeeQuote, error)

	// Status returns the current connection status.
	Status() domain.ConnectionStatus
}
