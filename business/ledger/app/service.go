// Package app contains application services and port definitions for the ledger context.
package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// LedgerService coordinates ledger interactions for other contexts.
type LedgerService struct {
	ledger Ledger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(ledger Ledger) *LedgerService {
	return &LedgerService{
		ledger: ledger,
	}
}

// BalanceOf retrieves the spendable balance of an address.
func (s *LedgerService) BalanceOf(ctx context.Context, addr common.Address) (asset.Amount, error) {
	return s.ledger.BalanceOf(ctx, addr)
}

// FundingAddress returns the configured funding address.
func (s *LedgerService) FundingAddress() common.Address {
	return s.ledger.FundingAddress()
}

// Transfer submits a value transfer from the funding address.
func (s *LedgerService) Transfer(ctx context.Context, to common.Address, amount asset.Amount) (*domain.Commitment, error) {
	return s.ledger.Transfer(ctx, to, amount)
}

// AwaitConfirmation blocks until the commitment resolves or times out.
func (s *LedgerService) AwaitConfirmation(ctx context.Context, c *domain.Commitment) (*domain.Confirmation, error) {
	return s.ledger.AwaitConfirmation(ctx, c)
}

// FeeQuote returns the current gas price observation.
func (s *LedgerService) FeeQuote(ctx context.Context) (*domain.FeeQuote, error) {
	return s.ledger.FeeQuote(ctx)
}

// Status returns the current connection status.
func (s *LedgerService) Status() domain.ConnectionStatus {
	return s.ledger.Status()
}
