package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// OutcomeKind is the stable classification of one maintenance cycle.
type OutcomeKind string

const (
	KindHealthy             OutcomeKind = "healthy"
	KindToppedUp            OutcomeKind = "topped_up"
	KindInsufficientFunds   OutcomeKind = "insufficient_funds"
	KindTransferFailed      OutcomeKind = "transfer_failed"
	KindConfirmationUnknown OutcomeKind = "confirmation_unknown"
	KindInvalidInput        OutcomeKind = "invalid_input"
	KindTransientError      OutcomeKind = "transient_error"
)

// CycleOutcome is the tagged result of one inspection (or
// inspection plus top-up) pass. It is consumed immediately by the
// reporters and kept only in the bounded cycle history.
type CycleOutcome struct {
	Kind    OutcomeKind
	Account common.Address

	// Balances observed during the cycle. NewBalance is set only for
	// topped-up cycles and always comes from a post-confirmation
	// re-query, never from arithmetic on the old balance.
	OldBalance asset.Amount
	NewBalance asset.Amount

	// Funding account details, set for top-up paths.
	FundingAddress common.Address
	FundingBalance asset.Amount
	Shortfall      asset.Amount

	TransferID common.Hash

	Detail    string
	Err       error
	Timestamp time.Time
}

// Healthy builds the outcome for a balance at or above threshold.
func Healthy(account common.Address, balance asset.Amount) *CycleOutcome {
	return &CycleOutcome{
		Kind:       KindHealthy,
		Account:    account,
		OldBalance: balance,
		Timestamp:  time.Now(),
	}
}

// ToppedUp builds the outcome for a confirmed, re-verified top-up.
func ToppedUp(account common.Address, oldBalance, newBalance asset.Amount, funding common.Address, fundingBalance asset.Amount, transferID common.Hash) *CycleOutcome {
	return &CycleOutcome{
		Kind:           KindToppedUp,
		Account:        account,
		OldBalance:     oldBalance,
		NewBalance:     newBalance,
		FundingAddress: funding,
		FundingBalance: fundingBalance,
		TransferID:     transferID,
		Timestamp:      time.Now(),
	}
}

// InsufficientFunds builds the outcome for an underfunded funding account.
func InsufficientFunds(account common.Address, balance asset.Amount, funding common.Address, fundingBalance, shortfall asset.Amount) *CycleOutcome {
	return &CycleOutcome{
		Kind:           KindInsufficientFunds,
		Account:        account,
		OldBalance:     balance,
		FundingAddress: funding,
		FundingBalance: fundingBalance,
		Shortfall:      shortfall,
		Timestamp:      time.Now(),
	}
}

// TransferFailed builds the outcome for a rejected submission.
func TransferFailed(account common.Address, balance asset.Amount, err error) *CycleOutcome {
	return &CycleOutcome{
		Kind:       KindTransferFailed,
		Account:    account,
		OldBalance: balance,
		Err:        err,
		Timestamp:  time.Now(),
	}
}

// ConfirmationUnknown builds the outcome for a transfer whose fate
// could not be proven either way.
func ConfirmationUnknown(account common.Address, balance asset.Amount, transferID common.Hash) *CycleOutcome {
	return &CycleOutcome{
		Kind:       KindConfirmationUnknown,
		Account:    account,
		OldBalance: balance,
		TransferID: transferID,
		Timestamp:  time.Now(),
	}
}

// InvalidInput builds the outcome for a malformed account identifier.
func InvalidInput(input string, err error) *CycleOutcome {
	return &CycleOutcome{
		Kind:      KindInvalidInput,
		Detail:    input,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// TransientError builds the outcome for an unexpected failure escaping
// the protocol.
func TransientError(err error) *CycleOutcome {
	return &CycleOutcome{
		Kind:      KindTransientError,
		Err:       err,
		Timestamp: time.Now(),
	}
}
