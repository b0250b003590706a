// Package domain contains the core domain types for the ledger context.
package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// Commitment identifies a transfer that has been accepted by the node
// but not necessarily recorded on chain yet.
type Commitment struct {
	TransferID  common.Hash
	From        common.Address
	To          common.Address
	Amount      asset.Amount
	SubmittedAt time.Time
}

// ConfirmationStatus classifies the terminal state of a confirmation wait.
type ConfirmationStatus string

const (
	ConfirmationPending   ConfirmationStatus = "pending"
	ConfirmationConfirmed ConfirmationStatus = "confirmed"
	ConfirmationReverted  ConfirmationStatus = "reverted"
	ConfirmationUnknown   ConfirmationStatus = "unknown"
)

// Confirmation is the record produced by waiting on a commitment.
type Confirmation struct {
	TransferID  common.Hash
	Status      ConfirmationStatus
	BlockNumber uint64
	Depth       uint64
	FeePaid     asset.Amount
	ConfirmedAt time.Time
}

// Confirmed reports whether the transfer is durably recorded.
func (c *Confirmation) Confirmed() bool {
	return c != nil && c.Status == ConfirmationConfirmed
}
