package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// AttemptStage tracks how far a single top-up got. Stages only move
// forward; an attempt is discarded once its cycle reports an outcome.
type AttemptStage string

const (
	StagePlanned       AttemptStage = "planned"
	StageFundsVerified AttemptStage = "funds-verified"
	StageSubmitted     AttemptStage = "submitted"
	StageConfirmed     AttemptStage = "confirmed"
	StageFailed        AttemptStage = "failed"
)

// TransferAttempt represents one top-up operation in flight.
type TransferAttempt struct {
	Target     common.Address
	Amount     asset.Amount
	FeeReserve asset.Amount
	Stage      AttemptStage
	TransferID common.Hash // zero until submission succeeds
	CreatedAt  time.Time
}

// NewTransferAttempt creates an attempt in the planned stage.
func NewTransferAttempt(target common.Address, amount, feeReserve asset.Amount) *TransferAttempt {
	return &TransferAttempt{
		Target:     target,
		Amount:     amount,
		FeeReserve: feeReserve,
		Stage:      StagePlanned,
		CreatedAt:  time.Now(),
	}
}

// Advance moves the attempt to the next stage.
func (a *TransferAttempt) Advance(stage AttemptStage) {
	a.Stage = stage
}

// Submitted records the transfer identifier assigned by the ledger.
func (a *TransferAttempt) Submitted(id common.Hash) {
	a.TransferID = id
	a.Stage = StageSubmitted
}
