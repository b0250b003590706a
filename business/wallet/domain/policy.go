// Package domain contains the core domain types for the wallet context.
package domain

import (
	"errors"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

var (
	ErrNonPositiveThreshold = errors.New("wallet: min balance must be positive")
	ErrNonPositiveTopUp     = errors.New("wallet: top-up amount must be positive")
	ErrPolicyAssetMismatch  = errors.New("wallet: policy amounts must share one asset")
)

// TopUpPolicy is the immutable rule set for one monitored account.
// Whether TopUpAmount actually restores the balance above MinBalance
// after fees is the operator's responsibility; the policy does not
// link the two values.
type TopUpPolicy struct {
	MinBalance  asset.Amount
	TopUpAmount asset.Amount
	FeeReserve  asset.Amount
}

// NewTopUpPolicy validates and builds a policy.
func NewTopUpPolicy(minBalance, topUpAmount, feeReserve asset.Amount) (TopUpPolicy, error) {
	if !minBalance.IsPositive() {
		return TopUpPolicy{}, ErrNonPositiveThreshold
	}
	if !topUpAmount.IsPositive() {
		return TopUpPolicy{}, ErrNonPositiveTopUp
	}
	if !minBalance.Asset().Equals(topUpAmount.Asset()) ||
		!minBalance.Asset().Equals(feeReserve.Asset()) {
		return TopUpPolicy{}, ErrPolicyAssetMismatch
	}

	return TopUpPolicy{
		MinBalance:  minBalance,
		TopUpAmount: topUpAmount,
		FeeReserve:  feeReserve,
	}, nil
}

// Required returns the funding balance needed to execute one top-up,
// fee reserve included.
func (p TopUpPolicy) Required() asset.Amount {
	return p.TopUpAmount.MustAdd(p.FeeReserve)
}
