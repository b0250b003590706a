package app

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// CheckSentinel resolves to the preconfigured default account, same as
// an empty identifier.
const CheckSentinel = "check"

// Inspector wraps balance queries with identifier resolution and
// validation. Malformed input never reaches the network.
type Inspector struct {
	ledger         Ledger
	defaultAccount common.Address
}

// NewInspector creates an Inspector monitoring defaultAccount when no
// explicit identifier is given.
func NewInspector(ledger Ledger, defaultAccount common.Address) *Inspector {
	return &Inspector{
		ledger:         ledger,
		defaultAccount: defaultAccount,
	}
}

// Resolve maps an identifier string to a validated address without any
// network call. Empty input and the check sentinel resolve to the
// default account.
func (i *Inspector) Resolve(identifier string) (common.Address, error) {
	if identifier == "" || identifier == CheckSentinel {
		return i.defaultAccount, nil
	}

	if !common.IsHexAddress(identifier) {
		return common.Address{}, apperror.New(apperror.CodeInvalidAddress,
			apperror.WithContext(identifier))
	}

	return common.HexToAddress(identifier), nil
}

// Inspect resolves the identifier and queries its balance. Exactly one
// balance query is issued for valid input, zero for invalid input.
func (i *Inspector) Inspect(ctx context.Context, identifier string) (asset.Amount, common.Address, error) {
	account, err := i.Resolve(identifier)
	if err != nil {
		return asset.Amount{}, common.Address{}, err
	}

	balance, err := i.ledger.BalanceOf(ctx, account)
	if err != nil {
		return asset.Amount{}, account, err
	}

	return balance, account, nil
}

// DefaultAccount returns the preconfigured monitored account.
func (i *Inspector) DefaultAccount() common.Address {
	return i.defaultAccount
}
