package app

import (
	"fmt"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
)

// StatusWriter renders cycle outcomes into structured statuses. Pure,
// no side effects.
type StatusWriter struct{}

// NewStatusWriter creates a StatusWriter.
func NewStatusWriter() *StatusWriter {
	return &StatusWriter{}
}

// Describe maps a CycleOutcome to its status. Every outcome yields a
// complete, self-contained report.
func (w *StatusWriter) Describe(outcome *domain.CycleOutcome) domain.Status {
	status := domain.Status{
		Kind:      outcome.Kind,
		Timestamp: outcome.Timestamp,
	}

	switch outcome.Kind {
	case domain.KindHealthy:
		status.Summary = "wallet healthy"
		status.Detail = fmt.Sprintf("account %s holds %s, above the operating threshold",
			outcome.Account.Hex(), outcome.OldBalance.String())

	case domain.KindToppedUp:
		status.Summary = "wallet topped up"
		status.Detail = fmt.Sprintf("account %s topped up from %s to %s (transfer %s); funding account %s holds %s",
			outcome.Account.Hex(),
			outcome.OldBalance.String(),
			outcome.NewBalance.String(),
			outcome.TransferID.Hex(),
			outcome.FundingAddress.Hex(),
			outcome.FundingBalance.String())

	case domain.KindInsufficientFunds:
		status.Summary = "funding account underfunded"
		// The exact address and shortfall let the operator act without
		// further queries.
		status.Detail = fmt.Sprintf("funding account %s holds %s, short by %s; send at least %s to %s to resume top-ups",
			outcome.FundingAddress.Hex(),
			outcome.FundingBalance.String(),
			outcome.Shortfall.String(),
			outcome.Shortfall.String(),
			outcome.FundingAddress.Hex())

	case domain.KindTransferFailed:
		status.Summary = "top-up transfer failed"
		status.Detail = fmt.Sprintf("transfer to %s was rejected: %v; balance remains %s, manual retry possible",
			outcome.Account.Hex(), outcome.Err, outcome.OldBalance.String())

	case domain.KindConfirmationUnknown:
		status.Summary = "transfer fate unknown"
		status.Detail = fmt.Sprintf("transfer %s to %s did not confirm in time; re-check the balance before assuming success or failure",
			outcome.TransferID.Hex(), outcome.Account.Hex())

	case domain.KindInvalidInput:
		status.Summary = "invalid account identifier"
		status.Detail = fmt.Sprintf("%q is not a well-formed address", outcome.Detail)

	case domain.KindTransientError:
		status.Summary = "cycle failed unexpectedly"
		status.Detail = fmt.Sprintf("unexpected error, will retry shortly: %v", outcome.Err)

	default:
		status.Summary = "unrecognized outcome"
		status.Detail = fmt.Sprintf("outcome kind %q", outcome.Kind)
	}

	return status
}
