package app

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	ledgerDomain "github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apm"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
)

// Executor owns the decision of whether a top-up is needed and whether
// it succeeded. One submission attempt per cycle, no internal retries.
type Executor struct {
	ledger Ledger
	logger logger.LoggerInterface
	tracer apm.Tracer
}

// NewExecutor creates an Executor.
func NewExecutor(ledger Ledger, log logger.LoggerInterface) *Executor {
	return &Executor{
		ledger: ledger,
		logger: log,
		tracer: apm.NewTracer("wallet.executor"),
	}
}

// MaybeTopUp runs the balance-check / top-up / verification protocol
// for one cycle. All classified outcomes are normal returns; the error
// taxonomy lives in the outcome kind, not in a returned error.
func (e *Executor) MaybeTopUp(ctx context.Context, account common.Address, balance asset.Amount, policy domain.TopUpPolicy) *domain.CycleOutcome {
	ctx, span := e.tracer.StartSpanFromContext(ctx, "wallet.maybe_top_up")
	defer span.End()

	span.SetAttributes(
		attribute.String("account", account.Hex()),
		attribute.String("balance", balance.String()),
	)

	healthy, err := balance.GreaterThanOrEqual(policy.MinBalance)
	if err != nil {
		span.NoticeError(err)
		return domain.TransientError(err)
	}
	if healthy {
		span.SetStatus(codes.Ok, "healthy")
		return domain.Healthy(account, balance)
	}

	attempt := domain.NewTransferAttempt(account, policy.TopUpAmount, policy.FeeReserve)
	e.logger.Info(ctx, "balance below threshold, planning top-up",
		"account", account.Hex(),
		"balance", balance.String(),
		"min_balance", policy.MinBalance.String())

	// Step 1: source solvency check. Never submit a transfer known to
	// fail on-chain.
	funding := e.ledger.FundingAddress()
	fundingBalance, err := e.ledger.BalanceOf(ctx, funding)
	if err != nil {
		span.NoticeError(err)
		return domain.TransientError(fmt.Errorf("funding balance query: %w", err))
	}

	required := policy.Required()
	solvent, err := fundingBalance.GreaterThanOrEqual(required)
	if err != nil {
		span.NoticeError(err)
		return domain.TransientError(err)
	}
	if !solvent {
		shortfall := required.MustSub(fundingBalance)
		span.AddEvent("insufficient_funds")
		span.SetAttributes(
			attribute.String("shortfall", shortfall.String()),
			attribute.String("attempt_stage", string(attempt.Stage)),
		)
		e.logger.Warn(ctx, "funding account underfunded",
			"funding_address", funding.Hex(),
			"funding_balance", fundingBalance.String(),
			"required", required.String(),
			"shortfall", shortfall.String(),
			"stage", string(attempt.Stage))
		attempt.Advance(domain.StageFailed)
		return domain.InsufficientFunds(account, balance, funding, fundingBalance, shortfall)
	}
	attempt.Advance(domain.StageFundsVerified)

	// Step 2: submit, exactly once.
	commitment, err := e.ledger.Transfer(ctx, account, policy.TopUpAmount)
	if err != nil {
		span.NoticeError(err)
		span.SetAttributes(attribute.String("attempt_stage", string(attempt.Stage)))
		e.logger.Warn(ctx, "transfer submission rejected",
			"account", account.Hex(),
			"stage", string(attempt.Stage),
			"error", err)
		attempt.Advance(domain.StageFailed)
		if apperror.GetCode(err) == apperror.CodeInsufficientFunds {
			// Lost a race: the node saw less than our solvency check did.
			return domain.InsufficientFunds(account, balance, funding, fundingBalance, asset.Zero(fundingBalance.Asset()))
		}
		return domain.TransferFailed(account, balance, err)
	}
	attempt.Submitted(commitment.TransferID)

	// Step 3: confirm. A submitted transfer must always resolve, even
	// if the cycle's caller has been cancelled meanwhile; the ledger
	// client bounds the wait on its own.
	confirmation, err := e.ledger.AwaitConfirmation(context.WithoutCancel(ctx), commitment)
	if err != nil || confirmation.Status == ledgerDomain.ConfirmationUnknown {
		span.AddEvent("confirmation_unknown")
		span.SetStatus(codes.Error, "confirmation unresolved")
		span.SetAttributes(attribute.String("attempt_stage", string(attempt.Stage)))
		e.logger.Warn(ctx, "transfer fate unknown, re-check balance before acting",
			"transfer_id", commitment.TransferID.Hex(),
			"stage", string(attempt.Stage),
			"error", err)
		return domain.ConfirmationUnknown(account, balance, commitment.TransferID)
	}

	if confirmation.Status == ledgerDomain.ConfirmationReverted {
		revertErr := apperror.New(apperror.CodeTransferReverted,
			apperror.WithContext(commitment.TransferID.Hex()))
		span.NoticeError(revertErr)
		span.SetAttributes(attribute.String("attempt_stage", string(attempt.Stage)))
		e.logger.Warn(ctx, "transfer reverted on chain",
			"transfer_id", commitment.TransferID.Hex(),
			"stage", string(attempt.Stage))
		attempt.Advance(domain.StageFailed)
		return domain.TransferFailed(account, balance, revertErr)
	}
	attempt.Advance(domain.StageConfirmed)

	// Step 4: re-verify with ground truth, never arithmetic.
	newBalance, err := e.ledger.BalanceOf(ctx, account)
	if err != nil {
		span.NoticeError(err)
		e.logger.Warn(ctx, "post-transfer re-query failed",
			"account", account.Hex(), "error", err)
		return domain.ConfirmationUnknown(account, balance, commitment.TransferID)
	}

	fundingAfter, err := e.ledger.BalanceOf(ctx, funding)
	if err != nil {
		// The top-up itself is proven; report it with the last known
		// funding balance.
		fundingAfter = fundingBalance
	}

	span.SetAttributes(
		attribute.String("new_balance", newBalance.String()),
		attribute.String("attempt_stage", string(attempt.Stage)),
	)
	span.SetStatus(codes.Ok, "topped up")
	e.logger.Info(ctx, "top-up confirmed",
		"account", account.Hex(),
		"old_balance", balance.String(),
		"new_balance", newBalance.String(),
		"transfer_id", commitment.TransferID.Hex())

	return domain.ToppedUp(account, balance, newBalance, funding, fundingAfter, commitment.TransferID)
}
