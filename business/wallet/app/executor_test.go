package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	ledgerDomain "github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
)

var (
	testAccount = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testFunding = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testTxHash  = common.HexToHash("0xabcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789")
)

// fakeLedger implements the Ledger port with scripted responses.
type fakeLedger struct {
	fundingBalance  asset.Amount
	fundingErr      error
	fundingAfter    asset.Amount
	fundingAfterErr error
	accountBalance  asset.Amount
	accountErr      error
	transferErr     error
	confirmation    *ledgerDomain.Confirmation
	confirmErr      error

	balanceCalls  int
	fundingCalls  int
	transferCalls int
}

func (f *fakeLedger) BalanceOf(ctx context.Context, addr common.Address) (asset.Amount, error) {
	f.balanceCalls++
	if addr == testFunding {
		f.fundingCalls++
		if f.fundingCalls > 1 {
			if f.fundingAfterErr != nil {
				return asset.Amount{}, f.fundingAfterErr
			}
			if f.fundingAfter != (asset.Amount{}) {
				return f.fundingAfter, nil
			}
		}
		return f.fundingBalance, f.fundingErr
	}
	return f.accountBalance, f.accountErr
}

func (f *fakeLedger) FundingAddress() common.Address {
	return testFunding
}

func (f *fakeLedger) Transfer(ctx context.Context, to common.Address, amount asset.Amount) (*ledgerDomain.Commitment, error) {
	f.transferCalls++
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return &ledgerDomain.Commitment{
		TransferID: testTxHash,
		From:       testFunding,
		To:         to,
		Amount:     amount,
	}, nil
}

func (f *fakeLedger) AwaitConfirmation(ctx context.Context, c *ledgerDomain.Commitment) (*ledgerDomain.Confirmation, error) {
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	if f.confirmation != nil {
		return f.confirmation, nil
	}
	return &ledgerDomain.Confirmation{
		TransferID: c.TransferID,
		Status:     ledgerDomain.ConfirmationConfirmed,
	}, nil
}

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelInfo, "test", nil)
}

func amt(t *testing.T, coin *asset.Asset, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(coin, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return a
}

func testPolicy(t *testing.T, coin *asset.Asset, minBalance, topUp, feeReserve string) domain.TopUpPolicy {
	t.Helper()
	policy, err := domain.NewTopUpPolicy(
		amt(t, coin, minBalance),
		amt(t, coin, topUp),
		amt(t, coin, feeReserve),
	)
	if err != nil {
		t.Fatalf("building policy: %v", err)
	}
	return policy
}

func TestMaybeTopUp_Healthy(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.5"), policy)

	if outcome.Kind != domain.KindHealthy {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindHealthy)
	}
	if ledger.transferCalls != 0 {
		t.Errorf("transfer calls = %d, want 0", ledger.transferCalls)
	}
	if ledger.balanceCalls != 0 {
		t.Errorf("balance calls = %d, want 0", ledger.balanceCalls)
	}
}

func TestMaybeTopUp_ExactThresholdIsHealthy(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.1"), policy)

	if outcome.Kind != domain.KindHealthy {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindHealthy)
	}
	if ledger.transferCalls != 0 {
		t.Errorf("transfer calls = %d, want 0", ledger.transferCalls)
	}
}

func TestMaybeTopUp_ToppedUp(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		fundingAfter:   amt(t, coin, "0.299"),
		accountBalance: amt(t, coin, "0.25"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindToppedUp {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindToppedUp)
	}
	if ledger.transferCalls != 1 {
		t.Errorf("transfer calls = %d, want 1", ledger.transferCalls)
	}
	if outcome.TransferID != testTxHash {
		t.Errorf("transfer id = %s, want %s", outcome.TransferID.Hex(), testTxHash.Hex())
	}
	// New balance comes from the re-query, never from arithmetic
	if !outcome.NewBalance.Equals(amt(t, coin, "0.25")) {
		t.Errorf("new balance = %s, want 0.25", outcome.NewBalance.String())
	}
	if !outcome.FundingBalance.Equals(amt(t, coin, "0.299")) {
		t.Errorf("funding balance = %s, want 0.299", outcome.FundingBalance.String())
	}
}

func TestMaybeTopUp_InsufficientFunds(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.1"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindInsufficientFunds {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindInsufficientFunds)
	}
	// Underfunded source never reaches submission
	if ledger.transferCalls != 0 {
		t.Errorf("transfer calls = %d, want 0", ledger.transferCalls)
	}
	if !outcome.Shortfall.Equals(amt(t, coin, "0.100005")) {
		t.Errorf("shortfall = %s, want 0.100005", outcome.Shortfall.String())
	}
	if outcome.FundingAddress != testFunding {
		t.Errorf("funding address = %s, want %s", outcome.FundingAddress.Hex(), testFunding.Hex())
	}
}

func TestMaybeTopUp_FundingQueryFailure(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingErr: errors.New("connection reset"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindTransientError {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindTransientError)
	}
	if ledger.transferCalls != 0 {
		t.Errorf("transfer calls = %d, want 0", ledger.transferCalls)
	}
}

func TestMaybeTopUp_TransferRejected(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		transferErr: apperror.New(apperror.CodeTransferRejected,
			apperror.WithContext("nonce too low")),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindTransferFailed {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindTransferFailed)
	}
	if outcome.Err == nil {
		t.Error("expected error to be preserved in outcome")
	}
	if ledger.transferCalls != 1 {
		t.Errorf("transfer calls = %d, want 1 (no internal retry)", ledger.transferCalls)
	}
}

func TestMaybeTopUp_TransferLostSolvencyRace(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		transferErr:    apperror.New(apperror.CodeInsufficientFunds),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	// The node rejecting for insufficient funds is still an
	// insufficient-funds outcome, not a generic transfer failure.
	if outcome.Kind != domain.KindInsufficientFunds {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindInsufficientFunds)
	}
}

func TestMaybeTopUp_ConfirmationTimeout(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		confirmation: &ledgerDomain.Confirmation{
			TransferID: testTxHash,
			Status:     ledgerDomain.ConfirmationUnknown,
		},
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	// Timeout is not failure: the transfer may still land
	if outcome.Kind != domain.KindConfirmationUnknown {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindConfirmationUnknown)
	}
	if outcome.TransferID != testTxHash {
		t.Errorf("transfer id = %s, want %s", outcome.TransferID.Hex(), testTxHash.Hex())
	}
}

func TestMaybeTopUp_ConfirmationError(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		confirmErr:     errors.New("receipt poll failed"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindConfirmationUnknown {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindConfirmationUnknown)
	}
}

func TestMaybeTopUp_Reverted(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		confirmation: &ledgerDomain.Confirmation{
			TransferID: testTxHash,
			Status:     ledgerDomain.ConfirmationReverted,
		},
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindTransferFailed {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindTransferFailed)
	}
	if apperror.GetCode(outcome.Err) != apperror.CodeTransferReverted {
		t.Errorf("error code = %s, want %s", apperror.GetCode(outcome.Err), apperror.CodeTransferReverted)
	}
}

func TestMaybeTopUp_ReQueryFailure(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		accountErr:     errors.New("connection reset"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	// Confirmed but unverifiable: report unknown, never assume success
	if outcome.Kind != domain.KindConfirmationUnknown {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindConfirmationUnknown)
	}
}

func TestMaybeTopUp_FundingReQueryFallsBack(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance:  amt(t, coin, "0.5"),
		fundingAfterErr: errors.New("connection reset"),
		accountBalance:  amt(t, coin, "0.25"),
	}
	exec := NewExecutor(ledger, testLogger())
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindToppedUp {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindToppedUp)
	}
	// The proven top-up is reported with the pre-transfer funding balance
	if !outcome.FundingBalance.Equals(amt(t, coin, "0.5")) {
		t.Errorf("funding balance = %s, want pre-transfer 0.5", outcome.FundingBalance.String())
	}
}

func TestMaybeTopUp_FailureLogsStageReached(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{
		fundingBalance: amt(t, coin, "0.5"),
		accountBalance: amt(t, coin, "0.05"),
		transferErr:    errors.New("gas limit exceeded"),
	}

	var buf bytes.Buffer
	exec := NewExecutor(ledger, logger.New(&buf, logger.LevelInfo, "test", nil))
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	outcome := exec.MaybeTopUp(context.Background(), testAccount, amt(t, coin, "0.05"), policy)

	if outcome.Kind != domain.KindTransferFailed {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindTransferFailed)
	}
	// The rejection log names how far the attempt got, so an operator can
	// tell a pre-submission failure from a lost transfer.
	if !strings.Contains(buf.String(), string(domain.StageFundsVerified)) {
		t.Errorf("rejection log does not name the stage reached:\n%s", buf.String())
	}
}
