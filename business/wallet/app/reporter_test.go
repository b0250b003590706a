package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

func TestDescribe_Healthy(t *testing.T) {
	coin := asset.Native(1)
	writer := NewStatusWriter()

	status := writer.Describe(domain.Healthy(testAccount, amt(t, coin, "0.5")))

	if status.Kind != domain.KindHealthy {
		t.Fatalf("kind = %s", status.Kind)
	}
	if status.Actionable() {
		t.Error("healthy must not be actionable")
	}
	if !strings.Contains(status.Detail, testAccount.Hex()) {
		t.Errorf("detail %q missing account address", status.Detail)
	}
	if !strings.Contains(status.Detail, "0.5 ETH") {
		t.Errorf("detail %q missing balance", status.Detail)
	}
}

func TestDescribe_InsufficientFunds(t *testing.T) {
	coin := asset.Native(1)
	writer := NewStatusWriter()

	outcome := domain.InsufficientFunds(
		testAccount,
		amt(t, coin, "0.05"),
		testFunding,
		amt(t, coin, "0.1"),
		amt(t, coin, "0.100005"),
	)
	status := writer.Describe(outcome)

	if !status.Actionable() {
		t.Fatal("insufficient funds must be actionable")
	}
	// The report alone must be enough for the operator to act: exact
	// funding address and exact shortfall.
	if !strings.Contains(status.Detail, testFunding.Hex()) {
		t.Errorf("detail %q missing funding address", status.Detail)
	}
	if !strings.Contains(status.Detail, "0.100005") {
		t.Errorf("detail %q missing shortfall", status.Detail)
	}
	if !strings.Contains(status.Detail, "send at least") {
		t.Errorf("detail %q missing remediation hint", status.Detail)
	}
}

func TestDescribe_ConfirmationUnknownIsNotFailure(t *testing.T) {
	coin := asset.Native(1)
	writer := NewStatusWriter()

	status := writer.Describe(domain.ConfirmationUnknown(testAccount, amt(t, coin, "0.05"), testTxHash))

	if status.Kind != domain.KindConfirmationUnknown {
		t.Fatalf("kind = %s", status.Kind)
	}
	if !status.Actionable() {
		t.Error("unknown fate needs operator attention")
	}
	if !strings.Contains(status.Detail, testTxHash.Hex()) {
		t.Errorf("detail %q missing transfer id", status.Detail)
	}
	if strings.Contains(strings.ToLower(status.Summary), "failed") {
		t.Errorf("summary %q must not claim failure for an unresolved transfer", status.Summary)
	}
}

func TestDescribe_TransferFailed(t *testing.T) {
	coin := asset.Native(1)
	writer := NewStatusWriter()

	status := writer.Describe(domain.TransferFailed(testAccount, amt(t, coin, "0.05"), errors.New("nonce too low")))

	if !status.Actionable() {
		t.Fatal("transfer failure must be actionable")
	}
	if !strings.Contains(status.Detail, "nonce too low") {
		t.Errorf("detail %q missing cause", status.Detail)
	}
}

func TestDescribe_InvalidInput(t *testing.T) {
	writer := NewStatusWriter()

	status := writer.Describe(domain.InvalidInput("garbage", errors.New("bad address")))

	if status.Actionable() {
		t.Error("invalid input is a caller mistake, not an operator alert")
	}
	if !strings.Contains(status.Detail, "garbage") {
		t.Errorf("detail %q missing offending input", status.Detail)
	}
}

func TestDescribe_ToppedUp(t *testing.T) {
	coin := asset.Native(1)
	writer := NewStatusWriter()

	outcome := domain.ToppedUp(
		testAccount,
		amt(t, coin, "0.05"),
		amt(t, coin, "0.25"),
		testFunding,
		amt(t, coin, "0.299"),
		testTxHash,
	)
	status := writer.Describe(outcome)

	if status.Actionable() {
		t.Error("a successful top-up must not be actionable")
	}
	for _, want := range []string{"0.05 ETH", "0.25 ETH", testTxHash.Hex()} {
		if !strings.Contains(status.Detail, want) {
			t.Errorf("detail %q missing %q", status.Detail, want)
		}
	}
}
