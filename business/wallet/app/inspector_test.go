package app

import (
	"context"
	"testing"

	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

func TestResolve(t *testing.T) {
	inspector := NewInspector(&fakeLedger{}, testAccount)

	tests := []struct {
		name       string
		identifier string
		want       string
		wantErr    bool
	}{
		{name: "empty uses default", identifier: "", want: testAccount.Hex()},
		{name: "sentinel uses default", identifier: CheckSentinel, want: testAccount.Hex()},
		{name: "explicit address", identifier: testFunding.Hex(), want: testFunding.Hex()},
		{name: "no 0x prefix accepted", identifier: "2222222222222222222222222222222222222222", want: testFunding.Hex()},
		{name: "malformed", identifier: "not-an-address", wantErr: true},
		{name: "too short", identifier: "0x1234", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := inspector.Resolve(tt.identifier)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if apperror.GetCode(err) != apperror.CodeInvalidAddress {
					t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeInvalidAddress)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if addr.Hex() != tt.want {
				t.Errorf("address = %s, want %s", addr.Hex(), tt.want)
			}
		})
	}
}

func TestInspect_InvalidInputSkipsNetwork(t *testing.T) {
	ledger := &fakeLedger{}
	inspector := NewInspector(ledger, testAccount)

	_, _, err := inspector.Inspect(context.Background(), "garbage")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if ledger.balanceCalls != 0 {
		t.Errorf("balance calls = %d, want 0 for invalid input", ledger.balanceCalls)
	}
}

func TestInspect_SingleQuery(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{accountBalance: amt(t, coin, "1.5")}
	inspector := NewInspector(ledger, testAccount)

	balance, account, err := inspector.Inspect(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account != testAccount {
		t.Errorf("account = %s, want %s", account.Hex(), testAccount.Hex())
	}
	if !balance.Equals(amt(t, coin, "1.5")) {
		t.Errorf("balance = %s, want 1.5", balance.String())
	}
	if ledger.balanceCalls != 1 {
		t.Errorf("balance calls = %d, want exactly 1", ledger.balanceCalls)
	}
}
