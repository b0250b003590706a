package domain

import (
	"errors"
	"testing"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

func mustAmount(t *testing.T, coin *asset.Asset, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(coin, s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return a
}

func TestNewTopUpPolicy(t *testing.T) {
	coin := asset.Native(1)

	policy, err := NewTopUpPolicy(
		mustAmount(t, coin, "0.1"),
		mustAmount(t, coin, "0.2"),
		mustAmount(t, coin, "0.000005"),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Required covers the transfer plus its fee headroom
	if !policy.Required().Equals(mustAmount(t, coin, "0.200005")) {
		t.Errorf("required = %s, want 0.200005", policy.Required().String())
	}
}

func TestNewTopUpPolicy_RejectsNonPositive(t *testing.T) {
	coin := asset.Native(1)

	_, err := NewTopUpPolicy(
		asset.Zero(coin),
		mustAmount(t, coin, "0.2"),
		mustAmount(t, coin, "0.000005"),
	)
	if !errors.Is(err, ErrNonPositiveThreshold) {
		t.Errorf("error = %v, want ErrNonPositiveThreshold", err)
	}

	_, err = NewTopUpPolicy(
		mustAmount(t, coin, "0.1"),
		asset.Zero(coin),
		mustAmount(t, coin, "0.000005"),
	)
	if !errors.Is(err, ErrNonPositiveTopUp) {
		t.Errorf("error = %v, want ErrNonPositiveTopUp", err)
	}
}

func TestNewTopUpPolicy_RejectsAssetMismatch(t *testing.T) {
	eth := asset.Native(1)
	pol := asset.Native(137)

	_, err := NewTopUpPolicy(
		mustAmount(t, eth, "0.1"),
		mustAmount(t, pol, "0.2"),
		mustAmount(t, eth, "0.000005"),
	)
	if !errors.Is(err, ErrPolicyAssetMismatch) {
		t.Errorf("error = %v, want ErrPolicyAssetMismatch", err)
	}
}
