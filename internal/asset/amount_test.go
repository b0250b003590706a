package asset_test

import (
	"math/big"
	"testing"

	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/shopspring/decimal"
)

func TestAmount_Basic(t *testing.T) {
	// 1 ETH = 1e18 wei
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))

	if oneETH.IsZero() {
		t.Error("expected non-zero amount")
	}

	// ToDecimal should return 1.0
	d := oneETH.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	// String should be "1 ETH"
	if oneETH.String() != "1 ETH" {
		t.Errorf("expected '1 ETH', got '%s'", oneETH.String())
	}
}

func TestAmount_Add(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))
	twoETH := asset.NewAmount(asset.ETH, big.NewInt(2e18))

	sum, err := oneETH.Add(twoETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(3)
	if !sum.ToDecimal().Equal(expected) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))
	onePOL := asset.NewAmount(asset.POL, big.NewInt(1e18))

	_, err := oneETH.Add(onePOL)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_Sub(t *testing.T) {
	threeETH := asset.NewAmount(asset.ETH, big.NewInt(3e18))
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))

	diff, err := threeETH.Sub(oneETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(2)
	if !diff.ToDecimal().Equal(expected) {
		t.Errorf("expected 2, got %s", diff.ToDecimal().String())
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))
	twoETH := asset.NewAmount(asset.ETH, big.NewInt(2e18))

	_, err := oneETH.Sub(twoETH)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestAmount_Comparisons(t *testing.T) {
	oneETH := asset.NewAmount(asset.ETH, big.NewInt(1e18))
	twoETH := asset.NewAmount(asset.ETH, big.NewInt(2e18))

	gte, err := twoETH.GreaterThanOrEqual(oneETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gte {
		t.Error("expected 2 ETH >= 1 ETH")
	}

	lt, err := oneETH.LessThan(twoETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !lt {
		t.Error("expected 1 ETH < 2 ETH")
	}

	gte, err = oneETH.GreaterThanOrEqual(oneETH)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gte {
		t.Error("expected 1 ETH >= 1 ETH")
	}
}

func TestParseDecimal(t *testing.T) {
	// Parse "1.5" ETH
	d := decimal.NewFromFloat(1.5)
	amount, err := asset.ParseDecimal(asset.ETH, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should be 1.5e18 wei
	expected := big.NewInt(0)
	expected.SetString("1500000000000000000", 10)

	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestParseString_Invalid(t *testing.T) {
	if _, err := asset.ParseString(asset.ETH, "not-a-number"); err == nil {
		t.Error("expected error for invalid decimal string")
	}

	if _, err := asset.ParseString(asset.ETH, "-0.1"); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	// Should find ETH on mainnet
	eth, ok := r.Get(asset.ChainIDEthereum)
	if !ok {
		t.Error("ETH not found in registry")
	}
	if eth.Symbol() != "ETH" {
		t.Errorf("expected ETH, got %s", eth.Symbol())
	}

	// Sepolia coin is distinct from mainnet ETH
	sep, ok := r.Get(asset.ChainIDSepolia)
	if !ok {
		t.Error("Sepolia coin not found in registry")
	}
	if sep.Equals(eth) {
		t.Error("Sepolia coin should not equal mainnet ETH")
	}
}

func TestNative_UnknownChain(t *testing.T) {
	coin := asset.Native(424242)
	if coin == nil {
		t.Fatal("expected placeholder asset for unknown chain")
	}
	if coin.ChainID() != 424242 {
		t.Errorf("expected chain 424242, got %d", coin.ChainID())
	}
	if coin.Decimals() != 18 {
		t.Errorf("expected 18 decimals, got %d", coin.Decimals())
	}
}
