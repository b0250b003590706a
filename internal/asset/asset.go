// Package asset provides a type-safe model for native chain coins.
// The core uses big.Int for exact on-chain representation.
// decimal.Decimal is only used at boundaries (config, parsing, display).
package asset

import "fmt"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDSepolia  = 11155111
	ChainIDHolesky  = 17000
	ChainIDPolygon  = 137
	ChainIDArbitrum = 42161
	ChainIDOptimism = 10
	ChainIDBase     = 8453
)

// Asset represents the metadata of a chain's native coin.
// Identity is the chain id; the symbol is display metadata only.
type Asset struct {
	chainID  uint64
	symbol   string
	name     string
	decimals uint8
}

// NewAsset creates a native coin asset for the given chain.
func NewAsset(chainID uint64, symbol, name string, decimals uint8) *Asset {
	if symbol == "" {
		panic("asset: empty symbol")
	}
	if decimals > 30 {
		panic("asset: suspicious decimals (>30)")
	}

	return &Asset{
		chainID:  chainID,
		symbol:   symbol,
		name:     name,
		decimals: decimals,
	}
}

// ChainID returns the chain this coin is native to.
func (a *Asset) ChainID() uint64 {
	return a.chainID
}

// Symbol returns the ticker symbol (e.g., "ETH").
func (a *Asset) Symbol() string {
	return a.symbol
}

// Name returns the human-readable name (e.g., "Ethereum").
func (a *Asset) Name() string {
	if a.name == "" {
		return a.symbol
	}
	return a.name
}

// Decimals returns the number of decimal places of the smallest unit.
func (a *Asset) Decimals() uint8 {
	return a.decimals
}

// String returns a human-readable representation.
func (a *Asset) String() string {
	return a.symbol
}

// Equals compares two Assets by chain id.
func (a *Asset) Equals(other *Asset) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.chainID == other.chainID
}

// Well-known native coins.
var (
	ETH        = NewAsset(ChainIDEthereum, "ETH", "Ethereum", 18)
	SepoliaETH = NewAsset(ChainIDSepolia, "ETH", "Sepolia Ether", 18)
	HoleskyETH = NewAsset(ChainIDHolesky, "ETH", "Holesky Ether", 18)
	POL        = NewAsset(ChainIDPolygon, "POL", "Polygon", 18)
	ArbETH     = NewAsset(ChainIDArbitrum, "ETH", "Arbitrum Ether", 18)
	OpETH      = NewAsset(ChainIDOptimism, "ETH", "Optimism Ether", 18)
	BaseETH    = NewAsset(ChainIDBase, "ETH", "Base Ether", 18)
)

// Native returns the native coin for the given chain id, or an ETH-like
// placeholder for chains not in the registry.
func Native(chainID uint64) *Asset {
	if a, ok := DefaultRegistry().Get(chainID); ok {
		return a
	}
	return NewAsset(chainID, "ETH", fmt.Sprintf("chain-%d native", chainID), 18)
}
