package domain

import (
	"math/big"
	"time"
)

// FeeQuote represents a gas price observation.
type FeeQuote struct {
	Wei       *big.Int
	Gwei      float64
	Timestamp time.Time
}

// NewFeeQuote creates a FeeQuote from wei.
func NewFeeQuote(wei *big.Int) *FeeQuote {
	gwei := new(big.Float).SetInt(wei)
	gwei.Quo(gwei, big.NewFloat(1e9))
	gweiFloat, _ := gwei.Float64()

	return &FeeQuote{
		Wei:       wei,
		Gwei:      gweiFloat,
		Timestamp: time.Now(),
	}
}

// TransferCost returns the total fee in wei for a plain value transfer
// at this gas price.
func (q *FeeQuote) TransferCost(gasLimit uint64) *big.Int {
	return new(big.Int).Mul(q.Wei, new(big.Int).SetUint64(gasLimit))
}
