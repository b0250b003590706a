// Package ethereum implements the ledger port on top of go-ethereum.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/cache"
	"github.com/roshanbvadassery/send-openputer-kit/internal/circuitbreaker"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
	"github.com/roshanbvadassery/send-openputer-kit/internal/ratelimit"
)

const (
	tracerName = "ledger.ethereum"
	meterName  = "ledger.ethereum"

	// Plain value transfers always cost exactly this much gas.
	transferGasLimit = 21000
)

// ClientConfig holds configuration for the ledger client.
type ClientConfig struct {
	RPCURL         string
	ChainID        uint64
	FundingKey     string // hex-encoded private key of the funding account
	ConfirmDepth   uint64
	ConfirmTimeout time.Duration
	PollInterval   time.Duration
	FeeCacheTTL    time.Duration
	RPCPerMinute   int
	MaxFeeWei      *big.Int // Maximum acceptable gas price (safety)
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(rpcURL, fundingKey string) ClientConfig {
	maxFee := new(big.Int)
	maxFee.SetString("500000000000", 10) // 500 gwei max

	return ClientConfig{
		RPCURL:         rpcURL,
		ChainID:        1,
		FundingKey:     fundingKey,
		ConfirmDepth:   1,
		ConfirmTimeout: 3 * time.Minute,
		PollInterval:   3 * time.Second,
		FeeCacheTTL:    12 * time.Second, // ~1 block
		RPCPerMinute:   300,
		MaxFeeWei:      maxFee,
	}
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	balanceQueries metric.Int64Counter
	transfers      metric.Int64Counter
	confirmations  metric.Int64Counter
	feeGwei        metric.Float64Gauge
	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
}

// Client implements the Ledger interface using go-ethereum.
type Client struct {
	config ClientConfig
	logger logger.LoggerInterface

	client   *ethclient.Client
	clientMu sync.RWMutex

	fundingKey  *ecdsa.PrivateKey
	fundingAddr common.Address
	coin        *asset.Asset

	// Caching and protection
	feeCache *cache.Cache[string, *domain.FeeQuote]
	cb       *circuitbreaker.CircuitBreaker[*big.Int]
	limiter  *ratelimit.Limiter

	// Connection status
	statusMu sync.RWMutex
	status   domain.ConnectionStatus

	// Observability
	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a new ledger client. The funding key is parsed
// eagerly so a malformed key fails at startup, not mid-cycle.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.FundingKey, "0x"))
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("invalid funding key"))
	}

	c := &Client{
		config:      cfg,
		logger:      log,
		fundingKey:  key,
		fundingAddr: crypto.PubkeyToAddress(key.PublicKey),
		coin:        asset.Native(cfg.ChainID),
		feeCache:    cache.New[string, *domain.FeeQuote](5 * time.Minute),
		limiter:     ratelimit.New(cfg.RPCPerMinute),
		tracer:      otel.Tracer(tracerName),
		status: domain.ConnectionStatus{
			State:   domain.StateDisconnected,
			ChainID: cfg.ChainID,
		},
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	c.initCircuitBreaker()

	return c, nil
}

// initMetrics initializes OTEL metric instruments.
func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.balanceQueries, err = meter.Int64Counter(
		"ledger_balance_queries_total",
		metric.WithDescription("Total balance query attempts"),
		metric.WithUnit("{query}"),
	)
	if err != nil {
		return err
	}

	c.metrics.transfers, err = meter.Int64Counter(
		"ledger_transfers_submitted_total",
		metric.WithDescription("Total transfer submissions"),
		metric.WithUnit("{transfer}"),
	)
	if err != nil {
		return err
	}

	c.metrics.confirmations, err = meter.Int64Counter(
		"ledger_confirmations_total",
		metric.WithDescription("Confirmation waits by terminal status"),
		metric.WithUnit("{confirmation}"),
	)
	if err != nil {
		return err
	}

	c.metrics.feeGwei, err = meter.Float64Gauge(
		"ledger_fee_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	c.metrics.cacheHits, err = meter.Int64Counter(
		"ledger_fee_cache_hits_total",
		metric.WithDescription("Fee quote cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	c.metrics.cacheMisses, err = meter.Int64Counter(
		"ledger_fee_cache_misses_total",
		metric.WithDescription("Fee quote cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// initCircuitBreaker initializes the circuit breaker for RPC reads.
func (c *Client) initCircuitBreaker() {
	cfg := circuitbreaker.DefaultConfig("ledger-rpc")
	cfg.OnStateChange = func(name string, from, to gobreaker.State) {
		c.logger.Info(context.Background(), "circuit breaker state change",
			"breaker", name, "from", from.String(), "to", to.String())
	}
	c.cb = circuitbreaker.New[*big.Int](cfg)
}

// Connect establishes the node connection and verifies the chain id.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "ledger.connect",
		trace.WithAttributes(attribute.String("url", c.config.RPCURL)),
	)
	defer span.End()

	client, err := ethclient.DialContext(ctx, c.config.RPCURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return apperror.New(apperror.CodeLedgerConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to connect ledger client"))
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain id query failed")
		return apperror.New(apperror.CodeLedgerConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to query chain id"))
	}

	if chainID.Uint64() != c.config.ChainID {
		client.Close()
		err := apperror.New(apperror.CodeConfigurationError,
			apperror.WithContext(fmt.Sprintf("chain id mismatch: node reports %d, configured %d",
				chainID.Uint64(), c.config.ChainID)))
		span.RecordError(err)
		return err
	}

	c.clientMu.Lock()
	c.client = client
	c.clientMu.Unlock()

	c.setStatus(domain.StateConnected, 0)

	span.SetStatus(codes.Ok, "connected")
	c.logger.Info(ctx, "ledger client connected",
		"url", c.config.RPCURL,
		"chain_id", c.config.ChainID,
		"funding_address", c.fundingAddr.Hex())

	return nil
}

// BalanceOf retrieves the spendable balance of an address.
func (c *Client) BalanceOf(ctx context.Context, addr common.Address) (asset.Amount, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.balance_of",
		trace.WithAttributes(attribute.String("address", addr.Hex())),
	)
	defer span.End()

	c.metrics.balanceQueries.Add(ctx, 1)

	client := c.currentClient()
	if client == nil {
		err := notConnectedError()
		span.RecordError(err)
		return asset.Amount{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return asset.Amount{}, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err))
	}

	wei, err := c.cb.Execute(func() (*big.Int, error) {
		return client.BalanceAt(ctx, addr, nil)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "query failed")
		return asset.Amount{}, classifyQueryError(err, fmt.Sprintf("balance query for %s", addr.Hex()))
	}

	c.touchStatus()

	balance := asset.NewAmount(c.coin, wei)

	span.SetAttributes(attribute.String("balance", balance.String()))
	span.SetStatus(codes.Ok, "fetched")

	return balance, nil
}

// FundingAddress returns the address derived from the funding key.
func (c *Client) FundingAddress() common.Address {
	return c.fundingAddr
}

// FeeQuote retrieves the current gas price with caching.
func (c *Client) FeeQuote(ctx context.Context) (*domain.FeeQuote, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.fee_quote")
	defer span.End()

	// Check cache first
	if quote, found := c.feeCache.Get(ctx, "current"); found {
		c.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return quote, nil
	}

	c.metrics.cacheMisses.Add(ctx, 1)

	client := c.currentClient()
	if client == nil {
		err := notConnectedError()
		span.RecordError(err)
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return nil, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err))
	}

	wei, err := c.cb.Execute(func() (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.New(apperror.CodeFeeEstimationFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	// Safety check
	if c.config.MaxFeeWei != nil && wei.Cmp(c.config.MaxFeeWei) > 0 {
		span.AddEvent("fee_exceeded_max",
			trace.WithAttributes(attribute.String("wei", wei.String())))
		c.logger.Warn(ctx, "gas price exceeds max", "wei", wei.String())
		wei = c.config.MaxFeeWei
	}

	quote := domain.NewFeeQuote(wei)

	c.feeCache.Set(ctx, "current", quote, c.config.FeeCacheTTL)
	c.metrics.feeGwei.Record(ctx, quote.Gwei)

	span.SetAttributes(attribute.Float64("gwei", quote.Gwei))
	span.SetStatus(codes.Ok, "fetched")

	return quote, nil
}

// Transfer submits a plain value transfer from the funding address.
// One submission attempt, no internal retries.
func (c *Client) Transfer(ctx context.Context, to common.Address, amount asset.Amount) (*domain.Commitment, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.transfer",
		trace.WithAttributes(
			attribute.String("to", to.Hex()),
			attribute.String("amount", amount.String()),
		),
	)
	defer span.End()

	c.metrics.transfers.Add(ctx, 1)

	client := c.currentClient()
	if client == nil {
		err := notConnectedError()
		span.RecordError(err)
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return nil, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err))
	}

	nonce, err := client.PendingNonceAt(ctx, c.fundingAddr)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "nonce fetch failed")
		return nil, apperror.New(apperror.CodeNonceFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("nonce for %s", c.fundingAddr.Hex())))
	}

	quote, err := c.FeeQuote(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	tx := types.NewTransaction(nonce, to, amount.Raw(), transferGasLimit, quote.Wei, nil)

	chainID := new(big.Int).SetUint64(c.config.ChainID)
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(chainID), c.fundingKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "signing failed")
		return nil, apperror.New(apperror.CodeSigningFailed,
			apperror.WithCause(err))
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submission rejected")
		return nil, classifySubmitError(err)
	}

	commitment := &domain.Commitment{
		TransferID:  signed.Hash(),
		From:        c.fundingAddr,
		To:          to,
		Amount:      amount,
		SubmittedAt: time.Now(),
	}

	span.SetAttributes(attribute.String("transfer_id", commitment.TransferID.Hex()))
	span.SetStatus(codes.Ok, "submitted")
	c.logger.Info(ctx, "transfer submitted",
		"transfer_id", commitment.TransferID.Hex(),
		"to", to.Hex(),
		"amount", amount.String())

	return commitment, nil
}

// AwaitConfirmation polls for the transfer receipt until it is recorded
// at the configured depth, reverts, or the wait times out. A timeout is
// reported as ConfirmationUnknown, never as a failure.
func (c *Client) AwaitConfirmation(ctx context.Context, commitment *domain.Commitment) (*domain.Confirmation, error) {
	ctx, span := c.tracer.Start(ctx, "ledger.await_confirmation",
		trace.WithAttributes(attribute.String("transfer_id", commitment.TransferID.Hex())),
	)
	defer span.End()

	client := c.currentClient()
	if client == nil {
		err := notConnectedError()
		span.RecordError(err)
		return nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.config.ConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	var receipt *types.Receipt

	for receipt == nil {
		select {
		case <-waitCtx.Done():
			return c.confirmationTimedOut(ctx, span, commitment)
		case <-ticker.C:
		}

		r, err := client.TransactionReceipt(waitCtx, commitment.TransferID)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				continue // not mined yet
			}
			c.logger.Warn(ctx, "receipt poll failed, retrying",
				"transfer_id", commitment.TransferID.Hex(), "error", err)
			continue
		}
		receipt = r
	}

	if receipt.Status == types.ReceiptStatusFailed {
		c.metrics.confirmations.Add(ctx, 1,
			metric.WithAttributes(attribute.String("status", string(domain.ConfirmationReverted))))
		span.SetStatus(codes.Error, "reverted")
		return &domain.Confirmation{
			TransferID:  commitment.TransferID,
			Status:      domain.ConfirmationReverted,
			BlockNumber: receipt.BlockNumber.Uint64(),
			ConfirmedAt: time.Now(),
		}, nil
	}

	// Wait until the receipt block is buried at the configured depth.
	minedAt := receipt.BlockNumber.Uint64()
	for {
		head, err := client.BlockNumber(waitCtx)
		if err == nil && head+1 >= minedAt+c.config.ConfirmDepth {
			break
		}

		select {
		case <-waitCtx.Done():
			return c.confirmationTimedOut(ctx, span, commitment)
		case <-ticker.C:
		}
	}

	feePaid := asset.NewAmount(c.coin,
		new(big.Int).Mul(receipt.EffectiveGasPrice, new(big.Int).SetUint64(receipt.GasUsed)))

	confirmation := &domain.Confirmation{
		TransferID:  commitment.TransferID,
		Status:      domain.ConfirmationConfirmed,
		BlockNumber: minedAt,
		Depth:       c.config.ConfirmDepth,
		FeePaid:     feePaid,
		ConfirmedAt: time.Now(),
	}

	c.metrics.confirmations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", string(domain.ConfirmationConfirmed))))
	c.touchStatusBlock(minedAt)

	span.SetAttributes(attribute.Int64("block", int64(minedAt)))
	span.SetStatus(codes.Ok, "confirmed")
	c.logger.Info(ctx, "transfer confirmed",
		"transfer_id", commitment.TransferID.Hex(),
		"block", minedAt,
		"fee_paid", feePaid.String())

	return confirmation, nil
}

func (c *Client) confirmationTimedOut(ctx context.Context, span trace.Span, commitment *domain.Commitment) (*domain.Confirmation, error) {
	c.metrics.confirmations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("status", string(domain.ConfirmationUnknown))))

	span.AddEvent("confirmation_timeout")
	span.SetStatus(codes.Error, "timed out")
	c.logger.Warn(ctx, "confirmation wait timed out",
		"transfer_id", commitment.TransferID.Hex(),
		"timeout", c.config.ConfirmTimeout.String())

	return &domain.Confirmation{
		TransferID:  commitment.TransferID,
		Status:      domain.ConfirmationUnknown,
		ConfirmedAt: time.Now(),
	}, nil
}

// Status returns the current connection status.
func (c *Client) Status() domain.ConnectionStatus {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

func (c *Client) setStatus(state domain.ConnectionState, lastBlock uint64) {
	c.statusMu.Lock()
	defer c.statusMu.Unlock()
	c.status.State = state
	if lastBlock > 0 {
		c.status.LastBlock = lastBlock
	}
	c.status.LastUpdate = time.Now()
}

func (c *Client) touchStatus() {
	c.statusMu.Lock()
	c.status.LastUpdate = time.Now()
	c.statusMu.Unlock()
}

func (c *Client) touchStatusBlock(block uint64) {
	c.setStatus(domain.StateConnected, block)
}

func (c *Client) currentClient() *ethclient.Client {
	c.clientMu.RLock()
	defer c.clientMu.RUnlock()
	return c.client
}

// Close closes the ledger client.
func (c *Client) Close() error {
	c.clientMu.Lock()
	defer c.clientMu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}

	c.feeCache.Close()
	c.setStatusLocked(domain.StateDisconnected)

	return nil
}

func (c *Client) setStatusLocked(state domain.ConnectionState) {
	c.statusMu.Lock()
	c.status.State = state
	c.status.LastUpdate = time.Now()
	c.statusMu.Unlock()
}

func notConnectedError() error {
	return apperror.New(apperror.CodeLedgerConnectionFailed,
		apperror.WithContext("ledger client not connected"))
}
