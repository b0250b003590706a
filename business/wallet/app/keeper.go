package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
)

// KeeperConfig holds the loop timing and history settings.
type KeeperConfig struct {
	// Cadence between cycles that completed normally, whatever their
	// outcome kind.
	Cadence time.Duration

	// RecoveryInterval is the shorter wait applied after an unexpected
	// cycle failure.
	RecoveryInterval time.Duration

	// HistorySize bounds the retained cycle history.
	HistorySize int
}

// HistoryEntry pairs one cycle's status with its outcome.
type HistoryEntry struct {
	Status  domain.Status
	Outcome *domain.CycleOutcome
}

// Keeper drives the maintenance loop: inspect, top up when needed,
// report, wait, repeat. It never terminates on a cycle failure; only
// cancellation of the run context stops it, and only between cycles.
type Keeper struct {
	inspector *Inspector
	executor  *Executor
	writer    *StatusWriter
	policy    domain.TopUpPolicy

	reporters []Reporter
	notifiers []Notifier

	clock  clock.Clock
	config KeeperConfig
	logger logger.LoggerInterface

	mu        sync.RWMutex
	history   []HistoryEntry
	lastCycle time.Time
}

// NewKeeper creates a Keeper. The clock is injected so the loop is
// testable without wall-clock waits.
func NewKeeper(
	inspector *Inspector,
	executor *Executor,
	writer *StatusWriter,
	policy domain.TopUpPolicy,
	cfg KeeperConfig,
	clk clock.Clock,
	log logger.LoggerInterface,
) *Keeper {
	return &Keeper{
		inspector: inspector,
		executor:  executor,
		writer:    writer,
		policy:    policy,
		clock:     clk,
		config:    cfg,
		logger:    log,
	}
}

// AddReporter registers a reporter. Not safe after Run has started.
func (k *Keeper) AddReporter(r Reporter) {
	k.reporters = append(k.reporters, r)
}

// AddNotifier registers a notifier for actionable statuses. Not safe
// after Run has started.
func (k *Keeper) AddNotifier(n Notifier) {
	k.notifiers = append(k.notifiers, n)
}

// Run executes cycles until ctx is cancelled. Cancellation takes
// effect at the cadence boundary; a cycle in flight always finishes,
// so a submitted transfer is never abandoned mid-confirmation.
func (k *Keeper) Run(ctx context.Context) error {
	k.logger.Info(ctx, "keeper started",
		"account", k.inspector.DefaultAccount().Hex(),
		"cadence", k.config.Cadence.String(),
		"recovery_interval", k.config.RecoveryInterval.String())

	for {
		select {
		case <-ctx.Done():
			k.logger.Info(ctx, "keeper cancelled")
			return ctx.Err()
		default:
		}

		outcome := k.runCycle(ctx)
		k.emit(ctx, outcome)

		wait := k.config.Cadence
		if outcome.Kind == domain.KindTransientError {
			wait = k.config.RecoveryInterval
		}

		timer := k.clock.Timer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			k.logger.Info(ctx, "keeper cancelled")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// CheckOnce runs a single cycle for the given identifier and returns
// its status. This is the entry point shared by the ad-hoc check mode
// and any interactive surface; it uses the same protocol as the loop.
func (k *Keeper) CheckOnce(ctx context.Context, identifier string) (domain.Status, *domain.CycleOutcome) {
	outcome := k.cycle(ctx, identifier)
	status := k.writer.Describe(outcome)
	return status, outcome
}

// runCycle executes one cycle for the default account, converting any
// escaping panic into a transient outcome so the loop survives it.
func (k *Keeper) runCycle(ctx context.Context) (outcome *domain.CycleOutcome) {
	defer func() {
		if r := recover(); r != nil {
			k.logger.Error(ctx, "cycle panicked", "panic", fmt.Sprint(r))
			outcome = domain.TransientError(fmt.Errorf("cycle panic: %v", r))
		}
	}()

	return k.cycle(ctx, "")
}

func (k *Keeper) cycle(ctx context.Context, identifier string) *domain.CycleOutcome {
	balance, account, err := k.inspector.Inspect(ctx, identifier)
	if err != nil {
		if apperror.GetCode(err) == apperror.CodeInvalidAddress {
			return domain.InvalidInput(identifier, err)
		}
		return domain.TransientError(err)
	}

	return k.executor.MaybeTopUp(ctx, account, balance, k.policy)
}

// emit records the cycle and fans it out to reporters and notifiers.
func (k *Keeper) emit(ctx context.Context, outcome *domain.CycleOutcome) {
	status := k.writer.Describe(outcome)

	k.mu.Lock()
	k.history = append(k.history, HistoryEntry{Status: status, Outcome: outcome})
	if k.config.HistorySize > 0 && len(k.history) > k.config.HistorySize {
		k.history = k.history[len(k.history)-k.config.HistorySize:]
	}
	k.lastCycle = k.clock.Now()
	k.mu.Unlock()

	k.logger.Info(ctx, "cycle completed",
		"kind", string(outcome.Kind),
		"summary", status.Summary)

	for _, r := range k.reporters {
		r.Report(status, outcome)
		if outcome.Kind == domain.KindHealthy || outcome.Kind == domain.KindToppedUp {
			target := outcome.OldBalance
			if outcome.Kind == domain.KindToppedUp {
				target = outcome.NewBalance
			}
			r.UpdateBalances(target, outcome.FundingBalance)
		}
	}

	if status.Actionable() {
		for _, n := range k.notifiers {
			if err := n.Notify(ctx, status, outcome); err != nil {
				k.logger.Warn(ctx, "notifier delivery failed", "error", err)
			}
		}
	}
}

// History returns a copy of the retained cycle history, newest last.
func (k *Keeper) History() []HistoryEntry {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]HistoryEntry, len(k.history))
	copy(out, k.history)
	return out
}

// LastCycleAt returns when the most recent cycle completed, zero if
// none has.
func (k *Keeper) LastCycleAt() time.Time {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.lastCycle
}
