package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
)

// recordingReporter captures Report and UpdateBalances calls.
type recordingReporter struct {
	mu       sync.Mutex
	reports  []domain.Status
	balances int
}

func (r *recordingReporter) Start(ctx context.Context) error { return nil }
func (r *recordingReporter) Stop() error                     { return nil }

func (r *recordingReporter) Report(status domain.Status, outcome *domain.CycleOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, status)
}

func (r *recordingReporter) UpdateBalances(target, funding asset.Amount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances++
}

func (r *recordingReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports)
}

// recordingNotifier captures Notify calls.
type recordingNotifier struct {
	mu    sync.Mutex
	kinds []domain.OutcomeKind
}

func (n *recordingNotifier) Notify(ctx context.Context, status domain.Status, outcome *domain.CycleOutcome) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.kinds = append(n.kinds, outcome.Kind)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.kinds)
}

func newTestKeeper(t *testing.T, ledger *fakeLedger, clk clock.Clock) *Keeper {
	t.Helper()
	coin := asset.Native(1)
	policy := testPolicy(t, coin, "0.1", "0.2", "0.000005")

	return NewKeeper(
		NewInspector(ledger, testAccount),
		NewExecutor(ledger, testLogger()),
		NewStatusWriter(),
		policy,
		KeeperConfig{
			Cadence:          time.Hour,
			RecoveryInterval: 5 * time.Minute,
			HistorySize:      10,
		},
		clk,
		testLogger(),
	)
}

// waitFor polls until cond holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestKeeper_RunCyclesOnCadence(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{accountBalance: amt(t, coin, "0.5")}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- keeper.Run(ctx) }()

	waitFor(t, func() bool { return len(keeper.History()) == 1 })
	// Give the loop time to arm its timer on the mock clock
	time.Sleep(20 * time.Millisecond)

	// No second cycle until a full cadence elapses
	clk.Add(30 * time.Minute)
	time.Sleep(20 * time.Millisecond)
	if got := len(keeper.History()); got != 1 {
		t.Fatalf("history length = %d before cadence elapsed, want 1", got)
	}

	clk.Add(30 * time.Minute)
	waitFor(t, func() bool { return len(keeper.History()) == 2 })

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestKeeper_TransientFailureShortensWait(t *testing.T) {
	ledger := &fakeLedger{accountErr: errors.New("connection reset")}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go keeper.Run(ctx)

	waitFor(t, func() bool { return len(keeper.History()) == 1 })

	history := keeper.History()
	if history[0].Outcome.Kind != domain.KindTransientError {
		t.Fatalf("kind = %s, want %s", history[0].Outcome.Kind, domain.KindTransientError)
	}

	// The loop survives the failure and retries at the recovery
	// interval, not the full cadence.
	time.Sleep(20 * time.Millisecond)
	clk.Add(5 * time.Minute)
	waitFor(t, func() bool { return len(keeper.History()) == 2 })
}

func TestKeeper_ReporterAndNotifierFanout(t *testing.T) {
	coin := asset.Native(1)
	// Healthy account: reporters see it, notifiers stay quiet
	ledger := &fakeLedger{accountBalance: amt(t, coin, "0.5")}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)

	reporter := &recordingReporter{}
	notifier := &recordingNotifier{}
	keeper.AddReporter(reporter)
	keeper.AddNotifier(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go keeper.Run(ctx)

	waitFor(t, func() bool { return reporter.count() == 1 })

	if notifier.count() != 0 {
		t.Errorf("notifier calls = %d for healthy cycle, want 0", notifier.count())
	}
}

func TestKeeper_NotifierReceivesActionable(t *testing.T) {
	coin := asset.Native(1)
	// Below threshold with an underfunded source: actionable
	ledger := &fakeLedger{
		accountBalance: amt(t, coin, "0.05"),
		fundingBalance: amt(t, coin, "0.01"),
	}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)

	notifier := &recordingNotifier{}
	keeper.AddNotifier(notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go keeper.Run(ctx)

	waitFor(t, func() bool { return notifier.count() == 1 })

	notifier.mu.Lock()
	kind := notifier.kinds[0]
	notifier.mu.Unlock()
	if kind != domain.KindInsufficientFunds {
		t.Errorf("notified kind = %s, want %s", kind, domain.KindInsufficientFunds)
	}
}

func TestKeeper_HistoryBounded(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{accountBalance: amt(t, coin, "0.5")}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)
	keeper.config.HistorySize = 3

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go keeper.Run(ctx)

	for i := 1; i <= 5; i++ {
		want := i
		waitFor(t, func() bool {
			n := len(keeper.History())
			return n == want || n == keeper.config.HistorySize
		})
		time.Sleep(20 * time.Millisecond)
		clk.Add(time.Hour)
	}

	waitFor(t, func() bool { return len(keeper.History()) == 3 })
	if keeper.LastCycleAt().IsZero() {
		t.Error("LastCycleAt is zero after cycles ran")
	}
}

func TestKeeper_LastCycleStampedByInjectedClock(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{accountBalance: amt(t, coin, "0.5")}
	clk := clock.NewMock()
	keeper := newTestKeeper(t, ledger, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go keeper.Run(ctx)

	waitFor(t, func() bool { return len(keeper.History()) == 1 })

	// The staleness health check is built on this timestamp, so it has
	// to come from the same clock that drives the loop.
	if got := keeper.LastCycleAt(); !got.Equal(clk.Now()) {
		t.Errorf("LastCycleAt = %v, want mock clock time %v", got, clk.Now())
	}
}

func TestKeeper_CheckOnceInvalidInput(t *testing.T) {
	ledger := &fakeLedger{}
	keeper := newTestKeeper(t, ledger, clock.NewMock())

	status, outcome := keeper.CheckOnce(context.Background(), "garbage")

	if outcome.Kind != domain.KindInvalidInput {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindInvalidInput)
	}
	if ledger.balanceCalls != 0 {
		t.Errorf("balance calls = %d for invalid input, want 0", ledger.balanceCalls)
	}
	if status.Actionable() {
		t.Error("invalid input should not be actionable")
	}
}

func TestKeeper_CheckOnceExplicitAddress(t *testing.T) {
	coin := asset.Native(1)
	ledger := &fakeLedger{accountBalance: amt(t, coin, "0.5")}
	keeper := newTestKeeper(t, ledger, clock.NewMock())

	status, outcome := keeper.CheckOnce(context.Background(), testAccount.Hex())

	if outcome.Kind != domain.KindHealthy {
		t.Fatalf("kind = %s, want %s", outcome.Kind, domain.KindHealthy)
	}
	if status.Summary != "wallet healthy" {
		t.Errorf("summary = %q", status.Summary)
	}
	// Ad-hoc checks must not touch the loop history
	if len(keeper.History()) != 0 {
		t.Errorf("history length = %d after CheckOnce, want 0", len(keeper.History()))
	}
}
