package infra

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/app"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
)

var (
	account = common.HexToAddress("0x1111111111111111111111111111111111111111")
	funding = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

func testLogger() *logger.Logger {
	return logger.New(io.Discard, logger.LevelInfo, "test", nil)
}

func mustAmount(t *testing.T, s string) asset.Amount {
	t.Helper()
	a, err := asset.ParseString(asset.Native(1), s)
	if err != nil {
		t.Fatalf("parsing %q: %v", s, err)
	}
	return a
}

func underfundedOutcome(t *testing.T) *domain.CycleOutcome {
	t.Helper()
	return domain.InsufficientFunds(
		account,
		mustAmount(t, "0.05"),
		funding,
		mustAmount(t, "0.1"),
		mustAmount(t, "0.100005"),
	)
}

func TestWebhookNotifier_DeliversPayload(t *testing.T) {
	var (
		gotBody        []byte
		gotContentType string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	notifier, err := NewWebhookNotifier(srv.URL, 2*time.Second, testLogger())
	if err != nil {
		t.Fatalf("creating notifier: %v", err)
	}

	outcome := underfundedOutcome(t)
	status := app.NewStatusWriter().Describe(outcome)

	if err := notifier.Notify(context.Background(), status, outcome); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("content type = %q, want application/json", gotContentType)
	}

	var payload struct {
		Kind           string `json:"kind"`
		Detail         string `json:"detail"`
		FundingAddress string `json:"fundingAddress"`
		Shortfall      string `json:"shortfall"`
	}
	if err := json.Unmarshal(gotBody, &payload); err != nil {
		t.Fatalf("unmarshaling payload: %v", err)
	}
	if payload.Kind != string(domain.KindInsufficientFunds) {
		t.Errorf("kind = %q, want %q", payload.Kind, domain.KindInsufficientFunds)
	}
	if payload.FundingAddress != funding.Hex() {
		t.Errorf("funding address = %q, want %q", payload.FundingAddress, funding.Hex())
	}
	if payload.Shortfall == "" {
		t.Error("shortfall missing from payload")
	}
}

func TestWebhookNotifier_ServerErrorClassified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier, err := NewWebhookNotifier(srv.URL, 2*time.Second, testLogger())
	if err != nil {
		t.Fatalf("creating notifier: %v", err)
	}

	outcome := underfundedOutcome(t)
	status := app.NewStatusWriter().Describe(outcome)

	err = notifier.Notify(context.Background(), status, outcome)
	if err == nil {
		t.Fatal("expected delivery error, got nil")
	}
	if apperror.GetCode(err) != apperror.CodeWebhookDeliveryFailed {
		t.Errorf("error code = %s, want %s", apperror.GetCode(err), apperror.CodeWebhookDeliveryFailed)
	}
}

func TestWebhookNotifier_UnreachableEndpoint(t *testing.T) {
	notifier, err := NewWebhookNotifier("http://127.0.0.1:1", 500*time.Millisecond, testLogger())
	if err != nil {
		t.Fatalf("creating notifier: %v", err)
	}

	outcome := underfundedOutcome(t)
	status := app.NewStatusWriter().Describe(outcome)

	if err := notifier.Notify(context.Background(), status, outcome); err == nil {
		t.Fatal("expected error for unreachable endpoint, got nil")
	}
}
