package infra

import (
	"bytes"
	"strings"
	"testing"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/app"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
)

func TestConsoleReporter_HealthyIsOneLine(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporter()
	reporter.out = &buf

	outcome := domain.Healthy(account, mustAmount(t, "0.5"))
	status := app.NewStatusWriter().Describe(outcome)

	reporter.Report(status, outcome)

	got := strings.TrimRight(buf.String(), "\n")
	if strings.Count(got, "\n") != 0 {
		t.Errorf("healthy report spans multiple lines:\n%s", got)
	}
	if !strings.Contains(got, "wallet healthy") {
		t.Errorf("output %q missing summary", got)
	}
}

func TestConsoleReporter_ActionableSection(t *testing.T) {
	var buf bytes.Buffer
	reporter := NewConsoleReporter()
	reporter.out = &buf

	outcome := underfundedOutcome(t)
	status := app.NewStatusWriter().Describe(outcome)

	reporter.Report(status, outcome)
	got := buf.String()

	for _, want := range []string{
		"ATTENTION REQUIRED",
		funding.Hex(),
		"Shortfall",
		"0.100005",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
