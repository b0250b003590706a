package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
	"github.com/roshanbvadassery/send-openputer-kit/internal/httpclient"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
)

// webhookPayload is the JSON document sent for actionable cycle outcomes.
type webhookPayload struct {
	Kind           string    `json:"kind"`
	Summary        string    `json:"summary"`
	Detail         string    `json:"detail"`
	Account        string    `json:"account,omitempty"`
	FundingAddress string    `json:"fundingAddress,omitempty"`
	FundingBalance string    `json:"fundingBalance,omitempty"`
	Shortfall      string    `json:"shortfall,omitempty"`
	TransferID     string    `json:"transferId,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// WebhookNotifier implements Notifier by POSTing actionable outcomes to a
// configured HTTP endpoint.
type WebhookNotifier struct {
	client httpclient.Client
	url    string
	logger logger.LoggerInterface
}

// NewWebhookNotifier creates a new WebhookNotifier.
func NewWebhookNotifier(url string, timeout time.Duration, log logger.LoggerInterface) (*WebhookNotifier, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("webhook"),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, apperror.New(apperror.CodeConfigurationError,
			apperror.WithCause(err),
			apperror.WithContext("creating webhook HTTP client"),
		)
	}

	return &WebhookNotifier{
		client: client,
		url:    url,
		logger: log,
	}, nil
}

// Notify delivers one actionable status to the webhook endpoint.
func (n *WebhookNotifier) Notify(ctx context.Context, status domain.Status, outcome *domain.CycleOutcome) error {
	payload := webhookPayload{
		Kind:      string(outcome.Kind),
		Summary:   status.Summary,
		Detail:    status.Detail,
		Timestamp: status.Timestamp,
	}
	if outcome.Account != (common.Address{}) {
		payload.Account = outcome.Account.Hex()
	}
	if outcome.Kind == domain.KindInsufficientFunds {
		payload.FundingAddress = outcome.FundingAddress.Hex()
		payload.FundingBalance = outcome.FundingBalance.String()
		payload.Shortfall = outcome.Shortfall.String()
	}
	if outcome.TransferID != (common.Hash{}) {
		payload.TransferID = outcome.TransferID.Hex()
	}

	req := n.client.NewRequestWithOptions(
		httpclient.WithResponseErrorHandler(func(statusCode int, body []byte) error {
			if statusCode >= 400 {
				return fmt.Errorf("webhook returned status %d", statusCode)
			}
			return nil
		}),
	)

	resp, err := req.SetBody(payload).Post(ctx, n.url)
	if err != nil {
		return apperror.New(apperror.CodeWebhookDeliveryFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("posting %s notification", outcome.Kind)),
		)
	}

	n.logger.Debug(ctx, "webhook notification delivered",
		"kind", outcome.Kind,
		"status", resp.StatusCode,
	)

	return nil
}
