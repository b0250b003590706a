// Package ledger implements the ledger bounded context for chain node integration.
package ledger

import (
	"context"

	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/app"
	ledgerDI "github.com/roshanbvadassery/send-openputer-kit/business/ledger/di"
	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/infra/ethereum"
	"github.com/roshanbvadassery/send-openputer-kit/internal/config"
	"github.com/roshanbvadassery/send-openputer-kit/internal/di"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
	"github.com/roshanbvadassery/send-openputer-kit/internal/monolith"
)

// Module implements the ledger bounded context.
type Module struct{}

// RegisterServices registers all ledger services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	// Register the node client (private - internal dependency)
	di.RegisterToken(c, ledgerDI.LedgerClient, func(sr di.ServiceRegistry) app.Ledger {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)

		clientCfg := ethereum.DefaultClientConfig(cfg.Ledger.HTTPURL, cfg.Keeper.FundingKey)
		clientCfg.ChainID = cfg.Ledger.ChainID
		clientCfg.ConfirmDepth = cfg.Ledger.ConfirmDepth
		clientCfg.ConfirmTimeout = cfg.Ledger.ConfirmTimeout
		clientCfg.PollInterval = cfg.Ledger.PollInterval
		clientCfg.FeeCacheTTL = cfg.Ledger.FeeCacheTTL
		clientCfg.RPCPerMinute = cfg.Ledger.RPCPerMinute

		client, err := ethereum.NewClient(clientCfg, log)
		if err != nil {
			panic("failed to create ledger client: " + err.Error())
		}
		return client
	})

	// Register LedgerService (public - exposed to other modules)
	di.RegisterToken(c, ledgerDI.LedgerService, func(sr di.ServiceRegistry) *app.LedgerService {
		client := ledgerDI.GetLedgerClient(sr)
		return app.NewLedgerService(client)
	})

	return nil
}

// Startup initializes the ledger module.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	log := mono.Logger()

	client := ledgerDI.GetLedgerClient(mono.Services())

	if connector, ok := client.(interface{ Connect(context.Context) error }); ok {
		if err := connector.Connect(ctx); err != nil {
			log.Error(ctx, "failed to connect ledger client", "error", err)
			return err
		}
	}

	log.Info(ctx, "ledger module started")
	return nil
}
