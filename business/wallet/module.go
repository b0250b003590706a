// Package wallet implements the wallet bounded context for balance maintenance.
package wallet

import (
	"context"

	"github.com/benbjohnson/clock"
	"github.com/ethereum/go-ethereum/common"

	ledgerDI "github.com/roshanbvadassery/send-openputer-kit/business/ledger/di"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/app"
	walletDI "github.com/roshanbvadassery/send-openputer-kit/business/wallet/di"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/domain"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/infra"
	"github.com/roshanbvadassery/send-openputer-kit/internal/asset"
	"github.com/roshanbvadassery/send-openputer-kit/internal/config"
	"github.com/roshanbvadassery/send-openputer-kit/internal/di"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
	"github.com/roshanbvadassery/send-openputer-kit/internal/monolith"
)

// Module implements the wallet bounded context.
type Module struct{}

// RegisterServices registers all wallet services with the DI container.
func (m *Module) RegisterServices(c di.Container) error {
	di.RegisterToken(c, walletDI.Inspector, func(sr di.ServiceRegistry) *app.Inspector {
		cfg := sr.Get("config").(*config.Config)
		ledger := ledgerDI.GetLedgerService(sr)
		return app.NewInspector(ledger, common.HexToAddress(cfg.Keeper.WatchAddress))
	})

	di.RegisterToken(c, walletDI.Executor, func(sr di.ServiceRegistry) *app.Executor {
		log := sr.Get("logger").(logger.LoggerInterface)
		ledger := ledgerDI.GetLedgerService(sr)
		return app.NewExecutor(ledger, log)
	})

	di.RegisterToken(c, walletDI.StatusWriter, func(sr di.ServiceRegistry) *app.StatusWriter {
		return app.NewStatusWriter()
	})

	di.RegisterToken(c, walletDI.Keeper, func(sr di.ServiceRegistry) *app.Keeper {
		cfg := sr.Get("config").(*config.Config)
		log := sr.Get("logger").(logger.LoggerInterface)
		clk := sr.Get("clock").(clock.Clock)

		policy, err := buildPolicy(cfg)
		if err != nil {
			panic("invalid top-up policy: " + err.Error())
		}

		return app.NewKeeper(
			walletDI.GetInspector(sr),
			walletDI.GetExecutor(sr),
			walletDI.GetStatusWriter(sr),
			policy,
			app.KeeperConfig{
				Cadence:          cfg.Keeper.Cadence,
				RecoveryInterval: cfg.Keeper.RecoveryInterval,
				HistorySize:      cfg.Keeper.HistorySize,
			},
			clk,
			log,
		)
	})

	return nil
}

// Startup wires reporters and notifiers into the keeper.
func (m *Module) Startup(ctx context.Context, mono monolith.Monolith) error {
	cfg := mono.Config()
	log := mono.Logger()

	keeper := walletDI.GetKeeper(mono.Services())

	var reporter app.Reporter
	if cfg.Keeper.TUIMode {
		reporter = infra.NewTUIReporter(log, cfg.Keeper.MinBalance, cfg.Keeper.TopUpAmount)
	} else {
		reporter = infra.NewConsoleReporter()
	}
	if err := reporter.Start(ctx); err != nil {
		return err
	}
	keeper.AddReporter(reporter)

	if cfg.Webhook.URL != "" {
		notifier, err := infra.NewWebhookNotifier(cfg.Webhook.URL, cfg.Webhook.Timeout, log)
		if err != nil {
			return err
		}
		keeper.AddNotifier(notifier)
		log.Info(ctx, "webhook notifier enabled", "url", cfg.Webhook.URL)
	}

	log.Info(ctx, "wallet module started",
		"watch_address", cfg.Keeper.WatchAddress,
		"cadence", cfg.Keeper.Cadence.String())
	return nil
}

// buildPolicy constructs the top-up policy from configuration, denominated
// in the chain's native coin.
func buildPolicy(cfg *config.Config) (domain.TopUpPolicy, error) {
	coin := asset.Native(cfg.Ledger.ChainID)

	minBalance, err := asset.ParseString(coin, cfg.Keeper.MinBalance)
	if err != nil {
		return domain.TopUpPolicy{}, err
	}
	topUp, err := asset.ParseString(coin, cfg.Keeper.TopUpAmount)
	if err != nil {
		return domain.TopUpPolicy{}, err
	}
	feeReserve, err := asset.ParseString(coin, cfg.Keeper.FeeReserve)
	if err != nil {
		return domain.TopUpPolicy{}, err
	}

	return domain.NewTopUpPolicy(minBalance, topUp, feeReserve)
}
