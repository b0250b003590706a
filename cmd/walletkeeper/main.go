// Package main is the entry point for the wallet keeper.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"

	"github.com/roshanbvadassery/send-openputer-kit/business/ledger"
	ledgerDI "github.com/roshanbvadassery/send-openputer-kit/business/ledger/di"
	ledgerDomain "github.com/roshanbvadassery/send-openputer-kit/business/ledger/domain"
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet"
	walletApp "github.com/roshanbvadassery/send-openputer-kit/business/wallet/app"
	walletDI "github.com/roshanbvadassery/send-openputer-kit/business/wallet/di"
	"github.com/roshanbvadassery/send-openputer-kit/internal/apm"
	"github.com/roshanbvadassery/send-openputer-kit/internal/config"
	"github.com/roshanbvadassery/send-openputer-kit/internal/health"
	"github.com/roshanbvadassery/send-openputer-kit/internal/logger"
	"github.com/roshanbvadassery/send-openputer-kit/internal/metrics"
	"github.com/roshanbvadassery/send-openputer-kit/internal/monolith"
	"github.com/roshanbvadassery/send-openputer-kit/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	checkAddr := flag.String("check", "", "Run a single check for the given address (or \"check\" for the configured one) and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("walletkeeper %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging; one-shot checks are always CLI
	tuiMode := !*cliMode && *checkAddr == ""

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	// Run application
	if err := run(ctx, *configPath, tuiMode, *checkAddr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, checkAddr string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules know
	cfg.Keeper.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting wallet keeper",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		// Set service name env var for OTEL
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		// Initialize tracing with Zipkin (local dev friendly)
		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		// Initialize metrics with Prometheus
		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		// Start Prometheus metrics server in background
		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Create monolith (application container)
	mono, err := monolith.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&ledger.Module{}, // Must be first - provides the node client
		&wallet.Module{}, // Depends on ledger
	}

	// Register all module services
	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	// One-shot check mode: start, run one cycle, print, exit
	if checkAddr != "" {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		keeper := walletDI.GetKeeper(mono.Services())
		return runCheck(ctx, keeper, checkAddr)
	}

	// Start health check server
	healthPort := cfg.Telemetry.HealthPort
	if healthPort == 0 {
		healthPort = 8081
	}
	healthServer := health.NewServer(healthPort, version)
	registerHealthChecks(healthServer, mono, cfg.Keeper.Cadence)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", healthPort)
	}
	defer healthServer.Stop(ctx)

	if tuiMode {
		// TUI mode: Start modules in background so TUI shows immediately
		keeperCtx, keeperCancel := context.WithCancel(ctx)
		startFunc := func() error {
			if err := mono.StartModules(keeperCtx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			reportConnection(mono)
			keeper := walletDI.GetKeeper(mono.Services())
			go keeper.Run(keeperCtx)
			return nil
		}
		return runTUI(ctx, startFunc, keeperCancel)
	}

	// CLI mode: Start modules synchronously
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	keeper := walletDI.GetKeeper(mono.Services())
	return runCLI(ctx, keeper, log)
}

// registerHealthChecks wires ledger connectivity and keeper liveness into
// the health server.
func registerHealthChecks(srv *health.Server, mono monolith.Monolith, cadence time.Duration) {
	srv.RegisterCheck("ledger", func(ctx context.Context) (bool, string) {
		status := ledgerDI.GetLedgerService(mono.Services()).Status()
		if status.State != ledgerDomain.StateConnected {
			return false, "ledger " + string(status.State)
		}
		return true, fmt.Sprintf("connected to chain %d", status.ChainID)
	})

	// A keeper that hasn't completed a cycle in two cadences is stuck
	srv.RegisterCheck("keeper", health.StalenessCheck(2*cadence, func() time.Time {
		return walletDI.GetKeeper(mono.Services()).LastCycleAt()
	}))
}

// reportConnection pushes the ledger connection state to the dashboard.
func reportConnection(mono monolith.Monolith) {
	status := ledgerDI.GetLedgerService(mono.Services()).Status()
	ui.Send(ui.ConnectionStatusMsg{
		Name:      "Ledger",
		Connected: status.State == ledgerDomain.StateConnected,
		ChainID:   status.ChainID,
		LastBlock: status.LastBlock,
	})
}

func runCheck(ctx context.Context, keeper *walletApp.Keeper, identifier string) error {
	status, outcome := keeper.CheckOnce(ctx, identifier)

	fmt.Printf("%s: %s\n", status.Summary, status.Detail)
	if outcome != nil && outcome.TransferID != (common.Hash{}) {
		fmt.Printf("transfer: %s\n", outcome.TransferID.Hex())
	}

	return nil
}

func runCLI(ctx context.Context, keeper *walletApp.Keeper, log *logger.Logger) error {
	log.Info(ctx, "all modules started, beginning balance maintenance")

	// Run blocks until the context is cancelled
	if err := keeper.Run(ctx); err != nil {
		return fmt.Errorf("keeper stopped: %w", err)
	}

	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, startFunc func() error, stopFunc func()) error {
	// Channel to receive StartModulesMsg signal
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run keeper logic in background (non-blocking)
	errCh := make(chan error, 1)
	go func() {
		// Wait for welcome screen to complete (StartModulesMsg signal)
		select {
		case <-startSignal:
			// Welcome complete, start modules
		case <-ctx.Done():
			errCh <- nil
			return
		}

		// Start modules and keeper (connections happen here, TUI shows progress)
		if err := startFunc(); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		// Wait for context cancellation
		<-ctx.Done()

		stopFunc()
		errCh <- nil
	}()

	// Run TUI (blocking) - shows immediately with welcome screen
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	// Check for keeper errors
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
