// Package di contains dependency injection tokens for the wallet context.
package di

import (
	"github.com/roshanbvadassery/send-openputer-kit/business/wallet/app"
	"github.com/roshanbvadassery/send-openputer-kit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	Keeper = di.NewToken[*app.Keeper]("wallet.Keeper")
)

// Private dependency tokens - internal to wallet module
var (
	Inspector    = di.NewToken[*app.Inspector]("wallet:inspector")
	Executor     = di.NewToken[*app.Executor]("wallet:executor")
	StatusWriter = di.NewToken[*app.StatusWriter]("wallet:statusWriter")
)

// Helper functions for type-safe access
func GetKeeper(c di.ServiceRegistry) *app.Keeper {
	return di.GetToken(c, Keeper)
}

func GetInspector(c di.ServiceRegistry) *app.Inspector {
	return di.GetToken(c, Inspector)
}

func GetExecutor(c di.ServiceRegistry) *app.Executor {
	return di.GetToken(c, Executor)
}

func GetStatusWriter(c di.ServiceRegistry) *app.StatusWriter {
	return di.GetToken(c, StatusWriter)
}
