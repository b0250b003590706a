// Package di contains dependency injection tokens for the ledger context.
package di

import (
	"github.com/roshanbvadassery/send-openputer-kit/business/ledger/app"
	"github.com/roshanbvadassery/send-openputer-kit/internal/di"
)

// Public service tokens - exposed to other modules
var (
	LedgerService = di.NewToken[*app.LedgerService]("ledger.LedgerService")
)

// Private dependency tokens - internal to ledger module
var (
	LedgerClient = di.NewToken[app.Ledger]("ledger:client")
)

// Helper functions for type-safe access
func GetLedgerService(c di.ServiceRegistry) *app.LedgerService {
	return di.GetToken(c, LedgerService)
}

func GetLedgerClient(c di.ServiceRegistry) app.Ledger {
	return di.GetToken(c, LedgerClient)
}
