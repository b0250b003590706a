package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Ledger connection / RPC errors
	CodeLedgerConnectionFailed: "Failed to connect to ledger node",
	CodeLedgerRPCError:         "Ledger RPC call failed",
	CodeBalanceQueryFailed:     "Failed to query account balance",
	CodeFeeEstimationFailed:    "Fee estimation failed",

	// Account / input errors
	CodeInvalidAddress: "Invalid account address",
	CodeInvalidAmount:  "Invalid amount",

	// Top-up transfer errors
	CodeInsufficientFunds:   "Funding account has insufficient funds",
	CodeTransferRejected:    "Ledger rejected the transfer submission",
	CodeNonceFetchFailed:    "Failed to fetch account nonce",
	CodeSigningFailed:       "Failed to sign the transfer",
	CodeConfirmationTimeout: "Transfer was not confirmed within the timeout",
	CodeConfirmationFailed:  "Transfer confirmation check failed",
	CodeTransferReverted:    "Transfer was included but reverted on-chain",

	// Webhook notification errors
	CodeWebhookDeliveryFailed: "Failed to deliver webhook notification",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
