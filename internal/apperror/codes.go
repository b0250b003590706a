package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Wallet keeper error codes
const (
	// Ledger connection / RPC errors
	CodeLedgerConnectionFailed Code = "LEDGER_CONNECTION_FAILED"
	CodeLedgerRPCError         Code = "LEDGER_RPC_ERROR"
	CodeBalanceQueryFailed     Code = "BALANCE_QUERY_FAILED"
	CodeFeeEstimationFailed    Code = "FEE_ESTIMATION_FAILED"

	// Account / input errors
	CodeInvalidAddress Code = "INVALID_ADDRESS"
	CodeInvalidAmount  Code = "INVALID_AMOUNT"

	// Top-up transfer errors
	CodeInsufficientFunds   Code = "INSUFFICIENT_FUNDS"
	CodeTransferRejected    Code = "TRANSFER_REJECTED"
	CodeNonceFetchFailed    Code = "NONCE_FETCH_FAILED"
	CodeSigningFailed       Code = "SIGNING_FAILED"
	CodeConfirmationTimeout Code = "CONFIRMATION_TIMEOUT"
	CodeConfirmationFailed  Code = "CONFIRMATION_FAILED"
	CodeTransferReverted    Code = "TRANSFER_REVERTED"

	// Webhook notification errors
	CodeWebhookDeliveryFailed Code = "WEBHOOK_DELIVERY_FAILED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
