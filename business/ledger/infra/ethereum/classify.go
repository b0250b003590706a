package ethereum

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sony/gobreaker/v2"

	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
)

// JSON-RPC error codes the classifier understands. Most nodes report
// execution-level rejections under the generic server error code, so
// the code alone rarely decides the category; it narrows the search
// before the message heuristics run.
const (
	rpcCodeServerError   = -32000
	rpcCodeInvalidInput  = -32602
	rpcCodeLimitExceeded = -32005
)

// classifySubmitError maps a SendTransaction failure to a stable error
// code. Structured rpc error codes are preferred; message substrings
// are a documented best-effort fallback because node implementations
// disagree on codes for execution-level rejections.
func classifySubmitError(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case rpcCodeInvalidInput:
			return apperror.New(apperror.CodeTransferRejected,
				apperror.WithCause(err),
				apperror.WithContext("node rejected transaction parameters"))
		case rpcCodeLimitExceeded:
			return apperror.New(apperror.CodeRateLimitExceeded,
				apperror.WithCause(err))
		case rpcCodeServerError:
			// Falls through to message heuristics: geth reports both
			// insufficient funds and nonce conflicts under -32000.
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "insufficient funds"):
		return apperror.New(apperror.CodeInsufficientFunds,
			apperror.WithCause(err),
			apperror.WithContext("funding account cannot cover value plus fees"))
	case strings.Contains(msg, "nonce too low"),
		strings.Contains(msg, "nonce too high"),
		strings.Contains(msg, "replacement transaction underpriced"),
		strings.Contains(msg, "already known"):
		return apperror.New(apperror.CodeTransferRejected,
			apperror.WithCause(err),
			apperror.WithContext("nonce or replacement conflict"))
	case strings.Contains(msg, "underpriced"):
		return apperror.New(apperror.CodeTransferRejected,
			apperror.WithCause(err),
			apperror.WithContext("gas price below node minimum"))
	}

	return apperror.New(apperror.CodeTransferRejected,
		apperror.WithCause(err),
		apperror.WithContext("submission rejected"))
}

// classifyQueryError maps read-path failures (balance, fee queries) to
// stable error codes.
func classifyQueryError(err error, operation string) error {
	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return apperror.New(apperror.CodeCircuitOpen,
			apperror.WithCause(err),
			apperror.WithContext(operation))
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return apperror.New(apperror.CodeCircuitHalfOpen,
			apperror.WithCause(err),
			apperror.WithContext(operation))
	case errors.Is(err, context.DeadlineExceeded):
		return apperror.New(apperror.CodeServiceTimeout,
			apperror.WithCause(err),
			apperror.WithContext(operation))
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) && rpcErr.ErrorCode() == rpcCodeLimitExceeded {
		return apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext(operation))
	}

	return apperror.New(apperror.CodeBalanceQueryFailed,
		apperror.WithCause(err),
		apperror.WithContext(operation))
}
