package ethereum

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker/v2"

	"github.com/roshanbvadassery/send-openputer-kit/internal/apperror"
)

// rpcError fakes the structured error shape nodes return.
type rpcError struct {
	code int
	msg  string
}

func (e *rpcError) Error() string  { return e.msg }
func (e *rpcError) ErrorCode() int { return e.code }

func TestClassifySubmitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Code
	}{
		{
			name: "insufficient funds via server error code",
			err:  &rpcError{code: -32000, msg: "insufficient funds for gas * price + value"},
			want: apperror.CodeInsufficientFunds,
		},
		{
			name: "insufficient funds plain error",
			err:  errors.New("err: insufficient funds for transfer"),
			want: apperror.CodeInsufficientFunds,
		},
		{
			name: "nonce too low",
			err:  &rpcError{code: -32000, msg: "nonce too low"},
			want: apperror.CodeTransferRejected,
		},
		{
			name: "replacement underpriced",
			err:  errors.New("replacement transaction underpriced"),
			want: apperror.CodeTransferRejected,
		},
		{
			name: "invalid params code",
			err:  &rpcError{code: -32602, msg: "invalid argument 0"},
			want: apperror.CodeTransferRejected,
		},
		{
			name: "rate limited code",
			err:  &rpcError{code: -32005, msg: "request limit reached"},
			want: apperror.CodeRateLimitExceeded,
		},
		{
			name: "unmatched error defaults to rejected",
			err:  errors.New("something unexpected"),
			want: apperror.CodeTransferRejected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifySubmitError(tt.err)
			if code := apperror.GetCode(got); code != tt.want {
				t.Errorf("expected code %s, got %s", tt.want, code)
			}
		})
	}
}

func TestClassifySubmitError_PreservesCause(t *testing.T) {
	cause := errors.New("insufficient funds for gas * price + value")
	got := classifySubmitError(cause)

	if !errors.Is(got, cause) {
		t.Error("expected classified error to wrap the original cause")
	}
}

func TestClassifyQueryError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperror.Code
	}{
		{
			name: "open circuit",
			err:  fmt.Errorf("execute: %w", gobreaker.ErrOpenState),
			want: apperror.CodeCircuitOpen,
		},
		{
			name: "half open rejection",
			err:  gobreaker.ErrTooManyRequests,
			want: apperror.CodeCircuitHalfOpen,
		},
		{
			name: "deadline exceeded",
			err:  context.DeadlineExceeded,
			want: apperror.CodeServiceTimeout,
		},
		{
			name: "rate limited",
			err:  &rpcError{code: -32005, msg: "request limit reached"},
			want: apperror.CodeRateLimitExceeded,
		},
		{
			name: "generic rpc failure",
			err:  errors.New("connection reset by peer"),
			want: apperror.CodeBalanceQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyQueryError(tt.err, "test query")
			if code := apperror.GetCode(got); code != tt.want {
				t.Errorf("expected code %s, got %s", tt.want, code)
			}
		})
	}
}
