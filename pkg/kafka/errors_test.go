package kafka

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{name: "nil", err: nil, want: ErrorTypeUnknown},
		{name: "explicit transient", err: NewTransientError("mongo down", errors.New("x")), want: ErrorTypeTransient},
		{name: "wrapped permanent", err: fmt.Errorf("handle: %w", NewPermanentError("bad payload", nil)), want: ErrorTypePermanent},
		{name: "deadline", err: fmt.Errorf("write: %w", context.DeadlineExceeded), want: ErrorTypeTransient},
		{name: "connection refused", err: errors.New("dial tcp: Connection Refused"), want: ErrorTypeTransient},
		{name: "unknown", err: errors.New("something odd"), want: ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	transient := NewTransientError("timeout", nil)

	if !ShouldRetry(transient, 0, 3) {
		t.Error("transient error under the limit should retry")
	}
	if ShouldRetry(transient, 3, 3) {
		t.Error("retry limit reached")
	}
	if ShouldRetry(NewPermanentError("bad", nil), 0, 3) {
		t.Error("permanent errors never retry")
	}
	if ShouldRetry(nil, 0, 3) {
		t.Error("nil error never retries")
	}
}
