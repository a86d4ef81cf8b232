package errors

import (
	"net/http"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewError("bad amount").Mark(ErrValidation), http.StatusBadRequest},
		{"not found", NewError("missing").Mark(ErrNotFound), http.StatusNotFound},
		{"permission", NewError("admin only").Mark(ErrPermissionDenied), http.StatusForbidden},
		{"unauthorized", NewError("no token").Mark(ErrUnauthorized), http.StatusUnauthorized},
		{"processor", NewError("stripe down").Mark(ErrHTTPClient), http.StatusBadGateway},
		{"rate limited", NewError("slow down").Mark(ErrTooManyRequests), http.StatusTooManyRequests},
		{"unmarked", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestBuilderKeepsHintAndDetails(t *testing.T) {
	err := NewError("amount must be positive").
		WithHint("Amount must be greater than zero").
		WithReportableDetails(map[string]any{"amount": 0}).
		Mark(ErrValidation)

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, errors.GetAllHints(err), "Amount must be greater than zero")
	assert.NotEmpty(t, errors.GetAllSafeDetails(err))
}

func TestCodeFromErr(t *testing.T) {
	wrapped := WithError(NewError("no such payment").Mark(ErrNotFound)).
		WithHint("Payment not found").
		Mark(ErrNotFound)

	assert.Equal(t, ErrCodeNotFound, CodeFromErr(wrapped))
	assert.Equal(t, ErrCodeTooManyRequests, CodeFromErr(NewError("slow down").Mark(ErrTooManyRequests)))
	assert.Equal(t, ErrCodeSystemError, CodeFromErr(errors.New("boom")))
}
