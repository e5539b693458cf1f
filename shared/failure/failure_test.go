package failure_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"conferent/shared/failure"
)

func TestFailureKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind failure.Kind
		wantCode int
	}{
		{"validation", failure.Validation("startTime", "must be before endTime"), failure.KindValidation, http.StatusBadRequest},
		{"authorization", failure.Authorization("only the owner may cancel"), failure.KindAuthorization, http.StatusForbidden},
		{"state", failure.State("reservation is already completed"), failure.KindState, http.StatusConflict},
		{"auth", failure.Auth("invalid token"), failure.KindAuth, http.StatusUnauthorized},
		{"malformed response", failure.MalformedResponse("userRole"), failure.KindMalformedResponse, http.StatusBadGateway},
		{"transport", failure.Transport(errors.New("connection refused")), failure.KindTransport, http.StatusServiceUnavailable},
		{"not found", failure.NotFound("rent not found"), failure.KindNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKind, failure.GetKind(tt.err))
			assert.Equal(t, tt.wantCode, failure.GetCode(tt.err))
			assert.True(t, failure.IsKind(tt.err, tt.wantKind))
		})
	}
}

func TestGetKindWrapped(t *testing.T) {
	err := fmt.Errorf("cancel rent: %w", failure.State("too late to cancel"))

	assert.Equal(t, failure.KindState, failure.GetKind(err))
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))
}

func TestGetKindPlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, failure.KindInternal, failure.GetKind(err))
	assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	assert.False(t, failure.IsKind(err, failure.KindValidation))
}

func TestValidationMessageNamesFieldAndRule(t *testing.T) {
	err := failure.Validation("purpose", "must not be blank")

	assert.Contains(t, err.Error(), "purpose")
	assert.Contains(t, err.Error(), "must not be blank")
}
