package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		domain string
		wire   string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"NO_SESSION", ErrCodeUnauthorized},
		{"MISSING_COMPANY", ErrCodeForbidden},
		{"MISSING_PERMISSION", ErrCodeForbidden},
		{"INVALID_CREDENTIALS", ErrCodeUnauthorized},
		{"INVALID_TOKEN", ErrCodeTokenInvalid},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"INSUFFICIENT_BALANCE", ErrCodeInsufficientBalance},
		{"NUMBER_TAKEN", ErrCodeConflict},
		{"STORAGE_DISABLED", ErrCodeBusinessRule},
		// Unmapped INVALID_* codes are validation failures
		{"INVALID_AMOUNT", ErrCodeValidation},
		{"INVALID_CURRENCY", ErrCodeValidation},
		// Already-normalized codes pass through
		{ErrCodeTokenExpired, ErrCodeTokenExpired},
		// Anything else is unknown
		{"SOMETHING_ODD", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.domain, func(t *testing.T) {
			assert.Equal(t, tt.wire, NormalizeErrorCode(tt.domain))
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeUnauthorized))
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(ErrCodeTokenInvalid))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(ErrCodeForbidden))
	assert.Equal(t, http.StatusNotFound, GetHTTPStatus(ErrCodeNotFound))
	assert.Equal(t, http.StatusConflict, GetHTTPStatus(ErrCodeConcurrencyConflict))
	assert.Equal(t, http.StatusUnprocessableEntity, GetHTTPStatus(ErrCodeInvalidState))
	assert.Equal(t, http.StatusInternalServerError, GetHTTPStatus("ERR_NEVER_SEEN"))
}

func TestAuthorizationStatusMapping(t *testing.T) {
	// No session is a 401; an authenticated session that lacks company
	// context or a permission is a 403
	assert.Equal(t, http.StatusUnauthorized, GetHTTPStatus(NormalizeErrorCode("NO_SESSION")))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(NormalizeErrorCode("MISSING_COMPANY")))
	assert.Equal(t, http.StatusForbidden, GetHTTPStatus(NormalizeErrorCode("MISSING_PERMISSION")))
}
