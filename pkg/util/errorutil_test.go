package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindStatuses(t *testing.T) {
	cases := []struct {
		err    error
		kind   Kind
		status int
	}{
		{NewValidationError("bad", nil), KindValidation, http.StatusBadRequest},
		{NewConflict("dup", nil), KindConflict, http.StatusConflict},
		{NewNotFound("missing"), KindNotFound, http.StatusNotFound},
		{NewUnauthorized("nope"), KindUnauthorized, http.StatusUnauthorized},
		{NewForbidden("denied"), KindForbidden, http.StatusForbidden},
		{NewRateLimited("slow down"), KindRateLimited, http.StatusTooManyRequests},
		{NewInternalError(errors.New("boom")), KindInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		de := ToDomainError(tc.err)
		require.NotNil(t, de)
		assert.Equal(t, tc.kind, de.Kind)
		assert.Equal(t, tc.status, de.HTTPStatus)
		assert.Equal(t, tc.kind.String(), de.Code)
	}
}

func TestToDomainError_WrapsUnknownAsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	de := ToDomainError(fmt.Errorf("save user: %w", cause))

	assert.Equal(t, KindInternal, de.Kind)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, de, cause)
}

func TestToDomainError_FindsWrappedDomainError(t *testing.T) {
	inner := NewForbidden("Token mismatch - unauthorized")
	de := ToDomainError(fmt.Errorf("refresh: %w", inner))

	assert.Equal(t, KindForbidden, de.Kind)
	assert.Equal(t, "Token mismatch - unauthorized", de.Message)
}

func TestToDomainError_Nil(t *testing.T) {
	assert.Nil(t, ToDomainError(nil))
}
