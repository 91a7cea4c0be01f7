package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NewValidation("bad", nil), http.StatusBadRequest},
		{NewNotFound("order", "x"), http.StatusNotFound},
		{NewConflict("taken"), http.StatusConflict},
		{NewInternal("boom", nil), http.StatusInternalServerError},
		{NewUnauthorized("nope"), http.StatusUnauthorized},
		{NewForbidden("nope"), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatus(tc.err))
	}
}

func TestToJSONHidesInternals(t *testing.T) {
	status, body := ToJSON(NewInternal("db exploded", errors.New("pq: connection refused")), "trace-1")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(body), "db exploded")
	assert.NotContains(t, string(body), "connection refused")
	assert.Contains(t, string(body), "trace-1")
}

func TestToJSONPlainError(t *testing.T) {
	status, body := ToJSON(errors.New("oops"), "")
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, string(body), CodeInternal)
	assert.NotContains(t, string(body), "oops")
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("root cause")
	wrapped := fmt.Errorf("layer: %w", NewInternal("failed", inner))

	var appErr *AppError
	require.True(t, errors.As(wrapped, &appErr))
	assert.ErrorIs(t, wrapped, inner)
}
