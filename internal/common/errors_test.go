package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{nil, http.StatusOK},
		{ErrNotFound, http.StatusNotFound},
		{ErrUnauthenticated, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrInvalidToken, http.StatusBadRequest},
		{NewValidationError("email", "is required"), http.StatusBadRequest},
		{WithMessage(ErrConflict, "Email already in use"), http.StatusConflict},
		{fmt.Errorf("feed: %w", ErrUpstreamUnavailable), http.StatusServiceUnavailable},
		{&pgconn.PgError{Code: "23505"}, http.StatusConflict},
		{ErrResourceExhausted, http.StatusInternalServerError},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, HTTPStatusFromError(tc.err), "%v", tc.err)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	assert.True(t, IsUniqueViolation(err, ""))
	assert.True(t, IsUniqueViolation(err, "users_email_key"))
	assert.False(t, IsUniqueViolation(err, "users_account_id_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRespondWithServiceError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	t.Run("public message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, req, fmt.Errorf("register: %w", WithMessage(ErrConflict, "Email already in use")))
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "Email already in use", decodeError(t, rec).Error)
	})

	t.Run("sentinel message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, req, fmt.Errorf("gate: %w", ErrForbidden))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeError(t, rec).Error)
	})

	t.Run("validation details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, req, NewValidationError("password", "must be at least 8 characters"))
		body := decodeError(t, rec)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, []FieldError{{Path: "password", Message: "must be at least 8 characters"}}, body.Details)
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RespondWithServiceError(rec, req, errors.New("pq: connection refused on 10.0.0.3"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Internal Server Error", decodeError(t, rec).Error)
	})
}
