package common

import (
	"encoding/json"
	"errors"
	"net/http"
)

type ErrorResponse struct {
	Error   string       `json:"error"`
	Details []FieldError `json:"details,omitempty"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// RespondWithServiceError renders err without leaking internals: validation failures
// carry field details, other 4xx carry the sentinel's message, and 5xx are logged and
// replaced by a generic body.
func RespondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := HTTPStatusFromError(err)

	var verr *ValidationError
	if errors.As(err, &verr) {
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: verr.Fields})
		return
	}

	if code >= http.StatusInternalServerError {
		LoggerFrom(r.Context()).Error("request failed", "error", err)
		RespondWithError(w, code, "Internal Server Error")
		return
	}

	RespondWithError(w, code, publicMessage(err))
}

func publicMessage(err error) string {
	var pe *PublicError
	if errors.As(err, &pe) {
		return pe.Message
	}
	for _, sentinel := range []error{
		ErrUnauthenticated, ErrForbidden, ErrInvalidToken, ErrNotFound, ErrConflict, ErrValidation,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return ErrBadRequest.Error()
}

// PublicError attaches a client-safe message to a sentinel error.
type PublicError struct {
	Message string
	Err     error
}

func (e *PublicError) Error() string { return e.Message }
func (e *PublicError) Unwrap() error { return e.Err }

// WithMessage wraps sentinel with a message that may be shown to clients.
func WithMessage(sentinel error, message string) error {
	return &PublicError{Message: message, Err: sentinel}
}
