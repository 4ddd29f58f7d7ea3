package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
)

const maxBodyBytes = 1 << 20

// Client-facing messages.
const (
	msgInvalidJSON       = "Invalid JSON"
	msgEmailInUse        = "Email already in use"
	msgUserNotFound      = "User not found"
	msgInvalidCreds      = "Invalid credentials"
	msgUnauthorized      = "Unauthorized"
	msgAdminsOnly        = "Access denied: Admins only"
	msgTaskNotFound      = "Task not found"
	msgInvalidResetToken = "Invalid or expired token"
	msgDelivery          = "Error sending email"
	msgInternal          = "Something went wrong!"
	msgTooManyRequests   = "Too many requests"
	msgInvalidInput      = "Invalid input"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"message": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(out)
}

// decodeStrictJSON is decodeJSON that also rejects keys that out does not declare.
func decodeStrictJSON(w http.ResponseWriter, r *http.Request, out any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// unknownField extracts the quoted key from encoding/json's unknown field
// error.
func unknownField(err error) (string, bool) {
	return strings.CutPrefix(err.Error(), "json: unknown field ")
}

// writeError maps service errors that mean the same thing on every route.
// Route-specific cases (e.g. a missing user) are handled by the caller
// first. Anything unrecognised is a 500 with a generic message.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusBadRequest, msgInvalidInput)
	case errors.Is(err, common.ErrorAlreadyExists):
		writeMessage(w, http.StatusBadRequest, msgEmailInUse)
	case errors.Is(err, common.ErrorInvalidCredentials):
		writeMessage(w, http.StatusBadRequest, msgInvalidCreds)
	case errors.Is(err, common.ErrorUnauthorized):
		writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, common.ErrorForbidden):
		writeMessage(w, http.StatusForbidden, msgAdminsOnly)
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		writeMessage(w, http.StatusBadRequest, msgInvalidResetToken)
	case errors.Is(err, common.ErrorDelivery):
		writeMessage(w, http.StatusInternalServerError, msgDelivery)
	default:
		if !errors.Is(err, common.ErrorInternal) {
			s.log.Error(r.Context(), "unexpected error", "path", r.URL.Path, "error", err)
		}
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}
