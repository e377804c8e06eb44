// Package respond writes JSON responses and maps domain errors to HTTP status codes.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/chris/allowance-ledger/pkg/rewards"
	"github.com/chris/allowance-ledger/pkg/storage"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// Message writes an error body with the given status.
func Message(w http.ResponseWriter, status int, message string, details error) {
	resp := ErrorResponse{Error: message}
	if details != nil {
		resp.Details = details.Error()
	}
	JSON(w, status, resp)
}

// Error maps err to a status code. Errors from the rewards service carry their own message;
// anything else is reported as fallback with the error as details.
func Error(w http.ResponseWriter, err error, fallback string) {
	status := Status(err)

	var rerr *rewards.Error
	if errors.As(err, &rerr) {
		JSON(w, status, ErrorResponse{Error: rerr.Msg, Details: rerr.Details()})
		return
	}
	if status == http.StatusInternalServerError {
		slog.Error(fallback, "error", err)
	}
	Message(w, status, fallback, err)
}

// Status returns the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, rewards.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, rewards.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, rewards.ErrConflict), errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// PathParam binds a required path parameter.
func PathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter %s: %w", name, err)
	}
	return v, nil
}
