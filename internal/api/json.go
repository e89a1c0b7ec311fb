package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// fieldErrorsBody wraps per-field validation errors. validation.Errors
// marshals as {"field": "message", ...}.
func fieldErrorsBody(errs validation.Errors) map[string]any {
	return map[string]any{
		"success": false,
		"errors":  errs,
	}
}
