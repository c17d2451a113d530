package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/answer"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps pipeline errors to HTTP status codes. Backend
// stores being down is 503, an upstream model failure is 502, bad input is
// 400, anything unrecognized is 500.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "service error", "error", err)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, llm.ErrNoProvider) {
		writeError(w, http.StatusInternalServerError, "No LLM provider configured")
		return
	}

	var authErr *retrieval.AuthorizationError
	if errors.As(err, &authErr) {
		writeError(w, http.StatusServiceUnavailable, "Permission lookup unavailable")
		return
	}

	var retErr *retrieval.RetrievalError
	if errors.As(err, &retErr) {
		writeError(w, http.StatusServiceUnavailable, "Search backend unavailable")
		return
	}

	var compErr *answer.CompositionError
	if errors.As(err, &compErr) {
		writeError(w, http.StatusBadGateway, "LLM service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}
