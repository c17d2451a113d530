package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service"
)

// SearchHandler handles retrieval-only HTTP requests.
type SearchHandler struct {
	rag service.RAGService
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(rag service.RAGService) *SearchHandler {
	return &SearchHandler{rag: rag}
}

// SearchQuery represents the HTTP request payload for search.
type SearchQuery struct {
	Query         string              `json:"query"`
	Limit         int                 `json:"limit"`
	Filters       map[string][]string `json:"filters"`
	RetrievalMode string              `json:"retrieval_mode"`
}

// ServeHTTP handles HTTP requests for search.
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	identity, ok := contextutil.IdentityFromContext(ctx)
	if !ok {
		logger.WarnContext(ctx, "search request without identity")
		writeError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}

	result, err := h.rag.Search(ctx, service.SearchRequest{
		UserID:        identity.UserID,
		OrgID:         identity.OrgID,
		Query:         req.Query,
		Limit:         req.Limit,
		Filters:       req.Filters,
		RetrievalMode: req.RetrievalMode,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process search request")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
