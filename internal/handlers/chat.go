package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/answer"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service"
)

const defaultSearchLimit = 20

// ChatHandler handles HTTP requests for question answering.
type ChatHandler struct {
	rag service.RAGService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(rag service.RAGService) *ChatHandler {
	return &ChatHandler{rag: rag}
}

// ChatQuery represents the HTTP request payload for chat.
// UseDecomposition is a pointer so an omitted field defaults to enabled.
type ChatQuery struct {
	Query                 string               `json:"query"`
	Limit                 int                  `json:"limit"`
	PreviousConversations []answer.HistoryTurn `json:"previousConversations"`
	UseDecomposition      *bool                `json:"useDecomposition"`
	Filters               map[string][]string  `json:"filters"`
	RetrievalMode         string               `json:"retrieval_mode"`
	ConversationID        string               `json:"conversationId"`
}

// ServeHTTP handles HTTP requests for chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	identity, ok := contextutil.IdentityFromContext(ctx)
	if !ok {
		logger.WarnContext(ctx, "chat request without identity")
		writeError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req ChatQuery
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Limit <= 0 {
		req.Limit = defaultSearchLimit
	}
	useDecomposition := true
	if req.UseDecomposition != nil {
		useDecomposition = *req.UseDecomposition
	}

	resp, err := h.rag.Chat(ctx, service.ChatRequest{
		UserID:                identity.UserID,
		OrgID:                 identity.OrgID,
		Query:                 req.Query,
		Limit:                 req.Limit,
		Filters:               req.Filters,
		UseDecomposition:      useDecomposition,
		RetrievalMode:         req.RetrievalMode,
		ConversationID:        req.ConversationID,
		PreviousConversations: req.PreviousConversations,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	payload := make(map[string]any, len(resp.Payload)+1)
	for k, v := range resp.Payload {
		payload[k] = v
	}
	if resp.ConversationID != "" {
		payload["conversationId"] = resp.ConversationID
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
