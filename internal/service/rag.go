package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag_service.go -package=mocks -mock_names=RAGService=MockRAGService github.com/rohilbansal-pipeshub/pipeshub-ai/internal/service RAGService,Retriever

import (
	"context"
	"strings"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/answer"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/citations"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/query"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/retrieval"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/storage"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/vectorstore"
)

// Retriever is the slice of the search layer this service consumes.
// This interface is defined from the service layer's perspective (consumer-first).
type Retriever interface {
	Search(ctx context.Context, req retrieval.SearchRequest) (*retrieval.SearchResult, error)
}

// ChatRequest represents one question in the domain layer, with the caller's
// identity and retrieval options.
type ChatRequest struct {
	UserID                string
	OrgID                 string
	Query                 string
	Limit                 int
	Filters               map[string][]string
	UseDecomposition      bool
	RetrievalMode         string
	ConversationID        string
	PreviousConversations []answer.HistoryTurn
}

// ChatResponse carries the citation-annotated answer payload and the
// conversation it was recorded under.
type ChatResponse struct {
	ConversationID string
	Payload        map[string]any
}

// SearchRequest is a retrieval-only request with no answer generation.
type SearchRequest struct {
	UserID        string
	OrgID         string
	Query         string
	Limit         int
	Filters       map[string][]string
	RetrievalMode string
}

// RAGService runs the question-answering pipeline: decompose, transform,
// search, compose, cite.
type RAGService interface {
	// Chat answers a question over the caller's accessible documents.
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
	// Search retrieves chunks for a query without generating an answer.
	Search(ctx context.Context, req SearchRequest) (*retrieval.SearchResult, error)
}

// ragService implements RAGService.
type ragService struct {
	provider      llm.Provider
	hybrid        Retriever
	dense         Retriever
	conversations storage.ConversationStore
}

// NewRAGService creates a new RAGService. conversations may be nil, in which
// case no history is persisted or replayed from storage.
func NewRAGService(provider llm.Provider, hybrid, dense Retriever, conversations storage.ConversationStore) RAGService {
	return &ragService{
		provider:      provider,
		hybrid:        hybrid,
		dense:         dense,
		conversations: conversations,
	}
}

// Chat answers a question over the caller's accessible documents.
func (s *ragService) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(req.Query) == "" {
		logger.WarnContext(ctx, "empty query in chat request")
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}

	conversationID, history, err := s.loadHistory(ctx, req)
	if err != nil {
		return nil, err
	}

	subQueries, err := s.decompose(ctx, req)
	if err != nil {
		return nil, err
	}

	variants := make([]string, 0, len(subQueries)*4)
	for _, sq := range subQueries {
		qv, err := query.Transform(ctx, s.provider, sq.Query)
		if err != nil {
			return nil, WrapError(err, "query transformation failed")
		}
		variants = append(variants, qv...)
	}
	variants = query.MergeVariants(variants)
	if len(variants) == 0 {
		variants = []string{req.Query}
	}

	logger.InfoContext(ctx, "running retrieval",
		"sub_queries", len(subQueries), "variants", len(variants))

	result, err := s.retriever(req.RetrievalMode).Search(ctx, retrieval.SearchRequest{
		UserID:  req.UserID,
		OrgID:   req.OrgID,
		Queries: variants,
		Limit:   req.Limit,
		Filters: req.Filters,
	})
	if err != nil {
		return nil, err
	}

	raw, err := answer.Compose(ctx, s.provider, answer.Request{
		Query:    req.Query,
		Variants: variants,
		Chunks:   result.Chunks,
		History:  history,
	})
	if err != nil {
		return nil, err
	}

	payload := citations.Extract(raw, result.Chunks)

	s.persistTurns(ctx, conversationID, req.Query, answerText(payload, raw))

	return &ChatResponse{ConversationID: conversationID, Payload: payload}, nil
}

// Search retrieves chunks for a query without generating an answer. The query
// still goes through rewrite/expansion so recall matches the chat path.
func (s *ragService) Search(ctx context.Context, req SearchRequest) (*retrieval.SearchResult, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, &ValidationError{Field: "query", Message: "cannot be empty"}
	}

	variants, err := query.Transform(ctx, s.provider, req.Query)
	if err != nil {
		return nil, WrapError(err, "query transformation failed")
	}
	if len(variants) == 0 {
		variants = []string{req.Query}
	}

	return s.retriever(req.RetrievalMode).Search(ctx, retrieval.SearchRequest{
		UserID:  req.UserID,
		OrgID:   req.OrgID,
		Queries: variants,
		Limit:   req.Limit,
		Filters: req.Filters,
	})
}

// loadHistory resolves the conversation and, when the caller did not supply
// history inline, replays the stored turns.
func (s *ragService) loadHistory(ctx context.Context, req ChatRequest) (string, []answer.HistoryTurn, error) {
	if s.conversations == nil {
		return req.ConversationID, req.PreviousConversations, nil
	}

	conv, err := s.conversations.GetOrCreate(ctx, req.ConversationID, req.UserID, req.OrgID)
	if err != nil {
		return "", nil, WrapError(err, "failed to resolve conversation")
	}
	if len(req.PreviousConversations) > 0 {
		return conv.ID, req.PreviousConversations, nil
	}

	turns, err := s.conversations.ListTurns(ctx, conv.ID)
	if err != nil {
		return "", nil, WrapError(err, "failed to load conversation history")
	}
	history := make([]answer.HistoryTurn, 0, len(turns))
	for _, turn := range turns {
		history = append(history, answer.HistoryTurn{Role: turn.Role, Content: turn.Content})
	}
	return conv.ID, history, nil
}

// decompose optionally splits the question into sub-questions, falling back
// to the original query when decomposition is disabled or yields nothing.
func (s *ragService) decompose(ctx context.Context, req ChatRequest) ([]query.SubQuery, error) {
	if !req.UseDecomposition {
		return []query.SubQuery{{Query: req.Query}}, nil
	}
	subQueries, err := query.Decompose(ctx, s.provider, req.Query)
	if err != nil {
		return nil, WrapError(err, "query decomposition failed")
	}
	if len(subQueries) == 0 {
		subQueries = []query.SubQuery{{Query: req.Query}}
	}
	return subQueries, nil
}

// persistTurns records the exchange. The answer has already been produced, so
// a storage failure here is logged and swallowed rather than failing the
// request.
func (s *ragService) persistTurns(ctx context.Context, conversationID, userQuery, botResponse string) {
	if s.conversations == nil || conversationID == "" {
		return
	}
	logger := contextutil.LoggerFromContext(ctx)
	if err := s.conversations.AppendTurn(ctx, conversationID, answer.RoleUserQuery, userQuery); err != nil {
		logger.WarnContext(ctx, "failed to persist user turn", "error", err)
		return
	}
	if err := s.conversations.AppendTurn(ctx, conversationID, answer.RoleBotResponse, botResponse); err != nil {
		logger.WarnContext(ctx, "failed to persist bot turn", "error", err)
	}
}

func (s *ragService) retriever(mode string) Retriever {
	if strings.EqualFold(mode, vectorstore.ModeDense) {
		return s.dense
	}
	return s.hybrid
}

// answerText extracts the displayable answer for persistence, preferring the
// parsed answer field over the raw model output.
func answerText(payload map[string]any, raw string) string {
	if text, ok := payload["answer"].(string); ok && text != "" {
		return text
	}
	return raw
}
