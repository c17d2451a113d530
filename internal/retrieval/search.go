package retrieval

import (
	"context"
	"fmt"
	"strings"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/permissions"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/vectorstore"
)

// queryPrefix matches the instruction prefix the indexing pipeline embeds
// documents with, so query and document vectors live in the same space.
const queryPrefix = "Represent this document for retrieval: "

const (
	citationTypeChunk    = "vectordb|document"
	citationTypeDocument = "document"
)

// Chunk is a retrieved passage with its similarity score and the payload
// metadata needed for citation.
type Chunk struct {
	Content      string         `json:"content"`
	Score        float32        `json:"score"`
	CitationType string         `json:"citationType"`
	Metadata     map[string]any `json:"metadata"`
}

// SearchRequest carries one batch of query variants searched under a single
// user/org identity.
type SearchRequest struct {
	UserID  string
	OrgID   string
	Queries []string
	Limit   int
	Filters map[string][]string
}

// SearchResult holds the deduplicated chunks across all query variants plus
// the full documents they came from.
type SearchResult struct {
	Chunks  []Chunk          `json:"searchResults"`
	Records []map[string]any `json:"records"`
}

// Searcher runs permission-filtered similarity search: the accessible record
// set is resolved once per request and every vector query is constrained to
// it server-side.
type Searcher struct {
	store permissions.Store
	index vectorstore.VectorIndex
}

func NewSearcher(store permissions.Store, index vectorstore.VectorIndex) *Searcher {
	return &Searcher{store: store, index: index}
}

// Search resolves the caller's accessible records, runs one vector query per
// variant, merges the hits, and enriches the distinct source records. An
// empty accessible set short-circuits to an empty result without touching
// the vector index.
func (s *Searcher) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	accessible, err := s.store.GetAccessibleRecords(ctx, req.UserID, req.OrgID, normalizeFilters(req.Filters))
	if err != nil {
		return nil, &AuthorizationError{Err: err}
	}
	if len(accessible) == 0 {
		logger.InfoContext(ctx, "no accessible records for user, skipping vector search",
			"user_id", req.UserID, "org_id", req.OrgID)
		return &SearchResult{Chunks: []Chunk{}, Records: []map[string]any{}}, nil
	}

	recordIDs := make([]string, 0, len(accessible))
	for _, r := range accessible {
		recordIDs = append(recordIDs, r.ID)
	}
	filter := vectorstore.AccessFilter{OrgID: req.OrgID, RecordIDs: recordIDs}

	logger.DebugContext(ctx, "resolved accessible records",
		"count", len(recordIDs), "queries", len(req.Queries))

	chunks := make([]Chunk, 0, req.Limit)
	seen := make(map[string]struct{})
	for _, q := range req.Queries {
		hits, err := s.index.SimilaritySearchWithScore(ctx, queryPrefix+q, req.Limit, filter)
		if err != nil {
			return nil, &RetrievalError{Err: fmt.Errorf("similarity search: %w", err)}
		}
		for _, hit := range hits {
			if _, ok := seen[hit.Content]; ok {
				continue
			}
			seen[hit.Content] = struct{}{}
			chunks = append(chunks, Chunk{
				Content:      hit.Content,
				Score:        hit.Score,
				CitationType: citationTypeChunk,
				Metadata:     hit.Metadata,
			})
		}
	}

	records, err := s.fetchRecords(ctx, req.UserID, chunks)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Chunks: chunks, Records: records}, nil
}

// fetchRecords loads the full document for each distinct record referenced
// by the chunks, in first-appearance order, folding in the type-specific
// side document for files and mails.
func (s *Searcher) fetchRecords(ctx context.Context, userID string, chunks []Chunk) ([]map[string]any, error) {
	logger := contextutil.LoggerFromContext(ctx)

	records := make([]map[string]any, 0)
	seen := make(map[string]struct{})
	var userEmail string

	for _, chunk := range chunks {
		recordID, ok := chunk.Metadata["recordId"].(string)
		if !ok || recordID == "" {
			continue
		}
		if _, dup := seen[recordID]; dup {
			continue
		}
		seen[recordID] = struct{}{}

		record, err := s.store.GetDocument(ctx, recordID, permissions.CollectionRecords)
		if err != nil {
			return nil, &RetrievalError{Err: fmt.Errorf("fetch record %s: %w", recordID, err)}
		}
		switch record["recordType"] {
		case permissions.RecordTypeFile:
			file, err := s.store.GetDocument(ctx, recordID, permissions.CollectionFiles)
			if err != nil {
				logger.WarnContext(ctx, "file document missing for record",
					"record_id", recordID, "error", err)
				break
			}
			mergeDocument(record, file)
		case permissions.RecordTypeMail:
			mail, err := s.store.GetDocument(ctx, recordID, permissions.CollectionMails)
			if err != nil {
				logger.WarnContext(ctx, "mail document missing for record",
					"record_id", recordID, "error", err)
				break
			}
			mergeDocument(record, mail)
			if userEmail == "" {
				userEmail, err = s.requestingUserEmail(ctx, userID)
				if err != nil {
					return nil, &RetrievalError{Err: err}
				}
			}
			record["webUrl"] = fmt.Sprintf("https://mail.google.com/mail?authuser=%s#all/%s",
				userEmail, asString(record["externalRecordId"]))
		}
		record["citationType"] = citationTypeDocument

		records = append(records, record)
	}
	return records, nil
}

// requestingUserEmail resolves the email of the user the mail deep links
// should authenticate as.
func (s *Searcher) requestingUserEmail(ctx context.Context, userID string) (string, error) {
	user, err := s.store.GetUserByUserID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch user %s: %w", userID, err)
	}
	return asString(user["email"]), nil
}

// mergeDocument folds src fields into dst; on a key conflict the
// type-specific side document wins over the record.
func mergeDocument(dst, src map[string]any) {
	for k, v := range src {
		dst[k] = v
	}
}

// normalizeFilters lowercases filter group names so callers can send
// KB/APP/Departments in any casing.
func normalizeFilters(filters map[string][]string) map[string][]string {
	if len(filters) == 0 {
		return nil
	}
	out := make(map[string][]string, len(filters))
	for k, v := range filters {
		out[strings.ToLower(k)] = v
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
