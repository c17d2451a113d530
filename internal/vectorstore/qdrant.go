package vectorstore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/llm"
)

// Named vectors in the records collection, shared with the indexing pipeline.
const (
	denseVectorName  = "dense"
	sparseVectorName = "sparse"
)

// QdrantIndex implements VectorIndex using Qdrant with named dense and sparse
// vectors, fused server-side with reciprocal-rank fusion in hybrid mode.
type QdrantIndex struct {
	client     *qdrant.Client
	collection string
	embedder   llm.Embedder
	mode       string
}

// NewQdrantIndex creates a Qdrant-backed vector index.
// urlStr should be in the format "http://host:port" (e.g., "http://localhost:6333").
// The gRPC port (typically 6334) will be derived from the HTTP port.
func NewQdrantIndex(urlStr, apiKey, collection string, embedder llm.Embedder, mode string) (*QdrantIndex, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsedURL.Hostname()
	if host == "" {
		host = "localhost"
	}

	// Extract port from URL, default to 6333 for HTTP
	port := 6334 // Default gRPC port
	if parsedURL.Port() != "" {
		httpPort, err := strconv.Atoi(parsedURL.Port())
		if err == nil {
			// gRPC port is typically HTTP port + 1
			port = httpPort + 1
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	if mode != ModeDense {
		mode = ModeHybrid
	}

	return &QdrantIndex{
		client:     client,
		collection: collection,
		embedder:   embedder,
		mode:       mode,
	}, nil
}

// CollectionExists reports whether the records collection is reachable and
// present, which is the liveness signal health checks use.
func (s *QdrantIndex) CollectionExists(ctx context.Context) (bool, error) {
	return s.client.CollectionExists(ctx, s.collection)
}

// WithMode returns a copy of the index with the given retrieval mode.
func (s *QdrantIndex) WithMode(mode string) *QdrantIndex {
	clone := *s
	if mode == ModeDense {
		clone.mode = ModeDense
	} else {
		clone.mode = ModeHybrid
	}
	return &clone
}

// SimilaritySearchWithScore embeds queryText and runs a filtered search,
// returning up to k scored chunks, best first.
func (s *QdrantIndex) SimilaritySearchWithScore(ctx context.Context, queryText string, k int, filter AccessFilter) ([]SearchHit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned for query")
	}
	dense := embeddings[0]

	qdrantFilter := buildAccessFilter(filter)
	limit := uint64(k)

	queryReq := &qdrant.QueryPoints{
		CollectionName: s.collection,
		Limit:          &limit,
		Filter:         qdrantFilter,
		WithPayload:    qdrant.NewWithPayload(true),
	}

	if s.mode == ModeHybrid {
		// Prefetch both legs under the same access filter, fuse with RRF.
		sparse := EncodeSparse(queryText)
		queryReq.Prefetch = []*qdrant.PrefetchQuery{
			{
				Query:  qdrant.NewQueryDense(dense),
				Using:  qdrant.PtrOf(denseVectorName),
				Limit:  &limit,
				Filter: qdrantFilter,
			},
			{
				Query:  qdrant.NewQuerySparse(sparse.Indices, sparse.Values),
				Using:  qdrant.PtrOf(sparseVectorName),
				Limit:  &limit,
				Filter: qdrantFilter,
			},
		}
		queryReq.Query = qdrant.NewQueryFusion(qdrant.Fusion_RRF)
	} else {
		queryReq.Query = qdrant.NewQueryDense(dense)
		queryReq.Using = qdrant.PtrOf(denseVectorName)
	}

	scoredPoints, err := s.client.Query(ctx, queryReq)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", s.collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	hits := make([]SearchHit, 0, len(scoredPoints))
	for _, point := range scoredPoints {
		hit := SearchHit{
			Score:    point.Score,
			Metadata: map[string]any{},
		}
		if point.Payload != nil {
			payload := convertPayloadToMap(point.Payload)
			if content, ok := payload["content"].(string); ok {
				hit.Content = content
			}
			if meta, ok := payload["metadata"].(map[string]any); ok {
				hit.Metadata = meta
			}
		}
		hits = append(hits, hit)
	}

	logger.DebugContext(ctx, "vector search completed",
		"collection", s.collection,
		"mode", s.mode,
		"k", k,
		"results", len(hits),
	)
	return hits, nil
}

// buildAccessFilter expresses the permission boundary as a Qdrant filter:
// record must belong to the organization AND its id must be in the allow-list.
func buildAccessFilter(filter AccessFilter) *qdrant.Filter {
	should := make([]*qdrant.Condition, 0, len(filter.RecordIDs))
	for _, recordID := range filter.RecordIDs {
		should = append(should, qdrant.NewMatch("metadata.recordId", recordID))
	}

	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("metadata.orgId", filter.OrgID),
			{
				ConditionOneOf: &qdrant.Condition_Filter{
					Filter: &qdrant.Filter{Should: should},
				},
			},
		},
	}
}

// convertPayloadToMap converts Qdrant payload to map[string]any.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	result := make(map[string]any, len(payload))
	for k, v := range payload {
		if v == nil {
			continue
		}
		result[k] = convertValue(v)
	}
	return result
}

// convertValue converts a Qdrant Value to a Go any type.
func convertValue(v *qdrant.Value) any {
	switch val := v.Kind.(type) {
	case *qdrant.Value_BoolValue:
		return val.BoolValue
	case *qdrant.Value_IntegerValue:
		return val.IntegerValue
	case *qdrant.Value_DoubleValue:
		return val.DoubleValue
	case *qdrant.Value_StringValue:
		return val.StringValue
	case *qdrant.Value_ListValue:
		list := make([]any, len(val.ListValue.Values))
		for i, item := range val.ListValue.Values {
			list[i] = convertValue(item)
		}
		return list
	case *qdrant.Value_StructValue:
		return convertPayloadToMap(val.StructValue.Fields)
	default:
		return nil
	}
}

var _ VectorIndex = (*QdrantIndex)(nil)
