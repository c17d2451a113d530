package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_index.go -package=mocks github.com/rohilbansal-pipeshub/pipeshub-ai/internal/vectorstore VectorIndex

import "context"

// Retrieval modes. Hybrid fuses the dense and sparse legs server-side; dense
// skips the sparse leg entirely.
const (
	ModeHybrid = "HYBRID"
	ModeDense  = "DENSE"
)

// SearchHit is one scored chunk returned from the vector index.
type SearchHit struct {
	Content  string
	Score    float32
	Metadata map[string]any
}

// AccessFilter restricts a search to one organization and an allow-list of
// record identifiers. It is evaluated server-side before scoring, so chunks
// outside the permission boundary are never materialized.
type AccessFilter struct {
	OrgID     string
	RecordIDs []string
}

// VectorIndex performs scored similarity search over embedded chunks.
type VectorIndex interface {
	// SimilaritySearchWithScore embeds queryText and returns up to k scored
	// chunks matching the access filter, best first.
	SimilaritySearchWithScore(ctx context.Context, queryText string, k int, filter AccessFilter) ([]SearchHit, error)
}
