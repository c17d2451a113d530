package permissions

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/rohilbansal-pipeshub/pipeshub-ai/internal/contextutil"
)

// collectionLabels maps collection names to graph node labels.
var collectionLabels = map[string]string{
	CollectionRecords: "Record",
	CollectionFiles:   "File",
	CollectionMails:   "Mail",
	CollectionUsers:   "User",
}

// Neo4jStore implements Store against a Neo4j graph.
//
// Schema contract (owned by the connector/indexing side): User nodes keyed by
// userId, Organization nodes keyed by orgId, Record nodes keyed by recordId
// with metadata filter groups stored as array properties (departments,
// categories, ...). File and Mail side nodes share the record's recordId.
type Neo4jStore struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jStore creates a graph-backed permission store.
func NewNeo4jStore(driver neo4j.DriverWithContext) *Neo4jStore {
	return &Neo4jStore{driver: driver}
}

// GetAccessibleRecords resolves the set of records the user may read within
// the organization, narrowed by the metadata filter groups.
func (s *Neo4jStore) GetAccessibleRecords(ctx context.Context, userID, orgID string, filters map[string][]string) ([]RecordStub, error) {
	if s.driver == nil {
		return nil, fmt.Errorf("neo4j driver is nil")
	}
	logger := contextutil.LoggerFromContext(ctx)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	params := map[string]any{
		"userId": userID,
		"orgId":  orgID,
	}

	var sb strings.Builder
	sb.WriteString(`
		MATCH (u:User {userId: $userId})-[:MEMBER_OF]->(o:Organization {orgId: $orgId})
		MATCH (u)-[:HAS_ACCESS]->(r:Record)-[:BELONGS_TO]->(o)
	`)

	// Filter groups are ANDed; values within a group are ORed against the
	// record's array property of the same (lowercase) name.
	i := 0
	for group, values := range filters {
		if len(values) == 0 {
			continue
		}
		param := fmt.Sprintf("filter%d", i)
		if i == 0 {
			sb.WriteString("WHERE ")
		} else {
			sb.WriteString(" AND ")
		}
		fmt.Fprintf(&sb, "any(v IN $%s WHERE v IN coalesce(r.%s, []))", param, sanitizeGroupName(group))
		params[param] = values
		i++
	}
	sb.WriteString("\nRETURN r.recordId AS id")

	result, err := session.Run(ctx, sb.String(), params)
	if err != nil {
		return nil, fmt.Errorf("run accessible records query: %w", err)
	}

	var records []RecordStub
	for result.Next(ctx) {
		id, _ := result.Record().Get("id")
		recordID, ok := id.(string)
		if !ok || recordID == "" {
			continue
		}
		records = append(records, RecordStub{ID: recordID})
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("accessible records result error: %w", err)
	}

	logger.DebugContext(ctx, "resolved accessible records",
		"user_id", userID,
		"org_id", orgID,
		"count", len(records),
	)
	return records, nil
}

// GetDocument fetches one document from the named collection by record ID.
func (s *Neo4jStore) GetDocument(ctx context.Context, id, collection string) (map[string]any, error) {
	if s.driver == nil {
		return nil, fmt.Errorf("neo4j driver is nil")
	}

	label, ok := collectionLabels[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		fmt.Sprintf("MATCH (d:%s {recordId: $id}) RETURN properties(d) AS doc LIMIT 1", label),
		map[string]any{"id": id},
	)
	if err != nil {
		return nil, fmt.Errorf("run document query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("document result error: %w", err)
		}
		return nil, fmt.Errorf("document %q not found in %q", id, collection)
	}

	doc, _ := result.Record().Get("doc")
	props, ok := doc.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected document shape for %q", id)
	}
	return props, nil
}

// GetUserByUserID fetches a user document by its userId property.
func (s *Neo4jStore) GetUserByUserID(ctx context.Context, userID string) (map[string]any, error) {
	if s.driver == nil {
		return nil, fmt.Errorf("neo4j driver is nil")
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx,
		"MATCH (u:User {userId: $userId}) RETURN properties(u) AS user LIMIT 1",
		map[string]any{"userId": userID},
	)
	if err != nil {
		return nil, fmt.Errorf("run user query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("user result error: %w", err)
		}
		return nil, fmt.Errorf("user %q not found", userID)
	}

	user, _ := result.Record().Get("user")
	props, ok := user.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected user shape for %q", userID)
	}
	return props, nil
}

// sanitizeGroupName restricts a filter-group name to a safe property
// identifier; group names are interpolated into the query text because Neo4j
// does not parameterize property names.
func sanitizeGroupName(name string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var _ Store = (*Neo4jStore)(nil)
