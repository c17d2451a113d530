package permissions

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_store.go -package=mocks github.com/rohilbansal-pipeshub/pipeshub-ai/internal/permissions Store

import "context"

// Graph collections holding record documents and their type-specific side
// documents. The indexing pipeline owns the schema; this package only reads.
const (
	CollectionRecords = "records"
	CollectionFiles   = "files"
	CollectionMails   = "mails"
	CollectionUsers   = "users"
)

// Record type discriminators stored on record documents.
const (
	RecordTypeFile = "FILE"
	RecordTypeMail = "MAIL"
)

// RecordStub is the minimal projection of an accessible record.
type RecordStub struct {
	ID string
}

// Store is the permission/document lookup contract against the graph store.
// This interface is defined from the retrieval layer's perspective.
type Store interface {
	// GetAccessibleRecords returns the records the (userID, orgID) pair may
	// read, optionally narrowed by metadata filter groups. Filter-group keys
	// are lowercase metadata names (e.g. "departments"); groups are ANDed,
	// values within a group ORed.
	GetAccessibleRecords(ctx context.Context, userID, orgID string, filters map[string][]string) ([]RecordStub, error)

	// GetDocument fetches one document from the named collection by record ID.
	GetDocument(ctx context.Context, id, collection string) (map[string]any, error)

	// GetUserByUserID fetches a user document with at least an "email" field.
	GetUserByUserID(ctx context.Context, userID string) (map[string]any, error)
}
