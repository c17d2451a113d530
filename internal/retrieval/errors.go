package retrieval

import "fmt"

// AuthorizationError indicates the accessible-record set could not be
// resolved; the whole search step fails with it.
type AuthorizationError struct {
	Err error
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("authorization resolution failed: %v", e.Err)
}

func (e *AuthorizationError) Unwrap() error { return e.Err }

// RetrievalError indicates a vector-index or record-lookup failure; no
// partial search results are returned alongside it.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
