package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_conversation_store.go -package=mocks github.com/rohilbansal-pipeshub/pipeshub-ai/internal/storage ConversationStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ConversationStore defines the interface for conversation persistence.
type ConversationStore interface {
	// GetOrCreate returns the conversation with the given ID, creating it
	// first if it does not exist. An empty ID creates a fresh conversation
	// with a generated ID.
	GetOrCreate(ctx context.Context, id, userID, orgID string) (*Conversation, error)
	// AppendTurn records one turn at the end of the conversation.
	AppendTurn(ctx context.Context, conversationID, role, content string) error
	// ListTurns returns the conversation's turns in chronological order.
	ListTurns(ctx context.Context, conversationID string) ([]Turn, error)
}

// ConversationRepo provides methods for conversation operations.
// It implements the ConversationStore interface.
type ConversationRepo struct {
	db *sql.DB
}

// NewConversationRepo creates a new ConversationRepo.
func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetOrCreate returns the conversation with the given ID, creating it first
// if it does not exist.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, id, userID, orgID string) (*Conversation, error) {
	if id == "" {
		id = uuid.New().String()
	}

	var conv Conversation
	var createdAtStr string
	err := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, org_id, created_at FROM conversations WHERE id = ?",
		id,
	).Scan(&conv.ID, &conv.UserID, &conv.OrgID, &createdAtStr)

	if err == sql.ErrNoRows {
		_, err = r.db.ExecContext(ctx,
			"INSERT INTO conversations (id, user_id, org_id) VALUES (?, ?, ?)",
			id, userID, orgID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create conversation: %w", err)
		}
		return &Conversation{ID: id, UserID: userID, OrgID: orgID, CreatedAt: time.Now()}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query conversation: %w", err)
	}

	conv.CreatedAt, err = parseTimestamp(createdAtStr)
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// AppendTurn records one turn at the end of the conversation. Turn ordering
// uses a per-conversation index so chronological order survives coarse
// timestamp resolution.
func (r *ConversationRepo) AppendTurn(ctx context.Context, conversationID, role, content string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO conversation_turns (id, conversation_id, turn_index, role, content)
		 VALUES (?, ?, (SELECT COALESCE(MAX(turn_index), -1) + 1 FROM conversation_turns WHERE conversation_id = ?), ?, ?)`,
		uuid.New().String(), conversationID, conversationID, role, content,
	)
	if err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}
	return nil
}

// ListTurns returns the conversation's turns in chronological order.
func (r *ConversationRepo) ListTurns(ctx context.Context, conversationID string) ([]Turn, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, conversation_id, turn_index, role, content, created_at
		 FROM conversation_turns WHERE conversation_id = ? ORDER BY turn_index`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var turns []Turn
	for rows.Next() {
		var turn Turn
		var createdAtStr string
		if err := rows.Scan(&turn.ID, &turn.ConversationID, &turn.TurnIndex, &turn.Role, &turn.Content, &createdAtStr); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		turn.CreatedAt, err = parseTimestamp(createdAtStr)
		if err != nil {
			return nil, err
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate turns: %w", err)
	}
	return turns, nil
}

// parseTimestamp handles the DATETIME formats SQLite may emit.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp: %w", err)
	}
	return t, nil
}
