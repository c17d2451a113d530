package storage

import "time"

// Conversation groups the turns of one chat thread for a user in an org.
type Conversation struct {
	ID        string
	UserID    string
	OrgID     string
	CreatedAt time.Time
}

// Turn is one recorded exchange turn. Role uses the API's convention:
// "user_query" for the caller's message, "bot_response" for the answer.
type Turn struct {
	ID             string
	ConversationID string
	TurnIndex      int
	Role           string
	Content        string
	CreatedAt      time.Time
}
