package domain

// Role identifies which side of the conversation produced a turn.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// TurnMessage is the JSON document stored per conversation turn.
type TurnMessage struct {
	Type    string         `json:"type"`
	Content string         `json:"content"`
	Data    map[string]any `json:"data,omitempty"`
}

// ConversationTurn is one appended row: immutable once stored, keyed by
// session. The core has no read, update, or delete path.
type ConversationTurn struct {
	SessionID string      `json:"session_id"`
	Message   TurnMessage `json:"message"`
}
