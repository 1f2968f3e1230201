package domain

import "time"

// Role identifies who authored a stored conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Valid reports whether r is one of the stored roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ConversationTurn is a single persisted message in a user's history.
type ConversationTurn struct {
	ID        string
	UserID    string
	Role      Role
	Message   string
	Timestamp time.Time
}

// Speaker is the author label understood by the language model.
type Speaker string

const (
	SpeakerUser  Speaker = "user"
	SpeakerModel Speaker = "model"
)

// ContextTurn is one entry of the conversational context sent to the model.
type ContextTurn struct {
	Speaker Speaker
	Text    string
}
