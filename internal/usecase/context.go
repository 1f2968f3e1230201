package usecase

import (
	"context"

	"bank-chat-gateway/internal/domain"
)

// DefaultContextTurns is how many stored turns are replayed to the model.
const DefaultContextTurns = 10

// HistoryReader is the read side of the history store.
type HistoryReader interface {
	RecentTurns(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error)
}

// ContextAssembler builds the conversation sent to the language model.
type ContextAssembler struct {
	history HistoryReader
	limit   int
}

func NewContextAssembler(history HistoryReader, limit int) *ContextAssembler {
	if limit <= 0 {
		limit = DefaultContextTurns
	}
	return &ContextAssembler{history: history, limit: limit}
}

// Build returns the user's most recent stored turns, oldest first, followed by
// message. The stored history may already hold message when the caller
// persisted it before building; it is appended regardless. A history read
// failure is returned alongside a context holding only message.
func (a *ContextAssembler) Build(ctx context.Context, userID, message string) ([]domain.ContextTurn, error) {
	var (
		stored []domain.ConversationTurn
		err    error
	)
	if a.history != nil {
		stored, err = a.history.RecentTurns(ctx, userID, a.limit)
		if err != nil {
			stored = nil
			err = newError(ErrorPersistence, "history_read_error", err)
		}
	}

	turns := make([]domain.ContextTurn, 0, len(stored)+1)
	for _, t := range stored {
		turns = append(turns, domain.ContextTurn{Speaker: speakerFor(t.Role), Text: t.Message})
	}
	turns = append(turns, domain.ContextTurn{Speaker: domain.SpeakerUser, Text: message})
	return turns, err
}

func speakerFor(role domain.Role) domain.Speaker {
	if role == domain.RoleUser {
		return domain.SpeakerUser
	}
	return domain.SpeakerModel
}
