package repository

import (
	"context"
	"sync"

	"bank-chat-gateway/internal/domain"
)

// MemoryStore keeps conversation history in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	turns map[string][]domain.ConversationTurn
	clock *clock
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		turns: make(map[string][]domain.ConversationTurn),
		clock: newClock(),
	}
}

func (m *MemoryStore) AppendTurn(_ context.Context, userID string, role domain.Role, message string) (domain.ConversationTurn, error) {
	if err := validateTurn(userID, role, message); err != nil {
		return domain.ConversationTurn{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	turn := newTurn(m.clock, userID, role, message)
	m.turns[userID] = append(m.turns[userID], turn)
	return turn, nil
}

// RecentTurns returns the last limit turns of userID, oldest first. A
// non-positive limit returns the whole history.
func (m *MemoryStore) RecentTurns(_ context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	turns := m.turns[userID]
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]domain.ConversationTurn, len(turns))
	copy(out, turns)
	return out, nil
}
