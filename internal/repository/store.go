package repository

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"bank-chat-gateway/internal/domain"
)

// clock hands out timestamps that strictly increase for one store instance, so
// turns appended within the same clock tick keep their append order.
type clock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func newClock() *clock {
	return &clock{now: time.Now}
}

func (c *clock) next() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC()
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

func validateTurn(userID string, role domain.Role, message string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.New("repository: user id must not be empty")
	}
	if !role.Valid() {
		return errors.New("repository: role must be user or assistant")
	}
	if strings.TrimSpace(message) == "" {
		return errors.New("repository: message must not be empty")
	}
	return nil
}

func newTurn(c *clock, userID string, role domain.Role, message string) domain.ConversationTurn {
	return domain.ConversationTurn{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Message:   message,
		Timestamp: c.next(),
	}
}

func reverse(turns []domain.ConversationTurn) {
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
}
