package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"bank-chat-gateway/internal/domain"
)

// SQLiteStore persists conversation history in a local SQLite file.
type SQLiteStore struct {
	db    *sql.DB
	clock *clock
}

// OpenSQLite opens (creating if needed) the database at dbPath.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("repository: sqlite path must not be empty")
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("repository: create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("repository: open sqlite: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA busy_timeout=3000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("repository: apply %q: %w", p, err)
		}
	}
	if err := createTurnSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db, clock: newClock()}, nil
}

func createTurnSchema(db *sql.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS turns (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	role TEXT NOT NULL,
	message TEXT NOT NULL,
	ts TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_turns_user_seq ON turns (user_id, seq);
`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("repository: create schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AppendTurn(ctx context.Context, userID string, role domain.Role, message string) (domain.ConversationTurn, error) {
	if err := validateTurn(userID, role, message); err != nil {
		return domain.ConversationTurn{}, err
	}
	turn := newTurn(s.clock, userID, role, message)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, user_id, role, message, ts) VALUES (?, ?, ?, ?, ?)`,
		turn.ID, turn.UserID, string(turn.Role), turn.Message, turn.Timestamp)
	if err != nil {
		return domain.ConversationTurn{}, fmt.Errorf("repository: insert turn: %w", err)
	}
	return turn, nil
}

// RecentTurns returns the last limit turns of userID, oldest first. A
// non-positive limit returns the whole history.
func (s *SQLiteStore) RecentTurns(ctx context.Context, userID string, limit int) ([]domain.ConversationTurn, error) {
	query := `SELECT id, user_id, role, message, ts FROM turns WHERE user_id = ? ORDER BY seq DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository: query turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var (
			turn domain.ConversationTurn
			role string
			ts   time.Time
		)
		if err := rows.Scan(&turn.ID, &turn.UserID, &role, &turn.Message, &ts); err != nil {
			return nil, fmt.Errorf("repository: scan turn: %w", err)
		}
		turn.Role = domain.Role(role)
		turn.Timestamp = ts
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: iterate turns: %w", err)
	}
	reverse(turns)
	return turns, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
