// Package session persists conversation sessions and their query/answer
// exchanges, and renders the recent history block used in the system prompt.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/coursemind/coursemind/pkg/uuid"
)

const defaultMaxHistory = 2

// Store is the SQLite-backed session store.
type Store struct {
	db         *sql.DB
	maxHistory int // exchanges included in History
}

// NewStore creates a session store. maxHistory <= 0 falls back to 2.
func NewStore(db *sql.DB, maxHistory int) *Store {
	if maxHistory <= 0 {
		maxHistory = defaultMaxHistory
	}
	return &Store{db: db, maxHistory: maxHistory}
}

// Create starts a new session and returns its id.
func (s *Store) Create(ctx context.Context) (string, error) {
	id := uuid.NewV7().String()
	if _, err := s.db.ExecContext(ctx, "INSERT INTO sessions (id) VALUES (?)", id); err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	return id, nil
}

// AddExchange records one completed query/answer pair. The session row is
// created on demand so client-supplied ids survive a database reset.
func (s *Store) AddExchange(ctx context.Context, sessionID, userMessage, assistantMessage string) error {
	if _, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO sessions (id) VALUES (?)", sessionID,
	); err != nil {
		return fmt.Errorf("session %s: ensure: %w", sessionID, err)
	}
	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO session_exchanges (session_id, user_message, assistant_message) VALUES (?, ?, ?)",
		sessionID, userMessage, assistantMessage,
	); err != nil {
		return fmt.Errorf("session %s: add exchange: %w", sessionID, err)
	}
	return nil
}

// History renders the last maxHistory exchanges, oldest first, as
//
//	User: <question>
//	Assistant: <answer>
//
// blocks joined by newlines. Returns "" for an unknown or empty session.
func (s *Store) History(ctx context.Context, sessionID string) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_message, assistant_message FROM session_exchanges
		 WHERE session_id = ? ORDER BY id DESC LIMIT ?`,
		sessionID, s.maxHistory,
	)
	if err != nil {
		return "", fmt.Errorf("session %s: history: %w", sessionID, err)
	}
	defer rows.Close()

	var exchanges [][2]string
	for rows.Next() {
		var user, assistant string
		if err := rows.Scan(&user, &assistant); err != nil {
			return "", fmt.Errorf("session %s: scan exchange: %w", sessionID, err)
		}
		exchanges = append(exchanges, [2]string{user, assistant})
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	// Query returned newest-first; render oldest-first.
	var lines []string
	for i := len(exchanges) - 1; i >= 0; i-- {
		lines = append(lines, "User: "+exchanges[i][0])
		lines = append(lines, "Assistant: "+exchanges[i][1])
	}
	return strings.Join(lines, "\n"), nil
}

// Clear deletes a session and its exchanges.
func (s *Store) Clear(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("session %s: clear: %w", sessionID, err)
	}
	return nil
}
