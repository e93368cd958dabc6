package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/sevisconnect/edcore/internal/chat"
)

// ChatSession is the persisted tutoring conversation for one user/subject.
type ChatSession struct {
	ID        string
	UserID    string
	Subject   string
	Messages  chat.Transcript
	UpdatedAt time.Time
}

// GetChatSession loads the session for a user and subject, or ErrNotFound.
func (s *Store) GetChatSession(ctx context.Context, userID, subject string) (*ChatSession, error) {
	var cs ChatSession
	var messages string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, messages, updated_at
		FROM chat_sessions
		WHERE user_id = ? AND subject = ?`, userID, subject).
		Scan(&cs.ID, &cs.UserID, &cs.Subject, &messages, &cs.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(messages), &cs.Messages); err != nil {
		return nil, err
	}
	return &cs, nil
}

// SaveChatSession upserts the session transcript. A missing ID is assigned.
func (s *Store) SaveChatSession(ctx context.Context, cs *ChatSession) error {
	if cs.ID == "" {
		cs.ID = uuid.NewString()
	}
	cs.UpdatedAt = time.Now().UTC()
	messages, err := json.Marshal(cs.Messages)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO chat_sessions (id, user_id, subject, messages, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id, subject) DO UPDATE SET
			messages = excluded.messages,
			updated_at = excluded.updated_at`,
		cs.ID, cs.UserID, cs.Subject, string(messages), cs.UpdatedAt)
	return err
}
