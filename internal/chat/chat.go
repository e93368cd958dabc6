// Package chat reconciles a local tutoring transcript against the
// server-confirmed history after each turn.
package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one transcript entry.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Transcript is an ordered message sequence. The authoritative copy lives
// server-side per (user, subject) session; the client holds a provisional
// mirror.
type Transcript []Message

// Clone returns an independent copy of the transcript.
func (t Transcript) Clone() Transcript {
	out := make(Transcript, len(t))
	copy(out, t)
	return out
}

// Sender submits one message for a session and returns the full
// server-confirmed transcript, not just the new reply.
type Sender interface {
	Send(ctx context.Context, userID, subject, message string) (Transcript, error)
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, userID, subject, message string) (Transcript, error)

func (f SenderFunc) Send(ctx context.Context, userID, subject, message string) (Transcript, error) {
	return f(ctx, userID, subject, message)
}

// ErrSendInFlight is returned when a send is attempted while another is
// outstanding for the same session. Interleaving is never allowed: applying
// an older response after a newer one would silently discard messages.
var ErrSendInFlight = errors.New("a chat send is already in flight for this session")

// ErrEmptyMessage rejects a blank message before any request is issued.
var ErrEmptyMessage = errors.New("message is empty")

// Reconciler owns the local transcript mirror for every session. It appends
// the user's message optimistically, submits it, and then either replaces
// the whole transcript with the server-confirmed one or rolls back exactly
// the optimistic message.
type Reconciler struct {
	sender Sender
	log    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	transcript Transcript
	inFlight   bool
}

// NewReconciler creates a reconciler over the given sender.
func NewReconciler(sender Sender, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{
		sender:   sender,
		log:      log,
		sessions: make(map[string]*session),
	}
}

func sessionKey(userID, subject string) string {
	return userID + "/" + subject
}

func (r *Reconciler) session(userID, subject string) *session {
	k := sessionKey(userID, subject)
	s, ok := r.sessions[k]
	if !ok {
		s = &session{}
		r.sessions[k] = s
	}
	return s
}

// Send submits one message and returns the reconciled transcript.
//
// The message is appended locally first so the caller can render it
// immediately via Transcript. On success the entire local transcript is
// replaced by the server's copy; the server is the single source of truth,
// there is no merging. On failure exactly the one optimistic message is
// removed and the error returned.
func (r *Reconciler) Send(ctx context.Context, userID, subject, message string) (Transcript, error) {
	if message == "" {
		return nil, ErrEmptyMessage
	}

	r.mu.Lock()
	s := r.session(userID, subject)
	if s.inFlight {
		r.mu.Unlock()
		return nil, ErrSendInFlight
	}
	s.inFlight = true
	s.transcript = append(s.transcript, Message{Role: RoleUser, Content: message})
	r.mu.Unlock()

	confirmed, err := r.sender.Send(ctx, userID, subject, message)

	r.mu.Lock()
	defer r.mu.Unlock()
	s.inFlight = false

	if err != nil {
		// Roll back only the optimistic append, not the whole transcript.
		s.transcript = s.transcript[:len(s.transcript)-1]
		r.log.Warn("chat send failed, optimistic message rolled back",
			zap.String("user_id", userID),
			zap.String("subject", subject),
			zap.Error(err))
		return nil, fmt.Errorf("send chat message: %w", err)
	}

	s.transcript = confirmed.Clone()
	return s.transcript.Clone(), nil
}

// Transcript returns a copy of the current local transcript for a session,
// including any optimistic message awaiting confirmation.
func (r *Reconciler) Transcript(userID, subject string) Transcript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session(userID, subject).transcript.Clone()
}

// Seed replaces the local transcript for a session, used when resuming a
// session from server history. Rejected while a send is in flight.
func (r *Reconciler) Seed(userID, subject string, t Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.session(userID, subject)
	if s.inFlight {
		return ErrSendInFlight
	}
	s.transcript = t.Clone()
	return nil
}
