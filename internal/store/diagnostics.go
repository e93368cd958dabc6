package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sevisconnect/edcore/internal/scoring"
)

// InsertDiagnostics records a batch of scored diagnostic answers in a single
// transaction. Returns the stored row IDs in input order.
func (s *Store) InsertDiagnostics(ctx context.Context, userID string, answers []scoring.DiagnosticAnswer) ([]string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	ids := make([]string, 0, len(answers))
	for _, a := range answers {
		id := uuid.NewString()
		isCorrect := 0
		if a.IsExactMatch {
			isCorrect = 1
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics
				(id, user_id, subject, question, student_answer, correct_answer,
				 is_correct, score, time_taken_seconds, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, userID, a.Subject, a.Question, a.StudentAnswer, a.ReferenceAnswer,
			isCorrect, a.Score, a.ElapsedSeconds, now)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListDiagnostics returns a user's diagnostic answers for a subject,
// newest first.
func (s *Store) ListDiagnostics(ctx context.Context, userID, subject string) ([]scoring.DiagnosticAnswer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT subject, question, student_answer, correct_answer,
		       is_correct, score, time_taken_seconds
		FROM diagnostics
		WHERE user_id = ? AND subject = ?
		ORDER BY created_at DESC`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []scoring.DiagnosticAnswer
	for rows.Next() {
		var a scoring.DiagnosticAnswer
		var isCorrect int
		if err := rows.Scan(&a.Subject, &a.Question, &a.StudentAnswer,
			&a.ReferenceAnswer, &isCorrect, &a.Score, &a.ElapsedSeconds); err != nil {
			return nil, err
		}
		a.IsExactMatch = isCorrect != 0
		out = append(out, a)
	}
	return out, rows.Err()
}
