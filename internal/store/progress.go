package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/sevisconnect/edcore/internal/progress"
)

// InsertProgress records one progress metric observation.
func (s *Store) InsertProgress(ctx context.Context, userID string, rec progress.Record) (string, error) {
	id := uuid.NewString()
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO progress (id, user_id, subject, metric_name, metric_value, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, userID, rec.Subject, rec.MetricName, rec.MetricValue, rec.RecordedAt)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListProgress returns a user's progress records for a subject, newest first.
func (s *Store) ListProgress(ctx context.Context, userID, subject string) ([]progress.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, subject, metric_name, metric_value, recorded_at
		FROM progress
		WHERE user_id = ? AND subject = ?
		ORDER BY recorded_at DESC`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []progress.Record
	for rows.Next() {
		var r progress.Record
		if err := rows.Scan(&r.ID, &r.Subject, &r.MetricName, &r.MetricValue, &r.RecordedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
