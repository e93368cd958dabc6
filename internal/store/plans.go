package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sevisconnect/edcore/internal/plans"
)

// InsertPlan stores a new study plan. Plans accumulate: inserting never
// replaces an earlier plan for the same user and subject.
func (s *Store) InsertPlan(ctx context.Context, p *plans.StudyPlan) error {
	var syllabus any
	if p.Syllabus != nil {
		b, err := json.Marshal(p.Syllabus)
		if err != nil {
			return err
		}
		syllabus = string(b)
	}
	weekPlan, err := json.Marshal(p.WeekPlan)
	if err != nil {
		return err
	}
	dailyTasks, err := json.Marshal(p.DailyTasks)
	if err != nil {
		return err
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO learning_paths
			(id, user_id, subject, syllabus, week_plan, daily_tasks, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Subject, syllabus, string(weekPlan), string(dailyTasks),
		string(p.Status), p.CreatedAt)
	return err
}

// ListPlans returns all study plans for a user and subject, newest first.
func (s *Store) ListPlans(ctx context.Context, userID, subject string) ([]*plans.StudyPlan, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, subject, syllabus, week_plan, daily_tasks, status, created_at
		FROM learning_paths
		WHERE user_id = ? AND subject = ?
		ORDER BY created_at DESC`, userID, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*plans.StudyPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeletePlan removes a plan owned by the user. Returns ErrNotFound when no
// matching row exists.
func (s *Store) DeletePlan(ctx context.Context, planID, userID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM learning_paths WHERE id = ? AND user_id = ?`, planID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type planScanner interface {
	Scan(dest ...any) error
}

func scanPlan(row planScanner) (*plans.StudyPlan, error) {
	var p plans.StudyPlan
	var syllabus *string
	var weekPlan, dailyTasks, status string
	err := row.Scan(&p.ID, &p.UserID, &p.Subject, &syllabus, &weekPlan,
		&dailyTasks, &status, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if syllabus != nil {
		if err := json.Unmarshal([]byte(*syllabus), &p.Syllabus); err != nil {
			return nil, err
		}
	}
	if err := json.Unmarshal([]byte(weekPlan), &p.WeekPlan); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(dailyTasks), &p.DailyTasks); err != nil {
		return nil, err
	}
	p.Status = plans.Status(status)
	return &p, nil
}
