package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/sevisconnect/edcore/internal/profile"
)

// UpsertProfile stores the weakness profile, replacing any existing profile
// for the same user and subject.
func (s *Store) UpsertProfile(ctx context.Context, p *profile.WeaknessProfile) error {
	weaknesses, err := json.Marshal(p.Weaknesses)
	if err != nil {
		return err
	}
	strengths, err := json.Marshal(p.Strengths)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weakness_profiles
			(id, user_id, subject, weaknesses, strengths, baseline_score,
			 confidence_score, recommended_difficulty, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, subject) DO UPDATE SET
			weaknesses = excluded.weaknesses,
			strengths = excluded.strengths,
			baseline_score = excluded.baseline_score,
			confidence_score = excluded.confidence_score,
			recommended_difficulty = excluded.recommended_difficulty,
			created_at = excluded.created_at`,
		p.ID, p.UserID, p.Subject, string(weaknesses), string(strengths),
		p.BaselineScore, p.ConfidenceScore, string(p.RecommendedDifficulty), p.CreatedAt)
	return err
}

// GetProfile loads the weakness profile for a user and subject.
func (s *Store) GetProfile(ctx context.Context, userID, subject string) (*profile.WeaknessProfile, error) {
	var p profile.WeaknessProfile
	var weaknesses, strengths, difficulty string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, subject, weaknesses, strengths, baseline_score,
		       confidence_score, recommended_difficulty, created_at
		FROM weakness_profiles
		WHERE user_id = ? AND subject = ?`, userID, subject).
		Scan(&p.ID, &p.UserID, &p.Subject, &weaknesses, &strengths,
			&p.BaselineScore, &p.ConfidenceScore, &difficulty, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(weaknesses), &p.Weaknesses); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(strengths), &p.Strengths); err != nil {
		return nil, err
	}
	p.RecommendedDifficulty = profile.Difficulty(difficulty)
	return &p, nil
}
