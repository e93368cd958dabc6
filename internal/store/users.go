package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound indicates the requested row does not exist.
var ErrNotFound = errors.New("store: not found")

// User is a learner account.
type User struct {
	ID         string
	Name       string
	GradeLevel int
	School     string
	CreatedAt  time.Time
}

// EnsureUser inserts the user if it doesn't exist and returns the stored row.
func (s *Store) EnsureUser(ctx context.Context, u User) (User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if u.GradeLevel == 0 {
		u.GradeLevel = 11
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, grade_level, school, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING`,
		u.ID, u.Name, u.GradeLevel, u.School, u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return s.GetUser(ctx, u.ID)
}

// GetUser loads a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, grade_level, school, created_at
		FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.GradeLevel, &u.School, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, err
	}
	return u, nil
}
