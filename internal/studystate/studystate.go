// Package studystate holds the mutable session state shared across the CLI
// surfaces: the signed-in user, the subject in focus, and the latest analysis
// snapshot. It is an explicit store passed to consumers, with a defined
// init/reset lifecycle.
package studystate

import (
	"errors"
	"sync"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/profile"
)

// ErrNoUser is returned by accessors that require an initialized session.
var ErrNoUser = errors.New("no user session initialized")

// Store is the session state container. Safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	userID     string
	subject    string
	gradeLevel int

	prof     *profile.WeaknessProfile
	analysis *backend.PerformanceAnalysis
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{subject: "math", gradeLevel: 11}
}

// Init starts a session for the user, clearing any previous state.
func (s *Store) Init(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	s.subject = "math"
	s.gradeLevel = 11
	s.prof = nil
	s.analysis = nil
}

// Reset clears the session entirely.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = ""
	s.subject = "math"
	s.gradeLevel = 11
	s.prof = nil
	s.analysis = nil
}

// UserID returns the signed-in user, or ErrNoUser.
func (s *Store) UserID() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.userID == "" {
		return "", ErrNoUser
	}
	return s.userID, nil
}

// Subject returns the subject in focus.
func (s *Store) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.subject
}

// SetSubject switches the subject in focus and drops the analysis snapshot,
// which is per-subject.
func (s *Store) SetSubject(subject string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subject == s.subject {
		return
	}
	s.subject = subject
	s.prof = nil
	s.analysis = nil
}

// GradeLevel returns the user's grade level.
func (s *Store) GradeLevel() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gradeLevel
}

// SetGradeLevel records the user's grade level.
func (s *Store) SetGradeLevel(level int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gradeLevel = level
}

// SetAnalysis stores the latest analysis snapshot.
func (s *Store) SetAnalysis(res *backend.AnalysisResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if res == nil {
		s.prof = nil
		s.analysis = nil
		return
	}
	s.prof = res.Profile
	perf := res.Performance
	s.analysis = &perf
}

// Profile returns the latest weakness profile snapshot, nil when no analysis
// has run this session.
func (s *Store) Profile() *profile.WeaknessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prof
}

// Analysis returns the latest performance analysis snapshot, nil when no
// analysis has run this session.
func (s *Store) Analysis() *backend.PerformanceAnalysis {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}
