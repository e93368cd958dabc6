package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sevisconnect/edcore/internal/chat"
	"github.com/sevisconnect/edcore/internal/plans"
	"github.com/sevisconnect/edcore/internal/profile"
	"github.com/sevisconnect/edcore/internal/progress"
	"github.com/sevisconnect/edcore/internal/scoring"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEnsureUser_IdempotentWithDefaults(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u, err := s.EnsureUser(ctx, User{ID: "u1", Name: "Ayo"})
	require.NoError(t, err)
	require.Equal(t, "u1", u.ID)
	require.Equal(t, 11, u.GradeLevel)
	require.False(t, u.CreatedAt.IsZero())

	// A second ensure does not overwrite the stored row.
	again, err := s.EnsureUser(ctx, User{ID: "u1", Name: "Someone Else", GradeLevel: 9})
	require.NoError(t, err)
	require.Equal(t, "Ayo", again.Name)
	require.Equal(t, 11, again.GradeLevel)
}

func TestGetUser_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetUser(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiagnostics_RoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	answers := []scoring.DiagnosticAnswer{
		{
			Subject:         "math",
			Question:        "Solve 2x + 6 = 16",
			StudentAnswer:   "x=5",
			ReferenceAnswer: "x = 5",
			IsExactMatch:    true,
			Score:           1.0,
			ElapsedSeconds:  40,
		},
		{
			Subject:         "math",
			Question:        "Sum of triangle angles?",
			StudentAnswer:   "360",
			ReferenceAnswer: "180",
			IsExactMatch:    false,
			Score:           0.0,
			ElapsedSeconds:  15,
		},
	}
	ids, err := s.InsertDiagnostics(ctx, "u1", answers)
	require.NoError(t, err)
	require.Len(t, ids, 2)

	got, err := s.ListDiagnostics(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got, 2)

	byQuestion := map[string]scoring.DiagnosticAnswer{}
	for _, a := range got {
		byQuestion[a.Question] = a
	}
	first := byQuestion["Solve 2x + 6 = 16"]
	require.True(t, first.IsExactMatch)
	require.Equal(t, 1.0, first.Score)
	require.Equal(t, 40, first.ElapsedSeconds)
	second := byQuestion["Sum of triangle angles?"]
	require.False(t, second.IsExactMatch)
}

func TestDiagnostics_ScopedByUserAndSubject(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.InsertDiagnostics(ctx, "u1", []scoring.DiagnosticAnswer{{Subject: "math", Question: "q1"}})
	require.NoError(t, err)
	_, err = s.InsertDiagnostics(ctx, "u2", []scoring.DiagnosticAnswer{{Subject: "math", Question: "q2"}})
	require.NoError(t, err)

	got, err := s.ListDiagnostics(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "q1", got[0].Question)

	got, err = s.ListDiagnostics(ctx, "u1", "physics")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestProgress_NewestFirst(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	_, err := s.InsertProgress(ctx, "u1", progress.Record{
		Subject: "math", MetricName: "algebra_score", MetricValue: 60,
		RecordedAt: now.Add(-time.Hour),
	})
	require.NoError(t, err)
	_, err = s.InsertProgress(ctx, "u1", progress.Record{
		Subject: "math", MetricName: "algebra_score", MetricValue: 80,
		RecordedAt: now,
	})
	require.NoError(t, err)

	got, err := s.ListProgress(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 80.0, got[0].MetricValue)
	require.Equal(t, 60.0, got[1].MetricValue)
	require.NotEmpty(t, got[0].ID)
}

func TestProfile_UpsertReplaces(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	first := &profile.WeaknessProfile{
		ID:                    "p1",
		UserID:                "u1",
		Subject:               "math",
		Weaknesses:            map[string]float64{"algebra": 40},
		Strengths:             map[string]float64{"geometry": 85},
		BaselineScore:         62.5,
		ConfidenceScore:       0.9,
		RecommendedDifficulty: profile.DifficultyIntermediate,
		CreatedAt:             time.Now().UTC(),
	}
	require.NoError(t, s.UpsertProfile(ctx, first))

	got, err := s.GetProfile(ctx, "u1", "math")
	require.NoError(t, err)
	require.Equal(t, 40.0, got.Weaknesses["algebra"])
	require.Equal(t, profile.DifficultyIntermediate, got.RecommendedDifficulty)

	// A later profile for the same user/subject supersedes it entirely.
	second := &profile.WeaknessProfile{
		ID:                    "p2",
		UserID:                "u1",
		Subject:               "math",
		Weaknesses:            map[string]float64{},
		Strengths:             map[string]float64{"algebra": 78},
		BaselineScore:         78,
		ConfidenceScore:       0.9,
		RecommendedDifficulty: profile.DifficultyAdvanced,
		CreatedAt:             time.Now().UTC(),
	}
	require.NoError(t, s.UpsertProfile(ctx, second))

	got, err = s.GetProfile(ctx, "u1", "math")
	require.NoError(t, err)
	require.Empty(t, got.Weaknesses)
	require.Equal(t, 78.0, got.Strengths["algebra"])
}

func TestProfile_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetProfile(context.Background(), "u1", "math")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPlans_AccumulateAndDelete(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	older := &plans.StudyPlan{
		ID: "p1", UserID: "u1", Subject: "math",
		Syllabus: &plans.Syllabus{
			Title:   "Algebra refresher",
			Modules: []plans.Module{{Number: 1, Title: "Linear equations", Topics: []string{"algebra"}}},
		},
		WeekPlan:   map[string]plans.WeekPlan{"week_1": {Number: 1, Focus: "algebra"}},
		DailyTasks: map[string]plans.DailyTask{"day_1": {Lesson: "Solve linear equations"}},
		Status:     plans.StatusActive,
		CreatedAt:  now.Add(-time.Hour),
	}
	newer := &plans.StudyPlan{
		ID: "p2", UserID: "u1", Subject: "math",
		WeekPlan:   map[string]plans.WeekPlan{},
		DailyTasks: map[string]plans.DailyTask{},
		Status:     plans.StatusActive,
		CreatedAt:  now,
	}
	require.NoError(t, s.InsertPlan(ctx, older))
	require.NoError(t, s.InsertPlan(ctx, newer))

	got, err := s.ListPlans(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got, 2, "plans accumulate, they are never replaced")
	require.Equal(t, "p2", got[0].ID)

	require.Equal(t, "Algebra refresher", got[1].Syllabus.Title)
	require.Len(t, got[1].Syllabus.Modules, 1)
	require.Equal(t, "algebra", got[1].WeekPlan["week_1"].Focus)
	require.Nil(t, got[0].Syllabus)

	require.NoError(t, s.DeletePlan(ctx, "p1", "u1"))
	got, err = s.ListPlans(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestDeletePlan_NotFound(t *testing.T) {
	s := testStore(t)
	err := s.DeletePlan(context.Background(), "missing", "u1")
	require.ErrorIs(t, err, ErrNotFound)

	// Wrong owner is also not found.
	require.NoError(t, s.InsertPlan(context.Background(), &plans.StudyPlan{
		ID: "p1", UserID: "u1", Subject: "math",
		WeekPlan:   map[string]plans.WeekPlan{},
		DailyTasks: map[string]plans.DailyTask{},
		Status:     plans.StatusActive,
	}))
	err = s.DeletePlan(context.Background(), "p1", "u2")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestChatSession_UpsertRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	cs := &ChatSession{
		UserID:  "u1",
		Subject: "math",
		Messages: chat.Transcript{
			{Role: chat.RoleUser, Content: "hi"},
			{Role: chat.RoleAssistant, Content: "hello"},
		},
	}
	require.NoError(t, s.SaveChatSession(ctx, cs))
	require.NotEmpty(t, cs.ID, "a missing session ID is assigned on save")

	got, err := s.GetChatSession(ctx, "u1", "math")
	require.NoError(t, err)
	require.Equal(t, cs.ID, got.ID)
	require.Len(t, got.Messages, 2)

	// Saving again for the same user/subject replaces the transcript.
	cs.Messages = append(cs.Messages,
		chat.Message{Role: chat.RoleUser, Content: "next"},
		chat.Message{Role: chat.RoleAssistant, Content: "reply"},
	)
	require.NoError(t, s.SaveChatSession(ctx, cs))

	got, err = s.GetChatSession(ctx, "u1", "math")
	require.NoError(t, err)
	require.Len(t, got.Messages, 4)
	require.Equal(t, "reply", got.Messages[3].Content)
}

func TestChatSession_NotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetChatSession(context.Background(), "u1", "math")
	require.ErrorIs(t, err, ErrNotFound)
}
