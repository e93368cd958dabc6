// Package backend defines the collaborator contract the orchestration layer
// talks to: the service interface, the response envelope, and the typed
// payloads. Two implementations exist: backend/remote speaks HTTP to a
// server, backend/local runs the same operations in-process against a
// SQLite store and a model provider.
package backend

import (
	"context"

	"github.com/sevisconnect/edcore/internal/chat"
	"github.com/sevisconnect/edcore/internal/plans"
	"github.com/sevisconnect/edcore/internal/profile"
	"github.com/sevisconnect/edcore/internal/progress"
	"github.com/sevisconnect/edcore/internal/scoring"
)

// Service is the full collaborator surface. All methods are blocking and
// honor ctx cancellation; consumers that need only a slice of it declare
// their own narrow interface.
type Service interface {
	// SubmitDiagnostic stores a complete set of scored diagnostic answers.
	SubmitDiagnostic(ctx context.Context, userID string, answers []scoring.DiagnosticAnswer) (*SubmitResult, error)

	// AnalyzePerformance aggregates stored performance history into a fresh
	// weakness profile, superseding any previous one.
	AnalyzePerformance(ctx context.Context, userID string) (*AnalysisResult, error)

	// GeneratePlan produces a new study plan. Slow: 60-90s observed.
	GeneratePlan(ctx context.Context, userID, subject string) (*plans.StudyPlan, error)

	// ListPlans returns persisted plans, newest first.
	ListPlans(ctx context.Context, userID, subject string) ([]*plans.StudyPlan, error)

	// DeletePlan removes one plan.
	DeletePlan(ctx context.Context, planID, userID string) error

	// TutorChat submits one message and returns the full server-side
	// transcript for the session.
	TutorChat(ctx context.Context, userID, subject, message string) (*TutorChatResult, error)

	// GetProgress returns performance records, newest first.
	GetProgress(ctx context.Context, userID, subject string) ([]progress.Record, error)
}

// SubmitResult echoes a stored diagnostic submission.
type SubmitResult struct {
	DiagnosticID string                     `json:"diagnostic_id"`
	Count        int                        `json:"count"`
	Diagnostics  []scoring.DiagnosticAnswer `json:"diagnostics"`
}

// TopicScore is the per-topic breakdown reported by performance analysis.
type TopicScore struct {
	Average      float64 `json:"average"`
	RecordsCount int     `json:"records_count"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
}

// PerformanceAnalysis is the analysis block returned alongside the profile.
type PerformanceAnalysis struct {
	OverallScore     float64               `json:"overall_score"`
	TopicScores      map[string]TopicScore `json:"topic_scores"`
	WeakTopics       []string              `json:"weak_topics"`
	StrongTopics     []string              `json:"strong_topics"`
	IsPoorPerforming bool                  `json:"is_poor_performing"`
}

// AnalysisResult pairs the superseding profile with its analysis block.
type AnalysisResult struct {
	Profile     *profile.WeaknessProfile `json:"weakness_profile"`
	Performance PerformanceAnalysis      `json:"performance_analysis"`
}

// TutorChatResult carries the assistant reply and the authoritative
// transcript for the session.
type TutorChatResult struct {
	Response  string          `json:"response"`
	SessionID string          `json:"session_id"`
	History   chat.Transcript `json:"chat_history"`
}
