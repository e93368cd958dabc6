// Package local runs the full collaborator surface in-process: diagnostics,
// analysis, plan generation, and the tutoring chat against a SQLite store
// and a model provider. It mirrors the remote server's semantics so the
// orchestration layer cannot tell the two apart.
package local

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/chat"
	"github.com/sevisconnect/edcore/internal/plans"
	"github.com/sevisconnect/edcore/internal/profile"
	"github.com/sevisconnect/edcore/internal/progress"
	"github.com/sevisconnect/edcore/internal/scoring"
	"github.com/sevisconnect/edcore/internal/store"
	"github.com/sevisconnect/edcore/internal/tutor"
)

// defaultSubject is assumed when an operation has no subject parameter.
const defaultSubject = "math"

// analysisConfidence is the confidence recorded when the profile comes from
// actual performance records rather than a model analysis.
const analysisConfidence = 0.9

// Engine implements backend.Service against the local store and tutor.
type Engine struct {
	store *store.Store
	tutor *tutor.Service
	log   *zap.Logger
}

var _ backend.Service = (*Engine)(nil)

// NewEngine creates a local engine.
func NewEngine(st *store.Store, tu *tutor.Service, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{store: st, tutor: tu, log: log}
}

// SubmitDiagnostic stores a complete batch of scored answers.
func (e *Engine) SubmitDiagnostic(ctx context.Context, userID string, answers []scoring.DiagnosticAnswer) (*backend.SubmitResult, error) {
	if len(answers) == 0 {
		return nil, &backend.Error{Op: "submit diagnostic", Message: "no answers submitted"}
	}
	if _, err := e.store.EnsureUser(ctx, store.User{ID: userID}); err != nil {
		return nil, &backend.Error{Op: "submit diagnostic", Err: err}
	}
	ids, err := e.store.InsertDiagnostics(ctx, userID, answers)
	if err != nil {
		return nil, &backend.Error{Op: "submit diagnostic", Err: err}
	}
	return &backend.SubmitResult{
		DiagnosticID: ids[0],
		Count:        len(answers),
		Diagnostics:  answers,
	}, nil
}

// AnalyzePerformance builds a fresh weakness profile and supersedes the
// stored one.
//
// Progress records are the primary source: topic averages come straight from
// the database, with high confidence. When no progress exists the analysis
// falls back to the model over stored diagnostics. With neither, the call
// fails.
func (e *Engine) AnalyzePerformance(ctx context.Context, userID string) (*backend.AnalysisResult, error) {
	records, err := e.store.ListProgress(ctx, userID, defaultSubject)
	if err != nil {
		return nil, &backend.Error{Op: "analyze performance", Err: err}
	}
	if len(records) > 0 {
		return e.analyzeFromProgress(ctx, userID, records)
	}

	diags, err := e.store.ListDiagnostics(ctx, userID, defaultSubject)
	if err != nil {
		return nil, &backend.Error{Op: "analyze performance", Err: err}
	}
	if len(diags) == 0 {
		return nil, &backend.Error{
			Op:      "analyze performance",
			Message: "no academic performance data found",
		}
	}
	return e.analyzeFromDiagnostics(ctx, userID, diags)
}

func (e *Engine) analyzeFromProgress(ctx context.Context, userID string, records []progress.Record) (*backend.AnalysisResult, error) {
	sum := progress.Aggregate(records)
	prof := profile.Classify(userID, defaultSubject, sum.Overall, sum.Stats, analysisConfidence)
	if err := e.store.UpsertProfile(ctx, prof); err != nil {
		return nil, &backend.Error{Op: "analyze performance", Err: err}
	}

	analysis := backend.PerformanceAnalysis{
		OverallScore:     sum.Overall,
		TopicScores:      make(map[string]backend.TopicScore, len(sum.Stats)),
		IsPoorPerforming: progress.IsPoorPerforming(sum.Overall, profile.WeakTopicCount(sum.Stats)),
	}
	for _, s := range sum.Stats {
		analysis.TopicScores[s.Topic] = backend.TopicScore{
			Average:      s.Average,
			RecordsCount: s.SampleCount,
			Min:          s.Min,
			Max:          s.Max,
		}
		if s.Average < profile.WeaknessThreshold {
			analysis.WeakTopics = append(analysis.WeakTopics, s.Topic)
		} else {
			analysis.StrongTopics = append(analysis.StrongTopics, s.Topic)
		}
	}

	e.log.Debug("performance analysis from progress records",
		zap.String("user_id", userID),
		zap.Float64("overall", sum.Overall),
		zap.Int("topics", len(sum.Stats)))
	return &backend.AnalysisResult{Profile: prof, Performance: analysis}, nil
}

func (e *Engine) analyzeFromDiagnostics(ctx context.Context, userID string, diags []scoring.DiagnosticAnswer) (*backend.AnalysisResult, error) {
	gradeLevel := 11
	if u, err := e.store.GetUser(ctx, userID); err == nil {
		gradeLevel = u.GradeLevel
	}

	analysis := e.tutor.AnalyzeWeaknesses(ctx, diags, &tutor.PerformanceContext{GradeLevel: gradeLevel})

	prof := &profile.WeaknessProfile{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Subject:               defaultSubject,
		Weaknesses:            analysis.Weaknesses,
		Strengths:             analysis.Strengths,
		BaselineScore:         analysis.BaselineScore,
		ConfidenceScore:       analysis.ConfidenceScore,
		RecommendedDifficulty: analysis.RecommendedDifficulty,
		CreatedAt:             time.Now().UTC(),
	}
	if err := e.store.UpsertProfile(ctx, prof); err != nil {
		return nil, &backend.Error{Op: "analyze performance", Err: err}
	}

	perf := backend.PerformanceAnalysis{
		OverallScore: analysis.BaselineScore,
		TopicScores:  map[string]backend.TopicScore{},
	}
	for topic, score := range analysis.Weaknesses {
		perf.WeakTopics = append(perf.WeakTopics, topic)
		perf.TopicScores[topic] = backend.TopicScore{Average: score}
	}
	for topic, score := range analysis.Strengths {
		perf.StrongTopics = append(perf.StrongTopics, topic)
		perf.TopicScores[topic] = backend.TopicScore{Average: score}
	}
	perf.IsPoorPerforming = progress.IsPoorPerforming(analysis.BaselineScore, len(perf.WeakTopics))

	return &backend.AnalysisResult{Profile: prof, Performance: perf}, nil
}

// GeneratePlan runs the two model generation steps and stores the result as
// a new plan. Requires an existing weakness profile. Earlier plans for the
// same user and subject are kept.
func (e *Engine) GeneratePlan(ctx context.Context, userID, subject string) (*plans.StudyPlan, error) {
	if subject == "" {
		subject = defaultSubject
	}

	prof, err := e.store.GetProfile(ctx, userID, subject)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &backend.Error{
			Op:      "generate plan",
			Message: "weakness profile not found, analyze performance first",
		}
	}
	if err != nil {
		return nil, &backend.Error{Op: "generate plan", Err: err}
	}

	records, err := e.store.ListProgress(ctx, userID, subject)
	if err != nil {
		return nil, &backend.Error{Op: "generate plan", Err: err}
	}
	topicScores := map[string]float64{}
	for _, topic := range progress.Topics {
		if stat, ok := progress.AggregateTopic(records, topic); ok {
			topicScores[topic] = stat.Average
		}
	}

	gradeLevel := 11
	if u, err := e.store.GetUser(ctx, userID); err == nil {
		gradeLevel = u.GradeLevel
	}

	plan := e.tutor.GenerateStudyPlan(ctx, prof, gradeLevel, topicScores)
	plan.Subject = subject
	if err := e.store.InsertPlan(ctx, plan); err != nil {
		return nil, &backend.Error{Op: "generate plan", Err: err}
	}
	return plan, nil
}

// ListPlans returns stored plans, newest first.
func (e *Engine) ListPlans(ctx context.Context, userID, subject string) ([]*plans.StudyPlan, error) {
	if subject == "" {
		subject = defaultSubject
	}
	out, err := e.store.ListPlans(ctx, userID, subject)
	if err != nil {
		return nil, &backend.Error{Op: "list plans", Err: err}
	}
	return out, nil
}

// DeletePlan removes one plan owned by the user.
func (e *Engine) DeletePlan(ctx context.Context, planID, userID string) error {
	err := e.store.DeletePlan(ctx, planID, userID)
	if errors.Is(err, store.ErrNotFound) {
		return &backend.Error{Op: "delete plan", Message: "study plan not found"}
	}
	if err != nil {
		return &backend.Error{Op: "delete plan", Err: err}
	}
	return nil
}

// TutorChat appends one turn to the persisted session and returns the reply
// with the authoritative transcript.
func (e *Engine) TutorChat(ctx context.Context, userID, subject, message string) (*backend.TutorChatResult, error) {
	if message == "" {
		return nil, &backend.Error{Op: "tutor chat", Message: "message is required"}
	}
	if subject == "" {
		subject = defaultSubject
	}

	session, err := e.store.GetChatSession(ctx, userID, subject)
	if errors.Is(err, store.ErrNotFound) {
		session = &store.ChatSession{UserID: userID, Subject: subject}
	} else if err != nil {
		return nil, &backend.Error{Op: "tutor chat", Err: err}
	}

	cctx := tutor.ChatContext{Subject: subject, GradeLevel: 11}
	if u, err := e.store.GetUser(ctx, userID); err == nil {
		cctx.GradeLevel = u.GradeLevel
	}
	if prof, err := e.store.GetProfile(ctx, userID, subject); err == nil {
		cctx.Weaknesses = prof.Weaknesses
	}

	reply := e.tutor.Chat(ctx, message, session.Messages, cctx)

	session.Messages = append(session.Messages,
		chat.Message{Role: chat.RoleUser, Content: message},
		chat.Message{Role: chat.RoleAssistant, Content: reply})
	if err := e.store.SaveChatSession(ctx, session); err != nil {
		return nil, &backend.Error{Op: "tutor chat", Err: err}
	}

	return &backend.TutorChatResult{
		Response:  reply,
		SessionID: session.ID,
		History:   session.Messages.Clone(),
	}, nil
}

// GetProgress returns performance records, newest first.
func (e *Engine) GetProgress(ctx context.Context, userID, subject string) ([]progress.Record, error) {
	if subject == "" {
		subject = defaultSubject
	}
	out, err := e.store.ListProgress(ctx, userID, subject)
	if err != nil {
		return nil, &backend.Error{Op: "get progress", Err: err}
	}
	return out, nil
}

// GenerateQuiz produces practice questions for one topic at the difficulty
// recommended by the stored profile, or the given one.
func (e *Engine) GenerateQuiz(ctx context.Context, userID, topic, subject, difficulty string, numQuestions int) []tutor.QuizQuestion {
	if subject == "" {
		subject = defaultSubject
	}
	if difficulty == "" {
		difficulty = string(profile.DifficultyBeginner)
		if prof, err := e.store.GetProfile(ctx, userID, subject); err == nil {
			difficulty = string(prof.RecommendedDifficulty)
		}
	}
	return e.tutor.GenerateQuiz(ctx, topic, subject, difficulty, numQuestions)
}

// RecordProgress stores one metric observation, used by the CLI to seed
// performance data.
func (e *Engine) RecordProgress(ctx context.Context, userID string, rec progress.Record) error {
	if _, err := e.store.EnsureUser(ctx, store.User{ID: userID}); err != nil {
		return &backend.Error{Op: "record progress", Err: err}
	}
	if _, err := e.store.InsertProgress(ctx, userID, rec); err != nil {
		return &backend.Error{Op: "record progress", Err: err}
	}
	return nil
}
