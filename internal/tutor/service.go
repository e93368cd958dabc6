package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sevisconnect/edcore/internal/chat"
	"github.com/sevisconnect/edcore/internal/llm"
	"github.com/sevisconnect/edcore/internal/plans"
	"github.com/sevisconnect/edcore/internal/profile"
	"github.com/sevisconnect/edcore/internal/scoring"
)

// chatUnavailable is returned when the model cannot serve a chat turn.
const chatUnavailable = "I apologize, but the AI tutor service is not currently available. Please try again later."

// Service runs the model-backed tutoring operations. A nil provider selects
// the deterministic fallbacks everywhere, so the service stays usable without
// an API key.
type Service struct {
	provider llm.Provider
	cfg      Config
	log      *zap.Logger
}

// NewService creates a tutoring service.
func NewService(provider llm.Provider, cfg Config, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, log: log}
}

// AnalyzeWeaknesses derives a weakness analysis from scored diagnostic
// answers, optionally informed by academic performance data.
//
// Analysis never fails outright: when the model is unavailable or errors,
// the result falls back to the diagnostic baseline with empty topic maps and
// confidence 0.5, mirroring what the caller can compute locally.
func (s *Service) AnalyzeWeaknesses(ctx context.Context, answers []scoring.DiagnosticAnswer, perf *PerformanceContext) *Analysis {
	baseline := diagnosticBaseline(answers)
	if s.provider == nil {
		return fallbackAnalysis(baseline, perf)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeAnalysis)
	req := llm.Request{
		System: analysisSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAnalysisUserMessage(answers, baseline, perf)},
		},
		Schema:      AnalysisSchema,
		MaxTokens:   s.cfg.AnalysisMaxTokens,
		Temperature: s.cfg.AnalysisTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("weakness analysis failed, using diagnostic baseline", zap.Error(err))
		return fallbackAnalysis(baseline, perf)
	}

	var out Analysis
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		s.log.Warn("weakness analysis unparseable, using diagnostic baseline", zap.Error(err))
		return fallbackAnalysis(baseline, perf)
	}
	if out.Weaknesses == nil {
		out.Weaknesses = map[string]float64{}
	}
	if out.Strengths == nil {
		out.Strengths = map[string]float64{}
	}
	return &out
}

func diagnosticBaseline(answers []scoring.DiagnosticAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	correct := 0
	for _, a := range answers {
		if a.IsExactMatch {
			correct++
		}
	}
	return float64(correct) / float64(len(answers)) * 100
}

func fallbackAnalysis(diagnosticBaseline float64, perf *PerformanceContext) *Analysis {
	baseline := diagnosticBaseline
	if perf != nil && perf.RecordsCount > 0 {
		baseline = perf.Overall
	}
	return &Analysis{
		Weaknesses:            map[string]float64{},
		Strengths:             map[string]float64{},
		BaselineScore:         baseline,
		ConfidenceScore:       0.5,
		RecommendedDifficulty: profile.RecommendDifficulty(baseline),
	}
}

// GenerateStudyPlan runs the two generation steps: a syllabus outline first,
// then the detailed week plan with daily tasks. Both steps use the heavier
// plan model.
//
// Generation never fails outright either: when either step errors, the
// result is a fallback plan with no modules and no weeks, which callers
// detect via StudyPlan.IsSubstantive.
func (s *Service) GenerateStudyPlan(ctx context.Context, p *profile.WeaknessProfile, gradeLevel int, topicScores map[string]float64) *plans.StudyPlan {
	in := planInputFromProfile(p, gradeLevel, topicScores)
	if s.provider == nil {
		return fallbackPlan(p)
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeStudyPlan)

	syllabus, err := s.generateSyllabus(ctx, in)
	if err != nil {
		s.log.Warn("syllabus generation failed, returning fallback plan",
			zap.String("subject", p.Subject), zap.Error(err))
		return fallbackPlan(p)
	}

	weekPlan, dailyTasks, err := s.generateWeekPlan(ctx, in)
	if err != nil {
		s.log.Warn("week plan generation failed, returning fallback plan",
			zap.String("subject", p.Subject), zap.Error(err))
		return fallbackPlan(p)
	}

	return &plans.StudyPlan{
		ID:         uuid.NewString(),
		UserID:     p.UserID,
		Subject:    p.Subject,
		Syllabus:   syllabus,
		WeekPlan:   weekPlan,
		DailyTasks: dailyTasks,
		Status:     plans.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

func planInputFromProfile(p *profile.WeaknessProfile, gradeLevel int, topicScores map[string]float64) planInput {
	in := planInput{
		Subject:     p.Subject,
		GradeLevel:  gradeLevel,
		Difficulty:  string(p.RecommendedDifficulty),
		TopicScores: topicScores,
	}
	if in.GradeLevel == 0 {
		in.GradeLevel = 11
	}

	// Actual topic scores beat the profile's stored maps when available.
	if len(topicScores) > 0 {
		for _, topic := range sortedKeys(topicScores) {
			if topicScores[topic] < profile.WeaknessThreshold {
				in.WeakTopics = append(in.WeakTopics, topic)
			} else {
				in.StrongTopics = append(in.StrongTopics, topic)
			}
		}
		return in
	}

	in.WeakTopics = sortedKeys(p.Weaknesses)
	if len(in.WeakTopics) > 5 {
		in.WeakTopics = in.WeakTopics[:5]
	}
	in.StrongTopics = sortedKeys(p.Strengths)
	if len(in.StrongTopics) > 3 {
		in.StrongTopics = in.StrongTopics[:3]
	}
	return in
}

func (s *Service) generateSyllabus(ctx context.Context, in planInput) (*plans.Syllabus, error) {
	req := llm.Request{
		System: syllabusSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSyllabusUserMessage(in)},
		},
		Schema:      SyllabusSchema,
		Model:       s.cfg.PlanModel,
		MaxTokens:   s.cfg.SyllabusMaxTokens,
		Temperature: s.cfg.PlanTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("syllabus generation: %w", err)
	}

	var out plans.Syllabus
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse syllabus response: %w", err)
	}
	return &out, nil
}

func (s *Service) generateWeekPlan(ctx context.Context, in planInput) (map[string]plans.WeekPlan, map[string]plans.DailyTask, error) {
	req := llm.Request{
		System: weekPlanSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildWeekPlanUserMessage(in)},
		},
		Schema:      WeekPlanSchema,
		Model:       s.cfg.PlanModel,
		MaxTokens:   s.cfg.WeekPlanMaxTokens,
		Temperature: s.cfg.PlanTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, nil, fmt.Errorf("week plan generation: %w", err)
	}

	var out struct {
		WeekPlan   map[string]plans.WeekPlan  `json:"week_plan"`
		DailyTasks map[string]plans.DailyTask `json:"daily_tasks"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, nil, fmt.Errorf("parse week plan response: %w", err)
	}
	return out.WeekPlan, out.DailyTasks, nil
}

// fallbackPlan is the shape stored when generation fails: a syllabus with no
// modules and empty week and task maps. It persists like any plan but is
// never substantive.
func fallbackPlan(p *profile.WeaknessProfile) *plans.StudyPlan {
	return &plans.StudyPlan{
		ID:      uuid.NewString(),
		UserID:  p.UserID,
		Subject: p.Subject,
		Syllabus: &plans.Syllabus{
			Title:    fmt.Sprintf("%s syllabus", p.Subject),
			Overview: "Curriculum outline pending generation",
		},
		WeekPlan:   map[string]plans.WeekPlan{},
		DailyTasks: map[string]plans.DailyTask{},
		Status:     plans.StatusActive,
		CreatedAt:  time.Now().UTC(),
	}
}

// Chat produces one tutor reply given the message and trailing history.
// Only the last ten transcript messages are sent. Model failures surface as
// an apology message, not an error, so the conversation can continue.
func (s *Service) Chat(ctx context.Context, message string, history chat.Transcript, c ChatContext) string {
	if s.provider == nil {
		return chatUnavailable
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeTutorChat)

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	messages := make([]llm.Message, 0, len(window)+1)
	for _, m := range window {
		messages = append(messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: message})

	req := llm.Request{
		System:      buildChatSystemPrompt(c),
		Messages:    messages,
		MaxTokens:   s.cfg.ChatMaxTokens,
		Temperature: s.cfg.ChatTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("tutor chat failed", zap.String("subject", c.Subject), zap.Error(err))
		return "I apologize, but I'm having trouble responding right now. Please try again in a moment."
	}
	return string(resp.Content)
}

// GenerateQuiz produces practice questions for one topic. Failures yield an
// empty set.
func (s *Service) GenerateQuiz(ctx context.Context, topic, subject, difficulty string, numQuestions int) []QuizQuestion {
	if s.provider == nil {
		return nil
	}
	if numQuestions <= 0 {
		numQuestions = 5
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuiz)
	req := llm.Request{
		System: quizSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildQuizUserMessage(topic, subject, difficulty, numQuestions)},
		},
		Schema:      QuizSchema,
		MaxTokens:   s.cfg.QuizMaxTokens,
		Temperature: s.cfg.QuizTemperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		s.log.Warn("quiz generation failed", zap.String("topic", topic), zap.Error(err))
		return nil
	}

	var out struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		s.log.Warn("quiz response unparseable", zap.String("topic", topic), zap.Error(err))
		return nil
	}
	return out.Questions
}
