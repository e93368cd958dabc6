// Package tutor talks to the generative model: weakness analysis, two-step
// study plan generation, the tutoring chat, and practice quiz generation.
//
// Every operation degrades gracefully when the model is unavailable: analysis
// falls back to a diagnostic-only baseline, plan generation to an empty
// fallback plan, chat to an apology message, and quizzes to an empty set.
package tutor

import "github.com/sevisconnect/edcore/internal/profile"

// Analysis is the weakness analysis result. Topic scores are percentages on
// a 0-100 scale; ConfidenceScore is a 0-1 fraction.
type Analysis struct {
	Weaknesses            map[string]float64 `json:"weaknesses"`
	Strengths             map[string]float64 `json:"strengths"`
	BaselineScore         float64            `json:"baseline_score"`
	ConfidenceScore       float64            `json:"confidence_score"`
	RecommendedDifficulty profile.Difficulty `json:"recommended_difficulty"`
}

// PerformanceContext carries the student's academic standing into analysis.
// Zero value means no performance data is available.
type PerformanceContext struct {
	GradeLevel       int
	Overall          float64
	TopicScores      map[string]float64
	RecordsCount     int
	IsPoorPerforming bool
}

// ChatContext carries session context into the tutoring chat prompt.
type ChatContext struct {
	Subject    string
	GradeLevel int
	Weaknesses map[string]float64
}

// QuizQuestion is one generated multiple-choice practice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}
