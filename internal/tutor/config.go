package tutor

// historyWindow is how many trailing transcript messages are sent with each
// chat turn.
const historyWindow = 10

// Config holds generation settings per operation.
type Config struct {
	// PlanModel overrides the provider's default model for the two study
	// plan steps. Empty means use the provider default.
	PlanModel string

	AnalysisMaxTokens int
	SyllabusMaxTokens int
	WeekPlanMaxTokens int
	ChatMaxTokens     int
	QuizMaxTokens     int

	AnalysisTemperature float64
	PlanTemperature     float64
	ChatTemperature     float64
	QuizTemperature     float64
}

// DefaultConfig returns sensible defaults for tutoring generation.
func DefaultConfig() Config {
	return Config{
		AnalysisMaxTokens: 1000,
		SyllabusMaxTokens: 3000,
		WeekPlanMaxTokens: 8000,
		ChatMaxTokens:     500,
		QuizMaxTokens:     1500,

		AnalysisTemperature: 0.3,
		PlanTemperature:     0.3,
		ChatTemperature:     0.7,
		QuizTemperature:     0.6,
	}
}
