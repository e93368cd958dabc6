package llm

import "context"

// Purpose labels what a model call is for, so request logs can be sliced
// by pipeline stage.
type Purpose string

const (
	PurposeAnalysis  Purpose = "analysis"
	PurposeStudyPlan Purpose = "study-plan"
	PurposeTutorChat Purpose = "tutor-chat"
	PurposeQuiz      Purpose = "quiz"
	PurposeUnknown   Purpose = "unknown"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// WithPurpose attaches the purpose label to the context.
func WithPurpose(ctx context.Context, purpose Purpose) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context, or
// PurposeUnknown when none was attached.
func PurposeFrom(ctx context.Context) Purpose {
	if v, ok := ctx.Value(purposeKey).(Purpose); ok {
		return v
	}
	return PurposeUnknown
}
