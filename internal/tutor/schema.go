package tutor

import "github.com/sevisconnect/edcore/internal/llm"

// topicScoreMap is an object keyed by topic name with 0-100 score values.
var topicScoreMap = map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type":    "number",
		"minimum": 0,
		"maximum": 100,
	},
}

// AnalysisSchema defines the JSON schema for weakness analysis.
var AnalysisSchema = &llm.Schema{
	Name:        "weakness-analysis",
	Description: "Per-topic weaknesses and strengths with a baseline score and recommended difficulty",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"weaknesses": topicScoreMap,
			"strengths":  topicScoreMap,
			"baseline_score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall baseline score, primarily reflecting the diagnostic result",
			},
			"confidence_score": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Confidence in the analysis",
			},
			"recommended_difficulty": map[string]any{
				"type": "string",
				"enum": []any{"beginner", "intermediate", "advanced"},
			},
		},
		"required": []any{"weaknesses", "strengths", "baseline_score",
			"confidence_score", "recommended_difficulty"},
		"additionalProperties": false,
	},
}

// SyllabusSchema defines the JSON schema for the syllabus generation step.
var SyllabusSchema = &llm.Schema{
	Name:        "syllabus",
	Description: "A module-structured curriculum outline for one subject",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"overview":    map[string]any{"type": "string"},
			"duration":    map[string]any{"type": "string"},
			"total_hours": map[string]any{"type": "string"},
			"modules": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"module_number": map[string]any{"type": "integer"},
						"title":         map[string]any{"type": "string"},
						"description":   map[string]any{"type": "string"},
						"topics": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"learning_objectives": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"estimated_time": map[string]any{"type": "string"},
						"prerequisites": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"outcomes": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"module_number", "title", "description", "topics", "learning_objectives"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "overview", "modules"},
		"additionalProperties": false,
	},
}

// WeekPlanSchema defines the JSON schema for the week plan generation step.
// Weeks and days are keyed "week_1", "day_1", and so on; materials inside
// each week are loosely structured and validated only at the top level.
var WeekPlanSchema = &llm.Schema{
	Name:        "week-plan",
	Description: "A week-by-week learning plan with materials and daily tasks",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"week_plan": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"week_number": map[string]any{"type": "integer"},
						"focus":       map[string]any{"type": "string"},
						"topics": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"goals": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"learning_materials": map[string]any{"type": "object"},
					},
					"required":             []any{"week_number", "focus", "topics", "goals"},
					"additionalProperties": false,
				},
			},
			"daily_tasks": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"lesson": map[string]any{"type": "string"},
						"activities": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"materials_to_use": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"practice": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"estimated_time": map[string]any{"type": "string"},
						"learning_objectives": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required":             []any{"lesson"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"week_plan", "daily_tasks"},
		"additionalProperties": false,
	},
}

// QuizSchema defines the JSON schema for practice quiz generation.
var QuizSchema = &llm.Schema{
	Name:        "practice-quiz",
	Description: "A set of multiple-choice practice questions for one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 4,
							"maxItems": 4,
						},
						"correct_answer": map[string]any{"type": "string"},
						"explanation":    map[string]any{"type": "string"},
					},
					"required":             []any{"question", "options", "correct_answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
