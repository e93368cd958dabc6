// Package plans holds study plan types and the orchestrator that manages
// generation, listing, activation, and deletion of plans per user/subject.
package plans

import "time"

// Status is the lifecycle state of a study plan.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusPaused    Status = "paused"
)

// StudyPlan is one generated multi-week plan. Many plans may coexist per
// (user, subject); which one is "active" is client view state, not a server
// property.
type StudyPlan struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user_id"`
	Subject    string               `json:"subject"`
	Syllabus   *Syllabus            `json:"syllabus,omitempty"`
	WeekPlan   map[string]WeekPlan  `json:"week_plan"`
	DailyTasks map[string]DailyTask `json:"daily_tasks"`
	Status     Status               `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
}

// Syllabus is the module-level curriculum outline generated ahead of the
// detailed week plan.
type Syllabus struct {
	Title      string   `json:"title"`
	Overview   string   `json:"overview"`
	Duration   string   `json:"duration,omitempty"`
	TotalHours string   `json:"total_hours,omitempty"`
	Modules    []Module `json:"modules"`
}

// Module is one unit of the syllabus.
type Module struct {
	Number             int      `json:"module_number"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Topics             []string `json:"topics"`
	LearningObjectives []string `json:"learning_objectives"`
	EstimatedTime      string   `json:"estimated_time,omitempty"`
	Prerequisites      []string `json:"prerequisites,omitempty"`
	Outcomes           []string `json:"outcomes,omitempty"`
}

// WeekPlan is one week of the plan. Materials may be absent when generation
// produced only the outline.
type WeekPlan struct {
	Number    int        `json:"week_number"`
	Focus     string     `json:"focus"`
	Topics    []string   `json:"topics"`
	Goals     []string   `json:"goals"`
	Materials *Materials `json:"learning_materials,omitempty"`
}

// Materials bundles the learning content attached to a week.
type Materials struct {
	LectureNotes []LectureNote `json:"lecture_notes,omitempty"`
	Videos       []Video       `json:"videos,omitempty"`
	Exercises    []Exercise    `json:"practice_exercises,omitempty"`
	Extras       []Resource    `json:"additional_resources,omitempty"`
}

// LectureNote is expanded written material for one concept.
type LectureNote struct {
	Title            string          `json:"title"`
	Content          string          `json:"content"`
	KeyConcepts      []string        `json:"key_concepts,omitempty"`
	Examples         []WorkedExample `json:"examples,omitempty"`
	PracticeProblems []string        `json:"practice_problems,omitempty"`
	CommonMistakes   []string        `json:"common_mistakes,omitempty"`
}

// WorkedExample is a solved problem inside a lecture note.
type WorkedExample struct {
	Problem     string `json:"problem"`
	Solution    string `json:"solution"`
	Explanation string `json:"explanation,omitempty"`
}

// Video is a recommended video resource.
type Video struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"video_url,omitempty"`
	KeyPoints   []string `json:"key_points,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	FocusOn     string   `json:"what_to_focus_on,omitempty"`
}

// Exercise is a practice set with questions and solutions.
type Exercise struct {
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	Difficulty  string             `json:"difficulty_level,omitempty"`
	Questions   []ExerciseQuestion `json:"questions,omitempty"`
}

// ExerciseQuestion is one question of a practice set.
type ExerciseQuestion struct {
	Question    string   `json:"question"`
	Hints       []string `json:"hints,omitempty"`
	Solution    string   `json:"solution,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// Resource is supplementary material: a worksheet, reference, or study guide.
type Resource struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// DailyTask is one day's micro-lesson and practice assignment.
type DailyTask struct {
	Lesson         string   `json:"lesson"`
	Activities     []string `json:"activities,omitempty"`
	MaterialsToUse []string `json:"materials_to_use,omitempty"`
	Practice       []string `json:"practice,omitempty"`
	EstimatedTime  string   `json:"estimated_time,omitempty"`
	Objectives     []string `json:"learning_objectives,omitempty"`
}

// IsSubstantive is the non-empty-result heuristic: a plan is substantive
// when its week plan has at least one entry, or its syllabus exists with at
// least one module. A plan failing this check is still a plan, the call
// succeeded, but callers surface it as a fallback/empty result, which
// upstream generation failure (commonly an exhausted model quota) produces.
func (p *StudyPlan) IsSubstantive() bool {
	if p == nil {
		return false
	}
	if len(p.WeekPlan) > 0 {
		return true
	}
	return p.Syllabus != nil && len(p.Syllabus.Modules) > 0
}
