package scoring

// ItemKind distinguishes free-text items from multiple choice.
type ItemKind string

const (
	KindFreeText ItemKind = "free-text"
	KindChoice   ItemKind = "choice"
)

// DiagnosticItem is a single diagnostic question as defined by the content
// source. Immutable.
type DiagnosticItem struct {
	ID              string   `json:"id"`
	Subject         string   `json:"subject"`
	Prompt          string   `json:"prompt"`
	ReferenceAnswer string   `json:"reference_answer"`
	Kind            ItemKind `json:"kind"`
	Options         []string `json:"options,omitempty"`
}

// DiagnosticAnswer is a scored answer, created at submission time and never
// mutated after.
type DiagnosticAnswer struct {
	Subject         string  `json:"subject"`
	Question        string  `json:"question"`
	StudentAnswer   string  `json:"student_answer"`
	ReferenceAnswer string  `json:"correct_answer"`
	IsExactMatch    bool    `json:"is_correct"`
	Score           float64 `json:"score"`
	ElapsedSeconds  int     `json:"time_taken_seconds"`
}

// Result is the outcome of scoring one answer.
type Result struct {
	IsExact bool
	Score   float64
}

// Per-answer score values. Partial credit is granted when one normalized
// answer contains the other.
const (
	ScoreExact   = 1.0
	ScorePartial = 0.5
	ScoreNone    = 0.0
)
