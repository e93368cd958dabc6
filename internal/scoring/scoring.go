package scoring

import (
	"regexp"
	"strings"
)

var (
	punctPattern  = regexp.MustCompile(`[.,;:!?]`)
	spacesPattern = regexp.MustCompile(`\s+`)
	equalsPattern = regexp.MustCompile(`\s*=\s*`)
)

// Score compares a student's answer against the reference answer.
//
// Both strings are normalized first: trimmed, lowercased, punctuation
// stripped, internal whitespace collapsed, and spacing around "=" removed.
// Exact normalized equality scores 1.0; if one normalized string contains
// the other as a substring, partial credit of 0.5 is given; otherwise 0.0.
//
// The normalization tolerates formatting noise in short numeric and
// algebraic answers. It is NOT semantic equivalence checking: "x=5" and
// "5=x" do not match. Empty vs empty is an exact match.
func Score(studentAnswer, referenceAnswer string) Result {
	student := Normalize(studentAnswer)
	reference := Normalize(referenceAnswer)

	if student == reference {
		return Result{IsExact: true, Score: ScoreExact}
	}

	// Substring partial credit, e.g. "the answer is 12" vs "12".
	// Only meaningful when both sides are non-empty.
	if student != "" && reference != "" &&
		(strings.Contains(student, reference) || strings.Contains(reference, student)) {
		return Result{IsExact: false, Score: ScorePartial}
	}

	return Result{IsExact: false, Score: ScoreNone}
}

// ScoreChoice compares an answer for a multiple choice item. Choice answers
// get no substring credit: the selected option either matches the reference
// after normalization or scores zero.
func ScoreChoice(selected, referenceAnswer string) Result {
	if Normalize(selected) == Normalize(referenceAnswer) {
		return Result{IsExact: true, Score: ScoreExact}
	}
	return Result{IsExact: false, Score: ScoreNone}
}

// Normalize prepares an answer string for comparison: trim, lowercase,
// strip .,;:!? punctuation, collapse runs of whitespace to single spaces,
// and normalize spacing around "=".
func Normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punctPattern.ReplaceAllString(s, "")
	s = spacesPattern.ReplaceAllString(s, " ")
	s = equalsPattern.ReplaceAllString(s, "=")
	return strings.TrimSpace(s)
}

// BuildAnswer scores a student's answer to an item and assembles the
// immutable record submitted to the collaborator.
func BuildAnswer(item DiagnosticItem, studentAnswer string, elapsedSeconds int) DiagnosticAnswer {
	var res Result
	if item.Kind == KindChoice {
		res = ScoreChoice(studentAnswer, item.ReferenceAnswer)
	} else {
		res = Score(studentAnswer, item.ReferenceAnswer)
	}

	return DiagnosticAnswer{
		Subject:         item.Subject,
		Question:        item.Prompt,
		StudentAnswer:   studentAnswer,
		ReferenceAnswer: item.ReferenceAnswer,
		IsExactMatch:    res.IsExact,
		Score:           res.Score,
		ElapsedSeconds:  elapsedSeconds,
	}
}

// AverageScore returns the mean per-answer score, 0 for an empty set.
func AverageScore(answers []DiagnosticAnswer) float64 {
	if len(answers) == 0 {
		return 0
	}
	var sum float64
	for _, a := range answers {
		sum += a.Score
	}
	return sum / float64(len(answers))
}
