package tutor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sevisconnect/edcore/internal/scoring"
)

const analysisSystemPrompt = `You are an expert PNG senior secondary education tutor analyzing a student's diagnostic test results and academic performance.`

func buildAnalysisUserMessage(answers []scoring.DiagnosticAnswer, diagnosticBaseline float64, perf *PerformanceContext) string {
	var b strings.Builder

	subject := "math"
	if len(answers) > 0 {
		subject = answers[0].Subject
	}
	correct := 0
	for _, a := range answers {
		if a.IsExactMatch {
			correct++
		}
	}

	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	b.WriteString(fmt.Sprintf("Total Questions: %d\n", len(answers)))
	b.WriteString(fmt.Sprintf("Correct: %d\n", correct))
	b.WriteString(fmt.Sprintf("Incorrect: %d\n", len(answers)-correct))
	b.WriteString(fmt.Sprintf("Diagnostic Baseline: %.1f%%\n", diagnosticBaseline))

	if perf != nil {
		b.WriteString("\nAcademic Performance Data:\n")
		b.WriteString(fmt.Sprintf("- Grade Level: %d\n", perf.GradeLevel))
		b.WriteString(fmt.Sprintf("- Overall Performance: %.1f%%\n", perf.Overall))
		for _, topic := range sortedKeys(perf.TopicScores) {
			b.WriteString(fmt.Sprintf("- %s: %.1f%%\n", topic, perf.TopicScores[topic]))
		}
		b.WriteString(fmt.Sprintf("- Performance Records: %d\n", perf.RecordsCount))
		if perf.IsPoorPerforming {
			b.WriteString("- Student Status: POOR PERFORMING - needs extra support\n")
		} else {
			b.WriteString("- Student Status: performing adequately\n")
		}
	}

	b.WriteString("\nWrong Answers:\n")
	wrong := 0
	for _, a := range answers {
		if a.IsExactMatch {
			continue
		}
		b.WriteString(fmt.Sprintf("- Q: %s | answered: %s | expected: %s\n",
			a.Question, a.StudentAnswer, a.ReferenceAnswer))
		wrong++
		if wrong >= 10 {
			break
		}
	}
	if wrong == 0 {
		b.WriteString("None\n")
	}

	b.WriteString(fmt.Sprintf(`
Instructions:
Analyze the student's weaknesses and strengths against the PNG Grade 11-12 curriculum:
1. Identify specific topic weaknesses and strengths (e.g. "algebra", "geometry") with a 0-100 score each.
2. Give an overall baseline score (0-100). It should primarily reflect the diagnostic result (%.1f%%); performance data is context only.
3. Recommend a difficulty level (beginner/intermediate/advanced). Prioritize beginner for poor performers.
4. Give your confidence in the analysis (0-1).
For poor-performing students, focus on foundational topics.`, diagnosticBaseline))

	return b.String()
}

const syllabusSystemPrompt = `You are an expert PNG senior secondary education tutor. You create comprehensive, curriculum-aligned syllabi for Grade 11-12 students (ages 16-18).`

const weekPlanSystemPrompt = `You are an expert PNG senior secondary education tutor. You create detailed week-by-week learning plans with comprehensive materials for Grade 11-12 students (ages 16-18). Keep lecture note content to 200-300 words each.`

type planInput struct {
	Subject      string
	GradeLevel   int
	Difficulty   string
	WeakTopics   []string
	StrongTopics []string
	TopicScores  map[string]float64
}

func (in planInput) writeProfile(b *strings.Builder) {
	b.WriteString("Student Profile:\n")
	b.WriteString(fmt.Sprintf("- Grade Level: %d (Senior Secondary)\n", in.GradeLevel))
	b.WriteString(fmt.Sprintf("- Subject: %s\n", in.Subject))
	b.WriteString(fmt.Sprintf("- Difficulty Level: %s\n", in.Difficulty))
	b.WriteString(fmt.Sprintf("- Weak Topics: %s\n", joinOrNone(in.WeakTopics)))
	b.WriteString(fmt.Sprintf("- Strong Topics: %s\n", joinOrNone(in.StrongTopics)))
	if len(in.TopicScores) > 0 {
		b.WriteString("- Topic Scores:\n")
		for _, topic := range sortedKeys(in.TopicScores) {
			b.WriteString(fmt.Sprintf("  - %s: %.1f%%\n", topic, in.TopicScores[topic]))
		}
	}
	if in.Difficulty == "beginner" {
		b.WriteString("- Performance Status: poor performing, needs comprehensive remedial support\n")
	} else {
		b.WriteString("- Performance Status: performing adequately but needs reinforcement\n")
	}
}

func buildSyllabusUserMessage(in planInput) string {
	var b strings.Builder
	in.writeProfile(&b)

	b.WriteString(fmt.Sprintf(`
Instructions:
Create a complete syllabus for PNG Grade %d %s that:
1. Covers all essential curriculum topics, structured in 6-8 logical modules.
2. Prioritizes the identified weaknesses with dedicated modules.
3. Builds from foundational concepts to advanced topics.
4. Includes detailed learning objectives, prerequisites, and outcomes per module.
Content must suit 16-18 year olds: thorough explanations, step-by-step reasoning, and real-world applications relevant to the PNG context.`,
		in.GradeLevel, in.Subject))

	return b.String()
}

func buildWeekPlanUserMessage(in planInput) string {
	var b strings.Builder
	in.writeProfile(&b)

	b.WriteString(fmt.Sprintf(`
Instructions:
Create a detailed 4-6 week learning plan for PNG Grade %d %s that addresses the identified weaknesses systematically. For each week include learning materials:
- Lecture notes: concise but thorough explanations (200-300 words) with key concepts, worked examples, practice problems, and common mistakes.
- Videos: recommendations with real URLs where possible, key points, and what to focus on.
- Practice exercises: question sets with hints, full solutions, and explanations.
- Additional resources: worksheets, references, study guides.
Also provide daily tasks keyed "day_1", "day_2", ... with lesson, activities, materials to use, practice, estimated time, and learning objectives. Key weeks "week_1", "week_2", and so on.
Explain the reasoning behind each concept, not just the steps.`,
		in.GradeLevel, in.Subject))

	return b.String()
}

const chatSystemPromptTemplate = `You are a friendly, patient, and encouraging PNG senior secondary education tutor.

Your role:
- Explain concepts in simple, clear language appropriate for Grade %d students
- Use PNG-relevant examples and contexts
- Break down complex topics into easy steps
- Encourage students and build their confidence

Subject: %s
Student's known weaknesses: %s

Always be supportive and clear. For homework problems, give step-by-step explanations.`

func buildChatSystemPrompt(c ChatContext) string {
	grade := c.GradeLevel
	if grade == 0 {
		grade = 11
	}
	subject := c.Subject
	if subject == "" {
		subject = "math"
	}

	weak := sortedKeys(c.Weaknesses)
	if len(weak) > 3 {
		weak = weak[:3]
	}
	return fmt.Sprintf(chatSystemPromptTemplate, grade, subject, joinOrNone(weak))
}

const quizSystemPrompt = `You are an expert PNG education tutor generating practice quiz questions for Grade 11-12 students.`

func buildQuizUserMessage(topic, subject, difficulty string, numQuestions int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Topic: %s\n", topic))
	b.WriteString(fmt.Sprintf("Subject: %s\n", subject))
	b.WriteString(fmt.Sprintf("Difficulty: %s\n", difficulty))
	b.WriteString(fmt.Sprintf(`
Instructions:
Generate %d multiple-choice questions with exactly 4 options each. The correct_answer must be one of the options verbatim. Include a brief explanation per question. Make questions appropriate for the PNG curriculum at %s level.`,
		numQuestions, difficulty))
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none identified yet"
	}
	return strings.Join(items, ", ")
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
