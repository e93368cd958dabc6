// Package profile classifies aggregated topic performance into a weakness
// and strength profile with a recommended difficulty level.
//
// All scores in this package use one unit: percentages on a 0-100 scale.
// Topic averages, the baseline, and the severity bands all share it; only
// ConfidenceScore is a 0-1 fraction, carried through opaquely from the
// analysis collaborator.
package profile

import (
	"time"

	"github.com/google/uuid"

	"github.com/sevisconnect/edcore/internal/progress"
)

// Difficulty is the recommended starting difficulty for generated plans.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// Severity bands a weakness for display and sorting.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// WeaknessThreshold is the weak/strong cut: a topic averaging below it is a
// weakness, at or above it a strength. 60.0 itself counts as strength.
const WeaknessThreshold = 60.0

// WeaknessProfile is the classification result for one (user, subject) pair.
// A new profile supersedes the previous one entirely; weaknesses are never
// merged across analyses.
type WeaknessProfile struct {
	ID                    string             `json:"id"`
	UserID                string             `json:"user_id"`
	Subject               string             `json:"subject"`
	Weaknesses            map[string]float64 `json:"weaknesses"`
	Strengths             map[string]float64 `json:"strengths"`
	BaselineScore         float64            `json:"baseline_score"`
	ConfidenceScore       float64            `json:"confidence_score"`
	RecommendedDifficulty Difficulty         `json:"recommended_difficulty"`
	CreatedAt             time.Time          `json:"created_at"`
}

// Classify builds a profile from an overall score and per-topic stats.
// confidence is supplied by the caller; its derivation belongs to the
// analysis collaborator, not this package.
func Classify(userID, subject string, overall float64, stats []progress.TopicStat, confidence float64) *WeaknessProfile {
	p := &WeaknessProfile{
		ID:                    uuid.NewString(),
		UserID:                userID,
		Subject:               subject,
		Weaknesses:            make(map[string]float64),
		Strengths:             make(map[string]float64),
		BaselineScore:         clampPercent(overall),
		ConfidenceScore:       confidence,
		RecommendedDifficulty: RecommendDifficulty(overall),
		CreatedAt:             time.Now().UTC(),
	}

	for _, s := range stats {
		if s.Average < WeaknessThreshold {
			p.Weaknesses[s.Topic] = s.Average
		} else {
			p.Strengths[s.Topic] = s.Average
		}
	}
	return p
}

// RecommendDifficulty maps a baseline percentage to a difficulty level.
// Monotonic non-decreasing in the baseline.
func RecommendDifficulty(baseline float64) Difficulty {
	switch {
	case baseline < 50:
		return DifficultyBeginner
	case baseline < 75:
		return DifficultyIntermediate
	default:
		return DifficultyAdvanced
	}
}

// SeverityFor bands a weakness score (0-100 scale) for display ordering.
// Weaknesses sit below the 60 cut, so the low band is reachable only for
// scores fed in from outside the weak set.
func SeverityFor(score float64) Severity {
	switch {
	case score < 30:
		return SeverityCritical
	case score < 50:
		return SeverityHigh
	case score < 70:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// WeakTopicCount reports how many topics fall under the weakness cut.
func WeakTopicCount(stats []progress.TopicStat) int {
	n := 0
	for _, s := range stats {
		if s.Average < WeaknessThreshold {
			n++
		}
	}
	return n
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
