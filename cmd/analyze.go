package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/profile"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze performance history into a weakness profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := resolveUser(cmd)
		if err != nil {
			return err
		}
		log, err := newLogger(cmd)
		if err != nil {
			return err
		}
		defer log.Sync()

		svc, cleanup, err := newService(cmd, log)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := svc.AnalyzePerformance(cmd.Context(), userID)
		if err != nil {
			return err
		}

		perf := res.Performance
		fmt.Printf("Overall score: %.1f%%\n", perf.OverallScore)

		topics := make([]string, 0, len(perf.TopicScores))
		for t := range perf.TopicScores {
			topics = append(topics, t)
		}
		sort.Strings(topics)
		for _, t := range topics {
			ts := perf.TopicScores[t]
			fmt.Printf("  %-14s %.1f%% (%d records, min %.1f, max %.1f)\n",
				t, ts.Average, ts.RecordsCount, ts.Min, ts.Max)
		}

		if len(perf.WeakTopics) > 0 {
			weak := make(map[string]float64, len(perf.WeakTopics))
			for _, t := range perf.WeakTopics {
				weak[t] = perf.TopicScores[t].Average
			}
			fmt.Println("Weak topics:")
			for _, line := range formatWeakTopics(weak) {
				fmt.Println("  " + line)
			}
		}
		if len(perf.StrongTopics) > 0 {
			fmt.Printf("Strong topics: %v\n", perf.StrongTopics)
		}
		if perf.IsPoorPerforming {
			fmt.Println("Status: needs extra support (remedial plan recommended)")
		}

		p := res.Profile
		fmt.Printf("Recommended difficulty: %s (confidence %.1f)\n",
			p.RecommendedDifficulty, p.ConfidenceScore)
		fmt.Println("Run `edcore plan generate` to build a study plan.")
		return nil
	},
}

// formatWeakTopics renders weak topics worst first, each with its severity
// band next to the score. Ties break alphabetically.
func formatWeakTopics(scores map[string]float64) []string {
	topics := make([]string, 0, len(scores))
	for t := range scores {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if scores[topics[i]] != scores[topics[j]] {
			return scores[topics[i]] < scores[topics[j]]
		}
		return topics[i] < topics[j]
	})

	lines := make([]string, len(topics))
	for i, t := range topics {
		lines[i] = fmt.Sprintf("%-14s %.1f%% (%s)", t, scores[t], profile.SeverityFor(scores[t]))
	}
	return lines
}
