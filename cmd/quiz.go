package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/backend/local"
	"github.com/sevisconnect/edcore/internal/scoring"
)

var quizCmd = &cobra.Command{
	Use:   "quiz <topic>",
	Short: "Take a generated practice quiz on one topic (local mode only)",
	Args:  cobra.ExactArgs(1),
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

		engine, ok := svc.(*local.Engine)
		if !ok {
			return fmt.Errorf("quizzes require local mode")
		}

		count, _ := cmd.Flags().GetInt("count")
		difficulty, _ := cmd.Flags().GetString("difficulty")
		topic := args[0]

		questions := engine.GenerateQuiz(cmd.Context(), userID, topic, resolveSubject(cmd), difficulty, count)
		if len(questions) == 0 {
			return fmt.Errorf("no quiz could be generated; check the model provider configuration")
		}

		reader := bufio.NewReader(os.Stdin)
		correct := 0
		for i, q := range questions {
			fmt.Printf("\n%d. %s\n", i+1, q.Question)
			for j, opt := range q.Options {
				fmt.Printf("   %c) %s\n", 'a'+j, opt)
			}
			fmt.Print("> ")

			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			answer := strings.TrimSpace(line)
			if len(answer) == 1 {
				if idx := int(answer[0] - 'a'); idx >= 0 && idx < len(q.Options) {
					answer = q.Options[idx]
				}
			}

			if scoring.ScoreChoice(answer, q.CorrectAnswer).IsExact {
				correct++
				fmt.Println("Correct!")
			} else {
				fmt.Printf("Not quite. The answer is: %s\n", q.CorrectAnswer)
			}
			if q.Explanation != "" {
				fmt.Printf("   %s\n", q.Explanation)
			}
		}

		fmt.Printf("\nScore: %d/%d\n", correct, len(questions))
		return nil
	},
}

func init() {
	quizCmd.Flags().Int("count", 5, "Number of questions")
	quizCmd.Flags().String("difficulty", "", "beginner, intermediate, or advanced (defaults to the profile recommendation)")
}
