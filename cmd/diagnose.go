package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/scoring"
)

// mathItems is the built-in diagnostic set, two questions per topic.
var mathItems = []scoring.DiagnosticItem{
	{ID: "alg-1", Subject: "math", Prompt: "Solve for x: 2x + 6 = 16", ReferenceAnswer: "x = 5", Kind: scoring.KindFreeText},
	{ID: "alg-2", Subject: "math", Prompt: "Expand: (x + 3)(x - 3)", ReferenceAnswer: "x^2 - 9", Kind: scoring.KindFreeText},
	{ID: "geo-1", Subject: "math", Prompt: "What is the sum of interior angles of a triangle, in degrees?", ReferenceAnswer: "180", Kind: scoring.KindFreeText},
	{ID: "geo-2", Subject: "math", Prompt: "The area of a circle with radius r is:", ReferenceAnswer: "pi r^2", Kind: scoring.KindChoice,
		Options: []string{"2 pi r", "pi r^2", "pi d", "r^2 / pi"}},
	{ID: "trig-1", Subject: "math", Prompt: "What is sin(30 degrees)?", ReferenceAnswer: "0.5", Kind: scoring.KindFreeText},
	{ID: "trig-2", Subject: "math", Prompt: "In a right triangle, tan(theta) equals:", ReferenceAnswer: "opposite / adjacent", Kind: scoring.KindChoice,
		Options: []string{"opposite / hypotenuse", "adjacent / hypotenuse", "opposite / adjacent", "hypotenuse / opposite"}},
	{ID: "calc-1", Subject: "math", Prompt: "What is the derivative of x^2?", ReferenceAnswer: "2x", Kind: scoring.KindFreeText},
	{ID: "calc-2", Subject: "math", Prompt: "What is the integral of 2x dx?", ReferenceAnswer: "x^2 + c", Kind: scoring.KindFreeText},
}

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Take the diagnostic test and submit the scored answers",
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

		reader := bufio.NewReader(os.Stdin)
		answers := make(map[string]string, len(mathItems))
		elapsed := make(map[string]int, len(mathItems))

		fmt.Printf("Diagnostic test: %d questions. Answer every question.\n\n", len(mathItems))
		for i, item := range mathItems {
			fmt.Printf("%d. %s\n", i+1, item.Prompt)
			for j, opt := range item.Options {
				fmt.Printf("   %c) %s\n", 'a'+j, opt)
			}
			fmt.Print("> ")

			start := time.Now()
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read answer: %w", err)
			}
			answer := strings.TrimSpace(line)

			// Letter choices map back to the option text.
			if item.Kind == scoring.KindChoice && len(answer) == 1 {
				if idx := int(answer[0] - 'a'); idx >= 0 && idx < len(item.Options) {
					answer = item.Options[idx]
				}
			}
			answers[item.ID] = answer
			elapsed[item.ID] = int(time.Since(start).Seconds())
			fmt.Println()
		}

		scored, err := scoring.BuildSubmission(mathItems, answers, elapsed)
		if err != nil {
			return err
		}

		result, err := svc.SubmitDiagnostic(cmd.Context(), userID, scored)
		if err != nil {
			return err
		}

		avg := scoring.AverageScore(scored) * 100
		fmt.Printf("Submitted %d answers (diagnostic %s).\n", result.Count, result.DiagnosticID)
		fmt.Printf("Diagnostic score: %.1f%%\n", avg)
		fmt.Println("Run `edcore analyze` to build your weakness profile.")
		return nil
	},
}
