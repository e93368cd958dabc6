package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/chat"
	"github.com/sevisconnect/edcore/internal/studystate"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI tutor",
	Long: "Opens an interactive tutoring session. The transcript is kept on the\n" +
		"server side per subject; each turn returns the confirmed history.\n\n" +
		"In-session commands: /subject <name>, /analyze, /profile, /quit.",
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

		state := studystate.NewStore()
		state.Init(userID)
		state.SetSubject(resolveSubject(cmd))

		sender := chat.SenderFunc(func(ctx context.Context, userID, subject, message string) (chat.Transcript, error) {
			res, err := svc.TutorChat(ctx, userID, subject, message)
			if err != nil {
				return nil, err
			}
			return res.History, nil
		})
		rec := chat.NewReconciler(sender, log.Named("chat"))

		fmt.Printf("Tutoring session for %s. Type your question, or /quit to leave.\n", state.Subject())
		reader := bufio.NewReader(os.Stdin)
		for {
			fmt.Print("you> ")
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println()
				return nil
			}
			message := strings.TrimSpace(line)
			if message == "" {
				continue
			}
			if strings.HasPrefix(message, "/") {
				if quit := runChatCommand(cmd.Context(), svc, state, message); quit {
					return nil
				}
				continue
			}

			transcript, err := rec.Send(cmd.Context(), userID, state.Subject(), message)
			if err != nil {
				var bErr *backend.Error
				if errors.As(err, &bErr) {
					fmt.Println("Send failed:", bErr.Error())
					fmt.Println("Your message was not delivered; try again.")
					continue
				}
				return err
			}

			if len(transcript) > 0 {
				last := transcript[len(transcript)-1]
				if last.Role == chat.RoleAssistant {
					fmt.Printf("tutor> %s\n", last.Content)
				}
			}
		}
	},
}

// runChatCommand handles slash commands inside the REPL. Returns true when
// the session should end.
func runChatCommand(ctx context.Context, svc backend.Service, state *studystate.Store, input string) bool {
	fields := strings.Fields(input)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/subject":
		if len(fields) < 2 {
			fmt.Println("Usage: /subject <name>")
			return false
		}
		state.SetSubject(fields[1])
		fmt.Printf("Subject switched to %s. Transcript continues per subject.\n", state.Subject())

	case "/analyze":
		userID, err := state.UserID()
		if err != nil {
			fmt.Println("No session:", err)
			return false
		}
		res, err := svc.AnalyzePerformance(ctx, userID)
		if err != nil {
			fmt.Println("Analysis failed:", err)
			return false
		}
		state.SetAnalysis(res)
		fmt.Printf("Overall score: %.1f%%, recommended difficulty: %s\n",
			res.Performance.OverallScore, res.Profile.RecommendedDifficulty)

	case "/profile":
		p := state.Profile()
		if p == nil {
			fmt.Println("No analysis yet this session. Run /analyze first.")
			return false
		}
		if len(p.Weaknesses) == 0 {
			fmt.Println("No weaknesses on record. Keep it up.")
			return false
		}
		fmt.Println("Weak topics:")
		for _, line := range formatWeakTopics(p.Weaknesses) {
			fmt.Println("  " + line)
		}

	default:
		fmt.Println("Unknown command. Available: /subject, /analyze, /profile, /quit.")
	}
	return false
}
