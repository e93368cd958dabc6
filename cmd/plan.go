package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/plans"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Generate and manage study plans",
}

func init() {
	planCmd.AddCommand(planGenerateCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planActivateCmd)
	planCmd.AddCommand(planDeleteCmd)
}

// withOrchestrator wires the collaborator into a plan orchestrator and hands
// it to fn along with the resolved user and subject.
func withOrchestrator(cmd *cobra.Command, fn func(ctx context.Context, o *plans.Orchestrator, userID, subject string) error) error {
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

	orch := plans.NewOrchestrator(svc, log.Named("plans"))
	return fn(cmd.Context(), orch, userID, resolveSubject(cmd))
}

var planGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new study plan from the weakness profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, orch *plans.Orchestrator, userID, subject string) error {
			// Refresh the registry first so the new plan lands in known state.
			orch.List(ctx, userID, subject)

			fmt.Println("Generating study plan. This can take a minute or two...")
			res, err := orch.Generate(ctx, userID, subject)
			if err != nil {
				return err
			}

			if res.Empty {
				fmt.Println("Warning: generation returned an empty plan. The model may be unavailable;")
				fmt.Println("the plan was saved and can be regenerated later.")
				return nil
			}

			printPlanSummary(res.Plan)
			return nil
		})
	},
}

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored study plans, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, orch *plans.Orchestrator, userID, subject string) error {
			snap := orch.List(ctx, userID, subject)
			if len(snap.Plans) == 0 {
				fmt.Println("No study plans yet. Run `edcore plan generate` first.")
				return nil
			}
			for _, p := range snap.Plans {
				marker := " "
				if snap.Active != nil && snap.Active.ID == p.ID {
					marker = "*"
				}
				title := "(untitled)"
				if p.Syllabus != nil && p.Syllabus.Title != "" {
					title = p.Syllabus.Title
				}
				fmt.Printf("%s %s  %s  %d weeks  %s  %s\n",
					marker, p.ID, p.Subject, len(p.WeekPlan), p.Status,
					p.CreatedAt.Local().Format("2006-01-02 15:04"))
				fmt.Printf("    %s\n", title)
			}
			return nil
		})
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show [plan-id]",
	Short: "Show one study plan in detail (defaults to the active plan)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, orch *plans.Orchestrator, userID, subject string) error {
			snap := orch.List(ctx, userID, subject)

			var plan *plans.StudyPlan
			if len(args) == 1 {
				for _, p := range snap.Plans {
					if p.ID == args[0] {
						plan = p
						break
					}
				}
				if plan == nil {
					return fmt.Errorf("plan %s not found", args[0])
				}
			} else {
				plan = snap.Active
				if plan == nil {
					return fmt.Errorf("no active plan; run `edcore plan generate`")
				}
			}

			printPlanSummary(plan)
			printPlanDetail(plan)
			return nil
		})
	},
}

var planActivateCmd = &cobra.Command{
	Use:   "activate <plan-id>",
	Short: "Mark a study plan as the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, orch *plans.Orchestrator, userID, subject string) error {
			snap := orch.List(ctx, userID, subject)

			var plan *plans.StudyPlan
			for _, p := range snap.Plans {
				if p.ID == args[0] {
					plan = p
					break
				}
			}
			if plan == nil {
				return fmt.Errorf("plan %s not found", args[0])
			}

			if err := orch.SetActive(userID, subject, plan); err != nil {
				return err
			}
			fmt.Printf("Active plan is now %s.\n", plan.ID)
			return nil
		})
	},
}

var planDeleteCmd = &cobra.Command{
	Use:   "delete <plan-id>",
	Short: "Delete a study plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withOrchestrator(cmd, func(ctx context.Context, orch *plans.Orchestrator, userID, subject string) error {
			orch.List(ctx, userID, subject)
			if err := orch.Delete(ctx, userID, subject, args[0]); err != nil {
				return err
			}
			fmt.Println("Plan deleted.")
			if snap := orch.Snapshot(userID, subject); snap.Active != nil {
				fmt.Printf("Active plan is now %s.\n", snap.Active.ID)
			}
			return nil
		})
	},
}

func printPlanSummary(p *plans.StudyPlan) {
	fmt.Printf("Plan %s (%s, %s)\n", p.ID, p.Subject, p.Status)
	if p.Syllabus != nil {
		fmt.Printf("Syllabus: %s\n", p.Syllabus.Title)
		if p.Syllabus.Overview != "" {
			fmt.Printf("  %s\n", p.Syllabus.Overview)
		}
		fmt.Printf("  %d modules\n", len(p.Syllabus.Modules))
	}
	fmt.Printf("Weeks: %d, daily tasks: %d\n", len(p.WeekPlan), len(p.DailyTasks))
}

func printPlanDetail(p *plans.StudyPlan) {
	if p.Syllabus != nil {
		for _, m := range p.Syllabus.Modules {
			fmt.Printf("\nModule %d: %s\n", m.Number, m.Title)
			fmt.Printf("  %s\n", m.Description)
			if len(m.Topics) > 0 {
				fmt.Printf("  Topics: %v\n", m.Topics)
			}
		}
	}

	weekKeys := make([]string, 0, len(p.WeekPlan))
	for k := range p.WeekPlan {
		weekKeys = append(weekKeys, k)
	}
	sort.Strings(weekKeys)
	for _, k := range weekKeys {
		w := p.WeekPlan[k]
		fmt.Printf("\nWeek %d: %s\n", w.Number, w.Focus)
		if len(w.Topics) > 0 {
			fmt.Printf("  Topics: %v\n", w.Topics)
		}
		for _, g := range w.Goals {
			fmt.Printf("  - %s\n", g)
		}
		if w.Materials != nil {
			fmt.Printf("  Materials: %d notes, %d videos, %d exercise sets\n",
				len(w.Materials.LectureNotes), len(w.Materials.Videos), len(w.Materials.Exercises))
		}
	}

	dayKeys := make([]string, 0, len(p.DailyTasks))
	for k := range p.DailyTasks {
		dayKeys = append(dayKeys, k)
	}
	sort.Strings(dayKeys)
	for _, k := range dayKeys {
		t := p.DailyTasks[k]
		fmt.Printf("\n%s: %s", k, t.Lesson)
		if t.EstimatedTime != "" {
			fmt.Printf(" (%s)", t.EstimatedTime)
		}
		fmt.Println()
	}
}
