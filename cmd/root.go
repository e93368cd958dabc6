package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sevisconnect/edcore/internal/backend"
	"github.com/sevisconnect/edcore/internal/backend/local"
	"github.com/sevisconnect/edcore/internal/backend/remote"
	"github.com/sevisconnect/edcore/internal/llm"
	"github.com/sevisconnect/edcore/internal/store"
	"github.com/sevisconnect/edcore/internal/tutor"
)

var rootCmd = &cobra.Command{
	Use:   "edcore",
	Short: "Adaptive learning companion for PNG senior secondary students",
	Long: "EdCore runs diagnostics, analyzes academic performance, generates\n" +
		"personalized study plans, and tutors via chat. It works against a remote\n" +
		"server (--server) or fully locally against SQLite and a model provider.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EDCORE_DB env var)")
	rootCmd.PersistentFlags().String("server", "", "Base URL of a remote server; empty runs everything locally")
	rootCmd.PersistentFlags().String("user", "", "Student ID (overrides EDCORE_USER env var)")
	rootCmd.PersistentFlags().String("subject", "math", "Subject in focus")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then EDCORE_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveUser returns the student ID from --user or EDCORE_USER.
func resolveUser(cmd *cobra.Command) (string, error) {
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		return u, nil
	}
	if u := os.Getenv("EDCORE_USER"); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("student ID required: pass --user or set EDCORE_USER")
}

func resolveSubject(cmd *cobra.Command) string {
	s, _ := cmd.Flags().GetString("subject")
	if s == "" {
		return "math"
	}
	return s
}

func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}

// newService builds the collaborator: a remote client when --server is set,
// otherwise the local engine over SQLite and the configured model provider.
// The returned cleanup closes whatever was opened.
func newService(cmd *cobra.Command, log *zap.Logger) (backend.Service, func(), error) {
	if base, _ := cmd.Flags().GetString("server"); base != "" {
		client := remote.New(remote.Config{BaseURL: base}, log)
		return client, func() {}, nil
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	cfg := llm.ConfigFromEnv()
	tutorCfg := tutor.DefaultConfig()
	tutorCfg.PlanModel = cfg.PlanModelID()

	var provider llm.Provider
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Model provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI features will fall back to offline behavior.")
	} else {
		provider, err = llm.NewProvider(cfg, log)
		if err != nil {
			st.Close()
			return nil, nil, fmt.Errorf("configure model provider: %w", err)
		}
	}

	engine := local.NewEngine(st, tutor.NewService(provider, tutorCfg, log), log)
	return engine, func() { st.Close() }, nil
}
