package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sevisconnect/edcore/internal/backend/local"
	"github.com/sevisconnect/edcore/internal/progress"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "View and record performance metrics",
}

func init() {
	progressRecordCmd.Flags().String("metric", "", "Metric name, e.g. algebra_score")
	progressRecordCmd.Flags().Float64("value", 0, "Metric value (0-100 for scores)")
	progressRecordCmd.MarkFlagRequired("metric")
	progressRecordCmd.MarkFlagRequired("value")

	progressCmd.AddCommand(progressListCmd)
	progressCmd.AddCommand(progressRecordCmd)
}

var progressListCmd = &cobra.Command{
	Use:   "list",
	Short: "List performance records, newest first",
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

		records, err := svc.GetProgress(cmd.Context(), userID, resolveSubject(cmd))
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No progress records found.")
			return nil
		}

		for _, r := range records {
			fmt.Printf("%s  %-24s %7.1f\n",
				r.RecordedAt.Local().Format("2006-01-02 15:04"), r.MetricName, r.MetricValue)
		}

		sum := progress.Aggregate(records)
		if len(sum.Stats) > 0 {
			fmt.Printf("\nOverall: %.1f%%\n", sum.Overall)
			for _, s := range sum.Stats {
				fmt.Printf("  %-14s %.1f%% (trend %+.1f)\n", s.Topic, s.Average, s.Trend)
			}
		}
		return nil
	},
}

var progressRecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record one performance metric (local mode only)",
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
			return fmt.Errorf("recording progress requires local mode; the server owns its own records")
		}

		metric, _ := cmd.Flags().GetString("metric")
		value, _ := cmd.Flags().GetFloat64("value")

		rec := progress.Record{
			Subject:     resolveSubject(cmd),
			MetricName:  metric,
			MetricValue: value,
			RecordedAt:  time.Now().UTC(),
		}
		if err := engine.RecordProgress(cmd.Context(), userID, rec); err != nil {
			return err
		}
		fmt.Printf("Recorded %s = %.1f\n", metric, value)
		return nil
	},
}
