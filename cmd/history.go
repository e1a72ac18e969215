package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/surfer/internal/config"
	"github.com/papapumpkin/surfer/internal/report"
	"github.com/papapumpkin/surfer/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List stored ranking runs, or show one run",
	Long: `Without arguments, lists the most recent runs in the run store.
With a run ID, prints that run's scores in the configured format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum runs to list")
	historyCmd.Flags().String("graph", "", "only list runs for this graph fingerprint")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.StorePath == "" {
		return errors.New("history: no run store configured (set store_path or SURFER_STORE_PATH)")
	}
	logger := newLogger(cmd, cfg.Verbose)

	s, err := store.NewSQLiteStore(cmd.Context(), cfg.StorePath, logger)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		run, err := s.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout(), viper.GetString("format"), reportFromRun(run))
	}

	limit, _ := cmd.Flags().GetInt("limit")
	graphID, _ := cmd.Flags().GetString("graph")
	runs, err := s.ListRuns(cmd.Context(), graphID, limit)
	if err != nil {
		return err
	}
	return writeRunList(cmd.OutOrStdout(), runs)
}

func writeRunList(w io.Writer, runs []store.Run) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "no runs recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tGRAPH\tNODES\tMETHOD\tDAMPING\tSTEPS\tWALKERS\tCREATED")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%g\t%d\t%d\t%s\n",
			r.ID, r.Graph, r.Nodes, r.Method, r.Damping, r.Steps, r.Walkers, r.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}

func reportFromRun(run store.Run) report.Report {
	return report.Report{
		RunID:   run.ID,
		Graph:   run.Graph,
		Nodes:   run.Nodes,
		Method:  run.Method,
		Damping: run.Damping,
		Steps:   run.Steps,
		Start:   run.Start,
		Seed:    run.Seed,
		Walkers: run.Walkers,
		Scores:  report.Build(run.Scores, run.Visits, nil),
	}
}
