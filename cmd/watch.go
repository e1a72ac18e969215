package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/surfer/internal/config"
	"github.com/papapumpkin/surfer/internal/graph"
	"github.com/papapumpkin/surfer/internal/report"
	"github.com/papapumpkin/surfer/internal/telemetry"
	"github.com/papapumpkin/surfer/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <graph-file>",
	Short: "Re-rank a graph file every time it changes",
	Long: `Ranks the graph once, then watches the file and ranks it again after
each save. Uses the same flags and config keys as rank. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	// Share rank's flag set so both commands read the same viper keys.
	watchCmd.Flags().AddFlagSet(rankCmd.Flags())
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	p, err := openPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	rankOnce := func(g *graph.Graph) {
		rep, err := p.run(ctx, g)
		if err != nil {
			logger.Error("ranking failed", "path", args[0], "err", err)
			return
		}
		if err := report.Write(cmd.OutOrStdout(), cfg.Format, rep); err != nil {
			logger.Error("writing report failed", "err", err)
		}
	}

	if g, err := graph.Load(args[0]); err != nil {
		logger.Warn("initial load failed; waiting for a valid file", "err", err)
	} else {
		rankOnce(g)
	}

	w, err := watch.NewWatcher(args[0], logger)
	if err != nil {
		return err
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watch %s: %w", args[0], err)
	}
	defer w.Stop()
	logger.Info("watching for changes", "path", w.Path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-w.Changes:
			if !ok {
				return nil
			}
			if c.Err != nil {
				logger.Warn("graph reload failed", "path", c.Path, "err", c.Err)
				continue
			}
			p.emit(telemetry.KindGraphChanged, "", c.Graph.Fingerprint(), map[string]int{"nodes": c.Graph.N})
			rankOnce(c.Graph)
		}
	}
}
