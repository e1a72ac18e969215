package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/papapumpkin/surfer/internal/config"
	"github.com/papapumpkin/surfer/internal/graph"
	"github.com/papapumpkin/surfer/internal/report"
)

var rankCmd = &cobra.Command{
	Use:   "rank <graph-file>",
	Short: "Estimate page popularity for a link graph",
	Long: `Reads a graph file (node count, then one "from to" pair per link) and
ranks its nodes.

With --method random (default) the random surfer walks --steps steps and
each node's score is the share of steps that landed on it. With
--method markov the surfer's distribution is propagated exactly for
--steps iterations instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	f := rankCmd.Flags()
	f.StringP("method", "m", config.MethodRandom, "estimator: random or markov")
	f.IntP("steps", "n", 1000, "walk length (random) or iteration count (markov)")
	f.Float64P("damping", "d", 0.9, "probability of following a link instead of teleporting")
	f.Int("start", 0, "node the surfer starts on")
	f.Uint64("seed", 0, "random seed (0 picks one from the clock)")
	f.Int("walkers", 1, "independent walks to run and merge (random only)")
	f.Float64("epsilon", 0, "stop power iteration early below this L1 change (markov only)")
	f.StringP("format", "o", "table", "output format: table, plain, json, toml, yaml")
	f.String("store", "", "SQLite file to record the run in")
	f.String("telemetry", "", "JSONL file to append run events to")

	for key, flag := range map[string]string{
		"method":         "method",
		"steps":          "steps",
		"damping":        "damping",
		"start":          "start",
		"seed":           "seed",
		"walkers":        "walkers",
		"epsilon":        "epsilon",
		"format":         "format",
		"store_path":     "store",
		"telemetry_path": "telemetry",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger := newLogger(cmd, cfg.Verbose)

	g, err := graph.Load(args[0])
	if err != nil {
		return err
	}
	logger.Debug("graph loaded", "path", args[0], "nodes", g.N, "links", g.EdgeCount())

	p, err := openPipeline(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer p.Close()

	rep, err := p.run(cmd.Context(), g)
	if err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), cfg.Format, rep)
}
