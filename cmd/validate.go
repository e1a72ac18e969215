package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/surfer/internal/config"
	"github.com/papapumpkin/surfer/internal/graph"
	"github.com/papapumpkin/surfer/internal/rank"
)

var validateCmd = &cobra.Command{
	Use:   "validate <graph-file>",
	Short: "Check that a graph file parses and yields a valid transition matrix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		g, err := graph.Load(args[0])
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ graph: %v\n", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ graph parsed: %d nodes, %d links\n", g.N, g.EdgeCount())

		if dangling := g.Dangling(); len(dangling) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "· %d dangling node(s) teleport uniformly: %v\n", len(dangling), dangling)
		}

		if _, err := rank.ForGraph(g, cfg.Damping); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ transition matrix: %v\n", err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ transition matrix is row-stochastic (damping %g)\n", cfg.Damping)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
