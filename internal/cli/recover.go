package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/g3labs/g3/internal/config"
	"github.com/g3labs/g3/internal/planner"
	"github.com/g3labs/g3/internal/planstore"
)

var (
	recoverVerbose bool
	recoverNoColor bool
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Resume or discard a prior interrupted run",
	Long: `recover checks the plan directory for a requirements or todo file
left behind by a run that never reached its commit, and if one is found,
drives the same planner loop as 'g3 run' — which will ask the operator
whether to resume it, mark it already complete, or quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(codepath)
		if err != nil {
			return err
		}
		store, err := planstore.New(cfg.PlanDir(codepath))
		if err != nil {
			return err
		}
		if _, hasState := planner.DetectRecovery(store); !hasState {
			fmt.Println("Nothing to recover: no in-progress requirement cycle was found.")
			return nil
		}

		sess, err := newSession(recoverVerbose, recoverNoColor)
		if err != nil {
			return err
		}
		defer sess.close()

		p := sess.newPlanner()
		return p.Run(context.Background())
	},
}

func init() {
	recoverCmd.Flags().BoolVarP(&recoverVerbose, "verbose", "v", false, "enable debug-level diagnostics")
	recoverCmd.Flags().BoolVar(&recoverNoColor, "no-color", false, "disable ANSI color output")
	rootCmd.AddCommand(recoverCmd)
}
